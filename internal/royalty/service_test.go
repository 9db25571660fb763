package royalty

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/SummySKJi/amplify-audio-sphere/internal/wallet"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/enums"
	pkgerrors "github.com/SummySKJi/amplify-audio-sphere/pkg/errors"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/pagination"
)

type stubReportRepo struct {
	reports   []models.RoyaltyReport
	createErr error
}

func (s *stubReportRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubReportRepo) Create(ctx context.Context, report *models.RoyaltyReport) error {
	if s.createErr != nil {
		return s.createErr
	}
	report.ID = uuid.New()
	s.reports = append(s.reports, *report)
	return nil
}

func (s *stubReportRepo) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.RoyaltyReport, error) {
	var out []models.RoyaltyReport
	for _, report := range s.reports {
		if report.UserID != nil && *report.UserID == userID {
			out = append(out, report)
		}
	}
	return out, nil
}

func (s *stubReportRepo) ListAll(ctx context.Context, params pagination.Params) ([]models.RoyaltyReport, error) {
	return s.reports, nil
}

type stubMediaFinder struct {
	media map[string]*models.Media
}

func (s *stubMediaFinder) FindByObjectKey(ctx context.Context, objectKey string) (*models.Media, error) {
	media, ok := s.media[objectKey]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return media, nil
}

type stubSigner struct{}

func (stubSigner) DownloadURL(ctx context.Context, objectKey string) (string, error) {
	return "https://signed.example.com/" + objectKey, nil
}

type stubArtistFinder struct {
	artists map[uuid.UUID]*models.Artist
}

func (s *stubArtistFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Artist, error) {
	artist, ok := s.artists[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return artist, nil
}

type stubLabelFinder struct {
	labels map[uuid.UUID]*models.Label
}

func (s *stubLabelFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Label, error) {
	label, ok := s.labels[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return label, nil
}

type stubProfileFinder struct {
	profiles map[uuid.UUID]*models.Profile
}

func (s *stubProfileFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile, ok := s.profiles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return profile, nil
}

type stubWalletRepo struct {
	wallet       *models.Wallet
	transactions []models.Transaction
}

func (s *stubWalletRepo) WithTx(tx *gorm.DB) wallet.Repository { return s }

func (s *stubWalletRepo) Create(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	panic("unused")
}

func (s *stubWalletRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	if s.wallet == nil || s.wallet.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *s.wallet
	return &clone, nil
}

func (s *stubWalletRepo) FindByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	return s.FindByUserID(ctx, userID)
}

func (s *stubWalletRepo) UpdateBalance(ctx context.Context, walletID uuid.UUID, balance decimal.Decimal) error {
	s.wallet.Balance = balance
	return nil
}

func (s *stubWalletRepo) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	s.transactions = append(s.transactions, *txn)
	return nil
}

func (s *stubWalletRepo) ListTransactions(ctx context.Context, walletID uuid.UUID, params pagination.Params) ([]models.Transaction, error) {
	return s.transactions, nil
}

// rollbackTxRunner restores the wallet snapshot when the callback errors,
// mirroring a database rollback.
type rollbackTxRunner struct {
	wallets *stubWalletRepo
}

func (r rollbackTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	snapshot := *r.wallets.wallet
	ledgerLen := len(r.wallets.transactions)
	if err := fn(nil); err != nil {
		*r.wallets.wallet = snapshot
		r.wallets.transactions = r.wallets.transactions[:ledgerLen]
		return err
	}
	return nil
}

type royaltyTestFixture struct {
	svc      Service
	repo     *stubReportRepo
	wallets  *stubWalletRepo
	userID   uuid.UUID
	artistID uuid.UUID
	labelID  uuid.UUID
}

func royaltyTestSetup(t *testing.T) *royaltyTestFixture {
	t.Helper()

	userID := uuid.New()
	artistID := uuid.New()
	labelID := uuid.New()

	repo := &stubReportRepo{}
	wallets := &stubWalletRepo{
		wallet: &models.Wallet{ID: uuid.New(), UserID: userID, Balance: decimal.Zero},
	}

	svc, err := NewService(ServiceParams{
		TxRunner:   rollbackTxRunner{wallets: wallets},
		Repository: repo,
		Media: &stubMediaFinder{media: map[string]*models.Media{
			"royalty_report/admin/q1.pdf": {
				ObjectKey: "royalty_report/admin/q1.pdf",
				Kind:      enums.MediaKindRoyaltyReport,
				MimeType:  "application/pdf",
			},
			"audio/admin/track.mp3": {
				ObjectKey: "audio/admin/track.mp3",
				Kind:      enums.MediaKindAudio,
				MimeType:  "audio/mpeg",
			},
		}},
		Signer: stubSigner{},
		Artists: &stubArtistFinder{artists: map[uuid.UUID]*models.Artist{
			artistID: {ID: artistID, UserID: userID},
		}},
		Labels: &stubLabelFinder{labels: map[uuid.UUID]*models.Label{
			labelID: {ID: labelID, UserID: userID},
		}},
		Profiles: &stubProfileFinder{profiles: map[uuid.UUID]*models.Profile{
			userID: {ID: userID, Email: "asha@example.com"},
		}},
		Wallets: wallets,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &royaltyTestFixture{
		svc:      svc,
		repo:     repo,
		wallets:  wallets,
		userID:   userID,
		artistID: artistID,
		labelID:  labelID,
	}
}

func TestAdminUploadRequiresSingleTarget(t *testing.T) {
	fx := royaltyTestSetup(t)
	userID := fx.userID.String()
	artistID := fx.artistID.String()

	cases := []struct {
		name string
		req  UploadReportRequest
	}{
		{"none", UploadReportRequest{ReportPeriod: "2026-Q1", FileObjectKey: "royalty_report/admin/q1.pdf"}},
		{"two", UploadReportRequest{
			ReportPeriod:  "2026-Q1",
			FileObjectKey: "royalty_report/admin/q1.pdf",
			UserID:        &userID,
			ArtistID:      &artistID,
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fx.svc.AdminUpload(context.Background(), tc.req)
			if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
				t.Fatalf("code = %s, want %s", pkgerrors.CodeOf(err), pkgerrors.CodeValidation)
			}
		})
	}
}

func TestAdminUploadRejectsNonReportUpload(t *testing.T) {
	fx := royaltyTestSetup(t)
	userID := fx.userID.String()

	_, err := fx.svc.AdminUpload(context.Background(), UploadReportRequest{
		ReportPeriod:  "2026-Q1",
		FileObjectKey: "audio/admin/track.mp3",
		UserID:        &userID,
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("code = %s, want %s", pkgerrors.CodeOf(err), pkgerrors.CodeValidation)
	}
}

func TestAdminUploadForArtistCreditsOwner(t *testing.T) {
	fx := royaltyTestSetup(t)
	artistID := fx.artistID.String()
	amount := decimal.RequireFromString("1250.75")

	dto, err := fx.svc.AdminUpload(context.Background(), UploadReportRequest{
		ReportPeriod:  "2026-Q1",
		FileObjectKey: "royalty_report/admin/q1.pdf",
		ArtistID:      &artistID,
		CreditAmount:  &amount,
	})
	if err != nil {
		t.Fatalf("AdminUpload: %v", err)
	}
	if dto.ArtistID == nil || *dto.ArtistID != fx.artistID {
		t.Fatal("report should target the artist")
	}
	if dto.FileType != "application/pdf" {
		t.Fatalf("file type = %s, want application/pdf", dto.FileType)
	}
	if !fx.wallets.wallet.Balance.Equal(amount) {
		t.Fatalf("balance = %s, want %s", fx.wallets.wallet.Balance, amount)
	}
	if len(fx.wallets.transactions) != 1 {
		t.Fatalf("ledger entries = %d, want 1", len(fx.wallets.transactions))
	}
	if fx.wallets.transactions[0].Type != enums.TransactionTypeEarnings {
		t.Fatalf("transaction type = %s, want earnings", fx.wallets.transactions[0].Type)
	}
}

func TestAdminUploadWithoutCreditSkipsWallet(t *testing.T) {
	fx := royaltyTestSetup(t)
	userID := fx.userID.String()

	if _, err := fx.svc.AdminUpload(context.Background(), UploadReportRequest{
		ReportPeriod:  "2026-Q1",
		FileObjectKey: "royalty_report/admin/q1.pdf",
		UserID:        &userID,
	}); err != nil {
		t.Fatalf("AdminUpload: %v", err)
	}
	if !fx.wallets.wallet.Balance.Equal(decimal.Zero) || len(fx.wallets.transactions) != 0 {
		t.Fatal("wallet should not be touched")
	}
}

func TestAdminUploadRollsBackCreditWhenReportFails(t *testing.T) {
	fx := royaltyTestSetup(t)
	userID := fx.userID.String()
	amount := decimal.RequireFromString("800")
	fx.repo.createErr = gorm.ErrInvalidData

	_, err := fx.svc.AdminUpload(context.Background(), UploadReportRequest{
		ReportPeriod:  "2026-Q1",
		FileObjectKey: "royalty_report/admin/q1.pdf",
		UserID:        &userID,
		CreditAmount:  &amount,
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeInternal {
		t.Fatalf("code = %s, want %s", pkgerrors.CodeOf(err), pkgerrors.CodeInternal)
	}
	if !fx.wallets.wallet.Balance.Equal(decimal.Zero) {
		t.Fatalf("balance = %s, credit should roll back with the report", fx.wallets.wallet.Balance)
	}
	if len(fx.wallets.transactions) != 0 {
		t.Fatal("ledger entry should roll back with the report")
	}
}

func TestListSignsDownloadURLs(t *testing.T) {
	fx := royaltyTestSetup(t)
	userID := fx.userID.String()

	if _, err := fx.svc.AdminUpload(context.Background(), UploadReportRequest{
		ReportPeriod:  "2026-Q1",
		FileObjectKey: "royalty_report/admin/q1.pdf",
		UserID:        &userID,
	}); err != nil {
		t.Fatalf("AdminUpload: %v", err)
	}

	page, err := fx.svc.List(context.Background(), fx.userID, pagination.Params{Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(page.Items))
	}
	if page.Items[0].DownloadURL != "https://signed.example.com/royalty_report/admin/q1.pdf" {
		t.Fatalf("download url = %s", page.Items[0].DownloadURL)
	}
}
