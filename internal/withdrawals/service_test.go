package withdrawals

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/SummySKJi/amplify-audio-sphere/internal/wallet"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/config"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/enums"
	pkgerrors "github.com/SummySKJi/amplify-audio-sphere/pkg/errors"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/pagination"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubWithdrawalRepo struct {
	requests map[uuid.UUID]*models.WithdrawalRequest
	updated  map[string]any

	// afterFind runs once after a FindByID, to interleave a concurrent
	// write between the load and the status update.
	afterFind func()
}

func newStubWithdrawalRepo() *stubWithdrawalRepo {
	return &stubWithdrawalRepo{requests: make(map[uuid.UUID]*models.WithdrawalRequest)}
}

func (s *stubWithdrawalRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubWithdrawalRepo) Create(ctx context.Context, request *models.WithdrawalRequest) error {
	request.ID = uuid.New()
	s.requests[request.ID] = request
	return nil
}

func (s *stubWithdrawalRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error) {
	request, ok := s.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *request
	if s.afterFind != nil {
		hook := s.afterFind
		s.afterFind = nil
		hook()
	}
	return &clone, nil
}

func (s *stubWithdrawalRepo) ListByUserID(ctx context.Context, userID uuid.UUID, filter ListFilter, params pagination.Params) ([]models.WithdrawalRequest, error) {
	var out []models.WithdrawalRequest
	for _, request := range s.requests {
		if request.UserID == userID {
			out = append(out, *request)
		}
	}
	return out, nil
}

func (s *stubWithdrawalRepo) ListAll(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.WithdrawalRequest, error) {
	var out []models.WithdrawalRequest
	for _, request := range s.requests {
		out = append(out, *request)
	}
	return out, nil
}

func (s *stubWithdrawalRepo) UpdateFromStatus(ctx context.Context, id uuid.UUID, from enums.RequestStatus, updates map[string]any) (bool, error) {
	request, ok := s.requests[id]
	if !ok || request.Status != from {
		return false, nil
	}
	s.updated = updates
	if status, ok := updates["status"].(enums.RequestStatus); ok {
		request.Status = status
	}
	return true, nil
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

func strPtr(v string) *string { return &v }

func withdrawalTestSetup(t *testing.T, balance string) (Service, *stubWithdrawalRepo, *stubWalletRepo, uuid.UUID) {
	t.Helper()

	userID := uuid.New()
	wallets := &stubWalletRepo{
		wallet: &models.Wallet{
			ID:      uuid.New(),
			UserID:  userID,
			Balance: decimal.RequireFromString(balance),
		},
	}
	repo := newStubWithdrawalRepo()

	svc, err := NewService(ServiceParams{
		TxRunner:   stubTxRunner{},
		Repository: repo,
		Wallets:    wallets,
		Payout:     config.PayoutConfig{MinWithdrawalAmount: decimal.RequireFromString("500")},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, repo, wallets, userID
}

func TestCreateWithUPIDestination(t *testing.T) {
	svc, repo, _, userID := withdrawalTestSetup(t, "1000")

	dto, err := svc.Create(context.Background(), userID, CreateWithdrawalRequest{
		Amount: decimal.RequireFromString("600"),
		UPIID:  strPtr("asha@upi"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dto.Status != enums.RequestStatusPending {
		t.Fatalf("status = %s, want pending", dto.Status)
	}
	if len(repo.requests) != 1 {
		t.Fatalf("requests stored = %d, want 1", len(repo.requests))
	}
}

func TestCreateRejectsBelowMinimum(t *testing.T) {
	svc, repo, _, userID := withdrawalTestSetup(t, "1000")

	_, err := svc.Create(context.Background(), userID, CreateWithdrawalRequest{
		Amount: decimal.RequireFromString("499"),
		UPIID:  strPtr("asha@upi"),
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("code = %s, want %s", pkgerrors.CodeOf(err), pkgerrors.CodeValidation)
	}
	if len(repo.requests) != 0 {
		t.Fatal("request should not be stored")
	}
}

func TestCreateRejectsAmountAboveBalance(t *testing.T) {
	svc, _, _, userID := withdrawalTestSetup(t, "550")

	_, err := svc.Create(context.Background(), userID, CreateWithdrawalRequest{
		Amount: decimal.RequireFromString("600"),
		UPIID:  strPtr("asha@upi"),
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeStateConflict {
		t.Fatalf("code = %s, want %s", pkgerrors.CodeOf(err), pkgerrors.CodeStateConflict)
	}
}

func TestCreateRequiresExactlyOneDestination(t *testing.T) {
	svc, _, _, userID := withdrawalTestSetup(t, "5000")
	amount := decimal.RequireFromString("600")

	cases := []struct {
		name string
		req  CreateWithdrawalRequest
	}{
		{"none", CreateWithdrawalRequest{Amount: amount}},
		{"both", CreateWithdrawalRequest{
			Amount:            amount,
			UPIID:             strPtr("asha@upi"),
			AccountHolderName: strPtr("Asha Rao"),
			AccountNumber:     strPtr("123456789012"),
			IFSCCode:          strPtr("HDFC0001234"),
		}},
		{"partial bank", CreateWithdrawalRequest{
			Amount:        amount,
			AccountNumber: strPtr("123456789012"),
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), userID, tc.req)
			if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
				t.Fatalf("code = %s, want %s", pkgerrors.CodeOf(err), pkgerrors.CodeValidation)
			}
		})
	}

	_, err := svc.Create(context.Background(), userID, CreateWithdrawalRequest{
		Amount:            amount,
		AccountHolderName: strPtr("Asha Rao"),
		AccountNumber:     strPtr("123456789012"),
		IFSCCode:          strPtr("HDFC0001234"),
	})
	if err != nil {
		t.Fatalf("full bank tuple should be accepted: %v", err)
	}
}

func TestAdminCompleteDebitsWallet(t *testing.T) {
	svc, repo, wallets, userID := withdrawalTestSetup(t, "1000")

	dto, err := svc.Create(context.Background(), userID, CreateWithdrawalRequest{
		Amount: decimal.RequireFromString("600"),
		UPIID:  strPtr("asha@upi"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, status := range []string{"approved", "completed"} {
		dto, err = svc.AdminUpdateStatus(context.Background(), dto.ID, UpdateStatusRequest{Status: status})
		if err != nil {
			t.Fatalf("AdminUpdateStatus(%s): %v", status, err)
		}
	}

	if dto.Status != enums.RequestStatusCompleted {
		t.Fatalf("status = %s, want completed", dto.Status)
	}
	if !wallets.wallet.Balance.Equal(decimal.RequireFromString("400")) {
		t.Fatalf("balance = %s, want 400", wallets.wallet.Balance)
	}
	if len(wallets.transactions) != 1 {
		t.Fatalf("transactions = %d, want 1", len(wallets.transactions))
	}
	if wallets.transactions[0].Type != enums.TransactionTypeWithdrawal {
		t.Fatalf("transaction type = %s, want withdrawal", wallets.transactions[0].Type)
	}
	if repo.requests[dto.ID].Status != enums.RequestStatusCompleted {
		t.Fatal("stored request should be completed")
	}
}

func TestAdminCompleteRejectsInsufficientBalance(t *testing.T) {
	svc, _, wallets, userID := withdrawalTestSetup(t, "1000")

	dto, err := svc.Create(context.Background(), userID, CreateWithdrawalRequest{
		Amount: decimal.RequireFromString("900"),
		UPIID:  strPtr("asha@upi"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Balance dropped between request and completion.
	wallets.wallet.Balance = decimal.RequireFromString("100")

	if _, err := svc.AdminUpdateStatus(context.Background(), dto.ID, UpdateStatusRequest{Status: "approved"}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	_, err = svc.AdminUpdateStatus(context.Background(), dto.ID, UpdateStatusRequest{Status: "completed"})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeStateConflict {
		t.Fatalf("code = %s, want %s", pkgerrors.CodeOf(err), pkgerrors.CodeStateConflict)
	}
	if len(wallets.transactions) != 0 {
		t.Fatal("no ledger entry should be written")
	}
}

func TestAdminCompleteLosesRaceToConcurrentDecision(t *testing.T) {
	svc, repo, _, userID := withdrawalTestSetup(t, "1000")

	dto, err := svc.Create(context.Background(), userID, CreateWithdrawalRequest{
		Amount: decimal.RequireFromString("600"),
		UPIID:  strPtr("asha@upi"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.AdminUpdateStatus(context.Background(), dto.ID, UpdateStatusRequest{Status: "approved"}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	// Another admin completes the request between our load and our write.
	repo.afterFind = func() {
		repo.requests[dto.ID].Status = enums.RequestStatusCompleted
	}

	_, err = svc.AdminUpdateStatus(context.Background(), dto.ID, UpdateStatusRequest{Status: "completed"})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeStateConflict {
		t.Fatalf("code = %s, want %s", pkgerrors.CodeOf(err), pkgerrors.CodeStateConflict)
	}
	if repo.requests[dto.ID].Status != enums.RequestStatusCompleted {
		t.Fatal("stored status should keep the concurrent decision")
	}
}

func TestAdminUpdateStatusGuardsTerminalStates(t *testing.T) {
	svc, _, _, userID := withdrawalTestSetup(t, "1000")

	dto, err := svc.Create(context.Background(), userID, CreateWithdrawalRequest{
		Amount: decimal.RequireFromString("600"),
		UPIID:  strPtr("asha@upi"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.AdminUpdateStatus(context.Background(), dto.ID, UpdateStatusRequest{Status: "rejected", Notes: strPtr("kyc failed")}); err != nil {
		t.Fatalf("reject: %v", err)
	}
	_, err = svc.AdminUpdateStatus(context.Background(), dto.ID, UpdateStatusRequest{Status: "approved"})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeStateConflict {
		t.Fatalf("code = %s, want %s", pkgerrors.CodeOf(err), pkgerrors.CodeStateConflict)
	}
}
