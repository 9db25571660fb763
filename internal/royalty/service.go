package royalty

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/SummySKJi/amplify-audio-sphere/internal/wallet"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/enums"
	pkgerrors "github.com/SummySKJi/amplify-audio-sphere/pkg/errors"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/logger"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/pagination"
)

type mediaChecker interface {
	FindByObjectKey(ctx context.Context, objectKey string) (*models.Media, error)
}

type urlSigner interface {
	DownloadURL(ctx context.Context, objectKey string) (string, error)
}

type artistFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Artist, error)
}

type labelFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Label, error)
}

type profileFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service publishes royalty reports and lists them for their targets.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ReportPage, error)

	AdminUpload(ctx context.Context, req UploadReportRequest) (*ReportDTO, error)
	AdminList(ctx context.Context, params pagination.Params) (*ReportPage, error)
}

// ServiceParams bundles the royalty service dependencies.
type ServiceParams struct {
	TxRunner   txRunner
	Repository Repository
	Media      mediaChecker
	Signer     urlSigner
	Artists    artistFinder
	Labels     labelFinder
	Profiles   profileFinder
	Wallets    wallet.Repository
	Logger     *logger.Logger
}

type service struct {
	tx       txRunner
	repo     Repository
	media    mediaChecker
	signer   urlSigner
	artists  artistFinder
	labels   labelFinder
	profiles profileFinder
	wallets  wallet.Repository
	logg     *logger.Logger
}

// NewService constructs the royalty service.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("royalty repository required")
	}
	if params.Media == nil {
		return nil, fmt.Errorf("media checker required")
	}
	if params.Artists == nil || params.Labels == nil || params.Profiles == nil {
		return nil, fmt.Errorf("target finders required")
	}
	if params.Wallets == nil {
		return nil, fmt.Errorf("wallet repository required")
	}
	return &service{
		tx:       params.TxRunner,
		repo:     params.Repository,
		media:    params.Media,
		signer:   params.Signer,
		artists:  params.Artists,
		labels:   params.Labels,
		profiles: params.Profiles,
		wallets:  params.Wallets,
		logg:     params.Logger,
	}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ReportPage, error) {
	rows, err := s.repo.ListForUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list royalty reports")
	}
	return s.page(ctx, rows, params), nil
}

// AdminUpload registers a royalty report against exactly one target and
// optionally credits the target owner's wallet with the period's earnings.
func (s *service) AdminUpload(ctx context.Context, req UploadReportRequest) (*ReportDTO, error) {
	targets := 0
	for _, raw := range []*string{req.UserID, req.ArtistID, req.LabelID} {
		if raw != nil && *raw != "" {
			targets++
		}
	}
	if targets != 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "exactly one of user_id, artist_id or label_id is required")
	}

	media, err := s.media.FindByObjectKey(ctx, req.FileObjectKey)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load media")
	}
	if media == nil || media.Kind != enums.MediaKindRoyaltyReport {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown upload")
	}

	report := &models.RoyaltyReport{
		ReportPeriod:  req.ReportPeriod,
		FileObjectKey: req.FileObjectKey,
		FileType:      media.MimeType,
	}

	// The owner receives the report and any attached earnings.
	var ownerID uuid.UUID
	switch {
	case req.UserID != nil && *req.UserID != "":
		userID, err := uuid.Parse(*req.UserID)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid user id")
		}
		profile, err := s.profiles.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown user")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
		}
		report.UserID = &profile.ID
		ownerID = profile.ID

	case req.ArtistID != nil && *req.ArtistID != "":
		artistID, err := uuid.Parse(*req.ArtistID)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid artist id")
		}
		artist, err := s.artists.FindByID(ctx, artistID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown artist")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load artist")
		}
		report.ArtistID = &artist.ID
		ownerID = artist.UserID

	default:
		labelID, err := uuid.Parse(*req.LabelID)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid label id")
		}
		label, err := s.labels.FindByID(ctx, labelID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown label")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load label")
		}
		report.LabelID = &label.ID
		ownerID = label.UserID
	}

	if req.CreditAmount != nil && !req.CreditAmount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "credit amount must be positive")
	}

	// The credit and the report row land in one transaction so the money
	// never moves without the report that explains it.
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if req.CreditAmount != nil {
			description := fmt.Sprintf("royalty earnings %s", req.ReportPeriod)
			if req.CreditDescription != nil && *req.CreditDescription != "" {
				description = *req.CreditDescription
			}
			if err := s.credit(ctx, tx, ownerID, *req.CreditAmount, description); err != nil {
				return err
			}
		}
		if err := s.repo.WithTx(tx).Create(ctx, report); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create royalty report")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fromModel(report), nil
}

func (s *service) credit(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, amount decimal.Decimal, description string) error {
	wallets := s.wallets.WithTx(tx)

	ownWallet, err := wallets.FindByUserIDForUpdate(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "wallet not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lock wallet")
	}
	if err := wallets.UpdateBalance(ctx, ownWallet.ID, ownWallet.Balance.Add(amount)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update balance")
	}
	if err := wallets.CreateTransaction(ctx, &models.Transaction{
		WalletID:    ownWallet.ID,
		Type:        enums.TransactionTypeEarnings,
		Amount:      amount,
		Description: description,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record transaction")
	}
	return nil
}

func (s *service) AdminList(ctx context.Context, params pagination.Params) (*ReportPage, error) {
	rows, err := s.repo.ListAll(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list royalty reports")
	}
	return s.page(ctx, rows, params), nil
}

func (s *service) page(ctx context.Context, rows []models.RoyaltyReport, params pagination.Params) *ReportPage {
	limit := pagination.NormalizeLimit(params.Limit)
	page := &ReportPage{Items: make([]ReportDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			last := page.Items[len(page.Items)-1]
			page.NextCursor = pagination.Next(last.CreatedAt, last.ID)
			break
		}
		dto := fromModel(&rows[i])
		if s.signer != nil {
			url, err := s.signer.DownloadURL(ctx, dto.FileObjectKey)
			if err != nil {
				if s.logg != nil {
					s.logg.Error(ctx, "royalty report url signing failed", err)
				}
			} else {
				dto.DownloadURL = url
			}
		}
		page.Items = append(page.Items, *dto)
	}
	return page
}
