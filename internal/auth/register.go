package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SummySKJi/amplify-audio-sphere/internal/profiles"
	"github.com/SummySKJi/amplify-audio-sphere/internal/wallet"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/config"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	pkgerrors "github.com/SummySKJi/amplify-audio-sphere/pkg/errors"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/logger"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/security"
)

// RegisterRequest contains the payload required for onboarding a customer.
type RegisterRequest struct {
	FullName string  `json:"full_name" validate:"required,min=1,max=120"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=20"`
}

// RegisterService handles the onboarding transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*profiles.ProfileDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type registerProfileRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
	Create(ctx context.Context, dto profiles.CreateProfileDTO) (*models.Profile, error)
}

type registerWalletRepository interface {
	Create(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
}

type welcomeMailer interface {
	SendWelcome(ctx context.Context, toEmail, toName string) error
}

// RegisterServiceParams packages the dependencies for the registration flow.
// The repo factories bind repositories to the transaction that wraps the
// whole onboarding write.
type RegisterServiceParams struct {
	TxRunner           txRunner
	ProfileRepoFactory func(tx *gorm.DB) registerProfileRepository
	WalletRepoFactory  func(tx *gorm.DB) registerWalletRepository
	Mailer             welcomeMailer
	PasswordConfig     config.PasswordConfig
	AuthConfig         config.AuthConfig
	Logger             *logger.Logger
}

type registerService struct {
	tx          txRunner
	profileRepo func(tx *gorm.DB) registerProfileRepository
	walletRepo  func(tx *gorm.DB) registerWalletRepository
	mailer      welcomeMailer
	passwordCfg config.PasswordConfig
	authCfg     config.AuthConfig
	logg        *logger.Logger
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.ProfileRepoFactory == nil {
		params.ProfileRepoFactory = func(tx *gorm.DB) registerProfileRepository {
			return profiles.NewRepository(tx)
		}
	}
	if params.WalletRepoFactory == nil {
		params.WalletRepoFactory = func(tx *gorm.DB) registerWalletRepository {
			return wallet.NewRepository(tx)
		}
	}
	return &registerService{
		tx:          params.TxRunner,
		profileRepo: params.ProfileRepoFactory,
		walletRepo:  params.WalletRepoFactory,
		mailer:      params.Mailer,
		passwordCfg: params.PasswordConfig,
		authCfg:     params.AuthConfig,
		logg:        params.Logger,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*profiles.ProfileDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(req.Password) < s.authCfg.MinPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password too short")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *profiles.ProfileDTO
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		profileRepo := s.profileRepo(tx)
		walletRepo := s.walletRepo(tx)

		if _, err := profileRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check profile email")
		}

		profile, err := profileRepo.Create(ctx, profiles.CreateProfileDTO{
			FullName:     strings.TrimSpace(req.FullName),
			Email:        email,
			Phone:        req.Phone,
			PasswordHash: passwordHash,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create profile")
		}

		if _, err := walletRepo.Create(ctx, profile.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create wallet")
		}

		created = profiles.FromModel(profile)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Mail failures never fail the signup.
	if s.mailer != nil {
		if err := s.mailer.SendWelcome(ctx, created.Email, created.FullName); err != nil && s.logg != nil {
			s.logg.Error(ctx, "welcome mail failed", err)
		}
	}
	return created, nil
}
