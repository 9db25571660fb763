package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/config"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	pkgerrors "github.com/SummySKJi/amplify-audio-sphere/pkg/errors"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/logger"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/security"
)

const resetTokenBytes = 32

// PasswordResetService drives the forgot/reset password flow. Tokens are
// single-use: the reset consumes the redis key atomically.
type PasswordResetService interface {
	Forgot(ctx context.Context, req ForgotPasswordRequest) error
	Reset(ctx context.Context, req ResetPasswordRequest) error
}

type resetProfileRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

type resetTokenStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	GetDel(ctx context.Context, key string) (string, error)
	PasswordResetKey(token string) string
}

type resetMailer interface {
	SendPasswordReset(ctx context.Context, toEmail, toName, token string) error
}

type passwordResetService struct {
	profiles    resetProfileRepository
	store       resetTokenStore
	mailer      resetMailer
	passwordCfg config.PasswordConfig
	authCfg     config.AuthConfig
	logg        *logger.Logger
}

// PasswordResetServiceParams bundles the reset flow dependencies.
type PasswordResetServiceParams struct {
	ProfileRepo    resetProfileRepository
	TokenStore     resetTokenStore
	Mailer         resetMailer
	PasswordConfig config.PasswordConfig
	AuthConfig     config.AuthConfig
	Logger         *logger.Logger
}

// NewPasswordResetService builds the password reset service.
func NewPasswordResetService(params PasswordResetServiceParams) (PasswordResetService, error) {
	if params.ProfileRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "profile repository required")
	}
	if params.TokenStore == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "token store required")
	}
	return &passwordResetService{
		profiles:    params.ProfileRepo,
		store:       params.TokenStore,
		mailer:      params.Mailer,
		passwordCfg: params.PasswordConfig,
		authCfg:     params.AuthConfig,
		logg:        params.Logger,
	}, nil
}

// Forgot issues a reset token for the given email. A missing account is not
// reported to the caller.
func (s *passwordResetService) Forgot(ctx context.Context, req ForgotPasswordRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	profile, err := s.profiles.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup profile")
	}
	if !profile.Active {
		return nil
	}

	token, err := security.GenerateToken(resetTokenBytes)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate reset token")
	}

	key := s.store.PasswordResetKey(token)
	if err := s.store.Set(ctx, key, profile.ID.String(), s.authCfg.ResetTokenTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store reset token")
	}

	if s.mailer != nil {
		if err := s.mailer.SendPasswordReset(ctx, profile.Email, profile.FullName, token); err != nil {
			if s.logg != nil {
				s.logg.Error(ctx, "password reset mail failed", err)
			}
		}
	}
	return nil
}

// Reset consumes the token and replaces the profile's credential hash.
func (s *passwordResetService) Reset(ctx context.Context, req ResetPasswordRequest) error {
	token := strings.TrimSpace(req.Token)
	if token == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "token is required")
	}
	if len(req.NewPassword) < s.authCfg.MinPasswordLength {
		return pkgerrors.New(pkgerrors.CodeValidation, "password too short")
	}

	value, err := s.store.GetDel(ctx, s.store.PasswordResetKey(token))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired token")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume reset token")
	}

	profileID, err := uuid.Parse(value)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse reset token subject")
	}

	hash, err := security.HashPassword(req.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.profiles.UpdatePasswordHash(ctx, profileID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
	}
	return nil
}
