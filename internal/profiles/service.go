package profiles

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/config"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/enums"
	pkgerrors "github.com/SummySKJi/amplify-audio-sphere/pkg/errors"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/pagination"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/security"
)

// Service exposes self-service profile operations plus the admin account
// management surface.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
	Update(ctx context.Context, userID uuid.UUID, req UpdateProfileDTO) (*ProfileDTO, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error

	AdminList(ctx context.Context, search string, params pagination.Params) (*ProfilePage, error)
	AdminSetActive(ctx context.Context, userID uuid.UUID, active bool) (*ProfileDTO, error)
	AdminSetRole(ctx context.Context, userID uuid.UUID, role string) (*ProfileDTO, error)
}

// ServiceParams bundles the profile service dependencies.
type ServiceParams struct {
	Repository *Repository
	Password   config.PasswordConfig
	Auth       config.AuthConfig
}

type service struct {
	repo        *Repository
	passwordCfg config.PasswordConfig
	authCfg     config.AuthConfig
}

// NewService constructs a profile service backed by the provided repository.
func NewService(params ServiceParams) (Service, error) {
	if params.Repository == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "profile repository required")
	}
	return &service{
		repo:        params.Repository,
		passwordCfg: params.Password,
		authCfg:     params.Auth,
	}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	profile, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}
	return FromModel(profile), nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, req UpdateProfileDTO) (*ProfileDTO, error) {
	updates := map[string]any{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if len(updates) == 0 {
		return s.Get(ctx, userID)
	}

	if err := s.repo.UpdateFields(ctx, userID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}
	return s.Get(ctx, userID)
}

func (s *service) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	if len(req.NewPassword) < s.authCfg.MinPasswordLength {
		return pkgerrors.New(pkgerrors.CodeValidation, "password too short")
	}

	profile, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}

	ok, err := security.VerifyPassword(req.CurrentPassword, profile.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	hash, err := security.HashPassword(req.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store password")
	}
	return nil
}

func (s *service) AdminList(ctx context.Context, search string, params pagination.Params) (*ProfilePage, error) {
	rows, err := s.repo.List(ctx, search, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list profiles")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	page := &ProfilePage{Items: make([]ProfileDTO, 0, len(rows))}
	for i, row := range rows {
		if i == limit {
			last := page.Items[len(page.Items)-1]
			page.NextCursor = pagination.Next(last.CreatedAt, last.ID)
			break
		}
		page.Items = append(page.Items, *FromModel(&row))
	}
	return page, nil
}

func (s *service) AdminSetActive(ctx context.Context, userID uuid.UUID, active bool) (*ProfileDTO, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateFields(ctx, userID, map[string]any{"active": active}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update active flag")
	}
	return s.Get(ctx, userID)
}

func (s *service) AdminSetRole(ctx context.Context, userID uuid.UUID, role string) (*ProfileDTO, error) {
	parsed, err := enums.ParseUserRole(role)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid user role")
	}
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRole(ctx, userID, parsed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update role")
	}
	return s.Get(ctx, userID)
}
