package platforms

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/db"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	pkgerrors "github.com/SummySKJi/amplify-audio-sphere/pkg/errors"
)

// PlatformDTO is the outward representation of a distribution destination.
type PlatformDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	LogoURL   *string   `json:"logo_url,omitempty"`
	IsMain    bool      `json:"is_main"`
	CreatedAt time.Time `json:"created_at"`
}

// FromModel maps a persisted platform onto its DTO.
func FromModel(platform *models.Platform) *PlatformDTO {
	if platform == nil {
		return nil
	}
	return &PlatformDTO{
		ID:        platform.ID,
		Name:      platform.Name,
		LogoURL:   platform.LogoURL,
		IsMain:    platform.IsMain,
		CreatedAt: platform.CreatedAt,
	}
}

// CreatePlatformRequest is the admin payload for adding a destination.
type CreatePlatformRequest struct {
	Name    string  `json:"name" validate:"required,min=1,max=120"`
	LogoURL *string `json:"logo_url,omitempty" validate:"omitempty,url"`
	IsMain  bool    `json:"is_main"`
}

// UpdatePlatformRequest carries the editable platform fields. Nil means keep.
type UpdatePlatformRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	LogoURL *string `json:"logo_url,omitempty" validate:"omitempty,url"`
	IsMain  *bool   `json:"is_main,omitempty"`
}

// Repository manages platform persistence.
type Repository interface {
	Create(ctx context.Context, platform *models.Platform) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Platform, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Platform, error)
	List(ctx context.Context, mainOnly bool) ([]models.Platform, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a platform repository bound to the provided database.
func NewRepository(gdb *gorm.DB) Repository {
	return &repository{db: gdb}
}

func (r *repository) Create(ctx context.Context, platform *models.Platform) error {
	return r.db.WithContext(ctx).Create(platform).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Platform, error) {
	var platform models.Platform
	if err := r.db.WithContext(ctx).First(&platform, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &platform, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Platform, error) {
	var items []models.Platform
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) List(ctx context.Context, mainOnly bool) ([]models.Platform, error) {
	query := r.db.WithContext(ctx).Order("name ASC")
	if mainOnly {
		query = query.Where("is_main = ?", true)
	}
	var items []models.Platform
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Platform{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Platform{}, "id = ?", id).Error
}

// Service exposes the public catalog read and the admin CRUD.
type Service interface {
	List(ctx context.Context, mainOnly bool) ([]PlatformDTO, error)
	Create(ctx context.Context, req CreatePlatformRequest) (*PlatformDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdatePlatformRequest) (*PlatformDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ValidateIDs(ctx context.Context, ids []string) error
}

type service struct {
	repo Repository
}

// NewService constructs the platform service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "platform repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, mainOnly bool) ([]PlatformDTO, error) {
	rows, err := s.repo.List(ctx, mainOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list platforms")
	}
	items := make([]PlatformDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, *FromModel(&row))
	}
	return items, nil
}

func (s *service) Create(ctx context.Context, req CreatePlatformRequest) (*PlatformDTO, error) {
	platform := &models.Platform{
		Name:    strings.TrimSpace(req.Name),
		LogoURL: req.LogoURL,
		IsMain:  req.IsMain,
	}
	if err := s.repo.Create(ctx, platform); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "platform name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create platform")
	}
	return FromModel(platform), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdatePlatformRequest) (*PlatformDTO, error) {
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.LogoURL != nil {
		updates["logo_url"] = *req.LogoURL
	}
	if req.IsMain != nil {
		updates["is_main"] = *req.IsMain
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			if db.IsUniqueViolation(err, "") {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "platform name already exists")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update platform")
		}
	}
	return s.find(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete platform")
	}
	return nil
}

// ValidateIDs checks that every id parses and references a known platform.
func (s *service) ValidateIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one platform is required")
	}

	parsed := make([]uuid.UUID, 0, len(ids))
	seen := map[uuid.UUID]struct{}{}
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid platform id")
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		parsed = append(parsed, id)
	}

	found, err := s.repo.FindByIDs(ctx, parsed)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup platforms")
	}
	if len(found) != len(parsed) {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown platform id")
	}
	return nil
}

func (s *service) find(ctx context.Context, id uuid.UUID) (*PlatformDTO, error) {
	platform, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "platform not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load platform")
	}
	return FromModel(platform), nil
}
