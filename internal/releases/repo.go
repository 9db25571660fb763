package releases

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/pagination"
)

// Repository manages release persistence.
type Repository interface {
	Create(ctx context.Context, release *models.Release) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Release, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, filter ListFilter, params pagination.Params) ([]models.Release, error)
	ListAll(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Release, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a release repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, release *models.Release) error {
	return r.db.WithContext(ctx).Create(release).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Release, error) {
	var release models.Release
	if err := r.db.WithContext(ctx).First(&release, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &release, nil
}

func (r *repository) ListByUserID(ctx context.Context, userID uuid.UUID, filter ListFilter, params pagination.Params) ([]models.Release, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	return r.list(ctx, query, filter, params)
}

func (r *repository) ListAll(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Release, error) {
	return r.list(ctx, r.db.WithContext(ctx), filter, params)
}

func (r *repository) list(ctx context.Context, query *gorm.DB, filter ListFilter, params pagination.Params) ([]models.Release, error) {
	query = query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var items []models.Release
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Release{}).
		Where("id = ?", id).
		Updates(updates).Error
}
