package labels

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/pagination"
)

// Repository manages label persistence.
type Repository interface {
	Create(ctx context.Context, label *models.Label) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Label, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Label, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountReleases(ctx context.Context, labelID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a label repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, label *models.Label) error {
	return r.db.WithContext(ctx).Create(label).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Label, error) {
	var label models.Label
	if err := r.db.WithContext(ctx).First(&label, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &label, nil
}

func (r *repository) ListByUserID(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Label, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

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

	var items []models.Label
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Label{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Label{}, "id = ?", id).Error
}

// CountReleases reports how many releases reference the label.
func (r *repository) CountReleases(ctx context.Context, labelID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Release{}).
		Where("label_id = ?", labelID).
		Count(&count).Error
	return count, err
}
