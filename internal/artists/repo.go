package artists

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/pagination"
)

// Repository manages artist persistence.
type Repository interface {
	Create(ctx context.Context, artist *models.Artist) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Artist, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Artist, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountReleases(ctx context.Context, artistID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an artist repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, artist *models.Artist) error {
	return r.db.WithContext(ctx).Create(artist).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Artist, error) {
	var artist models.Artist
	if err := r.db.WithContext(ctx).First(&artist, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &artist, nil
}

func (r *repository) ListByUserID(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Artist, error) {
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

	var items []models.Artist
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Artist{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Artist{}, "id = ?", id).Error
}

// CountReleases reports how many releases reference the artist.
func (r *repository) CountReleases(ctx context.Context, artistID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Release{}).
		Where("artist_id = ?", artistID).
		Count(&count).Error
	return count, err
}
