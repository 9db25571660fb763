package royalty

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/pagination"
)

// Repository manages royalty report persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, report *models.RoyaltyReport) error
	ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.RoyaltyReport, error)
	ListAll(ctx context.Context, params pagination.Params) ([]models.RoyaltyReport, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a royalty report repository bound to the provided
// database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, report *models.RoyaltyReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

// ListForUser returns reports addressed to the user directly or to one of
// their artists or labels.
func (r *repository) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.RoyaltyReport, error) {
	artistIDs := r.db.Model(&models.Artist{}).Select("id").Where("user_id = ?", userID)
	labelIDs := r.db.Model(&models.Label{}).Select("id").Where("user_id = ?", userID)

	query := r.db.WithContext(ctx).Where(
		"user_id = ? OR artist_id IN (?) OR label_id IN (?)",
		userID, artistIDs, labelIDs,
	)
	return r.list(query, params)
}

func (r *repository) ListAll(ctx context.Context, params pagination.Params) ([]models.RoyaltyReport, error) {
	return r.list(r.db.WithContext(ctx), params)
}

func (r *repository) list(query *gorm.DB, params pagination.Params) ([]models.RoyaltyReport, error) {
	query = query.
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

	var items []models.RoyaltyReport
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
