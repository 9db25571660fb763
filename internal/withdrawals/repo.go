package withdrawals

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/enums"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/pagination"
)

// Repository manages withdrawal request persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, request *models.WithdrawalRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, filter ListFilter, params pagination.Params) ([]models.WithdrawalRequest, error)
	ListAll(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.WithdrawalRequest, error)
	UpdateFromStatus(ctx context.Context, id uuid.UUID, from enums.RequestStatus, updates map[string]any) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a withdrawal repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, request *models.WithdrawalRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error) {
	var request models.WithdrawalRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) ListByUserID(ctx context.Context, userID uuid.UUID, filter ListFilter, params pagination.Params) ([]models.WithdrawalRequest, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	return r.list(query, filter, params)
}

func (r *repository) ListAll(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.WithdrawalRequest, error) {
	return r.list(r.db.WithContext(ctx), filter, params)
}

func (r *repository) list(query *gorm.DB, filter ListFilter, params pagination.Params) ([]models.WithdrawalRequest, error) {
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

	var items []models.WithdrawalRequest
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateFromStatus writes updates only while the row still holds the
// expected status. Returns false when a concurrent decision got there
// first, so a completion can never apply twice.
func (r *repository) UpdateFromStatus(ctx context.Context, id uuid.UUID, from enums.RequestStatus, updates map[string]any) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.WithdrawalRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
