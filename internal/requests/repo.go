package requests

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/pagination"
)

// CopyrightRemovalRepository manages copyright removal request persistence.
type CopyrightRemovalRepository interface {
	Create(ctx context.Context, request *models.CopyrightRemovalRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.CopyrightRemovalRequest, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, filter ListFilter, params pagination.Params) ([]models.CopyrightRemovalRequest, error)
	ListAll(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.CopyrightRemovalRequest, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

// OACRepository manages official artist channel request persistence.
type OACRepository interface {
	Create(ctx context.Context, request *models.OACRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.OACRequest, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, filter ListFilter, params pagination.Params) ([]models.OACRequest, error)
	ListAll(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.OACRequest, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

type copyrightRemovalRepository struct {
	db *gorm.DB
}

// NewCopyrightRemovalRepository returns a copyright removal repository
// bound to the provided database.
func NewCopyrightRemovalRepository(db *gorm.DB) CopyrightRemovalRepository {
	return &copyrightRemovalRepository{db: db}
}

func (r *copyrightRemovalRepository) Create(ctx context.Context, request *models.CopyrightRemovalRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *copyrightRemovalRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.CopyrightRemovalRequest, error) {
	var request models.CopyrightRemovalRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *copyrightRemovalRepository) ListByUserID(ctx context.Context, userID uuid.UUID, filter ListFilter, params pagination.Params) ([]models.CopyrightRemovalRequest, error) {
	var items []models.CopyrightRemovalRequest
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if err := applyListScope(query, filter, params).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *copyrightRemovalRepository) ListAll(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.CopyrightRemovalRequest, error) {
	var items []models.CopyrightRemovalRequest
	if err := applyListScope(r.db.WithContext(ctx), filter, params).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *copyrightRemovalRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.CopyrightRemovalRequest{}).
		Where("id = ?", id).
		Updates(updates).Error
}

type oacRepository struct {
	db *gorm.DB
}

// NewOACRepository returns an official artist channel repository bound to
// the provided database.
func NewOACRepository(db *gorm.DB) OACRepository {
	return &oacRepository{db: db}
}

func (r *oacRepository) Create(ctx context.Context, request *models.OACRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *oacRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.OACRequest, error) {
	var request models.OACRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *oacRepository) ListByUserID(ctx context.Context, userID uuid.UUID, filter ListFilter, params pagination.Params) ([]models.OACRequest, error) {
	var items []models.OACRequest
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if err := applyListScope(query, filter, params).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *oacRepository) ListAll(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.OACRequest, error) {
	var items []models.OACRequest
	if err := applyListScope(r.db.WithContext(ctx), filter, params).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *oacRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.OACRequest{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func applyListScope(query *gorm.DB, filter ListFilter, params pagination.Params) *gorm.DB {
	query = query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		_ = query.AddError(err)
		return query
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}
	return query
}
