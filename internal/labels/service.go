package labels

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	pkgerrors "github.com/SummySKJi/amplify-audio-sphere/pkg/errors"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/pagination"
)

// Service exposes label operations scoped to the owning profile.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateLabelRequest) (*LabelDTO, error)
	Get(ctx context.Context, userID, labelID uuid.UUID) (*LabelDTO, error)
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*LabelPage, error)
	Update(ctx context.Context, userID, labelID uuid.UUID, req UpdateLabelRequest) (*LabelDTO, error)
	Delete(ctx context.Context, userID, labelID uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService constructs a label service backed by the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "label repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateLabelRequest) (*LabelDTO, error) {
	label := req.toModel(userID)
	if err := s.repo.Create(ctx, label); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create label")
	}
	return FromModel(label), nil
}

func (s *service) Get(ctx context.Context, userID, labelID uuid.UUID) (*LabelDTO, error) {
	label, err := s.owned(ctx, userID, labelID)
	if err != nil {
		return nil, err
	}
	return FromModel(label), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*LabelPage, error) {
	rows, err := s.repo.ListByUserID(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list labels")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	page := &LabelPage{Items: make([]LabelDTO, 0, len(rows))}
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

func (s *service) Update(ctx context.Context, userID, labelID uuid.UUID, req UpdateLabelRequest) (*LabelDTO, error) {
	if _, err := s.owned(ctx, userID, labelID); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Whatsapp != nil {
		updates["whatsapp"] = *req.Whatsapp
	}
	if req.Country != nil {
		updates["country"] = *req.Country
	}
	if req.Languages != nil {
		updates["languages"] = pq.StringArray(*req.Languages)
	}
	if req.Genres != nil {
		updates["genres"] = pq.StringArray(*req.Genres)
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.Website != nil {
		updates["website"] = *req.Website
	}
	if req.Instagram != nil {
		updates["instagram"] = *req.Instagram
	}
	if req.Facebook != nil {
		updates["facebook"] = *req.Facebook
	}
	if req.YouTube != nil {
		updates["youtube"] = *req.YouTube
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, labelID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update label")
		}
	}
	return s.Get(ctx, userID, labelID)
}

func (s *service) Delete(ctx context.Context, userID, labelID uuid.UUID) error {
	if _, err := s.owned(ctx, userID, labelID); err != nil {
		return err
	}

	count, err := s.repo.CountReleases(ctx, labelID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count label releases")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "label has releases and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, labelID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete label")
	}
	return nil
}

func (s *service) owned(ctx context.Context, userID, labelID uuid.UUID) (*models.Label, error) {
	label, err := s.repo.FindByID(ctx, labelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "label not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load label")
	}
	if label.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "label not found")
	}
	return label, nil
}
