package artists

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/enums"
	pkgerrors "github.com/SummySKJi/amplify-audio-sphere/pkg/errors"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/pagination"
)

// Service exposes roster operations scoped to the owning profile. Every
// lookup checks ownership before returning or mutating a row.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateArtistRequest) (*ArtistDTO, error)
	Get(ctx context.Context, userID, artistID uuid.UUID) (*ArtistDTO, error)
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ArtistPage, error)
	Update(ctx context.Context, userID, artistID uuid.UUID, req UpdateArtistRequest) (*ArtistDTO, error)
	Delete(ctx context.Context, userID, artistID uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService constructs an artist service backed by the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "artist repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateArtistRequest) (*ArtistDTO, error) {
	gender, err := parseOptionalGender(req.Gender)
	if err != nil {
		return nil, err
	}

	artist := req.toModel(userID, gender)
	if err := s.repo.Create(ctx, artist); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create artist")
	}
	return FromModel(artist), nil
}

func (s *service) Get(ctx context.Context, userID, artistID uuid.UUID) (*ArtistDTO, error) {
	artist, err := s.owned(ctx, userID, artistID)
	if err != nil {
		return nil, err
	}
	return FromModel(artist), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ArtistPage, error) {
	rows, err := s.repo.ListByUserID(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list artists")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	page := &ArtistPage{Items: make([]ArtistDTO, 0, len(rows))}
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

func (s *service) Update(ctx context.Context, userID, artistID uuid.UUID, req UpdateArtistRequest) (*ArtistDTO, error) {
	if _, err := s.owned(ctx, userID, artistID); err != nil {
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
	if req.Gender != nil {
		gender, err := parseOptionalGender(req.Gender)
		if err != nil {
			return nil, err
		}
		updates["gender"] = gender
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
	if req.Instagram != nil {
		updates["instagram"] = *req.Instagram
	}
	if req.Facebook != nil {
		updates["facebook"] = *req.Facebook
	}
	if req.YouTube != nil {
		updates["youtube"] = *req.YouTube
	}
	if req.Spotify != nil {
		updates["spotify"] = *req.Spotify
	}
	if req.AppleLink != nil {
		updates["apple_link"] = *req.AppleLink
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, artistID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update artist")
		}
	}
	return s.Get(ctx, userID, artistID)
}

func (s *service) Delete(ctx context.Context, userID, artistID uuid.UUID) error {
	if _, err := s.owned(ctx, userID, artistID); err != nil {
		return err
	}

	count, err := s.repo.CountReleases(ctx, artistID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count artist releases")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "artist has releases and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, artistID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete artist")
	}
	return nil
}

func (s *service) owned(ctx context.Context, userID, artistID uuid.UUID) (*models.Artist, error) {
	artist, err := s.repo.FindByID(ctx, artistID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "artist not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load artist")
	}
	if artist.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "artist not found")
	}
	return artist, nil
}

func parseOptionalGender(value *string) (*enums.Gender, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	gender, err := enums.ParseGender(*value)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid gender")
	}
	return &gender, nil
}
