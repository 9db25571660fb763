package releases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/config"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/enums"
	pkgerrors "github.com/SummySKJi/amplify-audio-sphere/pkg/errors"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/pagination"
)

// Service exposes the customer submission flow and the admin review pipeline.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateReleaseRequest) (*ReleaseDTO, error)
	Get(ctx context.Context, userID, releaseID uuid.UUID) (*ReleaseDTO, error)
	List(ctx context.Context, userID uuid.UUID, filter ListFilter, params pagination.Params) (*ReleasePage, error)
	RequestTakedown(ctx context.Context, userID, releaseID uuid.UUID) (*ReleaseDTO, error)

	AdminList(ctx context.Context, filter ListFilter, params pagination.Params) (*ReleasePage, error)
	AdminGet(ctx context.Context, releaseID uuid.UUID) (*ReleaseDTO, error)
	AdminUpdateStatus(ctx context.Context, releaseID uuid.UUID, req UpdateStatusRequest) (*ReleaseDTO, error)
}

type artistOwnershipChecker interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Artist, error)
}

type labelOwnershipChecker interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Label, error)
}

type platformValidator interface {
	ValidateIDs(ctx context.Context, ids []string) error
}

type mediaChecker interface {
	FindByObjectKey(ctx context.Context, objectKey string) (*models.Media, error)
}

type urlSigner interface {
	SignedReadURL(bucket, object string, expires time.Duration) (string, error)
	DefaultBucket() string
}

// ServiceParams bundles the release service dependencies. Signer is optional;
// without it DTOs carry object keys only.
type ServiceParams struct {
	Repository Repository
	Artists    artistOwnershipChecker
	Labels     labelOwnershipChecker
	Platforms  platformValidator
	Media      mediaChecker
	Signer     urlSigner
	GCSConfig  config.GCSConfig
}

type service struct {
	repo      Repository
	artists   artistOwnershipChecker
	labels    labelOwnershipChecker
	platforms platformValidator
	media     mediaChecker
	signer    urlSigner
	gcsCfg    config.GCSConfig
}

// NewService constructs the release service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repository == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "release repository required")
	}
	if params.Artists == nil || params.Labels == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "artist and label lookups required")
	}
	if params.Platforms == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "platform validator required")
	}
	if params.Media == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "media lookup required")
	}
	return &service{
		repo:      params.Repository,
		artists:   params.Artists,
		labels:    params.Labels,
		platforms: params.Platforms,
		media:     params.Media,
		signer:    params.Signer,
		gcsCfg:    params.GCSConfig,
	}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateReleaseRequest) (*ReleaseDTO, error) {
	releaseType, err := enums.ParseReleaseType(req.Type)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid release type")
	}

	artistID, err := uuid.Parse(req.ArtistID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid artist id")
	}
	labelID, err := uuid.Parse(req.LabelID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid label id")
	}

	artist, err := s.artists.FindByID(ctx, artistID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown artist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load artist")
	}
	if artist.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown artist")
	}

	label, err := s.labels.FindByID(ctx, labelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown label")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load label")
	}
	if label.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown label")
	}

	if err := s.platforms.ValidateIDs(ctx, req.PlatformIDs); err != nil {
		return nil, err
	}

	if err := s.checkOwnedMedia(ctx, userID, req.AudioObjectKey, enums.MediaKindAudio); err != nil {
		return nil, err
	}
	if err := s.checkOwnedMedia(ctx, userID, req.CoverArtObjectKey, enums.MediaKindCoverArt); err != nil {
		return nil, err
	}

	release := req.toModel(userID, artistID, labelID, releaseType)
	if err := s.repo.Create(ctx, release); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create release")
	}
	return s.decorate(release), nil
}

func (s *service) Get(ctx context.Context, userID, releaseID uuid.UUID) (*ReleaseDTO, error) {
	release, err := s.owned(ctx, userID, releaseID)
	if err != nil {
		return nil, err
	}
	return s.decorate(release), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, filter ListFilter, params pagination.Params) (*ReleasePage, error) {
	rows, err := s.repo.ListByUserID(ctx, userID, filter, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list releases")
	}
	return s.page(rows, params), nil
}

// RequestTakedown moves a live release into takedown_requested.
func (s *service) RequestTakedown(ctx context.Context, userID, releaseID uuid.UUID) (*ReleaseDTO, error) {
	release, err := s.owned(ctx, userID, releaseID)
	if err != nil {
		return nil, err
	}
	if !release.Status.CanTransitionTo(enums.ReleaseStatusTakedownRequested) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "release is not live")
	}
	if err := s.repo.Update(ctx, releaseID, map[string]any{"status": enums.ReleaseStatusTakedownRequested}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update release status")
	}
	release.Status = enums.ReleaseStatusTakedownRequested
	return s.decorate(release), nil
}

func (s *service) AdminList(ctx context.Context, filter ListFilter, params pagination.Params) (*ReleasePage, error) {
	rows, err := s.repo.ListAll(ctx, filter, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list releases")
	}
	return s.page(rows, params), nil
}

func (s *service) AdminGet(ctx context.Context, releaseID uuid.UUID) (*ReleaseDTO, error) {
	release, err := s.find(ctx, releaseID)
	if err != nil {
		return nil, err
	}
	return s.decorate(release), nil
}

// AdminUpdateStatus applies a review decision. Transitions outside the
// pipeline's state machine are rejected with a state conflict.
func (s *service) AdminUpdateStatus(ctx context.Context, releaseID uuid.UUID, req UpdateStatusRequest) (*ReleaseDTO, error) {
	next, err := enums.ParseReleaseStatus(req.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid release status")
	}

	release, err := s.find(ctx, releaseID)
	if err != nil {
		return nil, err
	}
	if !release.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "illegal status transition")
	}

	updates := map[string]any{"status": next}
	if req.AdminNotes != nil {
		updates["admin_notes"] = *req.AdminNotes
	}
	if err := s.repo.Update(ctx, releaseID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update release status")
	}

	release.Status = next
	if req.AdminNotes != nil {
		release.AdminNotes = req.AdminNotes
	}
	return s.decorate(release), nil
}

func (s *service) owned(ctx context.Context, userID, releaseID uuid.UUID) (*models.Release, error) {
	release, err := s.find(ctx, releaseID)
	if err != nil {
		return nil, err
	}
	if release.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "release not found")
	}
	return release, nil
}

func (s *service) find(ctx context.Context, releaseID uuid.UUID) (*models.Release, error) {
	release, err := s.repo.FindByID(ctx, releaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "release not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load release")
	}
	return release, nil
}

func (s *service) checkOwnedMedia(ctx context.Context, userID uuid.UUID, objectKey string, kind enums.MediaKind) error {
	media, err := s.media.FindByObjectKey(ctx, objectKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown upload")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup upload")
	}
	if media.UserID != userID || media.Kind != kind {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown upload")
	}
	return nil
}

func (s *service) page(rows []models.Release, params pagination.Params) *ReleasePage {
	limit := pagination.NormalizeLimit(params.Limit)
	page := &ReleasePage{Items: make([]ReleaseDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			last := page.Items[len(page.Items)-1]
			page.NextCursor = pagination.Next(last.CreatedAt, last.ID)
			break
		}
		page.Items = append(page.Items, *s.decorate(&rows[i]))
	}
	return page
}

// decorate attaches signed read URLs when a signer is wired.
func (s *service) decorate(release *models.Release) *ReleaseDTO {
	dto := FromModel(release)
	if s.signer == nil {
		return dto
	}
	if url, err := s.signer.SignedReadURL(s.signer.DefaultBucket(), release.AudioObjectKey, s.gcsCfg.DownloadURLExpiry); err == nil {
		dto.AudioURL = &url
	}
	if url, err := s.signer.SignedReadURL(s.signer.DefaultBucket(), release.CoverArtObjectKey, s.gcsCfg.DownloadURLExpiry); err == nil {
		dto.CoverArtURL = &url
	}
	return dto
}
