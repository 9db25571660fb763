package requests

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/enums"
	pkgerrors "github.com/SummySKJi/amplify-audio-sphere/pkg/errors"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/pagination"
)

type releaseFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Release, error)
}

type artistFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Artist, error)
}

type labelFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Label, error)
}

// Service exposes the customer request flows and the admin decision
// pipeline for copyright removal and official artist channel requests.
type Service interface {
	CreateCopyrightRemoval(ctx context.Context, userID uuid.UUID, req CreateCopyrightRemovalRequest) (*CopyrightRemovalDTO, error)
	ListCopyrightRemovals(ctx context.Context, userID uuid.UUID, filter ListFilter, params pagination.Params) (*CopyrightRemovalPage, error)
	CreateOAC(ctx context.Context, userID uuid.UUID, req CreateOACRequest) (*OACDTO, error)
	ListOACs(ctx context.Context, userID uuid.UUID, filter ListFilter, params pagination.Params) (*OACPage, error)

	AdminListCopyrightRemovals(ctx context.Context, filter ListFilter, params pagination.Params) (*CopyrightRemovalPage, error)
	AdminUpdateCopyrightRemovalStatus(ctx context.Context, requestID uuid.UUID, req UpdateStatusRequest) (*CopyrightRemovalDTO, error)
	AdminListOACs(ctx context.Context, filter ListFilter, params pagination.Params) (*OACPage, error)
	AdminUpdateOACStatus(ctx context.Context, requestID uuid.UUID, req UpdateStatusRequest) (*OACDTO, error)
}

// ServiceParams bundles the request service dependencies.
type ServiceParams struct {
	CopyrightRemovals CopyrightRemovalRepository
	OACs              OACRepository
	Releases          releaseFinder
	Artists           artistFinder
	Labels            labelFinder
}

type service struct {
	removals CopyrightRemovalRepository
	oacs     OACRepository
	releases releaseFinder
	artists  artistFinder
	labels   labelFinder
}

// NewService constructs the request service.
func NewService(params ServiceParams) (Service, error) {
	if params.CopyrightRemovals == nil {
		return nil, fmt.Errorf("copyright removal repository required")
	}
	if params.OACs == nil {
		return nil, fmt.Errorf("oac repository required")
	}
	if params.Releases == nil {
		return nil, fmt.Errorf("release finder required")
	}
	if params.Artists == nil {
		return nil, fmt.Errorf("artist finder required")
	}
	if params.Labels == nil {
		return nil, fmt.Errorf("label finder required")
	}
	return &service{
		removals: params.CopyrightRemovals,
		oacs:     params.OACs,
		releases: params.Releases,
		artists:  params.Artists,
		labels:   params.Labels,
	}, nil
}

func (s *service) CreateCopyrightRemoval(ctx context.Context, userID uuid.UUID, req CreateCopyrightRemovalRequest) (*CopyrightRemovalDTO, error) {
	releaseID, err := uuid.Parse(req.ReleaseID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid release id")
	}
	labelID, err := s.ownedLabelID(ctx, userID, req.LabelID)
	if err != nil {
		return nil, err
	}

	release, err := s.releases.FindByID(ctx, releaseID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load release")
	}
	if release == nil || release.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown release")
	}

	request := &models.CopyrightRemovalRequest{
		UserID:      userID,
		ReleaseID:   releaseID,
		LabelID:     labelID,
		YouTubeLink: req.YouTubeLink,
		Status:      enums.RequestStatusPending,
	}
	if err := s.removals.Create(ctx, request); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create copyright removal request")
	}
	return copyrightRemovalFromModel(request), nil
}

func (s *service) ListCopyrightRemovals(ctx context.Context, userID uuid.UUID, filter ListFilter, params pagination.Params) (*CopyrightRemovalPage, error) {
	rows, err := s.removals.ListByUserID(ctx, userID, filter, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list copyright removal requests")
	}
	return copyrightRemovalPage(rows, params), nil
}

func (s *service) CreateOAC(ctx context.Context, userID uuid.UUID, req CreateOACRequest) (*OACDTO, error) {
	artistID, err := uuid.Parse(req.ArtistID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid artist id")
	}
	labelID, err := s.ownedLabelID(ctx, userID, req.LabelID)
	if err != nil {
		return nil, err
	}

	artist, err := s.artists.FindByID(ctx, artistID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load artist")
	}
	if artist == nil || artist.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown artist")
	}

	request := &models.OACRequest{
		UserID:           userID,
		ArtistID:         artistID,
		LabelID:          labelID,
		TopicChannelLink: req.TopicChannelLink,
		OwnedChannelLink: req.OwnedChannelLink,
		Status:           enums.RequestStatusPending,
	}
	if err := s.oacs.Create(ctx, request); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create oac request")
	}
	return oacFromModel(request), nil
}

func (s *service) ListOACs(ctx context.Context, userID uuid.UUID, filter ListFilter, params pagination.Params) (*OACPage, error) {
	rows, err := s.oacs.ListByUserID(ctx, userID, filter, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list oac requests")
	}
	return oacPage(rows, params), nil
}

func (s *service) AdminListCopyrightRemovals(ctx context.Context, filter ListFilter, params pagination.Params) (*CopyrightRemovalPage, error) {
	rows, err := s.removals.ListAll(ctx, filter, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list copyright removal requests")
	}
	return copyrightRemovalPage(rows, params), nil
}

func (s *service) AdminUpdateCopyrightRemovalStatus(ctx context.Context, requestID uuid.UUID, req UpdateStatusRequest) (*CopyrightRemovalDTO, error) {
	next, err := enums.ParseRequestStatus(req.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid request status")
	}

	request, err := s.removals.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "copyright removal request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load copyright removal request")
	}
	if request.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request already finalized")
	}

	if err := s.removals.Update(ctx, requestID, statusUpdates(next, req.Notes)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update copyright removal status")
	}
	request.Status = next
	if req.Notes != nil {
		request.Notes = req.Notes
	}
	return copyrightRemovalFromModel(request), nil
}

func (s *service) AdminListOACs(ctx context.Context, filter ListFilter, params pagination.Params) (*OACPage, error) {
	rows, err := s.oacs.ListAll(ctx, filter, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list oac requests")
	}
	return oacPage(rows, params), nil
}

func (s *service) AdminUpdateOACStatus(ctx context.Context, requestID uuid.UUID, req UpdateStatusRequest) (*OACDTO, error) {
	next, err := enums.ParseRequestStatus(req.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid request status")
	}

	request, err := s.oacs.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "oac request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load oac request")
	}
	if request.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request already finalized")
	}

	if err := s.oacs.Update(ctx, requestID, statusUpdates(next, req.Notes)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update oac status")
	}
	request.Status = next
	if req.Notes != nil {
		request.Notes = req.Notes
	}
	return oacFromModel(request), nil
}

// ownedLabelID parses a label id and checks the caller owns the label.
func (s *service) ownedLabelID(ctx context.Context, userID uuid.UUID, raw string) (uuid.UUID, error) {
	labelID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid label id")
	}
	label, err := s.labels.FindByID(ctx, labelID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load label")
	}
	if label == nil || label.UserID != userID {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown label")
	}
	return labelID, nil
}

func statusUpdates(next enums.RequestStatus, notes *string) map[string]any {
	updates := map[string]any{"status": next}
	if notes != nil {
		updates["notes"] = *notes
	}
	return updates
}

func copyrightRemovalPage(rows []models.CopyrightRemovalRequest, params pagination.Params) *CopyrightRemovalPage {
	limit := pagination.NormalizeLimit(params.Limit)
	page := &CopyrightRemovalPage{Items: make([]CopyrightRemovalDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			last := page.Items[len(page.Items)-1]
			page.NextCursor = pagination.Next(last.CreatedAt, last.ID)
			break
		}
		page.Items = append(page.Items, *copyrightRemovalFromModel(&rows[i]))
	}
	return page
}

func oacPage(rows []models.OACRequest, params pagination.Params) *OACPage {
	limit := pagination.NormalizeLimit(params.Limit)
	page := &OACPage{Items: make([]OACDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			last := page.Items[len(page.Items)-1]
			page.NextCursor = pagination.Next(last.CreatedAt, last.ID)
			break
		}
		page.Items = append(page.Items, *oacFromModel(&rows[i]))
	}
	return page
}
