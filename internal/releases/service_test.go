package releases

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/config"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/enums"
	pkgerrors "github.com/SummySKJi/amplify-audio-sphere/pkg/errors"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/pagination"
)

type stubReleaseRepo struct {
	releases map[uuid.UUID]*models.Release
}

func newStubReleaseRepo() *stubReleaseRepo {
	return &stubReleaseRepo{releases: map[uuid.UUID]*models.Release{}}
}

func (s *stubReleaseRepo) Create(ctx context.Context, release *models.Release) error {
	release.ID = uuid.New()
	s.releases[release.ID] = release
	return nil
}

func (s *stubReleaseRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Release, error) {
	if release, ok := s.releases[id]; ok {
		clone := *release
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubReleaseRepo) ListByUserID(ctx context.Context, userID uuid.UUID, filter ListFilter, params pagination.Params) ([]models.Release, error) {
	var items []models.Release
	for _, release := range s.releases {
		if release.UserID != userID {
			continue
		}
		if filter.Status != nil && release.Status != *filter.Status {
			continue
		}
		items = append(items, *release)
	}
	return items, nil
}

func (s *stubReleaseRepo) ListAll(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Release, error) {
	var items []models.Release
	for _, release := range s.releases {
		if filter.Status != nil && release.Status != *filter.Status {
			continue
		}
		items = append(items, *release)
	}
	return items, nil
}

func (s *stubReleaseRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	release, ok := s.releases[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if status, ok := updates["status"].(enums.ReleaseStatus); ok {
		release.Status = status
	}
	if notes, ok := updates["admin_notes"].(string); ok {
		release.AdminNotes = &notes
	}
	return nil
}

type stubArtistFinder struct {
	artists map[uuid.UUID]*models.Artist
}

func (s *stubArtistFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Artist, error) {
	if artist, ok := s.artists[id]; ok {
		return artist, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubLabelFinder struct {
	labels map[uuid.UUID]*models.Label
}

func (s *stubLabelFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Label, error) {
	if label, ok := s.labels[id]; ok {
		return label, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubPlatformValidator struct {
	err error
}

func (s *stubPlatformValidator) ValidateIDs(ctx context.Context, ids []string) error {
	return s.err
}

type stubMediaFinder struct {
	media map[string]*models.Media
}

func (s *stubMediaFinder) FindByObjectKey(ctx context.Context, objectKey string) (*models.Media, error) {
	if media, ok := s.media[objectKey]; ok {
		return media, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type releaseTestSetup struct {
	service Service
	repo    *stubReleaseRepo
	userID  uuid.UUID
	artist  *models.Artist
	label   *models.Label
}

func newReleaseTestSetup(t *testing.T) *releaseTestSetup {
	t.Helper()
	userID := uuid.New()
	artist := &models.Artist{ID: uuid.New(), UserID: userID, Name: "Asha"}
	label := &models.Label{ID: uuid.New(), UserID: userID, Name: "Night Records"}
	repo := newStubReleaseRepo()

	media := map[string]*models.Media{
		"audio/good.mp3": {UserID: userID, Kind: enums.MediaKindAudio, ObjectKey: "audio/good.mp3"},
		"cover/good.png": {UserID: userID, Kind: enums.MediaKindCoverArt, ObjectKey: "cover/good.png"},
	}

	svc, err := NewService(ServiceParams{
		Repository: repo,
		Artists:    &stubArtistFinder{artists: map[uuid.UUID]*models.Artist{artist.ID: artist}},
		Labels:     &stubLabelFinder{labels: map[uuid.UUID]*models.Label{label.ID: label}},
		Platforms:  &stubPlatformValidator{},
		Media:      &stubMediaFinder{media: media},
		GCSConfig:  config.GCSConfig{},
	})
	if err != nil {
		t.Fatalf("new release service: %v", err)
	}
	return &releaseTestSetup{service: svc, repo: repo, userID: userID, artist: artist, label: label}
}

func sampleCreateRequest(setup *releaseTestSetup) CreateReleaseRequest {
	return CreateReleaseRequest{
		ArtistID:          setup.artist.ID.String(),
		LabelID:           setup.label.ID.String(),
		Type:              "single",
		SongName:          "Midnight Rain",
		Language:          "hindi",
		Copyright:         "2026 Night Records",
		AudioObjectKey:    "audio/good.mp3",
		CoverArtObjectKey: "cover/good.png",
		PlatformIDs:       []string{uuid.NewString()},
	}
}

func TestCreateForcesPendingReview(t *testing.T) {
	setup := newReleaseTestSetup(t)

	dto, err := setup.service.Create(context.Background(), setup.userID, sampleCreateRequest(setup))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Status != enums.ReleaseStatusPendingReview {
		t.Fatalf("new releases must start in pending_review, got %s", dto.Status)
	}
}

func TestCreateRejectsForeignArtist(t *testing.T) {
	setup := newReleaseTestSetup(t)
	req := sampleCreateRequest(setup)

	_, err := setup.service.Create(context.Background(), uuid.New(), req)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestCreateRejectsUnregisteredUpload(t *testing.T) {
	setup := newReleaseTestSetup(t)
	req := sampleCreateRequest(setup)
	req.AudioObjectKey = "audio/unknown.mp3"

	_, err := setup.service.Create(context.Background(), setup.userID, req)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestCreateRejectsAudioKeyUsedAsCover(t *testing.T) {
	setup := newReleaseTestSetup(t)
	req := sampleCreateRequest(setup)
	req.CoverArtObjectKey = "audio/good.mp3"

	_, err := setup.service.Create(context.Background(), setup.userID, req)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestRequestTakedownOnlyFromLive(t *testing.T) {
	setup := newReleaseTestSetup(t)

	dto, err := setup.service.Create(context.Background(), setup.userID, sampleCreateRequest(setup))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = setup.service.RequestTakedown(context.Background(), setup.userID, dto.ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("pending release must not accept takedown, got %v", err)
	}

	setup.repo.releases[dto.ID].Status = enums.ReleaseStatusLive
	updated, err := setup.service.RequestTakedown(context.Background(), setup.userID, dto.ID)
	if err != nil {
		t.Fatalf("takedown from live: %v", err)
	}
	if updated.Status != enums.ReleaseStatusTakedownRequested {
		t.Fatalf("expected takedown_requested got %s", updated.Status)
	}
}

func TestAdminUpdateStatusFollowsPipeline(t *testing.T) {
	setup := newReleaseTestSetup(t)

	dto, err := setup.service.Create(context.Background(), setup.userID, sampleCreateRequest(setup))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	notes := "metadata verified"
	approved, err := setup.service.AdminUpdateStatus(context.Background(), dto.ID, UpdateStatusRequest{Status: "approved", AdminNotes: &notes})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != enums.ReleaseStatusApproved {
		t.Fatalf("expected approved got %s", approved.Status)
	}
	if approved.AdminNotes == nil || *approved.AdminNotes != notes {
		t.Fatalf("admin notes not recorded: %v", approved.AdminNotes)
	}

	_, err = setup.service.AdminUpdateStatus(context.Background(), dto.ID, UpdateStatusRequest{Status: "takedown_completed"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}

	if _, err := setup.service.AdminUpdateStatus(context.Background(), dto.ID, UpdateStatusRequest{Status: "live"}); err != nil {
		t.Fatalf("approved to live: %v", err)
	}
}

func TestListScopedToOwner(t *testing.T) {
	setup := newReleaseTestSetup(t)

	if _, err := setup.service.Create(context.Background(), setup.userID, sampleCreateRequest(setup)); err != nil {
		t.Fatalf("create: %v", err)
	}

	page, err := setup.service.List(context.Background(), setup.userID, ListFilter{}, pagination.Params{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("owner should see one release, got %d", len(page.Items))
	}

	other, err := setup.service.List(context.Background(), uuid.New(), ListFilter{}, pagination.Params{})
	if err != nil {
		t.Fatalf("list foreign: %v", err)
	}
	if len(other.Items) != 0 {
		t.Fatalf("foreign owner must see nothing, got %d", len(other.Items))
	}
}
