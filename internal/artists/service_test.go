package artists

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	pkgerrors "github.com/SummySKJi/amplify-audio-sphere/pkg/errors"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/pagination"
)

type stubArtistRepo struct {
	artists      map[uuid.UUID]*models.Artist
	releaseCount map[uuid.UUID]int64
	deleted      []uuid.UUID
}

func newStubArtistRepo() *stubArtistRepo {
	return &stubArtistRepo{
		artists:      map[uuid.UUID]*models.Artist{},
		releaseCount: map[uuid.UUID]int64{},
	}
}

func (s *stubArtistRepo) Create(ctx context.Context, artist *models.Artist) error {
	artist.ID = uuid.New()
	s.artists[artist.ID] = artist
	return nil
}

func (s *stubArtistRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Artist, error) {
	if artist, ok := s.artists[id]; ok {
		clone := *artist
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubArtistRepo) ListByUserID(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Artist, error) {
	var items []models.Artist
	for _, artist := range s.artists {
		if artist.UserID == userID {
			items = append(items, *artist)
		}
	}
	return items, nil
}

func (s *stubArtistRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if artist, ok := s.artists[id]; ok {
		if name, ok := updates["name"].(string); ok {
			artist.Name = name
		}
	}
	return nil
}

func (s *stubArtistRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.artists, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubArtistRepo) CountReleases(ctx context.Context, artistID uuid.UUID) (int64, error) {
	return s.releaseCount[artistID], nil
}

func newArtistTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new artist service: %v", err)
	}
	return svc
}

func TestCreateArtistValidatesGender(t *testing.T) {
	repo := newStubArtistRepo()
	svc := newArtistTestService(t, repo)
	bad := "unknown"

	_, err := svc.Create(context.Background(), uuid.New(), CreateArtistRequest{Name: "Asha", Gender: &bad})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestCreateArtistPersistsOwner(t *testing.T) {
	repo := newStubArtistRepo()
	svc := newArtistTestService(t, repo)
	userID := uuid.New()

	dto, err := svc.Create(context.Background(), userID, CreateArtistRequest{Name: "Asha", Genres: []string{"pop"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.UserID != userID {
		t.Fatalf("owner mismatch: %s", dto.UserID)
	}
	if len(dto.Genres) != 1 || dto.Genres[0] != "pop" {
		t.Fatalf("genres not persisted: %v", dto.Genres)
	}
}

func TestGetHidesOtherOwnersArtists(t *testing.T) {
	repo := newStubArtistRepo()
	svc := newArtistTestService(t, repo)
	owner := uuid.New()

	dto, err := svc.Create(context.Background(), owner, CreateArtistRequest{Name: "Asha"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Get(context.Background(), uuid.New(), dto.ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("foreign owner must see not found, got %v", err)
	}

	got, err := svc.Get(context.Background(), owner, dto.ID)
	if err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if got.ID != dto.ID {
		t.Fatalf("unexpected artist: %s", got.ID)
	}
}

func TestDeleteBlockedWhileReleasesExist(t *testing.T) {
	repo := newStubArtistRepo()
	svc := newArtistTestService(t, repo)
	owner := uuid.New()

	dto, err := svc.Create(context.Background(), owner, CreateArtistRequest{Name: "Asha"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	repo.releaseCount[dto.ID] = 2

	err = svc.Delete(context.Background(), owner, dto.ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict got %v", err)
	}
	if len(repo.deleted) != 0 {
		t.Fatal("artist must not be deleted")
	}

	repo.releaseCount[dto.ID] = 0
	if err := svc.Delete(context.Background(), owner, dto.ID); err != nil {
		t.Fatalf("delete without releases: %v", err)
	}
}
