package releases

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/enums"
)

// ReleaseDTO is the outward representation of a distribution submission.
type ReleaseDTO struct {
	ID                uuid.UUID           `json:"id"`
	UserID            uuid.UUID           `json:"user_id"`
	ArtistID          uuid.UUID           `json:"artist_id"`
	LabelID           uuid.UUID           `json:"label_id"`
	Type              enums.ReleaseType   `json:"type"`
	SongName          string              `json:"song_name"`
	Language          string              `json:"language"`
	LyricsNames       []string            `json:"lyrics_names"`
	MusicProducer     *string             `json:"music_producer,omitempty"`
	Copyright         string              `json:"copyright"`
	Publisher         *string             `json:"publisher,omitempty"`
	InstagramID       *string             `json:"instagram_id,omitempty"`
	ReleaseDate       *time.Time          `json:"release_date,omitempty"`
	AudioObjectKey    string              `json:"audio_object_key"`
	CoverArtObjectKey string              `json:"cover_art_object_key"`
	AudioURL          *string             `json:"audio_url,omitempty"`
	CoverArtURL       *string             `json:"cover_art_url,omitempty"`
	PlatformIDs       []string            `json:"platform_ids"`
	Status            enums.ReleaseStatus `json:"status"`
	AdminNotes        *string             `json:"admin_notes,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// FromModel maps a persisted release onto its DTO.
func FromModel(release *models.Release) *ReleaseDTO {
	if release == nil {
		return nil
	}
	return &ReleaseDTO{
		ID:                release.ID,
		UserID:            release.UserID,
		ArtistID:          release.ArtistID,
		LabelID:           release.LabelID,
		Type:              release.Type,
		SongName:          release.SongName,
		Language:          release.Language,
		LyricsNames:       release.LyricsNames,
		MusicProducer:     release.MusicProducer,
		Copyright:         release.Copyright,
		Publisher:         release.Publisher,
		InstagramID:       release.InstagramID,
		ReleaseDate:       release.ReleaseDate,
		AudioObjectKey:    release.AudioObjectKey,
		CoverArtObjectKey: release.CoverArtObjectKey,
		PlatformIDs:       release.PlatformIDs,
		Status:            release.Status,
		AdminNotes:        release.AdminNotes,
		CreatedAt:         release.CreatedAt,
		UpdatedAt:         release.UpdatedAt,
	}
}

// CreateReleaseRequest is the customer payload for submitting a release.
type CreateReleaseRequest struct {
	ArtistID          string     `json:"artist_id" validate:"required,uuid"`
	LabelID           string     `json:"label_id" validate:"required,uuid"`
	Type              string     `json:"type" validate:"required"`
	SongName          string     `json:"song_name" validate:"required,min=1,max=200"`
	Language          string     `json:"language" validate:"required,min=1,max=80"`
	LyricsNames       []string   `json:"lyrics_names,omitempty"`
	MusicProducer     *string    `json:"music_producer,omitempty" validate:"omitempty,max=200"`
	Copyright         string     `json:"copyright" validate:"required,min=1,max=200"`
	Publisher         *string    `json:"publisher,omitempty" validate:"omitempty,max=200"`
	InstagramID       *string    `json:"instagram_id,omitempty" validate:"omitempty,max=100"`
	ReleaseDate       *time.Time `json:"release_date,omitempty"`
	AudioObjectKey    string     `json:"audio_object_key" validate:"required"`
	CoverArtObjectKey string     `json:"cover_art_object_key" validate:"required"`
	PlatformIDs       []string   `json:"platform_ids" validate:"required,min=1"`
}

// UpdateStatusRequest is the admin payload for moving a release through
// the review pipeline.
type UpdateStatusRequest struct {
	Status     string  `json:"status" validate:"required"`
	AdminNotes *string `json:"admin_notes,omitempty" validate:"omitempty,max=2000"`
}

// ListFilter narrows release listings.
type ListFilter struct {
	Status *enums.ReleaseStatus
}

// ReleasePage is a cursor page of releases.
type ReleasePage struct {
	Items      []ReleaseDTO `json:"items"`
	NextCursor *string      `json:"next_cursor,omitempty"`
}

func (r CreateReleaseRequest) toModel(userID, artistID, labelID uuid.UUID, releaseType enums.ReleaseType) *models.Release {
	return &models.Release{
		UserID:            userID,
		ArtistID:          artistID,
		LabelID:           labelID,
		Type:              releaseType,
		SongName:          r.SongName,
		Language:          r.Language,
		LyricsNames:       pq.StringArray(r.LyricsNames),
		MusicProducer:     r.MusicProducer,
		Copyright:         r.Copyright,
		Publisher:         r.Publisher,
		InstagramID:       r.InstagramID,
		ReleaseDate:       r.ReleaseDate,
		AudioObjectKey:    r.AudioObjectKey,
		CoverArtObjectKey: r.CoverArtObjectKey,
		PlatformIDs:       pq.StringArray(r.PlatformIDs),
		Status:            enums.ReleaseStatusPendingReview,
	}
}
