package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/enums"
)

// Release represents a distribution submission moving through review.
type Release struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	ArtistID          uuid.UUID           `gorm:"column:artist_id;type:uuid;not null"`
	LabelID           uuid.UUID           `gorm:"column:label_id;type:uuid;not null"`
	Type              enums.ReleaseType   `gorm:"column:type;type:release_type;not null"`
	SongName          string              `gorm:"column:song_name;not null"`
	Language          string              `gorm:"column:language;not null"`
	LyricsNames       pq.StringArray      `gorm:"column:lyrics_names;type:text[];not null;default:ARRAY[]::text[]"`
	MusicProducer     *string             `gorm:"column:music_producer"`
	Copyright         string              `gorm:"column:copyright;not null"`
	Publisher         *string             `gorm:"column:publisher"`
	InstagramID       *string             `gorm:"column:instagram_id"`
	ReleaseDate       *time.Time          `gorm:"column:release_date;type:date"`
	AudioObjectKey    string              `gorm:"column:audio_object_key;not null"`
	CoverArtObjectKey string              `gorm:"column:cover_art_object_key;not null"`
	PlatformIDs       pq.StringArray      `gorm:"column:platform_ids;type:text[];not null;default:ARRAY[]::text[]"`
	Status            enums.ReleaseStatus `gorm:"column:status;type:release_status;not null;default:'pending_review'"`
	AdminNotes        *string             `gorm:"column:admin_notes"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
