package models

import (
	"time"

	"github.com/google/uuid"
)

// RoyaltyReport attaches a statement file to exactly one of a profile,
// an artist or a label. The XOR is enforced at the service layer.
type RoyaltyReport struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ReportPeriod  string     `gorm:"column:report_period;not null"`
	FileObjectKey string     `gorm:"column:file_object_key;not null"`
	FileType      string     `gorm:"column:file_type;not null"`
	UserID        *uuid.UUID `gorm:"column:user_id;type:uuid;index"`
	ArtistID      *uuid.UUID `gorm:"column:artist_id;type:uuid;index"`
	LabelID       *uuid.UUID `gorm:"column:label_id;type:uuid;index"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
}
