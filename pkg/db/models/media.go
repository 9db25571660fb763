package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/enums"
)

// Media registers a presigned upload so object keys referenced by releases
// and reports are traceable to an owner.
type Media struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	Kind      enums.MediaKind `gorm:"column:kind;type:media_kind;not null"`
	ObjectKey string          `gorm:"column:object_key;not null;uniqueIndex"`
	FileName  string          `gorm:"column:file_name;not null"`
	MimeType  string          `gorm:"column:mime_type;not null"`
	SizeBytes int64           `gorm:"column:size_bytes;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
