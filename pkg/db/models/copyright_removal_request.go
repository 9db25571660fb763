package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/enums"
)

// CopyrightRemovalRequest asks admins to clear a YouTube copyright claim
// against one of the customer's releases.
type CopyrightRemovalRequest struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	ReleaseID   uuid.UUID           `gorm:"column:release_id;type:uuid;not null"`
	LabelID     uuid.UUID           `gorm:"column:label_id;type:uuid;not null"`
	YouTubeLink string              `gorm:"column:youtube_link;not null"`
	Status      enums.RequestStatus `gorm:"column:status;type:request_status;not null;default:'pending'"`
	Notes       *string             `gorm:"column:notes"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
