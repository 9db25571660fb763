package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/enums"
)

// OACRequest asks admins to claim a YouTube Official Artist Channel by
// merging a topic channel into the customer's owned channel.
type OACRequest struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	ArtistID         uuid.UUID           `gorm:"column:artist_id;type:uuid;not null"`
	LabelID          uuid.UUID           `gorm:"column:label_id;type:uuid;not null"`
	TopicChannelLink string              `gorm:"column:topic_channel_link;not null"`
	OwnedChannelLink string              `gorm:"column:owned_channel_link;not null"`
	Status           enums.RequestStatus `gorm:"column:status;type:request_status;not null;default:'pending'"`
	Notes            *string             `gorm:"column:notes"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
