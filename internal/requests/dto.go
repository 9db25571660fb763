package requests

import (
	"time"

	"github.com/google/uuid"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/enums"
)

// CopyrightRemovalDTO is the outward representation of a copyright
// removal request.
type CopyrightRemovalDTO struct {
	ID          uuid.UUID           `json:"id"`
	UserID      uuid.UUID           `json:"user_id"`
	ReleaseID   uuid.UUID           `json:"release_id"`
	LabelID     uuid.UUID           `json:"label_id"`
	YouTubeLink string              `json:"youtube_link"`
	Status      enums.RequestStatus `json:"status"`
	Notes       *string             `json:"notes,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func copyrightRemovalFromModel(request *models.CopyrightRemovalRequest) *CopyrightRemovalDTO {
	if request == nil {
		return nil
	}
	return &CopyrightRemovalDTO{
		ID:          request.ID,
		UserID:      request.UserID,
		ReleaseID:   request.ReleaseID,
		LabelID:     request.LabelID,
		YouTubeLink: request.YouTubeLink,
		Status:      request.Status,
		Notes:       request.Notes,
		CreatedAt:   request.CreatedAt,
		UpdatedAt:   request.UpdatedAt,
	}
}

// OACDTO is the outward representation of an official artist channel
// request.
type OACDTO struct {
	ID               uuid.UUID           `json:"id"`
	UserID           uuid.UUID           `json:"user_id"`
	ArtistID         uuid.UUID           `json:"artist_id"`
	LabelID          uuid.UUID           `json:"label_id"`
	TopicChannelLink string              `json:"topic_channel_link"`
	OwnedChannelLink string              `json:"owned_channel_link"`
	Status           enums.RequestStatus `json:"status"`
	Notes            *string             `json:"notes,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

func oacFromModel(request *models.OACRequest) *OACDTO {
	if request == nil {
		return nil
	}
	return &OACDTO{
		ID:               request.ID,
		UserID:           request.UserID,
		ArtistID:         request.ArtistID,
		LabelID:          request.LabelID,
		TopicChannelLink: request.TopicChannelLink,
		OwnedChannelLink: request.OwnedChannelLink,
		Status:           request.Status,
		Notes:            request.Notes,
		CreatedAt:        request.CreatedAt,
		UpdatedAt:        request.UpdatedAt,
	}
}

// CreateCopyrightRemovalRequest is the customer payload for reporting an
// infringing video on one of their releases.
type CreateCopyrightRemovalRequest struct {
	ReleaseID   string `json:"release_id" validate:"required,uuid"`
	LabelID     string `json:"label_id" validate:"required,uuid"`
	YouTubeLink string `json:"youtube_link" validate:"required,url,max=500"`
}

// CreateOACRequest is the customer payload for requesting an official
// artist channel.
type CreateOACRequest struct {
	ArtistID         string `json:"artist_id" validate:"required,uuid"`
	LabelID          string `json:"label_id" validate:"required,uuid"`
	TopicChannelLink string `json:"topic_channel_link" validate:"required,url,max=500"`
	OwnedChannelLink string `json:"owned_channel_link" validate:"required,url,max=500"`
}

// UpdateStatusRequest is the admin payload for progressing a request.
type UpdateStatusRequest struct {
	Status string  `json:"status" validate:"required"`
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// ListFilter narrows request listings.
type ListFilter struct {
	Status *enums.RequestStatus
}

// CopyrightRemovalPage is a cursor page of copyright removal requests.
type CopyrightRemovalPage struct {
	Items      []CopyrightRemovalDTO `json:"items"`
	NextCursor *string               `json:"next_cursor,omitempty"`
}

// OACPage is a cursor page of official artist channel requests.
type OACPage struct {
	Items      []OACDTO `json:"items"`
	NextCursor *string  `json:"next_cursor,omitempty"`
}
