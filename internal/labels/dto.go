package labels

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
)

// LabelDTO is the outward representation of a record label.
type LabelDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Whatsapp  *string   `json:"whatsapp,omitempty"`
	Country   *string   `json:"country,omitempty"`
	Languages []string  `json:"languages"`
	Genres    []string  `json:"genres"`
	Bio       *string   `json:"bio,omitempty"`
	Website   *string   `json:"website,omitempty"`
	Instagram *string   `json:"instagram,omitempty"`
	Facebook  *string   `json:"facebook,omitempty"`
	YouTube   *string   `json:"youtube,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromModel maps a persisted label onto its DTO.
func FromModel(label *models.Label) *LabelDTO {
	if label == nil {
		return nil
	}
	return &LabelDTO{
		ID:        label.ID,
		UserID:    label.UserID,
		Name:      label.Name,
		Email:     label.Email,
		Phone:     label.Phone,
		Whatsapp:  label.Whatsapp,
		Country:   label.Country,
		Languages: label.Languages,
		Genres:    label.Genres,
		Bio:       label.Bio,
		Website:   label.Website,
		Instagram: label.Instagram,
		Facebook:  label.Facebook,
		YouTube:   label.YouTube,
		CreatedAt: label.CreatedAt,
		UpdatedAt: label.UpdatedAt,
	}
}

// CreateLabelRequest is the payload for registering a label.
type CreateLabelRequest struct {
	Name      string   `json:"name" validate:"required,min=1,max=120"`
	Email     *string  `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string  `json:"phone,omitempty" validate:"omitempty,max=20"`
	Whatsapp  *string  `json:"whatsapp,omitempty" validate:"omitempty,max=20"`
	Country   *string  `json:"country,omitempty" validate:"omitempty,max=80"`
	Languages []string `json:"languages,omitempty"`
	Genres    []string `json:"genres,omitempty"`
	Bio       *string  `json:"bio,omitempty"`
	Website   *string  `json:"website,omitempty" validate:"omitempty,url"`
	Instagram *string  `json:"instagram,omitempty" validate:"omitempty,url"`
	Facebook  *string  `json:"facebook,omitempty" validate:"omitempty,url"`
	YouTube   *string  `json:"youtube,omitempty" validate:"omitempty,url"`
}

// UpdateLabelRequest carries the editable label fields. Nil means keep.
type UpdateLabelRequest struct {
	Name      *string   `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Email     *string   `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string   `json:"phone,omitempty" validate:"omitempty,max=20"`
	Whatsapp  *string   `json:"whatsapp,omitempty" validate:"omitempty,max=20"`
	Country   *string   `json:"country,omitempty" validate:"omitempty,max=80"`
	Languages *[]string `json:"languages,omitempty"`
	Genres    *[]string `json:"genres,omitempty"`
	Bio       *string   `json:"bio,omitempty"`
	Website   *string   `json:"website,omitempty" validate:"omitempty,url"`
	Instagram *string   `json:"instagram,omitempty" validate:"omitempty,url"`
	Facebook  *string   `json:"facebook,omitempty" validate:"omitempty,url"`
	YouTube   *string   `json:"youtube,omitempty" validate:"omitempty,url"`
}

// LabelPage is a cursor page of labels.
type LabelPage struct {
	Items      []LabelDTO `json:"items"`
	NextCursor *string    `json:"next_cursor,omitempty"`
}

func (r CreateLabelRequest) toModel(userID uuid.UUID) *models.Label {
	return &models.Label{
		UserID:    userID,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		Whatsapp:  r.Whatsapp,
		Country:   r.Country,
		Languages: pq.StringArray(r.Languages),
		Genres:    pq.StringArray(r.Genres),
		Bio:       r.Bio,
		Website:   r.Website,
		Instagram: r.Instagram,
		Facebook:  r.Facebook,
		YouTube:   r.YouTube,
	}
}
