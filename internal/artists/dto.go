package artists

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/enums"
)

// ArtistDTO is the outward representation of a roster artist.
type ArtistDTO struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"user_id"`
	Name      string        `json:"name"`
	Email     *string       `json:"email,omitempty"`
	Phone     *string       `json:"phone,omitempty"`
	Whatsapp  *string       `json:"whatsapp,omitempty"`
	Country   *string       `json:"country,omitempty"`
	Gender    *enums.Gender `json:"gender,omitempty"`
	Languages []string      `json:"languages"`
	Genres    []string      `json:"genres"`
	Bio       *string       `json:"bio,omitempty"`
	Instagram *string       `json:"instagram,omitempty"`
	Facebook  *string       `json:"facebook,omitempty"`
	YouTube   *string       `json:"youtube,omitempty"`
	Spotify   *string       `json:"spotify,omitempty"`
	AppleLink *string       `json:"apple_link,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// FromModel maps a persisted artist onto its DTO.
func FromModel(artist *models.Artist) *ArtistDTO {
	if artist == nil {
		return nil
	}
	return &ArtistDTO{
		ID:        artist.ID,
		UserID:    artist.UserID,
		Name:      artist.Name,
		Email:     artist.Email,
		Phone:     artist.Phone,
		Whatsapp:  artist.Whatsapp,
		Country:   artist.Country,
		Gender:    artist.Gender,
		Languages: artist.Languages,
		Genres:    artist.Genres,
		Bio:       artist.Bio,
		Instagram: artist.Instagram,
		Facebook:  artist.Facebook,
		YouTube:   artist.YouTube,
		Spotify:   artist.Spotify,
		AppleLink: artist.AppleLink,
		CreatedAt: artist.CreatedAt,
		UpdatedAt: artist.UpdatedAt,
	}
}

// CreateArtistRequest is the payload for adding an artist to the roster.
type CreateArtistRequest struct {
	Name      string   `json:"name" validate:"required,min=1,max=120"`
	Email     *string  `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string  `json:"phone,omitempty" validate:"omitempty,max=20"`
	Whatsapp  *string  `json:"whatsapp,omitempty" validate:"omitempty,max=20"`
	Country   *string  `json:"country,omitempty" validate:"omitempty,max=80"`
	Gender    *string  `json:"gender,omitempty"`
	Languages []string `json:"languages,omitempty"`
	Genres    []string `json:"genres,omitempty"`
	Bio       *string  `json:"bio,omitempty"`
	Instagram *string  `json:"instagram,omitempty" validate:"omitempty,url"`
	Facebook  *string  `json:"facebook,omitempty" validate:"omitempty,url"`
	YouTube   *string  `json:"youtube,omitempty" validate:"omitempty,url"`
	Spotify   *string  `json:"spotify,omitempty" validate:"omitempty,url"`
	AppleLink *string  `json:"apple_link,omitempty" validate:"omitempty,url"`
}

// UpdateArtistRequest carries the editable artist fields. Nil means keep.
type UpdateArtistRequest struct {
	Name      *string   `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Email     *string   `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string   `json:"phone,omitempty" validate:"omitempty,max=20"`
	Whatsapp  *string   `json:"whatsapp,omitempty" validate:"omitempty,max=20"`
	Country   *string   `json:"country,omitempty" validate:"omitempty,max=80"`
	Gender    *string   `json:"gender,omitempty"`
	Languages *[]string `json:"languages,omitempty"`
	Genres    *[]string `json:"genres,omitempty"`
	Bio       *string   `json:"bio,omitempty"`
	Instagram *string   `json:"instagram,omitempty" validate:"omitempty,url"`
	Facebook  *string   `json:"facebook,omitempty" validate:"omitempty,url"`
	YouTube   *string   `json:"youtube,omitempty" validate:"omitempty,url"`
	Spotify   *string   `json:"spotify,omitempty" validate:"omitempty,url"`
	AppleLink *string   `json:"apple_link,omitempty" validate:"omitempty,url"`
}

// ArtistPage is a cursor page of roster artists.
type ArtistPage struct {
	Items      []ArtistDTO `json:"items"`
	NextCursor *string     `json:"next_cursor,omitempty"`
}

func (r CreateArtistRequest) toModel(userID uuid.UUID, gender *enums.Gender) *models.Artist {
	return &models.Artist{
		UserID:    userID,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		Whatsapp:  r.Whatsapp,
		Country:   r.Country,
		Gender:    gender,
		Languages: pq.StringArray(r.Languages),
		Genres:    pq.StringArray(r.Genres),
		Bio:       r.Bio,
		Instagram: r.Instagram,
		Facebook:  r.Facebook,
		YouTube:   r.YouTube,
		Spotify:   r.Spotify,
		AppleLink: r.AppleLink,
	}
}
