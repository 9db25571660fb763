package profiles

import (
	"time"

	"github.com/google/uuid"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/enums"
)

// ProfileDTO is the outward representation of a profile. The password hash
// never leaves the persistence layer.
type ProfileDTO struct {
	ID          uuid.UUID      `json:"id"`
	FullName    string         `json:"full_name"`
	Email       string         `json:"email"`
	Phone       *string        `json:"phone,omitempty"`
	Role        enums.UserRole `json:"role"`
	Active      bool           `json:"active"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// FromModel maps a persisted profile onto its DTO.
func FromModel(profile *models.Profile) *ProfileDTO {
	if profile == nil {
		return nil
	}
	return &ProfileDTO{
		ID:          profile.ID,
		FullName:    profile.FullName,
		Email:       profile.Email,
		Phone:       profile.Phone,
		Role:        profile.Role,
		Active:      profile.Active,
		LastLoginAt: profile.LastLoginAt,
		CreatedAt:   profile.CreatedAt,
	}
}

// CreateProfileDTO carries the fields needed to insert a profile row.
type CreateProfileDTO struct {
	FullName     string
	Email        string
	Phone        *string
	Role         enums.UserRole
	PasswordHash string
}

// ToModel converts the create payload into a persistable profile.
func (d CreateProfileDTO) ToModel() *models.Profile {
	role := d.Role
	if role == "" {
		role = enums.UserRoleCustomer
	}
	return &models.Profile{
		FullName:     d.FullName,
		Email:        d.Email,
		Phone:        d.Phone,
		Role:         role,
		Active:       true,
		PasswordHash: d.PasswordHash,
	}
}

// UpdateProfileDTO holds the self-service editable fields.
type UpdateProfileDTO struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=1,max=120"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=20"`
}

// ChangePasswordRequest carries a self-service credential rotation. The
// minimum length check lives in the service so it follows the configured
// policy.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// SetActiveRequest toggles whether an account may sign in.
type SetActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// SetRoleRequest assigns an access level to an account.
type SetRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// ProfilePage is one page of the admin account listing.
type ProfilePage struct {
	Items      []ProfileDTO `json:"items"`
	NextCursor *string      `json:"next_cursor,omitempty"`
}
