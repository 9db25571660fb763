package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Label represents a record label owned by a profile.
type Label struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index"`
	Name      string         `gorm:"column:name;not null"`
	Email     *string        `gorm:"column:email"`
	Phone     *string        `gorm:"column:phone"`
	Whatsapp  *string        `gorm:"column:whatsapp"`
	Country   *string        `gorm:"column:country"`
	Languages pq.StringArray `gorm:"column:languages;type:text[];not null;default:ARRAY[]::text[]"`
	Genres    pq.StringArray `gorm:"column:genres;type:text[];not null;default:ARRAY[]::text[]"`
	Bio       *string        `gorm:"column:bio"`
	Website   *string        `gorm:"column:website"`
	Instagram *string        `gorm:"column:instagram"`
	Facebook  *string        `gorm:"column:facebook"`
	YouTube   *string        `gorm:"column:youtube"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
