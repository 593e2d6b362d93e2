package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is a reference record for the shop's customers. Orders keep a display
// snapshot so a free-text client still renders when no record exists.
type Client struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Code      *string   `gorm:"column:code;uniqueIndex"`
	Email     *string   `gorm:"column:email"`
	Phone     *string   `gorm:"column:phone"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
