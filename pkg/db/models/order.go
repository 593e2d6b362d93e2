package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Zisou1/2MNumerik-backend/pkg/enums"
)

// Order is the header-level record for a client purchase request. Its status
// is always derived from the statuses of its product lines; it is never set
// independently once a line exists.
type Order struct {
	ID                  uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CommercialName      string             `gorm:"column:commercial_name;not null"`
	ClientID            *uuid.UUID         `gorm:"column:client_id;type:uuid"`
	ClientDisplay       string             `gorm:"column:client_display;not null"`
	RequestedDeliveryAt *time.Time         `gorm:"column:requested_delivery_at"`
	Status              enums.OrderStatus  `gorm:"column:status;type:order_status;not null;default:'waiting'"`
	Notes               *string            `gorm:"column:notes"`
	Lines               []OrderProductLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
