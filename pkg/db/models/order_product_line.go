package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Zisou1/2MNumerik-backend/pkg/enums"
)

// OrderProductLine is one product entry within an order and the unit the
// dashboard schedules. EstimatedWorkMinutes is nullable; the urgency
// calculator falls back to 120 minutes when it is absent.
type OrderProductLine struct {
	ID                   uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID              uuid.UUID         `gorm:"column:order_id;type:uuid;not null"`
	ProductID            *uuid.UUID        `gorm:"column:product_id;type:uuid"`
	ProductName          string            `gorm:"column:product_name;not null"`
	Quantity             int               `gorm:"column:quantity;not null;default:1"`
	Status               enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'waiting'"`
	ProducerName         *string           `gorm:"column:producer_name"`
	ProductionStage      *string           `gorm:"column:production_stage"`
	Workshop             *string           `gorm:"column:workshop"`
	EstimatedDeliveryAt  *time.Time        `gorm:"column:estimated_delivery_at"`
	EstimatedWorkMinutes *int              `gorm:"column:estimated_work_minutes"`
	Rush                 bool              `gorm:"column:rush;not null;default:false"`
	Approved             bool              `gorm:"column:approved;not null;default:false"`
	UnitPrice            decimal.Decimal   `gorm:"column:unit_price;type:numeric(10,2);not null;default:0"`
	Notes                *string           `gorm:"column:notes"`
	CreatedAt            time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
