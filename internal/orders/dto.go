package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Zisou1/2MNumerik-backend/pkg/db/models"
	"github.com/Zisou1/2MNumerik-backend/pkg/enums"
	"github.com/Zisou1/2MNumerik-backend/pkg/pagination"
)

// ActorContext identifies the authenticated user performing a mutation.
type ActorContext struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// ActiveOrderFilters narrows the active-orders listing.
type ActiveOrderFilters struct {
	Status     *enums.OrderStatus
	Commercial *string
	Workshop   *string
}

// OrderList is one page of active orders with nested lines.
type OrderList struct {
	Orders     []models.Order
	NextCursor *pagination.Cursor
}

// CreateLineInput describes one product line on a new order.
type CreateLineInput struct {
	ProductID            *uuid.UUID
	ProductName          string
	Quantity             int
	ProducerName         *string
	ProductionStage      *string
	Workshop             *string
	EstimatedDeliveryAt  *time.Time
	EstimatedWorkMinutes *int
	Rush                 bool
	UnitPrice            decimal.Decimal
	Notes                *string
}

// CreateOrderInput carries everything needed to register a new order.
type CreateOrderInput struct {
	CommercialName      string
	ClientID            *uuid.UUID
	ClientDisplay       string
	RequestedDeliveryAt *time.Time
	Notes               *string
	Lines               []CreateLineInput
	Actor               ActorContext
}

// EditFieldInput is one single-field mutation. LineID is required for
// line-scoped fields and ignored for order-scoped ones.
type EditFieldInput struct {
	OrderID uuid.UUID
	LineID  *uuid.UUID
	Field   string
	Value   any
	Actor   ActorContext
}

// EditFieldResult reports what the gateway did with an edit.
type EditFieldResult struct {
	Scope   enums.FieldScope
	Field   string
	Applied any
	NoOp    bool
	Order   *models.Order
}

// DeleteOrderInput identifies the order to remove.
type DeleteOrderInput struct {
	OrderID uuid.UUID
	Actor   ActorContext
}
