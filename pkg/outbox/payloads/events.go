package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Zisou1/2MNumerik-backend/pkg/db/models"
	"github.com/Zisou1/2MNumerik-backend/pkg/enums"
)

// OrderSnapshot is the full order state carried on created/updated events so
// subscribers can reconcile without a read-back.
type OrderSnapshot struct {
	ID                  uuid.UUID         `json:"id"`
	CommercialName      string            `json:"commercialName"`
	ClientID            *uuid.UUID        `json:"clientId,omitempty"`
	ClientDisplay       string            `json:"clientDisplay"`
	RequestedDeliveryAt *time.Time        `json:"requestedDeliveryAt,omitempty"`
	Status              enums.OrderStatus `json:"status"`
	Notes               *string           `json:"notes,omitempty"`
	Lines               []LineSnapshot    `json:"lines"`
	CreatedAt           time.Time         `json:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt"`
}

// LineSnapshot mirrors a product line at event time.
type LineSnapshot struct {
	ID                   uuid.UUID         `json:"id"`
	OrderID              uuid.UUID         `json:"orderId"`
	ProductID            *uuid.UUID        `json:"productId,omitempty"`
	ProductName          string            `json:"productName"`
	Quantity             int               `json:"quantity"`
	Status               enums.OrderStatus `json:"status"`
	ProducerName         *string           `json:"producerName,omitempty"`
	ProductionStage      *string           `json:"productionStage,omitempty"`
	Workshop             *string           `json:"workshop,omitempty"`
	EstimatedDeliveryAt  *time.Time        `json:"estimatedDeliveryAt,omitempty"`
	EstimatedWorkMinutes *int              `json:"estimatedWorkMinutes,omitempty"`
	Rush                 bool              `json:"rush"`
	Approved             bool              `json:"approved"`
	UnitPrice            decimal.Decimal   `json:"unitPrice"`
	Notes                *string           `json:"notes,omitempty"`
	CreatedAt            time.Time         `json:"createdAt"`
}

// OrderEvent is the data payload for order_created and order_updated events.
type OrderEvent struct {
	Order OrderSnapshot `json:"order"`
}

// OrderDeletedEvent carries only the id of the removed order.
type OrderDeletedEvent struct {
	OrderID uuid.UUID `json:"orderId"`
}

// SnapshotOrder converts a persisted order (with preloaded lines) into its
// event representation.
func SnapshotOrder(order models.Order) OrderSnapshot {
	snapshot := OrderSnapshot{
		ID:                  order.ID,
		CommercialName:      order.CommercialName,
		ClientID:            order.ClientID,
		ClientDisplay:       order.ClientDisplay,
		RequestedDeliveryAt: order.RequestedDeliveryAt,
		Status:              order.Status,
		Notes:               order.Notes,
		CreatedAt:           order.CreatedAt,
		UpdatedAt:           order.UpdatedAt,
	}
	snapshot.Lines = make([]LineSnapshot, 0, len(order.Lines))
	for _, line := range order.Lines {
		snapshot.Lines = append(snapshot.Lines, LineSnapshot{
			ID:                   line.ID,
			OrderID:              line.OrderID,
			ProductID:            line.ProductID,
			ProductName:          line.ProductName,
			Quantity:             line.Quantity,
			Status:               line.Status,
			ProducerName:         line.ProducerName,
			ProductionStage:      line.ProductionStage,
			Workshop:             line.Workshop,
			EstimatedDeliveryAt:  line.EstimatedDeliveryAt,
			EstimatedWorkMinutes: line.EstimatedWorkMinutes,
			Rush:                 line.Rush,
			Approved:             line.Approved,
			UnitPrice:            line.UnitPrice,
			Notes:                line.Notes,
			CreatedAt:            line.CreatedAt,
		})
	}
	return snapshot
}

// ToModel converts an event snapshot back into the model shape consumed by
// the dashboard projector.
func (s OrderSnapshot) ToModel() models.Order {
	order := models.Order{
		ID:                  s.ID,
		CommercialName:      s.CommercialName,
		ClientID:            s.ClientID,
		ClientDisplay:       s.ClientDisplay,
		RequestedDeliveryAt: s.RequestedDeliveryAt,
		Status:              s.Status,
		Notes:               s.Notes,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
	order.Lines = make([]models.OrderProductLine, 0, len(s.Lines))
	for _, line := range s.Lines {
		order.Lines = append(order.Lines, models.OrderProductLine{
			ID:                   line.ID,
			OrderID:              line.OrderID,
			ProductID:            line.ProductID,
			ProductName:          line.ProductName,
			Quantity:             line.Quantity,
			Status:               line.Status,
			ProducerName:         line.ProducerName,
			ProductionStage:      line.ProductionStage,
			Workshop:             line.Workshop,
			EstimatedDeliveryAt:  line.EstimatedDeliveryAt,
			EstimatedWorkMinutes: line.EstimatedWorkMinutes,
			Rush:                 line.Rush,
			Approved:             line.Approved,
			UnitPrice:            line.UnitPrice,
			Notes:                line.Notes,
			CreatedAt:            line.CreatedAt,
		})
	}
	return order
}
