package dashboard

import (
	"time"

	"github.com/google/uuid"

	"github.com/Zisou1/2MNumerik-backend/internal/urgency"
	"github.com/Zisou1/2MNumerik-backend/pkg/db/models"
	"github.com/Zisou1/2MNumerik-backend/pkg/enums"
)

// OrderProductRow is the flattened projection of one product line joined with
// its parent order's header fields. It is never persisted: views regenerate it
// on every fetch and reconcile it in place on push events.
type OrderProductRow struct {
	OrderID             uuid.UUID         `json:"orderId"`
	LineID              uuid.UUID         `json:"lineId"`
	CommercialName      string            `json:"commercialName"`
	ClientDisplay       string            `json:"clientDisplay"`
	RequestedDeliveryAt *time.Time        `json:"requestedDeliveryAt,omitempty"`
	OrderStatus         enums.OrderStatus `json:"orderStatus"`
	OrderNotes          *string           `json:"orderNotes,omitempty"`
	OrderCreatedAt      time.Time         `json:"orderCreatedAt"`
	OrderUpdatedAt      time.Time         `json:"-"`

	ProductName          string            `json:"productName"`
	Quantity             int               `json:"quantity"`
	Status               enums.OrderStatus `json:"status"`
	ProductionStage      *string           `json:"productionStage,omitempty"`
	Workshop             *string           `json:"workshop,omitempty"`
	ProducerName         *string           `json:"producerName,omitempty"`
	EstimatedDeliveryAt  *time.Time        `json:"estimatedDeliveryAt,omitempty"`
	EstimatedWorkMinutes *int              `json:"estimatedWorkMinutes,omitempty"`
	Rush                 bool              `json:"rush"`
	Approved             bool              `json:"approved"`
	Notes                *string           `json:"notes,omitempty"`

	Urgency urgency.Level `json:"urgency"`
}

// ProjectOrder flattens one order into rows, one per product line. An order
// with zero lines projects to zero rows.
func ProjectOrder(order models.Order) []OrderProductRow {
	rows := make([]OrderProductRow, 0, len(order.Lines))
	for _, line := range order.Lines {
		rows = append(rows, OrderProductRow{
			OrderID:             order.ID,
			LineID:              line.ID,
			CommercialName:      order.CommercialName,
			ClientDisplay:       order.ClientDisplay,
			RequestedDeliveryAt: order.RequestedDeliveryAt,
			OrderStatus:         order.Status,
			OrderNotes:          order.Notes,
			OrderCreatedAt:      order.CreatedAt,
			OrderUpdatedAt:      order.UpdatedAt,

			ProductName:          line.ProductName,
			Quantity:             line.Quantity,
			Status:               line.Status,
			ProductionStage:      line.ProductionStage,
			Workshop:             line.Workshop,
			ProducerName:         line.ProducerName,
			EstimatedDeliveryAt:  line.EstimatedDeliveryAt,
			EstimatedWorkMinutes: line.EstimatedWorkMinutes,
			Rush:                 line.Rush,
			Approved:             line.Approved,
			Notes:                line.Notes,
		})
	}
	return rows
}

// ProjectRows flattens a batch of orders in O(total lines).
func ProjectRows(orders []models.Order) []OrderProductRow {
	total := 0
	for _, order := range orders {
		total += len(order.Lines)
	}
	rows := make([]OrderProductRow, 0, total)
	for _, order := range orders {
		rows = append(rows, ProjectOrder(order)...)
	}
	return rows
}
