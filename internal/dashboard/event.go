package dashboard

import (
	"github.com/google/uuid"

	"github.com/Zisou1/2MNumerik-backend/pkg/db/models"
	"github.com/Zisou1/2MNumerik-backend/pkg/enums"
)

// Event is one change-propagation signal applied to a view. Order carries the
// full state for created/updated events and is nil for deletions.
type Event struct {
	Type    enums.OrderEventType
	OrderID uuid.UUID
	Order   *models.Order
}
