package orders

import (
	"github.com/Zisou1/2MNumerik-backend/pkg/db/models"
	"github.com/Zisou1/2MNumerik-backend/pkg/enums"
)

// AggregateStatus reduces the statuses of an order's product lines into the
// order-level status. The reduction counts occurrences instead of folding over
// the slice, so concurrent line updates arriving in any order converge on the
// same result.
func AggregateStatus(statuses []enums.OrderStatus) enums.OrderStatus {
	if len(statuses) == 0 {
		return enums.OrderStatusWaiting
	}

	var cancelled, delivered, done, inProgress int
	for _, status := range statuses {
		switch status {
		case enums.OrderStatusCancelled:
			cancelled++
		case enums.OrderStatusDelivered:
			delivered++
		case enums.OrderStatusDone:
			done++
		case enums.OrderStatusInProgress:
			inProgress++
		}
	}

	total := len(statuses)
	switch {
	case cancelled > 0:
		return enums.OrderStatusCancelled
	case delivered == total:
		return enums.OrderStatusDelivered
	case done+delivered == total:
		return enums.OrderStatusDone
	case inProgress > 0:
		return enums.OrderStatusInProgress
	default:
		return enums.OrderStatusWaiting
	}
}

// LineStatuses collects the per-line statuses used by AggregateStatus.
func LineStatuses(lines []models.OrderProductLine) []enums.OrderStatus {
	statuses := make([]enums.OrderStatus, 0, len(lines))
	for _, line := range lines {
		statuses = append(statuses, line.Status)
	}
	return statuses
}
