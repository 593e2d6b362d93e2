package urgency

import (
	"time"

	"github.com/Zisou1/2MNumerik-backend/pkg/enums"
)

// Level is a discrete urgency tier. Lower means more urgent; the dashboard
// comparator relies on this ordering.
type Level int

const (
	// LevelOverdue means it is already too late to start, or the deadline passed.
	LevelOverdue Level = 0
	// LevelCritical means work must start within 30 minutes.
	LevelCritical Level = 1
	// LevelSoon means work must start within the hour.
	LevelSoon Level = 2
	// LevelUnknown is assigned when no estimated delivery exists.
	LevelUnknown Level = 3
	// LevelComfortable means there is ample time before the latest start.
	LevelComfortable Level = 4
	// LevelDone is assigned to finished or delivered work.
	LevelDone Level = 5
)

// DefaultWorkMinutes is assumed when a line carries no estimated duration.
const DefaultWorkMinutes = 120

// Tier computes the urgency level of one order-product line at the given
// wall-clock time. It is pure and total: absent or odd inputs land in the
// unknown/comfortable branches rather than failing.
func Tier(status enums.OrderStatus, estimatedDeliveryAt *time.Time, estimatedWorkMinutes *int, now time.Time) Level {
	if status == enums.OrderStatusDone || status == enums.OrderStatusDelivered {
		return LevelDone
	}
	if estimatedDeliveryAt == nil {
		return LevelUnknown
	}

	workMinutes := DefaultWorkMinutes
	if estimatedWorkMinutes != nil {
		workMinutes = *estimatedWorkMinutes
	}

	latestStart := estimatedDeliveryAt.Add(-time.Duration(workMinutes) * time.Minute)
	hoursUntilMustStart := latestStart.Sub(now).Hours()
	hoursUntilDeadline := estimatedDeliveryAt.Sub(now).Hours()

	switch {
	case hoursUntilMustStart < 0 || hoursUntilDeadline < 0:
		return LevelOverdue
	case hoursUntilMustStart <= 0.5:
		return LevelCritical
	case hoursUntilMustStart <= 1.0:
		return LevelSoon
	default:
		return LevelComfortable
	}
}
