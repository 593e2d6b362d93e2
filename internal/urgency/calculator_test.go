package urgency

import (
	"testing"
	"time"

	"github.com/Zisou1/2MNumerik-backend/pkg/enums"
)

func minutesPtr(m int) *int { return &m }

func timePtr(t time.Time) *time.Time { return &t }

func TestTierTerminalStatusesAlwaysLeastUrgent(t *testing.T) {
	now := time.Now()
	past := timePtr(now.Add(-48 * time.Hour))
	for _, status := range []enums.OrderStatus{enums.OrderStatusDone, enums.OrderStatusDelivered} {
		if got := Tier(status, past, minutesPtr(600), now); got != LevelDone {
			t.Fatalf("status %s: expected LevelDone got %d", status, got)
		}
		if got := Tier(status, nil, nil, now); got != LevelDone {
			t.Fatalf("status %s without deadline: expected LevelDone got %d", status, got)
		}
	}
}

func TestTierMissingDeadlineIsUnknown(t *testing.T) {
	now := time.Now()
	if got := Tier(enums.OrderStatusWaiting, nil, minutesPtr(30), now); got != LevelUnknown {
		t.Fatalf("expected LevelUnknown got %d", got)
	}
}

func TestTierLatestStartAlreadyPassed(t *testing.T) {
	now := time.Now()
	// 10h of work against a deadline 10 minutes away: must-start was ~9h50m ago.
	deadline := timePtr(now.Add(10 * time.Minute))
	if got := Tier(enums.OrderStatusInProgress, deadline, minutesPtr(600), now); got != LevelOverdue {
		t.Fatalf("expected LevelOverdue got %d", got)
	}
}

func TestTierPastDeadline(t *testing.T) {
	now := time.Now()
	deadline := timePtr(now.Add(-time.Minute))
	if got := Tier(enums.OrderStatusWaiting, deadline, minutesPtr(1), now); got != LevelOverdue {
		t.Fatalf("expected LevelOverdue got %d", got)
	}
}

func TestTierBoundaryOneHourInclusive(t *testing.T) {
	now := time.Now()
	// 2h of work, deadline in 3h: must-start in exactly 1h, which is LevelSoon.
	deadline := timePtr(now.Add(3 * time.Hour))
	if got := Tier(enums.OrderStatusWaiting, deadline, minutesPtr(120), now); got != LevelSoon {
		t.Fatalf("expected LevelSoon got %d", got)
	}
}

func TestTierBoundaryHalfHourInclusive(t *testing.T) {
	now := time.Now()
	// Must-start in exactly 30 minutes.
	deadline := timePtr(now.Add(2*time.Hour + 30*time.Minute))
	if got := Tier(enums.OrderStatusWaiting, deadline, minutesPtr(120), now); got != LevelCritical {
		t.Fatalf("expected LevelCritical got %d", got)
	}
}

func TestTierDefaultDurationApplied(t *testing.T) {
	now := time.Now()
	// No duration: defaults to 120 minutes. Deadline in 25 minutes means the
	// must-start point was 95 minutes ago.
	deadline := timePtr(now.Add(25 * time.Minute))
	if got := Tier(enums.OrderStatusWaiting, deadline, nil, now); got != LevelOverdue {
		t.Fatalf("expected LevelOverdue got %d", got)
	}
}

func TestTierAmpleTime(t *testing.T) {
	now := time.Now()
	deadline := timePtr(now.Add(72 * time.Hour))
	if got := Tier(enums.OrderStatusWaiting, deadline, minutesPtr(120), now); got != LevelComfortable {
		t.Fatalf("expected LevelComfortable got %d", got)
	}
}
