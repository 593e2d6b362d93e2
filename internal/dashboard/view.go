package dashboard

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Zisou1/2MNumerik-backend/internal/urgency"
	"github.com/Zisou1/2MNumerik-backend/pkg/db/models"
	"github.com/Zisou1/2MNumerik-backend/pkg/enums"
	"github.com/Zisou1/2MNumerik-backend/pkg/logger"
)

// RankedView holds the urgency-ordered row list for one dashboard. All
// operations serialize on an internal mutex: refresh and reconcile never run
// concurrently against the same row list.
type RankedView struct {
	mu       sync.Mutex
	rows     []OrderProductRow
	rankedAt time.Time
	logg     *logger.Logger

	subs    map[uint64]func()
	nextSub uint64
}

// NewRankedView builds an empty view. The logger may be nil in tests.
func NewRankedView(logg *logger.Logger) *RankedView {
	return &RankedView{
		logg: logg,
		subs: make(map[uint64]func()),
	}
}

// Replace swaps the whole row set with a fresh projection of the given orders
// and re-ranks at the given time. Used on initial load and periodic resync.
func (v *RankedView) Replace(orders []models.Order, now time.Time) {
	rows := make([]OrderProductRow, 0, len(orders))
	for _, order := range orders {
		if order.Status.IsTerminal() {
			continue
		}
		rows = append(rows, projectActive(order)...)
	}

	v.mu.Lock()
	v.rows = rows
	v.rankLocked(now)
	v.mu.Unlock()
	v.notify()
}

// Refresh recomputes every row's urgency at the given time and re-sorts.
// Callers invoke it on a fixed tick because urgency is time-relative and must
// escalate even when no data changed.
func (v *RankedView) Refresh(now time.Time) {
	v.mu.Lock()
	v.rankLocked(now)
	v.mu.Unlock()
	v.notify()
}

// Reconcile applies one propagation event. It is idempotent: replaying an
// event, or delivering a duplicate out of order, converges on the same list.
func (v *RankedView) Reconcile(event Event, now time.Time) {
	v.mu.Lock()

	switch event.Type {
	case enums.EventOrderDeleted:
		v.evictLocked(event.OrderID)
	case enums.EventOrderCreated, enums.EventOrderUpdated:
		if event.Order == nil || event.Order.ID == uuid.Nil {
			v.warn("event without order payload dropped")
			v.mu.Unlock()
			return
		}
		if v.staleLocked(*event.Order) {
			v.debug("stale event ignored")
			v.mu.Unlock()
			return
		}
		v.evictLocked(event.Order.ID)
		if !event.Order.Status.IsTerminal() {
			v.rows = append(v.rows, projectActive(*event.Order)...)
		}
	default:
		v.warn("unknown event type dropped")
		v.mu.Unlock()
		return
	}

	v.rankLocked(now)
	v.mu.Unlock()
	v.notify()
}

// Rows returns the ranked list re-ranked at the given time.
func (v *RankedView) Rows(now time.Time) []OrderProductRow {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rankLocked(now)
	rows := make([]OrderProductRow, len(v.rows))
	copy(rows, v.rows)
	return rows
}

// RankedAt reports when the list was last sorted.
func (v *RankedView) RankedAt() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rankedAt
}

// Subscribe registers a callback invoked after every refresh or reconcile.
// The returned function removes the subscription; views must call it on
// teardown to avoid leaking handlers.
func (v *RankedView) Subscribe(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	v.mu.Lock()
	id := v.nextSub
	v.nextSub++
	v.subs[id] = fn
	v.mu.Unlock()

	return func() {
		v.mu.Lock()
		delete(v.subs, id)
		v.mu.Unlock()
	}
}

// rankLocked recomputes urgency for every row and applies the three-level
// comparator: tier ascending, then estimated delivery ascending with dated
// rows before undated ones, then order creation descending. The sort is
// stable so ties beyond these keys keep their prior relative order.
func (v *RankedView) rankLocked(now time.Time) {
	kept := v.rows[:0]
	for _, row := range v.rows {
		if row.OrderID == uuid.Nil || row.LineID == uuid.Nil {
			v.warn("corrupt row skipped during ranking")
			continue
		}
		row.Urgency = urgency.Tier(row.Status, row.EstimatedDeliveryAt, row.EstimatedWorkMinutes, now)
		kept = append(kept, row)
	}
	v.rows = kept

	sort.SliceStable(v.rows, func(i, j int) bool {
		a, b := v.rows[i], v.rows[j]
		if a.Urgency != b.Urgency {
			return a.Urgency < b.Urgency
		}
		switch {
		case a.EstimatedDeliveryAt != nil && b.EstimatedDeliveryAt != nil:
			if !a.EstimatedDeliveryAt.Equal(*b.EstimatedDeliveryAt) {
				return a.EstimatedDeliveryAt.Before(*b.EstimatedDeliveryAt)
			}
			return false
		case a.EstimatedDeliveryAt != nil:
			return true
		case b.EstimatedDeliveryAt != nil:
			return false
		default:
			return a.OrderCreatedAt.After(b.OrderCreatedAt)
		}
	})
	v.rankedAt = now
}

func (v *RankedView) evictLocked(orderID uuid.UUID) {
	kept := v.rows[:0]
	for _, row := range v.rows {
		if row.OrderID == orderID {
			continue
		}
		kept = append(kept, row)
	}
	v.rows = kept
}

// staleLocked reports whether the incoming order state is older than what the
// view already holds for that order.
func (v *RankedView) staleLocked(order models.Order) bool {
	for _, row := range v.rows {
		if row.OrderID == order.ID && order.UpdatedAt.Before(row.OrderUpdatedAt) {
			return true
		}
	}
	return false
}

func (v *RankedView) notify() {
	v.mu.Lock()
	callbacks := make([]func(), 0, len(v.subs))
	for _, fn := range v.subs {
		callbacks = append(callbacks, fn)
	}
	v.mu.Unlock()
	for _, fn := range callbacks {
		fn()
	}
}

func (v *RankedView) warn(msg string) {
	if v.logg != nil {
		v.logg.Warn(context.Background(), msg)
	}
}

func (v *RankedView) debug(msg string) {
	if v.logg != nil {
		v.logg.Debug(context.Background(), msg)
	}
}

// projectActive projects an order's lines, skipping lines already in a
// terminal status so they leave active dashboards immediately.
func projectActive(order models.Order) []OrderProductRow {
	rows := ProjectOrder(order)
	kept := rows[:0]
	for _, row := range rows {
		if row.Status.IsTerminal() {
			continue
		}
		kept = append(kept, row)
	}
	return kept
}
