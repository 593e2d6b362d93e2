package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Zisou1/2MNumerik-backend/pkg/db/models"
)

type ordersSource interface {
	FindAllActiveOrders(ctx context.Context) ([]models.Order, error)
}

// RefreshJob re-ranks the view on a fixed cadence. Urgency is time-relative,
// so the tick must fire even when no order changed. Each run also resyncs the
// row set from the database, which heals any events missed across a transport
// reconnect.
type RefreshJob struct {
	source ordersSource
	view   *RankedView
}

// NewRefreshJob builds the periodic dashboard refresh job.
func NewRefreshJob(source ordersSource, view *RankedView) (*RefreshJob, error) {
	if source == nil {
		return nil, errors.New("orders source is required")
	}
	if view == nil {
		return nil, errors.New("ranked view is required")
	}
	return &RefreshJob{source: source, view: view}, nil
}

// Name identifies the job in logs and metrics.
func (j *RefreshJob) Name() string {
	return "dashboard-refresh"
}

// Run resyncs and re-ranks. A failed fetch still re-ranks the rows already
// held, so urgency keeps escalating from local state.
func (j *RefreshJob) Run(ctx context.Context) error {
	now := time.Now()
	orders, err := j.source.FindAllActiveOrders(ctx)
	if err != nil {
		j.view.Refresh(now)
		return fmt.Errorf("fetch active orders: %w", err)
	}
	j.view.Replace(orders, now)
	return nil
}
