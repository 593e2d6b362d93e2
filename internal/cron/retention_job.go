package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Zisou1/2MNumerik-backend/pkg/logger"
)

const (
	// Published events are kept for a month so an operator can replay or
	// inspect recent dashboard traffic before rows disappear.
	defaultOutboxRetention = 30 * 24 * time.Hour
)

// outboxPruner deletes outbox rows the publisher no longer needs.
type outboxPruner interface {
	PruneBefore(cutoff time.Time, maxAttempts int) (int64, error)
}

// OutboxRetentionJob sweeps published and exhausted outbox rows older than the
// retention window. It acts on the shared database, so the ticker service
// running it must carry a replica lock.
type OutboxRetentionJob struct {
	logg        *logger.Logger
	pruner      outboxPruner
	retention   time.Duration
	maxAttempts int
	now         func() time.Time
}

// OutboxRetentionJobParams configure the retention sweep. MaxAttempts should
// match the publisher's give-up threshold so rows it abandoned become
// eligible for deletion.
type OutboxRetentionJobParams struct {
	Logger      *logger.Logger
	Pruner      outboxPruner
	Retention   time.Duration
	MaxAttempts int
}

// NewOutboxRetentionJob builds the sweep job.
func NewOutboxRetentionJob(params OutboxRetentionJobParams) (*OutboxRetentionJob, error) {
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	if params.Pruner == nil {
		return nil, errors.New("outbox pruner required")
	}
	if params.MaxAttempts <= 0 {
		return nil, fmt.Errorf("max attempts must be positive, got %d", params.MaxAttempts)
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultOutboxRetention
	}
	return &OutboxRetentionJob{
		logg:        params.Logger,
		pruner:      params.Pruner,
		retention:   retention,
		maxAttempts: params.MaxAttempts,
		now:         time.Now,
	}, nil
}

// Name identifies the job in logs and metrics.
func (j *OutboxRetentionJob) Name() string {
	return "outbox-retention"
}

// Run deletes outbox rows older than the retention window.
func (j *OutboxRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().Add(-j.retention)
	deleted, err := j.pruner.PruneBefore(cutoff, j.maxAttempts)
	if err != nil {
		return fmt.Errorf("prune outbox: %w", err)
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff.UTC().Format(time.RFC3339),
		"max_attempts": j.maxAttempts,
		"rows_deleted": deleted,
	}), "outbox retention sweep completed")
	return nil
}
