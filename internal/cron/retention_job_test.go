package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Zisou1/2MNumerik-backend/pkg/logger"
)

type fakePruner struct {
	cutoff      time.Time
	maxAttempts int
	deleted     int64
	err         error
}

func (f *fakePruner) PruneBefore(cutoff time.Time, maxAttempts int) (int64, error) {
	f.cutoff = cutoff
	f.maxAttempts = maxAttempts
	return f.deleted, f.err
}

func TestOutboxRetentionJobPrunesAtCutoff(t *testing.T) {
	pruner := &fakePruner{deleted: 7}
	job, err := NewOutboxRetentionJob(OutboxRetentionJobParams{
		Logger:      logger.New(logger.Options{ServiceName: "cron-test"}),
		Pruner:      pruner,
		Retention:   30 * 24 * time.Hour,
		MaxAttempts: 10,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	frozen := time.Date(2026, time.February, 14, 12, 0, 0, 0, time.UTC)
	job.now = func() time.Time { return frozen }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := frozen.Add(-30 * 24 * time.Hour)
	if !pruner.cutoff.Equal(want) {
		t.Fatalf("expected cutoff %s, got %s", want, pruner.cutoff)
	}
	if pruner.maxAttempts != 10 {
		t.Fatalf("expected max attempts forwarded, got %d", pruner.maxAttempts)
	}
}

func TestOutboxRetentionJobDefaultsRetention(t *testing.T) {
	job, err := NewOutboxRetentionJob(OutboxRetentionJobParams{
		Logger:      logger.New(logger.Options{ServiceName: "cron-test"}),
		Pruner:      &fakePruner{},
		MaxAttempts: 5,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if job.retention != defaultOutboxRetention {
		t.Fatalf("expected default retention, got %s", job.retention)
	}
}

func TestOutboxRetentionJobSurfacesPruneError(t *testing.T) {
	pruner := &fakePruner{err: errors.New("db down")}
	job, err := NewOutboxRetentionJob(OutboxRetentionJobParams{
		Logger:      logger.New(logger.Options{ServiceName: "cron-test"}),
		Pruner:      pruner,
		MaxAttempts: 5,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected prune failure to surface")
	}
}
