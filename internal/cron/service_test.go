package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/Zisou1/2MNumerik-backend/pkg/logger"
)

type fakeLock struct {
	acquired bool
	held     bool
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	if f.held {
		return false, nil
	}
	f.acquired = true
	return true, nil
}

func (f *fakeLock) Release(context.Context) error {
	f.acquired = false
	return nil
}

type testJob struct {
	name string
	err  error
	runs int
}

func (t *testJob) Name() string { return t.name }

func (t *testJob) Run(context.Context) error {
	t.runs++
	return t.err
}

func TestRunCycleRunsAllJobsEvenOnFailure(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	failing := &testJob{name: "fail", err: errors.New("boom")}
	succeeding := &testJob{name: "refresh"}
	service, err := NewService(ServiceParams{
		Logger: logg,
		Jobs:   []Job{failing, succeeding},
		Lock:   &fakeLock{},
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	if err := service.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if failing.runs != 1 {
		t.Fatalf("expected failing job to run once, ran %d", failing.runs)
	}
	if succeeding.runs != 1 {
		t.Fatalf("expected second job to run despite earlier failure, ran %d", succeeding.runs)
	}
}

func TestRunCycleSkipsWhenLockHeld(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	job := &testJob{name: "retention"}
	service, err := NewService(ServiceParams{
		Logger: logg,
		Jobs:   []Job{job},
		Lock:   &fakeLock{held: true},
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	if err := service.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("expected no runs while lock is held elsewhere, ran %d", job.runs)
	}
}

func TestRunCycleWithoutLockRunsEveryCycle(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	job := &testJob{name: "refresh"}
	service, err := NewService(ServiceParams{
		Logger: logg,
		Jobs:   []Job{job},
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := service.runCycle(context.Background()); err != nil {
			t.Fatalf("run cycle %d: %v", i, err)
		}
	}
	if job.runs != 3 {
		t.Fatalf("expected the unlocked job to run every cycle, ran %d", job.runs)
	}
}

func TestNewServiceDropsNilJobsAndDefaultsInterval(t *testing.T) {
	job := &testJob{name: "refresh"}
	service, err := NewService(ServiceParams{
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
		Jobs:   []Job{nil, job, nil},
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	if len(service.jobs) != 1 {
		t.Fatalf("expected nil jobs to be dropped, kept %d", len(service.jobs))
	}
	if service.interval != defaultInterval {
		t.Fatalf("expected default interval, got %s", service.interval)
	}
}
