package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Zisou1/2MNumerik-backend/api/controllers"
	dashboardcontrollers "github.com/Zisou1/2MNumerik-backend/api/controllers/dashboard"
	"github.com/Zisou1/2MNumerik-backend/api/middleware"
	"github.com/Zisou1/2MNumerik-backend/internal/cron"
	"github.com/Zisou1/2MNumerik-backend/internal/dashboard"
	"github.com/Zisou1/2MNumerik-backend/internal/orders"
	"github.com/Zisou1/2MNumerik-backend/pkg/config"
	"github.com/Zisou1/2MNumerik-backend/pkg/db"
	"github.com/Zisou1/2MNumerik-backend/pkg/logger"
	"github.com/Zisou1/2MNumerik-backend/pkg/metrics"
	"github.com/Zisou1/2MNumerik-backend/pkg/migrate"
	"github.com/Zisou1/2MNumerik-backend/pkg/outbox"
	"github.com/Zisou1/2MNumerik-backend/pkg/outbox/idempotency"
	"github.com/Zisou1/2MNumerik-backend/pkg/pubsub"
	"github.com/Zisou1/2MNumerik-backend/pkg/redis"
)

const sweepLockKeyFormat = "outbox-retention:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "dashboard-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "dashboard-worker"

	logg = logger.New(logger.Options{
		ServiceName: "dashboard-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub client", err)
		}
	}()

	manager, err := idempotency.NewManager(redisClient, cfg.Eventing.IdempotencyTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create idempotency manager", err)
		os.Exit(1)
	}

	view := dashboard.NewRankedView(logg)
	ordersRepo := orders.NewRepository(dbClient.DB())
	outboxRepo := outbox.NewRepository(dbClient.DB())
	jobMetrics := metrics.NewJobMetrics(prometheus.DefaultRegisterer)

	consumer, err := dashboard.NewConsumer(pubsubClient.DashboardSubscription(), view, manager, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard consumer", err)
		os.Exit(1)
	}

	refreshJob, err := dashboard.NewRefreshJob(ordersRepo, view)
	if err != nil {
		logg.Error(context.Background(), "failed to create refresh job", err)
		os.Exit(1)
	}

	// Every replica runs the re-rank tick: the view is process-local state
	// and each replica serves its own copy.
	refreshTicker, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Jobs:     []cron.Job{refreshJob},
		Metrics:  jobMetrics,
		Interval: cfg.Dashboard.RefreshInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create refresh ticker", err)
		os.Exit(1)
	}

	retentionJob, err := cron.NewOutboxRetentionJob(cron.OutboxRetentionJobParams{
		Logger:      logg,
		Pruner:      outboxRepo,
		Retention:   cfg.Outbox.Retention,
		MaxAttempts: cfg.Outbox.MaxAttempts,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create outbox retention job", err)
		os.Exit(1)
	}

	sweepLock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(sweepLockKey(cfg.App.Env)), cfg.Outbox.SweepLockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create sweep lock", err)
		os.Exit(1)
	}

	// The retention sweep deletes rows from the shared database, so only one
	// replica per environment runs a given cycle.
	sweeper, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Jobs:     []cron.Job{retentionJob},
		Lock:     sweepLock,
		Metrics:  jobMetrics,
		Interval: cfg.Outbox.SweepInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sweeper service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting dashboard worker")

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	server := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: newWorkerRouter(cfg, logg, view),
	}

	errCh := make(chan error, 4)
	go func() {
		errCh <- consumer.Run(runCtx)
	}()
	go func() {
		errCh <- refreshTicker.Run(runCtx)
	}()
	go func() {
		errCh <- sweeper.Run(runCtx)
	}()
	go func() {
		err := server.ListenAndServe()
		if err == http.ErrServerClosed {
			err = nil
		}
		errCh <- err
	}()
	go func() {
		<-runCtx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error shutting down worker http server", err)
		}
	}()

	err = <-errCh
	cancel()
	for i := 0; i < 3; i++ {
		<-errCh
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "dashboard worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "dashboard worker shutting down gracefully")
}

// newWorkerRouter exposes the worker's resident view: a snapshot endpoint for
// polling clients and an event stream for the live dashboard.
func newWorkerRouter(cfg *config.Config, logg *logger.Logger, view *dashboard.RankedView) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	r.Get("/health/live", controllers.HealthLive(cfg))
	r.Get("/dashboard/rows", dashboardcontrollers.LiveRows(view))
	r.Get("/dashboard/stream", dashboardcontrollers.Stream(view, logg))
	return r
}

func sweepLockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(sweepLockKeyFormat, env)
}
