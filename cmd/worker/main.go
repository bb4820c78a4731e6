package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"docsum/internal/config"
	pgRepo "docsum/internal/infra/adapter/persistence/postgres"
	"docsum/internal/infra/db"
	"docsum/internal/infra/generation"
	workerPkg "docsum/internal/infra/worker"
	"docsum/internal/observability/logging"
	"docsum/internal/observability/metrics"
	"docsum/internal/usecase/history"
	pkgconfig "docsum/pkg/config"
)

func waitForMigrations(logger *slog.Logger, db *sql.DB) {
	const probe = "SELECT 1 FROM summaries LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := db.Exec(probe); err == nil {
			return
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		time.Sleep(3 * time.Second)
	}
	logger.Error("migrations did not complete in time")
	os.Exit(1)
}

func main() {
	logger := initLogger()
	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load worker configuration (fail-open strategy)
	workerMetrics := workerPkg.NewWorkerMetrics()
	workerMetrics.MustRegister()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("sweep_timeout", workerConfig.SweepTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	// Retention period comes from the shared documents configuration so
	// the API and the worker always agree on how long summaries live.
	docsCfg, err := config.LoadDocumentsConfig()
	if err != nil {
		logger.Error("failed to load documents configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("retention configured",
		slog.Duration("retention_period", docsCfg.RetentionPeriod),
		slog.Int("max_summaries", docsCfg.MaxSummaries))

	// Start metrics HTTP server
	startMetricsServer(ctx, logger)

	// Start health check server
	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := healthServer.Start(groupCtx); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	logger.Info("health check server started", slog.String("addr", healthAddr))

	histSvc := &history.Service{Repo: pgRepo.NewSummaryRepo(database)}

	scheduler := startCronWorker(logger, histSvc, docsCfg, workerConfig, workerMetrics, healthServer)

	startProviderProbe(groupCtx, group, logger, workerMetrics)

	// Wait for a shutdown signal, then stop the scheduler and let running
	// jobs and auxiliary servers drain.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down worker...")

	healthServer.SetReady(false)
	<-scheduler.Stop().Done()
	cancel()

	if err := group.Wait(); err != nil {
		logger.Error("worker shutdown with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker stopped")
}

// startProviderProbe periodically checks that the generation provider is
// reachable and reflects the outcome in worker_provider_up. The probe is
// paced by a rate limiter so a misconfigured interval can never hammer the
// inference engine.
//
// PROVIDER_PROBE_INTERVAL controls the pace (default: 5m).
func startProviderProbe(ctx context.Context, group *errgroup.Group, logger *slog.Logger, workerMetrics *workerPkg.WorkerMetrics) {
	genCfg, err := generation.LoadConfig()
	if err != nil {
		logger.Error("failed to load generation configuration", slog.Any("error", err))
		os.Exit(1)
	}
	provider, err := generation.New(genCfg)
	if err != nil {
		logger.Error("failed to create generation provider", slog.Any("error", err))
		os.Exit(1)
	}

	interval := pkgconfig.GetEnvDuration("PROVIDER_PROBE_INTERVAL", 5*time.Minute)
	limiter := rate.NewLimiter(rate.Every(interval), 1)
	logger.Info("provider health probe started",
		slog.String("provider", provider.Name()),
		slog.Duration("interval", interval))

	group.Go(func() error {
		for {
			if err := limiter.Wait(ctx); err != nil {
				return nil
			}

			probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			err := provider.Health(probeCtx)
			cancel()

			if err != nil {
				logger.Warn("generation provider unhealthy",
					slog.String("provider", provider.Name()),
					slog.Any("error", err))
				workerMetrics.SetProviderUp(false)
				continue
			}
			workerMetrics.SetProviderUp(true)
		}
	})
}

// initLogger initializes and returns a structured logger based on environment configuration.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the database connection and waits for migrations to complete.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	waitForMigrations(logger, database)
	return database
}

// startCronWorker starts the cron scheduler and runs the retention sweep periodically.
func startCronWorker(logger *slog.Logger, svc *history.Service, docsCfg *config.DocumentsConfig, cfg *workerPkg.WorkerConfig, workerMetrics *workerPkg.WorkerMetrics, healthServer *workerPkg.HealthServer) *cron.Cron {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.CronSchedule, func() {
		runSweep(logger, svc, docsCfg, cfg, workerMetrics)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	// Mark as ready after cron is set up
	healthServer.SetReady(true)
	logger.Info("worker marked as ready")

	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", cfg.Timezone))
	return c
}

// runSweep executes a single retention sweep with timeout and error handling.
// A sweep removes expired summaries first, then trims the history down to the
// configured cap.
func runSweep(logger *slog.Logger, svc *history.Service, docsCfg *config.DocumentsConfig, cfg *workerPkg.WorkerConfig, workerMetrics *workerPkg.WorkerMetrics) {
	startTime := time.Now()
	logger.Info("retention sweep started",
		slog.Duration("retention_period", docsCfg.RetentionPeriod),
		slog.Int("max_summaries", docsCfg.MaxSummaries))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.SweepTimeout)
	defer cancel()

	expired, err := svc.CleanupOlderThan(ctx, docsCfg.RetentionPeriod)
	var capped int64
	if err == nil {
		capped, err = svc.EnforceCap(ctx, docsCfg.MaxSummaries)
	}
	deleted := expired + capped

	metrics.RecordRetentionSweep(deleted, err)
	workerMetrics.RecordSweepDuration(time.Since(startTime).Seconds())
	if err != nil {
		logger.Error("retention sweep failed", slog.Any("error", err))
		workerMetrics.RecordSweepRun("failure")
		return
	}

	workerMetrics.RecordSweepRun("success")
	workerMetrics.RecordSummariesDeleted(deleted)
	workerMetrics.RecordLastSuccess()

	logger.Info("retention sweep completed",
		slog.Int64("expired", expired),
		slog.Int64("capped", capped),
		slog.Duration("duration", time.Since(startTime)))
}
