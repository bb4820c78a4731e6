package worker

import (
	"fmt"
	"log/slog"
	"time"

	"docsum/internal/pkg/config"
)

// WorkerConfig holds the configuration for the retention worker.
// It controls the sweep schedule, timezone, per-sweep timeout and the
// health check server port.
//
// Configuration sources:
//   - Environment variables (loaded via LoadConfigFromEnv)
//   - Default values (provided by DefaultConfig)
//
// All fields have defaults and validation rules so the worker can operate
// safely even with invalid or missing configuration.
type WorkerConfig struct {
	// CronSchedule is the cron expression for the retention sweep.
	// Format: "minute hour day month weekday"
	// Example: "0 3 * * *" (every day at 03:00)
	// Default: "0 3 * * *"
	CronSchedule string

	// Timezone is the IANA timezone name for cron scheduling.
	// Example: "UTC", "Asia/Tokyo", "America/New_York"
	// Default: "UTC"
	Timezone string

	// SweepTimeout is the maximum duration for a single retention sweep.
	// After this timeout the delete is cancelled and retried on the next
	// scheduled run. Default: 10 minutes.
	SweepTimeout time.Duration

	// HealthPort is the port number for the health check HTTP server.
	// Range: 1024-65535 (avoid privileged ports)
	// Default: 9091
	HealthPort int
}

// DefaultConfig returns a WorkerConfig with production-ready defaults:
// a daily sweep at 03:00 UTC, a 10-minute timeout so a slow delete cannot
// wedge the scheduler, and the common exporter port for health checks.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule: "0 3 * * *",
		Timezone:     "UTC",
		SweepTimeout: 10 * time.Minute,
		HealthPort:   9091,
	}
}

// Validate checks the configuration values using the reusable validators
// from internal/pkg/config. If multiple fields are invalid, all errors are
// collected and returned together.
func (c *WorkerConfig) Validate() error {
	var errors []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errors = append(errors, fmt.Errorf("cron schedule: %w", err))
	}

	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errors = append(errors, fmt.Errorf("timezone: %w", err))
	}

	if err := config.ValidatePositiveDuration(c.SweepTimeout); err != nil {
		errors = append(errors, fmt.Errorf("sweep timeout: %w", err))
	}

	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errors = append(errors, fmt.Errorf("health port: %w", err))
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation failed: %v", errors)
	}

	return nil
}

// LoadConfigFromEnv loads worker configuration from environment variables
// with validation and automatic fallback to default values on failure.
//
// This function implements the fail-open strategy:
//  1. Start with DefaultConfig() as base
//  2. Load each field from environment variables
//  3. Validate each loaded value
//  4. If validation fails: use the default, log a warning, increment metrics
//  5. Never return an error - always return a valid configuration
//
// Environment variables:
//   - RETENTION_CRON_SCHEDULE: Cron expression (default: "0 3 * * *")
//   - WORKER_TIMEZONE: IANA timezone name (default: "UTC")
//   - SWEEP_TIMEOUT: Duration string, e.g. "10m" (default: 10 minutes)
//   - WORKER_HEALTH_PORT: Integer 1024-65535 (default: 9091)
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	result := config.LoadEnvWithFallback("RETENTION_CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = result.Value.(string)
	if result.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("cron_schedule")
		metrics.RecordFallback("cron_schedule", "default")
		for _, warning := range result.Warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", "CronSchedule"),
				slog.String("warning", warning))
		}
	}

	result = config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = result.Value.(string)
	if result.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("timezone")
		metrics.RecordFallback("timezone", "default")
		for _, warning := range result.Warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", "Timezone"),
				slog.String("warning", warning))
		}
	}

	// Sweep timeout is clamped to a 1m-4h range: anything shorter cannot
	// finish a large delete, anything longer overlaps the next run.
	result = config.LoadEnvDuration("SWEEP_TIMEOUT", cfg.SweepTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, 1*time.Minute, 4*time.Hour)
	})
	cfg.SweepTimeout = result.Value.(time.Duration)
	if result.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("sweep_timeout")
		metrics.RecordFallback("sweep_timeout", "default")
		for _, warning := range result.Warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", "SweepTimeout"),
				slog.String("warning", warning))
		}
	}

	result = config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = result.Value.(int)
	if result.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("health_port")
		metrics.RecordFallback("health_port", "default")
		for _, warning := range result.Warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", "HealthPort"),
				slog.String("warning", warning))
		}
	}

	metrics.SetFallbackActive("", fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}
