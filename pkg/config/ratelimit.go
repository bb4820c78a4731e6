package config

import (
	"log/slog"
	"time"
)

// RateLimitConfig holds the per-client request rate limiting settings.
// The limiter keys on client IP and applies one sliding window per key.
type RateLimitConfig struct {
	// Enabled toggles rate limiting entirely. Disabling it is not
	// recommended outside local development.
	Enabled bool

	// Limit is the number of requests allowed per window per client.
	Limit int

	// Window is the sliding window duration.
	Window time.Duration
}

// LoadRateLimitConfig loads rate limiting configuration from environment
// variables. Invalid values are logged and replaced with safe defaults
// instead of failing startup.
//
// Environment variables:
//   - RATELIMIT_ENABLED: enable/disable rate limiting (default: true)
//   - RATELIMIT_LIMIT: requests allowed per window per client (default: 60)
//   - RATELIMIT_WINDOW: sliding window duration (default: 1m)
func LoadRateLimitConfig() *RateLimitConfig {
	cfg := &RateLimitConfig{
		Enabled: GetEnvBool("RATELIMIT_ENABLED", true),
		Limit:   GetEnvInt("RATELIMIT_LIMIT", 60),
		Window:  GetEnvDuration("RATELIMIT_WINDOW", 1*time.Minute),
	}

	if cfg.Limit <= 0 {
		slog.Warn("invalid RATELIMIT_LIMIT, using default",
			slog.Int("value", cfg.Limit),
			slog.Int("default", 60))
		cfg.Limit = 60
	}

	// Windows outside one second to one hour are almost certainly
	// misconfiguration rather than intent.
	if err := ValidateDurationRange(cfg.Window, time.Second, time.Hour); err != nil {
		slog.Warn("invalid RATELIMIT_WINDOW, using default",
			slog.String("value", cfg.Window.String()),
			slog.String("default", "1m"))
		cfg.Window = 1 * time.Minute
	}

	return cfg
}
