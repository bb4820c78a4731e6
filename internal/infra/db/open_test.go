package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPoolConfig(t *testing.T) {
	cfg := DefaultPoolConfig()

	assert.Equal(t, 15, cfg.MaxOpenConns)
	assert.Equal(t, 5, cfg.MaxIdleConns)
	assert.Equal(t, 30*time.Minute, cfg.ConnMaxLifetime)
	assert.Equal(t, 10*time.Minute, cfg.ConnMaxIdleTime)
}

func TestPoolConfigFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME", "DB_CONN_MAX_IDLE_TIME"} {
		_ = os.Unsetenv(key)
	}

	cfg := poolConfigFromEnv()

	assert.Equal(t, DefaultPoolConfig(), cfg)
}

func TestPoolConfigFromEnv_MaxOpenConns(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected int
	}{
		{
			name:     "valid value",
			envValue: "50",
			expected: 50,
		},
		{
			name:     "non-numeric falls back",
			envValue: "invalid",
			expected: 15,
		},
		{
			name:     "zero falls back",
			envValue: "0",
			expected: 15,
		},
		{
			name:     "negative falls back",
			envValue: "-10",
			expected: 15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_MAX_OPEN_CONNS", tt.envValue)

			cfg := poolConfigFromEnv()
			assert.Equal(t, tt.expected, cfg.MaxOpenConns)
		})
	}
}

func TestPoolConfigFromEnv_MaxIdleConns(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected int
	}{
		{
			name:     "valid value",
			envValue: "20",
			expected: 20,
		},
		{
			name:     "non-numeric falls back",
			envValue: "abc",
			expected: 5,
		},
		{
			name:     "zero falls back",
			envValue: "0",
			expected: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_MAX_IDLE_CONNS", tt.envValue)

			cfg := poolConfigFromEnv()
			assert.Equal(t, tt.expected, cfg.MaxIdleConns)
		})
	}
}

func TestPoolConfigFromEnv_ConnMaxLifetime(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected time.Duration
	}{
		{
			name:     "hours",
			envValue: "2h",
			expected: 2 * time.Hour,
		},
		{
			name:     "mixed units",
			envValue: "1h30m",
			expected: 90 * time.Minute,
		},
		{
			name:     "not a duration falls back",
			envValue: "invalid",
			expected: 30 * time.Minute,
		},
		{
			name:     "zero falls back",
			envValue: "0s",
			expected: 30 * time.Minute,
		},
		{
			name:     "negative falls back",
			envValue: "-1h",
			expected: 30 * time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_CONN_MAX_LIFETIME", tt.envValue)

			cfg := poolConfigFromEnv()
			assert.Equal(t, tt.expected, cfg.ConnMaxLifetime)
		})
	}
}

func TestPoolConfigFromEnv_ConnMaxIdleTime(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected time.Duration
	}{
		{
			name:     "valid value",
			envValue: "15m",
			expected: 15 * time.Minute,
		},
		{
			name:     "invalid falls back",
			envValue: "not-a-duration",
			expected: 10 * time.Minute,
		},
		{
			name:     "zero falls back",
			envValue: "0m",
			expected: 10 * time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_CONN_MAX_IDLE_TIME", tt.envValue)

			cfg := poolConfigFromEnv()
			assert.Equal(t, tt.expected, cfg.ConnMaxIdleTime)
		})
	}
}

func TestPoolConfigFromEnv_PartialOverrides(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "75")
	t.Setenv("DB_CONN_MAX_LIFETIME", "3h")

	cfg := poolConfigFromEnv()

	assert.Equal(t, 75, cfg.MaxOpenConns)
	assert.Equal(t, 3*time.Hour, cfg.ConnMaxLifetime)
	assert.Equal(t, 5, cfg.MaxIdleConns)
	assert.Equal(t, 10*time.Minute, cfg.ConnMaxIdleTime)
}

// TestOpen_SuccessfulConnection verifies Open against a real database when
// one is available. Skipped otherwise.
func TestOpen_SuccessfulConnection(t *testing.T) {
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	db := Open()
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("database connection failed: %v", err)
	}
	assert.NotNil(t, db.Stats())
}

// Note: Open() with a missing DATABASE_URL or bad DSN calls log.Fatal and
// terminates the process, so those paths are left to end-to-end tests.
