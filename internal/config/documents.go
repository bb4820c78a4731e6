package config

import (
	"fmt"
	"time"

	"docsum/internal/chunker"
	pkgconfig "docsum/pkg/config"
)

// DocumentsConfig holds the document processing limits and chunking budget.
// Configuration is loaded from environment variables with fallback to
// defaults; invalid combinations fail closed.
type DocumentsConfig struct {
	// ChunkSize is the token budget per chunk. Default: 1000.
	ChunkSize int

	// OverlapSize is the token budget for cross-chunk overlap.
	// Must be smaller than ChunkSize. Default: 200.
	OverlapSize int

	// MaxFileSize bounds uploaded document bodies in bytes. Default: 10 MiB.
	MaxFileSize int64

	// RetentionPeriod is how long summaries are kept before the retention
	// sweep removes them. Default: 90 days.
	RetentionPeriod time.Duration

	// MaxSummaries caps how many summaries the history keeps; the
	// retention sweep removes the oldest beyond this. Default: 1000.
	MaxSummaries int
}

// LoadDocumentsConfig loads document processing configuration.
//
// Environment variables:
//   - CHUNK_SIZE: token budget per chunk (default: 1000)
//   - OVERLAP_SIZE: overlap token budget (default: 200)
//   - MAX_FILE_SIZE_BYTES: upload size limit (default: 10485760)
//   - SUMMARY_RETENTION: retention period, Go duration syntax (default: 2160h)
//   - MAX_SUMMARIES: history size cap (default: 1000)
func LoadDocumentsConfig() (*DocumentsConfig, error) {
	cfg := &DocumentsConfig{
		ChunkSize:       pkgconfig.GetEnvInt("CHUNK_SIZE", 1000),
		OverlapSize:     pkgconfig.GetEnvInt("OVERLAP_SIZE", 200),
		MaxFileSize:     int64(pkgconfig.GetEnvInt("MAX_FILE_SIZE_BYTES", 10*1024*1024)),
		RetentionPeriod: pkgconfig.GetEnvDuration("SUMMARY_RETENTION", 90*24*time.Hour),
		MaxSummaries:    pkgconfig.GetEnvInt("MAX_SUMMARIES", 1000),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid documents configuration: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration and returns an error if invalid.
func (c *DocumentsConfig) Validate() error {
	if err := c.Budget().Validate(); err != nil {
		return err
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive, got %d", c.MaxFileSize)
	}
	if c.RetentionPeriod <= 0 {
		return fmt.Errorf("retention period must be positive, got %v", c.RetentionPeriod)
	}
	if c.MaxSummaries <= 0 {
		return fmt.Errorf("max summaries must be positive, got %d", c.MaxSummaries)
	}
	return nil
}

// Budget returns the chunking budget derived from the configuration.
func (c *DocumentsConfig) Budget() chunker.Budget {
	return chunker.Budget{
		ChunkSize:   c.ChunkSize,
		OverlapSize: c.OverlapSize,
	}
}
