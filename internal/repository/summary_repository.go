package repository

import (
	"context"
	"time"

	"docsum/internal/domain/entity"
)

// SummaryStats aggregates history-wide numbers for the stats endpoint.
type SummaryStats struct {
	TotalSummaries    int64
	SummariesThisWeek int64
	TotalBytes        int64
	AvgProcessingTime time.Duration
	TemplateCounts    map[string]int64
	MostUsedTemplate  string
}

// SummaryRepository persists completed summarizations for the history view.
type SummaryRepository interface {
	// Create persists a completed summary.
	Create(ctx context.Context, summary *entity.Summary) error

	// Get retrieves a summary by its document ID.
	// Returns (nil, nil) when no summary exists for the ID.
	Get(ctx context.Context, docID string) (*entity.Summary, error)

	// ListPaginated retrieves summaries ordered by creation time descending.
	ListPaginated(ctx context.Context, offset, limit int) ([]*entity.Summary, error)

	// Count returns the total number of stored summaries.
	Count(ctx context.Context) (int64, error)

	// Delete removes a summary by its document ID.
	// Returns entity.ErrNotFound when no summary exists for the ID.
	Delete(ctx context.Context, docID string) error

	// DeleteOlderThan removes summaries created before the cutoff and
	// returns how many rows were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// DeleteOldestBeyond removes the oldest summaries so that at most
	// keep remain, returning how many rows were removed.
	DeleteOldestBeyond(ctx context.Context, keep int) (int64, error)

	// Stats aggregates history-wide numbers.
	Stats(ctx context.Context) (*SummaryStats, error)
}
