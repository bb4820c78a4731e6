// Package history provides use cases for the stored summary history:
// paginated listing, lookup, deletion, aggregate stats and retention
// cleanup.
package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"docsum/internal/common/pagination"
	"docsum/internal/domain/entity"
	"docsum/internal/repository"
)

// Sentinel errors for history use case operations.
var (
	// ErrSummaryNotFound indicates that no summary exists for the
	// requested document ID.
	ErrSummaryNotFound = errors.New("summary not found")

	// ErrInvalidDocID indicates that the provided document ID is not a
	// valid UUID.
	ErrInvalidDocID = errors.New("invalid document ID")
)

// Service provides summary history use cases.
type Service struct {
	Repo repository.SummaryRepository
}

// PaginatedResult contains one page of summaries plus pagination metadata.
type PaginatedResult struct {
	Data       []*entity.Summary
	Pagination pagination.Metadata
}

// ListPaginated retrieves one page of summaries ordered newest first.
func (s *Service) ListPaginated(ctx context.Context, page, limit int) (*PaginatedResult, error) {
	offset := pagination.CalculateOffset(page, limit)

	summaries, err := s.Repo.ListPaginated(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}

	total, err := s.Repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count summaries: %w", err)
	}

	return &PaginatedResult{
		Data: summaries,
		Pagination: pagination.Metadata{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: pagination.CalculateTotalPages(total, limit),
		},
	}, nil
}

// Get retrieves one summary by document ID.
func (s *Service) Get(ctx context.Context, docID string) (*entity.Summary, error) {
	if _, err := uuid.Parse(docID); err != nil {
		return nil, ErrInvalidDocID
	}

	summary, err := s.Repo.Get(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get summary %s: %w", docID, err)
	}
	if summary == nil {
		return nil, ErrSummaryNotFound
	}
	return summary, nil
}

// Delete removes one summary by document ID.
func (s *Service) Delete(ctx context.Context, docID string) error {
	if _, err := uuid.Parse(docID); err != nil {
		return ErrInvalidDocID
	}

	err := s.Repo.Delete(ctx, docID)
	if errors.Is(err, entity.ErrNotFound) {
		return ErrSummaryNotFound
	}
	if err != nil {
		return fmt.Errorf("delete summary %s: %w", docID, err)
	}
	return nil
}

// Stats aggregates history-wide numbers for the stats endpoint.
func (s *Service) Stats(ctx context.Context) (*repository.SummaryStats, error) {
	stats, err := s.Repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("summary stats: %w", err)
	}
	return stats, nil
}

// CleanupOlderThan removes summaries past the retention period and returns
// how many were removed. Used by the periodic retention sweep.
func (s *Service) CleanupOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, fmt.Errorf("retention must be positive, got %v", retention)
	}

	cutoff := time.Now().UTC().Add(-retention)
	deleted, err := s.Repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("retention cleanup: %w", err)
	}

	if deleted > 0 {
		slog.InfoContext(ctx, "retention cleanup removed summaries",
			slog.Int64("deleted", deleted),
			slog.Time("cutoff", cutoff))
	}
	return deleted, nil
}

// EnforceCap removes the oldest summaries so at most maxSummaries remain,
// returning how many were removed. Used by the retention sweep alongside
// CleanupOlderThan.
func (s *Service) EnforceCap(ctx context.Context, maxSummaries int) (int64, error) {
	if maxSummaries <= 0 {
		return 0, fmt.Errorf("max summaries must be positive, got %d", maxSummaries)
	}

	deleted, err := s.Repo.DeleteOldestBeyond(ctx, maxSummaries)
	if err != nil {
		return 0, fmt.Errorf("summary cap cleanup: %w", err)
	}

	if deleted > 0 {
		slog.InfoContext(ctx, "summary cap removed oldest summaries",
			slog.Int64("deleted", deleted),
			slog.Int("max_summaries", maxSummaries))
	}
	return deleted, nil
}
