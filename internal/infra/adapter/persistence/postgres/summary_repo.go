package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"docsum/internal/domain/entity"
	"docsum/internal/observability/metrics"
	"docsum/internal/repository"
	"docsum/internal/resilience/circuitbreaker"
)

// SummaryRepo persists summaries in PostgreSQL. Insights are stored as a
// JSONB array so the bounded list round-trips without a join table.
// Statements run through a circuit breaker so a dead database fails fast
// instead of tying up summarization requests on connection timeouts.
type SummaryRepo struct {
	db *circuitbreaker.DBCircuitBreaker
}

func NewSummaryRepo(db *sql.DB) repository.SummaryRepository {
	return &SummaryRepo{db: circuitbreaker.NewDBCircuitBreaker(db)}
}

func (repo *SummaryRepo) Create(ctx context.Context, summary *entity.Summary) error {
	if err := summary.Validate(); err != nil {
		return fmt.Errorf("Create: %w", err)
	}

	insights, err := json.Marshal(summary.Insights)
	if err != nil {
		return fmt.Errorf("Create: encode insights: %w", err)
	}

	defer observeQuery("create")()
	const query = `
INSERT INTO summaries (doc_id, filename, summary, insights, template, file_size, processing_time_ms, chunks_count, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = repo.db.ExecContext(ctx, query,
		summary.DocID, summary.Filename, summary.Summary, insights,
		summary.Template, summary.FileSize, summary.ProcessingTime.Milliseconds(),
		summary.ChunksCount, summary.CreatedAt)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *SummaryRepo) Get(ctx context.Context, docID string) (*entity.Summary, error) {
	defer observeQuery("get")()
	const query = `
SELECT doc_id, filename, summary, insights, template, file_size, processing_time_ms, chunks_count, created_at
FROM summaries
WHERE doc_id = $1
LIMIT 1`
	summary, err := scanSummary(repo.db.QueryRowContext(ctx, query, docID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return summary, nil
}

func (repo *SummaryRepo) ListPaginated(ctx context.Context, offset, limit int) ([]*entity.Summary, error) {
	defer observeQuery("list")()
	const query = `
SELECT doc_id, filename, summary, insights, template, file_size, processing_time_ms, chunks_count, created_at
FROM summaries
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`
	rows, err := repo.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ListPaginated: %w", err)
	}
	defer func() { _ = rows.Close() }()

	summaries := make([]*entity.Summary, 0, limit)
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("ListPaginated: Scan: %w", err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

func (repo *SummaryRepo) Count(ctx context.Context) (int64, error) {
	defer observeQuery("count")()
	const query = `SELECT COUNT(*) FROM summaries`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}

func (repo *SummaryRepo) Delete(ctx context.Context, docID string) error {
	defer observeQuery("delete")()
	const query = `DELETE FROM summaries WHERE doc_id = $1`
	result, err := repo.db.ExecContext(ctx, query, docID)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: RowsAffected: %w", err)
	}
	if affected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (repo *SummaryRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	defer observeQuery("delete_older_than")()
	const query = `DELETE FROM summaries WHERE created_at < $1`
	result, err := repo.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("DeleteOlderThan: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteOlderThan: RowsAffected: %w", err)
	}
	return affected, nil
}

func (repo *SummaryRepo) DeleteOldestBeyond(ctx context.Context, keep int) (int64, error) {
	defer observeQuery("delete_oldest_beyond")()
	const query = `
DELETE FROM summaries
WHERE doc_id IN (
	SELECT doc_id FROM summaries
	ORDER BY created_at DESC
	OFFSET $1
)`
	result, err := repo.db.ExecContext(ctx, query, keep)
	if err != nil {
		return 0, fmt.Errorf("DeleteOldestBeyond: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteOldestBeyond: RowsAffected: %w", err)
	}
	return affected, nil
}

func (repo *SummaryRepo) Stats(ctx context.Context) (*repository.SummaryStats, error) {
	defer observeQuery("stats")()
	const totalsQuery = `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE created_at >= NOW() - INTERVAL '7 days'),
       COALESCE(SUM(file_size), 0),
       COALESCE(AVG(processing_time_ms), 0)
FROM summaries`

	stats := &repository.SummaryStats{
		TemplateCounts: make(map[string]int64),
	}

	var avgMillis float64
	err := repo.db.QueryRowContext(ctx, totalsQuery).
		Scan(&stats.TotalSummaries, &stats.SummariesThisWeek, &stats.TotalBytes, &avgMillis)
	if err != nil {
		return nil, fmt.Errorf("Stats: %w", err)
	}
	stats.AvgProcessingTime = time.Duration(avgMillis * float64(time.Millisecond))

	const templatesQuery = `
SELECT template, COUNT(*)
FROM summaries
GROUP BY template`
	rows, err := repo.db.QueryContext(ctx, templatesQuery)
	if err != nil {
		return nil, fmt.Errorf("Stats: templates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var topCount int64
	for rows.Next() {
		var template string
		var count int64
		if err := rows.Scan(&template, &count); err != nil {
			return nil, fmt.Errorf("Stats: Scan: %w", err)
		}
		stats.TemplateCounts[template] = count
		if count > topCount {
			topCount = count
			stats.MostUsedTemplate = template
		}
	}
	return stats, rows.Err()
}

// observeQuery records the duration of a statement under the given
// operation label. Use as: defer observeQuery("get")().
func observeQuery(operation string) func() {
	start := time.Now()
	return func() {
		metrics.RecordDBQuery(operation, time.Since(start))
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSummary(row rowScanner) (*entity.Summary, error) {
	var summary entity.Summary
	var insights []byte
	var processingMillis int64

	err := row.Scan(&summary.DocID, &summary.Filename, &summary.Summary, &insights,
		&summary.Template, &summary.FileSize, &processingMillis,
		&summary.ChunksCount, &summary.CreatedAt)
	if err != nil {
		return nil, err
	}

	if len(insights) > 0 {
		if err := json.Unmarshal(insights, &summary.Insights); err != nil {
			return nil, fmt.Errorf("decode insights: %w", err)
		}
	}
	summary.ProcessingTime = time.Duration(processingMillis) * time.Millisecond
	return &summary, nil
}
