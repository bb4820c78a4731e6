package summary_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"docsum/internal/domain/entity"
	"docsum/internal/repository"
	"docsum/internal/usecase/document"
	"docsum/internal/usecase/history"
)

const testDocID = "8f14e45f-ceea-4f7a-9c2d-3b1f4a5e6d7c"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func storedSummary() *entity.Summary {
	return &entity.Summary{
		DocID:          testDocID,
		Filename:       "report.txt",
		Summary:        "The quarterly report shows steady growth.",
		Insights:       []string{"Revenue grew", "Costs held flat"},
		Template:       "general",
		FileSize:       2048,
		ProcessingTime: 3 * time.Second,
		ChunksCount:    2,
		CreatedAt:      time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

// stubDocumentService implements summary.DocumentService with function fields.
type stubDocumentService struct {
	summarizeFn func(ctx context.Context, input document.SummarizeInput) (*entity.Summary, error)
}

func (s *stubDocumentService) Summarize(ctx context.Context, input document.SummarizeInput) (*entity.Summary, error) {
	return s.summarizeFn(ctx, input)
}

// stubHistoryService implements summary.HistoryService with function fields.
type stubHistoryService struct {
	listFn   func(ctx context.Context, page, limit int) (*history.PaginatedResult, error)
	getFn    func(ctx context.Context, docID string) (*entity.Summary, error)
	deleteFn func(ctx context.Context, docID string) error
	statsFn  func(ctx context.Context) (*repository.SummaryStats, error)
}

func (s *stubHistoryService) ListPaginated(ctx context.Context, page, limit int) (*history.PaginatedResult, error) {
	return s.listFn(ctx, page, limit)
}

func (s *stubHistoryService) Get(ctx context.Context, docID string) (*entity.Summary, error) {
	return s.getFn(ctx, docID)
}

func (s *stubHistoryService) Delete(ctx context.Context, docID string) error {
	return s.deleteFn(ctx, docID)
}

func (s *stubHistoryService) Stats(ctx context.Context) (*repository.SummaryStats, error) {
	return s.statsFn(ctx)
}
