// Package document provides the end-to-end document summarization use case:
// extract text from an upload, chunk it under the token budget, run the
// map-reduce summarization, and persist the result for the history view.
package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"docsum/internal/chunker"
	"docsum/internal/domain/entity"
	"docsum/internal/infra/extractor"
	"docsum/internal/repository"
	"docsum/internal/tokenizer"
	"docsum/internal/usecase/summarize"
)

// ErrEmptyDocument indicates that the upload produced no summarizable text.
var ErrEmptyDocument = errors.New("document contains no summarizable text")

// SummarizeInput carries one upload through the pipeline.
type SummarizeInput struct {
	Filename    string
	ContentType string
	Data        []byte
	Template    entity.Template
}

// Summarizer is the map-reduce orchestration the pipeline delegates to.
type Summarizer interface {
	Summarize(ctx context.Context, chunks []chunker.Chunk, tmpl entity.Template) (*summarize.Result, error)
}

// Service wires extraction, chunking, summarization and persistence.
//
// Counter is the token counter for every chunking pass. It is selected once
// at wiring time (tokenizer.Select loads the tiktoken encoding, which is too
// expensive for the request path) and never swapped afterwards, so all
// documents are counted with one consistent scheme. A nil Counter degrades
// to the character estimator.
type Service struct {
	Extractor  extractor.Extractor
	Summarizer Summarizer
	Repo       repository.SummaryRepository
	Budget     chunker.Budget
	Counter    tokenizer.Counter
}

// Summarize runs the full pipeline for one upload.
func (s *Service) Summarize(ctx context.Context, input SummarizeInput) (*entity.Summary, error) {
	if err := entity.ValidateFilename(input.Filename); err != nil {
		return nil, err
	}
	if err := input.Template.Validate(); err != nil {
		return nil, err
	}

	text, err := s.Extractor.Extract(ctx, input.ContentType, input.Data)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", input.Filename, err)
	}

	chunks, err := chunker.Split(text, s.Budget, s.Counter)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", input.Filename, err)
	}
	if len(chunks) == 0 {
		return nil, ErrEmptyDocument
	}

	result, err := s.Summarizer.Summarize(ctx, chunks, input.Template)
	if err != nil {
		return nil, fmt.Errorf("summarize %s: %w", input.Filename, err)
	}

	summary := &entity.Summary{
		DocID:          uuid.New().String(),
		Filename:       input.Filename,
		Summary:        result.Summary,
		Insights:       result.Insights,
		Template:       input.Template.Key,
		FileSize:       int64(len(input.Data)),
		ProcessingTime: result.ProcessingTime,
		ChunksCount:    result.ChunksProcessed,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, summary); err != nil {
		return nil, fmt.Errorf("save summary for %s: %w", input.Filename, err)
	}

	slog.InfoContext(ctx, "document summarized",
		slog.String("doc_id", summary.DocID),
		slog.String("filename", summary.Filename),
		slog.String("template", summary.Template),
		slog.Int("chunks", summary.ChunksCount),
		slog.Duration("processing_time", summary.ProcessingTime))

	return summary, nil
}
