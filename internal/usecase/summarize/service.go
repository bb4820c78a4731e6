// Package summarize orchestrates map-reduce summarization over a sequence of
// document chunks. Each chunk is summarized with one generation call, the
// partial summaries are combined, and a final reduce call produces the
// bounded-length summary. Chunk-level calls are issued strictly one after
// another: the generation provider is typically a single local inference
// engine where concurrent large prompts only cause contention, and
// sequential issuance keeps the processing order reproducible.
package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"docsum/internal/chunker"
	"docsum/internal/domain/entity"
)

// reducePromptPrefix asks the provider to merge partial summaries.
const reducePromptPrefix = "Create a single comprehensive summary from these partial summaries:\n\n"

// Config holds the generation parameters for each pipeline stage.
type Config struct {
	// Temperature for per-chunk and reduce summarization calls.
	Temperature float64

	// ChunkMaxTokens is the output-length target for one per-chunk call.
	ChunkMaxTokens int

	// ReduceMaxTokens is the output-length target for the reduce call.
	// Deliberately lower than ChunkMaxTokens: the reduce input is already
	// condensed and the final summary must stay bounded.
	ReduceMaxTokens int

	// InsightTemperature for the insight extraction call. Lower than
	// Temperature to bias toward extractive, low-variance output.
	InsightTemperature float64

	// InsightMaxTokens is the output-length target for insight extraction.
	InsightMaxTokens int

	// StopSequences end summarization calls early.
	StopSequences []string
}

// DefaultConfig returns the generation parameters used in production.
func DefaultConfig() Config {
	return Config{
		Temperature:        0.7,
		ChunkMaxTokens:     512,
		ReduceMaxTokens:    384,
		InsightTemperature: 0.3,
		InsightMaxTokens:   200,
		StopSequences:      []string{"\n\n\n", "END_SUMMARY"},
	}
}

// Validate checks configuration correctness.
func (c Config) Validate() error {
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be in [0, 2], got %v", c.Temperature)
	}
	if c.ChunkMaxTokens <= 0 {
		return fmt.Errorf("chunk max tokens must be positive, got %d", c.ChunkMaxTokens)
	}
	if c.ReduceMaxTokens <= 0 {
		return fmt.Errorf("reduce max tokens must be positive, got %d", c.ReduceMaxTokens)
	}
	if c.ReduceMaxTokens > c.ChunkMaxTokens {
		return fmt.Errorf("reduce max tokens %d must not exceed chunk max tokens %d",
			c.ReduceMaxTokens, c.ChunkMaxTokens)
	}
	if c.InsightMaxTokens <= 0 {
		return fmt.Errorf("insight max tokens must be positive, got %d", c.InsightMaxTokens)
	}
	return nil
}

// Result is the outcome of one summarization request. It is created once per
// request and handed to the caller; persistence is the caller's concern.
type Result struct {
	Summary         string
	Insights        []string
	ProcessingTime  time.Duration
	ChunksProcessed int
}

// Service drives the map-reduce summarization pipeline. It holds no mutable
// state; concurrent requests each own their chunk sequence and interleave
// freely.
type Service struct {
	generator Generator
	config    Config
}

// NewService creates a summarization service backed by the given generator.
func NewService(generator Generator, config Config) *Service {
	return &Service{
		generator: generator,
		config:    config,
	}
}

// Summarize produces the final summary and insights for an ordered chunk
// sequence using the given prompt template.
//
// A single chunk is summarized with exactly one generation call whose output
// becomes the summary directly. Multiple chunks are summarized sequentially,
// their partial summaries joined with double newlines, and one reduce call
// produces the final summary. Any generation failure aborts the whole
// operation with a StageError naming the failing stage; no partial result is
// returned. Insight extraction afterwards is best-effort and never fails the
// request.
func (s *Service) Summarize(ctx context.Context, chunks []chunker.Chunk, tmpl entity.Template) (*Result, error) {
	start := time.Now()
	requestID := uuid.New().String()

	if len(chunks) == 0 {
		return nil, &StageError{Stage: StageChunking, Err: ErrNoChunks}
	}
	if err := tmpl.Validate(); err != nil {
		return nil, &StageError{Stage: StageChunking, Err: err}
	}

	slog.InfoContext(ctx, "starting summarization",
		slog.String("request_id", requestID),
		slog.String("template", tmpl.Key),
		slog.Int("chunks", len(chunks)))

	summary, err := s.mapReduce(ctx, requestID, chunks, tmpl)
	if err != nil {
		slog.ErrorContext(ctx, "summarization failed",
			slog.String("request_id", requestID),
			slog.Any("error", err))
		return nil, err
	}

	insights := s.extractInsights(ctx, requestID, summary)

	result := &Result{
		Summary:         summary,
		Insights:        insights,
		ProcessingTime:  time.Since(start),
		ChunksProcessed: len(chunks),
	}

	slog.InfoContext(ctx, "summarization completed",
		slog.String("request_id", requestID),
		slog.Int("chunks_processed", result.ChunksProcessed),
		slog.Int("insights", len(result.Insights)),
		slog.Duration("processing_time", result.ProcessingTime))

	return result, nil
}

// mapReduce runs the per-chunk calls and, for multi-chunk documents, the
// reduce call.
func (s *Service) mapReduce(ctx context.Context, requestID string, chunks []chunker.Chunk, tmpl entity.Template) (string, error) {
	chunkOpts := GenerateOptions{
		Temperature:     s.config.Temperature,
		MaxOutputTokens: s.config.ChunkMaxTokens,
		StopSequences:   s.config.StopSequences,
	}

	if len(chunks) == 1 {
		summary, err := s.generate(ctx, tmpl.Render(chunks[0].Text), chunkOpts)
		if err != nil {
			return "", &StageError{Stage: StageChunkGeneration, Chunk: 0, Err: err}
		}
		return summary, nil
	}

	// Map: one call per chunk, in sequence. Partial summaries are held only
	// until the reduce step.
	partials := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		slog.InfoContext(ctx, "processing chunk",
			slog.String("request_id", requestID),
			slog.Int("chunk", chunk.Index+1),
			slog.Int("total", len(chunks)),
			slog.Int("chunk_tokens", chunk.TokenCount))

		partial, err := s.generate(ctx, tmpl.Render(chunk.Text), chunkOpts)
		if err != nil {
			return "", &StageError{Stage: StageChunkGeneration, Chunk: chunk.Index, Err: err}
		}
		partials = append(partials, partial)
	}

	// Reduce: combine in original order and resummarize with a lower
	// output-length target.
	combined := strings.Join(partials, "\n\n")
	summary, err := s.generate(ctx, reducePromptPrefix+combined, GenerateOptions{
		Temperature:     s.config.Temperature,
		MaxOutputTokens: s.config.ReduceMaxTokens,
		StopSequences:   s.config.StopSequences,
	})
	if err != nil {
		return "", &StageError{Stage: StageReduceGeneration, Err: err}
	}
	return summary, nil
}

// generate issues one provider call and normalizes its failure modes: a
// blank response is an ErrEmptyResponse, indistinguishable from a transport
// failure for the caller.
func (s *Service) generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	response, err := s.generator.Generate(ctx, prompt, opts)
	if err != nil {
		return "", err
	}
	response = strings.TrimSpace(response)
	if response == "" {
		return "", ErrEmptyResponse
	}
	return response, nil
}
