package summarize

import (
	"errors"
	"fmt"
)

// Stage identifies which part of the summarization pipeline failed.
// Summarization fails atomically: the caller receives the failing stage,
// never a partial summary.
type Stage string

const (
	// StageChunking covers failures before any generation call.
	StageChunking Stage = "chunking"
	// StageChunkGeneration covers per-chunk generation calls.
	StageChunkGeneration Stage = "chunk_generation"
	// StageReduceGeneration covers the final combine-and-resummarize call.
	StageReduceGeneration Stage = "reduce_generation"
)

var (
	// ErrEmptyResponse is returned when a generation call succeeds at the
	// transport level but yields no usable text. It is treated the same as a
	// transport failure for the summarization path.
	ErrEmptyResponse = errors.New("generation provider returned empty response")

	// ErrNoChunks is returned when summarization is requested for an empty
	// chunk sequence.
	ErrNoChunks = errors.New("no chunks to summarize")
)

// StageError wraps a pipeline failure with the stage it occurred in.
// For chunk generation failures, Chunk is the zero-based index of the chunk
// whose call failed.
type StageError struct {
	Stage Stage
	Chunk int
	Err   error
}

// Error returns the formatted stage error message.
func (e *StageError) Error() string {
	if e.Stage == StageChunkGeneration {
		return fmt.Sprintf("summarize failed at stage %s (chunk %d): %v", e.Stage, e.Chunk, e.Err)
	}
	return fmt.Sprintf("summarize failed at stage %s: %v", e.Stage, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *StageError) Unwrap() error {
	return e.Err
}
