// Package chunker turns an arbitrarily long document into an ordered
// sequence of overlapping, token-budgeted chunks. Each chunk fits the
// generation provider's input limit, and trailing sentences from one chunk
// are repeated at the start of the next so the provider always sees
// grammatically complete cross-boundary context.
package chunker

import (
	"fmt"
	"strings"

	"docsum/internal/textproc"
	"docsum/internal/tokenizer"
)

// Budget bounds the size of chunks sent to the generation provider.
type Budget struct {
	// ChunkSize is the maximum number of tokens per chunk.
	ChunkSize int

	// OverlapSize is the maximum number of tokens of trailing context
	// carried into the next chunk. Must be smaller than ChunkSize.
	OverlapSize int
}

// Validate checks the budget invariants.
func (b Budget) Validate() error {
	if b.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", b.ChunkSize)
	}
	if b.OverlapSize < 0 {
		return fmt.Errorf("overlap size must be non-negative, got %d", b.OverlapSize)
	}
	if b.OverlapSize >= b.ChunkSize {
		return fmt.Errorf("overlap size %d must be smaller than chunk size %d",
			b.OverlapSize, b.ChunkSize)
	}
	return nil
}

// Chunk is one bounded slice of document text. TokenCount is recorded at
// creation time with the counter used for the whole pass. TokenCount may
// exceed the budget only when the chunk is a single sentence that alone
// exceeds it; content is never silently truncated or dropped.
type Chunk struct {
	Index      int
	Text       string
	TokenCount int
}

// Split normalizes text and partitions it into budgeted chunks.
//
// Short documents take a fast path: when the whole normalized text fits the
// chunk budget it becomes a single chunk without any sentence-level work.
// Otherwise the sentence sequence is walked left to right, closing a chunk
// whenever the next sentence would exceed the budget and seeding the
// following chunk with an overlap tail of whole sentences from the one just
// closed. A sentence that alone exceeds the budget is emitted as its own
// oversized chunk.
//
// The counter is used consistently for the entire pass; passing nil selects
// the deterministic character estimator. Empty or whitespace-only input
// yields zero chunks. Split is deterministic: the same (text, budget,
// counter) always produces identical output.
func Split(text string, budget Budget, counter tokenizer.Counter) ([]Chunk, error) {
	if err := budget.Validate(); err != nil {
		return nil, fmt.Errorf("invalid budget: %w", err)
	}
	if counter == nil {
		counter = tokenizer.Estimator{}
	}

	normalized := textproc.Normalize(text)
	if normalized == "" {
		return nil, nil
	}

	if counter.Count(normalized) <= budget.ChunkSize {
		return []Chunk{{Index: 0, Text: normalized, TokenCount: counter.Count(normalized)}}, nil
	}

	sentences := textproc.SplitSentences(normalized)

	var (
		chunks []Chunk
		buffer []string
	)

	appendChunk := func(parts []string) {
		joined := strings.Join(parts, " ")
		chunks = append(chunks, Chunk{
			Index:      len(chunks),
			Text:       joined,
			TokenCount: counter.Count(joined),
		})
	}

	// withNext measures the buffer exactly as it would be emitted once the
	// candidate sentence is appended. Summing per-sentence counts drifts
	// away from the count of the joined text (join separators, the
	// estimator's per-call rounding), so every close decision recounts the
	// joined form instead of keeping a running total.
	withNext := func(parts []string, next string) int {
		if len(parts) == 0 {
			return counter.Count(next)
		}
		return counter.Count(strings.Join(parts, " ") + " " + next)
	}

	for _, sentence := range sentences {
		// A pathological sentence that alone exceeds the budget becomes its
		// own oversized chunk. Closing the buffer first keeps every other
		// chunk within budget.
		if counter.Count(sentence) > budget.ChunkSize {
			if len(buffer) > 0 {
				appendChunk(buffer)
			}
			appendChunk([]string{sentence})
			buffer = overlapTail([]string{sentence}, budget.OverlapSize, counter)
			continue
		}

		if len(buffer) > 0 && withNext(buffer, sentence) > budget.ChunkSize {
			appendChunk(buffer)
			buffer = overlapTail(buffer, budget.OverlapSize, counter)
			if len(buffer) > 0 && withNext(buffer, sentence) > budget.ChunkSize {
				// Carrying the overlap would blow the budget for this
				// sentence; start the next chunk without carried context
				// rather than exceed it.
				buffer = nil
			}
		}

		buffer = append(buffer, sentence)
	}

	if len(buffer) > 0 {
		appendChunk(buffer)
	}

	return chunks, nil
}

// overlapTail returns the longest suffix of sentences whose joined token
// count stays within the overlap budget, walking the closed chunk in reverse
// and accepting whole sentences only.
func overlapTail(sentences []string, overlapSize int, counter tokenizer.Counter) []string {
	var tail []string

	for i := len(sentences) - 1; i >= 0; i-- {
		candidate := append([]string{sentences[i]}, tail...)
		if counter.Count(strings.Join(candidate, " ")) > overlapSize {
			break
		}
		tail = candidate
	}

	return tail
}
