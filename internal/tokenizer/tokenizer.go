// Package tokenizer provides token counting for budget enforcement during
// chunking. Two counter variants exist: an exact counter backed by the
// cl100k_base BPE encoding, and a deterministic character-based estimator
// used when the encoding data is unavailable. A counter is selected once at
// construction and used for an entire chunking pass; the two variants are
// never mixed mid-pass, so budgets stay consistent within one document.
package tokenizer

import (
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// encodingName is the BPE encoding used for exact counting. It matches the
// tokenization of the models this service targets.
const encodingName = "cl100k_base"

// Counter converts text to a token count. Implementations are pure and
// reentrant: they hold no mutable state and may be shared by concurrent
// requests.
type Counter interface {
	Count(text string) int
}

// Exact counts tokens with the cl100k_base encoding.
type Exact struct {
	encoding *tiktoken.Tiktoken
}

// NewExact loads the cl100k_base encoding. Loading can fail when the
// encoding data cannot be fetched or read; callers degrade to the Estimator
// in that case.
func NewExact() (*Exact, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("load %s encoding: %w", encodingName, err)
	}
	return &Exact{encoding: encoding}, nil
}

// Count returns the exact token count of text.
func (e *Exact) Count(text string) int {
	return len(e.encoding.Encode(text, nil, nil))
}

// Estimator approximates token counts as one token per four characters.
// The estimate is deterministic, which is what budget enforcement needs;
// accuracy is secondary.
type Estimator struct{}

// Count returns the estimated token count of text.
func (Estimator) Count(text string) int {
	return utf8.RuneCountInString(text) / 4
}

// Select returns the exact counter when the encoding loads, and the
// estimator otherwise. Degrading to the estimator is a warning-level
// condition, never a failure: chunking proceeds with approximate budgets.
func Select() Counter {
	exact, err := NewExact()
	if err != nil {
		slog.Warn("tokenizer unavailable, falling back to character estimator",
			slog.Any("error", err))
		return Estimator{}
	}
	return exact
}
