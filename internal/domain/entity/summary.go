// Package entity defines the core domain entities and validation logic for
// the application. It contains the fundamental business objects such as
// Summary and Template, along with their validation rules and domain-specific
// errors.
package entity

import (
	"strings"
	"time"
)

// MaxInsights is the maximum number of insights attached to a summary.
const MaxInsights = 5

// Summary represents one completed document summarization.
// It holds the generated summary text, the extracted insights, and the
// processing metadata persisted for the history view.
type Summary struct {
	DocID          string
	Filename       string
	Summary        string
	Insights       []string
	Template       string
	FileSize       int64
	ProcessingTime time.Duration
	ChunksCount    int
	CreatedAt      time.Time
}

// Validate checks the Summary entity fields before persistence.
func (s *Summary) Validate() error {
	if s.DocID == "" {
		return &ValidationError{Field: "doc_id", Message: "doc_id is required"}
	}
	if s.Filename == "" {
		return &ValidationError{Field: "filename", Message: "filename is required"}
	}
	if strings.TrimSpace(s.Summary) == "" {
		return &ValidationError{Field: "summary", Message: "summary cannot be empty"}
	}
	if len(s.Insights) > MaxInsights {
		return &ValidationError{Field: "insights", Message: "insights must not exceed 5 entries"}
	}
	for _, insight := range s.Insights {
		if strings.TrimSpace(insight) == "" {
			return &ValidationError{Field: "insights", Message: "insights cannot be empty strings"}
		}
	}
	if s.ChunksCount < 0 {
		return &ValidationError{Field: "chunks_count", Message: "chunks_count cannot be negative"}
	}
	return nil
}

// Preview returns the summary text truncated for list views.
// Summaries longer than limit runes are cut and ellipsis-terminated.
func (s *Summary) Preview(limit int) string {
	runes := []rune(s.Summary)
	if len(runes) <= limit {
		return s.Summary
	}
	return string(runes[:limit]) + "..."
}
