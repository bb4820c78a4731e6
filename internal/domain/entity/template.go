package entity

import (
	"strings"
)

// InsertionPoint is the placeholder a prompt template must contain exactly
// once. Render substitutes the document text at this position.
const InsertionPoint = "{text}"

// Template is a named summarization prompt with a single text-insertion
// point. Templates come from the built-in registry or, for one-off requests,
// from a caller-supplied custom prompt.
type Template struct {
	Key         string
	Name        string
	Description string
	Prompt      string
}

// Validate checks the template invariants. A prompt without exactly one
// insertion point is rejected rather than assumed well-formed.
func (t *Template) Validate() error {
	if t.Key == "" {
		return &ValidationError{Field: "key", Message: "template key is required"}
	}
	if strings.TrimSpace(t.Prompt) == "" {
		return &ValidationError{Field: "prompt", Message: "template prompt is required"}
	}
	switch n := strings.Count(t.Prompt, InsertionPoint); {
	case n == 0:
		return &ValidationError{
			Field:   "prompt",
			Message: "template prompt must contain the {text} insertion point",
		}
	case n > 1:
		return &ValidationError{
			Field:   "prompt",
			Message: "template prompt must contain exactly one {text} insertion point",
		}
	}
	return nil
}

// Render substitutes text at the template's insertion point.
func (t *Template) Render(text string) string {
	return strings.Replace(t.Prompt, InsertionPoint, text, 1)
}
