package generation

import (
	"context"
	"strings"

	"docsum/internal/usecase/summarize"
)

// NoOp is a provider that echoes a truncated prompt back without calling any
// model. This is useful for testing and development when generation is not
// needed.
type NoOp struct{}

// NewNoOp creates a new NoOp provider.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Name implements Provider.
func (n *NoOp) Name() string {
	return KindNoOp
}

// Generate returns the tail of the prompt truncated to a reasonable length.
// The tail is used rather than the head so the fixed prompt preamble does not
// dominate every response.
func (n *NoOp) Generate(_ context.Context, prompt string, _ summarize.GenerateOptions) (string, error) {
	const maxLength = 500

	body := strings.TrimSpace(prompt)
	runes := []rune(body)
	if len(runes) <= maxLength {
		return body, nil
	}
	return string(runes[len(runes)-maxLength:]), nil
}

// Health implements Provider. The NoOp provider is always available.
func (n *NoOp) Health(_ context.Context) error {
	return nil
}
