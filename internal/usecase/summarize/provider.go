package summarize

import "context"

// GenerateOptions tunes a single generation call.
type GenerateOptions struct {
	// Temperature controls output variance. Insight extraction uses a lower
	// value than summarization to bias toward extractive output.
	Temperature float64

	// MaxOutputTokens is the output-length target for the call.
	MaxOutputTokens int

	// StopSequences end generation early when emitted by the provider.
	StopSequences []string
}

// Generator is the external text-generation capability. Implementations own
// the transport: timeouts, retries and circuit breaking happen behind this
// interface, never in the orchestrator. A call may suspend for an extended
// period; the context bounds it.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}
