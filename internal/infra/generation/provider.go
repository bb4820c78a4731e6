package generation

import (
	"context"
	"fmt"

	"docsum/internal/usecase/summarize"
)

// Provider is a generation backend usable by the summarization pipeline.
// It extends the generator contract with a liveness probe so callers can
// surface backend availability without issuing a real generation.
type Provider interface {
	summarize.Generator

	// Name identifies the backend for logging and health reporting.
	Name() string

	// Health checks backend availability. It must be cheap: no generation
	// call, just a connectivity or authentication probe.
	Health(ctx context.Context) error
}

// ModelInfo describes the model currently served by a backend. Only backends
// that expose model metadata implement ModelDescriber; others report the
// configured identifier through Provider.Name.
type ModelInfo struct {
	Model             string `json:"model"`
	Family            string `json:"family,omitempty"`
	ParameterSize     string `json:"parameter_size,omitempty"`
	QuantizationLevel string `json:"quantization_level,omitempty"`
}

// ModelDescriber is implemented by providers that can report model metadata.
type ModelDescriber interface {
	ModelInfo(ctx context.Context) (*ModelInfo, error)
}

// New creates the provider selected by the configuration.
func New(cfg *Config) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case KindOllama:
		return NewOllama(cfg), nil
	case KindClaude:
		return NewClaude(cfg), nil
	case KindOpenAI:
		return NewOpenAI(cfg), nil
	case KindNoOp:
		return NewNoOp(), nil
	}
	return nil, fmt.Errorf("unknown generation provider: %s", cfg.Provider)
}
