// Package generation provides text-generation provider adapters for the
// summarization pipeline. It includes adapters for a local Ollama server and
// for the Claude (Anthropic) and OpenAI APIs, each wrapped with circuit
// breaker and retry logic and instrumented with structured logging and
// Prometheus metrics.
package generation

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Provider kinds selectable through GENERATION_PROVIDER.
const (
	KindOllama = "ollama"
	KindClaude = "claude"
	KindOpenAI = "openai"
	KindNoOp   = "noop"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434"
	defaultOllamaModel   = "llama3.2"
	defaultTimeout       = 120 * time.Second

	// defaultRequestsPerMinute paces calls to a local inference server.
	// A single local engine serves every request; pacing keeps a burst of
	// documents from piling prompts onto it.
	defaultRequestsPerMinute = 30
)

// Config holds the provider selection and transport parameters, loaded from
// environment variables with fallback to defaults.
type Config struct {
	// Provider selects the generation backend (ollama, claude, openai, noop).
	// Loaded from GENERATION_PROVIDER. Default: ollama.
	Provider string

	// BaseURL is the Ollama server address. Loaded from OLLAMA_BASE_URL.
	BaseURL string

	// Model is the model identifier passed to the provider.
	// Loaded from GENERATION_MODEL.
	Model string

	// APIKey authenticates against hosted providers (claude, openai).
	// Loaded from GENERATION_API_KEY. Unused for ollama and noop.
	APIKey string

	// Timeout bounds a single generation call.
	Timeout time.Duration

	// RequestsPerMinute paces outbound calls. Zero disables pacing.
	RequestsPerMinute int
}

// LoadConfig loads provider configuration from environment variables.
// Invalid numeric values fall back to defaults; an unknown provider kind is
// rejected by Validate (fail-closed).
//
// Environment variables:
//   - GENERATION_PROVIDER: backend kind (default: ollama)
//   - OLLAMA_BASE_URL: Ollama server address (default: http://localhost:11434)
//   - GENERATION_MODEL: model identifier (default: llama3.2)
//   - GENERATION_API_KEY: API key for hosted providers
//   - GENERATION_TIMEOUT_SECONDS: per-call timeout (default: 120)
//   - GENERATION_REQUESTS_PER_MINUTE: pacing limit, 0 disables (default: 30)
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Provider:          envOrDefault("GENERATION_PROVIDER", KindOllama),
		BaseURL:           envOrDefault("OLLAMA_BASE_URL", defaultOllamaBaseURL),
		Model:             envOrDefault("GENERATION_MODEL", defaultOllamaModel),
		APIKey:            os.Getenv("GENERATION_API_KEY"),
		Timeout:           defaultTimeout,
		RequestsPerMinute: defaultRequestsPerMinute,
	}

	if raw := os.Getenv("GENERATION_TIMEOUT_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf("invalid GENERATION_TIMEOUT_SECONDS: %s", raw)
		}
		cfg.Timeout = time.Duration(seconds) * time.Second
	}

	if raw := os.Getenv("GENERATION_REQUESTS_PER_MINUTE"); raw != "" {
		rpm, err := strconv.Atoi(raw)
		if err != nil || rpm < 0 {
			return nil, fmt.Errorf("invalid GENERATION_REQUESTS_PER_MINUTE: %s", raw)
		}
		cfg.RequestsPerMinute = rpm
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generation configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	switch c.Provider {
	case KindOllama:
		if c.BaseURL == "" {
			return fmt.Errorf("ollama base URL cannot be empty")
		}
	case KindClaude, KindOpenAI:
		if c.APIKey == "" {
			return fmt.Errorf("provider %s requires GENERATION_API_KEY", c.Provider)
		}
	case KindNoOp:
	default:
		return fmt.Errorf("unknown generation provider: %s", c.Provider)
	}

	if c.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
