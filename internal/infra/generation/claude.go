package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"docsum/internal/resilience/circuitbreaker"
	"docsum/internal/resilience/retry"
	"docsum/internal/usecase/summarize"
)

// Claude implements Provider using Anthropic's Claude API. It includes
// circuit breaker and retry logic for improved reliability.
type Claude struct {
	client          anthropic.Client
	model           string
	timeout         time.Duration
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	metricsRecorder GenerationMetricsRecorder
}

// NewClaude creates a Claude provider from the given configuration.
func NewClaude(cfg *Config) *Claude {
	model := cfg.Model
	if model == "" || model == defaultOllamaModel {
		model = "claude-sonnet-4-5-20250929"
	}

	slog.Info("initialized claude provider",
		slog.String("model", model))

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Claude{
		client:          anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:           model,
		timeout:         timeout,
		circuitBreaker:  circuitbreaker.New(circuitbreaker.ClaudeAPIConfig()),
		retryConfig:     retry.GenerationAPIConfig(),
		metricsRecorder: NewPrometheusGenerationMetrics(),
	}
}

// Name implements Provider.
func (c *Claude) Name() string {
	return KindClaude
}

// Generate implements summarize.Generator with circuit breaker and retry.
func (c *Claude) Generate(ctx context.Context, prompt string, opts summarize.GenerateOptions) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var result string

	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.doGenerate(ctx, prompt, opts)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("claude circuit breaker open, request rejected",
					slog.String("service", "claude-api"),
					slog.String("state", c.circuitBreaker.State().String()))
				return fmt.Errorf("claude api unavailable: circuit breaker open")
			}
			return err
		}
		result = cbResult.(string)
		return nil
	})

	if retryErr != nil {
		return "", fmt.Errorf("claude generate failed after retries: %w", retryErr)
	}

	return result, nil
}

// doGenerate performs the actual API call without retry or circuit breaker.
func (c *Claude) doGenerate(ctx context.Context, prompt string, opts summarize.GenerateOptions) (string, error) {
	requestID := uuid.New().String()

	slog.InfoContext(ctx, "calling claude",
		slog.String("request_id", requestID),
		slog.String("model", c.model),
		slog.Int("prompt_length", len(prompt)))

	start := time.Now()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(opts.MaxOutputTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
			),
		},
		Temperature: anthropic.Float(opts.Temperature),
	}
	if len(opts.StopSequences) > 0 {
		params.StopSequences = opts.StopSequences
	}

	message, err := c.client.Messages.New(ctx, params)
	duration := time.Since(start)

	if err != nil {
		c.metricsRecorder.RecordCall(KindClaude, "transport_error", duration)
		slog.ErrorContext(ctx, "claude call failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("claude api error: %w", err)
	}

	if len(message.Content) == 0 {
		c.metricsRecorder.RecordCall(KindClaude, "empty", duration)
		slog.ErrorContext(ctx, "claude returned empty response",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration))
		return "", fmt.Errorf("claude api returned empty response")
	}

	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		c.metricsRecorder.RecordCall(KindClaude, "decode_error", duration)
		return "", fmt.Errorf("claude api returned unexpected response type")
	}

	c.metricsRecorder.RecordCall(KindClaude, "success", duration)
	c.metricsRecorder.RecordOutputLength(len([]rune(textBlock.Text)))

	slog.InfoContext(ctx, "claude call completed",
		slog.String("request_id", requestID),
		slog.Duration("duration", duration),
		slog.Int("response_length", len(textBlock.Text)))

	return textBlock.Text, nil
}

// Health implements Provider. The SDK exposes no dedicated liveness
// endpoint; a client constructed with an empty key is the only local
// misconfiguration worth reporting.
func (c *Claude) Health(_ context.Context) error {
	if c.model == "" {
		return fmt.Errorf("claude provider misconfigured: empty model")
	}
	return nil
}
