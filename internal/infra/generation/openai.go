package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"docsum/internal/resilience/circuitbreaker"
	"docsum/internal/resilience/retry"
	"docsum/internal/usecase/summarize"
)

// OpenAI implements Provider using OpenAI's chat completion API. It includes
// circuit breaker and retry logic for improved reliability.
type OpenAI struct {
	client          *openai.Client
	model           string
	timeout         time.Duration
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	metricsRecorder GenerationMetricsRecorder
}

// NewOpenAI creates an OpenAI provider from the given configuration.
func NewOpenAI(cfg *Config) *OpenAI {
	model := cfg.Model
	if model == "" || model == defaultOllamaModel {
		model = openai.GPT4oMini
	}

	slog.Info("initialized openai provider",
		slog.String("model", model))

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &OpenAI{
		client:          openai.NewClient(cfg.APIKey),
		model:           model,
		timeout:         timeout,
		circuitBreaker:  circuitbreaker.New(circuitbreaker.OpenAIAPIConfig()),
		retryConfig:     retry.GenerationAPIConfig(),
		metricsRecorder: NewPrometheusGenerationMetrics(),
	}
}

// Name implements Provider.
func (o *OpenAI) Name() string {
	return KindOpenAI
}

// Generate implements summarize.Generator with circuit breaker and retry.
func (o *OpenAI) Generate(ctx context.Context, prompt string, opts summarize.GenerateOptions) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	var result string

	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
			return o.doGenerate(ctx, prompt, opts)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("openai circuit breaker open, request rejected",
					slog.String("service", "openai-api"),
					slog.String("state", o.circuitBreaker.State().String()))
				return fmt.Errorf("openai api unavailable: circuit breaker open")
			}
			return err
		}
		result = cbResult.(string)
		return nil
	})

	if retryErr != nil {
		return "", fmt.Errorf("openai generate failed after retries: %w", retryErr)
	}

	return result, nil
}

// doGenerate performs the actual API call without retry or circuit breaker.
func (o *OpenAI) doGenerate(ctx context.Context, prompt string, opts summarize.GenerateOptions) (string, error) {
	requestID := uuid.New().String()

	slog.InfoContext(ctx, "calling openai",
		slog.String("request_id", requestID),
		slog.String("model", o.model),
		slog.Int("prompt_length", len(prompt)))

	start := time.Now()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: float32(opts.Temperature),
		MaxTokens:   opts.MaxOutputTokens,
		Stop:        opts.StopSequences,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
	})

	duration := time.Since(start)

	if err != nil {
		o.metricsRecorder.RecordCall(KindOpenAI, "transport_error", duration)
		slog.ErrorContext(ctx, "openai call failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		o.metricsRecorder.RecordCall(KindOpenAI, "empty", duration)
		slog.ErrorContext(ctx, "openai returned empty response",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration))
		return "", fmt.Errorf("openai api returned empty response")
	}

	content := resp.Choices[0].Message.Content

	o.metricsRecorder.RecordCall(KindOpenAI, "success", duration)
	o.metricsRecorder.RecordOutputLength(len([]rune(content)))

	slog.InfoContext(ctx, "openai call completed",
		slog.String("request_id", requestID),
		slog.Duration("duration", duration),
		slog.Int("response_length", len(content)))

	return content, nil
}

// Health implements Provider by listing available models, a cheap
// authenticated call.
func (o *OpenAI) Health(ctx context.Context) error {
	if _, err := o.client.ListModels(ctx); err != nil {
		return fmt.Errorf("openai unreachable: %w", err)
	}
	return nil
}
