package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"docsum/internal/resilience/circuitbreaker"
	"docsum/internal/resilience/retry"
	"docsum/internal/usecase/summarize"
)

// Ollama implements Provider against a local Ollama server. It includes
// circuit breaker, retry and request pacing for improved reliability when a
// burst of documents hits a single inference engine.
type Ollama struct {
	baseURL         string
	model           string
	httpClient      *http.Client
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	limiter         *rate.Limiter
	metricsRecorder GenerationMetricsRecorder
}

// NewOllama creates an Ollama provider from the given configuration.
// It automatically configures circuit breaker, retry logic, request pacing
// and metrics recording.
func NewOllama(cfg *Config) *Ollama {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}

	slog.Info("initialized ollama provider",
		slog.String("base_url", cfg.BaseURL),
		slog.String("model", cfg.Model),
		slog.Int("requests_per_minute", cfg.RequestsPerMinute))

	return &Ollama{
		baseURL:         cfg.BaseURL,
		model:           cfg.Model,
		httpClient:      &http.Client{Timeout: cfg.Timeout},
		circuitBreaker:  circuitbreaker.New(circuitbreaker.OllamaAPIConfig()),
		retryConfig:     retry.GenerationAPIConfig(),
		limiter:         limiter,
		metricsRecorder: NewPrometheusGenerationMetrics(),
	}
}

// Name implements Provider.
func (o *Ollama) Name() string {
	return KindOllama
}

// generateRequest is the Ollama /api/generate request body.
type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64  `json:"temperature"`
	NumPredict  int      `json:"num_predict,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

// generateResponse is the subset of the Ollama response the adapter reads.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate implements summarize.Generator. It paces the request, then issues
// it through circuit breaker and retry logic.
func (o *Ollama) Generate(ctx context.Context, prompt string, opts summarize.GenerateOptions) (string, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("ollama request pacing: %w", err)
	}

	var result string

	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
			return o.doGenerate(ctx, prompt, opts)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("ollama circuit breaker open, request rejected",
					slog.String("service", "ollama-api"),
					slog.String("state", o.circuitBreaker.State().String()))
				return fmt.Errorf("ollama unavailable: circuit breaker open")
			}
			return err
		}
		result = cbResult.(string)
		return nil
	})

	if retryErr != nil {
		return "", fmt.Errorf("ollama generate failed after retries: %w", retryErr)
	}

	return result, nil
}

// doGenerate performs the actual API call without retry or circuit breaker.
func (o *Ollama) doGenerate(ctx context.Context, prompt string, opts summarize.GenerateOptions) (string, error) {
	requestID := uuid.New().String()

	body, err := json.Marshal(generateRequest{
		Model:  o.model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: opts.Temperature,
			NumPredict:  opts.MaxOutputTokens,
			Stop:        opts.StopSequences,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode ollama request: %w", err)
	}

	slog.InfoContext(ctx, "calling ollama",
		slog.String("request_id", requestID),
		slog.String("model", o.model),
		slog.Int("prompt_length", len(prompt)))

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		o.metricsRecorder.RecordCall(KindOllama, "transport_error", duration)
		slog.ErrorContext(ctx, "ollama call failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("ollama api error: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		o.metricsRecorder.RecordCall(KindOllama, "http_error", duration)
		slog.ErrorContext(ctx, "ollama returned non-200 status",
			slog.String("request_id", requestID),
			slog.Int("status", resp.StatusCode),
			slog.Duration("duration", duration))
		return "", &retry.HTTPError{StatusCode: resp.StatusCode, Message: string(payload)}
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		o.metricsRecorder.RecordCall(KindOllama, "decode_error", duration)
		return "", fmt.Errorf("decode ollama response: %w", err)
	}

	if decoded.Response == "" {
		o.metricsRecorder.RecordCall(KindOllama, "empty", duration)
		slog.ErrorContext(ctx, "ollama returned empty response",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration))
		return "", fmt.Errorf("ollama returned empty response")
	}

	o.metricsRecorder.RecordCall(KindOllama, "success", duration)
	o.metricsRecorder.RecordOutputLength(len([]rune(decoded.Response)))

	slog.InfoContext(ctx, "ollama call completed",
		slog.String("request_id", requestID),
		slog.Duration("duration", duration),
		slog.Int("response_length", len(decoded.Response)))

	return decoded.Response, nil
}

// Health implements Provider by listing the server's installed models.
func (o *Ollama) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("build ollama health request: %w", err)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ollama unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama health check returned status %d", resp.StatusCode)
	}
	return nil
}

// showResponse is the subset of the Ollama /api/show response the adapter reads.
type showResponse struct {
	Details struct {
		Family            string `json:"family"`
		ParameterSize     string `json:"parameter_size"`
		QuantizationLevel string `json:"quantization_level"`
	} `json:"details"`
}

// ModelInfo implements ModelDescriber by querying /api/show for the
// configured model.
func (o *Ollama) ModelInfo(ctx context.Context) (*ModelInfo, error) {
	body, err := json.Marshal(map[string]string{"name": o.model})
	if err != nil {
		return nil, fmt.Errorf("encode ollama show request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/show", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build ollama show request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama show failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama show returned status %d", resp.StatusCode)
	}

	var decoded showResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode ollama show response: %w", err)
	}

	return &ModelInfo{
		Model:             o.model,
		Family:            decoded.Details.Family,
		ParameterSize:     decoded.Details.ParameterSize,
		QuantizationLevel: decoded.Details.QuantizationLevel,
	}, nil
}
