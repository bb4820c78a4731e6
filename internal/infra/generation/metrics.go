package generation

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// GenerationMetricsRecorder defines the interface for recording generation
// call metrics. Abstracting the recorder keeps Prometheus out of adapter
// unit tests and leaves room for other metrics backends.
type GenerationMetricsRecorder interface {
	// RecordCall records one generation call with its provider, outcome and
	// duration. Outcome is one of: success, transport_error, http_error,
	// decode_error, empty.
	RecordCall(provider, outcome string, duration time.Duration)

	// RecordOutputLength records the length of a generated response in
	// characters.
	RecordOutputLength(length int)
}

// PrometheusGenerationMetrics implements GenerationMetricsRecorder using
// Prometheus metrics.
type PrometheusGenerationMetrics struct {
	callCounter       *prometheus.CounterVec
	durationHistogram *prometheus.HistogramVec
	lengthHistogram   prometheus.Histogram
}

var (
	generationMetricsInstance *PrometheusGenerationMetrics
	generationMetricsOnce     sync.Once
)

// getOrCreateCounterVec gets an existing counter vec or creates a new one.
func getOrCreateCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
		return promauto.NewCounterVec(opts, labels)
	}
	return c
}

// getOrCreateHistogramVec gets an existing histogram vec or creates a new one.
func getOrCreateHistogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(opts, labels)
	if err := prometheus.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.HistogramVec)
		}
		return promauto.NewHistogramVec(opts, labels)
	}
	return h
}

// getOrCreateHistogram gets an existing histogram or creates a new one.
func getOrCreateHistogram(opts prometheus.HistogramOpts) prometheus.Histogram {
	h := prometheus.NewHistogram(opts)
	if err := prometheus.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(prometheus.Histogram)
		}
		return promauto.NewHistogram(opts)
	}
	return h
}

// NewPrometheusGenerationMetrics creates a new Prometheus-based metrics
// recorder. Uses singleton pattern to avoid duplicate metric registration in
// tests.
func NewPrometheusGenerationMetrics() *PrometheusGenerationMetrics {
	generationMetricsOnce.Do(func() {
		generationMetricsInstance = &PrometheusGenerationMetrics{
			callCounter: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "generation_calls_total",
				Help: "Total generation calls by provider and outcome",
			}, []string{"provider", "outcome"}),
			durationHistogram: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "generation_call_duration_seconds",
				Help:    "Time taken for one generation call",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			}, []string{"provider"}),
			lengthHistogram: getOrCreateHistogram(prometheus.HistogramOpts{
				Name:    "generation_output_length_characters",
				Help:    "Distribution of generated response lengths in characters (Unicode runes)",
				Buckets: []float64{50, 100, 250, 500, 1000, 2000, 4000},
			}),
		}
	})
	return generationMetricsInstance
}

// RecordCall implements GenerationMetricsRecorder.RecordCall
func (p *PrometheusGenerationMetrics) RecordCall(provider, outcome string, duration time.Duration) {
	p.callCounter.WithLabelValues(provider, outcome).Inc()
	p.durationHistogram.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordOutputLength implements GenerationMetricsRecorder.RecordOutputLength
func (p *PrometheusGenerationMetrics) RecordOutputLength(length int) {
	p.lengthHistogram.Observe(float64(length))
}
