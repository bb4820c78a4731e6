package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"docsum/internal/pkg/config"
)

// WorkerMetrics provides Prometheus metrics for the retention worker.
// It embeds the standard ConfigMetrics for configuration monitoring and
// adds worker-specific metrics for sweep job tracking.
//
// Embedded metrics (from ConfigMetrics):
//   - worker_config_load_timestamp: Unix timestamp of last configuration load
//   - worker_config_validation_errors_total: Total validation errors by field
//   - worker_config_fallbacks_total: Total fallback operations by field
//   - worker_config_fallback_active: 1 if any fallback active, 0 otherwise
//
// Worker-specific metrics:
//   - worker_sweep_runs_total: Total sweep runs by status (success/failure)
//   - worker_sweep_duration_seconds: Duration histogram of sweep execution
//   - worker_sweep_summaries_deleted_total: Total summaries removed by sweeps
//   - worker_sweep_last_success_timestamp: Unix timestamp of last successful run
//   - worker_provider_up: 1 if the last generation provider probe succeeded
type WorkerMetrics struct {
	*config.ConfigMetrics

	// SweepRunsTotal counts sweep runs, labeled by status (success, failure).
	SweepRunsTotal *prometheus.CounterVec

	// SweepDurationSeconds measures how long one sweep takes. A sweep is a
	// single DELETE over the summaries table, so under a minute is normal
	// and the upper buckets indicate a bloated table or lock contention.
	SweepDurationSeconds prometheus.Histogram

	// SweepSummariesDeletedTotal counts summaries removed across all sweeps.
	SweepSummariesDeletedTotal prometheus.Counter

	// SweepLastSuccessTimestamp records the last successful sweep completion.
	SweepLastSuccessTimestamp prometheus.Gauge

	// ProviderUp reflects the outcome of the most recent generation
	// provider health probe.
	ProviderUp prometheus.Gauge
}

// NewWorkerMetrics creates a WorkerMetrics instance with all metrics
// initialized and registered via promauto.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		SweepRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_sweep_runs_total",
			Help: "Total number of retention sweep runs by status (success/failure)",
		}, []string{"status"}),

		SweepDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_sweep_duration_seconds",
			Help:    "Duration of retention sweep execution in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 30, 60, 300},
		}),

		SweepSummariesDeletedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_sweep_summaries_deleted_total",
			Help: "Total number of summaries removed across all retention sweeps",
		}),

		SweepLastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_sweep_last_success_timestamp",
			Help: "Unix timestamp of the last successful retention sweep",
		}),

		ProviderUp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_provider_up",
			Help: "1 if the last generation provider health probe succeeded, 0 otherwise",
		}),
	}
}

// MustRegister is a no-op kept for the conventional initialization pattern;
// metrics are auto-registered via promauto in NewWorkerMetrics.
func (m *WorkerMetrics) MustRegister() {
	// No-op: metrics are auto-registered via promauto
}

// RecordSweepRun increments the sweep run counter for the given status
// ("success" or "failure").
func (m *WorkerMetrics) RecordSweepRun(status string) {
	m.SweepRunsTotal.WithLabelValues(status).Inc()
}

// RecordSweepDuration observes the duration of a sweep in seconds.
func (m *WorkerMetrics) RecordSweepDuration(seconds float64) {
	m.SweepDurationSeconds.Observe(seconds)
}

// RecordSummariesDeleted adds the number of summaries removed by one sweep.
func (m *WorkerMetrics) RecordSummariesDeleted(count int64) {
	m.SweepSummariesDeletedTotal.Add(float64(count))
}

// RecordLastSuccess records the current time as the last successful sweep.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.SweepLastSuccessTimestamp.SetToCurrentTime()
}

// SetProviderUp records the outcome of a generation provider health probe.
func (m *WorkerMetrics) SetProviderUp(up bool) {
	if up {
		m.ProviderUp.Set(1)
		return
	}
	m.ProviderUp.Set(0)
}
