// Package metrics provides centralized Prometheus metrics for the
// application's business operations. Transport-level HTTP metrics are
// registered by the HTTP handler layer; everything domain-facing lives here.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Business metrics track application-specific operations
var (
	// SummariesTotal tracks total number of summaries in the database
	SummariesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "summaries_total",
			Help: "Total number of summaries in the database",
		},
	)

	// DocumentsSummarizedTotal counts summarized documents by status and template
	DocumentsSummarizedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "documents_summarized_total",
			Help: "Total number of documents summarized",
		},
		[]string{"status", "template"}, // status: success | failure
	)

	// SummarizationDuration measures end-to-end time to summarize a document
	SummarizationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "summarization_duration_seconds",
			Help:    "Time taken to summarize a document end to end",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	// DocumentSizeBytes measures uploaded document size
	DocumentSizeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "document_size_bytes",
			Help:    "Size of uploaded documents in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		},
	)

	// DocumentChunksProcessed measures how many chunks each document produced
	DocumentChunksProcessed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "document_chunks_processed",
			Help:    "Number of chunks processed per summarized document",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128},
		},
	)

	// RetentionDeletedTotal counts summaries removed by the retention sweep
	RetentionDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "retention_deleted_total",
			Help: "Total number of summaries deleted by retention cleanup",
		},
	)

	// RetentionSweepErrors counts failed retention sweeps
	RetentionSweepErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "retention_sweep_errors_total",
			Help: "Total number of failed retention cleanup sweeps",
		},
	)
)

// Database metrics track database performance
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	// DBConnectionsActive tracks active database connections
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	// DBConnectionsIdle tracks idle database connections
	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)
