// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes the application's business metrics including:
//   - Summarization metrics (documents summarized, duration, chunk counts)
//   - Storage metrics (summaries total, retention sweeps)
//   - Database query metrics
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "docsum/internal/observability/metrics"
//
//	func summarizeDocument() {
//	    start := time.Now()
//	    // ... run the pipeline ...
//
//	    metrics.RecordDocumentSummarized(true, "general")
//	    metrics.RecordSummarizationDuration(time.Since(start))
//	}
package metrics
