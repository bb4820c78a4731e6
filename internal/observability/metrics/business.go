package metrics

import (
	"time"
)

// RecordDocumentSummarized records the result of a document summarization.
// Status is recorded as "success" or "failure".
func RecordDocumentSummarized(success bool, template string) {
	status := "success"
	if !success {
		status = "failure"
	}
	DocumentsSummarizedTotal.WithLabelValues(status, template).Inc()
}

// RecordSummarizationDuration records the end-to-end time taken to summarize
// a document, including extraction, chunking, generation and persistence.
func RecordSummarizationDuration(duration time.Duration) {
	SummarizationDuration.Observe(duration.Seconds())
}

// RecordDocumentSize records the size of an uploaded document.
func RecordDocumentSize(sizeBytes int64) {
	DocumentSizeBytes.Observe(float64(sizeBytes))
}

// RecordChunksProcessed records how many chunks a document was split into.
func RecordChunksProcessed(count int) {
	DocumentChunksProcessed.Observe(float64(count))
}

// RecordRetentionSweep records the outcome of one retention cleanup sweep.
func RecordRetentionSweep(deleted int64, err error) {
	if err != nil {
		RetentionSweepErrors.Inc()
		return
	}
	RetentionDeletedTotal.Add(float64(deleted))
}

// UpdateSummariesTotal updates the total count of summaries in the database.
// This gauge should be updated periodically to reflect the current state.
func UpdateSummariesTotal(count int64) {
	SummariesTotal.Set(float64(count))
}

// RecordDBQuery records the duration of a database query operation.
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool gauges.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
