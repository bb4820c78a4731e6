package summary

import (
	"net/http"

	"docsum/internal/handler/http/respond"
	"docsum/internal/observability/metrics"
)

// StatsHandler handles GET /stats, returning aggregate history statistics.
type StatsHandler struct{ Svc HistoryService }

func (h StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.Stats(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	metrics.UpdateSummariesTotal(stats.TotalSummaries)

	mostUsed := stats.MostUsedTemplate
	if mostUsed == "" {
		mostUsed = "none"
	}

	respond.JSON(w, http.StatusOK, StatsDTO{
		TotalSummaries:      stats.TotalSummaries,
		SummariesThisWeek:   stats.SummariesThisWeek,
		TotalBytes:          stats.TotalBytes,
		AvgProcessingTimeMS: stats.AvgProcessingTime.Milliseconds(),
		MostUsedTemplate:    mostUsed,
		TemplateCounts:      stats.TemplateCounts,
	})
}
