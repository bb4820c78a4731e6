// Package summary provides HTTP handlers for the document summarization
// endpoints: uploading documents, browsing the stored summary history,
// aggregate statistics, template listing and model information.
package summary

import (
	"time"

	"docsum/internal/domain/entity"
)

// previewLimit is the rune count summaries are truncated to in list views.
const previewLimit = 200

// DTO represents the JSON structure for one stored summary.
type DTO struct {
	DocID            string    `json:"doc_id"`
	Filename         string    `json:"filename"`
	Summary          string    `json:"summary"`
	Insights         []string  `json:"insights"`
	Template         string    `json:"template"`
	FileSizeBytes    int64     `json:"file_size_bytes"`
	ProcessingTimeMS int64     `json:"processing_time_ms"`
	ChunksCount      int       `json:"chunks_count"`
	CreatedAt        time.Time `json:"created_at"`
}

func toDTO(s *entity.Summary) DTO {
	return DTO{
		DocID:            s.DocID,
		Filename:         s.Filename,
		Summary:          s.Summary,
		Insights:         s.Insights,
		Template:         s.Template,
		FileSizeBytes:    s.FileSize,
		ProcessingTimeMS: s.ProcessingTime.Milliseconds(),
		ChunksCount:      s.ChunksCount,
		CreatedAt:        s.CreatedAt,
	}
}

// ListItemDTO is the truncated representation used by the history list.
// The full summary text is only returned by the single-summary endpoint.
type ListItemDTO struct {
	DocID       string    `json:"doc_id"`
	Filename    string    `json:"filename"`
	Preview     string    `json:"preview"`
	Template    string    `json:"template"`
	ChunksCount int       `json:"chunks_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func toListItemDTO(s *entity.Summary) ListItemDTO {
	return ListItemDTO{
		DocID:       s.DocID,
		Filename:    s.Filename,
		Preview:     s.Preview(previewLimit),
		Template:    s.Template,
		ChunksCount: s.ChunksCount,
		CreatedAt:   s.CreatedAt,
	}
}

// StatsDTO is the JSON structure for aggregate history statistics.
type StatsDTO struct {
	TotalSummaries      int64            `json:"total_summaries"`
	SummariesThisWeek   int64            `json:"summaries_this_week"`
	TotalBytes          int64            `json:"total_bytes"`
	AvgProcessingTimeMS int64            `json:"avg_processing_time_ms"`
	MostUsedTemplate    string           `json:"most_used_template"`
	TemplateCounts      map[string]int64 `json:"template_counts"`
}

// TemplateDTO is the JSON structure for one registered prompt template.
// Prompts themselves are not exposed.
type TemplateDTO struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
