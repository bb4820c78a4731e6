package pagination

// Metadata describes the page of summaries returned by a listing response.
type Metadata struct {
	Total      int64 `json:"total"`       // Total stored summaries across all pages
	Page       int   `json:"page"`        // Current page number (1-based)
	Limit      int   `json:"limit"`       // Summaries per page
	TotalPages int   `json:"total_pages"` // Calculated total number of pages
}
