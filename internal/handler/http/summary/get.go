package summary

import (
	"errors"
	"net/http"

	"docsum/internal/handler/http/pathutil"
	"docsum/internal/handler/http/respond"
	"docsum/internal/usecase/history"
)

// GetHandler handles GET /summaries/{doc_id}, returning the full summary
// with insights.
type GetHandler struct{ Svc HistoryService }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	docID, err := pathutil.ExtractDocID(r.URL.Path, "/summaries/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	summary, err := h.Svc.Get(r.Context(), docID)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, history.ErrInvalidDocID) {
			code = http.StatusBadRequest
		} else if errors.Is(err, history.ErrSummaryNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDTO(summary))
}
