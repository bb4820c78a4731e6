package summary

import (
	"errors"
	"net/http"

	"docsum/internal/handler/http/pathutil"
	"docsum/internal/handler/http/respond"
	"docsum/internal/usecase/history"
)

// DeleteHandler handles DELETE /summaries/{doc_id}.
type DeleteHandler struct{ Svc HistoryService }

func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	docID, err := pathutil.ExtractDocID(r.URL.Path, "/summaries/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.Svc.Delete(r.Context(), docID); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, history.ErrInvalidDocID) {
			code = http.StatusBadRequest
		} else if errors.Is(err, history.ErrSummaryNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
