package summary_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"docsum/internal/handler/http/summary"
	"docsum/internal/usecase/history"
)

func TestDeleteHandler_Success(t *testing.T) {
	var gotDocID string
	svc := &stubHistoryService{
		deleteFn: func(_ context.Context, docID string) error {
			gotDocID = docID
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/summaries/"+testDocID, nil)
	rec := httptest.NewRecorder()
	summary.DeleteHandler{Svc: svc}.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, testDocID, gotDocID)
}

func TestDeleteHandler_NotFound(t *testing.T) {
	svc := &stubHistoryService{
		deleteFn: func(_ context.Context, _ string) error {
			return history.ErrSummaryNotFound
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/summaries/"+testDocID, nil)
	rec := httptest.NewRecorder()
	summary.DeleteHandler{Svc: svc}.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteHandler_InvalidDocID(t *testing.T) {
	svc := &stubHistoryService{
		deleteFn: func(_ context.Context, _ string) error {
			return history.ErrInvalidDocID
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/summaries/xyz", nil)
	rec := httptest.NewRecorder()
	summary.DeleteHandler{Svc: svc}.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
