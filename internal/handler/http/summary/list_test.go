package summary_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsum/internal/common/pagination"
	"docsum/internal/domain/entity"
	"docsum/internal/handler/http/summary"
	"docsum/internal/usecase/history"
)

func newListHandler(svc *stubHistoryService) summary.ListHandler {
	return summary.ListHandler{
		Svc:           svc,
		PaginationCfg: pagination.DefaultConfig(),
		Logger:        discardLogger(),
	}
}

func TestListHandler_Success(t *testing.T) {
	long := storedSummary()
	long.Summary = strings.Repeat("a", 300)

	var gotPage, gotLimit int
	svc := &stubHistoryService{
		listFn: func(_ context.Context, page, limit int) (*history.PaginatedResult, error) {
			gotPage, gotLimit = page, limit
			return &history.PaginatedResult{
				Data: []*entity.Summary{storedSummary(), long},
				Pagination: pagination.Metadata{
					Total: 42, Page: page, Limit: limit, TotalPages: 5,
				},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/summaries?page=2&limit=10", nil)
	rec := httptest.NewRecorder()
	newListHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, gotPage)
	assert.Equal(t, 10, gotLimit)

	var resp pagination.Response[summary.ListItemDTO]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, int64(42), resp.Pagination.Total)
	assert.Equal(t, 5, resp.Pagination.TotalPages)

	// Short summaries pass through untouched; long ones get truncated.
	assert.Equal(t, "The quarterly report shows steady growth.", resp.Data[0].Preview)
	assert.Equal(t, strings.Repeat("a", 200)+"...", resp.Data[1].Preview)
}

func TestListHandler_DefaultsApplied(t *testing.T) {
	var gotPage, gotLimit int
	svc := &stubHistoryService{
		listFn: func(_ context.Context, page, limit int) (*history.PaginatedResult, error) {
			gotPage, gotLimit = page, limit
			return &history.PaginatedResult{
				Data:       nil,
				Pagination: pagination.Metadata{Page: page, Limit: limit},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/summaries", nil)
	rec := httptest.NewRecorder()
	newListHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, gotPage)
	assert.Equal(t, 20, gotLimit)
}

func TestListHandler_InvalidPageParam(t *testing.T) {
	svc := &stubHistoryService{
		listFn: func(_ context.Context, _, _ int) (*history.PaginatedResult, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/summaries?page=0", nil)
	rec := httptest.NewRecorder()
	newListHandler(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListHandler_ServiceError(t *testing.T) {
	svc := &stubHistoryService{
		listFn: func(_ context.Context, _, _ int) (*history.PaginatedResult, error) {
			return nil, errors.New("db down")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/summaries", nil)
	rec := httptest.NewRecorder()
	newListHandler(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
