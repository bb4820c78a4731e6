package summary

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"docsum/internal/common/pagination"
	"docsum/internal/domain/entity"
	"docsum/internal/handler/http/requestid"
	"docsum/internal/handler/http/respond"
	"docsum/internal/repository"
	"docsum/internal/usecase/history"
)

// HistoryService provides access to the stored summary history.
type HistoryService interface {
	ListPaginated(ctx context.Context, page, limit int) (*history.PaginatedResult, error)
	Get(ctx context.Context, docID string) (*entity.Summary, error)
	Delete(ctx context.Context, docID string) error
	Stats(ctx context.Context) (*repository.SummaryStats, error)
}

// ListHandler handles GET /summaries with pagination. Each item carries a
// truncated preview of the summary text.
type ListHandler struct {
	Svc           HistoryService
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	reqID := requestid.FromContext(ctx)
	logger := h.Logger.With(slog.String("request_id", reqID))

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		logger.Warn("invalid pagination parameters",
			slog.String("error", err.Error()))
		pagination.RecordError("validation")
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	pagination.LogRequest(logger, reqID, params)

	result, err := h.Svc.ListPaginated(ctx, params.Page, params.Limit)
	if err != nil {
		pagination.LogError(logger, reqID, params, err, "database")
		pagination.RecordError("database")
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]ListItemDTO, 0, len(result.Data))
	for _, item := range result.Data {
		dtos = append(dtos, toListItemDTO(item))
	}

	response := pagination.NewResponse(dtos, result.Pagination)

	duration := time.Since(startTime)
	pagination.RecordRequest(http.StatusOK, params.Page)
	pagination.RecordDuration("handler", duration.Seconds())
	pagination.UpdateTotalCount(result.Pagination.Total)

	pagination.LogResponse(logger, reqID, params, len(dtos), duration, http.StatusOK)

	respond.JSON(w, http.StatusOK, response)
}
