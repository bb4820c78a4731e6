package summary

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"docsum/internal/config"
	"docsum/internal/domain/entity"
	"docsum/internal/handler/http/requestid"
	"docsum/internal/handler/http/respond"
	"docsum/internal/infra/extractor"
	"docsum/internal/observability/metrics"
	"docsum/internal/usecase/document"
	"docsum/internal/usecase/summarize"
)

// maxMultipartMemory caps how much of the upload is buffered in memory
// during multipart parsing; the rest spills to temporary files.
const maxMultipartMemory = 4 << 20

// DocumentService runs the summarization pipeline for one upload.
type DocumentService interface {
	Summarize(ctx context.Context, input document.SummarizeInput) (*entity.Summary, error)
}

// CreateHandler handles POST /summaries: a multipart upload with a "file"
// part plus optional "template" and "custom_prompt" form values.
type CreateHandler struct {
	Svc      DocumentService
	Registry *config.TemplateRegistry
	Logger   *slog.Logger
}

func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	reqID := requestid.FromContext(r.Context())
	logger := h.Logger.With(slog.String("request_id", reqID))

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.SafeError(w, http.StatusRequestEntityTooLarge,
				errors.New("uploaded file is too long"))
			return
		}
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("file part is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("file part is invalid"))
		return
	}

	contentType := normalizeMediaType(header.Header.Get("Content-Type"))
	if err := entity.ValidateContentType(contentType); err != nil {
		respond.SafeError(w, http.StatusUnsupportedMediaType, err)
		return
	}

	tmpl, err := h.Registry.Resolve(r.FormValue("template"), r.FormValue("custom_prompt"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	logger.Info("summarization request accepted",
		slog.String("filename", header.Filename),
		slog.String("content_type", contentType),
		slog.String("template", tmpl.Key),
		slog.Int("size_bytes", len(data)))

	result, err := h.Svc.Summarize(r.Context(), document.SummarizeInput{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
		Template:    tmpl,
	})

	duration := time.Since(start)
	metrics.RecordDocumentSummarized(err == nil, tmpl.Key)
	metrics.RecordSummarizationDuration(duration)
	metrics.RecordDocumentSize(int64(len(data)))

	if err != nil {
		code := statusForPipelineError(err)
		logger.Warn("summarization request failed",
			slog.String("filename", header.Filename),
			slog.Int("status", code),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		respond.SafeError(w, code, err)
		return
	}

	metrics.RecordChunksProcessed(result.ChunksCount)

	logger.Info("summarization request completed",
		slog.String("doc_id", result.DocID),
		slog.Int("chunks", result.ChunksCount),
		slog.Duration("duration", duration))

	respond.JSON(w, http.StatusCreated, toDTO(result))
}

// statusForPipelineError maps pipeline failures to HTTP status codes.
// Input problems are 4xx; generation backend failures are 502 so callers
// can distinguish them from faults in this service.
func statusForPipelineError(err error) int {
	var vErr *entity.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest
	}
	if errors.Is(err, extractor.ErrUnsupportedType) {
		return http.StatusUnsupportedMediaType
	}
	if errors.Is(err, extractor.ErrNotUTF8) ||
		errors.Is(err, extractor.ErrNoContent) ||
		errors.Is(err, document.ErrEmptyDocument) {
		return http.StatusUnprocessableEntity
	}
	var stageErr *summarize.StageError
	if errors.As(err, &stageErr) && stageErr.Stage != summarize.StageChunking {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// normalizeMediaType strips parameters and lowercases a Content-Type header
// value, so "text/HTML; charset=utf-8" validates as "text/html".
func normalizeMediaType(contentType string) string {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mediaType))
}
