package summary_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsum/internal/config"
	"docsum/internal/domain/entity"
	"docsum/internal/handler/http/summary"
	"docsum/internal/usecase/document"
	"docsum/internal/usecase/summarize"
)

// multipartUpload builds a multipart body with a file part and optional
// form values.
func multipartUpload(t *testing.T, filename, contentType, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

func newCreateHandler(svc *stubDocumentService) summary.CreateHandler {
	return summary.CreateHandler{
		Svc:      svc,
		Registry: config.NewTemplateRegistry(),
		Logger:   discardLogger(),
	}
}

func TestCreateHandler_Success(t *testing.T) {
	var gotInput document.SummarizeInput
	svc := &stubDocumentService{
		summarizeFn: func(_ context.Context, input document.SummarizeInput) (*entity.Summary, error) {
			gotInput = input
			return storedSummary(), nil
		},
	}

	body, formContentType := multipartUpload(t, "report.txt", "text/plain; charset=utf-8",
		"Quarterly revenue grew by ten percent.", map[string]string{"template": "general"})

	req := httptest.NewRequest(http.MethodPost, "/summaries", body)
	req.Header.Set("Content-Type", formContentType)
	rec := httptest.NewRecorder()
	newCreateHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, "report.txt", gotInput.Filename)
	assert.Equal(t, "text/plain", gotInput.ContentType)
	assert.Equal(t, "Quarterly revenue grew by ten percent.", string(gotInput.Data))
	assert.Equal(t, "general", gotInput.Template.Key)

	var resp summary.DTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, testDocID, resp.DocID)
	assert.Equal(t, int64(3000), resp.ProcessingTimeMS)
	assert.Len(t, resp.Insights, 2)
}

func TestCreateHandler_CustomPromptWins(t *testing.T) {
	var gotInput document.SummarizeInput
	svc := &stubDocumentService{
		summarizeFn: func(_ context.Context, input document.SummarizeInput) (*entity.Summary, error) {
			gotInput = input
			return storedSummary(), nil
		},
	}

	body, formContentType := multipartUpload(t, "report.txt", "text/plain", "Some text.",
		map[string]string{
			"template":      "general",
			"custom_prompt": "List the risks in {text}",
		})

	req := httptest.NewRequest(http.MethodPost, "/summaries", body)
	req.Header.Set("Content-Type", formContentType)
	rec := httptest.NewRecorder()
	newCreateHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "custom", gotInput.Template.Key)
	assert.Equal(t, "List the risks in {text}", gotInput.Template.Prompt)
}

func TestCreateHandler_MissingFilePart(t *testing.T) {
	svc := &stubDocumentService{
		summarizeFn: func(_ context.Context, _ document.SummarizeInput) (*entity.Summary, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("template", "general"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/summaries", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	newCreateHandler(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateHandler_UnsupportedContentType(t *testing.T) {
	svc := &stubDocumentService{
		summarizeFn: func(_ context.Context, _ document.SummarizeInput) (*entity.Summary, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}

	body, formContentType := multipartUpload(t, "report.pdf", "application/pdf", "%PDF-1.4", nil)

	req := httptest.NewRequest(http.MethodPost, "/summaries", body)
	req.Header.Set("Content-Type", formContentType)
	rec := httptest.NewRecorder()
	newCreateHandler(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestCreateHandler_UnknownTemplate(t *testing.T) {
	svc := &stubDocumentService{
		summarizeFn: func(_ context.Context, _ document.SummarizeInput) (*entity.Summary, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}

	body, formContentType := multipartUpload(t, "report.txt", "text/plain", "Some text.",
		map[string]string{"template": "no_such_template"})

	req := httptest.NewRequest(http.MethodPost, "/summaries", body)
	req.Header.Set("Content-Type", formContentType)
	rec := httptest.NewRecorder()
	newCreateHandler(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateHandler_EmptyDocument(t *testing.T) {
	svc := &stubDocumentService{
		summarizeFn: func(_ context.Context, _ document.SummarizeInput) (*entity.Summary, error) {
			return nil, document.ErrEmptyDocument
		},
	}

	body, formContentType := multipartUpload(t, "blank.txt", "text/plain", "   ", nil)

	req := httptest.NewRequest(http.MethodPost, "/summaries", body)
	req.Header.Set("Content-Type", formContentType)
	rec := httptest.NewRecorder()
	newCreateHandler(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateHandler_GenerationFailureIsBadGateway(t *testing.T) {
	svc := &stubDocumentService{
		summarizeFn: func(_ context.Context, _ document.SummarizeInput) (*entity.Summary, error) {
			return nil, &summarize.StageError{
				Stage: summarize.StageChunkGeneration,
				Chunk: 1,
				Err:   errors.New("connection refused"),
			}
		},
	}

	body, formContentType := multipartUpload(t, "report.txt", "text/plain", "Some text.", nil)

	req := httptest.NewRequest(http.MethodPost, "/summaries", body)
	req.Header.Set("Content-Type", formContentType)
	rec := httptest.NewRecorder()
	newCreateHandler(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestCreateHandler_ValidationErrorIsBadRequest(t *testing.T) {
	svc := &stubDocumentService{
		summarizeFn: func(_ context.Context, _ document.SummarizeInput) (*entity.Summary, error) {
			return nil, &entity.ValidationError{Field: "filename", Message: "filename is required"}
		},
	}

	body, formContentType := multipartUpload(t, "x.txt", "text/plain", "Some text.", nil)

	req := httptest.NewRequest(http.MethodPost, "/summaries", body)
	req.Header.Set("Content-Type", formContentType)
	rec := httptest.NewRecorder()
	newCreateHandler(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
