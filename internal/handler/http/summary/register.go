package summary

import (
	"log/slog"
	"net/http"

	"docsum/internal/common/pagination"
	"docsum/internal/config"
	"docsum/internal/handler/http/auth"
	"docsum/internal/infra/generation"
)

// Register registers all summarization HTTP handlers with the given mux.
// Every route here is protected: callers need a valid JWT from /auth/token.
func Register(
	mux *http.ServeMux,
	docSvc DocumentService,
	histSvc HistoryService,
	registry *config.TemplateRegistry,
	provider generation.Provider,
	paginationCfg pagination.Config,
	logger *slog.Logger,
) {
	mux.Handle("POST   /summaries", auth.Authz(CreateHandler{
		Svc:      docSvc,
		Registry: registry,
		Logger:   logger,
	}))
	mux.Handle("GET    /summaries", auth.Authz(ListHandler{
		Svc:           histSvc,
		PaginationCfg: paginationCfg,
		Logger:        logger,
	}))
	mux.Handle("GET    /summaries/", auth.Authz(GetHandler{histSvc}))
	mux.Handle("DELETE /summaries/", auth.Authz(DeleteHandler{histSvc}))

	mux.Handle("GET    /stats", auth.Authz(StatsHandler{histSvc}))
	mux.Handle("GET    /templates", auth.Authz(TemplatesHandler{registry}))
	mux.Handle("GET    /model/info", auth.Authz(ModelInfoHandler{provider}))
}
