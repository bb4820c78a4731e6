package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"docsum/internal/common/pagination"
	"docsum/internal/config"
	hhttp "docsum/internal/handler/http"
	hauth "docsum/internal/handler/http/auth"
	"docsum/internal/handler/http/requestid"
	hsummary "docsum/internal/handler/http/summary"
	pgRepo "docsum/internal/infra/adapter/persistence/postgres"
	"docsum/internal/infra/db"
	"docsum/internal/infra/extractor"
	"docsum/internal/infra/generation"
	"docsum/internal/observability/logging"
	"docsum/internal/observability/metrics"
	"docsum/internal/observability/tracing"
	"docsum/internal/tokenizer"
	"docsum/internal/usecase/document"
	"docsum/internal/usecase/history"
	"docsum/internal/usecase/summarize"
	pkgconfig "docsum/pkg/config"
)

// multipartOverhead is headroom added on top of the configured upload limit
// so that multipart boundaries and form fields do not push an exactly
// max-sized file over the request body limit.
const multipartOverhead = 64 << 10

func main() {
	logger := initLogger()
	validateJWTSecret(logger)
	validateAdminCredentials(logger)

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	version := getVersion()
	handler, provider := setupServer(logger, database, version)

	runServer(logger, database, handler, provider, version)
}

// initLogger initializes and returns a structured logger based on environment configuration.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// validateJWTSecret validates the JWT_SECRET environment variable for security requirements.
func validateJWTSecret(logger *slog.Logger) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Error("JWT_SECRET must be set")
		os.Exit(1)
	}
	if len(secret) < 32 {
		logger.Error("JWT_SECRET must be at least 32 characters (256 bits)")
		os.Exit(1)
	}
	weakSecrets := []string{"secret", "password", "test", "admin", "default"}
	for _, weak := range weakSecrets {
		if secret == weak || secret == weak+"123" {
			logger.Error("JWT_SECRET must not be a common weak value", slog.String("weak_value", weak))
			os.Exit(1)
		}
	}
}

// validateAdminCredentials ensures token issuance is configured at startup.
// Starting without credentials would make every /auth/token call fail
// closed, so refuse to start instead.
func validateAdminCredentials(logger *slog.Logger) {
	if os.Getenv("ADMIN_USER") == "" || os.Getenv("ADMIN_USER_PASSWORD") == "" {
		logger.Error("ADMIN_USER and ADMIN_USER_PASSWORD must be set")
		os.Exit(1)
	}
}

// initDatabase opens the database connection and runs migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// setupServer wires the summarization pipeline and returns the HTTP handler
// with all routes and middleware, plus the generation provider for health
// reporting.
func setupServer(logger *slog.Logger, database *sql.DB, version string) (http.Handler, generation.Provider) {
	docsCfg, err := config.LoadDocumentsConfig()
	if err != nil {
		logger.Error("failed to load documents configuration", slog.Any("error", err))
		os.Exit(1)
	}

	genCfg, err := generation.LoadConfig()
	if err != nil {
		logger.Error("failed to load generation configuration", slog.Any("error", err))
		os.Exit(1)
	}

	provider, err := generation.New(genCfg)
	if err != nil {
		logger.Error("failed to create generation provider", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("generation provider initialized",
		slog.String("provider", provider.Name()),
		slog.String("model", genCfg.Model),
		slog.Duration("timeout", genCfg.Timeout))

	registry, err := config.LoadTemplateRegistry(os.Getenv("TEMPLATES_FILE"))
	if err != nil {
		logger.Error("failed to load template registry", slog.Any("error", err))
		os.Exit(1)
	}

	repo := pgRepo.NewSummaryRepo(database)
	sumSvc := summarize.NewService(provider, summarize.DefaultConfig())
	docSvc := &document.Service{
		Extractor:  extractor.NewDocument(),
		Summarizer: sumSvc,
		Repo:       repo,
		Budget:     docsCfg.Budget(),
		Counter:    tokenizer.Select(),
	}
	histSvc := &history.Service{Repo: repo}

	paginationCfg := pagination.LoadFromEnv()

	mux := http.NewServeMux()
	hsummary.Register(mux, docSvc, histSvc, registry, provider, paginationCfg, logger)

	mux.Handle("POST   /auth/token", hauth.TokenHandler())
	mux.Handle("GET    /healthz", &hhttp.HealthHandler{DB: database, Provider: provider, Version: version})
	mux.Handle("GET    /metrics", hhttp.MetricsHandler())

	return applyMiddleware(logger, mux, docsCfg.MaxFileSize), provider
}

// applyMiddleware wraps the handler with the middleware chain.
// Order (outermost first): Request ID → Tracing → Rate Limit → Recovery →
// Logging → Body Limit → Input Validation → Timeout → Metrics.
func applyMiddleware(logger *slog.Logger, handler http.Handler, maxFileSize int64) http.Handler {
	rateLimitCfg := pkgconfig.LoadRateLimitConfig()

	// Summarization requests wait on several generation calls, so the
	// request timeout must dwarf a single generation timeout.
	requestTimeout := pkgconfig.GetEnvDuration("REQUEST_TIMEOUT", 5*time.Minute)
	if err := pkgconfig.ValidatePositiveDuration(requestTimeout); err != nil {
		logger.Warn("invalid REQUEST_TIMEOUT, using default",
			slog.Duration("value", requestTimeout))
		requestTimeout = 5 * time.Minute
	}

	chain := handler
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.Timeout(requestTimeout)(chain)
	chain = hhttp.InputValidation()(chain)
	chain = hhttp.LimitRequestBody(maxFileSize + multipartOverhead)(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)

	if rateLimitCfg.Enabled {
		limiter := hhttp.NewRateLimiter(rateLimitCfg.Limit, rateLimitCfg.Window)
		chain = limiter.Limit(chain)
		logger.Info("rate limiting enabled",
			slog.Int("limit", rateLimitCfg.Limit),
			slog.Duration("window", rateLimitCfg.Window))
	} else {
		logger.Warn("rate limiting is DISABLED - not recommended for production")
	}

	chain = tracing.Middleware(chain)
	chain = requestid.Middleware(chain)

	return chain
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, database *sql.DB, handler http.Handler, provider generation.Provider, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go reportPoolStats(ctx, database)

	if err := provider.Health(ctx); err != nil {
		// Degraded, not fatal: the backend may come up after us and
		// /healthz keeps reporting its state.
		logger.Warn("generation provider not reachable at startup",
			slog.String("provider", provider.Name()),
			slog.Any("error", err))
	}

	addr := ":" + pkgconfig.GetEnvString("PORT", "8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}

// reportPoolStats periodically exports connection pool gauges.
func reportPoolStats(ctx context.Context, database *sql.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := database.Stats()
			metrics.UpdateDBConnectionStats(stats.InUse, stats.Idle)
		}
	}
}
