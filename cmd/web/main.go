package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/AMANSINGH8797/retail-pivot/internal/config"
	"github.com/AMANSINGH8797/retail-pivot/internal/dataset"
	"github.com/AMANSINGH8797/retail-pivot/internal/handlers"
	"github.com/AMANSINGH8797/retail-pivot/internal/middleware"
	"github.com/AMANSINGH8797/retail-pivot/internal/observability"
	"github.com/AMANSINGH8797/retail-pivot/internal/server"
	"github.com/AMANSINGH8797/retail-pivot/internal/services"
	"github.com/AMANSINGH8797/retail-pivot/internal/settings"
	"github.com/AMANSINGH8797/retail-pivot/internal/ui/templates"
)

const (
	renderTimeout  = 10 * time.Second
	csvLoadTimeout = 30 * time.Second
)

// dashboardHandler serves the initial page. The signal store is seeded from
// the saved selections so a reload lands where the last session left off,
// which is also why the page itself must not be cached.
func dashboardHandler(analyzer *services.Analyzer, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		signals, err := handlers.DashboardSignals(analyzer.InitialSelections())
		if err != nil {
			logger.Error("failed to build dashboard signals", "error", err)
			http.Error(w, "render error", http.StatusInternalServerError)
			return
		}

		dimensions, measures := analyzer.Columns()
		data := templates.Data{
			Dimensions: dimensions,
			Measures:   measures,
			Signals:    signals,
		}

		w.Header().Set("Cache-Control", "no-cache")
		if err := templates.Dashboard(data).Render(ctx, w); err != nil {
			logger.Error("failed to render dashboard", "error", err)
		}
	}
}

func main() {
	// Missing .env files are fine, the environment may be set directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"config", cfg,
	)

	if err := os.MkdirAll(cfg.Data.DataDir, 0o755); err != nil {
		logger.Error("failed to create data directory", "dir", cfg.Data.DataDir, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), csvLoadTimeout)
	defer cancel()

	data, err := dataset.LoadDir(ctx, cfg.Data.DataDir, logger)
	if err != nil {
		logger.Error("failed to load csv data", "dir", cfg.Data.DataDir, "error", err)
		os.Exit(1)
	}

	store := settings.NewStore(cfg.Data.SettingsFile)
	analyzer := services.NewAnalyzer(data, store, cfg.Data.ExportDir, logger)

	templateHandlers := &server.TemplateHandlers{
		Dashboard: dashboardHandler(analyzer, logger),
	}

	srv := server.NewServer(analyzer, logger, templateHandlers)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	handler := middlewareChain(srv)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg.Server.ShutdownTimeout)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("stopping rate limiter")
		rateLimiter.Stop()
		return nil
	})

	logger.Info("starting graceful server")
	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
