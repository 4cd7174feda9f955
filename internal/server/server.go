package server

import (
	"log/slog"
	"net/http"

	"github.com/AMANSINGH8797/retail-pivot/internal/handlers"
	"github.com/AMANSINGH8797/retail-pivot/internal/services"
)

type Server struct {
	analyzer    *services.Analyzer
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(analyzer *services.Analyzer, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		analyzer:    analyzer,
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(analyzer, logger),
		sseHandlers: handlers.NewSSEHandlers(analyzer, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard routes
	s.mux.HandleFunc("GET /", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints
	s.mux.HandleFunc("GET /api/columns", s.apiHandlers.HandleColumns)
	s.mux.HandleFunc("POST /api/pivot", s.apiHandlers.HandlePivot)
	s.mux.HandleFunc("POST /api/export", s.apiHandlers.HandleExport)

	// Datastar SSE endpoints
	s.mux.HandleFunc("POST /sse/generate", s.sseHandlers.HandleGenerate)
	s.mux.HandleFunc("POST /sse/export", s.sseHandlers.HandleExport)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
