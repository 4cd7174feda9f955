package handlers

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/AMANSINGH8797/retail-pivot/internal/errors"
	"github.com/AMANSINGH8797/retail-pivot/internal/observability"
	"github.com/AMANSINGH8797/retail-pivot/internal/pivot"
	"github.com/AMANSINGH8797/retail-pivot/internal/services"
)

type APIHandlers struct {
	analyzer *services.Analyzer
	logger   *slog.Logger
}

func NewAPIHandlers(analyzer *services.Analyzer, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analyzer: analyzer,
		logger:   logger,
	}
}

// HandleColumns lists the dataset columns usable as row dimensions and as
// measure mappings. The dataset is fixed for the life of the process, so
// the response is cacheable.
func (h *APIHandlers) HandleColumns(w http.ResponseWriter, r *http.Request) {
	dimensions, measures := h.analyzer.Columns()

	headers := map[string]string{
		"Cache-Control": "public, max-age=300",
	}

	errors.WriteSuccessWithHeaders(w, map[string]any{
		"dimensions": dimensions,
		"measures":   measures,
	}, headers)
}

// HandlePivot builds a pivot from the posted selections and returns both
// the display rendering and the raw records.
func (h *APIHandlers) HandlePivot(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	var signals pivotSignals
	if err := json.NewDecoder(r.Body).Decode(&signals); err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "invalid request body"), requestID)
		return
	}

	table, err := h.analyzer.Generate(r.Context(), signals.selections())
	if err != nil {
		errors.WriteError(w, h.logger, pivotError(err), requestID)
		return
	}

	headers, rows := table.Render(signals.DateCaption)

	errors.WriteSuccess(w, map[string]any{
		"columns": table.Columns,
		"headers": headers,
		"rows":    rows,
		"records": table.Records(),
	})
}

// HandleExport builds a pivot from the posted selections and writes it as
// an Excel workbook, returning the file path.
func (h *APIHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	var signals pivotSignals
	if err := json.NewDecoder(r.Body).Decode(&signals); err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "invalid request body"), requestID)
		return
	}

	path, err := h.analyzer.Export(r.Context(), signals.selections())
	if err != nil {
		errors.WriteError(w, h.logger, pivotError(err), requestID)
		return
	}

	errors.WriteSuccess(w, map[string]string{"file": path})
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats := h.analyzer.Stats()

	errors.WriteSuccess(w, stats)
}

// pivotError maps build failures the client can fix to 4xx responses;
// everything else stays internal.
func pivotError(err error) error {
	if stderrors.Is(err, pivot.ErrNoDimensions) {
		return errors.BadRequest("select at least one row dimension")
	}
	var unknown *pivot.UnknownColumnError
	if stderrors.As(err, &unknown) {
		return errors.Validation(unknown.Error())
	}
	return errors.InternalWrap(err, "pivot request failed")
}
