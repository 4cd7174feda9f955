package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/AMANSINGH8797/retail-pivot/internal/dataset"
	"github.com/AMANSINGH8797/retail-pivot/internal/export"
	"github.com/AMANSINGH8797/retail-pivot/internal/observability"
	"github.com/AMANSINGH8797/retail-pivot/internal/pivot"
	"github.com/AMANSINGH8797/retail-pivot/internal/settings"
)

// defaultDims is the retail hierarchy preselected as row dimensions when
// the dataset carries any of these columns.
var defaultDims = []string{"DIVISION", "SUB_DIVISION", "SECTION", "DEPARTMENT", "BRAND", "ARTICLE", "STYLE", "SIZE", "COLOR"}

// Analyzer ties the loaded dataset to pivot generation, selection
// persistence and spreadsheet export. The dataset is immutable after load
// and the settings store serializes its own writes, so Analyzer is safe
// for concurrent use without extra locking.
type Analyzer struct {
	data    *dataset.Table
	store   *settings.Store
	exports string
	logger  *slog.Logger
}

func NewAnalyzer(data *dataset.Table, store *settings.Store, exportDir string, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		data:    data,
		store:   store,
		exports: exportDir,
		logger:  logger,
	}
}

// Data returns the loaded dataset.
func (a *Analyzer) Data() *dataset.Table {
	return a.data
}

// Columns reports which dataset columns can serve as row dimensions and
// which as measure mappings.
func (a *Analyzer) Columns() (dimensions, measures []string) {
	return a.data.Dimensions(), a.data.Measures()
}

// Saved returns the last persisted selections. A missing or unreadable
// settings file yields zero selections rather than an error so the
// dashboard can always render.
func (a *Analyzer) Saved() settings.Settings {
	sel, err := a.store.Load()
	if err != nil {
		a.logger.Warn("failed to load saved selections", "error", err)
		return settings.Settings{}
	}
	return sel
}

// InitialSelections seeds a fresh dashboard session. Default hierarchy
// dimensions present in the dataset win over the saved row dimensions;
// saved ones apply only when none of the defaults exist. Measure mappings
// always come from the saved selections.
func (a *Analyzer) InitialSelections() settings.Settings {
	sel := a.Saved()

	available := a.data.Dimensions()
	dims := make([]string, 0, len(defaultDims))
	for _, d := range defaultDims {
		if slices.Contains(available, d) {
			dims = append(dims, d)
		}
	}
	if len(dims) > 0 {
		sel.RowDims = dims
	}
	return sel
}

// Generate builds a pivot table for the given selections and persists them
// so the next session starts where this one left off. A failed save is
// logged but does not fail the build.
func (a *Analyzer) Generate(ctx context.Context, sel settings.Settings) (*pivot.Table, error) {
	_, span := observability.StartSpan(ctx, "pivot.generate")
	defer span.Finish()

	start := time.Now()
	table, err := pivot.Build(a.data, sel.Request())
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	if err := a.store.Save(sel); err != nil {
		a.logger.Warn("failed to persist selections", "error", err)
	}

	a.logger.Info("pivot generated",
		"dimensions", sel.RowDims,
		"groups", len(table.Rows),
		"duration", time.Since(start))

	return table, nil
}

// Export builds a pivot table for the given selections and writes it as an
// Excel workbook under the export directory, returning the written path.
// The export is rebuilt from the selections each time, so it never depends
// on a previously generated table.
func (a *Analyzer) Export(ctx context.Context, sel settings.Settings) (string, error) {
	_, span := observability.StartSpan(ctx, "pivot.export")
	defer span.Finish()

	table, err := pivot.Build(a.data, sel.Request())
	if err != nil {
		span.SetError(err)
		return "", err
	}

	if err := os.MkdirAll(a.exports, 0o755); err != nil {
		span.SetError(err)
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(a.exports, export.Filename(time.Now()))
	if err := export.WriteXLSX(path, table); err != nil {
		span.SetError(err)
		return "", fmt.Errorf("write workbook: %w", err)
	}

	a.logger.Info("pivot exported", "path", path, "groups", len(table.Rows))
	return path, nil
}

// Stats reports dataset shape for the admin endpoint.
func (a *Analyzer) Stats() map[string]any {
	return map[string]any{
		"record_count": a.data.Len(),
		"column_count": len(a.data.Columns()),
		"dimensions":   len(a.data.Dimensions()),
		"measures":     len(a.data.Measures()),
		"source_files": a.data.Sources(),
		"loaded_at":    a.data.LoadedAt(),
	}
}
