package handlers

import (
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/AMANSINGH8797/retail-pivot/internal/pivot"
	"github.com/AMANSINGH8797/retail-pivot/internal/services"
)

var pivotTableTemplate = template.Must(template.New("pivotTable").Parse(`
<div id="pivot-content">
<table class="pivot-table">
<thead><tr>
{{range .Headers}}<th>{{.Title}}{{if .Caption}}<span class="header-caption">{{.Caption}}</span>{{end}}</th>{{end}}
</tr></thead>
<tbody>
{{range $i, $row := .Rows}}<tr{{if eq $i $.LastRow}} class="grand-total"{{end}}>
{{range $j, $h := $.Headers}}{{if eq $j 0}}<td class="row-label">{{index $row $h.Key}}</td>{{else}}<td class="num">{{index $row $h.Key}}</td>{{end}}{{end}}
</tr>{{end}}
</tbody>
</table>
</div>`))

type SSEHandlers struct {
	analyzer *services.Analyzer
	logger   *slog.Logger
}

func NewSSEHandlers(analyzer *services.Analyzer, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analyzer: analyzer,
		logger:   logger,
	}
}

type pivotTableData struct {
	Headers []pivot.Header
	Rows    []map[string]string
	LastRow int
}

func (h *SSEHandlers) renderPivotTable(t *pivot.Table, caption string) (string, error) {
	headers, rows := t.Render(caption)

	var buf strings.Builder
	err := pivotTableTemplate.Execute(&buf, pivotTableData{
		Headers: headers,
		Rows:    rows,
		LastRow: len(rows) - 1,
	})
	return buf.String(), err
}

// HandleGenerate reads the dashboard signals, builds the pivot and patches
// the table fragment into the page.
func (h *SSEHandlers) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	var signals pivotSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		h.logger.Error("read signals", "error", err)
		h.patchNotice(sse, "Could not read the pivot selections.")
		return
	}

	table, err := h.analyzer.Generate(r.Context(), signals.selections())
	if err != nil {
		if errors.Is(err, pivot.ErrNoDimensions) {
			h.patchNotice(sse, "Select at least one row dimension, then generate again.")
			return
		}
		h.logger.Error("generate pivot", "error", err)
		h.patchNotice(sse, "Pivot generation failed: "+err.Error())
		return
	}

	html, err := h.renderPivotTable(table, signals.DateCaption)
	if err != nil {
		h.logger.Error("render pivot table", "error", err)
		return
	}
	sse.PatchElements(html)

	status, err := json.Marshal(map[string]any{
		"groups":      len(table.Rows),
		"generatedAt": time.Now().Format("15:04:05"),
	})
	if err != nil {
		h.logger.Error("marshal status signals", "error", err)
		return
	}
	sse.PatchSignals(status)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// HandleExport reads the dashboard signals, writes the workbook and
// reports the saved path through the exportMsg signal.
func (h *SSEHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	var signals pivotSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		h.logger.Error("read signals", "error", err)
		h.patchExportMsg(sse, "Could not read the pivot selections.")
		return
	}

	path, err := h.analyzer.Export(r.Context(), signals.selections())
	if err != nil {
		if errors.Is(err, pivot.ErrNoDimensions) {
			h.patchExportMsg(sse, "Select at least one row dimension before exporting.")
			return
		}
		h.logger.Error("export pivot", "error", err)
		h.patchExportMsg(sse, "Export failed: "+err.Error())
		return
	}

	h.patchExportMsg(sse, "Saved "+path)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) patchNotice(sse *datastar.ServerSentEventGenerator, msg string) {
	sse.PatchElements(`<div id="pivot-content"><div class="notice">` + template.HTMLEscapeString(msg) + `</div></div>`)
}

func (h *SSEHandlers) patchExportMsg(sse *datastar.ServerSentEventGenerator, msg string) {
	payload, err := json.Marshal(map[string]string{"exportMsg": msg})
	if err != nil {
		h.logger.Error("marshal export message", "error", err)
		return
	}
	sse.PatchSignals(payload)
}
