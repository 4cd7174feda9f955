package pivot

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/AMANSINGH8797/retail-pivot/internal/dataset"
)

const (
	// BlankLabel stands in for a null dimension value in group labels.
	BlankLabel = "(blank)"
	// TotalLabel names the terminal summary row.
	TotalLabel = "Grand Total"

	labelSep = " / "
)

// ErrNoDimensions reports a build request without row dimensions. Callers
// treat it as "nothing to pivot yet", not as a failure.
var ErrNoDimensions = errors.New("no row dimensions selected")

// UnknownColumnError reports a selection naming a column the dataset does
// not have, which happens when saved selections outlive a schema change in
// the CSV drop directory.
type UnknownColumnError struct {
	Role   string
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown %s column %q", e.Role, e.Column)
}

// Request is one pivot build: the grouping dimensions in display order, the
// measure mapping, and the inventory-days derivation.
type Request struct {
	Dimensions    []string
	Measures      Mapping
	InventoryDays InvDaysMode
}

// Row is one group of the pivot with its computed metrics. Metrics holds a
// key per computable metric; individual values may be undefined.
type Row struct {
	Label   string
	Metrics map[string]Value
}

// Table is a built pivot: group rows in first-seen dataset order, a grand
// total computed over the entire dataset, and the fixed column order
// filtered to the metrics that exist. It holds raw values; Render applies
// the display rules.
type Table struct {
	Dims    []string
	Columns []string
	Rows    []Row
	Total   Row
}

// Build groups the dataset by the requested dimensions and computes the
// metrics per group plus the grand total. The grand total always covers the
// whole dataset, so it can legitimately differ from the sum of group cells
// when some group aggregates are undefined.
func Build(data *dataset.Table, req Request) (*Table, error) {
	if len(req.Dimensions) == 0 {
		return nil, ErrNoDimensions
	}
	for _, d := range req.Dimensions {
		if !data.HasColumn(d) {
			return nil, &UnknownColumnError{Role: "dimension", Column: d}
		}
	}
	for _, c := range req.Measures.columns() {
		if !data.HasColumn(c) {
			return nil, &UnknownColumnError{Role: "measure", Column: c}
		}
	}

	groups := make(map[string][]int)
	labels := make(map[string]string)
	order := make([]string, 0)
	for i := 0; i < data.Len(); i++ {
		key, label := groupOf(data, req.Dimensions, i)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
			labels[key] = label
		}
		groups[key] = append(groups[key], i)
	}

	all := make([]int, data.Len())
	for i := range all {
		all[i] = i
	}

	t := &Table{
		Dims: slices.Clone(req.Dimensions),
		Rows: make([]Row, 0, len(order)),
	}
	for _, key := range order {
		t.Rows = append(t.Rows, Row{
			Label:   labels[key],
			Metrics: metricsFor(data, groups[key], req.Measures, req.InventoryDays),
		})
	}
	t.Total = Row{
		Label:   TotalLabel,
		Metrics: metricsFor(data, all, req.Measures, req.InventoryDays),
	}

	t.Columns = append(t.Columns, ColRow)
	for _, c := range MetricOrder {
		if t.hasMetric(c) {
			t.Columns = append(t.Columns, c)
		}
	}
	return t, nil
}

func (t *Table) hasMetric(name string) bool {
	if _, ok := t.Total.Metrics[name]; ok {
		return true
	}
	for _, r := range t.Rows {
		if _, ok := r.Metrics[name]; ok {
			return true
		}
	}
	return false
}

// groupOf derives the map key and display label for one dataset row. The
// key keeps a null cell distinct from every literal value, including the
// literal string "(blank)".
func groupOf(t *dataset.Table, dims []string, i int) (key, label string) {
	var kb, lb strings.Builder
	for n, d := range dims {
		if n > 0 {
			kb.WriteByte(0x1f)
			lb.WriteString(labelSep)
		}
		if v, ok := t.Cell(d, i); ok {
			kb.WriteByte(0x01)
			kb.WriteString(v)
			lb.WriteString(v)
		} else {
			kb.WriteByte(0x00)
			lb.WriteString(BlankLabel)
		}
	}
	return kb.String(), lb.String()
}

// Records flattens the pivot for export: one map per row with the label and
// raw numeric values, nil when a metric is undefined. The grand total row
// comes last.
func (t *Table) Records() []map[string]any {
	out := make([]map[string]any, 0, len(t.Rows)+1)
	for _, r := range t.Rows {
		out = append(out, t.record(r))
	}
	out = append(out, t.record(t.Total))
	return out
}

func (t *Table) record(r Row) map[string]any {
	rec := make(map[string]any, len(t.Columns))
	rec[ColRow] = r.Label
	for _, c := range t.Columns[1:] {
		if v, ok := r.Metrics[c]; ok && v.Valid {
			rec[c] = v.Float
		} else {
			rec[c] = nil
		}
	}
	return rec
}

// Header is a rendered column with its optional second caption line.
type Header struct {
	Key     string `json:"key"`
	Title   string `json:"title"`
	Caption string `json:"caption,omitempty"`
}

// Render formats the pivot for display. The label column titles itself with
// the joined dimension names, metric columns carry the period caption as a
// second header line, and cells go through the per-column formatting rules.
func (t *Table) Render(caption string) ([]Header, []map[string]string) {
	headers := make([]Header, 0, len(t.Columns))
	for _, c := range t.Columns {
		h := Header{Key: c, Title: c}
		if c == ColRow {
			h.Title = strings.Join(t.Dims, labelSep)
		} else {
			h.Caption = caption
		}
		headers = append(headers, h)
	}

	rows := make([]map[string]string, 0, len(t.Rows)+1)
	for _, r := range t.Rows {
		rows = append(rows, t.display(r))
	}
	rows = append(rows, t.display(t.Total))
	return headers, rows
}

func (t *Table) display(r Row) map[string]string {
	out := make(map[string]string, len(t.Columns))
	out[ColRow] = r.Label
	for _, c := range t.Columns[1:] {
		out[c] = FormatCell(c, r.Metrics[c])
	}
	return out
}
