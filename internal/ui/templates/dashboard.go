// Package templates renders the dashboard shell. The page is served once on
// "GET /"; everything after that arrives as datastar SSE patches targeting
// #pivot-content and the signal store seeded here.
package templates

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

// Data carries everything the dashboard needs at first paint.
type Data struct {
	// Dimensions and Measures fill the column pickers.
	Dimensions []string
	Measures   []string
	// Signals is the JSON blob seeding the datastar signal store, typically
	// built with handlers.DashboardSignals.
	Signals string
}

// measureControl pairs a picker label with its datastar binding attribute.
// The attributes are compile-time constants, so emitting them unescaped via
// template.HTMLAttr is safe.
type measureControl struct {
	Label string
	Attr  template.HTMLAttr
}

var measureControls = []measureControl{
	{"Opening Qty", "data-bind-open-qty"},
	{"Net Sale Qty", "data-bind-sale-qty"},
	{"Net Sale Amt", "data-bind-sale-amt"},
	{"Net Margin Amt", "data-bind-margin-amt"},
	{"Purchase Stock Qty", "data-bind-pur-qty"},
	{"Purchase Return Qty", "data-bind-pr-qty"},
	{"Closing Stock Qty", "data-bind-close-qty"},
	{"Daily Avg Net Sale Qty", "data-bind-davg-qty"},
}

type pageData struct {
	Data
	Controls []measureControl
}

// Dashboard returns the full dashboard page as a renderable component.
func Dashboard(d Data) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return page.Execute(w, pageData{Data: d, Controls: measureControls})
	})
}

var page = template.Must(template.New("dashboard").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Retail Pivot Analyzer</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"></script>
<style>
* { box-sizing: border-box; }
body { margin: 0; font: 14px/1.45 system-ui, sans-serif; color: #1d2430; background: #f6f8fb; }
header { padding: 14px 20px; background: #fff; border-bottom: 1px solid #dde3ec; }
header h1 { margin: 0; font-size: 19px; }
header .hint { margin: 4px 0 0; color: #5b6574; font-size: 13px; }
main { display: flex; gap: 16px; padding: 16px 20px; align-items: flex-start; }
.controls { flex: 0 0 340px; background: #fff; border: 1px solid #dde3ec; border-radius: 6px; padding: 14px; }
.controls h2 { margin: 0 0 8px; font-size: 13px; text-transform: uppercase; letter-spacing: .04em; color: #5b6574; }
.controls section + section { margin-top: 16px; border-top: 1px solid #eef1f6; padding-top: 14px; }
.controls label { display: block; margin-bottom: 8px; font-size: 12px; color: #3c4452; }
.controls select, .controls input { width: 100%; margin-top: 2px; padding: 5px 6px; font-size: 13px; border: 1px solid #c6cfdc; border-radius: 4px; background: #fff; }
.controls select[multiple] { height: 180px; }
.actions { margin-top: 16px; display: flex; gap: 8px; }
.actions button { padding: 7px 14px; font-size: 13px; border: 1px solid #c6cfdc; border-radius: 4px; background: #fff; cursor: pointer; }
.actions button.primary { background: #2d5bd7; border-color: #2d5bd7; color: #fff; }
.export-msg { margin-top: 10px; font-size: 13px; color: #1a7f37; min-height: 1.2em; }
.results { flex: 1; min-width: 0; }
.status { margin-bottom: 10px; font-size: 13px; color: #5b6574; }
.status span + span { margin-left: 10px; }
#pivot-content { background: #fff; border: 1px solid #dde3ec; border-radius: 6px; padding: 12px; overflow-x: auto; }
.notice { padding: 24px; text-align: center; color: #5b6574; }
table.pivot-table { border-collapse: collapse; width: 100%; font-size: 13px; }
.pivot-table th, .pivot-table td { border: 1px solid #dde3ec; padding: 6px 9px; }
.pivot-table th { background: #eef3ff; font-weight: 600; text-align: center; white-space: normal; }
.pivot-table .header-caption { display: block; font-weight: 400; font-size: 11px; color: #5b6574; }
.pivot-table td.num { text-align: right; white-space: nowrap; font-variant-numeric: tabular-nums; }
.pivot-table td.row-label { text-align: left; }
.pivot-table tr.grand-total td { background: #f3f6fc; font-weight: 600; }
</style>
</head>
<body data-signals="{{.Signals}}">
<header>
<h1>Retail Pivot Analyzer</h1>
<p class="hint">Drop CSV files into ./data, map the columns, then generate. Excel export writes to ./exports.</p>
</header>
<main>
<aside class="controls">
<section>
<h2>Row Dimensions</h2>
<select multiple data-bind-row-dims>
{{- range .Dimensions}}
<option value="{{.}}">{{.}}</option>
{{- end}}
</select>
</section>
<section>
<h2>Period Columns</h2>
<label>Year
<select data-bind-year-col>
<option value="">(none)</option>
{{- range .Dimensions}}
<option value="{{.}}">{{.}}</option>
{{- end}}
</select>
</label>
<label>Period Day
<select data-bind-period-col>
<option value="">(none)</option>
{{- range .Measures}}
<option value="{{.}}">{{.}}</option>
{{- end}}
</select>
</label>
<label>Header Date Caption
<input type="text" data-bind-date-caption placeholder="e.g. 22-09-2025 To 02-10-2025">
</label>
</section>
<section>
<h2>Map Measures</h2>
{{- range .Controls}}
<label>{{.Label}}
<select {{.Attr}}>
<option value="">(none)</option>
{{- range $.Measures}}
<option value="{{.}}">{{.}}</option>
{{- end}}
</select>
</label>
{{- end}}
<label>Inventory Days Formula
<select data-bind-inv-days-formula>
<option value="period">Use Period Day column</option>
<option value="computed">Compute: Closing Stock Qty / Daily Avg Net Sale Qty</option>
</select>
</label>
</section>
<div class="actions">
<button class="primary" data-on-click="@post('/sse/generate')">Generate Pivot</button>
<button data-on-click="@post('/sse/export')">Export Excel</button>
</div>
<div class="export-msg" data-text="$exportMsg"></div>
</aside>
<section class="results">
<div class="status" data-show="$generatedAt !== ''" style="display:none">
<span data-text="'Generated at ' + $generatedAt"></span>
<span data-text="$groups + ' groups'"></span>
</div>
<div id="pivot-content">
{{- if .Dimensions}}
<div class="notice">Map the columns on the left, then generate a pivot.</div>
{{- else}}
<div class="notice">No CSV files loaded. Drop .csv files into the data directory and restart the server.</div>
{{- end}}
</div>
</section>
</main>
</body>
</html>
`))
