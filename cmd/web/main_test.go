package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AMANSINGH8797/retail-pivot/internal/dataset"
	"github.com/AMANSINGH8797/retail-pivot/internal/server"
	"github.com/AMANSINGH8797/retail-pivot/internal/services"
	"github.com/AMANSINGH8797/retail-pivot/internal/settings"
)

const validPivotBody = `{"rowDims":["CATEGORY"],"saleQty":"NSQTY","saleAmt":"NSAMT"}`

func newTestServer(t *testing.T) *server.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	table := dataset.New(
		[]string{"CATEGORY", "NSQTY", "NSAMT"},
		[][]string{
			{"A", "10", "100"},
			{"A", "5", "50"},
			{"B", "20", "300"},
		},
	)
	dir := t.TempDir()
	store := settings.NewStore(filepath.Join(dir, "settings.json"))
	analyzer := services.NewAnalyzer(table, store, filepath.Join(dir, "exports"), logger)

	templateHandlers := &server.TemplateHandlers{
		Dashboard: dashboardHandler(analyzer, logger),
	}
	return server.NewServer(analyzer, logger, templateHandlers)
}

// Integration tests for HTTP routes
func TestServer_Routes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		path           string
		expectedStatus int
		contentType    string
	}{
		{"/", http.StatusOK, "text/html"},
		{"/health", http.StatusOK, "application/json"},
		{"/admin/stats", http.StatusOK, "application/json"},
		{"/api/columns", http.StatusOK, "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest("GET", tt.path, nil)

			srv.ServeHTTP(w, r)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}

			ct := w.Header().Get("Content-Type")
			if !strings.Contains(ct, tt.contentType) {
				t.Errorf("content-type = %q, want %q", ct, tt.contentType)
			}

			if tt.contentType == "application/json" {
				var result any
				if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
					t.Errorf("invalid json: %v", err)
				}
			}
		})
	}
}

// Test a pivot request through the full route table
func TestServer_PivotEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/pivot", strings.NewReader(validPivotBody))
	r.Header.Set("Content-Type", "application/json")
	srv.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %s", w.Code, http.StatusOK, w.Body.String())
	}

	var response map[string]any
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	if success, ok := response["success"].(bool); !ok || !success {
		t.Error("expected success=true in response")
	}

	data, ok := response["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object in response")
	}

	rows, ok := data["rows"].([]any)
	if !ok {
		t.Fatalf("expected rows array in response")
	}
	if len(rows) != 3 {
		t.Errorf("expected 3 rows (two groups and the grand total), got %d", len(rows))
	}

	last, ok := rows[len(rows)-1].(map[string]any)
	if !ok {
		t.Fatalf("invalid row structure")
	}
	if last["Row"] != "Grand Total" {
		t.Errorf("expected final row to be the grand total, got %v", last["Row"])
	}
}

// Test Server-Sent Events routes
func TestServer_SSERoutes(t *testing.T) {
	srv := newTestServer(t)

	sseRoutes := []string{
		"/sse/generate",
		"/sse/export",
	}

	for _, route := range sseRoutes {
		t.Run(route, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest("POST", route, strings.NewReader(validPivotBody))
			r.Header.Set("Content-Type", "application/json")

			srv.ServeHTTP(w, r)

			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
			}

			if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
				t.Errorf("content-type = %q, should contain 'text/event-stream'", ct)
			}

			if cc := w.Header().Get("Cache-Control"); !strings.Contains(cc, "no-cache") {
				t.Errorf("cache-control = %q, want 'no-cache'", cc)
			}

			if !strings.Contains(w.Body.String(), "event:") {
				t.Error("expected at least one SSE event in the body")
			}
		})
	}
}

// Test error handling for invalid methods
func TestServer_ErrorHandling(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{"POST", "/health", http.StatusMethodNotAllowed},
		{"POST", "/api/columns", http.StatusMethodNotAllowed},
		{"PUT", "/", http.StatusMethodNotAllowed},
		{"DELETE", "/api/columns", http.StatusMethodNotAllowed},
		{"PATCH", "/api/export", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(tt.method, tt.path, nil)

			srv.ServeHTTP(w, r)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}

// Test dashboard rendering through the page handler
func TestDashboardHandler(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)
	srv.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	if cc := w.Header().Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("cache-control = %q, want 'no-cache'", cc)
	}

	body := w.Body.String()
	if !strings.Contains(body, "Retail Pivot Analyzer") {
		t.Error("dashboard should contain title")
	}

	expectedComponents := []string{
		"data-signals",
		`<option value="CATEGORY">CATEGORY</option>`,
		`<option value="NSQTY">NSQTY</option>`,
		"Generate Pivot",
		"Export Excel",
		`id="pivot-content"`,
	}

	for _, component := range expectedComponents {
		if !strings.Contains(body, component) {
			t.Errorf("dashboard should contain %q", component)
		}
	}
}
