package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/promptpress/promptpress/pkg/config"
	"github.com/promptpress/promptpress/pkg/metrics"
	"github.com/promptpress/promptpress/pkg/optimizer"
	"github.com/promptpress/promptpress/pkg/rules"
	"github.com/promptpress/promptpress/pkg/semantic"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	journal, err := metrics.NewFileJournal(filepath.Join(t.TempDir(), "metrics.jsonl"))
	if err != nil {
		t.Fatalf("NewFileJournal() error: %v", err)
	}
	t.Cleanup(func() { journal.Close() })
	collector := metrics.NewCollector(journal)

	pipeline, err := optimizer.NewPipeline(optimizer.Options{
		Rules:     rules.NewEngine(),
		Validator: semantic.NewValidator(semantic.DefaultThreshold, nil),
		Collector: collector,
	})
	if err != nil {
		t.Fatalf("NewPipeline() error: %v", err)
	}

	cfg := config.ServerConfig{ListenAddress: "127.0.0.1:0"}
	return NewServer(cfg, pipeline, collector, metrics.NewPrometheus())
}

func postOptimize(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/optimize", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestOptimizeEndpoint(t *testing.T) {
	handler := testServer(t).Handler()

	rec := postOptimize(t, handler, `{"prompt": "please summarize the quarterly report"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result optimizer.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("response not valid JSON: %v", err)
	}
	if result.Original.Prompt != "please summarize the quarterly report" {
		t.Errorf("Original.Prompt = %q", result.Original.Prompt)
	}
	if result.Chosen.Prompt == "" {
		t.Errorf("Chosen.Prompt empty")
	}
	if len(result.Optimized) == 0 {
		t.Errorf("no candidates in response")
	}

	if rec.Header().Get(RequestIDHeader) == "" {
		t.Errorf("response missing %s header", RequestIDHeader)
	}
}

func TestOptimizeEndpointValidation(t *testing.T) {
	handler := testServer(t).Handler()

	tests := []struct {
		name    string
		body    string
		details string
	}{
		{name: "missing prompt", body: `{}`, details: "Missing 'prompt' field in request body."},
		{name: "empty body", body: ``, details: "Missing 'prompt' field in request body."},
		{name: "whitespace prompt", body: `{"prompt": "   "}`, details: "Prompt cannot be empty."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postOptimize(t, handler, tt.body)
			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d, want 500", rec.Code)
			}

			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("response not valid JSON: %v", err)
			}
			if resp.Error != "Internal Server Error" {
				t.Errorf("error = %q", resp.Error)
			}
			if resp.Details != tt.details {
				t.Errorf("details = %q, want %q", resp.Details, tt.details)
			}
		})
	}
}

func TestEndpointMethodNotAllowed(t *testing.T) {
	handler := testServer(t).Handler()

	tests := []struct {
		method string
		path   string
	}{
		{method: http.MethodGet, path: "/api/optimize"},
		{method: http.MethodPost, path: "/metrics"},
		{method: http.MethodPost, path: "/healthz"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s status = %d, want 405", tt.method, tt.path, rec.Code)
		}
	}
}

func TestHealthzEndpoint(t *testing.T) {
	handler := testServer(t).Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response not valid JSON: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
	if resp.Uptime < 0 {
		t.Errorf("uptime = %v", resp.Uptime)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	handler := testServer(t).Handler()

	// One success and one validation failure feed the aggregate.
	postOptimize(t, handler, `{"prompt": "please summarize the quarterly report"}`)
	postOptimize(t, handler, `{"prompt": "  "}`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var summary metrics.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("response not valid JSON: %v", err)
	}
	if summary.TotalRequests != 1 {
		t.Errorf("TotalRequests = %d, want 1", summary.TotalRequests)
	}
	if summary.TotalErrors != 1 {
		t.Errorf("TotalErrors = %d, want 1", summary.TotalErrors)
	}
}

func TestPrometheusEndpoint(t *testing.T) {
	handler := testServer(t).Handler()

	req := httptest.NewRequest(http.MethodGet, "/metrics/prometheus", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Errorf("exposition output missing runtime metrics")
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := testServer(t).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/optimize", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Errorf("missing CORS headers")
	}
}
