package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func testGateway(t *testing.T, baseURL string) *Gateway {
	t.Helper()
	g, err := NewGateway(GatewayConfig{
		Name:       "groq",
		Type:       "openai",
		BaseURL:    baseURL,
		APIKey:     "test-key",
		Model:      "llama3-70b-8192",
		Timeout:    2 * time.Second,
		MaxRetries: 3,
	})
	if err != nil {
		t.Fatalf("NewGateway() error: %v", err)
	}
	g.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return g
}

func TestGatewayCallSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing auth header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"content": "Act as: tutor"}}],
			"usage": {"completion_tokens": 4}
		}`))
	}))
	defer server.Close()

	g := testGateway(t, server.URL)
	res := g.Call(context.Background(), "please act as a tutor", CallOptions{})

	if !res.Ok {
		t.Fatalf("Call() not ok: %+v", res)
	}
	if res.Text != "Act as: tutor" {
		t.Errorf("Text = %q", res.Text)
	}
	if res.Tokens != 4 {
		t.Errorf("Tokens = %d, want native 4", res.Tokens)
	}
	if res.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", res.Attempts)
	}
	if len(res.Raw) == 0 {
		t.Errorf("Raw payload not captured")
	}
}

func TestGatewayEstimatesTokensWithoutUsage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "three short words"}}]}`))
	}))
	defer server.Close()

	g := testGateway(t, server.URL)
	res := g.Call(context.Background(), "anything", CallOptions{})

	if !res.Ok {
		t.Fatalf("Call() not ok: %+v", res)
	}
	// ceil(3 / 0.75) = 4
	if res.Tokens != 4 {
		t.Errorf("Tokens = %d, want estimated 4", res.Tokens)
	}
}

func TestGatewayRetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	g := testGateway(t, server.URL)
	res := g.Call(context.Background(), "prompt", CallOptions{})

	if res.Ok {
		t.Fatalf("Call() should fail: %+v", res)
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("server saw %d attempts, want 3", got)
	}
	if res.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", res.Attempts)
	}
}

func TestGatewayRetriesRateLimit(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 2 {
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "ok"}}]}`))
	}))
	defer server.Close()

	g := testGateway(t, server.URL)
	res := g.Call(context.Background(), "prompt", CallOptions{})

	if !res.Ok {
		t.Fatalf("Call() should succeed after retry: %+v", res)
	}
	if res.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", res.Attempts)
	}
}

func TestGatewayDoesNotRetryClientErrors(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	g := testGateway(t, server.URL)
	res := g.Call(context.Background(), "prompt", CallOptions{})

	if res.Ok {
		t.Fatalf("Call() should fail: %+v", res)
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("server saw %d attempts, want 1 (no retry on 4xx)", got)
	}
}

func TestGatewayMockMode(t *testing.T) {
	g, err := NewGateway(GatewayConfig{
		Name:     "gemini",
		Type:     "gemini",
		Model:    "gemini-1.5-flash",
		MockMode: true,
	})
	if err != nil {
		t.Fatalf("NewGateway() error: %v", err)
	}

	res := g.Call(context.Background(), "please optimize this prompt for me", CallOptions{})

	if !res.Ok {
		t.Fatalf("mock call not ok: %+v", res)
	}
	if !strings.HasPrefix(res.Text, "[MOCK] Optimized: ") {
		t.Errorf("Text = %q", res.Text)
	}
	if res.Tokens <= 0 {
		t.Errorf("Tokens = %d, want > 0", res.Tokens)
	}

	// Mock mode is deterministic.
	again := g.Call(context.Background(), "please optimize this prompt for me", CallOptions{})
	if again.Text != res.Text {
		t.Errorf("mock text not deterministic: %q vs %q", again.Text, res.Text)
	}
}

func TestBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{attempt: 1, want: time.Second},
		{attempt: 2, want: 2 * time.Second},
		{attempt: 3, want: 4 * time.Second},
		{attempt: 4, want: 8 * time.Second},
		{attempt: 5, want: 10 * time.Second},
		{attempt: 10, want: 10 * time.Second},
	}

	for _, tt := range tests {
		if got := Backoff(tt.attempt); got != tt.want {
			t.Errorf("Backoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestNewGatewayValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  GatewayConfig
	}{
		{name: "missing name", cfg: GatewayConfig{Type: "openai", BaseURL: "http://x"}},
		{name: "unknown type", cfg: GatewayConfig{Name: "p", Type: "nope", BaseURL: "http://x"}},
		{name: "missing base url", cfg: GatewayConfig{Name: "p", Type: "openai"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewGateway(tt.cfg); err == nil {
				t.Errorf("NewGateway(%+v) expected error", tt.cfg)
			}
		})
	}
}
