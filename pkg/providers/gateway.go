package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/promptpress/promptpress/pkg/tokens"
)

// Gateway is a retrying HTTP adapter around one configured provider.
// Call never returns an error: every failure mode settles into a CallResult
// with Ok=false so the orchestrator can always join a complete outcome set.
type Gateway struct {
	config  GatewayConfig
	dialect Dialect
	client  *http.Client
	logger  *slog.Logger

	// sleep is swapped out by tests to avoid real backoff delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewGateway creates a gateway for the given configuration.
func NewGateway(cfg GatewayConfig) (*Gateway, error) {
	if cfg.Name == "" {
		return nil, &ConfigError{Provider: cfg.Name, Field: "name", Message: "must not be empty"}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}

	dialect, err := NewDialect(cfg.Type)
	if err != nil {
		return nil, &ConfigError{Provider: cfg.Name, Field: "type", Message: err.Error()}
	}
	if !cfg.MockMode && cfg.BaseURL == "" {
		return nil, &ConfigError{Provider: cfg.Name, Field: "base_url", Message: "must not be empty"}
	}

	return &Gateway{
		config:  cfg,
		dialect: dialect,
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				ForceAttemptHTTP2:   true,
			},
		},
		logger: slog.Default().With("component", "gateway", "provider", cfg.Name),
		sleep:  sleepContext,
	}, nil
}

// Name returns the gateway's configured provider name.
func (g *Gateway) Name() string {
	return g.config.Name
}

// Config returns the gateway's configuration.
func (g *Gateway) Config() GatewayConfig {
	return g.config
}

// Call sends the prompt to the provider, retrying transient failures with
// exponential backoff. Attempts are capped at MaxRetries; each attempt has
// its own timeout. Connection errors, timeouts, and HTTP 5xx/429 are
// retryable; other 4xx responses fail immediately.
func (g *Gateway) Call(ctx context.Context, prompt string, opts CallOptions) CallResult {
	start := time.Now()

	if g.config.MockMode {
		return g.mockResult(prompt, start)
	}

	url, body, headers, err := g.dialect.BuildRequest(g.config, prompt, opts)
	if err != nil {
		return g.failure(prompt, err, 0, start)
	}

	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= g.config.MaxRetries; attempt++ {
		attempts = attempt
		text, nativeTokens, raw, err := g.attempt(ctx, url, body, headers)
		if err == nil {
			latency := time.Since(start)
			g.logAttempt(prompt, len(text), latency, attempt, false)

			count := nativeTokens
			if count == 0 {
				count = tokens.Estimate(text)
			}
			return CallResult{
				Ok:        true,
				Text:      text,
				Tokens:    count,
				LatencyMs: latency.Milliseconds(),
				Attempts:  attempt,
				Raw:       raw,
			}
		}

		lastErr = err
		if !retryable(err) || attempt == g.config.MaxRetries {
			break
		}

		delay := Backoff(attempt)
		g.logger.Debug("retrying provider call",
			"attempt", attempt,
			"max_retries", g.config.MaxRetries,
			"backoff", delay,
			"error", err,
		)
		if err := g.sleep(ctx, delay); err != nil {
			lastErr = err
			break
		}
	}

	return g.failure(prompt, lastErr, attempts, start)
}

// attempt performs one HTTP round trip with its own timeout.
func (g *Gateway) attempt(ctx context.Context, url string, body []byte, headers map[string]string) (string, int, json.RawMessage, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			return "", 0, nil, &TimeoutError{Provider: g.config.Name, Timeout: g.config.Timeout}
		}
		return "", 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, nil, &ParseError{Provider: g.config.Name, Cause: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", 0, nil, &ProviderError{
			Provider:   g.config.Name,
			StatusCode: resp.StatusCode,
			Message:    truncate(string(respBody), 200),
		}
	}

	text, nativeTokens, err := g.dialect.ParseResponse(respBody)
	if err != nil {
		return "", 0, nil, &ParseError{Provider: g.config.Name, Cause: err}
	}

	return text, nativeTokens, json.RawMessage(respBody), nil
}

// mockResult returns a deterministic synthetic response for testing without
// network dependency.
func (g *Gateway) mockResult(prompt string, start time.Time) CallResult {
	text := fmt.Sprintf("[MOCK] Optimized: %s", truncate(prompt, 50))
	latency := time.Since(start)
	g.logAttempt(prompt, len(text), latency, 1, true)

	raw, _ := json.Marshal(map[string]bool{"mock": true})
	return CallResult{
		Ok:        true,
		Text:      text,
		Tokens:    tokens.Estimate(text),
		LatencyMs: latency.Milliseconds(),
		Attempts:  1,
		Raw:       raw,
	}
}

// failure settles the call as Ok=false with the error detail in Raw.
func (g *Gateway) failure(prompt string, err error, attempts int, start time.Time) CallResult {
	latency := time.Since(start)

	message := "unknown error"
	if err != nil {
		message = err.Error()
	}
	g.logger.Warn("provider call failed",
		"error", message,
		"attempts", attempts,
		"latency_ms", latency.Milliseconds(),
		"prompt_length", len(prompt),
	)

	raw, _ := json.Marshal(map[string]string{"error": message})
	return CallResult{
		Ok:        false,
		LatencyMs: latency.Milliseconds(),
		Attempts:  attempts,
		Raw:       raw,
	}
}

// logAttempt emits the redacted per-attempt record: a truncated prompt
// preview and lengths only, never the full payload.
func (g *Gateway) logAttempt(prompt string, responseLength int, latency time.Duration, attempt int, mock bool) {
	g.logger.Info("provider call completed",
		"attempt", attempt,
		"latency_ms", latency.Milliseconds(),
		"mock", mock,
		"prompt_length", len(prompt),
		"response_length", responseLength,
		"prompt_preview", truncate(prompt, 100),
	)
}

// Backoff returns the delay before the attempt following the given one:
// min(1s * 2^(attempt-1), 10s).
func Backoff(attempt int) time.Duration {
	delay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
	if delay > maxBackoff {
		return maxBackoff
	}
	return delay
}

// retryable classifies an attempt error. Connection errors and timeouts are
// transient; HTTP errors delegate to the status-code classification.
func retryable(err error) bool {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Retryable()
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		// A well-formed HTTP exchange with a malformed body will not heal
		// on retry.
		return false
	}
	return true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
