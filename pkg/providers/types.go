package providers

import (
	"encoding/json"
	"time"
)

// CallOptions carries the per-request generation parameters forwarded to a
// provider. Zero values fall back to provider defaults.
type CallOptions struct {
	// Temperature controls randomness (0.0 to 1.0). Default 0.7.
	Temperature float64

	// MaxTokens caps the generated output length. Default 1000.
	MaxTokens int

	// TopP controls nucleus sampling. Default 0.9.
	TopP float64
}

// CallResult is the settled outcome of one gateway call. A gateway never
// returns an error past its own boundary: exhausted failures yield Ok=false
// with the diagnostic payload in Raw.
type CallResult struct {
	// Ok reports whether the call produced usable text.
	Ok bool

	// Text is the provider's rewritten prompt, trimmed. Empty on failure.
	Text string

	// Tokens is the provider-reported completion token count, or the
	// word-count estimate when the provider reports no native usage.
	Tokens int

	// LatencyMs is the wall-clock duration of the whole call including
	// retries and backoff.
	LatencyMs int64

	// Attempts is the number of attempts actually made.
	Attempts int

	// Raw is the last provider payload (response body on success, error
	// detail on failure). Diagnostic only; never rendered to clients.
	Raw json.RawMessage
}

// GatewayConfig configures one provider gateway instance.
type GatewayConfig struct {
	// Name identifies the gateway in candidates and provenance
	// (e.g. "gemini", "groq", "ollama").
	Name string

	// Type selects the request dialect: "gemini", "openai", or "ollama".
	Type string

	// BaseURL is the provider API base URL.
	BaseURL string

	// APIKey authenticates requests. May be empty for local providers.
	APIKey string

	// Model is the model identifier sent to the provider.
	Model string

	// Timeout bounds a single attempt, not the whole retry loop.
	// Default 30s.
	Timeout time.Duration

	// MaxRetries is the total number of attempts. Default 3.
	MaxRetries int

	// MockMode short-circuits network calls with a deterministic synthetic
	// response.
	MockMode bool
}

const (
	// DefaultTimeout is the per-attempt network timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the total attempt budget per call.
	DefaultMaxRetries = 3

	// maxBackoff caps the delay between attempts.
	maxBackoff = 10 * time.Second
)

// systemPrompt is the framing instruction sent to chat-style providers.
const systemPrompt = "You are a prompt optimization expert. Rewrite prompts to be concise and " +
	"efficient while preserving meaning. Remove unnecessary words and redundancy. " +
	"Output ONLY the optimized prompt."
