// Package providers implements the per-provider adapter gateways.
//
// A Gateway wraps one configured text-generation provider with per-attempt
// timeouts, retry with exponential backoff, failure classification, redacted
// attempt logging, and a deterministic mock mode. Provider wire formats are
// factored into Dialect implementations (gemini, openai-compatible, ollama)
// so the retry machinery exists exactly once.
package providers
