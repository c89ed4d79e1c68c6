// Package optimizer orchestrates the optimization pipeline: validation,
// cache lookup, rule-based rewriting, provider fan-out, semantic scoring,
// candidate selection, and result assembly.
package optimizer

import (
	"encoding/json"
	"time"
)

// Request is one optimization request. An absent or empty prompt is
// rejected during validation.
type Request struct {
	Prompt  string `json:"prompt"`
	Profile string `json:"profile,omitempty"`
}

// Candidate is one rewriting of the original prompt, either from the local
// rule engine or from a provider adapter.
type Candidate struct {
	Source         string   `json:"source"`
	Prompt         string   `json:"prompt"`
	Tokens         int      `json:"tokens"`
	AppliedRules   []string `json:"applied_rules"`
	SemanticScore  float64  `json:"semantic_score"`
	SemanticPassed bool     `json:"semantic_passed"`
	LatencyMs      int64    `json:"latency_ms,omitempty"`

	// Raw is the provider's opaque response payload. It is kept for
	// debugging but never serialized into results.
	Raw json.RawMessage `json:"-"`
}

// Original describes the incoming prompt.
type Original struct {
	Prompt string `json:"prompt"`
	Tokens int    `json:"tokens"`
}

// Chosen describes the selected candidate and why it won.
type Chosen struct {
	Source        string  `json:"source"`
	Prompt        string  `json:"prompt"`
	Tokens        int     `json:"tokens"`
	Reason        string  `json:"reason"`
	SemanticScore float64 `json:"semantic_score"`
}

// JSONEnvelope is the structured JSON rendering of the chosen prompt.
type JSONEnvelope struct {
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	Length    int       `json:"length"`
	Timestamp time.Time `json:"timestamp"`
}

// Structured carries the chosen prompt in machine-consumable dialects.
type Structured struct {
	JSON JSONEnvelope `json:"json"`
	XML  string       `json:"xml"`
}

// Metrics summarizes the cost and savings of one optimization.
type Metrics struct {
	TokensSavedPct float64 `json:"tokens_saved_pct"`
	TimeMs         int64   `json:"time_ms"`
	LLMCalls       int     `json:"llm_calls"`
	ClarityScore   float64 `json:"clarity_score"`
}

// Provenance records which sources contributed and what each did. RuleTrace
// maps the local source to its applied rule IDs and each adapter to its
// outcome ("success", "failed", or "skipped").
type Provenance struct {
	SourcesUsed []string       `json:"sources_used"`
	RuleTrace   map[string]any `json:"rule_trace"`
}

// Result is the full optimization outcome.
type Result struct {
	Original   Original    `json:"original"`
	Optimized  []Candidate `json:"optimized"`
	Chosen     Chosen      `json:"chosen"`
	Structured Structured  `json:"structured"`
	Metrics    Metrics     `json:"metrics"`
	Provenance Provenance  `json:"provenance"`
	Cached     bool        `json:"cached,omitempty"`
}
