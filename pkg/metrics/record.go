// Package metrics implements the append-only request journal and its
// aggregation, plus Prometheus exposition for operational monitoring.
package metrics

import (
	"time"

	"github.com/google/uuid"
)

// Record kinds.
const (
	KindRequest = "request"
	KindError   = "error"
)

// Record is one journal entry. Request records carry the optimization
// outcome fields; error records carry the failure classification.
type Record struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`

	TimeMs         int64   `json:"time_ms,omitempty"`
	LLMCalls       int     `json:"llm_calls,omitempty"`
	TokensSavedPct float64 `json:"tokens_saved_pct,omitempty"`
	ChosenSource   string  `json:"chosen_source,omitempty"`
	SemanticScore  float64 `json:"semantic_score,omitempty"`
	PromptLength   int     `json:"prompt_length,omitempty"`

	ErrorType    string `json:"error_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// NewRequestRecord creates a request record with a fresh ID and timestamp.
func NewRequestRecord() Record {
	return Record{
		ID:        uuid.NewString(),
		Kind:      KindRequest,
		Timestamp: time.Now().UTC(),
	}
}

// NewErrorRecord creates an error record with a fresh ID and timestamp.
func NewErrorRecord(errorType, message string) Record {
	return Record{
		ID:           uuid.NewString(),
		Kind:         KindError,
		Timestamp:    time.Now().UTC(),
		ErrorType:    errorType,
		ErrorMessage: message,
	}
}
