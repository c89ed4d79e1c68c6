// Package semantic scores how closely a rewritten candidate preserves the
// meaning of the original prompt. The cheap local signal is token-set Jaccard
// similarity; an optional embeddings service can supply a cosine score that
// supersedes Jaccard for the pass decision. The validator never fails a
// request: any external error falls back to the Jaccard-only decision.
package semantic

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"sync"
)

// DefaultThreshold is the minimum similarity for a candidate to pass.
const DefaultThreshold = 0.7

// Score is the outcome of validating one candidate against the original.
type Score struct {
	// Jaccard is the word-set similarity, rounded to 3 decimals.
	Jaccard float64 `json:"jaccard"`

	// Cosine is the embeddings-service similarity, 0 when unavailable.
	Cosine float64 `json:"cosine"`

	// Passed reports whether the candidate met the threshold.
	Passed bool `json:"passed"`

	// Threshold is the threshold the decision was made against.
	Threshold float64 `json:"threshold"`
}

// Validator scores candidates against the original prompt.
// It is safe for concurrent use; the threshold may be updated at runtime
// (config hot reload).
type Validator struct {
	mu         sync.RWMutex
	threshold  float64
	embeddings *EmbeddingsClient
	logger     *slog.Logger
}

// NewValidator creates a validator with the given threshold. A nil embeddings
// client disables the external hook.
func NewValidator(threshold float64, embeddings *EmbeddingsClient) *Validator {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Validator{
		threshold:  threshold,
		embeddings: embeddings,
		logger:     slog.Default().With("component", "semantic"),
	}
}

// Threshold returns the current pass threshold.
func (v *Validator) Threshold() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.threshold
}

// SetThreshold updates the pass threshold. Ignores out-of-range values.
func (v *Validator) SetThreshold(threshold float64) {
	if threshold <= 0 || threshold > 1 {
		return
	}
	v.mu.Lock()
	v.threshold = threshold
	v.mu.Unlock()
}

// Score validates a candidate against the original prompt. The Jaccard score
// is always computed; when the embeddings service is configured and reachable
// its cosine score decides passing instead.
func (v *Validator) Score(ctx context.Context, original, candidate string) Score {
	threshold := v.Threshold()

	score := Score{
		Jaccard:   Jaccard(original, candidate),
		Threshold: threshold,
	}
	score.Passed = score.Jaccard >= threshold

	if v.embeddings != nil {
		cosine, err := v.embeddings.Similarity(ctx, original, candidate)
		if err != nil {
			v.logger.Warn("embeddings service unavailable, using jaccard only", "error", err)
			return score
		}
		score.Cosine = round3(cosine)
		score.Passed = cosine >= threshold
	}

	return score
}

// Jaccard computes token-set Jaccard similarity between two texts: both are
// lowercased and split on whitespace into word sets; the result is
// |intersection| / |union| rounded to 3 decimals, and 0 when the union is
// empty.
func Jaccard(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)

	union := make(map[string]struct{}, len(setA)+len(setB))
	intersection := 0
	for w := range setA {
		union[w] = struct{}{}
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	for w := range setB {
		union[w] = struct{}{}
	}

	if len(union) == 0 {
		return 0
	}
	return round3(float64(intersection) / float64(len(union)))
}

func wordSet(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
