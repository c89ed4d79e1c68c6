package semantic

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{name: "identical", a: "the quick brown fox", b: "the quick brown fox", want: 1.0},
		{name: "disjoint", a: "alpha beta", b: "gamma delta", want: 0.0},
		{name: "both empty", a: "", b: "", want: 0.0},
		{name: "one empty", a: "hello", b: "", want: 0.0},
		{name: "half overlap", a: "a b", b: "a c", want: 0.333},
		{name: "case insensitive", a: "Hello World", b: "hello world", want: 1.0},
		{name: "duplicates collapse", a: "go go go", b: "go", want: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Jaccard(tt.a, tt.b); got != tt.want {
				t.Errorf("Jaccard(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestJaccardSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"one two three", "two three four"},
		{"hello", "hello world"},
		{"", "something"},
	}

	for _, p := range pairs {
		if Jaccard(p[0], p[1]) != Jaccard(p[1], p[0]) {
			t.Errorf("Jaccard not symmetric for %q / %q", p[0], p[1])
		}
	}
}

func TestValidatorScoreThreshold(t *testing.T) {
	v := NewValidator(0.7, nil)

	passing := v.Score(context.Background(), "optimize this prompt", "optimize this prompt")
	if !passing.Passed {
		t.Errorf("identical texts should pass, got %+v", passing)
	}
	if passing.Jaccard != 1.0 {
		t.Errorf("Jaccard = %v, want 1.0", passing.Jaccard)
	}

	failing := v.Score(context.Background(), "optimize this prompt", "completely unrelated words here")
	if failing.Passed {
		t.Errorf("disjoint texts should fail, got %+v", failing)
	}
	if failing.Threshold != 0.7 {
		t.Errorf("Threshold = %v, want 0.7", failing.Threshold)
	}
}

func TestValidatorSetThreshold(t *testing.T) {
	v := NewValidator(0.7, nil)

	v.SetThreshold(0.3)
	if v.Threshold() != 0.3 {
		t.Errorf("Threshold() = %v, want 0.3", v.Threshold())
	}

	// Out-of-range updates are ignored.
	v.SetThreshold(0)
	v.SetThreshold(1.5)
	if v.Threshold() != 0.3 {
		t.Errorf("Threshold() = %v, want 0.3 after invalid updates", v.Threshold())
	}
}

func TestValidatorCosineSupersedesJaccard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"similarity": 0.95}`))
	}))
	defer server.Close()

	v := NewValidator(0.7, NewEmbeddingsClient(server.URL, 0))

	// Disjoint word sets: Jaccard alone would fail, cosine passes.
	score := v.Score(context.Background(), "alpha beta", "gamma delta")
	if !score.Passed {
		t.Errorf("cosine score should decide passing, got %+v", score)
	}
	if score.Cosine != 0.95 {
		t.Errorf("Cosine = %v, want 0.95", score.Cosine)
	}
	if score.Jaccard != 0.0 {
		t.Errorf("Jaccard = %v, want 0.0", score.Jaccard)
	}
}

func TestValidatorFallsBackOnEmbeddingsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	v := NewValidator(0.7, NewEmbeddingsClient(server.URL, 0))

	score := v.Score(context.Background(), "same words here", "same words here")
	if !score.Passed {
		t.Errorf("should fall back to jaccard decision, got %+v", score)
	}
	if score.Cosine != 0 {
		t.Errorf("Cosine = %v, want 0 on failure", score.Cosine)
	}
}
