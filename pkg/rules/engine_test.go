package rules

import (
	"reflect"
	"strings"
	"testing"
)

func TestPreprocess(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "collapses whitespace", in: "a   b\t\nc", want: "a b c"},
		{name: "trims", in: "  hello  ", want: "hello"},
		{name: "straightens smart quotes", in: "say “hi” and ‘bye’", want: `say "hi" and 'bye'`},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Preprocess(tt.in); got != tt.want {
				t.Errorf("Preprocess(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestApplyStripsPoliteness(t *testing.T) {
	engine := NewEngine()

	res := engine.Apply("Could you please help me with this task? Thank you in advance!", nil)

	if strings.Contains(strings.ToLower(res.Candidate), "please") {
		t.Errorf("politeness not stripped: %q", res.Candidate)
	}
	if strings.Contains(strings.ToLower(res.Candidate), "thank you") {
		t.Errorf("closing thanks not stripped: %q", res.Candidate)
	}
	if !containsRule(res.AppliedRules, "r01_strip_polite") {
		t.Errorf("r01_strip_polite not recorded, got %v", res.AppliedRules)
	}
}

func TestApplyActAs(t *testing.T) {
	engine := NewEngine()

	res := engine.Apply("I want you to act as a translator", nil)

	if !strings.HasPrefix(res.Candidate, "Act as:") {
		t.Errorf("expected directive prefix, got %q", res.Candidate)
	}
	if !containsRule(res.AppliedRules, "r02_merge_act_as") {
		t.Errorf("r02_merge_act_as not recorded, got %v", res.AppliedRules)
	}
}

func TestApplyCompressesBulletLists(t *testing.T) {
	engine := NewEngine()

	res := engine.Apply("Steps\n- one\n- two\n- three", nil)

	if !containsRule(res.AppliedRules, "r04_compress_lists") {
		t.Errorf("r04_compress_lists not recorded, got %v", res.AppliedRules)
	}
	if strings.Contains(res.Candidate, "-") {
		t.Errorf("bullet markers survived: %q", res.Candidate)
	}
}

func TestApplyRemovesFillers(t *testing.T) {
	engine := NewEngine()

	res := engine.Apply("This is very basically a really simple idea", nil)

	for _, filler := range []string{"very", "basically", "really"} {
		if strings.Contains(res.Candidate, filler) {
			t.Errorf("filler %q survived: %q", filler, res.Candidate)
		}
	}
	if !containsRule(res.AppliedRules, "r05_remove_fillers") {
		t.Errorf("r05_remove_fillers not recorded, got %v", res.AppliedRules)
	}
}

func TestApplyParamExtraction(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "quoted literal", in: `translate "hello world" now`, want: `translate <param:"hello world"> now`},
		{name: "standalone number", in: "give me 100 examples", want: "give me <param:100> examples"},
		{name: "five digits untouched", in: "code 12345 stays", want: "code 12345 stays"},
		{name: "single digit untouched", in: "step 1 only", want: "step 1 only"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := engine.Apply(tt.in, nil)
			if res.Candidate != tt.want {
				t.Errorf("Apply(%q) = %q, want %q", tt.in, res.Candidate, tt.want)
			}
		})
	}
}

func TestApplyBrevityHintSetsProfile(t *testing.T) {
	engine := NewEngine()

	res := engine.Apply("Explain quantum computing in a few words", map[string]string{"profile": "neutral"})

	if res.Metadata["profile"] != "concise" {
		t.Errorf("profile = %q, want concise", res.Metadata["profile"])
	}
	if !containsRule(res.AppliedRules, "r07_length_hint") {
		t.Errorf("r07_length_hint not recorded, got %v", res.AppliedRules)
	}
	if strings.Contains(res.Candidate, "in a few words") {
		t.Errorf("brevity phrase survived: %q", res.Candidate)
	}
}

func TestApplyNormalizesPunctuation(t *testing.T) {
	engine := NewEngine()

	res := engine.Apply("Hello ,world .How are you", nil)

	if res.Candidate != "Hello, world. How are you" {
		t.Errorf("got %q", res.Candidate)
	}
}

func TestApplyIdempotent(t *testing.T) {
	engine := NewEngine()

	prompts := []string{
		"Could you please help me with this task? Thank you in advance!",
		`I want you to act as a tutor and explain "binary search" with 100 examples, briefly.`,
		"Steps:\n- gather data\n- clean it\n- train model\nRegards,",
		"This is very basically a really long prompt , with bad spacing .",
		"Numbers 42 and 9999 and 12345 mixed with \"quoted text\" here.",
	}

	for _, prompt := range prompts {
		first := engine.Apply(Preprocess(prompt), nil)
		second := engine.Apply(first.Candidate, nil)

		if second.Candidate != first.Candidate {
			t.Errorf("not idempotent:\n first = %q\nsecond = %q", first.Candidate, second.Candidate)
		}
		if len(second.AppliedRules) != 0 {
			t.Errorf("second pass recorded rules %v for %q", second.AppliedRules, prompt)
		}
	}
}

func TestApplyContextNotMutated(t *testing.T) {
	engine := NewEngine()
	ctx := map[string]string{"profile": "neutral"}

	engine.Apply("explain this briefly", ctx)

	if !reflect.DeepEqual(ctx, map[string]string{"profile": "neutral"}) {
		t.Errorf("context mutated: %v", ctx)
	}
}

func containsRule(rules []string, id string) bool {
	for _, r := range rules {
		if r == id {
			return true
		}
	}
	return false
}
