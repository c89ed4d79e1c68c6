package rules

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Result is the output of a rule engine pass.
type Result struct {
	// Candidate is the rewritten text.
	Candidate string

	// AppliedRules lists, in execution order, the IDs of rules that
	// measurably changed the text. Empty when nothing fired.
	AppliedRules []string

	// Metadata carries the request context merged with any metadata effects
	// from fired rules (e.g. profile=concise from a brevity hint).
	Metadata map[string]string
}

// Engine applies an ordered, declarative rule table to prompt text.
// It performs no I/O and has no failure mode; Apply is a pure function of
// its inputs and is idempotent: re-applying it to its own output yields the
// identical string and records no rules.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine over the default rule table.
func NewEngine() *Engine {
	return &Engine{rules: DefaultRules}
}

// NewEngineWithRules creates an engine over a custom rule table. Used by
// tests to exercise rules in isolation.
func NewEngineWithRules(rules []Rule) *Engine {
	return &Engine{rules: rules}
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	smartQuotes   = strings.NewReplacer("“", `"`, "”", `"`, "‘", "'", "’", "'")
)

// Preprocess normalizes raw prompt text before rule execution: NFC unicode
// normalization, smart-quote straightening, and whitespace collapsing.
func Preprocess(text string) string {
	text = norm.NFC.String(text)
	text = smartQuotes.Replace(text)
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Apply runs the rule table over the prompt in order. A rule is recorded only
// when it changes the text. The context map seeds the result metadata and is
// not mutated.
func (e *Engine) Apply(prompt string, context map[string]string) Result {
	text := prompt
	applied := []string{}
	metadata := make(map[string]string, len(context))
	for k, v := range context {
		metadata[k] = v
	}

	for _, rule := range e.rules {
		before := text
		if rule.Rewrite != nil {
			text = rule.Pattern.ReplaceAllStringFunc(text, rule.Rewrite)
		} else {
			text = rule.Pattern.ReplaceAllString(text, rule.Replacement)
		}
		text = strings.TrimSpace(text)

		if text != before {
			applied = append(applied, rule.ID)
			for k, v := range rule.Metadata {
				metadata[k] = v
			}
		}
	}

	text = strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))

	return Result{
		Candidate:    text,
		AppliedRules: applied,
		Metadata:     metadata,
	}
}
