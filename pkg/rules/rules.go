package rules

import (
	"regexp"
	"strings"
)

// Rule is a single declarative rewrite step. Rules are applied in table
// order; later rules operate on the output of earlier ones. A rule either
// carries a static Replacement or a Rewrite function receiving the whole
// match. When a rule changes the text its ID is recorded and its Metadata
// (if any) is merged into the result metadata.
type Rule struct {
	// ID identifies the rule in applied-rule traces (e.g. "r01_strip_polite").
	ID string

	// Description explains what the rule does, for docs and debugging.
	Description string

	// Pattern is the compiled matcher.
	Pattern *regexp.Regexp

	// Replacement is the static replacement text. Supports $1-style
	// references. Ignored when Rewrite is set.
	Replacement string

	// Rewrite computes the replacement from the full match. Used by rules
	// whose output depends on the matched text.
	Rewrite func(match string) string

	// Metadata is merged into the engine result metadata when the rule fires.
	Metadata map[string]string
}

// paramQuoted and paramNumber recognise already-extracted placeholders so the
// parameter and punctuation rules leave them untouched on re-application.
const (
	paramQuoted = `<param:"[^"]*">`
	paramNumber = `<param:\d+>`
)

// DefaultRules is the fixed, ordered rule table. Order matters: politeness
// stripping runs before filler removal, list compression before punctuation
// normalization.
var DefaultRules = []Rule{
	{
		ID:          "r01_strip_polite",
		Description: "strip polite padding anywhere in the text",
		Pattern: regexp.MustCompile(`(?i)\b(could you please|would you please|can you please|can you kindly|` +
			`would you kindly|would you mind|i would appreciate( it)?( if)?|please|kindly|` +
			`thank you( in advance)?|thanks?( in advance)?)\b`),
		Replacement: "",
	},
	{
		ID:          "r02_merge_act_as",
		Description: `convert "I want you to act as" into the directive prefix`,
		Pattern:     regexp.MustCompile(`(?i)\bI want you to act as\b`),
		Replacement: "Act as:",
	},
	{
		ID:          "r03_strip_closing",
		Description: "remove closing lines such as Regards/Thanks/Sincerely",
		Pattern:     regexp.MustCompile(`(?i)(regards,|thanks[,.]?|sincerely,?)`),
		Replacement: "",
	},
	{
		ID:          "r04_compress_lists",
		Description: "collapse consecutive bullet lines into a numbered-list marker",
		Pattern:     regexp.MustCompile(`(\n\s*[-*]\s*)+`),
		Replacement: "\n1. ",
	},
	{
		ID:          "r05_remove_fillers",
		Description: "remove filler adverbs",
		Pattern:     regexp.MustCompile(`(?i)\b(very|actually|basically|really|literally)\b`),
		Replacement: "",
	},
	{
		ID:          "r06_param_extract",
		Description: "extract quoted literals and standalone 2-4 digit numbers as placeholders",
		Pattern:     regexp.MustCompile(paramQuoted + `|` + paramNumber + `|"[^"]+"|\b\d{2,4}\b`),
		Rewrite:     rewriteParam,
	},
	{
		ID:          "r07_length_hint",
		Description: "detect brevity requests and record the concise profile",
		Pattern:     regexp.MustCompile(`(?i)\b(in a few words|briefly)\b`),
		Replacement: "",
		Metadata:    map[string]string{"profile": "concise"},
	},
	{
		ID:          "r08_normalize_punc",
		Description: "single space after punctuation, collapse surrounding whitespace",
		Pattern:     regexp.MustCompile(paramQuoted + `|` + paramNumber + `|\s*([,.!?;:])\s*`),
		Rewrite:     rewritePunctuation,
	},
}

// rewriteParam turns a quoted literal or bare number into a parameter
// placeholder. Matches that already are placeholders pass through unchanged.
func rewriteParam(match string) string {
	if strings.HasPrefix(match, "<param:") {
		return match
	}
	return "<param:" + match + ">"
}

// rewritePunctuation normalizes spacing around a punctuation mark. Parameter
// placeholders pass through so the colon inside them is not respaced.
func rewritePunctuation(match string) string {
	if strings.HasPrefix(match, "<param:") {
		return match
	}
	return strings.TrimSpace(match) + " "
}
