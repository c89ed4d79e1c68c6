package tokens

import (
	"math"
	"strings"
)

// WordsPerToken is the approximation used when a provider does not report
// native usage counts: 1 token per 0.75 words.
const WordsPerToken = 0.75

// Estimate returns an approximate token count for the given text.
// It counts whitespace-separated words and applies the WordsPerToken ratio,
// rounding up. Empty or whitespace-only text counts as zero tokens.
func Estimate(text string) int {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}
	return int(math.Ceil(float64(len(words)) / WordsPerToken))
}
