package optimizer

import (
	"math"
	"regexp"
	"strings"
)

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// clarityScore is a cheap local readability signal in [0, 1]. It blends a
// sentence-length component (short sentences read better, with 20 words as
// the comfortable ceiling) and a lexical diversity component (unique words
// over total words). Weighted 0.6 readability, 0.4 diversity.
func clarityScore(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}

	sentences := 0
	for _, s := range sentenceSplit.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}
	if sentences == 0 {
		sentences = 1
	}

	avgSentenceLen := float64(len(words)) / float64(sentences)
	readability := 1.0
	if avgSentenceLen > 20 {
		readability = math.Max(0, 1-(avgSentenceLen-20)/40)
	}

	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[strings.ToLower(w)] = struct{}{}
	}
	diversity := float64(len(unique)) / float64(len(words))

	return math.Round((0.6*readability+0.4*diversity)*1000) / 1000
}
