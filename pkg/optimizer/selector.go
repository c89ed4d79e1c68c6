package optimizer

import "fmt"

// selectCandidate picks the winner: the fewest-token candidate among those
// that passed semantic validation, ties broken by list order. When nothing
// passes, the first candidate (always the local rewrite) is the fallback.
func selectCandidate(candidates []Candidate) (Candidate, string) {
	best := -1
	for i, c := range candidates {
		if !c.SemanticPassed {
			continue
		}
		if best == -1 || c.Tokens < candidates[best].Tokens {
			best = i
		}
	}

	if best >= 0 {
		chosen := candidates[best]
		return chosen, fmt.Sprintf("shortest_valid_%s", chosen.Source)
	}

	chosen := candidates[0]
	return chosen, fmt.Sprintf("fallback_%s", chosen.Source)
}
