package match

import (
	"cmp"
	"slices"

	"github.com/samber/lo"
)

// Levenshtein computes the edit distance between two strings: the minimum
// number of single-byte insertions, deletions or substitutions turning a into b.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	// Keep a as the shorter string so the rows stay small.
	if len(a) > len(b) {
		a, b = b, a
	}

	if a == "" {
		return len(b)
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(a)]
}

// Similarity is 1 - distance/max(len) over normalized identifiers: 1.0 for
// identical names, 0.0 for nothing in common.
func Similarity(a, b string) float64 {
	a, b = NormalizeIdent(a), NormalizeIdent(b)
	if a == "" && b == "" {
		return 1.0
	}

	return 1.0 - float64(Levenshtein(a, b))/float64(max(len(a), len(b)))
}

// MinSimilarity is the score a candidate needs to be suggested.
const MinSimilarity = 0.5

// MaxSuggestions bounds the output of Closest.
const MaxSuggestions = 3

type scored struct {
	name  string
	score float64
}

// Closest returns up to MaxSuggestions candidates similar to name, best first.
// Ties are broken alphabetically so output is stable.
func Closest(name string, candidates []string) []string {
	ranked := lo.FilterMap(lo.Uniq(candidates), func(c string, _ int) (scored, bool) {
		s := Similarity(name, c)
		return scored{name: c, score: s}, s >= MinSimilarity
	})

	slices.SortFunc(ranked, func(x, y scored) int {
		if c := cmp.Compare(y.score, x.score); c != 0 {
			return c
		}

		return cmp.Compare(x.name, y.name)
	})

	if len(ranked) > MaxSuggestions {
		ranked = ranked[:MaxSuggestions]
	}

	return lo.Map(ranked, func(s scored, _ int) string { return s.name })
}
