package catalog

const defaultSimilarityThreshold = 0.6

// Matcher scores a normalized segment against an alias pattern. It is a
// pluggable strategy so the fuzzy stage can be swapped (say, for edit
// distance) without touching the callers.
type Matcher interface {
	// Score returns a similarity in [0,1].
	Score(segment, pattern string) float64
	// Accept reports whether a best score is good enough to resolve.
	Accept(score float64) bool
}

// CharOverlapMatcher scores by character-set overlap:
// |chars(segment) ∩ chars(pattern)| / max(len(segment), len(pattern)).
// Cheap and deterministic; makes no linguistic claims.
type CharOverlapMatcher struct {
	Threshold float64
}

func (m CharOverlapMatcher) Score(segment, pattern string) float64 {
	segRunes := []rune(segment)
	patRunes := []rune(pattern)
	longest := len(segRunes)
	if len(patRunes) > longest {
		longest = len(patRunes)
	}
	if longest == 0 {
		return 0
	}

	segSet := map[rune]struct{}{}
	for _, r := range segRunes {
		segSet[r] = struct{}{}
	}
	patSet := map[rune]struct{}{}
	for _, r := range patRunes {
		patSet[r] = struct{}{}
	}

	common := 0
	for r := range segSet {
		if _, ok := patSet[r]; ok {
			common++
		}
	}
	return float64(common) / float64(longest)
}

func (m CharOverlapMatcher) Accept(score float64) bool {
	return score > m.Threshold
}
