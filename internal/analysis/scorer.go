package analysis

import (
	"math"

	"github.com/fyrsmithlabs/chronicled/internal/taxonomy"
)

// weightDivisor converts the total keyword occurrence count into the depth
// component of the relevance score.
const weightDivisor = 50

// Scorer computes how strongly a transcript matches a category's keyword
// set. Scores are in [0,1] and reward both breadth (many distinct keywords)
// and depth (repeated emphasis).
type Scorer struct {
	matcher *keywordMatcher
}

// NewScorer creates a scorer with patterns compiled for the full taxonomy.
func NewScorer() *Scorer {
	return &Scorer{matcher: newKeywordMatcher()}
}

// Score returns the relevance of text to the category.
//
// The score is keywordScore + weightScore capped at 1, where keywordScore is
// the fraction of the category's keywords that appear at least once
// (word-boundary, case-insensitive) and weightScore is the total occurrence
// count across all keywords divided by 50. A text with zero keyword hits
// scores exactly 0.
//
// There is no normalization for text length, so long transcripts score
// higher on the weight component purely from volume. That skew is preserved
// for compatibility with the historical heuristic; do not "fix" it here.
func (s *Scorer) Score(text string, cat taxonomy.Category) float64 {
	if text == "" || len(cat.Keywords) == 0 {
		return 0
	}

	matches := 0
	totalWeight := 0
	for _, kw := range cat.Keywords {
		n := s.matcher.count(text, kw)
		if n > 0 {
			matches++
		}
		totalWeight += n
	}

	keywordScore := float64(matches) / float64(len(cat.Keywords))
	weightScore := float64(totalWeight) / weightDivisor
	return math.Min(keywordScore+weightScore, 1)
}
