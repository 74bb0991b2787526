package analysis

import (
	"strings"

	"github.com/fyrsmithlabs/chronicled/internal/taxonomy"
)

// DeterminePriority classifies text by counting occurrences of the fixed
// priority vocabularies (substring, case-insensitive) and applying cascading
// thresholds, in order:
//
//	high-count >= 2                          -> high
//	medium-count >= 2 or high-count >= 1     -> medium
//	otherwise                                -> low
//
// The thresholds are exact and load-bearing for downstream behavior; do not
// convert this into a weighted score.
func DeterminePriority(text string) Priority {
	lower := strings.ToLower(text)

	high := countOccurrences(lower, taxonomy.HighPriorityWords)
	medium := countOccurrences(lower, taxonomy.MediumPriorityWords)

	switch {
	case high >= 2:
		return PriorityHigh
	case medium >= 2 || high >= 1:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// countOccurrences sums substring occurrences of every word in lower.
// The input must already be lowercased.
func countOccurrences(lower string, words []string) int {
	total := 0
	for _, w := range words {
		total += strings.Count(lower, w)
	}
	return total
}
