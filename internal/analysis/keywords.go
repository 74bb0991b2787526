package analysis

import (
	"regexp"

	"github.com/fyrsmithlabs/chronicled/internal/taxonomy"
)

// keywordMatcher holds pre-compiled word-boundary patterns for every keyword
// in the taxonomy. Matching is case-insensitive and exact: no stemming, no
// synonym expansion.
type keywordMatcher struct {
	patterns map[string]*regexp.Regexp
}

// newKeywordMatcher compiles patterns for all category keywords.
func newKeywordMatcher() *keywordMatcher {
	patterns := make(map[string]*regexp.Regexp)
	for _, cat := range taxonomy.Categories() {
		for _, kw := range cat.Keywords {
			if _, ok := patterns[kw]; ok {
				continue
			}
			patterns[kw] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
		}
	}
	return &keywordMatcher{patterns: patterns}
}

// count returns the number of occurrences of keyword in text.
func (m *keywordMatcher) count(text, keyword string) int {
	re, ok := m.patterns[keyword]
	if !ok {
		return 0
	}
	return len(re.FindAllStringIndex(text, -1))
}

// containsAny reports whether text contains at least one of the keywords.
func (m *keywordMatcher) containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if re, ok := m.patterns[kw]; ok && re.MatchString(text) {
			return true
		}
	}
	return false
}
