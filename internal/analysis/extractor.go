package analysis

import (
	"regexp"
	"strings"

	"github.com/fyrsmithlabs/chronicled/internal/taxonomy"
)

// Extraction caps. Later matches beyond these limits are dropped,
// first-found-first-kept.
const (
	maxKeyInsights      = 5
	maxActionItems      = 3
	maxStakeholders     = 5
	maxPerPatternFamily = 2
	minInsightLength    = 20
)

// Sentence and pattern-family regexes. Each action-item and stakeholder
// family is applied independently and contributes at most two matches.
var (
	sentenceSplitRe = regexp.MustCompile(`[.!?]+`)

	// Action items: modal-verb lead-ins keep the whole clause, explicit
	// labels keep only what follows the colon.
	modalActionRe = regexp.MustCompile(`(?i)\b(?:need to|should|must|have to|going to|will|plan to|decide to)\s+[^.!?\n]+`)
	labelActionRe = regexp.MustCompile(`(?i)\b(?:action item|todo|task|follow up):\s*([^.!?\n]+)`)
	nextActionRe  = regexp.MustCompile(`(?i)\b(?:next steps?|action plan):\s*([^.!?\n]+)`)

	// Stakeholders: capitalized tokens near role words, titles, or a
	// two-token name followed by an affiliation word.
	roleStakeholderRe  = regexp.MustCompile(`([A-Z][a-zA-Z]+)\s+(?:team|department|group|committee|board)\b`)
	titleStakeholderRe = regexp.MustCompile(`(?:[Mm]anager|[Dd]irector|[Ll]ead|[Hh]ead|VP|CEO|CTO|CFO)\s+([A-Z][a-zA-Z]+)`)
	nameStakeholderRe  = regexp.MustCompile(`([A-Z][a-zA-Z]+\s+[A-Z][a-zA-Z]+)\s+(?:from|in|at)\b`)
)

// Extractor pulls candidate sentences, action-item phrases, and stakeholder
// mentions out of raw conversation text. All three passes are pure functions
// of the input text (and category, for key insights).
type Extractor struct {
	matcher *keywordMatcher
}

// NewExtractor creates an extractor with its own keyword matcher.
func NewExtractor() *Extractor {
	return newExtractor(newKeywordMatcher())
}

func newExtractor(m *keywordMatcher) *Extractor {
	return &Extractor{matcher: m}
}

// KeyInsights returns up to five sentences from text that are longer than
// 20 characters and contain at least one of the category's keywords.
func (e *Extractor) KeyInsights(text string, cat taxonomy.Category) []string {
	var insights []string
	for _, raw := range sentenceSplitRe.Split(text, -1) {
		sentence := strings.TrimSpace(raw)
		if len(sentence) <= minInsightLength {
			continue
		}
		if !e.matcher.containsAny(sentence, cat.Keywords) {
			continue
		}
		insights = append(insights, sentence)
		if len(insights) == maxKeyInsights {
			break
		}
	}
	return insights
}

// ActionItems returns up to three action-item phrases found in text. Each of
// the three pattern families contributes at most two matches; duplicates are
// dropped by exact string comparison.
func (e *Extractor) ActionItems(text string) []string {
	var items []string
	seen := make(map[string]bool)

	collect := func(matches []string) {
		for i, m := range matches {
			if i == maxPerPatternFamily {
				break
			}
			m = strings.TrimSpace(m)
			if m == "" || seen[m] {
				continue
			}
			seen[m] = true
			items = append(items, m)
		}
	}

	collect(modalActionRe.FindAllString(text, -1))
	collect(submatches(labelActionRe, text))
	collect(submatches(nextActionRe, text))

	if len(items) > maxActionItems {
		items = items[:maxActionItems]
	}
	return items
}

// Stakeholders returns up to five name-like mentions found in text. Each of
// the three pattern families contributes at most two matches; duplicates are
// dropped by exact string comparison.
func (e *Extractor) Stakeholders(text string) []string {
	var stakeholders []string
	seen := make(map[string]bool)

	collect := func(matches []string) {
		for i, m := range matches {
			if i == maxPerPatternFamily {
				break
			}
			m = strings.TrimSpace(m)
			if m == "" || seen[m] {
				continue
			}
			seen[m] = true
			stakeholders = append(stakeholders, m)
		}
	}

	collect(submatches(roleStakeholderRe, text))
	collect(submatches(titleStakeholderRe, text))
	collect(submatches(nameStakeholderRe, text))

	if len(stakeholders) > maxStakeholders {
		stakeholders = stakeholders[:maxStakeholders]
	}
	return stakeholders
}

// submatches returns the first capture group of every match of re in text.
func submatches(re *regexp.Regexp, text string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if len(m) > 1 {
			out = append(out, m[1])
		}
	}
	return out
}
