package analysis

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/fyrsmithlabs/chronicled/internal/taxonomy"
)

// IDGenerator produces suggestion ids. The default combines a millisecond
// timestamp with a random suffix; tests inject a deterministic one.
type IDGenerator func() string

// defaultIDGenerator needs no central counter: the timestamp plus 16 random
// bits is unique in practice for a single process.
func defaultIDGenerator() string {
	return fmt.Sprintf("suggestion-%d-%04x", time.Now().UnixMilli(), rand.Intn(1<<16))
}

// TitlePicker selects an index into a category's title pool.
type TitlePicker func(n int) int

func defaultTitlePicker(n int) int {
	return rand.Intn(n)
}

// Builder assembles tile suggestions from a conversation, a category, and
// that category's relevance score.
type Builder struct {
	extractor *Extractor
	newID     IDGenerator
	pickTitle TitlePicker
}

// NewBuilder creates a builder with default id generation and title
// selection.
func NewBuilder() *Builder {
	return newBuilder(newKeywordMatcher(), defaultIDGenerator, defaultTitlePicker)
}

func newBuilder(m *keywordMatcher, newID IDGenerator, pick TitlePicker) *Builder {
	return &Builder{
		extractor: newExtractor(m),
		newID:     newID,
		pickTitle: pick,
	}
}

// Build produces a suggestion for the category, or nil when the text yields
// no key insights for it. A category without an illustrative sentence is not
// suggested even if keyword density alone crossed the relevance gate; this
// is the hard filter behind the soft 0.1 threshold in the service.
func (b *Builder) Build(conv Conversation, cat taxonomy.Category, score float64) *Suggestion {
	insights := b.extractor.KeyInsights(conv.Text, cat)
	if len(insights) == 0 {
		return nil
	}

	title := cat.TitlePool[b.pickTitle(len(cat.TitlePool))] + " Update"

	return &Suggestion{
		ID:          b.newID(),
		Title:       title,
		Category:    cat.Name,
		Description: cat.StoryBlurb,
		RelevantData: Insights{
			KeyInsights:  insights,
			ActionItems:  b.extractor.ActionItems(conv.Text),
			Stakeholders: b.extractor.Stakeholders(conv.Text),
			Priority:     DeterminePriority(conv.Text),
		},
		Confidence: int(math.Round(score * 100)),
		Source:     fmt.Sprintf("conversation %s", shortID(conv.ID)),
	}
}

// shortID returns the first 8 characters of id.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
