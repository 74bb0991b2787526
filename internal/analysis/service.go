package analysis

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/chronicled/internal/taxonomy"
)

const (
	// relevanceThreshold is the soft gate for attempting suggestion
	// construction. A category can pass it and still be dropped when the
	// builder finds no key insights.
	relevanceThreshold = 0.1

	// maxSuggestions bounds the ranked result list.
	maxSuggestions = 3
)

// Service orchestrates scoring, extraction, and suggestion building across
// all known categories for one conversation. Construct one instance at the
// composition root and share it; it holds no per-call state.
type Service struct {
	scorer  *Scorer
	builder *Builder
	logger  *zap.Logger
}

// Option customizes a Service, primarily for deterministic tests.
type Option func(*options)

type options struct {
	newID     IDGenerator
	pickTitle TitlePicker
}

// WithIDGenerator overrides suggestion id generation.
func WithIDGenerator(g IDGenerator) Option {
	return func(o *options) { o.newID = g }
}

// WithTitlePicker overrides title-pool selection.
func WithTitlePicker(p TitlePicker) Option {
	return func(o *options) { o.pickTitle = p }
}

// NewService creates an analysis service.
func NewService(logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	o := options{
		newID:     defaultIDGenerator,
		pickTitle: defaultTitlePicker,
	}
	for _, opt := range opts {
		opt(&o)
	}

	matcher := newKeywordMatcher()
	return &Service{
		scorer:  &Scorer{matcher: matcher},
		builder: newBuilder(matcher, o.newID, o.pickTitle),
		logger:  logger,
	}
}

// Analyze scores the conversation against every category, builds suggestions
// for those above the relevance gate, and returns up to three, sorted by
// confidence descending. The envelope's Confidence is the maximum suggestion
// confidence, or 0 when nothing was suggested.
//
// Analyze never fails: any panic inside scoring or extraction is recovered
// and surfaced as an empty-suggestions result. Callers can treat the return
// value as always valid. The context parameter exists for contract
// uniformity with async callers; the algorithm itself has no suspension
// points.
func (s *Service) Analyze(ctx context.Context, conv Conversation) (result Result) {
	start := time.Now()
	analysesTotal.Inc()

	defer func() {
		if r := recover(); r != nil {
			analysisRecovered.Inc()
			s.logger.Error("analysis panicked, returning empty result",
				zap.String("conversation_id", conv.ID),
				zap.Any("panic", r),
			)
			result = Result{Suggestions: []Suggestion{}, ProcessingTime: time.Since(start)}
		}
		analysisDuration.Observe(time.Since(start).Seconds())
		suggestionsEmitted.Observe(float64(len(result.Suggestions)))
	}()

	suggestions := []Suggestion{}
	for _, cat := range taxonomy.Categories() {
		score := s.scorer.Score(conv.Text, cat)
		if score <= relevanceThreshold {
			continue
		}
		if sg := s.builder.Build(conv, cat, score); sg != nil {
			suggestions = append(suggestions, *sg)
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}

	confidence := 0
	if len(suggestions) > 0 {
		confidence = suggestions[0].Confidence
	}

	s.logger.Debug("conversation analyzed",
		zap.String("conversation_id", conv.ID),
		zap.Int("suggestions", len(suggestions)),
		zap.Int("confidence", confidence),
		zap.Duration("duration", time.Since(start)),
	)

	return Result{
		Suggestions:    suggestions,
		Confidence:     confidence,
		ProcessingTime: time.Since(start),
	}
}
