package story

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/chronicled/internal/analysis"
	"github.com/fyrsmithlabs/chronicled/internal/storage"
	"github.com/fyrsmithlabs/chronicled/internal/taxonomy"
)

// storageKey is the single fixed key under which the whole dynamic-story
// collection is persisted.
const storageKey = "chronicled.dynamic_stories"

// recentWindow is the lookback for the "added recently" stat.
const recentWindow = 7 * 24 * time.Hour

// ErrUnknownCategory is returned when a story is added to a category
// outside the fixed six.
var ErrUnknownCategory = errors.New("unknown category")

// categoryEntry pairs a category name with its dynamic stories, newest
// first. The persisted form is the JSON array of these pairs, so category
// order and story order round-trip exactly.
type categoryEntry struct {
	Category string  `json:"category"`
	Stories  []Story `json:"stories"`
}

// IDGenerator produces story ids.
type IDGenerator func() string

// Service owns the dynamic story collection. All mutations are serialized
// by an internal mutex; reads return copies, so callers can hold results
// across later mutations.
type Service struct {
	store    storage.Store
	analyzer *analysis.Service
	logger   *zap.Logger
	newID    IDGenerator
	now      func() time.Time

	mu      sync.Mutex
	entries []categoryEntry

	listenersMu  sync.Mutex
	listeners    map[int]Listener
	nextListener int
}

// Option customizes a Service.
type Option func(*Service)

// WithIDGenerator overrides story id generation, for deterministic tests.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Service) { s.newID = g }
}

// WithClock overrides the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a story service and loads any previously persisted
// dynamic stories from the store. Load failures are logged and leave the
// service empty; they are never fatal.
func NewService(store storage.Store, analyzer *analysis.Service, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		store:     store,
		analyzer:  analyzer,
		logger:    logger,
		newID:     func() string { return "story-" + uuid.New().String() },
		now:       time.Now,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.load()
	return s
}

// load reads the persisted collection. Missing key means a fresh install.
func (s *Service) load() {
	if s.store == nil {
		return
	}

	data, err := s.store.Get(context.Background(), storageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		s.logger.Warn("loading dynamic stories failed, starting empty", zap.Error(err))
		return
	}

	var entries []categoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn("persisted dynamic stories are malformed, starting empty", zap.Error(err))
		return
	}
	s.entries = entries

	total := 0
	for _, e := range entries {
		total += len(e.Stories)
	}
	s.logger.Info("dynamic stories loaded",
		zap.Int("categories", len(entries)),
		zap.Int("stories", total),
	)
}

// persist writes the whole collection under the fixed key. Must be called
// with s.mu held. Failures are logged; the in-memory mutation stands and
// the service keeps operating until the next successful write.
func (s *Service) persist(ctx context.Context) {
	if s.store == nil {
		return
	}

	data, err := json.Marshal(s.entries)
	if err != nil {
		s.logger.Error("marshaling dynamic stories failed", zap.Error(err))
		return
	}
	if err := s.store.Put(ctx, storageKey, data); err != nil {
		s.logger.Warn("persisting dynamic stories failed, continuing in memory", zap.Error(err))
	}
}

// ProcessConversation analyzes a conversation and returns the top-ranked
// suggestion, or nil when no category was judged relevant. The caller
// decides whether to confirm it into a story.
func (s *Service) ProcessConversation(ctx context.Context, conv analysis.Conversation) *analysis.Suggestion {
	res := s.analyzer.Analyze(ctx, conv)
	if len(res.Suggestions) == 0 {
		return nil
	}
	top := res.Suggestions[0]
	return &top
}

// AddStory converts a confirmed suggestion into a dynamic story, prepends
// it to the category's list, persists the collection, and notifies
// listeners. Returns ErrUnknownCategory for names outside the fixed six.
func (s *Service) AddStory(ctx context.Context, category string, sg analysis.Suggestion) (Story, error) {
	if !taxonomy.IsValid(category) {
		return Story{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	now := s.now()
	st := Story{
		ID:          s.newID(),
		Title:       sg.Title,
		Description: sg.Description,
		Status:      StatusProgress,
		Date:        now.Format("2006-01-02"),
		Tags:        deriveTags(category, sg.RelevantData.Priority),
	}

	s.mu.Lock()
	entry := s.entry(category)
	entry.Stories = append([]Story{st}, entry.Stories...)
	s.persist(ctx)
	s.mu.Unlock()

	s.logger.Info("dynamic story added",
		zap.String("story_id", st.ID),
		zap.String("category", category),
		zap.String("priority", string(sg.RelevantData.Priority)),
	)

	s.emit(AddedEvent{
		Story:     st,
		Category:  category,
		Timestamp: now,
		Source:    sg.Source,
	})

	return st, nil
}

// entry returns the category's entry, creating it on first use. Must be
// called with s.mu held.
func (s *Service) entry(category string) *categoryEntry {
	for i := range s.entries {
		if s.entries[i].Category == category {
			return &s.entries[i]
		}
	}
	s.entries = append(s.entries, categoryEntry{Category: category})
	return &s.entries[len(s.entries)-1]
}

// Stories returns the merged story list for a category: dynamic stories
// newest first, then the static set. The result is a copy.
func (s *Service) Stories(category string) []Story {
	s.mu.Lock()
	var dynamic []Story
	for i := range s.entries {
		if s.entries[i].Category == category {
			dynamic = copyStories(s.entries[i].Stories)
			break
		}
	}
	s.mu.Unlock()

	return append(dynamic, StaticStories(category)...)
}

// UpdateStory merges a partial update into the dynamic story with the
// given id, searching every category. Returns the updated story and true,
// or false when no dynamic story has that id. Static stories cannot be
// updated.
func (s *Service) UpdateStory(ctx context.Context, id string, upd Update) (Story, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		for j := range s.entries[i].Stories {
			st := &s.entries[i].Stories[j]
			if st.ID != id {
				continue
			}
			if upd.Title != nil {
				st.Title = *upd.Title
			}
			if upd.Description != nil {
				st.Description = *upd.Description
			}
			if upd.Status != nil {
				st.Status = *upd.Status
			}
			if upd.Date != nil {
				st.Date = *upd.Date
			}
			if upd.Tags != nil {
				st.Tags = append([]string(nil), upd.Tags...)
			}
			if upd.Author != nil {
				st.Author = *upd.Author
			}
			s.persist(ctx)

			out := *st
			out.Tags = append([]string(nil), st.Tags...)
			return out, true
		}
	}
	return Story{}, false
}

// RemoveStory deletes the dynamic story with the given id, searching every
// category. Returns false, leaving everything unchanged, when the id is
// unknown.
func (s *Service) RemoveStory(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		stories := s.entries[i].Stories
		for j := range stories {
			if stories[j].ID != id {
				continue
			}
			s.entries[i].Stories = append(stories[:j:j], stories[j+1:]...)
			s.persist(ctx)
			return true
		}
	}
	return false
}

// Clear removes every dynamic story and persists the empty collection.
func (s *Service) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.persist(ctx)
}

// Stats aggregates the merged collection: totals and status counts across
// dynamic and static stories, per-category counts, and the number of
// dynamic stories added within the last seven days.
func (s *Service) Stats() Stats {
	stats := Stats{
		ByStatus:   make(map[Status]int),
		ByCategory: make(map[string]int),
	}
	now := s.now()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Add(-recentWindow)

	s.mu.Lock()
	for _, e := range s.entries {
		for _, st := range e.Stories {
			stats.Total++
			stats.ByStatus[st.Status]++
			stats.ByCategory[e.Category]++
			if d, err := time.Parse("2006-01-02", st.Date); err == nil && !d.Before(cutoff) {
				stats.AddedLastWeek++
			}
		}
	}
	s.mu.Unlock()

	for _, cat := range taxonomy.Categories() {
		for _, st := range staticStories[cat.Name] {
			stats.Total++
			stats.ByStatus[st.Status]++
			stats.ByCategory[cat.Name]++
		}
	}

	return stats
}

// Subscribe registers a listener for added-story events and returns its
// unsubscribe function. Listeners run synchronously, in registration
// order, on the goroutine performing the addition.
func (s *Service) Subscribe(l Listener) func() {
	s.listenersMu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = l
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

// emit delivers the event to every listener, isolating panics so one
// failing listener cannot block the others.
func (s *Service) emit(ev AddedEvent) {
	s.listenersMu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for i := 0; i < s.nextListener; i++ {
		if l, ok := s.listeners[i]; ok {
			listeners = append(listeners, l)
		}
	}
	s.listenersMu.Unlock()

	for _, l := range listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Warn("story listener panicked",
						zap.String("story_id", ev.Story.ID),
						zap.Any("panic", r),
					)
				}
			}()
			l(ev)
		}()
	}
}

// deriveTags builds the tag set for a generated story: fixed provenance
// tags, the priority, then the category name lowercased with
// non-alphanumerics stripped and split on whitespace.
func deriveTags(category string, p analysis.Priority) []string {
	tags := []string{"ai-generated", "conversation-insights", string(p)}

	var b strings.Builder
	for _, r := range strings.ToLower(category) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', unicode.IsSpace(r):
			b.WriteRune(r)
		}
	}
	return append(tags, strings.Fields(b.String())...)
}
