// Package archive persists analyzed conversations into the vector
// store so past discussions can be searched semantically.
package archive

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/chronicled/internal/analysis"
	"github.com/fyrsmithlabs/chronicled/internal/vectorstore"
)

// Store is the vector store surface the archive needs.
type Store interface {
	AddDocuments(ctx context.Context, docs []vectorstore.Document) ([]string, error)
	Search(ctx context.Context, query string, k int, filters map[string]string) ([]vectorstore.SearchResult, error)
}

// Entry is one archived conversation returned from search.
type Entry struct {
	ConversationID string  `json:"conversation_id"`
	Text           string  `json:"text"`
	Category       string  `json:"category,omitempty"`
	AgentID        string  `json:"agent_id,omitempty"`
	Timestamp      string  `json:"timestamp,omitempty"`
	Score          float32 `json:"score"`
}

// Service archives conversations alongside their analysis outcome.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService creates an archive over the given vector store.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// Archive stores a conversation with metadata from its analysis result.
// The top suggestion's category and confidence are recorded when present.
func (s *Service) Archive(ctx context.Context, conv analysis.Conversation, result analysis.Result) error {
	if conv.Text == "" {
		return nil
	}

	metadata := map[string]string{
		"conversation_id": conv.ID,
	}
	if conv.Timestamp != "" {
		metadata["timestamp"] = conv.Timestamp
	}
	if conv.Metadata != nil {
		if conv.Metadata.AgentID != "" {
			metadata["agent_id"] = conv.Metadata.AgentID
		}
		if conv.Metadata.SessionID != "" {
			metadata["session_id"] = conv.Metadata.SessionID
		}
		if len(conv.Metadata.Tags) > 0 {
			metadata["tags"] = strings.Join(conv.Metadata.Tags, ",")
		}
	}
	if len(result.Suggestions) > 0 {
		top := result.Suggestions[0]
		metadata["category"] = top.Category
		metadata["confidence"] = strconv.Itoa(top.Confidence)
	}

	_, err := s.store.AddDocuments(ctx, []vectorstore.Document{{
		ID:       conv.ID,
		Content:  conv.Text,
		Metadata: metadata,
	}})
	if err != nil {
		return fmt.Errorf("archiving conversation %s: %w", conv.ID, err)
	}

	s.logger.Debug("archived conversation",
		zap.String("conversation_id", conv.ID),
		zap.String("category", metadata["category"]),
	)
	return nil
}

// Search finds archived conversations similar to the query. An optional
// category narrows the results.
func (s *Service) Search(ctx context.Context, query string, k int, category string) ([]Entry, error) {
	var filters map[string]string
	if category != "" {
		filters = map[string]string{"category": category}
	}

	results, err := s.store.Search(ctx, query, k, filters)
	if err != nil {
		return nil, fmt.Errorf("searching archive: %w", err)
	}

	entries := make([]Entry, len(results))
	for i, r := range results {
		entries[i] = Entry{
			ConversationID: r.Metadata["conversation_id"],
			Text:           r.Content,
			Category:       r.Metadata["category"],
			AgentID:        r.Metadata["agent_id"],
			Timestamp:      r.Metadata["timestamp"],
			Score:          r.Score,
		}
		if entries[i].ConversationID == "" {
			entries[i].ConversationID = r.ID
		}
	}
	return entries, nil
}
