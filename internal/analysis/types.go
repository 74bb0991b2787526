package analysis

import (
	"time"
)

// Priority classifies how urgent the content of a conversation is.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Conversation is one captured conversation to be analyzed. It is immutable
// once constructed and owned by the caller.
type Conversation struct {
	// ID is an opaque identifier, unique per conversation.
	ID string `json:"id"`

	// Text is the full transcript as a single blob.
	Text string `json:"text"`

	// Timestamp is the capture time in ISO-8601 form.
	Timestamp string `json:"timestamp"`

	// Metadata carries optional provenance from the capture pipeline.
	Metadata *Metadata `json:"metadata,omitempty"`
}

// Metadata is the optional provenance bag attached to a conversation.
type Metadata struct {
	AgentID   string   `json:"agent_id,omitempty"`
	SessionID string   `json:"session_id,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// Insights holds the extracted supporting material for one suggestion.
type Insights struct {
	KeyInsights  []string `json:"key_insights"`
	ActionItems  []string `json:"action_items"`
	Stakeholders []string `json:"stakeholders"`
	Priority     Priority `json:"priority"`
}

// Suggestion is a proposed knowledge-base entry generated from a
// conversation, one per category judged relevant. Suggestions are created
// fresh per analysis call and never mutated.
type Suggestion struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Category     string   `json:"category"`
	Description  string   `json:"description"`
	RelevantData Insights `json:"relevant_data"`

	// Confidence is round(relevanceScore*100), always in 0..100.
	Confidence int `json:"confidence"`

	// Source is a free-text provenance label embedding a prefix of the
	// conversation id.
	Source string `json:"source"`
}

// Result is the envelope returned by Analyze. It is always valid: analysis
// failures produce an empty suggestion list with zero confidence rather
// than an error.
type Result struct {
	Suggestions []Suggestion `json:"suggestions"`

	// Confidence is the maximum suggestion confidence, or 0 when there are
	// no suggestions.
	Confidence int `json:"confidence"`

	ProcessingTime time.Duration `json:"processing_time"`
}
