// Package story owns the collection of knowledge-base stories shown in the
// UI: a static, hand-authored set per category plus the dynamic stories
// created at runtime from confirmed analysis suggestions. Dynamic stories
// are persisted to a durable key-value store on every mutation; persistence
// is best-effort and never blocks the in-memory change.
package story

import (
	"time"
)

// Status tracks a story's editorial state.
type Status string

const (
	StatusComplete   Status = "complete"
	StatusProgress   Status = "progress"
	StatusIncomplete Status = "incomplete"
)

// Story is one knowledge-base entry. Static stories are immutable constants
// compiled into this package; dynamic stories are created from suggestions
// and live until explicitly removed or cleared.
type Story struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`

	// Date is an ISO date string (YYYY-MM-DD).
	Date string `json:"date"`

	Tags   []string `json:"tags"`
	Author string   `json:"author,omitempty"`
}

// AddedEvent notifies listeners that a dynamic story was added. It is
// ephemeral: it exists only to drive reactions and is never persisted.
type AddedEvent struct {
	Story     Story     `json:"story"`
	Category  string    `json:"category"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

// Listener receives added-story events synchronously. A panicking listener
// is isolated: it cannot block other listeners or abort the addition.
type Listener func(AddedEvent)

// Update is a partial story change. Nil fields are left untouched; a nil
// Tags slice means "keep existing tags".
type Update struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Status      *Status  `json:"status,omitempty"`
	Date        *string  `json:"date,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Author      *string  `json:"author,omitempty"`
}

// Stats aggregates the merged story collection.
type Stats struct {
	Total         int            `json:"total"`
	ByStatus      map[Status]int `json:"by_status"`
	ByCategory    map[string]int `json:"by_category"`
	AddedLastWeek int            `json:"added_last_week"`
}
