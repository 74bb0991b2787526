// Package events publishes story lifecycle events over NATS so other
// services can react to newly added stories.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/chronicled/internal/story"
)

// DefaultSubject is the subject story-added events publish to.
const DefaultSubject = "chronicled.story.added"

// StoryAdded is the wire form of a story-added event.
type StoryAdded struct {
	Story     story.Story `json:"story"`
	Category  string      `json:"category"`
	Timestamp time.Time   `json:"timestamp"`
	Source    string      `json:"source,omitempty"`
}

// Publisher publishes story events to NATS.
type Publisher struct {
	nc      *nats.Conn
	subject string
	logger  *zap.Logger
}

// Connect dials NATS and returns a publisher on the given subject.
func Connect(url, subject string, logger *zap.Logger) (*Publisher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if subject == "" {
		subject = DefaultSubject
	}

	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(1*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}

	logger.Info("connected to NATS", zap.String("url", url), zap.String("subject", subject))
	return NewPublisher(nc, subject, logger), nil
}

// NewPublisher wraps an existing NATS connection.
func NewPublisher(nc *nats.Conn, subject string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if subject == "" {
		subject = DefaultSubject
	}
	return &Publisher{nc: nc, subject: subject, logger: logger}
}

// Publish sends a story-added event. Marshal or transport failures are
// returned to the caller; the publisher does not retry.
func (p *Publisher) Publish(ev StoryAdded) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	if err := p.nc.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publishing to %s: %w", p.subject, err)
	}
	return nil
}

// Listener adapts the publisher to the story service's listener hook.
// Publish failures are logged, not propagated; event delivery is
// best-effort and must not affect story additions.
func (p *Publisher) Listener() story.Listener {
	return func(ev story.AddedEvent) {
		err := p.Publish(StoryAdded{
			Story:     ev.Story,
			Category:  ev.Category,
			Timestamp: ev.Timestamp,
			Source:    ev.Source,
		})
		if err != nil {
			p.logger.Warn("failed to publish story event",
				zap.String("story_id", ev.Story.ID),
				zap.Error(err),
			)
		}
	}
}

// Close drains the underlying connection.
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
