// Package bus publishes pipeline lifecycle events so downstream consumers
// (dashboards, experiment trackers) can follow index builds, searches, and
// evaluation runs.
package bus

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Handler is a function that handles events.
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for event bus implementations.
type Bus interface {
	// Publish publishes an event to a topic.
	Publish(ctx context.Context, topic string, event Event) error

	// Subscribe subscribes to events on a topic.
	Subscribe(ctx context.Context, topic string, handler Handler) error

	// Close closes the bus and releases resources.
	Close() error
}

// Event represents a bus event.
type Event struct {
	// ID is the unique event identifier.
	ID string `json:"id"`

	// Type is the event type, equal to the topic it is published on.
	Type string `json:"type"`

	// Source is the component that generated the event.
	Source string `json:"source"`

	// Timestamp is when the event was created, in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`

	// Payload contains the event data.
	Payload any `json:"payload"`
}

// NewEvent creates an event with a fresh ID and current timestamp.
func NewEvent(eventType, source string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    source,
		Timestamp: time.Now().UnixMilli(),
		Payload:   payload,
	}
}

// Topics for pipeline lifecycle events.
const (
	// TopicIndexBuilt fires after all retrieval models finish indexing a
	// collection.
	TopicIndexBuilt = "index.built"

	// TopicSearchCompleted fires after a query runs across all models.
	TopicSearchCompleted = "search.completed"

	// TopicEvaluationCompleted fires after an evaluation run finishes.
	TopicEvaluationCompleted = "evaluation.completed"
)
