package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/cellundo/internal/event/topic"
)

// Event is a single published occurrence.
// Events are values and are not modified after creation.
type Event struct {
	// Topic is the hierarchical event type (e.g. "history.undone").
	Topic topic.Topic

	// Payload carries the event-specific data.
	Payload any

	// Metadata carries standard event information.
	Metadata Metadata
}

// Metadata contains standard information attached to every event.
type Metadata struct {
	// ID uniquely identifies this event instance.
	ID string

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Source identifies the component that published the event.
	Source string
}

// New creates an event with a fresh ID and timestamp.
func New(t topic.Topic, payload any, source string) Event {
	return Event{
		Topic:   t,
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}
