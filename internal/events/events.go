package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/lift-api/internal/domain"
)

// Event is the published form of a domain event.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is the domain event name, e.g. "user.created"
	Type string `json:"type"`

	// Payload contains the event data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into v.
func (e *Event) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates an Event with the given type and payload.
func NewEvent(eventType string, payload any) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// FromDomain wraps an event recorded by an aggregate.
func FromDomain(e domain.Event) (*Event, error) {
	return NewEvent(e.Name, e.Payload)
}

// EventHandler processes events dispatched by an emitter.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *Event) error
}

// EventEmitter publishes events without knowing who consumes them.
type EventEmitter interface {
	// EmitEvent publishes the given event.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *Event) error
}

// EmitAll wraps and publishes every event in order, stopping at the first
// failure.
func EmitAll(ctx context.Context, emitter EventEmitter, recorded []domain.Event) error {
	for _, r := range recorded {
		event, err := FromDomain(r)
		if err != nil {
			return err
		}
		if err := emitter.EmitEvent(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
