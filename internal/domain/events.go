package domain

import "github.com/google/uuid"

// EventUserCreated is recorded once for every genuinely new user. The id
// is only known after the insert, see WithAggregateID.
const EventUserCreated = "user.created"

// Event is a named fact raised by an aggregate. Aggregates only record
// events; the service layer publishes them after the write commits.
type Event struct {
	Name    string
	Payload map[string]any
}

type eventRecorder struct {
	pending []Event
}

func (r *eventRecorder) record(e Event) {
	r.pending = append(r.pending, e)
}

// PullEvents returns the recorded events and clears them.
func (r *eventRecorder) PullEvents() []Event {
	out := r.pending
	r.pending = nil
	return out
}

// WithAggregateID returns copies of events whose payloads carry id under
// "id". Events are recorded before the store assigns an id.
func WithAggregateID(events []Event, id uuid.UUID) []Event {
	out := make([]Event, len(events))
	for i, e := range events {
		payload := make(map[string]any, len(e.Payload)+1)
		for k, v := range e.Payload {
			payload[k] = v
		}
		payload["id"] = id.String()
		out[i] = Event{Name: e.Name, Payload: payload}
	}
	return out
}
