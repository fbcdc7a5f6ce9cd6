package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// InMemoryEventEmitter dispatches events to handlers in the same process.
// lift uses it when no redis address is configured, so user.created is
// still observed (and logged) by cmd/lift.
//
// Handlers subscribe to one event type, or to every type through
// RegisterHandler. Dispatch is synchronous and in subscription order.
type InMemoryEventEmitter struct {
	mu      sync.RWMutex
	byType  map[string][]EventHandler
	anyType []EventHandler
	logger  *slog.Logger
}

// NewInMemoryEventEmitter creates an emitter with no subscribers.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventEmitter{
		byType: make(map[string][]EventHandler),
		logger: logger.With("component", "in_memory_event_emitter"),
	}
}

// Subscribe registers handler for events of eventType only.
func (e *InMemoryEventEmitter) Subscribe(eventType string, handler EventHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.byType[eventType] = append(e.byType[eventType], handler)
	e.logger.Debug("handler subscribed", "event_type", eventType)
}

// RegisterHandler registers handler for every event type.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.anyType = append(e.anyType, handler)
}

func (e *InMemoryEventEmitter) handlersFor(eventType string) []EventHandler {
	e.mu.RLock()
	defer e.mu.RUnlock()
	typed := e.byType[eventType]
	out := make([]EventHandler, 0, len(typed)+len(e.anyType))
	out = append(out, typed...)
	return append(out, e.anyType...)
}

// EmitEvent implements EventEmitter. Every matching handler runs even when
// an earlier one fails; the failures are joined.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *Event) error {
	handlers := e.handlersFor(event.Type)
	if len(handlers) == 0 {
		e.logger.Debug("no subscribers", "event_id", event.ID, "event_type", event.Type)
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler.HandleEvent(ctx, event); err != nil {
			e.logger.Error("handler failed",
				"error", err,
				"event_id", event.ID,
				"event_type", event.Type)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
