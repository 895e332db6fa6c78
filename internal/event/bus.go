package event

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"kubezen/pkg/logging"
)

// Handler processes a single event. Handlers subscribed to the same type run
// concurrently with each other and must be safe to invoke from any goroutine.
type Handler func(ctx context.Context, e Event) error

// Bus is a typed publish/subscribe primitive. Publish joins on all handlers
// before returning; it never retries, and any resilience is the caller's
// responsibility.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

// Subscribe registers a handler for the given event type. Registration order
// is preserved for readability only; dispatch is concurrent.
func (b *Bus) Subscribe(eventType string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], h)
	logging.Debug("EventBus", "subscribed handler %d for %s", len(b.handlers[eventType]), eventType)
}

// Publish dispatches the event to every handler registered for its type,
// running them concurrently and returning once all have completed. The first
// handler error is returned; sibling handlers still run to completion.
//
// An event with no subscribers is logged and dropped rather than treated as
// an error. Most event types are expected to have exactly one subscriber, so
// a missing registration is almost always a wiring bug; the log line is the
// only trace of it.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[e.Type()]))
	copy(handlers, b.handlers[e.Type()])
	b.mu.RUnlock()

	if len(handlers) == 0 {
		logging.Warn("EventBus", "no handlers registered for event type %s", e.Type())
		return nil
	}

	g := new(errgroup.Group)
	for _, h := range handlers {
		g.Go(func() error {
			return h(ctx, e)
		})
	}
	return g.Wait()
}

// SubscriberCount reports how many handlers are registered for a type.
func (b *Bus) SubscriberCount(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}
