package event

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Handler processes a published event. A non-nil error (or a panic) is logged
// and isolated; it never reaches the publisher and never rolls back the
// already-committed mutation.
type Handler func(ctx context.Context, e Event) error

// Dispatcher is an explicit registry mapping event kind to an ordered list of
// handlers. It is constructed once at process start and passed to the
// components that publish; there is no global instance.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Kind][]Handler
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[Kind][]Handler),
	}
}

// Subscribe registers a handler for the given event kind. Handlers are
// invoked in registration order.
func (d *Dispatcher) Subscribe(kind Kind, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[kind] = append(d.handlers[kind], h)
}

// Publish delivers the event to every handler registered for its kind,
// synchronously and in registration order, each to completion. Handler
// failures are logged and do not stop delivery to the remaining handlers;
// Publish itself never fails.
func (d *Dispatcher) Publish(ctx context.Context, e Event) {
	d.mu.RLock()
	handlers := d.handlers[e.Kind()]
	d.mu.RUnlock()

	for i, h := range handlers {
		if err := d.invoke(ctx, h, e); err != nil {
			slog.Error("event handler failed",
				"event_kind", e.Kind(),
				"handler_index", i,
				"error", err,
			)
		}
	}
}

// invoke runs a single handler, converting a panic into an error so one
// faulty handler cannot take down the publishing request.
func (d *Dispatcher) invoke(ctx context.Context, h Handler, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h(ctx, e)
}
