// Package event provides a synchronous in-process event dispatcher.
//
//	bus := event.NewBus()
//	bus.Listen("store.deleted", func(ctx context.Context, payload any) { ... })
//	bus.Fire(ctx, "store.deleted", services.Change{StoreID: 3})
package event

import (
	"context"
	"sync"

	"github.com/shashiranjanraj/inventory/pkg/logger"
	"github.com/shashiranjanraj/inventory/pkg/metrics"
)

// Handler receives an event payload.
type Handler func(ctx context.Context, payload any)

// Bus holds listeners by event name. The zero value is not usable; use NewBus.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: map[string][]Handler{}}
}

// Listen registers a handler for the given event name.
func (b *Bus) Listen(event string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], handler)
}

// Fire dispatches an event synchronously to all registered listeners in
// registration order. A panicking listener is logged and does not stop the
// others.
func (b *Bus) Fire(ctx context.Context, event string, payload any) {
	if b == nil {
		return
	}
	b.mu.RLock()
	hs := make([]Handler, len(b.handlers[event]))
	copy(hs, b.handlers[event])
	b.mu.RUnlock()

	metrics.DomainEvents.WithLabelValues(event).Inc()
	for _, h := range hs {
		call(ctx, event, h, payload)
	}
}

func call(ctx context.Context, event string, h Handler, payload any) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.WithCtx(ctx).Error("event listener panicked", "event", event, "panic", rec)
		}
	}()
	h(ctx, payload)
}

// Flush removes all listeners.
func (b *Bus) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = map[string][]Handler{}
}
