// Package eventbus provides implementations of the EventBus interface.
package eventbus

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/tejashwikalptaru/etherealwaves/internal/domain"
	"github.com/tejashwikalptaru/etherealwaves/internal/ports"
)

// ErrClosed is returned by Close when the bus was already closed.
var ErrClosed = errors.New("event bus already closed")

// SyncEventBus delivers events synchronously, in subscription order:
// first the handlers registered for the event type, then wildcard handlers.
//
// Thread-safety: publishing and (un)subscribing may happen from any goroutine.
// Handlers run on the publisher's goroutine, so slow handlers delay the publisher.
type SyncEventBus struct {
	logger *slog.Logger

	mu       sync.RWMutex
	typed    map[domain.EventType][]subscription
	wildcard []subscription
	nextID   uint64
	closed   bool
}

type subscription struct {
	id      domain.SubscriptionID
	filter  ports.EventFilter
	handler domain.EventHandler
}

// NewSyncEventBus creates a new synchronous event bus.
func NewSyncEventBus() *SyncEventBus {
	return &SyncEventBus{
		typed: make(map[domain.EventType][]subscription),
	}
}

// SetLogger sets the logger for this event bus.
// This should be called after construction before using the event bus.
func (bus *SyncEventBus) SetLogger(logger *slog.Logger) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.logger = logger
}

// Publish publishes an event to all subscribers of that event type.
// Publishing on a closed bus or publishing nil does nothing.
//
// Panics in handlers are recovered and logged, and do not stop other handlers
// from being called.
func (bus *SyncEventBus) Publish(event domain.Event) {
	if event == nil {
		return
	}

	bus.mu.RLock()
	if bus.closed {
		bus.mu.RUnlock()
		return
	}
	targets := make([]subscription, 0, len(bus.typed[event.Type()])+len(bus.wildcard))
	targets = append(targets, bus.typed[event.Type()]...)
	targets = append(targets, bus.wildcard...)
	logger := bus.logger
	bus.mu.RUnlock()

	if logger != nil {
		logger.Debug("event published",
			slog.String("event_type", string(event.Type())),
			slog.Int("handlers", len(targets)))
	}

	for _, sub := range targets {
		if sub.filter != nil && !sub.filter(event) {
			continue
		}
		bus.dispatch(logger, sub, event)
	}
}

func (bus *SyncEventBus) dispatch(logger *slog.Logger, sub subscription, event domain.Event) {
	defer func() {
		if r := recover(); r != nil && logger != nil {
			logger.Error("event handler panicked",
				slog.Any("panic", r),
				slog.String("subscription", string(sub.id)),
				slog.String("event_type", string(event.Type())))
		}
	}()
	sub.handler(event)
}

// Subscribe registers a handler for events of the specified type.
func (bus *SyncEventBus) Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID {
	return bus.SubscribeFiltered(eventType, nil, handler)
}

// SubscribeFiltered registers a handler that is only called for events passing filter.
// A nil filter accepts every event.
func (bus *SyncEventBus) SubscribeFiltered(eventType domain.EventType, filter ports.EventFilter, handler domain.EventHandler) domain.SubscriptionID {
	if handler == nil {
		panic("event handler cannot be nil")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		panic("cannot subscribe to closed event bus")
	}

	bus.nextID++
	sub := subscription{
		id:      domain.SubscriptionID(fmt.Sprintf("sub-%d", bus.nextID)),
		filter:  filter,
		handler: handler,
	}
	bus.typed[eventType] = append(bus.typed[eventType], sub)
	return sub.id
}

// SubscribeAll registers a handler that receives all events regardless of type.
// This is what the application uses for debug logging.
func (bus *SyncEventBus) SubscribeAll(handler domain.EventHandler) domain.SubscriptionID {
	if handler == nil {
		panic("event handler cannot be nil")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		panic("cannot subscribe to closed event bus")
	}

	bus.nextID++
	sub := subscription{
		id:      domain.SubscriptionID(fmt.Sprintf("sub-all-%d", bus.nextID)),
		handler: handler,
	}
	bus.wildcard = append(bus.wildcard, sub)
	return sub.id
}

// Unsubscribe removes a previously registered event handler.
// Remaining handlers keep their relative order.
func (bus *SyncEventBus) Unsubscribe(id domain.SubscriptionID) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	match := func(s subscription) bool { return s.id == id }

	for eventType, subs := range bus.typed {
		if i := slices.IndexFunc(subs, match); i >= 0 {
			bus.typed[eventType] = slices.Delete(subs, i, i+1)
			return
		}
	}
	bus.wildcard = slices.DeleteFunc(bus.wildcard, match)
}

// HasSubscribers returns true if a handler would receive events of eventType.
func (bus *SyncEventBus) HasSubscribers(eventType domain.EventType) bool {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	return len(bus.typed[eventType]) > 0 || len(bus.wildcard) > 0
}

// Close shuts down the event bus and clears all subscriptions.
// Returns ErrClosed if already closed.
func (bus *SyncEventBus) Close() error {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		return ErrClosed
	}
	bus.closed = true
	bus.typed = make(map[domain.EventType][]subscription)
	bus.wildcard = nil
	return nil
}

// SubscriberCount returns the number of active subscriptions for debugging.
func (bus *SyncEventBus) SubscriberCount() int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	count := len(bus.wildcard)
	for _, subs := range bus.typed {
		count += len(subs)
	}
	return count
}

var _ ports.FilteringEventBus = (*SyncEventBus)(nil)
