// Package ports define the EventBus interface for event-driven communication.
package ports

import (
	"github.com/tejashwikalptaru/etherealwaves/internal/domain"
)

// EventBus is the interface for publishing and subscribing to events.
// Services publish library, playlist and settings changes; front-ends and
// loggers subscribe without the services knowing about them.
//
// Thread-safety: Implementations must be thread-safe as events may be published and
// subscribed from multiple goroutines simultaneously.
//
// Example usage:
//
//	subID := bus.Subscribe(domain.EventScanProgress, func(event domain.Event) {
//	    e := event.(domain.ScanProgressEvent)
//	    fmt.Printf("%d/%d\n", e.Progress.FilesScanned, e.Progress.TotalFiles)
//	})
//	defer bus.Unsubscribe(subID)
type EventBus interface {
	// Publish delivers an event to all subscribers of its type, then to
	// wildcard subscribers. Handlers must return quickly.
	Publish(event domain.Event)

	// Subscribe registers a handler for events of the specified type and
	// returns an ID for Unsubscribe.
	Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID

	// Unsubscribe removes a previously registered event handler.
	// Unknown IDs are a no-op.
	Unsubscribe(id domain.SubscriptionID)

	// SubscribeAll registers a handler that receives all events regardless of type.
	SubscribeAll(handler domain.EventHandler) domain.SubscriptionID

	// HasSubscribers returns true if there are any active subscriptions for the given event type.
	HasSubscribers(eventType domain.EventType) bool

	// Close shuts down the event bus and drops all subscriptions.
	Close() error
}

// EventFilter is a function that determines if an event should be delivered to a subscriber.
type EventFilter func(event domain.Event) bool

// FilteringEventBus extends EventBus with filtered subscriptions.
type FilteringEventBus interface {
	EventBus

	// SubscribeFiltered registers a handler that only sees events passing filter.
	//
	// Example: only changes to one playlist
	//	bus.SubscribeFiltered(domain.EventPlaylistUpdated, func(e domain.Event) bool {
	//	    return e.(domain.PlaylistEvent).PlaylistID == id
	//	}, refresh)
	SubscribeFiltered(eventType domain.EventType, filter EventFilter, handler domain.EventHandler) domain.SubscriptionID
}
