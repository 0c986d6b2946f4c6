// Package domain defines events for the event-driven architecture.
// Services publish events on the bus; front-ends and loggers subscribe.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Library events
	EventLibraryLoaded EventType = "library.loaded"
	EventScanStarted   EventType = "scan.started"
	EventScanProgress  EventType = "scan.progress"
	EventScanCompleted EventType = "scan.completed"
	EventScanCancelled EventType = "scan.cancelled"

	// Playlist events
	EventPlaylistCreated EventType = "playlist.created"
	EventPlaylistRenamed EventType = "playlist.renamed"
	EventPlaylistDeleted EventType = "playlist.deleted"
	EventPlaylistUpdated EventType = "playlist.updated"
	EventPlaylistMoved   EventType = "playlist.moved"

	// Settings events
	EventSettingsChanged EventType = "settings.changed"
	EventStateChanged    EventType = "state.changed"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
// All concrete events embed this struct.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// LibraryLoadedEvent is published when the saved library has been read from disk.
type LibraryLoadedEvent struct {
	baseEvent
	Tracks int
}

func (e LibraryLoadedEvent) Type() EventType { return EventLibraryLoaded }

// NewLibraryLoadedEvent creates a new LibraryLoadedEvent.
func NewLibraryLoadedEvent(tracks int) LibraryLoadedEvent {
	return LibraryLoadedEvent{baseEvent: newBaseEvent(), Tracks: tracks}
}

// ScanStartedEvent is published when a library update starts.
type ScanStartedEvent struct {
	baseEvent
	Paths []string
}

func (e ScanStartedEvent) Type() EventType { return EventScanStarted }

// NewScanStartedEvent creates a new ScanStartedEvent.
func NewScanStartedEvent(paths []string) ScanStartedEvent {
	return ScanStartedEvent{baseEvent: newBaseEvent(), Paths: paths}
}

// ScanProgressEvent is published periodically during a library update.
type ScanProgressEvent struct {
	baseEvent
	Progress ScanProgress
}

func (e ScanProgressEvent) Type() EventType { return EventScanProgress }

// NewScanProgressEvent creates a new ScanProgressEvent.
func NewScanProgressEvent(progress ScanProgress) ScanProgressEvent {
	return ScanProgressEvent{baseEvent: newBaseEvent(), Progress: progress}
}

// ScanCompletedEvent is published when a library update completes.
type ScanCompletedEvent struct {
	baseEvent
	Summary ScanSummary
}

func (e ScanCompletedEvent) Type() EventType { return EventScanCompleted }

// NewScanCompletedEvent creates a new ScanCompletedEvent.
func NewScanCompletedEvent(summary ScanSummary) ScanCompletedEvent {
	return ScanCompletedEvent{baseEvent: newBaseEvent(), Summary: summary}
}

// ScanCancelledEvent is published when a library update is canceled.
type ScanCancelledEvent struct {
	baseEvent
	Reason string
}

func (e ScanCancelledEvent) Type() EventType { return EventScanCancelled }

// NewScanCancelledEvent creates a new ScanCancelledEvent.
func NewScanCancelledEvent(reason string) ScanCancelledEvent {
	return ScanCancelledEvent{baseEvent: newBaseEvent(), Reason: reason}
}

// PlaylistEvent is published for playlist lifecycle changes.
// The concrete type is carried in Kind so one struct serves all playlist events.
type PlaylistEvent struct {
	baseEvent
	Kind       EventType
	PlaylistID uint32
	Name       string
	Tracks     int
}

func (e PlaylistEvent) Type() EventType { return e.Kind }

// NewPlaylistEvent creates a playlist event of the given kind.
func NewPlaylistEvent(kind EventType, p *Playlist) PlaylistEvent {
	return PlaylistEvent{
		baseEvent:  newBaseEvent(),
		Kind:       kind,
		PlaylistID: p.ID,
		Name:       p.Name,
		Tracks:     len(p.Tracks),
	}
}

// PlaylistMovedEvent is published when the navigation order changes.
type PlaylistMovedEvent struct {
	baseEvent
	PlaylistID uint32
	Order      []uint32
}

func (e PlaylistMovedEvent) Type() EventType { return EventPlaylistMoved }

// NewPlaylistMovedEvent creates a new PlaylistMovedEvent.
func NewPlaylistMovedEvent(id uint32, order []uint32) PlaylistMovedEvent {
	return PlaylistMovedEvent{baseEvent: newBaseEvent(), PlaylistID: id, Order: order}
}

// SettingsChangedEvent is published after settings were persisted.
type SettingsChangedEvent struct {
	baseEvent
	Settings Settings
}

func (e SettingsChangedEvent) Type() EventType { return EventSettingsChanged }

// NewSettingsChangedEvent creates a new SettingsChangedEvent.
func NewSettingsChangedEvent(settings Settings) SettingsChangedEvent {
	return SettingsChangedEvent{baseEvent: newBaseEvent(), Settings: settings}
}

// StateChangedEvent is published after view state was persisted.
type StateChangedEvent struct {
	baseEvent
	State State
}

func (e StateChangedEvent) Type() EventType { return EventStateChanged }

// NewStateChangedEvent creates a new StateChangedEvent.
func NewStateChangedEvent(state State) StateChangedEvent {
	return StateChangedEvent{baseEvent: newBaseEvent(), State: state}
}
