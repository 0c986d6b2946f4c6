// Package ports define repository interfaces for data persistence abstraction.
// These interfaces enable the repository pattern and allow swapping persistence mechanisms.
package ports

import (
	"github.com/tejashwikalptaru/etherealwaves/internal/domain"
)

// LibraryRepository persists the indexed media library.
//
// Thread-safety: Implementations must be thread-safe.
type LibraryRepository interface {
	// Save replaces the stored library with tracks keyed by path.
	Save(tracks map[string]domain.Track) error

	// Load returns the stored library.
	// If nothing was saved yet, returns an empty map (not an error).
	Load() (map[string]domain.Track, error)
}

// PlaylistRepository handles the persistence of user playlists.
// The library playlist is derived from the library and never stored.
//
// Thread-safety: Implementations must be thread-safe.
type PlaylistRepository interface {
	// Save persists a playlist.
	// If a playlist with the same ID exists, it is replaced.
	Save(playlist *domain.Playlist) error

	// Load retrieves a playlist by ID.
	// If the playlist doesn't exist, returns domain.ErrPlaylistNotFound.
	Load(id uint32) (*domain.Playlist, error)

	// LoadAll retrieves all saved playlists.
	// Unreadable entries are skipped and logged.
	LoadAll() ([]*domain.Playlist, error)

	// Delete removes a playlist by ID.
	// If the playlist doesn't exist, returns domain.ErrPlaylistNotFound.
	Delete(id uint32) error

	// Exists checks if a playlist with the given ID exists.
	Exists(id uint32) bool
}

// SettingsRepository persists user settings and view state.
//
// Thread-safety: Implementations must be thread-safe.
type SettingsRepository interface {
	// LoadSettings returns the saved settings, or defaults if none were saved.
	LoadSettings() (domain.Settings, error)

	// SaveSettings persists settings.
	SaveSettings(settings domain.Settings) error

	// LoadState returns the saved view state, or defaults if none was saved.
	LoadState() (domain.State, error)

	// SaveState persists view state.
	SaveState(state domain.State) error
}
