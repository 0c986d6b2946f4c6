// Package domain contains core business models and logic with no external dependencies.
// This package defines the fundamental entities of the Ethereal Waves music player.
package domain

import (
	"math"
	"time"
)

// Track represents a single audio file in the library with its metadata.
// Zero values mean the tag was absent from the file.
type Track struct {
	// ID is a stable identifier derived from the absolute file path.
	// Tracks without an ID are treated as incomplete and dropped on load.
	ID string `json:"id"`

	// Path is the absolute path to the audio file on the filesystem
	Path string `json:"path"`

	Title       string `json:"title,omitempty"`
	Artist      string `json:"artist,omitempty"`
	Album       string `json:"album,omitempty"`
	AlbumArtist string `json:"album_artist,omitempty"`
	Genre       string `json:"genre,omitempty"`
	Composer    string `json:"composer,omitempty"`
	Comment     string `json:"comment,omitempty"`
	Year        int    `json:"year,omitempty"`

	TrackNumber int `json:"track_number,omitempty"`
	TrackCount  int `json:"track_count,omitempty"`
	DiscNumber  int `json:"disc_number,omitempty"`
	DiscCount   int `json:"disc_count,omitempty"`

	// FileFormat is the lowercase file extension without the dot (mp3, flac, ...)
	FileFormat string `json:"file_format"`

	// Container is the tag container detected in the file (ID3v2.4, VORBIS, MP4, ...)
	Container string `json:"container,omitempty"`

	// Artwork is the file name of the cached cover image, empty if the file had none.
	Artwork string `json:"artwork,omitempty"`

	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// DisplayTitle returns the title, or fallback when the file carried no title tag.
func (t Track) DisplayTitle(fallback string) string {
	if t.Title != "" {
		return t.Title
	}
	return fallback
}

// PlaylistKind distinguishes the implicit library playlist from user playlists.
type PlaylistKind string

const (
	// KindLibrary is the playlist holding every indexed track
	KindLibrary PlaylistKind = "library"

	// KindUser is a playlist created by the user
	KindUser PlaylistKind = "user"
)

// LibraryPlaylistID is the reserved ID of the library playlist.
// User playlist IDs are random, non-zero and never equal to this value.
const LibraryPlaylistID uint32 = math.MaxUint32

// Playlist represents an ordered collection of tracks.
type Playlist struct {
	ID     uint32       `json:"id"`
	Name   string       `json:"name"`
	Kind   PlaylistKind `json:"kind"`
	Tracks []Track      `json:"tracks"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsLibrary reports whether p is the implicit library playlist.
func (p *Playlist) IsLibrary() bool {
	return p.Kind == KindLibrary
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	return len(p.Tracks)
}

// Clone returns a deep copy safe to hand out of a service.
func (p *Playlist) Clone() *Playlist {
	c := *p
	c.Tracks = make([]Track, len(p.Tracks))
	copy(c.Tracks, p.Tracks)
	return &c
}

// AppTheme is the UI theme preference.
type AppTheme string

const (
	ThemeDark   AppTheme = "dark"
	ThemeLight  AppTheme = "light"
	ThemeSystem AppTheme = "system"
)

// Valid reports whether t is one of the known themes.
func (t AppTheme) Valid() bool {
	switch t {
	case ThemeDark, ThemeLight, ThemeSystem:
		return true
	}
	return false
}

// Settings are the user-facing configuration persisted in config.toml.
type Settings struct {
	// AppTheme is the UI theme (dark, light, system)
	AppTheme AppTheme `toml:"app_theme"`

	// LibraryPaths are directories scanned when the library is updated.
	// Kept sorted and free of duplicates.
	LibraryPaths []string `toml:"library_paths"`

	// Locale overrides the desktop language when not empty (e.g. "nl").
	Locale string `toml:"locale,omitempty"`

	// ListTextWrap wraps long titles in list rows instead of truncating them.
	ListTextWrap bool `toml:"list_text_wrap"`
}

// DefaultSettings returns settings for a first run.
func DefaultSettings() Settings {
	return Settings{
		AppTheme:     ThemeSystem,
		LibraryPaths: []string{},
	}
}

// Zoom bounds for the list view size multiplier.
const (
	ZoomMin     = 0.5
	ZoomMax     = 3.0
	ZoomStep    = 0.25
	ZoomDefault = 1.0
)

// State is window and view state persisted in state.toml between sessions.
type State struct {
	SortBy        SortBy        `toml:"sort_by"`
	SortDirection SortDirection `toml:"sort_direction"`

	// PlaylistOrder is the navigation order of user playlists by ID.
	PlaylistOrder []uint32 `toml:"playlist_order"`

	WindowWidth  float64 `toml:"window_width"`
	WindowHeight float64 `toml:"window_height"`
	ZoomLevel    float64 `toml:"zoom_level"`
}

// DefaultState returns the state used when nothing was saved.
func DefaultState() State {
	return State{
		SortBy:        SortByArtist,
		SortDirection: Ascending,
		PlaylistOrder: []uint32{},
		WindowWidth:   1024,
		WindowHeight:  768,
		ZoomLevel:     ZoomDefault,
	}
}

// ScanProgress represents the progress of a library update.
type ScanProgress struct {
	// CurrentFile is the last file whose metadata was read
	CurrentFile string

	// FilesScanned is the number of files processed so far
	FilesScanned int

	// TotalFiles is the number of candidate audio files found
	TotalFiles int

	// TracksFound is the number of files indexed successfully
	TracksFound int
}

// Percentage returns the completion percentage (0-100), or -1 if total is unknown.
func (p ScanProgress) Percentage() float64 {
	if p.TotalFiles <= 0 {
		return -1
	}
	return float64(p.FilesScanned) / float64(p.TotalFiles) * 100.0
}

// ScanSummary describes a finished library update.
type ScanSummary struct {
	TracksFound  int
	FilesSkipped int
	Elapsed      time.Duration
}
