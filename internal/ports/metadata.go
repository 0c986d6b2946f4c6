// Package ports define interfaces for dependency inversion.
// These interfaces keep the services independent of tag libraries and storage formats.
package ports

import (
	"github.com/tejashwikalptaru/etherealwaves/internal/domain"
)

// MetadataReader extracts track metadata from an audio file.
// This is used by library updates to index files without decoding audio.
//
// Implementations must be safe for concurrent use: the library service calls
// Read from a pool of workers.
type MetadataReader interface {
	// Read returns a Track for filePath with ID, Path, Size, ModTime and
	// FileFormat always populated. Missing tags leave fields at zero values.
	//
	// Returns domain.ErrFileNotFound when the file does not exist.
	Read(filePath string) (*domain.Track, error)
}

// Translator renders user-facing strings.
// Services use it for default names such as the untitled playlist.
type Translator interface {
	// T renders the message identified by key. It never fails: a missing key
	// yields the key itself and a missing argument yields the raw template.
	T(key string, args map[string]any) string
}
