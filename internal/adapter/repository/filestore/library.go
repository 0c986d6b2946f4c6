package filestore

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/tejashwikalptaru/etherealwaves/internal/domain"
	"github.com/tejashwikalptaru/etherealwaves/internal/ports"
)

// LibraryFile is the name of the library document in the data directory.
const LibraryFile = "library.json"

// LibraryRepository implements ports.LibraryRepository as one JSON document
// mapping file path to track.
//
// Thread-safe: All operations protected by sync.RWMutex.
type LibraryRepository struct {
	path   string
	mu     sync.RWMutex
	logger *slog.Logger
}

// Ensure LibraryRepository implements ports.LibraryRepository
var _ ports.LibraryRepository = (*LibraryRepository)(nil)

// NewLibraryRepository creates a repository storing library.json in dataDir.
func NewLibraryRepository(dataDir string, logger *slog.Logger) *LibraryRepository {
	return &LibraryRepository{
		path:   filepath.Join(dataDir, LibraryFile),
		logger: logger.With(slog.String("repository", "library")),
	}
}

// Save replaces the stored library.
func (r *LibraryRepository) Save(tracks map[string]domain.Track) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tracks == nil {
		tracks = map[string]domain.Track{}
	}
	data, err := json.Marshal(tracks)
	if err != nil {
		return domain.NewRepositoryError("save", "library", "failed to marshal library", err)
	}
	if err := writeFileAtomic(r.path, data, 0o644); err != nil {
		return domain.NewRepositoryError("save", "library", "failed to write "+r.path, err)
	}

	r.logger.Debug("library saved", slog.Int("tracks", len(tracks)))
	return nil
}

// Load reads the stored library. Entries without an ID are dropped, and
// entries whose path key disagrees with the track are re-keyed by the key.
func (r *LibraryRepository) Load() (map[string]domain.Track, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]domain.Track{}, nil
	}
	if err != nil {
		return nil, domain.NewRepositoryError("load", "library", "failed to read "+r.path, err)
	}

	var stored map[string]domain.Track
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, domain.NewRepositoryError("load", "library", "failed to unmarshal library", err)
	}

	tracks := make(map[string]domain.Track, len(stored))
	dropped := 0
	for path, t := range stored {
		if t.ID == "" || path == "" {
			dropped++
			continue
		}
		t.Path = path
		tracks[path] = t
	}
	if dropped > 0 {
		r.logger.Warn("dropped incomplete library entries", slog.Int("count", dropped))
	}

	r.logger.Debug("library loaded", slog.Int("tracks", len(tracks)))
	return tracks, nil
}
