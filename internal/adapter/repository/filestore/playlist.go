package filestore

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/tejashwikalptaru/etherealwaves/internal/domain"
	"github.com/tejashwikalptaru/etherealwaves/internal/ports"
)

// PlaylistDir is the directory under the data directory holding one
// <id>.json file per user playlist.
const PlaylistDir = "playlists"

// PlaylistRepository implements ports.PlaylistRepository with one JSON file
// per playlist.
//
// Thread-safe: All operations protected by sync.RWMutex.
type PlaylistRepository struct {
	dir    string
	mu     sync.RWMutex
	logger *slog.Logger
}

// Ensure PlaylistRepository implements ports.PlaylistRepository
var _ ports.PlaylistRepository = (*PlaylistRepository)(nil)

// NewPlaylistRepository creates a repository under <dataDir>/playlists.
func NewPlaylistRepository(dataDir string, logger *slog.Logger) *PlaylistRepository {
	return &PlaylistRepository{
		dir:    filepath.Join(dataDir, PlaylistDir),
		logger: logger.With(slog.String("repository", "playlist")),
	}
}

func (r *PlaylistRepository) file(id uint32) string {
	return filepath.Join(r.dir, strconv.FormatUint(uint64(id), 10)+".json")
}

// Save persists a playlist, replacing any previous version.
// The library playlist is derived from the library and is never stored.
func (r *PlaylistRepository) Save(playlist *domain.Playlist) error {
	if playlist == nil {
		return domain.NewValidationError("playlist", nil, "playlist is nil")
	}
	if playlist.IsLibrary() || playlist.ID == domain.LibraryPlaylistID {
		return domain.NewRepositoryError("save", "playlist", "library playlist is not stored", domain.ErrLibraryPlaylistReadOnly)
	}
	if playlist.ID == 0 {
		return domain.NewValidationError("id", playlist.ID, "playlist ID must be non-zero")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(playlist)
	if err != nil {
		return domain.NewRepositoryError("save", "playlist", "failed to marshal playlist", err)
	}
	if err := writeFileAtomic(r.file(playlist.ID), data, 0o644); err != nil {
		return domain.NewRepositoryError("save", "playlist", "failed to write playlist", err)
	}
	return nil
}

// Load retrieves a playlist by ID.
func (r *PlaylistRepository) Load(id uint32) (*domain.Playlist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.load(r.file(id))
}

func (r *PlaylistRepository) load(path string) (*domain.Playlist, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, domain.ErrPlaylistNotFound
	}
	if err != nil {
		return nil, domain.NewRepositoryError("load", "playlist", "failed to read "+path, err)
	}

	var playlist domain.Playlist
	if err := json.Unmarshal(data, &playlist); err != nil {
		return nil, domain.NewRepositoryError("load", "playlist", "failed to unmarshal "+path, err)
	}
	if playlist.Kind == "" {
		playlist.Kind = domain.KindUser
	}
	if playlist.Tracks == nil {
		playlist.Tracks = []domain.Track{}
	}
	return &playlist, nil
}

// LoadAll retrieves every stored playlist ordered by ID.
// Files that cannot be read or whose name is not a playlist ID are skipped.
func (r *PlaylistRepository) LoadAll() ([]*domain.Playlist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, err := os.ReadDir(r.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []*domain.Playlist{}, nil
	}
	if err != nil {
		return nil, domain.NewRepositoryError("load", "playlist", "failed to list "+r.dir, err)
	}

	playlists := make([]*domain.Playlist, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		id, err := strconv.ParseUint(strings.TrimSuffix(name, ".json"), 10, 32)
		if err != nil || id == 0 || uint32(id) == domain.LibraryPlaylistID {
			r.logger.Warn("skipping unexpected file", slog.String("file", name))
			continue
		}

		p, err := r.load(filepath.Join(r.dir, name))
		if err != nil {
			r.logger.Warn("skipping unreadable playlist", slog.String("file", name), slog.Any("error", err))
			continue
		}
		if p.ID != uint32(id) {
			r.logger.Warn("playlist ID does not match file name",
				slog.String("file", name), slog.Uint64("id", uint64(p.ID)))
			p.ID = uint32(id)
		}
		playlists = append(playlists, p)
	}

	slices.SortFunc(playlists, func(a, b *domain.Playlist) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return playlists, nil
}

// Delete removes a playlist by ID.
func (r *PlaylistRepository) Delete(id uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := os.Remove(r.file(id))
	if errors.Is(err, os.ErrNotExist) {
		return domain.ErrPlaylistNotFound
	}
	if err != nil {
		return domain.NewRepositoryError("delete", "playlist", fmt.Sprintf("failed to delete playlist %d", id), err)
	}
	return nil
}

// Exists checks if a playlist with the given ID is stored.
func (r *PlaylistRepository) Exists(id uint32) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, err := os.Stat(r.file(id))
	return err == nil
}
