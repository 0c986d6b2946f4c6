package service

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/tejashwikalptaru/etherealwaves/internal/domain"
	"github.com/tejashwikalptaru/etherealwaves/internal/ports"
)

// IDGenerator returns candidate playlist IDs.
type IDGenerator func() uint32

// PlaylistService manages user playlists and their navigation order.
// The library playlist is presented alongside them but is read-only.
// All operations are thread-safe via sync.RWMutex.
type PlaylistService struct {
	// Dependencies (injected)
	logger     *slog.Logger
	repository ports.PlaylistRepository
	library    *LibraryService
	settings   *SettingsService
	bus        ports.EventBus
	tr         ports.Translator
	newID      IDGenerator
	now        func() time.Time

	// State
	playlists map[uint32]*domain.Playlist
	order     []uint32

	mu sync.RWMutex
}

// PlaylistOption configures a PlaylistService.
type PlaylistOption func(*PlaylistService)

// WithIDGenerator replaces the random ID source.
func WithIDGenerator(gen IDGenerator) PlaylistOption {
	return func(s *PlaylistService) {
		s.newID = gen
	}
}

// WithClock replaces time.Now for playlist timestamps.
func WithClock(now func() time.Time) PlaylistOption {
	return func(s *PlaylistService) {
		s.now = now
	}
}

// NewPlaylistService creates a new playlist service.
func NewPlaylistService(
	logger *slog.Logger,
	repository ports.PlaylistRepository,
	library *LibraryService,
	settings *SettingsService,
	bus ports.EventBus,
	tr ports.Translator,
	opts ...PlaylistOption,
) *PlaylistService {
	s := &PlaylistService{
		logger:     logger.With(slog.String("service", "playlist")),
		repository: repository,
		library:    library,
		settings:   settings,
		bus:        bus,
		tr:         tr,
		newID:      rand.Uint32,
		now:        time.Now,
		playlists:  make(map[uint32]*domain.Playlist),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the saved playlists and reconciles the saved navigation order:
// unknown IDs are dropped and playlists missing from it are appended.
func (s *PlaylistService) Load() error {
	all, err := s.repository.LoadAll()
	if err != nil {
		return domain.NewServiceError("PlaylistService", "Load", "failed to load playlists", err)
	}

	playlists := make(map[uint32]*domain.Playlist, len(all))
	for _, p := range all {
		p.Kind = domain.KindUser
		playlists[p.ID] = p
	}

	saved := s.settings.State().PlaylistOrder
	order := make([]uint32, 0, len(all))
	for _, id := range saved {
		if _, ok := playlists[id]; ok && !slices.Contains(order, id) {
			order = append(order, id)
		}
	}
	for _, p := range all {
		if !slices.Contains(order, p.ID) {
			order = append(order, p.ID)
		}
	}

	s.mu.Lock()
	s.playlists = playlists
	s.order = order
	s.mu.Unlock()

	if !slices.Equal(saved, order) {
		if err := s.settings.SetPlaylistOrder(order); err != nil {
			s.logger.Warn("failed to save playlist order", slog.Any("error", err))
		}
	}

	s.logger.Info("playlists loaded", slog.Int("count", len(playlists)))
	return nil
}

// Create adds an empty playlist at the end of the navigation order.
// A blank name is replaced by the localized "untitled playlist".
func (s *PlaylistService) Create(name string) (*domain.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.tr.T("untitled-playlist", nil)
	}

	s.mu.Lock()
	id := s.generateID()
	now := s.now()
	p := &domain.Playlist{
		ID:        id,
		Name:      name,
		Kind:      domain.KindUser,
		Tracks:    []domain.Track{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repository.Save(p); err != nil {
		s.mu.Unlock()
		return nil, domain.NewServiceError("PlaylistService", "Create", "failed to save playlist", err)
	}
	s.playlists[id] = p
	s.order = append(s.order, id)
	order := slices.Clone(s.order)
	out := p.Clone()
	s.mu.Unlock()

	s.saveOrder(order)
	s.logger.Debug("playlist created", slog.Uint64("id", uint64(id)), slog.String("name", name))
	s.bus.Publish(domain.NewPlaylistEvent(domain.EventPlaylistCreated, out))
	return out, nil
}

// generateID returns a random ID that is non-zero, not the library ID and
// not in use. Callers hold s.mu.
func (s *PlaylistService) generateID() uint32 {
	for {
		id := s.newID()
		if id == 0 || id == domain.LibraryPlaylistID {
			continue
		}
		if _, taken := s.playlists[id]; taken {
			continue
		}
		if s.repository.Exists(id) {
			continue
		}
		return id
	}
}

// Rename changes a playlist's name.
func (s *PlaylistService) Rename(id uint32, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.NewValidationError("name", name, "playlist name cannot be empty")
	}
	return s.update("Rename", domain.EventPlaylistRenamed, id, func(p *domain.Playlist) error {
		p.Name = name
		return nil
	})
}

// Delete removes a playlist and its file.
func (s *PlaylistService) Delete(id uint32) error {
	if id == domain.LibraryPlaylistID {
		return domain.ErrLibraryPlaylistReadOnly
	}

	s.mu.Lock()
	p, ok := s.playlists[id]
	if !ok {
		s.mu.Unlock()
		return domain.ErrPlaylistNotFound
	}
	if err := s.repository.Delete(id); err != nil && !errors.Is(err, domain.ErrPlaylistNotFound) {
		s.mu.Unlock()
		return domain.NewServiceError("PlaylistService", "Delete", "failed to delete playlist", err)
	}
	delete(s.playlists, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	order := slices.Clone(s.order)
	s.mu.Unlock()

	s.saveOrder(order)
	s.logger.Debug("playlist deleted", slog.Uint64("id", uint64(id)))
	s.bus.Publish(domain.NewPlaylistEvent(domain.EventPlaylistDeleted, p))
	return nil
}

// AddTracks appends library tracks, given by path, to a playlist.
// Nothing is added when any path is not in the library.
func (s *PlaylistService) AddTracks(id uint32, paths ...string) error {
	if id == domain.LibraryPlaylistID {
		return domain.ErrLibraryPlaylistReadOnly
	}
	tracks := make([]domain.Track, 0, len(paths))
	for _, path := range paths {
		t, err := s.library.Track(path)
		if err != nil {
			return fmt.Errorf("%w: %s", err, path)
		}
		tracks = append(tracks, t)
	}
	if len(tracks) == 0 {
		return nil
	}

	return s.update("AddTracks", domain.EventPlaylistUpdated, id, func(p *domain.Playlist) error {
		p.Tracks = append(p.Tracks, tracks...)
		return nil
	})
}

// RemoveTrack removes the track at index.
func (s *PlaylistService) RemoveTrack(id uint32, index int) error {
	return s.update("RemoveTrack", domain.EventPlaylistUpdated, id, func(p *domain.Playlist) error {
		if index < 0 || index >= len(p.Tracks) {
			return domain.ErrInvalidIndex
		}
		p.Tracks = slices.Delete(p.Tracks, index, index+1)
		return nil
	})
}

// Sort orders a playlist's tracks. Sorting the library playlist changes the
// persisted library sort order instead.
func (s *PlaylistService) Sort(id uint32, by domain.SortBy, dir domain.SortDirection) error {
	if id == domain.LibraryPlaylistID {
		return s.settings.SetSortOrder(by, dir)
	}
	if _, err := domain.ParseSortBy(string(by)); err != nil {
		return err
	}
	if _, err := domain.ParseSortDirection(string(dir)); err != nil {
		return err
	}
	return s.update("Sort", domain.EventPlaylistUpdated, id, func(p *domain.Playlist) error {
		domain.SortTracks(p.Tracks, by, dir)
		return nil
	})
}

// update applies fn to a copy of a user playlist, saves it and swaps it in.
func (s *PlaylistService) update(op string, event domain.EventType, id uint32, fn func(*domain.Playlist) error) error {
	if id == domain.LibraryPlaylistID {
		return domain.ErrLibraryPlaylistReadOnly
	}

	s.mu.Lock()
	current, ok := s.playlists[id]
	if !ok {
		s.mu.Unlock()
		return domain.ErrPlaylistNotFound
	}
	next := current.Clone()
	if err := fn(next); err != nil {
		s.mu.Unlock()
		return err
	}
	next.UpdatedAt = s.now()
	if err := s.repository.Save(next); err != nil {
		s.mu.Unlock()
		return domain.NewServiceError("PlaylistService", op, "failed to save playlist", err)
	}
	s.playlists[id] = next
	out := next.Clone()
	s.mu.Unlock()

	s.bus.Publish(domain.NewPlaylistEvent(event, out))
	return nil
}

// Get returns a copy of a playlist. The library playlist is built from the
// library in the persisted sort order.
func (s *PlaylistService) Get(id uint32) (*domain.Playlist, error) {
	if id == domain.LibraryPlaylistID {
		return s.libraryPlaylist(), nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.playlists[id]
	if !ok {
		return nil, domain.ErrPlaylistNotFound
	}
	return p.Clone(), nil
}

func (s *PlaylistService) libraryPlaylist() *domain.Playlist {
	state := s.settings.State()
	return s.library.Playlist(s.tr.T("library", nil), state.SortBy, state.SortDirection)
}

// List returns the library playlist followed by user playlists in
// navigation order.
func (s *PlaylistService) List() []*domain.Playlist {
	list := []*domain.Playlist{s.libraryPlaylist()}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		list = append(list, s.playlists[id].Clone())
	}
	return list
}

// Order returns the navigation order of user playlists.
func (s *PlaylistService) Order() []uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order)
}

// Move shifts a playlist delta places in the navigation order, stopping at
// either end. The library playlist always stays first.
func (s *PlaylistService) Move(id uint32, delta int) error {
	if id == domain.LibraryPlaylistID {
		return domain.ErrLibraryPlaylistReadOnly
	}

	s.mu.Lock()
	i := slices.Index(s.order, id)
	if i < 0 {
		s.mu.Unlock()
		return domain.ErrPlaylistNotFound
	}
	j := min(max(i+delta, 0), len(s.order)-1)
	if i == j {
		s.mu.Unlock()
		return nil
	}
	s.order = slices.Delete(s.order, i, i+1)
	s.order = slices.Insert(s.order, j, id)
	order := slices.Clone(s.order)
	s.mu.Unlock()

	s.saveOrder(order)
	s.bus.Publish(domain.NewPlaylistMovedEvent(id, order))
	return nil
}

func (s *PlaylistService) saveOrder(order []uint32) {
	if err := s.settings.SetPlaylistOrder(order); err != nil {
		s.logger.Warn("failed to save playlist order", slog.Any("error", err))
	}
}
