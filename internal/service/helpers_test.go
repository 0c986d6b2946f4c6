package service

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/etherealwaves/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/etherealwaves/internal/adapter/repository/filestore"
	"github.com/tejashwikalptaru/etherealwaves/internal/domain"
	"github.com/tejashwikalptaru/etherealwaves/internal/i18n"
	"github.com/tejashwikalptaru/etherealwaves/internal/logger"
)

// fakeReader builds tracks from file names: "Artist - Album - 03 - Title.mp3".
// Files named "broken*" fail. When gate is set every Read blocks on it.
type fakeReader struct {
	gate    chan struct{}
	entered chan struct{}
}

func (f *fakeReader) Read(path string) (*domain.Track, error) {
	if f.entered != nil {
		select {
		case f.entered <- struct{}{}:
		default:
		}
	}
	if f.gate != nil {
		<-f.gate
	}

	base := filepath.Base(path)
	if strings.HasPrefix(base, "broken") {
		return nil, errors.New("unreadable tags")
	}
	track := &domain.Track{
		ID:         "id-" + base,
		Path:       path,
		Title:      strings.TrimSuffix(base, filepath.Ext(base)),
		FileFormat: strings.TrimPrefix(filepath.Ext(base), "."),
	}
	if parts := strings.Split(track.Title, " - "); len(parts) == 4 {
		track.Artist, track.Album, track.Title = parts[0], parts[1], parts[3]
		track.TrackNumber = int(parts[2][0]-'0')*10 + int(parts[2][1]-'0')
	}
	return track, nil
}

// eventRecorder collects every published event type.
type eventRecorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *eventRecorder) record(e domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) types() []domain.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type()
	}
	return out
}

func (r *eventRecorder) last(kind domain.EventType) domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type() == kind {
			return r.events[i]
		}
	}
	return nil
}

type testEnv struct {
	dataDir   string
	bus       *eventbus.SyncEventBus
	events    *eventRecorder
	reader    *fakeReader
	libRepo   *filestore.LibraryRepository
	plRepo    *filestore.PlaylistRepository
	setRepo   *filestore.SettingsRepository
	library   *LibraryService
	settings  *SettingsService
	playlists *PlaylistService
}

func newTestEnv(t *testing.T, opts ...PlaylistOption) *testEnv {
	t.Helper()

	log := logger.NewTestLogger()
	dir := t.TempDir()

	bus := eventbus.NewSyncEventBus()
	events := &eventRecorder{}
	bus.SubscribeAll(events.record)
	t.Cleanup(func() { _ = bus.Close() })

	catalog, err := i18n.DefaultCatalog()
	require.NoError(t, err)

	env := &testEnv{
		dataDir: dir,
		bus:     bus,
		events:  events,
		reader:  &fakeReader{},
		libRepo: filestore.NewLibraryRepository(dir, log),
		plRepo:  filestore.NewPlaylistRepository(dir, log),
		setRepo: filestore.NewSettingsRepository(filepath.Join(dir, "config"), filepath.Join(dir, "state"), log),
	}
	env.library = NewLibraryService(log, env.reader, env.libRepo, bus, 2)
	env.settings = NewSettingsService(log, env.setRepo, bus)
	env.playlists = NewPlaylistService(log, env.plRepo, env.library, env.settings, bus, catalog.Localizer("en"), opts...)
	t.Cleanup(func() { _ = env.library.Shutdown() })

	require.NoError(t, env.settings.Load())
	return env
}

// writeAudio creates a file of size bytes below dir.
func writeAudio(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return path
}

// seedLibrary saves tracks to library.json and loads them into the service.
func (e *testEnv) seedLibrary(t *testing.T, tracks ...domain.Track) {
	t.Helper()
	m := make(map[string]domain.Track, len(tracks))
	for _, tr := range tracks {
		m[tr.Path] = tr
	}
	require.NoError(t, e.libRepo.Save(m))
	require.NoError(t, e.library.Load())
}
