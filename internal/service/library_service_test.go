package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/etherealwaves/internal/adapter/repository/filestore"
	"github.com/tejashwikalptaru/etherealwaves/internal/domain"
	"github.com/tejashwikalptaru/etherealwaves/internal/testutil"
)

func TestIsSupported(t *testing.T) {
	tests := []struct {
		path string
		size int64
		want bool
	}{
		{"song.mp3", 5000, true},
		{"song.FLAC", 5000, true},
		{"/a/b/track.opus", 4097, true},
		{"song.m4a", 5000, true},
		{"song.ogg", 5000, true},
		{"song.mp3", 4096, false},
		{"song.mp3", 10, false},
		{"song.wav", 5000, false},
		{"cover.jpg", 50000, false},
		{"noext", 5000, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSupported(tt.path, tt.size), "%s (%d bytes)", tt.path, tt.size)
	}
}

func TestLibraryService_Update(t *testing.T) {
	defer testutil.VerifyNoLeaks(t, testutil.IgnoreCurrent()...)

	env := newTestEnv(t)
	music := t.TempDir()
	writeAudio(t, music, "Boards - Geogaddi - 02 - Music Is Math.mp3", 5000)
	writeAudio(t, music, "nested/Aphex - Drukqs - 01 - Jynweythek.flac", 5000)
	writeAudio(t, music, "nested/deeper/Aphex - Drukqs - 02 - Vordhosbn.ogg", 5000)
	writeAudio(t, music, "broken.mp3", 5000)
	writeAudio(t, music, "stub.mp3", 100)
	writeAudio(t, music, "notes.txt", 5000)

	summary, err := env.library.Update(context.Background(), []string{music, music})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TracksFound)
	assert.Equal(t, 1, summary.FilesSkipped)
	assert.Equal(t, 3, env.library.Count())
	assert.False(t, env.library.IsScanning())

	types := env.events.types()
	require.NotEmpty(t, types)
	assert.Equal(t, domain.EventScanStarted, types[0])
	assert.Equal(t, domain.EventScanCompleted, types[len(types)-1])

	progress := env.events.last(domain.EventScanProgress).(domain.ScanProgressEvent).Progress
	assert.Equal(t, 4, progress.TotalFiles)
	assert.Equal(t, 4, progress.FilesScanned)
	assert.Equal(t, 3, progress.TracksFound)
	assert.Equal(t, 100.0, progress.Percentage())

	saved, err := env.libRepo.Load()
	require.NoError(t, err)
	assert.Len(t, saved, 3)
	assert.Contains(t, saved, filepath.Join(music, "nested", "Aphex - Drukqs - 01 - Jynweythek.flac"))
}

func TestLibraryService_UpdateSkipsMissingPaths(t *testing.T) {
	env := newTestEnv(t)
	music := t.TempDir()
	writeAudio(t, music, "a.mp3", 5000)

	summary, err := env.library.Update(context.Background(), []string{filepath.Join(music, "gone"), music})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TracksFound)
}

func TestLibraryService_UpdateReplacesLibrary(t *testing.T) {
	env := newTestEnv(t)
	music := t.TempDir()
	first := writeAudio(t, music, "first.mp3", 5000)

	_, err := env.library.Update(context.Background(), []string{music})
	require.NoError(t, err)
	_, err = env.library.Track(first)
	require.NoError(t, err)

	other := t.TempDir()
	writeAudio(t, other, "second.mp3", 5000)
	_, err = env.library.Update(context.Background(), []string{other})
	require.NoError(t, err)

	_, err = env.library.Track(first)
	assert.ErrorIs(t, err, domain.ErrTrackNotFound)
	assert.Equal(t, 1, env.library.Count())
}

func TestLibraryService_SaveFailureKeepsPreviousLibrary(t *testing.T) {
	env := newTestEnv(t)
	music := t.TempDir()
	first := writeAudio(t, music, "first.mp3", 5000)

	_, err := env.library.Update(context.Background(), []string{music})
	require.NoError(t, err)
	require.Equal(t, 1, env.library.Count())

	// A non-empty directory in place of library.json cannot be replaced.
	libPath := filepath.Join(env.dataDir, filestore.LibraryFile)
	require.NoError(t, os.Remove(libPath))
	require.NoError(t, os.MkdirAll(filepath.Join(libPath, "keep"), 0o755))

	completed := countEvents(env.events, domain.EventScanCompleted)
	writeAudio(t, music, "second.mp3", 5000)
	writeAudio(t, music, "third.mp3", 5000)
	_, err = env.library.Update(context.Background(), []string{music})
	require.Error(t, err)

	assert.Equal(t, 1, env.library.Count())
	_, err = env.library.Track(first)
	assert.NoError(t, err)
	assert.False(t, env.library.IsScanning())
	assert.Equal(t, completed, countEvents(env.events, domain.EventScanCompleted))
}

func countEvents(r *eventRecorder, kind domain.EventType) int {
	n := 0
	for _, typ := range r.types() {
		if typ == kind {
			n++
		}
	}
	return n
}

func TestLibraryService_CancelKeepsPreviousLibrary(t *testing.T) {
	defer testutil.VerifyNoLeaks(t, testutil.IgnoreCurrent()...)

	env := newTestEnv(t)
	env.seedLibrary(t, domain.Track{ID: "old", Path: "/old/track.mp3", Title: "Old"})

	music := t.TempDir()
	for _, name := range []string{"a.mp3", "b.mp3", "c.mp3", "d.mp3"} {
		writeAudio(t, music, name, 5000)
	}
	env.reader.gate = make(chan struct{})
	env.reader.entered = make(chan struct{}, 1)

	errc := make(chan error, 1)
	go func() {
		_, err := env.library.Update(context.Background(), []string{music})
		errc <- err
	}()

	select {
	case <-env.reader.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("metadata reader never called")
	}
	assert.True(t, env.library.IsScanning())

	_, err := env.library.Update(context.Background(), []string{music})
	assert.ErrorIs(t, err, domain.ErrScanInProgress)

	require.NoError(t, env.library.Cancel())
	close(env.reader.gate)

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, domain.ErrScanCancelled)
	case <-time.After(5 * time.Second):
		t.Fatal("update did not stop after cancel")
	}

	assert.False(t, env.library.IsScanning())
	assert.Equal(t, 1, env.library.Count())
	_, err = env.library.Track("/old/track.mp3")
	assert.NoError(t, err)
	assert.Equal(t, domain.EventScanCancelled, env.events.types()[len(env.events.types())-1])
}

func TestLibraryService_ContextCancelled(t *testing.T) {
	env := newTestEnv(t)
	music := t.TempDir()
	writeAudio(t, music, "a.mp3", 5000)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := env.library.Update(ctx, []string{music})
	assert.ErrorIs(t, err, domain.ErrScanCancelled)
	assert.Equal(t, 0, env.library.Count())
}

func TestLibraryService_CancelWithoutUpdate(t *testing.T) {
	env := newTestEnv(t)
	assert.ErrorIs(t, env.library.Cancel(), domain.ErrNoScanInProgress)
}

func TestLibraryService_LoadAndSortedView(t *testing.T) {
	env := newTestEnv(t)
	env.seedLibrary(t,
		domain.Track{ID: "1", Path: "/m/1.mp3", Title: "Zebra", Artist: "B", Album: "X", TrackNumber: 2},
		domain.Track{ID: "2", Path: "/m/2.mp3", Title: "Apple", Artist: "B", Album: "X", TrackNumber: 1},
		domain.Track{ID: "3", Path: "/m/3.mp3", Title: "Mango", Artist: "A", Album: "Y", TrackNumber: 1},
		domain.Track{ID: "4", Path: "/m/4.mp3", Title: "Kiwi"},
	)

	loaded := env.events.last(domain.EventLibraryLoaded).(domain.LibraryLoadedEvent)
	assert.Equal(t, 4, loaded.Tracks)

	byArtist := env.library.Tracks(domain.SortByArtist, domain.Ascending)
	assert.Equal(t, []string{"4", "3", "2", "1"}, ids(byArtist))

	byTitleDesc := env.library.Tracks(domain.SortByTitle, domain.Descending)
	assert.Equal(t, []string{"1", "3", "4", "2"}, ids(byTitleDesc))

	p := env.library.Playlist("Library", domain.SortByTitle, domain.Ascending)
	assert.Equal(t, domain.LibraryPlaylistID, p.ID)
	assert.True(t, p.IsLibrary())
	assert.Equal(t, 4, p.Len())
}

func TestLibraryService_ShutdownWaitsForUpdate(t *testing.T) {
	defer testutil.VerifyNoLeaks(t, testutil.IgnoreCurrent()...)

	env := newTestEnv(t)
	music := t.TempDir()
	writeAudio(t, music, "a.mp3", 5000)
	env.reader.gate = make(chan struct{})
	env.reader.entered = make(chan struct{}, 1)

	errc := make(chan error, 1)
	go func() {
		_, err := env.library.Update(context.Background(), []string{music})
		errc <- err
	}()
	<-env.reader.entered

	go func() {
		time.Sleep(20 * time.Millisecond)
		close(env.reader.gate)
	}()
	require.NoError(t, env.library.Shutdown())
	assert.False(t, env.library.IsScanning())
	assert.ErrorIs(t, <-errc, domain.ErrScanCancelled)
}

func ids(tracks []domain.Track) []string {
	out := make([]string, len(tracks))
	for i, t := range tracks {
		out[i] = t.ID
	}
	return out
}
