package filestore

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/etherealwaves/internal/domain"
	"github.com/tejashwikalptaru/etherealwaves/internal/logger"
)

func TestLibraryRepository_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	repo := NewLibraryRepository(dir, logger.NewTestLogger())

	tracks := map[string]domain.Track{
		"/music/a.mp3": {ID: "id-a", Path: "/music/a.mp3", Title: "A", Artist: "X", TrackNumber: 1},
		"/music/b.ogg": {ID: "id-b", Path: "/music/b.ogg", Title: "B", Year: 1999},
	}
	require.NoError(t, repo.Save(tracks))
	assert.FileExists(t, filepath.Join(dir, LibraryFile))

	loaded, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, tracks, loaded)
}

func TestLibraryRepository_LoadMissingIsEmpty(t *testing.T) {
	repo := NewLibraryRepository(t.TempDir(), logger.NewTestLogger())

	loaded, err := repo.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestLibraryRepository_DropsEntriesWithoutID(t *testing.T) {
	dir := t.TempDir()
	doc := `{"/music/a.mp3":{"id":"id-a","title":"A"},"/music/b.mp3":{"title":"no id"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, LibraryFile), []byte(doc), 0o644))

	var buf bytes.Buffer
	repo := NewLibraryRepository(dir, logger.NewCaptureLogger(&buf))
	loaded, err := repo.Load()
	require.NoError(t, err)

	require.Len(t, loaded, 1)
	assert.Equal(t, "/music/a.mp3", loaded["/music/a.mp3"].Path)
	assert.Contains(t, buf.String(), "dropped incomplete library entries")
}

func TestLibraryRepository_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, LibraryFile), []byte("{not json"), 0o644))

	_, err := NewLibraryRepository(dir, logger.NewTestLogger()).Load()
	var repoErr *domain.RepositoryError
	require.ErrorAs(t, err, &repoErr)
	assert.Equal(t, "library", repoErr.Type)
}

func TestPlaylistRepository_Lifecycle(t *testing.T) {
	dir := t.TempDir()
	repo := NewPlaylistRepository(dir, logger.NewTestLogger())

	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Playlist{
		ID:        42,
		Name:      "Road trip",
		Kind:      domain.KindUser,
		Tracks:    []domain.Track{{ID: "t1", Path: "/music/t1.mp3"}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Save(p))
	assert.FileExists(t, filepath.Join(dir, PlaylistDir, "42.json"))
	assert.True(t, repo.Exists(42))

	loaded, err := repo.Load(42)
	require.NoError(t, err)
	assert.Equal(t, p, loaded)

	p.Name = "Road trip 2"
	require.NoError(t, repo.Save(p))
	loaded, err = repo.Load(42)
	require.NoError(t, err)
	assert.Equal(t, "Road trip 2", loaded.Name)

	require.NoError(t, repo.Delete(42))
	assert.False(t, repo.Exists(42))
	assert.ErrorIs(t, repo.Delete(42), domain.ErrPlaylistNotFound)

	_, err = repo.Load(42)
	assert.ErrorIs(t, err, domain.ErrPlaylistNotFound)
}

func TestPlaylistRepository_RejectsLibraryAndZeroID(t *testing.T) {
	repo := NewPlaylistRepository(t.TempDir(), logger.NewTestLogger())

	err := repo.Save(&domain.Playlist{ID: domain.LibraryPlaylistID, Kind: domain.KindLibrary})
	assert.ErrorIs(t, err, domain.ErrLibraryPlaylistReadOnly)

	err = repo.Save(&domain.Playlist{ID: 0, Kind: domain.KindUser})
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestPlaylistRepository_LoadAllSkipsJunk(t *testing.T) {
	dir := t.TempDir()
	repo := NewPlaylistRepository(dir, logger.NewTestLogger())

	require.NoError(t, repo.Save(&domain.Playlist{ID: 7, Name: "seven", Kind: domain.KindUser}))
	require.NoError(t, repo.Save(&domain.Playlist{ID: 3, Name: "three", Kind: domain.KindUser}))

	pdir := filepath.Join(dir, PlaylistDir)
	require.NoError(t, os.WriteFile(filepath.Join(pdir, "9.json"), []byte("garbage"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(pdir, "notes.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(pdir, "readme.txt"), []byte("hi"), 0o644))

	all, err := repo.LoadAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, uint32(3), all[0].ID)
	assert.Equal(t, uint32(7), all[1].ID)
	assert.NotNil(t, all[0].Tracks)
}

func TestPlaylistRepository_LoadAllEmpty(t *testing.T) {
	all, err := NewPlaylistRepository(t.TempDir(), logger.NewTestLogger()).LoadAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSettingsRepository_Defaults(t *testing.T) {
	dir := t.TempDir()
	repo := NewSettingsRepository(dir, dir, logger.NewTestLogger())

	settings, err := repo.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)

	state, err := repo.LoadState()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultState(), state)
}

func TestSettingsRepository_RoundTrip(t *testing.T) {
	configDir, stateDir := t.TempDir(), t.TempDir()
	repo := NewSettingsRepository(configDir, stateDir, logger.NewTestLogger())

	settings := domain.Settings{
		AppTheme:     domain.ThemeDark,
		LibraryPaths: []string{"/music", "/srv/audio"},
		Locale:       "nl",
		ListTextWrap: true,
	}
	require.NoError(t, repo.SaveSettings(settings))

	state := domain.State{
		SortBy:        domain.SortByTitle,
		SortDirection: domain.Descending,
		PlaylistOrder: []uint32{5, 1, 9},
		WindowWidth:   800,
		WindowHeight:  600,
		ZoomLevel:     1.5,
	}
	require.NoError(t, repo.SaveState(state))

	assert.FileExists(t, filepath.Join(configDir, SettingsFile))
	assert.FileExists(t, filepath.Join(stateDir, StateFile))

	gotSettings, err := repo.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, settings, gotSettings)

	gotState, err := repo.LoadState()
	require.NoError(t, err)
	assert.Equal(t, state, gotState)
}

func TestSettingsRepository_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFile), []byte("app_theme = \"light\"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, StateFile), []byte("sort_by = \"album\"\nzoom_level = 9.0\n"), 0o644))

	repo := NewSettingsRepository(dir, dir, logger.NewTestLogger())

	settings, err := repo.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, settings.AppTheme)
	assert.Empty(t, settings.LibraryPaths)

	state, err := repo.LoadState()
	require.NoError(t, err)
	assert.Equal(t, domain.SortByAlbum, state.SortBy)
	assert.Equal(t, domain.Ascending, state.SortDirection)
	assert.Equal(t, domain.ZoomDefault, state.ZoomLevel, "out of range zoom is reset")
}

func TestSettingsRepository_MalformedFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFile), []byte("app_theme = [unterminated"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, StateFile), []byte("sort_by = \"colour\"\n"), 0o644))

	var buf bytes.Buffer
	repo := NewSettingsRepository(dir, dir, logger.NewCaptureLogger(&buf))

	settings, err := repo.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
	assert.Contains(t, buf.String(), "ignoring malformed file")

	state, err := repo.LoadState()
	require.NoError(t, err)
	assert.Equal(t, domain.SortByArtist, state.SortBy)
}

func TestSettingsRepository_InvalidThemeAndDuplicatePaths(t *testing.T) {
	dir := t.TempDir()
	doc := "app_theme = \"neon\"\nlibrary_paths = [\"/b\", \"/a\", \"/b\"]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFile), []byte(doc), 0o644))

	settings, err := NewSettingsRepository(dir, dir, logger.NewTestLogger()).LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeSystem, settings.AppTheme)
	assert.Equal(t, []string{"/a", "/b"}, settings.LibraryPaths)
}

func TestWriteFileAtomic_LeavesNoTempFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	path := filepath.Join(dir, "doc.json")

	require.NoError(t, writeFileAtomic(path, []byte("one"), 0o644))
	require.NoError(t, writeFileAtomic(path, []byte("two"), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
