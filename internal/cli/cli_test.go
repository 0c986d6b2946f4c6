package cli

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/etherealwaves/internal/app"
	"github.com/tejashwikalptaru/etherealwaves/internal/config"
	"github.com/tejashwikalptaru/etherealwaves/internal/domain"
	"github.com/tejashwikalptaru/etherealwaves/internal/i18n"
	"github.com/tejashwikalptaru/etherealwaves/internal/logger"
)

type stubReader struct{}

func (stubReader) Read(path string) (*domain.Track, error) {
	base := filepath.Base(path)
	return &domain.Track{
		ID:     "id-" + base,
		Path:   path,
		Title:  strings.TrimSuffix(base, filepath.Ext(base)),
		Artist: "Artist",
	}, nil
}

type harness struct {
	t       *testing.T
	factory Factory
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	for _, k := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	cfg := config.Config{
		DataDir:     filepath.Join(dir, "data"),
		ConfigDir:   filepath.Join(dir, "config"),
		CacheDir:    filepath.Join(dir, "cache"),
		StateDir:    filepath.Join(dir, "state"),
		LogFormat:   logger.FormatText,
		ScanWorkers: 2,
	}
	return &harness{
		t: t,
		factory: func() (*app.Application, error) {
			return app.NewApplication(cfg, app.WithLogger(logger.NewTestLogger()), app.WithMetadataReader(stubReader{}))
		},
	}
}

// run executes one command line and returns what it wrote to stdout.
func (h *harness) run(args ...string) (string, error) {
	var out, errOut bytes.Buffer
	root := New(h.factory)
	root.Writer = &out
	root.ErrWriter = &errOut
	err := root.Run(context.Background(), append([]string{Name}, args...))
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, strings.Join(args, " "))
	return out
}

func TestMessagesRender(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("messages", "render", "git-description", "hash=abc123", "date=2024-01-01")
	assert.Equal(t, "Git commit abc123 on 2024-01-01\n", out)

	out = h.mustRun("--lang", "nl", "messages", "render", "git-description", "hash=abc123", "date=2024-01-01")
	assert.Equal(t, "Git-commit abc123 op 2024-01-01\n", out)

	_, err := h.run("messages", "render", "git-description", "hash=abc123")
	var missing *i18n.MissingArgError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "date", missing.Name)

	_, err = h.run("messages", "render", "no-such-key")
	assert.ErrorIs(t, err, i18n.ErrMissingKey)

	_, err = h.run("messages", "render", "git-description", "hash")
	assert.Error(t, err)

	_, err = h.run("messages", "render")
	assert.Error(t, err)
}

func TestMessagesListAndLocales(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("--lang", "fr", "messages", "list")
	assert.Contains(t, out, "library = Bibliothèque\n")
	assert.Contains(t, out, "git-description = Commit Git {$hash} du {$date}\n")

	out = h.mustRun("messages", "locales")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "en "))
}

func TestMessagesCheck(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("messages", "check")
	assert.Equal(t, "3 locales consistent\n", out)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.ftl"), []byte("a = A {$x}\nb = B\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nl.ftl"), []byte("a = A\n"), 0o644))

	out, err := h.run("messages", "check", "--dir", dir)
	assert.Error(t, err)
	assert.Contains(t, out, "nl: a: placeholders")
	assert.Contains(t, out, "nl: b: missing")
}

func TestLibraryCommands(t *testing.T) {
	h := newHarness(t)
	music := t.TempDir()
	for _, name := range []string{"Zulu.mp3", "Alpha.flac", "readme.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(music, name), make([]byte, 5000), 0o644))
	}

	out := h.mustRun("library", "update")
	assert.Contains(t, out, "Add some music folders")

	h.mustRun("library", "paths", "add", music)
	assert.Equal(t, music+"\n", h.mustRun("library", "paths", "list"))

	out = h.mustRun("library", "update")
	assert.True(t, strings.HasPrefix(out, "Found 2 tracks in "), out)

	out = h.mustRun("library", "list", "--sort", "title")
	assert.True(t, strings.HasPrefix(out, "Title"), out)
	assert.Contains(t, firstLine(out), "Path")
	assert.Contains(t, firstLine(h.mustRun("--lang", "fr", "library", "list")), "Chemin")
	assert.Less(t, strings.Index(out, "Alpha"), strings.Index(out, "Zulu"))

	out = h.mustRun("library", "list", "--sort", "title", "--desc")
	assert.Greater(t, strings.Index(out, "Alpha"), strings.Index(out, "Zulu"))

	_, err := h.run("library", "list", "--sort", "colour")
	assert.Error(t, err)

	h.mustRun("library", "paths", "remove", music)
	assert.Empty(t, h.mustRun("library", "paths", "list"))

	_, err = h.run("library", "paths", "add", filepath.Join(music, "missing"))
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}

func TestPlaylistCommands(t *testing.T) {
	h := newHarness(t)
	music := t.TempDir()
	song := filepath.Join(music, "Song.mp3")
	require.NoError(t, os.WriteFile(song, make([]byte, 5000), 0o644))
	h.mustRun("library", "paths", "add", music)
	h.mustRun("library", "update")

	out := h.mustRun("playlist", "new", "Road", "trip")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Created playlist Road trip", lines[0])
	id := lines[1]

	second := strings.Split(strings.TrimSpace(h.mustRun("playlist", "new")), "\n")
	assert.Equal(t, "Created playlist Untitled playlist", second[0])

	h.mustRun("playlist", "add", id, song)
	out = h.mustRun("playlist", "show", id)
	assert.Contains(t, out, "Song")
	assert.Contains(t, out, song)

	out = h.mustRun("playlist", "list")
	rows := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, rows, 3)
	assert.True(t, strings.HasPrefix(rows[0], "library "))
	assert.Contains(t, rows[1], "Road trip")
	assert.Contains(t, rows[1], "1 tracks")

	h.mustRun("playlist", "move", second[1], "up")
	rows = strings.Split(strings.TrimSpace(h.mustRun("playlist", "list")), "\n")
	assert.Contains(t, rows[1], "Untitled playlist")

	h.mustRun("playlist", "rename", id, "Night", "drive")
	assert.Contains(t, h.mustRun("playlist", "list"), "Night drive")

	_, err := h.run("playlist", "remove", id, "2")
	assert.ErrorIs(t, err, domain.ErrInvalidIndex)
	h.mustRun("playlist", "remove", id, "1")
	assert.NotContains(t, h.mustRun("playlist", "show", id), song)

	_, err = h.run("playlist", "rename", "library", "Mine")
	assert.ErrorIs(t, err, domain.ErrLibraryPlaylistReadOnly)

	h.mustRun("playlist", "sort", "library", "--sort", "title", "--desc")
	assert.Contains(t, h.mustRun("settings"), "title descending")

	h.mustRun("playlist", "delete", id)
	_, err = h.run("playlist", "show", id)
	assert.ErrorIs(t, err, domain.ErrPlaylistNotFound)

	_, err = h.run("playlist", "move", second[1], "sideways")
	assert.Error(t, err)
}

func TestSettingsCommands(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("settings")
	assert.Contains(t, out, "Match desktop")

	h.mustRun("settings", "theme", "dark")
	assert.Contains(t, h.mustRun("settings"), "Dark")

	_, err := h.run("settings", "theme", "neon")
	assert.ErrorIs(t, err, domain.ErrInvalidTheme)

	assert.Regexp(t, `(?m)^Wrap text\s+No$`, h.mustRun("settings"))
	assert.Equal(t, "Yes\n", h.mustRun("settings", "wrap"))
	assert.Regexp(t, `(?m)^Wrap text\s+Yes$`, h.mustRun("settings"))
	assert.Equal(t, "No\n", h.mustRun("settings", "wrap", "off"))
	assert.Equal(t, "Ja\n", h.mustRun("--lang", "nl", "settings", "wrap", "on"))
	_, err = h.run("settings", "wrap", "maybe")
	assert.Error(t, err)

	assert.Equal(t, "1.25\n", h.mustRun("settings", "zoom", "in"))
	assert.Equal(t, "1.00\n", h.mustRun("settings", "zoom", "out"))

	h.mustRun("settings", "locale", "nl")
	assert.Equal(t, "Versie dev\n", firstLine(h.mustRun("version")))
	h.mustRun("settings", "locale")
	assert.Equal(t, "Version dev\n", firstLine(h.mustRun("version")))
}

func TestKeysCommand(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("keys")
	assert.Regexp(t, `(?m)^Ctrl\+U\s+Update library$`, out)
	assert.Regexp(t, `(?m)^Ctrl\+Shift\+Click\s+Select range$`, out)

	assert.Equal(t, "Quit\n", h.mustRun("keys", "ctrl+q"))
	assert.Equal(t, "Zoom in\n", h.mustRun("keys", "Ctrl+="))

	_, err := h.run("keys", "Ctrl+J")
	assert.Error(t, err)
}

func TestParsePlaylistID(t *testing.T) {
	id, err := parsePlaylistID("Library")
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), id)

	id, err = parsePlaylistID("42")
	require.NoError(t, err)
	assert.Equal(t, uint32(42), id)
	assert.Equal(t, "42", formatPlaylistID(id))
	assert.Equal(t, "library", formatPlaylistID(domain.LibraryPlaylistID))

	_, err = parsePlaylistID("-1")
	assert.Error(t, err)
	_, err = parsePlaylistID("4294967296")
	assert.Error(t, err)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line + "\n"
}
