package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/etherealwaves/internal/logger"
)

var envKeys = []string{
	"DATA_DIR", "CONFIG_DIR", "CACHE_DIR", "STATE_DIR",
	"LOG_LEVEL", "LOG_FORMAT", "SCAN_WORKERS", "LOCALE",
}

// cleanEnv unsets every variable Parse reads and points HOME at a temp dir.
// Values are restored when the test ends.
func cleanEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	unset := func(k string) {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	for _, k := range envKeys {
		unset(EnvPrefix + k)
	}
	for _, k := range []string{"XDG_CONFIG_HOME", "XDG_CACHE_HOME", "XDG_DATA_HOME", "XDG_STATE_HOME"} {
		unset(k)
	}
	t.Setenv("HOME", home)
	return home
}

func TestParse_Defaults(t *testing.T) {
	home := cleanEnv(t)

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".config", AppDir), cfg.ConfigDir)
	assert.Equal(t, filepath.Join(home, ".cache", AppDir), cfg.CacheDir)
	assert.Equal(t, filepath.Join(home, ".local", "share", AppDir), cfg.DataDir)
	assert.Equal(t, filepath.Join(home, ".local", "state", AppDir), cfg.StateDir)
	assert.Equal(t, filepath.Join(home, ".cache", AppDir, "artwork"), cfg.ArtworkDir())
	assert.Equal(t, 4, cfg.ScanWorkers)
	assert.Empty(t, cfg.Locale)

	lc := cfg.Logger()
	assert.Equal(t, slog.LevelInfo, lc.Level)
	assert.Equal(t, logger.FormatText, lc.Format)
}

func TestParse_XDG(t *testing.T) {
	cleanEnv(t)
	xdg := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(xdg, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(xdg, "state"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(xdg, "config"))

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(xdg, "data", AppDir), cfg.DataDir)
	assert.Equal(t, filepath.Join(xdg, "state", AppDir), cfg.StateDir)
	assert.Equal(t, filepath.Join(xdg, "config", AppDir), cfg.ConfigDir)
}

func TestParse_RelativeXDGIsIgnored(t *testing.T) {
	home := cleanEnv(t)
	t.Setenv("XDG_DATA_HOME", "relative/data")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".local", "share", AppDir), cfg.DataDir)
}

func TestParse_Overrides(t *testing.T) {
	cleanEnv(t)
	t.Setenv(EnvPrefix+"DATA_DIR", "/srv/music-data")
	t.Setenv(EnvPrefix+"LOG_LEVEL", "debug")
	t.Setenv(EnvPrefix+"LOG_FORMAT", "json")
	t.Setenv(EnvPrefix+"SCAN_WORKERS", "12")
	t.Setenv(EnvPrefix+"LOCALE", "fr")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "/srv/music-data", cfg.DataDir)
	assert.Equal(t, 12, cfg.ScanWorkers)
	assert.Equal(t, "fr", cfg.Locale)
	assert.Equal(t, slog.LevelDebug, cfg.Logger().Level)
	assert.Equal(t, logger.FormatJSON, cfg.Logger().Format)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"zero workers", "SCAN_WORKERS", "0"},
		{"non-numeric workers", "SCAN_WORKERS", "many"},
		{"unknown format", "LOG_FORMAT", "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanEnv(t)
			t.Setenv(EnvPrefix+tt.key, tt.value)

			_, err := Parse()
			assert.Error(t, err)
		})
	}
}

func TestLoad_DotEnv(t *testing.T) {
	cleanEnv(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(file, []byte("ETHEREAL_WAVES_SCAN_WORKERS=7\nETHEREAL_WAVES_LOG_FORMAT=tint\n"), 0o644))

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.ScanWorkers)
	assert.Equal(t, logger.FormatTint, cfg.LogFormat)
}

func TestLoad_EnvironmentWinsOverDotEnv(t *testing.T) {
	cleanEnv(t)
	t.Setenv(EnvPrefix+"SCAN_WORKERS", "2")
	file := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(file, []byte("ETHEREAL_WAVES_SCAN_WORKERS=9\n"), 0o644))

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.ScanWorkers)
}

func TestLoad_MissingDotEnv(t *testing.T) {
	cleanEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.ScanWorkers)
}
