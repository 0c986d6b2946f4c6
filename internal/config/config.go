// Package config loads process configuration from the environment.
//
// Values are resolved in order: built-in defaults, an optional .env file,
// then ETHEREAL_WAVES_* environment variables. Directories left unset follow
// the XDG base directory layout.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/tejashwikalptaru/etherealwaves/internal/logger"
)

// AppDir is the directory name used below every XDG base directory.
const AppDir = "ethereal-waves"

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "ETHEREAL_WAVES_"

// Config holds process configuration. User settings that the application
// edits live in config.toml instead; see the filestore repository.
type Config struct {
	DataDir   string `env:"DATA_DIR"`
	ConfigDir string `env:"CONFIG_DIR"`
	CacheDir  string `env:"CACHE_DIR"`
	StateDir  string `env:"STATE_DIR"`

	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// ScanWorkers is the size of the metadata worker pool.
	ScanWorkers int `env:"SCAN_WORKERS" envDefault:"4"`

	// Locale overrides both the saved locale and the desktop language.
	Locale string `env:"LOCALE"`
}

// Load reads the given .env files (".env" when none are named) and then
// parses the environment. Missing .env files are not an error.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: read %s: %w", f, err)
		}
	}
	return Parse()
}

// Parse reads the configuration from the process environment only.
func Parse() (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Prefix: EnvPrefix})
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.resolveDirs(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) resolveDirs() error {
	home, homeErr := os.UserHomeDir()
	base := func(xdg string, fallback ...string) (string, error) {
		if dir := os.Getenv(xdg); filepath.IsAbs(dir) {
			return dir, nil
		}
		if homeErr != nil {
			return "", fmt.Errorf("config: %s unset and no home directory: %w", xdg, homeErr)
		}
		return filepath.Join(append([]string{home}, fallback...)...), nil
	}

	if c.ConfigDir == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		c.ConfigDir = filepath.Join(dir, AppDir)
	}
	if c.CacheDir == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		c.CacheDir = filepath.Join(dir, AppDir)
	}
	if c.DataDir == "" {
		dir, err := base("XDG_DATA_HOME", ".local", "share")
		if err != nil {
			return err
		}
		c.DataDir = filepath.Join(dir, AppDir)
	}
	if c.StateDir == "" {
		dir, err := base("XDG_STATE_HOME", ".local", "state")
		if err != nil {
			return err
		}
		c.StateDir = filepath.Join(dir, AppDir)
	}
	return nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.ScanWorkers < 1 {
		return fmt.Errorf("config: %sSCAN_WORKERS must be at least 1, got %d", EnvPrefix, c.ScanWorkers)
	}
	formats := []string{logger.FormatText, logger.FormatJSON, logger.FormatTint}
	if !slices.Contains(formats, c.LogFormat) {
		return fmt.Errorf("config: %sLOG_FORMAT must be one of %v, got %q", EnvPrefix, formats, c.LogFormat)
	}
	return nil
}

// ArtworkDir is where embedded cover art is cached.
func (c Config) ArtworkDir() string {
	return filepath.Join(c.CacheDir, "artwork")
}

// Logger returns the logger configuration. Unknown levels fall back to INFO.
func (c Config) Logger() logger.Config {
	return logger.Config{
		Level:  logger.ParseLevel(c.LogLevel, slog.LevelInfo),
		Format: c.LogFormat,
	}
}
