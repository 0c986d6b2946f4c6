package filestore

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/tejashwikalptaru/etherealwaves/internal/domain"
	"github.com/tejashwikalptaru/etherealwaves/internal/ports"
)

const (
	// SettingsFile holds domain.Settings in the config directory.
	SettingsFile = "config.toml"

	// StateFile holds domain.State in the state directory.
	StateFile = "state.toml"
)

// SettingsRepository implements ports.SettingsRepository with two TOML files.
//
// A missing file yields defaults. A file that fails to decode is logged and
// yields defaults too, so a hand-edited config never blocks start-up.
//
// Thread-safe: All operations protected by sync.RWMutex.
type SettingsRepository struct {
	settingsPath string
	statePath    string
	mu           sync.RWMutex
	logger       *slog.Logger
}

// Ensure SettingsRepository implements ports.SettingsRepository
var _ ports.SettingsRepository = (*SettingsRepository)(nil)

// NewSettingsRepository stores config.toml in configDir and state.toml in stateDir.
func NewSettingsRepository(configDir, stateDir string, logger *slog.Logger) *SettingsRepository {
	return &SettingsRepository{
		settingsPath: filepath.Join(configDir, SettingsFile),
		statePath:    filepath.Join(stateDir, StateFile),
		logger:       logger.With(slog.String("repository", "settings")),
	}
}

// LoadSettings returns the saved settings or defaults.
func (r *SettingsRepository) LoadSettings() (domain.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	settings := domain.DefaultSettings()
	ok, err := r.decode(r.settingsPath, &settings)
	if err != nil {
		return domain.DefaultSettings(), err
	}
	if !ok {
		return domain.DefaultSettings(), nil
	}

	if !settings.AppTheme.Valid() {
		r.logger.Warn("unknown theme, using system", slog.String("theme", string(settings.AppTheme)))
		settings.AppTheme = domain.ThemeSystem
	}
	if settings.LibraryPaths == nil {
		settings.LibraryPaths = []string{}
	}
	slices.Sort(settings.LibraryPaths)
	settings.LibraryPaths = slices.Compact(settings.LibraryPaths)
	return settings, nil
}

// SaveSettings persists settings to config.toml.
func (r *SettingsRepository) SaveSettings(settings domain.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := toml.Marshal(settings)
	if err != nil {
		return domain.NewRepositoryError("save", "settings", "failed to marshal settings", err)
	}
	if err := writeFileAtomic(r.settingsPath, data, 0o644); err != nil {
		return domain.NewRepositoryError("save", "settings", "failed to write "+r.settingsPath, err)
	}
	return nil
}

// LoadState returns the saved view state or defaults.
func (r *SettingsRepository) LoadState() (domain.State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state := domain.DefaultState()
	ok, err := r.decode(r.statePath, &state)
	if err != nil {
		return domain.DefaultState(), err
	}
	if !ok {
		return domain.DefaultState(), nil
	}

	defaults := domain.DefaultState()
	if _, err := domain.ParseSortBy(string(state.SortBy)); err != nil {
		state.SortBy = defaults.SortBy
	}
	if _, err := domain.ParseSortDirection(string(state.SortDirection)); err != nil {
		state.SortDirection = defaults.SortDirection
	}
	if state.ZoomLevel < domain.ZoomMin || state.ZoomLevel > domain.ZoomMax {
		state.ZoomLevel = defaults.ZoomLevel
	}
	if state.WindowWidth <= 0 || state.WindowHeight <= 0 {
		state.WindowWidth, state.WindowHeight = defaults.WindowWidth, defaults.WindowHeight
	}
	if state.PlaylistOrder == nil {
		state.PlaylistOrder = []uint32{}
	}
	return state, nil
}

// SaveState persists view state to state.toml.
func (r *SettingsRepository) SaveState(state domain.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := toml.Marshal(state)
	if err != nil {
		return domain.NewRepositoryError("save", "state", "failed to marshal state", err)
	}
	if err := writeFileAtomic(r.statePath, data, 0o644); err != nil {
		return domain.NewRepositoryError("save", "state", "failed to write "+r.statePath, err)
	}
	return nil
}

// decode reads path into v. It reports false when the file is missing or
// could not be decoded; only read failures other than absence are errors.
func (r *SettingsRepository) decode(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, domain.NewRepositoryError("load", "settings", "failed to read "+path, err)
	}

	if err := toml.Unmarshal(data, v); err != nil {
		r.logger.Warn("ignoring malformed file, using defaults", slog.String("path", path), slog.Any("error", err))
		return false, nil
	}
	return true, nil
}
