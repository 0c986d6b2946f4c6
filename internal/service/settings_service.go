package service

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"golang.org/x/text/language"

	"github.com/tejashwikalptaru/etherealwaves/internal/domain"
	"github.com/tejashwikalptaru/etherealwaves/internal/ports"
)

// SettingsService manages user settings (config.toml) and view state
// (state.toml). Every mutation is persisted before it is published.
// All operations are thread-safe via sync.RWMutex.
type SettingsService struct {
	// Dependencies (injected)
	logger     *slog.Logger
	repository ports.SettingsRepository
	bus        ports.EventBus

	// Cached copies of what is on disk
	settings domain.Settings
	state    domain.State

	mu sync.RWMutex
}

// NewSettingsService creates a settings service holding defaults until Load.
func NewSettingsService(
	logger *slog.Logger,
	repository ports.SettingsRepository,
	bus ports.EventBus,
) *SettingsService {
	return &SettingsService{
		logger:     logger.With(slog.String("service", "settings")),
		repository: repository,
		bus:        bus,
		settings:   domain.DefaultSettings(),
		state:      domain.DefaultState(),
	}
}

// Load reads settings and state from the repository.
func (s *SettingsService) Load() error {
	settings, err := s.repository.LoadSettings()
	if err != nil {
		return domain.NewServiceError("SettingsService", "Load", "failed to load settings", err)
	}
	state, err := s.repository.LoadState()
	if err != nil {
		return domain.NewServiceError("SettingsService", "Load", "failed to load state", err)
	}

	s.mu.Lock()
	s.settings = settings
	s.state = state
	s.mu.Unlock()

	s.logger.Debug("settings loaded",
		slog.String("theme", string(settings.AppTheme)),
		slog.Int("library_paths", len(settings.LibraryPaths)))
	return nil
}

// Settings returns a copy of the current settings.
func (s *SettingsService) Settings() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSettings(s.settings)
}

// State returns a copy of the current view state.
func (s *SettingsService) State() domain.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneState(s.state)
}

// LibraryPaths returns the directories scanned by a library update.
func (s *SettingsService) LibraryPaths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.settings.LibraryPaths)
}

// AddLibraryPath adds an existing directory to the library paths.
// Adding a path twice is not an error.
func (s *SettingsService) AddLibraryPath(path string) error {
	if path == "" {
		return domain.ErrInvalidFilePath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidFilePath, path)
	}

	info, err := os.Stat(abs)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", domain.ErrFileNotFound, abs)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", domain.ErrNotADirectory, abs)
	}

	return s.updateSettings("AddLibraryPath", func(settings *domain.Settings) bool {
		if slices.Contains(settings.LibraryPaths, abs) {
			return false
		}
		settings.LibraryPaths = append(settings.LibraryPaths, abs)
		slices.Sort(settings.LibraryPaths)
		return true
	})
}

// RemoveLibraryPath removes a directory from the library paths.
// The path does not need to exist on disk any more.
func (s *SettingsService) RemoveLibraryPath(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil || path == "" {
		return fmt.Errorf("%w: %s", domain.ErrInvalidFilePath, path)
	}

	var found bool
	err = s.updateSettings("RemoveLibraryPath", func(settings *domain.Settings) bool {
		i := slices.Index(settings.LibraryPaths, abs)
		if i < 0 {
			return false
		}
		found = true
		settings.LibraryPaths = slices.Delete(settings.LibraryPaths, i, i+1)
		return true
	})
	if err != nil {
		return err
	}
	if !found {
		return domain.NewValidationError("library_path", abs, "not a library path")
	}
	return nil
}

// SetTheme sets the application theme.
func (s *SettingsService) SetTheme(theme domain.AppTheme) error {
	if !theme.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidTheme, theme)
	}
	return s.updateSettings("SetTheme", func(settings *domain.Settings) bool {
		if settings.AppTheme == theme {
			return false
		}
		settings.AppTheme = theme
		return true
	})
}

// SetLocale overrides the desktop language. An empty tag clears the override.
func (s *SettingsService) SetLocale(tag string) error {
	if tag != "" {
		parsed, err := language.Parse(tag)
		if err != nil {
			return domain.NewValidationError("locale", tag, "not a language tag")
		}
		tag = parsed.String()
	}
	return s.updateSettings("SetLocale", func(settings *domain.Settings) bool {
		if settings.Locale == tag {
			return false
		}
		settings.Locale = tag
		return true
	})
}

// SetListTextWrap turns wrapping of long list entries on or off.
func (s *SettingsService) SetListTextWrap(wrap bool) error {
	return s.updateSettings("SetListTextWrap", func(settings *domain.Settings) bool {
		if settings.ListTextWrap == wrap {
			return false
		}
		settings.ListTextWrap = wrap
		return true
	})
}

// ToggleListTextWrap flips list text wrapping and returns the new value.
func (s *SettingsService) ToggleListTextWrap() (bool, error) {
	var wrap bool
	err := s.updateSettings("ToggleListTextWrap", func(settings *domain.Settings) bool {
		settings.ListTextWrap = !settings.ListTextWrap
		wrap = settings.ListTextWrap
		return true
	})
	return wrap, err
}

// SetSortOrder sets how the library playlist is ordered.
func (s *SettingsService) SetSortOrder(by domain.SortBy, dir domain.SortDirection) error {
	if _, err := domain.ParseSortBy(string(by)); err != nil {
		return err
	}
	if _, err := domain.ParseSortDirection(string(dir)); err != nil {
		return err
	}
	return s.updateState("SetSortOrder", func(state *domain.State) bool {
		if state.SortBy == by && state.SortDirection == dir {
			return false
		}
		state.SortBy, state.SortDirection = by, dir
		return true
	})
}

// SetPlaylistOrder persists the navigation order of user playlists.
func (s *SettingsService) SetPlaylistOrder(order []uint32) error {
	return s.updateState("SetPlaylistOrder", func(state *domain.State) bool {
		if slices.Equal(state.PlaylistOrder, order) {
			return false
		}
		state.PlaylistOrder = slices.Clone(order)
		return true
	})
}

// SetWindowSize records the window size for the next session.
func (s *SettingsService) SetWindowSize(width, height float64) error {
	if width <= 0 || height <= 0 {
		return domain.NewValidationError("window_size", fmt.Sprintf("%gx%g", width, height), "must be positive")
	}
	return s.updateState("SetWindowSize", func(state *domain.State) bool {
		if state.WindowWidth == width && state.WindowHeight == height {
			return false
		}
		state.WindowWidth, state.WindowHeight = width, height
		return true
	})
}

// ZoomIn enlarges the list view by one step, up to domain.ZoomMax.
func (s *SettingsService) ZoomIn() (float64, error) {
	return s.zoom("ZoomIn", domain.ZoomStep)
}

// ZoomOut shrinks the list view by one step, down to domain.ZoomMin.
func (s *SettingsService) ZoomOut() (float64, error) {
	return s.zoom("ZoomOut", -domain.ZoomStep)
}

func (s *SettingsService) zoom(op string, delta float64) (float64, error) {
	var level float64
	err := s.updateState(op, func(state *domain.State) bool {
		next := math.Round((state.ZoomLevel+delta)/domain.ZoomStep) * domain.ZoomStep
		next = min(max(next, domain.ZoomMin), domain.ZoomMax)
		level = next
		if next == state.ZoomLevel {
			return false
		}
		state.ZoomLevel = next
		return true
	})
	return level, err
}

// updateSettings applies fn to a copy of the settings and persists it when
// fn reports a change. The cache is only updated after a successful save.
func (s *SettingsService) updateSettings(op string, fn func(*domain.Settings) bool) error {
	s.mu.Lock()
	next := cloneSettings(s.settings)
	if !fn(&next) {
		s.mu.Unlock()
		return nil
	}
	if err := s.repository.SaveSettings(next); err != nil {
		s.mu.Unlock()
		return domain.NewServiceError("SettingsService", op, "failed to save settings", err)
	}
	s.settings = next
	s.mu.Unlock()

	s.logger.Debug("settings changed", slog.String("op", op))
	s.bus.Publish(domain.NewSettingsChangedEvent(cloneSettings(next)))
	return nil
}

func (s *SettingsService) updateState(op string, fn func(*domain.State) bool) error {
	s.mu.Lock()
	next := cloneState(s.state)
	if !fn(&next) {
		s.mu.Unlock()
		return nil
	}
	if err := s.repository.SaveState(next); err != nil {
		s.mu.Unlock()
		return domain.NewServiceError("SettingsService", op, "failed to save state", err)
	}
	s.state = next
	s.mu.Unlock()

	s.logger.Debug("state changed", slog.String("op", op))
	s.bus.Publish(domain.NewStateChangedEvent(cloneState(next)))
	return nil
}

func cloneSettings(s domain.Settings) domain.Settings {
	s.LibraryPaths = slices.Clone(s.LibraryPaths)
	if s.LibraryPaths == nil {
		s.LibraryPaths = []string{}
	}
	return s
}

func cloneState(s domain.State) domain.State {
	s.PlaylistOrder = slices.Clone(s.PlaylistOrder)
	if s.PlaylistOrder == nil {
		s.PlaylistOrder = []uint32{}
	}
	return s
}
