// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/tejashwikalptaru/etherealwaves/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/etherealwaves/internal/adapter/metadata"
	"github.com/tejashwikalptaru/etherealwaves/internal/adapter/repository/filestore"
	"github.com/tejashwikalptaru/etherealwaves/internal/config"
	"github.com/tejashwikalptaru/etherealwaves/internal/i18n"
	"github.com/tejashwikalptaru/etherealwaves/internal/keybind"
	"github.com/tejashwikalptaru/etherealwaves/internal/logger"
	"github.com/tejashwikalptaru/etherealwaves/internal/ports"
	"github.com/tejashwikalptaru/etherealwaves/internal/service"
)

// Application is the root application structure that holds all dependencies.
// It follows the Dependency Injection pattern with constructor-based injection.
//
// The Application struct is responsible for:
// - Creating and wiring all dependencies
// - Restoring saved settings, library and playlists
// - Providing a clean entry point for the command line
type Application struct {
	// Core dependencies
	config  config.Config
	logger  *slog.Logger
	catalog *i18n.Catalog
	keys    *keybind.Table

	// Infrastructure
	eventBus *eventbus.SyncEventBus
	reader   ports.MetadataReader

	// Repositories
	libraryRepo  ports.LibraryRepository
	playlistRepo ports.PlaylistRepository
	settingsRepo ports.SettingsRepository

	// Services
	libraryService  *service.LibraryService
	playlistService *service.PlaylistService
	settingsService *service.SettingsService

	languages    []string
	shutdownOnce sync.Once
}

// Option customizes NewApplication.
type Option func(*Application)

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Application) {
		a.logger = logger
	}
}

// WithMetadataReader replaces the tag reader, typically in tests.
func WithMetadataReader(reader ports.MetadataReader) Option {
	return func(a *Application) {
		a.reader = reader
	}
}

// NewApplication creates a new application with all dependencies wired
// and saved state loaded.
func NewApplication(cfg config.Config, opts ...Option) (*Application, error) {
	app := &Application{config: cfg}
	for _, opt := range opts {
		opt(app)
	}

	// Step 1: Create logger
	if app.logger == nil {
		app.logger = logger.NewLogger(cfg.Logger())
	}
	app.logger.Debug("initializing application",
		slog.String("data_dir", cfg.DataDir),
		slog.String("config_dir", cfg.ConfigDir),
		slog.String("state_dir", cfg.StateDir))

	// Step 2: Load messages and keybindings
	catalog, err := i18n.DefaultCatalog(i18n.WithLogger(app.logger.With(slog.String("component", "i18n"))))
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	app.catalog = catalog
	app.keys = keybind.Default()

	// Step 3: Create an event bus
	app.eventBus = eventbus.NewSyncEventBus()
	app.eventBus.SetLogger(app.logger.With(slog.String("component", "eventbus")))

	// Step 4: Create repositories and the tag reader
	app.libraryRepo = filestore.NewLibraryRepository(cfg.DataDir, app.logger)
	app.playlistRepo = filestore.NewPlaylistRepository(cfg.DataDir, app.logger)
	app.settingsRepo = filestore.NewSettingsRepository(cfg.ConfigDir, cfg.StateDir, app.logger)
	if app.reader == nil {
		app.reader = metadata.NewTagReader(cfg.ArtworkDir(), app.logger)
	}

	// Step 5: Create services, settings first since the language depends on them
	app.settingsService = service.NewSettingsService(app.logger, app.settingsRepo, app.eventBus)
	if err := app.settingsService.Load(); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	app.languages = app.resolveLanguages()

	app.libraryService = service.NewLibraryService(app.logger, app.reader, app.libraryRepo, app.eventBus, cfg.ScanWorkers)
	app.playlistService = service.NewPlaylistService(
		app.logger,
		app.playlistRepo,
		app.libraryService,
		app.settingsService,
		app.eventBus,
		app.Translator(),
	)

	// Step 6: Load saved state
	if err := app.loadSavedState(); err != nil {
		app.Shutdown()
		return nil, err
	}

	return app, nil
}

// loadSavedState restores the library and playlists from the previous session.
func (a *Application) loadSavedState() error {
	if err := a.libraryService.Load(); err != nil {
		return fmt.Errorf("failed to load library: %w", err)
	}
	if err := a.playlistService.Load(); err != nil {
		return fmt.Errorf("failed to load playlists: %w", err)
	}
	return nil
}

// resolveLanguages orders requested languages: the process override,
// then the saved locale, then the desktop languages.
func (a *Application) resolveLanguages() []string {
	var langs []string
	for _, l := range append([]string{a.config.Locale, a.settingsService.Settings().Locale}, i18n.RequestedLanguages()...) {
		if l != "" && !slices.Contains(langs, l) {
			langs = append(langs, l)
		}
	}
	a.logger.Debug("languages resolved",
		slog.Any("requested", langs),
		slog.String("matched", a.catalog.Match(langs...).String()))
	return langs
}

// Languages returns the requested languages, most preferred first.
func (a *Application) Languages() []string {
	return slices.Clone(a.languages)
}

// Translator renders messages in the negotiated language.
func (a *Application) Translator() *i18n.Localizer {
	return a.catalog.Localizer(a.languages...)
}

// Catalog returns the loaded message catalog.
func (a *Application) Catalog() *i18n.Catalog {
	return a.catalog
}

// Keys returns the keybinding table.
func (a *Application) Keys() *keybind.Table {
	return a.keys
}

// Services returns the application services.
func (a *Application) Services() (*service.LibraryService, *service.PlaylistService, *service.SettingsService) {
	return a.libraryService, a.playlistService, a.settingsService
}

// EventBus returns the bus services publish on.
func (a *Application) EventBus() ports.EventBus {
	return a.eventBus
}

// Logger returns the application logger.
func (a *Application) Logger() *slog.Logger {
	return a.logger
}

// Config returns the configuration the application was built with.
func (a *Application) Config() config.Config {
	return a.config
}

// Shutdown stops a running library update and closes the event bus.
// It is safe to call more than once.
func (a *Application) Shutdown() {
	a.shutdownOnce.Do(func() {
		a.logger.Debug("shutting down application")

		if a.libraryService != nil {
			if err := a.libraryService.Shutdown(); err != nil {
				a.logger.Warn("failed to shutdown library service", slog.Any("error", err))
			}
		}

		if a.eventBus != nil {
			if err := a.eventBus.Close(); err != nil {
				a.logger.Warn("failed to close event bus", slog.Any("error", err))
			}
		}

		a.logger.Debug("application shutdown complete")
	})
}
