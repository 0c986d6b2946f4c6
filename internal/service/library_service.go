// Package service provides business logic for the Ethereal Waves application.
package service

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/tejashwikalptaru/etherealwaves/internal/domain"
	"github.com/tejashwikalptaru/etherealwaves/internal/ports"
)

// SupportedExtensions are the audio file extensions indexed by a library update.
var SupportedExtensions = []string{"flac", "m4a", "mp3", "ogg", "opus"}

const (
	// MinFileSize is the size a file must exceed to be indexed.
	// Smaller files are stubs or broken downloads.
	MinFileSize = 4096

	// ProgressInterval throttles scan progress events.
	ProgressInterval = 200 * time.Millisecond

	// DefaultScanWorkers is the metadata pool size when none is configured.
	DefaultScanWorkers = 4
)

// IsSupported reports whether a file with this name and size is indexed.
func IsSupported(path string, size int64) bool {
	if size <= MinFileSize {
		return false
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return slices.Contains(SupportedExtensions, ext)
}

// LibraryService maintains the media library: it scans the library paths,
// reads metadata on a worker pool and persists the result.
// All operations are thread-safe via sync.RWMutex.
type LibraryService struct {
	logger  *slog.Logger
	reader  ports.MetadataReader
	repo    ports.LibraryRepository
	bus     ports.EventBus
	workers int

	mu         sync.RWMutex
	tracks     map[string]domain.Track
	scanning   bool
	cancelScan context.CancelFunc
	scanDone   chan struct{}
}

// NewLibraryService creates a new library service.
// workers sizes the metadata pool; values below 1 use DefaultScanWorkers.
func NewLibraryService(
	logger *slog.Logger,
	reader ports.MetadataReader,
	repo ports.LibraryRepository,
	bus ports.EventBus,
	workers int,
) *LibraryService {
	if workers < 1 {
		workers = DefaultScanWorkers
	}
	return &LibraryService{
		logger:  logger.With(slog.String("service", "library")),
		reader:  reader,
		repo:    repo,
		bus:     bus,
		workers: workers,
		tracks:  make(map[string]domain.Track),
	}
}

// Load replaces the in-memory library with the saved one.
func (s *LibraryService) Load() error {
	tracks, err := s.repo.Load()
	if err != nil {
		return domain.NewServiceError("LibraryService", "Load", "failed to load library", err)
	}

	s.mu.Lock()
	s.tracks = tracks
	s.mu.Unlock()

	s.logger.Info("library loaded", slog.Int("tracks", len(tracks)))
	s.bus.Publish(domain.NewLibraryLoadedEvent(len(tracks)))
	return nil
}

type scanResult struct {
	path  string
	track *domain.Track
	err   error
}

// Update rescans paths and replaces the library with what was found.
//
// Only one update runs at a time. When ctx is canceled or Cancel is called
// the update stops with domain.ErrScanCancelled and the previous library is
// kept. Files whose metadata cannot be read are skipped.
func (s *LibraryService) Update(ctx context.Context, paths []string) (domain.ScanSummary, error) {
	s.mu.Lock()
	if s.scanning {
		s.mu.Unlock()
		return domain.ScanSummary{}, domain.NewServiceError("LibraryService", "Update", "update already running", domain.ErrScanInProgress)
	}
	ctx, cancel := context.WithCancel(ctx)
	s.scanning = true
	s.cancelScan = cancel
	s.scanDone = make(chan struct{})
	done := s.scanDone
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		s.scanning = false
		s.cancelScan = nil
		s.scanDone = nil
		s.mu.Unlock()
		close(done)
	}()

	start := time.Now()
	s.logger.Info("library update started", slog.Any("paths", paths))
	s.bus.Publish(domain.NewScanStartedEvent(slices.Clone(paths)))

	files := s.collectAudioFiles(ctx, paths)
	if ctx.Err() != nil {
		return domain.ScanSummary{}, s.cancelled(ctx)
	}

	tracks, skipped, err := s.readMetadata(ctx, files)
	if err != nil {
		return domain.ScanSummary{}, domain.NewServiceError("LibraryService", "Update", "metadata pool failed", err)
	}
	if ctx.Err() != nil {
		return domain.ScanSummary{}, s.cancelled(ctx)
	}

	if err := s.repo.Save(tracks); err != nil {
		return domain.ScanSummary{}, domain.NewServiceError("LibraryService", "Update", "failed to save library", err)
	}

	s.mu.Lock()
	s.tracks = tracks
	s.mu.Unlock()

	summary := domain.ScanSummary{
		TracksFound:  len(tracks),
		FilesSkipped: skipped,
		Elapsed:      time.Since(start),
	}
	s.logger.Info("library update completed",
		slog.Int("tracks", summary.TracksFound),
		slog.Int("skipped", summary.FilesSkipped),
		slog.Duration("elapsed", summary.Elapsed))
	s.bus.Publish(domain.NewScanCompletedEvent(summary))
	return summary, nil
}

func (s *LibraryService) cancelled(ctx context.Context) error {
	reason := "cancelled"
	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
		reason = cause.Error()
	}
	s.logger.Info("library update cancelled", slog.String("reason", reason))
	s.bus.Publish(domain.NewScanCancelledEvent(reason))
	return domain.ErrScanCancelled
}

// collectAudioFiles walks every library path and returns indexable files,
// deduplicated and sorted. Unreadable paths are logged and skipped.
func (s *LibraryService) collectAudioFiles(ctx context.Context, roots []string) []string {
	seen := make(map[string]struct{})
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			s.logger.Warn("skipping library path", slog.String("path", root), slog.Any("error", err))
			continue
		}

		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				if path == abs {
					return err
				}
				s.logger.Debug("skipping unreadable entry", slog.String("path", path), slog.Any("error", err))
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			info, err := d.Info()
			if err != nil || !info.Mode().IsRegular() {
				return nil
			}
			if IsSupported(path, info.Size()) {
				seen[path] = struct{}{}
			}
			return nil
		})
		if err != nil && ctx.Err() == nil {
			s.logger.Warn("library path not scanned", slog.String("path", abs), slog.Any("error", err))
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// readMetadata reads every file on an ants pool and publishes throttled
// progress. It returns the library keyed by path and the number of files skipped.
func (s *LibraryService) readMetadata(ctx context.Context, files []string) (map[string]domain.Track, int, error) {
	tracks := make(map[string]domain.Track, len(files))
	if len(files) == 0 {
		s.bus.Publish(domain.NewScanProgressEvent(domain.ScanProgress{}))
		return tracks, 0, nil
	}

	pool, err := ants.NewPool(s.workers,
		ants.WithDisablePurge(true),
		ants.WithPanicHandler(func(p any) {
			s.logger.Error("metadata worker panicked", slog.Any("panic", p))
		}),
	)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if err := pool.ReleaseTimeout(5 * time.Second); err != nil {
			s.logger.Warn("metadata pool did not stop in time", slog.Any("error", err))
		}
	}()

	// Buffered for every file so workers never block on a slow collector.
	results := make(chan scanResult, len(files))

	var wg sync.WaitGroup
	go func() {
		defer close(results)
		for _, path := range files {
			if ctx.Err() != nil {
				break
			}
			wg.Add(1)
			err := pool.Submit(func() {
				defer wg.Done()
				if err := ctx.Err(); err != nil {
					results <- scanResult{path: path, err: err}
					return
				}
				track, err := s.reader.Read(path)
				results <- scanResult{path: path, track: track, err: err}
			})
			if err != nil {
				wg.Done()
				results <- scanResult{path: path, err: err}
			}
		}
		wg.Wait()
	}()

	progress := domain.ScanProgress{TotalFiles: len(files)}
	skipped := 0
	var lastEmit time.Time
	for r := range results {
		progress.FilesScanned++
		progress.CurrentFile = r.path

		switch {
		case r.err != nil && ctx.Err() != nil:
			// cancelled, drain
		case r.err != nil:
			skipped++
			s.logger.Warn("skipping file", slog.String("path", r.path), slog.Any("error", r.err))
		case r.track == nil || r.track.ID == "":
			skipped++
			s.logger.Warn("skipping file without ID", slog.String("path", r.path))
		default:
			tracks[r.path] = *r.track
			progress.TracksFound++
		}

		if ctx.Err() == nil && time.Since(lastEmit) >= ProgressInterval {
			lastEmit = time.Now()
			s.bus.Publish(domain.NewScanProgressEvent(progress))
		}
	}

	if ctx.Err() == nil {
		s.bus.Publish(domain.NewScanProgressEvent(progress))
	}
	return tracks, skipped, nil
}

// Cancel stops the running update.
func (s *LibraryService) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.scanning {
		return domain.ErrNoScanInProgress
	}
	if s.cancelScan != nil {
		s.cancelScan()
	}
	return nil
}

// IsScanning returns true if an update is running.
func (s *LibraryService) IsScanning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scanning
}

// Count returns the number of indexed tracks.
func (s *LibraryService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tracks)
}

// Track returns the indexed track at path.
func (s *LibraryService) Track(path string) (domain.Track, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tracks[path]
	if !ok {
		if abs, err := filepath.Abs(path); err == nil {
			t, ok = s.tracks[abs]
		}
	}
	if !ok {
		return domain.Track{}, domain.ErrTrackNotFound
	}
	return t, nil
}

// Tracks returns every indexed track in the requested order.
func (s *LibraryService) Tracks(by domain.SortBy, dir domain.SortDirection) []domain.Track {
	s.mu.RLock()
	tracks := slices.Collect(maps.Values(s.tracks))
	s.mu.RUnlock()

	// Path order first so equal sort keys come out the same every time.
	slices.SortFunc(tracks, func(a, b domain.Track) int { return strings.Compare(a.Path, b.Path) })
	domain.SortTracks(tracks, by, dir)
	return tracks
}

// Playlist returns the library as the read-only library playlist.
func (s *LibraryService) Playlist(name string, by domain.SortBy, dir domain.SortDirection) *domain.Playlist {
	return &domain.Playlist{
		ID:     domain.LibraryPlaylistID,
		Name:   name,
		Kind:   domain.KindLibrary,
		Tracks: s.Tracks(by, dir),
	}
}

// Shutdown cancels a running update and waits for it to return.
func (s *LibraryService) Shutdown() error {
	s.mu.Lock()
	done := s.scanDone
	if s.scanning && s.cancelScan != nil {
		s.cancelScan()
	}
	s.mu.Unlock()

	if done != nil {
		<-done
	}
	return nil
}
