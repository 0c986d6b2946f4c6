// Package metadata reads track metadata from audio files with dhowden/tag.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/google/uuid"

	"github.com/tejashwikalptaru/etherealwaves/internal/domain"
	"github.com/tejashwikalptaru/etherealwaves/internal/ports"
)

// TrackID returns the stable ID of the file at an absolute path.
func TrackID(absPath string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+absPath)).String()
}

// TagReader implements ports.MetadataReader.
// It is safe for concurrent use.
type TagReader struct {
	artworkDir string
	logger     *slog.Logger
}

// Ensure TagReader implements ports.MetadataReader
var _ ports.MetadataReader = (*TagReader)(nil)

// NewTagReader creates a reader that stores embedded cover art in artworkDir.
// An empty artworkDir disables artwork extraction.
func NewTagReader(artworkDir string, logger *slog.Logger) *TagReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &TagReader{
		artworkDir: artworkDir,
		logger:     logger.With(slog.String("adapter", "metadata")),
	}
}

// Read extracts metadata from the audio file at filePath.
// A file without readable tags is not an error: the title falls back to the
// file name without its extension.
func (r *TagReader) Read(filePath string) (*domain.Track, error) {
	if filePath == "" {
		return nil, domain.ErrInvalidFilePath
	}

	abs, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidFilePath, filePath)
	}

	info, err := os.Stat(abs)
	if errors.Is(err, os.ErrNotExist) {
		return nil, domain.ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidFilePath, abs)
	}

	base := filepath.Base(abs)
	ext := filepath.Ext(base)
	track := &domain.Track{
		ID:         TrackID(abs),
		Path:       abs,
		Title:      strings.TrimSuffix(base, ext),
		FileFormat: strings.ToLower(strings.TrimPrefix(ext, ".")),
		Size:       info.Size(),
		ModTime:    info.ModTime(),
	}

	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	m, err := tag.ReadFrom(file)
	if err != nil {
		if !errors.Is(err, tag.ErrNoTagsFound) {
			r.logger.Debug("unreadable tags", slog.String("path", abs), slog.Any("error", err))
		}
		return track, nil
	}

	applyTags(track, m)

	if pic := m.Picture(); pic != nil && r.artworkDir != "" {
		name, err := r.cacheArtwork(pic)
		if err != nil {
			r.logger.Warn("cannot save album artwork", slog.String("path", abs), slog.Any("error", err))
		} else {
			track.Artwork = name
		}
	}
	return track, nil
}

func applyTags(track *domain.Track, m tag.Metadata) {
	if title := strings.TrimSpace(m.Title()); title != "" {
		track.Title = title
	}
	track.Artist = strings.TrimSpace(m.Artist())
	track.Album = strings.TrimSpace(m.Album())
	track.AlbumArtist = strings.TrimSpace(m.AlbumArtist())
	track.Genre = strings.TrimSpace(m.Genre())
	track.Composer = strings.TrimSpace(m.Composer())
	track.Comment = strings.TrimSpace(m.Comment())

	if year := m.Year(); year > 0 {
		track.Year = year
	}
	track.TrackNumber, track.TrackCount = m.Track()
	track.DiscNumber, track.DiscCount = m.Disc()

	if f := m.Format(); f != tag.UnknownFormat {
		track.Container = string(f)
	}
}

// cacheArtwork writes picture data to <artworkDir>/<sha256>.<ext> unless the
// file already exists, and returns the file name.
func (r *TagReader) cacheArtwork(pic *tag.Picture) (string, error) {
	if len(pic.Data) == 0 {
		return "", errors.New("empty picture")
	}

	sum := sha256.Sum256(pic.Data)
	name := hex.EncodeToString(sum[:]) + "." + pictureExt(pic)
	target := filepath.Join(r.artworkDir, name)

	if _, err := os.Stat(target); err == nil {
		return name, nil
	}

	if err := os.MkdirAll(r.artworkDir, 0o755); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(r.artworkDir, ".artwork-*")
	if err != nil {
		return "", err
	}
	if _, err := tmp.Write(pic.Data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return name, nil
}

func pictureExt(pic *tag.Picture) string {
	if ext := strings.ToLower(strings.TrimPrefix(pic.Ext, ".")); ext != "" {
		return ext
	}
	if _, sub, ok := strings.Cut(pic.MIMEType, "/"); ok && sub != "" {
		return strings.ToLower(sub)
	}
	return "jpg"
}
