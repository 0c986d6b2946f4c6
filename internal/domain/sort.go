package domain

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SortBy selects the field a track list is ordered by.
type SortBy string

const (
	SortByArtist SortBy = "artist"
	SortByAlbum  SortBy = "album"
	SortByTitle  SortBy = "title"
)

// SortDirection is the ordering direction.
type SortDirection string

const (
	Ascending  SortDirection = "ascending"
	Descending SortDirection = "descending"
)

// ParseSortBy parses a user supplied sort field.
func ParseSortBy(s string) (SortBy, error) {
	switch SortBy(strings.ToLower(strings.TrimSpace(s))) {
	case SortByArtist:
		return SortByArtist, nil
	case SortByAlbum:
		return SortByAlbum, nil
	case SortByTitle:
		return SortByTitle, nil
	}
	return "", NewValidationError("sort_by", s, fmt.Sprintf("must be one of %s, %s, %s", SortByArtist, SortByAlbum, SortByTitle))
}

// ParseSortDirection parses "ascending"/"asc" or "descending"/"desc".
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ascending", "asc":
		return Ascending, nil
	case "descending", "desc":
		return Descending, nil
	}
	return "", NewValidationError("sort_direction", s, "must be ascending or descending")
}

// SortTracks orders tracks in place. The sort is stable.
//
// Artist order breaks ties by album, then by track number. Missing values
// (empty strings, zero track numbers) order before present ones.
// Descending reverses the whole comparison.
func SortTracks(tracks []Track, by SortBy, dir SortDirection) {
	var compare func(a, b Track) int
	switch by {
	case SortByAlbum:
		compare = func(a, b Track) int { return cmp.Compare(a.Album, b.Album) }
	case SortByTitle:
		compare = func(a, b Track) int { return cmp.Compare(a.Title, b.Title) }
	default:
		compare = func(a, b Track) int {
			return cmp.Or(
				cmp.Compare(a.Artist, b.Artist),
				cmp.Compare(a.Album, b.Album),
				cmp.Compare(a.TrackNumber, b.TrackNumber),
			)
		}
	}

	if dir == Descending {
		slices.SortStableFunc(tracks, func(a, b Track) int { return -compare(a, b) })
		return
	}
	slices.SortStableFunc(tracks, compare)
}
