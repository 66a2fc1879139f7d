package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Source identifies the catalog a [Track] belongs to.
type Source int

const (
	SourceYouTube Source = iota
	SourceArchive
	SourceFMA
)

func (s Source) String() string {
	switch s {
	case SourceYouTube:
		return "YouTube"
	case SourceArchive:
		return "Internet Archive"
	case SourceFMA:
		return "Free Music Archive"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// Key returns the short lowercase identifier used in config, flags and the database.
func (s Source) Key() string {
	switch s {
	case SourceYouTube:
		return "youtube"
	case SourceArchive:
		return "archive"
	case SourceFMA:
		return "fma"
	default:
		return "unknown"
	}
}

// ParseSource maps a key produced by [Source.Key] back to a Source.
func ParseSource(key string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "youtube", "yt":
		return SourceYouTube, nil
	case "archive", "ia":
		return SourceArchive, nil
	case "fma":
		return SourceFMA, nil
	default:
		return 0, fmt.Errorf("unknown source %q", key)
	}
}

// Track is one search result. Values are never mutated after a catalog returns them.
type Track struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Source Source `json:"-"`
	URL    string `json:"url,omitempty"` // direct media URL, when the catalog provides one
}

// Destination is where a downloaded track is written: Dir joined with Base plus an extension.
type Destination struct {
	Dir  string
	Base string
}

// Path returns the full output path for the given extension.
func (d Destination) Path(ext string) string {
	return filepath.Join(d.Dir, d.Base+"."+strings.TrimPrefix(ext, "."))
}
