package audio

import (
	"fmt"
	"os"

	"github.com/bogem/id3v2"
	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/shared"
)

// Comment descriptions written by the [Tagger].
const (
	SourceComment  = "source"
	TrackIDComment = "track_id"
	URLComment     = "url"
)

// TagConfig selects which frames the [Tagger] writes.
type TagConfig struct {
	// Title controls the TIT2 (Title) frame.
	Title bool

	// Source controls the COMM frames naming the catalog and track.
	Source bool

	// URL controls the COMM frame carrying the media URL.
	URL bool
}

// DefaultTagConfig enables every frame.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{Title: true, Source: true, URL: true}
}

// Tagger writes ID3v2 frames to MP3 files.
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// Tag writes the frames for track into the file at path.
func (t *Tagger) Tag(path string, track models.Track) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s: %v", shared.ErrIO, path, err)
		}
		return fmt.Errorf("%w: failed to read tags from %s: %v", shared.ErrFormat, path, err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	if t.config.Title && track.Title != "" {
		tag.SetTitle(track.Title)
	}

	if t.config.Source || t.config.URL {
		tag.DeleteFrames(tag.CommonID("Comments"))
	}
	if t.config.Source {
		addComment(tag, SourceComment, track.Source.String())
		addComment(tag, TrackIDComment, track.ID)
	}
	if t.config.URL && track.URL != "" {
		addComment(tag, URLComment, track.URL)
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("%w: failed to save tags to %s: %v", shared.ErrIO, path, err)
	}
	return nil
}

func addComment(tag *id3v2.Tag, description, text string) {
	tag.AddCommentFrame(id3v2.CommentFrame{
		Encoding:    id3v2.EncodingUTF8,
		Language:    "eng",
		Description: description,
		Text:        text,
	})
}
