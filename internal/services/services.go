package services

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/shared"
)

// Catalog is a remote source of searchable tracks.
type Catalog interface {
	// Name returns the display name of the catalog (e.g., "YouTube")
	Name() string

	// Source returns the tag stored on every [models.Track] the catalog produces.
	Source() models.Source

	// Search returns matching tracks in catalog order. No match is an empty slice, not an error.
	Search(ctx context.Context, query string) ([]models.Track, error)

	// Download writes the audio of track under dest and returns the path of the written file.
	Download(ctx context.Context, track models.Track, dest models.Destination) (string, error)

	// PageURL returns a human-facing link for track.
	PageURL(track models.Track) string
}

// Registry keeps the enabled catalogs in display order. Index 0 is the primary catalog.
type Registry struct {
	catalogs []Catalog
}

// NewRegistry creates a registry from catalogs, skipping nil entries.
func NewRegistry(catalogs ...Catalog) *Registry {
	r := &Registry{}
	for _, c := range catalogs {
		if c != nil {
			r.catalogs = append(r.catalogs, c)
		}
	}
	return r
}

// NewRegistryFromConfig builds every catalog enabled in cfg.
//
// The returned YouTube catalog is also the streaming backend; it is nil when disabled.
func NewRegistryFromConfig(cfg *shared.Config, logger *log.Logger) (*Registry, *YouTubeCatalog) {
	httpOpts := HTTPOpts{
		UserAgent: cfg.Catalogs.UserAgent,
		RateLimit: cfg.Catalogs.RateLimit,
		Timeout:   cfg.Catalogs.Timeout(),
	}

	var yt *YouTubeCatalog
	var catalogs []Catalog
	if cfg.Catalogs.YouTube.Enabled {
		yt = NewYouTubeCatalog(YouTubeOpts{
			Executable: cfg.Player.FetchPath,
			Limit:      cfg.Catalogs.YouTube.SearchLimit,
			Logger:     logger,
		})
		catalogs = append(catalogs, yt)
	}
	if cfg.Catalogs.Archive.Enabled {
		catalogs = append(catalogs, NewArchiveCatalog(ArchiveOpts{
			BaseURL: cfg.Catalogs.Archive.BaseURL,
			Rows:    cfg.Catalogs.Archive.Rows,
			HTTP:    httpOpts,
			Logger:  logger,
		}))
	}
	if cfg.Catalogs.FMA.Enabled {
		catalogs = append(catalogs, NewFMACatalog(FMAOpts{
			BaseURL: cfg.Catalogs.FMA.BaseURL,
			APIKey:  cfg.Catalogs.FMA.APIKey,
			Limit:   cfg.Catalogs.FMA.Limit,
			HTTP:    httpOpts,
			Logger:  logger,
		}))
	}
	return NewRegistry(catalogs...), yt
}

// Len returns the number of registered catalogs.
func (r *Registry) Len() int { return len(r.catalogs) }

// All returns the catalogs in display order.
func (r *Registry) All() []Catalog {
	return append([]Catalog(nil), r.catalogs...)
}

// Names returns the display names in order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.catalogs))
	for i, c := range r.catalogs {
		names[i] = c.Name()
	}
	return names
}

// At returns the catalog at index i.
func (r *Registry) At(i int) (Catalog, error) {
	if i < 0 || i >= len(r.catalogs) {
		return nil, fmt.Errorf("%w: index %d", shared.ErrNoCatalog, i)
	}
	return r.catalogs[i], nil
}

// Primary returns the first registered catalog.
func (r *Registry) Primary() (Catalog, error) {
	return r.At(0)
}

// Lookup returns the catalog producing tracks tagged with source.
func (r *Registry) Lookup(source models.Source) (Catalog, error) {
	for _, c := range r.catalogs {
		if c.Source() == source {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %s is not enabled", shared.ErrNoCatalog, source)
}
