package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/shared"
)

const (
	defaultFMABaseURL = "https://freemusicarchive.org"
	defaultFMALimit   = 10
)

// FMAOpts configures an [FMACatalog].
type FMAOpts struct {
	BaseURL string
	APIKey  string
	Limit   int
	HTTP    HTTPOpts
	Logger  *log.Logger
}

// FMACatalog searches the Free Music Archive track API.
type FMACatalog struct {
	baseURL string
	apiKey  string
	limit   int
	http    *httpClient
	logger  *log.Logger
}

type fmaSearchResponse struct {
	Dataset []struct {
		TrackID    json.Number `json:"track_id"`
		TrackTitle string      `json:"track_title"`
		TrackURL   string      `json:"track_url"`
	} `json:"dataset"`
}

// NewFMACatalog creates a Free Music Archive catalog.
func NewFMACatalog(opts FMAOpts) *FMACatalog {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultFMABaseURL
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultFMALimit
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &FMACatalog{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		apiKey:  opts.APIKey,
		limit:   opts.Limit,
		http:    newHTTPClient(opts.HTTP),
		logger:  shared.WithLogger(opts.Logger, "catalog", "fma"),
	}
}

// Name returns the catalog name.
func (f *FMACatalog) Name() string { return models.SourceFMA.String() }

// Source returns [models.SourceFMA].
func (f *FMACatalog) Source() models.Source { return models.SourceFMA }

// PageURL returns the direct track URL reported by search.
func (f *FMACatalog) PageURL(track models.Track) string { return track.URL }

// Search queries the track search endpoint.
//
// Calls GET /api/trackSearch
func (f *FMACatalog) Search(ctx context.Context, query string) ([]models.Track, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", shared.ErrSearch)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(f.limit))
	if f.apiKey != "" {
		params.Set("api_key", f.apiKey)
	}

	var resp fmaSearchResponse
	if err := f.http.getJSON(ctx, f.baseURL+"/api/trackSearch?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("%w: free music archive: %w", shared.ErrSearch, err)
	}

	tracks := make([]models.Track, 0, len(resp.Dataset))
	for _, item := range resp.Dataset {
		if item.TrackID == "" || item.TrackTitle == "" || item.TrackURL == "" {
			continue
		}
		tracks = append(tracks, models.Track{
			ID:     item.TrackID.String(),
			Title:  item.TrackTitle,
			Source: models.SourceFMA,
			URL:    item.TrackURL,
		})
	}

	f.logger.Debug("search complete", "query", query, "results", len(tracks))
	return tracks, nil
}

// Download stream-copies the track URL to dest.
func (f *FMACatalog) Download(ctx context.Context, track models.Track, dest models.Destination) (string, error) {
	if track.URL == "" {
		return "", fmt.Errorf("%w: track %s has no url", shared.ErrNotFound, track.ID)
	}

	ext := "mp3"
	if u, err := url.Parse(track.URL); err == nil {
		if e := strings.TrimPrefix(path.Ext(u.Path), "."); e != "" {
			ext = strings.ToLower(e)
		}
	}

	out := dest.Path(ext)
	if err := f.http.saveTo(ctx, track.URL, out); err != nil {
		return "", err
	}
	return out, nil
}
