package services

import (
	"context"
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
	defaultArchiveBaseURL = "https://archive.org"
	defaultArchiveRows    = 15
)

// ArchiveFormats is the download preference order, lossless before lossy.
var ArchiveFormats = []string{"FLAC", "WAVE", "WAV", "VBR MP3", "MP3", "Ogg Vorbis", "OGG"}

// ArchiveOpts configures an [ArchiveCatalog].
type ArchiveOpts struct {
	BaseURL string
	Rows    int
	HTTP    HTTPOpts
	Logger  *log.Logger
}

// ArchiveCatalog searches the Internet Archive and downloads item files.
type ArchiveCatalog struct {
	baseURL string
	rows    int
	http    *httpClient
	logger  *log.Logger
}

type archiveSearchResponse struct {
	Response struct {
		Docs []struct {
			Identifier string `json:"identifier"`
			Title      any    `json:"title"` // string, or a list for some items
		} `json:"docs"`
	} `json:"response"`
}

// ArchiveFile is one entry of an item's metadata file list.
type ArchiveFile struct {
	Name   string `json:"name"`
	Format string `json:"format"`
}

type archiveMetadata struct {
	Files []ArchiveFile `json:"files"`
}

// NewArchiveCatalog creates an Internet Archive catalog.
func NewArchiveCatalog(opts ArchiveOpts) *ArchiveCatalog {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultArchiveBaseURL
	}
	if opts.Rows <= 0 {
		opts.Rows = defaultArchiveRows
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &ArchiveCatalog{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		rows:    opts.Rows,
		http:    newHTTPClient(opts.HTTP),
		logger:  shared.WithLogger(opts.Logger, "catalog", "archive"),
	}
}

// Name returns the catalog name.
func (a *ArchiveCatalog) Name() string { return models.SourceArchive.String() }

// Source returns [models.SourceArchive].
func (a *ArchiveCatalog) Source() models.Source { return models.SourceArchive }

// PageURL returns the item details page.
func (a *ArchiveCatalog) PageURL(track models.Track) string {
	return a.baseURL + "/details/" + url.PathEscape(track.ID)
}

// Search queries the advanced search endpoint for items matching query.
//
// Calls GET /advancedsearch.php
func (a *ArchiveCatalog) Search(ctx context.Context, query string) ([]models.Track, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", shared.ErrSearch)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Add("fl[]", "identifier")
	params.Add("fl[]", "title")
	params.Set("rows", strconv.Itoa(a.rows))
	params.Set("output", "json")

	var resp archiveSearchResponse
	if err := a.http.getJSON(ctx, a.baseURL+"/advancedsearch.php?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("%w: internet archive: %w", shared.ErrSearch, err)
	}

	tracks := make([]models.Track, 0, len(resp.Response.Docs))
	for _, doc := range resp.Response.Docs {
		title := archiveTitle(doc.Title)
		if doc.Identifier == "" || title == "" {
			continue
		}
		tracks = append(tracks, models.Track{ID: doc.Identifier, Title: title, Source: models.SourceArchive})
	}

	a.logger.Debug("search complete", "query", query, "results", len(tracks))
	return tracks, nil
}

func archiveTitle(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		if len(t) > 0 {
			if s, ok := t[0].(string); ok {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// Download reads the item metadata, picks a file by [ArchiveFormats] and stream-copies it.
//
// Calls GET /metadata/{id} then GET /download/{id}/{name}
func (a *ArchiveCatalog) Download(ctx context.Context, track models.Track, dest models.Destination) (string, error) {
	var meta archiveMetadata
	if err := a.http.getJSON(ctx, a.baseURL+"/metadata/"+url.PathEscape(track.ID), &meta); err != nil {
		return "", fmt.Errorf("metadata for %s: %w", track.ID, err)
	}

	file, ok := PickArchiveFile(meta.Files)
	if !ok {
		return "", fmt.Errorf("%w: %s has no %s file", shared.ErrFormat, track.ID, strings.Join(ArchiveFormats, "/"))
	}

	ext := strings.TrimPrefix(path.Ext(file.Name), ".")
	if ext == "" {
		ext = "audio"
	}
	out := dest.Path(strings.ToLower(ext))

	src := a.baseURL + "/download/" + url.PathEscape(track.ID) + "/" + escapePath(file.Name)
	a.logger.Info("downloading file", "id", track.ID, "file", file.Name, "format", file.Format)
	if err := a.http.saveTo(ctx, src, out); err != nil {
		return "", err
	}
	return out, nil
}

// PickArchiveFile returns the first file in the best available format.
func PickArchiveFile(files []ArchiveFile) (ArchiveFile, bool) {
	for _, format := range ArchiveFormats {
		for _, f := range files {
			if strings.EqualFold(f.Format, format) && f.Name != "" {
				return f, true
			}
		}
	}
	return ArchiveFile{}, false
}

// escapePath escapes each segment of a slash separated file name.
func escapePath(name string) string {
	parts := strings.Split(name, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
