// package formatter renders download history and search results as CSV, Markdown, JSON or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/shared"
)

// Format names an output format accepted by [Export].
type Format string

const (
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatCSV, FormatMarkdown, FormatJSON}

// ParseFormat maps a flag value to a [Format]. "md" is accepted for Markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, s)
	}
}

const timeLayout = "2006-01-02 15:04"

// Export renders downloads in format f.
func Export(f Format, downloads []*models.Download) ([]byte, error) {
	switch f {
	case FormatText:
		return ExportToText(downloads)
	case FormatCSV:
		return ExportToCSV(downloads)
	case FormatMarkdown:
		return ExportToMarkdown(downloads)
	case FormatJSON:
		return ExportToJSON(downloads)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
	}
}

// ExportToCSV converts download history to CSV with columns: ID, Track ID, Title, Source, Status, Path, Error, Created, Updated
func ExportToCSV(downloads []*models.Download) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Track ID", "Title", "Source", "Status", "Path", "Error", "Created", "Updated"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, d := range downloads {
		record := []string{
			d.ID(),
			d.TrackID(),
			d.Title(),
			d.Source().Key(),
			string(d.Status()),
			d.Path(),
			d.ErrorText(),
			d.CreatedAt().UTC().Format(time.RFC3339),
			d.UpdatedAt().UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts download history to a Markdown document with one list item per download
func ExportToMarkdown(downloads []*models.Download) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Download History\n\n")
	buf.WriteString(fmt.Sprintf("**Downloads**: %d\n", len(downloads)))
	buf.WriteString(fmt.Sprintf("**Completed**: %d\n\n", countStatus(downloads, models.DownloadCompleted)))

	if len(downloads) == 0 {
		buf.WriteString("_No downloads yet._\n")
		return buf.Bytes(), nil
	}

	buf.WriteString("## Downloads\n\n")
	for i, d := range downloads {
		buf.WriteString(fmt.Sprintf("%d. %s (%s) [%s] %s\n", i+1, d.Title(), d.Source(), d.Status(), d.CreatedAt().Local().Format(timeLayout)))
		switch {
		case d.Path() != "":
			buf.WriteString(fmt.Sprintf("   - `%s`\n", d.Path()))
		case d.ErrorText() != "":
			buf.WriteString(fmt.Sprintf("   - error: %s\n", d.ErrorText()))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts download history to plain text format
func ExportToText(downloads []*models.Download) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Downloads: %d\n\n", len(downloads)))

	for i, d := range downloads {
		line := fmt.Sprintf("%d. [%s] %s (%s)", i+1, d.Status(), d.Title(), d.Source())
		switch {
		case d.Path() != "":
			line += " -> " + d.Path()
		case d.ErrorText() != "":
			line += ": " + d.ErrorText()
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

type downloadJSON struct {
	ID        string    `json:"id"`
	TrackID   string    `json:"track_id"`
	Title     string    `json:"title"`
	Source    string    `json:"source"`
	Status    string    `json:"status"`
	Path      string    `json:"path,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExportToJSON converts download history to an indented JSON array
func ExportToJSON(downloads []*models.Download) ([]byte, error) {
	out := make([]downloadJSON, 0, len(downloads))
	for _, d := range downloads {
		out = append(out, downloadJSON{
			ID:        d.ID(),
			TrackID:   d.TrackID(),
			Title:     d.Title(),
			Source:    d.Source().Key(),
			Status:    string(d.Status()),
			Path:      d.Path(),
			Error:     d.ErrorText(),
			CreatedAt: d.CreatedAt().UTC(),
			UpdatedAt: d.UpdatedAt().UTC(),
		})
	}
	return marshalJSON(out)
}

type trackJSON struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Source string `json:"source"`
	URL    string `json:"url,omitempty"`
	Page   string `json:"page,omitempty"`
}

// TracksToJSON renders search results, with the catalog page of each track when pageURL is set
func TracksToJSON(tracks []models.Track, pageURL func(models.Track) string) ([]byte, error) {
	out := make([]trackJSON, 0, len(tracks))
	for _, t := range tracks {
		tj := trackJSON{ID: t.ID, Title: t.Title, Source: t.Source.Key(), URL: t.URL}
		if pageURL != nil {
			tj.Page = pageURL(t)
		}
		out = append(out, tj)
	}
	return marshalJSON(out)
}

// TracksToText renders search results as numbered lines: "1: Title (Source)"
func TracksToText(tracks []models.Track) []byte {
	var buf bytes.Buffer
	for i, t := range tracks {
		buf.WriteString(fmt.Sprintf("%d: %s (%s)\n", i+1, t.Title, t.Source))
	}
	return buf.Bytes()
}

// WriteExport writes data to path, creating parent directories as needed.
func WriteExport(data []byte, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: failed to create directory: %v", shared.ErrIO, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", shared.ErrIO, path, err)
	}
	return nil
}

func marshalJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

func countStatus(downloads []*models.Download, status models.DownloadStatus) int {
	n := 0
	for _, d := range downloads {
		if d.Status() == status {
			n++
		}
	}
	return n
}
