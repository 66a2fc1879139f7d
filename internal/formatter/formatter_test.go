package formatter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/shared"
	th "github.com/desertthunder/playx/internal/testing"
)

func fixtures() []*models.Download {
	created := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	return []*models.Download{
		models.RestoreDownload("d1", "yt1", "Song, One", models.SourceYouTube, "/music/Song, One (PLAYX).mp3",
			models.DownloadCompleted, "", created, created.Add(time.Minute)),
		models.RestoreDownload("d2", "ia2", "Live Set", models.SourceArchive, "",
			models.DownloadFailed, "no acceptable audio format", created, created),
		models.RestoreDownload("d3", "fma3", "Pending Track", models.SourceFMA, "",
			models.DownloadPending, "", created, created),
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"TEXT", FormatText, false},
		{"csv", FormatCSV, false},
		{"md", FormatMarkdown, false},
		{" markdown ", FormatMarkdown, false},
		{"json", FormatJSON, false},
		{"yaml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidFlag) {
					t.Errorf("expected ErrInvalidFlag, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestExporters(t *testing.T) {
	downloads := fixtures()

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(downloads)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}
		if len(records) != 4 {
			t.Fatalf("expected header plus 3 rows, got %d", len(records))
		}
		if strings.Join(records[0], ",") != "ID,Track ID,Title,Source,Status,Path,Error,Created,Updated" {
			t.Errorf("unexpected headers %v", records[0])
		}
		if records[1][2] != "Song, One" || records[1][3] != "youtube" || records[1][4] != "completed" {
			t.Errorf("unexpected first row %v", records[1])
		}
		if records[2][6] != "no acceptable audio format" {
			t.Errorf("error column missing, got %v", records[2])
		}
		if records[1][7] != "2026-03-01T12:30:00Z" {
			t.Errorf("unexpected created timestamp %q", records[1][7])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(downloads)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Download History",
			"**Downloads**: 3",
			"**Completed**: 1",
			"## Downloads",
			"1. Song, One (YouTube) [completed]",
			"`/music/Song, One (PLAYX).mp3`",
			"2. Live Set (Internet Archive) [failed]",
			"error: no acceptable audio format",
			"3. Pending Track (Free Music Archive) [pending]",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToMarkdown empty", func(t *testing.T) {
		data, err := ExportToMarkdown(nil)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}
		if !strings.Contains(string(data), "_No downloads yet._") {
			t.Errorf("expected empty marker, got:\n%s", data)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(downloads)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"Downloads: 3",
			"1. [completed] Song, One (YouTube) -> /music/Song, One (PLAYX).mp3",
			"2. [failed] Live Set (Internet Archive): no acceptable audio format",
			"3. [pending] Pending Track (Free Music Archive)\n",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("text missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(downloads)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded []map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(decoded) != 3 {
			t.Fatalf("expected 3 entries, got %d", len(decoded))
		}
		if decoded[0]["source"] != "youtube" || decoded[0]["status"] != "completed" {
			t.Errorf("unexpected first entry %v", decoded[0])
		}
		if _, ok := decoded[2]["path"]; ok {
			t.Error("empty path should be omitted")
		}
	})

	t.Run("ExportToJSON empty is an array", func(t *testing.T) {
		data, err := ExportToJSON(nil)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}
		if strings.TrimSpace(string(data)) != "[]" {
			t.Errorf("expected empty array, got %q", data)
		}
	})

	t.Run("Export dispatches", func(t *testing.T) {
		for _, f := range Formats {
			if _, err := Export(f, downloads); err != nil {
				t.Errorf("Export(%s) failed: %v", f, err)
			}
		}
		if _, err := Export(Format("xml"), downloads); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestTracks(t *testing.T) {
	tracks := []models.Track{
		{ID: "abc", Title: "Clip", Source: models.SourceYouTube},
		{ID: "42", Title: "Indie", Source: models.SourceFMA, URL: "https://files.example/42.mp3"},
	}

	t.Run("TracksToText", func(t *testing.T) {
		got := string(TracksToText(tracks))
		want := "1: Clip (YouTube)\n2: Indie (Free Music Archive)\n"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("TracksToJSON", func(t *testing.T) {
		data, err := TracksToJSON(tracks, func(tr models.Track) string { return "page://" + tr.ID })
		if err != nil {
			t.Fatalf("TracksToJSON failed: %v", err)
		}
		var decoded []trackJSON
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded[0].Page != "page://abc" || decoded[1].URL != "https://files.example/42.mp3" || decoded[1].Source != "fma" {
			t.Errorf("unexpected tracks %+v", decoded)
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "reports", "history.csv")
		if err := WriteExport([]byte("a,b\n"), path); err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		th.AssertFileExists(t, path)
		if got := th.MustReadFile(t, path); got != "a,b\n" {
			t.Errorf("unexpected content %q", got)
		}
	})

	t.Run("unwritable path", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(blocker, nil, 0644); err != nil {
			t.Fatal(err)
		}
		err := WriteExport([]byte("x"), filepath.Join(blocker, "out.txt"))
		if !errors.Is(err, shared.ErrIO) {
			t.Errorf("expected ErrIO, got %v", err)
		}
	})
}
