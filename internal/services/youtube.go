package services

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/shared"
	"github.com/lrstanley/go-ytdlp"
)

const (
	youtubeWatchURL     = "https://www.youtube.com/watch?v="
	defaultYouTubeLimit = 15
	defaultExecutable   = "yt-dlp"
	// streamFormat prefers an audio-only stream so the play tool never sees video.
	streamFormat = "bestaudio/best"
)

// YouTubeOpts configures a [YouTubeCatalog].
type YouTubeOpts struct {
	Executable string // yt-dlp path, resolved from PATH when empty
	Limit      int
	Logger     *log.Logger
}

// YouTubeCatalog searches and fetches YouTube through yt-dlp.
//
// It is also the streaming backend: [YouTubeCatalog.FetchCommand] writes the audio stream
// to stdout and [YouTubeCatalog.TitleCommand] prints the title only.
type YouTubeCatalog struct {
	executable string
	limit      int
	logger     *log.Logger
}

// NewYouTubeCatalog creates a YouTube catalog.
func NewYouTubeCatalog(opts YouTubeOpts) *YouTubeCatalog {
	if opts.Limit <= 0 {
		opts.Limit = defaultYouTubeLimit
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &YouTubeCatalog{
		executable: opts.Executable,
		limit:      opts.Limit,
		logger:     shared.WithLogger(opts.Logger, "catalog", "youtube"),
	}
}

// Name returns the catalog name.
func (y *YouTubeCatalog) Name() string { return models.SourceYouTube.String() }

// Source returns [models.SourceYouTube].
func (y *YouTubeCatalog) Source() models.Source { return models.SourceYouTube }

// PageURL returns the watch page of track.
func (y *YouTubeCatalog) PageURL(track models.Track) string {
	return youtubeWatchURL + track.ID
}

func (y *YouTubeCatalog) command() *ytdlp.Command {
	cmd := ytdlp.New().NoWarnings().IgnoreConfig()
	if y.executable != "" {
		cmd.SetExecutable(y.executable)
	}
	return cmd
}

// Search runs a flat ytsearch and reads one "id<TAB>title" line per result.
func (y *YouTubeCatalog) Search(ctx context.Context, query string) ([]models.Track, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", shared.ErrSearch)
	}

	target := fmt.Sprintf("ytsearch%d:%s", y.limit, query)
	res, err := y.command().
		FlatPlaylist().
		Print("%(id)s\t%(title)s").
		PlaylistItems(fmt.Sprintf("1-%d", y.limit)).
		Run(ctx, "--skip-download", "--ignore-errors", target)
	if err != nil {
		return nil, fmt.Errorf("%w: yt-dlp: %v%s", shared.ErrSearch, err, resultStderr(res))
	}

	tracks := parseSearchLines(res.Stdout)
	y.logger.Debug("search complete", "query", query, "results", len(tracks))
	return tracks, nil
}

func parseSearchLines(out string) []models.Track {
	tracks := make([]models.Track, 0)
	for line := range strings.SplitSeq(strings.TrimSpace(out), "\n") {
		id, title, ok := strings.Cut(strings.TrimRight(line, "\r"), "\t")
		id = strings.TrimSpace(id)
		if !ok || id == "" || id == "NA" {
			continue
		}
		tracks = append(tracks, models.Track{
			ID:     id,
			Title:  strings.TrimSpace(title),
			Source: models.SourceYouTube,
		})
	}
	return tracks
}

// FetchCommand returns a yt-dlp command writing the best audio stream of track to stdout.
func (y *YouTubeCatalog) FetchCommand(ctx context.Context, track models.Track) *exec.Cmd {
	return y.rawCommand(ctx,
		"--format", streamFormat,
		"--output", "-",
		"--no-part",
		"--no-playlist",
		"--quiet",
		y.PageURL(track),
	)
}

// TitleCommand returns a yt-dlp command printing only the title of track.
func (y *YouTubeCatalog) TitleCommand(ctx context.Context, track models.Track) *exec.Cmd {
	return y.rawCommand(ctx,
		"--print", "%(title)s",
		"--no-playlist",
		"--skip-download",
		y.PageURL(track),
	)
}

// rawCommand builds an unstarted yt-dlp process with the same base flags as [YouTubeCatalog.command].
// The caller owns stdio, so the process is not started through the go-ytdlp runner.
func (y *YouTubeCatalog) rawCommand(ctx context.Context, args ...string) *exec.Cmd {
	executable := y.executable
	if executable == "" {
		executable = defaultExecutable
	}
	return exec.CommandContext(ctx, executable, append([]string{"--no-warnings", "--ignore-config"}, args...)...)
}

// Download fetches track and transcodes it to mp3 at dest.
func (y *YouTubeCatalog) Download(ctx context.Context, track models.Track, dest models.Destination) (string, error) {
	// yt-dlp expands % sequences in the output template.
	tmpl := models.Destination{Dir: dest.Dir, Base: strings.ReplaceAll(dest.Base, "%", "%%")}.Path("%(ext)s")

	res, err := y.command().
		Format(streamFormat).
		Output(tmpl).
		NoPlaylist().
		NoPart().
		ForceOverwrites().
		Run(ctx, "--extract-audio", "--audio-format", "mp3", y.PageURL(track))
	if err != nil {
		return "", fmt.Errorf("yt-dlp: %w%s", err, resultStderr(res))
	}
	return dest.Path("mp3"), nil
}

func resultStderr(res *ytdlp.Result) string {
	if res == nil {
		return ""
	}
	return stderrLine(res.Stderr)
}

// stderrLine returns the last non-empty stderr line, prefixed for appending to an error.
func stderrLine(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return ": " + l
		}
	}
	return ""
}
