package session

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/player"
	"github.com/desertthunder/playx/internal/services"
	"github.com/desertthunder/playx/internal/shared"
	"github.com/desertthunder/playx/internal/tasks"
)

// Playback is a running stream as seen by the controller. Satisfied by [player.Pipeline].
type Playback interface {
	player.Playback
	player.PlaybackControl
	Title() string
	Alive() bool
	Toggle() error
	Teardown() error
}

// Launcher starts a [Playback] for a track.
type Launcher interface {
	Start(ctx context.Context, track models.Track) (Playback, error)
}

type pipelineLauncher struct {
	l *player.Launcher
}

// NewPipelineLauncher adapts a [player.Launcher] to [Launcher].
func NewPipelineLauncher(l *player.Launcher) Launcher {
	return pipelineLauncher{l: l}
}

func (p pipelineLauncher) Start(ctx context.Context, track models.Track) (Playback, error) {
	pl, err := p.l.Start(ctx, track)
	if err != nil {
		return nil, err
	}
	return pl, nil
}

// Options configures a [Controller].
type Options struct {
	Catalogs      []services.Catalog // display order, index 0 is primary
	Launcher      Launcher           // nil disables streaming
	Downloader    *tasks.Downloader
	Levels        *player.Levels
	Sample        time.Duration
	Entropy       io.Reader
	SearchTimeout time.Duration
	Logger        *log.Logger
}

// Controller is the session state machine.
//
// Dispatch and Snapshot are meant to be called from one UI goroutine; the mutex only protects
// against a render racing a dispatch when a caller does not follow that rule.
type Controller struct {
	mu sync.Mutex

	catalogs      []services.Catalog
	launcher      Launcher
	downloader    *tasks.Downloader
	levels        *player.Levels
	sample        time.Duration
	entropy       io.Reader
	searchTimeout time.Duration
	logger        *log.Logger

	view         View
	mode         Mode
	modeCursor   Cursor
	query        []rune
	sourceCursor Cursor
	source       int
	results      []models.Track
	cursor       Cursor
	equalizer    int
	notice       string

	playback    Playback
	stopSampler context.CancelFunc
	samplerDone chan struct{}
}

// New creates a Controller on [ModeSelect].
func New(opts Options) *Controller {
	if opts.Levels == nil {
		opts.Levels = &player.Levels{}
	}
	if opts.Downloader == nil {
		opts.Downloader = tasks.NewDownloader(tasks.DownloaderOpts{Logger: opts.Logger})
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &Controller{
		catalogs:      opts.Catalogs,
		launcher:      opts.Launcher,
		downloader:    opts.Downloader,
		levels:        opts.Levels,
		sample:        opts.Sample,
		entropy:       opts.Entropy,
		searchTimeout: opts.SearchTimeout,
		logger:        shared.WithLogger(opts.Logger, "component", "session"),
		view:          ModeSelect,
		modeCursor:    NewCursor(len(Modes)),
		sourceCursor:  NewCursor(len(opts.Catalogs)),
	}
}

// Dispatch applies ev and reports whether the session should end.
func (c *Controller) Dispatch(ctx context.Context, ev Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.notice = ""

	if ev.Kind == EventQuit {
		c.stopStream()
		c.logger.Info("session quit", "view", c.view)
		return true
	}

	switch c.view {
	case ModeSelect:
		c.onModeSelect(ev)
	case QueryInput:
		c.onQueryInput(ctx, ev)
	case SourceSelect:
		c.onSourceSelect(ctx, ev)
	case ResultsList:
		c.onResultsList(ctx, ev)
	case Streaming:
		c.onStreaming(ev)
	case Downloading:
		c.onDownloading(ev)
	}
	return false
}

func (c *Controller) onModeSelect(ev Event) {
	switch ev.Kind {
	case EventUp:
		c.modeCursor = c.modeCursor.Up()
	case EventDown:
		c.modeCursor = c.modeCursor.Down(len(Modes))
	case EventConfirm:
		i, _ := c.modeCursor.Index()
		c.mode = Modes[i]
		if c.mode == ModeStream {
			c.source = 0
		}
		c.view = QueryInput
	}
}

func (c *Controller) onQueryInput(ctx context.Context, ev Event) {
	switch ev.Kind {
	case EventChar:
		c.query = append(c.query, ev.Char)
	case EventBackspace:
		if len(c.query) > 0 {
			c.query = c.query[:len(c.query)-1]
		}
	case EventBack:
		c.view = ModeSelect
	case EventConfirm:
		if strings.TrimSpace(string(c.query)) == "" {
			c.notice = "Type something to search for"
			return
		}
		if c.mode == ModeDownload {
			c.view = SourceSelect
			return
		}
		c.search(ctx, 0)
	}
}

func (c *Controller) onSourceSelect(ctx context.Context, ev Event) {
	switch ev.Kind {
	case EventUp:
		c.sourceCursor = c.sourceCursor.Up()
	case EventDown:
		c.sourceCursor = c.sourceCursor.Down(len(c.catalogs))
	case EventBack:
		c.view = QueryInput
	case EventConfirm:
		i, ok := c.sourceCursor.Index()
		if !ok {
			c.notice = shared.ErrNoCatalog.Error()
			return
		}
		c.search(ctx, i)
	}
}

// search runs the query against catalog i and enters ResultsList on success.
// On failure the view is left unchanged and the error becomes the notice.
func (c *Controller) search(ctx context.Context, i int) {
	if i < 0 || i >= len(c.catalogs) {
		c.notice = shared.ErrNoCatalog.Error()
		return
	}
	catalog := c.catalogs[i]
	query := strings.TrimSpace(string(c.query))

	if c.searchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.searchTimeout)
		defer cancel()
	}

	tracks, err := catalog.Search(ctx, query)
	if err != nil {
		c.logger.Error("search failed", "catalog", catalog.Name(), "query", query, "error", err)
		c.notice = fmt.Sprintf("Search failed: %v", err)
		return
	}

	c.logger.Info("search complete", "catalog", catalog.Name(), "query", query, "results", len(tracks))
	c.source = i
	c.results = tracks
	c.cursor = NewCursor(len(tracks))
	c.view = ResultsList
}

func (c *Controller) onResultsList(ctx context.Context, ev Event) {
	switch ev.Kind {
	case EventUp:
		if c.cursor.AtTop() {
			c.leaveResults()
			return
		}
		c.cursor = c.cursor.Up()
	case EventDown:
		c.cursor = c.cursor.Down(len(c.results))
	case EventBack:
		c.leaveResults()
	case EventConfirm:
		i, ok := c.cursor.Index()
		if !ok {
			return
		}
		track := c.results[i]
		if c.mode == ModeStream {
			c.startStream(ctx, track)
		} else {
			c.startDownload(track)
		}
	}
}

func (c *Controller) leaveResults() {
	c.results = nil
	c.cursor = NewCursor(0)
	if c.mode == ModeDownload {
		c.view = SourceSelect
		return
	}
	c.view = QueryInput
}

func (c *Controller) startStream(ctx context.Context, track models.Track) {
	if c.launcher == nil {
		c.notice = "Streaming is not available"
		return
	}

	pb, err := c.launcher.Start(ctx, track)
	if err != nil {
		c.logger.Error("stream failed to start", "track", track.ID, "error", err)
		c.notice = fmt.Sprintf("Could not play %s: %v", track.Title, err)
		return
	}

	sctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	sampler := player.NewSampler(c.levels, player.SamplerOpts{
		Interval: c.sample,
		Entropy:  c.entropy,
		Logger:   c.logger,
	})
	go func() {
		defer close(done)
		sampler.Run(sctx, pb)
	}()

	c.playback = pb
	c.stopSampler = cancel
	c.samplerDone = done
	c.view = Streaming
	c.logger.Info("streaming", "track", track.ID, "title", pb.Title())
}

// stopStream tears the pipeline down and waits for the sampler. No-op without a pipeline.
func (c *Controller) stopStream() {
	if c.playback == nil {
		return
	}

	c.stopSampler()
	if err := c.playback.Teardown(); err != nil {
		c.logger.Warn("teardown reported an error", "error", err)
	}
	<-c.samplerDone
	c.levels.Reset()

	c.playback = nil
	c.stopSampler = nil
	c.samplerDone = nil
}

func (c *Controller) onStreaming(ev Event) {
	switch ev.Kind {
	case EventTogglePause:
		if err := c.playback.Toggle(); err != nil {
			c.logger.Warn("pause toggle failed", "error", err)
			c.notice = fmt.Sprintf("Could not pause/resume: %v", err)
		}
	case EventSetEqualizer:
		if ev.Level >= 0 && ev.Level < EqualizerStyles {
			c.equalizer = ev.Level
		}
	case EventBack:
		c.stopStream()
		c.view = ResultsList
	}
}

func (c *Controller) startDownload(track models.Track) {
	if c.source < 0 || c.source >= len(c.catalogs) {
		c.notice = shared.ErrNoCatalog.Error()
		return
	}
	c.downloader.Start(track, c.catalogs[c.source])
	c.view = Downloading
}

func (c *Controller) onDownloading(ev Event) {
	if ev.Kind == EventBack {
		c.downloader.Status().Clear()
		c.view = ResultsList
	}
}

// Snapshot copies the state needed to render the current view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	modeIdx, _ := c.modeCursor.Index()
	srcIdx, _ := c.sourceCursor.Index()
	cur, hasCur := c.cursor.Index()

	s := Snapshot{
		View:         c.view,
		Mode:         c.mode,
		ModeCursor:   modeIdx,
		Query:        string(c.query),
		Sources:      make([]string, len(c.catalogs)),
		SourceCursor: srcIdx,
		Results:      append([]models.Track(nil), c.results...),
		Cursor:       cur,
		HasCursor:    hasCur,
		NoResults:    c.view == ResultsList && len(c.results) == 0,
		Levels:       c.levels.Snapshot(),
		Equalizer:    c.equalizer,
		Notice:       c.notice,
	}
	for i, cat := range c.catalogs {
		s.Sources[i] = cat.Name()
	}
	if c.source >= 0 && c.source < len(c.catalogs) {
		s.Source = c.catalogs[c.source].Name()
	}
	if c.playback != nil {
		s.NowPlaying = c.playback.Title()
		s.Paused = c.playback.Paused()
		s.Finished = !c.playback.Alive()
	}
	s.Status, s.HasStatus = c.downloader.Status().Get()
	return s
}

// Close tears down any live pipeline. Safe to call more than once.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopStream()
}
