package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/shared"
)

// Fetcher retrieves one track to disk. Satisfied by every services.Catalog.
type Fetcher interface {
	Name() string
	Download(ctx context.Context, track models.Track, dest models.Destination) (string, error)
}

// Recorder persists download history. Satisfied by repositories.HistoryRecorder.
type Recorder interface {
	Begin(track models.Track) (string, error)
	Finish(id, path string, cause error) error
}

// Tagger writes metadata into a downloaded file.
type Tagger interface {
	Tag(path string, track models.Track) error
}

// DownloaderOpts configures a [Downloader].
type DownloaderOpts struct {
	Dir      string
	Naming   shared.NamingRule
	Status   *StatusCell
	Recorder Recorder              // optional
	Tagger   Tagger                // optional, applied to .mp3 output
	Progress chan<- ProgressUpdate // optional, never blocks the worker
	Logger   *log.Logger
}

// Downloader runs fire-and-forget downloads that report into a shared [StatusCell].
type Downloader struct {
	dir      string
	naming   shared.NamingRule
	status   *StatusCell
	recorder Recorder
	tagger   Tagger
	progress chan<- ProgressUpdate
	logger   *log.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDownloader creates a Downloader. The status cell is allocated when opts leaves it nil.
func NewDownloader(opts DownloaderOpts) *Downloader {
	if opts.Status == nil {
		opts.Status = &StatusCell{}
	}
	if opts.Naming.Suffix == "" {
		opts.Naming = shared.NewNamingRule("")
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Downloader{
		dir:      opts.Dir,
		naming:   opts.Naming,
		status:   opts.Status,
		recorder: opts.Recorder,
		tagger:   opts.Tagger,
		progress: opts.Progress,
		logger:   shared.WithLogger(opts.Logger, "component", "downloader"),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Status returns the shared status cell.
func (d *Downloader) Status() *StatusCell { return d.status }

// Start publishes "<title> is downloading" and fetches track in the background.
//
// It returns immediately. The outcome is only observable through the status cell, the progress
// channel and the recorder. There is no retry and no per-download cancellation.
func (d *Downloader) Start(track models.Track, fetcher Fetcher) {
	token := d.status.Begin(DownloadingMessage(track.Title))

	var recordID string
	if d.recorder != nil {
		id, err := d.recorder.Begin(track)
		if err != nil {
			d.logger.Warn("failed to record download", "track", track.ID, "error", err)
		}
		recordID = id
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		path, err := d.run(track, fetcher)
		if err != nil {
			d.logger.Error("download failed", "track", track.ID, "error", err)
			d.sendProgress(failedUpdate(track, err))
			d.status.Publish(token, FailureMessage(err))
		} else {
			d.logger.Info("download complete", "track", track.ID, "path", path)
			d.sendProgress(finishedUpdate(track, path))
			d.status.Publish(token, SuccessMessage(track.Title))
		}

		if d.recorder != nil && recordID != "" {
			if rerr := d.recorder.Finish(recordID, path, err); rerr != nil {
				d.logger.Warn("failed to update download record", "id", recordID, "error", rerr)
			}
		}
	}()
}

func (d *Downloader) run(track models.Track, fetcher Fetcher) (string, error) {
	if fetcher == nil {
		return "", fmt.Errorf("%w: no catalog for %s", shared.ErrNoCatalog, track.Source)
	}

	dir := shared.ExpandHome(d.dir)
	d.sendProgress(preparingUpdate(track, dir))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("%w: failed to create %s: %v", shared.ErrIO, dir, err)
	}

	dest := models.Destination{Dir: dir, Base: d.naming.Base(track.Title)}
	d.sendProgress(fetchingUpdate(track, fetcher.Name()))
	path, err := fetcher.Download(d.ctx, track, dest)
	if err != nil {
		return "", err
	}

	if d.tagger != nil && strings.EqualFold(filepath.Ext(path), ".mp3") {
		d.sendProgress(taggingUpdate(track, path))
		if err := d.tagger.Tag(path, track); err != nil {
			d.logger.Warn("failed to tag file", "path", path, "error", err)
		}
	}
	return path, nil
}

// sendProgress sends a progress update through the channel without blocking.
func (d *Downloader) sendProgress(update ProgressUpdate) {
	if d.progress == nil {
		return
	}
	select {
	case d.progress <- update:
	default:
	}
}

// Wait blocks until every started download has finished.
func (d *Downloader) Wait() {
	d.wg.Wait()
}

// Close cancels in-flight downloads and waits for their workers. Used on application exit only.
func (d *Downloader) Close() {
	d.cancel()
	d.wg.Wait()
}
