package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/shared"
	tu "github.com/desertthunder/playx/internal/testing"
)

type mockRecorder struct {
	mu       sync.Mutex
	begun    []models.Track
	finished map[string]error
	paths    map[string]string
	beginErr error
}

func newMockRecorder() *mockRecorder {
	return &mockRecorder{finished: make(map[string]error), paths: make(map[string]string)}
}

func (m *mockRecorder) Begin(track models.Track) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.beginErr != nil {
		return "", m.beginErr
	}
	m.begun = append(m.begun, track)
	return "rec-" + track.ID, nil
}

func (m *mockRecorder) Finish(id, path string, cause error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finished[id] = cause
	m.paths[id] = path
	return nil
}

type mockTagger struct {
	mu     sync.Mutex
	tagged []string
	err    error
}

func (m *mockTagger) Tag(path string, track models.Track) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tagged = append(m.tagged, path)
	return m.err
}

// extCatalog writes a file with a fixed extension.
type extCatalog struct{ ext string }

func (e *extCatalog) Name() string { return "ext" }

func (e *extCatalog) Download(ctx context.Context, track models.Track, dest models.Destination) (string, error) {
	path := dest.Path(e.ext)
	return path, os.WriteFile(path, []byte("x"), 0644)
}

func TestStatusCell(t *testing.T) {
	t.Run("starts empty", func(t *testing.T) {
		var c StatusCell
		if _, ok := c.Get(); ok {
			t.Error("new cell should be unset")
		}
	})

	t.Run("publish with current token", func(t *testing.T) {
		var c StatusCell
		token := c.Begin("a is downloading")
		if !c.Publish(token, "a downloaded successfully") {
			t.Fatal("publish with current token should succeed")
		}
		if got, _ := c.Get(); got != "a downloaded successfully" {
			t.Errorf("unexpected status %q", got)
		}
	})

	t.Run("clear drops stale writes", func(t *testing.T) {
		var c StatusCell
		token := c.Begin("a is downloading")
		c.Clear()
		if c.Publish(token, "a downloaded successfully") {
			t.Error("publish after clear should be dropped")
		}
		if _, ok := c.Get(); ok {
			t.Error("cell should stay empty")
		}
	})

	t.Run("newer download owns the slot", func(t *testing.T) {
		var c StatusCell
		first := c.Begin("a is downloading")
		second := c.Begin("b is downloading")
		if c.Publish(first, "a downloaded successfully") {
			t.Error("superseded download should not publish")
		}
		c.Publish(second, "b downloaded successfully")
		if got, _ := c.Get(); got != "b downloaded successfully" {
			t.Errorf("unexpected status %q", got)
		}
	})
}

func TestDownloader(t *testing.T) {
	track := models.Track{ID: "t1", Title: "AC/DC Live", Source: models.SourceArchive}

	t.Run("status goes downloading then success", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "downloads")
		gate := make(chan struct{})
		catalog := &tu.MockCatalog{Gate: gate, Payload: []byte("bytes")}
		d := NewDownloader(DownloaderOpts{Dir: dir, Logger: tu.DiscardLogger()})

		d.Start(track, catalog)

		got, ok := d.Status().Get()
		if !ok || got != "AC/DC Live is downloading" {
			t.Fatalf("expected downloading status before completion, got %q", got)
		}

		close(gate)
		d.Wait()

		if got, _ := d.Status().Get(); got != "AC/DC Live downloaded successfully" {
			t.Errorf("unexpected final status %q", got)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "AC_DC Live (PLAYX).bin"))
	})

	t.Run("catalog failure", func(t *testing.T) {
		catalog := &tu.MockCatalog{DownloadErr: errors.New("boom")}
		d := NewDownloader(DownloaderOpts{Dir: t.TempDir(), Logger: tu.DiscardLogger()})

		d.Start(track, catalog)
		d.Wait()

		if got, _ := d.Status().Get(); got != "Download failed: boom" {
			t.Errorf("unexpected status %q", got)
		}
	})

	t.Run("directory creation failure", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(blocker, nil, 0644); err != nil {
			t.Fatal(err)
		}
		catalog := &tu.MockCatalog{}
		d := NewDownloader(DownloaderOpts{Dir: filepath.Join(blocker, "sub"), Logger: tu.DiscardLogger()})

		d.Start(track, catalog)
		d.Wait()

		got, _ := d.Status().Get()
		if !strings.HasPrefix(got, "Download failed: ") || !strings.Contains(got, shared.ErrIO.Error()) {
			t.Errorf("expected io failure status, got %q", got)
		}
		if len(catalog.Downloads()) != 0 {
			t.Error("catalog should not be called when the directory is unusable")
		}
	})

	t.Run("nil fetcher", func(t *testing.T) {
		d := NewDownloader(DownloaderOpts{Dir: t.TempDir(), Logger: tu.DiscardLogger()})
		d.Start(track, nil)
		d.Wait()

		got, _ := d.Status().Get()
		if !strings.HasPrefix(got, "Download failed: ") {
			t.Errorf("expected failure status, got %q", got)
		}
	})

	t.Run("cleared status stays cleared", func(t *testing.T) {
		gate := make(chan struct{})
		d := NewDownloader(DownloaderOpts{Dir: t.TempDir(), Logger: tu.DiscardLogger()})

		d.Start(track, &tu.MockCatalog{Gate: gate})
		d.Status().Clear()
		close(gate)
		d.Wait()

		if got, ok := d.Status().Get(); ok {
			t.Errorf("late write should be discarded, got %q", got)
		}
	})

	t.Run("records history", func(t *testing.T) {
		rec := newMockRecorder()
		d := NewDownloader(DownloaderOpts{Dir: t.TempDir(), Recorder: rec, Logger: tu.DiscardLogger()})

		d.Start(track, &tu.MockCatalog{})
		d.Wait()

		if len(rec.begun) != 1 {
			t.Fatalf("expected one begun record, got %d", len(rec.begun))
		}
		if cause, ok := rec.finished["rec-t1"]; !ok || cause != nil {
			t.Errorf("expected successful finish, got %v (present=%v)", cause, ok)
		}
		if !strings.HasSuffix(rec.paths["rec-t1"], ".bin") {
			t.Errorf("expected path to be recorded, got %q", rec.paths["rec-t1"])
		}
	})

	t.Run("recorder failure does not block download", func(t *testing.T) {
		rec := newMockRecorder()
		rec.beginErr = errors.New("db locked")
		d := NewDownloader(DownloaderOpts{Dir: t.TempDir(), Recorder: rec, Logger: tu.DiscardLogger()})

		d.Start(track, &tu.MockCatalog{})
		d.Wait()

		if got, _ := d.Status().Get(); got != SuccessMessage(track.Title) {
			t.Errorf("unexpected status %q", got)
		}
		if len(rec.finished) != 0 {
			t.Error("Finish should not run without a record id")
		}
	})

	t.Run("tags only mp3 output", func(t *testing.T) {
		tagger := &mockTagger{}
		d := NewDownloader(DownloaderOpts{Dir: t.TempDir(), Tagger: tagger, Logger: tu.DiscardLogger()})

		d.Start(track, &tu.MockCatalog{})
		d.Wait()
		if len(tagger.tagged) != 0 {
			t.Errorf("non-mp3 output should not be tagged, got %v", tagger.tagged)
		}

		d.Start(track, &extCatalog{ext: "mp3"})
		d.Wait()
		if len(tagger.tagged) != 1 {
			t.Errorf("mp3 output should be tagged once, got %v", tagger.tagged)
		}
	})

	t.Run("tag failure is not fatal", func(t *testing.T) {
		tagger := &mockTagger{err: errors.New("bad frame")}
		d := NewDownloader(DownloaderOpts{Dir: t.TempDir(), Tagger: tagger, Logger: tu.DiscardLogger()})

		d.Start(track, &extCatalog{ext: "mp3"})
		d.Wait()
		if got, _ := d.Status().Get(); got != SuccessMessage(track.Title) {
			t.Errorf("unexpected status %q", got)
		}
	})

	t.Run("progress updates end with finished", func(t *testing.T) {
		progress := make(chan ProgressUpdate, 10)
		d := NewDownloader(DownloaderOpts{Dir: t.TempDir(), Progress: progress, Logger: tu.DiscardLogger()})

		d.Start(track, &tu.MockCatalog{})
		d.Wait()
		close(progress)

		var phases []Phase
		for u := range progress {
			phases = append(phases, u.Phase)
		}
		want := []Phase{Preparing, Fetching, Finished}
		if len(phases) != len(want) {
			t.Fatalf("expected phases %v, got %v", want, phases)
		}
		for i := range want {
			if phases[i] != want[i] {
				t.Errorf("phase %d = %s, want %s", i, phases[i], want[i])
			}
		}
	})

	t.Run("full progress channel never blocks", func(t *testing.T) {
		progress := make(chan ProgressUpdate)
		d := NewDownloader(DownloaderOpts{Dir: t.TempDir(), Progress: progress, Logger: tu.DiscardLogger()})

		d.Start(track, &tu.MockCatalog{})
		done := make(chan struct{})
		go func() {
			d.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("worker blocked on progress channel")
		}
	})

	t.Run("Close waits for workers", func(t *testing.T) {
		gate := make(chan struct{})
		d := NewDownloader(DownloaderOpts{Dir: t.TempDir(), Logger: tu.DiscardLogger()})
		d.Start(track, &tu.MockCatalog{Gate: gate})

		time.AfterFunc(20*time.Millisecond, func() { close(gate) })
		d.Close()

		if got, _ := d.Status().Get(); got != SuccessMessage(track.Title) {
			t.Errorf("unexpected status %q", got)
		}
	})
}

func TestPhase(t *testing.T) {
	for _, p := range []Phase{Preparing, Fetching, Tagging} {
		if p.Done() {
			t.Errorf("%s should not be done", p)
		}
	}
	for _, p := range []Phase{Finished, Failed} {
		if !p.Done() {
			t.Errorf("%s should be done", p)
		}
	}
	if Phase(99).String() != "" {
		t.Error("unknown phase should have empty name")
	}
}
