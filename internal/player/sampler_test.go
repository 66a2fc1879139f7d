package player

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	tu "github.com/desertthunder/playx/internal/testing"
)

type fakePlayback struct {
	done   chan struct{}
	paused atomic.Bool
}

func newFakePlayback() *fakePlayback {
	return &fakePlayback{done: make(chan struct{})}
}

func (f *fakePlayback) Exited() <-chan struct{} { return f.done }
func (f *fakePlayback) Paused() bool            { return f.paused.Load() }

// constReader yields the same byte forever.
type constReader byte

func (c constReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(c)
	}
	return len(p), nil
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("no entropy") }

func runSampler(s *Sampler, ctx context.Context, pb Playback) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx, pb)
	}()
	return done
}

func TestLevels(t *testing.T) {
	t.Run("Set clamps values", func(t *testing.T) {
		var l Levels
		l.Set([LevelCount]uint8{0, 5, 9, 10, 200})
		got := l.Snapshot()
		for i, v := range got {
			if v > MaxLevel {
				t.Errorf("bar %d = %d exceeds max", i, v)
			}
		}
		if got[1] != 5 {
			t.Errorf("expected unclamped value to survive, got %d", got[1])
		}
	})

	t.Run("Reset zeroes", func(t *testing.T) {
		var l Levels
		l.Set([LevelCount]uint8{1, 2, 3})
		if l.IsZero() {
			t.Fatal("expected non-zero levels")
		}
		l.Reset()
		if !l.IsZero() {
			t.Errorf("expected zero levels, got %v", l.Snapshot())
		}
	})
}

func TestSampler(t *testing.T) {
	logger := tu.DiscardLogger()

	t.Run("fills levels while live and zeroes on exit", func(t *testing.T) {
		var levels Levels
		pb := newFakePlayback()
		s := NewSampler(&levels, SamplerOpts{Interval: 5 * time.Millisecond, Entropy: constReader(23), Logger: logger})

		done := runSampler(s, context.Background(), pb)

		if !tu.Eventually(t, time.Second, func() bool { return !levels.IsZero() }) {
			t.Fatal("sampler never wrote levels")
		}
		for i, v := range levels.Snapshot() {
			if v != 3 {
				t.Errorf("bar %d = %d, want 3", i, v)
			}
		}

		close(pb.done)
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("sampler did not stop after playback exit")
		}
		if !levels.IsZero() {
			t.Errorf("levels should be zero after exit, got %v", levels.Snapshot())
		}
	})

	t.Run("paused playback leaves levels untouched", func(t *testing.T) {
		var levels Levels
		pb := newFakePlayback()
		pb.paused.Store(true)
		s := NewSampler(&levels, SamplerOpts{Interval: 2 * time.Millisecond, Entropy: constReader(7), Logger: logger})

		ctx, cancel := context.WithCancel(context.Background())
		done := runSampler(s, ctx, pb)
		time.Sleep(30 * time.Millisecond)

		if !levels.IsZero() {
			t.Errorf("paused sampler wrote levels: %v", levels.Snapshot())
		}
		cancel()
		<-done
	})

	t.Run("context cancellation stops and zeroes", func(t *testing.T) {
		var levels Levels
		s := NewSampler(&levels, SamplerOpts{Interval: 2 * time.Millisecond, Entropy: constReader(1), Logger: logger})

		ctx, cancel := context.WithCancel(context.Background())
		done := runSampler(s, ctx, newFakePlayback())
		tu.Eventually(t, time.Second, func() bool { return !levels.IsZero() })

		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("sampler ignored cancellation")
		}
		if !levels.IsZero() {
			t.Error("levels should be zero after cancellation")
		}
	})

	t.Run("entropy failures are skipped", func(t *testing.T) {
		var levels Levels
		var logs bytes.Buffer
		s := NewSampler(&levels, SamplerOpts{Interval: 2 * time.Millisecond, Entropy: failingReader{}, Logger: tu.BufferLogger(&logs)})

		ctx, cancel := context.WithCancel(context.Background())
		done := runSampler(s, ctx, newFakePlayback())
		time.Sleep(20 * time.Millisecond)
		cancel()
		<-done

		if !levels.IsZero() {
			t.Error("levels should stay zero without entropy")
		}
		if !bytes.Contains(logs.Bytes(), []byte("entropy read failed")) {
			t.Errorf("expected warning in logs, got %q", logs.String())
		}
	})
}
