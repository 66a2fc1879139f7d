package player

import (
	"context"
	"crypto/rand"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playx/internal/shared"
)

// Playback is the view of a pipeline the [Sampler] needs.
type Playback interface {
	Exited() <-chan struct{}
	Paused() bool
}

// SamplerOpts configures a [Sampler].
type SamplerOpts struct {
	Interval time.Duration
	Entropy  io.Reader // defaults to crypto/rand
	Logger   *log.Logger
}

// Sampler writes cosmetic equalizer values into [Levels] while playback is live.
type Sampler struct {
	levels   *Levels
	entropy  io.Reader
	interval time.Duration
	logger   *log.Logger
}

// NewSampler creates a Sampler writing into levels.
func NewSampler(levels *Levels, opts SamplerOpts) *Sampler {
	if opts.Interval <= 0 {
		opts.Interval = 100 * time.Millisecond
	}
	if opts.Entropy == nil {
		opts.Entropy = rand.Reader
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &Sampler{
		levels:   levels,
		entropy:  opts.Entropy,
		interval: opts.Interval,
		logger:   shared.WithLogger(opts.Logger, "component", "sampler"),
	}
}

// Run blocks until playback exits or ctx is cancelled, then zeroes the levels.
func (s *Sampler) Run(ctx context.Context, pb Playback) {
	defer s.levels.Reset()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var buf [LevelCount]uint8
	for {
		select {
		case <-ctx.Done():
			return
		case <-pb.Exited():
			s.logger.Debug("playback exited, sampler stopping")
			return
		case <-ticker.C:
		}

		if pb.Paused() {
			continue
		}

		select {
		case <-pb.Exited():
			return
		default:
		}

		if _, err := io.ReadFull(s.entropy, buf[:]); err != nil {
			s.logger.Warn("entropy read failed", "error", err)
			continue
		}
		for i := range buf {
			buf[i] %= MaxLevel + 1
		}
		s.levels.Set(buf)
	}
}
