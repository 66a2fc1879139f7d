package player

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/shared"
)

// waitDelay bounds how long Wait blocks on stderr after a process exits.
const waitDelay = 2 * time.Second

// PlaybackControl pauses and resumes a running playback.
type PlaybackControl interface {
	Pause() error
	Resume() error
}

// Streamer builds the fetch-side commands for a track.
//
// FetchCommand must write the encoded audio to stdout. TitleCommand prints the track title
// and may return nil when the backend has no title lookup.
type Streamer interface {
	FetchCommand(ctx context.Context, track models.Track) *exec.Cmd
	TitleCommand(ctx context.Context, track models.Track) *exec.Cmd
}

// LauncherOpts configures a [Launcher].
type LauncherOpts struct {
	Streamer   Streamer
	PlayPath   string
	PlayArgs   []string
	ProbeTitle bool
	Grace      time.Duration // early exits inside this window are spawn failures
	Logger     *log.Logger
}

// Launcher starts fetch/play pipelines.
type Launcher struct {
	streamer   Streamer
	playPath   string
	playArgs   []string
	probeTitle bool
	grace      time.Duration
	logger     *log.Logger
}

// NewLauncher creates a Launcher, defaulting to ffplay reading from stdin.
func NewLauncher(opts LauncherOpts) *Launcher {
	if opts.PlayPath == "" {
		opts.PlayPath = "ffplay"
	}
	if opts.PlayArgs == nil {
		opts.PlayArgs = []string{"-nodisp", "-autoexit", "-loglevel", "quiet", "-"}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &Launcher{
		streamer:   opts.Streamer,
		playPath:   opts.PlayPath,
		playArgs:   opts.PlayArgs,
		probeTitle: opts.ProbeTitle,
		grace:      opts.Grace,
		logger:     shared.WithLogger(opts.Logger, "component", "player"),
	}
}

// Start spawns the pipeline for track.
//
// On any failure every process that was started is killed and reaped, and the returned
// error wraps [shared.ErrSpawn].
func (l *Launcher) Start(ctx context.Context, track models.Track) (*Pipeline, error) {
	if l.streamer == nil {
		return nil, fmt.Errorf("%w: no streamer configured", shared.ErrSpawn)
	}

	title := track.Title
	if l.probeTitle {
		probed, err := l.probe(ctx, track)
		if err != nil {
			return nil, err
		}
		if probed != "" {
			title = probed
		}
	}

	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create pipe: %v", shared.ErrSpawn, err)
	}

	fetchCmd := l.streamer.FetchCommand(ctx, track)
	fetchCmd.Stdin = nil
	fetchCmd.Stdout = w
	fetch, err := startProcess("fetch", fetchCmd)
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}

	playCmd := exec.Command(l.playPath, l.playArgs...)
	playCmd.Stdin = r
	play, err := startProcess("play", playCmd)

	// The children hold their own copies; play sees EOF once fetch exits.
	r.Close()
	w.Close()

	if err != nil {
		fetch.kill()
		<-fetch.done
		return nil, err
	}

	p := &Pipeline{
		track:   track,
		title:   title,
		fetch:   fetch,
		play:    play,
		suspend: suspendProcess,
		resume:  continueProcess,
		logger:  l.logger.With("track", track.ID),
	}

	if err := p.settle(l.grace); err != nil {
		p.Teardown()
		return nil, err
	}

	p.logger.Info("pipeline started", "fetch_pid", fetch.pid(), "play_pid", play.pid())
	return p, nil
}

func (l *Launcher) probe(ctx context.Context, track models.Track) (string, error) {
	cmd := l.streamer.TitleCommand(ctx, track)
	if cmd == nil {
		return "", nil
	}

	var stderr bytes.Buffer
	cmd.Stdout = nil
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", fmt.Errorf("%w: fetch tool: %v", shared.ErrSpawn, err)
		}
		return "", fmt.Errorf("%w: track unavailable: %v%s", shared.ErrSpawn, err, stderrTail(&stderr))
	}

	title, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(title), nil
}

// Pipeline owns one running fetch/play process pair.
type Pipeline struct {
	track  models.Track
	title  string
	fetch  *process
	play   *process
	paused atomic.Bool

	mu      sync.Mutex // serializes Pause and Resume
	suspend func(pid int) error
	resume  func(pid int) error

	teardown sync.Once
	logger   *log.Logger
}

var _ PlaybackControl = (*Pipeline)(nil)

// Track returns the track being played.
func (p *Pipeline) Track() models.Track { return p.track }

// Title returns the probed title, or the catalog title when no probe ran.
func (p *Pipeline) Title() string { return p.title }

// PID returns the play process identifier.
func (p *Pipeline) PID() int { return p.play.pid() }

// Paused reports the pause flag.
func (p *Pipeline) Paused() bool { return p.paused.Load() }

// Exited is closed once the play process has exited and been reaped.
func (p *Pipeline) Exited() <-chan struct{} { return p.play.done }

// Alive reports whether the play process is still running.
func (p *Pipeline) Alive() bool {
	select {
	case <-p.play.done:
		return false
	default:
		return true
	}
}

// Pause suspends the play process. The flag is only set when the signal was delivered.
func (p *Pipeline) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.Alive() {
		return fmt.Errorf("%w: pause: play process has exited", shared.ErrSignal)
	}

	if err := p.suspend(p.play.pid()); err != nil {
		return fmt.Errorf("%w: pause: %w", shared.ErrSignal, err)
	}
	p.paused.Store(true)
	return nil
}

// Resume continues a suspended play process. On failure the flag stays set.
func (p *Pipeline) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.Alive() {
		return fmt.Errorf("%w: resume: play process has exited", shared.ErrSignal)
	}

	if err := p.resume(p.play.pid()); err != nil {
		return fmt.Errorf("%w: resume: %w", shared.ErrSignal, err)
	}
	p.paused.Store(false)
	return nil
}

// Toggle pauses a playing pipeline or resumes a paused one.
func (p *Pipeline) Toggle() error {
	if p.Paused() {
		return p.Resume()
	}
	return p.Pause()
}

// Teardown kills both processes and waits until they are reaped. Safe to call repeatedly.
func (p *Pipeline) Teardown() error {
	p.teardown.Do(func() {
		p.play.kill()
		p.fetch.kill()
		<-p.play.done
		<-p.fetch.done
		p.logger.Info("pipeline stopped", "track", p.Track().ID)
	})
	return nil
}

// settle waits out the startup window and reports fetch failures or an early play exit.
func (p *Pipeline) settle(grace time.Duration) error {
	if grace <= 0 {
		return nil
	}

	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-p.play.done:
		return fmt.Errorf("%w: play exited during startup: %v%s", shared.ErrSpawn, p.play.err, p.play.stderrTail())
	case <-p.fetch.done:
		if p.fetch.err != nil {
			return fmt.Errorf("%w: fetch exited during startup: %v%s", shared.ErrSpawn, p.fetch.err, p.fetch.stderrTail())
		}
		return nil
	}
}

// process is a started command plus the channel closed when Wait returns.
type process struct {
	name   string
	cmd    *exec.Cmd
	stderr bytes.Buffer
	done   chan struct{}
	err    error // valid once done is closed
}

func startProcess(name string, cmd *exec.Cmd) (*process, error) {
	p := &process{name: name, cmd: cmd, done: make(chan struct{})}
	if cmd.Stderr == nil {
		cmd.Stderr = &p.stderr
	}
	cmd.WaitDelay = waitDelay
	isolate(cmd)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrSpawn, name, err)
	}

	go func() {
		p.err = cmd.Wait()
		close(p.done)
	}()
	return p, nil
}

func (p *process) pid() int { return p.cmd.Process.Pid }

func (p *process) kill() {
	select {
	case <-p.done:
		return
	default:
	}
	if err := killGroup(p.pid()); err != nil {
		_ = p.cmd.Process.Kill()
	}
}

// stderrTail is only safe to call after done is closed.
func (p *process) stderrTail() string {
	return stderrTail(&p.stderr)
}

func stderrTail(b *bytes.Buffer) string {
	s := strings.TrimSpace(b.String())
	if s == "" {
		return ""
	}
	if len(s) > 200 {
		s = s[len(s)-200:]
	}
	return ": " + s
}
