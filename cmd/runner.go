package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playx/internal/audio"
	"github.com/desertthunder/playx/internal/repositories"
	"github.com/desertthunder/playx/internal/services"
	"github.com/desertthunder/playx/internal/shared"
	"github.com/desertthunder/playx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	registry   *services.Registry
	youtube    *services.YouTubeCatalog
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	// Registry overrides the catalogs built from Config.
	Registry *services.Registry
	// YouTube is the streaming backend; only consulted when Registry is set.
	YouTube *services.YouTubeCatalog
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		registry:   opts.Registry,
		youtube:    opts.YouTube,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		sessionCommand, searchCommand, downloadCommand, historyCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Load resolves the configuration named by --config, applies .env and PLAYX_* overrides and sets the log level.
func (r *Runner) Load(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	config, err := shared.ResolveConfig(path)
	if err != nil {
		return ctx, err
	}

	r.config = config
	r.configPath = path
	r.registry = nil
	r.youtube = nil

	level := shared.ParseLogLevel(config.Log.Level)
	if cmd.Bool("verbose") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)
	return ctx, nil
}

// SetLogger replaces the runner's logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// catalogs returns the enabled catalogs, building them from the config on first use.
func (r *Runner) catalogs() (*services.Registry, *services.YouTubeCatalog) {
	if r.registry == nil {
		r.registry, r.youtube = services.NewRegistryFromConfig(r.config, r.logger)
	}
	return r.registry, r.youtube
}

// openHistory opens the history database. Callers own the returned handle.
func (r *Runner) openHistory() (*sql.DB, *repositories.DownloadRepository, error) {
	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, nil, err
	}
	return db, repositories.NewDownloadRepository(db), nil
}

// newDownloader wires the configured naming, tagging and history recording into a [tasks.Downloader].
//
// History is optional: when the database cannot be opened the downloader runs without a recorder.
// The returned cleanup closes the database.
func (r *Runner) newDownloader(dir string, progress chan<- tasks.ProgressUpdate) (*tasks.Downloader, func()) {
	if dir == "" {
		dir = r.config.Downloads.Dir
	}

	opts := tasks.DownloaderOpts{
		Dir:      dir,
		Naming:   shared.NewNamingRule(r.config.Downloads.Suffix),
		Progress: progress,
		Logger:   r.logger,
	}
	if r.config.Downloads.Tag {
		opts.Tagger = audio.NewTagger(nil)
	}

	cleanup := func() {}
	if db, repo, err := r.openHistory(); err != nil {
		r.logger.Warn("download history disabled", "error", err)
	} else {
		opts.Recorder = repositories.NewHistoryRecorder(repo)
		cleanup = func() { db.Close() }
	}

	return tasks.NewDownloader(opts), cleanup
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
