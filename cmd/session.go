package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/playx/internal/player"
	"github.com/desertthunder/playx/internal/session"
	"github.com/desertthunder/playx/internal/shared"
	"github.com/desertthunder/playx/internal/ui"
	"github.com/urfave/cli/v3"
)

// Session launches the full-screen interactive session.
func (r *Runner) Session(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.logger.GetLevel())
	r.SetLogger(fileLogger)

	ctl, cleanup, err := r.newController()
	if err != nil {
		return err
	}
	defer cleanup()

	model := ui.NewModel(ctx, ctl, r.config.UI.Tick())
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		// SIGTERM cancels ctx and kills the program; cleanup still tears the pipeline down.
		if ctx.Err() != nil {
			r.logger.Info("session interrupted", "error", err)
			return nil
		}
		return fmt.Errorf("error running TUI: %w", err)
	}
	r.logger.Info("session ended")
	return nil
}

// newController assembles the session controller from the configured catalogs, player and downloader.
//
// The cleanup tears down any live pipeline, cancels in-flight downloads and closes the history
// database, in that order. It must run on every exit path.
func (r *Runner) newController() (*session.Controller, func(), error) {
	registry, youtube := r.catalogs()
	if registry.Len() == 0 {
		return nil, nil, fmt.Errorf("%w: enable at least one catalog in %s", shared.ErrNoCatalog, r.configPath)
	}

	var launcher session.Launcher
	if youtube != nil {
		launcher = session.NewPipelineLauncher(player.NewLauncher(player.LauncherOpts{
			Streamer:   youtube,
			PlayPath:   r.config.Player.PlayPath,
			PlayArgs:   r.config.Player.PlayArgs,
			ProbeTitle: r.config.Player.ProbeTitle,
			Grace:      r.config.Player.StartupGrace(),
			Logger:     r.logger,
		}))
	} else {
		r.logger.Warn("youtube catalog disabled, streaming unavailable")
	}

	downloader, closeHistory := r.newDownloader("", nil)

	ctl := session.New(session.Options{
		Catalogs:      registry.All(),
		Launcher:      launcher,
		Downloader:    downloader,
		Sample:        r.config.Player.SampleInterval(),
		SearchTimeout: r.config.Catalogs.Timeout(),
		Logger:        r.logger,
	})

	cleanup := func() {
		ctl.Close()
		downloader.Close()
		closeHistory()
	}
	return ctl, cleanup, nil
}
