package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/desertthunder/playx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes config.toml when missing, initializes the history database and checks that the
// external fetch and play tools are on PATH.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return err
		}
		r.logger.Info("config file created", "path", configPath)
	} else {
		r.logger.Info("using existing config", "path", configPath)
	}

	config, err := shared.ResolveConfig(configPath)
	if err != nil {
		return err
	}
	r.config = config
	r.configPath = configPath
	r.registry = nil
	r.youtube = nil

	r.logger.Info("initializing database", "path", config.Database.Path)
	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	defer db.Close()
	r.logger.Infof("setup complete for database: %v", config.Database.Path)

	missing := 0
	for _, tool := range []string{config.Player.FetchPath, config.Player.PlayPath} {
		if path, err := exec.LookPath(tool); err != nil {
			r.logger.Warn("external tool not found", "tool", tool)
			missing++
		} else {
			r.logger.Debug("external tool found", "tool", tool, "path", path)
		}
	}

	r.writePlain("Config:    %s\n", configPath)
	r.writePlain("Database:  %s\n", config.Database.Path)
	r.writePlain("Downloads: %s\n", config.Downloads.Dir)
	if missing > 0 {
		r.writePlainln("Install %s and %s to enable streaming and YouTube downloads.", config.Player.FetchPath, config.Player.PlayPath)
	}
	r.writePlainln("Run `playx` to start a session.")
	return nil
}
