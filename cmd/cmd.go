// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/desertthunder/playx/internal/formatter"
	"github.com/urfave/cli/v3"
)

// sessionCommand launches the interactive session. It is also the root action.
func sessionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "session",
		Aliases: []string{"tui", "ui"},
		Usage:   "Launch the interactive stream/download session",
		Action:  r.Session,
	}
}

// searchCommand runs a non-interactive catalog search.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Aliases:   []string{"s"},
		Usage:     "Search one or every enabled catalog",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "source",
				Usage: "Catalog to search: youtube, archive, fma or all",
				Value: "all",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Search,
	}
}

// downloadCommand searches a catalog and downloads one result.
func downloadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "download",
		Aliases:   []string{"dl"},
		Usage:     "Search a catalog and download one result",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "source",
				Usage: "Catalog to download from: youtube, archive or fma (default: primary)",
			},
			&cli.IntFlag{
				Name:  "index",
				Usage: "1-based position of the result to download",
				Value: 1,
			},
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "Override the download directory",
			},
		},
		Action: r.Download,
	}
}

// historyCommand prints the download history.
func historyCommand(r *Runner) *cli.Command {
	names := make([]string, len(formatter.Formats))
	for i, f := range formatter.Formats {
		names[i] = string(f)
	}

	return &cli.Command{
		Name:  "history",
		Usage: "Show download history",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: " + strings.Join(names, ", "),
				Value:   string(formatter.FormatText),
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of entries (0 for all)",
				Value: 50,
			},
			&cli.StringFlag{
				Name:  "status",
				Usage: "Only show entries with this status: pending, completed or failed",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to file instead of stdout",
			},
		},
		Action: r.History,
	}
}

// setupCommand writes the config template and prepares the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml, initialize the database and check external tools",
		Action: r.Setup,
	}
}
