package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/playx/internal/formatter"
	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/shared"
	"github.com/urfave/cli/v3"
)

// History prints or exports the recorded downloads, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	db, repo, err := r.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	var downloads []*models.Download
	if status := strings.ToLower(strings.TrimSpace(cmd.String("status"))); status != "" {
		s := models.DownloadStatus(status)
		switch s {
		case models.DownloadPending, models.DownloadCompleted, models.DownloadFailed:
		default:
			return fmt.Errorf("%w: unknown status %q", shared.ErrInvalidFlag, status)
		}
		downloads, err = repo.ListByStatus(s)
	} else {
		downloads, err = repo.List(cmd.Int("limit"))
	}
	if err != nil {
		return fmt.Errorf("failed to list downloads: %w", err)
	}
	r.logger.Debug("loaded history", "count", len(downloads), "format", format)

	data, err := formatter.Export(format, downloads)
	if err != nil {
		return err
	}

	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteExport(data, path); err != nil {
			return err
		}
		r.logger.Infof("history written to %s", path)
		return nil
	}
	return r.writeBytes(data)
}
