package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/playx/internal/shared"
	"github.com/desertthunder/playx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Download searches one catalog and downloads the result at --index, printing progress as it goes.
func (r *Runner) Download(ctx context.Context, cmd *cli.Command) error {
	query := queryArg(cmd)
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	catalogs, err := r.selectCatalogs(cmd.String("source"), false)
	if err != nil {
		return err
	}
	catalog := catalogs[0]

	tracks, err := catalog.Search(ctx, query)
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		return fmt.Errorf("%w: no results for %q on %s", shared.ErrNotFound, query, catalog.Name())
	}

	index := cmd.Int("index")
	if index < 1 || index > len(tracks) {
		return fmt.Errorf("%w: --index must be between 1 and %d", shared.ErrInvalidFlag, len(tracks))
	}
	track := tracks[index-1]

	progress := make(chan tasks.ProgressUpdate, 8)
	downloader, closeHistory := r.newDownloader(cmd.String("dir"), progress)
	defer closeHistory()

	stop := context.AfterFunc(ctx, downloader.Close)
	defer stop()

	done := make(chan tasks.ProgressUpdate)
	go func() {
		var last tasks.ProgressUpdate
		for update := range progress {
			r.writePlain("[%s] %s\n", update.Phase, update.Message)
			last = update
		}
		done <- last
	}()

	downloader.Start(track, catalog)
	downloader.Wait()
	close(progress)
	last := <-done

	if last.Phase == tasks.Failed {
		return last.Err
	}
	if last.Path != "" {
		r.writePlainln("Saved to %s", last.Path)
	}
	return nil
}
