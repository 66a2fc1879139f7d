package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/playx/internal/formatter"
	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/services"
	"github.com/desertthunder/playx/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

// Search queries the catalogs named by --source and prints the results grouped by catalog.
//
// With --source all every enabled catalog is searched concurrently. A failing catalog is reported
// in its group; the command only fails when every catalog failed.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := queryArg(cmd)
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	catalogs, err := r.selectCatalogs(cmd.String("source"), true)
	if err != nil {
		return err
	}

	results := make([][]models.Track, len(catalogs))
	errs := make([]error, len(catalogs))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range catalogs {
		g.Go(func() error {
			tracks, err := c.Search(gctx, query)
			if err != nil {
				r.logger.Warn("search failed", "catalog", c.Name(), "error", err)
				errs[i] = err
				return nil
			}
			r.logger.Debug("search complete", "catalog", c.Name(), "results", len(tracks))
			results[i] = tracks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	if failed == len(catalogs) {
		return errors.Join(errs...)
	}

	if cmd.Bool("json") {
		var all []models.Track
		for _, tracks := range results {
			all = append(all, tracks...)
		}
		data, err := formatter.TracksToJSON(all, pageURL(catalogs))
		if err != nil {
			return err
		}
		return r.writeBytes(data)
	}

	for i, c := range catalogs {
		r.writePlainHeader(c.Name())
		switch {
		case errs[i] != nil:
			r.writePlain("error: %v\n", errs[i])
		case len(results[i]) == 0:
			r.writePlain("NO MUSIC FOUND =(\n")
		default:
			r.writeBytes(formatter.TracksToText(results[i]))
		}
	}
	return nil
}

// selectCatalogs resolves a --source value. Empty selects the primary catalog; "all" every
// catalog when allowAll is set.
func (r *Runner) selectCatalogs(source string, allowAll bool) ([]services.Catalog, error) {
	registry, _ := r.catalogs()
	if registry.Len() == 0 {
		return nil, fmt.Errorf("%w: enable at least one catalog in the config", shared.ErrNoCatalog)
	}

	source = strings.ToLower(strings.TrimSpace(source))
	switch {
	case source == "":
		c, err := registry.Primary()
		if err != nil {
			return nil, err
		}
		return []services.Catalog{c}, nil
	case source == "all" && allowAll:
		return registry.All(), nil
	}

	s, err := models.ParseSource(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}
	c, err := registry.Lookup(s)
	if err != nil {
		return nil, err
	}
	return []services.Catalog{c}, nil
}

func pageURL(catalogs []services.Catalog) func(models.Track) string {
	return func(t models.Track) string {
		for _, c := range catalogs {
			if c.Source() == t.Source {
				return c.PageURL(t)
			}
		}
		return ""
	}
}

func queryArg(cmd *cli.Command) string {
	return strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
}
