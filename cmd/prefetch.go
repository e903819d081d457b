package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/desertthunder/movieplex/internal/formatter"
	"github.com/desertthunder/movieplex/internal/models"
	"github.com/desertthunder/movieplex/internal/shared"
	"github.com/desertthunder/movieplex/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Prefetch looks up movie details concurrently so later reads hit the cache.
//
// Ids come from the arguments or, with --section, from the first page of a section.
func (r *Runner) Prefetch(ctx context.Context, cmd *cli.Command) error {
	ids, err := r.prefetchIDs(ctx, cmd)
	if err != nil {
		return err
	}

	opts := tasks.PrefetchOpts{
		NumWorkers:    cmd.Int("workers"),
		RateLimit:     cmd.Float("rate"),
		IncludeExtras: cmd.Bool("extras"),
		OutputDir:     cmd.String("output-dir"),
	}
	if opts.OutputDir != "" {
		f, err := formatter.ParseFormat(cmd.String("format"))
		if err != nil {
			return err
		}
		if f == formatter.Table {
			return fmt.Errorf("%w: exports need json, markdown, csv or txt", shared.ErrInvalidFlag)
		}
		opts.Format = f
		if cmd.Bool("poster") {
			opts.Poster = formatter.DownloadImage
		}
	}

	progress := make(chan tasks.ProgressUpdate, len(ids)+2)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for u := range progress {
			r.writePlain("%s\n", u.Message)
		}
	}()

	report, err := r.engine.PrefetchDetails(ctx, progress, ids, opts)
	close(progress)
	wg.Wait()
	if err != nil {
		return fmt.Errorf("prefetch failed: %w", err)
	}

	r.logger.Info("prefetch complete", "total", report.Total, "ok", report.Successful, "failed", report.Failed)
	r.writePlainln("✓ %d/%d movies fetched (%d from the offline catalog)", report.Successful, report.Total, report.FromFallback)
	if report.ManifestPath != "" {
		r.writePlain("  Manifest: %s\n", report.ManifestPath)
	}
	return nil
}

func (r *Runner) prefetchIDs(ctx context.Context, cmd *cli.Command) ([]models.MovieID, error) {
	section := strings.ToLower(strings.TrimSpace(cmd.String("section")))
	args := cmd.Args().Slice()

	switch {
	case section != "" && len(args) > 0:
		return nil, fmt.Errorf("%w: pass ids or --section, not both", shared.ErrInvalidArgument)
	case section == "" && len(args) == 0:
		return nil, fmt.Errorf("%w: movie ids or --section", shared.ErrMissingArgument)
	}

	if section == "" {
		ids := make([]models.MovieID, 0, len(args))
		for _, a := range args {
			if a = strings.TrimSpace(a); a != "" {
				ids = append(ids, models.ParseMovieID(a))
			}
		}
		return ids, nil
	}

	var p models.Page
	switch section {
	case "popular":
		p = r.movies.Popular(ctx, 1)
	case "trending":
		p = r.movies.Trending(ctx, 1)
	case "top-rated", "top_rated", "top":
		p = r.movies.TopRated(ctx, 1)
	default:
		return nil, fmt.Errorf("%w: unknown section %q (popular, trending, top-rated)", shared.ErrInvalidFlag, section)
	}

	ids := make([]models.MovieID, 0, len(p.Results))
	for _, m := range p.Results {
		ids = append(ids, m.ID)
	}
	return ids, nil
}
