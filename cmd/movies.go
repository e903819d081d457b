package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/desertthunder/movieplex/internal/formatter"
	"github.com/desertthunder/movieplex/internal/models"
	"github.com/desertthunder/movieplex/internal/services"
	"github.com/desertthunder/movieplex/internal/shared"
	"github.com/urfave/cli/v3"
)

const maxPage = 500

// pageArg reads and bounds the --page flag.
func pageArg(cmd *cli.Command) (int, error) {
	page := cmd.Int("page")
	if page < 1 || page > maxPage {
		return 0, fmt.Errorf("%w: --page must be between 1 and %d", shared.ErrInvalidFlag, maxPage)
	}
	return page, nil
}

// idArg reads the single movie id argument.
func idArg(cmd *cli.Command) (models.MovieID, error) {
	raw := strings.TrimSpace(cmd.Args().First())
	if raw == "" {
		return models.MovieID{}, fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}
	return models.ParseMovieID(raw), nil
}

// listPage runs one of the paged movie reads and renders the result.
func (r *Runner) listPage(ctx context.Context, cmd *cli.Command, heading string, read func(context.Context, int) models.Page) error {
	page, err := pageArg(cmd)
	if err != nil {
		return err
	}
	f, err := r.format(cmd)
	if err != nil {
		return err
	}

	p := read(ctx, page)
	r.logger.Debug("page loaded", "section", heading, "page", p.Page, "results", len(p.Results), "source", p.Source)
	return formatter.WritePage(r.output, heading, p, f)
}

// Popular prints the popular movies page.
func (r *Runner) Popular(ctx context.Context, cmd *cli.Command) error {
	return r.listPage(ctx, cmd, "Popular", r.movies.Popular)
}

// Trending prints this week's trending movies.
func (r *Runner) Trending(ctx context.Context, cmd *cli.Command) error {
	return r.listPage(ctx, cmd, "Trending", r.movies.Trending)
}

// TopRated prints the top rated movies page.
func (r *Runner) TopRated(ctx context.Context, cmd *cli.Command) error {
	return r.listPage(ctx, cmd, "Top Rated", r.movies.TopRated)
}

// Search prints movies matching the query argument and filter flags.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	filters, err := models.ParseFilterSpec(
		cmd.String("genre"),
		cmd.String("year"),
		cmd.String("min-rating"),
		cmd.String("sort-by"),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	return r.listPage(ctx, cmd, fmt.Sprintf("Search: %q", query), func(ctx context.Context, page int) models.Page {
		return r.movies.Search(ctx, query, page, filters)
	})
}

// Mood prints recommendations for a mood argument.
func (r *Runner) Mood(ctx context.Context, cmd *cli.Command) error {
	mood := strings.ToLower(strings.TrimSpace(cmd.Args().First()))
	if mood == "" {
		return fmt.Errorf("%w: mood (%s)", shared.ErrMissingArgument, strings.Join(services.Moods(), ", "))
	}
	if !slices.Contains(services.Moods(), mood) {
		return fmt.Errorf("%w: unknown mood %q (%s)", shared.ErrInvalidArgument, mood, strings.Join(services.Moods(), ", "))
	}

	return r.listPage(ctx, cmd, "Mood: "+mood, func(ctx context.Context, page int) models.Page {
		return r.movies.ByMood(ctx, mood, page)
	})
}

// Detail prints a movie, or exports it when --export-dir is set.
func (r *Runner) Detail(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd)
	if err != nil {
		return err
	}
	f, err := r.format(cmd)
	if err != nil {
		return err
	}

	m, err := r.movies.Detail(ctx, id, cmd.Bool("extras"))
	if err != nil {
		return fmt.Errorf("failed to load movie %s: %w", id, err)
	}

	dir := cmd.String("export-dir")
	if dir == "" {
		return formatter.WriteMovie(r.output, m, f)
	}

	if f == formatter.Table {
		f = formatter.Markdown
	}
	result, err := formatter.WriteMovieExport(ctx, m, dir, f, formatter.DownloadImage)
	if err != nil {
		return fmt.Errorf("failed to export %s: %w", m.Title, err)
	}
	r.logger.Info("movie exported", "title", m.Title, "files", len(result.Files))
	for _, file := range result.Files {
		if err := r.writePlain("%s\n", file); err != nil {
			return err
		}
	}
	return nil
}

// Trailer prints the trailer URL for a movie and optionally opens it.
func (r *Runner) Trailer(ctx context.Context, cmd *cli.Command) error {
	finder, ok := r.movies.(trailerFinder)
	if !ok {
		return fmt.Errorf("%w: trailer lookup", shared.ErrNotImplemented)
	}
	id, err := idArg(cmd)
	if err != nil {
		return err
	}

	t, found, err := finder.Trailer(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find trailer for %s: %w", id, err)
	}
	if !found {
		return fmt.Errorf("%w: no trailer for %s", shared.ErrNotFound, id)
	}

	if cmd.Bool("json") {
		if err := r.writeJSON(t, true); err != nil {
			return err
		}
	} else if err := r.writePlain("%s\n%s\n", t.Title, t.URL); err != nil {
		return err
	}

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(t.URL); err != nil {
			return fmt.Errorf("failed to open browser: %w", err)
		}
	}
	return nil
}

// Home prints the three home sections.
func (r *Runner) Home(ctx context.Context, cmd *cli.Command) error {
	f, err := r.format(cmd)
	if err != nil {
		return err
	}

	res, err := r.engine.LoadHome(ctx, nil)
	if err != nil {
		return err
	}
	if f == formatter.JSON {
		return r.writeJSON(res.Home(), true)
	}

	for i, s := range res.Sections {
		if i > 0 {
			if err := r.writePlain("\n"); err != nil {
				return err
			}
		}
		if s.Err != nil {
			r.logger.Warn("section failed", "section", s.Name, "error", s.Err)
			continue
		}
		if err := formatter.WritePage(r.output, s.Name, s.Page, f); err != nil {
			return err
		}
	}
	return nil
}

// Status prints connectivity, mode and cache details.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	f, err := r.format(cmd)
	if err != nil {
		return err
	}
	return formatter.WriteStatus(r.output, r.movies.Status(ctx), f)
}
