package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/movieplex/internal/formatter"
	"github.com/desertthunder/movieplex/internal/models"
	"github.com/desertthunder/movieplex/internal/services"
	"github.com/urfave/cli/v3"
)

// ListAdd returns the action that snapshots a movie onto the named list.
func (r *Runner) ListAdd(name string) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		list, err := models.ParseListName(name)
		if err != nil {
			return err
		}
		id, err := idArg(cmd)
		if err != nil {
			return err
		}

		m, err := r.movies.Detail(ctx, id, false)
		if err != nil {
			return fmt.Errorf("failed to load movie %s: %w", id, err)
		}
		if err := services.CheckSnapshot(id, m); err != nil {
			return err
		}

		repo, closeDB, err := r.openLists()
		if err != nil {
			return err
		}
		defer closeDB()

		if _, err := repo.Add(ctx, list, m); err != nil {
			return err
		}
		r.logger.Debug("list entry added", "list", list, "movie_id", m.ID, "source", m.Source)
		return r.writePlain("✓ Added %s (%s) to %s\n", m.Title, m.DisplayYear(), list)
	}
}

// ListShow returns the action that prints the named list.
func (r *Runner) ListShow(name string) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		list, err := models.ParseListName(name)
		if err != nil {
			return err
		}
		f, err := r.format(cmd)
		if err != nil {
			return err
		}

		repo, closeDB, err := r.openLists()
		if err != nil {
			return err
		}
		defer closeDB()

		entries, err := repo.List(ctx, models.ListQuery{
			List:      list,
			SortBy:    models.ParseListSort(cmd.String("sort-by")),
			Year:      cmd.Int("year"),
			MinRating: cmd.Float("min-rating"),
		})
		if err != nil {
			return err
		}
		return formatter.WriteEntries(r.output, listHeading(list), entries, f)
	}
}

// ListRemove returns the action that removes a movie from the named list.
func (r *Runner) ListRemove(name string) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		list, err := models.ParseListName(name)
		if err != nil {
			return err
		}
		id, err := idArg(cmd)
		if err != nil {
			return err
		}

		repo, closeDB, err := r.openLists()
		if err != nil {
			return err
		}
		defer closeDB()

		if err := repo.Remove(ctx, list, id.String()); err != nil {
			return err
		}
		return r.writePlain("✓ Removed %s from %s\n", id, list)
	}
}

func listHeading(list models.ListName) string {
	s := string(list)
	return strings.ToUpper(s[:1]) + s[1:]
}
