package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/movieplex/internal/shared"
	"github.com/desertthunder/movieplex/internal/ui"
	"github.com/urfave/cli/v3"
)

const tuiLogPath = "./tmp/movieplex-tui.log"

// RunTUI launches the interactive movie browser.
//
// Favorites and the watchlist are available when the database opens; otherwise the browser runs without them.
func (r *Runner) RunTUI(ctx context.Context, cmd *cli.Command) error {
	if r.engine == nil {
		return fmt.Errorf("%w: task engine not initialized", shared.ErrNotConfigured)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(tuiLogPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	var lists ui.Lists
	repo, closeDB, err := r.openLists()
	if err != nil {
		r.logger.Warn("lists disabled", "error", err)
	} else {
		defer closeDB()
		lists = repo
	}

	model := ui.NewModel(ctx, r.movies, r.engine, lists)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
