package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/movieplex/internal/cache"
	"github.com/desertthunder/movieplex/internal/formatter"
	"github.com/desertthunder/movieplex/internal/models"
	"github.com/desertthunder/movieplex/internal/repositories"
	"github.com/desertthunder/movieplex/internal/services"
	"github.com/desertthunder/movieplex/internal/shared"
	"github.com/desertthunder/movieplex/internal/tasks"
	"github.com/urfave/cli/v3"
)

// trailerFinder is implemented by [services.MovieService].
type trailerFinder interface {
	Trailer(ctx context.Context, id models.MovieID) (services.Trailer, bool, error)
}

// cacheOwner is implemented by [services.MovieService].
type cacheOwner interface {
	Cache() *cache.Cache
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	movies     services.Movies
	logger     *log.Logger
	output     io.Writer
	engine     *tasks.Engine
	openDB     func(shared.DatabaseConfig) (*sql.DB, error)
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Movies     services.Movies
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration.
//
// Without a movie service it builds an offline one that serves the built-in catalog.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Movies == nil {
		opts.Movies = services.NewMovieService(services.Options{Logger: opts.Logger})
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		movies:     opts.Movies,
		logger:     opts.Logger,
		output:     opts.Output,
		engine:     tasks.NewEngine(opts.Movies, opts.Logger),
		openDB:     shared.OpenDatabase,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		popularCommand, trendingCommand, topRatedCommand, searchCommand, detailCommand, moodCommand,
		trailerCommand, homeCommand, statusCommand, serveCommand, tuiCommand, prefetchCommand, cacheCommand,
		favoritesCommand, watchlistCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// before applies the global flags.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	return ctx, nil
}

// SetLogger replaces the runner's logger, e.g. to keep log lines off a TUI screen.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// openLists opens the favorites and watchlist database. The returned function closes it.
func (r *Runner) openLists() (*repositories.ListRepository, func() error, error) {
	db, err := r.openDB(r.config.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database %s: %w", r.config.Database.Path, err)
	}
	return repositories.NewListRepository(db), db.Close, nil
}

// format reads the --format flag.
func (r *Runner) format(cmd *cli.Command) (formatter.Format, error) {
	return formatter.ParseFormat(cmd.String("format"))
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
