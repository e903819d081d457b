package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/movieplex/internal/models"
	"github.com/desertthunder/movieplex/internal/services"
	"github.com/desertthunder/movieplex/internal/shared"
	"github.com/desertthunder/movieplex/internal/tasks"
)

// SourceHeader names the response header carrying the [models.Source] of movie data.
const SourceHeader = "X-Movieplex-Source"

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Lists is the personal list storage behind /api/lists.
type Lists interface {
	List(ctx context.Context, q models.ListQuery) ([]models.ListEntry, error)
	Add(ctx context.Context, list models.ListName, m models.Movie) (models.ListEntry, error)
	Remove(ctx context.Context, list models.ListName, movieID string) error
}

// Trailers finds a playable trailer for a movie.
type Trailers interface {
	Trailer(ctx context.Context, id models.MovieID) (services.Trailer, bool, error)
}

// Options configures a [Server]. Movies is required. Without Lists or Trailers those routes
// answer 501 Not Implemented.
type Options struct {
	Movies    services.Movies
	Trailers  Trailers
	Lists     Lists
	Logger    *log.Logger
	RateLimit float64
	Burst     int
}

// Server serves the movie API.
type Server struct {
	movies   services.Movies
	home     *tasks.Engine
	trailers Trailers
	lists    Lists
	logger   *log.Logger
	limiter  *clientLimiter
	handler  http.Handler
}

// New creates a [Server] from opts.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	s := &Server{
		movies:   opts.Movies,
		home:     tasks.NewEngine(opts.Movies, logger),
		trailers: opts.Trailers,
		lists:    opts.Lists,
		logger:   shared.WithLogger(logger, "component", "server"),
	}
	if opts.RateLimit > 0 {
		s.limiter = newClientLimiter(opts.RateLimit, max(opts.Burst, 1))
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root handler, for use with [httptest.NewServer] or a custom [http.Server].
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully
// with a five second deadline.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if s.movies == nil {
		return fmt.Errorf("%w: server has no movie service", shared.ErrNotConfigured)
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      s.handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	if s.limiter != nil {
		go s.limiter.sweep(ctx, time.Minute, 3*time.Minute)
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info("shutting down server", "addr", addr)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdownErr <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("starting server", "addr", addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}

	if err := <-shutdownErr; err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	s.logger.Info("stopped server", "addr", addr)
	return nil
}
