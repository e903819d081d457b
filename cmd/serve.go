package main

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/desertthunder/movieplex/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP API until the context is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	host := r.config.Server.Host
	if h := cmd.String("host"); h != "" {
		host = h
	}
	port := r.config.Server.Port
	if p := cmd.Int("port"); p > 0 {
		port = p
	}

	opts := server.Options{
		Movies:    r.movies,
		Logger:    r.logger,
		RateLimit: r.config.Server.RateLimit,
		Burst:     r.config.Server.Burst,
	}
	if finder, ok := r.movies.(trailerFinder); ok {
		opts.Trailers = finder
	}

	if !cmd.Bool("no-lists") {
		repo, closeDB, err := r.openLists()
		if err != nil {
			r.logger.Warn("list endpoints disabled", "error", err)
		} else {
			defer closeDB()
			opts.Lists = repo
		}
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	r.logger.Info("starting server", "addr", addr, "lists", opts.Lists != nil)
	if err := server.New(opts).ListenAndServe(ctx, addr); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
