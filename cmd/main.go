package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/movieplex/internal/services"
	"github.com/desertthunder/movieplex/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadEnv(); err != nil {
		logger.Warn("failed to load .env", "error", err)
	}

	configPath := os.Getenv("MOVIEPLEX_CONFIG")
	if configPath == "" {
		configPath = "config.toml"
	}

	config, err := shared.LoadConfigOrDefault(configPath)
	if err != nil {
		logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		config = shared.DefaultConfig()
	}
	shared.ApplyEnv(config)
	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Log.Level))

	if err := config.Validate(); err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	movies, closeCache := services.NewFromConfig(ctx, config, logger)
	defer closeCache()

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Movies:     movies,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:    "movieplex",
		Usage:   "Browse, search and save movies from TMDB, with an offline catalog fallback",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before:   runner.before,
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented", "error", err)
			stop()
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
