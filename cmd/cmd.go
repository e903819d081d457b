// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format (table, json, markdown, csv, txt)",
		Value:   "table",
	}
}

func pageFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "page",
		Aliases: []string{"p"},
		Usage:   "Result page (1-500)",
		Value:   1,
	}
}

func popularCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "popular",
		Usage:  "List popular movies",
		Flags:  []cli.Flag{pageFlag(), formatFlag()},
		Action: r.Popular,
	}
}

func trendingCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "trending",
		Usage:  "List movies trending this week",
		Flags:  []cli.Flag{pageFlag(), formatFlag()},
		Action: r.Trending,
	}
}

func topRatedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "top-rated",
		Aliases: []string{"top"},
		Usage:   "List the highest rated movies",
		Flags:   []cli.Flag{pageFlag(), formatFlag()},
		Action:  r.TopRated,
	}
}

func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search movies by title",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			pageFlag(),
			formatFlag(),
			&cli.StringFlag{
				Name:    "genre",
				Aliases: []string{"g"},
				Usage:   "Only movies in this genre (e.g. Action, Science Fiction)",
			},
			&cli.StringFlag{
				Name:    "year",
				Aliases: []string{"y"},
				Usage:   "Only movies released in this year",
			},
			&cli.StringFlag{
				Name:  "min-rating",
				Usage: "Only movies rated at least this (0-10)",
			},
			&cli.StringFlag{
				Name:  "sort-by",
				Usage: "Order results (popularity, rating, release_date, title)",
			},
		},
		Action: r.Search,
	}
}

func detailCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "detail",
		Aliases:   []string{"show"},
		Usage:     "Show full details for a movie",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			formatFlag(),
			&cli.BoolFlag{
				Name:  "extras",
				Usage: "Include cast, crew, trailers, reviews and watch providers",
				Value: true,
			},
			&cli.StringFlag{
				Name:    "export-dir",
				Aliases: []string{"o"},
				Usage:   "Write the movie to this directory instead of stdout",
			},
		},
		Action: r.Detail,
	}
}

func moodCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "mood",
		Usage:     "Recommend movies for a mood",
		ArgsUsage: "<mood>",
		Flags:     []cli.Flag{pageFlag(), formatFlag()},
		Action:    r.Mood,
	}
}

func trailerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "trailer",
		Usage:     "Find the trailer for a movie",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the trailer in a browser",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Trailer,
	}
}

func homeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "home",
		Usage:  "Show the popular, trending and top rated sections",
		Flags:  []cli.Flag{formatFlag()},
		Action: r.Home,
	}
}

func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Report connectivity, data source and cache state",
		Flags:  []cli.Flag{formatFlag()},
		Action: r.Status,
	}
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the movie API over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to listen on (default from config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on (default from config)",
			},
			&cli.BoolFlag{
				Name:  "no-lists",
				Usage: "Disable the favorites and watchlist endpoints",
			},
		},
		Action: r.Serve,
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Browse movies interactively",
		Action: r.RunTUI,
	}
}

func prefetchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "prefetch",
		Usage:     "Warm the cache with movie details, optionally exporting them",
		ArgsUsage: "[id...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "section",
				Aliases: []string{"s"},
				Usage:   "Prefetch every movie in a section (popular, trending, top-rated)",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Concurrent lookups (max 10)",
				Value:   5,
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Lookups per second",
				Value: 5,
			},
			&cli.BoolFlag{
				Name:  "extras",
				Usage: "Include cast, crew, trailers, reviews and watch providers",
				Value: true,
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Usage:   "Export each movie into this directory with a manifest",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Export format (json, markdown, csv, txt)",
				Value: "json",
			},
			&cli.BoolFlag{
				Name:  "poster",
				Usage: "Download posters next to markdown exports",
			},
		},
		Action: r.Prefetch,
	}
}

func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear the result cache",
		Commands: []*cli.Command{
			{
				Name:  "stats",
				Usage: "Show the cache backend, size and freshness window",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CacheStats,
			},
			{
				Name:   "purge",
				Usage:  "Remove every cached response",
				Action: r.CachePurge,
			},
		},
	}
}

func favoritesCommand(r *Runner) *cli.Command {
	return listCommand(r, "favorites", []string{"fav"}, "Manage favorite movies")
}

func watchlistCommand(r *Runner) *cli.Command {
	return listCommand(r, "watchlist", []string{"watch"}, "Manage movies to watch later")
}

func listCommand(r *Runner, name string, aliases []string, usage string) *cli.Command {
	return &cli.Command{
		Name:    name,
		Aliases: aliases,
		Usage:   usage,
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a movie to the " + name,
				ArgsUsage: "<id>",
				Action:    r.ListAdd(name),
			},
			{
				Name:  "list",
				Usage: "Show the " + name,
				Flags: []cli.Flag{
					formatFlag(),
					&cli.StringFlag{
						Name:  "sort-by",
						Usage: "Order entries (added, title, year, rating)",
					},
					&cli.IntFlag{
						Name:  "year",
						Usage: "Only movies released in this year",
					},
					&cli.FloatFlag{
						Name:  "min-rating",
						Usage: "Only movies rated at least this",
					},
				},
				Action: r.ListShow(name),
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove a movie from the " + name,
				ArgsUsage: "<id>",
				Action:    r.ListRemove(name),
			},
		},
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the configuration file and database",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write an example configuration file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize the database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}
