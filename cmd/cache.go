package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/movieplex/internal/cache"
	"github.com/desertthunder/movieplex/internal/shared"
	"github.com/urfave/cli/v3"
)

type cacheStats struct {
	Backend string `json:"backend"`
	Entries int    `json:"entries"`
	TTL     string `json:"ttl"`
}

func (r *Runner) resultCache() (*cache.Cache, error) {
	owner, ok := r.movies.(cacheOwner)
	if !ok || owner.Cache() == nil {
		return nil, fmt.Errorf("%w: result cache", shared.ErrNotImplemented)
	}
	return owner.Cache(), nil
}

// CacheStats reports the cache backend, its entry count and freshness window.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	c, err := r.resultCache()
	if err != nil {
		return err
	}

	stats := cacheStats{Backend: c.Backend(), Entries: c.Len(ctx), TTL: c.TTL().String()}
	if cmd.Bool("json") {
		return r.writeJSON(stats, true)
	}
	return r.writePlain("Backend: %s\nEntries: %d\nTTL:     %s\n", stats.Backend, stats.Entries, stats.TTL)
}

// CachePurge removes every cached response.
func (r *Runner) CachePurge(ctx context.Context, cmd *cli.Command) error {
	c, err := r.resultCache()
	if err != nil {
		return err
	}

	n, err := c.Purge(ctx)
	if err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	r.logger.Info("cache purged", "backend", c.Backend(), "removed", n)
	return r.writePlain("✓ Removed %d cached responses\n", n)
}
