// package services defines the interfaces the movie service depends on and exposes
package services

import (
	"context"
	"net/url"

	"github.com/desertthunder/movieplex/internal/models"
)

// Movies is the read surface shared by the CLI, the TUI and the HTTP server.
type Movies interface {
	Popular(ctx context.Context, page int) models.Page
	Trending(ctx context.Context, page int) models.Page
	TopRated(ctx context.Context, page int) models.Page
	Search(ctx context.Context, query string, page int, filters models.FilterSpec) models.Page
	// Detail returns an error only for an empty id.
	Detail(ctx context.Context, id models.MovieID, includeExtras bool) (models.Movie, error)
	ByMood(ctx context.Context, mood string, page int) models.Page
	Status(ctx context.Context) models.Status
}

// Fetcher performs one logical upstream read.
type Fetcher interface {
	Do(ctx context.Context, endpoint string, params url.Values) Result
	Configured() bool
}

// Prober checks upstream reachability for the [Gate].
type Prober interface {
	Configured() bool
	Probe(ctx context.Context) error
}

// Connectivity decides whether the upstream API should be called.
type Connectivity interface {
	IsConfigured() bool
	IsUsable(ctx context.Context) bool
	State() models.ConnectivityState
}

var (
	_ Movies       = (*MovieService)(nil)
	_ Fetcher      = (*Executor)(nil)
	_ Prober       = (*Executor)(nil)
	_ Connectivity = (*Gate)(nil)
)
