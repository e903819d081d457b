// package tasks implements multi-call movie operations with progress reporting.
package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/movieplex/internal/models"
	"github.com/desertthunder/movieplex/internal/services"
	"github.com/desertthunder/movieplex/internal/shared"
)

// SectionResult is the settled outcome of one homepage section.
type SectionResult struct {
	Name string
	Page models.Page
	Err  error // set only when the section panicked
}

// HomeResult holds the three homepage sections in display order.
type HomeResult struct {
	Sections []SectionResult
}

// HomeSections is the JSON shape of the homepage served by the CLI and the HTTP API.
type HomeSections struct {
	Popular  models.Page `json:"popular"`
	Trending models.Page `json:"trending"`
	TopRated models.Page `json:"top_rated"`
}

// Home converts r to [HomeSections], leaving failed sections empty.
func (r HomeResult) Home() HomeSections {
	var h HomeSections
	for _, s := range r.Sections {
		if s.Err != nil {
			continue
		}
		switch s.Name {
		case SectionPopular:
			h.Popular = s.Page
		case SectionTrending:
			h.Trending = s.Page
		case SectionTopRated:
			h.TopRated = s.Page
		}
	}
	return h
}

const (
	SectionPopular  = "Popular"
	SectionTrending = "Trending"
	SectionTopRated = "Top Rated"
)

// Engine runs multi-call operations against a [services.Movies].
type Engine struct {
	movies services.Movies
	logger *log.Logger
}

// NewEngine creates an [Engine]. A nil logger writes to stderr.
func NewEngine(movies services.Movies, logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Engine{movies: movies, logger: shared.WithLogger(logger, "component", "tasks")}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// LoadHome loads the three homepage sections concurrently.
//
// Sections settle independently: one that panics is reported through [SectionResult.Err] while the others
// still complete.
func (e *Engine) LoadHome(ctx context.Context, progress chan<- ProgressUpdate) (*HomeResult, error) {
	if e.movies == nil {
		return nil, fmt.Errorf("%w: movie service not initialized", shared.ErrNotConfigured)
	}

	loaders := []struct {
		name string
		load func(context.Context, int) models.Page
	}{
		{SectionPopular, e.movies.Popular},
		{SectionTrending, e.movies.Trending},
		{SectionTopRated, e.movies.TopRated},
	}

	result := &HomeResult{Sections: make([]SectionResult, len(loaders))}
	done := make(chan int, len(loaders))

	var wg sync.WaitGroup
	for i, l := range loaders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result.Sections[i] = e.loadSection(ctx, l.name, l.load)
			done <- i
		}()
	}

	go func() {
		wg.Wait()
		close(done)
	}()

	step := 0
	for i := range done {
		step++
		e.sendProgress(progress, sectionLoadedUpdate(step, len(loaders), result.Sections[i]))
	}
	return result, nil
}

func (e *Engine) loadSection(ctx context.Context, name string, load func(context.Context, int) models.Page) (res SectionResult) {
	res.Name = name
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("section panicked", "section", name, "panic", r)
			res.Err = fmt.Errorf("section %s: %v", name, r)
		}
	}()
	res.Page = load(ctx, 1)
	return res
}
