package tasks

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/desertthunder/movieplex/internal/formatter"
	"github.com/desertthunder/movieplex/internal/models"
	"github.com/desertthunder/movieplex/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultPrefetchWorkers = 5
	maxPrefetchWorkers     = 10
	defaultPrefetchRate    = 5.0
)

// PrefetchOpts contains configuration for warming the detail cache.
type PrefetchOpts struct {
	NumWorkers    int                    // Concurrent workers (default: 5, max: 10)
	RateLimit     float64                // Detail lookups per second (default: 5)
	IncludeExtras bool                   // Fetch credits, videos, reviews and the other extras
	OutputDir     string                 // When set, each movie is exported here with a manifest
	Format        formatter.Format       // Export format (default: json)
	Poster        formatter.ImageFetcher // Optional poster downloader for markdown exports
	Clock         shared.Clock           // Manifest timestamp source (default: system clock)
}

// PrefetchResult is the outcome for one requested id.
type PrefetchResult struct {
	Index   int
	MovieID string
	Title   string
	Source  models.Source
	Files   []string
	Success bool
	Err     error
}

// PrefetchReport summarizes a prefetch run.
type PrefetchReport struct {
	Total           int
	Successful      int
	Failed          int
	FromFallback    int // successful lookups served by the offline catalog
	Results         []PrefetchResult
	OutputDirectory string
	ManifestPath    string
}

type prefetchJob struct {
	index int
	id    models.MovieID
}

// PrefetchDetails looks up every id concurrently so later detail reads are served from the cache.
//
// A worker pool bounded by opts.NumWorkers pulls ids released by a [rate.Limiter]. Failures are recorded per id
// and never stop the run. Results are returned in the order of ids.
func (e *Engine) PrefetchDetails(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []models.MovieID,
	opts PrefetchOpts,
) (*PrefetchReport, error) {
	if e.movies == nil {
		return nil, fmt.Errorf("%w: movie service not initialized", shared.ErrNotConfigured)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultPrefetchWorkers
	}
	if opts.NumWorkers > maxPrefetchWorkers {
		opts.NumWorkers = maxPrefetchWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultPrefetchRate
	}
	if opts.Format == "" || opts.Format == formatter.Table {
		opts.Format = formatter.JSON
	}
	if opts.Clock == nil {
		opts.Clock = shared.SystemClock{}
	}

	if opts.OutputDir != "" {
		if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	report := &PrefetchReport{
		Total:           len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]PrefetchResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan prefetchJob, len(ids))
	results := make(chan PrefetchResult, len(ids))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.prefetchWorker(ctx, &wg, jobs, results, opts)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(jobs)
		e.sendProgress(prog, fetchingDetailsUpdate(len(ids)))
		for i, id := range ids {
			if err := limiter.Wait(ctx); err != nil {
				for k := i; k < len(ids); k++ {
					results <- PrefetchResult{Index: k, MovieID: ids[k].String(), Err: err}
				}
				return
			}
			jobs <- prefetchJob{index: i, id: id}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		report.Results = append(report.Results, res)

		if res.Success {
			report.Successful++
			if res.Source == models.SourceFallback {
				report.FromFallback++
			}
			e.sendProgress(prog, detailFetchedUpdate(completed, len(ids), res))
		} else {
			report.Failed++
			e.sendProgress(prog, detailFailedUpdate(completed, len(ids), res))
		}
	}

	sort.Slice(report.Results, func(i, j int) bool { return report.Results[i].Index < report.Results[j].Index })

	e.logger.Info("prefetch finished",
		"total", report.Total, "successful", report.Successful, "failed", report.Failed, "fallback", report.FromFallback)

	if opts.OutputDir == "" {
		return report, nil
	}

	path, err := formatter.WriteManifest(manifestFor(report, opts), opts.OutputDir)
	if err != nil {
		return report, fmt.Errorf("prefetch completed but failed to write manifest: %w", err)
	}
	report.ManifestPath = path
	e.sendProgress(prog, manifestUpdate(path))
	return report, nil
}

// prefetchWorker is a worker goroutine that resolves ids from the jobs channel.
//
// Once ctx is cancelled the remaining jobs are drained and reported as cancelled.
func (e *Engine) prefetchWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan prefetchJob,
	results chan<- PrefetchResult,
	opts PrefetchOpts,
) {
	defer wg.Done()

	for job := range jobs {
		if err := ctx.Err(); err != nil {
			results <- PrefetchResult{Index: job.index, MovieID: job.id.String(), Err: err}
			continue
		}
		results <- e.prefetchOne(ctx, job, opts)
	}
}

func (e *Engine) prefetchOne(ctx context.Context, j prefetchJob, opts PrefetchOpts) PrefetchResult {
	result := PrefetchResult{Index: j.index, MovieID: j.id.String(), Files: []string{}}

	m, err := e.movies.Detail(ctx, j.id, opts.IncludeExtras)
	if err != nil {
		result.Err = fmt.Errorf("detail lookup failed: %w", err)
		return result
	}
	result.Title = m.Title
	result.Source = m.Source

	if opts.OutputDir != "" {
		exp, err := formatter.WriteMovieExport(ctx, m, opts.OutputDir, opts.Format, opts.Poster)
		if err != nil {
			result.Err = fmt.Errorf("%s export failed: %w", opts.Format, err)
			return result
		}
		result.Files = exp.Files
	}

	result.Success = true
	return result
}

func manifestFor(r *PrefetchReport, opts PrefetchOpts) formatter.Manifest {
	m := formatter.Manifest{
		Format:      opts.Format,
		Total:       r.Total,
		Successful:  r.Successful,
		Failed:      r.Failed,
		GeneratedAt: opts.Clock.Now().UTC().Truncate(time.Second),
		Movies:      make([]formatter.ManifestEntry, 0, len(r.Results)),
	}
	for _, res := range r.Results {
		entry := formatter.ManifestEntry{
			MovieID: res.MovieID,
			Title:   res.Title,
			Source:  string(res.Source),
			Status:  "success",
			Files:   res.Files,
		}
		if !res.Success {
			entry.Status = "failed"
			if res.Err != nil {
				entry.Error = res.Err.Error()
			}
		}
		m.Movies = append(m.Movies, entry)
	}
	return m
}
