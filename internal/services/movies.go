package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/movieplex/internal/cache"
	"github.com/desertthunder/movieplex/internal/models"
	"github.com/desertthunder/movieplex/internal/shared"
)

const (
	// livePageSize is the TMDB page size used to paginate client-filtered search results.
	livePageSize = 20

	detailAppend = "credits,videos,reviews,images,similar,recommendations,keywords,watch/providers"

	// minVoteCount keeps rating filters from surfacing titles with a handful of votes.
	minVoteCount = 100
)

// Options holds the collaborators of a [MovieService]. Nil fields get defaults: an unconfigured executor,
// a gate over it, a default normalizer, the built-in fallback catalog and an in-memory cache.
type Options struct {
	Executor   Fetcher
	Gate       Connectivity
	Normalizer *Normalizer
	Fallback   *Fallback
	Cache      *cache.Cache
	Logger     *log.Logger
}

// MovieService is the single entry point for movie reads.
//
// Every read checks the cache, then asks the gate whether the API is usable. Live results are normalized and
// cached; upstream failures serve a stale entry when one exists and the fallback catalog otherwise.
type MovieService struct {
	fetcher    Fetcher
	gate       Connectivity
	normalizer *Normalizer
	fallback   *Fallback
	cache      *cache.Cache
	loader     *cache.Loader
	trailers   *TrailerFinder
	logger     *log.Logger
}

// NewMovieService creates a [MovieService] from opts.
func NewMovieService(opts Options) *MovieService {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if opts.Normalizer == nil {
		opts.Normalizer = NewNormalizer("", logger)
	}
	if opts.Executor == nil {
		opts.Executor = NewExecutor(ExecutorConfig{}, WithExecutorLogger(logger))
	}
	if opts.Gate == nil {
		if p, ok := opts.Executor.(Prober); ok {
			opts.Gate = NewGate(p, WithGateLogger(logger))
		} else {
			opts.Gate = NewGate(unprobed{opts.Executor}, WithGateLogger(logger))
		}
	}
	if opts.Fallback == nil {
		opts.Fallback = NewFallback(opts.Normalizer, WithFallbackLogger(logger))
	}
	if opts.Cache == nil {
		opts.Cache = cache.New(nil, cache.WithLogger(logger))
	}

	s := &MovieService{
		fetcher:    opts.Executor,
		gate:       opts.Gate,
		normalizer: opts.Normalizer,
		fallback:   opts.Fallback,
		cache:      opts.Cache,
		loader:     cache.NewLoader(opts.Cache),
		logger:     shared.WithLogger(logger, "component", "movies"),
	}
	s.trailers = NewTrailerFinder(s.fetcher, s.gate, s.cache, logger)
	return s
}

// NewFromConfig wires a [MovieService] from cfg. The returned function releases the cache backend.
//
// A redis backend that cannot be reached is replaced by an in-memory cache with a warning.
func NewFromConfig(ctx context.Context, cfg *shared.Config, logger *log.Logger) (*MovieService, func() error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	normalizer := NewNormalizer(cfg.TMDB.ImageBaseURL, logger)
	executor := NewExecutor(ExecutorConfigFrom(cfg.TMDB), WithExecutorLogger(logger))
	gate := NewGate(executor,
		WithProbeTimeout(cfg.TMDB.ProbeTimeout.Duration),
		WithProbeInterval(cfg.TMDB.ProbeInterval.Duration),
		WithGateLogger(logger),
	)

	store, closeStore := openStore(ctx, cfg.Cache, logger)
	c := cache.New(store, cache.WithTTL(cfg.Cache.TTL.Duration), cache.WithLogger(logger))

	svc := NewMovieService(Options{
		Executor:   executor,
		Gate:       gate,
		Normalizer: normalizer,
		Fallback:   NewFallback(normalizer, WithFallbackLogger(logger)),
		Cache:      c,
		Logger:     logger,
	})
	return svc, closeStore
}

func openStore(ctx context.Context, cfg shared.CacheConfig, logger *log.Logger) (cache.Store, func() error) {
	noop := func() error { return nil }
	if cfg.Backend != "redis" {
		return cache.NewMemoryStore(), noop
	}

	client, err := cache.DialRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Warn("redis unavailable, using in-memory cache", "addr", cfg.RedisAddr, "error", err)
		return cache.NewMemoryStore(), noop
	}
	logger.Info("using redis cache", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	return cache.NewRedisStore(client, cache.RedisOptions{RetainFor: cfg.RetainFor.Duration}), client.Close
}

// Cache returns the result cache.
func (s *MovieService) Cache() *cache.Cache { return s.cache }

// Fallback returns the offline catalog provider.
func (s *MovieService) Fallback() *Fallback { return s.fallback }

// Popular returns TMDB's popular movies.
func (s *MovieService) Popular(ctx context.Context, page int) models.Page {
	page = max(page, 1)
	return resolve(ctx, s, "popular", cache.Key("popular", page),
		s.livePage("/movie/popular", pageParams(page), page),
		s.fallback.Popular,
	)
}

// Trending returns this week's trending movies.
func (s *MovieService) Trending(ctx context.Context, page int) models.Page {
	page = max(page, 1)
	return resolve(ctx, s, "trending", cache.Key("trending", page),
		s.livePage("/trending/movie/week", pageParams(page), page),
		s.fallback.Trending,
	)
}

// TopRated returns the highest rated movies.
func (s *MovieService) TopRated(ctx context.Context, page int) models.Page {
	page = max(page, 1)
	return resolve(ctx, s, "top_rated", cache.Key("top_rated", page),
		s.livePage("/movie/top_rated", pageParams(page), page),
		s.fallback.TopRated,
	)
}

// Search finds movies by title. An empty query browses by filters alone.
//
// Live title searches only support a year filter upstream, so genre and rating are applied to the returned page.
func (s *MovieService) Search(ctx context.Context, query string, page int, filters models.FilterSpec) models.Page {
	page = max(page, 1)
	query = strings.TrimSpace(query)
	filters = filters.Normalized()
	key := cache.Key("search", query, page, filters)
	fallback := func() models.Page { return s.fallback.Search(query, filters) }

	if query == "" {
		return resolve(ctx, s, "discover", key, s.livePage("/discover/movie", discoverParams(page, filters), page), fallback)
	}

	params := pageParams(page)
	params.Set("query", query)
	if filters.Year != "" {
		params.Set("year", filters.Year)
	}
	search := s.livePage("/search/movie", params, page)

	return resolve(ctx, s, "search", key, func(ctx context.Context) (models.Page, error) {
		p, err := search(ctx)
		if err != nil {
			return p, err
		}
		p.Results = sortMovies(filterMovies(p.Results, filters), filters.Sort())
		p.TotalResults = len(p.Results)
		p.TotalPages = max(1, (len(p.Results)+livePageSize-1)/livePageSize)
		p.Page = page
		return p, nil
	}, fallback)
}

// Detail returns one movie. With includeExtras it carries credits, videos, reviews, images, related titles,
// keywords and watch providers.
//
// Non-numeric ids such as IMDb ids are served from the fallback catalog.
func (s *MovieService) Detail(ctx context.Context, id models.MovieID, includeExtras bool) (models.Movie, error) {
	if id.IsZero() || strings.TrimSpace(id.String()) == "" {
		return models.Movie{}, fmt.Errorf("%w: movie id is empty", shared.ErrInvalidInput)
	}

	n, numeric := id.Int()
	if !numeric {
		s.logger.Debug("non-numeric movie id, serving fallback", "id", id)
		return s.fallback.Detail(id), nil
	}

	endpoint := "/movie/" + strconv.Itoa(n)
	params := url.Values{}
	if includeExtras {
		params.Set("append_to_response", detailAppend)
	}

	m := resolve(ctx, s, "detail", cache.Key("detail", n, includeExtras), func(ctx context.Context) (models.Movie, error) {
		res := s.fetcher.Do(ctx, endpoint, params)
		if !res.OK() {
			return models.Movie{}, res.Err
		}
		r, err := models.DecodeRecord(res.Body)
		if errors.Is(err, models.ErrNotObject) {
			return models.Movie{}, fmt.Errorf("%w: %s: %v", shared.ErrNormalizationAnomaly, endpoint, err)
		}
		if err != nil {
			s.logger.Warn(shared.ErrNormalizationAnomaly.Error(), "endpoint", endpoint, "error", err)
		}
		return s.normalizer.NormalizeDetail(r), nil
	}, func() models.Movie {
		return s.fallback.Detail(id)
	})
	return m, nil
}

// CheckSnapshot reports whether m is the movie id names and safe to persist. Offline, [MovieService.Detail]
// answers unknown ids with a stand-in catalog movie; saving that would record the wrong title.
func CheckSnapshot(id models.MovieID, m models.Movie) error {
	if m.ID.String() == id.String() && strings.TrimSpace(m.Title) != "" {
		return nil
	}
	return fmt.Errorf("%w: movie %s cannot be loaded right now", shared.ErrUpstreamUnavailable, id)
}

// ByMood returns movies in the genres associated with mood.
func (s *MovieService) ByMood(ctx context.Context, mood string, page int) models.Page {
	page = max(page, 1)
	mood = strings.ToLower(strings.TrimSpace(mood))

	ids := MoodGenres(mood)
	genres := make([]string, len(ids))
	for i, id := range ids {
		genres[i] = strconv.Itoa(id)
	}
	params := pageParams(page)
	params.Set("with_genres", strings.Join(genres, ","))
	params.Set("sort_by", "popularity.desc")

	return resolve(ctx, s, "mood", cache.Key("mood", mood, page),
		s.livePage("/discover/movie", params, page),
		func() models.Page { return s.fallback.ByMood(mood) },
	)
}

// Status reports configuration, reachability and cache size. It may probe the API.
func (s *MovieService) Status(ctx context.Context) models.Status {
	configured := s.gate.IsConfigured()
	usable := configured && s.gate.IsUsable(ctx)
	state := s.gate.State()

	st := models.Status{
		Configured:    configured,
		Available:     state.Available,
		LastCheckedAt: state.LastCheckedAt,
		Mode:          models.SourceFallback,
		CacheBackend:  s.cache.Backend(),
		CacheEntries:  s.cache.Len(ctx),
	}
	if usable {
		st.Mode = models.SourceLive
	}
	if b, ok := s.fetcher.(interface{ BaseURL() string }); ok {
		st.BaseURL = b.BaseURL()
	}
	return st
}

// Trailer finds a trailer for the movie with id.
func (s *MovieService) Trailer(ctx context.Context, id models.MovieID) (Trailer, bool, error) {
	m, err := s.Detail(ctx, id, true)
	if err != nil {
		return Trailer{}, false, err
	}
	t, ok := s.trailers.Find(ctx, m)
	return t, ok, nil
}

func (s *MovieService) livePage(endpoint string, params url.Values, page int) func(context.Context) (models.Page, error) {
	return func(ctx context.Context) (models.Page, error) {
		res := s.fetcher.Do(ctx, endpoint, params)
		if !res.OK() {
			return models.Page{}, res.Err
		}
		var env models.LiveResults[json.RawMessage]
		if err := json.Unmarshal(res.Body, &env); err != nil {
			return models.Page{}, fmt.Errorf("%w: %s: %v", shared.ErrNormalizationAnomaly, endpoint, err)
		}
		return s.normalizer.NormalizePage(env, page), nil
	}
}

// resolve runs one read: fresh cache entry, else live when the gate allows it, else stale entry, else fallback.
//
// Concurrent reads of the same key share one fill. Writes are stamped with the time the fill started.
func resolve[T any](ctx context.Context, s *MovieService, op, key string, live func(context.Context) (T, error), fallback func() T) T {
	data, hit, err := s.loader.GetOrLoad(ctx, key, func(ctx context.Context) ([]byte, error) {
		startedAt := s.cache.Now()

		if !s.gate.IsUsable(ctx) {
			s.logger.Warn("upstream API not usable, serving fallback", "op", op)
			return s.store(ctx, key, fallback(), startedAt)
		}

		v, err := live(ctx)
		if err == nil {
			return s.store(ctx, key, v, startedAt)
		}

		if e, ok := s.cache.GetStaleOnError(ctx, key); ok {
			return e.Data, nil
		}
		s.logger.Warn("upstream read failed, serving fallback", "op", op, "error", err)
		return s.store(ctx, key, fallback(), startedAt)
	})
	if err != nil {
		s.logger.Warn("read abandoned, serving uncached fallback", "op", op, "error", err)
		return fallback()
	}
	if hit {
		s.logger.Debug("served from cache", "op", op)
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		s.logger.Warn("cached value undecodable, serving fallback", "op", op, "error", err)
		return fallback()
	}
	return v
}

func (s *MovieService) store(ctx context.Context, key string, v any, storedAt time.Time) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", key, err)
	}
	s.cache.SetAt(ctx, key, data, storedAt)
	return data, nil
}

func pageParams(page int) url.Values {
	return url.Values{
		"page":          {strconv.Itoa(page)},
		"include_adult": {"false"},
	}
}

func discoverParams(page int, f models.FilterSpec) url.Values {
	params := pageParams(page)
	params.Set("sort_by", sortParam(f.Sort()))
	if id, ok := GenreID(f.Genre); ok {
		params.Set("with_genres", strconv.Itoa(id))
	}
	if f.Year != "" {
		params.Set("year", f.Year)
	}
	if f.MinRating != nil {
		params.Set("vote_average.gte", strconv.FormatFloat(*f.MinRating, 'f', -1, 64))
		params.Set("vote_count.gte", strconv.Itoa(minVoteCount))
	}
	return params
}

func sortParam(by models.SortBy) string {
	switch by {
	case models.SortRating:
		return "vote_average.desc"
	case models.SortReleaseDate:
		return "release_date.desc"
	case models.SortTitle:
		return "title.asc"
	default:
		return "popularity.desc"
	}
}

// filterMovies applies the genre and minimum rating filters to a page of live results.
func filterMovies(movies []models.Movie, f models.FilterSpec) []models.Movie {
	genreID, knownGenre := GenreID(f.Genre)
	out := make([]models.Movie, 0, len(movies))
	for _, m := range movies {
		if f.Genre != "" && !m.HasGenre(f.Genre) && !(knownGenre && slices.Contains(m.GenreIDs, genreID)) {
			continue
		}
		if f.MinRating != nil && m.VoteAverage < *f.MinRating {
			continue
		}
		out = append(out, m)
	}
	return out
}

// sortMovies orders movies in place. Missing release dates sort as 1900-01-01.
func sortMovies(movies []models.Movie, by models.SortBy) []models.Movie {
	releaseDate := func(m models.Movie) string {
		if m.ReleaseDate == nil {
			return "1900-01-01"
		}
		return *m.ReleaseDate
	}

	switch by {
	case models.SortRating:
		slices.SortStableFunc(movies, func(a, b models.Movie) int { return compareFloat(b.VoteAverage, a.VoteAverage) })
	case models.SortReleaseDate:
		slices.SortStableFunc(movies, func(a, b models.Movie) int { return strings.Compare(releaseDate(b), releaseDate(a)) })
	case models.SortTitle:
		slices.SortStableFunc(movies, func(a, b models.Movie) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		})
	default:
		slices.SortStableFunc(movies, func(a, b models.Movie) int { return compareFloat(b.Popularity, a.Popularity) })
	}
	return movies
}

// unprobed adapts a [Fetcher] without a probe into a [Prober] that trusts configuration alone.
type unprobed struct{ Fetcher }

func (unprobed) Probe(context.Context) error { return nil }
