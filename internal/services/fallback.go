package services

import (
	"math/rand"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/movieplex/internal/models"
	"github.com/desertthunder/movieplex/internal/shared"
)

const fallbackPageSize = 10

// Fallback serves movie data from an offline catalog. It never fails.
//
// Lists carry synthesized vote counts and popularity drawn from its random source, so two calls can differ.
type Fallback struct {
	catalog    []models.LegacyRecord
	moods      map[string][]string
	normalizer *Normalizer
	logger     *log.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// FallbackOption configures a [Fallback].
type FallbackOption func(*Fallback)

// WithCatalog replaces the built-in catalog and mood table.
func WithCatalog(catalog []models.LegacyRecord, moods map[string][]string) FallbackOption {
	return func(f *Fallback) {
		f.catalog = slices.Clone(catalog)
		if moods != nil {
			f.moods = moods
		}
	}
}

// WithRandSource sets the source for synthesized statistics.
func WithRandSource(src rand.Source) FallbackOption {
	return func(f *Fallback) {
		if src != nil {
			f.rng = rand.New(src)
		}
	}
}

// WithFallbackLogger sets the logger.
func WithFallbackLogger(l *log.Logger) FallbackOption {
	return func(f *Fallback) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFallback creates a [Fallback] whose output passes through n.
func NewFallback(n *Normalizer, opts ...FallbackOption) *Fallback {
	if n == nil {
		n = NewNormalizer("", nil)
	}
	f := &Fallback{
		catalog:    defaultCatalog,
		moods:      defaultMoodTitles,
		normalizer: n,
		logger:     shared.NewLogger(nil),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = shared.WithLogger(f.logger, "component", "fallback")
	return f
}

// Len returns the catalog size.
func (f *Fallback) Len() int { return len(f.catalog) }

// Search matches query against title, genre and director, applies filters and returns the first page.
func (f *Fallback) Search(query string, filters models.FilterSpec) models.Page {
	q := strings.ToLower(strings.TrimSpace(query))
	filters = filters.Normalized()
	genreID, knownGenre := GenreID(filters.Genre)
	year, hasYear := filters.YearInt()

	var matches []models.Movie
	for _, r := range f.catalog {
		m := f.normalizer.NormalizeSummary(r)
		if q != "" && !strings.Contains(strings.ToLower(m.Title), q) && !m.HasGenre(q) &&
			!strings.Contains(strings.ToLower(m.Director), q) {
			continue
		}
		if filters.Genre != "" && !m.HasGenre(filters.Genre) && !(knownGenre && slices.Contains(m.GenreIDs, genreID)) {
			continue
		}
		if hasYear && m.Year != year {
			continue
		}
		if filters.MinRating != nil && m.VoteAverage < *filters.MinRating {
			continue
		}
		matches = append(matches, m)
	}

	switch filters.Sort() {
	case models.SortTitle:
		slices.SortStableFunc(matches, func(a, b models.Movie) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		})
	case models.SortReleaseDate:
		slices.SortStableFunc(matches, func(a, b models.Movie) int { return b.Year - a.Year })
	case models.SortRating:
		slices.SortStableFunc(matches, func(a, b models.Movie) int { return compareFloat(b.VoteAverage, a.VoteAverage) })
	}

	results := matches[:min(len(matches), fallbackPageSize)]
	return models.Page{
		Results:      nonNil(results),
		TotalResults: len(matches),
		TotalPages:   max(1, (len(matches)+fallbackPageSize-1)/fallbackPageSize),
		Page:         1,
		Source:       models.SourceFallback,
	}
}

// Popular returns catalog[0:20].
func (f *Fallback) Popular() models.Page { return f.list(0, 20) }

// Trending returns catalog[2:18].
func (f *Fallback) Trending() models.Page { return f.list(2, 18) }

// TopRated returns catalog[0:15].
func (f *Fallback) TopRated() models.Page { return f.list(0, 15) }

func (f *Fallback) list(lo, hi int) models.Page {
	lo, hi = min(lo, len(f.catalog)), min(hi, len(f.catalog))
	results := make([]models.Movie, 0, hi-lo)
	for _, r := range f.catalog[lo:hi] {
		m := f.normalizer.NormalizeSummary(r)
		m.VoteCount = f.intn(100_000, 500_000)
		m.Popularity = float64(f.intn(40, 100))
		if m.RuntimeMinutes == 0 {
			m.RuntimeMinutes = f.intn(90, 150)
		}
		results = append(results, m)
	}
	return models.Page{
		Results:      results,
		TotalResults: len(results),
		TotalPages:   1,
		Page:         1,
		Source:       models.SourceFallback,
	}
}

// ByMood returns the catalog titles listed for mood, or the first four entries for an unknown mood.
func (f *Fallback) ByMood(mood string) models.Page {
	var records []models.LegacyRecord
	if titles, ok := f.moods[strings.ToLower(strings.TrimSpace(mood))]; ok {
		for _, r := range f.catalog {
			if slices.Contains(titles, r.Title) {
				records = append(records, r)
			}
		}
	} else {
		records = f.catalog[:min(len(f.catalog), 4)]
	}

	results := make([]models.Movie, 0, len(records))
	for _, r := range records {
		results = append(results, f.normalizer.NormalizeSummary(r))
	}
	return models.Page{
		Results:      results,
		TotalResults: len(results),
		TotalPages:   1,
		Page:         1,
		Source:       models.SourceFallback,
	}
}

// Detail returns the catalog entry for id with synthesized credits, videos, reviews and providers.
//
// Unknown ids resolve to the first catalog entry.
func (f *Fallback) Detail(id models.MovieID) models.Movie {
	rec, ok := f.lookup(id.String())
	if !ok {
		if len(f.catalog) == 0 {
			f.logger.Error(shared.ErrFallbackExhausted.Error(), "id", id)
			m := f.normalizer.NormalizeDetail(models.LegacyRecord{})
			m.ID = id
			return m
		}
		f.logger.Debug("fallback id not in catalog, using first entry", "id", id)
		rec = f.catalog[0]
	}

	base := f.normalizer.NormalizeSummary(rec)
	live := models.LiveRecord{
		ImdbID:           rec.ImdbID,
		Title:            base.Title,
		OriginalTitle:    base.OriginalTitle,
		Overview:         base.Overview,
		PosterPath:       deref(base.PosterURL),
		BackdropPath:     deref(base.BackdropURL),
		ReleaseDate:      deref(base.ReleaseDate),
		VoteAverage:      base.VoteAverage,
		VoteCount:        f.intn(50_000, 550_000),
		Popularity:       float64(f.intn(20, 100)),
		Runtime:          base.RuntimeMinutes,
		OriginalLanguage: base.OriginalLanguage,
		Budget:           int64(f.intn(10, 110)) * 1_000_000,
		Revenue:          int64(f.intn(50, 550)) * 1_000_000,
		Status:           "Released",
		Credits:          &models.LiveCredits{Cast: fallbackCast(rec), Crew: fallbackCrew(rec)},
		Videos:           fallbackVideos(rec, base.Title),
		Reviews:          fallbackReviewPage(),
		Images:           &models.LiveImages{},
		Keywords:         &models.LiveKeywords{},
		WatchProviders:   fallbackProviders(),
	}
	for i, g := range base.Genres {
		gid, _ := GenreID(g)
		live.Genres = append(live.Genres, models.LiveGenre{ID: gid, Name: g})
		live.Keywords.Keywords = append(live.Keywords.Keywords, models.LiveKeyword{ID: i + 1, Name: strings.ToLower(g)})
	}
	if poster := deref(base.PosterURL); poster != "" {
		live.Images.Backdrops = []models.LiveImage{{FilePath: poster}}
		live.Images.Posters = []models.LiveImage{{FilePath: poster}}
	}

	m := f.normalizer.NormalizeDetail(live)
	m.ID = base.ID
	m.Year = base.Year
	m.Source = models.SourceFallback

	related := f.catalog[min(1, len(f.catalog)):min(7, len(f.catalog))]
	m.Similar = make([]models.Movie, 0, len(related))
	for _, r := range related {
		m.Similar = append(m.Similar, f.normalizer.NormalizeSummary(r))
	}
	return m
}

func (f *Fallback) lookup(id string) (models.LegacyRecord, bool) {
	for _, r := range f.catalog {
		if r.ImdbID != "" && strings.EqualFold(r.ImdbID, id) {
			return r, true
		}
	}
	return models.LegacyRecord{}, false
}

// intn returns a value in [lo, hi).
func (f *Fallback) intn(lo, hi int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return lo + f.rng.Intn(hi-lo)
}

func fallbackCast(rec models.LegacyRecord) []models.LiveCast {
	actors := splitList(rec.Actors)
	if len(actors) == 0 {
		return slices.Clone(placeholderCast)
	}
	cast := make([]models.LiveCast, 0, len(actors))
	for i, name := range actors {
		p := placeholderCast[i%len(placeholderCast)]
		cast = append(cast, models.LiveCast{ID: i + 1, Name: name, Character: p.Character, ProfilePath: p.ProfilePath, Order: i})
	}
	return cast
}

func fallbackCrew(rec models.LegacyRecord) []models.LiveCrew {
	var crew []models.LiveCrew
	for _, name := range splitList(rec.Director) {
		crew = append(crew, models.LiveCrew{ID: 100 + len(crew), Name: name, Job: "Director", Department: "Directing"})
	}
	crew = append(crew, models.LiveCrew{ID: 200, Name: "Emma Thomas", Job: "Producer", Department: "Production"})

	writers := splitList(rec.Writer)
	if len(writers) == 0 {
		writers = []string{"Jonathan Nolan"}
	}
	for i, name := range writers {
		crew = append(crew, models.LiveCrew{ID: 300 + i, Name: name, Job: "Writer", Department: "Writing"})
	}

	return append(crew,
		models.LiveCrew{ID: 400, Name: "Hans Zimmer", Job: "Original Music Composer", Department: "Sound"},
		models.LiveCrew{ID: 500, Name: "Wally Pfister", Job: "Director of Photography", Department: "Camera"},
	)
}

func fallbackVideos(rec models.LegacyRecord, title string) *models.LiveResults[models.LiveVideo] {
	key, ok := trailerKeys[rec.ImdbID]
	if !ok {
		key = defaultTrailerKey
	}
	return &models.LiveResults[models.LiveVideo]{Results: []models.LiveVideo{
		{Key: key, Site: "YouTube", Type: "Trailer", Name: title + " - Official Trailer", Official: true},
		{Key: key, Site: "YouTube", Type: "Teaser", Name: title + " - Teaser"},
	}}
}

func fallbackReviewPage() *models.LiveResults[models.LiveReview] {
	reviews := slices.Clone(fallbackReviews)
	for i := range reviews {
		rating := fallbackReviewRatings[i%len(fallbackReviewRatings)]
		reviews[i].AuthorDetails.Rating = &rating
	}
	return &models.LiveResults[models.LiveReview]{Results: reviews}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
