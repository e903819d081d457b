package services

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/movieplex/internal/models"
	"github.com/desertthunder/movieplex/internal/shared"
)

const (
	defaultImageBaseURL = "https://image.tmdb.org/t/p"

	posterSize   = "w500"
	backdropSize = "w1280"
	profileSize  = "w185"
	logoSize     = "w92"

	maxCast         = 20
	maxVideos       = 5
	maxReviews      = 3
	maxReviewRunes  = 500
	maxRelated      = 6
	maxKeywords     = 10
	maxBackdrops    = 10
	maxPosterImages = 6

	legacyDateLayout = "02 Jan 2006"
	isoDateLayout    = "2006-01-02"
)

var videoTypes = []string{"Trailer", "Teaser", "Clip"}

var languageCodes = map[string]string{
	"english":  "en",
	"french":   "fr",
	"spanish":  "es",
	"german":   "de",
	"italian":  "it",
	"japanese": "ja",
	"korean":   "ko",
	"mandarin": "zh",
	"hindi":    "hi",
}

// Normalizer maps raw records into canonical movies. It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	imageBase string
	logger    *log.Logger
}

// NewNormalizer creates a [Normalizer] that builds image URLs under imageBase.
func NewNormalizer(imageBase string, logger *log.Logger) *Normalizer {
	if imageBase == "" {
		imageBase = defaultImageBaseURL
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Normalizer{
		imageBase: strings.TrimRight(imageBase, "/"),
		logger:    shared.WithLogger(logger, "component", "normalizer"),
	}
}

// Decode tags data as a raw record. Anything unexpected is logged and decoded as far as possible.
func (n *Normalizer) Decode(data []byte) models.RawRecord {
	r, err := models.DecodeRecord(data)
	if err != nil {
		n.logger.Warn(shared.ErrNormalizationAnomaly.Error(), "kind", r.Kind(), "error", err)
	}
	return r
}

// NormalizeSummary maps r into the list-view canonical movie.
func (n *Normalizer) NormalizeSummary(r models.RawRecord) models.Movie {
	var m models.Movie
	switch r := r.(type) {
	case models.LiveRecord:
		m = n.liveSummary(r)
	case models.LegacyRecord:
		m = n.legacySummary(r)
	case models.CanonicalRecord:
		m = r.Movie.Clone()
	default:
		n.logger.Warn(shared.ErrNormalizationAnomaly.Error(), "record", fmt.Sprintf("%T", r))
	}
	applyDefaults(&m)
	return m
}

// NormalizeDetail maps r into a canonical movie with credits and the other detail resources.
func (n *Normalizer) NormalizeDetail(r models.RawRecord) models.Movie {
	var m models.Movie
	switch r := r.(type) {
	case models.LiveRecord:
		m = n.liveDetail(r)
	case models.LegacyRecord:
		m = n.legacyDetail(r)
	default:
		return n.NormalizeSummary(r)
	}
	applyDefaults(&m)
	return m
}

// NormalizePage maps a TMDB list envelope into a page of summaries. Each result is decoded on its own,
// so one malformed record does not drop the page.
func (n *Normalizer) NormalizePage(env models.LiveResults[json.RawMessage], page int) models.Page {
	p := models.Page{
		Results:      make([]models.Movie, 0, len(env.Results)),
		TotalResults: env.TotalResults,
		TotalPages:   env.TotalPages,
		Page:         env.Page,
		Source:       models.SourceLive,
	}
	for _, raw := range env.Results {
		p.Results = append(p.Results, n.NormalizeSummary(n.Decode(raw)))
	}
	if p.Page < 1 {
		p.Page = max(page, 1)
	}
	if p.TotalPages < 1 {
		p.TotalPages = 1
	}
	if p.TotalResults < len(p.Results) {
		p.TotalResults = len(p.Results)
	}
	return p
}

func (n *Normalizer) liveSummary(r models.LiveRecord) models.Movie {
	m := models.Movie{
		Title:            firstNonEmpty(r.Title, r.Name),
		OriginalTitle:    firstNonEmpty(r.OriginalTitle, r.OriginalName, r.Title, r.Name),
		Overview:         strings.TrimSpace(r.Overview),
		PosterURL:        n.imageURL(r.PosterPath, posterSize),
		BackdropURL:      n.imageURL(r.BackdropPath, backdropSize),
		ReleaseDate:      isoDate(firstNonEmpty(r.ReleaseDate, r.FirstAirDate)),
		VoteAverage:      r.VoteAverage,
		VoteCount:        r.VoteCount,
		Popularity:       r.Popularity,
		RuntimeMinutes:   r.Runtime,
		OriginalLanguage: r.OriginalLanguage,
		Adult:            r.Adult,
		Budget:           r.Budget,
		Revenue:          r.Revenue,
		Status:           r.Status,
		Source:           models.SourceLive,
	}

	switch {
	case r.ID > 0:
		m.ID = models.IntID(r.ID)
	case r.ImdbID != "":
		m.ID = models.ExternalID(r.ImdbID)
	}

	if len(r.Genres) > 0 {
		for _, g := range r.Genres {
			if g.ID > 0 {
				m.GenreIDs = append(m.GenreIDs, g.ID)
			}
			if g.Name != "" {
				m.Genres = append(m.Genres, g.Name)
			} else if name, ok := GenreName(g.ID); ok {
				m.Genres = append(m.Genres, name)
			}
		}
	} else {
		for _, id := range r.GenreIDs {
			m.GenreIDs = append(m.GenreIDs, id)
			if name, ok := GenreName(id); ok {
				m.Genres = append(m.Genres, name)
			}
		}
	}
	return m
}

func (n *Normalizer) liveDetail(r models.LiveRecord) models.Movie {
	m := n.liveSummary(r)

	if r.Credits != nil {
		cast := slices.Clone(r.Credits.Cast)
		slices.SortStableFunc(cast, func(a, b models.LiveCast) int { return a.Order - b.Order })
		cast = cast[:min(len(cast), maxCast)]
		for _, c := range cast {
			m.Cast = append(m.Cast, models.CastMember{
				ID:         c.ID,
				Name:       c.Name,
				Character:  c.Character,
				ProfileURL: n.imageURL(c.ProfilePath, profileSize),
				Order:      c.Order,
			})
			if c.Name != "" {
				m.Actors = append(m.Actors, c.Name)
			}
		}

		for _, c := range r.Credits.Crew {
			m.Crew = append(m.Crew, models.CrewMember{
				ID:         c.ID,
				Name:       c.Name,
				Job:        c.Job,
				Department: c.Department,
				ProfileURL: n.imageURL(c.ProfilePath, profileSize),
			})
		}
		m.Director = crewByJob(r.Credits.Crew, "Director")
		m.Producer = crewByJob(r.Credits.Crew, "Producer")
		m.Writer = crewByJob(r.Credits.Crew, "Writer", "Screenplay")
		m.Cinematographer = crewByJob(r.Credits.Crew, "Director of Photography")
		m.Composer = crewByJob(r.Credits.Crew, "Original Music Composer")
	}

	if r.Videos != nil {
		for _, v := range r.Videos.Results {
			if len(m.Videos) == maxVideos {
				break
			}
			if v.Site != "YouTube" || !slices.Contains(videoTypes, v.Type) {
				continue
			}
			m.Videos = append(m.Videos, models.Video{
				Key:         v.Key,
				Site:        v.Site,
				Type:        v.Type,
				Name:        v.Name,
				Official:    v.Official,
				PublishedAt: v.PublishedAt,
			})
		}
	}

	if r.Reviews != nil {
		for _, rv := range r.Reviews.Results[:min(len(r.Reviews.Results), maxReviews)] {
			m.Reviews = append(m.Reviews, models.Review{
				ID:        rv.ID,
				Author:    firstNonEmpty(rv.Author, models.UnknownPerson),
				Content:   reviewText(rv.Content),
				Rating:    rv.AuthorDetails.Rating,
				CreatedAt: rv.CreatedAt,
				URL:       rv.URL,
			})
		}
	}

	if r.Similar != nil {
		m.Similar = n.related(r.Similar.Results)
	}
	if r.Recommendations != nil {
		m.Recommendations = n.related(r.Recommendations.Results)
	}

	if r.Keywords != nil {
		for _, k := range r.Keywords.Keywords[:min(len(r.Keywords.Keywords), maxKeywords)] {
			m.Keywords = append(m.Keywords, models.Keyword{ID: k.ID, Name: k.Name})
		}
	}

	if r.Images != nil {
		for _, img := range r.Images.Backdrops[:min(len(r.Images.Backdrops), maxBackdrops)] {
			if u := n.imageURL(img.FilePath, backdropSize); u != nil {
				m.Images.Backdrops = append(m.Images.Backdrops, *u)
			}
		}
		for _, img := range r.Images.Posters[:min(len(r.Images.Posters), maxPosterImages)] {
			if u := n.imageURL(img.FilePath, posterSize); u != nil {
				m.Images.Posters = append(m.Images.Posters, *u)
			}
		}
	}

	if r.WatchProviders != nil {
		m.WatchProviders = make(map[string]models.RegionProviders, len(r.WatchProviders.Results))
		for region, rp := range r.WatchProviders.Results {
			m.WatchProviders[region] = models.RegionProviders{
				Link:   rp.Link,
				Stream: n.providers(rp.Flatrate),
				Rent:   n.providers(rp.Rent),
				Buy:    n.providers(rp.Buy),
			}
		}
	}
	return m
}

func (n *Normalizer) related(records []models.LiveRecord) []models.Movie {
	out := make([]models.Movie, 0, min(len(records), maxRelated))
	for _, r := range records[:min(len(records), maxRelated)] {
		out = append(out, n.NormalizeSummary(r))
	}
	return out
}

func (n *Normalizer) providers(ps []models.LiveProvider) []models.Provider {
	out := make([]models.Provider, 0, len(ps))
	for _, p := range ps {
		out = append(out, models.Provider{
			ID:      p.ProviderID,
			Name:    p.ProviderName,
			LogoURL: n.imageURL(p.LogoPath, logoSize),
		})
	}
	return out
}

func (n *Normalizer) legacySummary(r models.LegacyRecord) models.Movie {
	poster := legacyValue(r.Poster)
	m := models.Movie{
		Title:            legacyValue(r.Title),
		Overview:         legacyValue(r.Plot),
		PosterURL:        n.imageURL(poster, posterSize),
		BackdropURL:      n.imageURL(poster, backdropSize),
		ReleaseDate:      legacyDate(r.Released),
		Year:             leadingInt(legacyValue(r.Year)),
		VoteAverage:      parseFloat(r.ImdbRating),
		VoteCount:        leadingInt(strings.ReplaceAll(legacyValue(r.ImdbVotes), ",", "")),
		RuntimeMinutes:   leadingInt(legacyValue(r.Runtime)),
		OriginalLanguage: languageCode(r.Language),
		Director:         legacyValue(r.Director),
		Writer:           legacyValue(r.Writer),
		Actors:           splitList(r.Actors),
		Source:           models.SourceFallback,
	}
	m.OriginalTitle = m.Title
	if id := legacyValue(r.ImdbID); id != "" {
		m.ID = models.ExternalID(id)
	}

	for _, g := range splitList(r.Genre) {
		m.Genres = append(m.Genres, g)
		if id, ok := GenreID(g); ok {
			m.GenreIDs = append(m.GenreIDs, id)
		}
	}
	return m
}

func (n *Normalizer) legacyDetail(r models.LegacyRecord) models.Movie {
	m := n.legacySummary(r)
	for i, name := range m.Actors {
		m.Cast = append(m.Cast, models.CastMember{ID: i + 1, Name: name, Order: i})
	}
	return m
}

// imageURL keeps absolute URLs and places relative paths under the image base at size.
func (n *Normalizer) imageURL(path, size string) *string {
	path = strings.TrimSpace(path)
	switch {
	case path == "":
		return nil
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		return &path
	case !strings.HasPrefix(path, "/"):
		path = "/" + path
	}
	u := n.imageBase + "/" + size + path
	return &u
}

// applyDefaults fills every empty field with its canonical default. It is idempotent.
func applyDefaults(m *models.Movie) {
	m.Title = firstNonEmpty(strings.TrimSpace(m.Title), models.DefaultTitle)
	m.OriginalTitle = firstNonEmpty(m.OriginalTitle, m.Title)
	m.Overview = firstNonEmpty(m.Overview, models.DefaultOverview)
	m.OriginalLanguage = firstNonEmpty(m.OriginalLanguage, models.DefaultLanguage)
	m.Director = firstNonEmpty(m.Director, models.UnknownPerson)
	m.Producer = firstNonEmpty(m.Producer, models.UnknownPerson)
	m.Writer = firstNonEmpty(m.Writer, models.UnknownPerson)
	m.Cinematographer = firstNonEmpty(m.Cinematographer, models.UnknownPerson)
	m.Composer = firstNonEmpty(m.Composer, models.UnknownPerson)
	if m.Source == "" {
		m.Source = models.SourceLive
	}

	m.VoteAverage = clamp(m.VoteAverage, 0, 10)
	if math.IsNaN(m.Popularity) || m.Popularity < 0 {
		m.Popularity = 0
	}
	m.VoteCount = max(m.VoteCount, 0)
	m.RuntimeMinutes = max(m.RuntimeMinutes, 0)

	if m.Year == 0 && m.ReleaseDate != nil {
		m.Year = leadingInt(*m.ReleaseDate)
	}

	m.Genres = nonNil(m.Genres)
	m.GenreIDs = nonNil(m.GenreIDs)
	m.Actors = nonNil(m.Actors)
	m.Cast = nonNil(m.Cast)
	m.Crew = nonNil(m.Crew)
	m.Videos = nonNil(m.Videos)
	m.Reviews = nonNil(m.Reviews)
	m.Similar = nonNil(m.Similar)
	m.Recommendations = nonNil(m.Recommendations)
	m.Keywords = nonNil(m.Keywords)
	m.Images.Backdrops = nonNil(m.Images.Backdrops)
	m.Images.Posters = nonNil(m.Images.Posters)
	if m.WatchProviders == nil {
		m.WatchProviders = map[string]models.RegionProviders{}
	}
	for region, rp := range m.WatchProviders {
		rp.Stream = nonNil(rp.Stream)
		rp.Rent = nonNil(rp.Rent)
		rp.Buy = nonNil(rp.Buy)
		m.WatchProviders[region] = rp
	}

	for i := range m.Similar {
		applyDefaults(&m.Similar[i])
	}
	for i := range m.Recommendations {
		applyDefaults(&m.Recommendations[i])
	}
}

// crewByJob returns the first crew member whose job exactly matches one of jobs.
func crewByJob(crew []models.LiveCrew, jobs ...string) string {
	for _, c := range crew {
		if c.Name != "" && slices.Contains(jobs, c.Job) {
			return c.Name
		}
	}
	return models.UnknownPerson
}

// reviewText strips markup from a review body and trims it to maxReviewRunes.
func reviewText(content string) string {
	text := content
	if strings.ContainsAny(content, "<&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(content)); err == nil {
			text = doc.Text()
		}
	}
	text = strings.TrimSpace(text)

	runes := []rune(text)
	if len(runes) > maxReviewRunes {
		return string(runes[:maxReviewRunes]) + "..."
	}
	return text
}

// legacyValue treats "N/A" as empty.
func legacyValue(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "N/A") {
		return ""
	}
	return s
}

func legacyDate(s string) *string {
	s = legacyValue(s)
	if s == "" {
		return nil
	}
	if t, err := time.Parse(legacyDateLayout, s); err == nil {
		iso := t.Format(isoDateLayout)
		return &iso
	}
	return isoDate(s)
}

// isoDate accepts YYYY-MM-DD and drops anything else.
func isoDate(s string) *string {
	s = strings.TrimSpace(s)
	if _, err := time.Parse(isoDateLayout, s); err != nil {
		return nil
	}
	return &s
}

func languageCode(language string) string {
	first, _, _ := strings.Cut(legacyValue(language), ",")
	return languageCodes[strings.ToLower(strings.TrimSpace(first))]
}

func splitList(s string) []string {
	s = legacyValue(s)
	if s == "" {
		return nil
	}
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// leadingInt parses the leading digits of s, so "142 min" is 142 and "2005–2008" is 2005.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	if end == -1 {
		end = len(s)
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(legacyValue(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case math.IsNaN(v), v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
