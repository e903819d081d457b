package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Source records where a value came from.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// Canonical defaults for fields the upstream record does not carry.
const (
	DefaultTitle    = "Untitled"
	DefaultOverview = "No description available"
	DefaultLanguage = "en"
	UnknownPerson   = "Unknown"
)

// MovieID is either a numeric TMDB id or an external string id such as an IMDb id.
type MovieID struct {
	num int
	ext string
}

// IntID wraps a numeric TMDB id.
func IntID(n int) MovieID { return MovieID{num: n} }

// ExternalID wraps a non-numeric id such as "tt0111161".
func ExternalID(s string) MovieID { return MovieID{ext: s} }

// ParseMovieID reads a user or URL supplied id. Digits become a numeric id, anything else an external id.
func ParseMovieID(s string) MovieID {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return IntID(n)
	}
	return ExternalID(s)
}

// Int returns the numeric id and whether the id is numeric.
func (id MovieID) Int() (int, bool) {
	return id.num, id.ext == "" && id.num > 0
}

// IsZero reports whether the id is unset.
func (id MovieID) IsZero() bool { return id.num == 0 && id.ext == "" }

func (id MovieID) String() string {
	if id.ext != "" {
		return id.ext
	}
	return strconv.Itoa(id.num)
}

// MarshalJSON renders numeric ids as numbers and external ids as strings.
func (id MovieID) MarshalJSON() ([]byte, error) {
	if id.ext != "" {
		return json.Marshal(id.ext)
	}
	return []byte(strconv.Itoa(id.num)), nil
}

// UnmarshalJSON accepts a number, a string or null.
func (id *MovieID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = MovieID{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ParseMovieID(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("movie id: %w", err)
	}
	*id = IntID(int(f))
	return nil
}

// Movie is the canonical movie record every read operation returns.
//
// After normalization slices and maps are non-nil and every string field holds a value.
type Movie struct {
	ID               MovieID                    `json:"id"`
	Title            string                     `json:"title"`
	OriginalTitle    string                     `json:"original_title"`
	Overview         string                     `json:"overview"`
	PosterURL        *string                    `json:"poster_url"`
	BackdropURL      *string                    `json:"backdrop_url"`
	ReleaseDate      *string                    `json:"release_date"`
	Year             int                        `json:"year"`
	VoteAverage      float64                    `json:"vote_average"`
	VoteCount        int                        `json:"vote_count"`
	Popularity       float64                    `json:"popularity"`
	Genres           []string                   `json:"genres"`
	GenreIDs         []int                      `json:"genre_ids"`
	RuntimeMinutes   int                        `json:"runtime"`
	OriginalLanguage string                     `json:"original_language"`
	Adult            bool                       `json:"adult"`
	Director         string                     `json:"director"`
	Producer         string                     `json:"producer"`
	Writer           string                     `json:"writer"`
	Cinematographer  string                     `json:"cinematographer"`
	Composer         string                     `json:"composer"`
	Actors           []string                   `json:"actors"`
	Cast             []CastMember               `json:"cast"`
	Crew             []CrewMember               `json:"crew"`
	Videos           []Video                    `json:"videos"`
	Reviews          []Review                   `json:"reviews"`
	Similar          []Movie                    `json:"similar"`
	Recommendations  []Movie                    `json:"recommendations"`
	Keywords         []Keyword                  `json:"keywords"`
	Images           Images                     `json:"images"`
	WatchProviders   map[string]RegionProviders `json:"watch_providers"`
	Budget           int64                      `json:"budget"`
	Revenue          int64                      `json:"revenue"`
	Status           string                     `json:"status"`
	Source           Source                     `json:"source"`
}

type CastMember struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Character  string  `json:"character"`
	ProfileURL *string `json:"profile_url"`
	Order      int     `json:"order"`
}

type CrewMember struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Job        string  `json:"job"`
	Department string  `json:"department"`
	ProfileURL *string `json:"profile_url"`
}

type Video struct {
	Key         string `json:"key"`
	Site        string `json:"site"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	Official    bool   `json:"official"`
	PublishedAt string `json:"published_at"`
}

// YouTubeURL returns the watch URL for YouTube videos and an empty string otherwise.
func (v Video) YouTubeURL() string {
	if v.Site != "YouTube" || v.Key == "" {
		return ""
	}
	return "https://www.youtube.com/watch?v=" + v.Key
}

type Review struct {
	ID        string   `json:"id"`
	Author    string   `json:"author"`
	Content   string   `json:"content"`
	Rating    *float64 `json:"rating"`
	CreatedAt string   `json:"created_at"`
	URL       string   `json:"url"`
}

type Keyword struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Images holds absolute image URLs.
type Images struct {
	Backdrops []string `json:"backdrops"`
	Posters   []string `json:"posters"`
}

// RegionProviders lists where a movie can be watched in one region.
type RegionProviders struct {
	Link   string     `json:"link"`
	Stream []Provider `json:"stream"`
	Rent   []Provider `json:"rent"`
	Buy    []Provider `json:"buy"`
}

type Provider struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	LogoURL *string `json:"logo_url"`
}

// DisplayYear returns the year as text, or "N/A".
func (m Movie) DisplayYear() string {
	if m.Year <= 0 {
		return "N/A"
	}
	return strconv.Itoa(m.Year)
}

// PrimaryGenre returns the first genre or an empty string.
func (m Movie) PrimaryGenre() string {
	if len(m.Genres) == 0 {
		return ""
	}
	return m.Genres[0]
}

// HasGenre reports whether any genre contains name, case-insensitively.
func (m Movie) HasGenre(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, g := range m.Genres {
		if strings.Contains(strings.ToLower(g), name) {
			return true
		}
	}
	return false
}

// Validate checks the canonical invariant: defaulted strings, non-nil collections, ratings in range.
func (m Movie) Validate() error {
	missing := func(field string) error {
		return fmt.Errorf("movie %s: %s is empty", m.ID, field)
	}

	switch {
	case m.Title == "":
		return missing("title")
	case m.OriginalTitle == "":
		return missing("original_title")
	case m.Overview == "":
		return missing("overview")
	case m.OriginalLanguage == "":
		return missing("original_language")
	case m.Director == "", m.Producer == "", m.Writer == "", m.Cinematographer == "", m.Composer == "":
		return missing("crew role")
	case m.Source == "":
		return missing("source")
	}

	if m.VoteAverage < 0 || m.VoteAverage > 10 || math.IsNaN(m.VoteAverage) {
		return fmt.Errorf("movie %s: vote_average %v out of range", m.ID, m.VoteAverage)
	}

	if m.Genres == nil || m.GenreIDs == nil || m.Actors == nil || m.Cast == nil || m.Crew == nil ||
		m.Videos == nil || m.Reviews == nil || m.Similar == nil || m.Recommendations == nil ||
		m.Keywords == nil || m.Images.Backdrops == nil || m.Images.Posters == nil || m.WatchProviders == nil {
		return fmt.Errorf("movie %s: nil collection", m.ID)
	}

	for _, s := range m.Similar {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("similar: %w", err)
		}
	}
	for _, r := range m.Recommendations {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("recommendation: %w", err)
		}
	}
	return nil
}

// AsRecord re-enters an already normalized movie into normalization.
func (m Movie) AsRecord() RawRecord {
	return CanonicalRecord{Movie: m}
}

// Clone returns a deep copy of m.
func (m Movie) Clone() Movie {
	c := m
	c.PosterURL = cloneString(m.PosterURL)
	c.BackdropURL = cloneString(m.BackdropURL)
	c.ReleaseDate = cloneString(m.ReleaseDate)
	c.Genres = cloneSlice(m.Genres)
	c.GenreIDs = cloneSlice(m.GenreIDs)
	c.Actors = cloneSlice(m.Actors)
	c.Videos = cloneSlice(m.Videos)
	c.Keywords = cloneSlice(m.Keywords)
	c.Images = Images{Backdrops: cloneSlice(m.Images.Backdrops), Posters: cloneSlice(m.Images.Posters)}

	if m.Cast != nil {
		c.Cast = make([]CastMember, len(m.Cast))
		for i, cm := range m.Cast {
			cm.ProfileURL = cloneString(cm.ProfileURL)
			c.Cast[i] = cm
		}
	}
	if m.Crew != nil {
		c.Crew = make([]CrewMember, len(m.Crew))
		for i, cm := range m.Crew {
			cm.ProfileURL = cloneString(cm.ProfileURL)
			c.Crew[i] = cm
		}
	}
	if m.Reviews != nil {
		c.Reviews = make([]Review, len(m.Reviews))
		for i, r := range m.Reviews {
			if r.Rating != nil {
				v := *r.Rating
				r.Rating = &v
			}
			c.Reviews[i] = r
		}
	}
	if m.Similar != nil {
		c.Similar = make([]Movie, len(m.Similar))
		for i, s := range m.Similar {
			c.Similar[i] = s.Clone()
		}
	}
	if m.Recommendations != nil {
		c.Recommendations = make([]Movie, len(m.Recommendations))
		for i, r := range m.Recommendations {
			c.Recommendations[i] = r.Clone()
		}
	}
	if m.WatchProviders != nil {
		c.WatchProviders = make(map[string]RegionProviders, len(m.WatchProviders))
		for region, rp := range m.WatchProviders {
			c.WatchProviders[region] = RegionProviders{
				Link:   rp.Link,
				Stream: cloneProviders(rp.Stream),
				Rent:   cloneProviders(rp.Rent),
				Buy:    cloneProviders(rp.Buy),
			}
		}
	}
	return c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

func cloneProviders(ps []Provider) []Provider {
	if ps == nil {
		return nil
	}
	out := make([]Provider, len(ps))
	for i, p := range ps {
		p.LogoURL = cloneString(p.LogoURL)
		out[i] = p
	}
	return out
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
