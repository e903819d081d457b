package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotObject is returned by [DecodeRecord] when the input is not a JSON object.
var ErrNotObject = errors.New("record is not a JSON object")

// RecordKind tags a [RawRecord].
type RecordKind int

const (
	KindLegacy RecordKind = iota
	KindLive
	KindCanonical
)

func (k RecordKind) String() string {
	switch k {
	case KindLegacy:
		return "legacy"
	case KindLive:
		return "live"
	case KindCanonical:
		return "canonical"
	default:
		return fmt.Sprintf("RecordKind(%d)", int(k))
	}
}

// RawRecord is one movie record as it arrived, before normalization.
//
// The set of implementations is closed: [LegacyRecord], [LiveRecord] and [CanonicalRecord].
type RawRecord interface {
	Kind() RecordKind
	sealed()
}

// LegacyRecord is the OMDb-style shape. Every value is a string and "N/A" marks a missing value.
type LegacyRecord struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	ImdbID     string `json:"imdbID"`
	Type       string `json:"Type,omitempty"`
	Poster     string `json:"Poster"`
	Plot       string `json:"Plot"`
	Director   string `json:"Director"`
	Writer     string `json:"Writer,omitempty"`
	Actors     string `json:"Actors,omitempty"`
	Genre      string `json:"Genre"`
	ImdbRating string `json:"imdbRating"`
	ImdbVotes  string `json:"imdbVotes,omitempty"`
	Released   string `json:"Released"`
	Runtime    string `json:"Runtime"`
	Language   string `json:"Language,omitempty"`
}

func (LegacyRecord) Kind() RecordKind { return KindLegacy }
func (LegacyRecord) sealed()          {}

// LiveRecord is the TMDB v3 movie shape, including the resources appended by append_to_response.
type LiveRecord struct {
	ID               int                      `json:"id"`
	ImdbID           string                   `json:"imdb_id,omitempty"`
	Title            string                   `json:"title,omitempty"`
	Name             string                   `json:"name,omitempty"`
	OriginalTitle    string                   `json:"original_title,omitempty"`
	OriginalName     string                   `json:"original_name,omitempty"`
	Overview         string                   `json:"overview,omitempty"`
	PosterPath       string                   `json:"poster_path,omitempty"`
	BackdropPath     string                   `json:"backdrop_path,omitempty"`
	ReleaseDate      string                   `json:"release_date,omitempty"`
	FirstAirDate     string                   `json:"first_air_date,omitempty"`
	VoteAverage      float64                  `json:"vote_average,omitempty"`
	VoteCount        int                      `json:"vote_count,omitempty"`
	Popularity       float64                  `json:"popularity,omitempty"`
	GenreIDs         []int                    `json:"genre_ids,omitempty"`
	Genres           []LiveGenre              `json:"genres,omitempty"`
	Runtime          int                      `json:"runtime,omitempty"`
	OriginalLanguage string                   `json:"original_language,omitempty"`
	Adult            bool                     `json:"adult,omitempty"`
	Budget           int64                    `json:"budget,omitempty"`
	Revenue          int64                    `json:"revenue,omitempty"`
	Status           string                   `json:"status,omitempty"`
	Credits          *LiveCredits             `json:"credits,omitempty"`
	Videos           *LiveResults[LiveVideo]  `json:"videos,omitempty"`
	Reviews          *LiveResults[LiveReview] `json:"reviews,omitempty"`
	Images           *LiveImages              `json:"images,omitempty"`
	Similar          *LiveResults[LiveRecord] `json:"similar,omitempty"`
	Recommendations  *LiveResults[LiveRecord] `json:"recommendations,omitempty"`
	Keywords         *LiveKeywords            `json:"keywords,omitempty"`
	WatchProviders   *LiveWatchProviders      `json:"watch/providers,omitempty"`
}

func (LiveRecord) Kind() RecordKind { return KindLive }
func (LiveRecord) sealed()          {}

// CanonicalRecord wraps an already normalized [Movie].
type CanonicalRecord struct {
	Movie Movie
}

func (CanonicalRecord) Kind() RecordKind { return KindCanonical }
func (CanonicalRecord) sealed()          {}

type LiveGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// LiveResults is the {"results": [...]} envelope TMDB uses for lists and appended resources.
type LiveResults[T any] struct {
	Page         int `json:"page,omitempty"`
	Results      []T `json:"results"`
	TotalPages   int `json:"total_pages,omitempty"`
	TotalResults int `json:"total_results,omitempty"`
}

type LiveCredits struct {
	Cast []LiveCast `json:"cast"`
	Crew []LiveCrew `json:"crew"`
}

type LiveCast struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path,omitempty"`
	Order       int    `json:"order"`
}

type LiveCrew struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	ProfilePath string `json:"profile_path,omitempty"`
}

type LiveVideo struct {
	Key         string `json:"key"`
	Site        string `json:"site"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	Official    bool   `json:"official"`
	PublishedAt string `json:"published_at"`
}

type LiveReview struct {
	ID            string            `json:"id"`
	Author        string            `json:"author"`
	Content       string            `json:"content"`
	CreatedAt     string            `json:"created_at"`
	URL           string            `json:"url"`
	AuthorDetails LiveAuthorDetails `json:"author_details"`
}

type LiveAuthorDetails struct {
	Rating *float64 `json:"rating"`
}

type LiveImages struct {
	Backdrops []LiveImage `json:"backdrops"`
	Posters   []LiveImage `json:"posters"`
}

type LiveImage struct {
	FilePath string `json:"file_path"`
}

type LiveKeywords struct {
	Keywords []LiveKeyword `json:"keywords"`
}

type LiveKeyword struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type LiveWatchProviders struct {
	Results map[string]LiveRegionProviders `json:"results"`
}

type LiveRegionProviders struct {
	Link     string         `json:"link"`
	Flatrate []LiveProvider `json:"flatrate"`
	Rent     []LiveProvider `json:"rent"`
	Buy      []LiveProvider `json:"buy"`
}

type LiveProvider struct {
	ProviderID   int    `json:"provider_id"`
	ProviderName string `json:"provider_name"`
	LogoPath     string `json:"logo_path"`
}

// DecodeRecord tags a JSON movie record by field presence and decodes it into the matching shape.
//
// Decoding is best effort: on a type mismatch the returned record holds every field that did decode
// and err describes the first mismatch. The record is never nil.
func DecodeRecord(data []byte) (RawRecord, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return LiveRecord{}, fmt.Errorf("%w: %w", ErrNotObject, err)
	}

	switch {
	case has(probe, "poster_url") && has(probe, "source"):
		var m Movie
		err := json.Unmarshal(data, &m)
		return CanonicalRecord{Movie: m}, err
	case has(probe, "Title") || has(probe, "imdbID"):
		var r LegacyRecord
		err := json.Unmarshal(data, &r)
		return r, err
	default:
		var r LiveRecord
		err := json.Unmarshal(data, &r)
		return r, err
	}
}

func has(m map[string]json.RawMessage, key string) bool {
	_, ok := m[key]
	return ok
}
