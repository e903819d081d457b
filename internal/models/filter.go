package models

import (
	"fmt"
	"strconv"
	"strings"
)

// SortBy orders search results.
type SortBy string

const (
	SortPopularity  SortBy = "popularity"
	SortRating      SortBy = "rating"
	SortReleaseDate SortBy = "release_date"
	SortTitle       SortBy = "title"
)

// ParseSortBy maps user input to a [SortBy]. "year" is accepted for release date; anything unknown sorts by popularity.
func ParseSortBy(s string) SortBy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rating", "vote_average":
		return SortRating
	case "release_date", "year", "date":
		return SortReleaseDate
	case "title":
		return SortTitle
	default:
		return SortPopularity
	}
}

// FilterSpec narrows and orders search results. The zero value applies no filtering and sorts by popularity.
type FilterSpec struct {
	Genre     string   `json:"genre,omitempty"`
	Year      string   `json:"year,omitempty"`
	MinRating *float64 `json:"min_rating,omitempty"`
	SortBy    SortBy   `json:"sort_by,omitempty"`
}

// ParseFilterSpec builds a [FilterSpec] from raw strings, as read from flags or query parameters.
func ParseFilterSpec(genre, year, minRating, sortBy string) (FilterSpec, error) {
	f := FilterSpec{
		Genre:  strings.TrimSpace(genre),
		Year:   strings.TrimSpace(year),
		SortBy: ParseSortBy(sortBy),
	}

	if f.Year != "" {
		if y, err := strconv.Atoi(f.Year); err != nil || y < 1800 || y > 3000 {
			return FilterSpec{}, fmt.Errorf("invalid year %q", year)
		}
	}

	if s := strings.TrimSpace(minRating); s != "" {
		r, err := strconv.ParseFloat(s, 64)
		if err != nil || r < 0 || r > 10 {
			return FilterSpec{}, fmt.Errorf("invalid minimum rating %q", minRating)
		}
		f.MinRating = &r
	}
	return f, nil
}

// Sort returns the effective sort order.
func (f FilterSpec) Sort() SortBy {
	if f.SortBy == "" {
		return SortPopularity
	}
	return f.SortBy
}

// YearInt returns the year filter as an integer when set.
func (f FilterSpec) YearInt() (int, bool) {
	if f.Year == "" {
		return 0, false
	}
	y, err := strconv.Atoi(f.Year)
	return y, err == nil
}

// Normalized returns f with the sort order made explicit, so equal filters produce equal cache keys.
func (f FilterSpec) Normalized() FilterSpec {
	f.Genre = strings.ToLower(strings.TrimSpace(f.Genre))
	f.Year = strings.TrimSpace(f.Year)
	f.SortBy = f.Sort()
	return f
}

// WithMinRating returns a copy of f with the minimum rating set.
func (f FilterSpec) WithMinRating(r float64) FilterSpec {
	f.MinRating = &r
	return f
}
