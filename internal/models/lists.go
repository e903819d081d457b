package models

import (
	"fmt"
	"strings"
	"time"
)

// ListName names a personal movie list.
type ListName string

const (
	Favorites ListName = "favorites"
	Watchlist ListName = "watchlist"
)

// ParseListName accepts "favorites" or "watchlist", plus the singular forms.
func ParseListName(s string) (ListName, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "favorites", "favourites", "favorite", "fav":
		return Favorites, nil
	case "watchlist", "watch", "later":
		return Watchlist, nil
	default:
		return "", fmt.Errorf("unknown list %q", s)
	}
}

// ListEntry is a movie saved to a personal list, with a snapshot of the canonical record.
type ListEntry struct {
	ID        string    `json:"id"`
	List      ListName  `json:"list"`
	MovieID   string    `json:"movie_id"`
	Title     string    `json:"title"`
	PosterURL *string   `json:"poster_url"`
	Year      int       `json:"year"`
	Rating    float64   `json:"rating"`
	AddedAt   time.Time `json:"added_at"`
	Movie     Movie     `json:"movie"`
}

// NewListEntry snapshots m for list.
func NewListEntry(id string, list ListName, m Movie, addedAt time.Time) ListEntry {
	return ListEntry{
		ID:        id,
		List:      list,
		MovieID:   m.ID.String(),
		Title:     m.Title,
		PosterURL: m.PosterURL,
		Year:      m.Year,
		Rating:    m.VoteAverage,
		AddedAt:   addedAt,
		Movie:     m,
	}
}

func (e ListEntry) GetID() string        { return e.ID }
func (e ListEntry) CreatedAt() time.Time { return e.AddedAt }

func (e ListEntry) Validate() error {
	switch {
	case e.ID == "":
		return fmt.Errorf("list entry: id is required")
	case e.List != Favorites && e.List != Watchlist:
		return fmt.Errorf("list entry: unknown list %q", e.List)
	case e.MovieID == "" || e.MovieID == "0":
		return fmt.Errorf("list entry: movie id is required")
	case e.Title == "":
		return fmt.Errorf("list entry: title is required")
	}
	return nil
}

// ListSort orders list entries.
type ListSort string

const (
	ListSortAdded  ListSort = "added"
	ListSortTitle  ListSort = "title"
	ListSortYear   ListSort = "year"
	ListSortRating ListSort = "rating"
)

// ParseListSort maps user input to a [ListSort], defaulting to most recently added first.
func ParseListSort(s string) ListSort {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "title":
		return ListSortTitle
	case "year", "release_date":
		return ListSortYear
	case "rating":
		return ListSortRating
	default:
		return ListSortAdded
	}
}

// ListQuery selects and orders entries of one list. Zero Year and MinRating disable those filters.
type ListQuery struct {
	List      ListName
	SortBy    ListSort
	Year      int
	MinRating float64
}
