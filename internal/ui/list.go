package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/movieplex/internal/models"
	"github.com/desertthunder/movieplex/internal/services"
)

var (
	_ list.Item = sectionItem{}
	_ list.Item = moodItem{}
	_ list.Item = movieItem{}
)

// sectionItem wraps a loaded homepage section to implement [list.Item].
type sectionItem struct {
	name string
	page models.Page
	err  error
}

func (i sectionItem) FilterValue() string { return i.name }
func (i sectionItem) Title() string       { return i.name }
func (i sectionItem) Description() string {
	if i.err != nil {
		return "failed to load: " + i.err.Error()
	}
	desc := fmt.Sprintf("%d movies", len(i.page.Results))
	if i.page.Fallback() {
		desc += " • offline catalog"
	}
	return desc
}

// moodItem is a mood entry on the home screen.
type moodItem struct {
	mood string
}

func (i moodItem) FilterValue() string { return i.mood }
func (i moodItem) Title() string       { return "Mood: " + i.mood }
func (i moodItem) Description() string {
	ids := services.MoodGenres(i.mood)
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if n, ok := services.GenreName(id); ok {
			names = append(names, n)
		}
	}
	return strings.Join(names, ", ")
}

// movieItem wraps [models.Movie] to implement [list.Item].
type movieItem struct {
	movie models.Movie
}

func (i movieItem) FilterValue() string { return i.movie.Title }
func (i movieItem) Title() string       { return i.movie.Title }
func (i movieItem) Description() string {
	parts := []string{i.movie.DisplayYear(), fmt.Sprintf("★ %.1f", i.movie.VoteAverage)}
	if len(i.movie.Genres) > 0 {
		parts = append(parts, strings.Join(i.movie.Genres, ", "))
	}
	return strings.Join(parts, " • ")
}

func movieItems(movies []models.Movie) []list.Item {
	items := make([]list.Item, len(movies))
	for i, m := range movies {
		items[i] = movieItem{movie: m}
	}
	return items
}
