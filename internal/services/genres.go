package services

import (
	"slices"
	"strings"
)

// TMDB movie genre ids.
var genreIDs = map[string]int{
	"action":          28,
	"adventure":       12,
	"animation":       16,
	"comedy":          35,
	"crime":           80,
	"documentary":     99,
	"drama":           18,
	"family":          10751,
	"fantasy":         14,
	"history":         36,
	"horror":          27,
	"music":           10402,
	"mystery":         9648,
	"romance":         10749,
	"science fiction": 878,
	"sci-fi":          878,
	"tv movie":        10770,
	"thriller":        53,
	"war":             10752,
	"western":         37,
}

var genreNames = map[int]string{
	28:    "Action",
	12:    "Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	14:    "Fantasy",
	36:    "History",
	27:    "Horror",
	10402: "Music",
	9648:  "Mystery",
	10749: "Romance",
	878:   "Science Fiction",
	10770: "TV Movie",
	53:    "Thriller",
	10752: "War",
	37:    "Western",
}

// GenreID looks up a genre name, case-insensitively.
func GenreID(name string) (int, bool) {
	id, ok := genreIDs[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// GenreName returns the display name for a genre id.
func GenreName(id int) (string, bool) {
	name, ok := genreNames[id]
	return name, ok
}

// Genres returns the display names of every known genre, sorted.
func Genres() []string {
	names := make([]string, 0, len(genreNames))
	for _, n := range genreNames {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

var moodGenres = map[string][]int{
	"happy":       {35, 10751},
	"sad":         {18},
	"excited":     {28, 12},
	"romantic":    {10749},
	"scared":      {27},
	"adventurous": {12, 878},
	"nostalgic":   {36},
	"funny":       {35},
	"dramatic":    {18},
	"thrilling":   {53, 9648},
}

// MoodGenres maps a mood to genre ids. Unknown moods map to action.
func MoodGenres(mood string) []int {
	if ids, ok := moodGenres[strings.ToLower(strings.TrimSpace(mood))]; ok {
		return slices.Clone(ids)
	}
	return []int{28}
}

// Moods lists the known moods, sorted.
func Moods() []string {
	moods := make([]string, 0, len(moodGenres))
	for m := range moodGenres {
		moods = append(moods, m)
	}
	slices.Sort(moods)
	return moods
}
