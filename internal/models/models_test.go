package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestMovieID(t *testing.T) {
	t.Run("ParseMovieID", func(t *testing.T) {
		tc := []struct {
			in      string
			numeric bool
			want    string
		}{
			{in: "550", numeric: true, want: "550"},
			{in: " 27205 ", numeric: true, want: "27205"},
			{in: "tt0111161", numeric: false, want: "tt0111161"},
			{in: "-4", numeric: false, want: "-4"},
		}

		for _, tt := range tc {
			t.Run(tt.in, func(t *testing.T) {
				id := ParseMovieID(tt.in)
				if _, ok := id.Int(); ok != tt.numeric {
					t.Errorf("Int() ok = %v, want %v", ok, tt.numeric)
				}
				if id.String() != tt.want {
					t.Errorf("String() = %q, want %q", id.String(), tt.want)
				}
			})
		}
	})

	t.Run("JSON", func(t *testing.T) {
		numeric, _ := json.Marshal(IntID(550))
		external, _ := json.Marshal(ExternalID("tt0111161"))

		if string(numeric) != "550" {
			t.Errorf("expected 550, got %s", numeric)
		}
		if string(external) != `"tt0111161"` {
			t.Errorf("expected quoted id, got %s", external)
		}

		var id MovieID
		if err := json.Unmarshal([]byte(`"tt0068646"`), &id); err != nil || id != ExternalID("tt0068646") {
			t.Errorf("unexpected decode %v %v", id, err)
		}
		if err := json.Unmarshal([]byte(`238`), &id); err != nil || id != IntID(238) {
			t.Errorf("unexpected decode %v %v", id, err)
		}
		if err := json.Unmarshal([]byte(`null`), &id); err != nil || !id.IsZero() {
			t.Errorf("null should decode to the zero id, got %v %v", id, err)
		}
	})
}

func TestMovieClone(t *testing.T) {
	rating := 8.0
	m := Movie{
		PosterURL:      StringPtr("https://image.tmdb.org/t/p/w500/a.jpg"),
		Genres:         []string{"Drama"},
		Reviews:        []Review{{ID: "1", Rating: &rating}},
		Similar:        []Movie{{Title: "Other", Genres: []string{"Crime"}}},
		WatchProviders: map[string]RegionProviders{"US": {Stream: []Provider{{ID: 8, Name: "Netflix"}}}},
	}

	c := m.Clone()
	*c.PosterURL = "changed"
	c.Genres[0] = "Comedy"
	*c.Reviews[0].Rating = 1
	c.Similar[0].Genres[0] = "Horror"
	c.WatchProviders["US"].Stream[0].Name = "Other"

	if *m.PosterURL == "changed" || m.Genres[0] != "Drama" || *m.Reviews[0].Rating != 8 {
		t.Error("clone shares memory with the original")
	}
	if m.Similar[0].Genres[0] != "Crime" {
		t.Error("nested similar movies share memory")
	}
	if m.WatchProviders["US"].Stream[0].Name != "Netflix" {
		t.Error("watch providers share memory")
	}
}

func TestMovieHelpers(t *testing.T) {
	m := Movie{Genres: []string{"Science Fiction", "Action"}}

	if !m.HasGenre("fiction") {
		t.Error("HasGenre should match substrings")
	}
	if m.HasGenre("horror") {
		t.Error("HasGenre should not match absent genres")
	}
	if m.PrimaryGenre() != "Science Fiction" {
		t.Errorf("unexpected primary genre %q", m.PrimaryGenre())
	}
	if m.DisplayYear() != "N/A" {
		t.Errorf("expected N/A for missing year, got %q", m.DisplayYear())
	}

	v := Video{Site: "YouTube", Key: "EXeTwQWrcwY"}
	if v.YouTubeURL() != "https://www.youtube.com/watch?v=EXeTwQWrcwY" {
		t.Errorf("unexpected url %q", v.YouTubeURL())
	}
	if (Video{Site: "Vimeo", Key: "1"}).YouTubeURL() != "" {
		t.Error("non-YouTube videos have no YouTube URL")
	}
}

func TestDecodeRecord(t *testing.T) {
	t.Run("legacy", func(t *testing.T) {
		r, err := DecodeRecord([]byte(`{"Title":"The Matrix","Year":"1999","imdbID":"tt0133093","imdbRating":"8.7"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		legacy, ok := r.(LegacyRecord)
		if !ok {
			t.Fatalf("expected LegacyRecord, got %T", r)
		}
		if legacy.ImdbRating != "8.7" || r.Kind() != KindLegacy {
			t.Errorf("unexpected record %+v", legacy)
		}
	})

	t.Run("live", func(t *testing.T) {
		r, err := DecodeRecord([]byte(`{"id":155,"title":"The Dark Knight","genre_ids":[28,80],"vote_average":8.5}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		live, ok := r.(LiveRecord)
		if !ok {
			t.Fatalf("expected LiveRecord, got %T", r)
		}
		if live.ID != 155 || len(live.GenreIDs) != 2 {
			t.Errorf("unexpected record %+v", live)
		}
	})

	t.Run("appended resources", func(t *testing.T) {
		body := `{"id":27205,"title":"Inception","watch/providers":{"results":{"US":{"flatrate":[{"provider_id":8,"provider_name":"Netflix"}]}}},"credits":{"crew":[{"job":"Director","name":"Christopher Nolan"}]}}`
		r, err := DecodeRecord([]byte(body))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		live := r.(LiveRecord)
		if live.WatchProviders == nil || live.WatchProviders.Results["US"].Flatrate[0].ProviderName != "Netflix" {
			t.Errorf("watch providers not decoded: %+v", live.WatchProviders)
		}
		if live.Credits == nil || live.Credits.Crew[0].Name != "Christopher Nolan" {
			t.Errorf("credits not decoded: %+v", live.Credits)
		}
	})

	t.Run("canonical", func(t *testing.T) {
		data, _ := json.Marshal(Movie{ID: IntID(1), Title: "X", Source: SourceLive})
		r, err := DecodeRecord(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Kind() != KindCanonical {
			t.Errorf("expected canonical, got %v", r.Kind())
		}
	})

	t.Run("best effort on type mismatch", func(t *testing.T) {
		r, err := DecodeRecord([]byte(`{"id":7,"title":"Se7en","vote_average":"high"}`))
		if err == nil {
			t.Fatal("expected a decode error")
		}
		live, ok := r.(LiveRecord)
		if !ok || live.Title != "Se7en" || live.ID != 7 {
			t.Errorf("expected partial record, got %+v", r)
		}
	})

	t.Run("not an object", func(t *testing.T) {
		r, err := DecodeRecord([]byte(`[1,2]`))
		if err == nil || r == nil {
			t.Errorf("expected error and non-nil record, got %v %v", r, err)
		}
		if !errors.Is(err, ErrNotObject) {
			t.Errorf("expected ErrNotObject, got %v", err)
		}
	})
}

func TestFilterSpec(t *testing.T) {
	t.Run("ParseSortBy", func(t *testing.T) {
		tc := map[string]SortBy{
			"rating":       SortRating,
			"YEAR":         SortReleaseDate,
			"release_date": SortReleaseDate,
			"title":        SortTitle,
			"":             SortPopularity,
			"hype":         SortPopularity,
		}
		for in, want := range tc {
			if got := ParseSortBy(in); got != want {
				t.Errorf("ParseSortBy(%q) = %v, want %v", in, got, want)
			}
		}
	})

	t.Run("ParseFilterSpec", func(t *testing.T) {
		f, err := ParseFilterSpec("Action", "2008", "8", "rating")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.Genre != "Action" || f.Year != "2008" || f.MinRating == nil || *f.MinRating != 8 || f.SortBy != SortRating {
			t.Errorf("unexpected spec %+v", f)
		}
		if y, ok := f.YearInt(); !ok || y != 2008 {
			t.Errorf("YearInt() = %d %v", y, ok)
		}

		if _, err := ParseFilterSpec("", "twenty", "", ""); err == nil {
			t.Error("expected error for bad year")
		}
		if _, err := ParseFilterSpec("", "", "11", ""); err == nil {
			t.Error("expected error for rating above 10")
		}
	})

	t.Run("zero value", func(t *testing.T) {
		var f FilterSpec
		if f.Sort() != SortPopularity {
			t.Errorf("zero spec should sort by popularity, got %v", f.Sort())
		}
		if _, ok := f.YearInt(); ok {
			t.Error("zero spec has no year")
		}
		if f.Normalized().SortBy != SortPopularity {
			t.Error("Normalized should make the sort explicit")
		}
	})
}

func TestListEntry(t *testing.T) {
	t.Run("ParseListName", func(t *testing.T) {
		if l, err := ParseListName("Favorites"); err != nil || l != Favorites {
			t.Errorf("unexpected %v %v", l, err)
		}
		if l, err := ParseListName("watchlist"); err != nil || l != Watchlist {
			t.Errorf("unexpected %v %v", l, err)
		}
		if _, err := ParseListName("wishlist"); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("NewListEntry", func(t *testing.T) {
		m := Movie{ID: IntID(550), Title: "Fight Club", Year: 1999, VoteAverage: 8.4}
		e := NewListEntry("id-1", Favorites, m, time.Unix(0, 0))

		if e.MovieID != "550" || e.Title != "Fight Club" || e.Rating != 8.4 {
			t.Errorf("unexpected entry %+v", e)
		}
		if err := e.Validate(); err != nil {
			t.Errorf("unexpected validation error: %v", err)
		}

		e.Title = ""
		if err := e.Validate(); err == nil {
			t.Error("expected validation error for empty title")
		}
	})

	t.Run("ParseListSort", func(t *testing.T) {
		if ParseListSort("") != ListSortAdded || ParseListSort("rating") != ListSortRating {
			t.Error("unexpected list sort parse")
		}
	})
}
