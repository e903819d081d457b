package services

import (
	"encoding/json"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/desertthunder/movieplex/internal/models"
	"github.com/desertthunder/movieplex/internal/shared"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer("https://img.test/t/p", shared.NewLogger(io.Discard))
}

func TestNormalizeSummary(t *testing.T) {
	n := newTestNormalizer()

	t.Run("live record", func(t *testing.T) {
		m := n.NormalizeSummary(models.LiveRecord{
			ID:               155,
			Title:            "The Dark Knight",
			Overview:         "Batman raises the stakes.",
			PosterPath:       "/qJ2tW6WMUDux911r6m7haRef0WH.jpg",
			BackdropPath:     "/hqkIcbrOHL86UncnHIsHVcVmzue.jpg",
			ReleaseDate:      "2008-07-16",
			VoteAverage:      8.5,
			VoteCount:        32000,
			Popularity:       120.5,
			GenreIDs:         []int{18, 28, 80},
			OriginalLanguage: "en",
		})

		if id, ok := m.ID.Int(); !ok || id != 155 {
			t.Errorf("expected numeric id 155, got %v", m.ID)
		}
		if m.PosterURL == nil || *m.PosterURL != "https://img.test/t/p/w500/qJ2tW6WMUDux911r6m7haRef0WH.jpg" {
			t.Errorf("unexpected poster url %v", m.PosterURL)
		}
		if m.BackdropURL == nil || !strings.Contains(*m.BackdropURL, "/w1280/") {
			t.Errorf("unexpected backdrop url %v", m.BackdropURL)
		}
		if m.Year != 2008 {
			t.Errorf("expected year 2008, got %d", m.Year)
		}
		if want := []string{"Drama", "Action", "Crime"}; !reflect.DeepEqual(m.Genres, want) {
			t.Errorf("expected genres %v, got %v", want, m.Genres)
		}
		if m.OriginalTitle != "The Dark Knight" {
			t.Errorf("original title should default to title, got %q", m.OriginalTitle)
		}
		if m.Source != models.SourceLive {
			t.Errorf("expected live source, got %q", m.Source)
		}
		if err := m.Validate(); err != nil {
			t.Errorf("normalized movie is invalid: %v", err)
		}
	})

	t.Run("empty live record takes defaults", func(t *testing.T) {
		m := n.NormalizeSummary(models.LiveRecord{})
		if m.Title != models.DefaultTitle {
			t.Errorf("expected %q, got %q", models.DefaultTitle, m.Title)
		}
		if m.Overview != models.DefaultOverview {
			t.Errorf("expected default overview, got %q", m.Overview)
		}
		if m.OriginalLanguage != models.DefaultLanguage {
			t.Errorf("expected default language, got %q", m.OriginalLanguage)
		}
		if m.PosterURL != nil || m.ReleaseDate != nil {
			t.Error("missing poster and date should be nil")
		}
		if err := m.Validate(); err != nil {
			t.Errorf("normalized movie is invalid: %v", err)
		}
	})

	t.Run("out of range rating is clamped", func(t *testing.T) {
		if m := n.NormalizeSummary(models.LiveRecord{VoteAverage: 14}); m.VoteAverage != 10 {
			t.Errorf("expected 10, got %v", m.VoteAverage)
		}
		if m := n.NormalizeSummary(models.LiveRecord{VoteAverage: -3}); m.VoteAverage != 0 {
			t.Errorf("expected 0, got %v", m.VoteAverage)
		}
	})

	t.Run("absolute image urls are kept", func(t *testing.T) {
		m := n.NormalizeSummary(models.LiveRecord{PosterPath: "https://cdn.test/poster.jpg"})
		if m.PosterURL == nil || *m.PosterURL != "https://cdn.test/poster.jpg" {
			t.Errorf("unexpected poster url %v", m.PosterURL)
		}
	})

	t.Run("malformed release date is dropped", func(t *testing.T) {
		m := n.NormalizeSummary(models.LiveRecord{ReleaseDate: "July 2008"})
		if m.ReleaseDate != nil {
			t.Errorf("expected nil release date, got %q", *m.ReleaseDate)
		}
		if m.Year != 0 {
			t.Errorf("expected no year, got %d", m.Year)
		}
	})

	t.Run("nil record", func(t *testing.T) {
		m := n.NormalizeSummary(nil)
		if err := m.Validate(); err != nil {
			t.Errorf("normalized movie is invalid: %v", err)
		}
	})
}

func TestNormalizeLegacy(t *testing.T) {
	n := newTestNormalizer()

	rec := models.LegacyRecord{
		Title:      "The Shawshank Redemption",
		Year:       "1994",
		ImdbID:     "tt0111161",
		Poster:     "https://m.media-amazon.com/images/M/shawshank.jpg",
		Plot:       "Two imprisoned men bond over a number of years.",
		Director:   "Frank Darabont",
		Writer:     "Stephen King, Frank Darabont",
		Actors:     "Tim Robbins, Morgan Freeman, Bob Gunton",
		Genre:      "Drama",
		ImdbRating: "9.3",
		ImdbVotes:  "2,500,000",
		Released:   "14 Oct 1994",
		Runtime:    "142 min",
		Language:   "English, French",
	}

	t.Run("summary", func(t *testing.T) {
		m := n.NormalizeSummary(rec)

		if m.ID.String() != "tt0111161" {
			t.Errorf("expected imdb id, got %q", m.ID)
		}
		if _, numeric := m.ID.Int(); numeric {
			t.Error("imdb id should not be numeric")
		}
		if m.ReleaseDate == nil || *m.ReleaseDate != "1994-10-14" {
			t.Errorf("expected ISO release date, got %v", m.ReleaseDate)
		}
		if m.Year != 1994 || m.RuntimeMinutes != 142 {
			t.Errorf("unexpected year %d or runtime %d", m.Year, m.RuntimeMinutes)
		}
		if m.VoteAverage != 9.3 || m.VoteCount != 2500000 {
			t.Errorf("unexpected rating %v or votes %d", m.VoteAverage, m.VoteCount)
		}
		if m.OriginalLanguage != "en" {
			t.Errorf("expected en, got %q", m.OriginalLanguage)
		}
		if m.Director != "Frank Darabont" {
			t.Errorf("expected director, got %q", m.Director)
		}
		if len(m.Actors) != 3 || m.Actors[1] != "Morgan Freeman" {
			t.Errorf("unexpected actors %v", m.Actors)
		}
		if !reflect.DeepEqual(m.GenreIDs, []int{18}) {
			t.Errorf("expected drama id, got %v", m.GenreIDs)
		}
		if m.PosterURL == nil || *m.PosterURL != rec.Poster {
			t.Errorf("absolute poster should be kept, got %v", m.PosterURL)
		}
		if m.Source != models.SourceFallback {
			t.Errorf("expected fallback source, got %q", m.Source)
		}
	})

	t.Run("N/A values", func(t *testing.T) {
		m := n.NormalizeSummary(models.LegacyRecord{
			Title:      "Obscure",
			Year:       "N/A",
			Poster:     "N/A",
			Plot:       "N/A",
			Director:   "N/A",
			ImdbRating: "N/A",
			Released:   "N/A",
			Runtime:    "N/A",
		})
		if m.PosterURL != nil || m.ReleaseDate != nil {
			t.Error("N/A poster and date should be nil")
		}
		if m.Overview != models.DefaultOverview {
			t.Errorf("expected default overview, got %q", m.Overview)
		}
		if m.Director != models.UnknownPerson {
			t.Errorf("expected %q, got %q", models.UnknownPerson, m.Director)
		}
		if m.VoteAverage != 0 || m.Year != 0 || m.RuntimeMinutes != 0 {
			t.Errorf("expected zero values, got %v %d %d", m.VoteAverage, m.Year, m.RuntimeMinutes)
		}
	})

	t.Run("year range keeps first year", func(t *testing.T) {
		m := n.NormalizeSummary(models.LegacyRecord{Title: "Series", Year: "2005–2008"})
		if m.Year != 2005 {
			t.Errorf("expected 2005, got %d", m.Year)
		}
	})

	t.Run("detail builds cast from actors", func(t *testing.T) {
		m := n.NormalizeDetail(rec)
		if len(m.Cast) != 3 || m.Cast[0].Name != "Tim Robbins" || m.Cast[2].Order != 2 {
			t.Errorf("unexpected cast %+v", m.Cast)
		}
	})
}

func TestNormalizeDetail(t *testing.T) {
	n := newTestNormalizer()
	rating := 8.0

	cast := make([]models.LiveCast, 25)
	for i := range cast {
		cast[i] = models.LiveCast{ID: i, Name: "Actor " + string(rune('A'+i)), Order: len(cast) - 1 - i}
	}

	rec := models.LiveRecord{
		ID:    27205,
		Title: "Inception",
		Credits: &models.LiveCredits{
			Cast: cast,
			Crew: []models.LiveCrew{
				{ID: 1, Name: "Emma Thomas", Job: "Producer"},
				{ID: 2, Name: "Christopher Nolan", Job: "Director"},
				{ID: 3, Name: "Christopher Nolan", Job: "Screenplay"},
				{ID: 4, Name: "Wally Pfister", Job: "Director of Photography"},
				{ID: 5, Name: "Hans Zimmer", Job: "Original Music Composer"},
				{ID: 6, Name: "Someone", Job: "Assistant Director"},
			},
		},
		Videos: &models.LiveResults[models.LiveVideo]{Results: []models.LiveVideo{
			{Key: "v1", Site: "Vimeo", Type: "Trailer"},
			{Key: "v2", Site: "YouTube", Type: "Featurette"},
			{Key: "v3", Site: "YouTube", Type: "Trailer", Official: true},
			{Key: "v4", Site: "YouTube", Type: "Teaser"},
			{Key: "v5", Site: "YouTube", Type: "Clip"},
			{Key: "v6", Site: "YouTube", Type: "Trailer"},
			{Key: "v7", Site: "YouTube", Type: "Trailer"},
			{Key: "v8", Site: "YouTube", Type: "Trailer"},
		}},
		Reviews: &models.LiveResults[models.LiveReview]{Results: []models.LiveReview{
			{ID: "r1", Author: "critic", Content: "<p>A <em>dream</em> within a dream &amp; more.</p>", AuthorDetails: models.LiveAuthorDetails{Rating: &rating}},
			{ID: "r2", Content: strings.Repeat("x", 600)},
			{ID: "r3", Author: "c", Content: "fine"},
			{ID: "r4", Author: "d", Content: "dropped"},
		}},
		Similar: &models.LiveResults[models.LiveRecord]{Results: make([]models.LiveRecord, 9)},
		Keywords: &models.LiveKeywords{Keywords: []models.LiveKeyword{
			{ID: 1, Name: "dream"}, {ID: 2, Name: "heist"},
		}},
		Images: &models.LiveImages{
			Backdrops: []models.LiveImage{{FilePath: "/b1.jpg"}, {FilePath: ""}},
			Posters:   []models.LiveImage{{FilePath: "/p1.jpg"}},
		},
		WatchProviders: &models.LiveWatchProviders{Results: map[string]models.LiveRegionProviders{
			"US": {
				Link:     "https://www.themoviedb.org/movie/27205/watch",
				Flatrate: []models.LiveProvider{{ProviderID: 8, ProviderName: "Netflix", LogoPath: "/netflix.jpg"}},
			},
		}},
	}

	m := n.NormalizeDetail(rec)

	t.Run("crew roles", func(t *testing.T) {
		if m.Director != "Christopher Nolan" {
			t.Errorf("expected director, got %q", m.Director)
		}
		if m.Writer != "Christopher Nolan" {
			t.Errorf("screenplay credit should count as writer, got %q", m.Writer)
		}
		if m.Producer != "Emma Thomas" || m.Cinematographer != "Wally Pfister" || m.Composer != "Hans Zimmer" {
			t.Errorf("unexpected roles %q %q %q", m.Producer, m.Cinematographer, m.Composer)
		}
		if len(m.Crew) != 6 {
			t.Errorf("expected full crew, got %d", len(m.Crew))
		}
	})

	t.Run("cast is ordered and capped", func(t *testing.T) {
		if len(m.Cast) != maxCast {
			t.Fatalf("expected %d cast members, got %d", maxCast, len(m.Cast))
		}
		for i := 1; i < len(m.Cast); i++ {
			if m.Cast[i].Order < m.Cast[i-1].Order {
				t.Fatalf("cast not sorted by order at %d", i)
			}
		}
		if len(m.Actors) != maxCast || m.Actors[0] != m.Cast[0].Name {
			t.Errorf("actors should follow cast order, got %v", m.Actors[:1])
		}
	})

	t.Run("videos are filtered and capped", func(t *testing.T) {
		if len(m.Videos) != maxVideos {
			t.Fatalf("expected %d videos, got %d", maxVideos, len(m.Videos))
		}
		for _, v := range m.Videos {
			if v.Site != "YouTube" || v.Type == "Featurette" {
				t.Errorf("unexpected video %+v", v)
			}
		}
		if m.Videos[0].Key != "v3" {
			t.Errorf("expected v3 first, got %q", m.Videos[0].Key)
		}
	})

	t.Run("reviews", func(t *testing.T) {
		if len(m.Reviews) != maxReviews {
			t.Fatalf("expected %d reviews, got %d", maxReviews, len(m.Reviews))
		}
		if got := m.Reviews[0].Content; got != "A dream within a dream & more." {
			t.Errorf("markup should be stripped, got %q", got)
		}
		if m.Reviews[0].Rating == nil || *m.Reviews[0].Rating != 8 {
			t.Error("expected rating to carry over")
		}
		if m.Reviews[1].Author != models.UnknownPerson {
			t.Errorf("expected unknown author, got %q", m.Reviews[1].Author)
		}
		if got := []rune(m.Reviews[1].Content); len(got) != maxReviewRunes+3 || !strings.HasSuffix(string(got), "...") {
			t.Errorf("expected truncated review, got %d runes", len(got))
		}
	})

	t.Run("related, keywords and images", func(t *testing.T) {
		if len(m.Similar) != maxRelated {
			t.Errorf("expected %d similar, got %d", maxRelated, len(m.Similar))
		}
		for _, s := range m.Similar {
			if s.Title != models.DefaultTitle {
				t.Errorf("similar entries should be normalized, got %q", s.Title)
			}
		}
		if len(m.Recommendations) != 0 || m.Recommendations == nil {
			t.Error("missing recommendations should be an empty slice")
		}
		if len(m.Keywords) != 2 {
			t.Errorf("expected 2 keywords, got %d", len(m.Keywords))
		}
		if !reflect.DeepEqual(m.Images.Backdrops, []string{"https://img.test/t/p/w1280/b1.jpg"}) {
			t.Errorf("unexpected backdrops %v", m.Images.Backdrops)
		}
	})

	t.Run("watch providers", func(t *testing.T) {
		us, ok := m.WatchProviders["US"]
		if !ok {
			t.Fatal("expected US providers")
		}
		if len(us.Stream) != 1 || us.Stream[0].Name != "Netflix" {
			t.Errorf("flatrate should map to stream, got %+v", us.Stream)
		}
		if us.Rent == nil || us.Buy == nil {
			t.Error("missing rent and buy should be empty slices")
		}
		if us.Stream[0].LogoURL == nil || *us.Stream[0].LogoURL != "https://img.test/t/p/w92/netflix.jpg" {
			t.Errorf("unexpected logo url %v", us.Stream[0].LogoURL)
		}
	})

	t.Run("no credits means unknown roles", func(t *testing.T) {
		m := n.NormalizeDetail(models.LiveRecord{ID: 1, Title: "Bare"})
		if m.Director != models.UnknownPerson || len(m.Cast) != 0 || m.Cast == nil {
			t.Errorf("unexpected director %q or cast %v", m.Director, m.Cast)
		}
	})

	if err := m.Validate(); err != nil {
		t.Errorf("normalized detail is invalid: %v", err)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := newTestNormalizer()

	records := map[string]models.RawRecord{
		"live":    models.LiveRecord{ID: 603, Title: "The Matrix", ReleaseDate: "1999-03-30", GenreIDs: []int{28, 878}, VoteAverage: 8.2},
		"legacy":  defaultCatalog[0],
		"empty":   models.LiveRecord{},
		"partial": models.LegacyRecord{Title: "N/A", Year: "N/A"},
	}

	for name, r := range records {
		t.Run(name, func(t *testing.T) {
			once := n.NormalizeSummary(r)
			twice := n.NormalizeSummary(once.AsRecord())
			if !reflect.DeepEqual(once, twice) {
				t.Errorf("normalization is not idempotent:\n%+v\n%+v", once, twice)
			}
		})
	}

	t.Run("detail", func(t *testing.T) {
		once := n.NormalizeDetail(models.LiveRecord{
			ID:      1,
			Credits: &models.LiveCredits{Crew: []models.LiveCrew{{Name: "A", Job: "Director"}}},
			Similar: &models.LiveResults[models.LiveRecord]{Results: []models.LiveRecord{{ID: 2}}},
		})
		twice := n.NormalizeDetail(once.AsRecord())
		if !reflect.DeepEqual(once, twice) {
			t.Error("detail normalization is not idempotent")
		}
	})
}

func TestNormalizePage(t *testing.T) {
	n := newTestNormalizer()

	t.Run("malformed record does not drop the page", func(t *testing.T) {
		var env models.LiveResults[json.RawMessage]
		body := `{"page":2,"total_pages":9,"total_results":170,"results":[{"id":1,"title":"A"},{"id":"x","title":7},[1,2]]}`
		if err := json.Unmarshal([]byte(body), &env); err != nil {
			t.Fatal(err)
		}

		p := n.NormalizePage(env, 2)
		if len(p.Results) != 3 {
			t.Fatalf("expected 3 results, got %d", len(p.Results))
		}
		if p.Results[0].Title != "A" {
			t.Errorf("expected first title A, got %q", p.Results[0].Title)
		}
		for _, m := range p.Results {
			if err := m.Validate(); err != nil {
				t.Errorf("invalid result: %v", err)
			}
		}
		if p.Page != 2 || p.TotalPages != 9 || p.TotalResults != 170 {
			t.Errorf("unexpected pagination %d/%d/%d", p.Page, p.TotalPages, p.TotalResults)
		}
	})

	t.Run("missing pagination", func(t *testing.T) {
		env := models.LiveResults[json.RawMessage]{Results: []json.RawMessage{json.RawMessage(`{"id":5}`)}}
		p := n.NormalizePage(env, 3)
		if p.Page != 3 || p.TotalPages != 1 || p.TotalResults != 1 {
			t.Errorf("unexpected pagination %d/%d/%d", p.Page, p.TotalPages, p.TotalResults)
		}
		if p.Source != models.SourceLive {
			t.Errorf("expected live source, got %q", p.Source)
		}
	})
}

func TestReviewText(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"plain", "  Great film.  ", "Great film."},
		{"markup", "<b>Great</b> film", "Great film"},
		{"entities", "Tom &amp; Jerry", "Tom & Jerry"},
		{"unicode", "Très <i>bien</i>", "Très bien"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reviewText(tt.in); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}

	t.Run("truncates on runes", func(t *testing.T) {
		got := reviewText(strings.Repeat("é", 700))
		if n := len([]rune(got)); n != maxReviewRunes+3 {
			t.Errorf("expected %d runes, got %d", maxReviewRunes+3, n)
		}
	})
}

func TestLegacyHelpers(t *testing.T) {
	t.Run("leadingInt", func(t *testing.T) {
		for in, want := range map[string]int{"142 min": 142, "2005–2008": 2005, "": 0, "N/A": 0, "abc": 0} {
			if got := leadingInt(in); got != want {
				t.Errorf("leadingInt(%q) = %d, want %d", in, got, want)
			}
		}
	})

	t.Run("languageCode", func(t *testing.T) {
		for in, want := range map[string]string{"English": "en", "Japanese, English": "ja", "Klingon": "", "N/A": ""} {
			if got := languageCode(in); got != want {
				t.Errorf("languageCode(%q) = %q, want %q", in, got, want)
			}
		}
	})

	t.Run("splitList", func(t *testing.T) {
		if got := splitList("A, B,, C "); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
			t.Errorf("unexpected list %v", got)
		}
		if got := splitList("N/A"); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})
}
