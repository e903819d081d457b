package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/movieplex/internal/models"
	"github.com/desertthunder/movieplex/internal/repositories"
	"github.com/desertthunder/movieplex/internal/services"
	"github.com/desertthunder/movieplex/internal/shared"
)

// stubCall records the arguments of the last read.
type stubCall struct {
	page   int
	query  string
	filter models.FilterSpec
	mood   string
}

// stubMovies serves fixed pages and records the arguments of the last read.
type stubMovies struct {
	page    models.Page
	panicOn string

	mu   sync.Mutex
	call stubCall
}

func (m *stubMovies) read(op string, page int) models.Page {
	if op == m.panicOn {
		panic("boom")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.call.page = page
	return m.page
}

func (m *stubMovies) last() stubCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.call
}

func (m *stubMovies) Popular(_ context.Context, page int) models.Page  { return m.read("popular", page) }
func (m *stubMovies) Trending(_ context.Context, page int) models.Page { return m.read("trending", page) }
func (m *stubMovies) TopRated(_ context.Context, page int) models.Page { return m.read("top_rated", page) }

func (m *stubMovies) Search(_ context.Context, q string, page int, f models.FilterSpec) models.Page {
	m.mu.Lock()
	m.call.query, m.call.filter = q, f
	m.mu.Unlock()
	return m.read("search", page)
}

func (m *stubMovies) Detail(_ context.Context, id models.MovieID, _ bool) (models.Movie, error) {
	if id.IsZero() {
		return models.Movie{}, shared.ErrInvalidInput
	}
	return models.Movie{ID: id, Title: "Movie " + id.String(), Genres: []string{}, Source: models.SourceLive}, nil
}

func (m *stubMovies) ByMood(_ context.Context, mood string, page int) models.Page {
	m.mu.Lock()
	m.call.mood = mood
	m.mu.Unlock()
	return m.read("mood", page)
}

func (m *stubMovies) Status(context.Context) models.Status {
	return models.Status{Configured: true, Mode: models.SourceLive, CacheBackend: "memory"}
}

type stubTrailers struct {
	trailer services.Trailer
	found   bool
	err     error
}

func (s stubTrailers) Trailer(context.Context, models.MovieID) (services.Trailer, bool, error) {
	return s.trailer, s.found, s.err
}

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}
	ts := httptest.NewServer(New(opts).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func newTestLists(t *testing.T) *repositories.ListRepository {
	t.Helper()
	db, err := shared.OpenDatabase(shared.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return repositories.NewListRepository(db)
}

func do(t *testing.T, method, url, body string) (*http.Response, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return resp, string(data)
}

func decode[T any](t *testing.T, body string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		t.Fatalf("failed to decode %q: %v", body, err)
	}
	return v
}

func TestMovieRoutes(t *testing.T) {
	movies := &stubMovies{page: models.Page{
		Results:      []models.Movie{{ID: models.IntID(1), Title: "One", Genres: []string{}}},
		TotalResults: 1,
		TotalPages:   1,
		Page:         1,
		Source:       models.SourceLive,
	}}
	ts := newTestServer(t, Options{Movies: movies})

	t.Run("Pages", func(t *testing.T) {
		for _, path := range []string{"/api/movies/popular", "/api/movies/trending", "/api/movies/top-rated"} {
			resp, body := do(t, http.MethodGet, ts.URL+path+"?page=2", "")
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("%s: expected 200, got %d: %s", path, resp.StatusCode, body)
			}
			if got := resp.Header.Get(SourceHeader); got != "live" {
				t.Errorf("%s: expected live source header, got %q", path, got)
			}
			if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("%s: unexpected content type %q", path, ct)
			}
			if got := movies.last().page; got != 2 {
				t.Errorf("%s: expected page 2, got %d", path, got)
			}
			if p := decode[models.Page](t, body); len(p.Results) != 1 || p.Results[0].Title != "One" {
				t.Errorf("%s: unexpected page %+v", path, p)
			}
		}
	})

	t.Run("DefaultPage", func(t *testing.T) {
		do(t, http.MethodGet, ts.URL+"/api/movies/popular", "")
		if got := movies.last().page; got != 1 {
			t.Errorf("expected page 1, got %d", got)
		}
	})

	t.Run("InvalidPage", func(t *testing.T) {
		for _, v := range []string{"0", "-1", "abc", "501"} {
			resp, body := do(t, http.MethodGet, ts.URL+"/api/movies/popular?page="+v, "")
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("page=%s: expected 400, got %d", v, resp.StatusCode)
			}
			if e := decode[map[string]string](t, body); !strings.Contains(e["error"], "page") {
				t.Errorf("page=%s: unexpected error body %q", v, body)
			}
		}
	})

	t.Run("Search", func(t *testing.T) {
		resp, body := do(t, http.MethodGet, ts.URL+"/api/search?q=batman&genre=action&year=2008&min_rating=8&sort_by=rating", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
		}
		call := movies.last()
		if call.query != "batman" {
			t.Errorf("expected query batman, got %q", call.query)
		}
		f := call.filter
		if f.Genre != "action" || f.Year != "2008" || f.MinRating == nil || *f.MinRating != 8 || f.SortBy != models.SortRating {
			t.Errorf("unexpected filters %+v", f)
		}
	})

	t.Run("SearchInvalidFilter", func(t *testing.T) {
		resp, _ := do(t, http.MethodGet, ts.URL+"/api/search?q=x&min_rating=11", "")
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("Detail", func(t *testing.T) {
		resp, body := do(t, http.MethodGet, ts.URL+"/api/movies/155?extras=false", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
		}
		if m := decode[models.Movie](t, body); m.Title != "Movie 155" {
			t.Errorf("unexpected movie %+v", m)
		}
	})

	t.Run("DetailInvalidExtras", func(t *testing.T) {
		resp, _ := do(t, http.MethodGet, ts.URL+"/api/movies/155?extras=maybe", "")
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("Mood", func(t *testing.T) {
		resp, _ := do(t, http.MethodGet, ts.URL+"/api/moods/cozy?page=3", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if call := movies.last(); call.mood != "cozy" || call.page != 3 {
			t.Errorf("unexpected mood call %+v", call)
		}
	})

	t.Run("Home", func(t *testing.T) {
		resp, body := do(t, http.MethodGet, ts.URL+"/api/home", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		home := decode[map[string]models.Page](t, body)
		for _, k := range []string{"popular", "trending", "top_rated"} {
			if len(home[k].Results) != 1 {
				t.Errorf("expected section %s, got %+v", k, home[k])
			}
		}
	})

	t.Run("HomeSectionPanics", func(t *testing.T) {
		ts := newTestServer(t, Options{Movies: &stubMovies{page: movies.page, panicOn: "popular"}})

		resp, body := do(t, http.MethodGet, ts.URL+"/api/home", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
		}
		if got := resp.Header.Get(SourceHeader); got != "fallback" {
			t.Errorf("expected fallback source header, got %q", got)
		}
		home := decode[map[string]models.Page](t, body)
		if len(home["popular"].Results) != 0 || len(home["trending"].Results) != 1 || len(home["top_rated"].Results) != 1 {
			t.Errorf("expected only the failed section empty, got %+v", home)
		}
	})

	t.Run("Status", func(t *testing.T) {
		resp, body := do(t, http.MethodGet, ts.URL+"/api/status", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if st := decode[models.Status](t, body); !st.Configured || st.CacheBackend != "memory" {
			t.Errorf("unexpected status %+v", st)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		resp, body := do(t, http.MethodGet, ts.URL+"/api/nope", "")
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
		if !strings.Contains(body, `"error"`) {
			t.Errorf("expected a JSON error body, got %q", body)
		}
	})

	t.Run("MethodNotAllowed", func(t *testing.T) {
		resp, _ := do(t, http.MethodPost, ts.URL+"/api/movies/popular", "")
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", resp.StatusCode)
		}
	})
}

func TestTrailerRoute(t *testing.T) {
	movies := &stubMovies{}

	t.Run("Found", func(t *testing.T) {
		ts := newTestServer(t, Options{Movies: movies, Trailers: stubTrailers{
			trailer: services.Trailer{URL: "https://www.youtube.com/watch?v=abc", VideoID: "abc", Source: "tmdb"},
			found:   true,
		}})
		resp, body := do(t, http.MethodGet, ts.URL+"/api/movies/155/trailer", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if tr := decode[services.Trailer](t, body); tr.VideoID != "abc" {
			t.Errorf("unexpected trailer %+v", tr)
		}
	})

	t.Run("Missing", func(t *testing.T) {
		ts := newTestServer(t, Options{Movies: movies, Trailers: stubTrailers{}})
		if resp, _ := do(t, http.MethodGet, ts.URL+"/api/movies/155/trailer", ""); resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})

	t.Run("Error", func(t *testing.T) {
		ts := newTestServer(t, Options{Movies: movies, Trailers: stubTrailers{err: errors.New("kaput")}})
		if resp, _ := do(t, http.MethodGet, ts.URL+"/api/movies/155/trailer", ""); resp.StatusCode != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", resp.StatusCode)
		}
	})

	t.Run("NotConfigured", func(t *testing.T) {
		ts := newTestServer(t, Options{Movies: movies})
		if resp, _ := do(t, http.MethodGet, ts.URL+"/api/movies/155/trailer", ""); resp.StatusCode != http.StatusNotImplemented {
			t.Errorf("expected 501, got %d", resp.StatusCode)
		}
	})
}

func TestListRoutes(t *testing.T) {
	ts := newTestServer(t, Options{Movies: &stubMovies{}, Lists: newTestLists(t)})
	base := ts.URL + "/api/lists/"

	t.Run("Add", func(t *testing.T) {
		resp, body := do(t, http.MethodPost, base+"favorites", `{"movie_id": "155"}`)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", resp.StatusCode, body)
		}
		if e := decode[models.ListEntry](t, body); e.MovieID != "155" || e.Title != "Movie 155" || e.List != models.Favorites {
			t.Errorf("unexpected entry %+v", e)
		}
	})

	t.Run("Duplicate", func(t *testing.T) {
		if resp, _ := do(t, http.MethodPost, base+"favorites", `{"movie_id": "155"}`); resp.StatusCode != http.StatusConflict {
			t.Errorf("expected 409, got %d", resp.StatusCode)
		}
	})

	t.Run("BadBody", func(t *testing.T) {
		for _, body := range []string{`not json`, `{"movie_id": ""}`, `{"id": 1}`} {
			if resp, _ := do(t, http.MethodPost, base+"favorites", body); resp.StatusCode != http.StatusBadRequest {
				t.Errorf("%s: expected 400, got %d", body, resp.StatusCode)
			}
		}
	})

	t.Run("List", func(t *testing.T) {
		do(t, http.MethodPost, base+"favorites", `{"movie_id": "603"}`)

		resp, body := do(t, http.MethodGet, base+"favorites?sort_by=title", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		got := decode[struct {
			List    models.ListName    `json:"list"`
			Entries []models.ListEntry `json:"entries"`
		}](t, body)
		if got.List != models.Favorites || len(got.Entries) != 2 {
			t.Fatalf("unexpected list %+v", got)
		}
		if got.Entries[0].MovieID != "155" || got.Entries[1].MovieID != "603" {
			t.Errorf("expected title order, got %s, %s", got.Entries[0].Title, got.Entries[1].Title)
		}
	})

	t.Run("ListInvalidYear", func(t *testing.T) {
		if resp, _ := do(t, http.MethodGet, base+"favorites?year=soon", ""); resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("UnknownList", func(t *testing.T) {
		if resp, _ := do(t, http.MethodGet, base+"seen", ""); resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})

	t.Run("Remove", func(t *testing.T) {
		if resp, _ := do(t, http.MethodDelete, base+"favorites?movie_id=155", ""); resp.StatusCode != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", resp.StatusCode)
		}
		if resp, _ := do(t, http.MethodDelete, base+"favorites?movie_id=155", ""); resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404 on second delete, got %d", resp.StatusCode)
		}
		if resp, _ := do(t, http.MethodDelete, base+"favorites", ""); resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400 without movie_id, got %d", resp.StatusCode)
		}
	})

	t.Run("NotConfigured", func(t *testing.T) {
		ts := newTestServer(t, Options{Movies: &stubMovies{}})
		if resp, _ := do(t, http.MethodGet, ts.URL+"/api/lists/favorites", ""); resp.StatusCode != http.StatusNotImplemented {
			t.Errorf("expected 501, got %d", resp.StatusCode)
		}
	})
}

func TestDemoMode(t *testing.T) {
	svc := services.NewMovieService(services.Options{Logger: shared.NewLogger(io.Discard)})
	ts := newTestServer(t, Options{Movies: svc, Trailers: svc, Lists: newTestLists(t)})

	t.Run("Popular", func(t *testing.T) {
		resp, body := do(t, http.MethodGet, ts.URL+"/api/movies/popular", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if got := resp.Header.Get(SourceHeader); got != "fallback" {
			t.Errorf("expected fallback source header, got %q", got)
		}
		if p := decode[models.Page](t, body); len(p.Results) == 0 || !p.Fallback() {
			t.Errorf("expected a fallback page, got %+v", p)
		}
	})

	t.Run("Detail", func(t *testing.T) {
		resp, body := do(t, http.MethodGet, ts.URL+"/api/movies/tt0468569", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if m := decode[models.Movie](t, body); m.Title != "The Dark Knight" || m.Director == "" {
			t.Errorf("unexpected movie %+v", m)
		}
	})

	t.Run("AddUnknownMovie", func(t *testing.T) {
		resp, body := do(t, http.MethodPost, ts.URL+"/api/lists/watchlist", `{"movie_id": "550"}`)
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d: %s", resp.StatusCode, body)
		}

		_, body = do(t, http.MethodGet, ts.URL+"/api/lists/watchlist", "")
		got := decode[struct {
			Entries []models.ListEntry `json:"entries"`
		}](t, body)
		if len(got.Entries) != 0 {
			t.Errorf("expected an empty watchlist, got %+v", got.Entries)
		}
	})

	t.Run("AddCatalogMovie", func(t *testing.T) {
		resp, body := do(t, http.MethodPost, ts.URL+"/api/lists/watchlist", `{"movie_id": "tt0468569"}`)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", resp.StatusCode, body)
		}
		if e := decode[models.ListEntry](t, body); e.MovieID != "tt0468569" || e.Title != "The Dark Knight" {
			t.Errorf("unexpected entry %+v", e)
		}
	})

	t.Run("Status", func(t *testing.T) {
		_, body := do(t, http.MethodGet, ts.URL+"/api/status", "")
		if st := decode[models.Status](t, body); st.Configured || !st.Demo() {
			t.Errorf("expected unconfigured demo status, got %+v", st)
		}
	})

	t.Run("Home", func(t *testing.T) {
		resp, _ := do(t, http.MethodGet, ts.URL+"/api/home", "")
		if got := resp.Header.Get(SourceHeader); got != "fallback" {
			t.Errorf("expected fallback source header, got %q", got)
		}
	})
}

func TestMiddleware(t *testing.T) {
	t.Run("RecoverPanic", func(t *testing.T) {
		ts := newTestServer(t, Options{Movies: &stubMovies{panicOn: "popular"}})

		resp, body := do(t, http.MethodGet, ts.URL+"/api/movies/popular", "")
		if resp.StatusCode != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", resp.StatusCode)
		}
		if !strings.Contains(body, "the server encountered a problem") {
			t.Errorf("unexpected body %q", body)
		}
	})

	t.Run("RateLimit", func(t *testing.T) {
		ts := newTestServer(t, Options{Movies: &stubMovies{}, RateLimit: 0.001, Burst: 2})

		var codes []int
		for range 3 {
			resp, _ := do(t, http.MethodGet, ts.URL+"/api/status", "")
			codes = append(codes, resp.StatusCode)
		}
		if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
			t.Errorf("expected 200, 200, 429, got %v", codes)
		}
	})

	t.Run("ForgetIdleClients", func(t *testing.T) {
		l := newClientLimiter(1, 1)
		l.allow("10.0.0.1")
		l.allow("10.0.0.2")

		if n := l.forget(time.Now().Add(time.Second)); n != 2 {
			t.Errorf("expected 2 forgotten clients, got %d", n)
		}
		if len(l.clients) != 0 {
			t.Errorf("expected no clients left, got %d", len(l.clients))
		}
	})
}

func TestListenAndServe(t *testing.T) {
	t.Run("RequiresMovies", func(t *testing.T) {
		s := New(Options{Logger: shared.NewLogger(io.Discard)})
		if err := s.ListenAndServe(context.Background(), "127.0.0.1:0"); !errors.Is(err, shared.ErrNotConfigured) {
			t.Errorf("expected ErrNotConfigured, got %v", err)
		}
	})

	t.Run("ShutsDownOnCancel", func(t *testing.T) {
		s := New(Options{Movies: &stubMovies{}, Logger: shared.NewLogger(io.Discard), RateLimit: 5, Burst: 5})
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

		cancel()
		if err := <-done; err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	})
}
