package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/desertthunder/movieplex/internal/models"
	"github.com/desertthunder/movieplex/internal/services"
	"github.com/desertthunder/movieplex/internal/shared"
	"github.com/go-chi/chi/v5"
)

// addEntryRequest is the body of POST /api/lists/{list}.
type addEntryRequest struct {
	MovieID string `json:"movie_id"`
}

// pageHandler serves one of the paged list reads.
func (s *Server) pageHandler(read func(services.Movies, context.Context, int) models.Page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := readPage(r)
		if err != nil {
			s.errorFor(w, r, err)
			return
		}
		s.writePage(w, read(s.movies, r.Context(), page))
	}
}

func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := readPage(r)
	if err != nil {
		s.errorFor(w, r, err)
		return
	}

	filters, err := models.ParseFilterSpec(q.Get("genre"), q.Get("year"), q.Get("min_rating"), q.Get("sort_by"))
	if err != nil {
		s.errorFor(w, r, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err))
		return
	}
	s.writePage(w, s.movies.Search(r.Context(), q.Get("q"), page, filters))
}

func (s *Server) detailHandler(w http.ResponseWriter, r *http.Request) {
	extras := true
	if v := r.URL.Query().Get("extras"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			s.errorFor(w, r, fmt.Errorf("%w: extras must be a boolean, got %q", shared.ErrInvalidInput, v))
			return
		}
		extras = b
	}

	m, err := s.movies.Detail(r.Context(), models.ParseMovieID(chi.URLParam(r, "id")), extras)
	if err != nil {
		s.errorFor(w, r, err)
		return
	}
	w.Header().Set(SourceHeader, string(m.Source))
	s.writeJSON(w, http.StatusOK, m)
}

func (s *Server) trailerHandler(w http.ResponseWriter, r *http.Request) {
	if s.trailers == nil {
		s.notImplementedResponse(w, r)
		return
	}

	id := models.ParseMovieID(chi.URLParam(r, "id"))
	t, ok, err := s.trailers.Trailer(r.Context(), id)
	switch {
	case err != nil:
		s.errorFor(w, r, err)
	case !ok:
		s.errorResponse(w, http.StatusNotFound, "no trailer found for movie "+id.String())
	default:
		s.writeJSON(w, http.StatusOK, t)
	}
}

func (s *Server) moodHandler(w http.ResponseWriter, r *http.Request) {
	page, err := readPage(r)
	if err != nil {
		s.errorFor(w, r, err)
		return
	}
	s.writePage(w, s.movies.ByMood(r.Context(), chi.URLParam(r, "mood"), page))
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	res, err := s.home.LoadHome(r.Context(), nil)
	if err != nil {
		s.errorFor(w, r, err)
		return
	}

	source := models.SourceLive
	for _, sec := range res.Sections {
		if sec.Err != nil {
			s.logger.Warn("home section failed", "section", sec.Name, "error", sec.Err)
			source = models.SourceFallback
			continue
		}
		if sec.Page.Fallback() {
			source = models.SourceFallback
		}
	}
	w.Header().Set(SourceHeader, string(source))
	s.writeJSON(w, http.StatusOK, res.Home())
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	st := s.movies.Status(r.Context())
	w.Header().Set(SourceHeader, string(st.Mode))
	s.writeJSON(w, http.StatusOK, st)
}

func (s *Server) listEntriesHandler(w http.ResponseWriter, r *http.Request) {
	list, ok := s.listParam(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	query := models.ListQuery{List: list, SortBy: models.ParseListSort(q.Get("sort_by"))}
	if v := q.Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			s.errorFor(w, r, fmt.Errorf("%w: invalid year %q", shared.ErrInvalidInput, v))
			return
		}
		query.Year = y
	}
	if v := q.Get("min_rating"); v != "" {
		rating, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.errorFor(w, r, fmt.Errorf("%w: invalid minimum rating %q", shared.ErrInvalidInput, v))
			return
		}
		query.MinRating = rating
	}

	entries, err := s.lists.List(r.Context(), query)
	if err != nil {
		s.errorFor(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"list": list, "entries": entries})
}

func (s *Server) addEntryHandler(w http.ResponseWriter, r *http.Request) {
	list, ok := s.listParam(w, r)
	if !ok {
		return
	}

	var body addEntryRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		s.errorFor(w, r, fmt.Errorf("%w: body must be {\"movie_id\": ...}: %v", shared.ErrInvalidInput, err))
		return
	}
	if strings.TrimSpace(body.MovieID) == "" {
		s.errorFor(w, r, fmt.Errorf("%w: movie_id", shared.ErrMissingArgument))
		return
	}

	id := models.ParseMovieID(body.MovieID)
	m, err := s.movies.Detail(r.Context(), id, false)
	if err == nil {
		err = services.CheckSnapshot(id, m)
	}
	if err != nil {
		s.errorFor(w, r, err)
		return
	}

	entry, err := s.lists.Add(r.Context(), list, m)
	if err != nil {
		s.errorFor(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) removeEntryHandler(w http.ResponseWriter, r *http.Request) {
	list, ok := s.listParam(w, r)
	if !ok {
		return
	}

	movieID := strings.TrimSpace(r.URL.Query().Get("movie_id"))
	if movieID == "" {
		s.errorFor(w, r, fmt.Errorf("%w: movie_id", shared.ErrMissingArgument))
		return
	}
	if err := s.lists.Remove(r.Context(), list, movieID); err != nil {
		s.errorFor(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listParam resolves the {list} URL parameter, writing the error response itself when it cannot.
func (s *Server) listParam(w http.ResponseWriter, r *http.Request) (models.ListName, bool) {
	if s.lists == nil {
		s.notImplementedResponse(w, r)
		return "", false
	}
	list, err := models.ParseListName(chi.URLParam(r, "list"))
	if err != nil {
		s.errorFor(w, r, fmt.Errorf("%w: %v", shared.ErrNotFound, err))
		return "", false
	}
	return list, true
}

func (s *Server) writePage(w http.ResponseWriter, p models.Page) {
	w.Header().Set(SourceHeader, string(p.Source))
	s.writeJSON(w, http.StatusOK, p)
}

// readPage parses the page query parameter. Missing means the first page.
func readPage(r *http.Request) (int, error) {
	v := r.URL.Query().Get("page")
	if v == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(v)
	if err != nil || page < 1 || page > 500 {
		return 0, fmt.Errorf("%w: page must be between 1 and 500, got %q", shared.ErrInvalidInput, v)
	}
	return page, nil
}
