package server

import (
	"net/http"

	"github.com/desertthunder/movieplex/internal/services"
	"github.com/go-chi/chi/v5"
)

// routes builds the chi router. Middleware applies in the order added: recovery wraps everything.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(s.recoverPanic, s.logRequests)
	if s.limiter != nil {
		r.Use(s.rateLimit)
	}

	r.NotFound(s.notFoundResponse)
	r.MethodNotAllowed(s.methodNotAllowedResponse)

	r.Route("/api", func(r chi.Router) {
		r.Get("/home", s.homeHandler)
		r.Get("/status", s.statusHandler)
		r.Get("/search", s.searchHandler)
		r.Get("/moods/{mood}", s.moodHandler)

		r.Route("/movies", func(r chi.Router) {
			r.Get("/popular", s.pageHandler(services.Movies.Popular))
			r.Get("/trending", s.pageHandler(services.Movies.Trending))
			r.Get("/top-rated", s.pageHandler(services.Movies.TopRated))
			r.Get("/{id}", s.detailHandler)
			r.Get("/{id}/trailer", s.trailerHandler)
		})

		r.Route("/lists/{list}", func(r chi.Router) {
			r.Get("/", s.listEntriesHandler)
			r.Post("/", s.addEntryHandler)
			r.Delete("/", s.removeEntryHandler)
		})
	})
	return r
}
