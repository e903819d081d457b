// Package server exposes the movie service as a small JSON HTTP API.
//
// # Routing
//
// [Server] builds a chi router. Every route sits under /api and shares one middleware stack:
// panic recovery, request logging and a per-client rate limit. [Middleware] has the standard
// func(http.Handler) http.Handler shape so chi and hand-written middleware compose.
//
// # Endpoints
//
//	GET    /api/movies/popular|trending|top-rated?page=
//	GET    /api/search?q=&page=&genre=&year=&min_rating=&sort_by=
//	GET    /api/movies/{id}?extras=
//	GET    /api/movies/{id}/trailer
//	GET    /api/moods/{mood}?page=
//	GET    /api/home
//	GET    /api/status
//	GET    /api/lists/{list}?sort_by=&year=&min_rating=
//	POST   /api/lists/{list}        {"movie_id": "155"}
//	DELETE /api/lists/{list}?movie_id=
//
// Movie reads never fail because the upstream API is down. Responses served from the offline catalog
// carry "source": "fallback" in the body and X-Movieplex-Source: fallback as a header, so clients can
// show a demo-mode indicator.
//
// # Errors
//
// Failures are written as {"error": "..."} with a status derived from the shared sentinel errors:
// invalid input maps to 400, not found to 404 and duplicates to 409.
package server
