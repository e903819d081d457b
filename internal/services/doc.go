// Package services implements the movie data access layer: the [MovieService] and the collaborators it is built from.
//
// # Movie Service
//
// [MovieService] exposes popular, trending, top-rated, search, detail and by-mood reads. None of them fail for
// upstream reasons: every call resolves to a cached page, a live page, a stale page or the offline catalog, in that
// order of preference. Only malformed input at the boundary (an empty detail id) returns an error.
//
// # Connectivity Gate
//
// [Gate] reports whether the TMDB API is configured and reachable. Probes hit GET /configuration, are throttled
// to one per probe interval and shared by concurrent callers.
//
// # Request Executor
//
// [Executor] issues authenticated GET requests with a per-attempt timeout, client-side rate limiting and bounded
// retry. It returns a [Result] rather than an error, so exhaustion is an ordinary value the service branches on.
//
// Authentication is either a v3 api_key query parameter or a v4 access token sent through an [oauth2.Transport].
//
// # Normalization
//
// [Normalizer] maps [models.RawRecord] values (legacy OMDb-style, live TMDB, or already canonical) into
// [models.Movie]. It never fails; unexpected shapes are logged and defaulted.
//
// # Fallback
//
// [Fallback] serves search, lists, detail and mood pages from a static catalog with synthesized statistics.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotConfigured] : no api key or access token
//   - [shared.ErrUpstreamUnavailable] : retries exhausted
//   - [shared.ErrNormalizationAnomaly] : response body was not a movie record
//   - [shared.ErrInvalidInput] : empty or malformed id
//
// [UpstreamError] carries the endpoint, attempt count, status and body excerpt and unwraps to the matching sentinel.
package services
