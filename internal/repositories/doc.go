// Package repositories implements SQLite persistence for the personal movie lists.
//
// Key Implementations:
//   - [ListRepository] : Favorites and watchlist entries, each holding a JSON snapshot of the canonical movie
//
// A movie appears at most once per list; the UNIQUE (list, movie_id) constraint surfaces as [shared.ErrAlreadyExists].
// Missing rows surface as [shared.ErrNotFound] so the CLI and HTTP layers can map them without string matching.
//
// Entries are hard-deleted. Removing a movie and adding it again gives it a new id and a new added_at timestamp,
// which is what the "recently added" ordering expects.
package repositories
