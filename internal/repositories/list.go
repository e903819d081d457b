package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/movieplex/internal/models"
	"github.com/desertthunder/movieplex/internal/shared"
)

var _ models.Repository[models.ListEntry, models.ListQuery] = (*ListRepository)(nil)

const listColumns = `id, list, movie_id, title, poster_url, year, rating, movie, added_at`

// ListRepository implements models.Repository[models.ListEntry, models.ListQuery] for favorites and the watchlist.
type ListRepository struct {
	db    *sql.DB
	clock shared.Clock
}

// NewListRepository creates a new ListRepository with the given database connection
func NewListRepository(db *sql.DB) *ListRepository {
	return &ListRepository{db: db, clock: shared.SystemClock{}}
}

// WithClock sets the source of added_at timestamps for [ListRepository.Add].
func (r *ListRepository) WithClock(c shared.Clock) *ListRepository {
	r.clock = c
	return r
}

// Create inserts e. A movie already on the list returns [shared.ErrAlreadyExists].
func (r *ListRepository) Create(ctx context.Context, e models.ListEntry) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	movie, err := shared.MarshalJSON(e.Movie, false)
	if err != nil {
		return fmt.Errorf("failed to encode movie snapshot: %w", err)
	}

	var poster sql.NullString
	if e.PosterURL != nil {
		poster = sql.NullString{String: *e.PosterURL, Valid: true}
	}

	query := `INSERT INTO list_entries (` + listColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		e.ID,
		string(e.List),
		e.MovieID,
		e.Title,
		poster,
		e.Year,
		e.Rating,
		string(movie),
		e.AddedAt.UTC(),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s is already in %s", shared.ErrAlreadyExists, e.Title, e.List)
	}
	if err != nil {
		return fmt.Errorf("failed to insert list entry: %w", err)
	}
	return nil
}

// Get retrieves an entry by its id.
func (r *ListRepository) Get(ctx context.Context, id string) (models.ListEntry, error) {
	query := `SELECT ` + listColumns + ` FROM list_entries WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), id)
}

// Find retrieves the entry for movieID on list.
func (r *ListRepository) Find(ctx context.Context, list models.ListName, movieID string) (models.ListEntry, error) {
	query := `SELECT ` + listColumns + ` FROM list_entries WHERE list = ? AND movie_id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, string(list), movieID), movieID)
}

// Delete removes an entry by its id.
func (r *ListRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM list_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete list entry: %w", err)
	}
	return expectAffected(result, "list entry", id)
}

// List returns the entries of q.List, filtered by year and minimum rating and ordered by q.SortBy.
func (r *ListRepository) List(ctx context.Context, q models.ListQuery) ([]models.ListEntry, error) {
	query := `SELECT ` + listColumns + ` FROM list_entries WHERE list = ?`
	args := []any{string(q.List)}

	if q.Year > 0 {
		query += " AND year = ?"
		args = append(args, q.Year)
	}
	if q.MinRating > 0 {
		query += " AND rating >= ?"
		args = append(args, q.MinRating)
	}

	switch q.SortBy {
	case models.ListSortTitle:
		query += " ORDER BY title COLLATE NOCASE ASC, added_at DESC"
	case models.ListSortYear:
		query += " ORDER BY year DESC, added_at DESC"
	case models.ListSortRating:
		query += " ORDER BY rating DESC, added_at DESC"
	default:
		query += " ORDER BY added_at DESC, id ASC"
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query list entries: %w", err)
	}
	defer rows.Close()

	entries := []models.ListEntry{}
	for rows.Next() {
		e, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return entries, nil
}

// Add snapshots m onto list with a fresh id and the current time.
func (r *ListRepository) Add(ctx context.Context, list models.ListName, m models.Movie) (models.ListEntry, error) {
	e := models.NewListEntry(shared.GenerateID(), list, m, r.clock.Now())
	if err := r.Create(ctx, e); err != nil {
		return models.ListEntry{}, err
	}
	return e, nil
}

// Remove deletes movieID from list.
func (r *ListRepository) Remove(ctx context.Context, list models.ListName, movieID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM list_entries WHERE list = ? AND movie_id = ?`, string(list), movieID)
	if err != nil {
		return fmt.Errorf("failed to remove list entry: %w", err)
	}
	return expectAffected(result, "movie", movieID)
}

// Contains reports whether movieID is on list.
func (r *ListRepository) Contains(ctx context.Context, list models.ListName, movieID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM list_entries WHERE list = ? AND movie_id = ?`, string(list), movieID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check list membership: %w", err)
	}
	return n > 0, nil
}

// Toggle adds m to list, or removes it when already present. It reports whether the movie is now on the list.
func (r *ListRepository) Toggle(ctx context.Context, list models.ListName, m models.Movie) (bool, error) {
	err := r.Remove(ctx, list, m.ID.String())
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, shared.ErrNotFound):
		return false, err
	}

	if _, err := r.Add(ctx, list, m); err != nil {
		return false, err
	}
	return true, nil
}

// Count returns the number of entries on list.
func (r *ListRepository) Count(ctx context.Context, list models.ListName) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM list_entries WHERE list = ?`, string(list)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count list entries: %w", err)
	}
	return n, nil
}

func (r *ListRepository) scanOne(row *sql.Row, key string) (models.ListEntry, error) {
	e, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ListEntry{}, fmt.Errorf("%w: list entry %s", shared.ErrNotFound, key)
	}
	return e, err
}

// scan reads one row selected with listColumns into a [models.ListEntry]
func (r *ListRepository) scan(s scanner) (models.ListEntry, error) {
	var (
		e       models.ListEntry
		list    string
		poster  sql.NullString
		movie   string
		addedAt time.Time
	)

	err := s.Scan(&e.ID, &list, &e.MovieID, &e.Title, &poster, &e.Year, &e.Rating, &movie, &addedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return e, err
	}
	if err != nil {
		return e, fmt.Errorf("failed to scan list entry: %w", err)
	}

	e.List = models.ListName(list)
	e.AddedAt = addedAt.UTC()
	if poster.Valid {
		e.PosterURL = models.StringPtr(poster.String)
	}
	if err := json.Unmarshal([]byte(movie), &e.Movie); err != nil {
		return e, fmt.Errorf("failed to decode movie snapshot for %s: %w", e.MovieID, err)
	}
	return e, nil
}
