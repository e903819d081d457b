package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/movieplex/internal/models"
	"github.com/desertthunder/movieplex/internal/shared"
)

func TestListRepositoryErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			repo, _ := newTestRepo(t)

			err := repo.Create(ctx, models.ListEntry{ID: "x", List: models.Favorites, MovieID: "1"})
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Fatalf("expected validation error for empty title, got %v", err)
			}
		})

		t.Run("UnknownList", func(t *testing.T) {
			repo, _ := newTestRepo(t)

			if _, err := repo.Add(ctx, models.ListName("seen"), movie(1, "A", 2000, 5)); !errors.Is(err, shared.ErrInvalidInput) {
				t.Fatalf("expected validation error for unknown list, got %v", err)
			}
		})

		t.Run("ZeroMovieID", func(t *testing.T) {
			repo, _ := newTestRepo(t)

			if _, err := repo.Add(ctx, models.Favorites, models.Movie{Title: "No id"}); !errors.Is(err, shared.ErrInvalidInput) {
				t.Fatalf("expected validation error for missing movie id, got %v", err)
			}
		})

		t.Run("DuplicateMovie", func(t *testing.T) {
			repo, _ := newTestRepo(t)

			if _, err := repo.Add(ctx, models.Favorites, movie(1, "Twice", 2000, 5)); err != nil {
				t.Fatalf("failed to add first entry: %v", err)
			}
			_, err := repo.Add(ctx, models.Favorites, movie(1, "Twice", 2000, 5))
			if !errors.Is(err, shared.ErrAlreadyExists) {
				t.Fatalf("expected ErrAlreadyExists, got %v", err)
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			repo, _ := newTestRepo(t)

			if _, err := repo.Get(ctx, "nonexistent-id"); !errors.Is(err, shared.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})

		t.Run("FindNotFound", func(t *testing.T) {
			repo, _ := newTestRepo(t)

			if _, err := repo.Find(ctx, models.Watchlist, "42"); !errors.Is(err, shared.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})

		t.Run("CorruptSnapshot", func(t *testing.T) {
			repo, _ := newTestRepo(t)

			_, err := repo.db.Exec(`INSERT INTO list_entries (id, list, movie_id, title, movie) VALUES ('bad', 'favorites', '9', 'Bad', 'not json')`)
			if err != nil {
				t.Fatalf("failed to insert row: %v", err)
			}
			if _, err := repo.Get(ctx, "bad"); err == nil || errors.Is(err, shared.ErrNotFound) {
				t.Fatalf("expected a decode error, got %v", err)
			}
		})
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			repo, _ := newTestRepo(t)

			if err := repo.Delete(ctx, "nonexistent-id"); !errors.Is(err, shared.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})

		t.Run("RemoveNotFound", func(t *testing.T) {
			repo, _ := newTestRepo(t)

			if err := repo.Remove(ctx, models.Favorites, "42"); !errors.Is(err, shared.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	})

	t.Run("ClosedDatabase", func(t *testing.T) {
		db, err := shared.OpenDatabase(shared.DatabaseConfig{Path: ":memory:"})
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		repo := NewListRepository(db)
		db.Close()

		if _, err := repo.List(ctx, models.ListQuery{List: models.Favorites}); err == nil {
			t.Error("expected an error from a closed database")
		}
		if _, err := repo.Contains(ctx, models.Favorites, "1"); err == nil {
			t.Error("expected an error from a closed database")
		}
	})
}
