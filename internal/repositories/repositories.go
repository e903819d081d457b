// package repositories provides persistence layer implementations for all model types.
//
// Each repository implements models.Repository[T, Q] for a specific entity type.
package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/movieplex/internal/shared"
	"github.com/mattn/go-sqlite3"
)

// scanner is satisfied by both [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

// isUniqueViolation reports whether err is a SQLite UNIQUE or PRIMARY KEY constraint failure.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

// expectAffected converts a zero-row write into [shared.ErrNotFound].
func expectAffected(result sql.Result, what, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s %s", shared.ErrNotFound, what, id)
	}
	return nil
}
