// package repositories provides sqlite-backed persistence for playx models.
//
// Each repository implements models.Repository[T] for one entity type.
package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/playx/internal/shared"
)

// scanner is satisfied by both [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

// expectAffected converts a zero-row write into [shared.ErrNotFound].
func expectAffected(result sql.Result, entity, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s %s", shared.ErrNotFound, entity, id)
	}
	return nil
}

// notFound maps [sql.ErrNoRows] to [shared.ErrNotFound] and wraps anything else.
func notFound(err error, entity, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s %s", shared.ErrNotFound, entity, id)
	}
	return fmt.Errorf("failed to scan %s: %w", entity, err)
}
