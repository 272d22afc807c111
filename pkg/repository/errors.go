package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE classes that indicate the caller sent bad data rather than the
// database failing.
var constraintCodes = map[string]string{
	"23502": "not null",
	"23505": "unique",
	"23514": "check",
}

// MapError translates database errors to domain errors. sql.ErrNoRows
// becomes notFoundErr. Not-null, unique, and check violations become
// invalidErr annotated with the violated constraint. Anything else is
// returned unchanged.
func MapError(err, notFoundErr, invalidErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	kind, ok := constraintCodes[pgErr.Code]
	if !ok {
		return err
	}

	name := pgErr.ConstraintName
	if name == "" {
		name = pgErr.ColumnName
	}
	if name == "" {
		return fmt.Errorf("%w: %s violation", invalidErr, kind)
	}
	return fmt.Errorf("%w: %s violation on %s", invalidErr, kind, name)
}
