package postgres

import (
	"database/sql"
	"errors"

	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/lib/pq"
)

const pgUniqueViolation = "23505"

// mapError translates driver errors into marked domain errors: unique
// constraint violations become already-exists (a race-lost duplicate is a
// validation-level outcome, not a fault), everything else a database error.
func mapError(err error, hint string, details map[string]any) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
		return ierr.WithError(err).
			WithHint(hint).
			WithReportableDetails(details).
			Mark(ierr.ErrAlreadyExists)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ierr.WithError(err).
			WithHint(hint).
			WithReportableDetails(details).
			Mark(ierr.ErrNotFound)
	}
	return ierr.WithError(err).
		WithHint(hint).
		WithReportableDetails(details).
		Mark(ierr.ErrDatabase)
}
