package database

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/attendly/attendly-backend/pkg/errors"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// MapError converts a driver error to an AppError. sql.ErrNoRows becomes
// NotFound for resource, an expired query context becomes Timeout. Returns
// nil when the error has no specific mapping.
func MapError(err error, resource string) *errors.AppError {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, sql.ErrNoRows):
		return errors.NotFound(resource)
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Timeout(err)
	}

	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		return mapPQError(pqErr)
	}

	var liteErr *sqlite.Error
	if stderrors.As(err, &liteErr) {
		return mapSQLiteError(liteErr)
	}

	return nil
}

func mapPQError(pqErr *pq.Error) *errors.AppError {
	switch pqErr.Code {
	case "23505": // unique_violation
		return errors.Conflict("a record with these values already exists")
	case "23503": // foreign_key_violation
		return errors.BadRequest("referenced record does not exist")
	case "23502": // not_null_violation
		col := pqErr.Column
		if col == "" {
			col = "required field"
		}
		return errors.Validation(map[string]string{col: "must not be empty"})
	case "22007", "22008": // bad datetime text or overflow
		return errors.BadRequestWithKey("errors.invalid_date")
	case "57014": // query_canceled, statement_timeout
		return errors.Timeout(pqErr)
	case "53300", "57P03": // too_many_connections, cannot_connect_now
		return errors.Unavailable(pqErr)
	}
	return nil
}

func mapSQLiteError(liteErr *sqlite.Error) *errors.AppError {
	switch liteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return errors.Conflict("a record with these values already exists")
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return errors.BadRequest("referenced record does not exist")
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return errors.Validation(map[string]string{"required field": "must not be empty"})
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		// the clock device holds the write lock while syncing punches
		return errors.Unavailable(liteErr)
	}
	return nil
}

// Err maps err for resource, passing through errors without a mapping.
// Drivers report a cancelled statement in their own words (pq 57014, an
// interrupted SQLite step), so an expired ctx decides the timeout case.
func Err(ctx context.Context, err error, resource string) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.Timeout(err)
	}
	if appErr := MapError(err, resource); appErr != nil {
		return appErr
	}
	return err
}
