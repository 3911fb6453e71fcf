package errors

// Postgres-specific helpers used by the SQL providers to classify probe failures

import (
	"context"
	stderrs "errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes that signal a server which is up but not accepting work
const (
	pgErrCannotConnectNow       = "57P03" // i.e. startup in progress
	pgErrAdminShutdown          = "57P01"
	pgErrTooManyConnections     = "53300"
	pgErrReadOnlySQLTransaction = "25006"
)

// ExtractPgError returns (*pgconn.PgError, true) if the root cause is a PgError.
func ExtractPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(Root(err), &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsSQLState reports whether the error is a Postgres error with the given SQLSTATE code
func IsSQLState(err error, code string) bool {
	pgErr, ok := ExtractPgError(err)
	return ok && pgErr.Code == code
}

// SQLState returns the SQLSTATE of a Postgres error or "" for anything else
func SQLState(err error) string {
	if pgErr, ok := ExtractPgError(err); ok {
		return pgErr.Code
	}
	return ""
}

// IsConnectionUnavailable reports whether the server refused work because it is starting,
// shutting down or saturated
func IsConnectionUnavailable(err error) bool {
	switch SQLState(err) {
	case pgErrCannotConnectNow, pgErrAdminShutdown, pgErrTooManyConnections:
		return true
	}
	return false
}

// FromProbe classifies a failed database probe
// timeouts and unavailable servers map to Unavailable, everything else stays Unknown
func FromProbe(err error, msg string) error {
	if err == nil {
		return nil
	}
	if stderrs.Is(err, context.DeadlineExceeded) || stderrs.Is(err, context.Canceled) ||
		IsConnectionUnavailable(err) || IsSQLState(err, pgErrReadOnlySQLTransaction) {
		return Wrap(err, ErrorCodeUnavailable, msg)
	}
	return Wrap(err, ErrorCodeUnknown, msg)
}
