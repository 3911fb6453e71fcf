package providers

import (
	"context"

	perr "bgg/internal/platform/errors"
	"bgg/internal/platform/logger"
	"bgg/internal/platform/store"
	"bgg/internal/services/lastmodified/domain"
)

// SQL reads one epoch-seconds value, e.g.
// SELECT extract(epoch FROM max(updated_at))::bigint FROM pages
// errors and NULL read as NoSignal
type SQL struct {
	db   store.RowQuerier
	sql  string
	args []any
	log  *logger.Logger
}

// NewSQL returns a provider running query against db
func NewSQL(db store.RowQuerier, query string, args ...any) (*SQL, error) {
	if db == nil {
		return nil, perr.InvalidArgf("sql provider needs a querier")
	}
	if query == "" {
		return nil, perr.WithField(perr.InvalidConfigf("sql provider needs a query"), "sql")
	}
	return &SQL{db: db, sql: query, args: args, log: logger.Named("lastmodified.sql")}, nil
}

// LastModified satisfies domain.Provider
func (s *SQL) LastModified(ctx context.Context) (ts int64) {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Error().Interface("panic", rec).Msg("query panicked")
			ts = domain.NoSignal
		}
	}()

	v, err := store.Scalar[*int64](ctx, s.db, s.sql, s.args...)
	if err != nil {
		err = perr.FromProbe(err, "last modified query failed")
		logger.C(ctx, s.log).Debug().Err(err).Str("code", perr.CodeOf(err).String()).
			Str("sqlstate", perr.SQLState(err)).Msg("query failed")
		return domain.NoSignal
	}
	if v == nil {
		return domain.NoSignal
	}
	return *v
}
