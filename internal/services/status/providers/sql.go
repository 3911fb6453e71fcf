package providers

import (
	"context"

	perr "bgg/internal/platform/errors"
	"bgg/internal/platform/store"
	"bgg/internal/services/status/domain"
)

// Query is a statement plus its positional arguments
type Query struct {
	SQL  string
	Args []any
}

// PingQuery is the default liveness statement; it must return at least one row
func PingQuery() Query { return Query{SQL: "SELECT 1+1 AS result"} }

// PostgresDetailsQuery reports server uptime, version and the size of database
func PostgresDetailsQuery(database string) Query {
	return Query{
		SQL: `SELECT date_trunc('second', current_timestamp - pg_postmaster_start_time())::text AS uptime,
       version() AS version,
       pg_size_pretty(pg_database_size($1)) AS database_size`,
		Args: []any{database},
	}
}

// SQL checks a database through store.RowQuerier
type SQL struct {
	db      store.RowQuerier
	ping    Query
	details *Query
}

// NewSQL returns a provider running ping, then details when set
// an empty ping statement falls back to PingQuery
func NewSQL(db store.RowQuerier, ping Query, details *Query) (*SQL, error) {
	if db == nil {
		return nil, perr.InvalidArgf("sql provider needs a querier")
	}
	if ping.SQL == "" {
		ping = PingQuery()
	}
	return &SQL{db: db, ping: ping, details: details}, nil
}

// Status satisfies domain.Provider
// one details row merges into details, several land under "rows"
func (s *SQL) Status(ctx context.Context) domain.Result {
	return contain(ctx, NameDatabase, func(ctx context.Context) domain.Result {
		rows, err := store.Maps(ctx, s.db, s.ping.SQL, s.ping.Args...)
		if err != nil {
			return failed(ctx, NameDatabase, perr.FromProbe(err, "ping query failed"))
		}
		if len(rows) == 0 {
			return failed(ctx, NameDatabase, store.ErrNoRows)
		}
		if s.details == nil {
			return domain.OK(nil)
		}

		rows, err = store.Maps(ctx, s.db, s.details.SQL, s.details.Args...)
		if err != nil {
			return failed(ctx, NameDatabase, perr.FromProbe(err, "details query failed"))
		}
		switch len(rows) {
		case 0:
			return domain.OK(nil)
		case 1:
			return domain.OK(rows[0])
		default:
			list := make([]any, len(rows))
			for i, r := range rows {
				list[i] = r
			}
			return domain.OK(map[string]any{"rows": list})
		}
	})
}
