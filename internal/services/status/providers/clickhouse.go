package providers

import (
	"context"

	perr "bgg/internal/platform/errors"
	"bgg/internal/platform/store"
	"bgg/internal/services/status/domain"
)

const clickhouseUptimeSQL = "SELECT uptime()"

// Clickhouse checks a clickhouse server
type Clickhouse struct {
	ch store.Clickhouse
}

// NewClickhouse returns a provider over ch
func NewClickhouse(ch store.Clickhouse) (*Clickhouse, error) {
	if ch == nil {
		return nil, perr.InvalidArgf("clickhouse provider needs a connection")
	}
	return &Clickhouse{ch: ch}, nil
}

// Status satisfies domain.Provider
// details are best effort once the ping succeeded
func (c *Clickhouse) Status(ctx context.Context) domain.Result {
	return contain(ctx, NameClickhouse, func(ctx context.Context) domain.Result {
		if err := c.ch.Ping(ctx); err != nil {
			return failed(ctx, NameClickhouse, err)
		}
		details := map[string]any{}
		if v, err := c.ch.ServerVersion(ctx); err == nil && v != "" {
			details["version"] = v
		}
		if up, err := c.uptime(ctx); err == nil {
			details["uptime_seconds"] = up
		}
		return domain.OK(details)
	})
}

func (c *Clickhouse) uptime(ctx context.Context) (uint32, error) {
	rows, err := c.ch.Query(ctx, clickhouseUptimeSQL)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	var up uint32
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, err
		}
		return 0, store.ErrNoRows
	}
	if err := rows.Scan(&up); err != nil {
		return 0, err
	}
	return up, rows.Err()
}
