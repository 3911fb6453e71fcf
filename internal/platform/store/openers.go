package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	chx "bgg/internal/platform/store/ch"
	"bgg/internal/platform/store/pg"

	"github.com/redis/go-redis/v9"
)

var sleep = time.Sleep // seam

// openPG opens pg, pings with retry/backoff, then wraps it with the sql adapter
func openPG(ctx context.Context, cfg Config, s *Store) (RowQuerier, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
		AppName:  cfg.AppName,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}

	attempts := cfg.PG.ConnectRetries
	if attempts <= 0 {
		attempts = 20
	}
	pingTimeout := cfg.PG.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 3 * time.Second
	}
	const (
		backoffStart   = 150 * time.Millisecond
		backoffCeiling = 2 * time.Second
	)

	var lastErr error
	backoff := backoffStart
	for i := 0; i < attempts; i++ {
		toCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = p.Pool.Ping(toCtx)
		cancel()

		if lastErr == nil {
			return newPGAdapter(p), nil
		}
		if ctx.Err() != nil {
			p.Close()
			return nil, ctx.Err()
		}
		s.Log.Warn().Err(lastErr).Int("attempt", i+1).Dur("backoff", backoff).Msg("postgres not ready")
		sleep(backoff)
		if backoff < backoffCeiling {
			backoff = min(backoff*2, backoffCeiling)
		}
	}

	p.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, lastErr)
}

func openCH(ctx context.Context, cfg Config, _ *Store) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{URL: cfg.CH.URL, Role: "status", Tag: cfg.AppName})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}

var newRedisClient = redis.NewUniversalClient // seam

// openRedis builds a go-redis client and checks it answers PING
func openRedis(ctx context.Context, cfg Config, s *Store) (redis.UniversalClient, error) {
	addr := strings.TrimSpace(cfg.RDS.Addr)
	if addr == "" {
		return nil, fmt.Errorf("redis: empty address")
	}
	rc := newRedisClient(&redis.UniversalOptions{
		Addrs:      strings.Split(addr, ","),
		Password:   cfg.RDS.Password,
		DB:         cfg.RDS.DB,
		ClientName: cfg.AppName,
	})

	timeout := cfg.RDS.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	toCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := rc.Ping(toCtx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	s.Log.Debug().Str("addr", addr).Int("db", cfg.RDS.DB).Msg("redis ready")
	return rc, nil
}
