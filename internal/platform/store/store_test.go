package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// pingQuerier is a RowQuerier that also answers Ping and Close
type pingQuerier struct {
	fakeQuerier
	err    error
	closed bool
}

func (p *pingQuerier) Ping(context.Context) error { return p.err }
func (p *pingQuerier) Close() error              { p.closed = true; return nil }

// deadRedis points at a closed port so every command fails fast
func deadRedis() redis.UniversalClient {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestOpen_NothingEnabled(t *testing.T) {
	t.Parallel()

	s, err := Open(context.Background(), Config{}, WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.PG != nil || s.CH != nil || s.Redis != nil {
		t.Fatalf("unexpected backends: %+v", s)
	}
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("Guard with no backends = %v", err)
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close = %v", err)
	}
}

func TestOpen_PGBadURL(t *testing.T) {
	t.Parallel()

	s, err := Open(context.Background(), Config{PG: PGConfig{Enabled: true, URL: "://bad"}})
	if err == nil || s != nil {
		t.Fatalf("want error and nil store, got %v %v", s, err)
	}
}

func TestOpen_CHBadURL(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), Config{CH: CHConfig{Enabled: true}}); err == nil {
		t.Fatal("want error for empty clickhouse url")
	}
}

func TestOpen_OptionError(t *testing.T) {
	t.Parallel()

	bad := func(*Store) error { return errors.New("opt") }
	if _, err := Open(context.Background(), Config{}, bad); err == nil {
		t.Fatal("option error should abort Open")
	}
}

func TestGuard_CollectsEveryFailure(t *testing.T) {
	t.Parallel()

	var nilStore *Store
	if err := nilStore.Guard(context.Background()); err == nil {
		t.Fatal("nil store Guard should error")
	}

	rc := deadRedis()
	t.Cleanup(func() { _ = rc.Close() })
	s := &Store{PG: &pingQuerier{err: errors.New("pg down")}, Redis: rc}
	err := s.Guard(context.Background())
	if err == nil {
		t.Fatal("Guard should fail")
	}
	msg := err.Error()
	if !strings.Contains(msg, "pg: pg down") || !strings.Contains(msg, "redis:") {
		t.Fatalf("Guard error missing parts: %q", msg)
	}
}

func TestGuard_PGWithoutPing(t *testing.T) {
	t.Parallel()

	s := &Store{PG: &fakeQuerier{}}
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("non-pinger PG should be skipped: %v", err)
	}
}

func TestClose_ClosesPG(t *testing.T) {
	t.Parallel()

	pq := &pingQuerier{}
	s := &Store{PG: pq}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close = %v", err)
	}
	if !pq.closed {
		t.Fatal("PG not closed")
	}
	var nilStore *Store
	if err := nilStore.Close(context.Background()); err != nil {
		t.Fatalf("nil Close = %v", err)
	}
}
