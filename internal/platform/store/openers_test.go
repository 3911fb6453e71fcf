package store

import (
	"context"
	"testing"
	"time"

	kit "bgg/internal/platform/testkit"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func TestOpenRedis_EmptyAddr(t *testing.T) {
	t.Parallel()

	s := &Store{Log: zerolog.Nop()}
	if _, err := openRedis(context.Background(), Config{RDS: RedisConfig{Enabled: true}}, s); err == nil {
		t.Fatal("want error for empty addr")
	}
}

func TestOpenRedis_PingFailureClosesClient(t *testing.T) {
	kit.Serial(t)

	var opts *redis.UniversalOptions
	kit.Swap(t, &newRedisClient, func(o *redis.UniversalOptions) redis.UniversalClient {
		opts = o
		return deadRedis()
	})

	s := &Store{Log: zerolog.Nop()}
	cfg := Config{AppName: "bgg", RDS: RedisConfig{Enabled: true, Addr: "a:1,b:2", DB: 3, PingTimeout: 300 * time.Millisecond}}
	if _, err := openRedis(context.Background(), cfg, s); err == nil {
		t.Fatal("want ping error")
	}
	if len(opts.Addrs) != 2 || opts.DB != 3 || opts.ClientName != "bgg" {
		t.Fatalf("options not forwarded: %+v", opts)
	}
}

func TestOpenPG_CanceledContext(t *testing.T) {
	kit.Serial(t)
	kit.Swap(t, &sleep, func(time.Duration) {})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &Store{Log: zerolog.Nop()}
	cfg := Config{PG: PGConfig{Enabled: true, URL: "postgres://u:p@127.0.0.1:1/db?sslmode=disable", ConnectRetries: 2}}
	if q, err := openPG(ctx, cfg, s); err == nil || q != nil {
		t.Fatalf("want error on canceled ctx, got %v %v", q, err)
	}
}

func TestOpenPG_GivesUpAfterRetries(t *testing.T) {
	kit.Serial(t)

	var sleeps []time.Duration
	kit.Swap(t, &sleep, func(d time.Duration) { sleeps = append(sleeps, d) })

	s := &Store{Log: zerolog.Nop()}
	cfg := Config{PG: PGConfig{
		Enabled:        true,
		URL:            "postgres://u:p@127.0.0.1:1/db?sslmode=disable&connect_timeout=1",
		ConnectRetries: 3,
		PingTimeout:    500 * time.Millisecond,
	}}
	if _, err := openPG(context.Background(), cfg, s); err == nil {
		t.Fatal("want error after retries")
	}
	if len(sleeps) != 3 || sleeps[0] != 150*time.Millisecond || sleeps[1] != 300*time.Millisecond {
		t.Fatalf("unexpected backoff sequence: %v", sleeps)
	}
}
