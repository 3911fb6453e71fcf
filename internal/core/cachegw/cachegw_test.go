package cachegw

import (
	"context"
	"errors"
	"testing"
	"time"

	"bgg/internal/platform/cache"
	perr "bgg/internal/platform/errors"
)

type payload struct {
	Status string `json:"status"`
}

func TestGateway_JSONRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	g := New[map[string]payload](cache.NewMemory(0, 0), JSON[map[string]payload]{}, time.Minute)

	if _, hit, err := g.TryGet(ctx, "status_all"); hit || err != nil {
		t.Fatalf("empty TryGet = %v, %v", hit, err)
	}
	want := map[string]payload{"redis": {Status: "OK"}}
	if err := g.TrySet(ctx, "status_all", want); err != nil {
		t.Fatalf("TrySet: %v", err)
	}
	got, hit, err := g.TryGet(ctx, "status_all")
	if err != nil || !hit || got["redis"].Status != "OK" {
		t.Fatalf("TryGet = %v, %v, %v", got, hit, err)
	}
}

func TestGateway_IntegerRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	g := New[int64](cache.NewMemory(0, 0), Integer{}, time.Minute)

	if err := g.TrySet(ctx, "last_modified_all", 1_700_000_000); err != nil {
		t.Fatalf("TrySet: %v", err)
	}
	got, hit, err := g.TryGet(ctx, "last_modified_all")
	if err != nil || !hit || got != 1_700_000_000 {
		t.Fatalf("TryGet = %d, %v, %v", got, hit, err)
	}

	// zero is indistinguishable from missing
	_ = g.TrySet(ctx, "zero", 0)
	if _, hit, _ := g.TryGet(ctx, "zero"); hit {
		t.Fatal("stored zero should read as a miss")
	}
}

func TestGateway_UndecodableIsMiss(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := cache.NewMemory(0, 0)
	_, _ = mem.Set(ctx, "k", 3.5, 0)
	g := New[map[string]payload](mem, JSON[map[string]payload]{}, time.Minute)
	if _, hit, err := g.TryGet(ctx, "k"); hit || err != nil {
		t.Fatalf("non-string value should miss: %v %v", hit, err)
	}
}

func TestGateway_HasButNilValueIsMiss(t *testing.T) {
	t.Parallel()
	b := cache.Func{
		HasFn: func(context.Context, string) (bool, error) { return true, nil },
	}
	g := New[int64](b, Integer{}, time.Minute)
	if _, hit, err := g.TryGet(context.Background(), "k"); hit || err != nil {
		t.Fatalf("TryGet = %v, %v", hit, err)
	}
}

func TestGateway_BackendFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	boom := errors.New("boom")

	cases := []struct {
		name string
		b    cache.Backend
		get  bool
	}{
		{"has error", cache.Func{HasFn: func(context.Context, string) (bool, error) { return false, boom }}, true},
		{"get error", cache.Func{
			HasFn: func(context.Context, string) (bool, error) { return true, nil },
			GetFn: func(context.Context, string) (any, error) { return nil, boom },
		}, true},
		{"has panic", cache.Func{HasFn: func(context.Context, string) (bool, error) { panic("kaput") }}, true},
		{"set error", cache.Func{SetFn: func(context.Context, string, any, time.Duration) (bool, error) { return false, boom }}, false},
		{"set refused", cache.Func{SetFn: func(context.Context, string, any, time.Duration) (bool, error) { return false, nil }}, false},
		{"set panic", cache.Func{SetFn: func(context.Context, string, any, time.Duration) (bool, error) { panic("kaput") }}, false},
	}
	for _, c := range cases {
		g := New[int64](c.b, Integer{}, time.Minute)
		var err error
		if c.get {
			_, _, err = g.TryGet(ctx, "last_modified_x")
		} else {
			err = g.TrySet(ctx, "last_modified_x", 5)
		}
		if !perr.IsCode(err, perr.ErrorCodeCacheFailure) {
			t.Fatalf("%s: want CacheFailure, got %v", c.name, err)
		}
		if e, _ := perr.As(err); e.Field() != "last_modified_x" {
			t.Fatalf("%s: field = %q", c.name, e.Field())
		}
	}
}

func TestGateway_TTLForwarded(t *testing.T) {
	t.Parallel()
	var seen time.Duration
	b := cache.Func{SetFn: func(_ context.Context, _ string, _ any, ttl time.Duration) (bool, error) {
		seen = ttl
		return true, nil
	}}
	g := New[int64](b, Integer{}, 90*time.Second)
	if err := g.TrySet(context.Background(), "k", 1); err != nil {
		t.Fatal(err)
	}
	if seen != 90*time.Second {
		t.Fatalf("ttl = %v", seen)
	}
}
