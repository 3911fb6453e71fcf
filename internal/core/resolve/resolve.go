// Package resolve is the shared resolution skeleton behind both engines:
// registry lookup, per-name and group caching, bounded concurrent fan-out
// with an optional group deadline, then a domain specific combine step
package resolve

import (
	"context"
	"sync"
	"time"

	"bgg/internal/core/cachegw"
	"bgg/internal/core/registry"
	perr "bgg/internal/platform/errors"
	"bgg/internal/platform/logger"
	str "bgg/internal/platform/strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Observer receives resolution events; telemetry.Metrics implements it
type Observer interface {
	Resolution(engine, kind string, err error)
	CacheLookup(engine, level, result string)
	ProviderDone(engine, provider string, d time.Duration)
}

type nopObserver struct{}

func (nopObserver) Resolution(string, string, error)           {}
func (nopObserver) CacheLookup(string, string, string)         {}
func (nopObserver) ProviderDone(string, string, time.Duration) {}

// Member is one resolved group member
type Member[V any] struct {
	Name     string
	Value    V
	TimedOut bool
}

// Config wires a Resolver
// P is the provider type, V a single value, G the combined group value
// per-name and group entries share one key space and one value shape G,
// so resolving [n] as a group reads the entry written by resolving n alone
type Config[P, V, G any] struct {
	Engine   string
	Registry *registry.Registry[P]
	Keys     cachegw.Keyer

	// Cache is nil when caching is disabled
	Cache *cachegw.Gateway[G]

	// Fetch calls the provider and normalises its answer; it must not panic
	Fetch func(ctx context.Context, name string, p P) V
	// Wrap and Unwrap convert a single value to and from its cached form
	Wrap   func(name string, v V) G
	Unwrap func(name string, g G) (V, bool)
	// Combine folds members (in request order) into the group value
	Combine func(members []Member[V]) (G, error)
	// OnTimeout is the value substituted for a probe abandoned at the group deadline
	OnTimeout func(name string) V

	// Workers bounds concurrent probes per group, 0 means one per member
	Workers int
	// GroupTimeout bounds a whole group resolution, 0 means no deadline
	GroupTimeout time.Duration

	Log      *logger.Logger
	Observer Observer
}

// Resolver runs resolutions for one engine
type Resolver[P, V, G any] struct {
	cfg Config[P, V, G]
	log *logger.Logger
	obs Observer
}

// New returns a Resolver; Registry, Fetch, Wrap, Unwrap, Combine and OnTimeout are required
func New[P, V, G any](cfg Config[P, V, G]) (*Resolver[P, V, G], error) {
	if cfg.Registry == nil || cfg.Fetch == nil || cfg.Wrap == nil || cfg.Unwrap == nil ||
		cfg.Combine == nil || cfg.OnTimeout == nil {
		return nil, perr.InvalidConfigf("resolver %q is missing a required component", cfg.Engine)
	}
	if cfg.Workers < 0 || cfg.GroupTimeout < 0 {
		return nil, perr.InvalidConfigf("resolver %q: workers and group timeout must not be negative", cfg.Engine)
	}
	r := &Resolver[P, V, G]{cfg: cfg, log: cfg.Log, obs: cfg.Observer}
	if r.log == nil {
		r.log = logger.Named(cfg.Engine)
	}
	if r.obs == nil {
		r.obs = nopObserver{}
	}
	return r, nil
}

// Registry returns the underlying registry
func (r *Resolver[P, V, G]) Registry() *registry.Registry[P] { return r.cfg.Registry }

// Key returns the cache key for scope
func (r *Resolver[P, V, G]) Key(scope string) string { return r.cfg.Keys.Key(scope) }

// Names drops blank and repeated names; nothing left is NoProvidersSpecified
func Names(in []string) ([]string, error) {
	out := str.Dedupe(str.NonEmpty(in))
	if len(out) == 0 {
		return nil, perr.NoProviders()
	}
	return out, nil
}

// Scope is the group cache scope for names: sorted and underscore joined
func Scope(names []string) string { return str.SortedJoin(names, "_") }

// One resolves a single provider: cache, then provider, then cache store
func (r *Resolver[P, V, G]) One(ctx context.Context, name string) (v V, err error) {
	defer func() { r.obs.Resolution(r.cfg.Engine, "one", err) }()

	p, ok := r.cfg.Registry.Get(name)
	if !ok {
		return v, perr.NotRegistered(name)
	}
	key := r.cfg.Keys.Key(name)
	log := logger.C(ctx, r.log)

	if r.cfg.Cache != nil {
		g, hit, err := r.cfg.Cache.TryGet(ctx, key)
		if err != nil {
			r.obs.CacheLookup(r.cfg.Engine, "entry", "error")
			log.Error().Err(err).Str("provider", name).Str("key", key).Msg("cache read failed")
			return v, err
		}
		if hit {
			if cached, ok := r.cfg.Unwrap(name, g); ok {
				r.obs.CacheLookup(r.cfg.Engine, "entry", "hit")
				log.Debug().Str("provider", name).Str("key", key).Msg("cache hit")
				return cached, nil
			}
		}
		r.obs.CacheLookup(r.cfg.Engine, "entry", "miss")
	}

	start := time.Now()
	v = r.cfg.Fetch(ctx, name, p)
	r.obs.ProviderDone(r.cfg.Engine, name, time.Since(start))

	// a probe cut short by cancellation is not worth remembering
	if r.cfg.Cache != nil && ctx.Err() == nil {
		if err := r.cfg.Cache.TrySet(ctx, key, r.cfg.Wrap(name, v)); err != nil {
			log.Error().Err(err).Str("provider", name).Str("key", key).Msg("cache write failed")
			return v, err
		}
	}
	return v, nil
}

// Many resolves names as one group under their sorted scope
func (r *Resolver[P, V, G]) Many(ctx context.Context, names []string) (G, error) {
	names, err := Names(names)
	if err != nil {
		var zero G
		r.obs.Resolution(r.cfg.Engine, "group", err)
		return zero, err
	}
	return r.Group(ctx, Scope(names), names)
}

// All resolves every registered provider under the "all" scope
func (r *Resolver[P, V, G]) All(ctx context.Context) (G, error) {
	return r.Group(ctx, cachegw.ScopeAll, r.cfg.Registry.Names())
}

// Group resolves names under scope: group cache, then concurrent per-name
// resolution, then combine, then group cache store unless a member timed out
func (r *Resolver[P, V, G]) Group(ctx context.Context, scope string, names []string) (g G, err error) {
	defer func() { r.obs.Resolution(r.cfg.Engine, "group", err) }()

	key := r.cfg.Keys.Key(scope)
	ctx = logger.WithResolution(ctx, uuid.NewString(), scope)
	log := logger.C(ctx, r.log)

	if r.cfg.Cache != nil {
		cached, hit, err := r.cfg.Cache.TryGet(ctx, key)
		if err != nil {
			r.obs.CacheLookup(r.cfg.Engine, "group", "error")
			log.Error().Err(err).Str("key", key).Msg("group cache read failed")
			return g, err
		}
		if hit {
			r.obs.CacheLookup(r.cfg.Engine, "group", "hit")
			log.Debug().Str("key", key).Msg("group cache hit")
			return cached, nil
		}
		r.obs.CacheLookup(r.cfg.Engine, "group", "miss")
	}

	members, timedOut, err := r.fanOut(ctx, names)
	if err != nil {
		return g, err
	}
	if timedOut > 0 {
		log.Warn().Int("timed_out", timedOut).Int("members", len(members)).
			Dur("group_timeout", r.cfg.GroupTimeout).Msg("group deadline reached, substituting unfinished probes")
	}

	g, err = r.cfg.Combine(members)
	if err != nil {
		return g, err
	}

	if r.cfg.Cache != nil && timedOut == 0 {
		if err := r.cfg.Cache.TrySet(ctx, key, g); err != nil {
			log.Error().Err(err).Str("key", key).Msg("group cache write failed")
			return g, err
		}
	}
	return g, nil
}

// fanOut resolves every name through One, at most Workers at a time
// when the group deadline passes, unfinished members get OnTimeout values
func (r *Resolver[P, V, G]) fanOut(ctx context.Context, names []string) ([]Member[V], int, error) {
	gctx, cancel := ctx, context.CancelFunc(func() {})
	if r.cfg.GroupTimeout > 0 {
		gctx, cancel = context.WithTimeout(ctx, r.cfg.GroupTimeout)
	}
	defer cancel()

	var (
		mu       sync.Mutex
		members  = make([]Member[V], len(names))
		finished = make([]bool, len(names))
		firstErr error
	)

	eg, egctx := errgroup.WithContext(gctx)
	if r.cfg.Workers > 0 {
		eg.SetLimit(r.cfg.Workers)
	}

	done := make(chan error, 1)
	go func() {
		for i, name := range names {
			// Go blocks while the worker limit is reached
			eg.Go(func() error {
				if egctx.Err() != nil {
					return nil
				}
				v, err := r.One(egctx, name)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					return err
				}
				mu.Lock()
				defer mu.Unlock()
				// answers that arrive after the deadline count as abandoned
				if egctx.Err() != nil {
					return nil
				}
				members[i] = Member[V]{Name: name, Value: v}
				finished[i] = true
				return nil
			})
		}
		done <- eg.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			return nil, 0, err
		}
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		// members skipped after a deadline that raced with completion
		return r.substitute(&mu, names, members, finished)
	case <-gctx.Done():
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		// a member that failed before the deadline still fails the group
		mu.Lock()
		err := firstErr
		mu.Unlock()
		if err != nil {
			return nil, 0, err
		}
		return r.substitute(&mu, names, members, finished)
	}
}

func (r *Resolver[P, V, G]) substitute(mu *sync.Mutex, names []string, members []Member[V], finished []bool) ([]Member[V], int, error) {
	mu.Lock()
	defer mu.Unlock()
	out := make([]Member[V], len(names))
	timedOut := 0
	for i, name := range names {
		if finished[i] {
			out[i] = members[i]
			continue
		}
		timedOut++
		out[i] = Member[V]{Name: name, Value: r.cfg.OnTimeout(name), TimedOut: true}
	}
	return out, timedOut, nil
}
