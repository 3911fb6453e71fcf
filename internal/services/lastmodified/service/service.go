// Package service implements the last modified engine
package service

import (
	"context"
	"time"

	"bgg/internal/core/cachegw"
	"bgg/internal/core/registry"
	"bgg/internal/core/resolve"
	"bgg/internal/platform/cache"
	perr "bgg/internal/platform/errors"
	"bgg/internal/platform/logger"
	"bgg/internal/platform/telemetry"
	ptime "bgg/internal/platform/time"
	"bgg/internal/platform/validate"
	"bgg/internal/services/lastmodified/domain"
)

// Engine is the label used for logs and metrics
const Engine = "lastmodified"

// DefaultCacheTTL applies when caching is on and no TTL was given
const DefaultCacheTTL = 30 * time.Second

// Config for the last modified service
type Config struct {
	Options   domain.Options
	Cache     cache.Backend // required when Options.CacheEnabled
	Metrics   *telemetry.Metrics
	Log       *logger.Logger
	Providers []registry.Entry[domain.Provider]
}

// Service implements domain.EnginePort
// per-name and group cache entries both hold values already clamped into [0, now]
type Service struct {
	opts domain.Options
	reg  *registry.Registry[domain.Provider]
	res  *resolve.Resolver[domain.Provider, int64, int64]
	log  *logger.Logger

	metrics *telemetry.Metrics
}

// New validates options, registers the initial providers and wires the resolver
func New(cfg Config) (*Service, error) {
	opts := cfg.Options
	if opts.CacheTTL == 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.TimestampFormat == "" {
		opts.TimestampFormat = domain.DefaultTimestampFormat
	}
	if err := validate.Struct(opts); err != nil {
		return nil, err
	}
	if opts.CacheEnabled && cfg.Cache == nil {
		return nil, perr.CacheImplementationNeeded()
	}

	keys, err := cachegw.NewKeyer(opts.CacheKey, opts.HashAlgo)
	if err != nil {
		return nil, err
	}
	reg, err := registry.New(cfg.Providers...)
	if err != nil {
		return nil, err
	}

	log := cfg.Log
	if log == nil {
		log = logger.Named(Engine)
	}

	s := &Service{opts: opts, reg: reg, log: log, metrics: cfg.Metrics}

	var gw *cachegw.Gateway[int64]
	if opts.CacheEnabled {
		gw = cachegw.New[int64](cfg.Cache, cachegw.Integer{}, opts.CacheTTL)
	}

	s.res, err = resolve.New(resolve.Config[domain.Provider, int64, int64]{
		Engine:       Engine,
		Registry:     reg,
		Keys:         keys,
		Cache:        gw,
		Fetch:        s.fetch,
		Wrap:         func(_ string, v int64) int64 { return v },
		Unwrap:       func(_ string, g int64) (int64, bool) { return g, true },
		Combine:      latest,
		OnTimeout:    func(string) int64 { return domain.NoSignal },
		Workers:      opts.Workers,
		GroupTimeout: opts.GroupTimeout,
		Log:          log,
		Observer:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Options returns the validated options, defaults applied
func (s *Service) Options() domain.Options { return s.opts }

// LastModified resolves one provider, or the latest of all when name is "" or "all"
func (s *Service) LastModified(ctx context.Context, name string) (int64, error) {
	var (
		ts  int64
		err error
	)
	if name == "" || name == cachegw.ScopeAll {
		ts, err = s.res.All(ctx)
	} else {
		ts, err = s.res.One(ctx, name)
	}
	if err != nil {
		return 0, err
	}
	// cached values may come from another writer
	return ptime.Clamp(ts, ptime.Unix()), nil
}

// LastModifiedMany resolves the latest timestamp of names; blank and repeated names are dropped
func (s *Service) LastModifiedMany(ctx context.Context, names []string) (int64, error) {
	ts, err := s.res.Many(ctx, names)
	if err != nil {
		return 0, err
	}
	return ptime.Clamp(ts, ptime.Unix()), nil
}

// TimestampFormat returns the configured layout
func (s *Service) TimestampFormat() string { return s.opts.TimestampFormat }

// Format renders ts with the configured layout
func (s *Service) Format(ts int64) string { return ptime.Format(ts, s.opts.TimestampFormat) }

// AddProvider registers p under name
func (s *Service) AddProvider(name string, p domain.Provider) error {
	if err := s.reg.Add(name, p); err != nil {
		return err
	}
	s.log.Debug().Str("provider", name).Msg("provider added")
	return nil
}

// RemoveProvider unregisters name
func (s *Service) RemoveProvider(name string) error {
	if err := s.reg.Remove(name); err != nil {
		return err
	}
	s.log.Debug().Str("provider", name).Msg("provider removed")
	return nil
}

// Providers returns a snapshot of the registered providers
func (s *Service) Providers() map[string]domain.Provider {
	list := s.reg.List()
	out := make(map[string]domain.Provider, len(list))
	for _, e := range list {
		out[e.Name] = e.Provider
	}
	return out
}

// ProviderNames returns registered names in insertion order
func (s *Service) ProviderNames() []string { return s.reg.Names() }

// fetch calls the provider and clamps its answer into [0, now] before it is cached or combined
// a panic reads as NoSignal, which clamps to now like any other missing signal
func (s *Service) fetch(ctx context.Context, name string, p domain.Provider) int64 {
	ts := s.call(ctx, name, p)
	outcome := "signal"
	if ts < 0 {
		outcome = "no_signal"
	}
	s.metrics.ProviderResult(Engine, name, outcome)
	return ptime.Clamp(ts, ptime.Unix())
}

func (s *Service) call(ctx context.Context, name string, p domain.Provider) (ts int64) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.C(ctx, s.log).Error().Str("provider", name).Interface("panic", rec).Msg("provider panicked")
			ts = domain.NoSignal
		}
	}()
	return p.LastModified(ctx)
}

// latest is the clamped maximum; with no members it is now
// members abandoned at the group deadline carry NoSignal and do not pull the result to now
func latest(members []resolve.Member[int64]) (int64, error) {
	ts := domain.NoSignal
	for _, m := range members {
		if m.Value > ts {
			ts = m.Value
		}
	}
	return ptime.Clamp(ts, ptime.Unix()), nil
}

var _ domain.EnginePort = (*Service)(nil)
