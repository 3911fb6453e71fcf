// Package service implements the status engine
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
	"bgg/internal/platform/validate"
	"bgg/internal/services/status/domain"
)

// Engine is the label used for logs and metrics
const Engine = "status"

// DefaultCacheTTL applies when caching is on and no TTL was given
const DefaultCacheTTL = 30 * time.Second

// Config for the status service
type Config struct {
	Options   domain.Options
	Cache     cache.Backend // required when Options.CacheEnabled
	Metrics   *telemetry.Metrics
	Log       *logger.Logger
	Providers []registry.Entry[domain.Provider]
}

// Service implements domain.EnginePort
type Service struct {
	opts    domain.Options
	reg     *registry.Registry[domain.Provider]
	res     *resolve.Resolver[domain.Provider, domain.Result, domain.Results]
	log     *logger.Logger
	metrics *telemetry.Metrics
}

// New validates options, registers the initial providers and wires the resolver
func New(cfg Config) (*Service, error) {
	opts := cfg.Options
	if opts.CacheTTL == 0 {
		opts.CacheTTL = DefaultCacheTTL
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

	var gw *cachegw.Gateway[domain.Results]
	if opts.CacheEnabled {
		gw = cachegw.New[domain.Results](cfg.Cache, cachegw.JSON[domain.Results]{}, opts.CacheTTL)
	}

	s.res, err = resolve.New(resolve.Config[domain.Provider, domain.Result, domain.Results]{
		Engine:       Engine,
		Registry:     reg,
		Keys:         keys,
		Cache:        gw,
		Fetch:        s.fetch,
		Wrap:         wrap,
		Unwrap:       unwrap,
		Combine:      combine,
		OnTimeout:    func(string) domain.Result { return domain.Error() },
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

// Status resolves one provider, or all of them when name is "" or "all"
func (s *Service) Status(ctx context.Context, name string) (domain.Results, error) {
	if name == "" || name == cachegw.ScopeAll {
		return s.res.All(ctx)
	}
	r, err := s.res.One(ctx, name)
	if err != nil {
		return nil, err
	}
	return domain.Results{name: r}, nil
}

// StatusMany resolves names as one group; blank and repeated names are dropped
func (s *Service) StatusMany(ctx context.Context, names []string) (domain.Results, error) {
	return s.res.Many(ctx, names)
}

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

// fetch calls the provider; a panic or an empty status is folded into a result
// details are normalized to the shape the JSON cache returns
func (s *Service) fetch(ctx context.Context, name string, p domain.Provider) (r domain.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.C(ctx, s.log).Error().Str("provider", name).Interface("panic", rec).Msg("provider panicked")
			r = domain.Error()
		}
		s.metrics.ProviderResult(Engine, name, r.Status)
	}()

	r = p.Status(ctx)
	if r.Status == "" {
		r.Status = domain.StatusUnknown
	}
	r.Details = domain.NormalizeDetails(r.Details)
	if r.Status == domain.StatusError {
		logger.C(ctx, s.log).Warn().Str("provider", name).Msg("provider reported an error")
	}
	return r
}

func wrap(name string, r domain.Result) domain.Results { return domain.Results{name: r} }

func unwrap(name string, g domain.Results) (domain.Result, bool) {
	r, ok := g[name]
	return r, ok
}

func combine(members []resolve.Member[domain.Result]) (domain.Results, error) {
	out := make(domain.Results, len(members))
	for _, m := range members {
		out[m.Name] = m.Value
	}
	return out, nil
}

var _ domain.EnginePort = (*Service)(nil)
