// Package module implements the status module
package module

import (
	"bgg/internal/core/registry"
	"bgg/internal/modkit"
	perr "bgg/internal/platform/errors"
	str "bgg/internal/platform/strings"
	"bgg/internal/services/status/domain"
	"bgg/internal/services/status/providers"
	"bgg/internal/services/status/service"
)

// Name is the module name
const Name = "status"

// Ports exposed by the status module
type Ports struct {
	Engine domain.EnginePort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports Ports
}

// WithProviders registers extra providers after the built-ins
func WithProviders(entries ...registry.Entry[domain.Provider]) modkit.Option {
	return modkit.WithPorts(entries)
}

// New constructs the status module: config merged with overrides, built-ins
// wired from deps, then any providers passed through WithProviders
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{modkit.WithName(Name)}, opts...)...)

	cfg := merge(FromConfig(deps.Cfg), overrides)

	entries, err := builtins(deps, cfg)
	if err != nil {
		return nil, err
	}
	if extra, ok := b.Ports.([]registry.Entry[domain.Provider]); ok {
		entries = append(entries, extra...)
	}

	svc, err := service.New(service.Config{
		Options:   cfg.Engine,
		Cache:     deps.Cache,
		Metrics:   deps.Metrics,
		Log:       deps.Named(Name),
		Providers: entries,
	})
	if err != nil {
		return nil, err
	}

	return &Module{deps: deps, opts: cfg, ports: Ports{Engine: svc}}, nil
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return Name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Options returns the merged options the module was built with
func (m *Module) Options() Options { return m.opts }

func merge(cfg, o Options) Options {
	if o.Engine.CacheEnabled {
		cfg.Engine.CacheEnabled = true
	}
	if o.Engine.CacheTTL != 0 {
		cfg.Engine.CacheTTL = o.Engine.CacheTTL
	}
	if o.Engine.CacheKey != "" {
		cfg.Engine.CacheKey = o.Engine.CacheKey
	}
	if o.Engine.HashAlgo != "" {
		cfg.Engine.HashAlgo = o.Engine.HashAlgo
	}
	if o.Engine.Workers != 0 {
		cfg.Engine.Workers = o.Engine.Workers
	}
	if o.Engine.GroupTimeout != 0 {
		cfg.Engine.GroupTimeout = o.Engine.GroupTimeout
	}
	cfg.Providers = str.IfEmpty(o.Providers, cfg.Providers)
	cfg.RedisSections = str.IfEmpty(o.RedisSections, cfg.RedisSections)
	cfg.RedisExcludedKeys = str.IfEmpty(o.RedisExcludedKeys, cfg.RedisExcludedKeys)
	if o.PGDatabaseName != "" {
		cfg.PGDatabaseName = o.PGDatabaseName
	}
	if o.WebsiteURL != "" {
		cfg.WebsiteURL = o.WebsiteURL
	}
	if o.WebsiteTimeout != 0 {
		cfg.WebsiteTimeout = o.WebsiteTimeout
	}
	if o.WebsiteDesiredTime != 0 {
		cfg.WebsiteDesiredTime = o.WebsiteDesiredTime
	}
	return cfg
}

// builtins constructs the requested built-in providers
// with no explicit list, each backend-backed provider is included only when its backend is wired
func builtins(deps modkit.Deps, cfg Options) ([]registry.Entry[domain.Provider], error) {
	explicit := len(cfg.Providers) > 0
	names := cfg.Providers
	if !explicit {
		names = providers.Names()
	}

	var out []registry.Entry[domain.Provider]
	add := func(name string, p domain.Provider) {
		out = append(out, registry.Entry[domain.Provider]{Name: name, Provider: p})
	}
	missing := func(name, backend string) error {
		if explicit {
			return perr.WithField(perr.InvalidConfigf("provider %q needs %s, which is not configured", name, backend), "providers")
		}
		return nil
	}

	for _, name := range str.Dedupe(names) {
		switch str.Lower(name) {
		case providers.NameApplication:
			add(providers.NameApplication, providers.NewApplication())
		case providers.NameRuntime:
			add(providers.NameRuntime, providers.NewRuntime())
		case providers.NameDatabase:
			if deps.PG == nil {
				if err := missing(name, "postgres"); err != nil {
					return nil, err
				}
				continue
			}
			details := providers.PostgresDetailsQuery(cfg.PGDatabaseName)
			p, err := providers.NewSQL(deps.PG, providers.PingQuery(), &details)
			if err != nil {
				return nil, err
			}
			add(providers.NameDatabase, p)
		case providers.NameClickhouse:
			if deps.CH == nil {
				if err := missing(name, "clickhouse"); err != nil {
					return nil, err
				}
				continue
			}
			p, err := providers.NewClickhouse(deps.CH)
			if err != nil {
				return nil, err
			}
			add(providers.NameClickhouse, p)
		case providers.NameRedis:
			if deps.Redis == nil {
				if err := missing(name, "redis"); err != nil {
					return nil, err
				}
				continue
			}
			p, err := providers.NewRedis(deps.Redis, providers.RedisOptions{
				Sections:     cfg.RedisSections,
				ExcludedKeys: cfg.RedisExcludedKeys,
			})
			if err != nil {
				return nil, err
			}
			add(providers.NameRedis, p)
		case providers.NameWebsite:
			if cfg.WebsiteURL == "" {
				if err := missing(name, "STATUS_WEBSITE_URL"); err != nil {
					return nil, err
				}
				continue
			}
			p, err := providers.NewWebsite(providers.WebsiteOptions{
				URL:         cfg.WebsiteURL,
				Timeout:     cfg.WebsiteTimeout,
				DesiredTime: cfg.WebsiteDesiredTime,
				AddHeaders:  cfg.WebsiteAddHeaders,
				AddTime:     cfg.WebsiteAddTime,
			})
			if err != nil {
				return nil, perr.WithField(perr.Wrap(err, perr.ErrorCodeInvalidConfiguration, "website provider"), "website_url")
			}
			add(providers.NameWebsite, p)
		default:
			return nil, perr.WithField(perr.InvalidConfigf("unknown status provider %q", name), "providers")
		}
	}
	return out, nil
}
