// Package module implements the last modified module
package module

import (
	"bgg/internal/core/registry"
	"bgg/internal/modkit"
	perr "bgg/internal/platform/errors"
	str "bgg/internal/platform/strings"
	"bgg/internal/services/lastmodified/domain"
	"bgg/internal/services/lastmodified/providers"
	"bgg/internal/services/lastmodified/service"
)

// Name is the module name
const Name = "lastmodified"

// Ports exposed by the last modified module
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

// New constructs the last modified module
// the filesystem provider is registered when BasePath is set, the database provider when SQL is set
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{modkit.WithName(Name)}, opts...)...)

	cfg := merge(FromConfig(deps.Cfg), overrides)

	var entries []registry.Entry[domain.Provider]
	if cfg.BasePath != "" {
		fs, err := providers.NewFilesystem(cfg.BasePath, cfg.IncludedDirs...)
		if err != nil {
			return nil, err
		}
		entries = append(entries, registry.Entry[domain.Provider]{Name: providers.NameFilesystem, Provider: fs})
	}
	if cfg.SQL != "" {
		if deps.PG == nil {
			return nil, perr.WithField(perr.InvalidConfigf("LASTMODIFIED_SQL is set but postgres is not configured"), "sql")
		}
		p, err := providers.NewSQL(deps.PG, cfg.SQL)
		if err != nil {
			return nil, err
		}
		entries = append(entries, registry.Entry[domain.Provider]{Name: providers.NameDatabase, Provider: p})
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
	if o.Engine.TimestampFormat != "" {
		cfg.Engine.TimestampFormat = o.Engine.TimestampFormat
	}
	if o.BasePath != "" {
		cfg.BasePath = o.BasePath
	}
	cfg.IncludedDirs = str.IfEmpty(o.IncludedDirs, cfg.IncludedDirs)
	if o.SQL != "" {
		cfg.SQL = o.SQL
	}
	return cfg
}
