// Package modkit provides module wiring and core deps
package modkit

import (
	"bgg/internal/platform/cache"
	"bgg/internal/platform/config"
	"bgg/internal/platform/logger"
	"bgg/internal/platform/store"
	"bgg/internal/platform/telemetry"

	"github.com/redis/go-redis/v9"
)

// Deps holds core dependencies passed to modules
// this is wiring only; every backend is optional and nil when disabled
type Deps struct {
	Log     logger.Logger
	Cfg     config.Conf
	PG      store.RowQuerier
	CH      store.Clickhouse
	Redis   redis.UniversalClient
	Cache   cache.Backend
	Metrics *telemetry.Metrics
}

// WithStore copies the opened backends of s into d
func (d Deps) WithStore(s *store.Store) Deps {
	if s == nil {
		return d
	}
	d.PG, d.CH, d.Redis = s.PG, s.CH, s.Redis
	return d
}

// Named returns a component logger derived from d.Log
func (d Deps) Named(component string) *logger.Logger {
	l := d.Log.With().Str("component", component).Logger()
	return &l
}
