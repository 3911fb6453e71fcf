// Package providers holds the built-in status providers
// every provider contains its own failures: errors and panics become an ERROR result
package providers

import (
	"context"

	perr "bgg/internal/platform/errors"
	"bgg/internal/platform/logger"
	"bgg/internal/services/status/domain"
)

// Built-in provider names, as accepted by STATUS_PROVIDERS
const (
	NameApplication = "application"
	NameDatabase    = "database"
	NameClickhouse  = "clickhouse"
	NameRedis       = "redis"
	NameWebsite     = "website"
	NameRuntime     = "runtime"
)

// Names lists the built-in provider names
func Names() []string {
	return []string{NameApplication, NameDatabase, NameClickhouse, NameRedis, NameWebsite, NameRuntime}
}

// contain runs probe and turns a panic into an ERROR result
func contain(ctx context.Context, name string, probe func(ctx context.Context) domain.Result) (r domain.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.C(ctx, logger.Named("status.providers")).Error().
				Str("provider", name).Interface("panic", rec).Msg("probe panicked")
			r = domain.Error()
		}
	}()
	return probe(ctx)
}

// failed logs a probe error at debug with its classification and returns ERROR
func failed(ctx context.Context, name string, err error) domain.Result {
	ev := logger.C(ctx, logger.Named("status.providers")).Debug().
		Str("provider", name).Err(err).Str("code", perr.CodeOf(err).String())
	if state := perr.SQLState(err); state != "" {
		ev = ev.Str("sqlstate", state)
	}
	ev.Msg("probe failed")
	return domain.Error()
}
