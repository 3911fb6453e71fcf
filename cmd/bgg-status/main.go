// Command bgg-status resolves status and last modified providers configured from env
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bgg/internal/modkit"
	"bgg/internal/modkit/module"
	"bgg/internal/platform/cache"
	"bgg/internal/platform/config"
	"bgg/internal/platform/logger"
	phttp "bgg/internal/platform/net/http"
	"bgg/internal/platform/store"
	str "bgg/internal/platform/strings"
	"bgg/internal/platform/telemetry"

	lmdom "bgg/internal/services/lastmodified/domain"
	lmmod "bgg/internal/services/lastmodified/module"
	stdom "bgg/internal/services/status/domain"
	stmod "bgg/internal/services/status/module"

	"gopkg.in/yaml.v3"
)

type lastModifiedOut struct {
	Timestamp int64  `json:"timestamp" yaml:"timestamp"`
	Formatted string `json:"formatted" yaml:"formatted"`
}

type watchOut struct {
	At           string           `json:"at" yaml:"at"`
	Status       stdom.Results    `json:"status,omitempty" yaml:"status,omitempty"`
	LastModified *lastModifiedOut `json:"last_modified,omitempty" yaml:"last_modified,omitempty"`
}

func main() {
	var (
		fMode      = flag.String("mode", "status", "what to resolve: status | lastmodified | watch")
		fProviders = flag.String("providers", "", "comma-separated provider names (empty = all); watch mode gives each engine the names it has")
		fFormat    = flag.String("format", "json", "output format: json | yaml")
		fInterval  = flag.Duration("interval", 30*time.Second, "watch mode poll interval")
		fMetrics   = flag.String("metrics-addr", "", "serve prometheus metrics on this address (empty = off)")
	)
	flag.Parse()

	logger.Init(logger.FromEnv())
	l := logger.Get()

	root := config.New()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, storeConfig(root), store.WithLogger(*l))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	backend, closeCache, err := openCache(root.Prefix("CACHE_"), st)
	if err != nil {
		l.Fatal().Err(err).Msg("cache backend")
	}
	defer closeCache()

	metrics := telemetry.New("bgg")
	if *fMetrics != "" {
		go serveMetrics(ctx, *fMetrics, metrics, l)
	}

	deps := modkit.Deps{
		Log:     *l,
		Cfg:     root,
		Cache:   backend,
		Metrics: metrics,
	}.WithStore(st)

	sm, err := stmod.New(deps, stmod.Options{})
	if err != nil {
		l.Fatal().Err(err).Msg("status module")
	}
	module.Register(sm.Name(), sm.Ports())

	lm, err := lmmod.New(deps, lmmod.Options{})
	if err != nil {
		l.Fatal().Err(err).Msg("lastmodified module")
	}
	module.Register(lm.Name(), lm.Ports())

	l.Debug().Strs("modules", module.Names()).Msg("modules registered")

	status := module.MustPortsOf[stmod.Ports](sm).Engine
	lastMod := module.MustPortsOf[lmmod.Ports](lm).Engine
	names := str.Dedupe(str.SplitCSV(*fProviders))

	switch *fMode {
	case "status":
		res, err := resolveStatus(ctx, status, names)
		if err != nil {
			l.Fatal().Err(err).Msg("status")
		}
		mustRender(os.Stdout, *fFormat, res, l)
	case "lastmodified":
		out, err := resolveLastModified(ctx, lastMod, names)
		if err != nil {
			l.Fatal().Err(err).Msg("lastmodified")
		}
		mustRender(os.Stdout, *fFormat, out, l)
	case "watch":
		watch(ctx, *fInterval, *fFormat, names, status, lastMod, l)
	default:
		l.Fatal().Str("mode", *fMode).Msg("unknown mode")
	}
}

// storeConfig enables each backend whose url or address is set
func storeConfig(root config.Conf) store.Config {
	pg := root.Prefix("SERVICE_PGSQL_")
	ch := root.Prefix("SERVICE_CLICKHOUSE_")
	rds := root.Prefix("SERVICE_REDIS_")

	pgURL := pg.MayString("DBURL", "")
	chURL := ch.MayString("DBURL", "")
	rdsAddr := rds.MayString("ADDR", "")

	return store.Config{
		AppName: "bgg-status",
		PG: store.PGConfig{
			Enabled:     pgURL != "",
			URL:         pgURL,
			MaxConns:    int32(pg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pg.MayInt("SLOW_MS", 500),
			LogSQL:      pg.MayBool("LOG_SQL", false),
		},
		CH: store.CHConfig{
			Enabled: chURL != "",
			URL:     chURL,
		},
		RDS: store.RedisConfig{
			Enabled:  rdsAddr != "",
			Addr:     rdsAddr,
			Password: rds.MayString("PASSWORD", ""),
			DB:       rds.MayInt("DB", 0),
		},
	}
}

// openCache picks the backend named by CACHE_DRIVER; the returned func releases it
func openCache(cfg config.Conf, st *store.Store) (cache.Backend, func(), error) {
	noop := func() {}
	switch cache.Driver(cfg.MayEnum("DRIVER", string(cache.DriverMemory), cache.Drivers()...)) {
	case cache.DriverNone:
		return nil, noop, nil
	case cache.DriverRedis:
		if st.Redis == nil {
			return nil, noop, errors.New("CACHE_DRIVER=redis needs SERVICE_REDIS_ADDR")
		}
		return cache.NewRedis(st.Redis, cfg.MayString("PREFIX", "")), noop, nil
	case cache.DriverLevelDB:
		db, err := cache.OpenLevelDB(cfg.MayString("LEVELDB_PATH", "./var/cache"))
		if err != nil {
			return nil, noop, err
		}
		return db, func() { _ = db.Close() }, nil
	default:
		return cache.NewMemory(cfg.MayInt("MEMORY_SIZE", 0), 0), noop, nil
	}
}

// serveMetrics exposes the prometheus registry until ctx ends
func serveMetrics(ctx context.Context, addr string, m *telemetry.Metrics, l *logger.Logger) {
	srv := phttp.NewServer(addr)
	srv.Router().Handle("/metrics", m.Handler())
	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("metrics server stopped")
	}
}

func resolveStatus(ctx context.Context, eng stdom.EnginePort, names []string) (stdom.Results, error) {
	switch len(names) {
	case 0:
		return eng.Status(ctx, "all")
	case 1:
		return eng.Status(ctx, names[0])
	default:
		return eng.StatusMany(ctx, names)
	}
}

func resolveLastModified(ctx context.Context, eng lmdom.EnginePort, names []string) (lastModifiedOut, error) {
	var (
		ts  int64
		err error
	)
	switch len(names) {
	case 0:
		ts, err = eng.LastModified(ctx, "all")
	case 1:
		ts, err = eng.LastModified(ctx, names[0])
	default:
		ts, err = eng.LastModifiedMany(ctx, names)
	}
	if err != nil {
		return lastModifiedOut{}, err
	}
	return lastModifiedOut{Timestamp: ts, Formatted: eng.Format(ts)}, nil
}

// watch resolves names (everything when empty) every interval until ctx ends
// each engine gets the subset of names it has registered and is skipped when that is empty
func watch(ctx context.Context, every time.Duration, format string, names []string, status stdom.EnginePort, lastMod lmdom.EnginePort, l *logger.Logger) {
	stNames, stOK := pick(names, status.ProviderNames())
	lmNames, lmOK := pick(names, lastMod.ProviderNames())

	tick := time.NewTicker(every)
	defer tick.Stop()
	for {
		out := watchOut{At: time.Now().UTC().Format(time.RFC3339)}
		if stOK {
			res, err := resolveStatus(ctx, status, stNames)
			if err != nil {
				l.Error().Err(err).Msg("status")
			}
			out.Status = res
		}
		if lmOK {
			lmOut, err := resolveLastModified(ctx, lastMod, lmNames)
			if err != nil {
				l.Error().Err(err).Msg("lastmodified")
			}
			out.LastModified = &lmOut
		}
		mustRender(os.Stdout, format, out, l)

		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}
	}
}

// pick keeps the requested names an engine knows; no request means all of them
func pick(requested, registered []string) ([]string, bool) {
	if len(requested) == 0 {
		return nil, true
	}
	known := make(map[string]struct{}, len(registered))
	for _, n := range registered {
		known[n] = struct{}{}
	}
	var out []string
	for _, n := range requested {
		if _, ok := known[n]; ok {
			out = append(out, n)
		}
	}
	return out, len(out) > 0
}

func mustRender(w io.Writer, format string, v any, l *logger.Logger) {
	if err := render(w, format, v); err != nil {
		l.Fatal().Err(err).Msg("render")
	}
}

func render(w io.Writer, format string, v any) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
