package providers

import (
	"bufio"
	"context"
	"math"
	"strconv"
	"strings"

	perr "bgg/internal/platform/errors"
	"bgg/internal/services/status/domain"

	"github.com/redis/go-redis/v9"
)

// Default INFO sections and keys dropped from redis details
var (
	DefaultRedisSections     = []string{"server", "clients", "memory", "stats", "cpu"}
	DefaultRedisExcludedKeys = []string{"tcp_port", "executable", "config_file"}
)

// RedisProbe is the capability a redis status check needs
// Info returns one INFO section as key/value pairs, nested k=v lists as maps
type RedisProbe interface {
	Ping(ctx context.Context) error
	Info(ctx context.Context, section string) (map[string]any, error)
}

// RedisOptions selects what goes into the details
type RedisOptions struct {
	Sections     []string
	ExcludedKeys []string
}

// RedisStatus pings, then merges the configured INFO sections into details
// nested values are flattened to dotted keys; excluded keys match either form
func RedisStatus(ctx context.Context, probe RedisProbe, opts RedisOptions) domain.Result {
	if probe == nil {
		return domain.Error()
	}
	if err := probe.Ping(ctx); err != nil {
		return failed(ctx, NameRedis, err)
	}

	details := map[string]any{}
	for _, section := range opts.Sections {
		if section == "" {
			continue
		}
		info, err := probe.Info(ctx, section)
		if err != nil {
			// the server answered the ping; a missing section only costs details
			failed(ctx, NameRedis, err)
			continue
		}
		flatten("", info, details)
	}
	for _, k := range opts.ExcludedKeys {
		delete(details, k)
		for dk := range details {
			if strings.HasPrefix(dk, k+".") {
				delete(details, dk)
			}
		}
	}
	return domain.OK(details)
}

func flatten(prefix string, in map[string]any, out map[string]any) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if m, ok := v.(map[string]any); ok {
			flatten(key, m, out)
			continue
		}
		out[key] = v
	}
}

// Redis is the go-redis backed redis provider
type Redis struct {
	probe RedisProbe
	opts  RedisOptions
}

// NewRedis returns a provider over client
func NewRedis(client redis.UniversalClient, opts RedisOptions) (*Redis, error) {
	if client == nil {
		return nil, perr.InvalidArgf("redis provider needs a client")
	}
	return &Redis{probe: GoRedisProbe{Client: client}, opts: opts}, nil
}

// NewRedisWithProbe returns a provider over any RedisProbe
func NewRedisWithProbe(probe RedisProbe, opts RedisOptions) (*Redis, error) {
	if probe == nil {
		return nil, perr.InvalidArgf("redis provider needs a probe")
	}
	return &Redis{probe: probe, opts: opts}, nil
}

// Status satisfies domain.Provider
func (r *Redis) Status(ctx context.Context) domain.Result {
	return contain(ctx, NameRedis, func(ctx context.Context) domain.Result {
		return RedisStatus(ctx, r.probe, r.opts)
	})
}

// GoRedisProbe implements RedisProbe over a go-redis client
type GoRedisProbe struct {
	Client redis.UniversalClient
}

// Ping satisfies RedisProbe
func (p GoRedisProbe) Ping(ctx context.Context) error {
	return p.Client.Ping(ctx).Err()
}

// Info satisfies RedisProbe
func (p GoRedisProbe) Info(ctx context.Context, section string) (map[string]any, error) {
	raw, err := p.Client.Info(ctx, section).Result()
	if err != nil {
		return nil, err
	}
	return ParseInfo(raw), nil
}

// ParseInfo parses INFO text: "# Section" headers and blank lines are skipped,
// "key:value" lines become entries, values shaped like "a=1,b=2" become maps
func ParseInfo(raw string) map[string]any {
	out := map[string]any{}
	sc := bufio.NewScanner(strings.NewReader(raw))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, ":")
		if !ok || k == "" {
			continue
		}
		if nested, ok := parsePairs(v); ok {
			out[k] = nested
			continue
		}
		out[k] = scalar(v)
	}
	return out
}

func parsePairs(v string) (map[string]any, bool) {
	if !strings.Contains(v, "=") {
		return nil, false
	}
	out := map[string]any{}
	for _, part := range strings.Split(v, ",") {
		k, val, ok := strings.Cut(part, "=")
		if !ok || k == "" {
			return nil, false
		}
		out[k] = scalar(val)
	}
	return out, true
}

func scalar(v string) any {
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	// NaN and Inf do not survive json
	if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return v
}
