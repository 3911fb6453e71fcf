package module

import (
	"time"

	"bgg/internal/core/cachegw"
	"bgg/internal/platform/config"
	"bgg/internal/services/status/domain"
	"bgg/internal/services/status/providers"
)

// Options holds configuration settings for the status module
type Options struct {
	Engine domain.Options

	// Providers lists built-ins to register; empty means every built-in whose backend is wired
	Providers []string

	RedisSections     []string
	RedisExcludedKeys []string

	PGDatabaseName string

	WebsiteURL         string
	WebsiteTimeout     time.Duration
	WebsiteDesiredTime time.Duration
	WebsiteAddHeaders  bool
	WebsiteAddTime     bool
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	sf := cfg.Prefix("STATUS_")
	return Options{
		Engine: domain.Options{
			CacheEnabled: sf.MayBool("CACHE", false),
			CacheTTL:     sf.MaySeconds("CACHE_TTL", 30*time.Second),
			CacheKey:     sf.MayString("CACHE_KEY", "status"),
			HashAlgo:     sf.MayEnum("HASH_ALGO", "", cachegw.HashAlgos()...),
			Workers:      sf.MayInt("WORKERS", 0),
			GroupTimeout: sf.MayDuration("GROUP_TIMEOUT", 0),
		},
		Providers:          sf.MayCSV("PROVIDERS", nil),
		RedisSections:      sf.MayCSV("REDIS_INFO_COMMANDS", providers.DefaultRedisSections),
		RedisExcludedKeys:  sf.MayCSV("REDIS_EXCLUDED_KEYS", providers.DefaultRedisExcludedKeys),
		PGDatabaseName:     sf.MayString("PG_DATABASE_NAME", "postgres"),
		WebsiteURL:         sf.MayString("WEBSITE_URL", ""),
		WebsiteTimeout:     sf.MaySeconds("WEBSITE_TIMEOUT", providers.DefaultWebsiteTimeout),
		WebsiteDesiredTime: sf.MayDuration("WEBSITE_DESIRED_TIME", providers.DefaultWebsiteDesiredTime),
		WebsiteAddHeaders:  sf.MayBool("WEBSITE_ADD_HEADERS", true),
		WebsiteAddTime:     sf.MayBool("WEBSITE_ADD_TIME", true),
	}
}
