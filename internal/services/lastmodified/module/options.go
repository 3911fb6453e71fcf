package module

import (
	"time"

	"bgg/internal/core/cachegw"
	"bgg/internal/platform/config"
	"bgg/internal/services/lastmodified/domain"
)

// Options holds configuration settings for the last modified module
type Options struct {
	Engine domain.Options

	// BasePath is scanned flat; empty disables the filesystem provider
	BasePath     string
	IncludedDirs []string

	// SQL is an epoch-seconds query; empty disables the database provider
	SQL string
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	lf := cfg.Prefix("LASTMODIFIED_")
	return Options{
		Engine: domain.Options{
			CacheEnabled:    lf.MayBool("CACHE", false),
			CacheTTL:        lf.MaySeconds("CACHE_TTL", 30*time.Second),
			CacheKey:        lf.MayString("CACHE_KEY", "last_modified"),
			HashAlgo:        lf.MayEnum("HASH_ALGO", "", cachegw.HashAlgos()...),
			Workers:         lf.MayInt("WORKERS", 0),
			GroupTimeout:    lf.MayDuration("GROUP_TIMEOUT", 0),
			TimestampFormat: lf.MayString("TIMESTAMP_FORMAT", domain.DefaultTimestampFormat),
		},
		BasePath:     lf.MayString("BASE_PATH", ""),
		IncludedDirs: lf.MayCSV("INCLUDED_DIRS", nil),
		SQL:          lf.MayString("SQL", ""),
	}
}
