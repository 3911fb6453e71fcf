// Package domain defines the types and ports of the last modified engine
package domain

import "time"

// NoSignal is what a provider reports when it has nothing to go on
const NoSignal int64 = -1

// DefaultTimestampFormat renders like "November 10, 2009 at 11:04:05 PM UTC"
const DefaultTimestampFormat = "January 2, 2006 at 03:04:05 PM MST"

// Options configures the last modified engine
type Options struct {
	CacheEnabled    bool          `json:"cache"`
	CacheTTL        time.Duration `json:"cache_ttl" validate:"gte=1s"`
	CacheKey        string        `json:"cache_key" validate:"required"`
	HashAlgo        string        `json:"hash_algo" validate:"omitempty,oneof=md5 sha1 sha256 sha384 sha512 sha512_256 fnv64a"`
	Workers         int           `json:"workers" validate:"gte=0"`
	GroupTimeout    time.Duration `json:"group_timeout" validate:"gte=0"`
	TimestampFormat string        `json:"timestamp_format" validate:"required,layout"`
}
