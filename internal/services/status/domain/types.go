// Package domain defines the types and ports of the status engine
package domain

import "time"

// Well known statuses; providers may report others
const (
	StatusOK      = "OK"
	StatusError   = "ERROR"
	StatusSlow    = "SLOW"
	StatusUnknown = "UNKNOWN"
)

// Result is one provider's answer
// detail keys marshal in lexical order
type Result struct {
	Status  string         `json:"status" yaml:"status"`
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
}

// OK returns an OK result with optional details
func OK(details map[string]any) Result {
	if len(details) == 0 {
		details = nil
	}
	return Result{Status: StatusOK, Details: details}
}

// Error is the uniform failure result
func Error() Result { return Result{Status: StatusError} }

// Results maps provider names to their results
type Results map[string]Result

// Options configures the status engine
type Options struct {
	CacheEnabled bool          `json:"cache"`
	CacheTTL     time.Duration `json:"cache_ttl" validate:"gte=1s"`
	CacheKey     string        `json:"cache_key" validate:"required"`
	HashAlgo     string        `json:"hash_algo" validate:"omitempty,oneof=md5 sha1 sha256 sha384 sha512 sha512_256 fnv64a"`
	Workers      int           `json:"workers" validate:"gte=0"`
	GroupTimeout time.Duration `json:"group_timeout" validate:"gte=0"`
}
