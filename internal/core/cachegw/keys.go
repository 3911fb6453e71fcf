package cachegw

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"hash/fnv"
	"sort"
	"strings"

	perr "bgg/internal/platform/errors"
)

// ScopeAll is the group scope used when every provider is resolved
const ScopeAll = "all"

// MaxScopeLen is the longest scope kept verbatim when a hash algorithm is configured
const MaxScopeLen = 64

var hashers = map[string]func() hash.Hash{
	"md5":        md5.New,
	"sha1":       sha1.New,
	"sha256":     sha256.New,
	"sha384":     sha512.New384,
	"sha512":     sha512.New,
	"sha512_256": sha512.New512_256,
	"fnv64a":     func() hash.Hash { return fnv.New64a() },
}

// HashAlgos lists the accepted hash algorithm names, sorted
func HashAlgos() []string {
	out := make([]string, 0, len(hashers))
	for k := range hashers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Keyer builds cache keys of the form {prefix}_{scope}
type Keyer struct {
	prefix string
	algo   string
}

// NewKeyer validates algo (empty disables hashing)
func NewKeyer(prefix, algo string) (Keyer, error) {
	algo = strings.ToLower(strings.TrimSpace(algo))
	if algo != "" {
		if _, ok := hashers[algo]; !ok {
			return Keyer{}, perr.WithField(
				perr.InvalidConfigf("unknown hash algorithm %q, want one of %s", algo, strings.Join(HashAlgos(), ", ")),
				"hash_algo")
		}
	}
	return Keyer{prefix: prefix, algo: algo}, nil
}

// Key returns {prefix}_{scope}; long scopes are digested when hashing is on
func (k Keyer) Key(scope string) string {
	if k.algo != "" && len(scope) > MaxScopeLen {
		h := hashers[k.algo]()
		h.Write([]byte(scope))
		scope = hex.EncodeToString(h.Sum(nil))
	}
	return k.prefix + "_" + scope
}

// Prefix returns the key prefix
func (k Keyer) Prefix() string { return k.prefix }
