// Package cache holds generated responses keyed by normalized prompt so
// repeated identical questions skip the upstream call.
package cache

import (
	"context"
	"strings"
	"time"
)

// DefaultTTL is how long an entry stays live.
const DefaultTTL = 30 * time.Minute

// Store is the response cache contract. Get treats expired entries as absent.
// Put unconditionally overwrites any existing entry for the key.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, response string) error
}

// Key normalizes a prompt into a cache key: trim, then lowercase. No further
// canonicalization.
func Key(prompt string) string {
	return strings.ToLower(strings.TrimSpace(prompt))
}
