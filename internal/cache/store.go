// Package cache provides the key-value backends behind the read-through product cache and a typed
// namespace view over them.
package cache

import (
	"context"
	"time"
)

// KeySeparator joins a namespace and an entry key.
const KeySeparator = "::"

// Store is a byte-oriented key-value store with per-entry TTL.
type Store interface {
	// Get returns the value for key. A missing or expired key is reported with found == false and a nil error.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeleteByPrefix removes every key starting with prefix.
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// Key builds the store key of an entry inside a namespace.
func Key(namespace, key string) string {
	return namespace + KeySeparator + key
}
