package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/iyhunko/product-catalog-service/internal/metrics"
)

// Namespace is a typed view over a Store. Values are stored as JSON under "<name>::<key>" with a fixed TTL.
//
// Backend failures never reach the caller: they are logged and turned into a miss (reads) or a no-op (writes).
type Namespace[T any] struct {
	store Store
	name  string
	ttl   time.Duration
}

// NewNamespace creates a namespace named name whose entries live for ttl.
func NewNamespace[T any](store Store, name string, ttl time.Duration) *Namespace[T] {
	return &Namespace[T]{store: store, name: name, ttl: ttl}
}

// Name returns the namespace name.
func (n *Namespace[T]) Name() string {
	return n.name
}

// TTL returns the lifetime of entries written to the namespace.
func (n *Namespace[T]) TTL() time.Duration {
	return n.ttl
}

// Get returns the cached value for key.
func (n *Namespace[T]) Get(ctx context.Context, key string) (T, bool) {
	var value T

	data, found, err := n.store.Get(ctx, Key(n.name, key))
	if err != nil {
		n.warn("get", key, err)
		found = false
	}
	if !found {
		metrics.CacheMisses.WithLabelValues(n.name).Inc()
		return value, false
	}

	if err := json.Unmarshal(data, &value); err != nil {
		n.warn("decode", key, err)
		metrics.CacheMisses.WithLabelValues(n.name).Inc()
		return value, false
	}

	metrics.CacheHits.WithLabelValues(n.name).Inc()
	return value, true
}

// Set stores value under key.
func (n *Namespace[T]) Set(ctx context.Context, key string, value T) {
	data, err := json.Marshal(value)
	if err != nil {
		n.warn("encode", key, err)
		return
	}
	if err := n.store.Set(ctx, Key(n.name, key), data, n.ttl); err != nil {
		n.warn("set", key, err)
	}
}

// Evict removes the given keys.
func (n *Namespace[T]) Evict(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	storeKeys := make([]string, len(keys))
	for i, key := range keys {
		storeKeys[i] = Key(n.name, key)
	}
	if err := n.store.Delete(ctx, storeKeys...); err != nil {
		n.warn("evict", "", err)
	}
}

// Clear removes every entry of the namespace.
func (n *Namespace[T]) Clear(ctx context.Context) {
	if err := n.store.DeleteByPrefix(ctx, n.name+KeySeparator); err != nil {
		n.warn("clear", "", err)
	}
}

func (n *Namespace[T]) warn(operation, key string, err error) {
	metrics.CacheErrors.WithLabelValues(n.name, operation).Inc()
	slog.Warn("cache operation failed",
		slog.String("namespace", n.name),
		slog.String("operation", operation),
		slog.String("key", key),
		slog.Any("err", err),
	)
}
