package cache

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/viccon/sturdyc"
)

// MemoryConfig holds the sturdyc settings of the in-process store.
type MemoryConfig struct {
	// Capacity is the maximum number of entries.
	Capacity int
	// NumShards is the number of independently locked shards.
	NumShards int
	// MaxTTL bounds every entry. Per-entry TTLs longer than this are cut to it.
	MaxTTL time.Duration
	// EvictionPercentage is the share of entries evicted when a shard is full.
	EvictionPercentage int
}

// DefaultMemoryConfig returns settings suitable for a single service instance.
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		Capacity:           10000,
		NumShards:          64,
		MaxTTL:             10 * time.Minute,
		EvictionPercentage: 10,
	}
}

// memoryEntry carries its own deadline since sturdyc applies one TTL to the whole client.
type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is a Store kept in process memory, used when no Redis address is configured.
type MemoryStore struct {
	client *sturdyc.Client[memoryEntry]
	maxTTL time.Duration
	now    func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an in-process store. Every entry lives at most conf.MaxTTL: a longer or
// non-positive TTL passed to Set is cut to MaxTTL, so MaxTTL must cover the longest namespace TTL.
func NewMemoryStore(conf MemoryConfig) *MemoryStore {
	return &MemoryStore{
		client: sturdyc.New[memoryEntry](conf.Capacity, conf.NumShards, conf.MaxTTL, conf.EvictionPercentage),
		maxTTL: conf.MaxTTL,
		now:    time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	entry, ok := s.client.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !s.now().Before(entry.expiresAt) {
		s.client.Delete(key)
		return nil, false, nil
	}

	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 || ttl > s.maxTTL {
		slog.Debug("cache ttl capped",
			slog.String("key", key),
			slog.Duration("ttl", ttl),
			slog.Duration("max_ttl", s.maxTTL))
		ttl = s.maxTTL
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	s.client.Set(key, memoryEntry{value: stored, expiresAt: s.now().Add(ttl)})
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		s.client.Delete(key)
	}
	return nil
}

func (s *MemoryStore) DeleteByPrefix(_ context.Context, prefix string) error {
	for _, key := range s.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			s.client.Delete(key)
		}
	}
	return nil
}
