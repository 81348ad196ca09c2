package cache

import (
	"context"
	"time"
)

// NopStore never stores anything. It is used when caching is disabled.
type NopStore struct{}

var _ Store = NopStore{}

func (NopStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NopStore) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NopStore) Delete(context.Context, ...string) error { return nil }
func (NopStore) DeleteByPrefix(context.Context, string) error { return nil }
