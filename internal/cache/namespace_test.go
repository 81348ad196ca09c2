package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	value, _ := args.Get(0).([]byte)
	return value, args.Bool(1), args.Error(2)
}

func (m *MockStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockStore) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockStore) DeleteByPrefix(ctx context.Context, prefix string) error {
	args := m.Called(ctx, prefix)
	return args.Error(0)
}

type cachedItem struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

func TestNamespace_RoundTrip(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	ns := NewNamespace[cachedItem](newTestMemoryStore(&now), "product", 5*time.Minute)

	// given
	_, found := ns.Get(ctx, "1")
	require.False(t, found)

	// when
	ns.Set(ctx, "1", cachedItem{ID: "1", Count: 7})

	// then
	item, found := ns.Get(ctx, "1")
	require.True(t, found)
	assert.Equal(t, cachedItem{ID: "1", Count: 7}, item)
	assert.Equal(t, "product", ns.Name())
	assert.Equal(t, 5*time.Minute, ns.TTL())
}

func TestNamespace_UsesPrefixedKeysAndTTL(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	ns := NewNamespace[cachedItem](store, "productsPage", 3*time.Minute)

	store.On("Set", ctx, "productsPage::0:10", []byte(`{"id":"p","count":1}`), 3*time.Minute).Return(nil)
	store.On("Delete", ctx, []string{"productsPage::0:10", "productsPage::1:10"}).Return(nil)
	store.On("DeleteByPrefix", ctx, "productsPage::").Return(nil)

	ns.Set(ctx, "0:10", cachedItem{ID: "p", Count: 1})
	ns.Evict(ctx, "0:10", "1:10")
	ns.Evict(ctx)
	ns.Clear(ctx)

	store.AssertExpectations(t)
	store.AssertNumberOfCalls(t, "Delete", 1)
}

func TestNamespace_DegradesOnBackendErrors(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	ns := NewNamespace[cachedItem](store, "product", time.Minute)
	backendErr := errors.New("connection refused")

	store.On("Get", ctx, "product::1").Return(nil, false, backendErr)
	store.On("Set", ctx, "product::1", mock.Anything, time.Minute).Return(backendErr)
	store.On("Delete", ctx, []string{"product::1"}).Return(backendErr)
	store.On("DeleteByPrefix", ctx, "product::").Return(backendErr)

	_, found := ns.Get(ctx, "1")
	assert.False(t, found)

	assert.NotPanics(t, func() {
		ns.Set(ctx, "1", cachedItem{ID: "1"})
		ns.Evict(ctx, "1")
		ns.Clear(ctx)
	})
	store.AssertExpectations(t)
}

func TestNamespace_CorruptEntryIsAMiss(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	ns := NewNamespace[cachedItem](store, "product", time.Minute)

	store.On("Get", ctx, "product::1").Return([]byte("not json"), true, nil)

	_, found := ns.Get(ctx, "1")

	assert.False(t, found)
	store.AssertExpectations(t)
}
