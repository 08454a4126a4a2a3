package lru_test

import (
	"context"
	"testing"
	"time"

	"github.com/revcache/revcache"
	"github.com/revcache/revcache/backend/lru"
	"github.com/stretchr/testify/assert"
)

func TestBackend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	backend, err := lru.NewBackend[string](100)
	assert.NoError(t, err)

	entry := revcache.CacheEntry[string]{
		Data:    ptr("testvalue"),
		Created: time.Now().Add(-time.Minute),
	}

	key := "test"
	err = backend.Set(ctx, key, time.Hour, &entry)
	assert.NoError(t, err)

	gotEntry, err := backend.Get(ctx, key)
	assert.NoError(t, err)
	assert.Equal(t, &entry, gotEntry)
}

func TestBackendEviction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	backend, err := lru.NewBackend[string](1)
	assert.NoError(t, err)

	err = backend.Set(ctx, "first", time.Hour, &revcache.CacheEntry[string]{Data: ptr("a"), Created: time.Now()})
	assert.NoError(t, err)
	err = backend.Set(ctx, "second", time.Hour, &revcache.CacheEntry[string]{Data: ptr("b"), Created: time.Now()})
	assert.NoError(t, err)

	gotEntry, err := backend.Get(ctx, "first")
	assert.NoError(t, err)
	assert.Nil(t, gotEntry)

	gotEntry, err = backend.Get(ctx, "second")
	assert.NoError(t, err)
	assert.Equal(t, "b", *gotEntry.Data)
}

func ptr[T any](v T) *T {
	return &v
}
