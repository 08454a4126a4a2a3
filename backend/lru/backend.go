package lru

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/revcache/revcache"
)

// Backend for cache that stores entries in-memory using LRU cache.
//
// Capacity is the only eviction mechanism: the garbage retention window
// passed to Set is ignored, old entries fall out when the cache is full.
type Backend[T any] struct {
	cache *lru.Cache[string, *revcache.CacheEntry[T]]
}

var _ revcache.Backend[string] = &Backend[string]{}

func NewBackend[T any](size uint) (*Backend[T], error) {
	cache, err := lru.New[string, *revcache.CacheEntry[T]](int(size))
	if err != nil {
		return nil, fmt.Errorf("creating lru cache: %w", err)
	}

	return &Backend[T]{
		cache: cache,
	}, nil
}

func (b *Backend[T]) Get(ctx context.Context, key string) (*revcache.CacheEntry[T], error) {
	entry, found := b.cache.Get(key)
	if !found {
		return nil, nil
	}

	return entry, nil
}

func (b *Backend[T]) Set(ctx context.Context, key string, garbageTTL time.Duration, entry *revcache.CacheEntry[T]) error {
	_ = b.cache.Add(key, entry)

	return nil
}

func (b *Backend[T]) Close() {}
