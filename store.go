package revcache

import (
	"context"
	"sync"
	"time"
)

// Backend stores cache entries keyed by string. Implementations must be safe
// for concurrent use.
type Backend[T any] interface {
	// Get retrieves the entry for key. A missing entry is (nil, nil), not an
	// error.
	Get(ctx context.Context, key string) (*CacheEntry[T], error)

	// Set stores the entry under key, replacing any prior entry. garbageTTL
	// is the maximum retention time: entries older than this may be purged
	// entirely. It is independent of per-call lifetimes, which only govern
	// staleness, not retention.
	Set(ctx context.Context, key string, garbageTTL time.Duration, entry *CacheEntry[T]) error

	// Close releases resources held by the backend.
	Close()
}

// MemoryBackend is the default Backend: a process-local map guarded by a
// mutex. Entries past their garbage retention deadline are dropped on read.
type MemoryBackend[T any] struct {
	mu      sync.Mutex
	entries map[string]memoryItem[T]
	clock   Clock
}

type memoryItem[T any] struct {
	entry    *CacheEntry[T]
	deadline time.Time
}

var _ Backend[string] = &MemoryBackend[string]{}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend[T any]() *MemoryBackend[T] {
	return &MemoryBackend[T]{
		entries: make(map[string]memoryItem[T]),
		clock:   SystemClock,
	}
}

func (b *MemoryBackend[T]) Get(ctx context.Context, key string) (*CacheEntry[T], error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	item, found := b.entries[key]
	if !found {
		return nil, nil
	}

	if !item.deadline.IsZero() && item.deadline.Before(b.clock.Now()) {
		delete(b.entries, key)
		return nil, nil
	}

	return item.entry, nil
}

func (b *MemoryBackend[T]) Set(ctx context.Context, key string, garbageTTL time.Duration, entry *CacheEntry[T]) error {
	item := memoryItem[T]{entry: entry}
	if garbageTTL > 0 {
		item.deadline = b.clock.Now().Add(garbageTTL)
	}

	b.mu.Lock()
	b.entries[key] = item
	b.mu.Unlock()

	return nil
}

func (b *MemoryBackend[T]) Close() {}
