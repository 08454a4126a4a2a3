package revcache

import "time"

// CacheEntry holds the result of the last successful computation for a key.
// Entries are replaced wholesale on every successful refresh; a stale entry
// is kept as fallback data until it is overwritten or the backend's garbage
// retention window purges it.
type CacheEntry[T any] struct {
	Data    *T
	Created time.Time
}

func newCacheEntry[T any](data *T, now time.Time) *CacheEntry[T] {
	return &CacheEntry[T]{Data: data, Created: now}
}

// Age returns how long ago the entry was created.
func (e *CacheEntry[T]) Age(now time.Time) time.Duration {
	return now.Sub(e.Created)
}

// IsStale reports whether the entry is older than the given lifetime.
func (e *CacheEntry[T]) IsStale(now time.Time, lifetime time.Duration) bool {
	return e.Age(now) >= lifetime
}
