package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/revcache/revcache"
)

// Backend for cache that stores entries in redis.
//
// Entries are serialized to JSON, so the T type data has to be properly
// JSON-serializable. The garbage retention window passed to Set becomes the
// redis key TTL, so stale entries are purged by redis itself.
//
// The client will be closed when the parent cache is closed.
type Backend[T any] struct {
	client    *redis.Client
	keyPrefix string
}

var _ revcache.Backend[string] = &Backend[string]{}

func NewBackend[T any](client *redis.Client, keyPrefix string) (*Backend[T], error) {
	if client == nil {
		return nil, errors.New("redis client is nil")
	}

	return &Backend[T]{
		client:    client,
		keyPrefix: keyPrefix,
	}, nil
}

func (b *Backend[T]) Get(ctx context.Context, key string) (*revcache.CacheEntry[T], error) {
	data, err := b.client.Get(ctx, b.keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, fmt.Errorf("fetching entry from redis: %w", err)
	}

	return b.deserialize([]byte(data))
}

func (b *Backend[T]) Set(ctx context.Context, key string, garbageTTL time.Duration, entry *revcache.CacheEntry[T]) error {
	data, err := b.serialize(entry)
	if err != nil {
		return err
	}

	if err := b.client.Set(ctx, b.keyPrefix+key, string(data), garbageTTL).Err(); err != nil {
		return fmt.Errorf("storing entry in redis: %w", err)
	}

	return nil
}

func (b *Backend[T]) Close() {
	_ = b.client.Close()
}

type container[T any] struct {
	Data    *T        `json:"data"`
	Created time.Time `json:"created"`
}

func (b *Backend[T]) serialize(entry *revcache.CacheEntry[T]) ([]byte, error) {
	v, err := json.Marshal(container[T]{
		Data:    entry.Data,
		Created: entry.Created,
	})
	if err != nil {
		return nil, fmt.Errorf("serializing to json: %w", err)
	}

	return v, nil
}

func (b *Backend[T]) deserialize(data []byte) (*revcache.CacheEntry[T], error) {
	var c container[T]
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("deserializing json: %w", err)
	}

	return &revcache.CacheEntry[T]{
		Data:    c.Data,
		Created: c.Created,
	}, nil
}
