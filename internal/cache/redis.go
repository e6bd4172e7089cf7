package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every cache key
const DefaultPrefix = "oohunt:cache:"

// RedisStore is a Store backed by Redis. Each tag is a set of the keys
// stored under it.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a RedisStore on client
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(key string) string {
	return s.prefix + key
}

func (s *RedisStore) tagKey(tag string) string {
	return s.prefix + "tag:" + tag
}

// Get implements Store
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cache: %w", err)
	}
	return val, true, nil
}

// Set implements Store. Tag sets live as long as their newest member.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	fullKey := s.key(key)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, fullKey, value, ttl)
		for _, tag := range tags {
			pipe.SAdd(ctx, s.tagKey(tag), fullKey)
			pipe.Expire(ctx, s.tagKey(tag), ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

// RevalidateTag implements Store
func (s *RedisStore) RevalidateTag(ctx context.Context, tag string) error {
	tagKey := s.tagKey(tag)

	keys, err := s.client.SMembers(ctx, tagKey).Result()
	if err != nil {
		return fmt.Errorf("failed to read cache tag %s: %w", tag, err)
	}

	keys = append(keys, tagKey)
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to revalidate cache tag %s: %w", tag, err)
	}
	return nil
}
