// Package cache holds rendered public responses and drops them by tag after
// content writes.
package cache

import (
	"context"
	"time"
)

// Revalidation tags
const (
	TagContent  = "content"
	TagTaxonomy = "taxonomy"
)

// Store is a response cache with tag-based invalidation
type Store interface {
	// Get returns the cached value and whether it was present
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value for ttl and registers key under every tag
	Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error
	// RevalidateTag deletes every key registered under tag
	RevalidateTag(ctx context.Context, tag string) error
}

// NoopStore never caches. It is used when Redis is not configured.
type NoopStore struct{}

func (NoopStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (NoopStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	return nil
}

func (NoopStore) RevalidateTag(ctx context.Context, tag string) error {
	return nil
}
