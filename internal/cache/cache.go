// Package cache keeps serialized collection responses in Redis. Every
// resource has a generation counter; writes bump it, which orphans the
// cached pages of the previous generation until their TTL expires.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/1997daniela/employeeVaccineInventory/internal/config"
)

type ListCache struct {
	client    redis.UniversalClient // works with both single and cluster
	namespace string
	ttl       time.Duration
}

func New(cfg config.RedisConfig) *ListCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewWithClient(rdb, cfg.Namespace, cfg.ListTTL)
}

func NewWithClient(client redis.UniversalClient, namespace string, ttl time.Duration) *ListCache {
	return &ListCache{client: client, namespace: namespace, ttl: ttl}
}

func (c *ListCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *ListCache) Close() error {
	return c.client.Close()
}

// Get returns the cached payload for resource and query, if any, and the
// generation it looked in. A miss is filled by passing that generation to
// Set, so rows read before a concurrent Invalidate never land in the new
// generation.
func (c *ListCache) Get(ctx context.Context, resource, query string) ([]byte, int64, bool, error) {
	gen, err := c.generation(ctx, resource)
	if err != nil {
		return nil, 0, false, err
	}
	b, err := c.client.Get(ctx, PageKey(c.namespace, resource, gen, query)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, gen, false, fmt.Errorf("cache get %s: %w", resource, err)
	}
	return b, gen, true, nil
}

// Set stores payload under generation gen, as returned by Get.
func (c *ListCache) Set(ctx context.Context, resource, query string, gen int64, payload []byte) error {
	if err := c.client.Set(ctx, PageKey(c.namespace, resource, gen, query), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", resource, err)
	}
	return nil
}

// Invalidate starts a new generation for resource.
func (c *ListCache) Invalidate(ctx context.Context, resource string) error {
	if err := c.client.Incr(ctx, GenerationKey(c.namespace, resource)).Err(); err != nil {
		return fmt.Errorf("cache invalidate %s: %w", resource, err)
	}
	return nil
}

func (c *ListCache) generation(ctx context.Context, resource string) (int64, error) {
	gen, err := c.client.Get(ctx, GenerationKey(c.namespace, resource)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cache generation %s: %w", resource, err)
	}
	return gen, nil
}

func GenerationKey(namespace, resource string) string {
	return namespace + ":" + resource + ":gen"
}

func PageKey(namespace, resource string, gen int64, query string) string {
	return fmt.Sprintf("%s:%s:%d:%s", namespace, resource, gen, query)
}
