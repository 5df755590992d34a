package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stridekart/catalog/internal/domain"
)

const topKeyPrefix = "catalog:top:"

// TopProductsCache caches top-rated product lists in Redis, keyed by list
// size. Entries expire after the configured TTL; mutations invalidate all
// sizes at once since any write can reorder the ranking.
type TopProductsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTopProductsCache creates a Redis-backed top products cache.
func NewTopProductsCache(client *redis.Client, ttl time.Duration) *TopProductsCache {
	return &TopProductsCache{client: client, ttl: ttl}
}

func topKey(n int) string {
	return fmt.Sprintf("%s%d", topKeyPrefix, n)
}

// Get returns the cached top-n list, or nil on a cache miss.
func (c *TopProductsCache) Get(ctx context.Context, n int) ([]domain.Product, error) {
	data, err := c.client.Get(ctx, topKey(n)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get top products from cache: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("unmarshal cached top products: %w", err)
	}

	return products, nil
}

// Set stores the top-n list with the cache TTL.
func (c *TopProductsCache) Set(ctx context.Context, n int, products []domain.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal top products: %w", err)
	}

	if err := c.client.Set(ctx, topKey(n), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set top products in cache: %w", err)
	}

	return nil
}

// Invalidate removes every cached top list.
func (c *TopProductsCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, topKeyPrefix+"*", 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan top product keys: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete top product keys: %w", err)
	}

	return nil
}
