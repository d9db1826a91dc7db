package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/Fangsangik/shopping/internal/domain"
	"github.com/redis/go-redis/v9"
)

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r RedisCache) Get(ctx context.Context, itemID int64) (*domain.Item, error) {
	key := cacheKey(itemID)

	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var item domain.Item
	if err2 := json.Unmarshal(data, &item); err2 != nil {
		return nil, fmt.Errorf("unmarshal item failed: %w", err2)
	}

	return &item, nil
}

func (r RedisCache) Set(ctx context.Context, item *domain.Item) error {
	key := cacheKey(item.ID)
	jsonItem, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal item failed: %w", err)
	}

	// Jitter keeps a burst of cached items from expiring together.
	jitter := time.Duration(rand.Intn(5)) * time.Minute
	ttl := r.baseTTL + jitter
	if ret := r.client.Set(ctx, key, string(jsonItem), ttl); ret.Err() != nil {
		return fmt.Errorf("redis set failed: %w", ret.Err())
	}
	return nil
}

func (r RedisCache) Delete(ctx context.Context, itemID int64) error {
	key := cacheKey(itemID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}

	return nil
}

func cacheKey(itemID int64) string {
	return fmt.Sprintf("item:%d", itemID)
}
