package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a read-through cache for hot auction queries (bid history,
// current highest bid). A nil Cache disables caching entirely.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// BidHistoryKey returns the cache key for an auction's bid history
func BidHistoryKey(auctionID string) string {
	return "auction:" + auctionID + ":bids"
}

// HighestBidKey returns the cache key for an auction's current highest bid
func HighestBidKey(auctionID string) string {
	return "auction:" + auctionID + ":highest"
}

// RedisCache implements Cache on top of a Redis client
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis at the given address
func NewRedisCache(addr, password string) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	return &RedisCache{client: client}
}

// Get loads a cached value into dest, reporting whether the key was present
func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal([]byte(data), dest)
}

// Set stores a value under key with the given TTL
func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete removes the given keys
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
