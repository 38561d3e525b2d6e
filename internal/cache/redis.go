package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(cfg config.RedisConfig, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		ttl:    ttl,
	}
}

// GetSearch loads a cached search result set into dest. Returns false on a
// miss; dest is untouched in that case.
func (c *RedisCache) GetSearch(ctx context.Context, kind, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, searchKey(kind, key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) SetSearch(ctx context.Context, kind, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, searchKey(kind, key), payload, c.ttl).Err()
}

func searchKey(kind, key string) string {
	return fmt.Sprintf("cache:search:%s:%s", kind, key)
}
