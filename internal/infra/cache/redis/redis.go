package redisx

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client behind the key-value surface used by the
// response cache and the token blacklist.
type Cache struct {
	rdb    *redis.Client
	logger *log.Logger
}

type Config struct {
	Addr     string
	DB       int
	Password string
}

func New(cfg Config, logger *log.Logger) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		DB:       cfg.DB,
		Password: cfg.Password,
	})
	return &Cache{rdb: rdb, logger: logger}
}

func (c *Cache) Ping(ctx context.Context) error {
	err := c.rdb.Ping(ctx).Err()
	if err != nil {
		c.logger.Printf("PING failed: %v", err)
	}
	return err
}

func (c *Cache) Close() {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Close(); err != nil {
		c.logger.Printf("error while closing: %v", err)
		return
	}
	c.logger.Println("closed")
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		c.logger.Printf("GET %q: error: %v", key, err)
		return nil, false, err
	}
	return b, true, nil
}

func (c *Cache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	err := c.rdb.Set(ctx, key, val, ttl).Err()
	if err != nil {
		c.logger.Printf("SET %q failed: %v", key, err)
	}
	return err
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	n, err := c.rdb.Del(ctx, keys...).Result()
	if err != nil {
		c.logger.Printf("DEL failed: %v", err)
		return err
	}
	c.logger.Printf("DEL: deleted=%d", n)
	return nil
}

// Scan collects every key matching pattern via incremental SCAN, so the
// invalidation prefix query never blocks the server the way KEYS would.
func (c *Cache) Scan(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	iter := c.rdb.Scan(ctx, 0, pattern, 256).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Printf("SCAN %q failed: %v", pattern, err)
		return nil, err
	}
	return keys, nil
}

// SetNX sets a value only when the key does not exist yet.
func (c *Cache) SetNX(ctx context.Context, key string, val []byte, ttl time.Duration) (bool, error) {
	ok, err := c.rdb.SetNX(ctx, key, val, ttl).Result()
	if err != nil {
		c.logger.Printf("SETNX %q failed: %v", key, err)
	}
	return ok, err
}

func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		c.logger.Printf("EXISTS %q failed: %v", key, err)
		return false, err
	}
	return n == 1, nil
}
