package utils

import (
	"context"
	"fmt"
	"time"

	"pijatku/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient backs the directory cache and realtime pub/sub.
	CacheClient *redis.Client
)

// NewRedisClient connects to db on the configured Redis server and pings it.
func NewRedisClient(db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis db %d: %w", db, err)
	}
	return client, nil
}

// InitCache initializes the generic Redis cache client.
func InitCache() error {
	client, err := NewRedisClient(config.AppConfig.RedisCacheDB)
	if err != nil {
		return err
	}
	CacheClient = client
	return nil
}
