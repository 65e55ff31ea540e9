package cache

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"

	"github.com/driversheet/driversheet-web/internal/pkg/config"
)

var client *redis.Client

// SetupCache connects to the redis/dragonfly server backing sessions. A
// failed ping is logged, not fatal; /health reports it.
func SetupCache(cfg *config.Config) *redis.Client {
	client = redis.NewClient(&redis.Options{
		Addr:     cfg.CacheAddr(),
		Password: cfg.CachePassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if pong, err := client.Ping(ctx).Result(); err != nil {
		log.Warnf("could not connect to cache at %s: %v", cfg.CacheAddr(), err)
	} else {
		log.Infof("connected to cache: %s", pong)
	}
	return client
}

// UseClient replaces the shared client, mainly for tests.
func UseClient(c *redis.Client) {
	client = c
}

// GetClient returns the shared client, or nil when sessions are kept in
// memory.
func GetClient() *redis.Client {
	return client
}

// Ping checks the cache connection. Without a client there is nothing to
// check and it succeeds.
func Ping(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return client.Ping(ctx).Err()
}
