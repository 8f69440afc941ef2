package redis

import (
	"context"
	"os"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/renthub/renthub/logger"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

// GetRedisClient returns a singleton Redis client. The client is nil when
// REDIS_URL is invalid; callers that treat Redis as optional should check.
func GetRedisClient() *redis.Client {
	redisOnce.Do(func() {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			redisURL = "redis://localhost:6379/0"
		}

		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			logger.ErrorLogger.Errorf("Invalid REDIS_URL: %v", err)
			return
		}

		client := redis.NewClient(opt)
		if _, err := client.Ping(context.Background()).Result(); err != nil {
			logger.WarnLogger.Warnf("Redis not reachable at startup: %v", err)
		} else {
			logger.InfoLogger.Info("Connected to Redis")
		}
		redisClient = client
	})

	return redisClient
}

// CloseRedis closes the Redis connection.
func CloseRedis() {
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.ErrorLogger.Errorf("Error closing Redis connection: %v", err)
		}
	}
}
