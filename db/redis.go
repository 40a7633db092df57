package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"distrofm/config"
	"distrofm/model"

	"github.com/redis/go-redis/v9"
)

// StatusEventChannel is the pub/sub channel carrying distribution status
// transitions for live consumers (websocket feed, dashboards).
const StatusEventChannel = "distribution:events"

// RedisClient is the global Redis client.
var RedisClient *redis.Client

// ConnectRedis initializes the Redis connection.
func ConnectRedis(cfg *config.Config) error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := RedisClient.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return nil
}

// CloseRedis closes the Redis connection.
func CloseRedis() error {
	if RedisClient != nil {
		return RedisClient.Close()
	}
	return nil
}

// PublishStatusEvent publishes a distribution status transition. Events are
// best-effort notifications; the database remains the source of truth.
func PublishStatusEvent(ctx context.Context, event model.StatusEvent) error {
	if RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal status event: %w", err)
	}

	if err := RedisClient.Publish(ctx, StatusEventChannel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish status event: %w", err)
	}
	return nil
}

// SubscribeStatusEvents subscribes to the status event channel. The caller
// owns the returned PubSub and must Close it.
func SubscribeStatusEvents(ctx context.Context) *redis.PubSub {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Subscribe(ctx, StatusEventChannel)
}
