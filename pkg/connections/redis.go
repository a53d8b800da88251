package connections

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const keyPrefix = "daybook:connections:"

// RedisStore reads tool connections from the redis set the connection
// service maintains per user.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisStore connects to redis using a redis:// URL and verifies the
// connection.
func NewRedisStore(ctx context.Context, logger *slog.Logger, redisURL string) (*RedisStore, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(options)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = client.Ping(pingCtx).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.InfoContext(ctx, "Connected to Redis", "addr", options.Addr, "db", options.DB)

	return &RedisStore{
		client: client,
		logger: logger.With("component", "redis_connections"),
	}, nil
}

// ConnectedTools returns the members of the user's connection set. A missing
// key means no connected tools, not an error.
func (s *RedisStore) ConnectedTools(ctx context.Context, userID string) ([]string, error) {
	tools, err := s.client.SMembers(ctx, keyPrefix+userID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read tool connections for user %s: %w", userID, err)
	}

	return tools, nil
}

// Close releases the redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
