package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	pkgstorage "github.com/jwebster45206/age-of-tension/pkg/storage"
)

// SnapshotKey holds the encoded world state.
const SnapshotKey = "world:snapshot"

// RedisStorage keeps the world snapshot in a single Redis string.
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
}

// Ensure RedisStorage implements Storage interface
var _ pkgstorage.Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance from a redis:// URL
func NewRedisStorage(redisURL string, logger *slog.Logger) (*RedisStorage, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return &RedisStorage{
		client: redis.NewClient(opt),
		logger: logger,
	}, nil
}

// Client returns the underlying Redis client so the audit log can share it
func (r *RedisStorage) Client() *redis.Client {
	return r.client
}

// Health and lifecycle methods

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context, maxRetries int, retryDelay time.Duration) error {
	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Snapshot operations

func (r *RedisStorage) LoadSnapshot(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, SnapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		r.logger.Error("Failed to load world snapshot", "error", err)
		return nil, fmt.Errorf("failed to load world snapshot: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

func (r *RedisStorage) SaveSnapshot(ctx context.Context, data []byte) error {
	// No TTL: the world outlives any session.
	if err := r.client.Set(ctx, SnapshotKey, data, 0).Err(); err != nil {
		r.logger.Error("Failed to save world snapshot", "error", err)
		return fmt.Errorf("failed to save world snapshot: %w", err)
	}
	return nil
}

func (r *RedisStorage) DeleteSnapshot(ctx context.Context) error {
	if err := r.client.Del(ctx, SnapshotKey).Err(); err != nil {
		r.logger.Error("Failed to delete world snapshot", "error", err)
		return fmt.Errorf("failed to delete world snapshot: %w", err)
	}
	return nil
}
