package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/age-of-tension/pkg/state"
)

// AuditKey is the Redis list holding territory changes, oldest first.
const AuditKey = "world:territory-changes"

// DefaultAuditCap bounds the audit list length.
const DefaultAuditCap = 1000

// RedisAuditLog records territory changes in a capped Redis list.
type RedisAuditLog struct {
	rdb    *redis.Client
	maxLen int64
	logger *slog.Logger
}

// Ensure RedisAuditLog implements state.AuditLog
var _ state.AuditLog = (*RedisAuditLog)(nil)

// NewRedisAuditLog creates an audit log over an existing client
func NewRedisAuditLog(rdb *redis.Client, logger *slog.Logger) *RedisAuditLog {
	return &RedisAuditLog{rdb: rdb, maxLen: DefaultAuditCap, logger: logger}
}

// WithCap sets the maximum number of entries kept
// Returns the RedisAuditLog for method chaining
func (a *RedisAuditLog) WithCap(n int) *RedisAuditLog {
	if n > 0 {
		a.maxLen = int64(n)
	}
	return a
}

// Append adds a change to the end of the list and trims the oldest
// entries beyond the cap.
func (a *RedisAuditLog) Append(ctx context.Context, e state.AuditEntry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal territory change: %w", err)
	}
	pipe := a.rdb.TxPipeline()
	pipe.RPush(ctx, AuditKey, data)
	pipe.LTrim(ctx, AuditKey, -a.maxLen, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record territory change: %w", err)
	}
	return nil
}

// Recent returns up to limit changes, newest first. A limit of zero or
// less returns everything kept.
func (a *RedisAuditLog) Recent(ctx context.Context, limit int) ([]state.AuditEntry, error) {
	start := int64(-limit)
	if limit <= 0 {
		start = 0
	}
	raw, err := a.rdb.LRange(ctx, AuditKey, start, -1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to read territory changes: %w", err)
	}

	out := make([]state.AuditEntry, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var e state.AuditEntry
		if err := json.Unmarshal([]byte(raw[i]), &e); err != nil {
			a.logger.Warn("Skipping unreadable territory change", "error", err)
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Depth returns the number of changes kept
func (a *RedisAuditLog) Depth(ctx context.Context) (int, error) {
	n, err := a.rdb.LLen(ctx, AuditKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get audit depth: %w", err)
	}
	return int(n), nil
}

// Clear removes all recorded changes
func (a *RedisAuditLog) Clear(ctx context.Context) error {
	if err := a.rdb.Del(ctx, AuditKey).Err(); err != nil {
		return fmt.Errorf("failed to clear audit log: %w", err)
	}
	return nil
}
