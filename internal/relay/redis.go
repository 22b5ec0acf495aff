package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "relay:"
	queueTTL  = 7 * 24 * time.Hour
)

// RedisStore keeps each user's queue in a Redis list so several API
// instances share it.
type RedisStore struct {
	rdb    *redis.Client
	logger *slog.Logger
}

// NewRedisStore connects to redisURL. logger receives entries Drain cannot
// decode; nil means slog.Default().
func NewRedisStore(redisURL string, logger *slog.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisStore{rdb: redis.NewClient(opts), logger: logger}, nil
}

// Ping verifies connectivity.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

// Close closes the Redis client connection.
func (r *RedisStore) Close() error {
	return r.rdb.Close()
}

func (r *RedisStore) Push(ctx context.Context, userID string, item Item, capacity int) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal relay item: %w", err)
	}
	key := keyPrefix + userID
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, payload)
		pipe.LTrim(ctx, key, int64(-capacity), -1)
		pipe.Expire(ctx, key, queueTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("push relay item: %w", err)
	}
	return nil
}

func (r *RedisStore) Drain(ctx context.Context, userID string) ([]Item, error) {
	key := keyPrefix + userID
	var lrange *redis.StringSliceCmd
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		lrange = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("drain relay queue: %w", err)
	}

	raw := lrange.Val()
	items := make([]Item, 0, len(raw))
	for i, s := range raw {
		var it Item
		if err := json.Unmarshal([]byte(s), &it); err != nil {
			// The list is already gone; the payload survives only in the log.
			r.logger.Warn("dropping undecodable relay item",
				"user_id", userID, "position", i, "payload", s, "error", err)
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

func (r *RedisStore) Len(ctx context.Context, userID string) (int, error) {
	n, err := r.rdb.LLen(ctx, keyPrefix+userID).Result()
	return int(n), err
}
