package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/keywarden-io/keywarden/internal/common"
)

const redisKeyPrefix = "keywarden:ratelimit:"

// RedisStore keeps throttle entries as Redis hashes with a PEXPIRE matching
// the entry deadline, so expiry is handled natively and Purge is a no-op.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(userID int64, action string) string {
	return fmt.Sprintf("%s%d:%s", redisKeyPrefix, userID, action)
}

func (s *RedisStore) Get(ctx context.Context, userID int64, action string) (*Entry, error) {
	values, err := s.client.HGetAll(ctx, redisKey(userID, action)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}
	if len(values) == 0 {
		return nil, common.ErrNotFound
	}

	count, err := strconv.Atoi(values["count"])
	if err != nil {
		return nil, fmt.Errorf("corrupt rate limit entry: %w", err)
	}
	windowStart, err := strconv.ParseInt(values["window_start"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt rate limit entry: %w", err)
	}
	lastAttempt, err := strconv.ParseInt(values["last_attempt"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt rate limit entry: %w", err)
	}

	return &Entry{
		UserID:      userID,
		Action:      action,
		Count:       count,
		WindowStart: time.UnixMilli(windowStart),
		LastAttempt: time.UnixMilli(lastAttempt),
	}, nil
}

func (s *RedisStore) Put(ctx context.Context, entry *Entry, ttl time.Duration) error {
	key := redisKey(entry.UserID, entry.Action)

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		"count":        entry.Count,
		"window_start": entry.WindowStart.UnixMilli(),
		"last_attempt": entry.LastAttempt.UnixMilli(),
	})
	if ttl > 0 {
		pipe.PExpire(ctx, key, ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}

	return nil
}

func (s *RedisStore) Delete(ctx context.Context, userID int64, action string) error {
	if err := s.client.Del(ctx, redisKey(userID, action)).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

// Purge is a no-op: Redis expires entries through the PEXPIRE set on Put.
func (s *RedisStore) Purge(ctx context.Context) error {
	return nil
}
