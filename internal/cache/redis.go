package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lumora-app/lumora/internal/config"
)

// RedisCache wraps the shared Redis client. It carries the collaborator
// reads the engine needs (liveness timestamps, premium entitlement) plus
// the received-like counters.
type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes the Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

// --- liveness (presence collaborator) ---

// KeyForLastActive is the liveness timestamp key maintained by the
// presence system; the value is unix millis of the user's last activity.
func (c *RedisCache) KeyForLastActive(userID uint64) string {
	return fmt.Sprintf("presence:last_active:%d", userID)
}

// SetLastActive records a liveness timestamp. Used by seeding and tests;
// in production the presence system owns these keys.
func (c *RedisCache) SetLastActive(ctx context.Context, userID uint64, at time.Time) error {
	return c.Client.Set(ctx, c.KeyForLastActive(userID), at.UnixMilli(), 0).Err()
}

// LastActiveBatch fetches liveness timestamps for a set of users in one
// MGET. Users with no recorded activity are absent from the result.
func (c *RedisCache) LastActiveBatch(ctx context.Context, userIDs []uint64) (map[uint64]time.Time, error) {
	if len(userIDs) == 0 {
		return map[uint64]time.Time{}, nil
	}

	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = c.KeyForLastActive(id)
	}

	vals, err := c.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	out := make(map[uint64]time.Time, len(userIDs))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		ms, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			continue
		}
		out[userIDs[i]] = time.UnixMilli(ms)
	}
	return out, nil
}

// --- premium entitlement (billing collaborator) ---

func (c *RedisCache) KeyForPremium(userID uint64) string {
	return fmt.Sprintf("premium:%d", userID)
}

// SetPremium flags a user as premium. Owned by the billing system in
// production; exposed for seeding and tests.
func (c *RedisCache) SetPremium(ctx context.Context, userID uint64, premium bool) error {
	if !premium {
		return c.Client.Del(ctx, c.KeyForPremium(userID)).Err()
	}
	return c.Client.Set(ctx, c.KeyForPremium(userID), "1", 0).Err()
}

// PremiumBatch fetches premium flags for a set of users in one MGET.
func (c *RedisCache) PremiumBatch(ctx context.Context, userIDs []uint64) (map[uint64]bool, error) {
	if len(userIDs) == 0 {
		return map[uint64]bool{}, nil
	}

	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = c.KeyForPremium(id)
	}

	vals, err := c.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	out := make(map[uint64]bool, len(userIDs))
	for i, v := range vals {
		if s, ok := v.(string); ok && s == "1" {
			out[userIDs[i]] = true
		}
	}
	return out, nil
}

// --- received-like counters ---

// KeyForLikeCount generates the Redis key for a user's received-like count.
func (c *RedisCache) KeyForLikeCount(userID uint64) string {
	return fmt.Sprintf("likes:count:%d", userID)
}

// BumpLikeCount increments a user's received-like counter and refreshes
// its TTL. Best effort; callers ignore the error.
func (c *RedisCache) BumpLikeCount(ctx context.Context, userID uint64) error {
	key := c.KeyForLikeCount(userID)
	if err := c.Client.Incr(ctx, key).Err(); err != nil {
		return err
	}
	return c.Client.Expire(ctx, key, time.Hour).Err()
}

// GetLikeCount reads a user's received-like counter. Cache miss → 0.
func (c *RedisCache) GetLikeCount(ctx context.Context, userID uint64) (int64, error) {
	val, err := c.Client.Get(ctx, c.KeyForLikeCount(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, c.KeyForLikeCount(userID), time.Hour).Err()
	return strconv.ParseInt(val, 10, 64)
}
