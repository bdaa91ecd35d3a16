package presence

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisTracker stores last-seen times in a sorted set scored by unix seconds,
// shared by every API instance.
type RedisTracker struct {
	client *redis.Client
	key    string
	window time.Duration
}

// RedisConfig holds the connection settings
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// NewRedisClient opens a client and pings it
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// NewRedisTracker creates a shared tracker
func NewRedisTracker(client *redis.Client, keyPrefix string, window time.Duration) *RedisTracker {
	return &RedisTracker{
		client: client,
		key:    presenceKey(keyPrefix),
		window: window,
	}
}

func presenceKey(prefix string) string {
	if prefix == "" {
		return "presence:last_seen"
	}
	return prefix + ":presence:last_seen"
}

// Touch implements Tracker
func (t *RedisTracker) Touch(ctx context.Context, userID int64, at time.Time) error {
	err := t.client.ZAdd(ctx, t.key, &redis.Z{
		Score:  float64(at.Unix()),
		Member: strconv.FormatInt(userID, 10),
	}).Err()
	if err != nil {
		return fmt.Errorf("presence touch: %w", err)
	}
	return nil
}

// Online implements Tracker. Stale members are removed as a side effect.
func (t *RedisTracker) Online(ctx context.Context, now time.Time) (map[int64]bool, error) {
	cutoff := strconv.FormatInt(now.Add(-t.window).Unix(), 10)

	pipe := t.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, t.key, "-inf", "("+cutoff)
	members := pipe.ZRangeByScore(ctx, t.key, &redis.ZRangeBy{Min: cutoff, Max: "+inf"})
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("presence online: %w", err)
	}

	return parseMembers(members.Val()), nil
}

// Name implements Tracker
func (t *RedisTracker) Name() string {
	return "redis"
}

func parseMembers(members []string) map[int64]bool {
	online := make(map[int64]bool, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		online[id] = true
	}
	return online
}
