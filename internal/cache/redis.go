package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Molemo21/ConnectSA-k9-sub014/config"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache keeps the last-known-good payment snapshots, the registry of
// refs being watched, and the per-ref refresh locks that serialize refreshes
// across instances.
type RedisCache struct {
	client      *redis.Client
	snapshotTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, snapshotTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		snapshotTTL: snapshotTTL,
	}
}

func (c *RedisCache) GetSnapshot(ctx context.Context, ref string) (*domain.Snapshot, error) {
	data, err := c.client.Get(ctx, snapshotKey(ref)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *RedisCache) SetSnapshot(ctx context.Context, snap *domain.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, snapshotKey(snap.Ref), payload, c.snapshotTTL).Err()
}

func (c *RedisCache) DeleteSnapshot(ctx context.Context, ref string) error {
	return c.client.Del(ctx, snapshotKey(ref)).Err()
}

// AddWatch registers ref for background refreshing until now+ttl. Re-adding
// an existing ref renews its deadline.
func (c *RedisCache) AddWatch(ctx context.Context, ref string, ttl time.Duration) error {
	deadline := time.Now().Add(ttl)
	return c.client.ZAdd(ctx, watchSetKey(), redis.Z{Score: float64(deadline.Unix()), Member: ref}).Err()
}

// Watches returns the refs whose deadline has not passed, dropping expired
// entries as a side effect so the set does not grow unbounded.
func (c *RedisCache) Watches(ctx context.Context) ([]string, error) {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	if err := c.client.ZRemRangeByScore(ctx, watchSetKey(), "-inf", "("+now).Err(); err != nil {
		return nil, err
	}
	return c.client.ZRangeByScore(ctx, watchSetKey(), &redis.ZRangeBy{Min: now, Max: "+inf"}).Result()
}

func (c *RedisCache) RemoveWatch(ctx context.Context, ref string) error {
	return c.client.ZRem(ctx, watchSetKey(), ref).Err()
}

// IsWatched reports whether ref has an unexpired watch.
func (c *RedisCache) IsWatched(ctx context.Context, ref string) (bool, error) {
	score, err := c.client.ZScore(ctx, watchSetKey(), ref).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	return score >= float64(time.Now().Unix()), nil
}

// AcquireRefreshLock takes the cross-instance half of the refresh-in-flight
// guard. The TTL bounds how long a crashed holder can block refreshes.
func (c *RedisCache) AcquireRefreshLock(ctx context.Context, ref string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, refreshLockKey(ref), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseRefreshLock(ctx context.Context, ref string) error {
	return c.client.Del(ctx, refreshLockKey(ref)).Err()
}

func snapshotKey(ref string) string {
	return fmt.Sprintf("snapshot:payment:%s", ref)
}

func watchSetKey() string {
	return "watch:payments"
}

func refreshLockKey(ref string) string {
	return fmt.Sprintf("lock:refresh:%s", ref)
}
