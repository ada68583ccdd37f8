package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	likeCntKeyPrefix = "like:cnt:post"
	likeCntTTL       = 24 * time.Hour
)

// LikeCache caches per-post like counts. Writes go to MySQL first; the
// cache is updated best-effort afterwards and rebuilt lazily on a read
// miss, so a dropped update costs one extra COUNT, not correctness.
type LikeCache struct {
	rdb *redis.Client
}

func NewLikeCache(rdb *redis.Client) *LikeCache {
	return &LikeCache{rdb: rdb}
}

func (c *LikeCache) key(postID string) string {
	return fmt.Sprintf("%s:%s", likeCntKeyPrefix, postID)
}

func (c *LikeCache) Incr(ctx context.Context, postID string) error {
	k := c.key(postID)
	if err := c.rdb.Incr(ctx, k).Err(); err != nil {
		return err
	}
	return c.rdb.Expire(ctx, k, likeCntTTL).Err()
}

func (c *LikeCache) Decr(ctx context.Context, postID string) error {
	k := c.key(postID)
	val, err := c.rdb.Get(ctx, k).Int64()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	if val <= 0 {
		// never go negative; the lazy rebuild sorts it out
		return c.rdb.Del(ctx, k).Err()
	}
	return c.rdb.Decr(ctx, k).Err()
}

// Get returns (count, cached).
func (c *LikeCache) Get(ctx context.Context, postID string) (int64, bool, error) {
	val, err := c.rdb.Get(ctx, c.key(postID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}

func (c *LikeCache) Set(ctx context.Context, postID string, count int64) error {
	return c.rdb.Set(ctx, c.key(postID), count, likeCntTTL).Err()
}

func (c *LikeCache) Delete(ctx context.Context, postID string) error {
	err := c.rdb.Del(ctx, c.key(postID)).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
