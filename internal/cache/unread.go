package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	unreadKeyPrefix = "notif:unread"
	unreadTTL       = 7 * 24 * time.Hour
)

// UnreadCache keeps the per-user unread notification count in Redis so
// the live counter has an authoritative number to reconcile against
// without a DB COUNT on every tick.
type UnreadCache struct {
	rdb *redis.Client
}

func NewUnreadCache(rdb *redis.Client) *UnreadCache {
	return &UnreadCache{rdb: rdb}
}

func (c *UnreadCache) key(userID string) string {
	return fmt.Sprintf("%s:%s", unreadKeyPrefix, userID)
}

// Incr bumps the counter after a notification row is stored.
func (c *UnreadCache) Incr(ctx context.Context, userID string) error {
	k := c.key(userID)
	if err := c.rdb.Incr(ctx, k).Err(); err != nil {
		return err
	}
	return c.rdb.Expire(ctx, k, unreadTTL).Err()
}

// Get returns (count, cached). A missing key is not an error, it just
// means the caller should fall back to the database count.
func (c *UnreadCache) Get(ctx context.Context, userID string) (int64, bool, error) {
	val, err := c.rdb.Get(ctx, c.key(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}

// Set backfills the counter from an authoritative database count.
func (c *UnreadCache) Set(ctx context.Context, userID string, count int64) error {
	return c.rdb.Set(ctx, c.key(userID), count, unreadTTL).Err()
}

// Clear resets the counter when the user's unread rows are bulk-marked
// read.
func (c *UnreadCache) Clear(ctx context.Context, userID string) error {
	err := c.rdb.Del(ctx, c.key(userID)).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
