package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyFmt     = "%s:cache:%s"
	lockSuffix = ":fill_lock"

	lockExpiry = 30 * time.Second
	lockTries  = 64
)

// RedisCache maps request fingerprints to labyrinth IDs with a TTL.
type RedisCache struct {
	client *redis.Client
	locker *redsync.Redsync
	prefix string
	ttl    time.Duration
}

// NewRedisCache initializes a RedisCache whose entries live ttlSeconds.
func NewRedisCache(client *redis.Client, prefix string, ttlSeconds int) *RedisCache {
	pool := goredis.NewPool(client)
	return &RedisCache{
		client: client,
		locker: redsync.New(pool),
		prefix: prefix,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
}

// LabyrinthID returns the ID cached under key.
func (c *RedisCache) LabyrinthID(ctx context.Context, key string) (uuid.UUID, bool, error) {
	raw, err := c.client.Get(ctx, c.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("cached value %q: %w", raw, err)
	}
	return id, true, nil
}

// SetLabyrinthID caches id under key, refreshing its TTL.
func (c *RedisCache) SetLabyrinthID(ctx context.Context, key string, id uuid.UUID) error {
	return c.client.Set(ctx, c.key(key), id.String(), c.ttl).Err()
}

// Lock acquires the fill lock of key.
func (c *RedisCache) Lock(ctx context.Context, key string) (func(), error) {
	mutex := c.locker.NewMutex(c.key(key)+lockSuffix, redsync.WithExpiry(lockExpiry), redsync.WithTries(lockTries))
	if err := mutex.LockContext(ctx); err != nil {
		return nil, err
	}

	return func() {
		_, _ = mutex.UnlockContext(context.Background())
	}, nil
}

func (c *RedisCache) key(key string) string {
	return fmt.Sprintf(keyFmt, c.prefix, key)
}
