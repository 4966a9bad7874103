package idgen

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

type redisAllocator struct {
	c      *redis.Client
	prefix string
	start  int64
}

// NewRedis returns an allocator backed by one INCR counter per space under prefix.
// A missing counter is seeded so that its first value is start.
func NewRedis(c *redis.Client, prefix string, start int64) Allocator {
	return &redisAllocator{c: c, prefix: prefix, start: start}
}

func (r *redisAllocator) key(space Space) string {
	return fmt.Sprintf("%s:seq:%s", r.prefix, space)
}

func (r *redisAllocator) Next(ctx context.Context, space Space) (int64, error) {
	if space < 0 || space >= spaceCount {
		return 0, fmt.Errorf("idgen: unknown space %d", int(space))
	}
	key := r.key(space)
	if err := r.c.SetNX(ctx, key, r.start-1, 0).Err(); err != nil {
		return 0, fmt.Errorf("idgen: seed %s: %w", key, err)
	}
	id, err := r.c.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("idgen: incr %s: %w", key, err)
	}
	return id, nil
}
