package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a fixed one-minute window counter shared by every replica.
type Redis struct {
	client    *redis.Client
	name      string
	perMinute int
	now       func() time.Time
}

func NewRedis(client *redis.Client, name string, perMinute int) *Redis {
	return &Redis{client: client, name: name, perMinute: perMinute, now: time.Now}
}

func (l *Redis) Allow(ctx context.Context, key string) (bool, error) {
	window := l.now().Truncate(time.Minute).Unix()
	k := fmt.Sprintf("ratelimit:%s:%s:%d", l.name, key, window)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.Expire(ctx, k, 2*time.Minute)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("rate limit %s: %w", l.name, err)
	}
	return incr.Val() <= int64(l.perMinute), nil
}
