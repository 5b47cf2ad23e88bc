package optioncache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const DefaultTTL = time.Hour

// Option is the {id, label} pair used by select inputs.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type Loader func(ctx context.Context) ([]Option, error)

// Cache keeps option lists in Redis. A nil redis client turns it into a pass-through.
type Cache struct {
	rdb    *redis.Client
	ttl    time.Duration
	sf     singleflight.Group
	logger *zap.Logger
}

func New(rdb *redis.Client, ttl time.Duration, logger ...*zap.Logger) *Cache {
	l := zap.L().Named("optioncache")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("optioncache")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{rdb: rdb, ttl: ttl, logger: l}
}

func (c *Cache) Get(ctx context.Context, key string, load Loader) ([]Option, error) {
	if c.rdb != nil {
		if cached, err := c.rdb.Get(ctx, key).Result(); err == nil {
			var opts []Option
			if json.Unmarshal([]byte(cached), &opts) == nil {
				return opts, nil
			}
		} else if err != redis.Nil {
			c.logger.Warn("option cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	// many forms open at once; one backend call serves them all
	shared := context.WithoutCancel(ctx)
	ch := c.sf.DoChan(key, func() (interface{}, error) {
		opts, err := load(shared)
		if err != nil {
			return nil, err
		}
		if opts == nil {
			opts = []Option{}
		}

		if c.rdb != nil {
			if data, err := json.Marshal(opts); err == nil {
				if err := c.rdb.Set(shared, key, data, c.ttl).Err(); err != nil {
					c.logger.Warn("option cache write failed", zap.String("key", key), zap.Error(err))
				}
			}
		}
		return opts, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.([]Option), nil
	}
}

func (c *Cache) Invalidate(ctx context.Context, key string) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		c.logger.Error("failed to invalidate option cache", zap.String("key", key), zap.Error(err))
	}
}
