package repositories

import (
	"context"
	"time"
)

type CacheRepositoryInterface interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) (bool, error)
	Ping(ctx context.Context) error
}
