package redisx

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrLocked = errors.New("resource is locked")

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

func Exists(ctx context.Context, rdb *redis.Client, key string) (bool, error) {
	n, err := rdb.Exists(ctx, key).Result()
	return n > 0, err
}

// Lock takes a short-lived exclusive key. The returned func releases it;
// an expired lock is left alone.
func Lock(ctx context.Context, rdb *redis.Client, key, owner string, ttl time.Duration) (func(), error) {
	ok, err := rdb.SetNX(ctx, key, owner, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLocked
	}
	return func() {
		// hapus hanya kalau masih milik kita
		if v, err := rdb.Get(context.Background(), key).Result(); err == nil && v == owner {
			_ = rdb.Del(context.Background(), key).Err()
		}
	}, nil
}
