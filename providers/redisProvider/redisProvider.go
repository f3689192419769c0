package redisprovider

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"unilance/providers"
)

type RedisDbProvider struct {
	client *redis.Client
}

func NewRedisProvider(cfg providers.RedisConfig) providers.RedisProvider {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisDbProvider{
		client: rdb,
	}
}

func (r *RedisDbProvider) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

func (r *RedisDbProvider) Get(ctx context.Context, key string) (string, error) {
	return r.client.Get(ctx, key).Result()
}

// IncrWindow bumps the counter behind key and attaches the window expiry only
// when the key is newly created, so the window does not slide on every hit.
func (r *RedisDbProvider) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (r *RedisDbProvider) Ping(ctx context.Context) error {
	pong, err := r.client.Ping(ctx).Result()
	if err != nil {
		return err
	}
	fmt.Println("Redis Ping:", pong)
	return nil
}

func (r *RedisDbProvider) Close() error {
	return r.client.Close()
}
