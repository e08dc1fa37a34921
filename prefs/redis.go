package prefs

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisOptions locate the redis database that holds the preferences.
type RedisOptions struct {
	Host     string
	Port     int
	Username string
	Password string
	Database int
	// KeyPrefix is prepended to every key, so several users can share one database.
	KeyPrefix string
}

// RedisStore is a Store in a redis database. Close it when done.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore ...
func NewRedisStore(opts RedisOptions) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", opts.Host, opts.Port),
			Username: opts.Username,
			Password: opts.Password,
			DB:       opts.Database,
		}),
		prefix: opts.KeyPrefix,
	}
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	result, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return result, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value string) error {
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, r.prefix+key).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

// Close ...
func (r *RedisStore) Close() error {
	return r.client.Close()
}
