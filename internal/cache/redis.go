package cache

import (
	"context"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "chat:response:"

// Redis backs the Store contract with a shared redis instance so replicas see
// the same entries. Expiry is delegated to redis TTLs.
type Redis struct {
	inner *redis.Client
	ttl   time.Duration
}

// NewRedis connects and pings before returning so a bad address fails at
// startup rather than on the first request.
func NewRedis(opts *redis.Options, ttl time.Duration) (*Redis, error) {
	if opts == nil {
		return nil, errors.New("redis options required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &Redis{inner: client, ttl: ttl}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.inner.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *Redis) Put(ctx context.Context, key, response string) error {
	return r.inner.Set(ctx, redisKeyPrefix+key, response, r.ttl).Err()
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.inner.Close()
}
