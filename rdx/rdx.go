package rdx

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

func init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{
		Addr: addr,
	})
}

func RdxSet(ctx context.Context, key, value string, ttl time.Duration) error {
	return Conn.Set(ctx, key, value, ttl).Err()
}

// RdxGet returns an empty string for missing keys.
func RdxGet(ctx context.Context, key string) (string, error) {
	val, err := Conn.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func RdxDel(ctx context.Context, key string) error {
	return Conn.Del(ctx, key).Err()
}

func RdxExpire(ctx context.Context, key string, ttl time.Duration) error {
	return Conn.Expire(ctx, key, ttl).Err()
}
