package config

import (
	"context"
	"os"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// RedisClient is a global Redis client instance
var RedisClient *redis.Client

// RedisLocker wraps RedisClient for distributed locks (nil when Redis is off)
var RedisLocker *redislock.Client

func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		RedisClient = nil
		RedisLocker = nil
		return
	}
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASS"),
		DB:       0,
	})
	RedisLocker = redislock.New(RedisClient)
}

func RedisCtx() context.Context {
	return context.Background()
}
