package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// RedisService is an optional cache. When REDIS_ADDR is unset every
// operation is a no-op miss, so callers never need to branch on it.
type RedisService struct {
	appContext.DefaultService
	redis *redis.Client
}

const REDIS_SVC = "redis_svc"

var ErrCacheMiss = errors.New("cache miss")

func (svc RedisService) Id() string {
	return REDIS_SVC
}

func (svc *RedisService) Configure(ctx *appContext.Context) error {
	svc.initRedisClient()
	return svc.DefaultService.Configure(ctx)
}

func (svc *RedisService) Start() error {
	if svc.redis != nil {
		ctx := context.Background()
		_, err := svc.redis.Ping(ctx).Result()
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Println("Redis connected")
	}
	return nil
}

func (svc *RedisService) Shutdown() {
	if svc.redis != nil {
		_ = svc.redis.Close()
	}
}

func (svc *RedisService) initRedisClient() {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		log.Warn("REDIS_ADDR not set, cache disabled")
		return
	}

	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			redisDB = db
		}
	}

	svc.redis = redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       redisDB,
	})
}

func (svc *RedisService) GetJSON(ctx context.Context, key string, out interface{}) error {
	if svc.redis == nil {
		return ErrCacheMiss
	}

	data, err := svc.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}

	return sonic.Unmarshal(data, out)
}

func (svc *RedisService) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if svc.redis == nil {
		return nil
	}

	data, err := sonic.Marshal(value)
	if err != nil {
		return err
	}

	return svc.redis.Set(ctx, key, data, ttl).Err()
}

func (svc *RedisService) Delete(ctx context.Context, keys ...string) error {
	if svc.redis == nil || len(keys) == 0 {
		return nil
	}
	return svc.redis.Del(ctx, keys...).Err()
}
