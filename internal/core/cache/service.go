package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recipe-catalog/internal/infrastructure/config"
	"recipe-catalog/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "recipe-catalog"

// redisClient RedisService 用到的 go-redis 方法
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// RedisService Redis 快取服務，多個實例共用探測結果時使用
type RedisService struct {
	client redisClient
	ttl    time.Duration
}

// NewRedisService 創建 Redis 快取服務並測試連線
func NewRedisService(ctx context.Context, cfg config.RedisConfig, ttl time.Duration) (*RedisService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 測試連接
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return newRedisService(client, ttl), nil
}

func newRedisService(client redisClient, ttl time.Duration) *RedisService {
	return &RedisService{
		client: client,
		ttl:    ttl,
	}
}

// Get 獲取緩存，未命中回傳 common.ErrCacheMiss
func (s *RedisService) Get(ctx context.Context, namespace, key string) (string, error) {
	val, err := s.client.Get(ctx, s.generateKey(namespace, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			common.LogCacheMiss(namespace, key)
			return "", common.ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}

	common.LogCacheHit(namespace, key)
	return val, nil
}

// Set 設置緩存
func (s *RedisService) Set(ctx context.Context, namespace, key, value string) error {
	if err := s.client.Set(ctx, s.generateKey(namespace, key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Close 關閉連線
func (s *RedisService) Close() error {
	return s.client.Close()
}

// generateKey 生成緩存鍵
func (s *RedisService) generateKey(namespace, key string) string {
	return fmt.Sprintf("%s:%s:%s", redisKeyPrefix, namespace, key)
}
