package cache

import (
	"context"
	"fmt"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// redisStore Redis 後端快取
type redisStore struct {
	client *redis.Client
	config *config.Config
}

func newRedisStore(cfg *config.Config) (*redisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Cache.RedisAddr,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis 快取已初始化", zap.String("addr", cfg.Cache.RedisAddr))

	return &redisStore{
		client: client,
		config: cfg,
	}, nil
}

// Get 獲取緩存
func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	data, err := s.client.Get(ctx, "assist:"+key).Result()
	if err != nil {
		if err == redis.Nil {
			common.LogCacheMiss(keyType(key))
			return "", common.ErrCacheDisabled
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}

	common.LogCacheHit(keyType(key))
	return data, nil
}

// Set 設置緩存
func (s *redisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, "assist:"+key, value, s.config.Cache.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Close 關閉連線
func (s *redisStore) Close() error {
	return s.client.Close()
}
