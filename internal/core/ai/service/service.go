package service

import (
	"context"
	"encoding/json"

	"meal-planner/internal/core/ai"
	"meal-planner/internal/core/ai/cache"
	"meal-planner/internal/core/ai/completion"
	"meal-planner/internal/infrastructure/config"
)

// Service 補全服務：在供應商客戶端外面包一層快取。
// 只有純文字請求會進快取；帶圖片的匯入請求每次內容都不同，快取沒有意義。
type Service struct {
	config     *config.Config
	completion *completion.Client
	cache      cache.Store
}

// NewService 創建補全服務
func NewService(cfg *config.Config, store cache.Store) *Service {
	return &Service{
		config:     cfg,
		completion: completion.NewClient(cfg),
		cache:      store,
	}
}

// Configured 是否已設定補全憑證
func (s *Service) Configured() bool {
	return s.completion.Configured()
}

// Complete 統一對外方法
func (s *Service) Complete(ctx context.Context, systemPrompt, userPayload string, images []string) ai.Result {
	cacheable := len(images) == 0 && s.cache != nil
	key := ""
	if cacheable {
		key = cache.Key(systemPrompt+"\n"+userPayload, nil)
		if val, err := s.cache.Get(ctx, key); err == nil && val != "" {
			return ai.Ok(json.RawMessage(val))
		}
	}

	result := s.completion.Complete(ctx, systemPrompt, userPayload, images)

	if result.Success && cacheable {
		_ = s.cache.Set(ctx, key, string(result.Payload))
	}

	return result
}

// Close 關閉服務
func (s *Service) Close() error {
	return s.completion.Close()
}
