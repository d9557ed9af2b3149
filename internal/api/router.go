package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	assistHandler "meal-planner/internal/api/handlers/assist"
	"meal-planner/internal/api/handlers/health"
	"meal-planner/internal/api/middleware"
	"meal-planner/internal/core/ai/cache"
	"meal-planner/internal/core/ai/imagegen"
	"meal-planner/internal/core/ai/ocr"
	aiService "meal-planner/internal/core/ai/service"
	"meal-planner/internal/core/assist"
	"meal-planner/internal/core/image"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置：照片匯入要容納 OCR 輪詢的最長時間
	timeoutDuration = 120 * time.Second
	// 請求體大小限制 (25MB)，多張 base64 照片需要的餘裕
	maxBodySize = 25 << 20
)

// providerProbe 健康檢查用的供應商憑證狀態
type providerProbe struct {
	cfg *config.Config
}

// ProviderStatus 只回報是否已設定，不含金鑰內容
func (p providerProbe) ProviderStatus() map[string]bool {
	return map[string]bool{
		"completion": p.cfg.Completion.APIKey != "",
		"ocr":        p.cfg.OCR.APIKey != "",
		"imagegen":   p.cfg.ImageGen.APIKey != "" && p.cfg.ImageGen.SecretKey != "",
	}
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, store cache.Store) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))
	router.Use(middleware.Deduplication(cfg))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.String("model", cfg.Completion.Model),
		zap.Duration("timeout", timeoutDuration),
	)

	// 初始化供應商服務
	completionSvc := aiService.NewService(cfg, store)
	if completionSvc == nil {
		common.LogError("Failed to initialize completion service")
		return nil, fmt.Errorf("failed to initialize completion service")
	}
	ocrClient := ocr.NewClient(cfg)
	imagegenClient := imagegen.NewClient(cfg)
	imageSvc := image.NewService(cfg.Image.MaxSizeBytes)

	// 初始化匯入協調器
	assistSvc := assist.NewService(cfg, completionSvc, ocrClient, imagegenClient, imageSvc, nil)
	if assistSvc == nil {
		common.LogError("Failed to initialize assist service")
		return nil, fmt.Errorf("failed to initialize assist service")
	}

	probe := providerProbe{cfg: cfg}

	// 全局中間件：設置超時並注入配置
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Set("config", cfg)
		c.Set("provider_probe", probe)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
				"details": gin.H{
					"timeout": timeoutDuration.String(),
				},
			})
			c.Abort()
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組。根路徑別名方便未帶版本前綴的客戶端
	handler := assistHandler.NewHandler(assistSvc)
	router.POST("/assist", handler.HandleAssist)

	api := router.Group("/api/v1")
	{
		api.POST("/assist", handler.HandleAssist)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
