package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig        `mapstructure:"app"`
	Server      ServerConfig     `mapstructure:"server"`
	Completion  CompletionConfig `mapstructure:"completion"`
	OCR         OCRConfig        `mapstructure:"ocr"`
	ImageGen    ImageGenConfig   `mapstructure:"imagegen"`
	Poll        PollConfig       `mapstructure:"poll"`
	Assist      AssistConfig     `mapstructure:"assist"`
	Cache       CacheConfig      `mapstructure:"cache"`
	RateLimit   RateLimitConfig  `mapstructure:"rate_limit"`
	Image       ImageConfig      `mapstructure:"image"`
	DedupWindow time.Duration    `mapstructure:"dedup_window"`
	LogLevel    string           `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env      string `mapstructure:"env"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	Version  string `mapstructure:"version"`
	Name     string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// CompletionConfig 文字/視覺補全供應商設定
type CompletionConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// OCRConfig OCR 供應商設定
type OCRConfig struct {
	APIKey   string `mapstructure:"api_key"`
	BaseURL  string `mapstructure:"base_url"`
	Language string `mapstructure:"language"`
}

// ImageGenConfig 圖片生成供應商設定。
// APIKey 與 SecretKey 是兩個各自獨立的憑證欄位，缺一即視為未設定。
type ImageGenConfig struct {
	APIKey    string `mapstructure:"api_key"`
	SecretKey string `mapstructure:"secret_key"`
	BaseURL   string `mapstructure:"base_url"`
}

// PollConfig 非同步任務輪詢設定
type PollConfig struct {
	OCR      PollBounds `mapstructure:"ocr"`
	ImageGen PollBounds `mapstructure:"imagegen"`
}

// PollBounds 單一輪詢迴圈的上限
type PollBounds struct {
	Attempts int           `mapstructure:"attempts"`
	Delay    time.Duration `mapstructure:"delay"`
}

// AssistConfig 匯入管線設定
type AssistConfig struct {
	MaxPhotos          int      `mapstructure:"max_photos"`
	CombinedPhotoLimit int      `mapstructure:"combined_photo_limit"`
	OCRTextLimit       int      `mapstructure:"ocr_text_limit"`
	AllowedTags        []string `mapstructure:"allowed_tags"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Backend         string        `mapstructure:"backend"` // memory | redis
	RedisAddr       string        `mapstructure:"redis_addr"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// ImageConfig 圖片配置
type ImageConfig struct {
	MaxSizeBytes int64 `mapstructure:"max_size_bytes"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件
	if err := godotenv.Load(); err != nil {
		return nil, err
	}

	// 設定預設值
	setDefaults()

	// 設定環境變數前綴
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 綁定環境變量
	viper.BindEnv("completion.api_key", "COMPLETION_API_KEY")
	viper.BindEnv("completion.model", "COMPLETION_MODEL")
	viper.BindEnv("completion.max_tokens", "MODEL_MAX_TOKENS")
	viper.BindEnv("ocr.api_key", "OCR_API_KEY")
	viper.BindEnv("ocr.base_url", "OCR_BASE_URL")
	viper.BindEnv("imagegen.api_key", "IMAGEGEN_API_KEY")
	viper.BindEnv("imagegen.secret_key", "IMAGEGEN_SECRET_KEY")
	viper.BindEnv("cache.enabled", "CACHE_ENABLED")
	viper.BindEnv("cache.backend", "CACHE_BACKEND")
	viper.BindEnv("cache.redis_addr", "CACHE_REDIS_ADDR")
	viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("dedup_window", "DEDUP_WINDOW")
	viper.BindEnv("log_level", "LOG_LEVEL")

	// 設定設定檔名稱和路徑
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// 讀取設定檔
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 添加調試日誌（logger 尚未初始化，改用 fmt.Println）
	fmt.Println("Loading configuration",
		"completion_api_key:", maskAPIKey(viper.GetString("completion.api_key")),
		"completion_model:", viper.GetString("completion.model"),
		"ocr_configured:", viper.GetString("ocr.api_key") != "",
		"imagegen_configured:", viper.GetString("imagegen.api_key") != "" && viper.GetString("imagegen.secret_key") != "",
	)

	// 解析設定
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// maskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults() {
	// 應用程式設定
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "meal-planner")

	// 伺服器設定
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	// 補全供應商設定
	viper.SetDefault("completion.base_url", "https://openrouter.ai/api/v1")
	viper.SetDefault("completion.model", "qwen/qwen2.5-vl-72b-instruct:free")
	viper.SetDefault("completion.max_tokens", 4096)
	viper.SetDefault("completion.timeout", "60s")

	// OCR 供應商設定
	viper.SetDefault("ocr.base_url", "https://api.ocr-engine.dev/v1")
	viper.SetDefault("ocr.language", "zh")

	// 圖片生成供應商設定
	viper.SetDefault("imagegen.base_url", "https://api.imagegen.dev")

	// 輪詢上限：數值屬於設定，不寫死在輪詢器裡
	viper.SetDefault("poll.ocr.attempts", 20)
	viper.SetDefault("poll.ocr.delay", "1200ms")
	viper.SetDefault("poll.imagegen.attempts", 15)
	viper.SetDefault("poll.imagegen.delay", "1500ms")

	// 匯入管線設定
	viper.SetDefault("assist.max_photos", 8)
	viper.SetDefault("assist.combined_photo_limit", 5)
	viper.SetDefault("assist.ocr_text_limit", 20000)
	viper.SetDefault("assist.allowed_tags", []string{
		"早餐", "午餐", "晚餐", "甜點", "湯品", "素食", "vegan", "dessert", "quick", "festive",
	})

	// 快取設定
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.backend", "memory")
	viper.SetDefault("cache.redis_addr", "localhost:6379")
	viper.SetDefault("cache.max_size", 1000)
	viper.SetDefault("cache.ttl", "24h")
	viper.SetDefault("cache.cleanup_interval", "10m")

	// 限流設定
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")

	// 圖片設定
	viper.SetDefault("image.max_size_bytes", 10*1024*1024) // 10MB

	viper.SetDefault("dedup_window", "1s")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		if config.Cache.Backend != "memory" && config.Cache.Backend != "redis" {
			return fmt.Errorf("invalid cache backend: %s", config.Cache.Backend)
		}
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	// 驗證輪詢設定
	if config.Poll.OCR.Attempts <= 0 || config.Poll.OCR.Delay <= 0 {
		return fmt.Errorf("invalid ocr poll bounds")
	}
	if config.Poll.ImageGen.Attempts <= 0 || config.Poll.ImageGen.Delay <= 0 {
		return fmt.Errorf("invalid imagegen poll bounds")
	}

	// 驗證匯入設定
	if config.Assist.MaxPhotos <= 0 || config.Assist.MaxPhotos > 8 {
		return fmt.Errorf("assist max photos must be between 1 and 8")
	}
	if config.Assist.CombinedPhotoLimit <= 0 || config.Assist.CombinedPhotoLimit > config.Assist.MaxPhotos {
		return fmt.Errorf("invalid combined photo limit")
	}

	return nil
}
