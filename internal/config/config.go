package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const defaultAppSecret = "your-secret-key-change-in-production"

// Config 应用配置
type Config struct {
	Env       string `envconfig:"APP_ENV" default:"development"`
	AppSecret string `envconfig:"APP_SECRET" default:"your-secret-key-change-in-production"`
	Port      string `envconfig:"PORT" default:"5005"`
	SiteName  string `envconfig:"SITE_NAME" default:"Movie Streaming Finder"`
	SiteUrl   string `envconfig:"SITE_URL" default:"http://localhost:5005"`

	// DatabaseURL 为空时关闭搜索日志与热搜
	DatabaseURL string `envconfig:"DATABASE_URL"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`

	Streaming StreamingConfig
	Log       LogConfig
}

// StreamingConfig Streaming Availability API 配置
type StreamingConfig struct {
	// APIKey 缺失或无效时所有搜索走演示数据
	APIKey  string        `envconfig:"STREAMING_API_KEY"`
	Host    string        `envconfig:"STREAMING_API_HOST" default:"streaming-availability.p.rapidapi.com"`
	BaseURL string        `envconfig:"STREAMING_API_BASE_URL"`
	Country string        `envconfig:"STREAMING_COUNTRY" default:"us"`
	Timeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
}

// LogConfig 日志文件配置（lumberjack 滚动）
type LogConfig struct {
	File       string `envconfig:"LOG_FILE"`
	MaxSize    int    `envconfig:"LOG_MAX_SIZE" default:"50"`
	MaxBackups int    `envconfig:"LOG_MAX_BACKUPS" default:"5"`
	MaxAge     int    `envconfig:"LOG_MAX_AGE" default:"28"`
	Compress   bool   `envconfig:"LOG_COMPRESS" default:"true"`
}

// Load 加载配置
func Load() (*Config, error) {
	// 加载 .env，不存在时忽略
	_ = godotenv.Load()

	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("load config error: %w", err)
	}

	cfg.Streaming.APIKey = strings.TrimSpace(cfg.Streaming.APIKey)
	if cfg.Streaming.BaseURL == "" {
		cfg.Streaming.BaseURL = "https://" + cfg.Streaming.Host
	}
	cfg.Streaming.BaseURL = strings.TrimRight(cfg.Streaming.BaseURL, "/")

	if cfg.IsProduction() && cfg.AppSecret == defaultAppSecret {
		log.Println("【严重警告】生产环境正在使用默认密钥！请立即设置 APP_SECRET 环境变量。")
	}
	if cfg.Streaming.APIKey == "" {
		log.Println("[Config] 未设置 STREAMING_API_KEY，所有搜索将使用演示数据")
	}

	return cfg, nil
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// SearchLogEnabled 是否启用搜索日志
func (c *Config) SearchLogEnabled() bool {
	return c.DatabaseURL != ""
}
