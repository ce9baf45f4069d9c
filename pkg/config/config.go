package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Version 构建版本，发布时通过 -ldflags "-X intranet-portal-backend/pkg/config.Version=..." 注入
var Version = "dev"

// Config 应用配置结构
type Config struct {
	// 环境配置
	Environment string
	Port        string

	// 数据库配置
	DatabaseDriver string // "postgres" or "sqlite"
	PostgresDSN    string
	SQLitePath     string

	// JWT配置
	JWTSecret   string
	RequireAuth bool

	// 内容配置
	SystemAuthorID int64
	UploadDir      string
	PublicBaseURL  string
	MaxBodyBytes   int64

	// CORS配置
	AllowedOrigins []string

	// 日志与调试配置
	LogLevel string
	Debug    bool
}

// LoadConfig 加载配置（环境变量优先于 .env 文件）
func LoadConfig() *Config {
	env := strings.TrimSpace(os.Getenv("ENVIRONMENT"))
	if env == "" {
		env = "development" // 默认开发环境
	}

	envFile := ".env.local"
	if env == "production" {
		envFile = ".env.production"
	}

	return FromViper(newViper(envFile))
}

// newViper 构建 viper 实例：读取 dotenv 文件（可选）并启用环境变量覆盖
func newViper(envFile string) *viper.Viper {
	v := viper.New()
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("PORT", "3000")
	v.SetDefault("SQLITE_PATH", "./data/portal.db")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("REQUIRE_AUTH", false)
	v.SetDefault("SYSTEM_AUTHOR_ID", 1)
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("MAX_BODY_BYTES", 10<<20)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DEBUG", false)

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				fmt.Fprintf(os.Stderr, "⚠️  failed to read %s: %v\n", envFile, err)
			}
		}
	}

	v.AutomaticEnv()
	return v
}

// FromViper 从 viper 实例构建配置
func FromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Environment:    strings.TrimSpace(v.GetString("ENVIRONMENT")),
		Port:           strings.TrimSpace(v.GetString("PORT")),
		DatabaseDriver: strings.ToLower(strings.TrimSpace(v.GetString("DATABASE_DRIVER"))),
		// Trim whitespace to avoid trailing spaces/newlines from env sources
		PostgresDSN:    strings.TrimSpace(v.GetString("POSTGRES_DSN")),
		SQLitePath:     strings.TrimSpace(v.GetString("SQLITE_PATH")),
		JWTSecret:      strings.TrimSpace(v.GetString("JWT_SECRET")),
		RequireAuth:    v.GetBool("REQUIRE_AUTH"),
		SystemAuthorID: v.GetInt64("SYSTEM_AUTHOR_ID"),
		UploadDir:      strings.TrimSpace(v.GetString("UPLOAD_DIR")),
		PublicBaseURL:  strings.TrimRight(strings.TrimSpace(v.GetString("PUBLIC_BASE_URL")), "/"),
		MaxBodyBytes:   v.GetInt64("MAX_BODY_BYTES"),
		LogLevel:       strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
		Debug:          v.GetBool("DEBUG"),
	}

	// 未显式指定驱动时根据 DSN 推断
	if cfg.DatabaseDriver == "" {
		if cfg.PostgresDSN != "" {
			cfg.DatabaseDriver = "postgres"
		} else {
			cfg.DatabaseDriver = "sqlite"
		}
	}

	// CORS配置
	allowedOrigins := strings.TrimSpace(v.GetString("ALLOWED_ORIGINS"))
	if allowedOrigins == "" || allowedOrigins == "*" {
		cfg.AllowedOrigins = []string{"*"}
	} else {
		for _, o := range strings.Split(allowedOrigins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	// 生产环境关闭调试
	if cfg.IsProduction() {
		cfg.Debug = false
	}

	return cfg
}

// Cached config (initialized once per cold start)
var (
	cachedConfig *Config
	configOnce   sync.Once
)

// GetCached returns the process-wide cached Config.
// On serverless (Vercel), it initializes once per cold start and
// reuses it across warm invocations, avoiding per-request parsing.
func GetCached() *Config {
	configOnce.Do(func() {
		cachedConfig = LoadConfig()
	})
	return cachedConfig
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.JWTSecret == "" || c.JWTSecret == defaultJWTSecret {
		if c.IsProduction() {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
	}

	switch c.DatabaseDriver {
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required when DATABASE_DRIVER=postgres")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when DATABASE_DRIVER=sqlite")
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q (expected postgres or sqlite)", c.DatabaseDriver)
	}

	if c.SystemAuthorID <= 0 {
		return fmt.Errorf("SYSTEM_AUTHOR_ID must be a positive user id")
	}

	return nil
}

// IsProduction 检查是否为生产环境
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment 检查是否为开发环境
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
