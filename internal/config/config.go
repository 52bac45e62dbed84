package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"serialfic-backend/internal/infrastructure/database"
)

// Config holds the whole application configuration.
// It is populated from environment variables (and an optional .env file loaded by main).
type Config struct {
	App       AppConfig
	Database  *database.DBConfig
	Redis     RedisConfig
	Session   SessionConfig
	Auth      AuthConfig
	ImageHost ImageHostConfig
	MinIO     MinIOConfig
	Queue     QueueConfig
}

type AppConfig struct {
	Name           string
	Environment    string // development, staging, production
	Port           string
	Version        string
	AllowedOrigins []string
	AutoMigrate    bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

type SessionConfig struct {
	CookieName  string
	Lifetime    time.Duration
	IdleTimeout time.Duration
	Secure      bool
}

type AuthConfig struct {
	BcryptCost     int
	ResetCodeCount int
	// Login and signup attempts allowed per client IP.
	RateLimit float64 // requests per second
	RateBurst int
}

// =====================================================
// IMAGE HOSTING
// =====================================================

type ImageHostConfig struct {
	Provider   string // minio, imgbb
	ImgbbKey   string
	ImgbbURL   string
	Expiration int // seconds, imgbb only
}

type MinIOConfig struct {
	Endpoint  string // localhost:9000
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string // base URL returned to clients, defaults to the endpoint
}

type QueueConfig struct {
	Enabled     bool
	Concurrency int
	HealthAddr  string // worker liveness endpoint
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "serialfic")
	v.SetDefault("app_env", "development")
	v.SetDefault("app_port", "8080")
	v.SetDefault("app_version", "1.0.0")
	v.SetDefault("app_allowed_origins", "http://localhost:5173")
	v.SetDefault("db_auto_migrate", true)

	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_pool_size", 10)

	v.SetDefault("session_cookie_name", "session")
	v.SetDefault("session_lifetime", "72h")
	v.SetDefault("session_idle_timeout", "0s")
	v.SetDefault("session_secure", false)

	v.SetDefault("auth_bcrypt_cost", 10)
	v.SetDefault("auth_reset_code_count", 6)
	v.SetDefault("auth_rate_limit", 1.0)
	v.SetDefault("auth_rate_burst", 5)

	v.SetDefault("image_host", "minio")
	v.SetDefault("imgbb_key", "")
	v.SetDefault("imgbb_url", "https://api.imgbb.com/1/upload")
	v.SetDefault("imgbb_expiration", 2628000)

	v.SetDefault("minio_endpoint", "localhost:9000")
	v.SetDefault("minio_access_key", "minioadmin")
	v.SetDefault("minio_secret_key", "minioadmin")
	v.SetDefault("minio_bucket", "serialfic")
	v.SetDefault("minio_use_ssl", false)
	v.SetDefault("minio_public_url", "")

	v.SetDefault("queue_enabled", true)
	v.SetDefault("queue_concurrency", 5)
	v.SetDefault("worker_health_addr", ":9999")

	setDatabaseDefaults(v)
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	dbConfig, err := loadDatabaseConfig(v)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:           v.GetString("APP_NAME"),
			Environment:    v.GetString("APP_ENV"),
			Port:           v.GetString("APP_PORT"),
			Version:        v.GetString("APP_VERSION"),
			AllowedOrigins: splitList(v.GetString("APP_ALLOWED_ORIGINS")),
			AutoMigrate:    v.GetBool("DB_AUTO_MIGRATE"),
		},
		Database: dbConfig,
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			PoolSize: v.GetInt("REDIS_POOL_SIZE"),
		},
		Session: SessionConfig{
			CookieName:  v.GetString("SESSION_COOKIE_NAME"),
			Lifetime:    v.GetDuration("SESSION_LIFETIME"),
			IdleTimeout: v.GetDuration("SESSION_IDLE_TIMEOUT"),
			Secure:      v.GetBool("SESSION_SECURE"),
		},
		Auth: AuthConfig{
			BcryptCost:     v.GetInt("AUTH_BCRYPT_COST"),
			ResetCodeCount: v.GetInt("AUTH_RESET_CODE_COUNT"),
			RateLimit:      v.GetFloat64("AUTH_RATE_LIMIT"),
			RateBurst:      v.GetInt("AUTH_RATE_BURST"),
		},
		ImageHost: ImageHostConfig{
			Provider:   strings.ToLower(v.GetString("IMAGE_HOST")),
			ImgbbKey:   v.GetString("IMGBB_KEY"),
			ImgbbURL:   v.GetString("IMGBB_URL"),
			Expiration: v.GetInt("IMGBB_EXPIRATION"),
		},
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			PublicURL: v.GetString("MINIO_PUBLIC_URL"),
		},
		Queue: QueueConfig{
			Enabled:     v.GetBool("QUEUE_ENABLED"),
			Concurrency: v.GetInt("QUEUE_CONCURRENCY"),
			HealthAddr:  v.GetString("WORKER_HEALTH_ADDR"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail at first use.
func (c *Config) Validate() error {
	switch c.ImageHost.Provider {
	case "minio":
	case "imgbb":
		if c.ImageHost.ImgbbKey == "" {
			return fmt.Errorf("IMGBB_KEY is required when IMAGE_HOST=imgbb")
		}
	default:
		return fmt.Errorf("unknown IMAGE_HOST %q (expected minio or imgbb)", c.ImageHost.Provider)
	}

	if c.Auth.ResetCodeCount <= 0 {
		return fmt.Errorf("AUTH_RESET_CODE_COUNT must be positive")
	}
	if c.Session.Lifetime <= 0 {
		return fmt.Errorf("SESSION_LIFETIME must be positive")
	}

	if c.IsProduction() {
		if !c.Session.Secure {
			return fmt.Errorf("SESSION_SECURE must be true in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required in production")
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
