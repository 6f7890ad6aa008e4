package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the whole application configuration.
// Every field is populated from environment variables (see Load).
type Config struct {
	App    AppConfig
	API    APIConfig
	Upload UploadConfig
	Query  QueryConfig
	DevAPI DevAPIConfig
	Redis  RedisConfig
	JWT    JWTConfig
	MinIO  MinIOConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Version     string
	LogLevel    string
}

// APIConfig describes the CMS backend the admin client talks to.
type APIConfig struct {
	BaseURL string        // e.g. http://localhost:8080/api
	Token   string        // optional pre-issued bearer token
	Timeout time.Duration // HTTP client timeout, no retries on top of it
}

type UploadConfig struct {
	MaxBytes int64 // client-side size hint, the server stays authoritative
}

type QueryConfig struct {
	StaleTime time.Duration // 0 = every read revalidates
}

// DevAPIConfig configures the reference backend started by cmd/devapi.
type DevAPIConfig struct {
	Port          string
	PublicURL     string // base used to build file URLs for memory storage
	AdminUsername string
	AdminPassword string
	Store         string // memory | postgres
	Storage       string // memory | minio
	Cache         string // memory | redis
	CacheTTL      time.Duration
	CORSOrigins   []string
	LoginPerMin   int // login attempts per client IP per minute
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	AccessTokenExpiry int // minutes
}

type MinIOConfig struct {
	Endpoint  string // localhost:9000
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

const defaultJWTSecret = "your-secret-key-change-in-production"

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	port := getEnv("DEVAPI_PORT", "8080")
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Yaro Wora Admin"),
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:"+port+"/api"),
			Token:   getEnv("API_TOKEN", ""),
			Timeout: getEnvDuration("API_TIMEOUT", 30*time.Second),
		},
		Upload: UploadConfig{
			MaxBytes: int64(getEnvInt("UPLOAD_MAX_BYTES", 10<<20)),
		},
		Query: QueryConfig{
			StaleTime: getEnvDuration("QUERY_STALE_TIME", 0),
		},
		DevAPI: DevAPIConfig{
			Port:          port,
			PublicURL:     getEnv("DEVAPI_PUBLIC_URL", "http://localhost:"+port),
			AdminUsername: getEnv("DEVAPI_ADMIN_USERNAME", "admin"),
			AdminPassword: getEnv("DEVAPI_ADMIN_PASSWORD", "admin123"),
			Store:         getEnv("DEVAPI_STORE", "memory"),
			Storage:       getEnv("DEVAPI_STORAGE", "memory"),
			Cache:         getEnv("DEVAPI_CACHE", "memory"),
			CacheTTL:      getEnvDuration("DEVAPI_CACHE_TTL", 5*time.Minute),
			CORSOrigins:   getEnvList("DEVAPI_CORS_ORIGINS"),
			LoginPerMin:   getEnvInt("DEVAPI_LOGIN_PER_MIN", 10),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry: getEnvInt("JWT_ACCESS_EXPIRY", 24*60),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "yaro-wora"),
			UseSSL:    getEnv("MINIO_USE_SSL", "false") == "true",
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate rejects configurations that cannot work or are unsafe.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL must be set")
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}
	switch c.DevAPI.Store {
	case "memory", "postgres":
	default:
		return fmt.Errorf("DEVAPI_STORE must be memory or postgres, got %q", c.DevAPI.Store)
	}
	switch c.DevAPI.Storage {
	case "memory", "minio":
	default:
		return fmt.Errorf("DEVAPI_STORAGE must be memory or minio, got %q", c.DevAPI.Storage)
	}
	switch c.DevAPI.Cache {
	case "memory", "redis":
	default:
		return fmt.Errorf("DEVAPI_CACHE must be memory or redis, got %q", c.DevAPI.Cache)
	}

	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.DevAPI.AdminPassword == "admin123" {
			return fmt.Errorf("DEVAPI_ADMIN_PASSWORD must be set in production")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvList splits a comma separated variable, dropping empty items.
func getEnvList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
