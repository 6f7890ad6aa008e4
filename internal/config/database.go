package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/infrastructure/database"
)

// LoadDatabaseConfig reads the Postgres settings used when DEVAPI_STORE=postgres.
func LoadDatabaseConfig() (*database.DBConfig, error) {
	port, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNECTIONS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNECTIONS: %w", err)
	}

	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNECTIONS", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNECTIONS: %w", err)
	}

	maxRetries, err := strconv.Atoi(getEnv("DB_MAX_RETRIES", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_RETRIES: %w", err)
	}

	var maxConnLifetime, maxConnIdleTime, healthCheckPeriod, retryDelay, connectTimeout time.Duration
	for key, spec := range map[string]struct {
		dst *time.Duration
		def string
	}{
		"DB_MAX_CONN_LIFETIME":   {&maxConnLifetime, "5m"},
		"DB_MAX_CONN_IDLE_TIME":  {&maxConnIdleTime, "1m"},
		"DB_HEALTH_CHECK_PERIOD": {&healthCheckPeriod, "1m"},
		"DB_RETRY_DELAY":         {&retryDelay, "1s"},
		"DB_CONNECT_TIMEOUT":     {&connectTimeout, "10s"},
	} {
		d, err := time.ParseDuration(getEnv(key, spec.def))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		*spec.dst = d
	}

	return &database.DBConfig{
		Host:              getEnv("DB_HOST", "localhost"),
		Port:              port,
		Username:          getEnv("DB_USER", "yaro_wora"),
		Password:          getEnv("DB_PASSWORD", "secret"),
		DBName:            getEnv("DB_NAME", "yaro_wora_dev"),
		SSLMode:           getEnv("DB_SSLMODE", "disable"),
		MaxConns:          int32(maxConns),
		MinConns:          int32(minConns),
		MaxConnLifetime:   maxConnLifetime,
		MaxConnIdleTime:   maxConnIdleTime,
		HealthCheckPeriod: healthCheckPeriod,
		MaxRetries:        maxRetries,
		RetryDelay:        retryDelay,
		ConnectTimeout:    connectTimeout,
	}, nil
}
