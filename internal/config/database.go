package config

import (
	"fmt"

	"github.com/spf13/viper"

	"serialfic-backend/internal/infrastructure/database"
)

func setDatabaseDefaults(v *viper.Viper) {
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 5432)
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "serialfic")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("db_max_connections", 25)
	v.SetDefault("db_min_connections", 2)
	v.SetDefault("db_max_conn_lifetime", "5m")
	v.SetDefault("db_max_conn_idle_time", "1m")
	v.SetDefault("db_health_check_period", "1m")
	v.SetDefault("db_max_retries", 5)
	v.SetDefault("db_retry_delay", "1s")
	v.SetDefault("db_connect_timeout", "10s")
}

func loadDatabaseConfig(v *viper.Viper) (*database.DBConfig, error) {
	cfg := &database.DBConfig{
		Host:              v.GetString("DB_HOST"),
		Port:              v.GetInt("DB_PORT"),
		Username:          v.GetString("DB_USER"),
		Password:          v.GetString("DB_PASSWORD"),
		DBName:            v.GetString("DB_NAME"),
		SSLMode:           v.GetString("DB_SSLMODE"),
		MaxConns:          v.GetInt32("DB_MAX_CONNECTIONS"),
		MinConns:          v.GetInt32("DB_MIN_CONNECTIONS"),
		MaxConnLifetime:   v.GetDuration("DB_MAX_CONN_LIFETIME"),
		MaxConnIdleTime:   v.GetDuration("DB_MAX_CONN_IDLE_TIME"),
		HealthCheckPeriod: v.GetDuration("DB_HEALTH_CHECK_PERIOD"),
		MaxRetries:        v.GetInt("DB_MAX_RETRIES"),
		RetryDelay:        v.GetDuration("DB_RETRY_DELAY"),
		ConnectTimeout:    v.GetDuration("DB_CONNECT_TIMEOUT"),
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid DB_PORT: %d", cfg.Port)
	}
	if cfg.MaxConns < cfg.MinConns {
		return nil, fmt.Errorf("DB_MAX_CONNECTIONS (%d) must be >= DB_MIN_CONNECTIONS (%d)", cfg.MaxConns, cfg.MinConns)
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	return cfg, nil
}
