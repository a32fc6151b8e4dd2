package config

import (
	"time"

	"bookstore-migrator/internal/infrastructure/database"
)

// LoadDatabaseConfig đọc config Postgres từ environment và trả về DBConfig.
// DATABASE_URL có thể rỗng; chỉ bắt buộc khi command cần kết nối trực tiếp.
func LoadDatabaseConfig(env *Environment) (*database.DBConfig, error) {
	maxConns, err := env.Int("DB_MAX_CONNECTIONS", 4)
	if err != nil {
		return nil, err
	}

	maxRetries, err := env.Int("DB_MAX_RETRIES", 5)
	if err != nil {
		return nil, err
	}

	retryDelay, err := env.Duration("DB_RETRY_DELAY", time.Second)
	if err != nil {
		return nil, err
	}

	connectTimeout, err := env.Duration("DB_CONNECT_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	return &database.DBConfig{
		URL:            env.First("DATABASE_URL", "SUPABASE_DB_URL"),
		MaxConns:       int32(maxConns),
		MaxRetries:     maxRetries,
		RetryDelay:     retryDelay,
		ConnectTimeout: connectTimeout,
	}, nil
}
