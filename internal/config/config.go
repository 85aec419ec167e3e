package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App struct {
		Env string
	}

	Log struct {
		Level     string
		Format    string
		Component string
		Source    bool
	}

	DB struct {
		DSN      string
		Host     string
		Port     string
		User     string
		Password string
		Name     string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	HTTP struct {
		Host           string
		Port           string
		RequestTimeout time.Duration
	}

	Feed struct {
		DefaultPageSize int
		MaxPageSize     int
		MaxLookahead    int
	}

	Notifier struct {
		URL     string
		Timeout time.Duration
	}

	Async struct {
		PoolSize       int
		ReleaseTimeout time.Duration
	}
}

func New() *Config {
	cfg := &Config{}

	cfg.App.Env = getEnvDefault("APP_ENV", "production")

	// Logger
	cfg.Log.Level = getEnvDefault("LOG_LEVEL", "info")
	cfg.Log.Format = getEnvDefault("LOG_FORMAT", "text")
	cfg.Log.Component = getEnvDefault("LOG_COMPONENT", "http_server")
	cfg.Log.Source = isTruthy(os.Getenv("LOG_SOURCE"))

	// Database
	cfg.DB.DSN = os.Getenv("MYSQL_DSN")
	if cfg.DB.DSN == "" {
		cfg.DB.Host = getEnvDefault("DB_HOST", "localhost")
		cfg.DB.Port = getEnvDefault("DB_PORT", "3306")
		cfg.DB.User = getEnvDefault("DB_USER", "root")
		cfg.DB.Password = getEnvDefault("DB_PASSWORD", "root")
		cfg.DB.Name = getEnvDefault("DB_NAME", "lumora")

		cfg.DB.DSN = fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
			cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name,
		)
	}

	// Redis
	cfg.Redis.Addr = getEnvDefault("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnvDefault("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	// HTTP
	cfg.HTTP.Host = getEnvDefault("HTTP_HOST", "0.0.0.0")
	cfg.HTTP.Port = getEnvDefault("HTTP_PORT", "8080")
	cfg.HTTP.RequestTimeout = getEnvDuration("HTTP_REQUEST_TIMEOUT", 10*time.Second)

	// Discovery feed
	cfg.Feed.DefaultPageSize = getEnvInt("FEED_DEFAULT_PAGE_SIZE", 20)
	cfg.Feed.MaxPageSize = getEnvInt("FEED_MAX_PAGE_SIZE", 100)
	cfg.Feed.MaxLookahead = getEnvInt("FEED_MAX_LOOKAHEAD", 8)

	// Notification collaborator
	cfg.Notifier.URL = getEnvDefault("NOTIFIER_URL", "http://localhost:9090/internal/notifications")
	cfg.Notifier.Timeout = getEnvDuration("NOTIFIER_TIMEOUT", 3*time.Second)

	// Async pool
	cfg.Async.PoolSize = getEnvInt("ASYNC_POOL_SIZE", 64)
	cfg.Async.ReleaseTimeout = getEnvDuration("ASYNC_RELEASE_TIMEOUT", 5*time.Second)

	return cfg
}

func getEnvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvDuration(k string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
