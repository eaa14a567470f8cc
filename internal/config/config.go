package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Content sources
const (
	SourceFile  = "file"
	SourceHTTP  = "http"
	SourceRedis = "redis"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	ContentSource string
	DataDir       string
	ContentURL    string
	RedisURL      string
	RedisPrefix   string

	// Seed for the session RNG. Zero means time based.
	Seed int64
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		LogLevel:      parseLogLevel(getEnv("LOG_LEVEL", "info")),
		ContentSource: strings.ToLower(getEnv("CONTENT_SOURCE", SourceFile)),
		DataDir:       getEnv("DATA_DIR", "./data"),
		ContentURL:    getEnv("CONTENT_URL", ""),
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPrefix:   getEnv("REDIS_PREFIX", "musilife:content"),
	}

	seed, err := strconv.ParseInt(getEnv("SEED", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SEED: %w", err)
	}
	cfg.Seed = seed

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", cfg.Port, err)
	}

	switch cfg.ContentSource {
	case SourceFile, SourceRedis:
	case SourceHTTP:
		if cfg.ContentURL == "" {
			return nil, fmt.Errorf("CONTENT_URL is required when CONTENT_SOURCE=%s", SourceHTTP)
		}
	default:
		return nil, fmt.Errorf("invalid CONTENT_SOURCE %q: want %s, %s or %s",
			cfg.ContentSource, SourceFile, SourceHTTP, SourceRedis)
	}

	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
