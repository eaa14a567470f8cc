package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jwebster45206/musilife/internal/config"
	"github.com/jwebster45206/musilife/pkg/storage"
)

// Open returns the content source selected by cfg.ContentSource.
// For redis it waits for the server to come up.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	switch cfg.ContentSource {
	case config.SourceFile:
		return NewFileStorage(cfg.DataDir, logger), nil
	case config.SourceHTTP:
		return NewHTTPStorage(cfg.ContentURL, logger), nil
	case config.SourceRedis:
		rs, err := NewRedisStorage(cfg.RedisURL, cfg.RedisPrefix, logger)
		if err != nil {
			return nil, err
		}
		if err := rs.WaitForConnection(ctx, 30, 2*time.Second); err != nil {
			_ = rs.Close()
			return nil, err
		}
		return rs, nil
	default:
		return nil, fmt.Errorf("unknown content source %q", cfg.ContentSource)
	}
}
