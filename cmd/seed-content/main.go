// seed-content publishes the content in DATA_DIR to Redis so an API started
// with CONTENT_SOURCE=redis can serve it.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jwebster45206/musilife/internal/config"
	"github.com/jwebster45206/musilife/internal/logger"
	"github.com/jwebster45206/musilife/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.Setup(cfg)

	if err := run(cfg, log); err != nil {
		log.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	catalog, err := storage.NewFileStorage(cfg.DataDir, log).LoadCatalog(ctx)
	if err != nil {
		return err
	}
	if err := catalog.Validate(); err != nil {
		return err
	}

	rs, err := storage.NewRedisStorage(cfg.RedisURL, cfg.RedisPrefix, log)
	if err != nil {
		return err
	}
	defer func() { _ = rs.Close() }()

	if err := rs.WaitForConnection(ctx, 5, time.Second); err != nil {
		return err
	}
	if err := rs.PublishCatalog(ctx, catalog); err != nil {
		return err
	}

	log.Info("Published content",
		"redis_url", cfg.RedisURL,
		"prefix", cfg.RedisPrefix,
		"questions", len(catalog.Questions),
		"opportunities", len(catalog.Opportunities),
		"events", len(catalog.Events))
	return nil
}
