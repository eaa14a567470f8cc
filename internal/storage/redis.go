package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jwebster45206/musilife/pkg/content"
	"github.com/jwebster45206/musilife/pkg/storage"
	"github.com/redis/go-redis/v9"
)

// RedisStorage reads content collections stored as JSON strings under
// {prefix}:{collection}.
type RedisStorage struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// Ensure RedisStorage implements Storage interface
var _ storage.Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis content source. redisURL may be a
// host:port address or a redis:// URL.
func NewRedisStorage(redisURL, prefix string, logger *slog.Logger) (*RedisStorage, error) {
	opt := &redis.Options{Addr: redisURL}
	if strings.Contains(redisURL, "://") {
		var err error
		opt, err = redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis URL: %w", err)
		}
	}

	if prefix == "" {
		prefix = "musilife:content"
	}

	return &RedisStorage{
		client: redis.NewClient(opt),
		prefix: prefix,
		logger: logger,
	}, nil
}

// Key returns the redis key holding a collection.
func (r *RedisStorage) Key(collection string) string {
	return r.prefix + ":" + collection
}

// Health and lifecycle methods

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context, maxRetries int, retryDelay time.Duration) error {
	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

func (r *RedisStorage) LoadCatalog(ctx context.Context) (*content.Catalog, error) {
	return loadCatalog(ctx, "redis", r.fetch, r.logger)
}

func (r *RedisStorage) fetch(ctx context.Context, collection string) ([]byte, content.Format, error) {
	key := r.Key(collection)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, "", fmt.Errorf("%w: key %s", errNotFound, key)
		}
		return nil, "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, content.FormatJSON, nil
}

// PublishCatalog writes every collection of catalog to redis in one transaction,
// replacing whatever was there.
func (r *RedisStorage) PublishCatalog(ctx context.Context, catalog *content.Catalog) error {
	docs := map[string]any{
		content.CollectionQuestions:     catalog.Questions,
		content.CollectionOpportunities: catalog.Opportunities,
		content.CollectionEvents:        catalog.Events,
	}

	encoded := make(map[string][]byte, len(docs))
	for collection, list := range docs {
		data, err := json.Marshal(list)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", collection, err)
		}
		encoded[collection] = data
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, collection := range content.Collections {
			pipe.Set(ctx, r.Key(collection), encoded[collection], 0)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to publish content", "prefix", r.prefix, "error", err)
		return fmt.Errorf("failed to publish content: %w", err)
	}

	r.logger.Info("Content published", "prefix", r.prefix, "counts", catalog.Counts())
	return nil
}
