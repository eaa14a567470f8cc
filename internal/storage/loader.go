package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/musilife/pkg/content"
	"github.com/jwebster45206/musilife/pkg/storage"
)

// errNotFound is returned by a fetch func when a collection does not exist.
var errNotFound = errors.New("collection not found")

// fetchFunc returns the raw document for one collection.
type fetchFunc func(ctx context.Context, collection string) ([]byte, content.Format, error)

// loadCatalog fetches and decodes every collection. Events are optional;
// the other collections must exist. Errors wrap storage.ErrContentUnavailable.
func loadCatalog(ctx context.Context, source string, fetch fetchFunc, logger *slog.Logger) (*content.Catalog, error) {
	var catalog content.Catalog
	for _, collection := range content.Collections {
		data, format, err := fetch(ctx, collection)
		if err != nil {
			if errors.Is(err, errNotFound) && collection == content.CollectionEvents {
				logger.Debug("No events collection", "source", source)
				continue
			}
			logger.Error("Failed to fetch content", "source", source, "collection", collection, "error", err)
			return nil, fmt.Errorf("%w: %s %s: %w", storage.ErrContentUnavailable, source, collection, err)
		}

		if err := catalog.Decode(collection, data, format); err != nil {
			logger.Error("Failed to decode content", "source", source, "collection", collection, "error", err)
			return nil, fmt.Errorf("%w: %s: %w", storage.ErrContentUnavailable, source, err)
		}
	}

	logger.Info("Content loaded", "source", source, "counts", catalog.Counts())
	return &catalog, nil
}
