package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jwebster45206/musilife/pkg/content"
	"github.com/jwebster45206/musilife/pkg/storage"
)

// Extensions tried for each collection, in order.
var fileExtensions = []string{".json", ".yaml", ".yml"}

// FileStorage reads content collections from a data directory.
type FileStorage struct {
	dataDir string
	logger  *slog.Logger
}

// Ensure FileStorage implements Storage interface
var _ storage.Storage = (*FileStorage)(nil)

// NewFileStorage creates a filesystem content source
func NewFileStorage(dataDir string, logger *slog.Logger) *FileStorage {
	if dataDir == "" {
		dataDir = "./data"
	}
	return &FileStorage{dataDir: dataDir, logger: logger}
}

func (f *FileStorage) Ping(ctx context.Context) error {
	info, err := os.Stat(f.dataDir)
	if err != nil {
		return fmt.Errorf("data directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data directory %s is not a directory", f.dataDir)
	}
	return nil
}

func (f *FileStorage) Close() error {
	return nil
}

func (f *FileStorage) LoadCatalog(ctx context.Context) (*content.Catalog, error) {
	return loadCatalog(ctx, "file", f.readCollection, f.logger)
}

// readCollection returns the first of {name}.json, {name}.yaml, {name}.yml found.
func (f *FileStorage) readCollection(ctx context.Context, collection string) ([]byte, content.Format, error) {
	for _, ext := range fileExtensions {
		path := filepath.Join(f.dataDir, collection+ext)
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		f.logger.Debug("Loading content file", "collection", collection, "path", path)
		return data, content.FormatFromPath(path), nil
	}
	return nil, "", fmt.Errorf("%w: no %s file in %s", errNotFound, collection, f.dataDir)
}
