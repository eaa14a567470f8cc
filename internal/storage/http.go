package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jwebster45206/musilife/pkg/content"
	"github.com/jwebster45206/musilife/pkg/storage"
)

// Largest collection document accepted from a remote source.
const maxDocumentSize = 8 << 20

// HTTPStorage fetches content collections as JSON documents from a base URL.
type HTTPStorage struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// Ensure HTTPStorage implements Storage interface
var _ storage.Storage = (*HTTPStorage)(nil)

// NewHTTPStorage creates a content source reading {baseURL}/{collection}.json
func NewHTTPStorage(baseURL string, logger *slog.Logger) *HTTPStorage {
	return &HTTPStorage{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

func (h *HTTPStorage) url(collection string) string {
	return h.baseURL + "/" + collection + ".json"
}

func (h *HTTPStorage) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, h.url(content.CollectionQuestions), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("content server unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("content server returned %s", resp.Status)
	}
	return nil
}

func (h *HTTPStorage) Close() error {
	h.client.CloseIdleConnections()
	return nil
}

func (h *HTTPStorage) LoadCatalog(ctx context.Context) (*content.Catalog, error) {
	return loadCatalog(ctx, "http", h.fetch, h.logger)
}

func (h *HTTPStorage) fetch(ctx context.Context, collection string) ([]byte, content.Format, error) {
	url := h.url(collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	h.logger.Debug("Fetching content", "url", url)
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, "", fmt.Errorf("%w: %s", errNotFound, url)
	case resp.StatusCode != http.StatusOK:
		return nil, "", fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", url, err)
	}
	return data, content.FormatJSON, nil
}
