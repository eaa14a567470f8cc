package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/jwebster45206/musilife/pkg/content"
)

// MockStorage is a mock implementation of Storage for testing
type MockStorage struct {
	mu        sync.RWMutex
	catalog   *content.Catalog
	pingError error
	loadError error
	loads     int
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a mock serving the given catalog
func NewMockStorage(catalog *content.Catalog) *MockStorage {
	return &MockStorage{catalog: catalog}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetLoadError configures the mock to fail LoadCatalog with the given error
func (m *MockStorage) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadError = err
}

// SetCatalog replaces the served catalog
func (m *MockStorage) SetCatalog(catalog *content.Catalog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalog = catalog
}

// Loads reports how many times LoadCatalog was called
func (m *MockStorage) Loads() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loads
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) LoadCatalog(ctx context.Context) (*content.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.loadError != nil {
		return nil, fmt.Errorf("%w: %w", ErrContentUnavailable, m.loadError)
	}
	if m.catalog == nil {
		return nil, fmt.Errorf("%w: no catalog configured", ErrContentUnavailable)
	}
	return m.catalog, nil
}
