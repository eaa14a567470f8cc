package storage

import (
	"context"
	"errors"

	"github.com/jwebster45206/musilife/pkg/content"
)

// ErrContentUnavailable is returned when a content source cannot be reached or
// parsed. A session cannot start without content.
var ErrContentUnavailable = errors.New("content unavailable")

// Storage is a source of game content.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// LoadCatalog fetches and parses the questions, opportunities and events
	// collections. It is called once, before the first decision phase.
	LoadCatalog(ctx context.Context) (*content.Catalog, error)
}
