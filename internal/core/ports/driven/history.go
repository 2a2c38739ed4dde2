package driven

import (
	"context"

	"github.com/custodia-labs/ppm/internal/core/domain"
)

// HistoryStore journals package operations.
type HistoryStore interface {
	// Record appends an entry.
	Record(ctx context.Context, entry domain.HistoryEntry) error

	// List returns at most limit entries, newest first.
	List(ctx context.Context, limit int) ([]domain.HistoryEntry, error)

	// Close releases any resources held by the store.
	Close() error
}
