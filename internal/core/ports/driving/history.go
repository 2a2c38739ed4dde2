package driving

import (
	"context"

	"github.com/custodia-labs/ppm/internal/core/domain"
)

// HistoryService lists journaled package operations.
type HistoryService interface {
	// List returns at most limit entries, newest first.
	List(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
}
