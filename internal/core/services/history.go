package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ppm/internal/core/domain"
	"github.com/custodia-labs/ppm/internal/core/ports/driven"
	"github.com/custodia-labs/ppm/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService lists journaled package operations.
type HistoryService struct {
	store driven.HistoryStore
}

// NewHistoryService creates a new history service. A nil store yields
// an empty history.
func NewHistoryService(store driven.HistoryStore) *HistoryService {
	return &HistoryService{store: store}
}

// List returns at most limit entries, newest first.
func (s *HistoryService) List(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if s.store == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = domain.DefaultHistoryLimit
	}

	entries, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}
