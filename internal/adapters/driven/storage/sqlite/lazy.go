package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/ppm/internal/core/domain"
	"github.com/custodia-labs/ppm/internal/core/ports/driven"
)

// Ensure LazyHistoryStore implements the interface.
var _ driven.HistoryStore = (*LazyHistoryStore)(nil)

// LazyHistoryStore opens the journal on first use, so commands that never
// touch packages leave no .ppm directory behind.
type LazyHistoryStore struct {
	mu      sync.Mutex
	dataDir string
	store   *Store
	history driven.HistoryStore
}

// NewLazyHistoryStore creates a journal rooted at dataDir without any I/O.
func NewLazyHistoryStore(dataDir string) *LazyHistoryStore {
	return &LazyHistoryStore{dataDir: dataDir}
}

// Record opens the journal if needed and appends entry.
func (l *LazyHistoryStore) Record(ctx context.Context, entry domain.HistoryEntry) error {
	history, err := l.open()
	if err != nil {
		return err
	}
	return history.Record(ctx, entry)
}

// List returns recorded entries. A journal that was never written is empty.
func (l *LazyHistoryStore) List(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	l.mu.Lock()
	opened := l.history != nil
	l.mu.Unlock()

	if !opened {
		if _, err := os.Stat(filepath.Join(l.dataDir, DatabaseFile)); os.IsNotExist(err) {
			return nil, nil
		}
	}

	history, err := l.open()
	if err != nil {
		return nil, err
	}
	return history.List(ctx, limit)
}

// Close closes the journal if it was opened.
func (l *LazyHistoryStore) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.store == nil {
		return nil
	}
	err := l.store.Close()
	l.store = nil
	l.history = nil
	return err
}

// Dir returns the data directory.
func (l *LazyHistoryStore) Dir() string {
	return l.dataDir
}

func (l *LazyHistoryStore) open() (driven.HistoryStore, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.history != nil {
		return l.history, nil
	}

	store, err := NewStore(l.dataDir)
	if err != nil {
		return nil, err
	}
	l.store = store
	l.history = store.HistoryStore()
	return l.history, nil
}
