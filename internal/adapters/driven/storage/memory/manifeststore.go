package memory

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/ppm/internal/core/domain"
	"github.com/custodia-labs/ppm/internal/core/ports/driven"
)

// Ensure ManifestStore implements the interface.
var _ driven.ManifestStore = (*ManifestStore)(nil)

// ManifestStore is an in-memory implementation of driven.ManifestStore for testing.
// Load and Write exchange deep copies, so callers never share state with the store.
type ManifestStore struct {
	mu       sync.RWMutex
	path     string
	manifest *domain.Manifest
	writes   int
	writeErr error
}

// NewManifestStore creates a new in-memory manifest store.
// A nil manifest behaves like a missing file.
func NewManifestStore(path string, manifest *domain.Manifest) *ManifestStore {
	s := &ManifestStore{path: path}
	if manifest != nil {
		s.manifest = manifest.Clone()
	}
	return s
}

// Load returns a copy of the stored manifest.
func (s *ManifestStore) Load() (*domain.Manifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.manifest == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, s.path)
	}
	return s.manifest.Clone(), nil
}

// Write replaces the stored manifest with a copy of manifest.
func (s *ManifestStore) Write(manifest *domain.Manifest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, s.writeErr)
	}
	s.manifest = manifest.Clone()
	s.writes++
	return nil
}

// Exists reports whether a manifest has been stored.
func (s *ManifestStore) Exists() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.manifest != nil
}

// Path returns the path the store was created with.
func (s *ManifestStore) Path() string {
	return s.path
}

// SetWriteError makes subsequent writes fail with err. Nil restores writes.
func (s *ManifestStore) SetWriteError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}

// Writes returns the number of successful writes.
func (s *ManifestStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// Ensure ManifestStoreFactory implements the interface.
var _ driven.ManifestStoreFactory = (*ManifestStoreFactory)(nil)

// ManifestStoreFactory hands out one in-memory store per path.
type ManifestStoreFactory struct {
	mu     sync.Mutex
	stores map[string]*ManifestStore
}

// NewManifestStoreFactory creates a new in-memory manifest store factory.
func NewManifestStoreFactory() *ManifestStoreFactory {
	return &ManifestStoreFactory{
		stores: make(map[string]*ManifestStore),
	}
}

// Open returns the store for path, creating an empty one on first use.
func (f *ManifestStoreFactory) Open(path string) driven.ManifestStore {
	return f.Store(path)
}

// Store returns the concrete store for path.
func (f *ManifestStoreFactory) Store(path string) *ManifestStore {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.stores[path]
	if !ok {
		s = NewManifestStore(path, nil)
		f.stores[path] = s
	}
	return s
}
