package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/ppm/internal/core/domain"
	"github.com/custodia-labs/ppm/internal/core/ports/driven"
)

// Ensure ManifestStore implements the interface.
var _ driven.ManifestStore = (*ManifestStore)(nil)

// DefaultManifestFile is the manifest file name at a project root.
const DefaultManifestFile = "project.toml"

// manifestDocument is the on-disk TOML layout of a manifest.
type manifestDocument struct {
	Project  projectTable      `toml:"project"`
	Packages map[string]string `toml:"packages"`
	Scripts  map[string]string `toml:"scripts"`
}

type projectTable struct {
	Name        string `toml:"name"`
	Version     string `toml:"version"`
	Description string `toml:"description"`
	Main        string `toml:"main"`
}

// ManifestStore is a file-based implementation of driven.ManifestStore using TOML.
// Nothing is cached: every Load reads the file again.
type ManifestStore struct {
	mu       sync.Mutex
	filePath string
}

// NewManifestStore creates a TOML-based manifest store for filePath.
// The file does not need to exist.
func NewManifestStore(filePath string) *ManifestStore {
	return &ManifestStore{filePath: filePath}
}

// Load reads and decodes the manifest.
func (s *ManifestStore) Load() (*domain.Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, s.filePath)
		}
		return nil, fmt.Errorf("read %s: %w", s.filePath, err)
	}

	var doc manifestDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return nil, fmt.Errorf("%w: %s:%d:%d: %v", domain.ErrParse, s.filePath, row, col, decodeErr)
		}
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrParse, s.filePath, err)
	}

	if doc.Project.Name == "" {
		return nil, fmt.Errorf("%w: %s: project name is missing", domain.ErrParse, s.filePath)
	}

	manifest := &domain.Manifest{
		Project: domain.Project{
			Name:        doc.Project.Name,
			Version:     doc.Project.Version,
			Description: doc.Project.Description,
			Main:        doc.Project.Main,
		},
		Packages: doc.Packages,
		Scripts:  doc.Scripts,
	}
	manifest.Normalise()
	return manifest, nil
}

// Write replaces the manifest file. Content goes to a temporary file in the
// same directory first and is renamed over the target.
func (s *ManifestStore) Write(manifest *domain.Manifest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := manifestDocument{
		Project: projectTable{
			Name:        manifest.Project.Name,
			Version:     manifest.Project.Version,
			Description: manifest.Project.Description,
			Main:        manifest.Project.Main,
		},
		Packages: manifest.Packages,
		Scripts:  manifest.Scripts,
	}
	if doc.Packages == nil {
		doc.Packages = map[string]string{}
	}
	if doc.Scripts == nil {
		doc.Scripts = map[string]string{}
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", domain.ErrPersistence, s.filePath, err)
	}

	if err := writeFileAtomic(s.filePath, data); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return nil
}

// Exists reports whether the manifest file exists.
func (s *ManifestStore) Exists() bool {
	_, err := os.Stat(s.filePath)
	return err == nil
}

// Path returns the manifest file path.
func (s *ManifestStore) Path() string {
	return s.filePath
}

// writeFileAtomic writes data to a sibling temp file and renames it to path.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}
	// CreateTemp creates files with mode 0600.
	if err := os.Chmod(tmpPath, 0644); err != nil { //nolint:gosec // manifest is not secret
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// Ensure ManifestStoreFactory implements the interface.
var _ driven.ManifestStoreFactory = (*ManifestStoreFactory)(nil)

// ManifestStoreFactory opens TOML manifest stores for arbitrary paths.
type ManifestStoreFactory struct{}

// NewManifestStoreFactory creates a new manifest store factory.
func NewManifestStoreFactory() *ManifestStoreFactory {
	return &ManifestStoreFactory{}
}

// Open returns a store for the manifest at path.
func (f *ManifestStoreFactory) Open(path string) driven.ManifestStore {
	return NewManifestStore(path)
}
