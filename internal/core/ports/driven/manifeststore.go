package driven

import "github.com/custodia-labs/ppm/internal/core/domain"

// ManifestStore persists a project manifest.
// Implementations handle the on-disk format (e.g., TOML files).
type ManifestStore interface {
	// Load reads the manifest.
	// Returns domain.ErrNotFound if no manifest exists and
	// domain.ErrParse if the persisted form is malformed.
	Load() (*domain.Manifest, error)

	// Write replaces the persisted manifest in full.
	// Failures wrap domain.ErrPersistence.
	Write(manifest *domain.Manifest) error

	// Exists reports whether a manifest is present.
	Exists() bool

	// Path returns the manifest location.
	Path() string
}

// ManifestStoreFactory opens manifest stores at arbitrary locations.
// Scaffolding uses it to write the manifest of a project that does not exist yet.
type ManifestStoreFactory interface {
	Open(path string) ManifestStore
}
