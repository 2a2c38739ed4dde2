package driving

import (
	"context"

	"github.com/custodia-labs/ppm/internal/core/domain"
)

// PackageService keeps the manifest's declared packages in step with
// the environment.
//
// Batch operations never fail atomically: per-package failures are
// collected in the returned report. The error return is reserved for
// failures that prevent the batch from starting (e.g., missing manifest).
type PackageService interface {
	// Add installs each specifier and records its resolved version.
	Add(ctx context.Context, specs []string) (*domain.BatchReport, error)

	// Remove uninstalls each declared package and drops it from the manifest.
	Remove(ctx context.Context, names []string) (*domain.BatchReport, error)

	// InstallFromManifest installs every declared package at its recorded version.
	InstallFromManifest(ctx context.Context) (*domain.BatchReport, error)

	// InstallFromRequirements adds every specifier listed in a requirements file.
	InstallFromRequirements(ctx context.Context, path string) (*domain.BatchReport, error)

	// Update upgrades every declared package and records new versions.
	Update(ctx context.Context) (*domain.BatchReport, error)

	// GenerateRequirements writes the declared packages as a requirements file.
	// Returns the number of packages written.
	GenerateRequirements(ctx context.Context, path string) (int, error)
}
