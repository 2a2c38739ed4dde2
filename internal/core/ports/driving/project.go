package driving

import (
	"context"

	"github.com/custodia-labs/ppm/internal/core/domain"
)

// ProjectService creates and maintains projects.
type ProjectService interface {
	// Create scaffolds a new project.
	// Failures after the target check are reported as *domain.StepError.
	Create(ctx context.Context, opts domain.ProjectOptions) (*domain.ScaffoldResult, error)

	// Bump increments the project version and returns the old and new versions.
	Bump(ctx context.Context, kind domain.BumpKind) (string, string, error)

	// Info returns the current manifest.
	Info(ctx context.Context) (*domain.Manifest, error)
}
