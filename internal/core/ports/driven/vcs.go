package driven

import "context"

// VCS initialises version control for a new project.
type VCS interface {
	// Init creates an empty repository at dir.
	Init(ctx context.Context, dir string) error
}
