// Package vcs initialises version control for scaffolded projects.
package vcs

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"

	"github.com/custodia-labs/ppm/internal/core/ports/driven"
	"github.com/custodia-labs/ppm/internal/logger"
)

// Ensure Git implements the interface.
var _ driven.VCS = (*Git)(nil)

// Git creates repositories with go-git, so no git binary is required.
type Git struct{}

// NewGit creates a new git adapter.
func NewGit() *Git {
	return &Git{}
}

// Init creates a non-bare repository in dir. An existing repository is
// left untouched, matching "git init" on an already initialised directory.
func (g *Git) Init(_ context.Context, dir string) error {
	_, err := git.PlainInit(dir, false)
	if errors.Is(err, git.ErrRepositoryAlreadyExists) {
		logger.Debug("Git repository already exists in %s", dir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("git init %s: %w", dir, err)
	}
	return nil
}
