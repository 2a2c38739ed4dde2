package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ppm/internal/core/domain"
	"github.com/custodia-labs/ppm/internal/core/ports/driven"
	"github.com/custodia-labs/ppm/internal/core/ports/driving"
	"github.com/custodia-labs/ppm/internal/logger"
)

// Ensure ScriptService implements the interface.
var _ driving.ScriptService = (*ScriptService)(nil)

// ScriptService runs manifest scripts with the environment's executables
// first on PATH.
type ScriptService struct {
	manifests driven.ManifestStore
	env       driven.Environment
	shell     driven.Shell
}

// NewScriptService creates a new script service.
func NewScriptService(manifests driven.ManifestStore, env driven.Environment, shell driven.Shell) *ScriptService {
	return &ScriptService{
		manifests: manifests,
		env:       env,
		shell:     shell,
	}
}

// Run executes the named script and returns its exit code.
func (s *ScriptService) Run(ctx context.Context, name string, stdio driving.ScriptIO) (int, error) {
	manifest, err := s.load()
	if err != nil {
		return 0, err
	}

	command, ok := manifest.Script(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrScriptNotFound, name)
	}

	logger.Info("Running script %s: %s", name, command)
	return s.exec(ctx, command, stdio)
}

// Start executes the project's entry point with the environment's interpreter.
func (s *ScriptService) Start(ctx context.Context, stdio driving.ScriptIO) (int, error) {
	manifest, err := s.load()
	if err != nil {
		return 0, err
	}

	if manifest.Project.Main == "" {
		return 0, fmt.Errorf("%w: no entry point defined in %s", domain.ErrInvalidInput, s.manifests.Path())
	}

	command := `python "` + manifest.Project.Main + `"`
	logger.Info("Starting %s", manifest.Project.Main)
	return s.exec(ctx, command, stdio)
}

// Build executes the "build" script.
func (s *ScriptService) Build(ctx context.Context, stdio driving.ScriptIO) (int, error) {
	manifest, err := s.load()
	if err != nil {
		return 0, err
	}

	command, ok := manifest.Script(domain.BuildScript)
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrScriptNotFound, domain.BuildScript)
	}

	logger.Info("Building project: %s", manifest.Project.Name)
	return s.exec(ctx, command, stdio)
}

func (s *ScriptService) exec(ctx context.Context, command string, stdio driving.ScriptIO) (int, error) {
	logger.Debug("Executing via %s shell with PATH prefix %s", s.shell.Name(), s.env.ExecutableDir())

	code, err := s.shell.Exec(ctx, driven.ShellRequest{
		Command:    command,
		PathPrefix: s.env.ExecutableDir(),
		Stdin:      stdio.Stdin,
		Stdout:     stdio.Stdout,
		Stderr:     stdio.Stderr,
	})
	if err != nil {
		return 0, fmt.Errorf("execute %q: %w", command, err)
	}
	return code, nil
}

func (s *ScriptService) load() (*domain.Manifest, error) {
	manifest, err := s.manifests.Load()
	if err != nil {
		return nil, fmt.Errorf("load manifest %s: %w", s.manifests.Path(), err)
	}
	manifest.Normalise()
	return manifest, nil
}
