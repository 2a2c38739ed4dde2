package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/ppm/internal/core/domain"
	"github.com/custodia-labs/ppm/internal/core/ports/driven"
	"github.com/custodia-labs/ppm/internal/core/ports/driving"
	"github.com/custodia-labs/ppm/internal/logger"
)

// Ensure ProjectService implements the interface.
var _ driving.ProjectService = (*ProjectService)(nil)

// noEnvironmentWarning is attached to projects created without an environment.
const noEnvironmentWarning = "Virtual environment is disabled, some commands might not work"

// ProjectLayout names the files a project keeps at its root.
type ProjectLayout struct {
	// ManifestFile is the manifest file name (e.g., "project.toml").
	ManifestFile string

	// EnvDir is the virtual environment directory name (e.g., "venv").
	EnvDir string
}

// ProjectService scaffolds projects and maintains project metadata.
type ProjectService struct {
	manifests driven.ManifestStore
	factory   driven.ManifestStoreFactory
	envs      driven.EnvironmentFactory
	vcs       driven.VCS
	templates driven.TemplateStore
	layout    ProjectLayout
}

// NewProjectService creates a new project service.
// manifests is the store of the project in the current directory; factory
// opens the manifest of projects being created. vcs may be nil, in which
// case creating a project with git enabled fails at the git step.
func NewProjectService(
	manifests driven.ManifestStore,
	factory driven.ManifestStoreFactory,
	envs driven.EnvironmentFactory,
	vcs driven.VCS,
	templates driven.TemplateStore,
	layout ProjectLayout,
) *ProjectService {
	return &ProjectService{
		manifests: manifests,
		factory:   factory,
		envs:      envs,
		vcs:       vcs,
		templates: templates,
		layout:    layout,
	}
}

// Create scaffolds a project. Steps run in order and stop at the first
// failure; files created by earlier steps are left on disk.
//
//nolint:gocyclo // Sequential scaffolding steps
func (s *ProjectService) Create(ctx context.Context, opts domain.ProjectOptions) (*domain.ScaffoldResult, error) {
	if err := validateProjectOptions(&opts); err != nil {
		return nil, err
	}

	base := opts.BaseDir
	if base == "" {
		base = "."
	}
	root := base
	if !opts.InPlace {
		root = filepath.Join(base, opts.Name)
	}
	manifestStore := s.factory.Open(filepath.Join(root, s.layout.ManifestFile))
	result := &domain.ScaffoldResult{Root: root}

	logger.Section("Create " + opts.Name)

	// 1. Target check: the only pre-flight guard.
	if opts.InPlace {
		if manifestStore.Exists() {
			return nil, fmt.Errorf("%w: project %q at %s", domain.ErrAlreadyExists, opts.Name, manifestStore.Path())
		}
	} else {
		_, err := os.Stat(root)
		if err == nil {
			return nil, fmt.Errorf("%w: project %q at %s", domain.ErrAlreadyExists, opts.Name, root)
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, &domain.StepError{Step: domain.StepTargetCheck, Err: err}
		}
	}
	result.Completed = append(result.Completed, domain.StepTargetCheck)

	// 2. Directory holding the entry point.
	entry := filepath.Join(root, filepath.FromSlash(opts.EntryPoint()))
	if err := os.MkdirAll(filepath.Dir(entry), 0755); err != nil { //nolint:gosec // project directories are world-readable
		return nil, &domain.StepError{Step: domain.StepDirectoryCreate, Err: err}
	}
	result.Completed = append(result.Completed, domain.StepDirectoryCreate)

	// 3. Boilerplate entry point.
	if err := s.writeTemplate(driven.TemplateMainPy, entry); err != nil {
		return nil, &domain.StepError{Step: domain.StepBoilerplateWrite, Err: err}
	}
	result.Completed = append(result.Completed, domain.StepBoilerplateWrite)

	// 4. Optional git repository.
	if opts.Git {
		if err := s.initGit(ctx, root); err != nil {
			return nil, &domain.StepError{Step: domain.StepGitInit, Err: err}
		}
		result.Completed = append(result.Completed, domain.StepGitInit)
	}

	// 5. Optional virtual environment.
	if opts.NoEnv {
		logger.Warn(noEnvironmentWarning)
		result.Warnings = append(result.Warnings, noEnvironmentWarning)
	} else {
		env := s.envs.ForRoot(filepath.Join(root, s.layout.EnvDir))
		if err := env.Create(ctx); err != nil {
			return nil, &domain.StepError{Step: domain.StepEnvironmentSetup, Err: err}
		}
		result.Completed = append(result.Completed, domain.StepEnvironmentSetup)
	}

	// 6. Manifest.
	manifest := domain.NewManifest(domain.Project{
		Name:        opts.Name,
		Version:     opts.Version,
		Description: opts.Description,
		Main:        opts.EntryPoint(),
	})
	if err := manifestStore.Write(manifest); err != nil {
		return nil, &domain.StepError{Step: domain.StepManifestCreate, Err: err}
	}
	result.Completed = append(result.Completed, domain.StepManifestCreate)
	result.Manifest = manifest

	logger.Info("Created project %s at %s", opts.Name, root)
	return result, nil
}

func (s *ProjectService) initGit(ctx context.Context, root string) error {
	if s.vcs == nil {
		return errors.New("version control not configured")
	}
	if err := s.vcs.Init(ctx, root); err != nil {
		return err
	}
	return s.writeTemplate(driven.TemplateGitignore, filepath.Join(root, ".gitignore"))
}

func (s *ProjectService) writeTemplate(name, path string) error {
	content, err := s.templates.Load(name)
	if err != nil {
		return fmt.Errorf("load template %s: %w", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil { //nolint:gosec // source files are world-readable
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Bump increments the project version and persists it.
func (s *ProjectService) Bump(_ context.Context, kind domain.BumpKind) (string, string, error) {
	manifest, err := s.load()
	if err != nil {
		return "", "", err
	}

	current := manifest.Project.Version
	next, err := domain.Bump(current, kind)
	if err != nil {
		return "", "", fmt.Errorf("bump version: %w", err)
	}

	manifest.Project.Version = next
	if err := s.manifests.Write(manifest); err != nil {
		return "", "", fmt.Errorf("update %s: %w", s.manifests.Path(), err)
	}

	logger.Info("Version bumped: %s -> %s", current, next)
	return current, next, nil
}

// Info returns the manifest of the current project.
func (s *ProjectService) Info(_ context.Context) (*domain.Manifest, error) {
	return s.load()
}

func (s *ProjectService) load() (*domain.Manifest, error) {
	manifest, err := s.manifests.Load()
	if err != nil {
		return nil, fmt.Errorf("load manifest %s: %w", s.manifests.Path(), err)
	}
	manifest.Normalise()
	return manifest, nil
}

func validateProjectOptions(opts *domain.ProjectOptions) error {
	opts.Name = strings.TrimSpace(opts.Name)
	if opts.Name == "" {
		return fmt.Errorf("%w: project name is required", domain.ErrInvalidInput)
	}
	if opts.Name == "." || opts.Name == ".." || strings.ContainsAny(opts.Name, `/\`) {
		return fmt.Errorf("%w: project name %q must be a plain directory name", domain.ErrInvalidInput, opts.Name)
	}
	if opts.Version == "" {
		opts.Version = domain.DefaultVersion
	}
	return nil
}
