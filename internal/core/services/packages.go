package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/custodia-labs/ppm/internal/core/domain"
	"github.com/custodia-labs/ppm/internal/core/ports/driven"
	"github.com/custodia-labs/ppm/internal/core/ports/driving"
	"github.com/custodia-labs/ppm/internal/logger"
)

// Ensure PackageService implements the interface.
var _ driving.PackageService = (*PackageService)(nil)

// createEnvironmentPrompt is asked when an install finds no environment.
const createEnvironmentPrompt = "Virtual environment not found. Create one now?"

// PackageService synchronises the manifest's declared packages with the
// environment, one package at a time.
//
// The manifest is written back immediately after each successful
// environment mutation, so a failure later in the batch cannot undo
// or desynchronise items that already completed.
type PackageService struct {
	manifests driven.ManifestStore
	env       driven.Environment
	history   driven.HistoryStore
	confirmer driven.Confirmer
	now       func() time.Time
}

// NewPackageService creates a new package service.
// The history store and confirmer are optional and may be nil.
func NewPackageService(
	manifests driven.ManifestStore,
	env driven.Environment,
	history driven.HistoryStore,
	confirmer driven.Confirmer,
) *PackageService {
	return &PackageService{
		manifests: manifests,
		env:       env,
		history:   history,
		confirmer: confirmer,
		now:       time.Now,
	}
}

// Add installs each specifier and records its resolved version.
func (s *PackageService) Add(ctx context.Context, specs []string) (*domain.BatchReport, error) {
	manifest, err := s.load()
	if err != nil {
		return nil, err
	}

	logger.Section("Add")
	report := &domain.BatchReport{Operation: domain.OperationAdd}
	s.addEach(ctx, manifest, specs, report)
	return report, nil
}

// Remove uninstalls each declared package and drops it from the manifest.
// Names the manifest does not declare are reported without touching the
// environment.
func (s *PackageService) Remove(ctx context.Context, names []string) (*domain.BatchReport, error) {
	manifest, err := s.load()
	if err != nil {
		return nil, err
	}

	logger.Section("Remove")
	report := &domain.BatchReport{Operation: domain.OperationRemove}
	for _, raw := range names {
		out := s.removeOne(ctx, manifest, strings.TrimSpace(raw))
		s.finish(ctx, report, out)
	}
	return report, nil
}

func (s *PackageService) removeOne(ctx context.Context, manifest *domain.Manifest, name string) domain.ItemOutcome {
	out := domain.ItemOutcome{Spec: name, Name: name}

	if !manifest.HasPackage(name) {
		return failed(out, domain.OpUninstall, domain.ErrNotDeclared)
	}
	out.Version = manifest.Packages[name]

	// Checked for every name: the environment may disappear mid-batch.
	if !s.env.Exists() {
		return failed(out, domain.OpEnsureEnvironment, domain.ErrEnvironmentMissing)
	}

	logger.Debug("Uninstalling %s", name)
	if err := s.env.Uninstall(ctx, name); err != nil {
		return failed(out, domain.OpUninstall, err)
	}

	manifest.RemovePackage(name)
	out.Status = domain.StatusRemoved
	if err := s.manifests.Write(manifest); err != nil {
		out.Err = domain.NewPackageError(domain.OpPersist, name, err)
	}
	return out
}

// InstallFromManifest installs every declared package at its recorded
// version. Versions are authoritative and are not re-resolved.
func (s *PackageService) InstallFromManifest(ctx context.Context) (*domain.BatchReport, error) {
	manifest, err := s.load()
	if err != nil {
		return nil, err
	}

	report := &domain.BatchReport{Operation: domain.OperationInstall}
	if len(manifest.Packages) == 0 {
		logger.Info("No packages to install")
		return report, nil
	}

	if err := s.ensureEnvironment(ctx); err != nil {
		return nil, err
	}

	logger.Section("Install")
	for _, name := range manifest.PackageNames() {
		ref := domain.PackageRef{Name: name, Version: manifest.Packages[name]}
		out := domain.ItemOutcome{Spec: ref.String(), Name: name, Version: ref.Version}

		logger.Debug("Installing %s", out.Spec)
		if err := s.env.Install(ctx, out.Spec); err != nil {
			out = failed(out, domain.OpInstall, err)
		} else {
			out.Status = domain.StatusInstalled
		}
		s.finish(ctx, report, out)
	}
	return report, nil
}

// InstallFromRequirements adds every specifier listed in a requirements
// file, recording resolved versions in the manifest.
func (s *PackageService) InstallFromRequirements(ctx context.Context, path string) (*domain.BatchReport, error) {
	specs, err := ReadRequirements(path)
	if err != nil {
		return nil, err
	}

	manifest, err := s.load()
	if err != nil {
		return nil, err
	}

	report := &domain.BatchReport{Operation: domain.OperationRequirements}
	if len(specs) == 0 {
		logger.Info("No packages found in %s", path)
		return report, nil
	}

	if err := s.ensureEnvironment(ctx); err != nil {
		return nil, err
	}

	logger.Section("Install from " + path)
	s.addEach(ctx, manifest, specs, report)
	return report, nil
}

// Update upgrades every declared package and records versions that changed.
func (s *PackageService) Update(ctx context.Context) (*domain.BatchReport, error) {
	manifest, err := s.load()
	if err != nil {
		return nil, err
	}

	report := &domain.BatchReport{Operation: domain.OperationUpdate}
	if len(manifest.Packages) == 0 {
		logger.Info("No packages to update")
		return report, nil
	}

	if err := s.ensureEnvironment(ctx); err != nil {
		return nil, err
	}

	logger.Section("Update")
	for _, name := range manifest.PackageNames() {
		out := s.updateOne(ctx, manifest, name)
		s.finish(ctx, report, out)
	}
	return report, nil
}

func (s *PackageService) updateOne(ctx context.Context, manifest *domain.Manifest, name string) domain.ItemOutcome {
	previous := manifest.Packages[name]
	out := domain.ItemOutcome{Spec: name, Name: name, Previous: previous}

	logger.Debug("Upgrading %s (currently %s)", name, previous)
	if err := s.env.Upgrade(ctx, name); err != nil {
		return failed(out, domain.OpUpgrade, err)
	}

	version, err := s.env.InstalledVersion(ctx, name)
	if err != nil {
		return failed(out, domain.OpResolveVersion, err)
	}
	out.Version = version

	if version == previous {
		out.Status = domain.StatusUnchanged
		return out
	}

	manifest.SetPackage(name, version)
	out.Status = domain.StatusUpdated
	if err := s.manifests.Write(manifest); err != nil {
		out.Err = domain.NewPackageError(domain.OpPersist, name, err)
	}
	return out
}

// GenerateRequirements writes the declared packages as pinned
// name==version lines sorted by name.
func (s *PackageService) GenerateRequirements(_ context.Context, path string) (int, error) {
	manifest, err := s.load()
	if err != nil {
		return 0, err
	}

	lines := manifest.Requirements()
	var content string
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil { //nolint:gosec // requirements files are meant to be shared
		return 0, fmt.Errorf("%w: write %s: %w", domain.ErrPersistence, path, err)
	}

	logger.Info("Wrote %d packages to %s", len(lines), path)
	return len(lines), nil
}

// addEach applies the add protocol to each specifier in order.
func (s *PackageService) addEach(ctx context.Context, manifest *domain.Manifest, specs []string, report *domain.BatchReport) {
	for _, spec := range specs {
		out := s.addOne(ctx, manifest, strings.TrimSpace(spec))
		s.finish(ctx, report, out)
	}
}

func (s *PackageService) addOne(ctx context.Context, manifest *domain.Manifest, spec string) domain.ItemOutcome {
	out := domain.ItemOutcome{Spec: spec}

	ref, err := domain.ParseSpec(spec)
	if err != nil {
		return failed(out, domain.OpParse, err)
	}
	out.Name = ref.Name

	logger.Debug("Installing %s", spec)
	if err := s.env.Install(ctx, spec); err != nil {
		return failed(out, domain.OpInstall, err)
	}

	version := ref.Version
	if !ref.Pinned() {
		// The package stays installed but unrecorded when this fails.
		version, err = s.env.InstalledVersion(ctx, ref.Name)
		if err != nil {
			return failed(out, domain.OpResolveVersion, err)
		}
	}
	out.Version = version

	manifest.SetPackage(ref.Name, version)
	out.Status = domain.StatusAdded
	if err := s.manifests.Write(manifest); err != nil {
		out.Err = domain.NewPackageError(domain.OpPersist, ref.Name, err)
	}
	return out
}

// ensureEnvironment creates the environment after confirmation when it is missing.
func (s *PackageService) ensureEnvironment(ctx context.Context) error {
	if s.env.Exists() {
		return nil
	}

	logger.Warn("Could not find virtual environment at %s", s.env.Root())
	if s.confirmer == nil || !s.confirmer.Confirm(createEnvironmentPrompt) {
		return fmt.Errorf("%w: %w", domain.ErrCancelled, domain.ErrEnvironmentMissing)
	}

	if err := s.env.Create(ctx); err != nil {
		return fmt.Errorf("create virtual environment: %w", err)
	}
	return nil
}

// finish appends an outcome to the report and journals it.
func (s *PackageService) finish(ctx context.Context, report *domain.BatchReport, out domain.ItemOutcome) {
	if out.Succeeded() {
		logger.Info("%s %s %s", out.Status, out.Name, out.Version)
	} else {
		logger.Warn("%s: %v", out.Spec, out.Err)
	}
	report.Add(out)
	s.record(ctx, report.Operation, out)
}

func (s *PackageService) record(ctx context.Context, operation string, out domain.ItemOutcome) {
	if s.history == nil {
		return
	}

	entry := domain.HistoryEntry{
		Operation: operation,
		Package:   out.Name,
		Version:   out.Version,
		Success:   out.Succeeded(),
		Timestamp: s.now(),
	}
	if entry.Package == "" {
		entry.Package = out.Spec
	}
	if out.Err != nil {
		entry.Error = out.Err.Error()
	}

	if err := s.history.Record(ctx, entry); err != nil {
		logger.Warn("Failed to journal %s %s: %v", operation, entry.Package, err)
	}
}

func (s *PackageService) load() (*domain.Manifest, error) {
	manifest, err := s.manifests.Load()
	if err != nil {
		return nil, fmt.Errorf("load manifest %s: %w", s.manifests.Path(), err)
	}
	manifest.Normalise()
	return manifest, nil
}

// failed marks out as failed with a package error for op.
func failed(out domain.ItemOutcome, op string, err error) domain.ItemOutcome {
	name := out.Name
	if name == "" {
		name = out.Spec
	}
	out.Status = domain.StatusFailed
	out.Err = domain.NewPackageError(op, name, err)
	return out
}

// ReadRequirements returns the significant lines of a requirements file:
// lines that are non-empty after trimming and do not start with '#'.
func ReadRequirements(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()

	var specs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		specs = append(specs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return specs, nil
}
