package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/custodia-labs/ppm/internal/core/domain"
	"github.com/custodia-labs/ppm/internal/core/ports/driving"
	"github.com/custodia-labs/ppm/internal/logger"
)

// stubPackageService returns canned reports and records its calls.
type stubPackageService struct {
	report  *domain.BatchReport
	err     error
	written int
	calls   []string
	lastArg string
}

func (s *stubPackageService) record(name, arg string) (*domain.BatchReport, error) {
	s.calls = append(s.calls, name)
	s.lastArg = arg
	if s.err != nil {
		return nil, s.err
	}
	if s.report == nil {
		return &domain.BatchReport{}, nil
	}
	return s.report, nil
}

func (s *stubPackageService) Add(_ context.Context, specs []string) (*domain.BatchReport, error) {
	return s.record("add", joinArgs(specs))
}

func (s *stubPackageService) Remove(_ context.Context, names []string) (*domain.BatchReport, error) {
	return s.record("remove", joinArgs(names))
}

func (s *stubPackageService) InstallFromManifest(_ context.Context) (*domain.BatchReport, error) {
	return s.record("install", "")
}

func (s *stubPackageService) InstallFromRequirements(_ context.Context, path string) (*domain.BatchReport, error) {
	return s.record("requirements", path)
}

func (s *stubPackageService) Update(_ context.Context) (*domain.BatchReport, error) {
	return s.record("update", "")
}

func (s *stubPackageService) GenerateRequirements(_ context.Context, path string) (int, error) {
	s.calls = append(s.calls, "gen")
	s.lastArg = path
	return s.written, s.err
}

func joinArgs(args []string) string {
	var buf bytes.Buffer
	for i, a := range args {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(a)
	}
	return buf.String()
}

// stubScriptService writes output to the bound stdout and returns code.
type stubScriptService struct {
	code   int
	err    error
	output string
	last   string
}

func (s *stubScriptService) exec(name string, sio driving.ScriptIO) (int, error) {
	s.last = name
	if s.err != nil {
		return 0, s.err
	}
	if s.output != "" {
		_, _ = io.WriteString(sio.Stdout, s.output)
	}
	return s.code, nil
}

func (s *stubScriptService) Run(_ context.Context, name string, sio driving.ScriptIO) (int, error) {
	return s.exec(name, sio)
}

func (s *stubScriptService) Start(_ context.Context, sio driving.ScriptIO) (int, error) {
	return s.exec("start", sio)
}

func (s *stubScriptService) Build(_ context.Context, sio driving.ScriptIO) (int, error) {
	return s.exec(domain.BuildScript, sio)
}

// stubProjectService returns a fixed manifest.
type stubProjectService struct {
	manifest *domain.Manifest
	result   *domain.ScaffoldResult
	err      error
	opts     domain.ProjectOptions
	bumped   domain.BumpKind
}

func (s *stubProjectService) Create(_ context.Context, opts domain.ProjectOptions) (*domain.ScaffoldResult, error) {
	s.opts = opts
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	root := opts.Name
	if opts.InPlace {
		root = "."
	}
	return &domain.ScaffoldResult{Root: root}, nil
}

func (s *stubProjectService) Bump(_ context.Context, kind domain.BumpKind) (string, string, error) {
	s.bumped = kind
	if s.err != nil {
		return "", "", s.err
	}
	next, err := domain.Bump(s.manifest.Project.Version, kind)
	return s.manifest.Project.Version, next, err
}

func (s *stubProjectService) Info(_ context.Context) (*domain.Manifest, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.manifest, nil
}

// stubHistoryService returns fixed entries.
type stubHistoryService struct {
	entries []domain.HistoryEntry
	err     error
	limit   int
}

func (s *stubHistoryService) List(_ context.Context, limit int) ([]domain.HistoryEntry, error) {
	s.limit = limit
	return s.entries, s.err
}

var errBoom = errors.New("boom")

func testManifest() *domain.Manifest {
	m := domain.NewManifest(domain.Project{
		Name:        "demo",
		Version:     "0.1.0",
		Description: "A demo project",
		Main:        domain.NestedEntryPoint,
	})
	m.SetPackage("requests", "2.31.0")
	m.Scripts["build"] = "python -m build"
	return m
}

// setServices installs services for one test and restores the previous ones.
func setServices(t *testing.T, s Services) {
	t.Helper()
	prev := Services{
		Packages: packageService,
		Scripts:  scriptService,
		Projects: projectService,
		History:  historyService,
	}
	SetServices(s)
	t.Cleanup(func() { SetServices(prev) })
}

// execute runs the root command with args and returns stdout, stderr and
// the exit code.
func execute(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	defer resetCommand()

	code := ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), code
}

// resetCommand restores flag values changed by a test.
func resetCommand() {
	rootCmd.SetArgs(nil)
	rootCmd.SetOut(nil)
	rootCmd.SetErr(nil)
	verbose = false
	logger.SetVerbose(false)
	strict = false
	assumeYes = false
	requirementsPath = ""
	genOutput = "requirements.txt"
	projectVersion = domain.DefaultVersion
	projectDescription = ""
	projectGit = false
	projectNoEnv = false
	infoFormat = formatText
	historyLimit = domain.DefaultHistoryLimit
	versionShort = false
}
