package pip

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ppm/internal/core/domain"
	"github.com/custodia-labs/ppm/internal/core/ports/driven"
)

// fakeRunner records invocations and replies from a table keyed by the
// joined argument list.
type fakeRunner struct {
	calls   []string
	stdout  map[string]string
	stderr  map[string]string
	failing map[string]bool
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		stdout:  make(map[string]string),
		stderr:  make(map[string]string),
		failing: make(map[string]bool),
	}
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	key := strings.Join(args, " ")
	r.calls = append(r.calls, name+" "+key)
	if r.failing[key] {
		return nil, []byte(r.stderr[key]), errors.New("exit status 1")
	}
	return []byte(r.stdout[key]), nil, nil
}

func TestEnvironment_ImplementsInterface(t *testing.T) {
	var _ driven.Environment = (*Environment)(nil)
	var _ driven.EnvironmentFactory = (*Factory)(nil)
}

func TestEnvironment_Paths(t *testing.T) {
	tests := []struct {
		goos    string
		wantDir string
		wantPip string
	}{
		{"linux", filepath.Join("venv", "bin"), filepath.Join("venv", "bin", "pip")},
		{"darwin", filepath.Join("venv", "bin"), filepath.Join("venv", "bin", "pip")},
		{"windows", filepath.Join("venv", "Scripts"), filepath.Join("venv", "Scripts", "pip.exe")},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			env := NewEnvironmentWithRunner("venv", "", tt.goos, newFakeRunner())
			assert.Equal(t, tt.wantDir, env.ExecutableDir())
			assert.Equal(t, tt.wantPip, env.PipPath())
			assert.Equal(t, "venv", env.Root())
		})
	}
}

func TestEnvironment_Commands(t *testing.T) {
	runner := newFakeRunner()
	env := NewEnvironmentWithRunner("venv", "", "linux", runner)
	ctx := context.Background()
	pip := filepath.Join("venv", "bin", "pip")

	require.NoError(t, env.Install(ctx, "flask==3.0.0"))
	require.NoError(t, env.Upgrade(ctx, "flask"))
	require.NoError(t, env.Uninstall(ctx, "flask"))

	assert.Equal(t, []string{
		pip + " install flask==3.0.0",
		pip + " install --upgrade flask",
		pip + " uninstall -y flask",
	}, runner.calls)
}

func TestEnvironment_InstalledVersion(t *testing.T) {
	runner := newFakeRunner()
	runner.stdout["show requests"] = "Name: requests\nVersion: 2.32.3\nSummary: Python HTTP for Humans.\nLocation: /venv/lib\n"
	env := NewEnvironmentWithRunner("venv", "", "linux", runner)

	version, err := env.InstalledVersion(context.Background(), "requests")

	require.NoError(t, err)
	assert.Equal(t, "2.32.3", version)
}

func TestEnvironment_InstalledVersion_NoVersionLine(t *testing.T) {
	runner := newFakeRunner()
	runner.stdout["show odd"] = "Name: odd\n"
	env := NewEnvironmentWithRunner("venv", "", "linux", runner)

	_, err := env.InstalledVersion(context.Background(), "odd")

	assert.ErrorIs(t, err, domain.ErrEnvironmentOperation)
}

func TestEnvironment_InstalledVersion_NotInstalled(t *testing.T) {
	runner := newFakeRunner()
	runner.failing["show ghost"] = true
	runner.stderr["show ghost"] = "WARNING: Package(s) not found: ghost\n"
	env := NewEnvironmentWithRunner("venv", "", "linux", runner)

	_, err := env.InstalledVersion(context.Background(), "ghost")

	assert.ErrorIs(t, err, domain.ErrEnvironmentOperation)
	assert.Contains(t, err.Error(), "Package(s) not found: ghost")
}

func TestEnvironment_Install_FailureCarriesStderr(t *testing.T) {
	runner := newFakeRunner()
	runner.failing["install bad_pkg"] = true
	runner.stderr["install bad_pkg"] = "ERROR: No matching distribution found for bad_pkg"
	env := NewEnvironmentWithRunner("venv", "", "linux", runner)

	err := env.Install(context.Background(), "bad_pkg")

	assert.ErrorIs(t, err, domain.ErrEnvironmentOperation)
	assert.Contains(t, err.Error(), "No matching distribution found")
	assert.Contains(t, err.Error(), "pip install bad_pkg")
}

func TestEnvironment_Install_FailureWithoutStderr(t *testing.T) {
	runner := newFakeRunner()
	runner.failing["install x"] = true
	env := NewEnvironmentWithRunner("venv", "", "linux", runner)

	err := env.Install(context.Background(), "x")

	assert.ErrorIs(t, err, domain.ErrEnvironmentOperation)
	assert.Contains(t, err.Error(), "exit status 1")
}

func TestEnvironment_Create(t *testing.T) {
	runner := newFakeRunner()
	env := NewEnvironmentWithRunner("/tmp/demo/venv", "python3.12", "linux", runner)

	require.NoError(t, env.Create(context.Background()))
	assert.Equal(t, []string{"python3.12 -m venv /tmp/demo/venv"}, runner.calls)
}

func TestEnvironment_Create_DefaultInterpreter(t *testing.T) {
	runner := newFakeRunner()
	env := NewEnvironmentWithRunner("venv", "", "linux", runner)

	require.NoError(t, env.Create(context.Background()))
	assert.Equal(t, []string{DefaultInterpreter + " -m venv venv"}, runner.calls)
}

func TestEnvironment_Create_Failure(t *testing.T) {
	runner := newFakeRunner()
	runner.failing["-m venv venv"] = true
	runner.stderr["-m venv venv"] = "Error: ensurepip is not available"
	env := NewEnvironmentWithRunner("venv", "", "linux", runner)

	err := env.Create(context.Background())

	assert.ErrorIs(t, err, domain.ErrEnvironmentOperation)
	assert.Contains(t, err.Error(), "ensurepip")
}

func TestEnvironment_Exists(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "venv")
	env := NewEnvironmentWithRunner(root, "", "linux", newFakeRunner())

	assert.False(t, env.Exists())

	require.NoError(t, os.WriteFile(root, []byte("not a dir"), 0600))
	assert.False(t, env.Exists())

	require.NoError(t, os.Remove(root))
	require.NoError(t, os.Mkdir(root, 0755))
	assert.True(t, env.Exists())
}

func TestFactory_ForRoot(t *testing.T) {
	runner := newFakeRunner()
	factory := NewFactoryWithRunner("python3.11", "windows", runner)

	env := factory.ForRoot("proj/venv")

	assert.Equal(t, "proj/venv", env.Root())
	assert.Equal(t, filepath.Join("proj/venv", "Scripts"), env.ExecutableDir())
	require.NoError(t, env.Create(context.Background()))
	assert.Equal(t, []string{"python3.11 -m venv proj/venv"}, runner.calls)
}

func TestParseShowVersion(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"standard", "Name: a\nVersion: 1.2.3\n", "1.2.3", true},
		{"windows line endings", "Name: a\r\nVersion: 4.5\r\n", "4.5", true},
		{"missing", "Name: a\n", "", false},
		{"empty value", "Version:\n", "", false},
		{"metadata-version ignored", "Metadata-Version: 2.1\nVersion: 0.9\n", "0.9", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseShowVersion([]byte(tt.input))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExecRunner_Run(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	stdout, stderr, err := ExecRunner{}.Run(context.Background(), "sh", "-c", "echo out; echo err >&2")

	require.NoError(t, err)
	assert.Equal(t, "out\n", string(stdout))
	assert.Equal(t, "err\n", string(stderr))
}

func TestExecRunner_Run_Failure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	_, _, err := ExecRunner{}.Run(context.Background(), "sh", "-c", "exit 4")

	require.Error(t, err)
}
