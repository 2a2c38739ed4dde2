package pip

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/custodia-labs/ppm/internal/core/domain"
	"github.com/custodia-labs/ppm/internal/core/ports/driven"
	"github.com/custodia-labs/ppm/internal/logger"
)

// Ensure Environment implements the interface.
var _ driven.Environment = (*Environment)(nil)

// DefaultInterpreter is used to create environments when none is configured.
const DefaultInterpreter = "python3"

// Environment drives pip inside a virtual environment at root.
type Environment struct {
	root        string
	interpreter string
	goos        string
	runner      Runner
}

// NewEnvironment creates a gateway for the virtual environment at root.
// interpreter creates the environment; empty means DefaultInterpreter.
func NewEnvironment(root, interpreter string) *Environment {
	return NewEnvironmentWithRunner(root, interpreter, runtime.GOOS, ExecRunner{})
}

// NewEnvironmentWithRunner creates a gateway that lays out paths for goos
// and executes tools through runner.
func NewEnvironmentWithRunner(root, interpreter, goos string, runner Runner) *Environment {
	if interpreter == "" {
		interpreter = DefaultInterpreter
	}
	return &Environment{
		root:        root,
		interpreter: interpreter,
		goos:        goos,
		runner:      runner,
	}
}

// Install runs pip install for a name or name==version specifier.
func (e *Environment) Install(ctx context.Context, spec string) error {
	_, err := e.pip(ctx, "install", spec)
	return err
}

// Upgrade runs pip install --upgrade for name.
func (e *Environment) Upgrade(ctx context.Context, name string) error {
	_, err := e.pip(ctx, "install", "--upgrade", name)
	return err
}

// Uninstall runs pip uninstall without prompting.
func (e *Environment) Uninstall(ctx context.Context, name string) error {
	_, err := e.pip(ctx, "uninstall", "-y", name)
	return err
}

// InstalledVersion reads the Version field of pip show.
func (e *Environment) InstalledVersion(ctx context.Context, name string) (string, error) {
	out, err := e.pip(ctx, "show", name)
	if err != nil {
		return "", err
	}

	version, ok := parseShowVersion(out)
	if !ok {
		return "", fmt.Errorf("%w: pip show %s: no version reported", domain.ErrEnvironmentOperation, name)
	}
	return version, nil
}

// Exists reports whether the environment directory exists.
func (e *Environment) Exists() bool {
	info, err := os.Stat(e.root)
	return err == nil && info.IsDir()
}

// Create runs "<interpreter> -m venv <root>".
func (e *Environment) Create(ctx context.Context) error {
	logger.Debug("Creating virtual environment at %s with %s", e.root, e.interpreter)
	_, stderr, err := e.runner.Run(ctx, e.interpreter, "-m", "venv", e.root)
	if err != nil {
		return operationError(fmt.Sprintf("%s -m venv %s", e.interpreter, e.root), stderr, err)
	}
	return nil
}

// ExecutableDir returns bin, or Scripts on Windows.
func (e *Environment) ExecutableDir() string {
	if e.goos == "windows" {
		return filepath.Join(e.root, "Scripts")
	}
	return filepath.Join(e.root, "bin")
}

// Root returns the environment directory.
func (e *Environment) Root() string {
	return e.root
}

// PipPath returns the path of the environment's pip executable.
func (e *Environment) PipPath() string {
	name := "pip"
	if e.goos == "windows" {
		name = "pip.exe"
	}
	return filepath.Join(e.ExecutableDir(), name)
}

func (e *Environment) pip(ctx context.Context, args ...string) ([]byte, error) {
	logger.Debug("pip %s", strings.Join(args, " "))
	stdout, stderr, err := e.runner.Run(ctx, e.PipPath(), args...)
	if err != nil {
		return nil, operationError("pip "+strings.Join(args, " "), stderr, err)
	}
	return stdout, nil
}

// operationError wraps a failed tool run, preferring the tool's own message.
func operationError(command string, stderr []byte, err error) error {
	msg := strings.TrimSpace(string(stderr))
	if msg == "" {
		msg = err.Error()
	}
	return fmt.Errorf("%w: %s: %s", domain.ErrEnvironmentOperation, command, msg)
}

// parseShowVersion extracts the value of the "Version:" line.
func parseShowVersion(out []byte) (string, bool) {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if ok && strings.TrimSpace(key) == "Version" {
			if v := strings.TrimSpace(value); v != "" {
				return v, true
			}
		}
	}
	return "", false
}

// Ensure Factory implements the interface.
var _ driven.EnvironmentFactory = (*Factory)(nil)

// Factory creates pip gateways sharing an interpreter and runner.
type Factory struct {
	interpreter string
	goos        string
	runner      Runner
}

// NewFactory creates a factory for the current platform.
func NewFactory(interpreter string) *Factory {
	return NewFactoryWithRunner(interpreter, runtime.GOOS, ExecRunner{})
}

// NewFactoryWithRunner creates a factory for goos using runner.
func NewFactoryWithRunner(interpreter, goos string, runner Runner) *Factory {
	return &Factory{interpreter: interpreter, goos: goos, runner: runner}
}

// ForRoot returns a gateway for the environment at root.
func (f *Factory) ForRoot(root string) driven.Environment {
	return NewEnvironmentWithRunner(root, f.interpreter, f.goos, f.runner)
}
