package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/custodia-labs/ppm/internal/core/domain"
	"github.com/custodia-labs/ppm/internal/core/ports/driven"
)

// Kind names a shell strategy in configuration.
type Kind string

// Supported shell kinds.
const (
	KindAuto  Kind = "auto"
	KindPosix Kind = "posix"
	KindCmd   Kind = "cmd"
)

// Select returns the strategy for kind on goos. KindAuto picks cmd on
// Windows and a POSIX shell on Unix-like systems.
func Select(kind Kind, goos string) (driven.Shell, error) {
	switch Kind(strings.ToLower(string(kind))) {
	case KindPosix:
		return NewPosix(), nil
	case KindCmd:
		return NewCommandPrompt(), nil
	case KindAuto, "":
		switch goos {
		case "windows":
			return NewCommandPrompt(), nil
		case "linux", "darwin", "freebsd", "openbsd", "netbsd", "dragonfly", "solaris", "illumos", "aix":
			return NewPosix(), nil
		default:
			return nil, fmt.Errorf("%w: no shell for %s", domain.ErrUnsupportedPlatform, goos)
		}
	default:
		return nil, fmt.Errorf("%w: unknown shell kind %q", domain.ErrInvalidInput, kind)
	}
}

// Ensure strategies implement the interface.
var (
	_ driven.Shell = (*Posix)(nil)
	_ driven.Shell = (*CommandPrompt)(nil)
	_ driven.Shell = (*Unavailable)(nil)
)

// Posix runs commands with "sh -c".
type Posix struct {
	path string
}

// NewPosix creates a POSIX shell strategy.
func NewPosix() *Posix {
	return &Posix{path: "sh"}
}

// Name returns "posix".
func (s *Posix) Name() string {
	return string(KindPosix)
}

// Exec runs req.Command with sh -c.
func (s *Posix) Exec(ctx context.Context, req driven.ShellRequest) (int, error) {
	return run(exec.CommandContext(ctx, s.path, "-c", req.Command), req)
}

// CommandPrompt runs commands with "cmd /C".
type CommandPrompt struct {
	path string
}

// NewCommandPrompt creates a Windows command prompt strategy.
func NewCommandPrompt() *CommandPrompt {
	return &CommandPrompt{path: "cmd"}
}

// Name returns "cmd".
func (s *CommandPrompt) Name() string {
	return string(KindCmd)
}

// Exec runs req.Command with cmd /C.
func (s *CommandPrompt) Exec(ctx context.Context, req driven.ShellRequest) (int, error) {
	return run(exec.CommandContext(ctx, s.path, "/C", req.Command), req)
}

func run(cmd *exec.Cmd, req driven.ShellRequest) (int, error) {
	cmd.Dir = req.Dir
	cmd.Env = Environ(os.Environ(), req.PathPrefix)
	cmd.Stdin = req.Stdin
	cmd.Stdout = req.Stdout
	cmd.Stderr = req.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, err
}

// Environ returns env with prefix placed at the front of PATH. The PATH
// key is matched case-insensitively so Windows "Path" is honoured.
func Environ(env []string, prefix string) []string {
	out := make([]string, 0, len(env)+1)
	found := false
	for _, kv := range env {
		key, value, ok := strings.Cut(kv, "=")
		if ok && strings.EqualFold(key, "PATH") && !found && prefix != "" {
			found = true
			if value == "" {
				out = append(out, key+"="+prefix)
			} else {
				out = append(out, key+"="+prefix+string(os.PathListSeparator)+value)
			}
			continue
		}
		out = append(out, kv)
	}
	if !found && prefix != "" {
		out = append(out, "PATH="+prefix)
	}
	return out
}

// Unavailable is the strategy used when Select failed. Every Exec returns
// the selection error, so commands that never run scripts are unaffected.
type Unavailable struct {
	Err error
}

// Name returns "unavailable".
func (u *Unavailable) Name() string {
	return "unavailable"
}

// Exec returns the selection error without running anything.
func (u *Unavailable) Exec(_ context.Context, _ driven.ShellRequest) (int, error) {
	return -1, u.Err
}
