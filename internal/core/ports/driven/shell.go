package driven

import (
	"context"
	"io"
)

// ShellRequest describes one command string to execute.
type ShellRequest struct {
	// Command is passed to the shell as a single argument.
	Command string

	// PathPrefix is placed in front of PATH so its executables are found first.
	PathPrefix string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Shell runs command strings through a platform shell.
type Shell interface {
	// Name identifies the shell strategy (e.g., "posix", "cmd").
	Name() string

	// Exec runs the request to completion and returns the child's exit code.
	// A non-zero exit code is not an error; err is set only when the
	// process could not be started or waited on.
	Exec(ctx context.Context, req ShellRequest) (int, error)
}
