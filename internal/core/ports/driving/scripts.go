package driving

import (
	"context"
	"io"
)

// ScriptIO binds a script's standard streams.
type ScriptIO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// ScriptService runs commands declared in the manifest.
// Each method returns the child process's exit code.
type ScriptService interface {
	// Run executes the named script.
	Run(ctx context.Context, name string, stdio ScriptIO) (int, error)

	// Start executes the project's entry point.
	Start(ctx context.Context, stdio ScriptIO) (int, error)

	// Build executes the "build" script.
	Build(ctx context.Context, stdio ScriptIO) (int, error)
}
