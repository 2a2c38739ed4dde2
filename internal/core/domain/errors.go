package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a manifest, requirements file or other input does not exist.
	ErrNotFound = errors.New("not found")

	// ErrParse indicates a persisted manifest could not be decoded.
	ErrParse = errors.New("parse error")

	// ErrInvalidVersionFormat indicates a version is not MAJOR.MINOR.PATCH[-suffix].
	ErrInvalidVersionFormat = errors.New("invalid version format")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyExists indicates a project already occupies the target location.
	ErrAlreadyExists = errors.New("already exists")

	// Environment Errors.

	// ErrEnvironmentMissing indicates the isolated environment does not exist.
	ErrEnvironmentMissing = errors.New("virtual environment not found")

	// ErrEnvironmentOperation indicates an install, uninstall or query call failed.
	// The wrapping error carries the package manager's stderr.
	ErrEnvironmentOperation = errors.New("environment operation failed")

	// ErrPersistence indicates the manifest or a generated file could not be written.
	ErrPersistence = errors.New("persistence failed")

	// Ledger Errors.

	// ErrNotDeclared indicates a package is not present in the manifest.
	ErrNotDeclared = errors.New("package not declared")

	// ErrScriptNotFound indicates a script name has no entry in the manifest.
	ErrScriptNotFound = errors.New("script not found")

	// ErrCancelled indicates the user declined a confirmation prompt.
	ErrCancelled = errors.New("cancelled")

	// ErrUnsupportedPlatform indicates no shell strategy exists for the running OS.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
)

// Package operations reported in PackageError.
const (
	OpInstall           = "install"
	OpResolveVersion    = "resolve version"
	OpUninstall         = "uninstall"
	OpUpgrade           = "upgrade"
	OpPersist           = "persist"
	OpParse             = "parse"
	OpEnsureEnvironment = "check environment"
)

// PackageError records the failure of one package within a batch.
type PackageError struct {
	Op   string
	Name string
	Err  error
}

func (e *PackageError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Name, e.Err)
}

func (e *PackageError) Unwrap() error {
	return e.Err
}

// NewPackageError wraps err with the failing operation and package name.
func NewPackageError(op, name string, err error) *PackageError {
	return &PackageError{Op: op, Name: name, Err: err}
}
