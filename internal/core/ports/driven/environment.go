package driven

import "context"

// Environment is the gateway to an isolated execution environment
// and its package manager.
//
// Calls block until the underlying tool exits.
type Environment interface {
	// Install installs a name or name==version specifier.
	Install(ctx context.Context, spec string) error

	// Upgrade installs the newest available version of name.
	Upgrade(ctx context.Context, name string) error

	// Uninstall removes name from the environment.
	Uninstall(ctx context.Context, name string) error

	// InstalledVersion returns the version of name currently installed.
	InstalledVersion(ctx context.Context, name string) (string, error)

	// Exists reports whether the environment has been created.
	Exists() bool

	// Create creates the environment.
	Create(ctx context.Context) error

	// ExecutableDir returns the directory holding the environment's executables.
	ExecutableDir() string

	// Root returns the environment directory.
	Root() string
}

// EnvironmentFactory creates gateways for environments at arbitrary roots.
type EnvironmentFactory interface {
	ForRoot(root string) Environment
}
