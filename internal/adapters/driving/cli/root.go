// Package cli implements the ppm command line with cobra.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ppm/internal/core/ports/driving"
	"github.com/custodia-labs/ppm/internal/logger"
)

// version is set at build time with -ldflags.
var version = "dev"

var (
	verbose   bool
	strict    bool
	assumeYes bool
)

// Services injected by the binary before Execute.
var (
	packageService driving.PackageService
	scriptService  driving.ScriptService
	projectService driving.ProjectService
	historyService driving.HistoryService
)

// Services groups the driving ports the commands call.
type Services struct {
	Packages driving.PackageService
	Scripts  driving.ScriptService
	Projects driving.ProjectService
	History  driving.HistoryService
}

// SetServices configures the services used by the commands.
func SetServices(s Services) {
	packageService = s.Packages
	scriptService = s.Scripts
	projectService = s.Projects
	historyService = s.History
}

// SetVersion overrides the version reported by "ppm version".
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// ExitError carries a process exit code without an error message,
// e.g. a script's own exit status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

var rootCmd = &cobra.Command{
	Use:   "ppm",
	Short: "Python project manager",
	Long: `ppm manages Python projects through a project.toml manifest.

It creates projects with a virtual environment, installs packages with pip
and records their exact versions, and runs the scripts the manifest declares.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "print debug logs to stderr")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "exit with status 1 when any package in a batch fails")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	newPrinter(rootCmd.ErrOrStderr()).errorf("%v", err)
	if h := hint(err); h != "" {
		newPrinter(rootCmd.ErrOrStderr()).muted(h)
	}
	return 1
}
