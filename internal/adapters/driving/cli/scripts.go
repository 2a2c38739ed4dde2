package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ppm/internal/core/domain"
	"github.com/custodia-labs/ppm/internal/core/ports/driving"
)

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Run a script defined in project.toml",
	Long: `Runs a command from the [scripts] table of project.toml through the
platform shell, with the virtual environment's executables first on PATH.
ppm exits with the script's exit code.`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the project's entry point",
	Args:  cobra.NoArgs,
	RunE:  runStart,
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run the build script defined in project.toml",
	Args:  cobra.NoArgs,
	RunE:  runBuild,
}

func init() {
	rootCmd.AddCommand(runCmd, startCmd, buildCmd)
}

func scriptIO(cmd *cobra.Command) driving.ScriptIO {
	return driving.ScriptIO{
		Stdin:  cmd.InOrStdin(),
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	}
}

// exitStatus turns a non-zero child exit code into an ExitError.
func exitStatus(code int) error {
	if code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	if scriptService == nil {
		return errors.New("script service not configured")
	}

	code, err := scriptService.Run(cmd.Context(), args[0], scriptIO(cmd))
	if err != nil {
		if errors.Is(err, domain.ErrScriptNotFound) {
			return fmt.Errorf("script with name '%s' does not exist", args[0])
		}
		return err
	}
	return exitStatus(code)
}

func runStart(cmd *cobra.Command, _ []string) error {
	if scriptService == nil {
		return errors.New("script service not configured")
	}

	code, err := scriptService.Start(cmd.Context(), scriptIO(cmd))
	if err != nil {
		return err
	}
	return exitStatus(code)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	if scriptService == nil {
		return errors.New("script service not configured")
	}

	code, err := scriptService.Build(cmd.Context(), scriptIO(cmd))
	if errors.Is(err, domain.ErrScriptNotFound) {
		p := newPrinter(cmd.OutOrStdout())
		p.warnf("No 'build' script defined in project.toml")
		p.muted(`Add a [scripts] section with build = "your build command"`)
		return nil
	}
	if err != nil {
		return err
	}
	if code != 0 {
		newPrinter(cmd.ErrOrStderr()).errorf("Build failed with exit code %d", code)
		return exitStatus(code)
	}
	newPrinter(cmd.OutOrStdout()).successf("Build completed successfully")
	return nil
}
