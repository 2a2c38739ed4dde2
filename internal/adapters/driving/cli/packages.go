package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ppm/internal/core/domain"
)

var (
	requirementsPath string
	genOutput        string
)

var addCmd = &cobra.Command{
	Use:   "add <package>...",
	Short: "Add packages to the project",
	Long: `Installs each package into the virtual environment and records the
installed version in project.toml. Packages may be pinned with name==version.

Each package is handled on its own: one failure does not stop the others.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var rmCmd = &cobra.Command{
	Use:     "rm <package>...",
	Aliases: []string{"remove"},
	Short:   "Remove packages from the project",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runRemove,
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install packages from project.toml or a requirements file",
	Long: `Without flags, installs every package declared in project.toml at its
recorded version. With -r, installs the packages listed in a requirements
file and records them in project.toml.`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Upgrade every declared package",
	Args:  cobra.NoArgs,
	RunE:  runUpdate,
}

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a requirements file from project.toml",
	Args:  cobra.NoArgs,
	RunE:  runGen,
}

func init() {
	installCmd.Flags().StringVarP(&requirementsPath, "requirements", "r", "", "install from a requirements file")
	installCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "create the virtual environment without asking")
	updateCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "create the virtual environment without asking")
	genCmd.Flags().StringVarP(&genOutput, "output", "o", "requirements.txt", "file to write")

	rootCmd.AddCommand(addCmd, rmCmd, installCmd, updateCmd, genCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if packageService == nil {
		return errors.New("package service not configured")
	}

	report, err := packageService.Add(cmd.Context(), args)
	if err != nil {
		return err
	}
	return finishBatch(cmd, report)
}

func runRemove(cmd *cobra.Command, args []string) error {
	if packageService == nil {
		return errors.New("package service not configured")
	}

	report, err := packageService.Remove(cmd.Context(), args)
	if err != nil {
		return err
	}
	return finishBatch(cmd, report)
}

func runInstall(cmd *cobra.Command, _ []string) error {
	if packageService == nil {
		return errors.New("package service not configured")
	}

	var (
		report *domain.BatchReport
		err    error
	)
	if requirementsPath != "" {
		report, err = packageService.InstallFromRequirements(cmd.Context(), requirementsPath)
	} else {
		report, err = packageService.InstallFromManifest(cmd.Context())
	}
	if err != nil {
		return cancelledIsWarning(cmd, err)
	}

	if report.Empty() {
		if requirementsPath != "" {
			newPrinter(cmd.OutOrStdout()).warnf("No packages found in %s", requirementsPath)
		} else {
			newPrinter(cmd.OutOrStdout()).warnf("No packages to install")
		}
		return nil
	}
	return finishBatch(cmd, report)
}

func runUpdate(cmd *cobra.Command, _ []string) error {
	if packageService == nil {
		return errors.New("package service not configured")
	}

	report, err := packageService.Update(cmd.Context())
	if err != nil {
		return cancelledIsWarning(cmd, err)
	}
	if report.Empty() {
		newPrinter(cmd.OutOrStdout()).warnf("No packages to update")
		return nil
	}
	return finishBatch(cmd, report)
}

func runGen(cmd *cobra.Command, _ []string) error {
	if packageService == nil {
		return errors.New("package service not configured")
	}

	n, err := packageService.GenerateRequirements(cmd.Context(), genOutput)
	if err != nil {
		return fmt.Errorf("generate requirements: %w", err)
	}
	newPrinter(cmd.OutOrStdout()).successf("Wrote %d packages to %s", n, genOutput)
	return nil
}

// cancelledIsWarning turns a declined environment prompt into a warning.
func cancelledIsWarning(cmd *cobra.Command, err error) error {
	if !errors.Is(err, domain.ErrCancelled) {
		return err
	}
	p := newPrinter(cmd.OutOrStdout())
	p.warnf("Could not find virtual environment")
	p.warnf("Installation cancelled")
	p.muted("Run again with -y to create the virtual environment automatically.")
	return nil
}
