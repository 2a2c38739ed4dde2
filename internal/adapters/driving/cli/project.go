package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/ppm/internal/core/domain"
)

// Output formats accepted by "ppm info".
const (
	formatText = "text"
	formatTOML = "toml"
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	projectVersion     string
	projectDescription string
	projectGit         bool
	projectNoEnv       bool
	infoFormat         string
)

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a new project in its own directory",
	Long: `Creates <name>/ with a src/main.py entry point, a virtual environment
and a project.toml manifest. Use --git to also initialise a repository.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCreate(cmd, args[0], false)
	},
}

var initCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Initialise a project in the current directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCreate(cmd, args[0], true)
	},
}

var bumpCmd = &cobra.Command{
	Use:       "bump {major|minor|patch}",
	Short:     "Increment the project version",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"major", "minor", "patch"},
	RunE:      runBump,
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show project information",
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func init() {
	for _, c := range []*cobra.Command{newCmd, initCmd} {
		c.Flags().StringVarP(&projectVersion, "version", "v", domain.DefaultVersion, "initial project version")
		c.Flags().StringVarP(&projectDescription, "description", "d", "", "project description")
		c.Flags().BoolVarP(&projectGit, "git", "g", false, "initialise a git repository")
		c.Flags().BoolVarP(&projectNoEnv, "no-venv", "e", false, "do not create a virtual environment")
	}
	infoCmd.Flags().StringVarP(&infoFormat, "format", "f", formatText, "output format: text, toml, json or yaml")

	rootCmd.AddCommand(newCmd, initCmd, bumpCmd, infoCmd)
}

func runCreate(cmd *cobra.Command, name string, inPlace bool) error {
	if projectService == nil {
		return errors.New("project service not configured")
	}

	result, err := projectService.Create(cmd.Context(), domain.ProjectOptions{
		Name:        name,
		Version:     projectVersion,
		Description: projectDescription,
		Git:         projectGit,
		NoEnv:       projectNoEnv,
		InPlace:     inPlace,
	})
	if err != nil {
		var stepErr *domain.StepError
		if errors.As(err, &stepErr) {
			return fmt.Errorf("create project %s failed at %w", name, stepErr)
		}
		return err
	}

	p := newPrinter(cmd.OutOrStdout())
	p.successf("Created project %s", name)
	for _, w := range result.Warnings {
		p.warnf("%s", w)
	}

	fmt.Fprintln(cmd.OutOrStdout())
	p.title("Next steps:")
	if !inPlace {
		p.muted("  cd " + filepath.ToSlash(result.Root))
	}
	p.muted("  ppm add <package>")
	p.muted("  ppm start")
	return nil
}

func runBump(cmd *cobra.Command, args []string) error {
	if projectService == nil {
		return errors.New("project service not configured")
	}

	kind, err := domain.ParseBumpKind(args[0])
	if err != nil {
		return err
	}

	prev, next, err := projectService.Bump(cmd.Context(), kind)
	if err != nil {
		return err
	}
	newPrinter(cmd.OutOrStdout()).successf("Version bumped: %s -> %s", prev, next)
	return nil
}

// projectInfo is the serialised form of "ppm info".
type projectInfo struct {
	Name        string            `toml:"name" json:"name" yaml:"name"`
	Version     string            `toml:"version" json:"version" yaml:"version"`
	Description string            `toml:"description" json:"description" yaml:"description"`
	Main        string            `toml:"main" json:"main" yaml:"main"`
	Packages    map[string]string `toml:"packages" json:"packages" yaml:"packages"`
	Scripts     map[string]string `toml:"scripts" json:"scripts" yaml:"scripts"`
}

func newProjectInfo(m *domain.Manifest) projectInfo {
	return projectInfo{
		Name:        m.Project.Name,
		Version:     m.Project.Version,
		Description: m.Project.Description,
		Main:        m.Project.Main,
		Packages:    m.Packages,
		Scripts:     m.Scripts,
	}
}

func runInfo(cmd *cobra.Command, _ []string) error {
	if projectService == nil {
		return errors.New("project service not configured")
	}

	format := strings.ToLower(infoFormat)
	switch format {
	case formatText, formatTOML, formatJSON, formatYAML:
	default:
		return fmt.Errorf("%w: unknown format %q, use text, toml, json or yaml", domain.ErrInvalidInput, infoFormat)
	}

	manifest, err := projectService.Info(cmd.Context())
	if err != nil {
		return err
	}

	info := newProjectInfo(manifest)
	out := cmd.OutOrStdout()
	switch format {
	case formatTOML:
		return toml.NewEncoder(out).Encode(info)
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case formatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(info); err != nil {
			return err
		}
		return enc.Close()
	default:
		printInfo(out, manifest)
		return nil
	}
}

func printInfo(w io.Writer, m *domain.Manifest) {
	p := newPrinter(w)
	p.title(m.Project.Name)
	p.field("Version", m.Project.Version)
	if m.Project.Description != "" {
		p.field("Description", m.Project.Description)
	}
	p.field("Main", m.Project.Main)

	fmt.Fprintln(w)
	p.title(fmt.Sprintf("Packages (%d)", len(m.Packages)))
	if len(m.Packages) == 0 {
		p.muted("  none")
	}
	for _, name := range m.PackageNames() {
		fmt.Fprintf(w, "  %s %s\n", name, m.Packages[name])
	}

	fmt.Fprintln(w)
	p.title(fmt.Sprintf("Scripts (%d)", len(m.Scripts)))
	for _, name := range m.ScriptNames() {
		fmt.Fprintf(w, "  %s = %s\n", name, m.Scripts[name])
	}
}
