package domain

import "fmt"

// ScaffoldStep names a stage of project creation.
type ScaffoldStep string

// Scaffolding stages, in execution order.
const (
	StepTargetCheck      ScaffoldStep = "target check"
	StepDirectoryCreate  ScaffoldStep = "create directory"
	StepBoilerplateWrite ScaffoldStep = "write boilerplate"
	StepGitInit          ScaffoldStep = "initialise git"
	StepEnvironmentSetup ScaffoldStep = "set up virtual environment"
	StepManifestCreate   ScaffoldStep = "write manifest"
)

// StepError reports the scaffolding stage that failed.
// Side effects of earlier stages are left in place.
type StepError struct {
	Step ScaffoldStep
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// ProjectOptions describes a project to scaffold.
type ProjectOptions struct {
	Name        string
	Version     string
	Description string

	// Git initialises a repository and writes .gitignore.
	Git bool

	// NoEnv skips virtual environment creation.
	NoEnv bool

	// InPlace initialises the project in BaseDir instead of BaseDir/Name.
	InPlace bool

	// BaseDir is the directory the project is created in. Empty means ".".
	BaseDir string
}

// EntryPoint returns the manifest entry point for these options.
func (o ProjectOptions) EntryPoint() string {
	if o.InPlace {
		return InPlaceEntryPoint
	}
	return NestedEntryPoint
}

// ScaffoldResult describes a created project.
type ScaffoldResult struct {
	Root      string
	Manifest  *Manifest
	Completed []ScaffoldStep
	Warnings  []string
}
