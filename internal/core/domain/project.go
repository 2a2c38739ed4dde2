package domain

import (
	"sort"
)

// Defaults applied when a project is scaffolded.
const (
	// DefaultVersion is the version of a freshly created project.
	DefaultVersion = "0.1.0"

	// UpgradePipScript is the script every new manifest starts with.
	UpgradePipScript = "upgrade-pip"

	// UpgradePipCommand is the command behind UpgradePipScript.
	UpgradePipCommand = "python -m pip install --upgrade pip"

	// BuildScript is the script name run by the build command.
	BuildScript = "build"

	// InPlaceEntryPoint is the entry point of a project initialised in place.
	InPlaceEntryPoint = "./main.py"

	// NestedEntryPoint is the entry point of a project created in its own directory.
	NestedEntryPoint = "./src/main.py"
)

// Project is the identity record of a managed project.
type Project struct {
	// Name is used as directory name and display name.
	Name string

	// Version is a MAJOR.MINOR.PATCH[-suffix] string.
	Version string

	// Description is free text and may be empty.
	Description string

	// Main is the relative path to the entry-point source file.
	Main string
}

// Manifest is the persisted record of a project's identity,
// declared packages and named scripts.
//
// Every entry in Packages corresponds to a package the environment
// is expected to contain at exactly the recorded version.
type Manifest struct {
	Project  Project
	Packages map[string]string
	Scripts  map[string]string
}

// NewManifest creates a manifest for project with the default scripts.
func NewManifest(project Project) *Manifest {
	return &Manifest{
		Project:  project,
		Packages: make(map[string]string),
		Scripts: map[string]string{
			UpgradePipScript: UpgradePipCommand,
		},
	}
}

// Normalise replaces nil maps with empty ones.
func (m *Manifest) Normalise() {
	if m.Packages == nil {
		m.Packages = make(map[string]string)
	}
	if m.Scripts == nil {
		m.Scripts = make(map[string]string)
	}
}

// SetPackage records name at version, replacing any previous entry.
func (m *Manifest) SetPackage(name, version string) {
	m.Normalise()
	m.Packages[name] = version
}

// RemovePackage deletes name from the declared packages.
func (m *Manifest) RemovePackage(name string) {
	delete(m.Packages, name)
}

// HasPackage reports whether name is declared.
func (m *Manifest) HasPackage(name string) bool {
	_, ok := m.Packages[name]
	return ok
}

// PackageNames returns the declared package names in sorted order.
func (m *Manifest) PackageNames() []string {
	names := make([]string, 0, len(m.Packages))
	for name := range m.Packages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Script returns the command registered under name.
func (m *Manifest) Script(name string) (string, bool) {
	cmd, ok := m.Scripts[name]
	return cmd, ok
}

// ScriptNames returns the script names in sorted order.
func (m *Manifest) ScriptNames() []string {
	names := make([]string, 0, len(m.Scripts))
	for name := range m.Scripts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Requirements returns one pinned name==version specifier per declared
// package, sorted by name.
func (m *Manifest) Requirements() []string {
	names := m.PackageNames()
	specs := make([]string, 0, len(names))
	for _, name := range names {
		specs = append(specs, PackageRef{Name: name, Version: m.Packages[name]}.String())
	}
	return specs
}

// Clone returns a deep copy of the manifest.
func (m *Manifest) Clone() *Manifest {
	c := &Manifest{
		Project:  m.Project,
		Packages: make(map[string]string, len(m.Packages)),
		Scripts:  make(map[string]string, len(m.Scripts)),
	}
	for k, v := range m.Packages {
		c.Packages[k] = v
	}
	for k, v := range m.Scripts {
		c.Scripts[k] = v
	}
	return c
}
