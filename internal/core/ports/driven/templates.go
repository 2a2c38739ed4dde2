package driven

// TemplateStore provides access to scaffolding templates.
// Implementations may load templates from files, embed them in the binary,
// or both.
type TemplateStore interface {
	// Load returns the template content for the given name.
	Load(name string) (string, error)

	// Reload clears any cached templates, forcing fresh loads on next access.
	Reload()
}

// Well-known template names used by scaffolding.
const (
	// TemplateMainPy is the starter entry-point source file.
	TemplateMainPy = "main_py"

	// TemplateGitignore is the .gitignore written after git initialisation.
	TemplateGitignore = "gitignore"
)
