package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/ppm/internal/core/domain"
	"github.com/custodia-labs/ppm/internal/core/ports/driven"
)

// Ensure TemplateStore implements the interface.
var _ driven.TemplateStore = (*TemplateStore)(nil)

// templateExt is appended to template names to form file names.
const templateExt = ".tmpl"

// TemplateStore loads scaffolding templates from user-editable files on disk.
// Templates are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor.
type TemplateStore struct {
	mu          sync.RWMutex
	templateDir string
	cache       map[string]string
	initOnce    sync.Once
	initErr     error
}

// defaultTemplates contains embedded default templates.
// These are used when user files don't exist and as the initial content for new files.
var defaultTemplates = map[string]string{
	driven.TemplateMainPy: `def main():
    print('Hello From PPM!')


if __name__ == '__main__':
    main()
`,

	driven.TemplateGitignore: "/build\n/venv\n/.ppm\n",
}

// NewTemplateStore creates a new file-based template store.
// If templateDir is empty, defaults to ~/.config/ppm/templates/.
//
// The constructor does not perform any I/O.
func NewTemplateStore(templateDir string) (*TemplateStore, error) {
	if templateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		templateDir = filepath.Join(home, ".config", "ppm", "templates")
	}

	return &TemplateStore{
		templateDir: templateDir,
		cache:       make(map[string]string),
	}, nil
}

// Load returns the template for the given name.
// On first call, initialises the template directory and creates default files.
// Falls back to the embedded default if the file can't be read.
func (s *TemplateStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if content, ok := defaultTemplates[name]; ok {
			return content, nil
		}
		return "", fmt.Errorf("template store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if content, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return content, nil
	}
	s.mu.RUnlock()

	content, err := s.loadFromFile(name)
	if err != nil {
		if fallback, ok := defaultTemplates[name]; ok {
			return fallback, nil
		}
		return "", fmt.Errorf("%w: template %q", domain.ErrNotFound, name)
	}

	// Double-check so concurrent loads agree on one value.
	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		content = cached
	} else {
		s.cache[name] = content
	}
	s.mu.Unlock()

	return content, nil
}

// Reload clears the template cache, forcing fresh loads from disk.
func (s *TemplateStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the template directory path.
func (s *TemplateStore) Dir() string {
	return s.templateDir
}

// initialise creates the template directory and default files.
func (s *TemplateStore) initialise() {
	if err := os.MkdirAll(s.templateDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create template directory: %w", err)
		return
	}

	for name, content := range defaultTemplates {
		path := filepath.Join(s.templateDir, name+templateExt)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default template %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a template from disk. Content is returned verbatim so
// generated files keep their trailing newline.
func (s *TemplateStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.templateDir, name+templateExt))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// createReadme writes a README file explaining the templates directory.
func (s *TemplateStore) createReadme() error {
	path := filepath.Join(s.templateDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# PPM Templates

This directory contains the files ppm writes when scaffolding a project.

## Files

- ` + "`main_py.tmpl`" + ` - Starter entry point written by ` + "`ppm new`" + ` and ` + "`ppm init`" + `
- ` + "`gitignore.tmpl`" + ` - Written as .gitignore when a project is created with ` + "`--git`" + `

## Customisation

Edit any file to change what new projects start with. Delete a file to
restore the built-in default on the next run.
`
	return os.WriteFile(path, []byte(content), 0600)
}
