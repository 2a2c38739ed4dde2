package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/ppm/internal/core/domain"
	"github.com/custodia-labs/ppm/internal/core/ports/driven"
)

// mockEnvironment implements driven.Environment for testing.
// Installed versions default to "1.0.0" unless listed in available.
type mockEnvironment struct {
	root          string
	exists        bool
	installed     map[string]string
	available     map[string]string
	failInstall   map[string]bool
	failVersion   map[string]bool
	failUninstall map[string]bool
	failUpgrade   map[string]bool
	createErr     error
	calls         []string
}

func newMockEnvironment() *mockEnvironment {
	return &mockEnvironment{
		root:          "venv",
		exists:        true,
		installed:     make(map[string]string),
		available:     make(map[string]string),
		failInstall:   make(map[string]bool),
		failVersion:   make(map[string]bool),
		failUninstall: make(map[string]bool),
		failUpgrade:   make(map[string]bool),
	}
}

func (m *mockEnvironment) Install(_ context.Context, spec string) error {
	m.calls = append(m.calls, "install "+spec)
	ref, err := domain.ParseSpec(spec)
	if err != nil {
		return err
	}
	if m.failInstall[ref.Name] {
		return fmt.Errorf("%w: no matching distribution found for %s", domain.ErrEnvironmentOperation, spec)
	}
	version := ref.Version
	if version == "" {
		version = m.latest(ref.Name)
	}
	m.installed[ref.Name] = version
	return nil
}

func (m *mockEnvironment) Upgrade(_ context.Context, name string) error {
	m.calls = append(m.calls, "upgrade "+name)
	if m.failUpgrade[name] {
		return fmt.Errorf("%w: upgrade %s", domain.ErrEnvironmentOperation, name)
	}
	m.installed[name] = m.latest(name)
	return nil
}

func (m *mockEnvironment) Uninstall(_ context.Context, name string) error {
	m.calls = append(m.calls, "uninstall "+name)
	if m.failUninstall[name] {
		return fmt.Errorf("%w: cannot uninstall %s", domain.ErrEnvironmentOperation, name)
	}
	delete(m.installed, name)
	return nil
}

func (m *mockEnvironment) InstalledVersion(_ context.Context, name string) (string, error) {
	m.calls = append(m.calls, "version "+name)
	if m.failVersion[name] {
		return "", fmt.Errorf("%w: package %s not found", domain.ErrEnvironmentOperation, name)
	}
	v, ok := m.installed[name]
	if !ok {
		return "", errors.New("not installed")
	}
	return v, nil
}

func (m *mockEnvironment) Exists() bool {
	return m.exists
}

func (m *mockEnvironment) Create(_ context.Context) error {
	m.calls = append(m.calls, "create")
	if m.createErr != nil {
		return m.createErr
	}
	m.exists = true
	return nil
}

func (m *mockEnvironment) ExecutableDir() string {
	return m.root + "/bin"
}

func (m *mockEnvironment) Root() string {
	return m.root
}

func (m *mockEnvironment) latest(name string) string {
	if v, ok := m.available[name]; ok {
		return v
	}
	return "1.0.0"
}

// callsWithPrefix returns recorded calls starting with prefix.
func (m *mockEnvironment) callsWithPrefix(prefix string) []string {
	var out []string
	for _, c := range m.calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// mockEnvironmentFactory implements driven.EnvironmentFactory.
type mockEnvironmentFactory struct {
	envs      map[string]*mockEnvironment
	createErr error
}

func newMockEnvironmentFactory() *mockEnvironmentFactory {
	return &mockEnvironmentFactory{envs: make(map[string]*mockEnvironment)}
}

func (f *mockEnvironmentFactory) ForRoot(root string) driven.Environment {
	env := newMockEnvironment()
	env.root = root
	env.exists = false
	env.createErr = f.createErr
	f.envs[root] = env
	return env
}

// mockConfirmer implements driven.Confirmer.
type mockConfirmer struct {
	answer    bool
	questions []string
}

func (c *mockConfirmer) Confirm(question string) bool {
	c.questions = append(c.questions, question)
	return c.answer
}

// mockHistoryStore implements driven.HistoryStore and can fail on demand.
type mockHistoryStore struct {
	entries   []domain.HistoryEntry
	recordErr error
}

func (h *mockHistoryStore) Record(_ context.Context, entry domain.HistoryEntry) error {
	if h.recordErr != nil {
		return h.recordErr
	}
	h.entries = append(h.entries, entry)
	return nil
}

func (h *mockHistoryStore) List(_ context.Context, limit int) ([]domain.HistoryEntry, error) {
	if h.recordErr != nil {
		return nil, h.recordErr
	}
	out := make([]domain.HistoryEntry, 0, limit)
	for i := len(h.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, h.entries[i])
	}
	return out, nil
}

func (h *mockHistoryStore) Close() error {
	return nil
}

// mockShell implements driven.Shell and records requests.
type mockShell struct {
	exitCode int
	execErr  error
	requests []driven.ShellRequest
}

func (s *mockShell) Name() string {
	return "mock"
}

func (s *mockShell) Exec(_ context.Context, req driven.ShellRequest) (int, error) {
	s.requests = append(s.requests, req)
	if s.execErr != nil {
		return 0, s.execErr
	}
	return s.exitCode, nil
}

// mockVCS implements driven.VCS.
type mockVCS struct {
	initErr error
	dirs    []string
}

func (v *mockVCS) Init(_ context.Context, dir string) error {
	v.dirs = append(v.dirs, dir)
	return v.initErr
}

// mockTemplateStore implements driven.TemplateStore.
type mockTemplateStore struct {
	templates map[string]string
}

func newMockTemplateStore() *mockTemplateStore {
	return &mockTemplateStore{templates: map[string]string{
		driven.TemplateMainPy:    "print('hello')\n",
		driven.TemplateGitignore: "/build\n/venv\n",
	}}
}

func (t *mockTemplateStore) Load(name string) (string, error) {
	content, ok := t.templates[name]
	if !ok {
		return "", fmt.Errorf("%w: template %s", domain.ErrNotFound, name)
	}
	return content, nil
}

func (t *mockTemplateStore) Reload() {}
