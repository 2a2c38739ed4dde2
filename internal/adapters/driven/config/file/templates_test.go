package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ppm/internal/core/domain"
	"github.com/custodia-labs/ppm/internal/core/ports/driven"
)

func TestTemplateStore_ImplementsInterface(t *testing.T) {
	var _ driven.TemplateStore = (*TemplateStore)(nil)
}

func TestNewTemplateStore_WithCustomDir(t *testing.T) {
	dir := t.TempDir()

	store, err := NewTemplateStore(dir)

	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())
}

func TestNewTemplateStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}

	store, err := NewTemplateStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "ppm", "templates"), store.Dir())
}

func TestNewTemplateStore_NoIO(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "templates")

	_, err := NewTemplateStore(dir)

	require.NoError(t, err)
	assert.NoDirExists(t, dir)
}

func TestTemplateStore_Load_CreatesDefaultFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewTemplateStore(dir)
	require.NoError(t, err)

	_, err = store.Load(driven.TemplateMainPy)
	require.NoError(t, err)

	for _, f := range []string{"main_py.tmpl", "gitignore.tmpl", "README.md"} {
		assert.FileExists(t, filepath.Join(dir, f))
	}
}

func TestTemplateStore_Load_ReturnsDefaultContent(t *testing.T) {
	store, err := NewTemplateStore(t.TempDir())
	require.NoError(t, err)

	main, err := store.Load(driven.TemplateMainPy)
	require.NoError(t, err)
	assert.Contains(t, main, "print('Hello From PPM!')")
	assert.Contains(t, main, "if __name__ == '__main__':")

	gitignore, err := store.Load(driven.TemplateGitignore)
	require.NoError(t, err)
	assert.Equal(t, "/build\n/venv\n/.ppm\n", gitignore)
}

func TestTemplateStore_Load_ReturnsCustomContent(t *testing.T) {
	dir := t.TempDir()
	custom := "import sys\n\nprint(sys.argv)\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main_py.tmpl"), []byte(custom), 0600))

	store, err := NewTemplateStore(dir)
	require.NoError(t, err)

	content, err := store.Load(driven.TemplateMainPy)

	require.NoError(t, err)
	assert.Equal(t, custom, content)
}

func TestTemplateStore_Load_FallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	store, err := NewTemplateStore(dir)
	require.NoError(t, err)

	_, _ = store.Load(driven.TemplateGitignore)
	require.NoError(t, os.Remove(filepath.Join(dir, "gitignore.tmpl")))
	store.Reload()

	content, err := store.Load(driven.TemplateGitignore)

	require.NoError(t, err)
	assert.Equal(t, defaultTemplates[driven.TemplateGitignore], content)
}

func TestTemplateStore_Load_UnknownTemplate(t *testing.T) {
	store, err := NewTemplateStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("setup_py")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "setup_py")
}

func TestTemplateStore_Load_InitFailureUsesDefaults(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	store, err := NewTemplateStore(filepath.Join(blocker, "templates"))
	require.NoError(t, err)

	content, err := store.Load(driven.TemplateMainPy)
	require.NoError(t, err)
	assert.Equal(t, defaultTemplates[driven.TemplateMainPy], content)

	_, err = store.Load("unknown")
	assert.Error(t, err)
}

func TestTemplateStore_Reload_ClearsCache(t *testing.T) {
	dir := t.TempDir()
	store, err := NewTemplateStore(dir)
	require.NoError(t, err)

	_, err = store.Load(driven.TemplateMainPy)
	require.NoError(t, err)

	modified := "print('custom')\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main_py.tmpl"), []byte(modified), 0600))

	cached, err := store.Load(driven.TemplateMainPy)
	require.NoError(t, err)
	assert.NotEqual(t, modified, cached)

	store.Reload()

	content, err := store.Load(driven.TemplateMainPy)
	require.NoError(t, err)
	assert.Equal(t, modified, content)
}

func TestTemplateStore_Load_ConcurrentAccess(t *testing.T) {
	store, err := NewTemplateStore(t.TempDir())
	require.NoError(t, err)

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)
	results := make(chan string, goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			content, err := store.Load(driven.TemplateMainPy)
			if err == nil {
				results <- content
			}
		}()
	}
	wg.Wait()
	close(results)

	count := 0
	for content := range results {
		assert.Equal(t, defaultTemplates[driven.TemplateMainPy], content)
		count++
	}
	assert.Equal(t, goroutines, count)
}
