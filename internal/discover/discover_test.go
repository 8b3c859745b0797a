package discover_test

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/lintcore/internal/discover"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestDiscoverFindsPythonFilesAndSkipsHygieneDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.py"), "x = 1\n")
	writeFile(t, filepath.Join(root, "pkg", "b.py"), "y = 2\n")
	writeFile(t, filepath.Join(root, "pkg", "b.txt"), "not python\n")
	writeFile(t, filepath.Join(root, ".git", "c.py"), "z = 3\n")
	writeFile(t, filepath.Join(root, "__pycache__", "d.py"), "w = 4\n")

	got, err := discover.Discover([]string{root}, discover.Default())
	require.NoError(t, err)

	var rel []string
	for _, p := range got {
		r, err := filepath.Rel(root, p)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	sort.Strings(rel)
	assert.Equal(t, []string{"a.py", "pkg/b.py"}, rel)
}

func TestDiscoverIsIdempotent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.py"), "x = 1\n")
	writeFile(t, filepath.Join(root, "b.py"), "y = 2\n")

	first, err := discover.Discover([]string{root}, discover.Default())
	require.NoError(t, err)
	second, err := discover.Discover([]string{root}, discover.Default())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDiscoverAcceptsExplicitFileRoot(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "only.py")
	writeFile(t, path, "x = 1\n")

	got, err := discover.Discover([]string{path}, discover.Default())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, path, got[0])
}

func TestRunConcurrentPreservesOrderAndReportsErrors(t *testing.T) {
	paths := []string{"a.py", "b.py", "c.py"}
	jobs := discover.RunConcurrent(paths, 2, func(path string) error {
		if path == "b.py" {
			return assert.AnError
		}
		return nil
	})

	require.Len(t, jobs, 3)
	for i, p := range paths {
		assert.Equal(t, p, jobs[i].Path)
	}
	assert.NoError(t, jobs[0].Err)
	assert.Error(t, jobs[1].Err)
	assert.NoError(t, jobs[2].Err)
}
