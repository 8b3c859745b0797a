package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateCache(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
}

func TestRunReportsFindingsAndExitsOne(t *testing.T) {
	isolateCache(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(path, []byte("import os\n"), 0o644))

	code, err := run([]string{path})
	assert.NoError(t, err)
	assert.Equal(t, 1, code)
}

func TestRunExitsZeroOnCleanFile(t *testing.T) {
	isolateCache(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\nprint(x)\n"), 0o644))

	code, err := run([]string{path})
	assert.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestRunHonorsExitZeroFlag(t *testing.T) {
	isolateCache(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(path, []byte("import os\n"), 0o644))

	code, err := run([]string{"--exit-zero", path})
	assert.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestRunFixRewritesFileAndClearsFinding(t *testing.T) {
	isolateCache(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(path, []byte("import os\n"), 0o644))

	_, err := run([]string{"--fix", path})
	assert.NoError(t, err)

	code, err := run([]string{path})
	assert.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestCacheClearSubcommandSucceeds(t *testing.T) {
	isolateCache(t)
	code, err := run([]string{"cache", "clear"})
	assert.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestDefaultCachePathCreatesParentDirectory(t *testing.T) {
	isolateCache(t)
	path := defaultCachePath()
	_, err := os.Stat(filepath.Dir(path))
	assert.NoError(t, err)
}
