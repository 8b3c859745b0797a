package cache_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/lintcore/internal/ast"
	"github.com/oxhq/lintcore/internal/cache"
	"github.com/oxhq/lintcore/internal/diag"
)

func openTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := cache.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestHashSourceIsDeterministicAndContentSensitive(t *testing.T) {
	a := cache.HashSource([]byte("x = 1\n"))
	b := cache.HashSource([]byte("x = 1\n"))
	c := cache.HashSource([]byte("x = 2\n"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestHashSettingsChangesWithEnabledCodes(t *testing.T) {
	a := cache.HashSettings([]string{"E501", "F401"}, 88, "py312")
	b := cache.HashSettings([]string{"E501"}, 88, "py312")
	assert.NotEqual(t, a, b)
}

func TestHashSettingsChangesWithTargetVersion(t *testing.T) {
	a := cache.HashSettings([]string{"E501"}, 88, "py312")
	b := cache.HashSettings([]string{"E501"}, 88, "py38")
	assert.NotEqual(t, a, b)
}

func TestCachePutThenGetRoundTrips(t *testing.T) {
	c := openTestCache(t)
	ds := []diag.Diagnostic{
		{RuleCode: "F401", Message: "unused import", Range: ast.Range{Start: 0, End: 5}},
	}
	require.NoError(t, c.Put("a.py", "srchash", "sethash", ds))

	got, ok := c.Get("a.py", "srchash", "sethash")
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "F401", got[0].RuleCode)
}

func TestCacheGetMissesOnSourceHashChange(t *testing.T) {
	c := openTestCache(t)
	require.NoError(t, c.Put("a.py", "srchash-old", "sethash", nil))

	_, ok := c.Get("a.py", "srchash-new", "sethash")
	assert.False(t, ok)
}

func TestCachePutOverwritesPriorEntryForSamePath(t *testing.T) {
	c := openTestCache(t)
	require.NoError(t, c.Put("a.py", "hash1", "set1", []diag.Diagnostic{{RuleCode: "F401"}}))
	require.NoError(t, c.Put("a.py", "hash2", "set1", []diag.Diagnostic{{RuleCode: "F841"}}))

	got, ok := c.Get("a.py", "hash2", "set1")
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "F841", got[0].RuleCode)

	_, ok = c.Get("a.py", "hash1", "set1")
	assert.False(t, ok)
}

func TestCacheInvalidateAllClearsEveryEntry(t *testing.T) {
	c := openTestCache(t)
	require.NoError(t, c.Put("a.py", "h1", "s1", nil))
	require.NoError(t, c.Put("b.py", "h2", "s1", nil))

	require.NoError(t, c.InvalidateAll())

	_, ok := c.Get("a.py", "h1", "s1")
	assert.False(t, ok)
	_, ok = c.Get("b.py", "h2", "s1")
	assert.False(t, ok)
}
