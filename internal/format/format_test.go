package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/lintcore/internal/ast"
	"github.com/oxhq/lintcore/internal/diag"
	"github.com/oxhq/lintcore/internal/format"
	"github.com/oxhq/lintcore/internal/srcindex"
)

func sampleResults() []format.FileResult {
	src := []byte("import os\n")
	idx := srcindex.New(src, nil)
	return []format.FileResult{
		{Path: "a.py", Index: idx, Diagnostics: []diag.Diagnostic{
			{RuleCode: "F401", Message: "`os` imported but unused", Range: ast.Range{Start: 7, End: 9}},
		}},
	}
}

func TestRenderTextIncludesPathCodeAndMessage(t *testing.T) {
	out, err := format.Render(format.Text, sampleResults())
	require.NoError(t, err)
	assert.Contains(t, out, "a.py:1:8")
	assert.Contains(t, out, "F401")
	assert.Contains(t, out, "imported but unused")
}

func TestRenderJSONProducesValidStructure(t *testing.T) {
	out, err := format.Render(format.JSON, sampleResults())
	require.NoError(t, err)
	assert.Contains(t, out, `"filename": "a.py"`)
	assert.Contains(t, out, `"code": "F401"`)
}

func TestRenderUnknownFormatErrors(t *testing.T) {
	_, err := format.Render(format.Kind("bogus"), sampleResults())
	assert.Error(t, err)
}

func TestRenderGroupedSkipsFilesWithNoDiagnostics(t *testing.T) {
	clean := format.FileResult{Path: "clean.py", Index: srcindex.New([]byte("x = 1\n"), nil)}
	out, err := format.Render(format.Grouped, append(sampleResults(), clean))
	require.NoError(t, err)
	assert.NotContains(t, out, "clean.py")
	assert.Contains(t, out, "a.py:")
}

func TestUnifiedDiffEmptyWhenUnchanged(t *testing.T) {
	out, err := format.UnifiedDiff("a.py", []byte("x = 1\n"), []byte("x = 1\n"))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestUnifiedDiffRendersChangedLines(t *testing.T) {
	out, err := format.UnifiedDiff("a.py", []byte("x = 1\n"), []byte("x = 2\n"))
	require.NoError(t, err)
	assert.Contains(t, out, "-x = 1")
	assert.Contains(t, out, "+x = 2")
}

func TestSortResultsOrdersByPath(t *testing.T) {
	results := []format.FileResult{{Path: "z.py"}, {Path: "a.py"}, {Path: "m.py"}}
	format.SortResults(results)
	assert.Equal(t, []string{"a.py", "m.py", "z.py"}, []string{results[0].Path, results[1].Path, results[2].Path})
}
