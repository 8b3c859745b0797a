package arbiter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/lintcore/internal/arbiter"
	"github.com/oxhq/lintcore/internal/ast"
	"github.com/oxhq/lintcore/internal/diag"
	"github.com/oxhq/lintcore/internal/rules"
	"github.com/oxhq/lintcore/internal/srcindex"
)

func TestArbitrateDropsDiagnosticSuppressedByNoqa(t *testing.T) {
	src := []byte("import os  # noqa: F401\n")
	idx := srcindex.New(src, nil)
	ds := []diag.Diagnostic{
		{RuleCode: "F401", Message: "`os` imported but unused", Range: ast.Range{Start: 7, End: 9}},
	}

	res := arbiter.Arbitrate(ds, idx, src, rules.DefaultRegistry, false)
	assert.Empty(t, res.Diagnostics)
}

func TestArbitrateKeepsDiagnosticsWithNoMatchingNoqa(t *testing.T) {
	src := []byte("import os\n")
	idx := srcindex.New(src, nil)
	ds := []diag.Diagnostic{
		{RuleCode: "F401", Message: "`os` imported but unused", Range: ast.Range{Start: 7, End: 9}},
	}

	res := arbiter.Arbitrate(ds, idx, src, rules.DefaultRegistry, false)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "F401", res.Diagnostics[0].RuleCode)
}

func TestArbitrateSynthesizesUnusedNoqaDiagnostic(t *testing.T) {
	src := []byte("x = 1  # noqa: F401\n")
	idx := srcindex.New(src, nil)

	res := arbiter.Arbitrate(nil, idx, src, rules.DefaultRegistry, false)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "F502", res.Diagnostics[0].RuleCode)
}

func TestArbitrateSynthesizesInvalidNoqaCodeDiagnostic(t *testing.T) {
	src := []byte("x = 1  # noqa: ZZZ999\n")
	idx := srcindex.New(src, nil)

	res := arbiter.Arbitrate(nil, idx, src, rules.DefaultRegistry, false)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "F501", res.Diagnostics[0].RuleCode)
}

func TestArbitrateAppliesNonConflictingFixes(t *testing.T) {
	src := []byte("import os\nimport sys\n")
	idx := srcindex.New(src, nil)
	ds := []diag.Diagnostic{
		{RuleCode: "F401", Message: "os unused", Range: ast.Range{Start: 0, End: 10},
			Fix: &diag.Fix{Edits: []diag.Edit{{Range: ast.Range{Start: 0, End: 9}, Replacement: ""}}}},
		{RuleCode: "F401", Message: "sys unused", Range: ast.Range{Start: 10, End: 21},
			Fix: &diag.Fix{Edits: []diag.Edit{{Range: ast.Range{Start: 10, End: 21}, Replacement: ""}}}},
	}

	res := arbiter.Arbitrate(ds, idx, src, rules.DefaultRegistry, true)
	require.NotNil(t, res.Fixed)
	assert.Equal(t, "\n", string(res.Fixed))
	assert.Equal(t, 2, res.FixCount)
}

func TestArbitrateDropsLaterConflictingFix(t *testing.T) {
	src := []byte("xxxxxxxxxx")
	idx := srcindex.New(src, nil)
	ds := []diag.Diagnostic{
		{RuleCode: "A001", Range: ast.Range{Start: 0, End: 5},
			Fix: &diag.Fix{Edits: []diag.Edit{{Range: ast.Range{Start: 0, End: 5}, Replacement: "AAAAA"}}}},
		{RuleCode: "B001", Range: ast.Range{Start: 3, End: 7},
			Fix: &diag.Fix{Edits: []diag.Edit{{Range: ast.Range{Start: 3, End: 7}, Replacement: "BBBB"}}}},
	}

	res := arbiter.Arbitrate(ds, idx, src, rules.DefaultRegistry, true)
	require.NotNil(t, res.Fixed)
	assert.Equal(t, 1, res.FixCount)
	assert.Equal(t, "AAAAAxxxxx", string(res.Fixed))
}
