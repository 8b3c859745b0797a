package diag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oxhq/lintcore/internal/ast"
	"github.com/oxhq/lintcore/internal/diag"
)

func TestOverlapsDetectsSharedEndpointAsOverlap(t *testing.T) {
	a := diag.Edit{Range: ast.Range{Start: 0, End: 5}}
	b := diag.Edit{Range: ast.Range{Start: 5, End: 10}}
	assert.True(t, diag.Overlaps(a, b))
}

func TestOverlapsDetectsDisjointRangesAsNonOverlapping(t *testing.T) {
	a := diag.Edit{Range: ast.Range{Start: 0, End: 5}}
	b := diag.Edit{Range: ast.Range{Start: 6, End: 10}}
	assert.False(t, diag.Overlaps(a, b))
}

func TestOverlapsDetectsNestedRanges(t *testing.T) {
	outer := diag.Edit{Range: ast.Range{Start: 0, End: 10}}
	inner := diag.Edit{Range: ast.Range{Start: 3, End: 5}}
	assert.True(t, diag.Overlaps(outer, inner))
	assert.True(t, diag.Overlaps(inner, outer))
}
