package srcindex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oxhq/lintcore/internal/ast"
	"github.com/oxhq/lintcore/internal/srcindex"
	"github.com/oxhq/lintcore/internal/token"
)

func TestPositionMapsOffsetToRowAndColumn(t *testing.T) {
	src := []byte("abc\ndef\nghi")
	idx := srcindex.New(src, nil)

	row, col := idx.Position(0)
	assert.Equal(t, 1, row)
	assert.Equal(t, 0, col)

	row, col = idx.Position(5) // 'e' on line 2
	assert.Equal(t, 2, row)
	assert.Equal(t, 1, col)
}

func TestExtractNoqaRecognizesBareAndCodedForms(t *testing.T) {
	d := srcindex.ExtractNoqa("x = 1  # noqa")
	assert.True(t, d.Present)
	assert.True(t, d.All)

	d = srcindex.ExtractNoqa("x = 1  # noqa: F401, E501")
	assert.True(t, d.Present)
	assert.False(t, d.All)
	assert.True(t, d.Suppresses("F401"))
	assert.True(t, d.Suppresses("E501"))
	assert.False(t, d.Suppresses("F821"))

	d = srcindex.ExtractNoqa("x = 1")
	assert.False(t, d.Present)
	assert.False(t, d.Suppresses("F401"))
}

func TestExtractNoqaIsCaseInsensitiveOnKeywordOnly(t *testing.T) {
	d := srcindex.ExtractNoqa("x = 1  # NOQA: F401")
	assert.True(t, d.Present)
	assert.True(t, d.Suppresses("F401"))
	assert.False(t, d.Suppresses("f401"))
}

func TestInCommentDetectsCommentRanges(t *testing.T) {
	src := []byte("x = 1  # a comment\n")
	toks := &token.Stream{Tokens: []token.Token{
		{Kind: token.COMMENT, Range: ast.Range{Start: 7, End: 19}, Text: "# a comment"},
	}}
	idx := srcindex.New(src, toks)

	assert.True(t, idx.InComment(8))
	assert.False(t, idx.InComment(0))
}

func TestDetectIndentationPrefersSmallestSpaceWidth(t *testing.T) {
	src := []byte("if x:\n  y = 1\n  if y:\n    z = 2\n")
	idx := srcindex.New(src, nil)
	assert.Equal(t, 2, idx.IndentationStyle().Width)
	assert.False(t, idx.IndentationStyle().Tab)
}

func TestLineEndingDetectsCRLF(t *testing.T) {
	src := []byte("a\r\nb\r\nc\r\n")
	idx := srcindex.New(src, nil)
	assert.Equal(t, srcindex.CRLF, idx.LineEndingStyle())
}
