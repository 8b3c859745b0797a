package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oxhq/lintcore/internal/ast"
	"github.com/oxhq/lintcore/internal/token"
)

func sampleStream() *token.Stream {
	return &token.Stream{Tokens: []token.Token{
		{Kind: token.NAME, Range: ast.Range{Start: 0, End: 6}, Text: "import"},
		{Kind: token.NAME, Range: ast.Range{Start: 7, End: 9}, Text: "os"},
		{Kind: token.COMMENT, Range: ast.Range{Start: 10, End: 20}, Text: "# noqa"},
		{Kind: token.NEWLINE, Range: ast.Range{Start: 20, End: 21}, Text: "\n"},
	}}
}

func TestStreamAtFindsTokenContainingOffset(t *testing.T) {
	s := sampleStream()
	tok, ok := s.At(8)
	assert.True(t, ok)
	assert.Equal(t, "os", tok.Text)
}

func TestStreamAtMissesOffsetBetweenTokens(t *testing.T) {
	s := sampleStream()
	_, ok := s.At(6)
	assert.False(t, ok)
}

func TestStreamCommentsReturnsOnlyCommentTokensInOrder(t *testing.T) {
	s := sampleStream()
	comments := s.Comments()
	assert.Len(t, comments, 1)
	assert.Equal(t, "# noqa", comments[0].Text)
}
