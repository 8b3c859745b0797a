package python_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/lintcore/internal/frontend/python"
)

func TestParseValidSourceProducesNoSyntaxErrors(t *testing.T) {
	src := []byte("x = 1\nprint(x)\n")
	res, err := python.Parse("a.py", src)
	require.NoError(t, err)
	require.NotNil(t, res.Module)
	require.NotNil(t, res.Tokens)
	assert.Empty(t, res.Errors)
	assert.NotEmpty(t, res.Module.Body)
}

func TestParseCollectsCommentTokens(t *testing.T) {
	src := []byte("x = 1  # noqa: F401\n")
	res, err := python.Parse("a.py", src)
	require.NoError(t, err)

	comments := res.Tokens.Comments()
	require.Len(t, comments, 1)
	assert.Contains(t, comments[0].Text, "noqa")
}

func TestParseReportsSyntaxErrorForUnbalancedParen(t *testing.T) {
	src := []byte("print(\n")
	res, err := python.Parse("a.py", src)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Errors)
	for _, d := range res.Errors {
		assert.Equal(t, "E999", d.RuleCode)
	}
}
