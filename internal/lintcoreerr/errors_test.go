package lintcoreerr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oxhq/lintcore/internal/lintcoreerr"
)

func TestIOErrorIncludesPathAndWrappedCause(t *testing.T) {
	cause := errors.New("permission denied")
	err := lintcoreerr.IO("a.py", cause)

	assert.Equal(t, lintcoreerr.CodeIO, err.Code)
	assert.Contains(t, err.Error(), "a.py")
	assert.Contains(t, err.Error(), "permission denied")
	assert.ErrorIs(t, err, cause)
}

func TestConfigErrorOmitsPathWhenEmpty(t *testing.T) {
	err := lintcoreerr.Config("missing select key")
	assert.NotContains(t, err.Error(), "::")
	assert.Equal(t, "config-error: missing select key", err.Error())
}

func TestExitCodeMapsNilToZeroAndAnyErrorToTwo(t *testing.T) {
	assert.Equal(t, 0, lintcoreerr.ExitCode(nil))
	assert.Equal(t, 2, lintcoreerr.ExitCode(lintcoreerr.Internal("boom")))
	assert.Equal(t, 2, lintcoreerr.ExitCode(errors.New("plain")))
}

func TestUnwrapReturnsNilWhenNoCause(t *testing.T) {
	err := lintcoreerr.CLI("bad flag")
	assert.Nil(t, err.Unwrap())
}
