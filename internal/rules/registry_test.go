package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/lintcore/internal/rules"
)

func TestBuiltinRegistryHasNoDuplicateCodes(t *testing.T) {
	reg := rules.Builtin()
	seen := make(map[string]bool)
	for _, r := range reg.All() {
		assert.False(t, seen[r.Code], "duplicate rule code %s", r.Code)
		seen[r.Code] = true
	}
	assert.NotEmpty(t, reg.All())
}

func TestRegistryGetReturnsKnownRule(t *testing.T) {
	reg := rules.Builtin()
	r, ok := reg.Get("F401")
	require.True(t, ok)
	assert.Equal(t, rules.CategoryPyflakes, r.Category)
	assert.True(t, r.DefaultOn)
}

func TestRegistryGetMissesUnknownCode(t *testing.T) {
	reg := rules.Builtin()
	_, ok := reg.Get("ZZZ999")
	assert.False(t, ok)
}

func TestRegisterRejectsDuplicateCode(t *testing.T) {
	reg := rules.NewRegistry()
	require.NoError(t, reg.Register(rules.Rule{Code: "X001"}))
	err := reg.Register(rules.Rule{Code: "X001"})
	assert.Error(t, err)
}

func TestRegisterRejectsEmptyCode(t *testing.T) {
	reg := rules.NewRegistry()
	err := reg.Register(rules.Rule{Code: ""})
	assert.Error(t, err)
}

func TestAllPreservesRegistrationOrder(t *testing.T) {
	reg := rules.NewRegistry()
	require.NoError(t, reg.Register(rules.Rule{Code: "B001"}))
	require.NoError(t, reg.Register(rules.Rule{Code: "A001"}))
	all := reg.All()
	require.Len(t, all, 2)
	assert.Equal(t, "B001", all[0].Code)
	assert.Equal(t, "A001", all[1].Code)
}
