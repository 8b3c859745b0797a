package settings_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/lintcore/internal/rules"
	"github.com/oxhq/lintcore/internal/settings"
)

func TestDefaultEnablesEveryDefaultOnRule(t *testing.T) {
	s := settings.Default()
	for _, r := range rules.DefaultRegistry.All() {
		assert.Equal(t, r.DefaultOn, s.Enabled(r.Code), "rule %s", r.Code)
	}
}

func TestResolveCategoryPrefixSelectsWholeCategory(t *testing.T) {
	s, err := settings.Resolve(rules.DefaultRegistry, settings.RuleSelectors{Select: []string{"F"}}, settings.Overrides{})
	require.NoError(t, err)
	assert.True(t, s.Enabled("F401"))
	assert.True(t, s.Enabled("F821"))
	assert.False(t, s.Enabled("E501"))
}

func TestResolveIgnoreWinsOverSelect(t *testing.T) {
	s, err := settings.Resolve(rules.DefaultRegistry, settings.RuleSelectors{
		Select: []string{"F"},
		Ignore: []string{"F401"},
	}, settings.Overrides{})
	require.NoError(t, err)
	assert.False(t, s.Enabled("F401"))
	assert.True(t, s.Enabled("F821"))
}

func TestResolveExtendSelectAddsOnTopOfDefaults(t *testing.T) {
	s, err := settings.Resolve(rules.DefaultRegistry, settings.RuleSelectors{
		ExtendSelect: []string{"F502"}, // DefaultOn: false
	}, settings.Overrides{})
	require.NoError(t, err)
	assert.True(t, s.Enabled("F502"))
	assert.True(t, s.Enabled("F401")) // still on from the default set
}

func TestResolveRejectsUnsupportedTargetVersion(t *testing.T) {
	_, err := settings.Resolve(rules.DefaultRegistry, settings.RuleSelectors{}, settings.Overrides{TargetVersion: "py20"})
	assert.Error(t, err)
}

func TestResolveRejectsInvalidDummyVariableRegex(t *testing.T) {
	_, err := settings.Resolve(rules.DefaultRegistry, settings.RuleSelectors{}, settings.Overrides{DummyVariableRegex: "(unclosed"})
	assert.Error(t, err)
}

func TestEnabledForFileHonorsPerFileIgnoreGlob(t *testing.T) {
	s, err := settings.Resolve(rules.DefaultRegistry, settings.RuleSelectors{}, settings.Overrides{
		PerFileIgnores: []settings.FileOverride{
			{Pattern: "**/tests/**", Ignore: []string{"F401"}},
		},
	})
	require.NoError(t, err)
	assert.False(t, s.EnabledForFile("F401", "pkg/tests/foo.py"))
	assert.True(t, s.EnabledForFile("F401", "pkg/app/foo.py"))
}

func TestSortedEnabledCodesIsDeterministic(t *testing.T) {
	s := settings.Default()
	a := s.SortedEnabledCodes()
	b := s.SortedEnabledCodes()
	assert.Equal(t, a, b)
	for i := 1; i < len(a); i++ {
		assert.Less(t, a[i-1], a[i])
	}
}
