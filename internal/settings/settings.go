// Package settings implements the Settings Resolver:
// normalizing configuration sources into one flat, immutable Settings value
// the core consumes.
package settings

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/oxhq/lintcore/internal/rules"
)

// FixMode is the engine's autofix behavior.
type FixMode int

const (
	FixOff FixMode = iota
	FixOn
	FixDryRun
)

// ConfigError is returned for any settings-resolution failure: unknown
// option, invalid regex, unsupported target version, or a TOML parse
// failure. The `extend` option is read but never followed, so it never
// causes one.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "config error: " + e.Reason }

// FileOverride scopes a set of selectors to files matching Pattern
//.
type FileOverride struct {
	Pattern string
	Select  []string
	Ignore  []string
}

// RuleSelectors is the raw, unresolved rule selection input: prefixes (an
// exact code or a category prefix) to select/ignore.
type RuleSelectors struct {
	Select       []string
	Ignore       []string
	ExtendSelect []string
	ExtendIgnore []string
}

// Settings is the fully-resolved, immutable configuration the checker
// consumes. Nothing in this struct refers back to a config file or CLI
// flag — every value has already been normalized and defaulted.
type Settings struct {
	// enabled is the precomputed O(1)-membership bitset keyed by rule code
	//.
	enabled map[string]bool

	LineLength         int
	DummyVariableRegex *regexp.Regexp
	TaskTags           []string
	KnownFirstParty    []string
	RequiredImports    []string
	TargetVersion      string
	FixMode            FixMode
	PerFileIgnores     []FileOverride
}

// Enabled reports whether code is selected, with O(1) membership.
func (s *Settings) Enabled(code string) bool { return s.enabled[code] }

// EnabledForFile reports whether code is selected for a specific file,
// honoring per-file-ignore overrides.
func (s *Settings) EnabledForFile(code, path string) bool {
	if !s.enabled[code] {
		return false
	}
	base := filepath.Base(path)
	for _, ov := range s.PerFileIgnores {
		matched, _ := doublestar.Match(ov.Pattern, path)
		if !matched {
			matched, _ = doublestar.Match(ov.Pattern, base)
		}
		if !matched {
			continue
		}
		if matchesAnyPrefix(code, ov.Ignore) {
			return false
		}
	}
	return true
}

func matchesAnyPrefix(code string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(code, p) {
			return true
		}
	}
	return false
}

var defaultDummyVariableRegex = regexp.MustCompile(`^(_+|(_+[a-zA-Z0-9_]*[a-zA-Z0-9]+?))$`)

// Default returns the built-in Settings: every rule with DefaultOn == true
// is selected, and every sub-setting takes its documented default.
func Default() *Settings {
	s := &Settings{
		enabled:            make(map[string]bool),
		LineLength:         88,
		DummyVariableRegex: defaultDummyVariableRegex,
		TargetVersion:      "py312",
		FixMode:            FixOff,
	}
	for _, r := range rules.DefaultRegistry.All() {
		if r.DefaultOn {
			s.enabled[r.Code] = true
		}
	}
	return s
}

var supportedTargetVersions = map[string]bool{
	"py37": true, "py38": true, "py39": true, "py310": true, "py311": true, "py312": true,
}

// Resolve computes the enabled-code bitset from selectors against the
// supplied rule registry: Settings.selected ∪ extend_selected − ignored,
// where each entry is a prefix (an exact rule code enables exactly that
// code; a category prefix like "F" enables every "Fxxx").
func Resolve(reg *rules.Registry, sel RuleSelectors, overrides Overrides) (*Settings, error) {
	s := Default()

	selected := sel.Select
	if len(selected) == 0 {
		// No explicit --select: start from every rule's own default
		// enablement, same as Default() above.
		for code := range s.enabled {
			selected = append(selected, code)
		}
	} else {
		s.enabled = make(map[string]bool)
	}

	all := reg.All()
	enableByPrefixes(s.enabled, all, selected)
	enableByPrefixes(s.enabled, all, sel.ExtendSelect)
	disableByPrefixes(s.enabled, all, sel.Ignore)
	disableByPrefixes(s.enabled, all, sel.ExtendIgnore)

	if overrides.LineLength > 0 {
		s.LineLength = overrides.LineLength
	}
	if overrides.DummyVariableRegex != "" {
		re, err := regexp.Compile(overrides.DummyVariableRegex)
		if err != nil {
			return nil, &ConfigError{Reason: fmt.Sprintf("invalid dummy-variable-rgx: %v", err)}
		}
		s.DummyVariableRegex = re
	}
	if overrides.TargetVersion != "" {
		if !supportedTargetVersions[overrides.TargetVersion] {
			return nil, &ConfigError{Reason: fmt.Sprintf("unsupported target-version %q", overrides.TargetVersion)}
		}
		s.TargetVersion = overrides.TargetVersion
	}
	if len(overrides.TaskTags) > 0 {
		s.TaskTags = overrides.TaskTags
	}
	if len(overrides.KnownFirstParty) > 0 {
		s.KnownFirstParty = overrides.KnownFirstParty
	}
	if len(overrides.RequiredImports) > 0 {
		s.RequiredImports = overrides.RequiredImports
	}
	if overrides.FixMode != nil {
		s.FixMode = *overrides.FixMode
	}
	s.PerFileIgnores = overrides.PerFileIgnores

	return s, nil
}

func enableByPrefixes(enabled map[string]bool, all []rules.Rule, prefixes []string) {
	for _, p := range prefixes {
		for _, r := range all {
			if strings.HasPrefix(r.Code, p) {
				enabled[r.Code] = true
			}
		}
	}
}

func disableByPrefixes(enabled map[string]bool, all []rules.Rule, prefixes []string) {
	for _, p := range prefixes {
		for _, r := range all {
			if strings.HasPrefix(r.Code, p) {
				delete(enabled, r.Code)
			}
		}
	}
}

// Overrides carries per-rule sub-settings and file-pattern overrides
// resolved from config sources, applied on top of Default() by Resolve.
type Overrides struct {
	LineLength         int
	DummyVariableRegex string
	TaskTags           []string
	KnownFirstParty    []string
	RequiredImports    []string
	TargetVersion      string
	FixMode            *FixMode
	PerFileIgnores     []FileOverride
}

// SortedEnabledCodes returns the enabled rule codes in sorted order, used
// for deterministic diagnostics/log output and tests.
func (s *Settings) SortedEnabledCodes() []string {
	codes := make([]string, 0, len(s.enabled))
	for c := range s.enabled {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}
