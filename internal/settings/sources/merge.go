package sources

import (
	"github.com/oxhq/lintcore/internal/rules"
	"github.com/oxhq/lintcore/internal/settings"
)

// BuildSettings implements the full precedence chain: CLI -> --config file
// -> nearest ancestor config file -> built-in defaults. It returns the
// resolved Settings plus the positional path arguments from the CLI.
func BuildSettings(reg *rules.Registry, args []string, cwd string) (*settings.Settings, []string, error) {
	flags, positionals, err := LoadFlags(args)
	if err != nil {
		return nil, nil, err
	}

	sel := settings.RuleSelectors{
		Select:       flags.Select,
		Ignore:       flags.Ignore,
		ExtendSelect: flags.ExtendSelect,
		ExtendIgnore: flags.ExtendIgnore,
	}
	ov := settings.Overrides{}

	// Lowest precedence: nearest ancestor pyproject.toml.
	if ancestor := FindAncestorConfig(cwd); ancestor != "" {
		raw, err := LoadTOML(ancestor)
		if err != nil {
			return nil, nil, err
		}
		applyRawTOML(&sel, &ov, raw)
	}

	// Next: an explicit --config file overrides the ancestor file.
	if flags.Config != "" {
		raw, err := LoadTOML(flags.Config)
		if err != nil {
			return nil, nil, err
		}
		applyRawTOML(&sel, &ov, raw)
	}

	// Highest precedence: CLI flags.
	if len(flags.Select) > 0 {
		sel.Select = flags.Select
	}
	sel.ExtendSelect = append(sel.ExtendSelect, flags.ExtendSelect...)
	sel.ExtendIgnore = append(sel.ExtendIgnore, flags.ExtendIgnore...)
	if len(flags.Ignore) > 0 {
		sel.Ignore = append(sel.Ignore, flags.Ignore...)
	}
	if flags.LineLength > 0 {
		ov.LineLength = flags.LineLength
	}
	if flags.TargetVersion != "" {
		ov.TargetVersion = flags.TargetVersion
	}

	fixMode := resolveFixMode(flags)
	ov.FixMode = &fixMode

	resolved, err := settings.Resolve(reg, sel, ov)
	if err != nil {
		return nil, nil, err
	}
	return resolved, positionals, nil
}

func resolveFixMode(flags *RawFlags) settings.FixMode {
	switch {
	case flags.NoFix:
		return settings.FixOff
	case flags.FixOnly:
		return settings.FixOn
	case flags.Fix:
		return settings.FixOn
	case flags.Diff:
		return settings.FixDryRun
	default:
		return settings.FixOff
	}
}

func applyRawTOML(sel *settings.RuleSelectors, ov *settings.Overrides, raw RawTOML) {
	if len(raw.Select) > 0 {
		sel.Select = raw.Select
	}
	sel.Ignore = append(sel.Ignore, raw.Ignore...)
	sel.ExtendSelect = append(sel.ExtendSelect, raw.ExtendSelect...)
	sel.ExtendIgnore = append(sel.ExtendIgnore, raw.ExtendIgnore...)
	if raw.LineLength > 0 {
		ov.LineLength = raw.LineLength
	}
	if raw.TargetVersion != "" {
		ov.TargetVersion = raw.TargetVersion
	}
	if raw.DummyVariableRgx != "" {
		ov.DummyVariableRegex = raw.DummyVariableRgx
	}
	if len(raw.TaskTags) > 0 {
		ov.TaskTags = raw.TaskTags
	}
	if len(raw.KnownFirstParty) > 0 {
		ov.KnownFirstParty = raw.KnownFirstParty
	}
	if len(raw.RequiredImports) > 0 {
		ov.RequiredImports = raw.RequiredImports
	}
	for pattern, ignores := range raw.PerFileIgnores {
		ov.PerFileIgnores = append(ov.PerFileIgnores, settings.FileOverride{
			Pattern: pattern,
			Ignore:  ignores,
		})
	}
}
