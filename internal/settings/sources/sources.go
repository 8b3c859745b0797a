// Package sources implements the settings sources: reading pyproject-style
// TOML, CLI flags, and process environment into the raw inputs
// internal/settings.Resolve normalizes.
//
// Environment overrides load tolerantly through godotenv + LINTCORE_* env
// vars, CLI flags through a pflag.FlagSet, and BurntSushi/toml decodes the
// `[tool.lintcore]` config file.
package sources

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/oxhq/lintcore/internal/settings"
)

// RawTOML is the decoded shape of one `[tool.lintcore]` table.
type RawTOML struct {
	Select          []string `toml:"select"`
	Ignore          []string `toml:"ignore"`
	ExtendSelect    []string `toml:"extend-select"`
	ExtendIgnore    []string `toml:"extend-ignore"`
	LineLength      int      `toml:"line-length"`
	TargetVersion   string   `toml:"target-version"`
	DummyVariableRgx string  `toml:"dummy-variable-rgx"`
	TaskTags        []string `toml:"task-tags"`
	KnownFirstParty []string `toml:"known-first-party"`
	RequiredImports []string `toml:"required-imports"`
	Extend          string   `toml:"extend"`

	PerFileIgnores map[string][]string `toml:"per-file-ignores"`
}

// LoadTOML parses one [tool.lintcore] table from path. A parse failure or
// an unknown option name in that table becomes a settings.ConfigError.
func LoadTOML(path string) (RawTOML, error) {
	var doc struct {
		Tool struct {
			Lintcore RawTOML `toml:"lintcore"`
		} `toml:"tool"`
	}
	md, err := toml.DecodeFile(path, &doc)
	if err != nil {
		return RawTOML{}, &settings.ConfigError{Reason: fmt.Sprintf("parsing %s: %v", path, err)}
	}
	for _, key := range md.Undecoded() {
		if k := key.String(); strings.HasPrefix(k, "tool.lintcore.") {
			return RawTOML{}, &settings.ConfigError{Reason: fmt.Sprintf("%s: unknown option %q", path, strings.TrimPrefix(k, "tool.lintcore."))}
		}
	}
	return doc.Tool.Lintcore, nil
}

// FindAncestorConfig walks upward from dir looking for a pyproject.toml
// that contains a [tool.lintcore] table, returning its path, or "" if none
// is found before reaching the filesystem root.
func FindAncestorConfig(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, "pyproject.toml")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			if data, err := os.ReadFile(candidate); err == nil && strings.Contains(string(data), "[tool.lintcore") {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// envPrefix namespaces every environment override this tool reads.
const envPrefix = "LINTCORE_"

// LoadEnv best-effort loads a .env file from dir (ignoring a missing file)
// then collects every LINTCORE_*-prefixed variable from the process
// environment.
func LoadEnv(dir string) map[string]string {
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	out := make(map[string]string)
	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.HasPrefix(parts[0], envPrefix) {
			key := strings.ToLower(strings.TrimPrefix(parts[0], envPrefix))
			out[key] = parts[1]
		}
	}
	return out
}

// RawFlags is the decoded shape of the engine's CLI surface.
type RawFlags struct {
	Select          []string
	Ignore          []string
	ExtendSelect    []string
	ExtendIgnore    []string
	Fix             bool
	FixOnly         bool
	NoFix           bool
	Diff            bool
	Format          string
	LineLength      int
	TargetVersion   string
	Config          string
	Extend          string
	StdinFilename   string
	ExitZero        bool
}

// NewFlagSet builds the pflag.FlagSet exposing every CLI option the engine
// supports: grouped flag declarations read back into a plain struct after
// Parse.
func NewFlagSet(name string) (*pflag.FlagSet, *RawFlags) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	rf := &RawFlags{}

	fs.StringSliceVar(&rf.Select, "select", nil, "Comma-separated rule code/category prefixes to enable.")
	fs.StringSliceVar(&rf.Ignore, "ignore", nil, "Comma-separated rule code/category prefixes to disable.")
	fs.StringSliceVar(&rf.ExtendSelect, "extend-select", nil, "Additional rule prefixes to enable on top of the resolved selection.")
	fs.StringSliceVar(&rf.ExtendIgnore, "extend-ignore", nil, "Additional rule prefixes to disable on top of the resolved selection.")
	fs.BoolVar(&rf.Fix, "fix", false, "Apply autofixes where available.")
	fs.BoolVar(&rf.FixOnly, "fix-only", false, "Apply autofixes and print no diagnostics.")
	fs.BoolVar(&rf.NoFix, "no-fix", false, "Disable autofixing even if the config enables it.")
	fs.BoolVar(&rf.Diff, "diff", false, "Print a unified diff of the changes autofixing would make.")
	fs.StringVar(&rf.Format, "format", "text", "Output format: text, json, grouped, github, gitlab, junit.")
	fs.IntVar(&rf.LineLength, "line-length", 0, "Maximum line length for E501 (0 = use config/default).")
	fs.StringVar(&rf.TargetVersion, "target-version", "", "Target language version: py37..py312.")
	fs.StringVar(&rf.Config, "config", "", "Path to an explicit configuration file.")
	fs.StringVar(&rf.Extend, "extend", "", "Path to a configuration file to extend (accepted but not applied).")
	fs.StringVar(&rf.StdinFilename, "stdin-filename", "", "Filename to use for path-scoped rules when reading from stdin.")
	fs.BoolVar(&rf.ExitZero, "exit-zero", false, "Exit with code 0 even if findings are present.")

	return fs, rf
}

// LoadFlags parses args against the engine's CLI surface and returns the
// raw flags plus positional arguments (paths).
func LoadFlags(args []string) (*RawFlags, []string, error) {
	fs, rf := NewFlagSet("lintcore")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return rf, fs.Args(), nil
}

// ParseOverrideInt parses a string-valued environment override into an int,
// returning 0 (meaning "not set") on an empty or unparseable value.
func ParseOverrideInt(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
