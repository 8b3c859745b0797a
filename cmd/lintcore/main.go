// Command lintcore is the CLI entrypoint: it wires the settings sources,
// filesystem discovery, parser frontend, checker, diagnostic/fix arbiter,
// output formatters, and persisted cache around the analysis core.
//
// A cobra root command merges config and flags before dispatch, with one
// subcommand per top-level verb.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"github.com/oxhq/lintcore/internal/arbiter"
	"github.com/oxhq/lintcore/internal/cache"
	"github.com/oxhq/lintcore/internal/checker"
	"github.com/oxhq/lintcore/internal/diag"
	"github.com/oxhq/lintcore/internal/discover"
	"github.com/oxhq/lintcore/internal/format"
	"github.com/oxhq/lintcore/internal/frontend/python"
	"github.com/oxhq/lintcore/internal/lintcoreerr"
	"github.com/oxhq/lintcore/internal/rules"
	"github.com/oxhq/lintcore/internal/settings/sources"
	"github.com/oxhq/lintcore/internal/srcindex"
)

func main() {
	code, err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(code)
}

// run executes the CLI and returns the process exit code: 0 clean, 1
// diagnostics found (no fatal error), 2 any fatal error (config, I/O,
// parse, internal).
func run(args []string) (int, error) {
	root, cacheCmdRan := newRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		if le, ok := err.(*lintcoreerr.Error); ok {
			return lintcoreerr.ExitCode(le), le
		}
		return 2, err
	}
	if *cacheCmdRan {
		return 0, nil
	}
	return lastRunExitCode, lastRunErr
}

// lastRunExitCode/lastRunErr let the `check` RunE hand its exit code back
// to run() without cobra's Execute() itself carrying an exit-code concept.
var (
	lastRunExitCode = 0
	lastRunErr      error
)

func newRootCmd() (*cobra.Command, *bool) {
	cacheCmdRan := new(bool)
	root := &cobra.Command{
		Use:           "lintcore [paths...]",
		Short:         "Static analyzer for the target scripting language",
		SilenceUsage:  true,
		SilenceErrors: true,
		// The check verb's own flag surface is parsed by
		// internal/settings/sources via pflag, not cobra's FlagSet — hand
		// RunE the raw args untouched.
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args)
		},
	}

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached diagnostics entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			*cacheCmdRan = true
			c, err := cache.Open(defaultCachePath())
			if err != nil {
				return lintcoreerr.IO(defaultCachePath(), err)
			}
			defer c.Close()
			if err := c.InvalidateAll(); err != nil {
				return lintcoreerr.Internal(err.Error())
			}
			fmt.Println("cache cleared")
			return nil
		},
	}
	cacheCmd := &cobra.Command{Use: "cache", Short: "Manage the persisted diagnostics cache"}
	cacheCmd.AddCommand(clear)
	root.AddCommand(cacheCmd)

	return root, cacheCmdRan
}

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = "."
	}
	dir = filepath.Join(dir, "lintcore")
	_ = os.MkdirAll(dir, 0o755)
	return filepath.Join(dir, "cache.sqlite3")
}

// runCheck is the default verb: resolve settings, discover files, analyze
// each one concurrently (consulting the persisted cache before parsing),
// arbitrate, and render.
func runCheck(args []string) error {
	lastRunExitCode, lastRunErr = 0, nil
	cwd, err := os.Getwd()
	if err != nil {
		return lintcoreerr.IO(".", err)
	}

	rf, _, err := sources.LoadFlags(args)
	if err != nil {
		return lintcoreerr.CLI(err.Error())
	}

	resolved, positionals, err := sources.BuildSettings(rules.DefaultRegistry, args, cwd)
	if err != nil {
		return lintcoreerr.Config(err.Error())
	}

	roots := positionals
	if len(roots) == 0 {
		roots = []string{"."}
	}
	paths, err := discover.Discover(roots, discover.Default())
	if err != nil {
		return lintcoreerr.IO(cwd, err)
	}

	diagCache, err := cache.Open(defaultCachePath())
	if err != nil {
		return lintcoreerr.IO(defaultCachePath(), err)
	}
	defer diagCache.Close()
	settingsHash := cache.HashSettings(resolved.SortedEnabledCodes(), resolved.LineLength, resolved.TargetVersion)

	applyFixes := (rf.Fix || rf.FixOnly) && !rf.NoFix
	showDiff := rf.Diff

	var mu sync.Mutex
	var results []format.FileResult
	diffs := make(map[string]string)
	var fatalErr error

	jobs := discover.RunConcurrent(paths, 8, func(path string) error {
		src, err := os.ReadFile(path)
		if err != nil {
			return lintcoreerr.IO(path, err)
		}

		sourceHash := cache.HashSource(src)
		if cached, ok := diagCache.Get(path, sourceHash, settingsHash); ok && !applyFixes && !showDiff {
			parsed, perr := python.Parse(path, src)
			if perr != nil {
				return perr
			}
			idx := srcindex.New(src, parsed.Tokens)
			mu.Lock()
			results = append(results, format.FileResult{Path: path, Diagnostics: cached, Index: idx})
			mu.Unlock()
			return nil
		}

		parsed, err := python.Parse(path, src)
		if err != nil {
			return err
		}
		idx := srcindex.New(src, parsed.Tokens)

		var raw []diag.Diagnostic
		if len(parsed.Errors) > 0 {
			raw = parsed.Errors
		} else {
			raw = checker.Check(path, parsed.Module, parsed.Tokens, src, resolved, rules.DefaultRegistry)
		}

		arbRes := arbiter.Arbitrate(raw, idx, src, rules.DefaultRegistry, applyFixes)

		if applyFixes && arbRes.Fixed != nil {
			if err := os.WriteFile(path, arbRes.Fixed, 0o644); err != nil {
				return lintcoreerr.IO(path, err)
			}
		} else if showDiff && arbRes.Fixed != nil {
			d, derr := format.UnifiedDiff(path, src, arbRes.Fixed)
			if derr == nil && d != "" {
				mu.Lock()
				diffs[path] = d
				mu.Unlock()
			}
		}

		if len(parsed.Errors) == 0 {
			_ = diagCache.Put(path, sourceHash, settingsHash, arbRes.Diagnostics)
		}

		mu.Lock()
		results = append(results, format.FileResult{Path: path, Diagnostics: arbRes.Diagnostics, Index: idx})
		mu.Unlock()
		return nil
	})

	for _, j := range jobs {
		if j.Err != nil {
			fatalErr = j.Err
			break
		}
	}
	if fatalErr != nil {
		lastRunExitCode, lastRunErr = 2, fatalErr
		return fatalErr
	}

	format.SortResults(results)

	if showDiff {
		for _, r := range results {
			fmt.Print(diffs[r.Path])
		}
	} else if !rf.FixOnly {
		kind := format.Kind(rf.Format)
		out, rerr := format.Render(kind, results)
		if rerr != nil {
			return lintcoreerr.CLI(rerr.Error())
		}
		fmt.Print(out)
	}

	findingCount := 0
	for _, r := range results {
		findingCount += len(r.Diagnostics)
	}
	if findingCount > 0 && !rf.ExitZero {
		lastRunExitCode = 1
	}
	return nil
}
