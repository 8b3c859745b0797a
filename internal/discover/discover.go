// Package discover implements filesystem discovery: turning CLI path
// arguments into a deduplicated, sorted list of files to analyze,
// honoring include/exclude glob patterns and a worker-pool fan-out for
// the checker stage.
//
// doublestar.Match-based glob filtering runs over a filepath.WalkDir
// traversal, extended here from a single-pattern match into the engine's
// include/exclude/extend-exclude trio.
package discover

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Patterns configures which files discovery yields.
type Patterns struct {
	Include       []string // default: ["**/*.py"]
	Exclude       []string // default excludes: .git, __pycache__, venvs, ...
	ExtendExclude []string
	Force         bool // --force-exclude style override; Discover does not consult it
}

// DefaultExclude mirrors common project-hygiene directories every linter in
// this ecosystem skips by default.
var DefaultExclude = []string{
	"**/.git/**", "**/.hg/**", "**/.svn/**",
	"**/__pycache__/**", "**/.mypy_cache/**", "**/.pytest_cache/**",
	"**/.venv/**", "**/venv/**", "**/.tox/**", "**/node_modules/**",
	"**/build/**", "**/dist/**", "**/*.egg-info/**",
}

// Default returns the built-in Patterns: every .py file, minus the
// standard hygiene excludes.
func Default() Patterns {
	return Patterns{Include: []string{"**/*.py"}, Exclude: DefaultExclude}
}

// Discover walks each root (a file or directory) and returns every
// matching file path, sorted for determinism.
func Discover(roots []string, p Patterns) ([]string, error) {
	seen := make(map[string]bool)
	var out []string

	add := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if !seen[abs] {
			seen[abs] = true
			out = append(out, path)
		}
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			if d.IsDir() {
				if matchesAny(rel, p.Exclude) || matchesAny(rel, p.ExtendExclude) {
					return filepath.SkipDir
				}
				return nil
			}
			if matchesAny(rel, p.Exclude) || matchesAny(rel, p.ExtendExclude) {
				return nil
			}
			if !matchesAny(rel, p.Include) && !matchesAny(filepath.Base(path), p.Include) {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(out)
	return out, nil
}

func matchesAny(path string, patterns []string) bool {
	norm := filepath.ToSlash(path)
	for _, pat := range patterns {
		if ok, _ := doublestar.Match(pat, norm); ok {
			return true
		}
		if !strings.Contains(pat, "/") {
			if ok, _ := doublestar.Match(pat, filepath.Base(norm)); ok {
				return true
			}
		}
	}
	return false
}

// Job is one path's outcome from RunConcurrent.
type Job struct {
	Path string
	Err  error
}

// RunConcurrent fans fn out across workers goroutines, one per discovered
// path, and returns results in the same order as
// paths regardless of completion order.
func RunConcurrent(paths []string, workers int, fn func(path string) error) []Job {
	if workers < 1 {
		workers = 1
	}
	jobs := make([]Job, len(paths))
	sem := make(chan struct{}, workers)
	done := make(chan int, len(paths))

	for i, p := range paths {
		i, p := i, p
		sem <- struct{}{}
		go func() {
			defer func() { <-sem; done <- i }()
			jobs[i] = Job{Path: p, Err: fn(p)}
		}()
	}
	for range paths {
		<-done
	}
	return jobs
}
