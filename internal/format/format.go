// Package format implements the output formatters: turning a file's final
// diagnostics into the engine's various `--format` outputs, plus
// unified-diff rendering for `--diff`.
//
// The per-format rendering switch produces full-file fix previews, using
// pmezard/go-difflib for the diff algorithm itself rather than a
// hand-rolled LCS.
package format

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/oxhq/lintcore/internal/diag"
	"github.com/oxhq/lintcore/internal/srcindex"
)

// FileResult bundles one file's final diagnostics with the index needed to
// turn byte ranges into row/column positions.
type FileResult struct {
	Path        string
	Diagnostics []diag.Diagnostic
	Index       *srcindex.Index
}

// Kind identifies one of the engine's supported `--format` values.
type Kind string

const (
	Text    Kind = "text"
	JSON    Kind = "json"
	Grouped Kind = "grouped"
	GitHub  Kind = "github"
	GitLab  Kind = "gitlab"
	JUnit   Kind = "junit"
)

// Render dispatches to the formatter for kind. Results are rendered in the
// order given; callers sort FileResult.Diagnostics beforehand (the
// arbiter's job) and should sort the FileResult slice by Path for
// deterministic multi-file output.
func Render(kind Kind, results []FileResult) (string, error) {
	switch kind {
	case Text, "":
		return renderText(results), nil
	case JSON:
		return renderJSON(results)
	case Grouped:
		return renderGrouped(results), nil
	case GitHub:
		return renderGitHub(results), nil
	case GitLab:
		return renderGitLab(results)
	case JUnit:
		return renderJUnit(results), nil
	default:
		return "", fmt.Errorf("unknown output format %q", kind)
	}
}

func renderText(results []FileResult) string {
	var b strings.Builder
	for _, r := range results {
		for _, d := range r.Diagnostics {
			row, col := r.Index.Position(d.Range.Start)
			fmt.Fprintf(&b, "%s:%d:%d: %s %s\n", r.Path, row, col+1, d.RuleCode, d.Message)
		}
	}
	return b.String()
}

func renderGrouped(results []FileResult) string {
	var b strings.Builder
	for _, r := range results {
		if len(r.Diagnostics) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s:\n", r.Path)
		for _, d := range r.Diagnostics {
			row, col := r.Index.Position(d.Range.Start)
			fmt.Fprintf(&b, "  %d:%d %s %s\n", row, col+1, d.RuleCode, d.Message)
		}
	}
	return b.String()
}

type jsonDiagnostic struct {
	Path     string `json:"filename"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Row      int    `json:"row"`
	Column   int    `json:"column"`
	EndRow   int    `json:"end_row"`
	EndCol   int    `json:"end_column"`
	Fixable  bool   `json:"fixable"`
}

func renderJSON(results []FileResult) (string, error) {
	var out []jsonDiagnostic
	for _, r := range results {
		for _, d := range r.Diagnostics {
			row, col := r.Index.Position(d.Range.Start)
			endRow, endCol := r.Index.Position(d.Range.End)
			out = append(out, jsonDiagnostic{
				Path: r.Path, Code: d.RuleCode, Message: d.Message,
				Row: row, Column: col + 1, EndRow: endRow, EndCol: endCol + 1,
				Fixable: d.Fix != nil,
			})
		}
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func renderGitHub(results []FileResult) string {
	var b strings.Builder
	for _, r := range results {
		for _, d := range r.Diagnostics {
			row, col := r.Index.Position(d.Range.Start)
			fmt.Fprintf(&b, "::error file=%s,line=%d,col=%d::%s %s\n", r.Path, row, col+1, d.RuleCode, d.Message)
		}
	}
	return b.String()
}

type gitlabEntry struct {
	Description string `json:"description"`
	CheckName   string `json:"check_name"`
	Fingerprint string `json:"fingerprint"`
	Severity    string `json:"severity"`
	Location    struct {
		Path  string `json:"path"`
		Lines struct {
			Begin int `json:"begin"`
		} `json:"lines"`
	} `json:"location"`
}

func renderGitLab(results []FileResult) (string, error) {
	var out []gitlabEntry
	for _, r := range results {
		for _, d := range r.Diagnostics {
			row, _ := r.Index.Position(d.Range.Start)
			e := gitlabEntry{
				Description: d.Message,
				CheckName:   d.RuleCode,
				Fingerprint: fmt.Sprintf("%s:%d:%s", r.Path, d.Range.Start, d.RuleCode),
				Severity:    "major",
			}
			e.Location.Path = r.Path
			e.Location.Lines.Begin = row
			out = append(out, e)
		}
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func renderJUnit(results []FileResult) string {
	var b strings.Builder
	total := 0
	for _, r := range results {
		total += len(r.Diagnostics)
	}
	fmt.Fprintf(&b, "<testsuite name=\"lintcore\" tests=\"%d\" failures=\"%d\">\n", total, total)
	for _, r := range results {
		for _, d := range r.Diagnostics {
			row, _ := r.Index.Position(d.Range.Start)
			fmt.Fprintf(&b, "  <testcase classname=%q name=%q>\n", r.Path, fmt.Sprintf("%s:%d", d.RuleCode, row))
			fmt.Fprintf(&b, "    <failure message=%q>%s</failure>\n", d.Message, d.RuleCode)
			fmt.Fprintf(&b, "  </testcase>\n")
		}
	}
	b.WriteString("</testsuite>\n")
	return b.String()
}

// UnifiedDiff renders a `--diff`-style unified diff between a file's
// original and fixed contents.
func UnifiedDiff(path string, original, fixed []byte) (string, error) {
	if string(original) == string(fixed) {
		return "", nil
	}
	diffObj := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(fixed)),
		FromFile: path,
		ToFile:   path,
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diffObj)
}

// SortResults orders FileResult entries by path for deterministic
// multi-file rendering.
func SortResults(results []FileResult) {
	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
}
