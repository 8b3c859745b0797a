// Package arbiter implements the diagnostic & fix arbiter: noqa-directive
// filtering and edit conflict reconciliation, the last stage before
// diagnostics/fixes leave the core.
//
// detectOverlaps sorts candidate edits and walks them once, dropping
// anything whose span overlaps an edit already kept; applyEdits then
// replays the surviving edits over the source in descending-offset order
// so earlier edits don't invalidate later ones' byte offsets.
package arbiter

import (
	"sort"

	"github.com/oxhq/lintcore/internal/diag"
	"github.com/oxhq/lintcore/internal/rules"
	"github.com/oxhq/lintcore/internal/srcindex"
)

// Result is the arbiter's output for one file.
type Result struct {
	Diagnostics []diag.Diagnostic // final, noqa-filtered, sorted
	Fixed       []byte            // source with surviving fixes applied; nil if none applied
	FixCount    int               // number of fix edits actually applied
}

// Arbitrate filters raw diagnostics through noqa directives, reconciles
// conflicting fixes, and — when applyFixes is true — applies the surviving
// edits to source.
func Arbitrate(rawDiags []diag.Diagnostic, idx *srcindex.Index, source []byte, reg *rules.Registry, applyFixes bool) Result {
	sorted := append([]diag.Diagnostic(nil), rawDiags...)
	sortDiagnostics(sorted)

	kept, noqaDiags := filterNoqa(sorted, idx, reg)
	kept = append(kept, noqaDiags...)
	sortDiagnostics(kept)

	res := Result{Diagnostics: kept}
	if !applyFixes {
		return res
	}

	edits := collectEdits(kept)
	surviving := detectOverlaps(edits)
	if len(surviving) == 0 {
		return res
	}
	res.Fixed = applyEdits(source, surviving)
	res.FixCount = len(surviving)
	return res
}

func sortDiagnostics(ds []diag.Diagnostic) {
	sort.SliceStable(ds, func(i, j int) bool {
		if ds[i].Range.Start != ds[j].Range.Start {
			return ds[i].Range.Start < ds[j].Range.Start
		}
		return ds[i].RuleCode < ds[j].RuleCode
	})
}

// filterNoqa drops every diagnostic whose line carries a noqa directive
// that suppresses its rule code, and synthesizes F501/F502
// diagnostics for the noqa directives themselves: an unknown code (F501,
// "invalid-noqa-code") or a code that suppressed nothing on its line
// (F502, "unused-noqa").
func filterNoqa(ds []diag.Diagnostic, idx *srcindex.Index, reg *rules.Registry) (kept []diag.Diagnostic, synthesized []diag.Diagnostic) {
	matchedOnLine := make(map[int]map[string]bool)

	for _, d := range ds {
		line := idx.NoqaLineFor(d.Range)
		directive := idx.NoqaForLine(line)
		if directive.Suppresses(d.RuleCode) {
			if matchedOnLine[line] == nil {
				matchedOnLine[line] = make(map[string]bool)
			}
			matchedOnLine[line][d.RuleCode] = true
			continue
		}
		kept = append(kept, d)
	}

	for line := 0; line < idx.LineCount(); line++ {
		directive := idx.NoqaForLine(line)
		if !directive.Present || directive.All {
			continue
		}
		lineRange := idx.LineRange(line)
		for code := range directive.Codes {
			if _, known := reg.Get(code); !known {
				synthesized = append(synthesized, diag.Diagnostic{
					RuleCode: "F501",
					Message:  "Invalid rule code in `# noqa`: `" + code + "`",
					Range:    lineRange,
				})
				continue
			}
			if !matchedOnLine[line][code] {
				synthesized = append(synthesized, diag.Diagnostic{
					RuleCode: "F502",
					Message:  "Unused `noqa` directive for `" + code + "`",
					Range:    lineRange,
				})
			}
		}
	}
	return kept, synthesized
}

func collectEdits(ds []diag.Diagnostic) []taggedEdit {
	var edits []taggedEdit
	for _, d := range ds {
		if d.Fix == nil {
			continue
		}
		for _, e := range d.Fix.Edits {
			edits = append(edits, taggedEdit{Edit: e, ruleCode: d.RuleCode})
		}
	}
	return edits
}

type taggedEdit struct {
	diag.Edit
	ruleCode string
}

// detectOverlaps sorts edits by (start offset, rule code) and walks them
// once, keeping an edit only if it overlaps nothing already kept. Two
// fixes conflict when their edit spans overlap (inclusive) anywhere; when
// that happens, the later one in sort order is dropped.
func detectOverlaps(edits []taggedEdit) []diag.Edit {
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].Range.Start != edits[j].Range.Start {
			return edits[i].Range.Start < edits[j].Range.Start
		}
		return edits[i].ruleCode < edits[j].ruleCode
	})

	var kept []diag.Edit
	for _, e := range edits {
		conflict := false
		for _, k := range kept {
			if diag.Overlaps(k, e.Edit) {
				conflict = true
				break
			}
		}
		if !conflict {
			kept = append(kept, e.Edit)
		}
	}
	return kept
}

// applyEdits replays edits over source in descending start-offset order, so
// earlier edits' byte offsets stay valid as later (in document order, but
// earlier in this reversed loop) edits are spliced in.
func applyEdits(source []byte, edits []diag.Edit) []byte {
	ordered := append([]diag.Edit(nil), edits...)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Range.Start > ordered[j].Range.Start
	})

	out := append([]byte(nil), source...)
	for _, e := range ordered {
		start, end := e.Range.Start, e.Range.End
		if start < 0 {
			start = 0
		}
		if end > len(out) {
			end = len(out)
		}
		if start > end {
			continue
		}
		var spliced []byte
		spliced = append(spliced, out[:start]...)
		spliced = append(spliced, []byte(e.Replacement)...)
		spliced = append(spliced, out[end:]...)
		out = spliced
	}
	return out
}
