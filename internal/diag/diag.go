// Package diag defines the Diagnostic and Fix/Edit value types shared by
// internal/checker, internal/rules, and internal/arbiter.
package diag

import "github.com/oxhq/lintcore/internal/ast"

// Edit is one textual replacement over a source range.
type Edit struct {
	Range       ast.Range
	Replacement string
}

// Fix is an ordered list of edits that, applied together, resolve one
// diagnostic without altering program semantics.
type Fix struct {
	Edits   []Edit
	Message string // optional human-readable description of the fix
}

// Diagnostic is one structured finding.
type Diagnostic struct {
	RuleCode string
	Message  string
	Range    ast.Range
	Fix      *Fix // nil if this diagnostic has no fix

	// ParentLocation optionally points at a containing node relevant to the
	// message, e.g. the enclosing
	// function for an argument-shadowing diagnostic.
	ParentLocation *ast.Range
}

// Overlaps reports whether two edits' spans overlap, inclusive of shared
// endpoints — two fixes conflict when their edit spans overlap anywhere,
// including at a shared boundary.
func Overlaps(a, b Edit) bool {
	return a.Range.Start <= b.Range.End && b.Range.Start <= a.Range.End
}
