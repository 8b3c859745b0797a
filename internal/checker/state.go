package checker

import "github.com/oxhq/lintcore/internal/ast"

// advanceFuturesState implements the futures_allowed state machine: a `from __future__ import ...` is only valid while futures is
// still Allowed, which holds until the first non-docstring, non-future-
// import statement at module top level is seen. The module docstring (the
// first top-level statement, if it is a bare string expression) does not
// close the window; Check marks it via firstStmt before traversal begins.
func (c *Checker) advanceFuturesState(s *ast.Stmt) {
	if c.Model.ParentsDepth() != 1 {
		return // only module top-level statements affect this state
	}
	if c.futures == FuturesClosed {
		return
	}
	if c.firstStmt == s {
		return
	}
	if s.Kind == ast.ImportFrom && s.Module == "__future__" {
		return
	}
	c.futures = FuturesClosed
}
