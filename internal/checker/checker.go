// Package checker implements the AST checker: the
// single-pass visitor that dispatches rules, maintains the semantic model
// (internal/semantic), and feeds the diagnostic & fix arbiter
// (internal/arbiter).
//
// One traversal engine drives the whole pass — here there is exactly one
// target language, so there is no provider-interface injection point, just
// the Settings value. Rules are dispatched through an explicit if-enabled
// cascade rather than a plugin vtable/interface (see rules_dispatch.go).
package checker

import (
	"github.com/oxhq/lintcore/internal/ast"
	"github.com/oxhq/lintcore/internal/diag"
	"github.com/oxhq/lintcore/internal/rules"
	"github.com/oxhq/lintcore/internal/semantic"
	"github.com/oxhq/lintcore/internal/settings"
	"github.com/oxhq/lintcore/internal/srcindex"
	"github.com/oxhq/lintcore/internal/token"
)

// FuturesState tracks where a `from __future__ import ...` statement is
// still syntactically legal within a module.
type FuturesState int

const (
	FuturesAllowed FuturesState = iota
	FuturesClosed
)

// flags bundles the contextual booleans the visitor saves/restores around
// subtrees. Each flag is scoped with a helper that returns
// the restore function, so a subtree's recursive call can never leak state
// to its siblings.
type flags struct {
	inAnnotation                bool
	inTypeDefinition            bool
	inDeferredStringTypeDefn    bool
	inExceptionHandler          bool
	inLiteral                   bool
	inSubscript                 bool
	inTypeCheckingBlock         bool
	annotationsFutureEnabled    bool
}

// exceptFrame is one entry of the except_handlers stack: the qualified
// call-paths caught by a try block's handlers, consulted by
// handleNodeLoad to suppress undefined-name when a handler catches
// NameError.
type exceptFrame struct {
	caught []string // dotted call-paths, e.g. "NameError", "builtins.NameError"
}

// Checker owns everything scoped to one file's analysis: it is never
// shared across files and never outlives one Check call.
type Checker struct {
	Path     string
	Mod      *ast.Module
	Tokens   *token.Stream
	Source   []byte
	Settings *settings.Settings
	Registry *rules.Registry
	Index    *srcindex.Index
	Model    *semantic.Model

	flagStack []flags // top of stack == active flags
	futures   FuturesState
	seenImportBoundary bool

	exceptStack []exceptFrame

	visible semantic.VisibleScope

	// firstStmt is the module's first top-level statement, when it is a
	// bare string expression (the module docstring); advanceFuturesState
	// never closes the futures window on it.
	firstStmt *ast.Stmt

	diagnostics []diag.Diagnostic
}

// New constructs a Checker for one file. Settings and Registry are
// read-only shared values.
func New(path string, mod *ast.Module, toks *token.Stream, src []byte, s *settings.Settings, reg *rules.Registry) *Checker {
	return &Checker{
		Path:     path,
		Mod:      mod,
		Tokens:   toks,
		Source:   src,
		Settings: s,
		Registry: reg,
		Index:    srcindex.New(src, toks),
		Model:    semantic.NewModel(),
		flagStack: []flags{{
			annotationsFutureEnabled: false,
		}},
		futures: FuturesAllowed,
	}
}

func (c *Checker) curFlags() flags {
	return c.flagStack[len(c.flagStack)-1]
}

// withFlags pushes a modified copy of the current flags, returning a
// restore func the caller defers immediately.
func (c *Checker) withFlags(mutate func(*flags)) func() {
	f := c.curFlags()
	mutate(&f)
	c.flagStack = append(c.flagStack, f)
	return func() {
		c.flagStack = c.flagStack[:len(c.flagStack)-1]
	}
}

// emit records a diagnostic, in AST-traversal order.
func (c *Checker) emit(d diag.Diagnostic) {
	c.diagnostics = append(c.diagnostics, d)
}

// enabled is the O(1) rule-selection membership test every rule check
// begins with: checks whose rule is disabled are skipped
// entirely, before any work is done.
func (c *Checker) enabled(code string) bool {
	return c.Settings.EnabledForFile(code, c.Path)
}

// Check runs the full pipeline for one file: primary traversal, deferred
// queue draining, then returns the raw diagnostics (noqa filtering and fix
// arbitration are internal/arbiter's job, run by the caller).
//
// Check runs the full rule cascade over one parsed file and returns its
// diagnostics.
func Check(path string, mod *ast.Module, toks *token.Stream, src []byte, s *settings.Settings, reg *rules.Registry) []diag.Diagnostic {
	c := New(path, mod, toks, src, s, reg)
	if len(mod.Body) > 0 {
		first := mod.Stmt(mod.Body[0])
		if first.Kind == ast.ExprStmt {
			if e := mod.Expr(first.ExprValue); e != nil && e.Kind == ast.Constant && e.ConstKind == ast.ConstStr_ {
				c.firstStmt = first
			}
		}
	}
	c.checkLineLength()
	c.checkMissingModuleDocstring()
	for _, si := range mod.Body {
		c.visitStmt(si)
	}
	c.drainDeferred()

	// Property P4: traversal stacks must be empty and every deferred queue
	// drained once Check returns.
	if c.Model.StackDepth() != 1 || c.Model.ParentsDepth() != 0 || c.Model.ExprsDepth() != 0 {
		panic("checker: traversal stack imbalance — internal invariant violation")
	}
	if !c.Model.Deferred.Empty() {
		panic("checker: deferred queue not drained — internal invariant violation")
	}

	return c.diagnostics
}
