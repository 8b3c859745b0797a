package checker

import (
	"github.com/oxhq/lintcore/internal/ast"
	"github.com/oxhq/lintcore/internal/diag"
	"github.com/oxhq/lintcore/internal/semantic"
)

// visitFunctionDef binds the function's name in the enclosing scope,
// evaluates decorators and argument defaults/annotations in the enclosing
// scope (the target language's actual evaluation order), then defers the
// body for later analysis so forward references within the module resolve
//.
func (c *Checker) visitFunctionDef(si ast.StmtIndex, s *ast.Stmt) {
	for _, d := range s.Decorators {
		c.visitExpr(d)
	}
	c.checkRedefinedWhileUnused(s.Name, s.Range)
	c.Model.AddBinding(semantic.Binding{Name: s.Name, Kind: semantic.BindFunctionDef, Range: s.Range, Source: si})

	for _, a := range s.Args.Args {
		if a.Default != ast.NoExpr {
			c.visitExpr(a.Default)
		}
		c.visitArgAnnotation(a)
	}
	if s.Args.VarArg != nil {
		c.visitArgAnnotation(*s.Args.VarArg)
	}
	for _, a := range s.Args.KwOnlyArgs {
		if a.Default != ast.NoExpr {
			c.visitExpr(a.Default)
		}
		c.visitArgAnnotation(a)
	}
	if s.Args.KwArg != nil {
		c.visitArgAnnotation(*s.Args.KwArg)
	}
	if s.Returns != ast.NoExpr {
		restore := c.withFlags(func(f *flags) { f.inAnnotation = true })
		c.visitAnnotation(s.Returns)
		restore()
	}

	c.checkMutableArgumentDefault(s)

	c.Model.PushScope(semantic.ScopeFunction, semantic.KindPayload{Name: s.Name, DefStmt: si, Decorators: s.Decorators})
	for _, a := range allArgs(s.Args) {
		c.Model.AddBinding(semantic.Binding{Name: a.Name, Kind: semantic.BindArgument, Range: a.Range})
	}
	snapshotScopes := c.Model.ScopeStackSnapshot()
	snapshotParents := append([]ast.StmtIndex(nil), c.Model.Parents()...)
	c.Model.PopScope()

	c.Model.Deferred.Functions = append(c.Model.Deferred.Functions, semantic.DeferredFunction{
		Stmt:       si,
		Scopes:     snapshotScopes,
		Parents:    snapshotParents,
		Visibility: semantic.VisibleScope{Kind: semantic.DefFunction, Visibility: semantic.InferVisibility(s.Name)},
	})
}

func allArgs(a *ast.Arguments) []ast.Arg {
	out := append([]ast.Arg(nil), a.Args...)
	if a.VarArg != nil {
		out = append(out, *a.VarArg)
	}
	out = append(out, a.KwOnlyArgs...)
	if a.KwArg != nil {
		out = append(out, *a.KwArg)
	}
	return out
}

func (c *Checker) visitArgAnnotation(a ast.Arg) {
	if a.Annotation == ast.NoExpr {
		return
	}
	restore := c.withFlags(func(f *flags) { f.inAnnotation = true })
	c.visitAnnotation(a.Annotation)
	restore()
}

// visitClassDef binds the class name, evaluates decorators/bases/keywords
// in the enclosing scope, then visits the body immediately in a new class
// scope — class bodies execute at definition time (unlike function bodies),
// so no deferral happens here. Class scopes stay transparent to a nested
// function's free-variable lookup, which only matters once the class body
// has actually run.
func (c *Checker) visitClassDef(si ast.StmtIndex, s *ast.Stmt) {
	for _, d := range s.Decorators {
		c.visitExpr(d)
	}
	for _, b := range s.Bases {
		c.visitExpr(b)
	}
	for _, kw := range s.Keywords {
		c.visitExpr(kw.Value)
	}
	c.checkRedefinedWhileUnused(s.Name, s.Range)
	c.checkInvalidClassName(si, s)
	c.Model.AddBinding(semantic.Binding{Name: s.Name, Kind: semantic.BindClassDef, Range: s.Range, Source: si})

	c.Model.PushScope(semantic.ScopeClass, semantic.KindPayload{Name: s.Name, DefStmt: si, Decorators: s.Decorators})
	prevVisible := c.visible
	c.visible = semantic.VisibleScope{Kind: semantic.DefClass, Visibility: semantic.InferVisibility(s.Name)}
	c.checkMissingDocstring(c.visible.Kind, c.visible.Visibility, s.Body, s.Range)
	c.visitBody(s.Body)
	c.visible = prevVisible
	c.Model.PopScope()
}

// visitImport handles `import a.b.c [as name]` statements: each alias binds
// either the top-level package name (no "as") or the asname, and records
// the fully-qualified dotted path for ResolveCallPath.
func (c *Checker) visitImport(si ast.StmtIndex, s *ast.Stmt) {
	for _, al := range s.Aliases {
		kind := semantic.BindImport
		local := al.Name
		if idx := firstDot(al.Name); al.AsName == "" && idx >= 0 {
			kind = semantic.BindSubmoduleImport
			local = al.Name[:idx]
		}
		if al.AsName != "" {
			local = al.AsName
		}
		c.checkRedefinedWhileUnused(local, al.Range)
		b := semantic.Binding{
			Name: local, Kind: kind, Range: al.Range, Source: si,
			FullyQualified: al.Name,
		}
		if al.AsName == al.Name || (al.AsName != "" && al.AsName == local && local == al.Name) {
			b.SyntheticUsed = true // explicit `import x as x` re-export idiom
		}
		c.Model.AddBinding(b)
	}
}

// visitImportFrom handles `from module import a, b as c` and the star/
// future-import special cases.
func (c *Checker) visitImportFrom(si ast.StmtIndex, s *ast.Stmt) {
	if s.Module == "__future__" {
		c.checkLateFutureImport(si, s)
		for _, al := range s.Aliases {
			if al.Name == "annotations" {
				for i := range c.flagStack {
					c.flagStack[i].annotationsFutureEnabled = true
				}
			}
			c.Model.AddBinding(semantic.Binding{Name: al.Name, Kind: semantic.BindFutureImport, Range: al.Range, Source: si})
		}
		return
	}

	c.seenImportBoundary = true

	for _, al := range s.Aliases {
		if al.Name == "*" {
			c.checkStarImportUsed(si, s)
			c.Model.CurrentScope().StarImported = true
			c.Model.AddBinding(semantic.Binding{
				Name: "*", Kind: semantic.BindStarImport, Range: al.Range, Source: si,
				StarModule: s.Module, StarLevel: s.Level,
			})
			continue
		}
		local := al.Name
		if al.AsName != "" {
			local = al.AsName
		}
		c.checkRedefinedWhileUnused(local, al.Range)
		fq := s.Module + "." + al.Name
		if s.Level > 0 {
			fq = "" // relative import: no resolvable absolute path
		}
		b := semantic.Binding{
			Name: local, Kind: semantic.BindFromImport, Range: al.Range, Source: si,
			FullyQualified: fq, Local: al.Name,
		}
		if al.AsName != "" && al.AsName == al.Name {
			b.SyntheticUsed = true
		}
		c.Model.AddBinding(b)
	}
}

func firstDot(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return i
		}
	}
	return -1
}

func (c *Checker) checkLateFutureImport(si ast.StmtIndex, s *ast.Stmt) {
	if !c.enabled("F404") {
		return
	}
	if c.futures == FuturesClosed {
		c.emit(diag.Diagnostic{RuleCode: "F404", Message: "Late __future__ import", Range: s.Range})
	}
}

func (c *Checker) checkStarImportUsed(si ast.StmtIndex, s *ast.Stmt) {
	if !c.enabled("F403") {
		return
	}
	c.emit(diag.Diagnostic{RuleCode: "F403", Message: "`from " + s.Module + " import *` used; unable to detect undefined names", Range: s.Range})
}
