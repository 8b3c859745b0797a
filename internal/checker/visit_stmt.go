package checker

import (
	"strings"

	"github.com/oxhq/lintcore/internal/ast"
	"github.com/oxhq/lintcore/internal/semantic"
)

// visitStmt is the statement half of the traversal contract:
// push the ancestor stack, dispatch on Kind, pop. Every branch is
// responsible for visiting its own children in evaluation order.
func (c *Checker) visitStmt(si ast.StmtIndex) {
	if si == ast.NoStmt {
		return
	}
	s := c.Mod.Stmt(si)
	c.Model.PushParent(si)
	defer c.Model.PopParent()
	c.advanceFuturesState(s)

	switch s.Kind {
	case ast.FunctionDef, ast.AsyncFunctionDef:
		c.visitFunctionDef(si, s)
	case ast.ClassDef:
		c.visitClassDef(si, s)
	case ast.Import:
		c.visitImport(si, s)
	case ast.ImportFrom:
		c.visitImportFrom(si, s)
	case ast.Assign:
		c.visitAssign(si, s)
	case ast.AugAssign:
		c.visitExpr(s.Value)
		c.handleTarget(s.Targets[0], false, semantic.BindAssignment)
	case ast.AnnAssign:
		c.visitAnnAssign(si, s)
	case ast.If:
		c.checkCollapsibleIf(si, s)
		c.checkOutdatedVersionBlock(si, s)
		c.visitExpr(s.Test)
		c.visitBody(s.Body)
		c.visitBody(s.Orelse)
	case ast.While:
		c.visitExpr(s.Test)
		c.visitBody(s.Body)
		c.visitBody(s.Orelse)
	case ast.For, ast.AsyncFor:
		c.visitForStmt(si, s)
	case ast.Try:
		c.visitTry(si, s)
	case ast.With:
		c.visitWith(si, s)
	case ast.Raise:
		c.visitExpr(s.Exc)
		c.visitExpr(s.Cause)
	case ast.Return:
		c.visitExpr(s.ExprValue)
	case ast.Global, ast.Nonlocal:
		c.bindGlobalNonlocal(s)
	case ast.ExprStmt:
		c.visitExpr(s.ExprValue)
	case ast.Delete:
		for _, t := range s.DeleteTargets {
			c.handleTarget(t, true, semantic.BindAssignment)
		}
	case ast.Assert:
		c.visitExpr(s.Test)
		c.visitExpr(s.Msg)
	case ast.Break, ast.Continue, ast.Pass:
		// No children, nothing to visit.
	}
}

func (c *Checker) visitBody(body []ast.StmtIndex) {
	for _, si := range body {
		c.visitStmt(si)
	}
}

func (c *Checker) visitAssign(si ast.StmtIndex, s *ast.Stmt) {
	c.visitExpr(s.Value)
	for _, t := range s.Targets {
		c.recordDunderAll(si, s, t)
		c.handleTarget(t, false, semantic.BindAssignment)
		c.checkNonLowercaseVariable(si, t)
	}
}

// recordDunderAll binds `__all__ = [...]` at module scope as a BindExport,
// feeding F406 (undefined-export): the target language treats this
// assignment as the module's public-API declaration.
func (c *Checker) recordDunderAll(si ast.StmtIndex, s *ast.Stmt, target ast.ExprIndex) {
	if c.Model.CurrentScope().Kind != semantic.ScopeModule {
		return
	}
	t := c.Mod.Expr(target)
	if t == nil || t.Kind != ast.Name || t.Id != "__all__" {
		return
	}
	val := c.Mod.Expr(s.Value)
	if val == nil || (val.Kind != ast.List && val.Kind != ast.Tuple) {
		return
	}
	var names []string
	for _, el := range val.Elts {
		ee := c.Mod.Expr(el)
		if ee != nil && ee.Kind == ast.Constant && ee.ConstKind == ast.ConstStr_ {
			names = append(names, strings.Trim(ee.ConstStr, "'\""))
		}
	}
	c.Model.AddBinding(semantic.Binding{
		Name: "__all__", Kind: semantic.BindExport, Range: s.Range, Source: si,
		ExportedNames: names,
	})
}

func (c *Checker) visitAnnAssign(si ast.StmtIndex, s *ast.Stmt) {
	restore := c.withFlags(func(f *flags) { f.inAnnotation = true })
	c.visitAnnotation(s.Annotation)
	restore()
	kind := semantic.BindAssignment
	if s.Value != ast.NoExpr {
		c.visitExpr(s.Value)
	} else {
		kind = semantic.BindAnnotation
	}
	for _, t := range s.Targets {
		c.handleTarget(t, false, kind)
	}
}

// visitAnnotation defers the annotation expression for type-definition
// re-analysis and handles the "string annotation" forward-reference case:
// a string constant in annotation position is always queued as a
// DeferredStringTypeDefinition rather than visited as a plain string
// literal, whether or not `from __future__ import annotations` is active.
// The queued string is only scanned for F901; names inside it are not
// resolved.
func (c *Checker) visitAnnotation(e ast.ExprIndex) {
	if e == ast.NoExpr {
		return
	}
	expr := c.Mod.Expr(e)
	if expr.Kind == ast.Constant && expr.ConstKind == ast.ConstStr_ {
		c.Model.Deferred.StringTypeDefinitions = append(c.Model.Deferred.StringTypeDefinitions, semantic.DeferredStringTypeDefinition{
			Expr:    e,
			Scopes:  c.Model.ScopeStackSnapshot(),
			Parents: append([]ast.StmtIndex(nil), c.Model.Parents()...),
		})
		return
	}
	c.Model.Deferred.TypeDefinitions = append(c.Model.Deferred.TypeDefinitions, semantic.DeferredTypeDefinition{
		Expr:    e,
		Scopes:  c.Model.ScopeStackSnapshot(),
		Parents: append([]ast.StmtIndex(nil), c.Model.Parents()...),
	})
}

func (c *Checker) bindGlobalNonlocal(s *ast.Stmt) {
	kind := semantic.BindGlobal
	if s.Kind == ast.Nonlocal {
		kind = semantic.BindNonlocal
	}
	for _, name := range s.Names {
		c.Model.AddBinding(semantic.Binding{Name: name, Kind: kind, Range: s.Range})
	}
}

func (c *Checker) visitForStmt(si ast.StmtIndex, s *ast.Stmt) {
	c.visitExpr(s.Iter)
	c.handleTarget(s.Target, false, semantic.BindLoopVar)
	c.Model.Deferred.ForLoops = append(c.Model.Deferred.ForLoops, semantic.DeferredForLoop{
		Stmt:    si,
		Scopes:  c.Model.ScopeStackSnapshot(),
		Parents: append([]ast.StmtIndex(nil), c.Model.Parents()...),
	})
	c.visitBody(s.Orelse)
}

func (c *Checker) visitTry(si ast.StmtIndex, s *ast.Stmt) {
	c.visitBody(s.Body)
	for _, h := range s.Handlers {
		c.visitExceptHandler(h)
	}
	c.visitBody(s.Orelse)
	c.visitBody(s.FinalBody)
	c.checkBareExcept(si, s)
}

func (c *Checker) visitExceptHandler(h ast.ExceptHandler) {
	var caught []string
	if h.Type != ast.NoExpr {
		c.visitExpr(h.Type)
		if path, ok := c.Model.ResolveCallPath(c.Mod, h.Type); ok {
			caught = append(caught, dotted(path))
		}
	}
	c.exceptStack = append(c.exceptStack, exceptFrame{caught: caught})

	if h.Name != "" {
		c.Model.AddBinding(semantic.Binding{Name: h.Name, Kind: semantic.BindAssignment, Range: h.Range})
	}
	restore := c.withFlags(func(f *flags) { f.inExceptionHandler = true })
	c.visitBody(h.Body)
	restore()

	// The exception name's binding is only live for the handler body
	// (the target language implicitly deletes it afterward); remove it so
	// later lookups in the same scope see it as unbound again.
	if h.Name != "" {
		c.Model.CurrentScope().RemoveBinding(h.Name)
	}
	c.exceptStack = c.exceptStack[:len(c.exceptStack)-1]
}

func (c *Checker) visitWith(si ast.StmtIndex, s *ast.Stmt) {
	for _, item := range s.Items {
		c.visitExpr(item.ContextExpr)
		if item.OptionalVar != ast.NoExpr {
			c.handleTarget(item.OptionalVar, false, semantic.BindAssignment)
		}
	}
	c.visitBody(s.Body)
}

func dotted(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}
