package checker

import (
	"github.com/oxhq/lintcore/internal/semantic"
)

// drainDeferred processes every postponed-work queue in a fixed order:
// functions -> lambdas -> assignments -> type-definitions ->
// string-type-definitions -> for-loops. Each queue can
// grow while an earlier queue drains (a deferred function can itself
// contain nested functions, appending to the same Functions queue), so
// draining loops until empty rather than ranging once.
func (c *Checker) drainDeferred() {
	for !c.Model.Deferred.Empty() {
		c.drainFunctions()
		c.drainLambdas()
		c.drainAssignments()
		c.drainTypeDefinitions()
		c.drainStringTypeDefinitions()
		c.drainForLoops()
	}
	// Every continuation above re-entered its own snapshot of the scope and
	// parent stacks; put both back to the module level once all are done.
	c.Model.RestoreScopeStack([]semantic.ScopeID{0})
	c.Model.RestoreParents(nil)
	c.finalizeScopes()
}

func (c *Checker) drainFunctions() {
	queue := c.Model.Deferred.Functions
	c.Model.Deferred.Functions = nil
	for _, df := range queue {
		s := c.Mod.Stmt(df.Stmt)
		c.Model.RestoreScopeStack(df.Scopes)
		c.Model.RestoreParents(df.Parents)
		prevVisible := c.visible
		c.visible = df.Visibility
		c.checkMissingDocstring(c.visible.Kind, c.visible.Visibility, s.Body, s.Range)
		c.visitBody(s.Body)
		c.visible = prevVisible
		c.Model.Deferred.Assignments = append(c.Model.Deferred.Assignments, semantic.DeferredAssignment{Scope: c.Model.CurrentScopeID()})
		c.Model.PopScope()
	}
}

func (c *Checker) drainLambdas() {
	queue := c.Model.Deferred.Lambdas
	c.Model.Deferred.Lambdas = nil
	for _, dl := range queue {
		expr := c.Mod.Expr(dl.Expr)
		c.Model.RestoreScopeStack(dl.Scopes)
		c.Model.RestoreParents(dl.Parents)

		id := c.Model.PushScope(semantic.ScopeLambda, semantic.KindPayload{})
		for _, a := range allArgs(expr.LambdaArgs) {
			c.Model.AddBinding(semantic.Binding{Name: a.Name, Kind: semantic.BindArgument, Range: a.Range})
		}
		c.visitExpr(expr.Body)
		c.Model.Deferred.Assignments = append(c.Model.Deferred.Assignments, semantic.DeferredAssignment{Scope: id})
		c.Model.PopScope()
	}
}

func (c *Checker) drainAssignments() {
	queue := c.Model.Deferred.Assignments
	c.Model.Deferred.Assignments = nil
	for _, da := range queue {
		c.checkUnusedVariables(da.Scope)
	}
}

func (c *Checker) drainTypeDefinitions() {
	queue := c.Model.Deferred.TypeDefinitions
	c.Model.Deferred.TypeDefinitions = nil
	for _, dt := range queue {
		c.Model.RestoreScopeStack(dt.Scopes)
		c.Model.RestoreParents(dt.Parents)
		restore := c.withFlags(func(f *flags) { f.inAnnotation = true; f.inTypeDefinition = true })
		c.visitExpr(dt.Expr)
		restore()
	}
}

func (c *Checker) drainStringTypeDefinitions() {
	queue := c.Model.Deferred.StringTypeDefinitions
	c.Model.Deferred.StringTypeDefinitions = nil
	for _, ds := range queue {
		c.Model.RestoreScopeStack(ds.Scopes)
		c.Model.RestoreParents(ds.Parents)
		c.checkForwardAnnotationSyntaxError(ds)
	}
}

func (c *Checker) drainForLoops() {
	queue := c.Model.Deferred.ForLoops
	c.Model.Deferred.ForLoops = nil
	for _, dl := range queue {
		s := c.Mod.Stmt(dl.Stmt)
		c.Model.RestoreScopeStack(dl.Scopes)
		c.Model.RestoreParents(dl.Parents)
		c.visitBody(s.Body)
	}
}

// finalizeScopes runs the whole-module checks that need every scope fully
// populated: unused imports (F401) and undefined-export (F406), both of
// which must see the final binding/usage state across the entire file.
func (c *Checker) finalizeScopes() {
	c.checkUnusedImports()
	c.checkUndefinedExport()
}
