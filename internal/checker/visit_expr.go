package checker

import (
	"github.com/oxhq/lintcore/internal/ast"
	"github.com/oxhq/lintcore/internal/semantic"
)

// visitExpr is the expression half of the traversal contract: push the expr ancestor stack, dispatch on Kind, visit children in
// evaluation order (not necessarily left-to-right — e.g. Call visits Func
// before args, same as the target language's actual evaluation), pop.
func (c *Checker) visitExpr(e ast.ExprIndex) {
	if e == ast.NoExpr {
		return
	}
	expr := c.Mod.Expr(e)
	c.Model.PushExpr(e)
	defer c.Model.PopExpr()

	switch expr.Kind {
	case ast.Name:
		switch expr.Ctx {
		case ast.Load:
			c.handleNodeLoad(e, expr)
		case ast.Store:
			c.handleNodeStore(expr.Id, expr.Range, semantic.BindAssignment)
		case ast.Del:
			c.handleNodeDelete(expr.Id, expr.Range)
		}
	case ast.Attribute:
		c.visitExpr(expr.Value)
	case ast.Subscript:
		c.visitSubscript(e, expr)
	case ast.Call:
		c.visitCall(e, expr)
	case ast.BinOp:
		c.visitExpr(expr.Left)
		c.visitExpr(expr.Right)
	case ast.UnaryOp:
		c.visitExpr(expr.Value)
	case ast.BoolOp:
		for _, v := range expr.BoolValues {
			c.visitExpr(v)
		}
	case ast.Compare:
		c.checkYodaCondition(e, expr)
		c.checkNoneTrueFalseComparison(e, expr)
		c.visitExpr(expr.Left)
		for _, comp := range expr.Comparators {
			c.visitExpr(comp)
		}
	case ast.Constant:
		// No children; literal-in-subscript handling lives in visitSubscript.
	case ast.Tuple, ast.List, ast.Set:
		for _, el := range expr.Elts {
			c.visitExpr(el)
		}
	case ast.Dict:
		for i, k := range expr.Keys {
			if k != ast.NoExpr {
				c.visitExpr(k)
			}
			c.visitExpr(expr.Elts[i])
		}
	case ast.ListComp, ast.SetComp, ast.GeneratorExp:
		c.visitComprehension(expr.Generators, []ast.ExprIndex{expr.ElementExpr}, nil)
	case ast.DictComp:
		c.visitComprehension(expr.Generators, []ast.ExprIndex{expr.KeyExpr, expr.ElementExpr}, nil)
	case ast.Lambda:
		c.visitLambda(e, expr)
	case ast.IfExp:
		c.visitExpr(expr.Test)
		c.visitExpr(expr.Body)
		c.visitExpr(expr.Orelse)
	case ast.JoinedStr:
		for _, p := range expr.Parts {
			c.visitExpr(p)
		}
	case ast.Starred:
		c.visitExpr(expr.Value)
	case ast.Await:
		c.visitExpr(expr.Value)
	case ast.Yield, ast.YieldFrom:
		if expr.Value != ast.NoExpr {
			c.visitExpr(expr.Value)
		}
	}
}

// visitSubscript handles the special-form subscripts the checker treats
// specially: Optional[...]/Union[...]/Literal[...]/Annotated[...] each
// toggle the in_literal/in_subscript flags differently for their slice.
func (c *Checker) visitSubscript(e ast.ExprIndex, expr *ast.Expr) {
	c.visitExpr(expr.Value)

	special := ""
	if path, ok := c.Model.ResolveCallPath(c.Mod, expr.Value); ok && len(path) > 0 {
		special = path[len(path)-1]
	}

	switch special {
	case "Literal":
		restore := c.withFlags(func(f *flags) { f.inLiteral = true; f.inSubscript = true })
		c.visitExpr(expr.Slice)
		restore()
	case "Annotated":
		// Only the first element of Annotated[...] is evaluated as a type;
		// the rest are arbitrary runtime metadata expressions.
		restore := c.withFlags(func(f *flags) { f.inSubscript = true })
		if slice := c.Mod.Expr(expr.Slice); slice != nil && slice.Kind == ast.Tuple && len(slice.Elts) > 0 {
			c.visitAnnotationLike(slice.Elts[0])
			restoreRuntime := c.withFlags(func(f *flags) { f.inAnnotation = false; f.inTypeDefinition = false })
			for _, extra := range slice.Elts[1:] {
				c.visitExpr(extra)
			}
			restoreRuntime()
		} else {
			c.visitAnnotationLike(expr.Slice)
		}
		restore()
	case "Optional", "Union":
		c.checkNonPEP604Annotation(e, expr, special)
		restore := c.withFlags(func(f *flags) { f.inSubscript = true })
		c.visitAnnotationLike(expr.Slice)
		restore()
	default:
		restore := c.withFlags(func(f *flags) { f.inSubscript = true })
		c.visitExpr(expr.Slice)
		restore()
	}
}

// visitAnnotationLike visits e either as a tuple of nested annotations or a
// single one, without double-pushing in_annotation (callers are already
// inside annotation position when reaching a special subscript form).
func (c *Checker) visitAnnotationLike(e ast.ExprIndex) {
	if expr := c.Mod.Expr(e); expr != nil && expr.Kind == ast.Tuple {
		for _, el := range expr.Elts {
			c.visitExpr(el)
		}
		return
	}
	c.visitExpr(e)
}

func (c *Checker) visitComprehension(gens []ast.Comprehension, valueExprs []ast.ExprIndex, _ []ast.ExprIndex) {
	// The outermost generator's iterable is evaluated in the enclosing
	// scope (the target language's actual comprehension semantics); only
	// the rest of the comprehension executes inside its own scope.
	if len(gens) > 0 {
		c.visitExpr(gens[0].Iter)
	}

	id := c.Model.PushScope(semantic.ScopeComprehension, semantic.KindPayload{})
	for i, g := range gens {
		if i > 0 {
			c.visitExpr(g.Iter)
		}
		c.handleTarget(g.Target, false, semantic.BindLoopVar)
		for _, cond := range g.Ifs {
			c.visitExpr(cond)
		}
	}
	for _, v := range valueExprs {
		if v != ast.NoExpr {
			c.visitExpr(v)
		}
	}
	c.Model.Deferred.Assignments = append(c.Model.Deferred.Assignments, semantic.DeferredAssignment{Scope: id})
	c.Model.PopScope()
}

func (c *Checker) visitLambda(e ast.ExprIndex, expr *ast.Expr) {
	for _, a := range expr.LambdaArgs.Args {
		if a.Default != ast.NoExpr {
			c.visitExpr(a.Default)
		}
	}
	if expr.LambdaArgs.VarArg != nil && expr.LambdaArgs.VarArg.Default != ast.NoExpr {
		c.visitExpr(expr.LambdaArgs.VarArg.Default)
	}
	for _, a := range expr.LambdaArgs.KwOnlyArgs {
		if a.Default != ast.NoExpr {
			c.visitExpr(a.Default)
		}
	}
	c.Model.Deferred.Lambdas = append(c.Model.Deferred.Lambdas, semantic.DeferredLambda{
		Expr:    e,
		Scopes:  c.Model.ScopeStackSnapshot(),
		Parents: append([]ast.StmtIndex(nil), c.Model.Parents()...),
	})
}

func (c *Checker) visitCall(e ast.ExprIndex, expr *ast.Expr) {
	c.visitExpr(expr.Func)

	path, _ := c.Model.ResolveCallPath(c.Mod, expr.Func)
	name := ""
	if len(path) > 0 {
		name = dotted(path)
	}

	switch name {
	case "typing.cast", "cast":
		// cast(TypeExpr, value): only the first argument is a type.
		if len(expr.CallArgs) > 0 {
			restore := c.withFlags(func(f *flags) { f.inTypeDefinition = true })
			c.visitExpr(expr.CallArgs[0])
			restore()
		}
		for _, a := range expr.CallArgs[min(1, len(expr.CallArgs)):] {
			c.visitExpr(a)
		}
		return
	case "typing.NewType", "NewType":
		// NewType("Name", BaseType): the second positional argument is a type.
		if len(expr.CallArgs) > 1 {
			restore := c.withFlags(func(f *flags) { f.inTypeDefinition = true })
			c.visitExpr(expr.CallArgs[1])
			restore()
		}
		for i, a := range expr.CallArgs {
			if i == 1 {
				continue
			}
			c.visitExpr(a)
		}
		return
	case "typing.TypeVar", "TypeVar":
		// TypeVar(name, *constraints, bound=None, ...): the first positional
		// argument is the runtime name string; remaining constraints and the
		// bound keyword are types.
		for i, a := range expr.CallArgs {
			if i == 0 {
				c.visitExpr(a)
				continue
			}
			restore := c.withFlags(func(f *flags) { f.inTypeDefinition = true })
			c.visitExpr(a)
			restore()
		}
		for _, kw := range expr.CallKwargs {
			if kw.Name == "bound" {
				restore := c.withFlags(func(f *flags) { f.inTypeDefinition = true })
				c.visitExpr(kw.Value)
				restore()
				continue
			}
			c.visitExpr(kw.Value)
		}
		return
	case "typing.ForwardRef", "ForwardRef":
		// ForwardRef(arg): the single argument is a string annotation to defer.
		if len(expr.CallArgs) > 0 {
			c.visitAnnotation(expr.CallArgs[0])
		}
		for _, a := range expr.CallArgs[min(1, len(expr.CallArgs)):] {
			c.visitExpr(a)
		}
		for _, kw := range expr.CallKwargs {
			c.visitExpr(kw.Value)
		}
		return
	case "typing.NamedTuple", "NamedTuple", "typing.TypedDict", "TypedDict":
		// NamedTuple(name, [(field, T), ...]) / TypedDict(name, {field: T, ...}):
		// field names are runtime, their type values are types. The
		// keyword-argument definition style (NamedTuple(name, x=int, y=int))
		// treats every keyword's value as a type the same way.
		if len(expr.CallArgs) > 0 {
			c.visitExpr(expr.CallArgs[0])
		}
		if len(expr.CallArgs) > 1 {
			c.visitNamedTupleFields(expr.CallArgs[1])
		}
		for _, a := range expr.CallArgs[min(2, len(expr.CallArgs)):] {
			c.visitExpr(a)
		}
		for _, kw := range expr.CallKwargs {
			c.visitAnnotation(kw.Value)
		}
		return
	case "mypy_extensions.Arg", "Arg", "mypy_extensions.DefaultArg", "DefaultArg",
		"mypy_extensions.NamedArg", "NamedArg", "mypy_extensions.DefaultNamedArg", "DefaultNamedArg":
		// Arg(type, name=None) and friends: the first positional argument,
		// or the type= keyword, is a type; everything else is runtime.
		if len(expr.CallArgs) > 0 {
			c.visitAnnotation(expr.CallArgs[0])
		}
		for _, a := range expr.CallArgs[min(1, len(expr.CallArgs)):] {
			c.visitExpr(a)
		}
		for _, kw := range expr.CallKwargs {
			if kw.Name == "type" {
				c.visitAnnotation(kw.Value)
				continue
			}
			c.visitExpr(kw.Value)
		}
		return
	}

	for _, a := range expr.CallArgs {
		c.visitExpr(a)
	}
	for _, kw := range expr.CallKwargs {
		c.visitExpr(kw.Value)
	}
}

// visitNamedTupleFields visits the second positional argument of a
// NamedTuple/TypedDict functional-style definition: a list/tuple of
// (field, type) pairs, or a dict literal of {field: type}. Field names are
// runtime text; their type values are re-entered as type positions, so a
// string literal there is queued for forward-reference re-parsing the same
// way a deferred annotation would be.
func (c *Checker) visitNamedTupleFields(e ast.ExprIndex) {
	expr := c.Mod.Expr(e)
	if expr == nil {
		return
	}
	switch expr.Kind {
	case ast.Dict:
		for i, v := range expr.Elts {
			if i < len(expr.Keys) && expr.Keys[i] != ast.NoExpr {
				c.visitExpr(expr.Keys[i])
			}
			c.visitAnnotation(v)
		}
	case ast.List, ast.Tuple:
		for _, el := range expr.Elts {
			pair := c.Mod.Expr(el)
			if pair != nil && (pair.Kind == ast.Tuple || pair.Kind == ast.List) && len(pair.Elts) == 2 {
				c.visitExpr(pair.Elts[0])
				c.visitAnnotation(pair.Elts[1])
				continue
			}
			c.visitExpr(el)
		}
	default:
		c.visitExpr(e)
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
