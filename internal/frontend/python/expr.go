package python

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/lintcore/internal/ast"
)

// translateExpr maps one tree-sitter expression node onto the arena. As
// with translateStmt, a node type this engine doesn't model yet becomes a
// Constant placeholder rather than aborting translation.
func (t *translator) translateExpr(n *sitter.Node) ast.ExprIndex {
	if n == nil {
		return ast.NoExpr
	}
	switch n.Type() {
	case "identifier":
		return t.addExpr(ast.Expr{Kind: ast.Name, Range: nodeRange(n), Id: t.text(n), Ctx: ast.Load})
	case "attribute":
		return t.translateAttribute(n)
	case "subscript":
		return t.translateSubscript(n)
	case "call":
		return t.translateCall(n)
	case "binary_operator":
		return t.translateBinOp(n)
	case "unary_operator", "not_operator":
		return t.translateUnaryOp(n)
	case "boolean_operator":
		return t.translateBoolOp(n)
	case "comparison_operator":
		return t.translateCompare(n)
	case "integer":
		return t.addExpr(ast.Expr{Kind: ast.Constant, Range: nodeRange(n), ConstKind: ast.ConstInt, ConstNum: t.text(n)})
	case "float":
		return t.addExpr(ast.Expr{Kind: ast.Constant, Range: nodeRange(n), ConstKind: ast.ConstFloat, ConstNum: t.text(n)})
	case "true", "false":
		return t.addExpr(ast.Expr{Kind: ast.Constant, Range: nodeRange(n), ConstKind: ast.ConstBool, ConstStr: t.text(n)})
	case "none":
		return t.addExpr(ast.Expr{Kind: ast.Constant, Range: nodeRange(n), ConstKind: ast.ConstNone})
	case "string":
		return t.addExpr(ast.Expr{Kind: ast.Constant, Range: nodeRange(n), ConstKind: ast.ConstStr_, ConstStr: t.text(n)})
	case "ellipsis":
		return t.addExpr(ast.Expr{Kind: ast.Constant, Range: nodeRange(n), ConstKind: ast.ConstEllipsis})
	case "list":
		return t.translateSeq(n, ast.List)
	case "set":
		return t.translateSeq(n, ast.Set)
	case "tuple", "parenthesized_expression":
		if n.Type() == "parenthesized_expression" {
			if inner := n.NamedChild(0); inner != nil {
				return t.translateExpr(inner)
			}
		}
		return t.translateSeq(n, ast.Tuple)
	case "dictionary":
		return t.translateDict(n)
	case "list_comprehension":
		return t.translateComprehension(n, ast.ListComp)
	case "set_comprehension":
		return t.translateComprehension(n, ast.SetComp)
	case "dictionary_comprehension":
		return t.translateDictComprehension(n)
	case "generator_expression":
		return t.translateComprehension(n, ast.GeneratorExp)
	case "lambda":
		return t.translateLambda(n)
	case "conditional_expression":
		return t.translateConditional(n)
	case "list_splat", "dictionary_splat":
		return t.addExpr(ast.Expr{Kind: ast.Starred, Range: nodeRange(n), Value: t.translateExpr(n.NamedChild(0))})
	case "await":
		return t.addExpr(ast.Expr{Kind: ast.Await, Range: nodeRange(n), Value: t.translateExpr(n.NamedChild(0))})
	case "yield":
		v := ast.NoExpr
		isFrom := false
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			if c.Type() == "from" {
				isFrom = true
			}
			if c.IsNamed() {
				v = t.translateExpr(c)
			}
		}
		kind := ast.Yield
		if isFrom {
			kind = ast.YieldFrom
		}
		return t.addExpr(ast.Expr{Kind: kind, Range: nodeRange(n), Value: v})
	default:
		return t.addExpr(ast.Expr{Kind: ast.Constant, Range: nodeRange(n), ConstKind: ast.ConstNone})
	}
}

func (t *translator) addExpr(e ast.Expr) ast.ExprIndex { return t.mod.AddExpr(e) }

func (t *translator) translateAttribute(n *sitter.Node) ast.ExprIndex {
	obj := t.translateExpr(n.ChildByFieldName("object"))
	attr := ""
	if an := n.ChildByFieldName("attribute"); an != nil {
		attr = t.text(an)
	}
	return t.addExpr(ast.Expr{Kind: ast.Attribute, Range: nodeRange(n), Value: obj, Id: attr, Ctx: ast.Load})
}

func (t *translator) translateSubscript(n *sitter.Node) ast.ExprIndex {
	val := t.translateExpr(n.ChildByFieldName("value"))
	sl := n.ChildByFieldName("subscript")
	if sl == nil && n.NamedChildCount() > 1 {
		sl = n.NamedChild(1)
	}
	return t.addExpr(ast.Expr{Kind: ast.Subscript, Range: nodeRange(n), Value: val, Slice: t.translateExpr(sl)})
}

func (t *translator) translateCall(n *sitter.Node) ast.ExprIndex {
	fn := t.translateExpr(n.ChildByFieldName("function"))
	var callArgs []ast.ExprIndex
	var kwargs []ast.Keyword
	if argsNode := n.ChildByFieldName("arguments"); argsNode != nil {
		for i := 0; i < int(argsNode.NamedChildCount()); i++ {
			a := argsNode.NamedChild(i)
			if a.Type() == "keyword_argument" {
				name := ""
				if nm := a.ChildByFieldName("name"); nm != nil {
					name = t.text(nm)
				}
				kwargs = append(kwargs, ast.Keyword{Name: name, Value: t.translateExpr(a.ChildByFieldName("value"))})
				continue
			}
			callArgs = append(callArgs, t.translateExpr(a))
		}
	}
	return t.addExpr(ast.Expr{Kind: ast.Call, Range: nodeRange(n), Func: fn, CallArgs: callArgs, CallKwargs: kwargs})
}

func (t *translator) translateBinOp(n *sitter.Node) ast.ExprIndex {
	left := t.translateExpr(n.ChildByFieldName("left"))
	right := t.translateExpr(n.ChildByFieldName("right"))
	op := ""
	if opNode := n.ChildByFieldName("operator"); opNode != nil {
		op = t.text(opNode)
	}
	return t.addExpr(ast.Expr{Kind: ast.BinOp, Range: nodeRange(n), Left: left, Right: right, Op: op})
}

func (t *translator) translateUnaryOp(n *sitter.Node) ast.ExprIndex {
	operand := n.ChildByFieldName("operand")
	if operand == nil && n.NamedChildCount() > 0 {
		operand = n.NamedChild(int(n.NamedChildCount()) - 1)
	}
	op := ""
	if opNode := n.ChildByFieldName("operator"); opNode != nil {
		op = t.text(opNode)
	} else if n.Type() == "not_operator" {
		op = "not"
	}
	return t.addExpr(ast.Expr{Kind: ast.UnaryOp, Range: nodeRange(n), Value: t.translateExpr(operand), Op: op})
}

func (t *translator) translateBoolOp(n *sitter.Node) ast.ExprIndex {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	return t.addExpr(ast.Expr{
		Kind: ast.BoolOp, Range: nodeRange(n),
		BoolValues: []ast.ExprIndex{t.translateExpr(left), t.translateExpr(right)},
	})
}

func (t *translator) translateCompare(n *sitter.Node) ast.ExprIndex {
	left := t.translateExpr(n.ChildByFieldName("left"))
	var ops []string
	var comparators []ast.ExprIndex
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if !c.IsNamed() && isCompareOp(c.Type()) {
			ops = append(ops, t.text(c))
		}
	}
	for i := 1; i < int(n.NamedChildCount()); i++ {
		comparators = append(comparators, t.translateExpr(n.NamedChild(i)))
	}
	if len(ops) == 0 {
		for range comparators {
			ops = append(ops, "==")
		}
	}
	return t.addExpr(ast.Expr{Kind: ast.Compare, Range: nodeRange(n), Left: left, Ops: ops, Comparators: comparators})
}

func isCompareOp(tokType string) bool {
	switch tokType {
	case "==", "!=", "<", "<=", ">", ">=", "in", "not in", "is", "is not":
		return true
	}
	return false
}

func (t *translator) translateSeq(n *sitter.Node, kind ast.ExprKind) ast.ExprIndex {
	var elts []ast.ExprIndex
	for i := 0; i < int(n.NamedChildCount()); i++ {
		elts = append(elts, t.translateExpr(n.NamedChild(i)))
	}
	return t.addExpr(ast.Expr{Kind: kind, Range: nodeRange(n), Elts: elts})
}

func (t *translator) translateDict(n *sitter.Node) ast.ExprIndex {
	var keys, values []ast.ExprIndex
	for i := 0; i < int(n.NamedChildCount()); i++ {
		pair := n.NamedChild(i)
		if pair.Type() == "pair" {
			keys = append(keys, t.translateExpr(pair.ChildByFieldName("key")))
			values = append(values, t.translateExpr(pair.ChildByFieldName("value")))
		} else if pair.Type() == "dictionary_splat" {
			keys = append(keys, ast.NoExpr)
			values = append(values, t.translateExpr(pair.NamedChild(0)))
		}
	}
	return t.addExpr(ast.Expr{Kind: ast.Dict, Range: nodeRange(n), Keys: keys, Elts: values})
}

func (t *translator) translateComprehension(n *sitter.Node, kind ast.ExprKind) ast.ExprIndex {
	body := t.translateExpr(n.NamedChild(0))
	gens := t.translateForClauses(n)
	return t.addExpr(ast.Expr{Kind: kind, Range: nodeRange(n), ElementExpr: body, Generators: gens})
}

func (t *translator) translateDictComprehension(n *sitter.Node) ast.ExprIndex {
	pair := n.NamedChild(0)
	key, val := ast.NoExpr, ast.NoExpr
	if pair != nil && pair.Type() == "pair" {
		key = t.translateExpr(pair.ChildByFieldName("key"))
		val = t.translateExpr(pair.ChildByFieldName("value"))
	}
	gens := t.translateForClauses(n)
	return t.addExpr(ast.Expr{Kind: ast.DictComp, Range: nodeRange(n), KeyExpr: key, ElementExpr: val, Generators: gens})
}

func (t *translator) translateForClauses(n *sitter.Node) []ast.Comprehension {
	var gens []ast.Comprehension
	var cur *ast.Comprehension
	for i := 1; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "for_in_clause":
			if cur != nil {
				gens = append(gens, *cur)
			}
			comp := ast.Comprehension{}
			if left := c.ChildByFieldName("left"); left != nil {
				comp.Target = t.translateExpr(left)
			}
			if right := c.ChildByFieldName("right"); right != nil {
				comp.Iter = t.translateExpr(right)
			}
			cur = &comp
		case "if_clause":
			if cur != nil && c.NamedChildCount() > 0 {
				cur.Ifs = append(cur.Ifs, t.translateExpr(c.NamedChild(0)))
			}
		}
	}
	if cur != nil {
		gens = append(gens, *cur)
	}
	return gens
}

func (t *translator) translateLambda(n *sitter.Node) ast.ExprIndex {
	args := t.translateParameters(n.ChildByFieldName("parameters"))
	body := t.translateExpr(n.ChildByFieldName("body"))
	return t.addExpr(ast.Expr{Kind: ast.Lambda, Range: nodeRange(n), LambdaArgs: args, Body: body})
}

func (t *translator) translateConditional(n *sitter.Node) ast.ExprIndex {
	// tree-sitter-python's conditional_expression is `body if test else
	// orelse`, laid out as three named children in that source order.
	if n.NamedChildCount() < 3 {
		return t.addExpr(ast.Expr{Kind: ast.Constant, Range: nodeRange(n), ConstKind: ast.ConstNone})
	}
	body := t.translateExpr(n.NamedChild(0))
	test := t.translateExpr(n.NamedChild(1))
	orelse := t.translateExpr(n.NamedChild(2))
	return t.addExpr(ast.Expr{Kind: ast.IfExp, Range: nodeRange(n), Test: test, Body: body, Orelse: orelse})
}
