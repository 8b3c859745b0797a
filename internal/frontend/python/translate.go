package python

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/lintcore/internal/ast"
)

// translateStmt maps one tree-sitter statement node onto the arena. Node
// types this engine doesn't yet model (match statements, type-alias
// statements, decorated wrappers beyond the common case) fall through to a
// Pass placeholder rather than aborting the whole file's analysis — a
// best-effort AST still lets every other statement's diagnostics surface.
func (t *translator) translateStmt(n *sitter.Node) (ast.StmtIndex, bool) {
	if n == nil {
		return ast.NoStmt, false
	}
	switch n.Type() {
	case "function_definition", "async_function_definition":
		return t.translateFunctionDef(n), true
	case "decorated_definition":
		return t.translateDecorated(n), true
	case "class_definition":
		return t.translateClassDef(n), true
	case "import_statement":
		return t.translateImport(n), true
	case "import_from_statement":
		return t.translateImportFrom(n), true
	case "expression_statement":
		return t.translateExpressionStatement(n), true
	case "if_statement":
		return t.translateIf(n), true
	case "while_statement":
		return t.translateWhile(n), true
	case "for_statement":
		return t.translateFor(n), true
	case "try_statement":
		return t.translateTry(n), true
	case "with_statement":
		return t.translateWith(n), true
	case "return_statement":
		return t.translateReturn(n), true
	case "raise_statement":
		return t.translateRaise(n), true
	case "global_statement":
		return t.translateNames(n, ast.Global), true
	case "nonlocal_statement":
		return t.translateNames(n, ast.Nonlocal), true
	case "delete_statement":
		return t.translateDelete(n), true
	case "assert_statement":
		return t.translateAssert(n), true
	case "pass_statement":
		return t.mod.AddStmt(ast.Stmt{Kind: ast.Pass, Range: nodeRange(n)}), true
	case "break_statement":
		return t.mod.AddStmt(ast.Stmt{Kind: ast.Break, Range: nodeRange(n)}), true
	case "continue_statement":
		return t.mod.AddStmt(ast.Stmt{Kind: ast.Continue, Range: nodeRange(n)}), true
	case "comment", "newline", "(", ")", ":", ";":
		return ast.NoStmt, false
	default:
		return t.mod.AddStmt(ast.Stmt{Kind: ast.Pass, Range: nodeRange(n)}), true
	}
}

func (t *translator) translateBlock(n *sitter.Node) []ast.StmtIndex {
	if n == nil {
		return nil
	}
	var out []ast.StmtIndex
	for i := 0; i < int(n.ChildCount()); i++ {
		if si, ok := t.translateStmt(n.Child(i)); ok {
			out = append(out, si)
		}
	}
	return out
}

func (t *translator) translateDecorated(n *sitter.Node) ast.StmtIndex {
	var decorators []ast.ExprIndex
	var defNode *sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "decorator":
			if e := c.NamedChild(0); e != nil {
				decorators = append(decorators, t.translateExpr(e))
			}
		case "function_definition", "async_function_definition", "class_definition":
			defNode = c
		}
	}
	if defNode == nil {
		return t.mod.AddStmt(ast.Stmt{Kind: ast.Pass, Range: nodeRange(n)})
	}
	var si ast.StmtIndex
	if defNode.Type() == "class_definition" {
		si = t.translateClassDef(defNode)
	} else {
		si = t.translateFunctionDef(defNode)
	}
	s := t.mod.Stmt(si)
	s.Decorators = decorators
	s.Range = nodeRange(n)
	return si
}

func (t *translator) translateFunctionDef(n *sitter.Node) ast.StmtIndex {
	name := ""
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		name = t.text(nameNode)
	}
	args := t.translateParameters(n.ChildByFieldName("parameters"))
	var returns ast.ExprIndex = ast.NoExpr
	if rn := n.ChildByFieldName("return_type"); rn != nil {
		returns = t.translateExpr(rn)
	}
	body := t.translateBlock(n.ChildByFieldName("body"))
	return t.mod.AddStmt(ast.Stmt{
		Kind: ast.FunctionDef, Range: nodeRange(n),
		Name: name, Args: args, Returns: returns, Body: body,
	})
}

func (t *translator) translateParameters(n *sitter.Node) *ast.Arguments {
	args := &ast.Arguments{}
	if n == nil {
		return args
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		p := n.NamedChild(i)
		switch p.Type() {
		case "identifier":
			args.Args = append(args.Args, ast.Arg{Name: t.text(p), Default: ast.NoExpr, Range: nodeRange(p)})
		case "typed_parameter":
			a := ast.Arg{Default: ast.NoExpr, Range: nodeRange(p)}
			if id := p.NamedChild(0); id != nil {
				a.Name = t.text(id)
			}
			if tp := p.ChildByFieldName("type"); tp != nil {
				a.Annotation = t.translateExpr(tp)
			} else {
				a.Annotation = ast.NoExpr
			}
			args.Args = append(args.Args, a)
		case "default_parameter", "typed_default_parameter":
			a := ast.Arg{Default: ast.NoExpr, Annotation: ast.NoExpr, Range: nodeRange(p)}
			if nm := p.ChildByFieldName("name"); nm != nil {
				if nm.Type() == "identifier" {
					a.Name = t.text(nm)
				} else if id := nm.NamedChild(0); id != nil {
					a.Name = t.text(id)
				}
				if tp := nm.ChildByFieldName("type"); tp != nil {
					a.Annotation = t.translateExpr(tp)
				}
			}
			if v := p.ChildByFieldName("value"); v != nil {
				a.Default = t.translateExpr(v)
			}
			args.Args = append(args.Args, a)
		case "list_splat_pattern":
			if id := p.NamedChild(0); id != nil {
				a := ast.Arg{Name: t.text(id), Default: ast.NoExpr, Annotation: ast.NoExpr, Range: nodeRange(p)}
				args.VarArg = &a
			}
		case "dictionary_splat_pattern":
			if id := p.NamedChild(0); id != nil {
				a := ast.Arg{Name: t.text(id), Default: ast.NoExpr, Annotation: ast.NoExpr, Range: nodeRange(p)}
				args.KwArg = &a
			}
		}
	}
	return args
}

func (t *translator) translateClassDef(n *sitter.Node) ast.StmtIndex {
	name := ""
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		name = t.text(nameNode)
	}
	var bases []ast.ExprIndex
	var keywords []ast.Keyword
	if sup := n.ChildByFieldName("superclasses"); sup != nil {
		for i := 0; i < int(sup.NamedChildCount()); i++ {
			arg := sup.NamedChild(i)
			if arg.Type() == "keyword_argument" {
				name := ""
				if nm := arg.ChildByFieldName("name"); nm != nil {
					name = t.text(nm)
				}
				keywords = append(keywords, ast.Keyword{Name: name, Value: t.translateExpr(arg.ChildByFieldName("value"))})
				continue
			}
			bases = append(bases, t.translateExpr(arg))
		}
	}
	body := t.translateBlock(n.ChildByFieldName("body"))
	return t.mod.AddStmt(ast.Stmt{
		Kind: ast.ClassDef, Range: nodeRange(n),
		Name: name, Bases: bases, Keywords: keywords, Body: body,
	})
}

func (t *translator) translateImport(n *sitter.Node) ast.StmtIndex {
	var aliases []ast.Alias
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		aliases = append(aliases, t.translateAlias(c))
	}
	return t.mod.AddStmt(ast.Stmt{Kind: ast.Import, Range: nodeRange(n), Aliases: aliases})
}

func (t *translator) translateAlias(n *sitter.Node) ast.Alias {
	if n.Type() == "aliased_import" {
		name := t.text(n.ChildByFieldName("name"))
		as := t.text(n.ChildByFieldName("alias"))
		return ast.Alias{Name: name, AsName: as, Range: nodeRange(n)}
	}
	return ast.Alias{Name: t.text(n), Range: nodeRange(n)}
}

func (t *translator) translateImportFrom(n *sitter.Node) ast.StmtIndex {
	module := ""
	level := 0
	var aliases []ast.Alias
	moduleSeen := false
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "relative_import":
			for j := 0; j < int(c.ChildCount()); j++ {
				rc := c.Child(j)
				if rc.Type() == "import_prefix" {
					level += strings.Count(t.text(rc), ".")
				} else if rc.Type() == "dotted_name" {
					module = t.text(rc)
				}
			}
			moduleSeen = true
		case "dotted_name":
			if !moduleSeen {
				module = t.text(c)
				moduleSeen = true
			}
		case "wildcard_import":
			aliases = append(aliases, ast.Alias{Name: "*", Range: nodeRange(c)})
		case "aliased_import":
			aliases = append(aliases, t.translateAlias(c))
		case "identifier":
			if moduleSeen {
				aliases = append(aliases, ast.Alias{Name: t.text(c), Range: nodeRange(c)})
			}
		}
	}
	return t.mod.AddStmt(ast.Stmt{Kind: ast.ImportFrom, Range: nodeRange(n), Module: module, Level: level, Aliases: aliases})
}

func (t *translator) translateExpressionStatement(n *sitter.Node) ast.StmtIndex {
	inner := n.NamedChild(0)
	if inner == nil {
		return t.mod.AddStmt(ast.Stmt{Kind: ast.Pass, Range: nodeRange(n)})
	}
	switch inner.Type() {
	case "assignment":
		return t.translateAssignment(n, inner)
	case "augmented_assignment":
		return t.translateAugAssign(n, inner)
	default:
		return t.mod.AddStmt(ast.Stmt{Kind: ast.ExprStmt, Range: nodeRange(n), ExprValue: t.translateExpr(inner)})
	}
}

func (t *translator) translateAssignment(n, inner *sitter.Node) ast.StmtIndex {
	left := inner.ChildByFieldName("left")
	right := inner.ChildByFieldName("right")
	typeNode := inner.ChildByFieldName("type")

	targets := []ast.ExprIndex{t.translateExpr(left)}
	if typeNode != nil {
		return t.mod.AddStmt(ast.Stmt{
			Kind: ast.AnnAssign, Range: nodeRange(n),
			Targets: targets, Annotation: t.translateExpr(typeNode),
			Value: exprOrNone(t, right),
		})
	}
	return t.mod.AddStmt(ast.Stmt{Kind: ast.Assign, Range: nodeRange(n), Targets: targets, Value: exprOrNone(t, right)})
}

func exprOrNone(t *translator, n *sitter.Node) ast.ExprIndex {
	if n == nil {
		return ast.NoExpr
	}
	return t.translateExpr(n)
}

func (t *translator) translateAugAssign(n, inner *sitter.Node) ast.StmtIndex {
	left := inner.ChildByFieldName("left")
	right := inner.ChildByFieldName("right")
	op := ""
	if opNode := inner.ChildByFieldName("operator"); opNode != nil {
		op = t.text(opNode)
	}
	return t.mod.AddStmt(ast.Stmt{
		Kind: ast.AugAssign, Range: nodeRange(n),
		Targets: []ast.ExprIndex{t.translateExpr(left)}, Value: t.translateExpr(right), Op: op,
	})
}

func (t *translator) translateIf(n *sitter.Node) ast.StmtIndex {
	test := t.translateExpr(n.ChildByFieldName("condition"))
	body := t.translateBlock(n.ChildByFieldName("consequence"))
	var orelse []ast.StmtIndex
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.Type() == "elif_clause" {
			elifStmt := t.translateIf(c)
			orelse = []ast.StmtIndex{elifStmt}
		} else if c.Type() == "else_clause" {
			if b := c.ChildByFieldName("body"); b != nil {
				orelse = t.translateBlock(b)
			}
		}
	}
	return t.mod.AddStmt(ast.Stmt{Kind: ast.If, Range: nodeRange(n), Test: test, Body: body, Orelse: orelse})
}

func (t *translator) translateWhile(n *sitter.Node) ast.StmtIndex {
	test := t.translateExpr(n.ChildByFieldName("condition"))
	body := t.translateBlock(n.ChildByFieldName("body"))
	var orelse []ast.StmtIndex
	if alt := n.ChildByFieldName("alternative"); alt != nil {
		if b := alt.ChildByFieldName("body"); b != nil {
			orelse = t.translateBlock(b)
		}
	}
	return t.mod.AddStmt(ast.Stmt{Kind: ast.While, Range: nodeRange(n), Test: test, Body: body, Orelse: orelse})
}

func (t *translator) translateFor(n *sitter.Node) ast.StmtIndex {
	target := t.translateExpr(n.ChildByFieldName("left"))
	iter := t.translateExpr(n.ChildByFieldName("right"))
	body := t.translateBlock(n.ChildByFieldName("body"))
	var orelse []ast.StmtIndex
	if alt := n.ChildByFieldName("alternative"); alt != nil {
		if b := alt.ChildByFieldName("body"); b != nil {
			orelse = t.translateBlock(b)
		}
	}
	return t.mod.AddStmt(ast.Stmt{Kind: ast.For, Range: nodeRange(n), Target: target, Iter: iter, Body: body, Orelse: orelse})
}

func (t *translator) translateTry(n *sitter.Node) ast.StmtIndex {
	var body, finalBody []ast.StmtIndex
	var handlers []ast.ExceptHandler
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "block":
			body = t.translateBlock(c)
		case "except_clause":
			handlers = append(handlers, t.translateExceptClause(c))
		case "finally_clause":
			if b := c.ChildByFieldName("body"); b != nil {
				finalBody = t.translateBlock(b)
			} else if c.NamedChildCount() > 0 {
				finalBody = t.translateBlock(c.NamedChild(int(c.NamedChildCount()) - 1))
			}
		}
	}
	return t.mod.AddStmt(ast.Stmt{Kind: ast.Try, Range: nodeRange(n), Body: body, Handlers: handlers, FinalBody: finalBody})
}

func (t *translator) translateExceptClause(n *sitter.Node) ast.ExceptHandler {
	h := ast.ExceptHandler{Type: ast.NoExpr, Range: nodeRange(n)}
	var bodyNode *sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "block":
			bodyNode = c
		case "as_pattern":
			if val := c.NamedChild(0); val != nil {
				h.Type = t.translateExpr(val)
			}
			if tgt := c.NamedChild(1); tgt != nil {
				h.Name = t.text(tgt)
			}
		default:
			if h.Type == ast.NoExpr {
				h.Type = t.translateExpr(c)
			}
		}
	}
	h.Body = t.translateBlock(bodyNode)
	return h
}

func (t *translator) translateWith(n *sitter.Node) ast.StmtIndex {
	var items []ast.WithItem
	if clause := n.ChildByFieldName("clause"); clause != nil {
		for i := 0; i < int(clause.NamedChildCount()); i++ {
			wi := clause.NamedChild(i)
			item := ast.WithItem{OptionalVar: ast.NoExpr}
			if wi.Type() == "as_pattern" {
				item.ContextExpr = t.translateExpr(wi.NamedChild(0))
				if tgt := wi.NamedChild(1); tgt != nil {
					item.OptionalVar = t.translateExpr(tgt)
				}
			} else {
				item.ContextExpr = t.translateExpr(wi)
			}
			items = append(items, item)
		}
	}
	body := t.translateBlock(n.ChildByFieldName("body"))
	return t.mod.AddStmt(ast.Stmt{Kind: ast.With, Range: nodeRange(n), Items: items, Body: body})
}

func (t *translator) translateReturn(n *sitter.Node) ast.StmtIndex {
	v := ast.NoExpr
	if c := n.NamedChild(0); c != nil {
		v = t.translateExpr(c)
	}
	return t.mod.AddStmt(ast.Stmt{Kind: ast.Return, Range: nodeRange(n), ExprValue: v})
}

func (t *translator) translateRaise(n *sitter.Node) ast.StmtIndex {
	exc, cause := ast.NoExpr, ast.NoExpr
	idx := 0
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if idx == 0 {
			exc = t.translateExpr(c)
		} else if idx == 1 {
			cause = t.translateExpr(c)
		}
		idx++
	}
	return t.mod.AddStmt(ast.Stmt{Kind: ast.Raise, Range: nodeRange(n), Exc: exc, Cause: cause})
}

func (t *translator) translateNames(n *sitter.Node, kind ast.StmtKind) ast.StmtIndex {
	var names []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		names = append(names, t.text(n.NamedChild(i)))
	}
	return t.mod.AddStmt(ast.Stmt{Kind: kind, Range: nodeRange(n), Names: names})
}

func (t *translator) translateDelete(n *sitter.Node) ast.StmtIndex {
	var targets []ast.ExprIndex
	for i := 0; i < int(n.NamedChildCount()); i++ {
		targets = append(targets, t.translateExpr(n.NamedChild(i)))
	}
	return t.mod.AddStmt(ast.Stmt{Kind: ast.Delete, Range: nodeRange(n), DeleteTargets: targets})
}

func (t *translator) translateAssert(n *sitter.Node) ast.StmtIndex {
	test := t.translateExpr(n.NamedChild(0))
	msg := ast.NoExpr
	if c := n.NamedChild(1); c != nil {
		msg = t.translateExpr(c)
	}
	return t.mod.AddStmt(ast.Stmt{Kind: ast.Assert, Range: nodeRange(n), Test: test, Msg: msg})
}
