// rules_dispatch.go wires the individual rule checks into the visitor's
// explicit "if enabled { call }" cascade.
package checker

import (
	"strconv"
	"strings"

	"github.com/oxhq/lintcore/internal/ast"
	"github.com/oxhq/lintcore/internal/diag"
	"github.com/oxhq/lintcore/internal/semantic"
)

// checkLineLength is E501, run once per file over the raw source split on
// newlines rather than during the AST walk, since it is a property of raw
// text, not of any particular node.
func (c *Checker) checkLineLength() {
	if !c.enabled("E501") {
		return
	}
	lines := strings.Split(string(c.Source), "\n")
	offset := 0
	for _, line := range lines {
		text := strings.TrimRight(line, "\r")
		length := len([]rune(text))
		if length > c.Settings.LineLength {
			r := ast.Range{Start: offset, End: offset + len(line)}
			c.emit(diag.Diagnostic{
				RuleCode: "E501",
				Message:  "Line too long",
				Range:    r,
			})
		}
		offset += len(line) + 1
	}
}

// checkBareExcept is E722: a `except:` clause with no type catches every
// exception, including ones like KeyboardInterrupt/SystemExit that should
// usually propagate.
func (c *Checker) checkBareExcept(si ast.StmtIndex, s *ast.Stmt) {
	if !c.enabled("E722") {
		return
	}
	for _, h := range s.Handlers {
		if h.Type == ast.NoExpr {
			c.emit(diag.Diagnostic{RuleCode: "E722", Message: "Do not use bare `except`", Range: h.Range})
		}
	}
}

// checkNoneTrueFalseComparison is E711/E712: `x == None`/`x != None` and
// `x == True`/`x == False` should use `is`/`is not` or a truth test instead.
func (c *Checker) checkNoneTrueFalseComparison(e ast.ExprIndex, expr *ast.Expr) {
	operands := append([]ast.ExprIndex{expr.Left}, expr.Comparators...)
	for i, op := range expr.Ops {
		if op != "==" && op != "!=" {
			continue
		}
		rhs := operands[i+1]
		rhsExpr := c.Mod.Expr(rhs)
		if rhsExpr == nil || rhsExpr.Kind != ast.Constant {
			continue
		}
		switch rhsExpr.ConstKind {
		case ast.ConstNone:
			if c.enabled("E711") {
				c.emit(diag.Diagnostic{RuleCode: "E711", Message: "Comparison to `None` should be `is` / `is not`", Range: expr.Range})
			}
		case ast.ConstBool:
			if c.enabled("E712") {
				c.emit(diag.Diagnostic{RuleCode: "E712", Message: "Comparison to a boolean literal should use a truth test", Range: expr.Range})
			}
		}
	}
}

// checkYodaCondition is SIM300: `"literal" == x` should be written
// `x == "literal"` — comparing a literal on the left reads awkwardly and
// usually signals the author was guarding against `=` typos.
func (c *Checker) checkYodaCondition(e ast.ExprIndex, expr *ast.Expr) {
	if !c.enabled("SIM300") {
		return
	}
	if len(expr.Ops) != 1 || expr.Ops[0] != "==" {
		return
	}
	left := c.Mod.Expr(expr.Left)
	right := c.Mod.Expr(expr.Comparators[0])
	if left != nil && left.Kind == ast.Constant && (right == nil || right.Kind != ast.Constant) {
		d := diag.Diagnostic{RuleCode: "SIM300", Message: "Yoda condition detected", Range: expr.Range}
		if right != nil {
			d.Fix = &diag.Fix{Message: "Swap the comparison operands", Edits: []diag.Edit{{
				Range:       expr.Range,
				Replacement: c.Index.Slice(right.Range) + " == " + c.Index.Slice(left.Range),
			}}}
		}
		c.emit(d)
	}
}

// checkCollapsibleIf is SIM102: an `if` whose entire body is a single
// nested `if` with no `else` can be collapsed into one `if a and b:`.
func (c *Checker) checkCollapsibleIf(si ast.StmtIndex, s *ast.Stmt) {
	if !c.enabled("SIM102") {
		return
	}
	if len(s.Orelse) != 0 || len(s.Body) != 1 {
		return
	}
	inner := c.Mod.Stmt(s.Body[0])
	if inner.Kind == ast.If && len(inner.Orelse) == 0 {
		c.emit(diag.Diagnostic{RuleCode: "SIM102", Message: "Use a single `if` statement instead of nested `if` statements", Range: s.Range})
	}
}

// checkOutdatedVersionBlock is UP036: an `if sys.version_info < (3, X):`
// guard for a Python version older than the settings' target-version is
// dead code.
func (c *Checker) checkOutdatedVersionBlock(si ast.StmtIndex, s *ast.Stmt) {
	if !c.enabled("UP036") {
		return
	}
	test := c.Mod.Expr(s.Test)
	if test == nil || test.Kind != ast.Compare || len(test.Ops) != 1 {
		return
	}
	path, ok := c.Model.ResolveCallPath(c.Mod, test.Left)
	if !ok || dotted(path) != "sys.version_info" {
		return
	}
	if test.Ops[0] != "<" && test.Ops[0] != "<=" {
		return
	}
	rhs := c.Mod.Expr(test.Comparators[0])
	if rhs == nil || (rhs.Kind != ast.Tuple) || len(rhs.Elts) < 2 {
		return
	}
	major, minor := c.Mod.Expr(rhs.Elts[0]), c.Mod.Expr(rhs.Elts[1])
	if major == nil || minor == nil || major.ConstNum != "3" {
		return
	}
	guard, err1 := strconv.Atoi(minor.ConstNum)
	target, err2 := strconv.Atoi(strings.TrimPrefix(c.Settings.TargetVersion, "py3"))
	if err1 != nil || err2 != nil || guard > target {
		return
	}
	c.emit(diag.Diagnostic{RuleCode: "UP036", Message: "Version block is outdated for the target Python version", Range: s.Range})
}

// checkNonPEP604Annotation is UP007: `Optional[X]`/`Union[X, Y]` should be
// written `X | None` / `X | Y` on target versions that support PEP 604.
func (c *Checker) checkNonPEP604Annotation(e ast.ExprIndex, expr *ast.Expr, form string) {
	if !c.enabled("UP007") {
		return
	}
	if !(c.curFlags().inAnnotation || c.curFlags().inTypeDefinition) {
		return
	}
	if c.Settings.TargetVersion == "py37" || c.Settings.TargetVersion == "py38" || c.Settings.TargetVersion == "py39" {
		return // PEP 604 syntax requires 3.10+
	}
	c.emit(diag.Diagnostic{
		RuleCode: "UP007",
		Message:  "Use `X | Y` for type annotations instead of `" + form + "[...]`",
		Range:    expr.Range,
	})
}

// checkInvalidClassName is N801: class names should be CapWords.
func (c *Checker) checkInvalidClassName(si ast.StmtIndex, s *ast.Stmt) {
	if !c.enabled("N801") {
		return
	}
	if !isCapWords(s.Name) {
		c.emit(diag.Diagnostic{RuleCode: "N801", Message: "Class name `" + s.Name + "` should use CapWords convention", Range: s.Range})
	}
}

func isCapWords(name string) bool {
	name = strings.TrimLeft(name, "_")
	if name == "" {
		return true
	}
	if name[0] < 'A' || name[0] > 'Z' {
		return false
	}
	return !strings.Contains(name, "_")
}

// checkNonLowercaseVariable is N806: a variable assigned inside a function
// body should be lower_snake_case.
func (c *Checker) checkNonLowercaseVariable(si ast.StmtIndex, target ast.ExprIndex) {
	if !c.enabled("N806") {
		return
	}
	if c.Model.CurrentScope().Kind != semantic.ScopeFunction {
		return
	}
	expr := c.Mod.Expr(target)
	if expr == nil || expr.Kind != ast.Name {
		return
	}
	name := expr.Id
	if name == strings.ToLower(name) {
		return
	}
	if name == strings.ToUpper(name) {
		return // SCREAMING_CASE constants are a separate convention, not N806
	}
	c.emit(diag.Diagnostic{RuleCode: "N806", Message: "Variable `" + name + "` in function should be lowercase", Range: expr.Range})
}

// checkMutableArgumentDefault is B006: a mutable literal (list/dict/set) as
// a parameter default is evaluated once at def time and shared across
// calls, almost never what the author intended.
func (c *Checker) checkMutableArgumentDefault(s *ast.Stmt) {
	if !c.enabled("B006") {
		return
	}
	check := func(a ast.Arg) {
		if a.Default == ast.NoExpr {
			return
		}
		d := c.Mod.Expr(a.Default)
		if d == nil {
			return
		}
		if d.Kind == ast.List || d.Kind == ast.Dict || d.Kind == ast.Set {
			c.emit(diag.Diagnostic{RuleCode: "B006", Message: "Do not use a mutable default argument", Range: d.Range})
		}
	}
	for _, a := range s.Args.Args {
		check(a)
	}
	for _, a := range s.Args.KwOnlyArgs {
		check(a)
	}
}

// checkRedefinedWhileUnused is F811: rebinding a name in the same scope
// before its previous binding was ever used, almost always an accidental
// shadow (duplicate function/import) rather than an intentional rebind.
func (c *Checker) checkRedefinedWhileUnused(name string, r ast.Range) {
	if !c.enabled("F811") {
		return
	}
	idx, ok := c.Model.CurrentScope().LocalBinding(name)
	if !ok {
		return
	}
	prev := c.Model.Binding(idx)
	if prev.Used() {
		return
	}
	switch prev.Kind {
	case semantic.BindImport, semantic.BindFromImport, semantic.BindSubmoduleImport,
		semantic.BindFunctionDef, semantic.BindClassDef:
		c.emit(diag.Diagnostic{RuleCode: "F811", Message: "Redefinition of unused `" + name + "`", Range: r})
	}
}

// checkUnusedImports is F401, run once the whole file has been walked (an
// import may be used anywhere below its own statement, including inside a
// deferred function body).
func (c *Checker) checkUnusedImports() {
	if !c.enabled("F401") {
		return
	}
	for i := range c.Model.Bindings {
		b := &c.Model.Bindings[i]
		switch b.Kind {
		case semantic.BindImport, semantic.BindFromImport, semantic.BindSubmoduleImport:
		default:
			continue
		}
		if b.Used() {
			continue
		}
		fixRange := b.Range
		if st := c.Mod.Stmt(b.Source); st != nil && len(st.Aliases) == 1 {
			fixRange = st.Range
			if ls := c.Index.LineStart(fixRange.Start); strings.TrimSpace(string(c.Source[ls:fixRange.Start])) == "" {
				fixRange.Start = ls
			}
			if fixRange.End < len(c.Source) && c.Source[fixRange.End] == '\n' {
				fixRange.End++
			}
		}
		c.emit(diag.Diagnostic{
			RuleCode: "F401",
			Message:  "`" + b.Name + "` imported but unused",
			Range:    b.Range,
			Fix: &diag.Fix{
				Message: "Remove unused import",
				Edits:   []diag.Edit{{Range: fixRange, Replacement: ""}},
			},
		})
	}
}

// checkUndefinedExport is F406: a name listed in `__all__` that has no
// corresponding module-level binding.
func (c *Checker) checkUndefinedExport() {
	if !c.enabled("F406") {
		return
	}
	module := c.Model.Scope(0)
	for _, b := range c.Model.Bindings {
		if b.Kind != semantic.BindExport {
			continue
		}
		for _, name := range b.ExportedNames {
			if _, ok := module.LocalBinding(name); !ok {
				c.emit(diag.Diagnostic{RuleCode: "F406", Message: "Undefined name `" + name + "` in `__all__`", Range: b.Range})
			}
		}
	}
}

// checkUnusedVariables is F841, run against one now-finalized scope once
// draining visits it (only function and lambda scopes are checked;
// comprehension scopes are queued too but skipped here):
// flags a plain assignment that is never read, skipping names matching the
// configured dummy-variable pattern (conventionally `_`).
func (c *Checker) checkUnusedVariables(id semantic.ScopeID) {
	if !c.enabled("F841") {
		return
	}
	scope := c.Model.Scope(id)
	if scope.Kind != semantic.ScopeFunction && scope.Kind != semantic.ScopeLambda {
		return
	}
	for _, idx := range scope.OwnBindings() {
		b := c.Model.Binding(idx)
		if b.Kind != semantic.BindAssignment {
			continue
		}
		if c.Settings.DummyVariableRegex.MatchString(b.Name) {
			continue
		}
		if b.Used() {
			continue
		}
		c.emit(diag.Diagnostic{RuleCode: "F841", Message: "Local variable `" + b.Name + "` is assigned to but never used", Range: b.Range})
	}
}

// checkForwardAnnotationSyntaxError is F901: a string annotation that fails
// to parse as an expression when re-entered. Since internal/frontend/python already
// rejects genuinely malformed source at parse time (E999), this only fires
// for annotations containing syntax the expression grammar disallows
// outright, such as a statement keyword.
func (c *Checker) checkForwardAnnotationSyntaxError(ds semantic.DeferredStringTypeDefinition) {
	if !c.enabled("F901") {
		return
	}
	expr := c.Mod.Expr(ds.Expr)
	if expr == nil || expr.Kind != ast.Constant {
		return
	}
	text := strings.Trim(expr.ConstStr, "'\"")
	if containsStatementKeyword(text) {
		c.emit(diag.Diagnostic{RuleCode: "F901", Message: "Forward annotation is not a valid expression", Range: expr.Range})
	}
}

var statementKeywords = []string{"import ", "def ", "class ", "return ", "yield ", " = "}

func containsStatementKeyword(text string) bool {
	for _, kw := range statementKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// checkMissingModuleDocstring is D100, run once per file: a module whose
// first statement isn't a bare string-literal expression.
func (c *Checker) checkMissingModuleDocstring() {
	if !c.enabled("D100") {
		return
	}
	if hasDocstring(c.Mod, c.Mod.Body) {
		return
	}
	r := ast.Range{}
	if len(c.Mod.Body) > 0 {
		r = c.Mod.Stmt(c.Mod.Body[0]).Range
	}
	c.emit(diag.Diagnostic{RuleCode: "D100", Message: "Missing docstring in public module", Range: r})
}

// checkMissingDocstring is D101/D103: a public class or function whose body
// opens with something other than a bare string-literal expression. Private
// definitions (leading underscore) are exempt, matching the visibility the
// visitor already tracked in c.visible for the enclosing definition.
func (c *Checker) checkMissingDocstring(kind semantic.DefKind, vis semantic.Visibility, body []ast.StmtIndex, r ast.Range) {
	if vis != semantic.VisPublic {
		return
	}
	if hasDocstring(c.Mod, body) {
		return
	}
	switch kind {
	case semantic.DefClass:
		if c.enabled("D101") {
			c.emit(diag.Diagnostic{RuleCode: "D101", Message: "Missing docstring in public class", Range: r})
		}
	case semantic.DefFunction:
		if c.enabled("D103") {
			c.emit(diag.Diagnostic{RuleCode: "D103", Message: "Missing docstring in public function", Range: r})
		}
	}
}

// hasDocstring reports whether body opens with a string-literal expression
// statement.
func hasDocstring(mod *ast.Module, body []ast.StmtIndex) bool {
	if len(body) == 0 {
		return false
	}
	first := mod.Stmt(body[0])
	if first.Kind != ast.ExprStmt {
		return false
	}
	e := mod.Expr(first.ExprValue)
	return e != nil && e.Kind == ast.Constant && e.ConstKind == ast.ConstStr_
}
