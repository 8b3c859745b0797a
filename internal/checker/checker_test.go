package checker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/lintcore/internal/ast"
	"github.com/oxhq/lintcore/internal/checker"
	"github.com/oxhq/lintcore/internal/rules"
	"github.com/oxhq/lintcore/internal/settings"
	"github.com/oxhq/lintcore/internal/token"
)

// buildModule assembles: `import os` (unused) ; `y = 1` ; `print(z)` (z undefined).
func buildModule() *ast.Module {
	m := &ast.Module{}

	importStmt := m.AddStmt(ast.Stmt{Kind: ast.Import, Aliases: []ast.Alias{{Name: "os", Range: ast.Range{Start: 7, End: 9}}}, Range: ast.Range{Start: 0, End: 9}})

	yTarget := m.AddExpr(ast.Expr{Kind: ast.Name, Id: "y", Ctx: ast.Store, Range: ast.Range{Start: 10, End: 11}})
	oneConst := m.AddExpr(ast.Expr{Kind: ast.Constant, ConstKind: ast.ConstInt, ConstNum: "1", Range: ast.Range{Start: 14, End: 15}})
	assignStmt := m.AddStmt(ast.Stmt{Kind: ast.Assign, Targets: []ast.ExprIndex{yTarget}, Value: oneConst, Range: ast.Range{Start: 10, End: 15}})

	printName := m.AddExpr(ast.Expr{Kind: ast.Name, Id: "print", Ctx: ast.Load, Range: ast.Range{Start: 16, End: 21}})
	zName := m.AddExpr(ast.Expr{Kind: ast.Name, Id: "z", Ctx: ast.Load, Range: ast.Range{Start: 22, End: 23}})
	callExpr := m.AddExpr(ast.Expr{Kind: ast.Call, Func: printName, CallArgs: []ast.ExprIndex{zName}, Range: ast.Range{Start: 16, End: 24}})
	exprStmt := m.AddStmt(ast.Stmt{Kind: ast.ExprStmt, ExprValue: callExpr, Range: ast.Range{Start: 16, End: 24}})

	m.Body = []ast.StmtIndex{importStmt, assignStmt, exprStmt}
	return m
}

func TestCheckFindsUnusedImportAndUndefinedName(t *testing.T) {
	m := buildModule()
	src := []byte("import os\ny = 1\nprint(z)\n")
	toks := &token.Stream{}
	s := settings.Default()

	diags := checker.Check("sample.py", m, toks, src, s, rules.DefaultRegistry)

	require.NotEmpty(t, diags)

	var gotF401, gotF821 bool
	for _, d := range diags {
		switch d.RuleCode {
		case "F401":
			gotF401 = true
			assert.NotNil(t, d.Fix, "F401 should carry an autofix")
		case "F821":
			gotF821 = true
			assert.Contains(t, d.Message, "z")
		}
	}
	assert.True(t, gotF401, "expected F401 unused-import for `os`")
	assert.True(t, gotF821, "expected F821 undefined-name for `z`")
}

func TestCheckNoFindingsForFullyUsedModule(t *testing.T) {
	m := &ast.Module{}
	yTarget := m.AddExpr(ast.Expr{Kind: ast.Name, Id: "y", Ctx: ast.Store, Range: ast.Range{Start: 0, End: 1}})
	oneConst := m.AddExpr(ast.Expr{Kind: ast.Constant, ConstKind: ast.ConstInt, ConstNum: "1", Range: ast.Range{Start: 4, End: 5}})
	assignStmt := m.AddStmt(ast.Stmt{Kind: ast.Assign, Targets: []ast.ExprIndex{yTarget}, Value: oneConst, Range: ast.Range{Start: 0, End: 5}})

	printName := m.AddExpr(ast.Expr{Kind: ast.Name, Id: "print", Ctx: ast.Load, Range: ast.Range{Start: 6, End: 11}})
	yLoad := m.AddExpr(ast.Expr{Kind: ast.Name, Id: "y", Ctx: ast.Load, Range: ast.Range{Start: 12, End: 13}})
	callExpr := m.AddExpr(ast.Expr{Kind: ast.Call, Func: printName, CallArgs: []ast.ExprIndex{yLoad}, Range: ast.Range{Start: 6, End: 14}})
	exprStmt := m.AddStmt(ast.Stmt{Kind: ast.ExprStmt, ExprValue: callExpr, Range: ast.Range{Start: 6, End: 14}})

	m.Body = []ast.StmtIndex{assignStmt, exprStmt}

	src := []byte("y = 1\nprint(y)\n")
	diags := checker.Check("clean.py", m, &token.Stream{}, src, settings.Default(), rules.DefaultRegistry)
	assert.Empty(t, diags)
}

// TestCheckUnusedVariablesScopedToOwningScope exercises the F841 fix: a
// module-level unused assignment must never be flagged, and a function's
// own unused locals must be flagged exactly once each, not duplicated or
// attributed to the wrong scope.
func TestCheckUnusedVariablesScopedToOwningScope(t *testing.T) {
	m := &ast.Module{}

	muTarget := m.AddExpr(ast.Expr{Kind: ast.Name, Id: "m_unused", Ctx: ast.Store, Range: ast.Range{Start: 0, End: 8}})
	muVal := m.AddExpr(ast.Expr{Kind: ast.Constant, ConstKind: ast.ConstInt, ConstNum: "1", Range: ast.Range{Start: 11, End: 12}})
	muStmt := m.AddStmt(ast.Stmt{Kind: ast.Assign, Targets: []ast.ExprIndex{muTarget}, Value: muVal, Range: ast.Range{Start: 0, End: 12}})

	aTarget := m.AddExpr(ast.Expr{Kind: ast.Name, Id: "a", Ctx: ast.Store, Range: ast.Range{Start: 20, End: 21}})
	aVal := m.AddExpr(ast.Expr{Kind: ast.Constant, ConstKind: ast.ConstInt, ConstNum: "1", Range: ast.Range{Start: 24, End: 25}})
	aStmt := m.AddStmt(ast.Stmt{Kind: ast.Assign, Targets: []ast.ExprIndex{aTarget}, Value: aVal, Range: ast.Range{Start: 20, End: 25}})

	bTarget := m.AddExpr(ast.Expr{Kind: ast.Name, Id: "b", Ctx: ast.Store, Range: ast.Range{Start: 30, End: 31}})
	bVal := m.AddExpr(ast.Expr{Kind: ast.Constant, ConstKind: ast.ConstInt, ConstNum: "2", Range: ast.Range{Start: 34, End: 35}})
	bStmt := m.AddStmt(ast.Stmt{Kind: ast.Assign, Targets: []ast.ExprIndex{bTarget}, Value: bVal, Range: ast.Range{Start: 30, End: 35}})

	fnStmt := m.AddStmt(ast.Stmt{Kind: ast.FunctionDef, Name: "f", Args: &ast.Arguments{}, Body: []ast.StmtIndex{aStmt, bStmt}, Range: ast.Range{Start: 15, End: 35}})

	m.Body = []ast.StmtIndex{muStmt, fnStmt}

	src := []byte("m_unused = 1\ndef f():\n    a = 1\n    b = 2\n")
	diags := checker.Check("scoped.py", m, &token.Stream{}, src, settings.Default(), rules.DefaultRegistry)

	var f841 []string
	for _, d := range diags {
		if d.RuleCode == "F841" {
			f841 = append(f841, d.Message)
		}
	}
	require.Len(t, f841, 2, "expected exactly one F841 per unused local in `f`, not duplicated nor attributed to module scope")
	for _, msg := range f841 {
		assert.NotContains(t, msg, "m_unused")
	}
}

// TestCheckForLoopVariableNeverFlaggedUnused exercises the BindLoopVar fix:
// a `for` target that's never read must not trigger F841, matching
// pyflakes/ruff's own behavior for loop variables.
func TestCheckForLoopVariableNeverFlaggedUnused(t *testing.T) {
	m := &ast.Module{}

	iterName := m.AddExpr(ast.Expr{Kind: ast.Name, Id: "items", Ctx: ast.Load, Range: ast.Range{Start: 24, End: 29}})
	loopTarget := m.AddExpr(ast.Expr{Kind: ast.Name, Id: "unused", Ctx: ast.Store, Range: ast.Range{Start: 20, End: 26}})
	passStmt := m.AddStmt(ast.Stmt{Kind: ast.Pass, Range: ast.Range{Start: 35, End: 39}})
	forStmt := m.AddStmt(ast.Stmt{Kind: ast.For, Target: loopTarget, Iter: iterName, Body: []ast.StmtIndex{passStmt}, Range: ast.Range{Start: 15, End: 39}})

	itemsTarget := m.AddExpr(ast.Expr{Kind: ast.Name, Id: "items", Ctx: ast.Store, Range: ast.Range{Start: 0, End: 5}})
	itemsVal := m.AddExpr(ast.Expr{Kind: ast.List, Range: ast.Range{Start: 8, End: 10}})
	itemsStmt := m.AddStmt(ast.Stmt{Kind: ast.Assign, Targets: []ast.ExprIndex{itemsTarget}, Value: itemsVal, Range: ast.Range{Start: 0, End: 10}})

	fnStmt := m.AddStmt(ast.Stmt{Kind: ast.FunctionDef, Name: "f", Args: &ast.Arguments{}, Body: []ast.StmtIndex{itemsStmt, forStmt}, Range: ast.Range{Start: 0, End: 39}})
	m.Body = []ast.StmtIndex{fnStmt}

	src := []byte("def f():\n    items = []\n    for unused in items:\n        pass\n")
	diags := checker.Check("loop.py", m, &token.Stream{}, src, settings.Default(), rules.DefaultRegistry)

	for _, d := range diags {
		assert.NotEqual(t, "F841", d.RuleCode, "for-loop target must never be reported as an unused variable")
	}
}

// TestCheckNamedTupleFieldTypeQueuesForwardRef exercises the visitCall fix:
// a NamedTuple functional-style field type is re-entered as a type position,
// so a string value that isn't a valid expression is caught the same way a
// malformed deferred annotation would be.
func TestCheckNamedTupleFieldTypeQueuesForwardRef(t *testing.T) {
	m := &ast.Module{}

	nameConst := m.AddExpr(ast.Expr{Kind: ast.Constant, ConstKind: ast.ConstStr_, ConstStr: `"P"`, Range: ast.Range{Start: 12, End: 15}})
	fieldConst := m.AddExpr(ast.Expr{Kind: ast.Constant, ConstKind: ast.ConstStr_, ConstStr: `"x"`, Range: ast.Range{Start: 18, End: 21}})
	typeConst := m.AddExpr(ast.Expr{Kind: ast.Constant, ConstKind: ast.ConstStr_, ConstStr: `"import os"`, Range: ast.Range{Start: 23, End: 34}})
	pairTuple := m.AddExpr(ast.Expr{Kind: ast.Tuple, Elts: []ast.ExprIndex{fieldConst, typeConst}, Range: ast.Range{Start: 17, End: 35}})
	fieldList := m.AddExpr(ast.Expr{Kind: ast.List, Elts: []ast.ExprIndex{pairTuple}, Range: ast.Range{Start: 16, End: 36}})

	funcName := m.AddExpr(ast.Expr{Kind: ast.Name, Id: "NamedTuple", Ctx: ast.Load, Range: ast.Range{Start: 0, End: 10}})
	callExpr := m.AddExpr(ast.Expr{Kind: ast.Call, Func: funcName, CallArgs: []ast.ExprIndex{nameConst, fieldList}, Range: ast.Range{Start: 0, End: 37}})
	exprStmt := m.AddStmt(ast.Stmt{Kind: ast.ExprStmt, ExprValue: callExpr, Range: ast.Range{Start: 0, End: 37}})

	m.Body = []ast.StmtIndex{exprStmt}

	src := []byte(`NamedTuple("P", [("x", "import os")])` + "\n")
	diags := checker.Check("namedtuple.py", m, &token.Stream{}, src, settings.Default(), rules.DefaultRegistry)

	var gotF901 bool
	for _, d := range diags {
		if d.RuleCode == "F901" {
			gotF901 = true
		}
	}
	assert.True(t, gotF901, "expected the NamedTuple field type string to be queued and flagged as an invalid forward reference")
}

// TestCheckMissingDocstringRules exercises the D100/D101/D103 family added
// to consume the checker's VisibleScope tracking: a module, a public class,
// and a public function all missing a docstring are each flagged once,
// selecting the otherwise-off-by-default D category explicitly.
func TestCheckMissingDocstringRules(t *testing.T) {
	m := &ast.Module{}

	classStmt := m.AddStmt(ast.Stmt{Kind: ast.ClassDef, Name: "Widget", Body: []ast.StmtIndex{
		m.AddStmt(ast.Stmt{Kind: ast.Pass, Range: ast.Range{Start: 30, End: 34}}),
	}, Range: ast.Range{Start: 0, End: 34}})

	fnStmt := m.AddStmt(ast.Stmt{Kind: ast.FunctionDef, Name: "helper", Args: &ast.Arguments{}, Body: []ast.StmtIndex{
		m.AddStmt(ast.Stmt{Kind: ast.Pass, Range: ast.Range{Start: 60, End: 64}}),
	}, Range: ast.Range{Start: 40, End: 64}})

	m.Body = []ast.StmtIndex{classStmt, fnStmt}

	src := []byte("class Widget:\n    pass\n\ndef helper():\n    pass\n")
	s, err := settings.Resolve(rules.DefaultRegistry, settings.RuleSelectors{Select: []string{"D"}}, settings.Overrides{})
	require.NoError(t, err)

	diags := checker.Check("undocumented.py", m, &token.Stream{}, src, s, rules.DefaultRegistry)

	var gotD100, gotD101, gotD103 bool
	for _, d := range diags {
		switch d.RuleCode {
		case "D100":
			gotD100 = true
		case "D101":
			gotD101 = true
		case "D103":
			gotD103 = true
		}
	}
	assert.True(t, gotD100, "expected D100 for the undocumented module")
	assert.True(t, gotD101, "expected D101 for the undocumented public class")
	assert.True(t, gotD103, "expected D103 for the undocumented public function")
}

func TestCheckHonorsDisabledRule(t *testing.T) {
	m := buildModule()
	src := []byte("import os\ny = 1\nprint(z)\n")
	s, err := settings.Resolve(rules.DefaultRegistry, settings.RuleSelectors{Ignore: []string{"F401"}}, settings.Overrides{})
	require.NoError(t, err)

	diags := checker.Check("sample.py", m, &token.Stream{}, src, s, rules.DefaultRegistry)
	for _, d := range diags {
		assert.NotEqual(t, "F401", d.RuleCode)
	}
}
