// Package semantic implements the semantic model: the
// scope/binding tracker maintained while the AST checker (internal/checker)
// walks one file.
//
// One flat Binding slice owned by the Model; scopes hold indices into it
// rather than owning Binding values directly, avoiding ownership cycles
// between scopes and the bindings they reference.
package semantic

import (
	"github.com/oxhq/lintcore/internal/ast"
)

// BindingKind enumerates what introduced a name.
type BindingKind int

const (
	BindImport BindingKind = iota
	BindFromImport
	BindSubmoduleImport
	BindStarImport
	BindFutureImport
	BindFunctionDef
	BindClassDef
	BindAssignment
	BindAnnotation
	BindLoopVar
	BindArgument
	BindGlobal
	BindNonlocal
	BindBuiltin
	BindExport
)

// Usage marks one occurrence where a binding was read.
type Usage struct {
	ScopeID int
	Range   ast.Range
}

// BindingContext records whether a binding was created in runtime or typing
// context.
type BindingContext int

const (
	CtxRuntime BindingContext = iota
	CtxTyping
)

// BindingIndex is an offset into Model.Bindings.
type BindingIndex int

// Binding is one name introduction in a scope.
type Binding struct {
	Name    string
	Kind    BindingKind
	Range   ast.Range
	Source  ast.StmtIndex // NoStmt for builtins
	Context BindingContext

	// Import/FromImport/SubmoduleImport payload.
	Local         string
	FullyQualified string
	StarModule    string // StarImport: the module name
	StarLevel     int    // StarImport: relative-import level

	// Export payload (BindExport): the names __all__ lists.
	ExportedNames []string

	RuntimeUsage  *Usage
	TypingUsage   *Usage
	SyntheticUsed bool // explicit re-export (`import a as a`) or similar
}

// Used reports whether any usage mark has been set.
func (b *Binding) Used() bool {
	return b.RuntimeUsage != nil || b.TypingUsage != nil || b.SyntheticUsed
}

// ScopeKind enumerates the kinds of name-resolution regions.
type ScopeKind int

const (
	ScopeModule ScopeKind = iota
	ScopeFunction
	ScopeClass
	ScopeLambda
	ScopeComprehension
)

// ScopeID identifies a scope uniquely within one Model/run.
type ScopeID int

// KindPayload carries the defining statement's header info for
// Function/Class/Lambda scopes, consumed by naming/signature rules.
type KindPayload struct {
	Name       string
	DefStmt    ast.StmtIndex
	Decorators []ast.ExprIndex
}

// Scope is a contiguous region of name resolution.
type Scope struct {
	ID       ScopeID
	Kind     ScopeKind
	Parent   ScopeID // -1 for the module scope
	HasParent bool

	bindings map[string]BindingIndex
	rebounds map[string][]BindingIndex

	StarImported bool
	UsesLocals   bool
	Payload      KindPayload
}

// NewScope constructs an empty scope. Callers obtain scopes through
// Model.PushScope, never by constructing one directly, so ID assignment
// stays centralized.
func newScope(id ScopeID, kind ScopeKind, parent ScopeID, hasParent bool) *Scope {
	return &Scope{
		ID:        id,
		Kind:      kind,
		Parent:    parent,
		HasParent: hasParent,
		bindings:  make(map[string]BindingIndex),
		rebounds:  make(map[string][]BindingIndex),
	}
}

// Model is the running symbol table for one file's traversal. It is owned
// exclusively by the active file's checker and is not safe for concurrent use.
type Model struct {
	Bindings []Binding

	// scopes indexed by ScopeID; scopes are never removed from this slice —
	// closing a scope moves its ID from scopeStack into deadScopes so later
	// passes (unused-import, undefined-export) can still read it.
	scopes     []*Scope
	scopeStack []ScopeID
	deadScopes []ScopeID

	parents []ast.StmtIndex // statement ancestor stack
	exprs   []ast.ExprIndex // expression ancestor stack

	Deferred DeferredQueues
}

// NewModel creates a Model with the module scope (scope 0) already pushed;
// scope 0 is always the module scope.
func NewModel() *Model {
	m := &Model{}
	mod := newScope(0, ScopeModule, -1, false)
	m.scopes = append(m.scopes, mod)
	m.scopeStack = append(m.scopeStack, 0)
	return m
}

// CurrentScope returns the top of the scope stack.
func (m *Model) CurrentScope() *Scope {
	return m.scopes[m.scopeStack[len(m.scopeStack)-1]]
}

// CurrentScopeID returns the ID of the top of the scope stack.
func (m *Model) CurrentScopeID() ScopeID {
	return m.scopeStack[len(m.scopeStack)-1]
}

// PushScope opens a new nested scope and makes it current.
func (m *Model) PushScope(kind ScopeKind, payload KindPayload) ScopeID {
	id := ScopeID(len(m.scopes))
	parent := m.CurrentScopeID()
	s := newScope(id, kind, parent, true)
	s.Payload = payload
	m.scopes = append(m.scopes, s)
	m.scopeStack = append(m.scopeStack, id)
	return id
}

// PopScope finalizes the current scope into the dead-scope list and
// restores the enclosing scope as current.
func (m *Model) PopScope() {
	n := len(m.scopeStack)
	id := m.scopeStack[n-1]
	m.scopeStack = m.scopeStack[:n-1]
	m.deadScopes = append(m.deadScopes, id)
}

// Scope returns the scope with the given ID, live or dead.
func (m *Model) Scope(id ScopeID) *Scope { return m.scopes[id] }

// DeadScopes returns every scope that has been closed so far.
func (m *Model) DeadScopes() []ScopeID { return m.deadScopes }

// StackDepth reports the live scope-stack depth, used by the property P4
// check in checker.Check: once a file is analyzed only the module scope
// remains, so the depth is 1.
func (m *Model) StackDepth() int { return len(m.scopeStack) }

// ScopeStackSnapshot returns a defensive copy of the live scope stack, used
// to capture a deferred continuation's nesting.
func (m *Model) ScopeStackSnapshot() []ScopeID {
	return append([]ScopeID(nil), m.scopeStack...)
}

// RestoreScopeStack re-enters a snapshot of the scope stack captured when a
// deferred continuation (function/lambda/for-loop body) was queued, so its
// postponed traversal sees the same nesting it was captured under. The
// snapshot replaces the live stack outright; a caller pops only the scopes
// it pushes itself, and the checker resets the stack to the module scope
// once every deferred queue is drained.
func (m *Model) RestoreScopeStack(ids []ScopeID) {
	m.scopeStack = append([]ScopeID(nil), ids...)
}

// RestoreParents re-enters a snapshot of the statement ancestor stack for a
// deferred continuation.
func (m *Model) RestoreParents(parents []ast.StmtIndex) {
	m.parents = append([]ast.StmtIndex(nil), parents...)
}

// PushParent/PopParent/PushExpr/PopExpr maintain the ancestor stacks the
// checker's visit_stmt/visit_expr hooks push to and pop from. They are monotone during one traversal: the
// checker is the only caller.

func (m *Model) PushParent(s ast.StmtIndex) { m.parents = append(m.parents, s) }
func (m *Model) PopParent()                 { m.parents = m.parents[:len(m.parents)-1] }
func (m *Model) Parents() []ast.StmtIndex   { return m.parents }
func (m *Model) ParentsDepth() int          { return len(m.parents) }

func (m *Model) PushExpr(e ast.ExprIndex) { m.exprs = append(m.exprs, e) }
func (m *Model) PopExpr()                 { m.exprs = m.exprs[:len(m.exprs)-1] }
func (m *Model) Exprs() []ast.ExprIndex   { return m.exprs }
func (m *Model) ExprsDepth() int          { return len(m.exprs) }

// AddBinding records a new binding for b.Name in the current scope. If a
// binding for that name already exists in the current scope, it is pushed
// into rebounds[name] before being overwritten.
func (m *Model) AddBinding(b Binding) BindingIndex {
	scope := m.CurrentScope()
	idx := BindingIndex(len(m.Bindings))
	m.Bindings = append(m.Bindings, b)
	if prev, ok := scope.bindings[b.Name]; ok {
		scope.rebounds[b.Name] = append(scope.rebounds[b.Name], prev)
	}
	scope.bindings[b.Name] = idx
	return idx
}

// AddBindingNoShadow records a new binding for b.Name in the current scope
// without disturbing any binding already live there: if the name already
// has a current binding, that binding stays current and b is recorded only
// in m.Bindings (reachable by index, but not by name lookup). Used for a
// bare annotation, which documents a name's type without rebinding it.
func (m *Model) AddBindingNoShadow(b Binding) BindingIndex {
	scope := m.CurrentScope()
	idx := BindingIndex(len(m.Bindings))
	m.Bindings = append(m.Bindings, b)
	if _, ok := scope.bindings[b.Name]; !ok {
		scope.bindings[b.Name] = idx
	}
	return idx
}

// Binding returns a pointer to the binding at idx, so callers can mark
// usage in place.
func (m *Model) Binding(idx BindingIndex) *Binding { return &m.Bindings[idx] }

// RemoveBinding deletes name from scope (handle_node_delete's write side).
// It reports whether a binding existed to remove.
func (s *Scope) RemoveBinding(name string) bool {
	if _, ok := s.bindings[name]; !ok {
		return false
	}
	delete(s.bindings, name)
	return true
}

// LocalBinding returns the current binding index for name in this scope
// only (no ancestor lookup).
func (s *Scope) LocalBinding(name string) (BindingIndex, bool) {
	idx, ok := s.bindings[name]
	return idx, ok
}

// Rebounds returns the shadowed prior bindings for name in this scope.
func (s *Scope) Rebounds(name string) []BindingIndex { return s.rebounds[name] }

// OwnBindings returns every binding index this scope has ever held: each
// name's current binding plus everything shadowed into rebounds. Order is
// unspecified.
func (s *Scope) OwnBindings() []BindingIndex {
	out := make([]BindingIndex, 0, len(s.bindings))
	for _, idx := range s.bindings {
		out = append(out, idx)
	}
	for _, indices := range s.rebounds {
		out = append(out, indices...)
	}
	return out
}

// classTransparentNames are resolved through a class scope even when a
// nested function scope is looking for a free variable.
var classTransparentNames = map[string]bool{
	"__class__":    true,
	"__module__":   true,
	"__qualname__": true,
}

// FindResult is the outcome of a name lookup.
type FindResult struct {
	Index        BindingIndex
	Found        bool
	StarImported bool // no binding found, but some enclosing scope is star_imported
}

// FindBinding walks scopes from innermost outward applying the target
// language's free-variable resolution rule: a function nested inside a
// class skips that class's scope when looking up a free variable, except
// for __class__/__module__/__qualname__.
func (m *Model) FindBinding(name string) FindResult {
	stack := m.scopeStack
	starImported := false
	// crossedFunction tracks whether we've already descended past
	// at least one function/lambda scope, the condition under which class
	// scopes become transparent to the lookup.
	crossedFunction := false
	for i := len(stack) - 1; i >= 0; i-- {
		scope := m.scopes[stack[i]]
		if scope.StarImported {
			starImported = true
		}
		skip := scope.Kind == ScopeClass && crossedFunction && !classTransparentNames[name]
		if !skip {
			if idx, ok := scope.bindings[name]; ok {
				return FindResult{Index: idx, Found: true}
			}
		}
		if scope.Kind == ScopeFunction || scope.Kind == ScopeLambda {
			crossedFunction = true
		}
	}
	return FindResult{StarImported: starImported}
}

// ResolveCallPath walks an Attribute/Name chain to its root Name, resolves
// that root as a binding, and — if it is an Import/FromImport — substitutes
// the binding's fully-qualified module path. Relative imports yield no
// resolution. This is the backbone of every rule matching standard-library
// APIs.
func (m *Model) ResolveCallPath(mod *ast.Module, e ast.ExprIndex) ([]string, bool) {
	var trailer []string
	cur := e
	for {
		expr := mod.Expr(cur)
		if expr == nil {
			return nil, false
		}
		switch expr.Kind {
		case ast.Attribute:
			trailer = append([]string{expr.Id}, trailer...)
			cur = expr.Value
		case ast.Name:
			root := expr.Id
			res := m.FindBinding(root)
			if !res.Found {
				return append([]string{root}, trailer...), true
			}
			b := m.Binding(res.Index)
			switch b.Kind {
			case BindImport, BindFromImport, BindSubmoduleImport:
				if b.FullyQualified == "" {
					return nil, false // relative import
				}
				parts := splitDotted(b.FullyQualified)
				return append(parts, trailer...), true
			default:
				return append([]string{root}, trailer...), true
			}
		default:
			return nil, false
		}
	}
}

func splitDotted(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// DeferredFunction is a captured continuation for a function body
// whose analysis is postponed until the primary pass completes, so forward
// references can resolve.
type DeferredFunction struct {
	Stmt       ast.StmtIndex
	Scopes     []ScopeID
	Parents    []ast.StmtIndex
	Visibility VisibleScope
}

// DeferredLambda is the lambda-expression analogue of DeferredFunction.
type DeferredLambda struct {
	Expr    ast.ExprIndex
	Scopes  []ScopeID
	Parents []ast.StmtIndex
}

// DeferredForLoop captures a for-loop whose body is re-entered after the
// primary pass, using the same "process later" deferral shape as the
// other queues, generalized to the target language's for-statement.
type DeferredForLoop struct {
	Stmt    ast.StmtIndex
	Scopes  []ScopeID
	Parents []ast.StmtIndex
}

// DeferredTypeDefinition is an expression in annotation position that must
// be (re-)analyzed with in_type_definition = true.
type DeferredTypeDefinition struct {
	Expr    ast.ExprIndex
	Scopes  []ScopeID
	Parents []ast.StmtIndex
}

// DeferredStringTypeDefinition is a string-literal annotation whose text is
// checked for F901 after the primary pass. Every string constant in
// annotation position is queued, whatever the file's future imports; the
// string is not parsed into an AST.
type DeferredStringTypeDefinition struct {
	Expr    ast.ExprIndex
	Scopes  []ScopeID
	Parents []ast.StmtIndex
}

// DeferredAssignment is a scope whose unused-variable analysis must run
// after its body has been visited.
type DeferredAssignment struct {
	Scope ScopeID
}

// DeferredQueues holds every postponed-work queue the checker drains after
// the primary pass, in a fixed order: functions -> lambdas -> assignments
// -> type-definitions -> string-type-definitions -> for-loops.
type DeferredQueues struct {
	Functions             []DeferredFunction
	Lambdas               []DeferredLambda
	Assignments           []DeferredAssignment
	TypeDefinitions       []DeferredTypeDefinition
	StringTypeDefinitions []DeferredStringTypeDefinition
	ForLoops              []DeferredForLoop
}

// Empty reports whether every deferred queue has been drained — part of
// property test P4 ("every deferred queue has been drained").
func (q *DeferredQueues) Empty() bool {
	return len(q.Functions) == 0 && len(q.Lambdas) == 0 && len(q.Assignments) == 0 &&
		len(q.TypeDefinitions) == 0 && len(q.StringTypeDefinitions) == 0 && len(q.ForLoops) == 0
}

// DefKind is the nearest enclosing definition kind, for docstring rules.
type DefKind int

const (
	DefModule DefKind = iota
	DefClass
	DefFunction
	DefNestedFunction
)

// Visibility is a name's inferred public/private status.
type Visibility int

const (
	VisPublic Visibility = iota
	VisPrivate
)

// VisibleScope tracks the nested definition kind and inferred visibility
// used by docstring rules.
type VisibleScope struct {
	Kind       DefKind
	Visibility Visibility
}

// InferVisibility applies the target language's leading-underscore
// convention.
func InferVisibility(name string) Visibility {
	if len(name) > 0 && name[0] == '_' {
		return VisPrivate
	}
	return VisPublic
}
