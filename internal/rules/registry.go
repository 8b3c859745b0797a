// Package rules implements the rule registry: the code, category, title,
// fix capability and default enablement of every rule. The rule checks
// themselves live in internal/checker.
//
// A mutex-free, map-backed registry: register once at init() time, then
// look up by stable key (rule code -> Rule) for the rest of the process's
// lifetime.
package rules

import "fmt"

// FixCapability describes whether a rule can offer an autofix.
type FixCapability int

const (
	FixNone FixCapability = iota
	FixSometimes
	FixAlways
)

// Category is a coarse grouping used for prefix-based selection
//.
type Category string

const (
	CategoryPyflakes  Category = "F"
	CategoryStyle     Category = "E"
	CategoryWarning   Category = "W"
	CategoryUpgrade   Category = "UP"
	CategorySimplify  Category = "SIM"
	CategoryNaming    Category = "N"
	CategorySecurity  Category = "S"
	CategoryTyping    Category = "TCH"
	CategoryBugbear   Category = "B"
	CategoryDocstring Category = "D"
)

// Rule is one named check: a stable code, its category, a message
// template, fix capability, and default enablement.
type Rule struct {
	Code        string
	Category    Category
	Title       string
	FixCapable  FixCapability
	DefaultOn   bool
}

// Registry enumerates every rule code known to the engine. It is built once
// (via NewRegistry) and treated as read-only afterward; the core never
// mutates it during a checker run.
type Registry struct {
	rules map[string]Rule
	order []string // registration order, preserved for deterministic listing
}

// NewRegistry constructs an empty registry. Use Builtin() for the registry
// populated with every rule this repository ships.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

// Register adds r to the registry. It is an error to register the same
// code twice.
func (reg *Registry) Register(r Rule) error {
	if r.Code == "" {
		return fmt.Errorf("rule must have a non-empty code")
	}
	if _, exists := reg.rules[r.Code]; exists {
		return fmt.Errorf("rule %q already registered", r.Code)
	}
	reg.rules[r.Code] = r
	reg.order = append(reg.order, r.Code)
	return nil
}

// Get returns the rule for code, if known.
func (reg *Registry) Get(code string) (Rule, bool) {
	r, ok := reg.rules[code]
	return r, ok
}

// All returns every registered rule in registration order.
func (reg *Registry) All() []Rule {
	out := make([]Rule, 0, len(reg.order))
	for _, code := range reg.order {
		out = append(out, reg.rules[code])
	}
	return out
}

// DefaultRegistry is the process-wide registry of built-in rules. It is
// populated once at init() and never mutated afterward.
var DefaultRegistry = Builtin()

// Builtin constructs the registry populated with every rule this
// repository implements.
func Builtin() *Registry {
	reg := NewRegistry()
	for _, r := range builtinRules {
		if err := reg.Register(r); err != nil {
			// Registering a hard-coded, compile-time-known table can only
			// fail from a programming mistake (duplicate code); fail loud
			// rather than silently drop a rule.
			panic(err)
		}
	}
	return reg
}

var builtinRules = []Rule{
	{Code: "F401", Category: CategoryPyflakes, Title: "unused-import", FixCapable: FixAlways, DefaultOn: true},
	{Code: "F403", Category: CategoryPyflakes, Title: "star-import-used", FixCapable: FixNone, DefaultOn: true},
	{Code: "F404", Category: CategoryPyflakes, Title: "late-future-import", FixCapable: FixNone, DefaultOn: true},
	{Code: "F405", Category: CategoryPyflakes, Title: "may-be-undefined-or-star-imported", FixCapable: FixNone, DefaultOn: true},
	{Code: "F406", Category: CategoryPyflakes, Title: "undefined-export", FixCapable: FixNone, DefaultOn: true},
	{Code: "F501", Category: CategoryPyflakes, Title: "invalid-noqa-code", FixCapable: FixNone, DefaultOn: true},
	{Code: "F502", Category: CategoryPyflakes, Title: "unused-noqa", FixCapable: FixSometimes, DefaultOn: false},
	{Code: "F811", Category: CategoryPyflakes, Title: "redefined-while-unused", FixCapable: FixNone, DefaultOn: true},
	{Code: "F821", Category: CategoryPyflakes, Title: "undefined-name", FixCapable: FixNone, DefaultOn: true},
	{Code: "F841", Category: CategoryPyflakes, Title: "unused-variable", FixCapable: FixSometimes, DefaultOn: true},
	{Code: "F901", Category: CategoryPyflakes, Title: "forward-annotation-syntax-error", FixCapable: FixNone, DefaultOn: true},
	{Code: "E501", Category: CategoryStyle, Title: "line-too-long", FixCapable: FixNone, DefaultOn: true},
	{Code: "E711", Category: CategoryStyle, Title: "none-comparison", FixCapable: FixAlways, DefaultOn: true},
	{Code: "E712", Category: CategoryStyle, Title: "true-false-comparison", FixCapable: FixAlways, DefaultOn: true},
	{Code: "E722", Category: CategoryStyle, Title: "bare-except", FixCapable: FixNone, DefaultOn: true},
	{Code: "E999", Category: CategoryStyle, Title: "syntax-error", FixCapable: FixNone, DefaultOn: true},
	{Code: "UP007", Category: CategoryUpgrade, Title: "non-pep604-annotation", FixCapable: FixSometimes, DefaultOn: true},
	{Code: "UP036", Category: CategoryUpgrade, Title: "outdated-version-block", FixCapable: FixNone, DefaultOn: true},
	{Code: "SIM300", Category: CategorySimplify, Title: "yoda-conditions", FixCapable: FixAlways, DefaultOn: true},
	{Code: "SIM102", Category: CategorySimplify, Title: "collapsible-if", FixCapable: FixNone, DefaultOn: true},
	{Code: "N801", Category: CategoryNaming, Title: "invalid-class-name", FixCapable: FixNone, DefaultOn: true},
	{Code: "N806", Category: CategoryNaming, Title: "non-lowercase-variable-in-function", FixCapable: FixNone, DefaultOn: true},
	{Code: "B006", Category: CategoryBugbear, Title: "mutable-argument-default", FixCapable: FixNone, DefaultOn: true},
	{Code: "D100", Category: CategoryDocstring, Title: "undocumented-public-module", FixCapable: FixNone, DefaultOn: false},
	{Code: "D101", Category: CategoryDocstring, Title: "undocumented-public-class", FixCapable: FixNone, DefaultOn: false},
	{Code: "D103", Category: CategoryDocstring, Title: "undocumented-public-function", FixCapable: FixNone, DefaultOn: false},
}
