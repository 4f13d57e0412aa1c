// Package design implements the design system built once per compile:
// the utility and variant registries, the registration command queue
// drained against them, the functional-utility resolver, and a built-in
// candidate-to-AST compiler.
package design

import (
	"github.com/lusayo-nyondo/tailwindcss/ast"
	"github.com/lusayo-nyondo/tailwindcss/candidate"
	"github.com/lusayo-nyondo/tailwindcss/theme"
)

// RegistrationKind tags a queued registration command.
type RegistrationKind int

const (
	RegisterStaticUtility RegistrationKind = iota
	RegisterFunctionalUtility
	RegisterSelectorVariant
	RegisterASTVariant
)

// Registration is one deferred registration command. The directive
// processor queues these while walking the tree; the queue is drained
// against the system once it exists, keeping registration order explicit
// and replayable.
type Registration struct {
	Kind RegistrationKind
	// Name is the utility or variant name. Functional utility names
	// carry the root only, without the "-*" suffix.
	Name string
	// Body is the utility declaration body or the variant template
	// subtree (for ASTVariant, containing @slot markers).
	Body []ast.Node
	// Selectors holds the trimmed entries of a selector-list variant.
	Selectors []string
}

// System is the design-system handle: theme resolution plus the utility
// and variant registries.
type System struct {
	Theme     *theme.Store
	Important bool

	static     map[string][]ast.Node
	functional map[string]*FunctionalUtility
	variants   map[string]*Variant
}

// NewSystem creates an empty design system around a theme store.
func NewSystem(th *theme.Store) *System {
	return &System{
		Theme:      th,
		static:     map[string][]ast.Node{},
		functional: map[string]*FunctionalUtility{},
		variants:   map[string]*Variant{},
	}
}

// Register drains a registration queue in order. Later registrations of
// the same name shadow earlier ones.
func (s *System) Register(regs []Registration) {
	for _, r := range regs {
		switch r.Kind {
		case RegisterStaticUtility:
			s.static[r.Name] = r.Body
		case RegisterFunctionalUtility:
			s.functional[r.Name] = &FunctionalUtility{Root: r.Name, Body: r.Body, Theme: s.Theme}
		case RegisterSelectorVariant:
			s.variants[r.Name] = NewSelectorVariant(r.Name, r.Selectors)
		case RegisterASTVariant:
			s.variants[r.Name] = NewASTVariant(r.Name, r.Body)
		}
	}
}

// HasStatic reports whether a static utility is registered under name.
func (s *System) HasStatic(name string) bool {
	_, ok := s.static[name]
	return ok
}

// HasFunctional reports whether a functional utility root is registered.
func (s *System) HasFunctional(root string) bool {
	_, ok := s.functional[root]
	return ok
}

// Variant returns a registered variant, nil when unknown.
func (s *System) Variant(name string) *Variant {
	return s.variants[name]
}

// StaticBody returns a deep copy of a static utility's body.
func (s *System) StaticBody(name string) ([]ast.Node, bool) {
	body, ok := s.static[name]
	if !ok {
		return nil, false
	}
	return ast.CloneNodes(body), true
}

// Resolve applies a parsed candidate's utility, returning the resolved
// declaration body or false when no registered utility applies.
func (s *System) Resolve(c *candidate.Candidate) ([]ast.Node, bool) {
	if c.Value == nil && c.Modifier == nil && !c.Negative {
		if body, ok := s.StaticBody(c.Root); ok {
			return body, true
		}
	}
	if fn, ok := s.functional[c.Root]; ok {
		return fn.Resolve(c)
	}
	return nil, false
}
