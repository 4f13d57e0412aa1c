// Package theme implements the ordered design-token store populated by
// @theme blocks. Entries keep first-write enumeration order, carry
// reference/inline/default option flags, and resolve namespaced lookups
// for the functional-utility resolver. A side-table holds @keyframes
// blocks hoisted out of theme bodies.
package theme

import (
	"strings"

	"github.com/lusayo-nyondo/tailwindcss/ast"
)

// Options is the per-entry option bitset.
type Options uint8

const (
	None      Options = 0
	Reference Options = 1 << 0
	Inline    Options = 1 << 1
	Default   Options = 1 << 2
)

// Has reports whether all bits in flag are set.
func (o Options) Has(flag Options) bool {
	return o&flag == flag
}

// Entry is one theme token: a custom-property key, its raw value, and
// option flags.
type Entry struct {
	Key     string
	Value   string
	Options Options
}

// Store is the ordered token mapping. Keys are stored without the
// global prefix; the prefix is applied when keys are emitted or
// referenced through var().
type Store struct {
	prefix         string
	entries        map[string]*Entry
	order          []string
	keyframes      map[string]*ast.AtRule
	keyframesOrder []string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		entries:   map[string]*Entry{},
		keyframes: map[string]*ast.AtRule{},
	}
}

// SetPrefix sets the global theme prefix (from @theme prefix(...)).
func (s *Store) SetPrefix(prefix string) {
	s.prefix = prefix
}

// Prefix returns the global theme prefix, "" when unset.
func (s *Store) Prefix() string {
	return s.prefix
}

// Add inserts or overwrites a token. The first write of a key fixes its
// enumeration position. A Default-flagged write never overwrites an
// existing non-default entry; a non-default write replaces a default one.
func (s *Store) Add(key, value string, opts Options) {
	if existing, ok := s.entries[key]; ok {
		if opts.Has(Default) && !existing.Options.Has(Default) {
			return
		}
		existing.Value = value
		existing.Options = opts
		return
	}
	s.entries[key] = &Entry{Key: key, Value: value, Options: opts}
	s.order = append(s.order, key)
}

// Get returns the raw value for key.
func (s *Store) Get(key string) (string, bool) {
	e, ok := s.entries[key]
	if !ok {
		return "", false
	}
	return e.Value, true
}

// Entries returns all tokens in enumeration order.
func (s *Store) Entries() []Entry {
	out := make([]Entry, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, *s.entries[key])
	}
	return out
}

// Len returns the number of stored tokens.
func (s *Store) Len() int {
	return len(s.order)
}

// PrefixedKey returns key with the global prefix applied.
func (s *Store) PrefixedKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return "--" + s.prefix + "-" + strings.TrimPrefix(key, "--")
}

// ResolveValue resolves a token key to the value utilities should emit:
// a var() reference for ordinary entries, the raw value for inline ones.
func (s *Store) ResolveValue(key string) (string, bool) {
	e, ok := s.entries[key]
	if !ok {
		return "", false
	}
	if e.Options.Has(Inline) {
		return e.Value, true
	}
	return "var(" + s.PrefixedKey(key) + ")", true
}

// ResolveNamespace resolves a wildcard token against a candidate's named
// value: namespace "--color-*" (or bare "--color") with name "red-500"
// looks up "--color-red-500".
func (s *Store) ResolveNamespace(namespace, name string) (string, bool) {
	if !strings.HasSuffix(namespace, "-*") {
		namespace += "-*"
	}
	key := strings.TrimSuffix(namespace, "*") + name
	return s.ResolveValue(key)
}

// AddKeyframes records a @keyframes block keyed by its animation name.
// Later blocks with the same name replace earlier ones without changing
// enumeration order.
func (s *Store) AddKeyframes(node *ast.AtRule) {
	name := strings.TrimSpace(node.Params)
	if _, ok := s.keyframes[name]; !ok {
		s.keyframesOrder = append(s.keyframesOrder, name)
	}
	s.keyframes[name] = node
}

// UsedKeyframes returns, in insertion order, the keyframes blocks whose
// name appears as a whitespace-delimited token inside any --animate
// namespaced theme value. Unreferenced keyframes are dropped.
func (s *Store) UsedKeyframes() []*ast.AtRule {
	used := map[string]bool{}
	for _, key := range s.order {
		if !strings.HasPrefix(key, "--animate") {
			continue
		}
		for _, word := range strings.Fields(s.entries[key].Value) {
			used[word] = true
		}
	}
	out := []*ast.AtRule{}
	for _, name := range s.keyframesOrder {
		if used[name] {
			out = append(out, s.keyframes[name])
		}
	}
	return out
}
