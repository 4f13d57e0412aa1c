package design

import (
	"sort"
	"strings"

	"github.com/lusayo-nyondo/tailwindcss/ast"
	"github.com/lusayo-nyondo/tailwindcss/candidate"
)

// CompileCandidates compiles the full candidate set into style rules.
// Output order is a pure function of the set: candidates are compiled in
// sorted order, so arrival order never changes the result. Candidates
// that resolve to nothing are reported through onInvalid.
func (s *System) CompileCandidates(raws []string, onInvalid func(string)) []ast.Node {
	sorted := make([]string, 0, len(raws))
	seen := map[string]bool{}
	for _, raw := range raws {
		if !seen[raw] {
			seen[raw] = true
			sorted = append(sorted, raw)
		}
	}
	sort.Strings(sorted)

	nodes := []ast.Node{}
	for _, raw := range sorted {
		compiled, ok := s.CompileCandidate(raw)
		if !ok {
			if onInvalid != nil {
				onInvalid(raw)
			}
			continue
		}
		nodes = append(nodes, compiled...)
	}
	return nodes
}

// CompileCandidate compiles one candidate into zero or more rules.
// Returns false when the candidate is invalid: unparseable, matching no
// registered utility, or naming an unknown variant.
func (s *System) CompileCandidate(raw string) ([]ast.Node, bool) {
	c, ok := candidate.Parse(raw, s)
	if !ok {
		return nil, false
	}
	body, ok := s.Resolve(c)
	if !ok || len(body) == 0 {
		return nil, false
	}
	if s.Important || c.Important {
		markImportant(body)
	}

	rule := ast.NewStyleRule("."+EscapeClassName(raw), body...)
	// Variants wrap innermost-first: the rightmost variant ends up
	// closest to the declarations.
	for i := len(c.Variants) - 1; i >= 0; i-- {
		v := s.Variant(c.Variants[i])
		if v == nil {
			return nil, false
		}
		if !v.Apply(rule) {
			return nil, false
		}
	}
	return []ast.Node{rule}, true
}

func markImportant(nodes []ast.Node) {
	for _, n := range nodes {
		switch t := n.(type) {
		case *ast.Declaration:
			t.Important = true
		case *ast.StyleRule:
			markImportant(t.Nodes)
		case *ast.AtRule:
			markImportant(t.Nodes)
		}
	}
}

// EscapeClassName escapes a raw candidate for use in a class selector.
func EscapeClassName(raw string) string {
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		if ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9' || ch == '-' || ch == '_' {
			b.WriteByte(ch)
			continue
		}
		b.WriteByte('\\')
		b.WriteByte(ch)
	}
	return b.String()
}
