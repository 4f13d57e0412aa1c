package design

import (
	"strings"

	"github.com/lusayo-nyondo/tailwindcss/ast"
)

// Variant is a registered variant: a named transformation wrapping a
// utility's generated rule in selectors or at-rules.
type Variant struct {
	Name string
	// Compound reports whether every composing selector supports
	// compounding with other variants.
	Compound bool

	selectors []string // selector-list form
	template  []ast.Node
}

// NewSelectorVariant builds a variant from trimmed selector-list
// entries. Entries starting with "@" become nested at-rule wrappers;
// the rest are combined into a single style-rule selector.
func NewSelectorVariant(name string, selectors []string) *Variant {
	v := &Variant{Name: name, Compound: true, selectors: selectors}
	for _, sel := range selectors {
		if !compoundsWith(sel) {
			v.Compound = false
		}
	}
	return v
}

// NewASTVariant builds a variant from a template subtree containing
// @slot markers substituted per use.
func NewASTVariant(name string, template []ast.Node) *Variant {
	return &Variant{Name: name, Compound: true, template: template}
}

// compoundsWith reports whether a single selector entry can compound.
// At-rule entries always can; plain selectors must be &-anchored simple
// selectors.
func compoundsWith(sel string) bool {
	if strings.HasPrefix(sel, "@") {
		return true
	}
	return strings.HasPrefix(sel, "&") && !strings.ContainsAny(sel, " >+~")
}

// Apply rewrites rule in place, wrapping its children per the variant.
// Returns false when the variant produces no wrapper (empty selector
// list).
func (v *Variant) Apply(rule *ast.StyleRule) bool {
	if v.template != nil {
		body := ast.CloneNodes(v.template)
		substituteSlots(&body, rule.Nodes)
		rule.Nodes = body
		return true
	}

	var plain []string
	var wrappers []ast.Node
	for _, sel := range v.selectors {
		if strings.HasPrefix(sel, "@") {
			name, params, _ := strings.Cut(strings.TrimPrefix(sel, "@"), " ")
			wrappers = append(wrappers, ast.NewAtRule(name, strings.TrimSpace(params), ast.CloneNodes(rule.Nodes)...))
			continue
		}
		plain = append(plain, sel)
	}
	if len(plain) > 0 {
		styled := ast.NewStyleRule(strings.Join(plain, ", "), ast.CloneNodes(rule.Nodes)...)
		wrappers = append([]ast.Node{styled}, wrappers...)
	}
	if len(wrappers) == 0 {
		return false
	}
	rule.Nodes = wrappers
	return true
}

// substituteSlots replaces every @slot marker with a copy of target.
func substituteSlots(nodes *[]ast.Node, target []ast.Node) {
	for i := 0; i < len(*nodes); i++ {
		switch t := (*nodes)[i].(type) {
		case *ast.AtRule:
			if t.Name == "slot" {
				*nodes = splice(*nodes, i, ast.CloneNodes(target))
				i += len(target) - 1
				continue
			}
			if t.Nodes != nil {
				substituteSlots(&t.Nodes, target)
			}
		case *ast.StyleRule:
			substituteSlots(&t.Nodes, target)
		case *ast.Context:
			substituteSlots(&t.Nodes, target)
		}
	}
}

func splice(nodes []ast.Node, i int, repl []ast.Node) []ast.Node {
	out := make([]ast.Node, 0, len(nodes)-1+len(repl))
	out = append(out, nodes[:i]...)
	out = append(out, repl...)
	out = append(out, nodes[i+1:]...)
	return out
}
