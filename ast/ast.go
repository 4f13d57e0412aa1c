// Package ast defines the CSS syntax tree the directive engine rewrites.
// The tree is a tagged union over five node kinds: style rules, at-rules,
// declarations, comments, and transparent context scopes carrying ambient
// key/value state for the walk. Every node exclusively owns its children.
package ast

// Node is the interface implemented by all tree node kinds.
type Node interface {
	node()
}

// StyleRule is a selector with a block of child nodes.
type StyleRule struct {
	Selector string
	Nodes    []Node
}

// AtRule is an at-rule with a name (without the leading "@"), a raw
// parameter string, and child nodes. Nodes is nil for statement-form
// at-rules terminated by a semicolon, non-nil (possibly empty) for
// block-form at-rules.
type AtRule struct {
	Name   string
	Params string
	Nodes  []Node
}

// Declaration is a property/value pair.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// Comment is a /* ... */ comment. Text excludes the delimiters.
type Comment struct {
	Text string
}

// Context is a transparent scope node. It never appears in printed
// output; its Values map is merged into the ambient walk context for
// all descendants, child entries overriding inherited ones.
type Context struct {
	Values map[string]string
	Nodes  []Node
}

func (*StyleRule) node()   {}
func (*AtRule) node()      {}
func (*Declaration) node() {}
func (*Comment) node()     {}
func (*Context) node()     {}

// NewStyleRule creates a style rule with the given selector and children.
func NewStyleRule(selector string, nodes ...Node) *StyleRule {
	return &StyleRule{Selector: selector, Nodes: nodes}
}

// NewAtRule creates a block-form at-rule. Name must not include the "@".
func NewAtRule(name, params string, nodes ...Node) *AtRule {
	if nodes == nil {
		nodes = []Node{}
	}
	return &AtRule{Name: name, Params: params, Nodes: nodes}
}

// NewAtStatement creates a statement-form at-rule (no block).
func NewAtStatement(name, params string) *AtRule {
	return &AtRule{Name: name, Params: params}
}

// NewDeclaration creates a declaration.
func NewDeclaration(property, value string) *Declaration {
	return &Declaration{Property: property, Value: value}
}

// NewComment creates a comment node.
func NewComment(text string) *Comment {
	return &Comment{Text: text}
}

// NewContext creates a context scope wrapping the given children.
func NewContext(values map[string]string, nodes ...Node) *Context {
	if values == nil {
		values = map[string]string{}
	}
	return &Context{Values: values, Nodes: nodes}
}

// Clone deep-copies a node and its subtree.
func Clone(n Node) Node {
	switch t := n.(type) {
	case *StyleRule:
		return &StyleRule{Selector: t.Selector, Nodes: CloneNodes(t.Nodes)}
	case *AtRule:
		c := &AtRule{Name: t.Name, Params: t.Params}
		if t.Nodes != nil {
			c.Nodes = CloneNodes(t.Nodes)
			if c.Nodes == nil {
				c.Nodes = []Node{}
			}
		}
		return c
	case *Declaration:
		return &Declaration{Property: t.Property, Value: t.Value, Important: t.Important}
	case *Comment:
		return &Comment{Text: t.Text}
	case *Context:
		values := make(map[string]string, len(t.Values))
		for k, v := range t.Values {
			values[k] = v
		}
		return &Context{Values: values, Nodes: CloneNodes(t.Nodes)}
	}
	return nil
}

// CloneNodes deep-copies a node list.
func CloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = Clone(n)
	}
	return out
}
