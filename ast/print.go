package ast

import "strings"

// ToCSS renders a node list as indented CSS. Context scopes print their
// children at the same depth.
func ToCSS(nodes []Node) string {
	var b strings.Builder
	printNodes(&b, nodes, 0)
	return b.String()
}

// NodeToCSS renders a single node, used for error context snippets.
func NodeToCSS(n Node) string {
	var b strings.Builder
	printNode(&b, n, 0)
	return b.String()
}

func printNodes(b *strings.Builder, nodes []Node, depth int) {
	for _, n := range nodes {
		printNode(b, n, depth)
	}
}

func printNode(b *strings.Builder, n Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch t := n.(type) {
	case *StyleRule:
		b.WriteString(indent)
		b.WriteString(t.Selector)
		b.WriteString(" {\n")
		printNodes(b, t.Nodes, depth+1)
		b.WriteString(indent)
		b.WriteString("}\n")
	case *AtRule:
		b.WriteString(indent)
		b.WriteString("@")
		b.WriteString(t.Name)
		if t.Params != "" {
			b.WriteString(" ")
			b.WriteString(t.Params)
		}
		if t.Nodes == nil {
			b.WriteString(";\n")
			return
		}
		b.WriteString(" {\n")
		printNodes(b, t.Nodes, depth+1)
		b.WriteString(indent)
		b.WriteString("}\n")
	case *Declaration:
		b.WriteString(indent)
		b.WriteString(t.Property)
		b.WriteString(": ")
		b.WriteString(t.Value)
		if t.Important {
			b.WriteString(" !important")
		}
		b.WriteString(";\n")
	case *Comment:
		b.WriteString(indent)
		b.WriteString("/*")
		b.WriteString(t.Text)
		b.WriteString("*/\n")
	case *Context:
		printNodes(b, t.Nodes, depth)
	}
}
