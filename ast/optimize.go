package ast

// Optimize prunes nodes that cannot affect output: style rules with no
// children and block at-rules whose block became empty. Context scopes
// are kept (they are invisible and may be repopulated by later builds);
// only their children are pruned.
func Optimize(nodes []Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		switch t := n.(type) {
		case *StyleRule:
			t.Nodes = Optimize(t.Nodes)
			if len(t.Nodes) == 0 {
				continue
			}
		case *AtRule:
			if t.Nodes != nil {
				t.Nodes = Optimize(t.Nodes)
				if len(t.Nodes) == 0 && !selfClosingAtRule(t.Name) {
					continue
				}
			}
		case *Context:
			t.Nodes = Optimize(t.Nodes)
		}
		out = append(out, n)
	}
	return out
}

// selfClosingAtRule reports at-rules that are meaningful with an empty
// block and must survive optimization.
func selfClosingAtRule(name string) bool {
	switch name {
	case "font-face", "page", "property", "layer":
		return true
	}
	return false
}
