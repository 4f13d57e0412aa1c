package ast

// Disposition tells the walker what to do after visiting a node.
type Disposition int

const (
	// Continue descends into the node's children.
	Continue Disposition = iota
	// SkipChildren moves on to the next sibling without descending.
	SkipChildren
	// Stop aborts the walk entirely.
	Stop
)

// Cursor carries per-visit walk state. ReplaceWith splices replacement
// nodes into the parent's child list; the walker re-evaluates from the
// splice position, so replacements are themselves visited, each node at
// most once.
type Cursor struct {
	// Parent is the enclosing rule or at-rule, nil at document level.
	// Context scopes are transparent: children of a top-level Context
	// still report a nil parent.
	Parent Node

	ctx         map[string]string
	replacement []Node
	replaced    bool
}

// Context returns the ambient context value for key, accumulated from
// enclosing Context scopes. Missing keys return "".
func (c *Cursor) Context(key string) string {
	return c.ctx[key]
}

// ReplaceWith replaces the visited node with the given nodes.
// Calling it with no arguments deletes the node.
func (c *Cursor) ReplaceWith(nodes ...Node) {
	c.replacement = nodes
	c.replaced = true
}

// Delete removes the visited node from its parent.
func (c *Cursor) Delete() {
	c.ReplaceWith()
}

// VisitFn is called once per non-context node in document order.
type VisitFn func(n Node, c *Cursor) (Disposition, error)

// Walk performs a single mutating depth-first traversal over nodes.
// Context scopes are not passed to visit; their values are merged into
// the ambient context seen by descendants.
func Walk(nodes *[]Node, visit VisitFn) error {
	_, err := walk(nodes, nil, nil, visit)
	return err
}

func walk(nodes *[]Node, parent Node, ctx map[string]string, visit VisitFn) (stopped bool, err error) {
	for i := 0; i < len(*nodes); i++ {
		n := (*nodes)[i]

		if scope, ok := n.(*Context); ok {
			stopped, err = walk(&scope.Nodes, parent, mergeContext(ctx, scope.Values), visit)
			if stopped || err != nil {
				return stopped, err
			}
			continue
		}

		cur := &Cursor{Parent: parent, ctx: ctx}
		disp, err := visit(n, cur)
		if err != nil {
			return false, err
		}
		if cur.replaced {
			*nodes = splice(*nodes, i, cur.replacement)
			i--
			continue
		}

		switch disp {
		case Stop:
			return true, nil
		case SkipChildren:
			continue
		}

		switch t := n.(type) {
		case *StyleRule:
			stopped, err = walk(&t.Nodes, t, ctx, visit)
		case *AtRule:
			stopped, err = walk(&t.Nodes, t, ctx, visit)
		}
		if stopped || err != nil {
			return stopped, err
		}
	}
	return false, nil
}

func mergeContext(parent, child map[string]string) map[string]string {
	merged := make(map[string]string, len(parent)+len(child))
	for k, v := range parent {
		merged[k] = v
	}
	for k, v := range child {
		merged[k] = v
	}
	return merged
}

func splice(nodes []Node, i int, repl []Node) []Node {
	out := make([]Node, 0, len(nodes)-1+len(repl))
	out = append(out, nodes[:i]...)
	out = append(out, repl...)
	out = append(out, nodes[i+1:]...)
	return out
}
