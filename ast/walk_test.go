package ast

import (
	"testing"
)

func TestWalk_VisitOrder(t *testing.T) {
	nodes := []Node{
		NewStyleRule(".a",
			NewDeclaration("color", "red"),
			NewStyleRule(".b", NewDeclaration("color", "blue")),
		),
		NewComment(" tail "),
	}

	var visited []string
	err := Walk(&nodes, func(n Node, c *Cursor) (Disposition, error) {
		switch v := n.(type) {
		case *StyleRule:
			visited = append(visited, v.Selector)
		case *Declaration:
			visited = append(visited, v.Property+"="+v.Value)
		case *Comment:
			visited = append(visited, "comment")
		}
		return Continue, nil
	})
	if err != nil {
		t.Fatalf("walk error: %v", err)
	}

	expected := []string{".a", "color=red", ".b", "color=blue", "comment"}
	if len(visited) != len(expected) {
		t.Fatalf("expected %d visits, got %d: %v", len(expected), len(visited), visited)
	}
	for i, e := range expected {
		if visited[i] != e {
			t.Errorf("visit %d: expected %q, got %q", i, e, visited[i])
		}
	}
}

func TestWalk_ReplaceRevisitsReplacement(t *testing.T) {
	nodes := []Node{
		NewAtRule("wrapper", "",
			NewDeclaration("color", "red"),
			NewDeclaration("color", "blue"),
		),
	}

	var visited []string
	err := Walk(&nodes, func(n Node, c *Cursor) (Disposition, error) {
		switch v := n.(type) {
		case *AtRule:
			// Unwrap: replace the at-rule with its children.
			c.ReplaceWith(v.Nodes...)
		case *Declaration:
			visited = append(visited, v.Value)
		}
		return Continue, nil
	})
	if err != nil {
		t.Fatalf("walk error: %v", err)
	}

	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes after unwrap, got %d", len(nodes))
	}
	if len(visited) != 2 || visited[0] != "red" || visited[1] != "blue" {
		t.Errorf("expected replacements visited once each, got %v", visited)
	}
}

func TestWalk_Delete(t *testing.T) {
	nodes := []Node{
		NewComment("a"),
		NewComment("b"),
		NewComment("c"),
	}

	err := Walk(&nodes, func(n Node, c *Cursor) (Disposition, error) {
		if v, ok := n.(*Comment); ok && v.Text == "b" {
			c.Delete()
		}
		return Continue, nil
	})
	if err != nil {
		t.Fatalf("walk error: %v", err)
	}

	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
	if nodes[0].(*Comment).Text != "a" || nodes[1].(*Comment).Text != "c" {
		t.Errorf("unexpected nodes after delete: %v", nodes)
	}
}

func TestWalk_SkipChildren(t *testing.T) {
	nodes := []Node{
		NewStyleRule(".a", NewDeclaration("color", "red")),
	}

	var sawDecl bool
	err := Walk(&nodes, func(n Node, c *Cursor) (Disposition, error) {
		switch n.(type) {
		case *StyleRule:
			return SkipChildren, nil
		case *Declaration:
			sawDecl = true
		}
		return Continue, nil
	})
	if err != nil {
		t.Fatalf("walk error: %v", err)
	}
	if sawDecl {
		t.Error("expected declaration to be skipped")
	}
}

func TestWalk_Stop(t *testing.T) {
	nodes := []Node{
		NewComment("a"),
		NewComment("b"),
	}

	var visits int
	err := Walk(&nodes, func(n Node, c *Cursor) (Disposition, error) {
		visits++
		return Stop, nil
	})
	if err != nil {
		t.Fatalf("walk error: %v", err)
	}
	if visits != 1 {
		t.Errorf("expected 1 visit, got %d", visits)
	}
}

func TestWalk_ContextMerge(t *testing.T) {
	nodes := []Node{
		NewContext(map[string]string{"base": "/outer", "flag": "yes"},
			NewContext(map[string]string{"base": "/inner"},
				NewComment("probe"),
			),
		),
	}

	err := Walk(&nodes, func(n Node, c *Cursor) (Disposition, error) {
		if base := c.Context("base"); base != "/inner" {
			t.Errorf("expected inner base to override, got %q", base)
		}
		if flag := c.Context("flag"); flag != "yes" {
			t.Errorf("expected inherited flag, got %q", flag)
		}
		return Continue, nil
	})
	if err != nil {
		t.Fatalf("walk error: %v", err)
	}
}

func TestWalk_ContextChildrenKeepTopLevelParent(t *testing.T) {
	nodes := []Node{
		NewContext(nil, NewComment("probe")),
	}

	err := Walk(&nodes, func(n Node, c *Cursor) (Disposition, error) {
		if c.Parent != nil {
			t.Errorf("expected nil parent through transparent scope, got %v", c.Parent)
		}
		return Continue, nil
	})
	if err != nil {
		t.Fatalf("walk error: %v", err)
	}
}
