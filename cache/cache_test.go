package cache

import (
	"testing"

	"github.com/lusayo-nyondo/tailwindcss/ast"
)

func TestAddValid(t *testing.T) {
	c := New()
	if added := c.AddValid([]string{"a", "b", "a"}); added != 2 {
		t.Errorf("expected 2 added, got %d", added)
	}
	if added := c.AddValid([]string{"b", "c"}); added != 1 {
		t.Errorf("expected 1 added, got %d", added)
	}
	got := c.Valid()
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("unexpected valid set %v", got)
	}
}

func TestMarkInvalid_Latches(t *testing.T) {
	c := New()
	c.AddValid([]string{"a", "b"})
	c.MarkInvalid("b")

	if got := c.Valid(); len(got) != 1 || got[0] != "a" {
		t.Errorf("expected invalid candidate removed, got %v", got)
	}
	if added := c.AddValid([]string{"b"}); added != 0 {
		t.Errorf("latched candidate re-added: %d", added)
	}
	if c.InvalidCount() != 1 {
		t.Errorf("unexpected invalid count %d", c.InvalidCount())
	}
}

func TestTree_Memoization(t *testing.T) {
	c := New()
	if _, ok := c.Tree(); ok {
		t.Error("expected miss before SetTree")
	}
	tree := []ast.Node{ast.NewComment("x")}
	c.SetTree(tree)
	got, ok := c.Tree()
	if !ok {
		t.Fatal("expected hit after SetTree")
	}
	if len(got) != 1 || got[0] != tree[0] {
		t.Error("expected the identical memoized slice")
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestNodeCount(t *testing.T) {
	c := New()
	if c.NodeCount() != 0 {
		t.Errorf("expected zero initial node count")
	}
	c.SetNodeCount(7)
	if c.NodeCount() != 7 {
		t.Errorf("unexpected node count %d", c.NodeCount())
	}
}
