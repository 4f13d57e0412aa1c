// Package cache holds the per-session incremental build state: the
// monotonically growing set of known-valid candidates, the permanent
// memo of known-invalid ones, the last compiled node count, and the
// memoized optimized tree. It exists to keep repeated dev-loop builds
// cheap by short-circuiting recompilation.
package cache

import (
	"github.com/lusayo-nyondo/tailwindcss/ast"
)

// BuildCache is the candidate universe for one compile session. It is
// not safe for concurrent use; Build callers serialize (single-writer).
type BuildCache struct {
	valid      map[string]bool
	validOrder []string
	invalid    map[string]bool

	nodeCount int
	tree      []ast.Node
	hasTree   bool

	hits   int64
	misses int64
}

// New creates an empty build cache.
func New() *BuildCache {
	return &BuildCache{
		valid:   map[string]bool{},
		invalid: map[string]bool{},
	}
}

// AddValid merges candidates into the valid set, skipping duplicates and
// anything already latched invalid. Returns how many were added.
func (c *BuildCache) AddValid(candidates []string) int {
	added := 0
	for _, cand := range candidates {
		if c.valid[cand] || c.invalid[cand] {
			continue
		}
		c.valid[cand] = true
		c.validOrder = append(c.validOrder, cand)
		added++
	}
	return added
}

// Valid returns the accumulated valid set in insertion order.
func (c *BuildCache) Valid() []string {
	return c.validOrder
}

// MarkInvalid latches a candidate as invalid for the session. It is
// never retried, even if registrations change later.
func (c *BuildCache) MarkInvalid(candidate string) {
	if c.invalid[candidate] {
		return
	}
	c.invalid[candidate] = true
	if c.valid[candidate] {
		delete(c.valid, candidate)
		for i, v := range c.validOrder {
			if v == candidate {
				c.validOrder = append(c.validOrder[:i], c.validOrder[i+1:]...)
				break
			}
		}
	}
}

// InvalidCount returns the number of latched invalid candidates.
func (c *BuildCache) InvalidCount() int {
	return len(c.invalid)
}

// NodeCount returns the node count of the last compiled output.
func (c *BuildCache) NodeCount() int {
	return c.nodeCount
}

// SetNodeCount records the node count of a fresh compile.
func (c *BuildCache) SetNodeCount(n int) {
	c.nodeCount = n
}

// Tree returns the memoized optimized tree. ok is false before the
// first SetTree.
func (c *BuildCache) Tree() (tree []ast.Node, ok bool) {
	if c.hasTree {
		c.hits++
	} else {
		c.misses++
	}
	return c.tree, c.hasTree
}

// SetTree memoizes the optimized tree.
func (c *BuildCache) SetTree(tree []ast.Node) {
	c.tree = tree
	c.hasTree = true
}

// Stats reports cache effectiveness for logging.
type Stats struct {
	Valid   int
	Invalid int
	Hits    int64
	Misses  int64
}

// Stats returns current counters.
func (c *BuildCache) Stats() Stats {
	return Stats{
		Valid:   len(c.valid),
		Invalid: len(c.invalid),
		Hits:    c.hits,
		Misses:  c.misses,
	}
}
