package engine

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/lusayo-nyondo/tailwindcss/ast"
	"github.com/lusayo-nyondo/tailwindcss/buildlog"
	"github.com/lusayo-nyondo/tailwindcss/cache"
	"github.com/lusayo-nyondo/tailwindcss/design"
)

// Compiler is the long-lived incremental build handle for one compile
// session. It owns the accumulated candidate universe and the last
// compiled tree. Callers must serialize Build calls; concurrent builds
// against the same session are undefined.
type Compiler struct {
	sessionID string
	tree      []ast.Node
	sys       *design.System
	marker    *ast.Context
	features  Features
	root      RootDescriptor
	globs     []SourceGlob
	cache     *cache.BuildCache
	compile   CandidateCompiler
	log       zerolog.Logger
	journal   *buildlog.Log
	seq       int
}

// SessionID returns the session's unique identifier.
func (c *Compiler) SessionID() string {
	return c.sessionID
}

// DesignSystem returns the session's design-system handle.
func (c *Compiler) DesignSystem() *design.System {
	return c.sys
}

// Features returns the observed feature bitset.
func (c *Compiler) Features() Features {
	return c.features
}

// Root returns the root/source descriptor.
func (c *Compiler) Root() RootDescriptor {
	return c.root
}

// SourceGlobs returns the discovered @source globs in document order.
func (c *Compiler) SourceGlobs() []SourceGlob {
	return c.globs
}

// Build merges newCandidates into the session's candidate universe and
// returns the compiled tree, recompiling only when the merge added
// previously unseen candidates whose output actually changed.
func (c *Compiler) Build(newCandidates []string) []ast.Node {
	start := time.Now()
	c.seq++

	tree, added, recompiled := c.build(newCandidates)

	stats := c.cache.Stats()
	c.log.Debug().
		Str("session", c.sessionID).
		Int("seq", c.seq).
		Int("added", added).
		Int("valid", stats.Valid).
		Int("invalid", stats.Invalid).
		Bool("recompiled", recompiled).
		Dur("elapsed", time.Since(start)).
		Msg("build")

	if c.journal != nil {
		if err := c.journal.Record(buildlog.Entry{
			Session:    c.sessionID,
			Seq:        c.seq,
			Added:      added,
			Valid:      stats.Valid,
			Invalid:    stats.Invalid,
			Nodes:      c.cache.NodeCount(),
			Recompiled: recompiled,
			Elapsed:    time.Since(start),
		}); err != nil {
			c.log.Warn().Err(err).Msg("recording build journal entry")
		}
	}
	return tree
}

func (c *Compiler) build(newCandidates []string) (tree []ast.Node, added int, recompiled bool) {
	// Plain CSS without any special directive passes through untouched.
	if c.features == 0 {
		return c.tree, 0, false
	}
	// No utilities marker: candidates have nowhere to go.
	if c.marker == nil {
		return c.memoized(), 0, false
	}
	added = c.cache.AddValid(newCandidates)
	if added == 0 {
		return c.memoized(), 0, false
	}

	// Recompile from the full accumulated set so output order is a
	// function of the set, not of candidate arrival order.
	nodes := c.compile(c.cache.Valid(), c.sys, c.cache.MarkInvalid)

	// Same node count means the run rediscovered the same total output
	// (the delta was all-invalid); keep the memoized tree.
	if len(nodes) == c.cache.NodeCount() {
		return c.memoized(), added, false
	}

	c.marker.Nodes = nodes
	c.cache.SetNodeCount(len(nodes))
	c.tree = ast.Optimize(c.tree)
	c.cache.SetTree(c.tree)
	return c.tree, added, true
}

// memoized returns the cached optimized tree, computing it once per
// session when no build has populated it yet.
func (c *Compiler) memoized() []ast.Node {
	if tree, ok := c.cache.Tree(); ok {
		return tree
	}
	tree := ast.Optimize(c.tree)
	c.cache.SetTree(tree)
	return tree
}
