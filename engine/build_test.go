package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/lusayo-nyondo/tailwindcss/ast"
	"github.com/lusayo-nyondo/tailwindcss/design"
)

const buildFixture = `
	@utility underline {
		text-decoration-line: underline;
	}
	@utility flex {
		display: flex;
	}
	@tailwind utilities;
`

func TestBuild_PlainCSSFastPath(t *testing.T) {
	nodes := ast.MustParse(`.a { color: red; }`)
	c, err := Compile(context.Background(), nodes, Options{})
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	out := c.Build([]string{"ignored"})
	if len(out) != 1 || out[0] != nodes[0] {
		t.Error("plain CSS must pass through without copying or optimizing")
	}
}

func TestBuild_IncrementalAddition(t *testing.T) {
	c := compileCSS(t, buildFixture, Options{})

	first := ast.ToCSS(c.Build([]string{"underline"}))
	if !strings.Contains(first, ".underline {") {
		t.Fatalf("missing utility:\n%s", first)
	}
	if strings.Contains(first, ".flex {") {
		t.Fatalf("unrequested utility present:\n%s", first)
	}

	second := ast.ToCSS(c.Build([]string{"flex"}))
	if !strings.Contains(second, ".underline {") || !strings.Contains(second, ".flex {") {
		t.Errorf("candidate universe must accumulate:\n%s", second)
	}
}

func TestBuild_RepeatIsMemoized(t *testing.T) {
	var compiles int
	counting := func(candidates []string, sys *design.System, onInvalid func(string)) []ast.Node {
		compiles++
		return sys.CompileCandidates(candidates, onInvalid)
	}
	c := compileCSS(t, buildFixture, Options{CandidateCompiler: counting})

	a := c.Build([]string{"underline"})
	b := c.Build([]string{"underline"})
	if compiles != 1 {
		t.Errorf("expected 1 compile, got %d", compiles)
	}
	if len(a) != len(b) {
		t.Fatalf("tree size changed across identical builds")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("node %d: expected identical cached nodes", i)
		}
	}
}

func TestBuild_InvalidCandidateLatched(t *testing.T) {
	var compiles int
	counting := func(candidates []string, sys *design.System, onInvalid func(string)) []ast.Node {
		compiles++
		return sys.CompileCandidates(candidates, onInvalid)
	}
	c := compileCSS(t, buildFixture, Options{CandidateCompiler: counting})

	c.Build([]string{"no-such-utility"})
	c.Build([]string{"no-such-utility"})
	if compiles != 1 {
		t.Errorf("latched invalid candidate must not trigger recompiles, got %d", compiles)
	}
}

func TestBuild_InvalidDeltaKeepsTree(t *testing.T) {
	c := compileCSS(t, buildFixture, Options{})

	valid := c.Build([]string{"underline"})
	mixed := c.Build([]string{"bogus-thing"})
	if len(mixed) != len(valid) {
		t.Fatalf("all-invalid delta changed the tree")
	}
	for i := range valid {
		if valid[i] != mixed[i] {
			t.Errorf("node %d: expected the memoized tree back", i)
		}
	}
}

func TestBuild_NoMarker(t *testing.T) {
	c := compileCSS(t, `
		@theme { --a: 1; }
		.x { width: theme(--a); }
	`, Options{})
	out := ast.ToCSS(c.Build([]string{"underline"}))
	if strings.Contains(out, "underline") {
		t.Errorf("candidates must be ignored without a utilities marker:\n%s", out)
	}
	if !strings.Contains(out, "--a: 1;") {
		t.Errorf("theme output missing:\n%s", out)
	}
}

func TestBuild_EmptyUtilityOutputPruned(t *testing.T) {
	c := compileCSS(t, buildFixture, Options{})
	out := ast.ToCSS(c.Build(nil))
	if strings.Contains(out, "@tailwind") {
		t.Errorf("marker leaked into output:\n%s", out)
	}
	if strings.TrimSpace(out) != "" {
		t.Errorf("expected empty output before any candidate:\n%s", out)
	}
}
