package design

import (
	"strings"
	"testing"

	"github.com/lusayo-nyondo/tailwindcss/ast"
	"github.com/lusayo-nyondo/tailwindcss/theme"
)

func newCompileSystem() *System {
	th := theme.NewStore()
	th.Add("--color-red-500", "#ef4444", theme.None)
	s := NewSystem(th)
	s.Register([]Registration{
		{Kind: RegisterStaticUtility, Name: "underline", Body: ast.MustParse(
			`* { text-decoration-line: underline; }`)[0].(*ast.StyleRule).Nodes},
		{Kind: RegisterFunctionalUtility, Name: "bg", Body: ast.MustParse(
			`* { background-color: value(--color, [color]); }`)[0].(*ast.StyleRule).Nodes},
		{Kind: RegisterSelectorVariant, Name: "hover", Selectors: []string{"&:hover"}},
	})
	return s
}

func TestCompileCandidate_Static(t *testing.T) {
	s := newCompileSystem()
	nodes, ok := s.CompileCandidate("underline")
	if !ok {
		t.Fatal("expected compile to succeed")
	}
	rule := nodes[0].(*ast.StyleRule)
	if rule.Selector != ".underline" {
		t.Errorf("unexpected selector %q", rule.Selector)
	}
	decl := rule.Nodes[0].(*ast.Declaration)
	if decl.Property != "text-decoration-line" || decl.Value != "underline" {
		t.Errorf("unexpected body: %+v", decl)
	}
}

func TestCompileCandidate_EscapedSelector(t *testing.T) {
	s := newCompileSystem()
	nodes, ok := s.CompileCandidate("bg-[#ff0000]")
	if !ok {
		t.Fatal("expected compile to succeed")
	}
	rule := nodes[0].(*ast.StyleRule)
	if rule.Selector != `.bg-\[\#ff0000\]` {
		t.Errorf("unexpected selector %q", rule.Selector)
	}
}

func TestCompileCandidate_Variant(t *testing.T) {
	s := newCompileSystem()
	nodes, ok := s.CompileCandidate("hover:underline")
	if !ok {
		t.Fatal("expected compile to succeed")
	}
	rule := nodes[0].(*ast.StyleRule)
	if rule.Selector != `.hover\:underline` {
		t.Errorf("unexpected selector %q", rule.Selector)
	}
	inner := rule.Nodes[0].(*ast.StyleRule)
	if inner.Selector != "&:hover" {
		t.Errorf("unexpected wrapper %q", inner.Selector)
	}
}

func TestCompileCandidate_UnknownVariant(t *testing.T) {
	s := newCompileSystem()
	if _, ok := s.CompileCandidate("focus:underline"); ok {
		t.Error("expected unknown variant to invalidate the candidate")
	}
}

func TestCompileCandidate_Important(t *testing.T) {
	s := newCompileSystem()
	nodes, ok := s.CompileCandidate("underline!")
	if !ok {
		t.Fatal("expected compile to succeed")
	}
	decl := nodes[0].(*ast.StyleRule).Nodes[0].(*ast.Declaration)
	if !decl.Important {
		t.Error("expected important declaration")
	}
}

func TestCompileCandidate_SystemImportant(t *testing.T) {
	s := newCompileSystem()
	s.Important = true
	nodes, ok := s.CompileCandidate("underline")
	if !ok {
		t.Fatal("expected compile to succeed")
	}
	decl := nodes[0].(*ast.StyleRule).Nodes[0].(*ast.Declaration)
	if !decl.Important {
		t.Error("expected system-wide important to mark declarations")
	}
}

func TestCompileCandidates_DeterministicOrder(t *testing.T) {
	s := newCompileSystem()
	a := s.CompileCandidates([]string{"underline", "bg-red-500"}, nil)
	b := s.CompileCandidates([]string{"bg-red-500", "underline", "bg-red-500"}, nil)
	if ast.ToCSS(a) != ast.ToCSS(b) {
		t.Errorf("arrival order changed output:\n%s\nvs\n%s", ast.ToCSS(a), ast.ToCSS(b))
	}
	if first := a[0].(*ast.StyleRule).Selector; first != ".bg-red-500" {
		t.Errorf("expected sorted order, first rule %q", first)
	}
}

func TestCompileCandidates_ReportsInvalid(t *testing.T) {
	s := newCompileSystem()
	var invalid []string
	nodes := s.CompileCandidates([]string{"underline", "no-such-thing"}, func(raw string) {
		invalid = append(invalid, raw)
	})
	if len(invalid) != 1 || invalid[0] != "no-such-thing" {
		t.Errorf("unexpected invalid set %v", invalid)
	}
	if !strings.Contains(ast.ToCSS(nodes), ".underline") {
		t.Errorf("valid candidate missing from output")
	}
}
