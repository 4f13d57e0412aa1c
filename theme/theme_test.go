package theme

import (
	"testing"

	"github.com/lusayo-nyondo/tailwindcss/ast"
)

func TestStore_InsertionOrder(t *testing.T) {
	s := NewStore()
	s.Add("--color-red", "#f00", None)
	s.Add("--color-blue", "#00f", None)
	s.Add("--color-red", "#e00", None) // overwrite keeps position

	entries := s.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Key != "--color-red" || entries[0].Value != "#e00" {
		t.Errorf("entry 0: %+v", entries[0])
	}
	if entries[1].Key != "--color-blue" {
		t.Errorf("entry 1: %+v", entries[1])
	}
}

func TestStore_DefaultDoesNotOverwrite(t *testing.T) {
	s := NewStore()
	s.Add("--spacing", "0.25rem", None)
	s.Add("--spacing", "1rem", Default)
	if v, _ := s.Get("--spacing"); v != "0.25rem" {
		t.Errorf("default write overwrote explicit value: %q", v)
	}

	s.Add("--radius", "4px", Default)
	s.Add("--radius", "8px", None)
	if v, _ := s.Get("--radius"); v != "8px" {
		t.Errorf("explicit write should replace default: %q", v)
	}
}

func TestStore_ResolveValue(t *testing.T) {
	s := NewStore()
	s.Add("--color-red-500", "#ef4444", None)
	s.Add("--font-sans", "ui-sans-serif", Inline)

	if v, ok := s.ResolveValue("--color-red-500"); !ok || v != "var(--color-red-500)" {
		t.Errorf("expected var() reference, got %q (%v)", v, ok)
	}
	if v, ok := s.ResolveValue("--font-sans"); !ok || v != "ui-sans-serif" {
		t.Errorf("inline entries resolve to raw value, got %q (%v)", v, ok)
	}
	if _, ok := s.ResolveValue("--missing"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestStore_ResolveNamespace(t *testing.T) {
	s := NewStore()
	s.Add("--color-red-500", "#ef4444", None)

	if v, ok := s.ResolveNamespace("--color", "red-500"); !ok || v != "var(--color-red-500)" {
		t.Errorf("bare namespace: got %q (%v)", v, ok)
	}
	if v, ok := s.ResolveNamespace("--color-*", "red-500"); !ok || v != "var(--color-red-500)" {
		t.Errorf("wildcard namespace: got %q (%v)", v, ok)
	}
	if _, ok := s.ResolveNamespace("--color", "green-500"); ok {
		t.Error("expected miss for unknown token")
	}
}

func TestStore_Prefix(t *testing.T) {
	s := NewStore()
	s.SetPrefix("tw")
	s.Add("--color-red-500", "#ef4444", None)

	if got := s.PrefixedKey("--color-red-500"); got != "--tw-color-red-500" {
		t.Errorf("unexpected prefixed key %q", got)
	}
	if v, _ := s.ResolveValue("--color-red-500"); v != "var(--tw-color-red-500)" {
		t.Errorf("unexpected resolved value %q", v)
	}
}

func TestStore_ReferenceStillResolvable(t *testing.T) {
	s := NewStore()
	s.Add("--color-red-500", "#ef4444", Reference)
	if _, ok := s.ResolveValue("--color-red-500"); !ok {
		t.Error("reference entries must remain resolvable")
	}
}

func TestStore_UsedKeyframes(t *testing.T) {
	s := NewStore()
	s.Add("--animate-spin", "spin 1s linear infinite", None)
	s.AddKeyframes(ast.NewAtRule("keyframes", "spin",
		ast.NewStyleRule("to", ast.NewDeclaration("transform", "rotate(360deg)")),
	))
	s.AddKeyframes(ast.NewAtRule("keyframes", "unused"))

	used := s.UsedKeyframes()
	if len(used) != 1 {
		t.Fatalf("expected 1 used keyframes block, got %d", len(used))
	}
	if used[0].Params != "spin" {
		t.Errorf("unexpected keyframes %q", used[0].Params)
	}
}

func TestStore_KeyframesMatchShorthandWords(t *testing.T) {
	s := NewStore()
	s.Add("--animate-bounce", "bounce 1s infinite", None)
	s.AddKeyframes(ast.NewAtRule("keyframes", "bounce"))
	s.AddKeyframes(ast.NewAtRule("keyframes", "bounc"))

	used := s.UsedKeyframes()
	if len(used) != 1 || used[0].Params != "bounce" {
		t.Errorf("whitespace-token matching failed: %v", used)
	}
}
