package design

import (
	"strings"

	"github.com/lusayo-nyondo/tailwindcss/ast"
	"github.com/lusayo-nyondo/tailwindcss/candidate"
	"github.com/lusayo-nyondo/tailwindcss/datatype"
	"github.com/lusayo-nyondo/tailwindcss/theme"
)

// FunctionalUtility is a registered functional utility: a root name and
// a declaration body whose value(...)/modifier(...) placeholder calls
// are resolved per candidate.
type FunctionalUtility struct {
	Root  string
	Body  []ast.Node
	Theme *theme.Store
}

// bareTypes are the type names accepted as bare value()/modifier()
// alternatives.
var bareTypes = map[string]datatype.Type{
	"number":     datatype.Number,
	"integer":    datatype.Integer,
	"ratio":      datatype.Ratio,
	"percentage": datatype.Percentage,
}

type resolveState struct {
	sawValue         bool
	resolvedValue    bool
	sawModifier      bool
	resolvedModifier bool
}

// Resolve resolves the utility body against a candidate. It works on a
// deep copy of the body; the candidate itself is never mutated. Returns
// false when the utility does not apply to this candidate.
func (u *FunctionalUtility) Resolve(c *candidate.Candidate) ([]ast.Node, bool) {
	// Functional utilities require a value; the no-value case belongs
	// to static utilities.
	if c.Value == nil {
		return nil, false
	}
	state := &resolveState{}
	out := u.resolveNodes(ast.CloneNodes(u.Body), c, state)
	if state.sawValue && !state.resolvedValue {
		return nil, false
	}
	if c.Modifier != nil && state.sawModifier && !state.resolvedModifier {
		return nil, false
	}
	return out, true
}

func (u *FunctionalUtility) resolveNodes(nodes []ast.Node, c *candidate.Candidate, state *resolveState) []ast.Node {
	out := nodes[:0]
	for _, n := range nodes {
		switch t := n.(type) {
		case *ast.Declaration:
			if !strings.Contains(t.Value, "value(") && !strings.Contains(t.Value, "modifier(") {
				out = append(out, t)
				continue
			}
			resolved, ok := u.substitute(t.Value, c, state)
			if !ok {
				// Declarations whose placeholder never resolves are
				// dropped, not emitted with a dangling call.
				continue
			}
			t.Value = resolved
			out = append(out, t)
		case *ast.StyleRule:
			t.Nodes = u.resolveNodes(t.Nodes, c, state)
			out = append(out, t)
		case *ast.AtRule:
			if t.Nodes != nil {
				t.Nodes = u.resolveNodes(t.Nodes, c, state)
			}
			out = append(out, t)
		default:
			out = append(out, n)
		}
	}
	return out
}

// substitute replaces every value(...)/modifier(...) call in text.
// Returns false when any call in the declaration fails to resolve.
func (u *FunctionalUtility) substitute(text string, c *candidate.Candidate, state *resolveState) (string, bool) {
	for _, fn := range []string{"value", "modifier"} {
		for {
			start, argStart, argEnd := findCall(text, fn)
			if start < 0 {
				break
			}
			part := c.Value
			if fn == "modifier" {
				part = c.Modifier
				state.sawModifier = true
			} else {
				state.sawValue = true
			}
			if part == nil {
				// modifier(...) without a candidate modifier drops the
				// declaration without failing the whole utility.
				return "", false
			}
			repl, ok := u.resolveCall(text[argStart:argEnd], part, c.Negative)
			if !ok {
				return "", false
			}
			if fn == "modifier" {
				state.resolvedModifier = true
			} else {
				state.resolvedValue = true
			}
			text = text[:start] + repl + text[argEnd+1:]
		}
	}
	return text, true
}

// resolveCall tries each comma-separated alternative in order and
// returns the first resolution.
func (u *FunctionalUtility) resolveCall(args string, part *candidate.Value, negative bool) (string, bool) {
	for _, arg := range splitArgs(args) {
		arg = strings.TrimSpace(arg)
		if repl, ok := u.resolveAlternative(arg, part); ok {
			if negative {
				repl = "calc(" + repl + " * -1)"
			}
			return repl, true
		}
	}
	return "", false
}

func (u *FunctionalUtility) resolveAlternative(arg string, part *candidate.Value) (string, bool) {
	switch {
	case strings.HasPrefix(arg, "--"):
		// Theme namespace lookup applies to named parts only.
		if part.Kind != candidate.Named {
			return "", false
		}
		return u.Theme.ResolveNamespace(arg, part.Value)

	case strings.HasPrefix(arg, "[") && strings.HasSuffix(arg, "]"):
		if part.Kind != candidate.Arbitrary {
			return "", false
		}
		want := arg[1 : len(arg)-1]
		if want == "*" {
			return part.Value, true
		}
		if part.DataType != "" {
			if part.DataType != want {
				return "", false
			}
			return part.Value, true
		}
		if !datatype.Matches(part.Value, datatype.Type(want)) {
			return "", false
		}
		return part.Value, true

	default:
		t, ok := bareTypes[arg]
		if !ok || part.Kind != candidate.Named {
			return "", false
		}
		text := part.Value
		if t == datatype.Ratio {
			if part.Fraction == "" {
				return "", false
			}
			text = part.Fraction
		}
		if !datatype.Matches(text, t) {
			return "", false
		}
		return text, true
	}
}

// findCall locates the next fn(...) call at an identifier boundary.
// Returns the call start, argument start, and the index of the closing
// paren, or -1 when absent.
func findCall(text, fn string) (start, argStart, argEnd int) {
	needle := fn + "("
	from := 0
	for {
		i := strings.Index(text[from:], needle)
		if i < 0 {
			return -1, -1, -1
		}
		i += from
		if i > 0 && isWordByte(text[i-1]) {
			from = i + 1
			continue
		}
		open := i + len(needle)
		depth := 1
		for j := open; j < len(text); j++ {
			switch text[j] {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					return i, open, j
				}
			}
		}
		return -1, -1, -1
	}
}

func splitArgs(args string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, args[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, args[start:])
}

func isWordByte(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9' || ch == '-' || ch == '_'
}
