// Package candidate parses utility-class name strings into their value,
// modifier, and variant parts. Candidates are immutable once parsed; the
// resolver works on copies of utility bodies, never on the candidate.
package candidate

import (
	"strings"
)

// ValueKind distinguishes named values from bracketed arbitrary ones.
type ValueKind int

const (
	Named ValueKind = iota
	Arbitrary
)

// Value is a candidate's value or modifier part.
type Value struct {
	Kind ValueKind
	// Value is the named token or the decoded arbitrary content.
	Value string
	// DataType is the forced type tag of an arbitrary value
	// ("[color:red]" carries "color"), "" when absent.
	DataType string
	// Fraction is the full ratio text when a named value and named
	// modifier form one ("aspect-1/2" stores "1/2"), "" otherwise.
	Fraction string
}

// Candidate is a parsed utility-class token.
type Candidate struct {
	Raw       string
	Root      string
	Value     *Value
	Modifier  *Value
	Variants  []string
	Negative  bool
	Important bool
}

// Index exposes the registered utility names the parser splits against.
type Index interface {
	HasStatic(name string) bool
	HasFunctional(root string) bool
}

// Parse parses raw against the registered utility names. The second
// return value is false when no registered utility can match.
func Parse(raw string, idx Index) (*Candidate, bool) {
	if raw == "" {
		return nil, false
	}
	segments := splitTopLevel(raw, ':')
	base := segments[len(segments)-1]
	c := &Candidate{Raw: raw, Variants: segments[:len(segments)-1]}

	if strings.HasSuffix(base, "!") {
		c.Important = true
		base = base[:len(base)-1]
	}
	if base == "" {
		return nil, false
	}

	if !parseBase(base, idx, c) {
		if base[0] != '-' {
			return nil, false
		}
		c.Negative = true
		if !parseBase(base[1:], idx, c) {
			return nil, false
		}
	}
	return c, true
}

// parseBase splits base into root, value, and modifier. Static names
// match whole; functional roots match at "-" boundaries, longest first.
func parseBase(base string, idx Index, c *Candidate) bool {
	value, modifier := splitModifier(base)

	if modifier == "" && idx.HasStatic(base) {
		c.Root = base
		c.Value = nil
		c.Modifier = nil
		return true
	}

	for i := len(value); i > 0; i-- {
		if i != len(value) && value[i] != '-' {
			continue
		}
		root := value[:i]
		if !idx.HasFunctional(root) {
			continue
		}
		c.Root = root
		if i < len(value) {
			v, ok := parseValue(value[i+1:])
			if !ok {
				return false
			}
			c.Value = v
		}
		if modifier != "" {
			m, ok := parseValue(modifier)
			if !ok {
				return false
			}
			c.Modifier = m
		}
		if c.Value != nil && c.Modifier != nil &&
			c.Value.Kind == Named && c.Modifier.Kind == Named &&
			isNumeric(c.Value.Value) && isNumeric(c.Modifier.Value) {
			c.Value.Fraction = c.Value.Value + "/" + c.Modifier.Value
		}
		return true
	}
	return false
}

// splitModifier splits on the last top-level "/" in base.
func splitModifier(base string) (value, modifier string) {
	depth := 0
	for i := len(base) - 1; i >= 0; i-- {
		switch base[i] {
		case ']', ')':
			depth++
		case '[', '(':
			depth--
		case '/':
			if depth == 0 {
				return base[:i], base[i+1:]
			}
		}
	}
	return base, ""
}

func parseValue(text string) (*Value, bool) {
	if text == "" {
		return nil, false
	}
	if text[0] == '[' {
		if !strings.HasSuffix(text, "]") {
			return nil, false
		}
		content := text[1 : len(text)-1]
		if content == "" {
			return nil, false
		}
		v := &Value{Kind: Arbitrary}
		if tag, rest, ok := strings.Cut(content, ":"); ok && isIdent(tag) {
			v.DataType = tag
			content = rest
		}
		v.Value = decodeArbitrary(content)
		return v, true
	}
	return &Value{Kind: Named, Value: text}, true
}

// decodeArbitrary turns underscores into spaces, honoring "\_" escapes.
func decodeArbitrary(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\\' && i+1 < len(s) && s[i+1] == '_':
			b.WriteByte('_')
			i++
		case s[i] == '_':
			b.WriteByte(' ')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[', '(':
			depth++
		case ']', ')':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		if (ch < 'a' || ch > 'z') && ch != '-' {
			return false
		}
	}
	return true
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		if (ch < '0' || ch > '9') && ch != '.' {
			return false
		}
	}
	return true
}
