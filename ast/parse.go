package ast

import (
	"fmt"
	"strings"
)

// Parse parses CSS-superset source into a node list. It understands
// style rules, block and statement at-rules, declarations (including
// custom properties and !important), and comments. It is a structural
// micro-parser, not a conformance-grade CSS parser: bracket, paren, and
// quote nesting is balanced but component values stay raw strings.
func Parse(input string) ([]Node, error) {
	p := &parser{input: input}
	return p.parseBlock(true)
}

// MustParse is Parse for test fixtures and panics on error.
func MustParse(input string) []Node {
	nodes, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return nodes
}

type parser struct {
	input string
	pos   int
}

func (p *parser) parseBlock(topLevel bool) ([]Node, error) {
	nodes := []Node{}
	for {
		p.skipWhitespace()
		if p.pos >= len(p.input) {
			if !topLevel {
				return nil, fmt.Errorf("css: unexpected end of input, missing '}'")
			}
			return nodes, nil
		}

		switch {
		case p.input[p.pos] == '}':
			if topLevel {
				return nil, fmt.Errorf("css: unexpected '}'")
			}
			p.pos++
			return nodes, nil

		case strings.HasPrefix(p.input[p.pos:], "/*"):
			end := strings.Index(p.input[p.pos+2:], "*/")
			if end < 0 {
				return nil, fmt.Errorf("css: unterminated comment")
			}
			nodes = append(nodes, &Comment{Text: p.input[p.pos+2 : p.pos+2+end]})
			p.pos += end + 4

		case p.input[p.pos] == '@':
			n, err := p.parseAtRule()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)

		default:
			n, err := p.parseRuleOrDeclaration()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
		}
	}
}

func (p *parser) parseAtRule() (Node, error) {
	p.pos++ // consume '@'
	name := p.readName()
	if name == "" {
		return nil, fmt.Errorf("css: missing at-rule name")
	}
	params, stop := p.readPrelude()
	params = strings.TrimSpace(params)
	switch stop {
	case '{':
		p.pos++
		children, err := p.parseBlock(false)
		if err != nil {
			return nil, err
		}
		return &AtRule{Name: name, Params: params, Nodes: children}, nil
	case ';':
		p.pos++
		return &AtRule{Name: name, Params: params}, nil
	default:
		// '}' or end of input terminates a statement at-rule.
		return &AtRule{Name: name, Params: params}, nil
	}
}

func (p *parser) parseRuleOrDeclaration() (Node, error) {
	prelude, stop := p.readPrelude()
	if stop == '{' {
		p.pos++
		children, err := p.parseBlock(false)
		if err != nil {
			return nil, err
		}
		return &StyleRule{Selector: strings.TrimSpace(prelude), Nodes: children}, nil
	}
	if stop == ';' {
		p.pos++
	}
	colon := strings.IndexByte(prelude, ':')
	if colon < 0 {
		return nil, fmt.Errorf("css: invalid declaration %q", strings.TrimSpace(prelude))
	}
	property := strings.TrimSpace(prelude[:colon])
	value := strings.TrimSpace(prelude[colon+1:])
	important := false
	if trimmed, ok := stripImportant(value); ok {
		value = trimmed
		important = true
	}
	if property == "" {
		return nil, fmt.Errorf("css: declaration with empty property near %q", value)
	}
	return &Declaration{Property: property, Value: value, Important: important}, nil
}

func stripImportant(value string) (string, bool) {
	lower := strings.ToLower(value)
	if !strings.HasSuffix(lower, "!important") {
		return value, false
	}
	return strings.TrimSpace(value[:len(value)-len("!important")]), true
}

func (p *parser) readName() string {
	start := p.pos
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		if ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9' || ch == '-' {
			p.pos++
			continue
		}
		break
	}
	return p.input[start:p.pos]
}

// readPrelude scans raw text up to an unnested '{', ';', or '}', leaving
// the terminator unconsumed. Returns the scanned text and the terminator
// byte (0 at end of input).
func (p *parser) readPrelude() (string, byte) {
	start := p.pos
	depth := 0
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		switch ch {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case '"', '\'':
			p.skipString(ch)
			continue
		case '{', ';', '}':
			if depth == 0 {
				return p.input[start:p.pos], ch
			}
		}
		p.pos++
	}
	return p.input[start:p.pos], 0
}

func (p *parser) skipString(quote byte) {
	p.pos++ // opening quote
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case '\\':
			p.pos++
		case quote:
			p.pos++
			return
		}
		p.pos++
	}
}

func (p *parser) skipWhitespace() {
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}
