package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lusayo-nyondo/tailwindcss/ast"
	"github.com/lusayo-nyondo/tailwindcss/design"
	"github.com/lusayo-nyondo/tailwindcss/theme"
)

var (
	functionalNameRe = regexp.MustCompile(`^-?[a-z][a-zA-Z0-9/%._-]*-\*$`)
	staticNameRe     = regexp.MustCompile(`^[a-z][a-zA-Z0-9/%._-]*$`)
	themePrefixRe    = regexp.MustCompile(`^[a-z]+$`)
)

// processor accumulates the side-tables produced by the directive walk.
type processor struct {
	opts *Options

	theme     *theme.Store
	regs      []design.Registration
	marker    *ast.Context
	themeSite *ast.Context
	root      RootDescriptor
	globs     []SourceGlob
	compat    []CompatDirective
	important bool
	features  Features
}

func newProcessor(opts *Options) *processor {
	return &processor{opts: opts, theme: theme.NewStore()}
}

// run performs the single mutating depth-first walk over the tree.
// Unmatched at-rules pass through untouched with their children still
// traversed.
func (p *processor) run(nodes *[]ast.Node) error {
	return ast.Walk(nodes, func(n ast.Node, cur *ast.Cursor) (ast.Disposition, error) {
		switch t := n.(type) {
		case *ast.Declaration:
			if strings.Contains(t.Value, "theme(") {
				p.features |= FeatureThemeFn
			}
			return ast.SkipChildren, nil

		case *ast.AtRule:
			switch t.Name {
			case "tailwind":
				return p.handleTailwind(t, cur)
			case "utility":
				return p.handleUtility(t, cur)
			case "source":
				return p.handleSource(t, cur)
			case "variant":
				return p.handleVariant(t, cur)
			case "media":
				return p.handleMedia(t, cur)
			case "theme":
				return p.handleTheme(t, cur)
			case "import":
				p.features |= FeatureImport
				if p.opts.ImportResolver == nil || p.opts.StylesheetLoader == nil {
					return ast.Continue, ErrNoStylesheetLoader
				}
				return ast.SkipChildren, nil
			case "config", "plugin":
				return p.handleCompat(t, cur)
			case "apply":
				p.features |= FeatureApply
				return ast.SkipChildren, nil
			}
		}
		return ast.Continue, nil
	})
}

// handleTailwind records the first `@tailwind utilities` occurrence as
// the utilities marker, repurposed into a transparent scope; later
// occurrences are deleted.
func (p *processor) handleTailwind(t *ast.AtRule, cur *ast.Cursor) (ast.Disposition, error) {
	params := strings.TrimSpace(t.Params)
	if params != "utilities" && !strings.HasPrefix(params, "utilities ") {
		return ast.SkipChildren, nil
	}
	p.features |= FeatureUtilities
	if p.marker != nil {
		cur.Delete()
		return ast.Continue, nil
	}

	rest := strings.TrimSpace(strings.TrimPrefix(params, "utilities"))
	if rest != "" {
		arg, ok := functionArg(rest, "source")
		if !ok {
			return ast.Continue, fmt.Errorf("`@tailwind utilities` only accepts a `source(…)` parameter, got `%s`", rest)
		}
		base := cur.Context("sourceBase")
		if base == "" {
			base = cur.Context("base")
		}
		if base == "" {
			base = p.opts.Base
		}
		if arg == "none" {
			p.root = RootDescriptor{Kind: RootNone}
		} else {
			path, err := unquote(arg)
			if err != nil {
				return ast.Continue, fmt.Errorf("`source(%s)` paths must be quoted", arg)
			}
			p.root = RootDescriptor{Kind: RootExplicit, Base: base, Pattern: path}
		}
	}

	marker := ast.NewContext(nil)
	p.marker = marker
	cur.ReplaceWith(marker)
	return ast.Continue, nil
}

// handleUtility validates and queues a custom utility registration. The
// node itself stays in the tree until the terminal cleanup so nested
// @apply substitution can still see it.
func (p *processor) handleUtility(t *ast.AtRule, cur *ast.Cursor) (ast.Disposition, error) {
	if cur.Parent != nil {
		return ast.Continue, fmt.Errorf("`@utility` cannot be nested inside another rule")
	}
	name := strings.TrimSpace(t.Params)
	if len(t.Nodes) == 0 {
		return ast.Continue, fmt.Errorf("`@utility %s` is empty, utilities must include at least one declaration", name)
	}
	switch {
	case functionalNameRe.MatchString(name):
		p.regs = append(p.regs, design.Registration{
			Kind: design.RegisterFunctionalUtility,
			Name: strings.TrimSuffix(name, "-*"),
			Body: ast.CloneNodes(t.Nodes),
		})
	case staticNameRe.MatchString(name):
		p.regs = append(p.regs, design.Registration{
			Kind: design.RegisterStaticUtility,
			Name: name,
			Body: ast.CloneNodes(t.Nodes),
		})
	default:
		return ast.Continue, fmt.Errorf("`@utility %s` defines an invalid utility name, utilities should be alphanumeric and start with a lowercase letter", name)
	}
	return ast.SkipChildren, nil
}

func (p *processor) handleSource(t *ast.AtRule, cur *ast.Cursor) (ast.Disposition, error) {
	if cur.Parent != nil {
		return ast.Continue, fmt.Errorf("`@source` cannot be nested inside another rule")
	}
	if t.Nodes != nil {
		return ast.Continue, fmt.Errorf("`@source` cannot have a body")
	}
	pattern, err := unquote(strings.TrimSpace(t.Params))
	if err != nil {
		return ast.Continue, fmt.Errorf("`@source` paths must be quoted, got `%s`", t.Params)
	}
	p.globs = append(p.globs, SourceGlob{Base: p.baseFor(cur), Pattern: pattern})
	cur.Delete()
	return ast.Continue, nil
}

// handleVariant queues a custom variant registration; the node is always
// removed (variants are declarative, never literal output).
func (p *processor) handleVariant(t *ast.AtRule, cur *ast.Cursor) (ast.Disposition, error) {
	if cur.Parent != nil {
		return ast.Continue, fmt.Errorf("`@variant` cannot be nested inside another rule")
	}
	params := strings.TrimSpace(t.Params)
	name, selector, _ := strings.Cut(params, " ")
	selector = strings.TrimSpace(selector)
	hasSelector := selector != ""
	hasBody := len(t.Nodes) > 0

	switch {
	case hasSelector && hasBody:
		return ast.Continue, fmt.Errorf("`@variant %s` cannot have both a selector list and a body", name)
	case !hasSelector && !hasBody:
		return ast.Continue, fmt.Errorf("`@variant %s` has no selector or body", name)
	case hasSelector:
		if !strings.HasPrefix(selector, "(") || !strings.HasSuffix(selector, ")") {
			return ast.Continue, fmt.Errorf("`@variant %s` selector lists must be wrapped in parentheses, got `%s`", name, selector)
		}
		entries := splitTopLevel(selector[1:len(selector)-1], ',')
		for i := range entries {
			entries[i] = strings.TrimSpace(entries[i])
		}
		p.regs = append(p.regs, design.Registration{
			Kind:      design.RegisterSelectorVariant,
			Name:      name,
			Selectors: entries,
		})
	default:
		p.regs = append(p.regs, design.Registration{
			Kind: design.RegisterASTVariant,
			Name: name,
			Body: ast.CloneNodes(t.Nodes),
		})
	}
	cur.Delete()
	return ast.Continue, nil
}

// handleMedia multiplexes the special space-separated @media parameters:
// source(...), theme(...), prefix(...), important, and reference. Any
// unrecognized parameter is preserved verbatim; when everything was
// consumed the node is unwrapped into its children, which the walker
// then visits normally.
func (p *processor) handleMedia(t *ast.AtRule, cur *ast.Cursor) (ast.Disposition, error) {
	segments := splitTopLevel(t.Params, ' ')
	var kept []string
	consumed := 0
	reference := false

	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		consumed++
		switch {
		case seg == "important":
			p.important = true
		case seg == "reference":
			reference = true
		case hasFunction(seg, "source"):
			arg, _ := functionArg(seg, "source")
			propagateSource(t.Nodes, arg, p.baseFor(cur))
		case hasFunction(seg, "theme"):
			arg, _ := functionArg(seg, "theme")
			if err := appendThemeOptions(t.Nodes, arg); err != nil {
				return ast.Continue, err
			}
		case hasFunction(seg, "prefix"):
			arg, _ := functionArg(seg, "prefix")
			appendThemePrefix(t.Nodes, arg)
		default:
			consumed--
			kept = append(kept, seg)
		}
	}

	if reference {
		t.Nodes = []ast.Node{ast.NewContext(
			map[string]string{"reference": "true"},
			referenceNodes(t.Nodes)...,
		)}
	}

	if consumed > 0 && len(kept) == 0 {
		cur.ReplaceWith(t.Nodes...)
		return ast.Continue, nil
	}
	if consumed > 0 {
		t.Params = strings.Join(kept, " ")
	}
	return ast.Continue, nil
}

// propagateSource appends the source(...) parameter to a nested
// `@tailwind utilities` node and wraps it in a context carrying the
// import's base as sourceBase. Descent stops once found.
func propagateSource(nodes []ast.Node, arg, base string) bool {
	for i, n := range nodes {
		switch t := n.(type) {
		case *ast.AtRule:
			if t.Name == "tailwind" && strings.HasPrefix(strings.TrimSpace(t.Params), "utilities") {
				t.Params = strings.TrimSpace(t.Params) + " source(" + arg + ")"
				nodes[i] = ast.NewContext(map[string]string{"sourceBase": base}, t)
				return true
			}
			if propagateSource(t.Nodes, arg, base) {
				return true
			}
		case *ast.StyleRule:
			if propagateSource(t.Nodes, arg, base) {
				return true
			}
		case *ast.Context:
			if propagateSource(t.Nodes, arg, base) {
				return true
			}
		}
	}
	return false
}

// appendThemeOptions propagates an import's theme(...) options onto
// every descendant @theme block. Imported theme files must contain only
// theme blocks; anything else but comments and carrier at-rules fails.
func appendThemeOptions(nodes []ast.Node, opts string) error {
	for _, n := range nodes {
		switch t := n.(type) {
		case *ast.Comment:
		case *ast.Context:
			if err := appendThemeOptions(t.Nodes, opts); err != nil {
				return err
			}
		case *ast.AtRule:
			if t.Name == "theme" {
				t.Params = strings.TrimSpace(t.Params + " " + opts)
				continue
			}
			if err := appendThemeOptions(t.Nodes, opts); err != nil {
				return err
			}
		default:
			return fmt.Errorf("imports with `theme(%s)` must only contain `@theme` blocks", opts)
		}
	}
	return nil
}

func appendThemePrefix(nodes []ast.Node, prefix string) {
	for _, n := range nodes {
		switch t := n.(type) {
		case *ast.AtRule:
			if t.Name == "theme" {
				t.Params = strings.TrimSpace(t.Params + " prefix(" + prefix + ")")
				continue
			}
			appendThemePrefix(t.Nodes, prefix)
		case *ast.StyleRule:
			appendThemePrefix(t.Nodes, prefix)
		case *ast.Context:
			appendThemePrefix(t.Nodes, prefix)
		}
	}
}

// referenceNodes rewrites an import subtree for reference-only use:
// only directive at-rules and theme blocks survive, everything that
// would produce output is stripped.
func referenceNodes(nodes []ast.Node) []ast.Node {
	out := []ast.Node{}
	for _, n := range nodes {
		switch t := n.(type) {
		case *ast.AtRule:
			switch t.Name {
			case "theme":
				if !hasOption(t.Params, "reference") {
					t.Params = strings.TrimSpace(t.Params + " reference")
				}
				out = append(out, t)
			case "import", "config", "plugin", "variant", "utility":
				out = append(out, t)
			case "media", "supports", "layer":
				t.Nodes = referenceNodes(t.Nodes)
				out = append(out, t)
			}
		case *ast.Context:
			t.Nodes = referenceNodes(t.Nodes)
			out = append(out, t)
		}
	}
	return out
}

// handleTheme merges a @theme block into the store. The first
// non-reference block becomes the canonical materialization site; every
// other block is deleted after merging.
func (p *processor) handleTheme(t *ast.AtRule, cur *ast.Cursor) (ast.Disposition, error) {
	opts, err := p.parseThemeOptions(t.Params)
	if err != nil {
		return ast.Continue, err
	}
	if cur.Context("reference") == "true" {
		opts |= theme.Reference
	}

	for _, child := range t.Nodes {
		switch ct := child.(type) {
		case *ast.Comment:
		case *ast.Declaration:
			if !strings.HasPrefix(ct.Property, "--") {
				return ast.Continue, themeBodyError(t, child)
			}
			p.theme.Add(ct.Property, ct.Value, opts)
		case *ast.AtRule:
			if ct.Name != "keyframes" {
				return ast.Continue, themeBodyError(t, child)
			}
			p.theme.AddKeyframes(ct)
		default:
			return ast.Continue, themeBodyError(t, child)
		}
	}

	if opts.Has(theme.Reference) {
		cur.Delete()
		return ast.Continue, nil
	}
	if p.themeSite == nil {
		site := ast.NewContext(nil)
		p.themeSite = site
		cur.ReplaceWith(site)
		return ast.Continue, nil
	}
	cur.Delete()
	return ast.Continue, nil
}

func themeBodyError(block *ast.AtRule, offending ast.Node) error {
	snippet := ast.NodeToCSS(ast.NewAtRule("theme", block.Params, offending))
	return fmt.Errorf("`@theme` blocks must only contain custom properties or `@keyframes`\n\n%s", snippet)
}

// parseThemeOptions parses the space-separated @theme options.
func (p *processor) parseThemeOptions(params string) (theme.Options, error) {
	opts := theme.None
	for _, seg := range splitTopLevel(params, ' ') {
		seg = strings.TrimSpace(seg)
		switch {
		case seg == "":
		case seg == "reference":
			opts |= theme.Reference
		case seg == "inline":
			opts |= theme.Inline
		case seg == "default":
			opts |= theme.Default
		case hasFunction(seg, "prefix"):
			arg, _ := functionArg(seg, "prefix")
			if !themePrefixRe.MatchString(arg) {
				return opts, fmt.Errorf("the prefix `%s` is invalid, prefixes must be lowercase ASCII letters", arg)
			}
			p.theme.SetPrefix(arg)
		default:
			return opts, fmt.Errorf("`@theme` does not accept the option `%s`", seg)
		}
	}
	return opts, nil
}

func (p *processor) handleCompat(t *ast.AtRule, cur *ast.Cursor) (ast.Disposition, error) {
	p.features |= FeatureCompat
	if p.opts.ModuleLoader == nil {
		return ast.Continue, ErrNoModuleLoader
	}
	path, err := unquote(strings.TrimSpace(t.Params))
	if err != nil {
		return ast.Continue, fmt.Errorf("`@%s` paths must be quoted, got `%s`", t.Name, t.Params)
	}
	kind := CompatConfig
	if t.Name == "plugin" {
		kind = CompatPlugin
	}
	p.compat = append(p.compat, CompatDirective{Kind: kind, Path: path, Base: p.baseFor(cur)})
	cur.Delete()
	return ast.Continue, nil
}

// materializeTheme fills the canonical theme site with one declaration
// per non-reference entry in store order, followed by the used
// keyframes blocks hoisted to the root.
func (p *processor) materializeTheme() {
	if p.themeSite == nil {
		return
	}
	decls := []ast.Node{}
	for _, e := range p.theme.Entries() {
		if e.Options.Has(theme.Reference) {
			continue
		}
		decls = append(decls, ast.NewDeclaration(p.theme.PrefixedKey(e.Key), e.Value))
	}
	nodes := []ast.Node{}
	if len(decls) > 0 {
		nodes = append(nodes, ast.NewStyleRule(":root, :host", decls...))
	}
	for _, kf := range p.theme.UsedKeyframes() {
		nodes = append(nodes, kf)
	}
	p.themeSite.Nodes = nodes
}

func (p *processor) baseFor(cur *ast.Cursor) string {
	if base := cur.Context("base"); base != "" {
		return base
	}
	return p.opts.Base
}

func hasOption(params, option string) bool {
	for _, seg := range splitTopLevel(params, ' ') {
		if strings.TrimSpace(seg) == option {
			return true
		}
	}
	return false
}

// hasFunction reports whether seg is exactly a name(...) call.
func hasFunction(seg, name string) bool {
	return strings.HasPrefix(seg, name+"(") && strings.HasSuffix(seg, ")")
}

// functionArg extracts the inner text of a name(...) call.
func functionArg(seg, name string) (string, bool) {
	seg = strings.TrimSpace(seg)
	if !hasFunction(seg, name) {
		return "", false
	}
	return strings.TrimSpace(seg[len(name)+1 : len(seg)-1]), true
}

// unquote strips a matched pair of single or double quotes.
func unquote(s string) (string, error) {
	if len(s) >= 2 {
		if s[0] == '\'' && s[len(s)-1] == '\'' || s[0] == '"' && s[len(s)-1] == '"' {
			return s[1 : len(s)-1], nil
		}
	}
	return "", fmt.Errorf("expected a quoted string, got `%s`", s)
}

// splitTopLevel splits on sep outside parens, brackets, and quotes.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"':
			quote = ch
		case '(', '[':
			depth++
		case ')', ']':
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
