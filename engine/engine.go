// Package engine is the directive-processing core: a single mutating
// depth-first walk that expands the framework at-rules (@theme,
// @utility, @variant, @source, @media carriers, @tailwind utilities),
// assembles the design system, and serves incremental candidate builds
// at the utilities marker.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lusayo-nyondo/tailwindcss/ast"
	"github.com/lusayo-nyondo/tailwindcss/buildlog"
	"github.com/lusayo-nyondo/tailwindcss/cache"
	"github.com/lusayo-nyondo/tailwindcss/design"
)

// Features is the bitset of special constructs observed during a
// compile, returned to the caller for optimization decisions.
type Features uint8

const (
	// FeatureApply is set when @apply is used anywhere in the tree.
	FeatureApply Features = 1 << iota
	// FeatureImport is set when @import is used.
	FeatureImport
	// FeatureCompat is set when @config or @plugin is used.
	FeatureCompat
	// FeatureThemeFn is set when a declaration value uses theme(...).
	FeatureThemeFn
	// FeatureUtilities is set when a @tailwind utilities marker exists.
	FeatureUtilities
)

// Has reports whether all bits in flag are set.
func (f Features) Has(flag Features) bool {
	return f&flag == flag
}

// RootKind classifies the root/source descriptor.
type RootKind int

const (
	// RootUnknown means no explicit source(...) declaration was seen.
	RootUnknown RootKind = iota
	// RootNone means source(none) disabled automatic scanning.
	RootNone
	// RootExplicit means source('pattern') named an explicit glob.
	RootExplicit
)

// RootDescriptor states which filesystem location, if any, should be
// scanned for candidates.
type RootDescriptor struct {
	Kind    RootKind
	Base    string
	Pattern string
}

// SourceGlob is one @source declaration anchored at its base.
type SourceGlob struct {
	Base    string
	Pattern string
}

// CompatKind distinguishes the backwards-compatibility directives.
type CompatKind int

const (
	CompatConfig CompatKind = iota
	CompatPlugin
)

// CompatDirective is one collected @config/@plugin directive.
type CompatDirective struct {
	Kind CompatKind
	Path string
	Base string
}

// StylesheetLoader loads an imported stylesheet as a node list.
type StylesheetLoader func(ctx context.Context, id, base string) ([]ast.Node, error)

// ModuleLoader loads a config/plugin module.
type ModuleLoader func(ctx context.Context, id, base string) (any, error)

// ImportResolver inlines @import rules before the directive walk and
// reports the features it observed.
type ImportResolver func(ctx context.Context, nodes *[]ast.Node, base string, loader StylesheetLoader) (Features, error)

// CompatApplier applies @config/@plugin hooks against the design system.
// It may register further utilities, variants, and theme entries.
type CompatApplier func(ctx context.Context, sys *design.System, base string, nodes *[]ast.Node, loader ModuleLoader, directives []CompatDirective, globs []SourceGlob) (Features, error)

// CandidateCompiler compiles the full valid-candidate set into nodes,
// reporting newly-discovered invalid candidates through onInvalid.
type CandidateCompiler func(candidates []string, sys *design.System, onInvalid func(string)) []ast.Node

// ApplySubstituter runs the @apply substitution pass over the tree.
type ApplySubstituter func(sys *design.System, nodes *[]ast.Node) error

// Sentinel errors for missing collaborators.
var (
	ErrNoStylesheetLoader = errors.New("cannot resolve imports: no stylesheet loader provided")
	ErrNoModuleLoader     = errors.New("cannot load plugins or configs: no module loader provided")
	ErrNoCompatApplier    = errors.New("cannot apply plugins or configs: no compatibility hook provided")
)

// Options configures a compile session.
type Options struct {
	// Base is the base path the input stylesheet resolves against.
	Base string

	StylesheetLoader StylesheetLoader
	ModuleLoader     ModuleLoader
	ImportResolver   ImportResolver
	CompatApplier    CompatApplier
	ApplySubstituter ApplySubstituter
	// CandidateCompiler defaults to the design system's built-in
	// compiler when nil.
	CandidateCompiler CandidateCompiler

	// Logger defaults to a no-op logger when nil.
	Logger *zerolog.Logger
	// Journal, when set, records one row per Build call.
	Journal *buildlog.Log
}

// Compile normalizes the tree and returns the incremental compiler
// handle for the session. The tree is mutated in place; directive
// grammar violations abort the compile with an error, and partial
// mutation up to the failure point is not rolled back.
func Compile(ctx context.Context, nodes []ast.Node, opts Options) (*Compiler, error) {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	var features Features
	if opts.ImportResolver != nil {
		f, err := opts.ImportResolver(ctx, &nodes, opts.Base, opts.StylesheetLoader)
		if err != nil {
			return nil, fmt.Errorf("resolving imports: %w", err)
		}
		features |= f
	}

	p := newProcessor(&opts)
	if err := p.run(&nodes); err != nil {
		return nil, err
	}
	features |= p.features

	sys := design.NewSystem(p.theme)
	sys.Important = p.important

	if len(p.compat) > 0 {
		if opts.ModuleLoader == nil {
			return nil, ErrNoModuleLoader
		}
		if opts.CompatApplier == nil {
			return nil, ErrNoCompatApplier
		}
		f, err := opts.CompatApplier(ctx, sys, opts.Base, &nodes, opts.ModuleLoader, p.compat, p.globs)
		if err != nil {
			return nil, fmt.Errorf("applying compatibility hooks: %w", err)
		}
		features |= f
	}

	sys.Register(p.regs)
	p.materializeTheme()

	if features.Has(FeatureApply) && opts.ApplySubstituter != nil {
		if err := opts.ApplySubstituter(sys, &nodes); err != nil {
			return nil, fmt.Errorf("substituting @apply: %w", err)
		}
	}

	// Terminal cleanup: @utility nodes were kept in the tree so the
	// substitution pass could still see them; remove whatever remains.
	removeUtilityNodes(&nodes)

	compile := opts.CandidateCompiler
	if compile == nil {
		compile = func(candidates []string, sys *design.System, onInvalid func(string)) []ast.Node {
			return sys.CompileCandidates(candidates, onInvalid)
		}
	}

	c := &Compiler{
		sessionID: uuid.New().String(),
		tree:      nodes,
		sys:       sys,
		marker:    p.marker,
		features:  features,
		root:      p.root,
		globs:     p.globs,
		cache:     cache.New(),
		compile:   compile,
		log:       log,
		journal:   opts.Journal,
	}
	c.log.Debug().
		Str("session", c.sessionID).
		Int("theme_entries", p.theme.Len()).
		Int("registrations", len(p.regs)).
		Msg("compile session ready")
	return c, nil
}

func removeUtilityNodes(nodes *[]ast.Node) {
	_ = ast.Walk(nodes, func(n ast.Node, c *ast.Cursor) (ast.Disposition, error) {
		if at, ok := n.(*ast.AtRule); ok && at.Name == "utility" {
			c.Delete()
		}
		return ast.Continue, nil
	})
}
