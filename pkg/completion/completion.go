// Package completion proposes names for a completion point recorded by the
// parser.
package completion

import (
	"errors"
	"slices"
	"strings"

	"github.com/hbollon/go-edlib"

	"cxxscope/pkg/ast"
	"cxxscope/pkg/parser"
	"cxxscope/pkg/semantic"
	"cxxscope/pkg/symtab"
)

// ErrNoResolver is returned for a unit that was not produced by the parser
var ErrNoResolver = errors.New("translation unit has no resolver")

// Candidate is one proposal
type Candidate struct {
	Name          string
	QualifiedName string
	// Kind is the entity kind: variable, function, typedef, struct, ...
	Kind    string
	Type    string
	Binding *semantic.Binding
	// Score is 1 for prefix matches and the similarity for fuzzy ones
	Score float64
}

// Options tunes Names
type Options struct {
	// Fuzzy ranks near misses when nothing starts with the prefix
	Fuzzy bool
	// Threshold is the lowest Jaro-Winkler similarity a fuzzy match needs
	Threshold float64
	// Limit caps the number of candidates; zero means no cap
	Limit int
}

// DefaultOptions enables the fuzzy fallback
var DefaultOptions = Options{Fuzzy: true, Threshold: 0.8, Limit: 100}

// Names returns the candidates for node with DefaultOptions
func Names(unit *ast.TranslationUnit, node *parser.CompletionNode) ([]Candidate, error) {
	return DefaultOptions.Names(unit, node)
}

// Names returns the declarations visible at node whose names start with
// the completion prefix. Calling it again returns the same candidates.
func (o Options) Names(unit *ast.TranslationUnit, node *parser.CompletionNode) ([]Candidate, error) {
	if node == nil || node.Name == nil {
		return nil, nil
	}
	if unit == nil {
		unit = node.Unit
	}
	r := semantic.Of(unit)
	if r == nil {
		return nil, ErrNoResolver
	}
	tab := r.Table()
	scope, qualified, ok := scopeOf(r, node)
	if !ok {
		return nil, nil
	}
	ctx := node.Context()

	var out []Candidate
	for _, id := range tab.PrefixLookup(node.Prefix, scope, qualified) {
		if c, ok := candidate(r, id, ctx); ok {
			c.Score = 1
			out = append(out, c)
		}
	}
	if len(out) == 0 && o.Fuzzy && node.Prefix != "" {
		out = o.fuzzy(r, node.Prefix, scope, qualified, ctx)
	}

	slices.SortStableFunc(out, func(a, b Candidate) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return strings.Compare(a.Name, b.Name)
	})
	if o.Limit > 0 && len(out) > o.Limit {
		out = out[:o.Limit]
	}
	return out, nil
}

func (o Options) fuzzy(r *semantic.Resolver, prefix string, scope symtab.DeclID, qualified bool, ctx parser.CompletionContext) []Candidate {
	var out []Candidate
	for _, id := range r.Table().PrefixLookup("", scope, qualified) {
		c, ok := candidate(r, id, ctx)
		if !ok {
			continue
		}
		score := similarity(prefix, c.Name)
		if score < o.Threshold {
			continue
		}
		c.Score = score
		out = append(out, c)
	}
	return out
}

func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	score, err := edlib.StringsSimilarity(a, b, edlib.JaroWinkler)
	if err != nil {
		return 0
	}
	return float64(score)
}

// scopeOf finds the scope the completion name is looked up in
func scopeOf(r *semantic.Resolver, node *parser.CompletionNode) (symtab.DeclID, bool, bool) {
	switch node.Context() {
	case parser.ContextMember:
		owner, arrow := node.Owner()
		class, ok := ownerClass(r, r.TypeOf(owner), arrow)
		return class, true, ok
	case parser.ContextQualified:
		q, ok := node.Name.Parent().(*ast.QualifiedName)
		if !ok {
			return symtab.NoDecl, false, false
		}
		i := slices.Index(q.Segments, node.Name)
		if i <= 0 {
			return symtab.GlobalID, true, q.FullyQualified
		}
		b, ok := q.Segments[i-1].ResolveBinding().(*semantic.Binding)
		if !ok {
			return symtab.NoDecl, false, false
		}
		return b.ID, true, true
	}
	return r.ScopeOf(node.Name), false, true
}

func ownerClass(r *semantic.Resolver, ti symtab.TypeInfo, arrow bool) (symtab.DeclID, bool) {
	tab := r.Table()
	ti = tab.Canonical(ti).StripReference()
	if arrow {
		if !ti.IsPointer() {
			return symtab.NoDecl, false
		}
		ti = tab.Canonical(ti.Pointee())
	}
	if len(ti.PtrOps) > 0 || !ti.Kind.IsClass() || ti.Named == symtab.NoDecl {
		return symtab.NoDecl, false
	}
	return ti.Named, true
}

// candidate turns a declaration into a proposal fitting the context
func candidate(r *semantic.Resolver, id symtab.DeclID, ctx parser.CompletionContext) (Candidate, bool) {
	d := r.Table().Decl(id)
	if d == nil || d.Name == "" {
		return Candidate{}, false
	}
	switch d.Type.Kind {
	case symtab.KindBlock, symtab.KindTemplate:
		return Candidate{}, false
	}
	if ctx == parser.ContextType && !d.IsTypeName() && !d.IsTypedef() && d.Type.Kind != symtab.KindNamespace {
		return Candidate{}, false
	}
	b := r.Binding(id)
	return Candidate{
		Name:          d.Name,
		QualifiedName: b.QualifiedName(),
		Kind:          b.EntityKind(),
		Type:          b.Type(),
		Binding:       b,
	}, true
}
