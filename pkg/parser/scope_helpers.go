package parser

import (
	"strings"

	"cxxscope/pkg/ast"
)

// symKind records what the parser knows about a name. Only the
// distinctions needed for disambiguation are tracked; real binding is
// done by the semantic pass.
type symKind uint8

const (
	symType symKind = 1 << iota
	symTemplate
	symNamespace
)

type symbol struct {
	kind symKind
	full string
}

type scopeKind int

const (
	scopeGlobal scopeKind = iota
	scopeNamespace
	scopeClass
	scopeBlock
	scopeTemplateParams
)

// nameScope is one level of the known-name stack
type nameScope struct {
	kind   scopeKind
	prefix string // qualified name for namespace and class scopes
	class  string // simple class name, for constructor detection
	names  map[string]symbol
	usings []string
}

func joinQualified(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "::" + name
}

// getCurrentScope returns the innermost scope
func (p *Parser) getCurrentScope() *nameScope {
	return p.scopes[len(p.scopes)-1]
}

// declaringScope returns the innermost scope names are declared into;
// template parameter scopes are transparent
func (p *Parser) declaringScope() *nameScope {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if p.scopes[i].kind != scopeTemplateParams {
			return p.scopes[i]
		}
	}
	return p.scopes[0]
}

// enterScope enters a new scope. Namespace and class scopes extend the
// qualified prefix of the enclosing declaring scope with name.
func (p *Parser) enterScope(kind scopeKind, name string) *nameScope {
	s := &nameScope{kind: kind, names: make(map[string]symbol)}
	if len(p.scopes) > 0 {
		outer := p.declaringScope()
		s.prefix = outer.prefix
		if (kind == scopeNamespace || kind == scopeClass) && name != "" {
			s.prefix = joinQualified(outer.prefix, name)
		}
	}
	if kind == scopeClass {
		s.class = name
	}
	p.scopes = append(p.scopes, s)
	return s
}

// exitScope exits the current scope
func (p *Parser) exitScope() {
	if len(p.scopes) > 1 {
		p.scopes = p.scopes[:len(p.scopes)-1]
	}
}

// declareName records name with kind in the declaring scope
func (p *Parser) declareName(name string, kind symKind) {
	if name == "" {
		return
	}
	s := p.declaringScope()
	p.addSymbol(s, name, kind)
}

// declareTemplateParam records a template parameter in the innermost scope
func (p *Parser) declareTemplateParam(name string, kind symKind) {
	if name == "" {
		return
	}
	p.addSymbol(p.getCurrentScope(), name, kind)
}

func (p *Parser) addSymbol(s *nameScope, name string, kind symKind) {
	full := joinQualified(s.prefix, name)
	sym := s.names[name]
	sym.kind |= kind
	sym.full = full
	s.names[name] = sym
	if s.kind == scopeGlobal || s.kind == scopeNamespace || s.kind == scopeClass {
		q := p.qualified[full]
		q.kind |= kind
		q.full = full
		p.qualified[full] = q
	}
}

// undeclareType records that name now denotes something other than a type
// in the declaring scope, so `int T;` hides an outer typedef T
func (p *Parser) undeclareType(name string) {
	if name == "" {
		return
	}
	s := p.declaringScope()
	s.names[name] = symbol{full: joinQualified(s.prefix, name)}
}

// declareAlias records a namespace alias that stands for target
func (p *Parser) declareAlias(name, target string) {
	s := p.declaringScope()
	sym := symbol{kind: symNamespace, full: target}
	s.names[name] = sym
	if s.kind != scopeBlock {
		p.qualified[joinQualified(s.prefix, name)] = sym
	}
}

// useNamespace makes the members of the namespace full visible in the
// current scope
func (p *Parser) useNamespace(full string) {
	s := p.getCurrentScope()
	s.usings = append(s.usings, full)
}

// lookupName finds an unqualified name through the scope stack
func (p *Parser) lookupName(name string) (symbol, bool) {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		s := p.scopes[i]
		if sym, ok := s.names[name]; ok {
			return sym, true
		}
		if s.kind != scopeBlock && s.kind != scopeTemplateParams {
			if sym, ok := p.qualified[joinQualified(s.prefix, name)]; ok {
				return sym, true
			}
		}
		for _, u := range s.usings {
			if sym, ok := p.qualified[joinQualified(u, name)]; ok {
				return sym, true
			}
		}
	}
	return symbol{}, false
}

// lookupSegments resolves a qualified name given as its segment texts
func (p *Parser) lookupSegments(segments []string, global bool) (symbol, bool) {
	if len(segments) == 0 {
		return symbol{}, false
	}
	var cur symbol
	var ok bool
	if global {
		cur, ok = p.qualified[segments[0]]
	} else {
		cur, ok = p.lookupName(segments[0])
	}
	for _, seg := range segments[1:] {
		if !ok {
			return symbol{}, false
		}
		cur, ok = p.qualified[joinQualified(cur.full, seg)]
	}
	return cur, ok
}

// nameSegments returns the segment texts of a name with template
// arguments dropped
func nameSegments(n ast.NameNode) ([]string, bool) {
	switch v := n.(type) {
	case *ast.QualifiedName:
		out := make([]string, 0, len(v.Segments))
		for _, s := range v.Segments {
			out = append(out, ast.SimpleName(s))
		}
		return out, v.FullyQualified
	case nil:
		return nil, false
	default:
		return []string{ast.SimpleName(v)}, false
	}
}

// lookupNameNode resolves a parsed name node against the known names
func (p *Parser) lookupNameNode(n ast.NameNode) (symbol, bool) {
	segs, global := nameSegments(n)
	return p.lookupSegments(segs, global)
}

func (p *Parser) isTypeName(n ast.NameNode) bool {
	sym, ok := p.lookupNameNode(n)
	return ok && sym.kind&symType != 0
}

// isTemplateName reports whether the identifier name, qualified by the
// segments already parsed, names a template
func (p *Parser) isTemplateName(qualifier []string, global bool, name string) bool {
	segs := append(append([]string(nil), qualifier...), name)
	sym, ok := p.lookupSegments(segs, global)
	return ok && sym.kind&symTemplate != 0
}

// currentClass returns the innermost class scope, if any
func (p *Parser) currentClass() *nameScope {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		switch p.scopes[i].kind {
		case scopeClass:
			return p.scopes[i]
		case scopeNamespace, scopeGlobal:
			return nil
		}
	}
	return nil
}

// qualifiedScopeOf returns the full name of the scope a qualified
// declarator name lives in, e.g. "N::A" for N::A::f
func (p *Parser) qualifiedScopeOf(n ast.NameNode) (string, bool) {
	segs, global := nameSegments(n)
	if len(segs) < 2 {
		return "", false
	}
	sym, ok := p.lookupSegments(segs[:len(segs)-1], global)
	if !ok {
		return strings.Join(segs[:len(segs)-1], "::"), true
	}
	return sym.full, true
}
