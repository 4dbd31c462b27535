package parser

import (
	"cxxscope/pkg/ast"
)

// usingDeclaration parses `using namespace X;` and `using [typename] X::y;`
func (p *Parser) usingDeclaration() (ast.Declaration, error) {
	start := p.mark()
	p.advance() // consume 'using'

	if p.match(TokenNamespace) {
		ud := &ast.UsingDirective{}
		n, err := p.name()
		ud.Name = n
		if n == nil && err == nil {
			err = p.fail("expected a namespace name")
		}
		if err != nil {
			p.finish(ud, start)
			return ud, err
		}
		if sym, ok := p.lookupNameNode(n); ok {
			p.useNamespace(sym.full)
		} else {
			segs, _ := nameSegments(n)
			p.useNamespace(joinQualified(p.declaringScope().prefix, joinSegments(segs)))
		}
		_, err = p.expect(TokenSemicolon, "';' after using-directive")
		p.finish(ud, start)
		return ud, err
	}

	ud := &ast.UsingDeclaration{Typename: p.match(TokenTypename)}
	n, err := p.name()
	ud.Name = n
	if n == nil && err == nil {
		err = p.fail("expected a name after 'using'")
	}
	if err != nil {
		p.finish(ud, start)
		return ud, err
	}
	if sym, ok := p.lookupNameNode(n); ok {
		p.declareName(ast.SimpleName(n), sym.kind)
	} else if ud.Typename {
		p.declareName(ast.SimpleName(n), symType)
	}
	_, err = p.expect(TokenSemicolon, "';' after using-declaration")
	p.finish(ud, start)
	return ud, err
}

func joinSegments(segs []string) string {
	out := ""
	for _, s := range segs {
		out = joinQualified(out, s)
	}
	return out
}
