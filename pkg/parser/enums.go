package parser

import (
	"cxxscope/pkg/ast"
)

// enumSpecifier parses an enumeration definition or an elaborated enum name
func (p *Parser) enumSpecifier() (ast.DeclSpecifier, error) {
	start := p.mark()
	p.advance() // consume 'enum'
	p.skipGNUAttributes()

	var n ast.NameNode
	if tok := p.peek(); isIdentifierToken(tok) || tok.Type == TokenDoubleColon {
		var err error
		if n, err = p.name(); err != nil {
			if n == nil {
				return nil, err
			}
			el := &ast.ElaboratedTypeSpecifier{Elaborated: ast.ElaboratedEnum, Name: n}
			p.finish(el, start)
			return el, err
		}
	}

	if !p.check(TokenLeftBrace) {
		if n == nil {
			return nil, p.fail("expected a name after 'enum'")
		}
		el := &ast.ElaboratedTypeSpecifier{Elaborated: ast.ElaboratedEnum, Name: n}
		p.finish(el, start)
		return el, nil
	}

	es := &ast.EnumerationSpecifier{Name: n}
	if n == nil {
		empty := &ast.Name{Form: ast.NameEmpty}
		p.finish(empty, p.mark())
		es.Name = empty
	}
	if p.cpp() {
		p.declareTypeName(n)
	}

	p.advance() // consume '{'
	for !p.check(TokenRightBrace) {
		e, err := p.enumerator()
		if e != nil {
			es.Enumerators = append(es.Enumerators, e)
		}
		if err != nil {
			p.finish(es, start)
			return es, err
		}
		if !p.match(TokenComma) {
			break
		}
	}
	if _, err := p.expect(TokenRightBrace, "'}' to close the enumeration"); err != nil {
		p.finish(es, start)
		return es, err
	}
	p.finish(es, start)
	return es, nil
}

// enumerator parses `name` or `name = constant-expression`
func (p *Parser) enumerator() (*ast.Enumerator, error) {
	start := p.mark()
	tok := p.peek()
	if !isIdentifierToken(tok) {
		return nil, p.fail("expected an enumerator name")
	}
	var n *ast.Name
	if tok.Type == TokenCompletion {
		n = p.completionName()
	} else {
		p.advance()
		n = &ast.Name{Value: tok.Value}
		p.finish(n, start)
	}
	e := &ast.Enumerator{Name: n}
	p.declareName(n.Value, 0)
	if p.match(TokenEquals) {
		v, err := p.conditionalExpression()
		e.Value = v
		if err != nil {
			p.finish(e, start)
			return e, err
		}
	}
	p.finish(e, start)
	if p.stopped {
		return e, errStop
	}
	return e, nil
}
