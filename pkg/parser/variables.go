package parser

import (
	"cxxscope/pkg/ast"
)

// initializer parses an optional initializer: `= clause` or, in C++,
// `( expression-list )`. A nil initializer with a nil error means none.
func (p *Parser) initializer() (ast.Initializer, error) {
	start := p.mark()
	switch {
	case p.match(TokenEquals):
		clause, err := p.initializerClause()
		if clause == nil {
			return nil, err
		}
		if ie, ok := clause.(*ast.InitializerExpression); ok {
			p.finish(ie, start)
		}
		return clause, err
	case p.cpp() && p.check(TokenLeftParen):
		p.advance()
		ci := &ast.ConstructorInitializer{}
		args, err := p.argumentList()
		ci.Arguments = args
		p.finish(ci, start)
		return ci, err
	}
	return nil, nil
}

// initializerClause parses an assignment expression, a braced list or a
// C designated initializer
func (p *Parser) initializerClause() (ast.Initializer, error) {
	start := p.mark()
	if p.check(TokenLeftBrace) {
		return p.initializerList()
	}
	if !p.cpp() && (p.check(TokenDot) || p.check(TokenLeftBracket)) {
		return p.designatedInitializer()
	}
	expr, err := p.assignmentExpression()
	if expr == nil {
		return nil, err
	}
	ie := &ast.InitializerExpression{Expression: expr}
	p.finish(ie, start)
	return ie, err
}

// initializerList parses `{ clause, ... }` with an optional trailing comma
func (p *Parser) initializerList() (*ast.InitializerList, error) {
	start := p.mark()
	p.advance() // consume '{'
	list := &ast.InitializerList{}
	for !p.check(TokenRightBrace) {
		clause, err := p.initializerClause()
		if clause != nil {
			list.Clauses = append(list.Clauses, clause)
		}
		if err != nil {
			p.finish(list, start)
			return list, err
		}
		if !p.match(TokenComma) {
			break
		}
	}
	_, err := p.expect(TokenRightBrace, "'}' to close the initializer list")
	p.finish(list, start)
	return list, err
}

// designatedInitializer parses `.a[2].b = clause`
func (p *Parser) designatedInitializer() (*ast.DesignatedInitializer, error) {
	start := p.mark()
	di := &ast.DesignatedInitializer{}
	for p.check(TokenDot) || p.check(TokenLeftBracket) {
		dstart := p.mark()
		if p.match(TokenDot) {
			tok := p.peek()
			if !isIdentifierToken(tok) {
				p.finish(di, start)
				return di, p.fail("expected a field name after '.'")
			}
			var n *ast.Name
			if tok.Type == TokenCompletion {
				n = p.completionName()
			} else {
				p.advance()
				n = &ast.Name{Value: tok.Value}
				n.SetRange(tokenRange(tok, tok))
			}
			fd := &ast.FieldDesignator{Name: n}
			p.finish(fd, dstart)
			di.Designators = append(di.Designators, fd)
			if p.stopped {
				p.finish(di, start)
				return di, errStop
			}
			continue
		}
		p.advance() // consume '['
		sub, err := p.conditionalExpression()
		ad := &ast.ArrayDesignator{Subscript: sub}
		if err == nil {
			_, err = p.expect(TokenRightBracket, "']' after designator")
		}
		p.finish(ad, dstart)
		di.Designators = append(di.Designators, ad)
		if err != nil {
			p.finish(di, start)
			return di, err
		}
	}
	if _, err := p.expect(TokenEquals, "'=' after designator"); err != nil {
		p.finish(di, start)
		return di, err
	}
	operand, err := p.initializerClause()
	di.Operand = operand
	p.finish(di, start)
	return di, err
}
