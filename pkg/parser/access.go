package parser

import (
	"cxxscope/pkg/ast"
)

// isAccessSpecifier reports whether a visibility label starts here
func (p *Parser) isAccessSpecifier() bool {
	switch p.peek().Type {
	case TokenPublic, TokenPrivate, TokenProtected:
		return p.checkAhead(1, TokenColon)
	}
	return false
}

// parseAccessSpecifier handles access specifier labels inside a class body
func (p *Parser) parseAccessSpecifier() (*ast.VisibilityLabel, error) {
	start := p.mark()
	accessToken := p.advance()
	if _, err := p.expect(TokenColon, "':' after access specifier"); err != nil {
		return nil, err
	}
	label := &ast.VisibilityLabel{Visibility: visibilityOf(accessToken.Type)}
	p.finish(label, start)
	return label, nil
}

func visibilityOf(tt TokenType) ast.Visibility {
	switch tt {
	case TokenPublic:
		return ast.VisibilityPublic
	case TokenProtected:
		return ast.VisibilityProtected
	case TokenPrivate:
		return ast.VisibilityPrivate
	}
	return ast.VisibilityUnspecified
}
