package parser

import (
	"strings"

	"cxxscope/pkg/ast"
)

// declaration dispatches on the first token of a declaration. A nil
// declaration with a nil error is an empty declaration (a stray ';').
func (p *Parser) declaration(dc declContext) (ast.Declaration, error) {
	p.skipGNUAttributes()
	switch p.peek().Type {
	case TokenSemicolon:
		p.advance()
		return nil, nil
	case TokenTemplate:
		if p.cpp() {
			return p.templateDeclaration(dc)
		}
	case TokenExport:
		if p.cpp() && p.checkAhead(1, TokenTemplate) {
			return p.templateDeclaration(dc)
		}
	case TokenNamespace:
		if p.cpp() {
			return p.namespaceDefinition(dc)
		}
	case TokenUsing:
		if p.cpp() {
			return p.usingDeclaration()
		}
	case TokenExtern:
		if p.checkAhead(1, TokenString) {
			return p.linkageSpecification(dc)
		}
	case TokenAsm:
		return p.asmDeclaration()
	}
	return p.simpleDeclaration(dc)
}

// emptySpecifier stands in for an omitted decl-specifier-seq
func (p *Parser) emptySpecifier() ast.DeclSpecifier {
	spec := &ast.SimpleDeclSpecifier{}
	spec.SetRange(emptyRange(p.peek()))
	return spec
}

// simpleDeclaration parses decl-specifiers followed by init-declarators,
// or a function definition when the first declarator is followed by a body
func (p *Parser) simpleDeclaration(dc declContext) (ast.Declaration, error) {
	start := p.mark()
	spec, err := p.declSpecifierSeq(dc)
	if spec == nil {
		spec = p.emptySpecifier()
	}
	sd := &ast.SimpleDeclaration{Specifier: spec}
	if err != nil {
		p.finish(sd, start)
		return sd, err
	}
	if p.match(TokenSemicolon) {
		p.finish(sd, start)
		return sd, nil
	}

	for {
		d, err := p.declarator(declNamed, dc)
		if d != nil {
			sd.Declarators = append(sd.Declarators, d)
		}
		if err != nil {
			p.finish(sd, start)
			return sd, err
		}
		if len(sd.Declarators) == 1 && p.startsFunctionBody(d) {
			return p.functionDefinition(spec, d, start, dc)
		}
		p.registerDeclarator(spec, d, dc)

		if err := p.declaratorTail(d, dc); err != nil {
			p.finish(sd, start)
			return sd, err
		}
		if !p.match(TokenComma) {
			break
		}
	}
	if _, err := p.expect(TokenSemicolon, "';' after declaration"); err != nil {
		p.finish(sd, start)
		return sd, err
	}
	p.finish(sd, start)
	return sd, nil
}

// startsFunctionBody reports whether a function body follows d
func (p *Parser) startsFunctionBody(d *ast.Declarator) bool {
	if d.FunctionDeclarator() == nil {
		return false
	}
	switch p.peek().Type {
	case TokenLeftBrace, TokenTry:
		return true
	case TokenColon:
		return p.cpp()
	}
	return false
}

// declaratorTail parses what may follow a declarator in an
// init-declarator-list: a bit-field width, a pure-specifier or an
// initializer
func (p *Parser) declaratorTail(d *ast.Declarator, dc declContext) error {
	if dc == declMember && p.match(TokenColon) {
		width, err := p.conditionalExpression()
		d.BitField = width
		p.extendRange(d, width)
		return err
	}
	if dc == declMember && d.FunctionDeclarator() != nil && p.check(TokenEquals) {
		if zero := p.peekAhead(1); zero.Type == TokenNumber && zero.Value == "0" {
			p.advance()
			p.advance()
			d.FunctionDeclarator().PureVirtual = true
			return nil
		}
	}
	init, err := p.initializer()
	if init != nil {
		d.Initializer = init
		p.extendRange(d, init)
	}
	return err
}

// extendRange grows the range of n to cover child
func (p *Parser) extendRange(n ast.Node, child ast.Node) {
	if child == nil {
		return
	}
	n.SetRange(n.Range().Join(child.Range()))
}

// registerDeclarator records the declared name for later disambiguation
func (p *Parser) registerDeclarator(spec ast.DeclSpecifier, d *ast.Declarator, dc declContext) {
	n := d.DeclaredName()
	if n == nil {
		return
	}
	if _, qualified := n.(*ast.QualifiedName); qualified {
		return
	}
	name := ast.SimpleName(n)
	switch {
	case spec != nil && spec.Flags().Storage == ast.StorageTypedef:
		p.declareName(name, symType)
	case d.FunctionDeclarator() != nil:
		kind := symKind(0)
		if p.templateDecl {
			kind = symTemplate
			p.templateDecl = false
		}
		p.declareName(name, kind)
	case dc == declBlock || dc == declCondition || dc == declParameter:
		p.undeclareType(name)
	default:
		p.declareName(name, 0)
	}
}

// asmDeclaration parses asm ( "..." ) ;
func (p *Parser) asmDeclaration() (ast.Declaration, error) {
	start := p.mark()
	p.advance() // consume 'asm'
	for p.match(TokenVolatile) {
	}
	if _, err := p.expect(TokenLeftParen, "'(' after asm"); err != nil {
		return nil, err
	}
	var parts []string
	for !p.check(TokenRightParen) && !p.isAtEnd() {
		tok := p.advance()
		if tok.Type == TokenString {
			parts = append(parts, unquote(tok.Value))
		} else {
			parts = append(parts, tok.Value)
		}
	}
	if _, err := p.expect(TokenRightParen, "')' after asm"); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon, "';' after asm"); err != nil {
		return nil, err
	}
	asm := &ast.ASMDeclaration{Assembly: strings.Join(parts, "")}
	p.finish(asm, start)
	return asm, nil
}

// unquote strips the prefix and quotes of a string literal
func unquote(s string) string {
	if i := strings.IndexByte(s, '"'); i >= 0 && len(s) >= i+2 && s[len(s)-1] == '"' {
		return s[i+1 : len(s)-1]
	}
	return s
}
