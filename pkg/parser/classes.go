package parser

import (
	"strings"

	"cxxscope/pkg/ast"
)

// deferredBody is a member function body skipped while its class was
// being parsed; it is parsed once the class is complete so that it can
// see every member
type deferredBody struct {
	fn    *ast.FunctionDefinition
	start int // position of '{'
}

func compositeKeyOf(tt TokenType) ast.CompositeKey {
	switch tt {
	case TokenUnion:
		return ast.KeyUnion
	case TokenClass:
		return ast.KeyClass
	}
	return ast.KeyStruct
}

func elaboratedKindOf(tt TokenType) ast.ElaboratedKind {
	switch tt {
	case TokenUnion:
		return ast.ElaboratedUnion
	case TokenClass:
		return ast.ElaboratedClass
	case TokenEnum:
		return ast.ElaboratedEnum
	}
	return ast.ElaboratedStruct
}

// classSpecifier parses a class definition or an elaborated class name
func (p *Parser) classSpecifier(dc declContext, friend bool) (ast.DeclSpecifier, error) {
	start := p.mark()
	keyword := p.advance() // consume 'class', 'struct' or 'union'
	p.skipGNUAttributes()

	var n ast.NameNode
	if tok := p.peek(); isIdentifierToken(tok) || tok.Type == TokenDoubleColon {
		var err error
		n, err = p.name()
		if err != nil {
			el := &ast.ElaboratedTypeSpecifier{Elaborated: elaboratedKindOf(keyword.Type), Name: n}
			p.finish(el, start)
			if n == nil {
				return nil, err
			}
			return el, err
		}
	}

	isDefinition := p.check(TokenLeftBrace) || (p.cpp() && p.check(TokenColon))
	if !isDefinition {
		if n == nil {
			return nil, p.fail("expected a name after '%s'", keyword.Value)
		}
		el := &ast.ElaboratedTypeSpecifier{Elaborated: elaboratedKindOf(keyword.Type), Name: n}
		p.finish(el, start)
		if simple, ok := n.(*ast.Name); ok && p.cpp() && !friend {
			if _, known := p.lookupName(simple.Value); !known || p.templateDecl {
				p.declareTypeName(simple)
			}
		}
		return el, nil
	}

	cs := &ast.CompositeTypeSpecifier{Key: compositeKeyOf(keyword.Type), Name: n}
	if n == nil {
		empty := &ast.Name{Form: ast.NameEmpty}
		p.finish(empty, p.mark())
		cs.Name = empty
	}
	if p.cpp() {
		p.declareTypeName(n)
	}

	if p.match(TokenColon) {
		bases, err := p.baseClause()
		cs.Bases = bases
		if err != nil {
			p.finish(cs, start)
			return cs, err
		}
	}

	err := p.classBody(cs, n)
	p.finish(cs, start)
	if err == nil && !p.stopped {
		p.parseDeferredBodies()
	} else {
		p.deferred = p.deferred[:len(p.deferred)-1]
	}
	p.exitScope()
	return cs, err
}

// declareTypeName registers a class or enum name; names introduced by a
// template declaration are registered as templates too
func (p *Parser) declareTypeName(n ast.NameNode) {
	if n == nil {
		return
	}
	if _, qualified := n.(*ast.QualifiedName); qualified {
		return
	}
	kind := symType
	if p.templateDecl {
		kind |= symTemplate
		p.templateDecl = false
	}
	p.declareName(ast.SimpleName(n), kind)
}

// baseClause parses the base-specifier list after ':'
func (p *Parser) baseClause() ([]*ast.BaseSpecifier, error) {
	var bases []*ast.BaseSpecifier
	for {
		start := p.mark()
		base := &ast.BaseSpecifier{}
		for {
			switch p.peek().Type {
			case TokenVirtual:
				base.Virtual = true
				p.advance()
				continue
			case TokenPublic, TokenProtected, TokenPrivate:
				base.Visibility = visibilityOf(p.advance().Type)
				continue
			}
			break
		}
		n, err := p.name()
		base.Name = n
		if n != nil {
			p.finish(base, start)
			bases = append(bases, base)
		}
		if err != nil {
			return bases, err
		}
		if n == nil {
			return bases, p.fail("expected a base class name")
		}
		if !p.match(TokenComma) {
			return bases, nil
		}
	}
}

// classBody parses '{' member-specification '}' and leaves the class
// scope open for the deferred member function bodies
func (p *Parser) classBody(cs *ast.CompositeTypeSpecifier, n ast.NameNode) error {
	scopeName := ""
	if n != nil {
		segs, _ := nameSegments(n)
		scopeName = strings.Join(segs, "::")
	}
	p.enterScope(scopeClass, scopeName)
	if n != nil {
		p.getCurrentScope().class = ast.SimpleName(n)
	}
	p.deferred = append(p.deferred, nil)

	if _, err := p.expect(TokenLeftBrace, "'{' to open the class body"); err != nil {
		return err
	}
	for !p.check(TokenRightBrace) {
		if p.isAtEnd() {
			return p.fail("expected '}' to close the class body")
		}
		member, err := p.memberDeclaration()
		if member != nil {
			cs.Members = append(cs.Members, member)
		}
		if err != nil {
			return err
		}
	}
	p.advance() // consume '}'
	return nil
}

// memberDeclaration parses one member-declaration, including visibility
// labels; syntax errors become problem declarations
func (p *Parser) memberDeclaration() (ast.Declaration, error) {
	if p.isAccessSpecifier() {
		label, err := p.parseAccessSpecifier()
		if label == nil {
			return nil, err
		}
		return label, err
	}
	return p.declarationOrProblem(declMember)
}

// deferBody records the body of fn for parsing after the enclosing class
// is complete. It reports false when the body cannot be skipped (it is
// unbalanced, for example because the completion point lies inside it).
func (p *Parser) deferBody(fn *ast.FunctionDefinition) bool {
	n := len(p.deferred)
	if n == 0 || !p.check(TokenLeftBrace) {
		return false
	}
	start := p.mark()
	if !p.skipBalanced() {
		p.rewind(start)
		return false
	}
	p.deferred[n-1] = append(p.deferred[n-1], &deferredBody{fn: fn, start: start})
	return true
}

// parseDeferredBodies parses the bodies skipped in the innermost class and
// returns to the current position afterwards
func (p *Parser) parseDeferredBodies() {
	n := len(p.deferred)
	if n == 0 {
		return
	}
	bodies := p.deferred[n-1]
	p.deferred = p.deferred[:n-1]
	resume := p.mark()
	for _, d := range bodies {
		p.rewind(d.start)
		body, err := p.functionBody(d.fn)
		if body != nil {
			d.fn.Body = body
			d.fn.SetRange(d.fn.Range().Join(body.Range()))
		}
		if err != nil {
			p.log.Debug("member function body", "file", p.path, "error", err)
		}
	}
	p.rewind(resume)
}
