package parser

import (
	"cxxscope/pkg/ast"
)

// functionDefinition parses what follows the declarator of a function
// definition: mem-initializers, the body and function-try-block handlers.
// Member function bodies are skipped and parsed once the class is complete.
func (p *Parser) functionDefinition(spec ast.DeclSpecifier, d *ast.Declarator, start int, dc declContext) (ast.Declaration, error) {
	p.registerDeclarator(spec, d, dc)
	fd := &ast.FunctionDefinition{Specifier: spec, Declarator: d}
	tryBlock := p.match(TokenTry)

	if p.check(TokenColon) {
		p.advance()
		inits, err := p.memberInitializers()
		fd.MemberInits = inits
		if err != nil {
			p.finish(fd, start)
			return fd, err
		}
	}

	if !tryBlock && dc == declMember && p.deferBody(fd) {
		p.finish(fd, start)
		return fd, nil
	}

	body, err := p.functionBody(fd)
	fd.Body = body
	if err != nil {
		p.finish(fd, start)
		return fd, err
	}
	if tryBlock {
		handlers, err := p.catchHandlers()
		fd.CatchHandler = handlers
		if err != nil {
			p.finish(fd, start)
			return fd, err
		}
	}
	p.finish(fd, start)
	return fd, nil
}

// functionBody parses the compound statement of fd in a scope that sees
// its parameters and, for out-of-line members, the members of its class
func (p *Parser) functionBody(fd *ast.FunctionDefinition) (*ast.CompoundStatement, error) {
	if !p.check(TokenLeftBrace) {
		return nil, p.fail("expected '{' to open the function body")
	}
	p.enterScope(scopeBlock, "")
	defer p.exitScope()

	if full, ok := p.qualifiedScopeOf(fd.Declarator.DeclaredName()); ok {
		p.useNamespace(full)
	}
	if fn := fd.Declarator.FunctionDeclarator(); fn != nil {
		for _, param := range fn.Parameters {
			if param.Declarator == nil {
				continue
			}
			if n := param.Declarator.DeclaredName(); n != nil {
				p.undeclareType(ast.SimpleName(n))
			}
		}
	}
	return p.blockBody()
}

// memberInitializers parses `name(args), ...` after ':'
func (p *Parser) memberInitializers() ([]*ast.MemberInitializer, error) {
	var inits []*ast.MemberInitializer
	for {
		start := p.mark()
		n, err := p.name()
		if n == nil {
			if err == nil {
				err = p.fail("expected a member name")
			}
			return inits, err
		}
		mi := &ast.MemberInitializer{Member: n}
		inits = append(inits, mi)
		if err != nil {
			p.finish(mi, start)
			return inits, err
		}
		if _, err := p.expect(TokenLeftParen, "'(' after member name"); err != nil {
			p.finish(mi, start)
			return inits, err
		}
		args, err := p.argumentList()
		mi.Arguments = args
		p.finish(mi, start)
		if err != nil {
			return inits, err
		}
		if !p.match(TokenComma) {
			return inits, nil
		}
	}
}
