package parser

import (
	"cxxscope/pkg/ast"
)

// namespaceDefinition parses `namespace [name] { ... }` and
// `namespace alias = target;`
func (p *Parser) namespaceDefinition(dc declContext) (ast.Declaration, error) {
	start := p.mark()
	p.advance() // consume 'namespace'
	p.skipGNUAttributes()

	n := &ast.Name{}
	if tok := p.peek(); isIdentifierToken(tok) {
		if tok.Type == TokenCompletion {
			n = p.completionName()
			ns := &ast.NamespaceDefinition{Name: n}
			p.finish(ns, start)
			return ns, errStop
		}
		p.advance()
		n.Value = tok.Value
		n.SetRange(tokenRange(tok, tok))
		if p.check(TokenEquals) {
			return p.namespaceAlias(n, start)
		}
	} else {
		n.Form = ast.NameEmpty
		n.SetRange(emptyRange(p.peek()))
	}
	p.skipGNUAttributes()

	ns := &ast.NamespaceDefinition{Name: n}
	if dc != declTopLevel {
		p.finish(ns, start)
		return ns, p.fail("namespace definition is not allowed here")
	}
	if _, err := p.expect(TokenLeftBrace, "'{' after namespace name"); err != nil {
		p.finish(ns, start)
		return ns, err
	}

	// an unnamed namespace keeps the enclosing prefix, so its members stay
	// visible there
	p.declareName(n.Value, symNamespace)
	p.enterScope(scopeNamespace, n.Value)
	err := p.declarationSeq(&ns.Declarations, declTopLevel)
	p.exitScope()
	p.finish(ns, start)
	return ns, err
}

// namespaceAlias parses the `= target;` part of a namespace alias
func (p *Parser) namespaceAlias(alias *ast.Name, start int) (ast.Declaration, error) {
	p.advance() // consume '='
	na := &ast.NamespaceAlias{Alias: alias}
	target, err := p.name()
	na.Target = target
	if err != nil || target == nil {
		if err == nil {
			err = p.fail("expected a namespace name")
		}
		p.finish(na, start)
		return na, err
	}
	if sym, ok := p.lookupNameNode(target); ok {
		p.declareAlias(alias.Value, sym.full)
	} else {
		p.declareAlias(alias.Value, target.String())
	}
	_, err = p.expect(TokenSemicolon, "';' after namespace alias")
	p.finish(na, start)
	return na, err
}

// linkageSpecification parses `extern "C" { ... }` and `extern "C" decl`
func (p *Parser) linkageSpecification(dc declContext) (ast.Declaration, error) {
	start := p.mark()
	p.advance() // consume 'extern'
	lit := p.advance()
	ls := &ast.LinkageSpecification{Literal: unquote(lit.Value)}

	if !p.match(TokenLeftBrace) {
		decl, err := p.declaration(dc)
		if decl != nil {
			ls.Declarations = append(ls.Declarations, decl)
		}
		p.finish(ls, start)
		return ls, err
	}
	err := p.declarationSeq(&ls.Declarations, dc)
	p.finish(ls, start)
	return ls, err
}

// declarationSeq parses declarations up to and including the closing
// '}', recovering from syntax errors in each one. A missing '}' at the end
// of input is recorded as a problem and the declarations are kept.
func (p *Parser) declarationSeq(out *[]ast.Declaration, dc declContext) error {
	for !p.match(TokenRightBrace) {
		if p.isAtEnd() {
			*out = append(*out, p.problemDeclaration(p.mark(), "expected '}' at end of input"))
			if p.failure != nil {
				return errStop
			}
			return nil
		}
		if err := p.ctx.Err(); err != nil {
			return err
		}
		decl, err := p.declarationOrProblem(dc)
		if decl != nil {
			*out = append(*out, decl)
		}
		if err != nil {
			return err
		}
		if p.passedSelection() {
			p.stopped = true
			return errStop
		}
	}
	return nil
}
