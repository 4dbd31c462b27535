package parser

import (
	"cxxscope/pkg/ast"
)

// templateDeclaration parses `[export] template <params> declaration` and
// explicit instantiations `template declaration`
func (p *Parser) templateDeclaration(dc declContext) (ast.Declaration, error) {
	start := p.mark()
	td := &ast.TemplateDeclaration{Exported: p.match(TokenExport)}
	p.advance() // consume 'template'

	if !p.check(TokenLess) {
		td.Instantiation = true
		decl, err := p.declaration(dc)
		td.Declaration = decl
		p.finish(td, start)
		return td, err
	}

	p.enterScope(scopeTemplateParams, "")
	defer p.exitScope()

	params, err := p.templateParameterList()
	td.Parameters = params
	if err != nil {
		p.finish(td, start)
		return td, err
	}

	saved := p.templateDecl
	p.templateDecl = true
	decl, err := p.declaration(dc)
	p.templateDecl = saved
	td.Declaration = decl
	p.finish(td, start)
	return td, err
}

// templateParameterList parses '<' template-parameter, ... '>'
func (p *Parser) templateParameterList() ([]ast.TemplateParameter, error) {
	p.advance() // consume '<'
	saved := p.angleStop
	p.angleStop = true
	defer func() { p.angleStop = saved }()

	var params []ast.TemplateParameter
	if p.closeAngle() {
		return params, nil
	}
	for {
		param, err := p.templateParameter()
		if param != nil {
			params = append(params, param)
		}
		if err != nil {
			return params, err
		}
		if p.match(TokenComma) {
			continue
		}
		if p.closeAngle() {
			return params, nil
		}
		return params, p.fail("expected '>' to close template parameters")
	}
}

// templateParameter parses one type, template or non-type parameter
func (p *Parser) templateParameter() (ast.TemplateParameter, error) {
	start := p.mark()
	tok := p.peek()
	switch {
	case tok.Type == TokenTemplate:
		return p.templatedTypeParameter()
	case tok.Type == TokenClass || tok.Type == TokenTypename:
		// `typename T::type x` is a non-type parameter
		next := p.peekAhead(1)
		if tok.Type == TokenTypename && isIdentifierToken(next) && p.checkAhead(2, TokenDoubleColon) {
			break
		}
		p.advance()
		tp := &ast.SimpleTypeTemplateParameter{UsesTypename: tok.Type == TokenTypename}
		tp.Name = p.templateParameterName()
		p.declareTemplateParam(tp.Name.Value, symType)
		if p.stopped {
			p.finish(tp, start)
			return tp, errStop
		}
		if p.match(TokenEquals) {
			def, err := p.typeID()
			tp.Default = def
			if err != nil {
				p.finish(tp, start)
				return tp, err
			}
		}
		p.finish(tp, start)
		return tp, nil
	}

	param, err := p.parameterDeclaration()
	if param == nil {
		return nil, err
	}
	if param.Declarator != nil {
		if n := param.Declarator.DeclaredName(); n != nil {
			p.declareTemplateParam(ast.SimpleName(n), 0)
		}
	}
	return param, err
}

// templatedTypeParameter parses `template <params> class T [= name]`
func (p *Parser) templatedTypeParameter() (ast.TemplateParameter, error) {
	start := p.mark()
	p.advance() // consume 'template'
	tp := &ast.TemplatedTypeTemplateParameter{}
	if !p.check(TokenLess) {
		return nil, p.fail("expected '<' after 'template'")
	}
	p.enterScope(scopeTemplateParams, "")
	params, err := p.templateParameterList()
	p.exitScope()
	tp.Parameters = params
	if err != nil {
		p.finish(tp, start)
		return tp, err
	}
	if !p.match(TokenClass) && !p.match(TokenTypename) {
		p.finish(tp, start)
		return tp, p.fail("expected 'class' in template template parameter")
	}
	tp.Name = p.templateParameterName()
	p.declareTemplateParam(tp.Name.Value, symType|symTemplate)
	if p.stopped {
		p.finish(tp, start)
		return tp, errStop
	}
	if p.match(TokenEquals) {
		def, err := p.name()
		if def != nil {
			tp.Default = def
		}
		if err == nil && def == nil {
			err = p.fail("expected a template name")
		}
		if err != nil {
			p.finish(tp, start)
			return tp, err
		}
	}
	p.finish(tp, start)
	return tp, nil
}

// templateParameterName reads an optional parameter name; unnamed
// parameters get an empty name
func (p *Parser) templateParameterName() *ast.Name {
	tok := p.peek()
	switch tok.Type {
	case TokenCompletion:
		return p.completionName()
	case TokenIdentifier:
		p.advance()
		n := &ast.Name{Value: tok.Value}
		n.SetRange(tokenRange(tok, tok))
		return n
	}
	n := &ast.Name{Form: ast.NameEmpty}
	n.SetRange(emptyRange(tok))
	return n
}
