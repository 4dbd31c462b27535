package parser

import (
	"cxxscope/pkg/ast"
)

// declaratorMode says whether a declarator must, may or must not have a name
type declaratorMode int

const (
	declNamed declaratorMode = iota
	declAbstract
	declEither
)

// declarator parses ptr-operators, a direct declarator (name or nested
// declarator in parentheses) and array and function suffixes
func (p *Parser) declarator(mode declaratorMode, dc declContext) (*ast.Declarator, error) {
	start := p.mark()
	d := &ast.Declarator{}
	done := func(err error) (*ast.Declarator, error) {
		if d.Name == nil && d.Nested == nil {
			empty := &ast.Name{Form: ast.NameEmpty}
			empty.SetRange(emptyRange(p.peek()))
			d.Name = empty
		}
		p.finish(d, start)
		return d, err
	}

	for p.startsPointerOperator() {
		op, err := p.pointerOperator()
		if op != nil {
			d.PointerOps = append(d.PointerOps, op)
		}
		if err != nil {
			return done(err)
		}
	}
	p.skipGNUAttributes()

	switch {
	case p.check(TokenLeftParen) && p.nestedDeclaratorAhead(mode):
		p.advance()
		inner, err := p.declarator(mode, dc)
		d.Nested = inner
		if err != nil {
			return done(err)
		}
		if _, err := p.expect(TokenRightParen, "')' after nested declarator"); err != nil {
			return done(err)
		}
	case mode != declAbstract && startsDeclaratorName(p.peek()):
		n, err := p.name()
		d.Name = n
		if err != nil {
			return done(err)
		}
	case mode == declNamed && !(dc == declMember && p.check(TokenColon)):
		return done(p.fail("expected a declarator"))
	}

	for {
		if p.check(TokenLeftBracket) {
			mod, err := p.arrayModifier()
			if mod != nil {
				d.ArrayModifiers = append(d.ArrayModifiers, mod)
			}
			if err != nil {
				return done(err)
			}
			continue
		}
		if p.check(TokenLeftParen) && !d.IsFunction && len(d.ArrayModifiers) == 0 {
			ok, err := p.functionSuffix(d, mode, dc)
			if err != nil {
				return done(err)
			}
			if ok {
				continue
			}
		}
		break
	}
	p.skipGNUAttributes()
	return done(nil)
}

func startsDeclaratorName(tok Token) bool {
	switch tok.Type {
	case TokenIdentifier, TokenCompletion, TokenDoubleColon, TokenOperator, TokenTilde:
		return true
	}
	return false
}

// startsPointerOperator reports whether a ptr-operator starts here
func (p *Parser) startsPointerOperator() bool {
	switch p.peek().Type {
	case TokenStar, TokenAmpersand:
		return true
	case TokenDoubleAmp:
		return p.cpp()
	case TokenIdentifier, TokenDoubleColon:
		return p.cpp() && p.ptrToMemberAhead(0)
	}
	return false
}

// ptrToMemberAhead scans for `[::] A [<...>] :: ... :: *` starting offset
// tokens ahead
func (p *Parser) ptrToMemberAhead(offset int) bool {
	i := offset
	if p.peekAhead(i).Type == TokenDoubleColon {
		i++
	}
	for {
		if p.peekAhead(i).Type != TokenIdentifier {
			return false
		}
		i++
		if p.peekAhead(i).Type == TokenLess {
			var ok bool
			if i, ok = p.skipAngleAhead(i); !ok {
				return false
			}
		}
		if p.peekAhead(i).Type != TokenDoubleColon {
			return false
		}
		i++
		if p.peekAhead(i).Type == TokenStar {
			return true
		}
	}
}

// skipAngleAhead skips a balanced <...> group starting at offset i and
// returns the offset after it
func (p *Parser) skipAngleAhead(i int) (int, bool) {
	depth := 0
	for {
		switch p.peekAhead(i).Type {
		case TokenLess:
			depth++
		case TokenGreater:
			depth--
		case TokenRightShift:
			depth -= 2
		case TokenSemicolon, TokenLeftBrace, TokenRightBrace, TokenEOF, TokenCompletion:
			return i, false
		}
		i++
		if depth <= 0 {
			return i, true
		}
	}
}

// pointerOperator parses '*', '&', '&&' or 'C::*' with trailing cv-qualifiers
func (p *Parser) pointerOperator() (*ast.PointerOperator, error) {
	start := p.mark()
	op := &ast.PointerOperator{}
	switch p.peek().Type {
	case TokenStar:
		p.advance()
		op.Op = ast.PointerOp
	case TokenAmpersand:
		p.advance()
		op.Op = ast.ReferenceOp
	case TokenDoubleAmp:
		p.advance()
		op.Op = ast.RValueReferenceOp
	default:
		op.Op = ast.PointerToMemberOp
		n, err := p.name()
		op.Class = n
		if err != nil {
			p.finish(op, start)
			return op, err
		}
		if _, err := p.expect(TokenDoubleColon, "'::' in pointer to member"); err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenStar, "'*' in pointer to member"); err != nil {
			return nil, err
		}
	}
	for {
		switch p.peek().Type {
		case TokenConst:
			op.Const = true
		case TokenVolatile:
			op.Volatile = true
		case TokenRestrict:
			op.Restrict = true
		default:
			p.finish(op, start)
			return op, nil
		}
		p.advance()
	}
}

// nestedDeclaratorAhead decides whether '(' at the current position opens
// a nested declarator rather than a parameter list
func (p *Parser) nestedDeclaratorAhead(mode declaratorMode) bool {
	next := p.peekAhead(1)
	switch next.Type {
	case TokenStar, TokenAmpersand, TokenDoubleAmp:
		return true
	case TokenLeftParen:
		return mode == declNamed
	case TokenIdentifier:
		if p.cpp() && p.ptrToMemberAhead(1) {
			return true
		}
		switch mode {
		case declNamed:
			return true
		case declEither:
			sym, ok := p.lookupName(next.Value)
			return !ok || sym.kind&symType == 0
		}
	case TokenCompletion, TokenOperator, TokenTilde:
		return mode == declNamed
	case TokenDoubleColon:
		return p.ptrToMemberAhead(1) || mode == declNamed
	}
	return false
}

func (p *Parser) arrayModifier() (*ast.ArrayModifier, error) {
	start := p.mark()
	p.advance() // consume '['
	mod := &ast.ArrayModifier{}
	if !p.check(TokenRightBracket) {
		size, err := p.expression()
		mod.Size = size
		if err != nil {
			p.finish(mod, start)
			return mod, err
		}
	}
	if _, err := p.expect(TokenRightBracket, "']'"); err != nil {
		p.finish(mod, start)
		return mod, err
	}
	p.finish(mod, start)
	return mod, nil
}

// scanQualifiedName reads the texts of a qualified name offset tokens
// ahead without consuming anything. It returns the offset after the name.
func (p *Parser) scanQualifiedName(offset int) ([]string, bool, int) {
	i := offset
	global := false
	if p.peekAhead(i).Type == TokenDoubleColon {
		global = true
		i++
	}
	var segs []string
	for p.peekAhead(i).Type == TokenIdentifier {
		segs = append(segs, p.peekAhead(i).Value)
		i++
		if p.peekAhead(i).Type == TokenLess && p.isTemplateName(segs[:len(segs)-1], global, segs[len(segs)-1]) {
			var ok bool
			if i, ok = p.skipAngleAhead(i); !ok {
				return nil, false, i
			}
		}
		if p.peekAhead(i).Type != TokenDoubleColon || p.peekAhead(i+1).Type != TokenIdentifier {
			break
		}
		i++
	}
	return segs, global, i
}

// parameterListAhead decides whether '(' after a declarator name starts a
// parameter list or a constructor-style initializer
func (p *Parser) parameterListAhead(dc declContext) bool {
	next := p.peekAhead(1)
	switch next.Type {
	case TokenRightParen, TokenEllipsis:
		return true
	case TokenCompletion:
		return dc == declTopLevel || dc == declMember
	case TokenIdentifier, TokenDoubleColon:
		segs, global, after := p.scanQualifiedName(1)
		if len(segs) == 0 {
			return false
		}
		if sym, ok := p.lookupSegments(segs, global); ok {
			return sym.kind&symType != 0
		}
		if dc == declTopLevel || dc == declMember {
			return true
		}
		switch p.peekAhead(after).Type {
		case TokenIdentifier, TokenStar, TokenAmpersand:
			return true
		}
		return false
	}
	return startsDeclSpecifier(next)
}

// functionSuffix parses a parameter list with its trailing qualifiers. It
// reports false, consuming nothing, when the parentheses are not a
// parameter list.
func (p *Parser) functionSuffix(d *ast.Declarator, mode declaratorMode, dc declContext) (bool, error) {
	if mode == declNamed && !p.parameterListAhead(dc) {
		return false, nil
	}
	m := p.mark()
	p.advance() // consume '('
	params, varargs, err := p.parameterClause()
	if err != nil {
		if isStop(err) || !p.backtrack(m) {
			d.IsFunction = true
			d.Parameters = params
			return true, errStop
		}
		return false, nil
	}
	d.IsFunction = true
	d.Parameters = params
	d.VarArgs = varargs

qualifiers:
	for {
		switch p.peek().Type {
		case TokenConst:
			d.Const = true
		case TokenVolatile:
			d.Volatile = true
		default:
			break qualifiers
		}
		p.advance()
	}
	if p.match(TokenThrow) {
		d.HasThrow = true
		types, err := p.exceptionSpecification()
		d.ExceptionTypes = types
		if err != nil {
			return true, err
		}
	}
	if p.match(TokenNoexcept) && p.check(TokenLeftParen) {
		p.skipBalanced()
	}
	return true, nil
}

// exceptionSpecification parses `( type-id, ... )` after throw
func (p *Parser) exceptionSpecification() ([]*ast.TypeID, error) {
	if _, err := p.expect(TokenLeftParen, "'(' after throw"); err != nil {
		return nil, err
	}
	var types []*ast.TypeID
	if p.match(TokenRightParen) {
		return types, nil
	}
	for {
		tid, err := p.typeID()
		if tid != nil {
			types = append(types, tid)
		}
		if err != nil {
			return types, err
		}
		if p.match(TokenComma) {
			continue
		}
		_, err = p.expect(TokenRightParen, "')' after exception types")
		return types, err
	}
}

// parameterClause parses parameters up to and including ')'
func (p *Parser) parameterClause() ([]*ast.ParameterDeclaration, bool, error) {
	var params []*ast.ParameterDeclaration
	if p.match(TokenRightParen) {
		return params, false, nil
	}
	for {
		if p.match(TokenEllipsis) {
			_, err := p.expect(TokenRightParen, "')' after '...'")
			return params, true, err
		}
		param, err := p.parameterDeclaration()
		if param != nil {
			params = append(params, param)
		}
		if err != nil {
			return params, false, err
		}
		if p.match(TokenComma) {
			continue
		}
		varargs := p.match(TokenEllipsis)
		_, err = p.expect(TokenRightParen, "')' after parameters")
		return params, varargs, err
	}
}

// parameterDeclaration parses decl-specifiers, an optional declarator and
// an optional default argument
func (p *Parser) parameterDeclaration() (*ast.ParameterDeclaration, error) {
	start := p.mark()
	spec, err := p.declSpecifierSeq(declParameter)
	if spec == nil {
		if err == nil {
			err = p.fail("expected a parameter declaration")
		}
		return nil, err
	}
	param := &ast.ParameterDeclaration{Specifier: spec}
	if err != nil {
		p.finish(param, start)
		return param, err
	}
	d, err := p.declarator(declEither, declParameter)
	param.Declarator = d
	if err == nil && p.match(TokenEquals) {
		istart := p.mark() - 1
		var value ast.Expression
		value, err = p.assignmentExpression()
		if value != nil {
			init := &ast.InitializerExpression{Expression: value}
			p.finish(init, istart)
			d.Initializer = init
			d.SetRange(d.Range().Join(init.Range()))
		}
	}
	p.finish(param, start)
	return param, err
}

// typeID parses a type-id: decl-specifiers and an abstract declarator
func (p *Parser) typeID() (*ast.TypeID, error) {
	start := p.mark()
	spec, err := p.declSpecifierSeq(declTypeID)
	if spec == nil {
		if err == nil {
			err = p.fail("expected a type")
		}
		return nil, err
	}
	tid := &ast.TypeID{Specifier: spec}
	if err != nil {
		p.finish(tid, start)
		return tid, err
	}
	d, err := p.declarator(declAbstract, declTypeID)
	tid.Declarator = d
	p.finish(tid, start)
	return tid, err
}
