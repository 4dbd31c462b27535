package parser

import (
	"strings"

	"cxxscope/pkg/ast"
)

// binaryOperator describes an infix operator for precedence climbing
type binaryOperator struct {
	prec int
	op   ast.BinaryOp
}

var binaryOperators = map[TokenType]binaryOperator{
	TokenDoublePipe:   {1, ast.BinaryLogicalOr},
	TokenDoubleAmp:    {2, ast.BinaryLogicalAnd},
	TokenPipe:         {3, ast.BinaryBitOr},
	TokenCaret:        {4, ast.BinaryBitXor},
	TokenAmpersand:    {5, ast.BinaryBitAnd},
	TokenDoubleEquals: {6, ast.BinaryEquals},
	TokenNotEquals:    {6, ast.BinaryNotEquals},
	TokenLess:         {7, ast.BinaryLess},
	TokenGreater:      {7, ast.BinaryGreater},
	TokenLessEqual:    {7, ast.BinaryLessEqual},
	TokenGreaterEqual: {7, ast.BinaryGreaterEqual},
	TokenLeftShift:    {8, ast.BinaryShiftLeft},
	TokenRightShift:   {8, ast.BinaryShiftRight},
	TokenPlus:         {9, ast.BinaryPlus},
	TokenMinus:        {9, ast.BinaryMinus},
	TokenStar:         {10, ast.BinaryMultiply},
	TokenSlash:        {10, ast.BinaryDivide},
	TokenPercent:      {10, ast.BinaryModulo},
	TokenDotStar:      {11, ast.BinaryPointerToMember},
	TokenArrowStar:    {11, ast.BinaryPointerToMemberPtr},
}

var assignmentOperators = map[TokenType]ast.BinaryOp{
	TokenEquals:           ast.BinaryAssign,
	TokenStarEquals:       ast.BinaryMultiplyAssign,
	TokenSlashEquals:      ast.BinaryDivideAssign,
	TokenPercentEquals:    ast.BinaryModuloAssign,
	TokenPlusEquals:       ast.BinaryPlusAssign,
	TokenMinusEquals:      ast.BinaryMinusAssign,
	TokenLeftShiftEquals:  ast.BinaryShiftLeftAssign,
	TokenRightShiftEquals: ast.BinaryShiftRightAssign,
	TokenAmpEquals:        ast.BinaryBitAndAssign,
	TokenCaretEquals:      ast.BinaryBitXorAssign,
	TokenPipeEquals:       ast.BinaryBitOrAssign,
}

var unaryOperators = map[TokenType]ast.UnaryOp{
	TokenStar:        ast.UnaryStar,
	TokenAmpersand:   ast.UnaryAmper,
	TokenPlus:        ast.UnaryPlus,
	TokenMinus:       ast.UnaryMinus,
	TokenExclamation: ast.UnaryNot,
	TokenTilde:       ast.UnaryTilde,
	TokenPlusPlus:    ast.UnaryPrefixIncr,
	TokenMinusMinus:  ast.UnaryPrefixDecr,
}

var namedCasts = map[TokenType]ast.CastOp{
	TokenStaticCast:      ast.CastStatic,
	TokenDynamicCast:     ast.CastDynamic,
	TokenReinterpretCast: ast.CastReinterpret,
	TokenConstCast:       ast.CastConst,
}

// withAngles parses fn with '>' treated as an operator again, as inside
// parentheses and brackets
func (p *Parser) withAngles(fn func() (ast.Expression, error)) (ast.Expression, error) {
	saved := p.angleStop
	p.angleStop = false
	defer func() { p.angleStop = saved }()
	return fn()
}

// expression parses a comma-separated expression
func (p *Parser) expression() (ast.Expression, error) {
	start := p.mark()
	first, err := p.assignmentExpression()
	if err != nil || !p.check(TokenComma) {
		return first, err
	}
	list := &ast.ExpressionList{Expressions: []ast.Expression{first}}
	for p.match(TokenComma) {
		next, err := p.assignmentExpression()
		if next != nil {
			list.Expressions = append(list.Expressions, next)
		}
		if err != nil {
			p.finish(list, start)
			return list, err
		}
	}
	p.finish(list, start)
	return list, nil
}

// assignmentExpression parses throw-expressions and assignments
func (p *Parser) assignmentExpression() (ast.Expression, error) {
	start := p.mark()
	if p.match(TokenThrow) {
		th := &ast.UnaryExpression{Op: ast.UnaryThrow}
		switch p.peek().Type {
		case TokenSemicolon, TokenRightParen, TokenRightBracket, TokenComma, TokenColon:
		default:
			operand, err := p.assignmentExpression()
			th.Operand = operand
			if err != nil {
				p.finish(th, start)
				return th, err
			}
		}
		p.finish(th, start)
		return th, nil
	}

	left, err := p.conditionalExpression()
	if err != nil {
		return left, err
	}
	op, ok := assignmentOperators[p.peek().Type]
	if !ok {
		return left, nil
	}
	p.advance()
	right, err := p.assignmentExpression()
	bin := &ast.BinaryExpression{Op: op, Operand1: left, Operand2: right}
	p.finish(bin, start)
	return bin, err
}

// conditionalExpression parses `cond ? a : b`
func (p *Parser) conditionalExpression() (ast.Expression, error) {
	start := p.mark()
	cond, err := p.binaryExpression(1)
	if err != nil || !p.check(TokenQuestion) {
		return cond, err
	}
	p.advance()
	ce := &ast.ConditionalExpression{Condition: cond}
	pos, err := p.withAngles(p.expression)
	ce.Positive = pos
	if err == nil {
		_, err = p.expect(TokenColon, "':' in conditional expression")
	}
	if err != nil {
		p.finish(ce, start)
		return ce, err
	}
	neg, err := p.assignmentExpression()
	ce.Negative = neg
	p.finish(ce, start)
	return ce, err
}

// binaryExpression parses infix operators of at least minPrec by
// precedence climbing; all binary operators are left associative
func (p *Parser) binaryExpression(minPrec int) (ast.Expression, error) {
	start := p.mark()
	left, err := p.castExpression()
	if err != nil {
		return left, err
	}
	for {
		tok := p.peek()
		info, ok := binaryOperators[tok.Type]
		if !ok || info.prec < minPrec {
			return left, nil
		}
		if p.angleStop && (tok.Type == TokenGreater || tok.Type == TokenRightShift) {
			return left, nil
		}
		p.advance()
		right, err := p.binaryExpression(info.prec + 1)
		bin := &ast.BinaryExpression{Op: info.op, Operand1: left, Operand2: right}
		p.finish(bin, start)
		left = bin
		if err != nil {
			return left, err
		}
	}
}

// castExpression parses `(type-id) cast-expression` or a unary expression
func (p *Parser) castExpression() (ast.Expression, error) {
	if !p.check(TokenLeftParen) {
		return p.unaryExpression()
	}
	start := p.mark()
	p.advance()
	tid, err := p.typeID()
	if err == nil && p.check(TokenRightParen) && startsCastOperand(p.peekAhead(1), false) {
		p.advance()
		return p.castOperand(tid, start)
	}
	if !p.backtrack(start) {
		if tid == nil {
			return nil, errStop
		}
		cast := &ast.CastExpression{TypeID: tid}
		p.finish(cast, start)
		return cast, errStop
	}

	// (T)x where T comes from a header that was not read
	if isIdentifierToken(p.peekAhead(1)) && p.peekAhead(1).Type != TokenCompletion &&
		p.checkAhead(2, TokenRightParen) && startsCastOperand(p.peekAhead(3), true) {
		if _, known := p.lookupName(p.peekAhead(1).Value); !known {
			p.advance()
			id := p.advance()
			n := &ast.Name{Value: id.Value}
			n.SetRange(tokenRange(id, id))
			named := &ast.NamedTypeSpecifier{Name: n}
			named.SetRange(n.Range())
			d := &ast.Declarator{Name: &ast.Name{Form: ast.NameEmpty}}
			d.Name.SetRange(emptyRange(p.peek()))
			d.SetRange(emptyRange(p.peek()))
			tid := &ast.TypeID{Specifier: named, Declarator: d}
			tid.SetRange(n.Range())
			p.advance() // ')'
			return p.castOperand(tid, start)
		}
	}
	return p.unaryExpression()
}

func (p *Parser) castOperand(tid *ast.TypeID, start int) (ast.Expression, error) {
	cast := &ast.CastExpression{Op: ast.CastC, TypeID: tid}
	operand, err := p.castExpression()
	cast.Operand = operand
	p.finish(cast, start)
	return cast, err
}

// startsCastOperand reports whether tok can follow the ')' of a C-style
// cast. Guessed casts of unknown names accept fewer tokens, so that
// `(a) - b` and `(f)(x)` stay expressions.
func startsCastOperand(tok Token, guessed bool) bool {
	switch tok.Type {
	case TokenIdentifier, TokenNumber, TokenString, TokenCharLiteral, TokenCompletion,
		TokenThis, TokenTrue, TokenFalse, TokenNullptr, TokenSizeof, TokenNew, TokenDelete,
		TokenStaticCast, TokenDynamicCast, TokenReinterpretCast, TokenConstCast, TokenTypeid,
		TokenExclamation, TokenTilde:
		return true
	case TokenLeftParen, TokenStar, TokenAmpersand, TokenPlus, TokenMinus,
		TokenPlusPlus, TokenMinusMinus, TokenDoubleColon:
		return !guessed
	}
	return false
}

// unaryExpression parses prefix operators, sizeof, alignof, new and delete
func (p *Parser) unaryExpression() (ast.Expression, error) {
	start := p.mark()
	tok := p.peek()

	if op, ok := unaryOperators[tok.Type]; ok {
		p.advance()
		u := &ast.UnaryExpression{Op: op}
		operand, err := p.castExpression()
		u.Operand = operand
		p.finish(u, start)
		return u, err
	}

	switch tok.Type {
	case TokenSizeof:
		return p.sizeofExpression(ast.UnarySizeof, ast.TypeIDSizeof)
	case TokenAlignof:
		return p.sizeofExpression(ast.UnaryAlignof, ast.TypeIDAlignof)
	case TokenNew:
		return p.newExpression(start)
	case TokenDelete:
		return p.deleteExpression(start)
	case TokenDoubleColon:
		switch p.peekAhead(1).Type {
		case TokenNew:
			p.advance()
			return p.newExpression(start)
		case TokenDelete:
			p.advance()
			return p.deleteExpression(start)
		}
	}
	return p.postfixExpression()
}

// sizeofExpression parses `sizeof (type-id)` or `sizeof unary-expression`
func (p *Parser) sizeofExpression(unary ast.UnaryOp, typed ast.TypeIDOp) (ast.Expression, error) {
	start := p.mark()
	p.advance() // consume sizeof or __alignof__
	if p.check(TokenLeftParen) {
		m := p.mark()
		p.advance()
		tid, err := p.typeID()
		if err == nil && p.match(TokenRightParen) {
			te := &ast.TypeIDExpression{Op: typed, TypeID: tid}
			p.finish(te, start)
			return te, nil
		}
		if !p.backtrack(m) {
			te := &ast.TypeIDExpression{Op: typed, TypeID: tid}
			p.finish(te, start)
			return te, errStop
		}
	}
	u := &ast.UnaryExpression{Op: unary}
	operand, err := p.unaryExpression()
	u.Operand = operand
	p.finish(u, start)
	return u, err
}

// newExpression parses `new [(placement)] type [(initializer)]`; a leading
// '::' has already been consumed
func (p *Parser) newExpression(start int) (ast.Expression, error) {
	ne := &ast.NewExpression{Global: p.previous().Type == TokenDoubleColon && p.mark() > start}
	p.advance() // consume 'new'

	if p.check(TokenLeftParen) {
		m := p.mark()
		p.advance()
		args, err := p.argumentList()
		if next := p.peek(); err == nil && (isIdentifierToken(next) || next.Type == TokenDoubleColon || startsDeclSpecifier(next)) {
			ne.Placement = args
		} else if !p.backtrack(m) {
			ne.Placement = args
			p.finish(ne, start)
			return ne, errStop
		}
	}

	if p.check(TokenLeftParen) {
		p.advance()
		tid, err := p.typeID()
		ne.TypeID = tid
		if err == nil {
			_, err = p.expect(TokenRightParen, "')' after type")
		}
		if err != nil {
			p.finish(ne, start)
			return ne, err
		}
	} else {
		tid, err := p.newTypeID()
		ne.TypeID = tid
		if err != nil {
			p.finish(ne, start)
			return ne, err
		}
	}

	if p.match(TokenLeftParen) {
		ne.HasInit = true
		args, err := p.argumentList()
		ne.Initializer = args
		if err != nil {
			p.finish(ne, start)
			return ne, err
		}
	}
	p.finish(ne, start)
	return ne, nil
}

// newTypeID parses the type of a new-expression without parentheses;
// its declarator has only pointer operators and array dimensions
func (p *Parser) newTypeID() (*ast.TypeID, error) {
	start := p.mark()
	spec, err := p.declSpecifierSeq(declTypeID)
	if spec == nil && err == nil {
		// the type may come from a header that was not read
		if n, nerr := p.name(); n != nil {
			guessed := &ast.NamedTypeSpecifier{Name: n}
			p.finish(guessed, start)
			spec, err = guessed, nerr
		}
	}
	if spec == nil {
		if err == nil {
			err = p.fail("expected a type after 'new'")
		}
		return nil, err
	}
	tid := &ast.TypeID{Specifier: spec}
	if err != nil {
		p.finish(tid, start)
		return tid, err
	}
	dstart := p.mark()
	d := &ast.Declarator{}
	for p.startsPointerOperator() {
		op, err := p.pointerOperator()
		if op != nil {
			d.PointerOps = append(d.PointerOps, op)
		}
		if err != nil {
			p.finish(d, dstart)
			tid.Declarator = d
			p.finish(tid, start)
			return tid, err
		}
	}
	for p.check(TokenLeftBracket) {
		mod, err := p.arrayModifier()
		if mod != nil {
			d.ArrayModifiers = append(d.ArrayModifiers, mod)
		}
		if err != nil {
			break
		}
	}
	d.Name = &ast.Name{Form: ast.NameEmpty}
	d.Name.SetRange(emptyRange(p.peek()))
	p.finish(d, dstart)
	tid.Declarator = d
	p.finish(tid, start)
	if p.stopped {
		return tid, errStop
	}
	return tid, nil
}

// deleteExpression parses `delete [] x`; a leading '::' has already been
// consumed
func (p *Parser) deleteExpression(start int) (ast.Expression, error) {
	de := &ast.DeleteExpression{Global: p.previous().Type == TokenDoubleColon && p.mark() > start}
	p.advance() // consume 'delete'
	if p.check(TokenLeftBracket) && p.checkAhead(1, TokenRightBracket) {
		p.advance()
		p.advance()
		de.Vectored = true
	}
	operand, err := p.castExpression()
	de.Operand = operand
	p.finish(de, start)
	return de, err
}

// postfixExpression parses a primary expression followed by calls,
// subscripts, member accesses and postfix increments
func (p *Parser) postfixExpression() (ast.Expression, error) {
	start := p.mark()
	expr, err := p.primaryExpression()
	if err != nil {
		return expr, err
	}
	for {
		switch p.peek().Type {
		case TokenLeftBracket:
			p.advance()
			sub := &ast.ArraySubscriptExpression{Array: expr}
			index, err := p.withAngles(p.expression)
			sub.Subscript = index
			if err == nil {
				_, err = p.expect(TokenRightBracket, "']' after subscript")
			}
			p.finish(sub, start)
			expr = sub
			if err != nil {
				return expr, err
			}
		case TokenLeftParen:
			p.advance()
			call := &ast.FunctionCallExpression{Function: expr}
			args, err := p.argumentList()
			call.Arguments = args
			p.finish(call, start)
			expr = call
			if err != nil {
				return expr, err
			}
		case TokenDot, TokenArrow:
			ref, err := p.fieldReference(expr, start)
			expr = ref
			if err != nil {
				return expr, err
			}
		case TokenPlusPlus, TokenMinusMinus:
			op := ast.UnaryPostfixIncr
			if p.advance().Type == TokenMinusMinus {
				op = ast.UnaryPostfixDecr
			}
			u := &ast.UnaryExpression{Op: op, Operand: expr}
			p.finish(u, start)
			expr = u
		default:
			return expr, nil
		}
	}
}

// fieldReference parses `.name` or `->name` applied to owner
func (p *Parser) fieldReference(owner ast.Expression, start int) (ast.Expression, error) {
	ref := &ast.FieldReference{Owner: owner, Arrow: p.advance().Type == TokenArrow}
	ref.Template = p.check(TokenTemplate)
	if !startsName(p.peek()) {
		p.finish(ref, start)
		return ref, p.fail("expected a member name")
	}
	n, err := p.name()
	if n != nil {
		ref.Field = n
	}
	if err == nil && n != nil && p.check(TokenLess) {
		if simple, ok := n.(*ast.Name); ok && simple.Form == ast.NameIdentifier {
			// member templates are unknown to the parser; accept an
			// argument list when a call follows it
			m := p.mark()
			tid, terr := p.templateID(simple, m-1)
			if terr == nil && p.check(TokenLeftParen) {
				ref.Field = tid
			} else if !p.backtrack(m) {
				p.finish(ref, start)
				return ref, errStop
			}
		}
	}
	p.finish(ref, start)
	switch {
	case err != nil:
	case n == nil:
		err = p.fail("expected a member name")
	case p.stopped:
		err = errStop
	}
	return ref, err
}

// argumentList parses `expr, ...` and the closing ')'; the '(' has already
// been consumed
func (p *Parser) argumentList() ([]ast.Expression, error) {
	saved := p.angleStop
	p.angleStop = false
	defer func() { p.angleStop = saved }()

	var args []ast.Expression
	if p.match(TokenRightParen) {
		return args, nil
	}
	for {
		arg, err := p.assignmentExpression()
		if arg != nil {
			args = append(args, arg)
		}
		if err != nil {
			return args, err
		}
		if !p.match(TokenComma) {
			break
		}
	}
	_, err := p.expect(TokenRightParen, "')' after arguments")
	return args, err
}

// primaryExpression parses literals, names, parenthesised expressions,
// named casts, typeid and functional casts
func (p *Parser) primaryExpression() (ast.Expression, error) {
	start := p.mark()
	tok := p.peek()

	literal := func(kind ast.LiteralKind, value string) (ast.Expression, error) {
		lit := &ast.LiteralExpression{Literal: kind, Value: value}
		p.finish(lit, start)
		return lit, nil
	}

	switch tok.Type {
	case TokenNumber:
		p.advance()
		return literal(numberKind(tok.Value), tok.Value)
	case TokenCharLiteral:
		p.advance()
		return literal(ast.LiteralChar, tok.Value)
	case TokenString:
		return literal(ast.LiteralString, p.stringLiteral())
	case TokenTrue:
		p.advance()
		return literal(ast.LiteralTrue, tok.Value)
	case TokenFalse:
		p.advance()
		return literal(ast.LiteralFalse, tok.Value)
	case TokenThis:
		p.advance()
		return literal(ast.LiteralThis, tok.Value)
	case TokenNullptr:
		p.advance()
		return literal(ast.LiteralNullptr, tok.Value)

	case TokenLeftParen:
		p.advance()
		u := &ast.UnaryExpression{Op: ast.UnaryBracketed}
		inner, err := p.withAngles(p.expression)
		u.Operand = inner
		if err == nil {
			_, err = p.expect(TokenRightParen, "')'")
		}
		p.finish(u, start)
		return u, err

	case TokenStaticCast, TokenDynamicCast, TokenReinterpretCast, TokenConstCast:
		return p.namedCast()
	case TokenTypeid:
		return p.typeidExpression()

	case TokenVoid, TokenChar, TokenWChar, TokenBool, TokenInt, TokenFloat, TokenDouble,
		TokenSigned, TokenUnsigned, TokenShort, TokenLong, TokenTypename:
		return p.typeConstructor()
	}

	if startsName(tok) {
		n, err := p.name()
		if n == nil {
			if err == nil {
				err = p.fail("expected an expression")
			}
			return nil, err
		}
		if err == nil && p.cpp() && p.check(TokenLeftParen) && p.isTypeName(n) {
			named := &ast.NamedTypeSpecifier{Name: n}
			p.finish(named, start)
			return p.constructorCall(named, start)
		}
		id := &ast.IdExpression{Name: n}
		p.finish(id, start)
		if err == nil && p.stopped {
			err = errStop
		}
		return id, err
	}
	return nil, p.fail("expected an expression")
}

// numberKind tells integer literals from floating ones
func numberKind(text string) ast.LiteralKind {
	lower := strings.ToLower(text)
	if strings.HasPrefix(lower, "0x") {
		if strings.ContainsRune(lower, 'p') {
			return ast.LiteralFloat
		}
		return ast.LiteralInteger
	}
	if strings.ContainsAny(lower, ".e") {
		return ast.LiteralFloat
	}
	return ast.LiteralInteger
}

// stringLiteral consumes adjacent string literals and returns them
// concatenated as one literal
func (p *Parser) stringLiteral() string {
	first := p.advance()
	if !p.check(TokenString) {
		return first.Value
	}
	var b strings.Builder
	if i := strings.IndexByte(first.Value, '"'); i > 0 {
		b.WriteString(first.Value[:i])
	}
	b.WriteByte('"')
	b.WriteString(unquote(first.Value))
	for p.check(TokenString) {
		b.WriteString(unquote(p.advance().Value))
	}
	b.WriteByte('"')
	return b.String()
}

// namedCast parses `static_cast<T>(x)` and the other named casts
func (p *Parser) namedCast() (ast.Expression, error) {
	start := p.mark()
	cast := &ast.CastExpression{Op: namedCasts[p.advance().Type]}
	if !p.check(TokenLess) {
		p.finish(cast, start)
		return cast, p.fail("expected '<' after %s", cast.Op)
	}
	p.advance()
	saved := p.angleStop
	p.angleStop = true
	tid, err := p.typeID()
	p.angleStop = saved
	cast.TypeID = tid
	if err == nil && !p.closeAngle() {
		err = p.fail("expected '>' after cast type")
	}
	if err == nil {
		_, err = p.expect(TokenLeftParen, "'(' after cast type")
	}
	if err != nil {
		p.finish(cast, start)
		return cast, err
	}
	operand, err := p.withAngles(p.expression)
	cast.Operand = operand
	if err == nil {
		_, err = p.expect(TokenRightParen, "')' after cast operand")
	}
	p.finish(cast, start)
	return cast, err
}

// typeidExpression parses `typeid(type-id)` and `typeid(expression)`
func (p *Parser) typeidExpression() (ast.Expression, error) {
	start := p.mark()
	p.advance() // consume 'typeid'
	if _, err := p.expect(TokenLeftParen, "'(' after typeid"); err != nil {
		return nil, err
	}
	m := p.mark()
	tid, err := p.typeID()
	if err == nil && p.match(TokenRightParen) {
		te := &ast.TypeIDExpression{Op: ast.TypeIDTypeid, TypeID: tid}
		p.finish(te, start)
		return te, nil
	}
	if !p.backtrack(m) {
		te := &ast.TypeIDExpression{Op: ast.TypeIDTypeid, TypeID: tid}
		p.finish(te, start)
		return te, errStop
	}
	u := &ast.UnaryExpression{Op: ast.UnaryTypeid}
	operand, err := p.withAngles(p.expression)
	u.Operand = operand
	if err == nil {
		_, err = p.expect(TokenRightParen, "')' after typeid operand")
	}
	p.finish(u, start)
	return u, err
}

// typeConstructor parses a functional cast of a simple type, such as
// `int(x)` or `typename T::type()`
func (p *Parser) typeConstructor() (ast.Expression, error) {
	start := p.mark()
	spec, err := p.declSpecifierSeq(declTypeID)
	if spec == nil {
		if err == nil {
			err = p.fail("expected an expression")
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	return p.constructorCall(spec, start)
}

func (p *Parser) constructorCall(spec ast.DeclSpecifier, start int) (ast.Expression, error) {
	tc := &ast.SimpleTypeConstructorExpression{Specifier: spec}
	if _, err := p.expect(TokenLeftParen, "'(' after type name"); err != nil {
		p.finish(tc, start)
		return tc, err
	}
	args, err := p.argumentList()
	tc.Arguments = args
	p.finish(tc, start)
	return tc, err
}
