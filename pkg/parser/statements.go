package parser

import (
	"errors"

	"cxxscope/pkg/ast"
)

// compoundStatement parses a block in its own scope
func (p *Parser) compoundStatement() (*ast.CompoundStatement, error) {
	p.enterScope(scopeBlock, "")
	defer p.exitScope()
	return p.blockBody()
}

// blockBody parses '{' statements '}' in the current scope. A block left
// open at the end of input keeps its statements and gains a problem.
func (p *Parser) blockBody() (*ast.CompoundStatement, error) {
	start := p.mark()
	cs := &ast.CompoundStatement{}
	if _, err := p.expect(TokenLeftBrace, "'{'"); err != nil {
		return nil, err
	}
	for !p.match(TokenRightBrace) {
		if p.isAtEnd() {
			cs.Statements = append(cs.Statements, p.problemStatement(p.mark(), "expected '}' at end of input"))
			p.finish(cs, start)
			if p.failure != nil {
				return cs, errStop
			}
			return cs, nil
		}
		if err := p.ctx.Err(); err != nil {
			p.finish(cs, start)
			return cs, err
		}
		st, err := p.statementOrProblem()
		if st != nil {
			cs.Statements = append(cs.Statements, st)
		}
		if err != nil {
			p.finish(cs, start)
			return cs, err
		}
	}
	p.finish(cs, start)
	return cs, nil
}

func (p *Parser) problemStatement(start int, msg string) *ast.ProblemStatement {
	st := &ast.ProblemStatement{Problem: p.newProblem(start, msg)}
	p.finish(st, start)
	return st
}

// statementOrProblem parses one statement and turns a syntax error into a
// ProblemStatement, resynchronising like declarations do
func (p *Parser) statementOrProblem() (ast.Statement, error) {
	start := p.mark()
	scopes := len(p.scopes)
	st, err := p.statement()
	var se *syntaxError
	if err == nil || !errors.As(err, &se) {
		return st, err
	}
	p.scopes = p.scopes[:scopes]
	p.rewind(start)
	p.skipToSync()
	prob := p.problemStatement(start, err.Error())
	if p.failure != nil {
		return prob, errStop
	}
	return prob, nil
}

// statement dispatches on the first token of a statement
func (p *Parser) statement() (ast.Statement, error) {
	start := p.mark()
	tok := p.peek()
	switch tok.Type {
	case TokenLeftBrace:
		cs, err := p.compoundStatement()
		if cs == nil {
			return nil, err
		}
		return cs, err
	case TokenSemicolon:
		p.advance()
		st := &ast.NullStatement{}
		p.finish(st, start)
		return st, nil
	case TokenIf:
		return p.ifStatement()
	case TokenWhile:
		return p.whileStatement()
	case TokenDo:
		return p.doStatement()
	case TokenFor:
		return p.forStatement()
	case TokenSwitch:
		return p.switchStatement()
	case TokenCase:
		p.advance()
		cs := &ast.CaseStatement{}
		value, err := p.conditionalExpression()
		cs.Expression = value
		if err == nil {
			_, err = p.expect(TokenColon, "':' after case value")
		}
		p.finish(cs, start)
		return cs, err
	case TokenDefault:
		p.advance()
		ds := &ast.DefaultStatement{}
		_, err := p.expect(TokenColon, "':' after default")
		p.finish(ds, start)
		return ds, err
	case TokenBreak:
		p.advance()
		return p.jumpEnd(&ast.BreakStatement{}, start)
	case TokenContinue:
		p.advance()
		return p.jumpEnd(&ast.ContinueStatement{}, start)
	case TokenReturn:
		p.advance()
		rs := &ast.ReturnStatement{}
		if !p.check(TokenSemicolon) {
			value, err := p.expression()
			rs.Value = value
			if err != nil {
				p.finish(rs, start)
				return rs, err
			}
		}
		return p.jumpEnd(rs, start)
	case TokenGoto:
		p.advance()
		gs := &ast.GotoStatement{}
		label, err := p.labelName()
		gs.Label = label
		if err != nil {
			p.finish(gs, start)
			return gs, err
		}
		return p.jumpEnd(gs, start)
	case TokenTry:
		return p.tryStatement()
	case TokenIdentifier:
		if p.checkAhead(1, TokenColon) {
			return p.labelStatement()
		}
	case TokenCompletion:
		return p.expressionStatement()
	}
	return p.declarationOrExpression()
}

// jumpEnd consumes the ';' ending a jump statement
func (p *Parser) jumpEnd(st ast.Statement, start int) (ast.Statement, error) {
	_, err := p.expect(TokenSemicolon, "';'")
	p.finish(st, start)
	return st, err
}

func (p *Parser) labelName() (*ast.Name, error) {
	tok := p.peek()
	switch tok.Type {
	case TokenCompletion:
		return p.completionName(), errStop
	case TokenIdentifier:
		p.advance()
		n := &ast.Name{Value: tok.Value}
		n.SetRange(tokenRange(tok, tok))
		return n, nil
	}
	return nil, p.fail("expected a label")
}

// labelStatement parses `label: statement`
func (p *Parser) labelStatement() (ast.Statement, error) {
	start := p.mark()
	label, _ := p.labelName()
	p.advance() // consume ':'
	ls := &ast.LabelStatement{Label: label}
	if p.check(TokenRightBrace) {
		p.finish(ls, start)
		return ls, nil
	}
	st, err := p.statement()
	ls.Statement = st
	p.finish(ls, start)
	return ls, err
}

// expressionStatement parses `expression ;`
func (p *Parser) expressionStatement() (ast.Statement, error) {
	start := p.mark()
	es := &ast.ExpressionStatement{}
	expr, err := p.expression()
	es.Expression = expr
	if err == nil {
		_, err = p.expect(TokenSemicolon, "';' after expression")
	}
	p.finish(es, start)
	return es, err
}

// declarationOrExpression resolves the declaration/expression ambiguity of
// block statements. Declarations are tried first when the leading tokens
// allow one; an expression is parsed when that attempt fails.
func (p *Parser) declarationOrExpression() (ast.Statement, error) {
	start := p.mark()
	definite, possible := p.declarationAhead()
	if !definite && !possible {
		return p.expressionStatement()
	}
	decl, err := p.declaration(declBlock)
	if definite || isStop(err) || (err == nil && hasSpecifier(decl)) {
		ds := &ast.DeclarationStatement{Declaration: decl}
		p.finish(ds, start)
		return ds, err
	}
	if !p.backtrack(start) {
		return nil, errStop
	}
	return p.expressionStatement()
}

// declarationAhead looks at the leading tokens of a block statement.
// definite means only a declaration can start here; possible means a
// declaration should be attempted before an expression.
func (p *Parser) declarationAhead() (definite, possible bool) {
	tok := p.peek()
	switch tok.Type {
	case TokenUsing, TokenNamespace, TokenAsm, TokenTemplate:
		return true, true
	case TokenExtern:
		return true, true
	}
	if startsDeclSpecifier(tok) {
		return true, true
	}
	if tok.Type != TokenIdentifier && tok.Type != TokenDoubleColon {
		return false, false
	}
	segs, global, after := p.scanQualifiedName(0)
	if len(segs) == 0 {
		return false, false
	}
	if sym, ok := p.lookupSegments(segs, global); ok {
		return false, sym.kind&symType != 0
	}
	switch p.peekAhead(after).Type {
	case TokenIdentifier:
		return false, true
	case TokenStar, TokenAmpersand:
		if p.peekAhead(after+1).Type != TokenIdentifier {
			return false, false
		}
		switch p.peekAhead(after + 2).Type {
		case TokenSemicolon, TokenEquals, TokenComma, TokenLeftBracket:
			return false, true
		}
	}
	return false, false
}

// hasSpecifier reports whether decl has a real decl-specifier; a block
// declaration without one is an expression in disguise
func hasSpecifier(decl ast.Declaration) bool {
	sd, ok := decl.(*ast.SimpleDeclaration)
	if !ok {
		return decl != nil
	}
	simple, ok := sd.Specifier.(*ast.SimpleDeclSpecifier)
	if !ok {
		return sd.Specifier != nil
	}
	return !simple.Range().Empty()
}

// condition parses the condition of if, while and for: either an
// expression or a declaration with an initializer
func (p *Parser) condition(closer TokenType) (ast.Expression, *ast.SimpleDeclaration, error) {
	start := p.mark()
	if _, possible := p.declarationAhead(); possible {
		sd, err := p.conditionDeclaration()
		if err == nil && p.check(closer) {
			return nil, sd, nil
		}
		if isStop(err) || !p.backtrack(start) {
			return nil, sd, errStop
		}
	}
	expr, err := p.withAngles(p.expression)
	return expr, nil, err
}

// conditionDeclaration parses `T x = value`
func (p *Parser) conditionDeclaration() (*ast.SimpleDeclaration, error) {
	start := p.mark()
	spec, err := p.declSpecifierSeq(declCondition)
	if spec == nil {
		if err == nil {
			err = p.fail("expected a declaration")
		}
		return nil, err
	}
	sd := &ast.SimpleDeclaration{Specifier: spec}
	if err != nil {
		p.finish(sd, start)
		return sd, err
	}
	d, err := p.declarator(declNamed, declCondition)
	sd.Declarators = append(sd.Declarators, d)
	if err == nil {
		if p.check(TokenEquals) {
			var init ast.Initializer
			init, err = p.initializer()
			if init != nil {
				d.Initializer = init
				p.extendRange(d, init)
			}
		} else {
			err = p.fail("expected '=' in condition declaration")
		}
	}
	if err == nil {
		p.registerDeclarator(spec, d, declCondition)
	}
	p.finish(sd, start)
	return sd, err
}

// parenCondition parses '(' condition ')'
func (p *Parser) parenCondition() (ast.Expression, *ast.SimpleDeclaration, error) {
	if _, err := p.expect(TokenLeftParen, "'('"); err != nil {
		return nil, nil, err
	}
	expr, decl, err := p.condition(TokenRightParen)
	if err == nil {
		_, err = p.expect(TokenRightParen, "')' after condition")
	}
	return expr, decl, err
}

func (p *Parser) ifStatement() (ast.Statement, error) {
	start := p.mark()
	p.advance() // consume 'if'
	p.enterScope(scopeBlock, "")
	defer p.exitScope()

	is := &ast.IfStatement{}
	cond, decl, err := p.parenCondition()
	is.Condition, is.ConditionDecl = cond, decl
	if err != nil {
		p.finish(is, start)
		return is, err
	}
	then, err := p.statement()
	is.Then = then
	if err != nil {
		p.finish(is, start)
		return is, err
	}
	// an else belongs to the innermost if
	if p.match(TokenElse) {
		els, err := p.statement()
		is.Else = els
		if err != nil {
			p.finish(is, start)
			return is, err
		}
	}
	p.finish(is, start)
	return is, nil
}

func (p *Parser) whileStatement() (ast.Statement, error) {
	start := p.mark()
	p.advance() // consume 'while'
	p.enterScope(scopeBlock, "")
	defer p.exitScope()

	ws := &ast.WhileStatement{}
	cond, decl, err := p.parenCondition()
	ws.Condition, ws.ConditionDecl = cond, decl
	if err != nil {
		p.finish(ws, start)
		return ws, err
	}
	body, err := p.statement()
	ws.Body = body
	p.finish(ws, start)
	return ws, err
}

func (p *Parser) doStatement() (ast.Statement, error) {
	start := p.mark()
	p.advance() // consume 'do'
	ds := &ast.DoStatement{}
	body, err := p.statement()
	ds.Body = body
	if err == nil {
		_, err = p.expect(TokenWhile, "'while' after do body")
	}
	if err == nil {
		_, err = p.expect(TokenLeftParen, "'(' after while")
	}
	if err != nil {
		p.finish(ds, start)
		return ds, err
	}
	cond, err := p.withAngles(p.expression)
	ds.Condition = cond
	if err == nil {
		_, err = p.expect(TokenRightParen, "')' after condition")
	}
	if err == nil {
		_, err = p.expect(TokenSemicolon, "';' after do statement")
	}
	p.finish(ds, start)
	return ds, err
}

func (p *Parser) forStatement() (ast.Statement, error) {
	start := p.mark()
	p.advance() // consume 'for'
	p.enterScope(scopeBlock, "")
	defer p.exitScope()

	fs := &ast.ForStatement{}
	if _, err := p.expect(TokenLeftParen, "'(' after for"); err != nil {
		return nil, err
	}
	done := func(err error) (ast.Statement, error) {
		p.finish(fs, start)
		return fs, err
	}

	init, err := p.forInit()
	fs.Init = init
	if err != nil {
		return done(err)
	}
	if !p.check(TokenSemicolon) {
		cond, decl, err := p.condition(TokenSemicolon)
		fs.Condition, fs.ConditionDecl = cond, decl
		if err != nil {
			return done(err)
		}
	}
	if _, err := p.expect(TokenSemicolon, "';' after for condition"); err != nil {
		return done(err)
	}
	if !p.check(TokenRightParen) {
		iter, err := p.withAngles(p.expression)
		fs.Iteration = iter
		if err != nil {
			return done(err)
		}
	}
	if _, err := p.expect(TokenRightParen, "')' after for clauses"); err != nil {
		return done(err)
	}
	body, err := p.statement()
	fs.Body = body
	return done(err)
}

// forInit parses the init-statement of a for loop including its ';'
func (p *Parser) forInit() (ast.Statement, error) {
	if p.check(TokenSemicolon) {
		start := p.mark()
		p.advance()
		st := &ast.NullStatement{}
		p.finish(st, start)
		return st, nil
	}
	return p.declarationOrExpression()
}

func (p *Parser) switchStatement() (ast.Statement, error) {
	start := p.mark()
	p.advance() // consume 'switch'
	ss := &ast.SwitchStatement{}
	if _, err := p.expect(TokenLeftParen, "'(' after switch"); err != nil {
		return nil, err
	}
	controller, err := p.withAngles(p.expression)
	ss.Controller = controller
	if err == nil {
		_, err = p.expect(TokenRightParen, "')' after switch value")
	}
	if err != nil {
		p.finish(ss, start)
		return ss, err
	}
	body, err := p.statement()
	ss.Body = body
	p.finish(ss, start)
	return ss, err
}

func (p *Parser) tryStatement() (ast.Statement, error) {
	start := p.mark()
	p.advance() // consume 'try'
	ts := &ast.TryBlockStatement{}
	body, err := p.compoundStatement()
	ts.Body = body
	if err != nil {
		p.finish(ts, start)
		return ts, err
	}
	handlers, err := p.catchHandlers()
	ts.Handlers = handlers
	p.finish(ts, start)
	return ts, err
}

// catchHandlers parses one or more `catch (decl) { ... }` clauses
func (p *Parser) catchHandlers() ([]*ast.CatchHandler, error) {
	var handlers []*ast.CatchHandler
	if !p.check(TokenCatch) {
		return nil, p.fail("expected 'catch'")
	}
	for p.check(TokenCatch) {
		h, err := p.catchHandler()
		if h != nil {
			handlers = append(handlers, h)
		}
		if err != nil {
			return handlers, err
		}
	}
	return handlers, nil
}

func (p *Parser) catchHandler() (*ast.CatchHandler, error) {
	start := p.mark()
	p.advance() // consume 'catch'
	h := &ast.CatchHandler{}
	if _, err := p.expect(TokenLeftParen, "'(' after catch"); err != nil {
		return nil, err
	}
	p.enterScope(scopeBlock, "")
	defer p.exitScope()

	if p.match(TokenEllipsis) {
		h.CatchAll = true
	} else {
		dstart := p.mark()
		spec, err := p.declSpecifierSeq(declParameter)
		if spec == nil {
			if err == nil {
				err = p.fail("expected an exception declaration")
			}
			p.finish(h, start)
			return h, err
		}
		sd := &ast.SimpleDeclaration{Specifier: spec}
		h.Declaration = sd
		if err == nil {
			var d *ast.Declarator
			d, err = p.declarator(declEither, declParameter)
			sd.Declarators = append(sd.Declarators, d)
			if n := d.DeclaredName(); n != nil {
				p.undeclareType(ast.SimpleName(n))
			}
		}
		p.finish(sd, dstart)
		if err != nil {
			p.finish(h, start)
			return h, err
		}
	}
	if _, err := p.expect(TokenRightParen, "')' after exception declaration"); err != nil {
		p.finish(h, start)
		return h, err
	}
	body, err := p.blockBody()
	h.Body = body
	p.finish(h, start)
	return h, err
}
