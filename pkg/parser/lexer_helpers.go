package parser

// advance returns the current token and moves to the next
func (p *Parser) advance() Token { return p.tokens.advance() }

// isAtEnd checks if we're at the end of tokens
func (p *Parser) isAtEnd() bool { return p.peek().Type == TokenEOF }

// peek returns the current token without advancing
func (p *Parser) peek() Token { return p.tokens.peek() }

// previous returns the previous token
func (p *Parser) previous() Token { return p.tokens.previous() }

// peekAhead looks ahead by offset tokens
func (p *Parser) peekAhead(offset int) Token { return p.tokens.peekAhead(offset) }

// mark returns the current position for rewind and finish
func (p *Parser) mark() int { return p.tokens.getCurrentPosition() }

// rewind moves back to a position returned by mark
func (p *Parser) rewind(pos int) { p.tokens.setCurrentPosition(pos) }

// backtrack rewinds to pos unless the parse has been asked to stop, in
// which case nothing may be re-read and the caller must return errStop
func (p *Parser) backtrack(pos int) bool {
	if p.stopped {
		return false
	}
	p.rewind(pos)
	return true
}

// check returns true if current token is of given type
func (p *Parser) check(tokenType TokenType) bool {
	return p.peek().Type == tokenType
}

// checkAhead returns true if the token offset places ahead is of given type
func (p *Parser) checkAhead(offset int, tokenType TokenType) bool {
	return p.peekAhead(offset).Type == tokenType
}

// match checks if current token matches any of the given types
func (p *Parser) match(types ...TokenType) bool {
	for _, tokenType := range types {
		if p.check(tokenType) {
			p.advance()
			return true
		}
	}
	return false
}

// expect consumes a token of the given type or fails naming what was wanted
func (p *Parser) expect(tokenType TokenType, what string) (Token, error) {
	if p.check(tokenType) {
		return p.advance(), nil
	}
	return p.peek(), p.fail("expected %s", what)
}

// isIdentifierToken reports whether tok can start an unqualified name
func isIdentifierToken(tok Token) bool {
	return tok.Type == TokenIdentifier || tok.Type == TokenCompletion
}

// skipBalanced skips a parenthesised, bracketed or braced group starting
// at the current token; it reports false if the input ends first
func (p *Parser) skipBalanced() bool {
	open := p.peek().Type
	var closer TokenType
	switch open {
	case TokenLeftParen:
		closer = TokenRightParen
	case TokenLeftBracket:
		closer = TokenRightBracket
	case TokenLeftBrace:
		closer = TokenRightBrace
	default:
		return false
	}
	depth := 0
	for !p.isAtEnd() {
		switch p.advance().Type {
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return true
			}
		case TokenCompletion:
			return false
		}
	}
	return false
}

// skipGNUAttributes skips __attribute__((...)), __declspec(...) and
// __extension__ when GNU extensions are enabled
func (p *Parser) skipGNUAttributes() {
	if !p.opts.GNU {
		return
	}
	for p.check(TokenIdentifier) {
		switch p.peek().Value {
		case "__attribute__", "__attribute", "__declspec":
			p.advance()
			if p.check(TokenLeftParen) {
				p.skipBalanced()
			}
		case "__extension__", "__inline", "__inline__":
			p.advance()
		default:
			return
		}
	}
}
