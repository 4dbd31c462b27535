package parser

// TokenCache buffers tokens pulled from a TokenSource so the parser can
// look ahead and backtrack. Tokens are fetched lazily; nothing is read
// past the point the parser actually needs.
type TokenCache struct {
	src     TokenSource
	tokens  []Token
	current int
	eof     bool
}

// NewTokenCache wraps src
func NewTokenCache(src TokenSource) *TokenCache {
	return &TokenCache{src: src}
}

// fill makes sure index i is buffered, unless the source ran dry
func (tc *TokenCache) fill(i int) {
	for !tc.eof && len(tc.tokens) <= i {
		tok := tc.src.Next()
		tc.tokens = append(tc.tokens, tok)
		if tok.Type == TokenEOF {
			tc.eof = true
		}
	}
}

// at returns the token at absolute index i, or the final EOF token
func (tc *TokenCache) at(i int) Token {
	if i < 0 {
		return Token{Type: TokenEOF}
	}
	tc.fill(i)
	if i < len(tc.tokens) {
		return tc.tokens[i]
	}
	if n := len(tc.tokens); n > 0 {
		return tc.tokens[n-1]
	}
	return Token{Type: TokenEOF}
}

// peek returns the current token without advancing
func (tc *TokenCache) peek() Token { return tc.at(tc.current) }

// peekAhead looks ahead by offset tokens
func (tc *TokenCache) peekAhead(offset int) Token { return tc.at(tc.current + offset) }

// previous returns the last consumed token
func (tc *TokenCache) previous() Token { return tc.at(tc.current - 1) }

// advance returns the current token and moves to the next
func (tc *TokenCache) advance() Token {
	tok := tc.peek()
	if tok.Type != TokenEOF {
		tc.current++
	}
	return tok
}

// getCurrentPosition returns the current position for a later reset
func (tc *TokenCache) getCurrentPosition() int { return tc.current }

// setCurrentPosition rewinds (or fast-forwards) to a saved position
func (tc *TokenCache) setCurrentPosition(pos int) { tc.current = pos }

// splitShift turns a '>>' at the current position into two '>' tokens so
// that nested template argument lists can be closed one at a time
func (tc *TokenCache) splitShift() {
	tok := tc.peek()
	if tok.Type != TokenRightShift {
		return
	}
	first := tok
	first.Type, first.Value, first.Length = TokenGreater, ">", 1
	second := first
	second.Offset++
	second.Column++
	i := tc.current
	tc.tokens = append(tc.tokens[:i+1], tc.tokens[i:]...)
	tc.tokens[i] = first
	tc.tokens[i+1] = second
}

// consumed returns every buffered token before the current position
func (tc *TokenCache) consumed() []Token {
	if tc.current > len(tc.tokens) {
		return tc.tokens
	}
	return tc.tokens[:tc.current]
}
