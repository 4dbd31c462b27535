package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errDivideByZero = errors.New("division by zero")

// condPrecedence orders the binary operators allowed in #if
var condPrecedence = map[TokenType]int{
	TokenDoublePipe:   1,
	TokenDoubleAmp:    2,
	TokenPipe:         3,
	TokenCaret:        4,
	TokenAmpersand:    5,
	TokenDoubleEquals: 6,
	TokenNotEquals:    6,
	TokenLess:         7,
	TokenGreater:      7,
	TokenLessEqual:    7,
	TokenGreaterEqual: 7,
	TokenLeftShift:    8,
	TokenRightShift:   8,
	TokenPlus:         9,
	TokenMinus:        9,
	TokenStar:         10,
	TokenSlash:        10,
	TokenPercent:      10,
}

// condEval evaluates the integer constant expression of #if and #elif
type condEval struct {
	toks []Token
	pos  int
}

func (e *condEval) parse() (int64, error) {
	if len(e.toks) == 0 {
		return 0, errors.New("empty expression")
	}
	v, err := e.ternary()
	if err != nil {
		return 0, err
	}
	if e.pos < len(e.toks) {
		return 0, fmt.Errorf("unexpected %q", e.toks[e.pos].Value)
	}
	return v, nil
}

func (e *condEval) peek() Token {
	if e.pos < len(e.toks) {
		return e.toks[e.pos]
	}
	return Token{Type: TokenEOF}
}

func (e *condEval) ternary() (int64, error) {
	cond, err := e.binary(1)
	if err != nil || e.peek().Type != TokenQuestion {
		return cond, err
	}
	e.pos++
	a, err := e.ternary()
	if err != nil {
		return 0, err
	}
	if e.peek().Type != TokenColon {
		return 0, errors.New("expected ':' in conditional")
	}
	e.pos++
	b, err := e.ternary()
	if err != nil {
		return 0, err
	}
	if cond != 0 {
		return a, nil
	}
	return b, nil
}

func (e *condEval) binary(minPrec int) (int64, error) {
	lhs, err := e.unary()
	if err != nil {
		return 0, err
	}
	for {
		op := e.peek()
		prec, ok := condPrecedence[op.Type]
		if !ok || prec < minPrec {
			return lhs, nil
		}
		e.pos++
		rhs, err := e.binary(prec + 1)
		if err != nil {
			return 0, err
		}
		if lhs, err = applyCondOp(op.Type, lhs, rhs); err != nil {
			return 0, err
		}
	}
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func applyCondOp(op TokenType, a, b int64) (int64, error) {
	switch op {
	case TokenDoublePipe:
		return boolInt(a != 0 || b != 0), nil
	case TokenDoubleAmp:
		return boolInt(a != 0 && b != 0), nil
	case TokenPipe:
		return a | b, nil
	case TokenCaret:
		return a ^ b, nil
	case TokenAmpersand:
		return a & b, nil
	case TokenDoubleEquals:
		return boolInt(a == b), nil
	case TokenNotEquals:
		return boolInt(a != b), nil
	case TokenLess:
		return boolInt(a < b), nil
	case TokenGreater:
		return boolInt(a > b), nil
	case TokenLessEqual:
		return boolInt(a <= b), nil
	case TokenGreaterEqual:
		return boolInt(a >= b), nil
	case TokenLeftShift:
		return a << uint64(b&63), nil
	case TokenRightShift:
		return a >> uint64(b&63), nil
	case TokenPlus:
		return a + b, nil
	case TokenMinus:
		return a - b, nil
	case TokenStar:
		return a * b, nil
	case TokenSlash:
		if b == 0 {
			return 0, errDivideByZero
		}
		return a / b, nil
	case TokenPercent:
		if b == 0 {
			return 0, errDivideByZero
		}
		return a % b, nil
	}
	return 0, fmt.Errorf("unsupported operator %v", op)
}

func (e *condEval) unary() (int64, error) {
	tok := e.peek()
	switch tok.Type {
	case TokenPlus, TokenMinus, TokenExclamation, TokenTilde:
		e.pos++
		v, err := e.unary()
		if err != nil {
			return 0, err
		}
		switch tok.Type {
		case TokenMinus:
			return -v, nil
		case TokenExclamation:
			return boolInt(v == 0), nil
		case TokenTilde:
			return ^v, nil
		}
		return v, nil
	case TokenLeftParen:
		e.pos++
		v, err := e.ternary()
		if err != nil {
			return 0, err
		}
		if e.peek().Type != TokenRightParen {
			return 0, errors.New("expected ')'")
		}
		e.pos++
		return v, nil
	case TokenNumber:
		e.pos++
		return parseIntLiteral(tok.Value)
	case TokenCharLiteral:
		e.pos++
		return charLiteralValue(tok.Value), nil
	case TokenTrue:
		e.pos++
		return 1, nil
	case TokenEOF:
		return 0, errors.New("unexpected end of expression")
	}
	if identLike(tok) {
		// identifiers left after expansion evaluate to 0
		e.pos++
		return 0, nil
	}
	return 0, fmt.Errorf("unexpected %q", tok.Value)
}

// parseIntLiteral parses a C integer literal with optional u/l suffixes
func parseIntLiteral(s string) (int64, error) {
	s = strings.ReplaceAll(s, "'", "")
	s = strings.TrimRight(s, "uUlL")
	if len(s) > 1 && s[0] == '0' && s[1] >= '0' && s[1] <= '9' {
		s = "0o" + s[1:]
	}
	if v, err := strconv.ParseInt(s, 0, 64); err == nil {
		return v, nil
	}
	u, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return int64(u), nil
}

// charLiteralValue returns the value of a character literal such as 'a'
// or '\n'
func charLiteralValue(s string) int64 {
	i := strings.IndexByte(s, '\'')
	if i < 0 || i+1 >= len(s) {
		return 0
	}
	body := s[i+1 : len(s)-1]
	if body == "" {
		return 0
	}
	if body[0] != '\\' || len(body) < 2 {
		return int64(body[0])
	}
	switch body[1] {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	case 'a':
		return 7
	case 'b':
		return 8
	case 'f':
		return 12
	case 'v':
		return 11
	default:
		return int64(body[1])
	}
}
