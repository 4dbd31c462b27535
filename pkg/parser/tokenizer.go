// Package parser - tokenizer implementation for C and C++ sources
package parser

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"cxxscope/pkg/ast"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenError
	TokenWhitespace
	TokenNewline
	TokenLineComment  // //
	TokenBlockComment // /* */

	// Literals
	TokenIdentifier
	TokenNumber
	TokenString
	TokenCharLiteral

	// Operators and punctuation
	TokenLeftParen         // (
	TokenRightParen        // )
	TokenLeftBrace         // {
	TokenRightBrace        // }
	TokenLeftBracket       // [
	TokenRightBracket      // ]
	TokenSemicolon         // ;
	TokenColon             // :
	TokenDoubleColon       // ::
	TokenComma             // ,
	TokenDot               // .
	TokenDotStar           // .*
	TokenEllipsis          // ...
	TokenArrow             // ->
	TokenArrowStar         // ->*
	TokenEquals            // =
	TokenDoubleEquals      // ==
	TokenNotEquals         // !=
	TokenLess              // <
	TokenGreater           // >
	TokenLessEqual         // <=
	TokenGreaterEqual      // >=
	TokenAmpersand         // &
	TokenDoubleAmp         // &&
	TokenPipe              // |
	TokenDoublePipe        // ||
	TokenCaret             // ^
	TokenTilde             // ~
	TokenExclamation       // !
	TokenQuestion          // ?
	TokenPlus              // +
	TokenMinus             // -
	TokenStar              // *
	TokenSlash             // /
	TokenPercent           // %
	TokenPlusPlus          // ++
	TokenMinusMinus        // --
	TokenPlusEquals        // +=
	TokenMinusEquals       // -=
	TokenStarEquals        // *=
	TokenSlashEquals       // /=
	TokenPercentEquals     // %=
	TokenAmpEquals         // &=
	TokenPipeEquals        // |=
	TokenCaretEquals       // ^=
	TokenLeftShift         // <<
	TokenRightShift        // >>
	TokenLeftShiftEquals   // <<=
	TokenRightShiftEquals  // >>=

	// Preprocessor
	TokenHash      // #
	TokenHashHash  // ##
	TokenBackslash // \

	// TokenCompletion marks the completion offset; it is injected by the
	// preprocessor and never produced from source text
	TokenCompletion

	// Keywords
	TokenKeywordStart // Marker for start of keywords
	TokenNamespace
	TokenClass
	TokenStruct
	TokenEnum
	TokenUnion
	TokenTypedef
	TokenUsing
	TokenTemplate
	TokenTypename
	TokenExport
	TokenPublic
	TokenPrivate
	TokenProtected
	TokenStatic
	TokenVirtual
	TokenInline
	TokenConst
	TokenConstexpr
	TokenMutable
	TokenExtern
	TokenRegister
	TokenVolatile
	TokenRestrict
	TokenFriend
	TokenOperator
	TokenExplicit
	TokenNoexcept
	TokenThrow
	TokenTry
	TokenCatch
	TokenIf
	TokenElse
	TokenSwitch
	TokenCase
	TokenDefault
	TokenFor
	TokenWhile
	TokenDo
	TokenBreak
	TokenContinue
	TokenReturn
	TokenGoto
	TokenSizeof
	TokenAlignof
	TokenTypeid
	TokenStaticCast
	TokenDynamicCast
	TokenReinterpretCast
	TokenConstCast
	TokenAsm
	TokenAuto
	TokenVoid
	TokenBool
	TokenChar
	TokenWChar
	TokenShort
	TokenInt
	TokenLong
	TokenFloat
	TokenDouble
	TokenSigned
	TokenUnsigned
	TokenTrue
	TokenFalse
	TokenNullptr
	TokenThis
	TokenNew
	TokenDelete
	TokenKeywordEnd // Marker for end of keywords
)

// Token represents a single token. Tokens produced by macro expansion
// carry the location of the macro invocation and have Expanded set.
type Token struct {
	Type     TokenType
	Value    string
	Line     int
	Column   int
	Offset   int
	Length   int
	EndLine  int
	File     string
	Expanded bool
}

// End returns the offset just past the token
func (t Token) End() int { return t.Offset + t.Length }

// IsKeyword reports whether the token is a keyword
func (t Token) IsKeyword() bool {
	return t.Type > TokenKeywordStart && t.Type < TokenKeywordEnd
}

// String returns a string representation of the token
func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "EOF"
	case TokenError:
		return fmt.Sprintf("ERROR:%s", t.Value)
	case TokenWhitespace:
		return "WHITESPACE"
	case TokenNewline:
		return "NEWLINE"
	case TokenLineComment:
		return fmt.Sprintf("LINE_COMMENT:%s", t.Value)
	case TokenBlockComment:
		return fmt.Sprintf("BLOCK_COMMENT:%s", t.Value)
	case TokenIdentifier:
		return fmt.Sprintf("IDENTIFIER:%s", t.Value)
	case TokenNumber:
		return fmt.Sprintf("NUMBER:%s", t.Value)
	case TokenString:
		return fmt.Sprintf("STRING:%s", t.Value)
	case TokenCharLiteral:
		return fmt.Sprintf("CHAR:%s", t.Value)
	case TokenCompletion:
		return fmt.Sprintf("COMPLETION:%s", t.Value)
	default:
		if t.IsKeyword() {
			return fmt.Sprintf("KEYWORD:%s", t.Value)
		}
		return fmt.Sprintf("%s:%s", tokenTypeNames[t.Type], t.Value)
	}
}

// tokenTypeNames maps token types to their names for debugging
var tokenTypeNames = map[TokenType]string{
	TokenLeftParen:        "LEFT_PAREN",
	TokenRightParen:       "RIGHT_PAREN",
	TokenLeftBrace:        "LEFT_BRACE",
	TokenRightBrace:       "RIGHT_BRACE",
	TokenLeftBracket:      "LEFT_BRACKET",
	TokenRightBracket:     "RIGHT_BRACKET",
	TokenSemicolon:        "SEMICOLON",
	TokenColon:            "COLON",
	TokenDoubleColon:      "DOUBLE_COLON",
	TokenComma:            "COMMA",
	TokenDot:              "DOT",
	TokenDotStar:          "DOT_STAR",
	TokenEllipsis:         "ELLIPSIS",
	TokenArrow:            "ARROW",
	TokenArrowStar:        "ARROW_STAR",
	TokenEquals:           "EQUALS",
	TokenDoubleEquals:     "DOUBLE_EQUALS",
	TokenNotEquals:        "NOT_EQUALS",
	TokenLess:             "LESS",
	TokenGreater:          "GREATER",
	TokenLessEqual:        "LESS_EQUAL",
	TokenGreaterEqual:     "GREATER_EQUAL",
	TokenAmpersand:        "AMPERSAND",
	TokenDoubleAmp:        "DOUBLE_AMP",
	TokenPipe:             "PIPE",
	TokenDoublePipe:       "DOUBLE_PIPE",
	TokenCaret:            "CARET",
	TokenTilde:            "TILDE",
	TokenExclamation:      "EXCLAMATION",
	TokenQuestion:         "QUESTION",
	TokenPlus:             "PLUS",
	TokenMinus:            "MINUS",
	TokenStar:             "STAR",
	TokenSlash:            "SLASH",
	TokenPercent:          "PERCENT",
	TokenPlusPlus:         "PLUS_PLUS",
	TokenMinusMinus:       "MINUS_MINUS",
	TokenPlusEquals:       "PLUS_EQUALS",
	TokenMinusEquals:      "MINUS_EQUALS",
	TokenStarEquals:       "STAR_EQUALS",
	TokenSlashEquals:      "SLASH_EQUALS",
	TokenPercentEquals:    "PERCENT_EQUALS",
	TokenAmpEquals:        "AMP_EQUALS",
	TokenPipeEquals:       "PIPE_EQUALS",
	TokenCaretEquals:      "CARET_EQUALS",
	TokenLeftShift:        "LEFT_SHIFT",
	TokenRightShift:       "RIGHT_SHIFT",
	TokenLeftShiftEquals:  "LEFT_SHIFT_EQUALS",
	TokenRightShiftEquals: "RIGHT_SHIFT_EQUALS",
	TokenHash:             "HASH",
	TokenHashHash:         "HASH_HASH",
	TokenBackslash:        "BACKSLASH",
}

// Keywords map for quick lookup
var keywords = map[string]TokenType{
	"namespace":        TokenNamespace,
	"class":            TokenClass,
	"struct":           TokenStruct,
	"enum":             TokenEnum,
	"union":            TokenUnion,
	"typedef":          TokenTypedef,
	"using":            TokenUsing,
	"template":         TokenTemplate,
	"typename":         TokenTypename,
	"export":           TokenExport,
	"public":           TokenPublic,
	"private":          TokenPrivate,
	"protected":        TokenProtected,
	"static":           TokenStatic,
	"virtual":          TokenVirtual,
	"inline":           TokenInline,
	"__inline":         TokenInline,
	"__inline__":       TokenInline,
	"const":            TokenConst,
	"__const":          TokenConst,
	"constexpr":        TokenConstexpr,
	"mutable":          TokenMutable,
	"extern":           TokenExtern,
	"register":         TokenRegister,
	"volatile":         TokenVolatile,
	"__volatile__":     TokenVolatile,
	"restrict":         TokenRestrict,
	"__restrict":       TokenRestrict,
	"__restrict__":     TokenRestrict,
	"friend":           TokenFriend,
	"operator":         TokenOperator,
	"explicit":         TokenExplicit,
	"noexcept":         TokenNoexcept,
	"throw":            TokenThrow,
	"try":              TokenTry,
	"catch":            TokenCatch,
	"if":               TokenIf,
	"else":             TokenElse,
	"switch":           TokenSwitch,
	"case":             TokenCase,
	"default":          TokenDefault,
	"for":              TokenFor,
	"while":            TokenWhile,
	"do":               TokenDo,
	"break":            TokenBreak,
	"continue":         TokenContinue,
	"return":           TokenReturn,
	"goto":             TokenGoto,
	"sizeof":           TokenSizeof,
	"alignof":          TokenAlignof,
	"__alignof__":      TokenAlignof,
	"typeid":           TokenTypeid,
	"static_cast":      TokenStaticCast,
	"dynamic_cast":     TokenDynamicCast,
	"reinterpret_cast": TokenReinterpretCast,
	"const_cast":       TokenConstCast,
	"asm":              TokenAsm,
	"__asm__":          TokenAsm,
	"auto":             TokenAuto,
	"void":             TokenVoid,
	"bool":             TokenBool,
	"_Bool":            TokenBool,
	"char":             TokenChar,
	"wchar_t":          TokenWChar,
	"short":            TokenShort,
	"int":              TokenInt,
	"long":             TokenLong,
	"float":            TokenFloat,
	"double":           TokenDouble,
	"signed":           TokenSigned,
	"__signed__":       TokenSigned,
	"unsigned":         TokenUnsigned,
	"true":             TokenTrue,
	"false":            TokenFalse,
	"nullptr":          TokenNullptr,
	"this":             TokenThis,
	"new":              TokenNew,
	"delete":           TokenDelete,
}

// cppOnlyKeywords are plain identifiers when tokenizing C
var cppOnlyKeywords = map[string]bool{
	"namespace": true, "class": true, "using": true, "template": true,
	"typename": true, "export": true, "public": true, "private": true,
	"protected": true, "virtual": true, "constexpr": true, "mutable": true,
	"friend": true, "operator": true, "explicit": true, "noexcept": true,
	"throw": true, "try": true, "catch": true, "alignof": true,
	"typeid": true, "static_cast": true, "dynamic_cast": true,
	"reinterpret_cast": true, "const_cast": true, "bool": true,
	"wchar_t": true, "true": true, "false": true, "nullptr": true,
	"this": true, "new": true, "delete": true,
}

// cOnlyKeywords are plain identifiers when tokenizing C++
var cOnlyKeywords = map[string]bool{
	"restrict": true, "_Bool": true,
}

// KeywordType returns the keyword token type for word in the given
// language, or TokenIdentifier
func KeywordType(word string, lang ast.Language) TokenType {
	tt, ok := keywords[word]
	if !ok {
		return TokenIdentifier
	}
	if lang == ast.LanguageC && cppOnlyKeywords[word] {
		return TokenIdentifier
	}
	if lang == ast.LanguageCPP && cOnlyKeywords[word] {
		return TokenIdentifier
	}
	return tt
}

// Tokenizer represents the tokenizer state
type Tokenizer struct {
	input       string
	file        string
	lang        ast.Language
	pos         int // current position in input
	line        int // current line number
	column      int // current column number
	width       int // width of last rune read
	start       int // start position of current token
	startLine   int
	startColumn int
	tokens      []Token
	maxTokens   int // Maximum number of tokens to prevent OOM
	maxPos      int // Maximum position to prevent infinite loops
}

// NewTokenizer creates a new tokenizer for C++ input
func NewTokenizer(input string) *Tokenizer {
	return NewTokenizerFor(input, "", ast.LanguageCPP)
}

// NewTokenizerFor creates a tokenizer for input read from file in the
// given language
func NewTokenizerFor(input, file string, lang ast.Language) *Tokenizer {
	const maxTokensLimit = 2000000 // Prevent OOM from too many tokens
	return &Tokenizer{
		input:       input,
		file:        file,
		lang:        lang,
		line:        1,
		column:      1,
		startLine:   1,
		startColumn: 1,
		tokens:      make([]Token, 0, 1024), // Pre-allocate reasonable capacity
		maxTokens:   maxTokensLimit,
		maxPos:      len(input) + 1000, // Allow some buffer but prevent runaway
	}
}

// next reads the next rune and advances position
func (t *Tokenizer) next() rune {
	if t.pos >= len(t.input) {
		t.width = 0
		return 0
	}

	r, w := utf8.DecodeRuneInString(t.input[t.pos:])
	t.width = w
	t.pos += w

	if r == '\n' {
		t.line++
		t.column = 1
	} else {
		t.column++
	}

	return r
}

// backup steps back one rune
func (t *Tokenizer) backup() {
	t.pos -= t.width
	if t.pos < len(t.input) && t.input[t.pos] == '\n' {
		t.line--
		// Recalculate column by scanning back to start of line
		col := 1
		for i := t.pos - 1; i >= 0 && t.input[i] != '\n'; i-- {
			col++
		}
		t.column = col
	} else {
		t.column--
	}
}

// peek returns the next rune without advancing position
func (t *Tokenizer) peek() rune {
	if t.pos >= len(t.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(t.input[t.pos:])
	return r
}

// peekAt returns the byte n positions ahead without advancing
func (t *Tokenizer) peekAt(n int) byte {
	if t.pos+n >= len(t.input) {
		return 0
	}
	return t.input[t.pos+n]
}

// mark records the start of the next token
func (t *Tokenizer) mark() {
	t.start = t.pos
	t.startLine = t.line
	t.startColumn = t.column
}

// emit creates a token and adds it to the tokens slice
func (t *Tokenizer) emit(tokenType TokenType) {
	// Safeguard: Check if we've exceeded maximum tokens
	if len(t.tokens) >= t.maxTokens {
		if tokenType != TokenError { // Avoid infinite recursion
			// Create error token manually to ensure it gets added
			errorToken := Token{
				Type:   TokenError,
				Value:  "too many tokens - possible infinite loop or memory exhaustion",
				Line:   t.line,
				Column: t.column,
				Offset: t.start,
				File:   t.file,
			}
			t.tokens = append(t.tokens, errorToken)
		}
		return
	}

	value := t.input[t.start:t.pos]
	t.tokens = append(t.tokens, Token{
		Type:    tokenType,
		Value:   value,
		Line:    t.startLine,
		Column:  t.startColumn,
		Offset:  t.start,
		Length:  len(value),
		EndLine: t.line,
		File:    t.file,
	})
	t.mark()
}

// emitError creates an error token
func (t *Tokenizer) emitError(message string) {
	t.tokens = append(t.tokens, Token{
		Type:    TokenError,
		Value:   message,
		Line:    t.startLine,
		Column:  t.startColumn,
		Offset:  t.start,
		Length:  t.pos - t.start,
		EndLine: t.line,
		File:    t.file,
	})
	t.mark()
}

// Tokenize processes the input and returns all tokens
func (t *Tokenizer) Tokenize() []Token {
	iterations := 0
	const maxIterations = 10000000 // Prevent infinite loops

	for t.pos < len(t.input) {
		// Safeguard: Check for infinite loops
		iterations++
		if iterations > maxIterations {
			t.emitError("tokenizer exceeded maximum iterations - possible infinite loop")
			break
		}

		// Safeguard: Check position bounds
		if t.pos > t.maxPos {
			t.emitError("tokenizer position exceeded maximum bounds")
			break
		}

		// Safeguard: Check if position is advancing
		oldPos := t.pos

		t.mark()
		r := t.next()

		switch {
		case r == 0:
			// embedded NUL
			t.emitError("unexpected NUL character")

		case r == '\n':
			t.emit(TokenNewline)

		case unicode.IsSpace(r):
			t.scanWhitespace()

		case r == '\\' && (t.peek() == '\n' || (t.peek() == '\r' && t.peekAt(1) == '\n')):
			// line continuation
			if t.peek() == '\r' {
				t.next()
			}
			t.next()
			t.emit(TokenWhitespace)

		case r == '/':
			if !t.scanComment() {
				// If it's not a comment, we need to handle operators like /=
				t.scanSlashOperator()
			}

		case r == '#':
			t.scanHash()

		case r == '"':
			t.scanString()

		case r == '\'':
			t.scanChar()

		case unicode.IsLetter(r) || r == '_' || r == '$':
			t.scanIdentifier()

		case unicode.IsDigit(r):
			t.scanNumber()

		default:
			t.scanOperator()
		}

		// Safeguard: Ensure position advanced
		if t.pos == oldPos {
			t.emitError(fmt.Sprintf("tokenizer stuck at position %d", t.pos))
			t.pos++ // Force advance to prevent infinite loop
		}

		// Safeguard: Check if we have too many tokens
		if len(t.tokens) >= t.maxTokens {
			break
		}
	}

	// Only add EOF if we haven't exceeded the token limit
	if len(t.tokens) < t.maxTokens {
		return append(t.tokens, Token{Type: TokenEOF, Line: t.line, Column: t.column, Offset: t.pos, EndLine: t.line, File: t.file})
	}

	return t.tokens
}

// HasErrors returns true if the tokenizer encountered any errors
func (t *Tokenizer) HasErrors() bool {
	for _, token := range t.tokens {
		if token.Type == TokenError {
			return true
		}
	}
	return false
}

// GetErrors returns all error tokens
func (t *Tokenizer) GetErrors() []Token {
	var errors []Token
	for _, token := range t.tokens {
		if token.Type == TokenError {
			errors = append(errors, token)
		}
	}
	return errors
}

// SetMaxTokens sets the maximum number of tokens (for testing purposes)
func (t *Tokenizer) SetMaxTokens(max int) {
	t.maxTokens = max
}

// scanSlashOperator handles the / character that wasn't part of a comment
func (t *Tokenizer) scanSlashOperator() {
	// We've already consumed the first '/', check for operators
	if t.peek() == '=' {
		t.next()
		t.emit(TokenSlashEquals)
	} else {
		t.emit(TokenSlash)
	}
}

// scanWhitespace scans whitespace characters
func (t *Tokenizer) scanWhitespace() {
	count := 0
	const maxWhitespace = 10000 // Prevent infinite loops on whitespace

	for {
		r := t.peek()
		if !unicode.IsSpace(r) || r == '\n' {
			break
		}
		count++
		if count > maxWhitespace {
			t.emitError("excessive whitespace - possible infinite loop")
			break
		}
		t.next()
	}
	t.emit(TokenWhitespace)
}

// scanComment scans comments and returns true if a comment was found
func (t *Tokenizer) scanComment() bool {
	// We've already consumed one '/'
	switch t.peek() {
	case '/':
		t.next() // consume second '/'
		t.scanLineComment()
		t.emit(TokenLineComment)
		return true
	case '*':
		t.next() // consume '*'
		if t.scanBlockComment() {
			t.emit(TokenBlockComment)
		}
		return true
	}

	// Not a comment, don't backup since we haven't consumed anything extra
	return false
}

// scanLineComment scans until end of line
func (t *Tokenizer) scanLineComment() {
	count := 0
	const maxCommentLength = 100000 // Prevent infinite loops in comments

	for {
		r := t.next()
		count++
		if count > maxCommentLength {
			t.emitError("comment too long - possible infinite loop")
			break
		}
		if r == '\n' || r == 0 {
			if r == '\n' {
				t.backup()
			}
			break
		}
	}
}

// scanBlockComment scans until */ and reports whether it was terminated
func (t *Tokenizer) scanBlockComment() bool {
	count := 0
	const maxCommentLength = 100000 // Prevent infinite loops in comments

	for {
		r := t.next()
		count++
		if count > maxCommentLength {
			t.emitError("block comment too long - possible infinite loop")
			return false
		}
		if r == 0 {
			t.emitError("unterminated block comment")
			return false
		}
		if r == '*' && t.peek() == '/' {
			t.next() // consume '/'
			return true
		}
	}
}

// scanHash scans hash and hash-hash operators
func (t *Tokenizer) scanHash() {
	if t.peek() == '#' {
		t.next()
		t.emit(TokenHashHash)
	} else {
		t.emit(TokenHash)
	}
}

// scanQuoted scans up to the closing quote and reports success
func (t *Tokenizer) scanQuoted(quote rune, maxLength int, what string) bool {
	count := 0
	for {
		r := t.next()
		count++
		if count > maxLength {
			t.emitError(what + " too long - possible infinite loop")
			return false
		}
		if r == 0 || r == '\n' {
			if r == '\n' {
				t.backup()
			}
			t.emitError("unterminated " + what)
			return false
		}
		if r == quote {
			return true
		}
		if r == '\\' {
			// Skip escaped character
			if t.next() == 0 {
				t.emitError("unterminated " + what + " - EOF after escape")
				return false
			}
			count++
		}
	}
}

// scanString scans a string literal
func (t *Tokenizer) scanString() {
	const maxStringLength = 100000 // Prevent infinite loops in strings
	if t.scanQuoted('"', maxStringLength, "string literal") {
		t.emit(TokenString)
	}
}

// scanChar scans a character literal
func (t *Tokenizer) scanChar() {
	const maxCharLength = 16 // Character literals should be very short
	if t.scanQuoted('\'', maxCharLength, "character literal") {
		t.emit(TokenCharLiteral)
	}
}

// scanIdentifier scans an identifier or keyword
func (t *Tokenizer) scanIdentifier() {
	count := 0
	const maxIdentifierLength = 1000 // Reasonable limit for identifiers

	for {
		r := t.peek()
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '$' {
			break
		}
		count++
		if count > maxIdentifierLength {
			t.emitError("identifier too long - possible infinite loop")
			return
		}
		t.next()
	}

	value := t.input[t.start:t.pos]
	switch value {
	case "L", "u", "U", "u8":
		// encoding prefix of a string or character literal
		if t.peek() == '"' {
			t.next()
			t.scanString()
			return
		}
		if t.peek() == '\'' {
			t.next()
			t.scanChar()
			return
		}
	}
	t.emit(KeywordType(value, t.lang))
}

// scanNumber scans a preprocessing number: digits, letters, dots and a
// sign directly after an exponent character
func (t *Tokenizer) scanNumber() {
	count := 0
	const maxNumberLength = 100 // Reasonable limit for numbers

	for {
		r := t.peek()
		prev := t.input[t.pos-1]
		switch {
		case unicode.IsDigit(r) || unicode.IsLetter(r) || r == '_' || r == '.':
		case (r == '+' || r == '-') && (prev == 'e' || prev == 'E' || prev == 'p' || prev == 'P'):
		case r == '\'' && unicode.IsDigit(rune(t.peekAt(1))):
			// digit separator
		default:
			t.emit(TokenNumber)
			return
		}
		count++
		if count > maxNumberLength {
			t.emitError("number too long - possible infinite loop")
			return
		}
		t.next()
	}
}

// scanOperator scans operators and punctuation
func (t *Tokenizer) scanOperator() {
	r := t.input[t.pos-1] // Current character (already consumed)

	switch r {
	case '(':
		t.emit(TokenLeftParen)
	case ')':
		t.emit(TokenRightParen)
	case '{':
		t.emit(TokenLeftBrace)
	case '}':
		t.emit(TokenRightBrace)
	case '[':
		t.emit(TokenLeftBracket)
	case ']':
		t.emit(TokenRightBracket)
	case ';':
		t.emit(TokenSemicolon)
	case ',':
		t.emit(TokenComma)
	case '\\':
		t.emit(TokenBackslash)
	case '?':
		t.emit(TokenQuestion)
	case '~':
		t.emit(TokenTilde)

	case ':':
		if t.peek() == ':' {
			t.next()
			t.emit(TokenDoubleColon)
		} else {
			t.emit(TokenColon)
		}

	case '.':
		switch {
		case unicode.IsDigit(t.peek()):
			t.scanNumber()
		case t.peek() == '*':
			t.next()
			t.emit(TokenDotStar)
		case t.peek() == '.' && t.peekAt(1) == '.':
			t.next()
			t.next()
			t.emit(TokenEllipsis)
		default:
			t.emit(TokenDot)
		}

	case '=':
		t.emitWithEquals(TokenEquals, TokenDoubleEquals)
	case '!':
		t.emitWithEquals(TokenExclamation, TokenNotEquals)
	case '^':
		t.emitWithEquals(TokenCaret, TokenCaretEquals)
	case '%':
		t.emitWithEquals(TokenPercent, TokenPercentEquals)
	case '*':
		t.emitWithEquals(TokenStar, TokenStarEquals)

	case '<':
		switch t.peek() {
		case '=':
			t.next()
			t.emit(TokenLessEqual)
		case '<':
			t.next()
			t.emitWithEquals(TokenLeftShift, TokenLeftShiftEquals)
		default:
			t.emit(TokenLess)
		}

	case '>':
		switch t.peek() {
		case '=':
			t.next()
			t.emit(TokenGreaterEqual)
		case '>':
			t.next()
			t.emitWithEquals(TokenRightShift, TokenRightShiftEquals)
		default:
			t.emit(TokenGreater)
		}

	case '&':
		switch t.peek() {
		case '&':
			t.next()
			t.emit(TokenDoubleAmp)
		case '=':
			t.next()
			t.emit(TokenAmpEquals)
		default:
			t.emit(TokenAmpersand)
		}

	case '|':
		switch t.peek() {
		case '|':
			t.next()
			t.emit(TokenDoublePipe)
		case '=':
			t.next()
			t.emit(TokenPipeEquals)
		default:
			t.emit(TokenPipe)
		}

	case '+':
		switch t.peek() {
		case '+':
			t.next()
			t.emit(TokenPlusPlus)
		case '=':
			t.next()
			t.emit(TokenPlusEquals)
		default:
			t.emit(TokenPlus)
		}

	case '-':
		switch t.peek() {
		case '-':
			t.next()
			t.emit(TokenMinusMinus)
		case '=':
			t.next()
			t.emit(TokenMinusEquals)
		case '>':
			t.next()
			if t.peek() == '*' {
				t.next()
				t.emit(TokenArrowStar)
			} else {
				t.emit(TokenArrow)
			}
		default:
			t.emit(TokenMinus)
		}

	default:
		t.emitError(fmt.Sprintf("unexpected character: %c", r))
	}
}

// emitWithEquals emits compound when the next rune is '=', plain otherwise
func (t *Tokenizer) emitWithEquals(plain, compound TokenType) {
	if t.peek() == '=' {
		t.next()
		t.emit(compound)
		return
	}
	t.emit(plain)
}
