package parser

import (
	"strings"
	"testing"

	"cxxscope/pkg/ast"
)

func tokenTypes(tokens []Token) []TokenType {
	out := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func TestTokenizerBasics(t *testing.T) {
	input := `namespace Test {
    class MyClass {
    public:
        void method();
    };
}`

	tokens := NewTokenizer(input).Tokenize()

	expected := []TokenType{
		TokenNamespace, TokenIdentifier, TokenLeftBrace,
		TokenClass, TokenIdentifier, TokenLeftBrace,
		TokenPublic, TokenColon,
		TokenVoid, TokenIdentifier, TokenLeftParen, TokenRightParen, TokenSemicolon,
		TokenRightBrace, TokenSemicolon,
		TokenRightBrace,
	}
	got := tokenTypes(significant(tokens))
	if len(got) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d: %v", len(expected), len(got), significant(tokens))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Token %d: expected %v, got %v", i, expected[i], got[i])
		}
	}

	if last := tokens[len(tokens)-1]; last.Type != TokenEOF {
		t.Errorf("Expected trailing EOF, got %v", last)
	}
}

func TestTokenizerPositions(t *testing.T) {
	input := "int x;\n  long y;"
	tokens := significant(NewTokenizer(input).Tokenize())

	tests := []struct {
		value  string
		line   int
		column int
		offset int
	}{
		{"int", 1, 1, 0},
		{"x", 1, 5, 4},
		{";", 1, 6, 5},
		{"long", 2, 3, 9},
		{"y", 2, 8, 14},
		{";", 2, 9, 15},
	}
	if len(tokens) != len(tests) {
		t.Fatalf("Expected %d tokens, got %d", len(tests), len(tokens))
	}
	for i, tt := range tests {
		tok := tokens[i]
		if tok.Value != tt.value || tok.Line != tt.line || tok.Column != tt.column || tok.Offset != tt.offset {
			t.Errorf("Token %d: expected %q at %d:%d (+%d), got %q at %d:%d (+%d)",
				i, tt.value, tt.line, tt.column, tt.offset, tok.Value, tok.Line, tok.Column, tok.Offset)
		}
		if tok.Length != len(tt.value) {
			t.Errorf("Token %d: expected length %d, got %d", i, len(tt.value), tok.Length)
		}
	}
}

func TestTokenizerComments(t *testing.T) {
	input := `// Line comment
/* Block comment */
/** Doc block */
/// Doc line`

	var commentTypes []TokenType
	for _, token := range NewTokenizer(input).Tokenize() {
		if token.Type == TokenLineComment || token.Type == TokenBlockComment {
			commentTypes = append(commentTypes, token.Type)
		}
	}

	expected := []TokenType{TokenLineComment, TokenBlockComment, TokenBlockComment, TokenLineComment}
	if len(commentTypes) != len(expected) {
		t.Fatalf("Expected %d comment tokens, got %d", len(expected), len(commentTypes))
	}
	for i := range expected {
		if commentTypes[i] != expected[i] {
			t.Errorf("Comment %d: expected %v, got %v", i, expected[i], commentTypes[i])
		}
	}
}

func TestTokenizerOperators(t *testing.T) {
	input := `:: -> ->* .* ... == != <= >= && || ++ -- += -= *= /= %= &= |= ^= << >> <<= >>=`

	expected := []TokenType{
		TokenDoubleColon, TokenArrow, TokenArrowStar, TokenDotStar, TokenEllipsis,
		TokenDoubleEquals, TokenNotEquals, TokenLessEqual, TokenGreaterEqual,
		TokenDoubleAmp, TokenDoublePipe, TokenPlusPlus, TokenMinusMinus,
		TokenPlusEquals, TokenMinusEquals, TokenStarEquals, TokenSlashEquals,
		TokenPercentEquals, TokenAmpEquals, TokenPipeEquals, TokenCaretEquals,
		TokenLeftShift, TokenRightShift, TokenLeftShiftEquals, TokenRightShiftEquals,
	}

	tokens := significant(NewTokenizer(input).Tokenize())
	if len(tokens) != len(expected) {
		for i, token := range tokens {
			t.Logf("Token %d: %s", i, token)
		}
		t.Fatalf("Expected %d tokens, got %d", len(expected), len(tokens))
	}
	for i := range expected {
		if tokens[i].Type != expected[i] {
			t.Errorf("Token %d: expected %v, got %v", i, expected[i], tokens[i])
		}
	}
}

func TestTokenizerLiterals(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
		types    []TokenType
	}{
		{"sum is not one number", "1+2", []string{"1", "+", "2"}, []TokenType{TokenNumber, TokenPlus, TokenNumber}},
		{"exponent sign", "1e+5-x", []string{"1e+5", "-", "x"}, []TokenType{TokenNumber, TokenMinus, TokenIdentifier}},
		{"hex with suffix", "0x1Fu", []string{"0x1Fu"}, []TokenType{TokenNumber}},
		{"leading dot", ".5f", []string{".5f"}, []TokenType{TokenNumber}},
		{"wide string", `L"abc"`, []string{`L"abc"`}, []TokenType{TokenString}},
		{"utf8 string", `u8"x"`, []string{`u8"x"`}, []TokenType{TokenString}},
		{"escaped char", `'\''`, []string{`'\''`}, []TokenType{TokenCharLiteral}},
		{"wide char", `L'a'`, []string{`L'a'`}, []TokenType{TokenCharLiteral}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			tokens := significant(NewTokenizer(tt.input).Tokenize())
			if len(tokens) != len(tt.expected) {
				t.Fatalf("Expected %d tokens, got %v", len(tt.expected), tokens)
			}
			for i := range tokens {
				if tokens[i].Value != tt.expected[i] || tokens[i].Type != tt.types[i] {
					t.Errorf("Token %d: expected %v %q, got %v", i, tt.types[i], tt.expected[i], tokens[i])
				}
			}
		})
	}
}

func TestTokenizerLanguageKeywords(t *testing.T) {
	input := "class restrict new"

	cpp := significant(NewTokenizerFor(input, "a.cpp", ast.LanguageCPP).Tokenize())
	c := significant(NewTokenizerFor(input, "a.c", ast.LanguageC).Tokenize())

	if cpp[0].Type != TokenClass || cpp[1].Type != TokenIdentifier || cpp[2].Type != TokenNew {
		t.Errorf("Unexpected C++ tokens: %v", cpp)
	}
	if c[0].Type != TokenIdentifier || c[1].Type != TokenRestrict || c[2].Type != TokenIdentifier {
		t.Errorf("Unexpected C tokens: %v", c)
	}
	if cpp[0].File != "a.cpp" {
		t.Errorf("Expected file to be recorded, got %q", cpp[0].File)
	}
}

func TestTokenizerLineContinuation(t *testing.T) {
	input := "#define A 1 \\\n + 2\nint"
	tokens := NewTokenizer(input).Tokenize()

	newlines := 0
	for _, tok := range tokens {
		if tok.Type == TokenNewline {
			newlines++
		}
	}
	if newlines != 1 {
		t.Errorf("Expected the escaped newline to be whitespace, got %d newlines", newlines)
	}
}

// TestTokenizerSafeguards tests that the tokenizer has proper safeguards against memory leaks and infinite loops
func TestTokenizerSafeguards(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		maxTokens int
		wantError string
	}{
		{"LargeWhitespace", strings.Repeat(" ", 50000) + "int x;", 0, "excessive whitespace"},
		{"VeryLongComment", "/* " + strings.Repeat("a", 200000) + " */", 0, "too long"},
		{"VeryLongString", `"` + strings.Repeat("a", 200000) + `"`, 0, "too long"},
		{"VeryLongIdentifier", strings.Repeat("a", 2000) + " = 5;", 0, "identifier too long"},
		{"UnterminatedString", `"this string never ends`, 0, "unterminated string literal"},
		{"UnterminatedComment", `/* this comment never ends`, 0, "unterminated block comment"},
		{"TooManyTokens", "a b c d e f g h i j k l m n o p q r s t", 10, ""},
		{"MalformedInput", "\x00\xFF\x01hello\x02world\x03", 0, ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			tokenizer := NewTokenizer(tt.input)
			if tt.maxTokens > 0 {
				tokenizer.SetMaxTokens(tt.maxTokens)
			}
			tokens := tokenizer.Tokenize()

			if len(tokens) == 0 {
				t.Fatal("Expected at least some tokens")
			}
			if tt.maxTokens > 0 && len(tokens) > tt.maxTokens+1 {
				t.Errorf("Tokenizer generated too many tokens: %d", len(tokens))
			}
			if tt.maxTokens == 0 && tokens[len(tokens)-1].Type != TokenEOF {
				t.Error("Expected last token to be EOF")
			}
			if tt.wantError == "" {
				return
			}
			found := false
			for _, err := range tokenizer.GetErrors() {
				if strings.Contains(err.Value, tt.wantError) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("Expected an error containing %q, got %v", tt.wantError, tokenizer.GetErrors())
			}
		})
	}
}
