package parser

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cxxscope/pkg/ast"
	"cxxscope/pkg/logging"
)

// ErrFileNotFound is returned by a FileReader when a file does not exist
var ErrFileNotFound = errors.New("file not found")

// FileReader loads source files for #include resolution
type FileReader interface {
	ReadFile(path string) (string, error)
}

// OSFileReader reads files from the local file system
type OSFileReader struct{}

// ReadFile implements FileReader
func (OSFileReader) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", path, ErrFileNotFound)
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// MapFileReader serves files from memory, keyed by path
type MapFileReader map[string]string

// ReadFile implements FileReader
func (m MapFileReader) ReadFile(path string) (string, error) {
	if content, ok := m[path]; ok {
		return content, nil
	}
	if content, ok := m[filepath.Clean(path)]; ok {
		return content, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrFileNotFound)
}

// TokenSource yields significant tokens one at a time and TokenEOF forever
// once the input is exhausted
type TokenSource interface {
	Next() Token
}

// Macro is a #define
type Macro struct {
	Name         string
	FunctionLike bool
	Params       []string
	Variadic     bool
	Body         []Token
}

// PreprocessorConfig configures a Preprocessor
type PreprocessorConfig struct {
	Language     ast.Language
	IncludePaths []string
	Defines      map[string]string
	Reader       FileReader

	// Completion injects a TokenCompletion at CompletionOffset of the root file
	Completion       bool
	CompletionOffset int

	Logger *slog.Logger
}

const maxIncludeDepth = 200

type condState struct {
	active      bool // tokens of the current branch are kept
	taken       bool // a branch of this group was already taken
	sawElse     bool
	outerActive bool
	skipFrom    int
	skipLine    int
}

type ppFile struct {
	path      string
	content   string
	tokens    []Token
	pos       int
	conds     []*condState
	lineStart bool
}

// Preprocessor turns source text into a lazily expanded token stream
type Preprocessor struct {
	cfg       PreprocessorConfig
	log       *slog.Logger
	macros    map[string]*Macro
	files     []*ppFile
	back      []Token // raw tokens pushed back
	pending   []Token // expansion results not yet returned
	problems  []*ast.Problem
	skipped   []ast.Range
	once      map[string]bool
	completed bool
	end       Token
}

// NewPreprocessor creates a preprocessor for the root file path with content
func NewPreprocessor(path, content string, cfg PreprocessorConfig) *Preprocessor {
	pp := &Preprocessor{
		cfg:    cfg,
		log:    logging.OrDiscard(cfg.Logger),
		macros: make(map[string]*Macro),
		once:   make(map[string]bool),
		end:    Token{Type: TokenEOF, File: path},
	}
	pp.Define("__STDC__", "1")
	if cfg.Language == ast.LanguageCPP {
		pp.Define("__cplusplus", "199711L")
	}
	for name, value := range cfg.Defines {
		pp.Define(name, value)
	}
	pp.pushFile(path, content)
	return pp
}

// Define adds an object-like macro, or a function-like one when name
// carries a parameter list such as "MAX(a,b)"
func (pp *Preprocessor) Define(name, value string) {
	line := name + " " + value
	toks := significant(NewTokenizerFor(line, "<command-line>", pp.cfg.Language).Tokenize())
	pp.define(toks, Token{File: "<command-line>"})
}

// Defined reports whether a macro with that name is defined
func (pp *Preprocessor) Defined(name string) bool {
	_, ok := pp.macros[name]
	return ok
}

// Problems returns the problems found while preprocessing
func (pp *Preprocessor) Problems() []*ast.Problem { return pp.problems }

// SkippedRegions returns the ranges removed by false conditionals
func (pp *Preprocessor) SkippedRegions() []ast.Range { return pp.skipped }

// Next implements TokenSource
func (pp *Preprocessor) Next() Token {
	for {
		if len(pp.pending) > 0 {
			tok := pp.pending[0]
			pp.pending = pp.pending[1:]
			return tok
		}
		tok := pp.rawNext()
		if tok.Expanded || (tok.Type != TokenIdentifier && !tok.IsKeyword()) {
			return tok
		}
		out, expanded := pp.expandInvocation(tok)
		if !expanded {
			return tok
		}
		pp.pending = out
	}
}

func (pp *Preprocessor) problem(id ast.ProblemID, at Token, format string, args ...any) {
	p := &ast.Problem{ID: id, Message: fmt.Sprintf(format, args...)}
	p.SetRange(tokenRange(at, at))
	pp.problems = append(pp.problems, p)
	pp.log.Debug("preprocessor problem", "kind", id.String(), "file", at.File, "line", at.Line, "message", p.Message)
}

func (pp *Preprocessor) pushFile(path, content string) {
	tokens := NewTokenizerFor(content, path, pp.cfg.Language).Tokenize()
	pp.files = append(pp.files, &ppFile{path: path, content: content, tokens: tokens, lineStart: true})
}

func (pp *Preprocessor) active(f *ppFile) bool {
	n := len(f.conds)
	return n == 0 || f.conds[n-1].active
}

// rawNext returns the next significant token from the include stack,
// handling directives and conditional skipping on the way
func (pp *Preprocessor) rawNext() Token {
	if n := len(pp.back); n > 0 {
		tok := pp.back[n-1]
		pp.back = pp.back[:n-1]
		return tok
	}
	if pp.completed {
		return pp.end
	}
	for len(pp.files) > 0 {
		f := pp.files[len(pp.files)-1]
		root := len(pp.files) == 1
		if f.pos >= len(f.tokens) {
			pp.files = pp.files[:len(pp.files)-1]
			continue
		}
		tok := f.tokens[f.pos]
		switch tok.Type {
		case TokenEOF:
			f.pos++
			pp.closeFile(f, tok)
			if root {
				pp.end = tok
				pp.files = nil
				if pp.cfg.Completion && !pp.completed {
					pp.completed = true
					return pp.completionToken("", pp.cfg.CompletionOffset, tok)
				}
				return tok
			}
			pp.files = pp.files[:len(pp.files)-1]
			continue
		case TokenNewline:
			f.pos++
			f.lineStart = true
			continue
		case TokenWhitespace, TokenLineComment, TokenBlockComment:
			f.pos++
			continue
		case TokenError:
			f.pos++
			if pp.active(f) {
				pp.problem(ast.ProblemLexical, tok, "%s", tok.Value)
			}
			continue
		case TokenHash:
			if f.lineStart {
				f.pos++
				pp.directive(f, tok)
				continue
			}
		}
		f.lineStart = false
		f.pos++
		if !pp.active(f) {
			continue
		}
		if root && pp.cfg.Completion && !pp.completed {
			c := pp.cfg.CompletionOffset
			if (tok.Type == TokenIdentifier || tok.IsKeyword()) && tok.Offset < c && c <= tok.End() {
				pp.completed = true
				return pp.completionToken(tok.Value[:c-tok.Offset], tok.Offset, tok)
			}
			if tok.Offset >= c {
				pp.completed = true
				return pp.completionToken("", c, tok)
			}
		}
		return tok
	}
	return pp.end
}

func (pp *Preprocessor) completionToken(prefix string, offset int, at Token) Token {
	return Token{
		Type:    TokenCompletion,
		Value:   prefix,
		Line:    at.Line,
		Column:  at.Column,
		Offset:  offset,
		Length:  len(prefix),
		EndLine: at.Line,
		File:    at.File,
	}
}

// closeFile reports conditionals left open at the end of f
func (pp *Preprocessor) closeFile(f *ppFile, eof Token) {
	for i := len(f.conds) - 1; i >= 0; i-- {
		c := f.conds[i]
		if c.outerActive && !c.active {
			pp.endSkip(f, c, eof)
		}
	}
	if len(f.conds) > 0 {
		pp.problem(ast.ProblemUnbalancedConditional, eof, "missing #endif in %s", f.path)
		f.conds = nil
	}
}

// readLine collects the tokens of a directive up to the end of line
func (pp *Preprocessor) readLine(f *ppFile) ([]Token, Token) {
	var line []Token
	for f.pos < len(f.tokens) {
		tok := f.tokens[f.pos]
		switch tok.Type {
		case TokenNewline:
			f.pos++
			f.lineStart = true
			return line, tok
		case TokenEOF:
			return line, tok
		case TokenWhitespace, TokenLineComment, TokenBlockComment, TokenError:
		default:
			line = append(line, tok)
		}
		f.pos++
	}
	return line, pp.end
}

func (pp *Preprocessor) beginSkip(c *condState, lineEnd Token) {
	c.skipFrom = lineEnd.End()
	c.skipLine = lineEnd.Line + 1
}

func (pp *Preprocessor) endSkip(f *ppFile, c *condState, at Token) {
	pp.skipped = append(pp.skipped, ast.Range{
		Start: ast.Position{Line: c.skipLine, Column: 1, Offset: c.skipFrom},
		End:   ast.Position{Line: at.Line, Column: at.Column, Offset: at.Offset},
		File:  f.path,
	})
}

func (pp *Preprocessor) directive(f *ppFile, hash Token) {
	line, lineEnd := pp.readLine(f)
	if len(line) == 0 {
		return // null directive
	}
	name, args := line[0], line[1:]
	active := pp.active(f)
	var top *condState
	if n := len(f.conds); n > 0 {
		top = f.conds[n-1]
	}

	switch name.Value {
	case "if", "ifdef", "ifndef":
		if !active {
			f.conds = append(f.conds, &condState{taken: true})
			return
		}
		var cond bool
		switch name.Value {
		case "ifdef":
			cond = len(args) > 0 && pp.Defined(args[0].Value)
		case "ifndef":
			cond = !(len(args) > 0 && pp.Defined(args[0].Value))
		default:
			cond = pp.evalCondition(args, hash)
		}
		c := &condState{active: cond, taken: cond, outerActive: true}
		if !cond {
			pp.beginSkip(c, lineEnd)
		}
		f.conds = append(f.conds, c)
		return

	case "elif":
		if top == nil || top.sawElse {
			pp.problem(ast.ProblemUnbalancedConditional, hash, "#elif without #if")
			return
		}
		if !top.outerActive {
			return
		}
		if top.taken {
			if top.active {
				top.active = false
				pp.beginSkip(top, lineEnd)
			}
			return
		}
		if pp.evalCondition(args, hash) {
			pp.endSkip(f, top, hash)
			top.active = true
			top.taken = true
		}
		return

	case "else":
		if top == nil || top.sawElse {
			pp.problem(ast.ProblemUnbalancedConditional, hash, "#else without #if")
			return
		}
		top.sawElse = true
		if !top.outerActive {
			return
		}
		if top.taken {
			if top.active {
				top.active = false
				pp.beginSkip(top, lineEnd)
			}
			return
		}
		pp.endSkip(f, top, hash)
		top.active = true
		top.taken = true
		return

	case "endif":
		if top == nil {
			pp.problem(ast.ProblemUnbalancedConditional, hash, "#endif without #if")
			return
		}
		if top.outerActive && !top.active {
			pp.endSkip(f, top, hash)
		}
		f.conds = f.conds[:len(f.conds)-1]
		return
	}

	if !active {
		return
	}

	switch name.Value {
	case "define":
		pp.define(args, hash)
	case "undef":
		if len(args) > 0 {
			delete(pp.macros, args[0].Value)
		}
	case "include", "include_next", "import":
		pp.include(f, hash, args)
	case "pragma":
		if len(args) > 0 && args[0].Value == "once" {
			pp.once[f.path] = true
		}
	case "error":
		pp.problem(ast.ProblemDirectiveError, hash, "#error %s", spell(args))
	case "warning", "line", "ident", "sccs", "assert", "unassert":
	default:
		if name.Type != TokenNumber { // GNU line markers: # 12 "file"
			pp.problem(ast.ProblemInvalidDirective, hash, "unknown directive #%s", name.Value)
		}
	}
}

func identLike(tok Token) bool {
	if tok.Type != TokenIdentifier && !tok.IsKeyword() {
		return false
	}
	return tok.Value != "" && (tok.Value[0] == '_' || (tok.Value[0]|0x20 >= 'a' && tok.Value[0]|0x20 <= 'z'))
}

func (pp *Preprocessor) define(args []Token, at Token) {
	if len(args) == 0 || !identLike(args[0]) {
		pp.problem(ast.ProblemInvalidDirective, at, "#define requires a macro name")
		return
	}
	m := &Macro{Name: args[0].Value}
	body := args[1:]
	if len(body) > 0 && body[0].Type == TokenLeftParen && body[0].Offset == args[0].End() {
		m.FunctionLike = true
		closed := false
		i := 1
		for ; i < len(body) && !closed; i++ {
			tok := body[i]
			switch {
			case tok.Type == TokenRightParen:
				closed = true
			case tok.Type == TokenComma:
			case tok.Type == TokenEllipsis:
				m.Variadic = true
			case identLike(tok):
				m.Params = append(m.Params, tok.Value)
			default:
				pp.problem(ast.ProblemInvalidDirective, at, "bad parameter %q in macro %s", tok.Value, m.Name)
				return
			}
		}
		if !closed {
			pp.problem(ast.ProblemInvalidDirective, at, "unterminated parameter list in macro %s", m.Name)
			return
		}
		body = body[i:]
	}
	m.Body = body
	pp.macros[m.Name] = m
}

func (pp *Preprocessor) include(f *ppFile, hash Token, args []Token) {
	if len(args) > 0 && args[0].Type != TokenString && args[0].Type != TokenLess {
		args = pp.expandList(args, nil)
	}
	if len(args) == 0 {
		pp.problem(ast.ProblemInvalidDirective, hash, "#include expects a file name")
		return
	}

	var name string
	quoted := false
	switch args[0].Type {
	case TokenString:
		v := args[0].Value
		if len(v) >= 2 {
			name = v[1 : len(v)-1]
		}
		quoted = true
	case TokenLess:
		last := args[len(args)-1]
		if last.Type != TokenGreater || last.File != f.path || args[0].File != f.path {
			pp.problem(ast.ProblemInvalidDirective, hash, "malformed #include")
			return
		}
		name = f.content[args[0].End():last.Offset]
	default:
		pp.problem(ast.ProblemInvalidDirective, hash, "malformed #include")
		return
	}

	path, content, err := pp.resolveInclude(f.path, name, quoted)
	if err != nil {
		pp.problem(ast.ProblemIncludeNotFound, hash, "%s", name)
		pp.log.Debug("include not resolved", "name", name, "from", f.path, "error", err)
		return
	}
	if pp.once[path] {
		return
	}
	if len(pp.files) >= maxIncludeDepth {
		pp.problem(ast.ProblemInvalidDirective, hash, "#include nested too deeply")
		return
	}
	pp.pushFile(path, content)
}

func (pp *Preprocessor) resolveInclude(from, name string, quoted bool) (string, string, error) {
	if pp.cfg.Reader == nil {
		return "", "", ErrFileNotFound
	}
	var candidates []string
	if filepath.IsAbs(name) {
		candidates = append(candidates, name)
	} else {
		if quoted {
			candidates = append(candidates, filepath.Join(filepath.Dir(from), name))
		}
		for _, dir := range pp.cfg.IncludePaths {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}
	lastErr := ErrFileNotFound
	for _, c := range candidates {
		content, err := pp.cfg.Reader.ReadFile(c)
		if err == nil {
			return c, content, nil
		}
		if !errors.Is(err, ErrFileNotFound) {
			lastErr = err
		}
	}
	return "", "", lastErr
}

// expandInvocation expands the macro named by tok, reading arguments from
// the source. It reports false when tok does not start an invocation.
func (pp *Preprocessor) expandInvocation(tok Token) ([]Token, bool) {
	if out, ok := pp.builtin(tok); ok {
		return out, true
	}
	m, ok := pp.macros[tok.Value]
	if !ok {
		return nil, false
	}
	disabled := map[string]bool{m.Name: true}
	if !m.FunctionLike {
		out := pp.expandList(pp.substitute(m, nil, nil), disabled)
		return relocate(out, tok, tok), true
	}

	next := pp.rawNext()
	if next.Type != TokenLeftParen {
		pp.back = append(pp.back, next)
		return nil, false
	}
	args, closing, ok := collectArgs(pp.rawNext)
	if !ok {
		pp.problem(ast.ProblemMacroArguments, tok, "unterminated invocation of macro %s", m.Name)
		return nil, true
	}
	args, ok = normalizeArgs(m, args)
	if !ok {
		pp.problem(ast.ProblemMacroArguments, tok, "macro %s expects %d arguments, got %d", m.Name, len(m.Params), len(args))
		return nil, true
	}
	out := pp.expandList(pp.substitute(m, args, nil), disabled)
	return relocate(out, tok, closing), true
}

func (pp *Preprocessor) builtin(tok Token) ([]Token, bool) {
	if _, defined := pp.macros[tok.Value]; defined {
		return nil, false
	}
	switch tok.Value {
	case "__LINE__":
		out := tok
		out.Type, out.Value, out.Expanded = TokenNumber, fmt.Sprint(tok.Line), true
		return []Token{out}, true
	case "__FILE__":
		out := tok
		out.Type, out.Value, out.Expanded = TokenString, fmt.Sprintf("%q", tok.File), true
		return []Token{out}, true
	}
	return nil, false
}

// relocate gives expansion results the location of the invocation
func relocate(tokens []Token, first, last Token) []Token {
	for i := range tokens {
		tokens[i].Offset = first.Offset
		tokens[i].Length = last.End() - first.Offset
		tokens[i].Line = first.Line
		tokens[i].Column = first.Column
		tokens[i].EndLine = last.EndLine
		tokens[i].File = first.File
		tokens[i].Expanded = true
	}
	return tokens
}

// collectArgs reads a parenthesised argument list whose '(' was consumed
func collectArgs(next func() Token) ([][]Token, Token, bool) {
	var args [][]Token
	cur := []Token{}
	depth := 0
	for {
		tok := next()
		switch tok.Type {
		case TokenEOF:
			return nil, tok, false
		case TokenLeftParen:
			depth++
		case TokenRightParen:
			if depth == 0 {
				return append(args, cur), tok, true
			}
			depth--
		case TokenComma:
			if depth == 0 {
				args = append(args, cur)
				cur = []Token{}
				continue
			}
		}
		cur = append(cur, tok)
	}
}

// normalizeArgs matches the argument count against the parameters,
// folding variadic arguments into one __VA_ARGS__ argument
func normalizeArgs(m *Macro, args [][]Token) ([][]Token, bool) {
	n := len(m.Params)
	if n == 0 && len(args) == 1 && len(args[0]) == 0 {
		args = nil
	}
	if m.Variadic {
		if len(args) < n {
			return args, false
		}
		var va []Token
		for i, a := range args[n:] {
			if i > 0 {
				va = append(va, Token{Type: TokenComma, Value: ","})
			}
			va = append(va, a...)
		}
		return append(args[:n:n], va), true
	}
	return args, len(args) == n
}

func (pp *Preprocessor) paramIndex(m *Macro, tok Token) (int, bool) {
	if !m.FunctionLike || !identLike(tok) {
		return 0, false
	}
	if m.Variadic && tok.Value == "__VA_ARGS__" {
		return len(m.Params), true
	}
	for i, p := range m.Params {
		if p == tok.Value {
			return i, true
		}
	}
	return 0, false
}

// substitute replaces parameters in the body of m, applying # and ##
func (pp *Preprocessor) substitute(m *Macro, args [][]Token, disabled map[string]bool) []Token {
	var out []Token
	body := m.Body
	for i := 0; i < len(body); i++ {
		tok := body[i]
		if tok.Type == TokenHash && i+1 < len(body) {
			if idx, ok := pp.paramIndex(m, body[i+1]); ok && idx < len(args) {
				out = append(out, stringify(args[idx], tok))
				i++
				continue
			}
		}
		if tok.Type == TokenHashHash && len(out) > 0 && i+1 < len(body) {
			rhs := []Token{body[i+1]}
			if idx, ok := pp.paramIndex(m, body[i+1]); ok && idx < len(args) {
				rhs = args[idx]
			}
			i++
			if len(rhs) == 0 {
				continue
			}
			out[len(out)-1] = pp.paste(out[len(out)-1], rhs[0])
			out = append(out, rhs[1:]...)
			continue
		}
		if idx, ok := pp.paramIndex(m, tok); ok && idx < len(args) {
			// operands of ## are not macro expanded
			if i+1 < len(body) && body[i+1].Type == TokenHashHash {
				out = append(out, args[idx]...)
			} else {
				out = append(out, pp.expandList(args[idx], disabled)...)
			}
			continue
		}
		out = append(out, tok)
	}
	return out
}

// expandList rescans a token list, expanding macros not in disabled
func (pp *Preprocessor) expandList(list []Token, disabled map[string]bool) []Token {
	var out []Token
	for i := 0; i < len(list); i++ {
		tok := list[i]
		if !identLike(tok) {
			out = append(out, tok)
			continue
		}
		if b, ok := pp.builtin(tok); ok {
			out = append(out, b...)
			continue
		}
		m, ok := pp.macros[tok.Value]
		if !ok || disabled[m.Name] {
			out = append(out, tok)
			continue
		}
		inner := make(map[string]bool, len(disabled)+1)
		for k := range disabled {
			inner[k] = true
		}
		inner[m.Name] = true

		if !m.FunctionLike {
			out = append(out, pp.expandList(pp.substitute(m, nil, nil), inner)...)
			continue
		}
		if i+1 >= len(list) || list[i+1].Type != TokenLeftParen {
			out = append(out, tok)
			continue
		}
		j := i + 2
		args, _, ok := collectArgs(func() Token {
			if j >= len(list) {
				return Token{Type: TokenEOF}
			}
			j++
			return list[j-1]
		})
		if !ok {
			out = append(out, tok)
			continue
		}
		if args, ok = normalizeArgs(m, args); !ok {
			pp.problem(ast.ProblemMacroArguments, tok, "macro %s expects %d arguments, got %d", m.Name, len(m.Params), len(args))
			out = append(out, tok)
			continue
		}
		out = append(out, pp.expandList(pp.substitute(m, args, disabled), inner)...)
		i = j - 1
	}
	return out
}

// paste implements ##
func (pp *Preprocessor) paste(lhs, rhs Token) Token {
	value := lhs.Value + rhs.Value
	toks := significant(NewTokenizerFor(value, lhs.File, pp.cfg.Language).Tokenize())
	out := lhs
	out.Value = value
	if len(toks) == 1 {
		out.Type = toks[0].Type
	} else {
		pp.problem(ast.ProblemMacroArguments, lhs, "pasting %q and %q does not give a valid token", lhs.Value, rhs.Value)
	}
	return out
}

// stringify implements #
func stringify(arg []Token, at Token) Token {
	s := spell(arg)
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	out := at
	out.Type = TokenString
	out.Value = `"` + s + `"`
	return out
}

// spell joins tokens, keeping a single space where the source had a gap
func spell(tokens []Token) string {
	var b strings.Builder
	for i, tok := range tokens {
		if i > 0 {
			prev := tokens[i-1]
			if tok.File != prev.File || tok.Offset > prev.End() || tok.Expanded {
				b.WriteString(" ")
			}
		}
		b.WriteString(tok.Value)
	}
	return b.String()
}

// significant drops whitespace, newlines, comments and EOF
func significant(tokens []Token) []Token {
	var out []Token
	for _, tok := range tokens {
		switch tok.Type {
		case TokenWhitespace, TokenNewline, TokenLineComment, TokenBlockComment, TokenEOF:
			continue
		}
		out = append(out, tok)
	}
	return out
}

// Drain reads src until EOF
func Drain(src TokenSource) []Token {
	var out []Token
	for {
		tok := src.Next()
		if tok.Type == TokenEOF {
			return out
		}
		out = append(out, tok)
	}
}

func (pp *Preprocessor) evalCondition(args []Token, at Token) bool {
	var toks []Token
	for i := 0; i < len(args); i++ {
		tok := args[i]
		if tok.Value != "defined" {
			toks = append(toks, tok)
			continue
		}
		name := ""
		switch {
		case i+3 < len(args) && args[i+1].Type == TokenLeftParen && args[i+3].Type == TokenRightParen:
			name = args[i+2].Value
			i += 3
		case i+1 < len(args):
			name = args[i+1].Value
			i++
		}
		v := "0"
		if pp.Defined(name) {
			v = "1"
		}
		toks = append(toks, Token{Type: TokenNumber, Value: v})
	}
	e := &condEval{toks: pp.expandList(toks, nil)}
	v, err := e.parse()
	if err != nil {
		pp.problem(ast.ProblemInvalidDirective, at, "invalid #if expression: %v", err)
		return false
	}
	return v != 0
}
