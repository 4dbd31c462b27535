package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cxxscope/pkg/ast"
	"cxxscope/pkg/logging"
	"cxxscope/pkg/semantic"
)

// Mode selects how much work a parse does
type Mode int

const (
	// ModeSyntax builds the tree; bindings are computed on first request
	ModeSyntax Mode = iota
	// ModeFull also resolves every name before Parse returns
	ModeFull
)

func (m Mode) String() string {
	switch m {
	case ModeSyntax:
		return "syntax"
	case ModeFull:
		return "full"
	default:
		return "unknown"
	}
}

// Selection is a byte range of the root file
type Selection struct {
	Offset int
	Length int
}

// Options configures a Parser
type Options struct {
	Language ast.Language
	// GNU accepts __attribute__, __extension__ and similar extensions
	GNU  bool
	Mode Mode
	// FailFast aborts on the first problem with a *ParseError
	FailFast bool

	IncludePaths []string
	Defines      map[string]string
	Reader       FileReader

	// Completion injects a completion token at CompletionOffset
	Completion       bool
	CompletionOffset int
	// Selection stops the parse once the range has been passed
	Selection *Selection

	Logger *slog.Logger
}

// Parser builds syntax trees from C and C++ sources. A Parser is not safe
// for concurrent use; create one per goroutine.
type Parser struct {
	opts Options
	log  *slog.Logger

	ctx    context.Context
	path   string
	tokens *TokenCache
	unit   *ast.TranslationUnit

	scopes    []*nameScope
	qualified map[string]symbol
	deferred  [][]*deferredBody

	angleStop    bool
	templateDecl bool
	completion   *CompletionNode
	stopped      bool
	failure      *ast.Problem
	skipped      []ast.Range
}

// New creates a parser with the given options
func New(opts Options) *Parser {
	if opts.Reader == nil {
		opts.Reader = OSFileReader{}
	}
	return &Parser{opts: opts, log: logging.OrDiscard(opts.Logger)}
}

// Options returns the options the parser was created with
func (p *Parser) Options() Options { return p.opts }

// Parse preprocesses content as the file at path and builds its syntax tree.
// A tree is returned even when problems were found; the error is non-nil only
// for cancellation or, with FailFast, the first problem.
func (p *Parser) Parse(ctx context.Context, path, content string) (*ast.TranslationUnit, error) {
	pp := NewPreprocessor(path, content, PreprocessorConfig{
		Language:         p.opts.Language,
		IncludePaths:     p.opts.IncludePaths,
		Defines:          p.opts.Defines,
		Reader:           p.opts.Reader,
		Completion:       p.opts.Completion,
		CompletionOffset: p.opts.CompletionOffset,
		Logger:           p.log,
	})
	return p.run(ctx, path, pp, pp)
}

// ParseTokens builds a syntax tree from an already prepared token source
func (p *Parser) ParseTokens(ctx context.Context, path string, src TokenSource) (*ast.TranslationUnit, error) {
	return p.run(ctx, path, src, nil)
}

// Completion returns the completion node recorded by the last parse
func (p *Parser) Completion() *CompletionNode { return p.completion }

// SkippedRegions returns the conditional regions removed in the last parse
func (p *Parser) SkippedRegions() []ast.Range { return p.skipped }

func (p *Parser) begin(ctx context.Context, path string, src TokenSource) {
	if ctx == nil {
		ctx = context.Background()
	}
	p.ctx = ctx
	p.path = path
	p.tokens = NewTokenCache(src)
	p.scopes = nil
	p.qualified = make(map[string]symbol)
	p.deferred = nil
	p.angleStop = false
	p.completion = nil
	p.stopped = false
	p.failure = nil
	p.skipped = nil
	p.enterScope(scopeGlobal, "")
}

func (p *Parser) run(ctx context.Context, path string, src TokenSource, pp *Preprocessor) (*ast.TranslationUnit, error) {
	p.begin(ctx, path, src)
	tu := &ast.TranslationUnit{FilePath: path, Language: p.opts.Language}
	p.unit = tu

	err := p.translationUnit(tu)

	if pp != nil {
		for _, prob := range pp.Problems() {
			tu.AddPreprocessorProblem(prob)
		}
		p.skipped = pp.SkippedRegions()
	}
	p.finish(tu, 0)
	ast.Link(tu)
	if p.completion != nil {
		p.completion.Unit = tu
	}

	resolver := semantic.Attach(tu, p.log)
	if p.opts.Mode == ModeFull && err == nil {
		resolver.ResolveAll()
	}

	p.log.Debug("parsed translation unit",
		"file", path,
		"declarations", len(tu.Declarations),
		"tokens", len(p.tokens.consumed()),
		"stopped", p.stopped)
	return tu, err
}

// translationUnit parses top-level declarations until EOF or a stop request
func (p *Parser) translationUnit(tu *ast.TranslationUnit) error {
	for !p.isAtEnd() {
		if err := p.ctx.Err(); err != nil {
			return fmt.Errorf("parse %s: %w", p.path, err)
		}
		if p.check(TokenRightBrace) {
			start := p.mark()
			p.advance()
			tu.Declarations = append(tu.Declarations, p.problemDeclaration(start, "unbalanced '}'"))
			if p.opts.FailFast {
				return p.parseError()
			}
			continue
		}

		decl, err := p.declarationOrProblem(declTopLevel)
		if decl != nil {
			tu.Declarations = append(tu.Declarations, decl)
		}
		if err != nil {
			if !isStop(err) {
				return err
			}
			if p.failure != nil {
				return p.parseError()
			}
			p.log.Debug("parse stopped", "file", p.path, "completion", p.completion != nil)
			return nil
		}
		if p.passedSelection() {
			p.log.Debug("selection passed, stopping", "file", p.path)
			return nil
		}
	}
	return nil
}

// passedSelection reports whether the parser consumed past the selection
func (p *Parser) passedSelection() bool {
	sel := p.opts.Selection
	if sel == nil {
		return false
	}
	last := p.tokens.previous()
	return last.File == p.path && last.Offset >= sel.Offset+sel.Length
}

func (p *Parser) parseError() error {
	return &ParseError{File: p.path, Problem: p.failure}
}

// errStop is returned up the call chain once the parse must end early:
// the completion token was consumed or a FailFast problem was recorded.
// Callers attach whatever they built so far and return it unchanged.
var errStop = errors.New("stop requested")

func isStop(err error) bool { return errors.Is(err, errStop) }

// syntaxError is a recoverable failure inside one construct
type syntaxError struct {
	tok Token
	msg string
}

func (e *syntaxError) Error() string {
	if e.tok.Type == TokenEOF {
		return e.msg + " at end of input"
	}
	return fmt.Sprintf("%s near %q", e.msg, e.tok.Value)
}

// fail builds an error for the current token; once the parse has been
// asked to stop every failure becomes errStop
func (p *Parser) fail(format string, args ...any) error {
	if p.stopped {
		return errStop
	}
	return &syntaxError{tok: p.peek(), msg: fmt.Sprintf(format, args...)}
}

// newProblem creates a syntax problem spanning tokens [start, current)
func (p *Parser) newProblem(start int, msg string) *ast.Problem {
	prob := &ast.Problem{ID: ast.ProblemSyntaxError, Message: msg}
	p.finish(prob, start)
	p.log.Debug("syntax problem", "file", p.path, "line", prob.Range().Start.Line, "message", msg)
	if p.opts.FailFast && p.failure == nil {
		p.failure = prob
		p.stopped = true
	}
	return prob
}

func (p *Parser) problemDeclaration(start int, msg string) *ast.ProblemDeclaration {
	d := &ast.ProblemDeclaration{Problem: p.newProblem(start, msg)}
	p.finish(d, start)
	return d
}

// declarationOrProblem parses one declaration and turns a syntax error
// into a ProblemDeclaration, resynchronising at ';' or the end of a block
func (p *Parser) declarationOrProblem(dc declContext) (ast.Declaration, error) {
	start := p.mark()
	decl, err := p.declaration(dc)
	var se *syntaxError
	if err == nil || !errors.As(err, &se) {
		return decl, err
	}
	p.rewind(start)
	p.skipToSync()
	prob := p.problemDeclaration(start, err.Error())
	if p.failure != nil {
		return prob, errStop
	}
	return prob, nil
}

// skipToSync skips to just past the next ';' or balanced block, stopping
// in front of a '}' that closes the enclosing construct. At least one
// token is consumed.
func (p *Parser) skipToSync() {
	start := p.mark()
	depth := 0
	for !p.isAtEnd() {
		tok := p.peek()
		switch tok.Type {
		case TokenLeftBrace:
			depth++
		case TokenRightBrace:
			if depth == 0 {
				if p.mark() == start {
					p.advance()
				}
				return
			}
			depth--
			if depth == 0 {
				p.advance()
				p.match(TokenSemicolon)
				return
			}
		case TokenSemicolon:
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}

// finish sets the range of n to the tokens consumed since start
func (p *Parser) finish(n ast.Node, start int) {
	if p.mark() <= start {
		n.SetRange(emptyRange(p.tokens.at(start)))
		return
	}
	n.SetRange(tokenRange(p.tokens.at(start), p.tokens.previous()))
}

// tokenRange returns the range from the start of first to the end of last
func tokenRange(first, last Token) ast.Range {
	if last.File != first.File || last.End() < first.Offset {
		last = first
	}
	endLine := last.EndLine
	if endLine == 0 {
		endLine = last.Line
	}
	endCol := last.Column + last.Length
	if endLine != last.Line {
		endCol = 0
	}
	return ast.Range{
		Start: ast.Position{Line: first.Line, Column: first.Column, Offset: first.Offset},
		End:   ast.Position{Line: endLine, Column: endCol, Offset: last.End()},
		File:  first.File,
	}
}

func emptyRange(at Token) ast.Range {
	pos := ast.Position{Line: at.Line, Column: at.Column, Offset: at.Offset}
	return ast.Range{Start: pos, End: pos, File: at.File}
}
