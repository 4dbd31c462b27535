package parser

import (
	"cxxscope/pkg/ast"
)

// startsName reports whether tok can begin a (possibly qualified) name
func startsName(tok Token) bool {
	switch tok.Type {
	case TokenIdentifier, TokenCompletion, TokenDoubleColon, TokenOperator, TokenTilde, TokenTemplate:
		return true
	}
	return false
}

// name parses an id-expression: an optionally qualified identifier,
// template-id, operator-function-id, conversion-function-id or destructor
// name. Parsing stops in front of '::*' so pointer-to-member declarators
// can take over.
func (p *Parser) name() (ast.NameNode, error) {
	start := p.mark()
	global := p.match(TokenDoubleColon)
	var segs []ast.NameNode
	var texts []string
	for {
		seg, err := p.nameSegment(texts, global)
		if seg != nil {
			segs = append(segs, seg)
			texts = append(texts, ast.SimpleName(seg))
		}
		if err != nil {
			return p.buildName(segs, global, start), err
		}
		if !p.check(TokenDoubleColon) || !canQualify(seg) {
			break
		}
		next := p.peekAhead(1)
		if next.Type == TokenStar || !startsName(next) || next.Type == TokenDoubleColon {
			break
		}
		p.advance()
	}
	return p.buildName(segs, global, start), nil
}

func canQualify(seg ast.NameNode) bool {
	switch v := seg.(type) {
	case *ast.Name:
		return v.Form == ast.NameIdentifier
	case *ast.TemplateID:
		return true
	}
	return false
}

func (p *Parser) buildName(segs []ast.NameNode, global bool, start int) ast.NameNode {
	if len(segs) == 0 {
		return nil
	}
	if len(segs) == 1 && !global {
		return segs[0]
	}
	q := &ast.QualifiedName{Segments: segs, FullyQualified: global}
	p.finish(q, start)
	return q
}

// nameSegment parses one unqualified segment
func (p *Parser) nameSegment(qualifier []string, global bool) (ast.NameNode, error) {
	start := p.mark()
	forceTemplate := p.match(TokenTemplate)
	tok := p.peek()
	switch tok.Type {
	case TokenCompletion:
		return p.completionName(), nil
	case TokenIdentifier:
		p.advance()
		n := &ast.Name{Value: tok.Value}
		p.finish(n, p.mark()-1)
		if p.check(TokenLess) && (forceTemplate || p.isTemplateName(qualifier, global, tok.Value)) {
			return p.templateID(n, start)
		}
		return n, nil
	case TokenTilde:
		if !isIdentifierToken(p.peekAhead(1)) {
			return nil, p.fail("expected a class name after '~'")
		}
		p.advance()
		id := p.advance()
		n := &ast.Name{Form: ast.NameDestructor, Value: "~" + id.Value}
		p.finish(n, start)
		if id.Type == TokenCompletion {
			p.recordCompletion(id, n)
		}
		return n, nil
	case TokenOperator:
		return p.operatorName()
	}
	return nil, p.fail("expected a name")
}

// templateID parses the argument list following the template name n
func (p *Parser) templateID(n *ast.Name, start int) (ast.NameNode, error) {
	tid := &ast.TemplateID{Template: n}
	args, err := p.templateArguments()
	tid.Arguments = args
	p.finish(tid, start)
	return tid, err
}

// completionName consumes the completion token as a name
func (p *Parser) completionName() *ast.Name {
	tok := p.advance()
	n := &ast.Name{Value: tok.Value}
	n.SetRange(tokenRange(tok, tok))
	p.recordCompletion(tok, n)
	return n
}

func (p *Parser) recordCompletion(tok Token, n *ast.Name) {
	p.completion = &CompletionNode{
		Prefix: tok.Value,
		Offset: tok.Offset,
		Length: tok.Length,
		Name:   n,
	}
	p.stopped = true
}

var overloadableOperators = map[TokenType]bool{
	TokenPlus: true, TokenMinus: true, TokenStar: true, TokenSlash: true,
	TokenPercent: true, TokenCaret: true, TokenAmpersand: true, TokenPipe: true,
	TokenTilde: true, TokenExclamation: true, TokenEquals: true, TokenLess: true,
	TokenGreater: true, TokenPlusEquals: true, TokenMinusEquals: true,
	TokenStarEquals: true, TokenSlashEquals: true, TokenPercentEquals: true,
	TokenCaretEquals: true, TokenAmpEquals: true, TokenPipeEquals: true,
	TokenLeftShift: true, TokenRightShift: true, TokenLeftShiftEquals: true,
	TokenRightShiftEquals: true, TokenDoubleEquals: true, TokenNotEquals: true,
	TokenLessEqual: true, TokenGreaterEqual: true, TokenDoubleAmp: true,
	TokenDoublePipe: true, TokenPlusPlus: true, TokenMinusMinus: true,
	TokenComma: true, TokenArrowStar: true, TokenArrow: true,
}

// operatorName parses operator-function-id and conversion-function-id
func (p *Parser) operatorName() (ast.NameNode, error) {
	start := p.mark()
	p.advance() // operator
	tok := p.peek()
	n := &ast.Name{Form: ast.NameOperator}
	switch {
	case tok.Type == TokenNew || tok.Type == TokenDelete:
		p.advance()
		n.Value = "operator " + tok.Value
		if p.check(TokenLeftBracket) && p.checkAhead(1, TokenRightBracket) {
			p.advance()
			p.advance()
			n.Value += "[]"
		}
	case tok.Type == TokenLeftParen:
		p.advance()
		if _, err := p.expect(TokenRightParen, "')' after 'operator('"); err != nil {
			return nil, err
		}
		n.Value = "operator()"
	case tok.Type == TokenLeftBracket:
		p.advance()
		if _, err := p.expect(TokenRightBracket, "']' after 'operator['"); err != nil {
			return nil, err
		}
		n.Value = "operator[]"
	case overloadableOperators[tok.Type]:
		p.advance()
		n.Value = "operator" + tok.Value
	default:
		tid, err := p.conversionTypeID()
		if err != nil {
			return nil, err
		}
		n.Form = ast.NameConversion
		n.TypeID = tid
		n.Value = "operator " + ast.TypeIDString(tid)
	}
	p.finish(n, start)
	return n, nil
}

// conversionTypeID parses the type of a conversion function: specifiers
// followed by pointer operators only
func (p *Parser) conversionTypeID() (*ast.TypeID, error) {
	start := p.mark()
	spec, err := p.declSpecifierSeq(declTypeID)
	if err != nil {
		return nil, err
	}
	if spec == nil {
		return nil, p.fail("expected a type after 'operator'")
	}
	dstart := p.mark()
	d := &ast.Declarator{}
	for p.startsPointerOperator() {
		op, err := p.pointerOperator()
		if op != nil {
			d.PointerOps = append(d.PointerOps, op)
		}
		if err != nil {
			return nil, err
		}
	}
	p.finish(d, dstart)
	tid := &ast.TypeID{Specifier: spec, Declarator: d}
	p.finish(tid, start)
	return tid, nil
}

// templateArguments parses '<' arguments '>'; a '>>' closing two lists is
// split in place
func (p *Parser) templateArguments() ([]ast.Node, error) {
	p.advance() // '<'
	saved := p.angleStop
	p.angleStop = true
	defer func() { p.angleStop = saved }()

	var args []ast.Node
	if p.closeAngle() {
		return args, nil
	}
	for {
		arg, err := p.templateArgument()
		if arg != nil {
			args = append(args, arg)
		}
		if err != nil {
			return args, err
		}
		if p.match(TokenComma) {
			continue
		}
		if p.closeAngle() {
			return args, nil
		}
		return args, p.fail("expected '>' to close template arguments")
	}
}

func (p *Parser) closeAngle() bool {
	if p.check(TokenRightShift) {
		p.tokens.splitShift()
	}
	return p.match(TokenGreater)
}

// templateArgument prefers a type-id and falls back to an expression
func (p *Parser) templateArgument() (ast.Node, error) {
	m := p.mark()
	tid, err := p.typeID()
	if err == nil && (p.check(TokenComma) || p.check(TokenGreater) || p.check(TokenRightShift)) {
		return tid, nil
	}
	if !p.backtrack(m) {
		if tid == nil {
			return nil, errStop
		}
		return tid, errStop
	}
	expr, err := p.assignmentExpression()
	if expr == nil {
		return nil, err
	}
	return expr, err
}
