package parser

import (
	"context"

	"cxxscope/pkg/ast"
)

// Select parses content far enough to cover [offset, offset+length) and
// returns the most specific node spanning exactly that range. Failures
// are *SelectionError values wrapping ErrNotAName or ErrUnreachableCode.
func (p *Parser) Select(ctx context.Context, path, content string, offset, length int) (ast.Node, error) {
	saved := p.opts
	p.opts.Selection = &Selection{Offset: offset, Length: length}
	p.opts.Completion = false
	p.opts.FailFast = false
	defer func() { p.opts = saved }()

	tu, err := p.Parse(ctx, path, content)
	if err != nil {
		return nil, err
	}
	return p.SelectNode(tu, offset, length)
}

// SelectNode maps a range of the last parsed file to a node of tu
func (p *Parser) SelectNode(tu *ast.TranslationUnit, offset, length int) (ast.Node, error) {
	fail := func(err error) (ast.Node, error) {
		return nil, &SelectionError{Offset: offset, Length: length, Err: err}
	}
	if length <= 0 {
		return fail(ErrNotAName)
	}
	for _, r := range p.skipped {
		if r.File == tu.FilePath && r.Covers(offset, length) {
			return fail(ErrUnreachableCode)
		}
	}
	if !p.onTokenBoundaries(tu.FilePath, offset, length) {
		return fail(ErrNotAName)
	}

	n := deepestSpanning(tu, tu.FilePath, offset, length)
	if n == nil {
		if seg := qualifiedSuffix(tu, tu.FilePath, offset, length); seg != nil {
			return seg, nil
		}
		return fail(ErrNotAName)
	}
	if param, ok := n.(*ast.ParameterDeclaration); ok {
		if fn := owningFunctionName(param); fn != nil {
			return fn, nil
		}
	}
	return n, nil
}

// onTokenBoundaries checks that the range starts at the first byte of a
// token (floor) and ends at the last byte of a token (ceiling)
func (p *Parser) onTokenBoundaries(file string, offset, length int) bool {
	end := offset + length
	floor, ceiling := false, false
	for _, tok := range p.tokens.consumed() {
		if tok.File != file {
			continue
		}
		if tok.Offset == offset {
			floor = true
		}
		if tok.End() == end {
			ceiling = true
		}
		if floor && ceiling {
			return true
		}
	}
	return false
}

// deepestSpanning returns the innermost node whose range is exactly the
// selection
func deepestSpanning(root ast.Node, file string, offset, length int) ast.Node {
	var best ast.Node
	var visit func(n ast.Node)
	visit = func(n ast.Node) {
		r := n.Range()
		if r.File != file && r.File != "" {
			return
		}
		if !r.Covers(offset, length) {
			return
		}
		if r.Exactly(offset, length) {
			best = n
		}
		ast.EachChild(n, func(c ast.Node, _ ast.Property) { visit(c) })
	}
	ast.EachChild(root, func(c ast.Node, _ ast.Property) { visit(c) })
	return best
}

// qualifiedSuffix handles selections of a trailing part of a qualified
// name, such as B::f inside A::B::f. The narrower name decides what is
// selected, so the last segment is returned.
func qualifiedSuffix(root ast.Node, file string, offset, length int) ast.Node {
	var found ast.Node
	var visit func(n ast.Node) bool
	visit = func(n ast.Node) bool {
		r := n.Range()
		if (r.File != file && r.File != "") || !r.Covers(offset, length) {
			return false
		}
		if q, ok := n.(*ast.QualifiedName); ok && len(q.Segments) > 1 {
			last := q.Segments[len(q.Segments)-1]
			if last.Range().End.Offset == offset+length {
				for _, seg := range q.Segments[1:] {
					if seg.Range().Start.Offset == offset {
						found = last
						return true
					}
				}
			}
		}
		stop := false
		ast.EachChild(n, func(c ast.Node, _ ast.Property) {
			if !stop {
				stop = visit(c)
			}
		})
		return stop
	}
	visit(root)
	return found
}

// owningFunctionName returns the name of the function declarator a
// parameter belongs to
func owningFunctionName(param *ast.ParameterDeclaration) ast.NameNode {
	d, ok := param.Parent().(*ast.Declarator)
	if !ok {
		return nil
	}
	n := d.DeclaredName()
	if n == nil || ast.SimpleName(n) == "" {
		return nil
	}
	return n
}
