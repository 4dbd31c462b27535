package parser

import (
	"context"

	"cxxscope/pkg/ast"
)

// CompletionContext says what kind of name is being completed
type CompletionContext int

const (
	// ContextExpression is a name used in an expression or statement
	ContextExpression CompletionContext = iota
	// ContextMember is a member name after '.' or '->'
	ContextMember
	// ContextQualified is the last segment of a qualified name
	ContextQualified
	// ContextType is a name in a type position
	ContextType
	// ContextDeclaration is a name being declared
	ContextDeclaration
)

func (c CompletionContext) String() string {
	switch c {
	case ContextExpression:
		return "expression"
	case ContextMember:
		return "member"
	case ContextQualified:
		return "qualified"
	case ContextType:
		return "type"
	case ContextDeclaration:
		return "declaration"
	default:
		return "unknown"
	}
}

// CompletionNode records where a completion parse stopped
type CompletionNode struct {
	Prefix string
	Offset int
	Length int
	// Name is the name node built from the completion token; it is linked
	// into Unit like any other name
	Name ast.NameNode
	Unit *ast.TranslationUnit
}

// nameOwner returns the outermost name containing the completion name
// (a qualified name or template-id) and its parent
func (c *CompletionNode) nameOwner() (ast.NameNode, ast.Node) {
	var owner ast.NameNode = c.Name
	parent := c.Name.Parent()
	for {
		q, ok := parent.(ast.NameNode)
		if !ok {
			return owner, parent
		}
		owner = q
		parent = q.Parent()
	}
}

// Context classifies the position of the completion name
func (c *CompletionNode) Context() CompletionContext {
	if c == nil || c.Name == nil {
		return ContextExpression
	}
	if q, ok := c.Name.Parent().(*ast.QualifiedName); ok && (len(q.Segments) > 1 || q.FullyQualified) {
		return ContextQualified
	}
	_, parent := c.nameOwner()
	switch parent.(type) {
	case *ast.FieldReference:
		return ContextMember
	case *ast.NamedTypeSpecifier, *ast.ElaboratedTypeSpecifier, *ast.BaseSpecifier:
		return ContextType
	case *ast.Declarator, *ast.NamespaceDefinition, *ast.Enumerator,
		*ast.SimpleTypeTemplateParameter, *ast.TemplatedTypeTemplateParameter:
		return ContextDeclaration
	}
	return ContextExpression
}

// ScopePath returns the qualifier segments written before the completion
// name, e.g. ["A", "B"] for A::B::pre
func (c *CompletionNode) ScopePath() []string {
	if c == nil || c.Name == nil {
		return nil
	}
	q, ok := c.Name.Parent().(*ast.QualifiedName)
	if !ok {
		return nil
	}
	var path []string
	for _, seg := range q.Segments {
		if seg == c.Name {
			break
		}
		path = append(path, ast.SimpleName(seg))
	}
	return path
}

// FullyQualified reports whether the qualifier starts with '::'
func (c *CompletionNode) FullyQualified() bool {
	if c == nil || c.Name == nil {
		return false
	}
	q, ok := c.Name.Parent().(*ast.QualifiedName)
	return ok && q.FullyQualified
}

// Owner returns the object expression of a member completion
func (c *CompletionNode) Owner() (ast.Expression, bool) {
	if c == nil || c.Name == nil {
		return nil, false
	}
	_, parent := c.nameOwner()
	ref, ok := parent.(*ast.FieldReference)
	if !ok {
		return nil, false
	}
	return ref.Owner, ref.Arrow
}

// Complete parses content in completion mode with the completion point at
// offset and returns the recorded node. The node is nil when the offset
// was never reached.
func (p *Parser) Complete(ctx context.Context, path, content string, offset int) (*CompletionNode, error) {
	saved := p.opts
	p.opts.Completion = true
	p.opts.CompletionOffset = offset
	p.opts.FailFast = false
	defer func() { p.opts = saved }()

	if _, err := p.Parse(ctx, path, content); err != nil {
		return nil, err
	}
	return p.completion, nil
}
