package ast

import "strings"

// NameNode is implemented by Name, QualifiedName and TemplateID
type NameNode interface {
	Node
	String() string
	// LastName returns the innermost segment; for simple names the name itself
	LastName() NameNode
	// ResolveBinding resolves the name on first use and caches the result
	ResolveBinding() Binding
	// Binding returns the cached binding without triggering resolution
	Binding() Binding
	SetBinding(b Binding)
	nameNode()
}

type nameBase struct {
	binding  Binding
	resolved bool
}

func (nb *nameBase) Binding() Binding { return nb.binding }

func (nb *nameBase) SetBinding(b Binding) {
	nb.binding = b
	nb.resolved = true
}

func resolve(nb *nameBase, n NameNode) Binding {
	if nb.resolved {
		return nb.binding
	}
	tu := TranslationUnitOf(n)
	if tu == nil || tu.resolver == nil {
		return nil
	}
	b := tu.resolver.ResolveBinding(n)
	if !nb.resolved {
		nb.binding = b
		nb.resolved = true
	}
	return nb.binding
}

// NameKind distinguishes the special forms of an unqualified name
type NameKind int

const (
	NameIdentifier NameKind = iota
	NameOperator
	NameConversion
	NameDestructor
	NameEmpty
)

// Name is an unqualified name: identifier, operator-function-id,
// conversion-function-id or destructor name
type Name struct {
	node
	nameBase
	Form   NameKind
	Value  string
	TypeID *TypeID // conversion target for NameConversion
}

func (*Name) Kind() Kind { return KindName }
func (*Name) nameNode() {}
func (n *Name) String() string { return n.Value }
func (n *Name) LastName() NameNode { return n }
func (n *Name) ResolveBinding() Binding {
	return resolve(&n.nameBase, n)
}

func (n *Name) eachChild(fn func(Node, Property)) {
	if n.TypeID != nil {
		fn(n.TypeID, PropConversionType)
	}
}

// IsEmpty reports whether the name has no text (anonymous entities)
func (n *Name) IsEmpty() bool { return n.Value == "" }

// QualifiedName is a name with a nested-name-specifier, e.g. A::B::f
type QualifiedName struct {
	node
	nameBase
	Segments       []NameNode
	FullyQualified bool
}

func (*QualifiedName) Kind() Kind { return KindQualifiedName }
func (*QualifiedName) nameNode() {}

func (q *QualifiedName) String() string {
	parts := make([]string, 0, len(q.Segments))
	for _, s := range q.Segments {
		parts = append(parts, s.String())
	}
	out := strings.Join(parts, "::")
	if q.FullyQualified {
		return "::" + out
	}
	return out
}

func (q *QualifiedName) LastName() NameNode {
	if len(q.Segments) == 0 {
		return q
	}
	return q.Segments[len(q.Segments)-1]
}

func (q *QualifiedName) ResolveBinding() Binding {
	return resolve(&q.nameBase, q)
}

func (q *QualifiedName) eachChild(fn func(Node, Property)) {
	for _, s := range q.Segments {
		fn(s, PropSegment)
	}
}

// TemplateID is a template name followed by an argument list
type TemplateID struct {
	node
	nameBase
	Template  *Name
	Arguments []Node // *TypeID or Expression
}

func (*TemplateID) Kind() Kind { return KindTemplateID }
func (*TemplateID) nameNode() {}

func (t *TemplateID) String() string {
	var b strings.Builder
	if t.Template != nil {
		b.WriteString(t.Template.Value)
	}
	b.WriteString("<")
	for i, a := range t.Arguments {
		if i > 0 {
			b.WriteString(", ")
		}
		switch arg := a.(type) {
		case *TypeID:
			b.WriteString(TypeIDString(arg))
		case Expression:
			b.WriteString(ExpressionString(arg))
		}
	}
	b.WriteString(">")
	return b.String()
}

func (t *TemplateID) LastName() NameNode { return t }

func (t *TemplateID) ResolveBinding() Binding {
	return resolve(&t.nameBase, t)
}

func (t *TemplateID) eachChild(fn func(Node, Property)) {
	if t.Template != nil {
		fn(t.Template, PropTemplateName)
	}
	for _, a := range t.Arguments {
		fn(a, PropTemplateArgument)
	}
}

// SimpleName returns the identifier text of the last segment with any
// template arguments removed
func SimpleName(n NameNode) string {
	switch v := n.LastName().(type) {
	case *Name:
		return v.Value
	case *TemplateID:
		if v.Template != nil {
			return v.Template.Value
		}
	}
	return n.String()
}
