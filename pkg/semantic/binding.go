package semantic

import (
	"cxxscope/pkg/symtab"
)

// Binding is the resolved entity of a name. There is one Binding per
// declaration, so bindings compare equal by pointer.
type Binding struct {
	ID symtab.DeclID
	r  *Resolver
}

// BindingName returns the declared name
func (b *Binding) BindingName() string { return b.Declaration().Name }

// Declaration returns the symbol table entry behind b
func (b *Binding) Declaration() *symtab.Declaration { return b.r.table.Decl(b.ID) }

// QualifiedName returns the fully qualified name of the entity
func (b *Binding) QualifiedName() string { return b.r.table.QualifiedName(b.ID) }

// Type returns the declared type rendered with qualified names
func (b *Binding) Type() string {
	d := b.Declaration()
	switch {
	case d.IsTypedef():
		return b.r.table.TypeString(d.Aliased)
	case d.IsFunction():
		return b.r.table.TypeString(d.Return)
	}
	return b.r.table.TypeString(d.Type)
}

// EntityKind classifies a binding for display
func (b *Binding) EntityKind() string {
	d := b.Declaration()
	switch {
	case d.Name == symtab.ThisName && d.IsObject():
		return "this"
	case d.IsObject():
		return "variable"
	case d.IsTypedef():
		return "typedef"
	case d.Type.Kind == symtab.KindEnumerator:
		return "enumerator"
	}
	return d.Type.Kind.String()
}

func (b *Binding) String() string { return b.EntityKind() + " " + b.QualifiedName() }

// ProblemBinding stands for a name that could not be resolved. Err is a
// *symtab.Error when the symbol table rejected the lookup and nil when
// nothing was found.
type ProblemBinding struct {
	Name       string
	Err        error
	Candidates []*Binding
}

// BindingName returns the unresolved name
func (p *ProblemBinding) BindingName() string { return p.Name }

// Reason describes why the name has no binding
func (p *ProblemBinding) Reason() string {
	switch {
	case p.Err != nil:
		return p.Err.Error()
	case len(p.Candidates) > 0:
		return "no viable overload"
	}
	return "not found"
}

func (p *ProblemBinding) String() string { return "problem " + p.Name + ": " + p.Reason() }
