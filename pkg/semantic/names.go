package semantic

import (
	"errors"

	"cxxscope/pkg/ast"
	"cxxscope/pkg/symtab"
)

// lookupKind restricts what a name may denote
type lookupKind int

const (
	lookupAny lookupKind = iota
	// lookupType accepts classes, enumerations and typedefs
	lookupType
	// lookupScope accepts namespaces and classes, following typedefs
	lookupScope
	lookupNamespace
)

// errQualifier marks a name whose nested-name-specifier did not resolve.
// The failing segment carries the problem.
var errQualifier = errors.New("unresolved qualifier")

// qualifier resolves the nested-name-specifier of name, binding its
// segments, and returns the scope the last segment is looked up in.
// Unqualified names give symtab.NoDecl.
func (r *Resolver) qualifier(name ast.NameNode) (symtab.DeclID, ast.NameNode, error) {
	q, ok := name.(*ast.QualifiedName)
	if !ok || len(q.Segments) == 0 {
		return symtab.NoDecl, name, nil
	}
	scope := symtab.NoDecl
	if q.FullyQualified {
		scope = symtab.GlobalID
	}
	last := len(q.Segments) - 1
	for _, seg := range q.Segments[:last] {
		r.templateArguments(seg)
		id, err := r.table.LookupNestedNameSpecifier(ast.SimpleName(seg), scope)
		if err != nil || id == symtab.NoDecl {
			r.fail(seg, err)
			return symtab.NoDecl, q.Segments[last], errQualifier
		}
		r.bind(seg, id, roleReference)
		r.bindTemplateName(seg)
		scope = id
	}
	return scope, q.Segments[last], nil
}

// lookup finds the declaration name denotes from the current scope. An
// overload set that cannot be narrowed without arguments is reported as
// ambiguous.
func (r *Resolver) lookup(name ast.NameNode, kind lookupKind) (symtab.DeclID, error) {
	scope, last, err := r.qualifier(name)
	if err != nil {
		return symtab.NoDecl, err
	}
	r.templateArguments(last)
	data := &symtab.LookupData{Name: ast.SimpleName(last)}
	switch kind {
	case lookupType:
		data.Lower, data.Upper = symtab.KindType, symtab.KindEnumeration
	case lookupScope:
		data.Lower, data.Upper, data.FollowTypedefs = symtab.KindNamespace, symtab.KindUnion, true
	case lookupNamespace:
		data.Lower = symtab.KindNamespace
	}
	from := r.table.Current()
	if scope != symtab.NoDecl {
		data.Qualified = true
		from = scope
	}
	id, err := r.table.Resolve(data, from)
	if err == nil && id == symtab.NoDecl && len(data.Found) > 1 {
		err = &symtab.Error{Code: symtab.CodeAmbiguous, Name: data.Name, Candidates: data.Found}
	}
	return id, err
}

// resolveName looks name up, binds it and returns the declaration
func (r *Resolver) resolveName(name ast.NameNode, kind lookupKind, how role) symtab.DeclID {
	if name == nil {
		return symtab.NoDecl
	}
	r.remember(name)
	id, err := r.lookup(name, kind)
	if errors.Is(err, errQualifier) {
		err = nil
	}
	r.settle(name, id, err, how)
	r.bindTemplateName(name.LastName())
	return id
}

// templateArguments binds the names used in the arguments of a template-id
func (r *Resolver) templateArguments(n ast.NameNode) {
	tid, ok := n.(*ast.TemplateID)
	if !ok {
		return
	}
	for _, arg := range tid.Arguments {
		switch a := arg.(type) {
		case *ast.TypeID:
			r.typeID(a)
		case ast.Expression:
			r.expr(a)
		}
	}
}

// bindTemplateName gives the template name of a template-id the binding of
// the template-id itself
func (r *Resolver) bindTemplateName(n ast.NameNode) {
	if tid, ok := n.(*ast.TemplateID); ok && tid.Template != nil && tid.Binding() != nil {
		tid.Template.SetBinding(tid.Binding())
	}
}

// candidates lists the overload set of name for a problem binding
func (r *Resolver) candidates(scope symtab.DeclID, name string) []symtab.DeclID {
	data := &symtab.LookupData{Name: name}
	from := r.table.Current()
	if scope != symtab.NoDecl {
		data.Qualified = true
		from = scope
	}
	id, err := r.table.Resolve(data, from)
	switch {
	case err != nil:
		return nil
	case id != symtab.NoDecl:
		return []symtab.DeclID{id}
	}
	return data.Found
}

// declScope is the scope new declarations are registered in. Template
// parameter scopes register into their enclosing scope.
func (r *Resolver) declScope() symtab.DeclID {
	cur := r.table.Decl(r.table.Current())
	if cur.Type.Kind == symtab.KindTemplate {
		return cur.Scope
	}
	return cur.ID
}

// inClass reports whether the declarations being bound belong to a class
func (r *Resolver) inClass() bool {
	d := r.table.Decl(r.declScope())
	return d != nil && d.Type.Kind.IsClass()
}
