package semantic

import (
	"cxxscope/pkg/ast"
	"cxxscope/pkg/symtab"
)

var undef = symtab.Builtin(symtab.KindUndef)

// param is one function parameter as seen by the binder
type param struct {
	name ast.NameNode
	decl *ast.ParameterDeclaration
	ti   symtab.TypeInfo
}

var simpleKinds = map[ast.SimpleType]symtab.Kind{
	ast.TypeUnspecified: symtab.KindInt,
	ast.TypeVoid:        symtab.KindVoid,
	ast.TypeChar:        symtab.KindChar,
	ast.TypeWChar:       symtab.KindWChar,
	ast.TypeBool:        symtab.KindBool,
	ast.TypeInt:         symtab.KindInt,
	ast.TypeFloat:       symtab.KindFloat,
	ast.TypeDouble:      symtab.KindDouble,
}

func simpleType(s *ast.SimpleDeclSpecifier) symtab.TypeInfo {
	ti := symtab.Builtin(simpleKinds[s.Type])
	if s.Signed {
		ti.Mods |= symtab.ModSigned
	}
	if s.Unsigned {
		ti.Mods |= symtab.ModUnsigned
	}
	if s.Short {
		ti.Mods |= symtab.ModShort
	}
	if s.Long || s.LongLong {
		ti.Mods |= symtab.ModLong
	}
	return ti
}

func compositeKind(k ast.CompositeKey) symtab.Kind {
	switch k {
	case ast.KeyUnion:
		return symtab.KindUnion
	case ast.KeyClass:
		return symtab.KindClass
	}
	return symtab.KindStruct
}

func elaboratedKind(k ast.ElaboratedKind) symtab.Kind {
	switch k {
	case ast.ElaboratedEnum:
		return symtab.KindEnumeration
	case ast.ElaboratedUnion:
		return symtab.KindUnion
	case ast.ElaboratedClass:
		return symtab.KindClass
	}
	return symtab.KindStruct
}

func access(v ast.Visibility) symtab.Access {
	switch v {
	case ast.VisibilityProtected:
		return symtab.AccessProtected
	case ast.VisibilityPrivate:
		return symtab.AccessPrivate
	}
	return symtab.AccessPublic
}

// typeOf returns the type named by a type declaration
func (r *Resolver) typeOf(id symtab.DeclID) symtab.TypeInfo {
	d := r.table.Decl(id)
	switch {
	case d == nil:
		return undef
	case d.IsTypedef():
		return symtab.Named(symtab.KindType, id)
	case d.IsTypeName():
		return symtab.Named(d.Type.Kind, id)
	}
	return undef
}

// specType computes the type of a decl-specifier, declaring the class or
// enumeration it defines. A nil specifier (constructors, destructors) has
// no type.
func (r *Resolver) specType(spec ast.DeclSpecifier, withDeclarators bool) symtab.TypeInfo {
	if spec == nil {
		return undef
	}
	var ti symtab.TypeInfo
	switch s := spec.(type) {
	case *ast.SimpleDeclSpecifier:
		ti = simpleType(s)
	case *ast.NamedTypeSpecifier:
		ti = r.typeOf(r.resolveName(s.Name, lookupType, roleReference))
	case *ast.CompositeTypeSpecifier:
		ti = r.typeOf(r.classSpecifier(s))
	case *ast.ElaboratedTypeSpecifier:
		ti = r.typeOf(r.elaborated(s, !withDeclarators && !s.Flags().Friend))
	case *ast.EnumerationSpecifier:
		ti = r.typeOf(r.enumeration(s))
	default:
		ti = undef
	}
	f := spec.Flags()
	if f.Const {
		ti.CV |= symtab.CVConst
	}
	if f.Volatile {
		ti.CV |= symtab.CVVolatile
	}
	return ti
}

// pointerOps applies pointer operators to ti, leftmost first
func (r *Resolver) pointerOps(ti symtab.TypeInfo, ops []*ast.PointerOperator) symtab.TypeInfo {
	for _, op := range ops {
		p := symtab.PtrOp{Kind: symtab.PtrPointer}
		switch op.Op {
		case ast.ReferenceOp, ast.RValueReferenceOp:
			p.Kind = symtab.PtrReference
		case ast.PointerToMemberOp:
			p.Kind = symtab.PtrMember
			p.Class = r.resolveName(op.Class, lookupScope, roleReference)
		}
		if op.Const {
			p.CV |= symtab.CVConst
		}
		if op.Volatile {
			p.CV |= symtab.CVVolatile
		}
		ti = ti.With(p)
	}
	return ti
}

// declaratorType applies d to base. For a function declarator the result
// is the return type; a pointer to function is a pointer to KindFunction.
func (r *Resolver) declaratorType(base symtab.TypeInfo, d *ast.Declarator) symtab.TypeInfo {
	if d == nil {
		return base
	}
	ti := r.pointerOps(base, d.PointerOps)
	for range d.ArrayModifiers {
		ti = ti.With(symtab.PtrOp{Kind: symtab.PtrArray})
	}
	if d.Nested == nil {
		return ti
	}
	if d.IsFunction && len(d.Nested.PointerOps) > 0 {
		ti = symtab.Builtin(symtab.KindFunction)
	}
	return r.declaratorType(ti, d.Nested)
}

// parameters computes the parameter list of a function declarator
func (r *Resolver) parameters(fd *ast.Declarator) []param {
	var out []param
	for _, p := range fd.Parameters {
		base := r.specType(p.Specifier, true)
		ti := r.declaratorType(base, p.Declarator)
		var name ast.NameNode
		if p.Declarator != nil {
			r.nestedParameters(p.Declarator, nil)
			ti.HasDefault = p.Declarator.Initializer != nil
			name = p.Declarator.DeclaredName()
		}
		out = append(out, param{name: name, decl: p, ti: ti})
	}
	return out
}

// nestedParameters resolves the parameter types of function declarators
// inside d other than skip, such as those of function pointers
func (r *Resolver) nestedParameters(d, skip *ast.Declarator) {
	for cur := d; cur != nil; cur = cur.Nested {
		if cur.IsFunction && cur != skip {
			r.parameters(cur)
		}
	}
}

func paramTypes(params []param) []symtab.TypeInfo {
	out := make([]symtab.TypeInfo, len(params))
	for i, p := range params {
		out[i] = p.ti
	}
	return out
}

// typeID computes the type of a type-id and binds the names inside it
func (r *Resolver) typeID(t *ast.TypeID) symtab.TypeInfo {
	if t == nil {
		return undef
	}
	ti := r.declaratorType(r.specType(t.Specifier, true), t.Declarator)
	if t.Declarator != nil {
		r.nestedParameters(t.Declarator, nil)
		r.declaratorExpressions(t.Declarator, ti)
	}
	return ti
}
