package semantic

import (
	"strings"

	"cxxscope/pkg/ast"
	"cxxscope/pkg/symtab"
)

// expr binds the names in e and returns its type. Types are approximate:
// they are precise enough for overload resolution of ordinary calls.
func (r *Resolver) expr(e ast.Expression) symtab.TypeInfo {
	if e == nil {
		return undef
	}
	ti := r.exprType(e)
	r.types[e] = ti
	return ti
}

func (r *Resolver) exprType(e ast.Expression) symtab.TypeInfo {
	switch e := e.(type) {
	case *ast.IdExpression:
		return r.valueType(r.resolveName(e.Name, lookupAny, roleReference))
	case *ast.LiteralExpression:
		return r.literal(e)
	case *ast.UnaryExpression:
		return r.unary(e)
	case *ast.BinaryExpression:
		return r.binary(e)
	case *ast.ConditionalExpression:
		r.expr(e.Condition)
		pos, neg := r.expr(e.Positive), r.expr(e.Negative)
		if pos.Kind == symtab.KindUndef {
			return neg
		}
		return pos
	case *ast.CastExpression:
		ti := r.typeID(e.TypeID)
		r.expr(e.Operand)
		return ti
	case *ast.FunctionCallExpression:
		return r.call(e)
	case *ast.ArraySubscriptExpression:
		arr := r.table.Canonical(r.expr(e.Array)).StripReference()
		r.expr(e.Subscript)
		if arr.IsPointer() {
			return arr.Pointee()
		}
		return undef
	case *ast.FieldReference:
		return r.fieldReference(e)
	case *ast.TypeIDExpression:
		r.typeID(e.TypeID)
		if e.Op == ast.TypeIDTypeid {
			return undef
		}
		return unsigned()
	case *ast.ExpressionList:
		ti := undef
		for _, x := range e.Expressions {
			ti = r.expr(x)
		}
		return ti
	case *ast.NewExpression:
		for _, x := range e.Placement {
			r.expr(x)
		}
		ti := r.typeID(e.TypeID)
		for _, x := range e.Initializer {
			r.expr(x)
		}
		return ti.With(symtab.PtrOp{Kind: symtab.PtrPointer})
	case *ast.DeleteExpression:
		r.expr(e.Operand)
		return symtab.Builtin(symtab.KindVoid)
	case *ast.SimpleTypeConstructorExpression:
		ti := r.specType(e.Specifier, true)
		for _, x := range e.Arguments {
			r.expr(x)
		}
		return ti
	case *ast.ProblemExpression:
	}
	return undef
}

func unsigned() symtab.TypeInfo {
	ti := symtab.Builtin(symtab.KindInt)
	ti.Mods |= symtab.ModUnsigned
	return ti
}

// valueType is the type of an expression naming id
func (r *Resolver) valueType(id symtab.DeclID) symtab.TypeInfo {
	d := r.table.Decl(id)
	switch {
	case d == nil:
		return undef
	case d.Type.Kind == symtab.KindEnumerator:
		return symtab.Named(symtab.KindEnumeration, d.Type.Named)
	case d.IsObject():
		return d.Type
	case d.IsFunction():
		return symtab.Builtin(symtab.KindFunction)
	}
	return r.typeOf(id)
}

func (r *Resolver) literal(e *ast.LiteralExpression) symtab.TypeInfo {
	v := strings.ToLower(e.Value)
	switch e.Literal {
	case ast.LiteralInteger:
		ti := symtab.Builtin(symtab.KindInt)
		digits := strings.TrimRight(v, "ul")
		suffix := v[len(digits):]
		if strings.Contains(suffix, "u") {
			ti.Mods |= symtab.ModUnsigned
		}
		if strings.Contains(suffix, "l") {
			ti.Mods |= symtab.ModLong
		}
		if digits != "" && strings.Trim(digits, "0x") == "" {
			ti.Mods |= symtab.ModNullPointer
		}
		return ti
	case ast.LiteralFloat:
		switch {
		case strings.HasSuffix(v, "f") && !strings.HasPrefix(v, "0x"):
			return symtab.Builtin(symtab.KindFloat)
		case strings.HasSuffix(v, "l"):
			ti := symtab.Builtin(symtab.KindDouble)
			ti.Mods |= symtab.ModLong
			return ti
		}
		return symtab.Builtin(symtab.KindDouble)
	case ast.LiteralChar:
		if strings.HasPrefix(v, "l") {
			return symtab.Builtin(symtab.KindWChar)
		}
		return symtab.Builtin(symtab.KindChar)
	case ast.LiteralString:
		ti := symtab.Builtin(symtab.KindChar)
		if strings.HasPrefix(v, "l") {
			ti.Kind = symtab.KindWChar
		}
		ti.CV = symtab.CVConst
		return ti.With(symtab.PtrOp{Kind: symtab.PtrArray})
	case ast.LiteralTrue, ast.LiteralFalse:
		return symtab.Builtin(symtab.KindBool)
	case ast.LiteralNullptr:
		ti := symtab.Builtin(symtab.KindVoid).With(symtab.PtrOp{Kind: symtab.PtrPointer})
		ti.Mods |= symtab.ModNullPointer
		return ti
	case ast.LiteralThis:
		id, err := r.table.Lookup(symtab.ThisName)
		if err != nil {
			return undef
		}
		return r.valueType(id)
	}
	return undef
}

func (r *Resolver) unary(e *ast.UnaryExpression) symtab.TypeInfo {
	ti := r.table.Canonical(r.expr(e.Operand)).StripReference()
	switch e.Op {
	case ast.UnaryStar:
		if ti.IsPointer() {
			return ti.Pointee()
		}
		return undef
	case ast.UnaryAmper:
		ti.Mods &^= symtab.ModNullPointer
		return ti.With(symtab.PtrOp{Kind: symtab.PtrPointer})
	case ast.UnaryNot:
		return symtab.Builtin(symtab.KindBool)
	case ast.UnarySizeof, ast.UnaryAlignof:
		return unsigned()
	case ast.UnaryThrow:
		return symtab.Builtin(symtab.KindVoid)
	case ast.UnaryTypeid:
		return undef
	case ast.UnaryBracketed:
		return ti
	}
	ti.Mods &^= symtab.ModNullPointer
	return ti
}

func (r *Resolver) binary(e *ast.BinaryExpression) symtab.TypeInfo {
	a := r.table.Canonical(r.expr(e.Operand1)).StripReference()
	b := r.table.Canonical(r.expr(e.Operand2)).StripReference()
	a.Mods &^= symtab.ModNullPointer
	b.Mods &^= symtab.ModNullPointer
	switch {
	case e.Op >= ast.BinaryLess && e.Op <= ast.BinaryNotEquals,
		e.Op == ast.BinaryLogicalAnd, e.Op == ast.BinaryLogicalOr:
		return symtab.Builtin(symtab.KindBool)
	case e.Op >= ast.BinaryAssign && e.Op <= ast.BinaryBitOrAssign:
		return a
	case e.Op == ast.BinaryPointerToMember || e.Op == ast.BinaryPointerToMemberPtr:
		return undef
	case a.IsPointer() && b.IsPointer():
		return symtab.Builtin(symtab.KindInt)
	case a.IsPointer():
		return a
	case b.IsPointer():
		return b
	}
	return arithmetic(a, b)
}

// arithmetic applies the usual arithmetic conversions, roughly
func arithmetic(a, b symtab.TypeInfo) symtab.TypeInfo {
	if !a.Kind.IsArithmetic() {
		return b
	}
	if !b.Kind.IsArithmetic() {
		return a
	}
	rank := func(t symtab.TypeInfo) int {
		switch t.Kind {
		case symtab.KindDouble:
			return 3
		case symtab.KindFloat:
			return 2
		}
		if t.Mods&symtab.ModLong != 0 {
			return 1
		}
		return 0
	}
	out := a
	if rank(b) > rank(a) {
		out = b
	}
	if out.Kind != symtab.KindFloat && out.Kind != symtab.KindDouble {
		out.Kind = symtab.KindInt
	}
	out.CV = symtab.CVNone
	return out
}

// call resolves the function a call expression names against the
// argument types
func (r *Resolver) call(e *ast.FunctionCallExpression) symtab.TypeInfo {
	args := make([]symtab.TypeInfo, len(e.Arguments))
	for i, a := range e.Arguments {
		args[i] = r.expr(a)
	}

	var id symtab.DeclID
	switch f := e.Function.(type) {
	case *ast.IdExpression:
		id = r.callName(f.Name, args)
		r.types[f] = r.valueType(id)
	case *ast.FieldReference:
		id = r.memberCall(f, args)
		r.types[f] = r.valueType(id)
	default:
		// call through a function pointer or a functor expression
		return r.functor(r.expr(e.Function), args)
	}

	d := r.table.Decl(id)
	switch {
	case d == nil:
		return undef
	case d.IsFunction():
		return d.Return
	case d.IsObject():
		return r.functor(d.Type, args)
	}
	// functional cast or constructor call
	return r.typeOf(id)
}

// functor returns the result of calling an object of type ti
func (r *Resolver) functor(ti symtab.TypeInfo, args []symtab.TypeInfo) symtab.TypeInfo {
	ti = r.table.Canonical(ti).StripReference()
	if len(ti.PtrOps) > 0 || !ti.Kind.IsClass() {
		return undef
	}
	id, err := r.table.MemberFunctionLookup(ti.Named, "operator()", args, ti.CV)
	if err != nil || id == symtab.NoDecl {
		return undef
	}
	return r.table.Decl(id).Return
}

func (r *Resolver) callName(name ast.NameNode, args []symtab.TypeInfo) symtab.DeclID {
	r.remember(name)
	scope, last, err := r.qualifier(name)
	if err != nil {
		r.fail(name, nil)
		return symtab.NoDecl
	}
	r.templateArguments(last)
	simple := ast.SimpleName(last)

	var id symtab.DeclID
	if scope != symtab.NoDecl {
		id, err = r.table.QualifiedFunctionLookup(scope, simple, args)
	} else {
		id, err = r.table.UnqualifiedFunctionLookup(simple, args)
	}
	if err == nil && id == symtab.NoDecl {
		r.fail(name, nil, r.candidates(scope, simple)...)
		return symtab.NoDecl
	}
	r.settle(name, id, err, roleReference)
	r.bindTemplateName(last)
	return id
}

// ownerClass returns the class an owner expression of a field reference
// designates along with the qualification of the object
func (r *Resolver) ownerClass(ti symtab.TypeInfo, arrow bool) (symtab.DeclID, symtab.CV, bool) {
	ti = r.table.Canonical(ti).StripReference()
	if arrow {
		if !ti.IsPointer() {
			return symtab.NoDecl, symtab.CVNone, false
		}
		ti = r.table.Canonical(ti.Pointee())
	}
	if len(ti.PtrOps) > 0 || !ti.Kind.IsClass() || ti.Named == symtab.NoDecl {
		return symtab.NoDecl, symtab.CVNone, false
	}
	return ti.Named, ti.CV, true
}

// member resolves the owner of a field reference and the scope the field
// name is searched in
func (r *Resolver) member(f *ast.FieldReference) (scope symtab.DeclID, cv symtab.CV, last ast.NameNode, ok bool) {
	class, cv, ok := r.ownerClass(r.expr(f.Owner), f.Arrow)
	r.remember(f.Field)
	if !ok {
		r.fail(f.Field, nil)
		return symtab.NoDecl, cv, f.Field, false
	}
	// obj.Base::m names a member of a base class
	q, _, err := r.qualifier(f.Field)
	if err != nil {
		r.fail(f.Field, nil)
		return symtab.NoDecl, cv, f.Field, false
	}
	if q != symtab.NoDecl {
		class = q
	}
	last = f.Field.LastName()
	r.templateArguments(last)
	return class, cv, last, true
}

func (r *Resolver) memberCall(f *ast.FieldReference, args []symtab.TypeInfo) symtab.DeclID {
	class, cv, last, ok := r.member(f)
	if !ok {
		return symtab.NoDecl
	}
	simple := ast.SimpleName(last)
	id, err := r.table.MemberFunctionLookup(class, simple, args, cv)
	if err == nil && id == symtab.NoDecl {
		r.fail(f.Field, nil, r.candidates(class, simple)...)
		return symtab.NoDecl
	}
	r.settle(f.Field, id, err, roleReference)
	r.bindTemplateName(last)
	return id
}

func (r *Resolver) fieldReference(f *ast.FieldReference) symtab.TypeInfo {
	class, cv, last, ok := r.member(f)
	if !ok {
		return undef
	}
	simple := ast.SimpleName(last)
	id, err := r.table.QualifiedLookup(class, simple)
	if err == nil && id == symtab.NoDecl {
		r.fail(f.Field, nil, r.candidates(class, simple)...)
		return undef
	}
	r.settle(f.Field, id, err, roleReference)
	r.bindTemplateName(last)
	ti := r.valueType(id)
	if d := r.table.Decl(id); d != nil && d.IsObject() && !d.IsStatic() && len(ti.PtrOps) == 0 {
		ti.CV |= cv
	}
	return ti
}

// initializer binds an initializer of an entity of type target.
// Designators name members of target.
func (r *Resolver) initializer(init ast.Initializer, target symtab.TypeInfo) {
	switch i := init.(type) {
	case *ast.InitializerExpression:
		r.expr(i.Expression)
	case *ast.InitializerList:
		elem := undef
		if t := r.table.Canonical(target); t.IsPointer() {
			elem = t.Pointee()
		}
		for _, c := range i.Clauses {
			if _, ok := c.(*ast.DesignatedInitializer); ok {
				r.initializer(c, target)
				continue
			}
			r.initializer(c, elem)
		}
	case *ast.ConstructorInitializer:
		for _, a := range i.Arguments {
			r.expr(a)
		}
	case *ast.DesignatedInitializer:
		cur := target
		for _, d := range i.Designators {
			switch d := d.(type) {
			case *ast.FieldDesignator:
				cur = r.designator(cur, d.Name)
			case *ast.ArrayDesignator:
				r.expr(d.Subscript)
				if t := r.table.Canonical(cur); t.IsPointer() {
					cur = t.Pointee()
				} else {
					cur = undef
				}
			}
		}
		if i.Operand != nil {
			r.initializer(i.Operand, cur)
		}
	}
}

// designator binds a field designator to the member of target it names
func (r *Resolver) designator(target symtab.TypeInfo, name *ast.Name) symtab.TypeInfo {
	if name == nil {
		return undef
	}
	r.remember(name)
	class, _, ok := r.ownerClass(target, false)
	if !ok {
		r.fail(name, nil)
		return undef
	}
	id, err := r.table.QualifiedLookup(class, name.Value)
	r.settle(name, id, err, roleReference)
	return r.valueType(id)
}
