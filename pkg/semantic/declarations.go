package semantic

import (
	"cxxscope/pkg/ast"
	"cxxscope/pkg/symtab"
)

func (r *Resolver) declarations(list []ast.Declaration) {
	for _, d := range list {
		r.declaration(d)
	}
}

func (r *Resolver) declaration(d ast.Declaration) {
	switch d := d.(type) {
	case *ast.SimpleDeclaration:
		r.simpleDeclaration(d)
	case *ast.FunctionDefinition:
		r.functionDefinition(d)
	case *ast.NamespaceDefinition:
		r.namespaceDefinition(d)
	case *ast.NamespaceAlias:
		r.namespaceAlias(d)
	case *ast.UsingDirective:
		r.usingDirective(d)
	case *ast.UsingDeclaration:
		r.usingDeclaration(d)
	case *ast.LinkageSpecification:
		r.declarations(d.Declarations)
	case *ast.TemplateDeclaration:
		r.templateDeclaration(d)
	case *ast.VisibilityLabel, *ast.ASMDeclaration, *ast.ProblemDeclaration:
	}
}

func (r *Resolver) simpleDeclaration(d *ast.SimpleDeclaration) {
	base := r.specType(d.Specifier, len(d.Declarators) > 0)
	var flags *ast.Specifiers
	if d.Specifier != nil {
		flags = d.Specifier.Flags()
	}
	for _, dt := range d.Declarators {
		r.declarator(flags, base, dt, false)
	}
}

// declarator declares the entity of dt and returns it
func (r *Resolver) declarator(flags *ast.Specifiers, base symtab.TypeInfo, dt *ast.Declarator, definition bool) symtab.DeclID {
	ti := r.declaratorType(base, dt)
	fd := dt.FunctionDeclarator()
	r.nestedParameters(dt, fd)

	name := dt.DeclaredName()
	if name == nil {
		if fd != nil {
			r.parameters(fd)
		}
		r.declaratorExpressions(dt, ti)
		return symtab.NoDecl
	}
	r.remember(name)

	var id symtab.DeclID
	switch {
	case flags != nil && flags.Storage == ast.StorageTypedef:
		if fd != nil {
			r.parameters(fd)
		}
		id = r.declareTypedef(name, ti)
	case fd != nil:
		id = r.declareFunction(flags, name, ti, fd, definition)
	default:
		id = r.declareObject(flags, name, ti, dt)
	}
	r.declaratorExpressions(dt, ti)
	return id
}

// declaratorExpressions binds the expressions attached to a declarator:
// array sizes, default arguments, bit-field widths and the initializer
func (r *Resolver) declaratorExpressions(d *ast.Declarator, ti symtab.TypeInfo) {
	for cur := d; cur != nil; cur = cur.Nested {
		for _, a := range cur.ArrayModifiers {
			if a.Size != nil {
				r.expr(a.Size)
			}
		}
		for _, p := range cur.Parameters {
			if p.Declarator != nil && p.Declarator.Initializer != nil {
				r.initializer(p.Declarator.Initializer, undef)
			}
		}
		for _, t := range cur.ExceptionTypes {
			r.typeID(t)
		}
		if cur.BitField != nil {
			r.expr(cur.BitField)
		}
		if cur.Initializer != nil {
			r.initializer(cur.Initializer, ti)
		}
	}
}

func (r *Resolver) declareTypedef(name ast.NameNode, ti symtab.TypeInfo) symtab.DeclID {
	simple := ast.SimpleName(name)
	id := r.table.NewDeclaration(simple, symtab.Builtin(symtab.KindType))
	d := r.table.Decl(id)
	d.Aliased = ti
	d.Origin = name
	if err := r.table.AddTemplateDeclaration(id); err != nil {
		// a typedef may be repeated with the same type
		if prev := r.redeclared(simple, func(p *symtab.Declaration) bool {
			return p.IsTypedef() && r.table.Canonical(p.Aliased).Equal(r.table.Canonical(ti))
		}); prev != symtab.NoDecl {
			r.bind(name, prev, roleDeclaration)
			return prev
		}
		r.fail(name, err)
		return symtab.NoDecl
	}
	r.bind(name, id, roleDeclaration)
	return id
}

// redeclared finds a declaration named name in the declaring scope that
// matches
func (r *Resolver) redeclared(name string, match func(*symtab.Declaration) bool) symtab.DeclID {
	for _, id := range r.table.Decl(r.declScope()).Members(name) {
		if match(r.table.Decl(id)) {
			return id
		}
	}
	return symtab.NoDecl
}

func (r *Resolver) declareFunction(flags *ast.Specifiers, name ast.NameNode, ret symtab.TypeInfo, fd *ast.Declarator, definition bool) symtab.DeclID {
	params := r.parameters(fd)
	types := paramTypes(params)
	var cv symtab.CV
	if fd.Const {
		cv |= symtab.CVConst
	}
	if fd.Volatile {
		cv |= symtab.CVVolatile
	}
	how := roleDeclaration
	if definition {
		how = roleDefinition
	}

	scope, last, err := r.qualifier(name)
	if err != nil {
		r.fail(name, nil)
		return symtab.NoDecl
	}
	r.templateArguments(last)
	simple := ast.SimpleName(last)

	var id symtab.DeclID
	switch {
	case scope != symtab.NoDecl:
		// out-of-line definition of a member or namespace function
		id, err = r.table.LookupMethodForDefinition(scope, simple, types, cv)
		if err != nil || id == symtab.NoDecl {
			r.fail(name, err, r.candidates(scope, simple)...)
			return symtab.NoDecl
		}
	case flags != nil && flags.Friend:
		if found, err := r.table.LookupForFriendship(simple); err == nil && found != symtab.NoDecl && r.table.Decl(found).IsFunction() {
			id = found
		}
	default:
		id, _ = r.table.LookupMethodForDefinition(r.declScope(), simple, types, cv)
	}

	if id == symtab.NoDecl {
		id = r.table.NewDeclaration(simple, symtab.Builtin(symtab.KindFunction))
		d := r.table.Decl(id)
		d.Params = types
		d.Return = ret
		d.Origin = name
		if fd.VarArgs {
			d.Flags |= symtab.FlagVarArgs
		}
		if cv.Const() {
			d.Flags |= symtab.FlagConst
		}
		if cv.Volatile() {
			d.Flags |= symtab.FlagVolatile
		}
		if flags != nil {
			if flags.Storage == ast.StorageStatic {
				d.Flags |= symtab.FlagStatic
			}
			if flags.Explicit {
				d.Flags |= symtab.FlagExplicit
			}
			if flags.Friend {
				d.Flags |= symtab.FlagFriend
			}
		}
		if n, ok := last.(*ast.Name); ok && n.Form == ast.NameConversion {
			d.Flags |= symtab.FlagConversion
			d.Return = r.typeID(n.TypeID)
		}
		if err := r.table.AddTemplateDeclaration(id); err != nil {
			r.fail(name, err)
			return symtab.NoDecl
		}
	}

	d := r.table.Decl(id)
	if definition {
		d.Flags |= symtab.FlagDefined
		d.Origin = name
		r.params[fd] = params
	} else {
		r.prototypeParameters(params)
	}
	r.bind(name, id, how)
	r.bindTemplateName(last)
	return id
}

// prototypeParameters binds the parameter names of a declaration without
// body. They belong to no scope.
func (r *Resolver) prototypeParameters(params []param) {
	for _, p := range params {
		if p.name == nil {
			continue
		}
		id := r.table.NewDeclaration(ast.SimpleName(p.name), p.ti)
		r.table.Decl(id).Flags |= symtab.FlagObject
		r.table.Decl(id).Origin = p.name
		r.bind(p.name, id, roleDeclaration)
	}
}

func (r *Resolver) declareObject(flags *ast.Specifiers, name ast.NameNode, ti symtab.TypeInfo, dt *ast.Declarator) symtab.DeclID {
	scope, last, err := r.qualifier(name)
	if err != nil {
		r.fail(name, nil)
		return symtab.NoDecl
	}
	simple := ast.SimpleName(last)
	if scope != symtab.NoDecl {
		// definition of a static data member or namespace variable
		id, err := r.table.LookupMemberForDefinition(scope, simple)
		r.settle(name, id, err, roleDefinition)
		return id
	}

	static := flags != nil && flags.Storage == ast.StorageStatic
	how := roleDefinition
	switch {
	case flags != nil && flags.Storage == ast.StorageExtern && dt.Initializer == nil:
		how = roleDeclaration
	case static && r.inClass():
		how = roleDeclaration
	}

	id := r.table.NewDeclaration(simple, ti)
	d := r.table.Decl(id)
	d.Flags |= symtab.FlagObject
	if static {
		d.Flags |= symtab.FlagStatic
	}
	d.Origin = name
	if err := r.table.AddTemplateDeclaration(id); err != nil {
		if prev := r.redeclared(simple, func(p *symtab.Declaration) bool {
			return p.IsObject() && r.table.Canonical(p.Type).Equal(r.table.Canonical(ti))
		}); prev != symtab.NoDecl {
			r.bind(name, prev, how)
			return prev
		}
		r.fail(name, err)
		return symtab.NoDecl
	}
	r.bind(name, id, how)
	return id
}

// classSpecifier declares and completes a class. Member function bodies
// are bound once the outermost enclosing class is complete.
func (r *Resolver) classSpecifier(s *ast.CompositeTypeSpecifier) symtab.DeclID {
	kind := compositeKind(s.Key)
	id := r.declareClass(s.Name, kind)
	if id == symtab.NoDecl {
		return symtab.NoDecl
	}
	d := r.table.Decl(id)
	d.Flags = d.Flags&^symtab.FlagForward | symtab.FlagDefined
	d.Origin = s

	r.table.Push(id)
	for _, b := range s.Bases {
		r.baseSpecifier(id, b)
	}
	r.deferred = append(r.deferred, nil)
	r.declarations(s.Members)
	r.table.Pop()

	n := len(r.deferred)
	bodies := r.deferred[n-1]
	r.deferred = r.deferred[:n-1]
	if n > 1 {
		r.deferred[n-2] = append(r.deferred[n-2], bodies...)
		return id
	}
	for _, b := range bodies {
		r.functionBody(b.fn, b.def)
	}
	return id
}

// declareClass finds or creates the class a class specifier defines
func (r *Resolver) declareClass(name ast.NameNode, kind symtab.Kind) symtab.DeclID {
	simple := ""
	if name != nil {
		simple = ast.SimpleName(name)
	}
	if simple == "" {
		id := r.table.NewDeclaration("", symtab.Builtin(kind))
		if err := r.table.AddTemplateDeclaration(id); err != nil {
			r.log.Debug("anonymous class", "error", err)
		}
		return id
	}

	r.remember(name)
	scope, last, err := r.qualifier(name)
	if err != nil {
		r.fail(name, nil)
		return symtab.NoDecl
	}
	r.templateArguments(last)
	if scope != symtab.NoDecl {
		id, err := r.table.LookupMemberForDefinition(scope, simple)
		if err == nil && id != symtab.NoDecl && !r.table.Decl(id).IsTypeName() {
			id = symtab.NoDecl
		}
		r.settle(name, id, err, roleDefinition)
		return id
	}
	if _, ok := last.(*ast.TemplateID); ok {
		// an explicit specialization is a separate class that ordinary
		// lookup never finds
		id := r.table.NewDeclaration(simple, symtab.Builtin(kind))
		r.bind(name, id, roleDefinition)
		r.bindTemplateName(last)
		return id
	}

	id := r.ownClass(simple, kind)
	if id == symtab.NoDecl || !r.table.Decl(id).Has(symtab.FlagForward) {
		id = r.table.NewDeclaration(simple, symtab.Builtin(kind))
		if err := r.table.AddTemplateDeclaration(id); err != nil {
			r.fail(name, err)
			return id
		}
	}
	r.bind(name, id, roleDefinition)
	return id
}

// ownClass finds a class or enumeration declared in the declaring scope
func (r *Resolver) ownClass(name string, kind symtab.Kind) symtab.DeclID {
	data := &symtab.LookupData{
		Name:                  name,
		Lower:                 symtab.KindClass,
		Upper:                 symtab.KindUnion,
		Qualified:             true,
		IgnoreUsingDirectives: true,
		OwnScopeOnly:          true,
	}
	if kind == symtab.KindEnumeration {
		data.Lower, data.Upper = symtab.KindEnumeration, symtab.KindEnumeration
	}
	id, err := r.table.Resolve(data, r.declScope())
	if err != nil {
		return symtab.NoDecl
	}
	return id
}

func (r *Resolver) baseSpecifier(class symtab.DeclID, b *ast.BaseSpecifier) {
	base := r.resolveName(b.Name, lookupScope, roleReference)
	bd := r.table.Decl(base)
	if bd == nil {
		return
	}
	if !bd.Type.Kind.IsClass() {
		r.fail(b.Name, &symtab.Error{Code: symtab.CodeBadTypeInfo, Name: b.Name.String()})
		return
	}
	if err := r.table.AddParent(class, base, b.Virtual, access(b.Visibility)); err != nil {
		r.fail(b.Name, err)
	}
}

// elaborated binds `struct S` or `enum E`. A specifier that declares
// nothing else introduces the name in the current scope; otherwise a
// missing class is forward declared.
func (r *Resolver) elaborated(s *ast.ElaboratedTypeSpecifier, declaresOnly bool) symtab.DeclID {
	kind := elaboratedKind(s.Elaborated)
	if s.Name == nil {
		return symtab.NoDecl
	}
	if _, ok := s.Name.(*ast.QualifiedName); ok {
		return r.resolveName(s.Name, lookupType, roleReference)
	}
	r.remember(s.Name)
	simple := ast.SimpleName(s.Name)

	var id symtab.DeclID
	if declaresOnly {
		id = r.ownClass(simple, kind)
	} else {
		var err error
		id, err = r.table.ElaboratedLookup(kind, simple)
		if err != nil {
			r.fail(s.Name, err)
			return symtab.NoDecl
		}
	}
	if id != symtab.NoDecl {
		r.bind(s.Name, id, roleReference)
		return id
	}

	id = r.table.NewDeclaration(simple, symtab.Builtin(kind))
	r.table.Decl(id).Flags |= symtab.FlagForward
	r.table.Decl(id).Origin = s
	if err := r.table.AddTemplateDeclaration(id); err != nil {
		r.fail(s.Name, err)
		return symtab.NoDecl
	}
	r.bind(s.Name, id, roleDeclaration)
	return id
}

// enumeration declares an enumeration and its enumerators, which are
// visible in the enclosing scope
func (r *Resolver) enumeration(s *ast.EnumerationSpecifier) symtab.DeclID {
	var id symtab.DeclID
	if s.Name != nil && ast.SimpleName(s.Name) != "" {
		r.remember(s.Name)
		id = r.declareClass(s.Name, symtab.KindEnumeration)
	} else {
		id = r.table.NewDeclaration("", symtab.Builtin(symtab.KindEnumeration))
		if err := r.table.AddTemplateDeclaration(id); err != nil {
			r.log.Debug("anonymous enumeration", "error", err)
		}
	}
	if id == symtab.NoDecl {
		return id
	}
	r.table.Decl(id).Flags |= symtab.FlagDefined
	r.table.Decl(id).Origin = s

	for _, e := range s.Enumerators {
		if e.Value != nil {
			r.expr(e.Value)
		}
		if e.Name == nil {
			continue
		}
		r.remember(e.Name)
		eid := r.table.NewDeclaration(e.Name.Value, symtab.Named(symtab.KindEnumerator, id))
		r.table.Decl(eid).Origin = e.Name
		if err := r.table.AddTemplateDeclaration(eid); err != nil {
			r.fail(e.Name, err)
			continue
		}
		r.bind(e.Name, eid, roleDefinition)
	}
	return id
}

func (r *Resolver) functionDefinition(d *ast.FunctionDefinition) {
	var flags *ast.Specifiers
	if d.Specifier != nil {
		flags = d.Specifier.Flags()
	}
	base := r.specType(d.Specifier, true)
	if d.Declarator == nil {
		return
	}
	id := r.declarator(flags, base, d.Declarator, true)
	if id == symtab.NoDecl || !r.table.Decl(id).IsFunction() {
		// still bind what the body uses
		r.block(func() { r.body(d) })
		return
	}
	if n := len(r.deferred); n > 0 {
		r.deferred[n-1] = append(r.deferred[n-1], deferredBody{fn: id, def: d})
		return
	}
	r.functionBody(id, d)
}

// functionBody binds a function body inside the scope of fn, wherever the
// binder currently is
func (r *Resolver) functionBody(fn symtab.DeclID, d *ast.FunctionDefinition) {
	saved := r.table.SetStack(r.table.ScopeChain(fn))
	defer r.table.SetStack(saved[1:])

	if fd := d.Declarator.FunctionDeclarator(); fd != nil {
		for _, p := range r.params[fd] {
			if p.name == nil {
				continue
			}
			r.remember(p.name)
			id := r.table.NewDeclaration(ast.SimpleName(p.name), p.ti)
			r.table.Decl(id).Flags |= symtab.FlagObject
			r.table.Decl(id).Origin = p.name
			if err := r.table.AddDeclaration(id); err != nil {
				r.fail(p.name, err)
				continue
			}
			r.bind(p.name, id, roleDefinition)
		}
	}
	r.body(d)
}

// body binds member initializers, statements and handlers of d in the
// current scope
func (r *Resolver) body(d *ast.FunctionDefinition) {
	for _, m := range d.MemberInits {
		for _, a := range m.Arguments {
			r.expr(a)
		}
		r.resolveName(m.Member, lookupAny, roleReference)
	}
	if d.Body != nil {
		r.statements(d.Body.Statements)
	}
	for _, h := range d.CatchHandler {
		r.catchHandler(h)
	}
}

func (r *Resolver) namespaceDefinition(d *ast.NamespaceDefinition) {
	simple := ""
	if d.Name != nil {
		simple = d.Name.Value
		r.remember(d.Name)
	}
	// namespaces reopen
	data := &symtab.LookupData{
		Name:                  simple,
		Lower:                 symtab.KindNamespace,
		Qualified:             true,
		IgnoreUsingDirectives: true,
		OwnScopeOnly:          true,
	}
	id, err := r.table.Resolve(data, r.table.Current())
	if err != nil || id == symtab.NoDecl {
		id = r.table.NewDeclaration(simple, symtab.Builtin(symtab.KindNamespace))
		r.table.Decl(id).Origin = d
		if err := r.table.AddDeclaration(id); err != nil && d.Name != nil {
			r.fail(d.Name, err)
		}
		if simple == "" {
			if err := r.table.AddUsingDirective(id); err != nil {
				r.log.Debug("unnamed namespace", "error", err)
			}
		}
	}
	if d.Name != nil && simple != "" {
		r.bind(d.Name, id, roleDefinition)
	}
	r.table.Push(id)
	r.declarations(d.Declarations)
	r.table.Pop()
}

func (r *Resolver) namespaceAlias(d *ast.NamespaceAlias) {
	target := r.resolveName(d.Target, lookupNamespace, roleReference)
	if d.Alias == nil || target == symtab.NoDecl {
		return
	}
	r.remember(d.Alias)
	if err := r.table.AddAlias(d.Alias.Value, target); err != nil {
		r.fail(d.Alias, err)
		return
	}
	r.bind(d.Alias, target, roleDeclaration)
}

func (r *Resolver) usingDirective(d *ast.UsingDirective) {
	ns := r.resolveName(d.Name, lookupNamespace, roleReference)
	if ns == symtab.NoDecl {
		return
	}
	if err := r.table.AddUsingDirective(ns); err != nil {
		r.fail(d.Name, err)
	}
}

func (r *Resolver) usingDeclaration(d *ast.UsingDeclaration) {
	if d.Name == nil {
		return
	}
	r.remember(d.Name)
	scope, last, err := r.qualifier(d.Name)
	if err != nil || scope == symtab.NoDecl {
		r.fail(d.Name, nil)
		return
	}
	added, err := r.table.AddUsingDeclaration(ast.SimpleName(last), scope)
	if err != nil || len(added) == 0 {
		r.fail(d.Name, err)
		return
	}
	r.bind(d.Name, added[0], roleReference)
}

// templateDeclaration binds the template parameters in a scope of their
// own; the templated entity is registered in the enclosing scope
func (r *Resolver) templateDeclaration(d *ast.TemplateDeclaration) {
	tmpl := r.table.NewDeclaration("", symtab.Builtin(symtab.KindTemplate))
	r.table.Push(tmpl)
	defer r.table.Pop()
	for _, p := range d.Parameters {
		r.templateParameter(p)
	}
	if d.Declaration != nil {
		r.declaration(d.Declaration)
	}
}

func (r *Resolver) templateParameter(p ast.TemplateParameter) {
	declareType := func(name *ast.Name) {
		if name == nil || name.IsEmpty() {
			return
		}
		r.remember(name)
		id := r.table.NewDeclaration(name.Value, symtab.Builtin(symtab.KindType))
		r.table.Decl(id).Origin = name
		if err := r.table.AddDeclaration(id); err != nil {
			r.fail(name, err)
			return
		}
		r.bind(name, id, roleDefinition)
	}
	switch p := p.(type) {
	case *ast.SimpleTypeTemplateParameter:
		if p.Default != nil {
			r.typeID(p.Default)
		}
		declareType(p.Name)
	case *ast.TemplatedTypeTemplateParameter:
		inner := r.table.NewDeclaration("", symtab.Builtin(symtab.KindTemplate))
		r.table.Push(inner)
		for _, ip := range p.Parameters {
			r.templateParameter(ip)
		}
		r.table.Pop()
		if p.Default != nil {
			r.resolveName(p.Default, lookupType, roleReference)
		}
		declareType(p.Name)
	case *ast.ParameterDeclaration:
		base := r.specType(p.Specifier, true)
		ti := r.declaratorType(base, p.Declarator)
		if p.Declarator == nil {
			return
		}
		if name := p.Declarator.DeclaredName(); name != nil {
			r.remember(name)
			id := r.table.NewDeclaration(ast.SimpleName(name), ti)
			r.table.Decl(id).Flags |= symtab.FlagObject
			r.table.Decl(id).Origin = name
			if err := r.table.AddDeclaration(id); err != nil {
				r.fail(name, err)
			} else {
				r.bind(name, id, roleDefinition)
			}
		}
		r.declaratorExpressions(p.Declarator, ti)
	}
}
