// Package symtab is the C++ symbol table: an arena of declarations, a
// caller-owned scope stack and the lookup and overload resolution rules
// that run over them.
package symtab

import (
	"log/slog"
	"slices"
	"strings"

	"cxxscope/pkg/logging"
)

// ThisName is the name of the implicit object pointer of member functions
const ThisName = "this"

// maxTypedefChain bounds typedef resolution in malformed input
const maxTypedefChain = 64

// Table owns the declarations of one translation unit. It is not safe for
// concurrent use.
type Table struct {
	decls []*Declaration
	stack []DeclID
	log   *slog.Logger
}

// New creates a table holding only the global namespace, which is also
// the only open scope
func New(logger *slog.Logger) *Table {
	t := &Table{log: logging.OrDiscard(logger)}
	t.decls = []*Declaration{nil, {ID: GlobalID, Type: Builtin(KindNamespace)}}
	t.stack = []DeclID{GlobalID}
	return t
}

// Decl returns the declaration for id, or nil
func (t *Table) Decl(id DeclID) *Declaration {
	if id <= NoDecl || int(id) >= len(t.decls) {
		return nil
	}
	return t.decls[id]
}

// Len returns the number of allocated declarations, the global namespace
// included
func (t *Table) Len() int { return len(t.decls) - 1 }

// NewDeclaration allocates a declaration that belongs to no scope yet
func (t *Table) NewDeclaration(name string, ti TypeInfo) DeclID {
	id := DeclID(len(t.decls))
	t.decls = append(t.decls, &Declaration{ID: id, Name: name, Type: ti})
	return id
}

// Current returns the innermost open scope
func (t *Table) Current() DeclID { return t.stack[len(t.stack)-1] }

// Depth returns the number of open scopes
func (t *Table) Depth() int { return len(t.stack) }

// Push opens scope. A scope without a containing scope is linked to the
// current one.
func (t *Table) Push(scope DeclID) {
	d := t.Decl(scope)
	if d != nil && d.Scope == NoDecl && scope != GlobalID {
		t.link(d, t.Current())
	}
	t.stack = append(t.stack, scope)
}

// Pop closes the innermost scope. The global namespace is never popped.
func (t *Table) Pop() DeclID {
	top := t.Current()
	if len(t.stack) > 1 {
		t.stack = t.stack[:len(t.stack)-1]
	}
	return top
}

// SetStack replaces the open scopes, innermost last. It is used to
// resume work inside a scope that was closed, such as a deferred member
// function body.
func (t *Table) SetStack(scopes []DeclID) []DeclID {
	saved := t.stack
	t.stack = append([]DeclID{GlobalID}, scopes...)
	return saved
}

// ScopeChain returns scope and its containing scopes up to, but not
// including, the global namespace, outermost first
func (t *Table) ScopeChain(scope DeclID) []DeclID {
	var chain []DeclID
	for id := scope; id != NoDecl && id != GlobalID; id = t.decls[id].Scope {
		chain = append(chain, id)
	}
	slices.Reverse(chain)
	return chain
}

func (t *Table) link(d *Declaration, scope DeclID) {
	d.Scope = scope
	if s := t.Decl(scope); s != nil {
		d.Depth = s.Depth + 1
	}
}

// AddDeclaration registers id in the current scope. A name already
// present is only accepted as a valid overload; otherwise the result is
// ErrInvalidOverload. Non-static member functions receive their implicit
// this pointer.
func (t *Table) AddDeclaration(id DeclID) error {
	scope := t.Current()
	s, d := t.decls[scope], t.Decl(id)
	if d.Scope == NoDecl {
		t.link(d, scope)
	}
	if d.Name != "" {
		for _, prev := range s.members[d.Name] {
			if prev == id {
				return nil
			}
			if !t.validOverload(t.decls[prev], d) {
				t.log.Debug("invalid overload", "name", d.Name, "scope", t.QualifiedName(scope))
				return newError(CodeInvalidOverload, d.Name, prev, id)
			}
		}
	}
	s.addMember(d.Name, id)

	if d.IsFunction() && !d.IsStatic() && s.Type.Kind.IsClass() {
		t.addThis(d, scope)
	}
	return nil
}

// validOverload decides whether next may share a name with prev in one
// scope
func (t *Table) validOverload(prev, next *Declaration) bool {
	// a class or enumeration name is hidden by an object or function
	if prev.IsTypeName() != next.IsTypeName() {
		return true
	}
	if !prev.IsFunction() || !next.IsFunction() {
		return false
	}
	if !t.sameParams(prev.Params, next.Params) {
		return true
	}
	if prev.IsStatic() || next.IsStatic() {
		return false
	}
	return prev.ObjectCV() != next.ObjectCV()
}

// sameParams compares parameter lists, treating (void) as ()
func (t *Table) sameParams(a, b []TypeInfo) bool {
	a, b = normalizeParams(a), normalizeParams(b)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !t.Canonical(a[i]).Equal(t.Canonical(b[i])) {
			return false
		}
	}
	return true
}

func normalizeParams(params []TypeInfo) []TypeInfo {
	if len(params) == 1 && params[0].IsVoid() {
		return nil
	}
	return params
}

// addThis registers the implicit object pointer in fn's own scope,
// qualified like the member function
func (t *Table) addThis(fn *Declaration, class DeclID) {
	if len(fn.members[ThisName]) > 0 {
		return
	}
	ti := Named(t.decls[class].Type.Kind, class)
	ti.CV = fn.ObjectCV()
	ti = ti.With(PtrOp{Kind: PtrPointer, CV: CVConst})
	this := t.NewDeclaration(ThisName, ti)
	t.decls[this].Flags |= FlagObject
	t.link(t.decls[this], fn.ID)
	fn.addMember(ThisName, this)
}

// AddTemplateDeclaration registers id in the scope enclosing the current
// template parameter scope. The declaration keeps the template scope as its
// containing scope so the parameters stay visible inside it.
func (t *Table) AddTemplateDeclaration(id DeclID) error {
	tmpl := t.Current()
	if t.decls[tmpl].Type.Kind != KindTemplate {
		return t.AddDeclaration(id)
	}
	d := t.decls[id]
	if d.Scope == NoDecl {
		t.link(d, tmpl)
	}
	t.Pop()
	defer t.Push(tmpl)
	return t.AddDeclaration(id)
}

// AddAlias makes target visible under name in the current scope, as a
// namespace alias does
func (t *Table) AddAlias(name string, target DeclID) error {
	if t.Decl(target) == nil {
		return newError(CodeBadTypeInfo, name)
	}
	s := t.decls[t.Current()]
	if prev := s.members[name]; len(prev) > 0 {
		if prev[0] != target {
			return newError(CodeInvalidOverload, name, prev[0], target)
		}
		return nil
	}
	s.addMember(name, target)
	return nil
}

// AddParent records base as a base class of class. A base that already
// derives from class is rejected with ErrCircularInheritance.
func (t *Table) AddParent(class, base DeclID, virtual bool, access Access) error {
	if class == base || t.derivesFrom(base, class, map[DeclID]bool{}) {
		return newError(CodeCircularInheritance, t.decls[class].Name, class, base)
	}
	d := t.decls[class]
	d.Parents = append(d.Parents, Parent{Base: base, Virtual: virtual, Access: access})
	return nil
}

// derivesFrom reports whether base is reachable from class through parents
func (t *Table) derivesFrom(class, base DeclID, seen map[DeclID]bool) bool {
	if seen[class] {
		return false
	}
	seen[class] = true
	d := t.Decl(class)
	if d == nil {
		return false
	}
	for _, p := range d.Parents {
		if p.Base == base || t.derivesFrom(p.Base, base, seen) {
			return true
		}
	}
	return false
}

// AddUsingDirective nominates namespace ns in the current scope
func (t *Table) AddUsingDirective(ns DeclID) error {
	target := t.Decl(ns)
	if target == nil || target.Type.Kind != KindNamespace {
		return newError(CodeBadTypeInfo, "using namespace", ns)
	}
	s := t.decls[t.Current()]
	if !slices.Contains(s.Usings, ns) {
		s.Usings = append(s.Usings, ns)
	}
	return nil
}

// AddUsingDeclaration makes the declarations named name in scope from
// visible in the current scope and returns them
func (t *Table) AddUsingDeclaration(name string, from DeclID) ([]DeclID, error) {
	data := &LookupData{Name: name, Qualified: true}
	if err := t.lookup(data, from); err != nil {
		return nil, err
	}
	if len(data.Found) == 0 {
		return nil, nil
	}
	s := t.decls[t.Current()]
	added := make([]DeclID, 0, len(data.Found))
	for _, id := range data.Found {
		d := t.decls[id]
		for _, prev := range s.members[name] {
			if prev != id && !t.validOverload(t.decls[prev], d) {
				return added, newError(CodeInvalidOverload, name, prev, id)
			}
		}
		if !slices.Contains(s.members[name], id) {
			s.addMember(name, id)
		}
		added = append(added, id)
	}
	return added, nil
}

// Canonical replaces typedef types by the types they name
func (t *Table) Canonical(ti TypeInfo) TypeInfo {
	for i := 0; i < maxTypedefChain; i++ {
		if ti.Kind != KindType || ti.Named == NoDecl {
			return ti
		}
		def := t.Decl(ti.Named)
		if def == nil || !def.IsTypedef() {
			return ti
		}
		out := def.Aliased
		out.CV |= ti.CV
		out.PtrOps = append(append([]PtrOp(nil), def.Aliased.PtrOps...), ti.PtrOps...)
		out.HasDefault = ti.HasDefault
		out.Mods |= ti.Mods & ModNullPointer
		ti = out
	}
	return ti
}

// QualifiedName renders the fully qualified name of id
func (t *Table) QualifiedName(id DeclID) string {
	var parts []string
	for cur := id; cur != NoDecl && cur != GlobalID; cur = t.decls[cur].Scope {
		d := t.decls[cur]
		if d.Type.Kind == KindBlock || d.Type.Kind == KindTemplate {
			continue
		}
		parts = append(parts, d.Name)
	}
	slices.Reverse(parts)
	return strings.Join(parts, "::")
}

// TypeString renders ti with user-defined types by qualified name
func (t *Table) TypeString(ti TypeInfo) string {
	return ti.render(t.QualifiedName)
}

// commonScope returns the innermost scope enclosing both a and b
func (t *Table) commonScope(a, b DeclID) DeclID {
	da, db := t.Decl(a), t.Decl(b)
	for da != nil && db != nil && da.ID != db.ID {
		switch {
		case da.Depth > db.Depth:
			da = t.Decl(da.Scope)
		case db.Depth > da.Depth:
			db = t.Decl(db.Scope)
		default:
			da, db = t.Decl(da.Scope), t.Decl(db.Scope)
		}
	}
	if da == nil || db == nil {
		return GlobalID
	}
	return da.ID
}

// enclosingNamespace returns the innermost namespace containing scope,
// scope itself included
func (t *Table) enclosingNamespace(scope DeclID) DeclID {
	for id := scope; id != NoDecl; id = t.decls[id].Scope {
		if t.decls[id].Type.Kind == KindNamespace {
			return id
		}
	}
	return GlobalID
}
