package symtab

import (
	"slices"
	"strings"
)

// LookupData is one name lookup request. Found accumulates the
// declarations seen; it is cleared once a single winner is chosen and
// left populated for an overload set that still needs arguments.
type LookupData struct {
	Name string
	// Lower and Upper bound the accepted entity kinds. KindUndef as Lower
	// accepts everything; KindUndef as Upper means Upper equals Lower.
	Lower Kind
	Upper Kind

	Qualified             bool
	IgnoreUsingDirectives bool
	// OwnScopeOnly skips base classes, used when matching definitions
	OwnScopeOnly bool
	// FollowTypedefs accepts a typedef whose target is in range and
	// reports the target instead
	FollowTypedefs bool
	// Prefix matches every name starting with Name and collects all scopes
	Prefix bool

	// Params are the argument types of a call; HasParams tells an empty
	// argument list from no information
	Params    []TypeInfo
	HasParams bool
	// ObjectCV qualifies the implicit object argument of a member call
	ObjectCV  CV
	HasObject bool

	// StopAt ends an unqualified lookup after searching that scope
	StopAt DeclID

	Found []DeclID

	visited      map[DeclID]bool
	inheritance  map[DeclID]bool
	virtualBases map[DeclID]bool
}

func (data *LookupData) bounds() (Kind, Kind, error) {
	lower, upper := data.Lower, data.Upper
	if upper == KindUndef {
		upper = lower
	}
	if lower > upper || lower < KindUndef || upper > KindTemplate {
		return 0, 0, newError(CodeBadTypeInfo, data.Name)
	}
	return lower, upper, nil
}

func (data *LookupData) addFound(ids ...DeclID) {
	for _, id := range ids {
		if !slices.Contains(data.Found, id) {
			data.Found = append(data.Found, id)
		}
	}
}

// accept applies the kind filter to id and returns the declaration to
// report for it
func (t *Table) accept(data *LookupData, id DeclID) (DeclID, bool) {
	if data.Lower == KindUndef {
		return id, true
	}
	lower, upper, _ := data.bounds()
	d := t.decls[id]
	if d.IsObject() {
		return NoDecl, false
	}
	if k := d.Type.Kind; k >= lower && k <= upper {
		return id, true
	}
	if data.FollowTypedefs && d.IsTypedef() {
		target := t.Canonical(d.Aliased)
		if target.Named != NoDecl && len(target.PtrOps) == 0 && target.Kind >= lower && target.Kind <= upper {
			return target.Named, true
		}
	}
	return NoDecl, false
}

// lookupInContained searches the members of scope itself
func (t *Table) lookupInContained(data *LookupData, scope DeclID) []DeclID {
	s := t.decls[scope]
	var ids []DeclID
	if data.Prefix {
		for _, name := range s.order {
			if name != "" && strings.HasPrefix(name, data.Name) {
				ids = append(ids, s.members[name]...)
			}
		}
	} else {
		ids = s.members[data.Name]
	}
	var out []DeclID
	for _, id := range ids {
		if got, ok := t.accept(data, id); ok && !slices.Contains(out, got) {
			out = append(out, got)
		}
	}
	return out
}

// lookup runs the search from scope outwards: the scope's own members,
// then namespaces nominated by using-directives, then base classes, then
// the containing scope
func (t *Table) lookup(data *LookupData, scope DeclID) error {
	if _, _, err := data.bounds(); err != nil {
		return err
	}
	if t.Decl(scope) == nil {
		return nil
	}
	if data.visited == nil {
		data.visited = make(map[DeclID]bool)
	}
	// namespaces nominated by using-directives, keyed by the scope at
	// which their members become visible
	pending := make(map[DeclID][]DeclID)

	for ; scope != NoDecl; scope = t.decls[scope].Scope {
		found := t.lookupInContained(data, scope)
		if !data.IgnoreUsingDirectives {
			if data.Qualified {
				if len(found) == 0 || data.Prefix {
					found = append(found, t.lookupInNominated(data, scope)...)
				}
			} else {
				t.queueDirectives(data, scope, scope, pending)
				found = append(found, t.drainDirectives(data, scope, pending)...)
			}
		}
		data.addFound(found...)
		if len(found) > 0 && !data.Prefix {
			return nil
		}
		if scope == data.StopAt {
			return nil
		}
		if !data.OwnScopeOnly && t.decls[scope].Type.Kind.IsClass() {
			inherited, err := t.lookupInParents(data, scope)
			if err != nil && !data.Prefix {
				return err
			}
			data.addFound(inherited...)
			if len(inherited) > 0 && !data.Prefix {
				return nil
			}
		}
		if data.Qualified {
			return nil
		}
	}
	return nil
}

// lookupInNominated implements qualified lookup through using-directives:
// a nominated namespace is only followed further when it does not
// declare the name itself
func (t *Table) lookupInNominated(data *LookupData, scope DeclID) []DeclID {
	var found []DeclID
	seen := map[DeclID]bool{scope: true}
	queue := slices.Clone(t.decls[scope].Usings)
	for len(queue) > 0 {
		ns := queue[0]
		queue = queue[1:]
		if seen[ns] {
			continue
		}
		seen[ns] = true
		if hits := t.lookupInContained(data, ns); len(hits) > 0 {
			found = append(found, hits...)
			if !data.Prefix {
				continue
			}
		}
		queue = append(queue, t.decls[ns].Usings...)
	}
	return found
}

// queueDirectives defers the namespaces nominated in host until the
// search reaches the nearest scope enclosing both the directive and the
// nominated namespace
func (t *Table) queueDirectives(data *LookupData, host, current DeclID, pending map[DeclID][]DeclID) {
	for _, ns := range t.decls[host].Usings {
		if data.visited[ns] {
			continue
		}
		data.visited[ns] = true
		at := t.commonScope(t.commonScope(host, ns), current)
		pending[at] = append(pending[at], ns)
	}
}

// drainDirectives searches the namespaces whose members appear in scope,
// following their own using-directives transitively
func (t *Table) drainDirectives(data *LookupData, scope DeclID, pending map[DeclID][]DeclID) []DeclID {
	var found []DeclID
	for len(pending[scope]) > 0 {
		ns := pending[scope][0]
		pending[scope] = pending[scope][1:]
		found = append(found, t.lookupInContained(data, ns)...)
		t.queueDirectives(data, ns, scope, pending)
	}
	delete(pending, scope)
	return found
}

// lookupInParents searches the bases of class depth first. Each virtual
// base is searched once; a name reached through distinct paths must be
// the same static member, enumerator or type.
func (t *Table) lookupInParents(data *LookupData, class DeclID) ([]DeclID, error) {
	if data.inheritance == nil {
		data.inheritance = make(map[DeclID]bool)
	}
	if data.virtualBases == nil {
		data.virtualBases = make(map[DeclID]bool)
	}
	if data.inheritance[class] {
		return nil, newError(CodeCircularInheritance, t.decls[class].Name, class)
	}
	data.inheritance[class] = true
	defer delete(data.inheritance, class)

	var result []DeclID
	for _, p := range t.decls[class].Parents {
		if t.Decl(p.Base) == nil {
			continue
		}
		if data.inheritance[p.Base] {
			return nil, newError(CodeCircularInheritance, t.decls[p.Base].Name, class, p.Base)
		}
		if p.Virtual {
			if data.virtualBases[p.Base] {
				continue
			}
			data.virtualBases[p.Base] = true
		}
		found := t.lookupInContained(data, p.Base)
		if len(found) == 0 || data.Prefix {
			inherited, err := t.lookupInParents(data, p.Base)
			if err != nil {
				return nil, err
			}
			found = append(found, inherited...)
		}
		if len(found) == 0 {
			continue
		}
		if result == nil || data.Prefix {
			result = append(result, found...)
			continue
		}
		if !t.sameSharedMembers(result, found) {
			return nil, newError(CodeAmbiguous, data.Name, append(slices.Clone(result), found...)...)
		}
	}
	return result, nil
}

// sameSharedMembers reports whether two base class paths reached the same
// declarations and every one of them is shared by all subobjects
func (t *Table) sameSharedMembers(a, b []DeclID) bool {
	if len(a) != len(b) {
		return false
	}
	for _, id := range b {
		if !slices.Contains(a, id) {
			return false
		}
		d := t.decls[id]
		shared := d.IsStatic() || d.Type.Kind == KindEnumerator || d.IsTypeName() || d.IsTypedef()
		if !shared {
			return false
		}
	}
	return true
}

// Resolve runs data from scope and collapses the result with
// ResolveAmbiguities
func (t *Table) Resolve(data *LookupData, scope DeclID) (DeclID, error) {
	if err := t.lookup(data, scope); err != nil {
		return NoDecl, err
	}
	return t.ResolveAmbiguities(data)
}

// Lookup is unqualified lookup of name from the current scope
func (t *Table) Lookup(name string) (DeclID, error) {
	return t.Resolve(&LookupData{Name: name}, t.Current())
}

// LookupType is unqualified lookup restricted to type names
func (t *Table) LookupType(name string) (DeclID, error) {
	return t.Resolve(&LookupData{Name: name, Lower: KindType, Upper: KindEnumeration}, t.Current())
}

// QualifiedLookup finds name as a member of scope, as in `scope::name`
func (t *Table) QualifiedLookup(scope DeclID, name string) (DeclID, error) {
	return t.Resolve(&LookupData{Name: name, Qualified: true}, scope)
}

// ElaboratedLookup finds a class (struct, union) or enumeration named by
// an elaborated type specifier
func (t *Table) ElaboratedLookup(kind Kind, name string) (DeclID, error) {
	data := &LookupData{Name: name}
	switch {
	case kind.IsClass():
		data.Lower, data.Upper = KindClass, KindUnion
	case kind == KindEnumeration:
		data.Lower, data.Upper = KindEnumeration, KindEnumeration
	default:
		return NoDecl, newError(CodeBadTypeInfo, name)
	}
	return t.Resolve(data, t.Current())
}

// MemberFunctionLookup resolves a call of member name of class with the
// given argument types on an object qualified by objectCV
func (t *Table) MemberFunctionLookup(class DeclID, name string, args []TypeInfo, objectCV CV) (DeclID, error) {
	data := &LookupData{
		Name:      name,
		Qualified: true,
		Params:    args,
		HasParams: true,
		ObjectCV:  objectCV,
		HasObject: true,
	}
	return t.Resolve(data, class)
}

// QualifiedFunctionLookup resolves a call of scope::name
func (t *Table) QualifiedFunctionLookup(scope DeclID, name string, args []TypeInfo) (DeclID, error) {
	data := &LookupData{Name: name, Qualified: true, Params: args, HasParams: true}
	return t.Resolve(data, scope)
}

// UnqualifiedFunctionLookup resolves a call of name from the current
// scope. When ordinary lookup finds no class member the namespaces
// associated with the argument types are searched as well.
func (t *Table) UnqualifiedFunctionLookup(name string, args []TypeInfo) (DeclID, error) {
	data := &LookupData{Name: name, Params: args, HasParams: true}
	if err := t.lookup(data, t.Current()); err != nil {
		return NoDecl, err
	}
	if t.foundClassMember(data.Found) {
		// members called from a member function body take its this
		if fn := t.enclosingMethod(); fn != nil {
			data.HasObject = true
			data.ObjectCV = fn.ObjectCV()
		}
	} else {
		classes, namespaces := t.AssociatedScopes(args)
		probe := &LookupData{Name: name, Qualified: true}
		for _, ns := range namespaces {
			data.addFound(t.lookupInContained(probe, ns)...)
		}
		// friend functions declared in an associated class are visible here
		for _, class := range classes {
			for _, id := range t.lookupInContained(probe, class) {
				if d := t.decls[id]; d.IsFunction() && d.Has(FlagFriend) {
					data.addFound(id)
				}
			}
		}
	}
	return t.ResolveAmbiguities(data)
}

// enclosingMethod returns the innermost function around the current scope
// when it has an implicit object, nil otherwise
func (t *Table) enclosingMethod() *Declaration {
	for id := t.Current(); id != NoDecl; id = t.decls[id].Scope {
		if d := t.decls[id]; d.IsFunction() {
			if len(d.members[ThisName]) == 0 {
				return nil
			}
			return d
		}
	}
	return nil
}

func (t *Table) foundClassMember(found []DeclID) bool {
	for _, id := range found {
		if s := t.Decl(t.decls[id].Scope); s != nil && s.Type.Kind.IsClass() {
			return true
		}
	}
	return false
}

// LookupNestedNameSpecifier finds the namespace or class named by one
// qualifier segment. With in set to NoDecl the search is unqualified from
// the current scope. Typedefs of classes are followed.
func (t *Table) LookupNestedNameSpecifier(name string, in DeclID) (DeclID, error) {
	data := &LookupData{Name: name, Lower: KindNamespace, Upper: KindUnion, FollowTypedefs: true}
	scope := t.Current()
	if in != NoDecl {
		data.Qualified = true
		scope = in
	}
	return t.Resolve(data, scope)
}

// LookupMemberForDefinition finds the declaration of scope::name that an
// out-of-line definition completes. Base classes and using-directives
// are not searched.
func (t *Table) LookupMemberForDefinition(scope DeclID, name string) (DeclID, error) {
	data := &LookupData{Name: name, Qualified: true, IgnoreUsingDirectives: true, OwnScopeOnly: true}
	return t.Resolve(data, scope)
}

// LookupMethodForDefinition finds the function scope::name whose
// parameter list and object qualification match exactly
func (t *Table) LookupMethodForDefinition(scope DeclID, name string, params []TypeInfo, objectCV CV) (DeclID, error) {
	data := &LookupData{Name: name, Qualified: true, IgnoreUsingDirectives: true, OwnScopeOnly: true}
	if err := t.lookup(data, scope); err != nil {
		return NoDecl, err
	}
	for _, id := range data.Found {
		d := t.decls[id]
		if d.IsFunction() && t.sameParams(d.Params, params) && d.ObjectCV() == objectCV {
			data.Found = nil
			return id, nil
		}
	}
	return NoDecl, nil
}

// LookupForFriendship finds name for a friend declaration in the current
// class. The search does not leave the innermost enclosing non-class
// scope.
func (t *Table) LookupForFriendship(name string) (DeclID, error) {
	stop := t.Current()
	for stop != GlobalID && t.decls[stop].Type.Kind.IsClass() {
		stop = t.decls[stop].Scope
	}
	data := &LookupData{Name: name, StopAt: stop}
	return t.Resolve(data, t.Current())
}

// PrefixLookup returns every declaration visible from scope whose name
// starts with prefix, innermost first. A name declared in an inner scope
// hides the same name in outer scopes. With qualified set only scope and
// its bases are searched.
func (t *Table) PrefixLookup(prefix string, scope DeclID, qualified bool) []DeclID {
	data := &LookupData{Name: prefix, Prefix: true, Qualified: qualified}
	if err := t.lookup(data, scope); err != nil {
		t.log.Debug("prefix lookup failed", "prefix", prefix, "error", err)
	}
	firstScope := make(map[string]DeclID)
	var out []DeclID
	for _, id := range data.Found {
		d := t.decls[id]
		if first, ok := firstScope[d.Name]; ok && first != d.Scope {
			continue
		}
		firstScope[d.Name] = d.Scope
		out = append(out, id)
	}
	return out
}

// AssociatedScopes computes the classes and namespaces associated with a
// list of argument types for argument-dependent lookup
func (t *Table) AssociatedScopes(args []TypeInfo) (classes, namespaces []DeclID) {
	seen := make(map[DeclID]bool)
	addNamespace := func(scope DeclID) {
		ns := t.enclosingNamespace(scope)
		if !slices.Contains(namespaces, ns) {
			namespaces = append(namespaces, ns)
		}
	}
	var addClass func(id DeclID)
	addClass = func(id DeclID) {
		if seen[id] {
			return
		}
		seen[id] = true
		d := t.decls[id]
		classes = append(classes, id)
		addNamespace(d.Scope)
		for _, p := range d.Parents {
			if t.Decl(p.Base) != nil {
				addClass(p.Base)
			}
		}
	}
	for _, arg := range args {
		ti := t.Canonical(arg)
		for _, op := range ti.PtrOps {
			if op.Kind == PtrMember && t.Decl(op.Class) != nil {
				addClass(op.Class)
			}
		}
		d := t.Decl(ti.Named)
		if d == nil {
			continue
		}
		switch {
		case d.Type.Kind.IsClass():
			addClass(d.ID)
		case d.Type.Kind == KindEnumeration:
			if s := t.Decl(d.Scope); s != nil && s.Type.Kind.IsClass() {
				addClass(s.ID)
			} else {
				addNamespace(d.Scope)
			}
		}
	}
	return classes, namespaces
}
