// Package semantic builds the symbol table of a translation unit from its
// syntax tree and binds every name to the declaration it denotes.
package semantic

import (
	"errors"
	"log/slog"

	"cxxscope/pkg/ast"
	"cxxscope/pkg/logging"
	"cxxscope/pkg/symtab"
)

type role int

const (
	roleReference role = iota
	roleDeclaration
	roleDefinition
)

// Resolver binds the names of one translation unit. The binding pass runs
// once, on the first request; later requests read the cached results.
type Resolver struct {
	unit  *ast.TranslationUnit
	table *symtab.Table
	log   *slog.Logger

	done     bool
	bindings map[symtab.DeclID]*Binding
	decls    map[symtab.DeclID][]ast.NameNode
	defs     map[symtab.DeclID][]ast.NameNode
	refs     map[symtab.DeclID][]ast.NameNode
	scopes   map[ast.NameNode]symtab.DeclID
	types    map[ast.Expression]symtab.TypeInfo
	params   map[*ast.Declarator][]param

	// function bodies met inside a class, run once the outermost class
	// is complete
	deferred [][]deferredBody
}

type deferredBody struct {
	fn  symtab.DeclID
	def *ast.FunctionDefinition
}

// Attach installs a new Resolver on tu and returns it
func Attach(tu *ast.TranslationUnit, logger *slog.Logger) *Resolver {
	log := logging.OrDiscard(logger)
	r := &Resolver{
		unit:     tu,
		table:    symtab.New(log),
		log:      log,
		bindings: make(map[symtab.DeclID]*Binding),
		decls:    make(map[symtab.DeclID][]ast.NameNode),
		defs:     make(map[symtab.DeclID][]ast.NameNode),
		refs:     make(map[symtab.DeclID][]ast.NameNode),
		scopes:   make(map[ast.NameNode]symtab.DeclID),
		types:    make(map[ast.Expression]symtab.TypeInfo),
		params:   make(map[*ast.Declarator][]param),
	}
	tu.SetResolver(r)
	return r
}

// Of returns the Resolver attached to tu, or nil
func Of(tu *ast.TranslationUnit) *Resolver {
	if tu == nil {
		return nil
	}
	r, _ := tu.Resolver().(*Resolver)
	return r
}

// ResolveBinding implements ast.BindingResolver
func (r *Resolver) ResolveBinding(name ast.NameNode) ast.Binding {
	r.ResolveAll()
	return name.Binding()
}

// ResolveAll runs the binding pass if it has not run yet
func (r *Resolver) ResolveAll() {
	if r.done {
		return
	}
	r.done = true
	r.declarations(r.unit.Declarations)
	r.log.Debug("resolved translation unit",
		"file", r.unit.FilePath,
		"declarations", r.table.Len())
}

// Table returns the symbol table built by the pass
func (r *Resolver) Table() *symtab.Table {
	r.ResolveAll()
	return r.table
}

// Declarations returns the names that declare the entity of b
func (r *Resolver) Declarations(b *Binding) []ast.NameNode {
	r.ResolveAll()
	return r.decls[b.ID]
}

// Definitions returns the names that define the entity of b
func (r *Resolver) Definitions(b *Binding) []ast.NameNode {
	r.ResolveAll()
	return r.defs[b.ID]
}

// References returns the names that refer to the entity of b without
// declaring it
func (r *Resolver) References(b *Binding) []ast.NameNode {
	r.ResolveAll()
	return r.refs[b.ID]
}

// Binding returns the canonical binding of a declaration
func (r *Resolver) Binding(id symtab.DeclID) *Binding {
	if b, ok := r.bindings[id]; ok {
		return b
	}
	b := &Binding{ID: id, r: r}
	r.bindings[id] = b
	return b
}

// ScopeOf returns the scope that was open when name was resolved, or the
// global namespace for names the pass did not reach
func (r *Resolver) ScopeOf(name ast.NameNode) symtab.DeclID {
	r.ResolveAll()
	if s, ok := r.scopes[name]; ok {
		return s
	}
	return symtab.GlobalID
}

// TypeOf returns the type computed for e
func (r *Resolver) TypeOf(e ast.Expression) symtab.TypeInfo {
	r.ResolveAll()
	return r.types[e]
}

// bind attaches the binding of id to name and records the use
func (r *Resolver) bind(name ast.NameNode, id symtab.DeclID, how role) {
	if name == nil || id == symtab.NoDecl {
		return
	}
	b := r.Binding(id)
	name.SetBinding(b)
	switch how {
	case roleDefinition:
		r.defs[id] = append(r.defs[id], name)
		r.decls[id] = append(r.decls[id], name)
	case roleDeclaration:
		r.decls[id] = append(r.decls[id], name)
	default:
		r.refs[id] = append(r.refs[id], name)
	}
	if q, ok := name.(*ast.QualifiedName); ok {
		if last := q.LastName(); last != name && last.Binding() == nil {
			last.SetBinding(b)
		}
	}
}

// fail attaches a problem binding to name. Symbol table errors are logged
// and degrade to the problem; they never stop the pass.
func (r *Resolver) fail(name ast.NameNode, err error, candidates ...symtab.DeclID) {
	if name == nil {
		return
	}
	p := &ProblemBinding{Name: name.String(), Err: err}
	var symErr *symtab.Error
	if errors.As(err, &symErr) && len(candidates) == 0 {
		candidates = symErr.Candidates
	}
	for _, id := range candidates {
		if r.table.Decl(id) != nil {
			p.Candidates = append(p.Candidates, r.Binding(id))
		}
	}
	if err != nil {
		r.log.Debug("unresolved name", "name", p.Name, "error", err)
	}
	name.SetBinding(p)
	if q, ok := name.(*ast.QualifiedName); ok {
		if last := q.LastName(); last != name && last.Binding() == nil {
			last.SetBinding(p)
		}
	}
}

// settle binds name to the outcome of a lookup
func (r *Resolver) settle(name ast.NameNode, id symtab.DeclID, err error, how role) {
	if err != nil || id == symtab.NoDecl {
		r.fail(name, err)
		return
	}
	r.bind(name, id, how)
}

// remember records the scope a name was resolved in
func (r *Resolver) remember(name ast.NameNode) {
	r.scopes[name] = r.table.Current()
	if q, ok := name.(*ast.QualifiedName); ok {
		for _, seg := range q.Segments {
			r.scopes[seg] = r.table.Current()
		}
	}
}
