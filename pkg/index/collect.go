package index

import (
	"slices"

	"cxxscope/pkg/ast"
	"cxxscope/pkg/semantic"
	"cxxscope/pkg/symtab"
	"cxxscope/pkg/utils"
)

type declCollector struct {
	ast.BaseCPPVisitor
	r    *semantic.Resolver
	file string
	out  []Entry
}

func (c *declCollector) VisitName(n ast.NameNode) ast.Directive {
	b, ok := n.Binding().(*semantic.Binding)
	if !ok {
		return ast.Continue
	}
	if n.Range().File != "" && n.Range().File != c.file {
		return ast.Continue
	}
	if local(c.r.Table(), b.Declaration()) || !slices.Contains(c.r.Declarations(b), n) {
		return ast.Continue
	}
	rng := n.LastName().Range()
	c.out = append(c.out, Entry{
		File:          c.file,
		Name:          utils.RemoveTemplateParams(b.BindingName()),
		QualifiedName: b.QualifiedName(),
		Kind:          b.EntityKind(),
		Offset:        rng.Offset(),
		Length:        rng.Length(),
		Line:          rng.Start.Line,
		Column:        rng.Start.Column,
		Definition:    slices.Contains(c.r.Definitions(b), n),
	})
	// segments of a declared qualified name are references
	return ast.Skip
}

// Collect returns the declarations and definitions the names of tu
// introduce in its root file. Entities local to function bodies and
// parameters are left out.
func Collect(tu *ast.TranslationUnit) []Entry {
	r := semantic.Of(tu)
	if r == nil {
		return nil
	}
	r.ResolveAll()
	c := &declCollector{r: r, file: tu.FilePath}
	ast.Walk(tu, c, ast.VisitOptions{Names: true})
	return c.out
}

// local reports whether d lives in a function, a block or a parameter list
func local(tab *symtab.Table, d *symtab.Declaration) bool {
	if d.Name == "" || d.IsObject() && d.Scope == symtab.NoDecl {
		return true
	}
	for s := tab.Decl(d.Scope); s != nil; s = tab.Decl(s.Scope) {
		switch s.Type.Kind {
		case symtab.KindFunction, symtab.KindBlock:
			return true
		}
	}
	return false
}
