package semantic_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cxxscope/pkg/ast"
	"cxxscope/pkg/parser"
	"cxxscope/pkg/semantic"
	"cxxscope/pkg/symtab"
)

func parse(t *testing.T, src string, mode parser.Mode) *ast.TranslationUnit {
	t.Helper()
	p := parser.New(parser.Options{Language: ast.LanguageCPP, Reader: parser.MapFileReader{}, Mode: mode})
	tu, err := p.Parse(context.Background(), "test.cpp", src)
	require.NoError(t, err)
	require.Empty(t, tu.Problems())
	return tu
}

type nameCollector struct {
	ast.BaseCPPVisitor
	names []ast.NameNode
}

func (c *nameCollector) VisitName(n ast.NameNode) ast.Directive {
	c.names = append(c.names, n)
	return ast.Continue
}

// names returns the names spelled text, in source order
func names(tu *ast.TranslationUnit, text string) []ast.NameNode {
	c := &nameCollector{}
	ast.Walk(tu, c, ast.VisitAll())
	var out []ast.NameNode
	for _, n := range c.names {
		if n.String() == text {
			out = append(out, n)
		}
	}
	return out
}

func binding(t *testing.T, n ast.NameNode) *semantic.Binding {
	t.Helper()
	b, ok := n.ResolveBinding().(*semantic.Binding)
	require.Truef(t, ok, "%s resolved to %v", n, n.ResolveBinding())
	return b
}

func problem(t *testing.T, n ast.NameNode) *semantic.ProblemBinding {
	t.Helper()
	p, ok := n.ResolveBinding().(*semantic.ProblemBinding)
	require.Truef(t, ok, "%s resolved to %v", n, n.ResolveBinding())
	return p
}

func TestBindingIsShared(t *testing.T) {
	tu := parse(t, "int x;\nvoid f() { x = 1; x++; }", parser.ModeFull)
	xs := names(tu, "x")
	require.Len(t, xs, 3)

	first := binding(t, xs[0])
	for _, n := range xs[1:] {
		assert.Same(t, first, binding(t, n))
	}
	assert.Same(t, first, binding(t, xs[0]))
	assert.Equal(t, "variable", first.EntityKind())
	assert.Equal(t, "x", first.QualifiedName())
}

func TestLazyResolution(t *testing.T) {
	tu := parse(t, "struct S { int m; };\nS s;", parser.ModeSyntax)
	ss := names(tu, "S")
	require.Len(t, ss, 2)
	assert.Nil(t, ss[1].Binding())

	b := binding(t, ss[1])
	assert.Equal(t, "struct", b.EntityKind())
	assert.Same(t, b, ss[0].Binding())
}

func TestInnerDeclarationHides(t *testing.T) {
	tu := parse(t, `
int v;
void f() {
	float v;
	v = 1.0f;
}
int g() { return v; }`, parser.ModeFull)
	vs := names(tu, "v")
	require.Len(t, vs, 4)

	local := binding(t, vs[1])
	assert.Same(t, local, binding(t, vs[2]))
	assert.Equal(t, symtab.KindFloat, local.Declaration().Type.Kind)
	assert.Same(t, binding(t, vs[0]), binding(t, vs[3]))
}

func TestOverloadedCalls(t *testing.T) {
	tu := parse(t, `
void f(int);
void f(double);
void f(const char*);
void g() {
	f(1);
	f(2.0);
	f("text");
	f('c');
}`, parser.ModeFull)
	fs := names(tu, "f")
	require.Len(t, fs, 7)

	assert.Same(t, binding(t, fs[0]), binding(t, fs[3]))
	assert.Same(t, binding(t, fs[1]), binding(t, fs[4]))
	assert.Same(t, binding(t, fs[2]), binding(t, fs[5]))
	// char promotes to int
	assert.Same(t, binding(t, fs[0]), binding(t, fs[6]))
}

func TestAmbiguousCall(t *testing.T) {
	tu := parse(t, `
void h(int);
void h(long);
void k() { h(1.0); }`, parser.ModeFull)
	hs := names(tu, "h")
	require.Len(t, hs, 3)

	p := problem(t, hs[2])
	assert.ErrorIs(t, p.Err, symtab.ErrAmbiguous)
	assert.Len(t, p.Candidates, 2)
}

func TestNoViableOverload(t *testing.T) {
	tu := parse(t, `
struct A {};
void h(int);
void h(int, int);
void k() { A a; h(a); }`, parser.ModeFull)
	hs := names(tu, "h")
	p := problem(t, hs[len(hs)-1])
	assert.NoError(t, p.Err)
	assert.Equal(t, "no viable overload", p.Reason())
	assert.Len(t, p.Candidates, 2)
}

func TestUndeclaredName(t *testing.T) {
	tu := parse(t, "void f() { missing(1); }", parser.ModeFull)
	p := problem(t, names(tu, "missing")[0])
	assert.Equal(t, "not found", p.Reason())
	assert.Empty(t, p.Candidates)
}

func TestUsingDirective(t *testing.T) {
	tu := parse(t, `
namespace N { int a; }
using namespace N;
int b = a;`, parser.ModeFull)
	as := names(tu, "a")
	require.Len(t, as, 2)
	b := binding(t, as[1])
	assert.Equal(t, "N::a", b.QualifiedName())
	assert.Same(t, binding(t, as[0]), b)
}

func TestNamespaceReopensAndAliases(t *testing.T) {
	tu := parse(t, `
namespace outer { int first; }
namespace outer { int second = first; }
namespace o = outer;
int third = o::second;`, parser.ModeFull)
	firsts := names(tu, "first")
	assert.Same(t, binding(t, firsts[0]), binding(t, firsts[1]))

	seconds := names(tu, "second")
	require.Len(t, seconds, 2)
	assert.Equal(t, "outer::second", binding(t, seconds[1]).QualifiedName())

	outers := names(tu, "outer")
	assert.Same(t, binding(t, outers[0]), binding(t, outers[1]))
	assert.Same(t, binding(t, outers[0]), binding(t, names(tu, "o")[0]))
}

func TestMemberBodiesSeeLaterMembers(t *testing.T) {
	tu := parse(t, `
struct C {
	int f() { return g() + count; }
	int g();
	int count;
};`, parser.ModeFull)
	gs := names(tu, "g")
	require.Len(t, gs, 2)
	assert.Same(t, binding(t, gs[1]), binding(t, gs[0]))
	assert.Equal(t, "C::g", binding(t, gs[0]).QualifiedName())

	counts := names(tu, "count")
	assert.Same(t, binding(t, counts[1]), binding(t, counts[0]))
}

func TestOutOfLineDefinition(t *testing.T) {
	tu := parse(t, `
struct C {
	void m(int);
	void m(double);
	int value;
};
void C::m(int p) { value = p; }`, parser.ModeFull)
	ms := names(tu, "m")
	require.Len(t, ms, 3)
	def := binding(t, ms[2])
	assert.Same(t, binding(t, ms[0]), def)
	assert.True(t, def.Declaration().Has(symtab.FlagDefined))

	values := names(tu, "value")
	assert.Same(t, binding(t, values[0]), binding(t, values[1]))

	ps := names(tu, "p")
	require.Len(t, ps, 2)
	assert.Same(t, binding(t, ps[0]), binding(t, ps[1]))
	assert.Equal(t, "variable", binding(t, ps[0]).EntityKind())
}

func TestDeclarationsDefinitionsReferences(t *testing.T) {
	tu := parse(t, `
int f();
int f() { return 0; }
int y = f();
int z = f();`, parser.ModeFull)
	fs := names(tu, "f")
	require.Len(t, fs, 4)
	r := semantic.Of(tu)
	require.NotNil(t, r)
	b := binding(t, fs[0])

	assert.Equal(t, []ast.NameNode{fs[0], fs[1]}, r.Declarations(b))
	assert.Equal(t, []ast.NameNode{fs[1]}, r.Definitions(b))
	assert.Equal(t, []ast.NameNode{fs[2], fs[3]}, r.References(b))
}

func TestMemberAccess(t *testing.T) {
	tu := parse(t, `
struct P {
	int x;
	int get() const { return this->x; }
	void set(int v);
};
void use(P* p, P& q) {
	p->x = 1;
	q.set(p->get());
}`, parser.ModeFull)
	xs := names(tu, "x")
	require.Len(t, xs, 3)
	for _, n := range xs[1:] {
		assert.Same(t, binding(t, xs[0]), binding(t, n))
	}
	assert.Same(t, binding(t, names(tu, "set")[0]), binding(t, names(tu, "set")[1]))
	assert.Same(t, binding(t, names(tu, "get")[0]), binding(t, names(tu, "get")[1]))
}

func TestConstObjectSelectsConstMember(t *testing.T) {
	tu := parse(t, `
struct B {
	int at() const;
	int at();
};
void use(const B& cb, B& b) {
	cb.at();
	b.at();
}`, parser.ModeFull)
	ats := names(tu, "at")
	require.Len(t, ats, 4)
	assert.Same(t, binding(t, ats[0]), binding(t, ats[2]))
	assert.Same(t, binding(t, ats[1]), binding(t, ats[3]))
}

func TestImplicitObjectSelectsMember(t *testing.T) {
	tu := parse(t, `
struct C {
	void g(int);
	void g(int) const;
	void f() const { g(1); }
	void h() { g(1); }
	void k() const;
};
void C::k() const { g(2); }`, parser.ModeFull)
	gs := names(tu, "g")
	require.Len(t, gs, 5)
	assert.Same(t, binding(t, gs[1]), binding(t, gs[2]), "const member function")
	assert.Same(t, binding(t, gs[0]), binding(t, gs[3]), "non-const member function")
	assert.Same(t, binding(t, gs[1]), binding(t, gs[4]), "out-of-line const member function")
}

func TestCallWithoutArguments(t *testing.T) {
	tu := parse(t, "void h();\nvoid k() { h(); }", parser.ModeFull)
	hs := names(tu, "h")
	require.Len(t, hs, 2)
	assert.Same(t, binding(t, hs[0]), binding(t, hs[1]))
	assert.Equal(t, "function h", binding(t, hs[1]).String())
}

func TestArgumentDependentLookup(t *testing.T) {
	tu := parse(t, `
namespace N {
	struct T {};
	void swap(T&, T&);
}
void f() {
	N::T a, b;
	swap(a, b);
}`, parser.ModeFull)
	swaps := names(tu, "swap")
	require.Len(t, swaps, 2)
	assert.Equal(t, "N::swap", binding(t, swaps[1]).QualifiedName())
}

func TestInheritedMembers(t *testing.T) {
	tu := parse(t, `
struct Base { int shared; void hello(); };
struct Derived : Base { void run() { hello(); shared = 2; } };`, parser.ModeFull)
	assert.Same(t, binding(t, names(tu, "hello")[0]), binding(t, names(tu, "hello")[1]))
	assert.Same(t, binding(t, names(tu, "shared")[0]), binding(t, names(tu, "shared")[1]))
	assert.Same(t, binding(t, names(tu, "Base")[0]), binding(t, names(tu, "Base")[1]))
}

func TestEnumeratorsAndTypedefs(t *testing.T) {
	tu := parse(t, `
enum Color { Red, Green };
typedef Color hue;
hue pick() { return Green; }`, parser.ModeFull)
	greens := names(tu, "Green")
	require.Len(t, greens, 2)
	b := binding(t, greens[1])
	assert.Equal(t, "enumerator", b.EntityKind())
	assert.Equal(t, "Green", b.QualifiedName())

	hues := names(tu, "hue")
	require.Len(t, hues, 2)
	assert.Equal(t, "typedef", binding(t, hues[1]).EntityKind())
	assert.Equal(t, "Color", binding(t, hues[1]).Type())
}

func TestUserDefinedConversionInCall(t *testing.T) {
	tu := parse(t, `
struct Meters { Meters(double); };
void walk(Meters);
void walk(const char*);
void go() { walk(3.5); }`, parser.ModeFull)
	walks := names(tu, "walk")
	require.Len(t, walks, 3)
	assert.Same(t, binding(t, walks[0]), binding(t, walks[2]))
}

func TestTemplateParametersStayLocal(t *testing.T) {
	tu := parse(t, `
template <typename T> struct Box { T item; };
int T;`, parser.ModeFull)
	ts := names(tu, "T")
	require.Len(t, ts, 3)
	param := binding(t, ts[0])
	assert.Same(t, param, binding(t, ts[1]))
	assert.NotSame(t, param, binding(t, ts[2]))
	assert.Equal(t, "Box", binding(t, names(tu, "Box")[0]).QualifiedName())
}

func TestDesignatedInitializer(t *testing.T) {
	p := parser.New(parser.Options{Language: ast.LanguageC, Reader: parser.MapFileReader{}, Mode: parser.ModeFull})
	tu, err := p.Parse(context.Background(), "test.c", `
struct point { int x; int y; };
struct point origin = { .y = 2, .x = 1 };`)
	require.NoError(t, err)
	ys := names(tu, "y")
	require.Len(t, ys, 2)
	assert.Same(t, binding(t, ys[0]), binding(t, ys[1]))
}

func TestScopeAndTypeOf(t *testing.T) {
	tu := parse(t, `
namespace N { struct S { int n; }; }
void f() { N::S s; s.n = 3; }`, parser.ModeFull)
	r := semantic.Of(tu)
	ns := names(tu, "n")
	require.Len(t, ns, 2)
	scope := r.Table().Decl(r.ScopeOf(ns[0]))
	assert.Equal(t, "N::S", r.Table().QualifiedName(scope.ID))

	ref, ok := ns[1].Parent().(*ast.FieldReference)
	require.True(t, ok)
	assert.Equal(t, symtab.KindStruct, r.TypeOf(ref.Owner).Kind)
	assert.Equal(t, symtab.KindInt, r.TypeOf(ref).Kind)
}

func TestDeterministicBindings(t *testing.T) {
	src := `
namespace A { int v; void f(int); }
namespace B { using namespace A; void f(double); }
void g() { B::f(1); A::f(2); int w = A::v; }`
	render := func() []string {
		tu := parse(t, src, parser.ModeFull)
		c := &nameCollector{}
		ast.Walk(tu, c, ast.VisitAll())
		var out []string
		for _, n := range c.names {
			out = append(out, n.String()+"="+bindingString(n.ResolveBinding()))
		}
		return out
	}
	assert.Equal(t, render(), render())
}

func bindingString(b ast.Binding) string {
	switch b := b.(type) {
	case *semantic.Binding:
		return b.String()
	case *semantic.ProblemBinding:
		return b.String()
	}
	return "<nil>"
}
