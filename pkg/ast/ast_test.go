package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rangeAt(start, end int) Range {
	return Range{
		Start: Position{Line: 1, Column: start + 1, Offset: start},
		End:   Position{Line: 1, Column: end + 1, Offset: end},
		File:  "a.cpp",
	}
}

// sample builds `int x, N::y;`
func sample() (*TranslationUnit, *Name, *QualifiedName) {
	x := &Name{Value: "x"}
	x.SetRange(rangeAt(4, 5))
	y := &QualifiedName{Segments: []NameNode{&Name{Value: "N"}, &Name{Value: "y"}}}
	y.SetRange(rangeAt(7, 11))
	decl := &SimpleDeclaration{
		Specifier:   &SimpleDeclSpecifier{},
		Declarators: []*Declarator{{Name: x}, {Name: y}},
	}
	tu := &TranslationUnit{FilePath: "a.cpp", Declarations: []Declaration{decl}}
	Link(tu)
	return tu, x, y
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in      string
		want    Language
		wantErr bool
	}{
		{"c", LanguageC, false},
		{"C++", LanguageCPP, false},
		{" cxx ", LanguageCPP, false},
		{"", LanguageCPP, false},
		{"fortran", LanguageCPP, true},
	}
	for _, tt := range tests {
		got, err := ParseLanguage(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	assert.Equal(t, "c++", LanguageCPP.String())
}

func TestRange(t *testing.T) {
	r := rangeAt(4, 9)
	assert.Equal(t, 4, r.Offset())
	assert.Equal(t, 5, r.Length())
	assert.True(t, r.Covers(5, 2))
	assert.False(t, r.Covers(8, 2))
	assert.True(t, r.Exactly(4, 5))
	assert.False(t, r.Empty())

	joined := r.Join(rangeAt(2, 6))
	assert.Equal(t, 2, joined.Offset())
	assert.Equal(t, 7, joined.Length())

	other := rangeAt(0, 20)
	other.File = "b.h"
	assert.Equal(t, r, r.Join(other))
}

func TestLinkAndNavigation(t *testing.T) {
	tu, x, y := sample()

	assert.Same(t, tu, TranslationUnitOf(x))
	ancestors := Ancestors(x)
	require.Len(t, ancestors, 3)
	assert.Equal(t, KindDeclarator, ancestors[0].Kind())
	assert.Equal(t, KindSimpleDeclaration, ancestors[1].Kind())
	assert.Equal(t, KindTranslationUnit, ancestors[2].Kind())

	decl := tu.Declarations[0]
	children := Children(decl)
	require.Len(t, children, 3)

	var props []Property
	EachChild(decl, func(_ Node, p Property) { props = append(props, p) })
	assert.Equal(t, []Property{PropDeclSpecifier, PropDeclarator, PropDeclarator}, props)

	assert.Equal(t, "N::y", y.String())
	assert.Equal(t, "y", SimpleName(y))
	y.FullyQualified = true
	assert.Equal(t, "::N::y", y.String())
}

type recorder struct {
	BaseCPPVisitor
	names  []string
	leaves int
	skip   string
	abort  string
}

func (r *recorder) VisitName(n NameNode) Directive {
	r.names = append(r.names, n.String())
	switch n.String() {
	case r.skip:
		return Skip
	case r.abort:
		return Abort
	}
	return Continue
}

func (r *recorder) LeaveName(NameNode) Directive {
	r.leaves++
	return Continue
}

func TestWalk(t *testing.T) {
	tu, _, _ := sample()

	v := &recorder{}
	assert.True(t, Walk(tu, v, VisitOptions{Names: true}))
	assert.Equal(t, []string{"x", "N::y", "N", "y"}, v.names)
	assert.Equal(t, 4, v.leaves)

	v = &recorder{skip: "N::y"}
	Walk(tu, v, VisitOptions{Names: true})
	assert.Equal(t, []string{"x", "N::y"}, v.names)
	assert.Equal(t, 2, v.leaves, "skipped nodes are still left")

	v = &recorder{abort: "x"}
	assert.False(t, Walk(tu, v, VisitOptions{Names: true}))
	assert.Equal(t, []string{"x"}, v.names)

	v = &recorder{}
	Walk(tu, v, VisitOptions{Declarations: true})
	assert.Empty(t, v.names, "names are traversed but not visited")
}

type stubBinding string

func (s stubBinding) BindingName() string { return string(s) }

type countingResolver struct{ calls int }

func (c *countingResolver) ResolveBinding(n NameNode) Binding {
	c.calls++
	return stubBinding(n.String())
}

func TestResolveBindingIsCached(t *testing.T) {
	tu, x, _ := sample()
	assert.Nil(t, x.ResolveBinding(), "no resolver installed")

	res := &countingResolver{}
	tu.SetResolver(res)
	assert.Equal(t, stubBinding("x"), x.ResolveBinding())
	assert.Equal(t, stubBinding("x"), x.ResolveBinding())
	assert.Equal(t, 1, res.calls)

	x.SetBinding(stubBinding("other"))
	assert.Equal(t, stubBinding("other"), x.Binding())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "TranslationUnit", KindTranslationUnit.String())
	assert.Equal(t, "Name", KindName.String())
	assert.Equal(t, "Unknown", Kind(-1).String())
	assert.Equal(t, "declarator name", PropDeclaratorName.String())
}
