package completion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cxxscope/pkg/ast"
	"cxxscope/pkg/parser"
)

func complete(t *testing.T, content string) (*parser.CompletionNode, []Candidate) {
	t.Helper()
	p := parser.New(parser.Options{Language: ast.LanguageCPP, Reader: parser.MapFileReader{}})
	node, err := p.Complete(context.Background(), "test.cpp", content, len(content))
	require.NoError(t, err)
	require.NotNil(t, node)
	got, err := Names(node.Unit, node)
	require.NoError(t, err)
	return node, got
}

func names(cs []Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

func TestNames(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "functions from a body",
			content: "void func(int x) {}\nvoid func2() { fu",
			want:    []string{"func", "func2"},
		},
		{
			name:    "typedef at file scope",
			content: "typedef int blah;\nbl",
			want:    []string{"blah"},
		},
		{
			name:    "members of an object",
			content: "struct S { int field; int fine(); int other; };\nvoid f(S s) { s.fi",
			want:    []string{"field", "fine"},
		},
		{
			name:    "members through a pointer",
			content: "struct S { int field; };\nvoid f(S* s) { s->f",
			want:    []string{"field"},
		},
		{
			name:    "qualified name",
			content: "namespace N { int value; int valid; int other; }\nint x = N::va",
			want:    []string{"valid", "value"},
		},
		{
			name:    "locals hide globals",
			content: "int count;\nvoid f() { double count; co",
			want:    []string{"count"},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, got := complete(t, tt.content)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestNamesTypedefKind(t *testing.T) {
	_, got := complete(t, "typedef int blah;\nbl")
	require.Len(t, got, 1)
	assert.Equal(t, "typedef", got[0].Kind)
	assert.Equal(t, "int", got[0].Type)
	assert.Equal(t, 1.0, got[0].Score)
}

func TestNamesLocalShadow(t *testing.T) {
	_, got := complete(t, "int count;\nvoid f() { double count; co")
	require.Len(t, got, 1)
	assert.Equal(t, "double", got[0].Type)
}

func TestNamesIsRepeatable(t *testing.T) {
	node, first := complete(t, "void func(int x) {}\nvoid func2() { fu")
	again, err := Names(node.Unit, node)
	require.NoError(t, err)
	require.Len(t, again, len(first))
	for i := range first {
		assert.Same(t, first[i].Binding, again[i].Binding)
	}
}

func TestFuzzyFallback(t *testing.T) {
	content := "int counter;\nint other;\nvoid f() { cuonter"
	p := parser.New(parser.Options{Language: ast.LanguageCPP, Reader: parser.MapFileReader{}})
	node, err := p.Complete(context.Background(), "test.cpp", content, len(content))
	require.NoError(t, err)

	got, err := Names(node.Unit, node)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "counter", got[0].Name)
	assert.Less(t, got[0].Score, 1.0)

	strict := Options{}
	got, err = strict.Names(node.Unit, node)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNoResolver(t *testing.T) {
	node := &parser.CompletionNode{Name: &ast.Name{Value: "x"}, Unit: &ast.TranslationUnit{}}
	_, err := Names(node.Unit, node)
	assert.ErrorIs(t, err, ErrNoResolver)
}
