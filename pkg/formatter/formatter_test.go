package formatter

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"cxxscope/pkg/ast"
	"cxxscope/pkg/index"
	"cxxscope/pkg/parser"
)

func parseTestUnit(t *testing.T, content string) *ast.TranslationUnit {
	t.Helper()
	p := parser.New(parser.Options{Language: ast.LanguageCPP, Mode: parser.ModeFull, Reader: parser.MapFileReader{}})
	tu, err := p.Parse(context.Background(), "a.cpp", content)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	return tu
}

func TestFormatTree(t *testing.T) {
	tu := parseTestUnit(t, "int x = 1;\n")
	f := New()
	out := f.FormatTree(tu)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if lines[0] != "TranslationUnit a.cpp" {
		t.Errorf("Unexpected root line %q", lines[0])
	}
	if len(lines) < 2 || lines[1] != "    SimpleDeclaration" {
		t.Errorf("Expected the declaration one level down, got %q", out)
	}
	if !strings.Contains(out, `Name "x"`) {
		t.Errorf("Expected the declared name, got %q", out)
	}
	if !strings.Contains(out, "LiteralExpression 1") {
		t.Errorf("Expected the initializer literal, got %q", out)
	}
	if strings.Contains(out, "->") {
		t.Errorf("Bindings should not be printed by default: %q", out)
	}
}

func TestFormatTreeOptions(t *testing.T) {
	tu := parseTestUnit(t, "int x = 1;\nint y = x;\n")
	f := New().WithIndent(0)
	f.ShowBindings = true
	f.ShowRanges = true
	f.ShowProperties = true

	var buf bytes.Buffer
	if err := f.WriteTree(&buf, tu); err != nil {
		t.Fatalf("WriteTree failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "\towned declaration: SimpleDeclaration [1:1-") {
		t.Errorf("Expected tab indentation, property and range, got %q", out)
	}
	if strings.Count(out, "-> variable x") != 2 {
		t.Errorf("Expected both names of x to show their binding, got %q", out)
	}
}

func TestFormatTreeProblem(t *testing.T) {
	tu := parseTestUnit(t, "int x = ;\n")
	out := New().FormatTree(tu)
	if !strings.Contains(out, "Problem") {
		t.Errorf("Expected a problem node, got %q", out)
	}
}

func TestFormatOutline(t *testing.T) {
	entries := []index.Entry{
		{Name: "N", QualifiedName: "N", Kind: "namespace", Line: 1, Column: 11, Definition: true},
		{Name: "f", QualifiedName: "N::f", Kind: "function", Line: 2, Column: 5},
		{Name: "S", QualifiedName: "N::S", Kind: "struct", Line: 3, Column: 8, Definition: true},
		{Name: "m", QualifiedName: "N::S::m", Kind: "variable", Line: 3, Column: 16, Definition: true},
		{Name: "f", QualifiedName: "N::f", Kind: "function", Line: 5, Column: 8, Definition: true},
	}
	want := `namespace N (defined) 1:11
    function f (defined) 2:5
    struct S (defined) 3:8
        variable m (defined) 3:16
`
	if got := New().FormatOutline(entries); got != want {
		t.Errorf("FormatOutline =\n%s\nwant\n%s", got, want)
	}
}

func TestFormatLocation(t *testing.T) {
	if got := FormatLocation("a.cpp", 3, 7); got != "a.cpp:3:7" {
		t.Errorf("FormatLocation = %q", got)
	}
}
