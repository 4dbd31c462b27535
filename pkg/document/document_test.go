package document

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cxxscope/pkg/ast"
	"cxxscope/pkg/completion"
	"cxxscope/pkg/config"
	"cxxscope/pkg/index"
	"cxxscope/pkg/parser"
)

// Test content for document operations
const testSourceContent = `namespace TestNS {

class Calculator {
public:
    Calculator();
    int add(int a, int b);
    int multiply(int a, int b);

private:
    int result_;
};

int Calculator::add(int a, int b) {
    result_ = a + b;
    return result_;
}

void globalFunction();

int processValue(int value) {
    Calculator c;
    return c.add(value, value) + missing;
}

} // namespace TestNS
`

func newTestDocument(t *testing.T) *Document {
	t.Helper()
	doc, err := NewFromContent(context.Background(), "test.cpp", testSourceContent,
		parser.Options{Language: ast.LanguageCPP, Reader: parser.MapFileReader{}})
	if err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}
	return doc
}

// offsetOf returns the offset of the n-th occurrence of text
func offsetOf(t *testing.T, text string, n int) int {
	t.Helper()
	off := -1
	for i := 0; i <= n; i++ {
		next := strings.Index(testSourceContent[off+1:], text)
		if next < 0 {
			t.Fatalf("occurrence %d of %q not found", n, text)
		}
		off += next + 1
	}
	return off
}

func TestNewFromContent(t *testing.T) {
	doc := newTestDocument(t)

	if doc.GetFilename() != "test.cpp" {
		t.Errorf("Expected filename 'test.cpp', got '%s'", doc.GetFilename())
	}
	if doc.GetContent() != testSourceContent {
		t.Error("Content does not match the input")
	}
	if doc.GetUnit() == nil || doc.Resolver() == nil {
		t.Fatal("Expected a resolved translation unit")
	}
}

func TestOpen(t *testing.T) {
	reader := parser.MapFileReader{
		"main.c": "#include \"defs.h\"\nint use = LIMIT;\n",
		"defs.h": "#define LIMIT 3\nint shared;\n",
	}
	cfg := config.Default()
	cfg.Dialect = "c"
	doc, err := Open(context.Background(), "main.c", reader, cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if doc.GetUnit().Language != ast.LanguageC {
		t.Errorf("Expected a C unit, got %s", doc.GetUnit().Language)
	}
	if len(doc.FindEntity("use")) != 1 {
		t.Error("Expected the declaration of use")
	}
	if len(doc.FindEntity("shared")) != 0 {
		t.Error("Declarations of included headers belong to the header")
	}

	if _, err := Open(context.Background(), "absent.c", reader, nil); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestFindEntity(t *testing.T) {
	doc := newTestDocument(t)

	add := doc.FindEntity("TestNS::Calculator::add")
	if len(add) != 2 {
		t.Fatalf("Expected a declaration and a definition of add, got %d", len(add))
	}
	if add[0].Definition || !add[1].Definition {
		t.Errorf("Expected the declaration before the definition, got %+v", add)
	}
	if add[0].Kind != "function" {
		t.Errorf("Expected kind 'function', got '%s'", add[0].Kind)
	}

	if got := doc.FindEntity("::TestNS::Calculator"); len(got) != 1 || got[0].Kind != "class" {
		t.Errorf("Expected the class TestNS::Calculator, got %+v", got)
	}
	if got := doc.FindEntity("NonExistent::Entity"); len(got) != 0 {
		t.Errorf("Expected nothing for a missing entity, got %+v", got)
	}
}

func TestFindEntitiesByName(t *testing.T) {
	doc := newTestDocument(t)

	got := doc.FindEntitiesByName("result_")
	if len(got) != 1 || got[0].QualifiedName != "TestNS::Calculator::result_" {
		t.Errorf("Expected the member result_, got %+v", got)
	}
	for _, e := range doc.GetAllEntities() {
		if e.Name == "value" || e.Name == "c" {
			t.Errorf("Local %s should not be listed", e.Name)
		}
	}
}

func TestFindDeclaration(t *testing.T) {
	doc := newTestDocument(t)
	ctx := context.Background()

	// the call c.add in processValue
	locs, err := doc.FindDeclaration(ctx, offsetOf(t, "add", 2), len("add"), nil)
	if err != nil {
		t.Fatalf("FindDeclaration failed: %v", err)
	}
	if len(locs) != 1 || !locs[0].Definition {
		t.Fatalf("Expected the out-of-line definition, got %+v", locs)
	}
	if locs[0].Offset != offsetOf(t, "add", 1) {
		t.Errorf("Expected offset %d, got %d", offsetOf(t, "add", 1), locs[0].Offset)
	}

	// declared only
	locs, err = doc.FindDeclaration(ctx, offsetOf(t, "globalFunction", 0), len("globalFunction"), nil)
	if err != nil {
		t.Fatalf("FindDeclaration failed: %v", err)
	}
	if len(locs) != 1 || locs[0].Definition {
		t.Errorf("Expected one declaration, got %+v", locs)
	}

	// whitespace is not a name
	_, err = doc.FindDeclaration(ctx, offsetOf(t, "namespace", 0)+len("namespace"), 1, nil)
	if !errors.Is(err, parser.ErrNotAName) {
		t.Errorf("Expected ErrNotAName, got %v", err)
	}
}

func TestFindDeclarationFallsBackToIndex(t *testing.T) {
	ctx := context.Background()
	store, err := index.Open(":memory:", nil)
	if err != nil {
		t.Fatalf("Failed to open index: %v", err)
	}
	defer store.Close()

	err = store.Replace(ctx, "/src/other.cpp", "h", []index.Entry{
		{File: "/src/other.cpp", Name: "missing", QualifiedName: "missing", Kind: "variable",
			Offset: 4, Length: 7, Line: 1, Column: 5, Definition: true},
	})
	if err != nil {
		t.Fatalf("Failed to fill index: %v", err)
	}

	doc := newTestDocument(t)
	locs, err := doc.FindDeclaration(ctx, offsetOf(t, "missing", 0), len("missing"), store)
	if err != nil {
		t.Fatalf("FindDeclaration failed: %v", err)
	}
	if len(locs) != 1 || locs[0].File != "/src/other.cpp" {
		t.Errorf("Expected the indexed declaration, got %+v", locs)
	}

	_, err = doc.FindDeclaration(ctx, offsetOf(t, "missing", 0), len("missing"), nil)
	if !errors.Is(err, ErrNoDeclaration) {
		t.Errorf("Expected ErrNoDeclaration without an index, got %v", err)
	}
}

func TestReferences(t *testing.T) {
	doc := newTestDocument(t)

	locs, err := doc.References(offsetOf(t, "result_", 0), len("result_"))
	if err != nil {
		t.Fatalf("References failed: %v", err)
	}
	if len(locs) != 3 {
		t.Fatalf("Expected the declaration and two uses, got %d", len(locs))
	}
	for i := 1; i < len(locs); i++ {
		if locs[i-1].Offset >= locs[i].Offset {
			t.Errorf("References are not in source order: %+v", locs)
		}
	}
}

func TestComplete(t *testing.T) {
	doc := newTestDocument(t)

	// right after "c." in processValue
	off := offsetOf(t, "c.add", 0) + len("c.")
	got, err := doc.Complete(context.Background(), off, completion.Options{})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	var names []string
	for _, c := range got {
		names = append(names, c.Name)
	}
	// the prefix is empty, so every member is offered
	for _, want := range []string{"add", "multiply", "result_"} {
		found := false
		for _, n := range names {
			found = found || n == want
		}
		if !found {
			t.Errorf("Expected %s among %v", want, names)
		}
	}
}

func TestStatsAndValidate(t *testing.T) {
	doc := newTestDocument(t)

	stats := doc.GetStats()
	if stats.Unresolved == 0 {
		t.Error("Expected the unresolved name to be counted")
	}
	if stats.Definitions == 0 || stats.Declarations == 0 || stats.References == 0 {
		t.Errorf("Expected all kinds of names, got %+v", stats)
	}

	var found *ValidationIssue
	issues := doc.Validate()
	for i := range issues {
		if issues[i].Name == "missing" {
			found = &issues[i]
		}
	}
	if found == nil {
		t.Fatal("Expected an issue for 'missing'")
	}
	if found.IssueType != "unresolved_name" || found.Severity != "warning" || found.Line != 22 {
		t.Errorf("Unexpected issue %+v", *found)
	}

	if s := doc.String(); !strings.Contains(s, "test.cpp") {
		t.Errorf("Unexpected summary %q", s)
	}
}

func TestValidateSyntaxProblem(t *testing.T) {
	doc, err := NewFromContent(context.Background(), "bad.cpp", "int x = ;\nint y;\n",
		parser.Options{Language: ast.LanguageCPP, Reader: parser.MapFileReader{}})
	if err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}
	issues := doc.Validate()
	if len(issues) == 0 || issues[0].Severity != "error" || issues[0].IssueType != "syntax" {
		t.Errorf("Expected a syntax error first, got %+v", issues)
	}
	if len(doc.FindEntity("y")) != 1 {
		t.Error("Parsing should recover after the problem")
	}
}
