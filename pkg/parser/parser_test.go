package parser

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"cxxscope/pkg/ast"
)

func parseSource(t *testing.T, lang ast.Language, content string) *ast.TranslationUnit {
	t.Helper()
	p := New(Options{Language: lang, Reader: MapFileReader{}})
	tu, err := p.Parse(context.Background(), "test.cpp", content)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return tu
}

func parseCPP(t *testing.T, content string) *ast.TranslationUnit {
	t.Helper()
	return parseSource(t, ast.LanguageCPP, content)
}

// functionBody returns the statements of the last function definition
func functionBody(t *testing.T, tu *ast.TranslationUnit) []ast.Statement {
	t.Helper()
	for i := len(tu.Declarations) - 1; i >= 0; i-- {
		if fd, ok := tu.Declarations[i].(*ast.FunctionDefinition); ok {
			if fd.Body == nil {
				t.Fatalf("function %s has no body", fd.Declarator.DeclaredName())
			}
			return fd.Body.Statements
		}
	}
	t.Fatalf("no function definition in %d declarations", len(tu.Declarations))
	return nil
}

func TestParseDeclarations(t *testing.T) {
	tests := []struct {
		name    string
		content string
		checks  func(*testing.T, *ast.TranslationUnit)
	}{
		{
			name:    "simple variable",
			content: "int x;",
			checks: func(t *testing.T, tu *ast.TranslationUnit) {
				if len(tu.Declarations) != 1 {
					t.Fatalf("Expected 1 declaration, got %d", len(tu.Declarations))
				}
				sd, ok := tu.Declarations[0].(*ast.SimpleDeclaration)
				if !ok {
					t.Fatalf("Expected SimpleDeclaration, got %T", tu.Declarations[0])
				}
				spec, ok := sd.Specifier.(*ast.SimpleDeclSpecifier)
				if !ok || spec.Type != ast.TypeInt {
					t.Errorf("Expected int specifier, got %#v", sd.Specifier)
				}
				if len(sd.Declarators) != 1 || sd.Declarators[0].DeclaredName().String() != "x" {
					t.Errorf("Expected declarator x, got %v", sd.Declarators)
				}
			},
		},
		{
			name:    "several declarators",
			content: "static const char *a, b[4], (*fp)(int);",
			checks: func(t *testing.T, tu *ast.TranslationUnit) {
				sd := tu.Declarations[0].(*ast.SimpleDeclaration)
				if len(sd.Declarators) != 3 {
					t.Fatalf("Expected 3 declarators, got %d", len(sd.Declarators))
				}
				flags := sd.Specifier.Flags()
				if flags.Storage != ast.StorageStatic || !flags.Const {
					t.Errorf("Expected static const, got %+v", *flags)
				}
				if got := len(sd.Declarators[0].PointerOps); got != 1 {
					t.Errorf("Expected 1 pointer operator on a, got %d", got)
				}
				if got := len(sd.Declarators[1].ArrayModifiers); got != 1 {
					t.Errorf("Expected array modifier on b, got %d", got)
				}
				fp := sd.Declarators[2]
				if fp.Nested == nil || fp.DeclaredName().String() != "fp" {
					t.Errorf("Expected nested declarator fp, got %#v", fp)
				}
				if fp.FunctionDeclarator() != nil {
					t.Error("A pointer to function must not be a function declarator")
				}
			},
		},
		{
			name:    "class with members",
			content: "class A : public B { public: void f(); int y; };",
			checks: func(t *testing.T, tu *ast.TranslationUnit) {
				sd := tu.Declarations[0].(*ast.SimpleDeclaration)
				cs, ok := sd.Specifier.(*ast.CompositeTypeSpecifier)
				if !ok {
					t.Fatalf("Expected CompositeTypeSpecifier, got %T", sd.Specifier)
				}
				if cs.Key != ast.KeyClass || cs.Name.String() != "A" {
					t.Errorf("Expected class A, got %v %v", cs.Key, cs.Name)
				}
				if len(cs.Bases) != 1 || cs.Bases[0].Visibility != ast.VisibilityPublic {
					t.Errorf("Expected one public base, got %v", cs.Bases)
				}
				if len(cs.Members) != 3 {
					t.Fatalf("Expected 3 members, got %d", len(cs.Members))
				}
				if _, ok := cs.Members[0].(*ast.VisibilityLabel); !ok {
					t.Errorf("Expected visibility label, got %T", cs.Members[0])
				}
			},
		},
		{
			name:    "namespace",
			content: "namespace N { int a; namespace M { void g(); } }",
			checks: func(t *testing.T, tu *ast.TranslationUnit) {
				ns, ok := tu.Declarations[0].(*ast.NamespaceDefinition)
				if !ok {
					t.Fatalf("Expected NamespaceDefinition, got %T", tu.Declarations[0])
				}
				if ns.Name.Value != "N" || len(ns.Declarations) != 2 {
					t.Errorf("Expected N with 2 declarations, got %s with %d", ns.Name.Value, len(ns.Declarations))
				}
				if _, ok := ns.Declarations[1].(*ast.NamespaceDefinition); !ok {
					t.Errorf("Expected nested namespace, got %T", ns.Declarations[1])
				}
			},
		},
		{
			name:    "class template",
			content: "template <typename T> class Box { T value; };",
			checks: func(t *testing.T, tu *ast.TranslationUnit) {
				td, ok := tu.Declarations[0].(*ast.TemplateDeclaration)
				if !ok {
					t.Fatalf("Expected TemplateDeclaration, got %T", tu.Declarations[0])
				}
				if len(td.Parameters) != 1 {
					t.Fatalf("Expected 1 template parameter, got %d", len(td.Parameters))
				}
				param, ok := td.Parameters[0].(*ast.SimpleTypeTemplateParameter)
				if !ok || param.Name.Value != "T" || !param.UsesTypename {
					t.Errorf("Expected typename T, got %#v", td.Parameters[0])
				}
				sd := td.Declaration.(*ast.SimpleDeclaration)
				cs := sd.Specifier.(*ast.CompositeTypeSpecifier)
				member := cs.Members[0].(*ast.SimpleDeclaration)
				if _, ok := member.Specifier.(*ast.NamedTypeSpecifier); !ok {
					t.Errorf("Expected T to be used as a type, got %T", member.Specifier)
				}
			},
		},
		{
			name:    "function definition",
			content: "void f(int a, char *b) { return; }",
			checks: func(t *testing.T, tu *ast.TranslationUnit) {
				fd, ok := tu.Declarations[0].(*ast.FunctionDefinition)
				if !ok {
					t.Fatalf("Expected FunctionDefinition, got %T", tu.Declarations[0])
				}
				if got := len(fd.Declarator.Parameters); got != 2 {
					t.Errorf("Expected 2 parameters, got %d", got)
				}
				body := functionBody(t, tu)
				if len(body) != 1 {
					t.Fatalf("Expected 1 statement, got %d", len(body))
				}
				if _, ok := body[0].(*ast.ReturnStatement); !ok {
					t.Errorf("Expected ReturnStatement, got %T", body[0])
				}
			},
		},
		{
			name:    "typedef name",
			content: "typedef int myint; myint z;",
			checks: func(t *testing.T, tu *ast.TranslationUnit) {
				sd := tu.Declarations[1].(*ast.SimpleDeclaration)
				named, ok := sd.Specifier.(*ast.NamedTypeSpecifier)
				if !ok || named.Name.String() != "myint" {
					t.Errorf("Expected named type myint, got %#v", sd.Specifier)
				}
			},
		},
		{
			name:    "enumeration",
			content: "enum Color { Red, Green = 2 };",
			checks: func(t *testing.T, tu *ast.TranslationUnit) {
				sd := tu.Declarations[0].(*ast.SimpleDeclaration)
				es, ok := sd.Specifier.(*ast.EnumerationSpecifier)
				if !ok {
					t.Fatalf("Expected EnumerationSpecifier, got %T", sd.Specifier)
				}
				if len(es.Enumerators) != 2 {
					t.Fatalf("Expected 2 enumerators, got %d", len(es.Enumerators))
				}
				if es.Enumerators[1].Value == nil {
					t.Error("Expected a value for Green")
				}
			},
		},
		{
			name:    "using directive and declaration",
			content: "namespace A { int v; } using namespace A; using A::v;",
			checks: func(t *testing.T, tu *ast.TranslationUnit) {
				if len(tu.Declarations) != 3 {
					t.Fatalf("Expected 3 declarations, got %d", len(tu.Declarations))
				}
				if _, ok := tu.Declarations[1].(*ast.UsingDirective); !ok {
					t.Errorf("Expected UsingDirective, got %T", tu.Declarations[1])
				}
				ud, ok := tu.Declarations[2].(*ast.UsingDeclaration)
				if !ok || ud.Name.String() != "A::v" {
					t.Errorf("Expected using A::v, got %#v", tu.Declarations[2])
				}
			},
		},
		{
			name:    "linkage specification",
			content: `extern "C" { int puts(const char *s); }`,
			checks: func(t *testing.T, tu *ast.TranslationUnit) {
				ls, ok := tu.Declarations[0].(*ast.LinkageSpecification)
				if !ok {
					t.Fatalf("Expected LinkageSpecification, got %T", tu.Declarations[0])
				}
				if ls.Literal != "C" || len(ls.Declarations) != 1 {
					t.Errorf("Expected C linkage with 1 declaration, got %q with %d", ls.Literal, len(ls.Declarations))
				}
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			tu := parseCPP(t, tt.content)
			if probs := tu.Problems(); len(probs) != 0 {
				t.Fatalf("Unexpected problems: %v", probs)
			}
			tt.checks(t, tu)
		})
	}
}

func TestStatementDisambiguation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		checks  func(*testing.T, ast.Statement)
	}{
		{
			name:    "pointer declaration of a typedef",
			content: "typedef int T; void f() { T * p; }",
			checks: func(t *testing.T, st ast.Statement) {
				if _, ok := st.(*ast.DeclarationStatement); !ok {
					t.Errorf("Expected DeclarationStatement, got %T", st)
				}
			},
		},
		{
			name:    "multiplication of variables",
			content: "int a, b; void f() { a * b; }",
			checks: func(t *testing.T, st ast.Statement) {
				es, ok := st.(*ast.ExpressionStatement)
				if !ok {
					t.Fatalf("Expected ExpressionStatement, got %T", st)
				}
				bin, ok := es.Expression.(*ast.BinaryExpression)
				if !ok || bin.Op != ast.BinaryMultiply {
					t.Errorf("Expected multiplication, got %#v", es.Expression)
				}
			},
		},
		{
			name:    "cast to a typedef",
			content: "typedef int T; void f() { int x = (T)1; }",
			checks: func(t *testing.T, st ast.Statement) {
				ds := st.(*ast.DeclarationStatement)
				sd := ds.Declaration.(*ast.SimpleDeclaration)
				init := sd.Declarators[0].Initializer.(*ast.InitializerExpression)
				if _, ok := init.Expression.(*ast.CastExpression); !ok {
					t.Errorf("Expected CastExpression, got %T", init.Expression)
				}
			},
		},
		{
			name:    "parenthesised variable",
			content: "int y; void f() { int x = (y) + 1; }",
			checks: func(t *testing.T, st ast.Statement) {
				ds := st.(*ast.DeclarationStatement)
				sd := ds.Declaration.(*ast.SimpleDeclaration)
				init := sd.Declarators[0].Initializer.(*ast.InitializerExpression)
				bin, ok := init.Expression.(*ast.BinaryExpression)
				if !ok {
					t.Fatalf("Expected BinaryExpression, got %T", init.Expression)
				}
				un, ok := bin.Operand1.(*ast.UnaryExpression)
				if !ok || un.Op != ast.UnaryBracketed {
					t.Errorf("Expected bracketed operand, got %#v", bin.Operand1)
				}
			},
		},
		{
			name:    "function call",
			content: "void g(int); void f() { g(1); }",
			checks: func(t *testing.T, st ast.Statement) {
				es, ok := st.(*ast.ExpressionStatement)
				if !ok {
					t.Fatalf("Expected ExpressionStatement, got %T", st)
				}
				call, ok := es.Expression.(*ast.FunctionCallExpression)
				if !ok || len(call.Arguments) != 1 {
					t.Errorf("Expected call with one argument, got %#v", es.Expression)
				}
			},
		},
		{
			name:    "constructor style initializer",
			content: "class C { public: C(int); }; void f() { C c(3); }",
			checks: func(t *testing.T, st ast.Statement) {
				ds, ok := st.(*ast.DeclarationStatement)
				if !ok {
					t.Fatalf("Expected DeclarationStatement, got %T", st)
				}
				d := ds.Declaration.(*ast.SimpleDeclaration).Declarators[0]
				if _, ok := d.Initializer.(*ast.ConstructorInitializer); !ok {
					t.Errorf("Expected ConstructorInitializer, got %T", d.Initializer)
				}
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			tu := parseCPP(t, tt.content)
			body := functionBody(t, tu)
			if len(body) != 1 {
				t.Fatalf("Expected 1 statement, got %d", len(body))
			}
			tt.checks(t, body[0])
		})
	}
}

func TestDanglingElse(t *testing.T) {
	tu := parseCPP(t, "void f(int a, int b) { if (a) if (b) a = 1; else a = 2; }")
	body := functionBody(t, tu)

	outer, ok := body[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("Expected IfStatement, got %T", body[0])
	}
	if outer.Else != nil {
		t.Error("The else must bind to the inner if")
	}
	inner, ok := outer.Then.(*ast.IfStatement)
	if !ok {
		t.Fatalf("Expected nested IfStatement, got %T", outer.Then)
	}
	if inner.Else == nil {
		t.Error("Expected the inner if to own the else branch")
	}
}

func TestControlStatements(t *testing.T) {
	content := `void f(int n) {
    for (int i = 0; i < n; i++) { continue; }
    while (n) n--;
    do { break; } while (0);
    switch (n) { case 1: break; default: ; }
    label: goto label;
}`
	body := functionBody(t, parseCPP(t, content))

	expected := []string{"*ast.ForStatement", "*ast.WhileStatement", "*ast.DoStatement", "*ast.SwitchStatement", "*ast.LabelStatement"}
	if len(body) != len(expected) {
		t.Fatalf("Expected %d statements, got %d", len(expected), len(body))
	}
	for i, st := range body {
		if got := fmt.Sprintf("%T", st); got != expected[i] {
			t.Errorf("Statement %d: expected %s, got %s", i, expected[i], got)
		}
	}

	forStmt := body[0].(*ast.ForStatement)
	if _, ok := forStmt.Init.(*ast.DeclarationStatement); !ok {
		t.Errorf("Expected declaration in for-init, got %T", forStmt.Init)
	}
}

func TestProblemRecovery(t *testing.T) {
	t.Run("declaration", func(t *testing.T) {
		tu := parseCPP(t, "int x; int y = ); int z;")
		if len(tu.Declarations) != 3 {
			t.Fatalf("Expected 3 declarations, got %d", len(tu.Declarations))
		}
		if _, ok := tu.Declarations[1].(*ast.ProblemDeclaration); !ok {
			t.Errorf("Expected ProblemDeclaration, got %T", tu.Declarations[1])
		}
		if _, ok := tu.Declarations[2].(*ast.SimpleDeclaration); !ok {
			t.Errorf("Expected parsing to resume, got %T", tu.Declarations[2])
		}
		if len(tu.Problems()) == 0 {
			t.Error("Expected the problem to be reported")
		}
	})

	t.Run("statement", func(t *testing.T) {
		tu := parseCPP(t, "int a; void f() { int b = ); a = 1; }")
		body := functionBody(t, tu)
		if len(body) != 2 {
			t.Fatalf("Expected 2 statements, got %d", len(body))
		}
		if _, ok := body[0].(*ast.ProblemStatement); !ok {
			t.Errorf("Expected ProblemStatement, got %T", body[0])
		}
		if _, ok := body[1].(*ast.ExpressionStatement); !ok {
			t.Errorf("Expected ExpressionStatement, got %T", body[1])
		}
	})

	t.Run("unterminated namespace keeps its contents", func(t *testing.T) {
		tu := parseCPP(t, "namespace N { int a;")
		ns, ok := tu.Declarations[0].(*ast.NamespaceDefinition)
		if !ok {
			t.Fatalf("Expected NamespaceDefinition, got %T", tu.Declarations[0])
		}
		if len(ns.Declarations) == 0 {
			t.Error("Expected the declarations parsed before end of input")
		}
		if len(tu.Problems()) == 0 {
			t.Error("Expected a problem for the missing brace")
		}
	})
}

func TestFailFast(t *testing.T) {
	p := New(Options{Language: ast.LanguageCPP, FailFast: true, Reader: MapFileReader{}})
	tu, err := p.Parse(context.Background(), "bad.cpp", "int x; int y = ); int z;")

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Expected *ParseError, got %v", err)
	}
	if perr.Problem == nil || perr.File != "bad.cpp" {
		t.Errorf("Unexpected parse error %+v", perr)
	}
	if tu == nil {
		t.Fatal("Expected a partial tree")
	}
	for _, d := range tu.Declarations {
		if sd, ok := d.(*ast.SimpleDeclaration); ok && sd.Declarators[0].DeclaredName().String() == "z" {
			t.Error("Parsing must stop at the first problem")
		}
	}
}

func TestMacroExpansionMatchesLiteralSource(t *testing.T) {
	macro := "#define YO 5\n#define MAMA 10\nint x = YO + MAMA;\n"
	literal := "int x = 5 + 10;"

	expanded := Drain(NewPreprocessor("macro.cpp", macro, PreprocessorConfig{Language: ast.LanguageCPP, Reader: MapFileReader{}}))
	plain := significant(NewTokenizerFor(literal, "literal.cpp", ast.LanguageCPP).Tokenize())

	if len(expanded) != len(plain) {
		t.Fatalf("Expected %d tokens, got %d: %v", len(plain), len(expanded), expanded)
	}
	for i := range plain {
		if expanded[i].Type != plain[i].Type || expanded[i].Value != plain[i].Value {
			t.Errorf("Token %d: expected %v %q, got %v %q", i, plain[i].Type, plain[i].Value, expanded[i].Type, expanded[i].Value)
		}
	}

	tu := parseCPP(t, macro)
	sd := tu.Declarations[0].(*ast.SimpleDeclaration)
	init := sd.Declarators[0].Initializer.(*ast.InitializerExpression)
	if got := ast.ExpressionString(init.Expression); got != "5 + 10" {
		t.Errorf("Expected initializer 5 + 10, got %q", got)
	}
}

func TestIncludeThroughReader(t *testing.T) {
	files := MapFileReader{"inc/types.h": "typedef unsigned long size_type;\n"}
	p := New(Options{Language: ast.LanguageCPP, Reader: files, IncludePaths: []string{"inc"}})
	tu, err := p.Parse(context.Background(), "main.cpp", "#include <types.h>\nsize_type n;\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(tu.Declarations) != 2 {
		t.Fatalf("Expected 2 declarations, got %d", len(tu.Declarations))
	}
	sd := tu.Declarations[1].(*ast.SimpleDeclaration)
	if _, ok := sd.Specifier.(*ast.NamedTypeSpecifier); !ok {
		t.Errorf("Expected the included typedef to be a type, got %T", sd.Specifier)
	}
	if sd.Range().File != "main.cpp" || tu.Declarations[0].Range().File != "inc/types.h" {
		t.Errorf("Unexpected files %q and %q", sd.Range().File, tu.Declarations[0].Range().File)
	}
}

func TestParseCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(Options{Language: ast.LanguageCPP, Reader: MapFileReader{}})
	_, err := p.Parse(ctx, "test.cpp", "int x;")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestParseIsDeterministic(t *testing.T) {
	content := "namespace N { class A { int m; }; } typedef N::A T; void f(T *t) { if (t) f(t); }"
	kinds := func() []ast.Kind {
		var out []ast.Kind
		var visit func(n ast.Node)
		visit = func(n ast.Node) {
			out = append(out, n.Kind())
			ast.EachChild(n, func(c ast.Node, _ ast.Property) { visit(c) })
		}
		visit(parseCPP(t, content))
		return out
	}
	first, second := kinds(), kinds()
	if len(first) != len(second) {
		t.Fatalf("Node counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Node %d differs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestParseC(t *testing.T) {
	tu := parseSource(t, ast.LanguageC, "struct P { int x, y; }; struct P p = { .x = 1, [0] = 2 };")
	sd := tu.Declarations[1].(*ast.SimpleDeclaration)
	il, ok := sd.Declarators[0].Initializer.(*ast.InitializerList)
	if !ok {
		t.Fatalf("Expected InitializerList, got %T", sd.Declarators[0].Initializer)
	}
	if len(il.Clauses) != 2 {
		t.Fatalf("Expected 2 clauses, got %d", len(il.Clauses))
	}
	for i, c := range il.Clauses {
		if _, ok := c.(*ast.DesignatedInitializer); !ok {
			t.Errorf("Clause %d: expected DesignatedInitializer, got %T", i, c)
		}
	}
}

func TestConditionalCompilation(t *testing.T) {
	content := `#define LEVEL 2
#if defined(LEVEL) && LEVEL > 1
int a;
#elif 1
int b;
#else
int c;
#endif
#ifndef LEVEL
int d;
#endif
#undef LEVEL
#ifdef LEVEL
int e;
#endif
`
	p := New(Options{Language: ast.LanguageCPP, Reader: MapFileReader{}})
	tu, err := p.Parse(context.Background(), "test.cpp", content)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(tu.Declarations) != 1 {
		t.Fatalf("Expected 1 declaration, got %d", len(tu.Declarations))
	}
	sd := tu.Declarations[0].(*ast.SimpleDeclaration)
	if name := sd.Declarators[0].DeclaredName().String(); name != "a" {
		t.Errorf("Expected a, got %s", name)
	}
	if len(p.SkippedRegions()) == 0 {
		t.Error("Expected skipped regions to be recorded")
	}
	if n := len(tu.PreprocessorProblems()); n != 0 {
		t.Errorf("Expected no preprocessor problems, got %d", n)
	}
}

type capabilityCounter struct {
	ast.BaseCPPVisitor
	namespaces, bases, declarations int
}

func (c *capabilityCounter) VisitNamespace(*ast.NamespaceDefinition) ast.Directive {
	c.namespaces++
	return ast.Continue
}

func (c *capabilityCounter) VisitBaseSpecifier(*ast.BaseSpecifier) ast.Directive {
	c.bases++
	return ast.Continue
}

func (c *capabilityCounter) VisitDeclaration(ast.Declaration) ast.Directive {
	c.declarations++
	return ast.Continue
}

type designatorCounter struct {
	ast.BaseCVisitor
	designators int
}

func (c *designatorCounter) VisitDesignator(ast.Designator) ast.Directive {
	c.designators++
	return ast.Continue
}

func TestVisitorCapabilities(t *testing.T) {
	tu := parseCPP(t, "namespace A { struct B {}; struct C : B {}; }")

	with := &capabilityCounter{}
	ast.Walk(tu, with, ast.VisitOptions{Declarations: true, Namespaces: true, BaseSpecifiers: true})
	if with.namespaces != 1 || with.bases != 1 {
		t.Errorf("Expected 1 namespace and 1 base, got %d and %d", with.namespaces, with.bases)
	}

	// without the flags namespaces are plain declarations and bases are skipped
	without := &capabilityCounter{}
	ast.Walk(tu, without, ast.VisitOptions{Declarations: true})
	if without.namespaces != 0 || without.bases != 0 {
		t.Errorf("Capability callbacks ran without their flags: %d, %d", without.namespaces, without.bases)
	}
	if without.declarations != with.declarations+1 {
		t.Errorf("Expected the namespace as a declaration: %d vs %d", without.declarations, with.declarations)
	}

	ctu := parseSource(t, ast.LanguageC, "struct P { int x, y; }; struct P p = { .x = 1, [0] = 2 };")
	dc := &designatorCounter{}
	ast.Walk(ctu, dc, ast.VisitOptions{Designators: true})
	if dc.designators != 2 {
		t.Errorf("Expected 2 designators, got %d", dc.designators)
	}
}

type typeIDFinder struct {
	ast.BaseVisitor
	found *ast.TypeIDExpression
}

func (f *typeIDFinder) VisitExpression(e ast.Expression) ast.Directive {
	if x, ok := e.(*ast.TypeIDExpression); ok {
		f.found = x
		return ast.Abort
	}
	return ast.Continue
}

func TestTypeStringRoundTrip(t *testing.T) {
	tests := []struct {
		decl string
		want string
	}{
		{"int x;", "int"},
		{"const char * const * p;", "const char * const *"},
		{"const char * names[10];", "const char * [10]"},
		{"int (*fp)(int);", "int (*)(int)"},
		{"char * (*rows)[4];", "char * (*)[4]"},
		{"int S::* pm;", "int S::*"},
		{"double (&r)[3];", "double (&)[3]"},
		{"int * const * volatile q;", ""},
		{"unsigned long & ul;", ""},
		{"void (S::*mf)(int);", ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.decl, func(t *testing.T) {
			p := New(Options{Language: ast.LanguageCPP, Reader: MapFileReader{}, Mode: ModeSyntax})
			tu, err := p.Parse(context.Background(), "test.cpp", "struct S {};\n"+tt.decl)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if len(tu.Problems()) != 0 || len(tu.Declarations) != 2 {
				t.Fatalf("Expected a clean declaration, got %d problems", len(tu.Problems()))
			}
			sd := tu.Declarations[1].(*ast.SimpleDeclaration)
			got := ast.GetType(sd.Declarators[0])
			if tt.want != "" && got != tt.want {
				t.Fatalf("Expected %q, got %q", tt.want, got)
			}

			tu, err = p.Parse(context.Background(), "test.cpp", fmt.Sprintf("struct S {};\nint n = sizeof(%s);", got))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			f := &typeIDFinder{}
			ast.Walk(tu, f, ast.VisitOptions{Expressions: true})
			if f.found == nil {
				t.Fatalf("No type-id found for %q", got)
			}
			if again := ast.TypeIDString(f.found.TypeID); again != got {
				t.Errorf("Round trip changed %q to %q", got, again)
			}
		})
	}
}
