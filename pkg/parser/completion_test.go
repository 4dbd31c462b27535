package parser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cxxscope/pkg/ast"
)

func newCPPParser() *Parser {
	return New(Options{Language: ast.LanguageCPP, Reader: MapFileReader{}})
}

func TestComplete(t *testing.T) {
	tests := []struct {
		name    string
		content string
		prefix  string
		context CompletionContext
	}{
		{
			name:    "function names in a body",
			content: "void func(int x) {} void func2() { fu",
			prefix:  "fu",
			context: ContextExpression,
		},
		{
			name:    "member access",
			content: "struct S { int field; }; void f(S s) { s.fi",
			prefix:  "fi",
			context: ContextMember,
		},
		{
			name:    "qualified name",
			content: "namespace N { int value; } int x = N::va",
			prefix:  "va",
			context: ContextQualified,
		},
		{
			name:    "empty prefix",
			content: "int a; void f() { a = ",
			prefix:  "",
			context: ContextExpression,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			node, err := newCPPParser().Complete(context.Background(), "test.cpp", tt.content, len(tt.content))
			if err != nil {
				t.Fatalf("Complete failed: %v", err)
			}
			if node == nil {
				t.Fatal("Expected a completion node")
			}
			if node.Prefix != tt.prefix {
				t.Errorf("Expected prefix %q, got %q", tt.prefix, node.Prefix)
			}
			if node.Length != len(tt.prefix) {
				t.Errorf("Expected length %d, got %d", len(tt.prefix), node.Length)
			}
			if got := node.Context(); got != tt.context {
				t.Errorf("Expected context %v, got %v", tt.context, got)
			}
			if node.Unit == nil || ast.TranslationUnitOf(node.Name) != node.Unit {
				t.Error("Expected the completion name to be linked into the unit")
			}
		})
	}
}

func TestCompletionScopePath(t *testing.T) {
	content := "namespace A { namespace B { int item; } } int x = A::B::it"
	node, err := newCPPParser().Complete(context.Background(), "test.cpp", content, len(content))
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if got := strings.Join(node.ScopePath(), "::"); got != "A::B" {
		t.Errorf("Expected scope path A::B, got %q", got)
	}
	if node.FullyQualified() {
		t.Error("Expected a relative qualifier")
	}
}

func TestCompletionOwner(t *testing.T) {
	content := "struct S { int n; }; void f(S *p) { p->"
	node, err := newCPPParser().Complete(context.Background(), "test.cpp", content, len(content))
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	owner, arrow := node.Owner()
	if !arrow {
		t.Error("Expected an arrow member access")
	}
	if got := ast.ExpressionString(owner); got != "p" {
		t.Errorf("Expected owner p, got %q", got)
	}
}

func TestCompletionInMiddleOfFile(t *testing.T) {
	content := "int alpha; int x = al; int beta;"
	offset := strings.Index(content, "al;") + 2
	node, err := newCPPParser().Complete(context.Background(), "test.cpp", content, offset)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if node == nil || node.Prefix != "al" {
		t.Fatalf("Expected prefix al, got %+v", node)
	}
	for _, d := range node.Unit.Declarations {
		if sd, ok := d.(*ast.SimpleDeclaration); ok && len(sd.Declarators) > 0 {
			if ast.SimpleName(sd.Declarators[0].DeclaredName()) == "beta" {
				t.Error("Parsing must stop at the completion point")
			}
		}
	}
}

func TestSelect(t *testing.T) {
	content := "namespace A { namespace B { void f(int x); } }\nvoid A::B::f(int x) { int local = x; }\n"

	t.Run("exact name", func(t *testing.T) {
		offset := strings.Index(content, "local")
		n, err := newCPPParser().Select(context.Background(), "test.cpp", content, offset, len("local"))
		if err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		name, ok := n.(*ast.Name)
		if !ok || name.Value != "local" {
			t.Errorf("Expected name local, got %#v", n)
		}
	})

	t.Run("parameter declaration selects the function", func(t *testing.T) {
		offset := strings.Index(content, "int x")
		n, err := newCPPParser().Select(context.Background(), "test.cpp", content, offset, len("int x"))
		if err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		name, ok := n.(ast.NameNode)
		if !ok || ast.SimpleName(name) != "f" {
			t.Errorf("Expected the owning function name, got %#v", n)
		}
	})

	t.Run("qualified suffix", func(t *testing.T) {
		offset := strings.Index(content, "B::f(int x) {")
		n, err := newCPPParser().Select(context.Background(), "test.cpp", content, offset, len("B::f"))
		if err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		name, ok := n.(*ast.Name)
		if !ok || name.Value != "f" {
			t.Errorf("Expected segment f, got %#v", n)
		}
	})

	t.Run("not on token boundaries", func(t *testing.T) {
		offset := strings.Index(content, "local") + 1
		_, err := newCPPParser().Select(context.Background(), "test.cpp", content, offset, 3)
		if !errors.Is(err, ErrNotAName) {
			t.Errorf("Expected ErrNotAName, got %v", err)
		}
		var serr *SelectionError
		if !errors.As(err, &serr) || serr.Offset != offset {
			t.Errorf("Expected *SelectionError at %d, got %v", offset, err)
		}
	})
}

func TestSelectUnreachableCode(t *testing.T) {
	content := "#if 0\nint hidden;\n#endif\nint shown;\n"
	offset := strings.Index(content, "hidden")
	_, err := newCPPParser().Select(context.Background(), "test.cpp", content, offset, len("hidden"))
	if !errors.Is(err, ErrUnreachableCode) {
		t.Errorf("Expected ErrUnreachableCode, got %v", err)
	}

	offset = strings.Index(content, "shown")
	n, err := newCPPParser().Select(context.Background(), "test.cpp", content, offset, len("shown"))
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if name, ok := n.(*ast.Name); !ok || name.Value != "shown" {
		t.Errorf("Expected name shown, got %#v", n)
	}
}
