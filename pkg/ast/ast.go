// Package ast defines the syntax tree produced by the C/C++ parser.
//
// Nodes are plain structs grouped by category interfaces (Declaration,
// DeclSpecifier, Expression, Statement, NameNode, ...). Every node keeps a
// non-owning link to its parent and a Property naming the role it plays in
// that parent. Links are established by Link once a subtree is complete.
package ast

import (
	"fmt"
	"strings"
)

// Language selects the grammar a translation unit was parsed with
type Language int

const (
	LanguageC Language = iota
	LanguageCPP
)

func (l Language) String() string {
	switch l {
	case LanguageC:
		return "c"
	case LanguageCPP:
		return "c++"
	default:
		return "unknown"
	}
}

// ParseLanguage maps a dialect name ("c", "c++", "cpp", "cxx") to a Language
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c":
		return LanguageC, nil
	case "c++", "cpp", "cxx", "":
		return LanguageCPP, nil
	default:
		return LanguageCPP, fmt.Errorf("unknown dialect %q", s)
	}
}

// Position represents a position in the source file
type Position struct {
	Line   int
	Column int
	Offset int
}

// Range represents a range in the source file. End.Offset is exclusive.
type Range struct {
	Start Position
	End   Position
	File  string
}

// Offset returns the start offset of the range
func (r Range) Offset() int { return r.Start.Offset }

// Length returns the number of bytes the range covers
func (r Range) Length() int { return r.End.Offset - r.Start.Offset }

// Covers reports whether [offset, offset+length) lies inside the range
func (r Range) Covers(offset, length int) bool {
	return offset >= r.Start.Offset && offset+length <= r.End.Offset
}

// Exactly reports whether the range is exactly [offset, offset+length)
func (r Range) Exactly(offset, length int) bool {
	return r.Start.Offset == offset && r.Length() == length
}

// Empty reports whether the range covers no bytes
func (r Range) Empty() bool { return r.Length() <= 0 }

// Join returns the smallest range covering both r and o. Ranges in
// different files do not combine; r is returned unchanged.
func (r Range) Join(o Range) Range {
	if r.File != o.File {
		return r
	}
	out := r
	if o.Start.Offset < out.Start.Offset {
		out.Start = o.Start
	}
	if o.End.Offset > out.End.Offset {
		out.End = o.End
	}
	return out
}

// Node is implemented by every syntax tree node
type Node interface {
	Kind() Kind
	Parent() Node
	Property() Property
	Range() Range
	SetRange(r Range)
	setParent(parent Node, prop Property)
	eachChild(fn func(Node, Property))
}

// node carries the state shared by all nodes
type node struct {
	parent Node
	prop   Property
	rng    Range
}

func (n *node) Parent() Node { return n.parent }
func (n *node) Property() Property { return n.prop }
func (n *node) Range() Range { return n.rng }
func (n *node) SetRange(r Range) { n.rng = r }
func (n *node) setParent(p Node, pr Property) {
	n.parent = p
	n.prop = pr
}

// Children returns the direct children of n in source order
func Children(n Node) []Node {
	var out []Node
	n.eachChild(func(c Node, _ Property) {
		out = append(out, c)
	})
	return out
}

// EachChild calls fn for every direct child of n with its property
func EachChild(n Node, fn func(child Node, prop Property)) {
	n.eachChild(fn)
}

// Link sets parent links and property tags for the whole subtree rooted at n
func Link(n Node) {
	n.eachChild(func(c Node, p Property) {
		c.setParent(n, p)
		Link(c)
	})
}

// Attach links a single child into parent without descending
func Attach(parent, child Node, prop Property) {
	child.setParent(parent, prop)
}

// TranslationUnitOf walks up the parent chain to the root translation unit
func TranslationUnitOf(n Node) *TranslationUnit {
	for n != nil {
		if tu, ok := n.(*TranslationUnit); ok {
			return tu
		}
		n = n.Parent()
	}
	return nil
}

// Ancestors returns the chain of parents of n, innermost first
func Ancestors(n Node) []Node {
	var out []Node
	for p := n.Parent(); p != nil; p = p.Parent() {
		out = append(out, p)
	}
	return out
}

// Binding is the semantic entity a name resolves to
type Binding interface {
	BindingName() string
}

// BindingResolver computes bindings for names of a translation unit
type BindingResolver interface {
	ResolveBinding(name NameNode) Binding
}

// TranslationUnit is the root node for one preprocessed source file
type TranslationUnit struct {
	node
	FilePath     string
	Language     Language
	Declarations []Declaration

	resolver   BindingResolver
	ppProblems []*Problem
}

func (*TranslationUnit) Kind() Kind { return KindTranslationUnit }

func (tu *TranslationUnit) eachChild(fn func(Node, Property)) {
	for _, d := range tu.Declarations {
		fn(d, PropOwnedDeclaration)
	}
}

// SetResolver installs the component that resolves bindings on demand
func (tu *TranslationUnit) SetResolver(r BindingResolver) { tu.resolver = r }

// Resolver returns the installed binding resolver, if any
func (tu *TranslationUnit) Resolver() BindingResolver { return tu.resolver }

// AddPreprocessorProblem records a problem reported while producing tokens
func (tu *TranslationUnit) AddPreprocessorProblem(p *Problem) {
	tu.ppProblems = append(tu.ppProblems, p)
}

// PreprocessorProblems returns the problems reported by the preprocessor
func (tu *TranslationUnit) PreprocessorProblems() []*Problem {
	return tu.ppProblems
}

// Problems collects every problem node in the tree
func (tu *TranslationUnit) Problems() []*Problem {
	var out []*Problem
	collectProblems(tu, &out)
	return out
}

func collectProblems(n Node, out *[]*Problem) {
	if p, ok := n.(*Problem); ok {
		*out = append(*out, p)
	}
	n.eachChild(func(c Node, _ Property) {
		collectProblems(c, out)
	})
}

// ProblemID classifies problems
type ProblemID int

const (
	ProblemSyntaxError ProblemID = iota
	ProblemLexical
	ProblemIncludeNotFound
	ProblemInvalidDirective
	ProblemUnbalancedConditional
	ProblemMacroArguments
	ProblemDirectiveError
)

func (id ProblemID) String() string {
	switch id {
	case ProblemSyntaxError:
		return "syntax error"
	case ProblemLexical:
		return "lexical error"
	case ProblemIncludeNotFound:
		return "include not found"
	case ProblemInvalidDirective:
		return "invalid directive"
	case ProblemUnbalancedConditional:
		return "unbalanced conditional"
	case ProblemMacroArguments:
		return "bad macro arguments"
	case ProblemDirectiveError:
		return "#error"
	default:
		return "problem"
	}
}

// Problem marks a construct the parser or preprocessor could not handle
type Problem struct {
	node
	ID      ProblemID
	Message string
}

func (*Problem) Kind() Kind { return KindProblem }
func (*Problem) eachChild(func(Node, Property)) {}
func (p *Problem) String() string {
	r := p.Range()
	return fmt.Sprintf("%s at line %d: %s", p.ID, r.Start.Line, p.Message)
}
