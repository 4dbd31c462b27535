// Package formatter renders syntax trees and declaration lists as
// indented text
package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"cxxscope/pkg/ast"
	"cxxscope/pkg/index"
	"cxxscope/pkg/utils"
)

// Formatter handles tree and outline rendering
type Formatter struct {
	indentSize int
	useSpaces  bool

	// ShowRanges appends line:column ranges to every node
	ShowRanges bool
	// ShowProperties prefixes nodes with their role in the parent
	ShowProperties bool
	// ShowBindings resolves names and prints what they denote
	ShowBindings bool
}

// New creates a new formatter
func New() *Formatter {
	return &Formatter{
		indentSize: 4,
		useSpaces:  true,
	}
}

// WithIndent sets the indentation width; zero switches to tabs
func (f *Formatter) WithIndent(size int) *Formatter {
	f.indentSize = size
	f.useSpaces = size > 0
	return f
}

// FormatTree renders the tree rooted at n, one node per line
func (f *Formatter) FormatTree(n ast.Node) string {
	var b strings.Builder
	f.writeNode(&b, n, ast.PropNone, 0)
	return b.String()
}

// WriteTree writes the rendering of n to w
func (f *Formatter) WriteTree(w io.Writer, n ast.Node) error {
	_, err := io.WriteString(w, f.FormatTree(n))
	return err
}

func (f *Formatter) writeNode(b *strings.Builder, n ast.Node, prop ast.Property, depth int) {
	b.WriteString(f.getIndent(depth))
	if f.ShowProperties && prop != ast.PropNone {
		b.WriteString(prop.String())
		b.WriteString(": ")
	}
	b.WriteString(n.Kind().String())
	if label := f.label(n); label != "" {
		b.WriteString(" ")
		b.WriteString(label)
	}
	if f.ShowRanges {
		r := n.Range()
		fmt.Fprintf(b, " [%d:%d-%d:%d]", r.Start.Line, r.Start.Column, r.End.Line, r.End.Column)
	}
	b.WriteString("\n")

	ast.EachChild(n, func(c ast.Node, p ast.Property) {
		f.writeNode(b, c, p, depth+1)
	})
}

func (f *Formatter) label(n ast.Node) string {
	switch x := n.(type) {
	case *ast.TranslationUnit:
		return x.FilePath
	case *ast.LiteralExpression:
		return x.Value
	case *ast.Problem:
		return strconv.Quote(x.Message)
	case ast.NameNode:
		out := strconv.Quote(x.String())
		if !f.ShowBindings {
			return out
		}
		switch b := x.ResolveBinding().(type) {
		case nil:
		case fmt.Stringer:
			out += " -> " + b.String()
		default:
			out += " -> " + b.BindingName()
		}
		return out
	}
	return ""
}

// FormatOutline renders declarations indented by the depth of their
// qualified names. Entries of the same name are listed once per kind and
// marked when one of them is a definition.
func (f *Formatter) FormatOutline(entries []index.Entry) string {
	var b strings.Builder
	seen := make(map[string]int)
	var lines []outlineLine
	for _, e := range entries {
		key := e.Kind + " " + e.QualifiedName
		if i, ok := seen[key]; ok {
			lines[i].definition = lines[i].definition || e.Definition
			continue
		}
		seen[key] = len(lines)
		lines = append(lines, outlineLine{entry: e, definition: e.Definition})
	}
	for _, l := range lines {
		depth := len(utils.SplitPath(l.entry.QualifiedName)) - 1
		if depth < 0 {
			depth = 0
		}
		b.WriteString(f.getIndent(depth))
		fmt.Fprintf(&b, "%s %s", l.entry.Kind, l.entry.Name)
		if l.definition {
			b.WriteString(" (defined)")
		}
		fmt.Fprintf(&b, " %d:%d\n", l.entry.Line, l.entry.Column)
	}
	return b.String()
}

type outlineLine struct {
	entry      index.Entry
	definition bool
}

// FormatLocation renders file:line:column
func FormatLocation(file string, line, column int) string {
	return file + ":" + strconv.Itoa(line) + ":" + strconv.Itoa(column)
}

// getIndent returns the indentation string for a given depth
func (f *Formatter) getIndent(depth int) string {
	if f.useSpaces {
		return strings.Repeat(" ", depth*f.indentSize)
	}
	return strings.Repeat("\t", depth)
}
