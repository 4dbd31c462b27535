// Package document provides a high-level abstraction over one parsed C or
// C++ source file. It hides parsing, binding resolution and the declaration
// index behind a small API for lookups, navigation and completion.
package document

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cxxscope/pkg/ast"
	"cxxscope/pkg/completion"
	"cxxscope/pkg/config"
	"cxxscope/pkg/index"
	"cxxscope/pkg/parser"
	"cxxscope/pkg/semantic"
	"cxxscope/pkg/symtab"
	"cxxscope/pkg/utils"
)

// Document is a parsed source file with resolved bindings
type Document struct {
	filename string               // Path the unit was parsed as
	content  string               // Source text
	opts     parser.Options       // Options for reparsing, e.g. completion
	parser   *parser.Parser       // Parser holding the token state of unit
	unit     *ast.TranslationUnit // Parsed tree
	entities []index.Entry        // Declarations, built on first use
}

// Open reads path through reader and parses it with the dialect, macros
// and include paths of cfg. A nil cfg means the defaults.
func Open(ctx context.Context, path string, reader parser.FileReader, cfg *config.Config) (*Document, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if reader == nil {
		reader = parser.OSFileReader{}
	}
	content, err := reader.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	opts := cfg.ParserOptions(nil)
	opts.Reader = reader
	return NewFromContent(ctx, path, content, opts)
}

// NewFromFile creates a new document by loading and parsing a file
func NewFromFile(ctx context.Context, filename string, opts parser.Options) (*Document, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %s: %w", filename, err)
	}

	return NewFromContent(ctx, absPath, string(content), opts)
}

// NewFromContent creates a new document from content with a given name.
// The bindings are resolved eagerly.
func NewFromContent(ctx context.Context, name, content string, opts parser.Options) (*Document, error) {
	opts.Mode = parser.ModeFull
	p := parser.New(opts)

	tu, err := p.Parse(ctx, name, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse content: %w", err)
	}

	return &Document{
		filename: name,
		content:  content,
		opts:     opts,
		parser:   p,
		unit:     tu,
	}, nil
}

// GetFilename returns the document's filename
func (d *Document) GetFilename() string {
	return d.filename
}

// GetContent returns the source text
func (d *Document) GetContent() string {
	return d.content
}

// GetUnit returns the underlying syntax tree (for advanced use cases)
func (d *Document) GetUnit() *ast.TranslationUnit {
	return d.unit
}

// Resolver returns the resolver attached to the unit
func (d *Document) Resolver() *semantic.Resolver {
	return semantic.Of(d.unit)
}

// Entity Lookup Methods

// GetAllEntities returns the declarations of the file in source order
func (d *Document) GetAllEntities() []index.Entry {
	if d.entities == nil {
		d.entities = index.Collect(d.unit)
	}
	return d.entities
}

// FindEntity returns the declarations of a qualified name such as
// "MyNamespace::MyClass::myMethod"
func (d *Document) FindEntity(path string) []index.Entry {
	path = strings.TrimPrefix(path, "::")
	var found []index.Entry
	for _, e := range d.GetAllEntities() {
		if e.QualifiedName == path {
			found = append(found, e)
		}
	}
	return found
}

// FindEntitiesByName finds all declarations with a given name (regardless of scope)
func (d *Document) FindEntitiesByName(name string) []index.Entry {
	var found []index.Entry
	for _, e := range d.GetAllEntities() {
		if e.Name == name {
			found = append(found, e)
		}
	}
	return found
}

// Navigation

// Location is a place a name is declared or defined
type Location struct {
	File          string
	Line          int
	Column        int
	Offset        int
	Length        int
	QualifiedName string
	Kind          string
	Definition    bool
}

func locationOf(n ast.NameNode, b *semantic.Binding, definition bool) Location {
	// N::f is located at f
	r := n.LastName().Range()
	return Location{
		File:          r.File,
		Line:          r.Start.Line,
		Column:        r.Start.Column,
		Offset:        r.Offset(),
		Length:        r.Length(),
		QualifiedName: b.QualifiedName(),
		Kind:          b.EntityKind(),
		Definition:    definition,
	}
}

func locationFromEntry(e index.Entry) Location {
	return Location{
		File:          e.File,
		Line:          e.Line,
		Column:        e.Column,
		Offset:        e.Offset,
		Length:        e.Length,
		QualifiedName: e.QualifiedName,
		Kind:          e.Kind,
		Definition:    e.Definition,
	}
}

// Select returns the node spanning exactly [offset, offset+length)
func (d *Document) Select(offset, length int) (ast.Node, error) {
	return d.parser.SelectNode(d.unit, offset, length)
}

// ErrNoDeclaration is returned when a selection names nothing that can
// be found
var ErrNoDeclaration = errors.New("no declaration found")

// FindDeclaration returns where the name at [offset, offset+length) is
// defined, or declared when no definition is visible. Definitions in other
// files come from store, which may be nil. When the selection is not a
// resolvable name in this file, its text is looked up in store.
func (d *Document) FindDeclaration(ctx context.Context, offset, length int, store *index.Store) ([]Location, error) {
	node, err := d.Select(offset, length)
	if err != nil {
		if errors.Is(err, parser.ErrNotAName) || errors.Is(err, parser.ErrUnreachableCode) {
			return d.lookupIndex(ctx, offset, length, store, err)
		}
		return nil, err
	}
	name, ok := node.(ast.NameNode)
	if !ok {
		return nil, fmt.Errorf("%w: selection is a %s", ErrNoDeclaration, node.Kind())
	}
	b, ok := name.ResolveBinding().(*semantic.Binding)
	if !ok {
		return d.lookupIndex(ctx, offset, length, store, ErrNoDeclaration)
	}

	r := d.Resolver()
	var out []Location
	for _, n := range r.Definitions(b) {
		out = append(out, locationOf(n, b, true))
	}
	if len(out) > 0 {
		return out, nil
	}
	if store != nil {
		// defined in another file
		indexed, err := d.lookupName(ctx, b.QualifiedName(), store, ErrNoDeclaration)
		if err != nil && !errors.Is(err, ErrNoDeclaration) {
			return nil, err
		}
		for _, l := range indexed {
			if l.Definition {
				out = append(out, l)
			}
		}
		if len(out) > 0 {
			return out, nil
		}
	}
	for _, n := range r.Declarations(b) {
		out = append(out, locationOf(n, b, false))
	}
	if len(out) == 0 {
		return nil, ErrNoDeclaration
	}
	return out, nil
}

func (d *Document) lookupIndex(ctx context.Context, offset, length int, store *index.Store, cause error) ([]Location, error) {
	if store == nil || offset < 0 || offset+length > len(d.content) {
		return nil, cause
	}
	return d.lookupName(ctx, d.content[offset:offset+length], store, cause)
}

func (d *Document) lookupName(ctx context.Context, text string, store *index.Store, cause error) ([]Location, error) {
	text = strings.TrimSpace(text)
	if !utils.IsQualifiedName(text) {
		return nil, cause
	}
	entries, err := store.Lookup(ctx, utils.JoinPath(utils.SplitPath(utils.RemoveTemplateParams(text))))
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, cause
	}
	out := make([]Location, len(entries))
	for i, e := range entries {
		out[i] = locationFromEntry(e)
	}
	return out, nil
}

// References returns every use of the entity named at [offset, offset+length)
// in this file, declarations included
func (d *Document) References(offset, length int) ([]Location, error) {
	node, err := d.Select(offset, length)
	if err != nil {
		return nil, err
	}
	name, ok := node.(ast.NameNode)
	if !ok {
		return nil, ErrNoDeclaration
	}
	b, ok := name.ResolveBinding().(*semantic.Binding)
	if !ok {
		return nil, ErrNoDeclaration
	}
	r := d.Resolver()
	defs := r.Definitions(b)
	var out []Location
	for _, n := range append(append([]ast.NameNode(nil), r.Declarations(b)...), r.References(b)...) {
		out = append(out, locationOf(n, b, slices.Contains(defs, n)))
	}
	slices.SortFunc(out, func(a, b Location) int {
		if a.File != b.File {
			return strings.Compare(a.File, b.File)
		}
		return a.Offset - b.Offset
	})
	return out, nil
}

// Complete returns completion candidates for the text before offset. The
// file is parsed again in completion mode; the document is not changed.
func (d *Document) Complete(ctx context.Context, offset int, opts completion.Options) ([]completion.Candidate, error) {
	p := parser.New(d.opts)
	node, err := p.Complete(ctx, d.filename, d.content, offset)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, nil
	}
	return opts.Names(node.Unit, node)
}

// Statistics

// Stats counts the names of the document by how they resolved
type Stats struct {
	Declarations int
	Definitions  int
	References   int
	Unresolved   int
	Ambiguous    int
	Problems     int
}

type nameCounter struct {
	ast.BaseCPPVisitor
	r     *semantic.Resolver
	stats *Stats
}

func (c *nameCounter) VisitName(n ast.NameNode) ast.Directive {
	switch b := n.ResolveBinding().(type) {
	case *semantic.Binding:
		switch {
		case slices.Contains(c.r.Definitions(b), n):
			c.stats.Definitions++
		case slices.Contains(c.r.Declarations(b), n):
			c.stats.Declarations++
		default:
			c.stats.References++
		}
	case *semantic.ProblemBinding:
		if errors.Is(b.Err, symtab.ErrAmbiguous) {
			c.stats.Ambiguous++
		} else {
			c.stats.Unresolved++
		}
	}
	return ast.Continue
}

// GetStats returns name statistics for the document
func (d *Document) GetStats() *Stats {
	stats := &Stats{Problems: len(d.unit.Problems()) + len(d.unit.PreprocessorProblems())}
	r := d.Resolver()
	if r == nil {
		return stats
	}
	ast.Walk(d.unit, &nameCounter{r: r, stats: stats}, ast.VisitOptions{Names: true})
	return stats
}

// Validation Methods

// ValidationIssue is a syntax problem or a name that did not resolve
type ValidationIssue struct {
	Line      int
	Column    int
	Name      string
	IssueType string
	Message   string
	Severity  string // "error", "warning"
}

type issueCollector struct {
	ast.BaseCPPVisitor
	file   string
	issues []ValidationIssue
}

func (c *issueCollector) VisitName(n ast.NameNode) ast.Directive {
	p, ok := n.ResolveBinding().(*semantic.ProblemBinding)
	if !ok {
		return ast.Continue
	}
	r := n.Range()
	if r.File != "" && r.File != c.file {
		return ast.Continue
	}
	issueType := "unresolved_name"
	switch {
	case errors.Is(p.Err, symtab.ErrAmbiguous):
		issueType = "ambiguous_name"
	case len(p.Candidates) > 0:
		issueType = "no_viable_overload"
	}
	c.issues = append(c.issues, ValidationIssue{
		Line:      r.Start.Line,
		Column:    r.Start.Column,
		Name:      p.Name,
		IssueType: issueType,
		Message:   p.Reason(),
		Severity:  "warning",
	})
	return ast.Continue
}

// Validate reports syntax problems and unresolved names in source order
func (d *Document) Validate() []ValidationIssue {
	c := &issueCollector{file: d.filename}
	for _, p := range append(d.unit.PreprocessorProblems(), d.unit.Problems()...) {
		r := p.Range()
		c.issues = append(c.issues, ValidationIssue{
			Line:      r.Start.Line,
			Column:    r.Start.Column,
			IssueType: "syntax",
			Message:   p.Message,
			Severity:  "error",
		})
	}
	ast.Walk(d.unit, c, ast.VisitOptions{Names: true})
	slices.SortStableFunc(c.issues, func(a, b ValidationIssue) int {
		if a.Line != b.Line {
			return a.Line - b.Line
		}
		return a.Column - b.Column
	})
	return c.issues
}

// String returns a string representation of the document
func (d *Document) String() string {
	stats := d.GetStats()
	return fmt.Sprintf("Document[%s]: %d declarations, %d definitions, %d references, %d unresolved",
		filepath.Base(d.filename), stats.Declarations, stats.Definitions, stats.References, stats.Unresolved+stats.Ambiguous)
}
