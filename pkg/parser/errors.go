package parser

import (
	"errors"
	"fmt"

	"cxxscope/pkg/ast"
)

// ParseError is returned by a FailFast parse for the first problem found
type ParseError struct {
	File    string
	Problem *ast.Problem
}

func (e *ParseError) Error() string {
	if e.Problem == nil {
		return fmt.Sprintf("%s: parse failed", e.File)
	}
	r := e.Problem.Range()
	return fmt.Sprintf("%s:%d:%d: %s", e.File, r.Start.Line, r.Start.Column, e.Problem.Message)
}

// Selection failures. Callers tell them apart with errors.Is to decide
// whether to fall back to an index lookup.
var (
	ErrNotAName        = errors.New("selection is not a name")
	ErrUnreachableCode = errors.New("selection is in unreachable code")
	ErrNotImplemented  = errors.New("not implemented")
)

// SelectionError reports why a selection could not be mapped to a node
type SelectionError struct {
	Offset int
	Length int
	Err    error
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("select [%d,+%d): %v", e.Offset, e.Length, e.Err)
}

func (e *SelectionError) Unwrap() error { return e.Err }
