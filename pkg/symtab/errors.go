package symtab

import "fmt"

// ErrorCode identifies a symbol table failure
type ErrorCode string

const (
	// CodeAmbiguous means a lookup found more than one viable entity
	CodeAmbiguous ErrorCode = "AMBIGUOUS"
	// CodeInvalidOverload means a declaration clashes with an existing one
	CodeInvalidOverload ErrorCode = "INVALID_OVERLOAD"
	// CodeCircularInheritance means a class is its own base
	CodeCircularInheritance ErrorCode = "CIRCULAR_INHERITANCE"
	// CodeBadTypeInfo means a lookup was given a malformed type filter
	CodeBadTypeInfo ErrorCode = "BAD_TYPE_INFO"
)

// Error is returned by every failing symbol table operation. Match it
// against the Err* values with errors.Is.
type Error struct {
	Code ErrorCode
	Name string
	// Candidates holds the competing declarations of an ambiguity
	Candidates []DeclID
}

// Sentinels for errors.Is
var (
	ErrAmbiguous           = &Error{Code: CodeAmbiguous}
	ErrInvalidOverload     = &Error{Code: CodeInvalidOverload}
	ErrCircularInheritance = &Error{Code: CodeCircularInheritance}
	ErrBadTypeInfo         = &Error{Code: CodeBadTypeInfo}
)

func newError(code ErrorCode, name string, candidates ...DeclID) *Error {
	return &Error{Code: code, Name: name, Candidates: candidates}
}

func (e *Error) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("symtab [%s]", e.Code)
	}
	return fmt.Sprintf("symtab [%s] %q", e.Code, e.Name)
}

// Is reports whether target is an *Error with the same code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}
