package symtab

import (
	"strconv"
	"strings"
)

// Kind tags a declaration or a type. The order matters: lookups filter on
// a [lower, upper] range of kinds.
type Kind int

const (
	KindUndef Kind = iota
	KindType       // typedef
	KindNamespace
	KindClass
	KindStruct
	KindUnion
	KindEnumeration
	KindFunction
	KindBool
	KindChar
	KindWChar
	KindInt
	KindFloat
	KindDouble
	KindVoid
	KindEnumerator
	KindBlock
	KindTemplate
)

func (k Kind) String() string {
	switch k {
	case KindUndef:
		return "undef"
	case KindType:
		return "typedef"
	case KindNamespace:
		return "namespace"
	case KindClass:
		return "class"
	case KindStruct:
		return "struct"
	case KindUnion:
		return "union"
	case KindEnumeration:
		return "enum"
	case KindFunction:
		return "function"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindWChar:
		return "wchar_t"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindVoid:
		return "void"
	case KindEnumerator:
		return "enumerator"
	case KindBlock:
		return "block"
	case KindTemplate:
		return "template"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// IsClass reports whether k is class, struct or union
func (k Kind) IsClass() bool { return k >= KindClass && k <= KindUnion }

// IsTypeName reports whether a declaration of kind k names a class or an
// enumeration. These are the names hidden by objects and functions.
func (k Kind) IsTypeName() bool { return k >= KindClass && k <= KindEnumeration }

// IsArithmetic reports whether k is a builtin arithmetic type
func (k Kind) IsArithmetic() bool { return k >= KindBool && k <= KindDouble }

// IsScope reports whether declarations of kind k own members
func (k Kind) IsScope() bool {
	switch k {
	case KindNamespace, KindClass, KindStruct, KindUnion, KindEnumeration, KindFunction, KindBlock, KindTemplate:
		return true
	}
	return false
}

// Modifier bits of a builtin type
type Modifier uint8

const (
	ModShort Modifier = 1 << iota
	ModLong
	ModSigned
	ModUnsigned
	// ModNullPointer marks the type of a null pointer constant (0, nullptr)
	ModNullPointer
)

// CV is a cv-qualification
type CV uint8

const (
	CVConst CV = 1 << iota
	CVVolatile

	CVNone CV = 0
)

// Const reports whether c includes const
func (c CV) Const() bool { return c&CVConst != 0 }

// Volatile reports whether c includes volatile
func (c CV) Volatile() bool { return c&CVVolatile != 0 }

// Covers reports whether c is at least as qualified as o
func (c CV) Covers(o CV) bool { return c&o == o }

// distance counts the qualifiers c adds to o
func (c CV) distance(o CV) int {
	n := 0
	for _, q := range []CV{CVConst, CVVolatile} {
		if c&q != 0 && o&q == 0 {
			n++
		}
	}
	return n
}

func (c CV) String() string {
	switch c {
	case CVConst:
		return "const"
	case CVVolatile:
		return "volatile"
	case CVConst | CVVolatile:
		return "const volatile"
	}
	return ""
}

// PtrKind is the flavour of a pointer operator
type PtrKind int

const (
	PtrPointer PtrKind = iota
	PtrReference
	PtrArray
	PtrMember
)

// PtrOp is one pointer operator applied to a type, outermost last
type PtrOp struct {
	Kind  PtrKind
	CV    CV
	// Class owns the member for PtrMember
	Class DeclID
}

// TypeInfo describes the type of a declaration, parameter or expression
type TypeInfo struct {
	Kind       Kind
	Mods       Modifier
	// CV qualifies the base type, as in `const int`
	CV         CV
	PtrOps     []PtrOp
	// Named is the declaration of a class, enumeration or typedef type
	Named      DeclID
	HasDefault bool
}

// Builtin returns the TypeInfo of a builtin type
func Builtin(k Kind) TypeInfo { return TypeInfo{Kind: k} }

// Named returns the TypeInfo of a user-defined type
func Named(k Kind, id DeclID) TypeInfo { return TypeInfo{Kind: k, Named: id} }

// With returns a copy of t with op appended
func (t TypeInfo) With(op PtrOp) TypeInfo {
	out := t
	out.PtrOps = append(append([]PtrOp(nil), t.PtrOps...), op)
	return out
}

// IsReference reports whether the outermost operator is a reference
func (t TypeInfo) IsReference() bool {
	return len(t.PtrOps) > 0 && t.PtrOps[len(t.PtrOps)-1].Kind == PtrReference
}

// StripReference removes an outermost reference
func (t TypeInfo) StripReference() TypeInfo {
	if !t.IsReference() {
		return t
	}
	out := t
	out.PtrOps = t.PtrOps[:len(t.PtrOps)-1]
	return out
}

// IsPointer reports whether the outermost operator is a pointer or an
// array, which decays to one
func (t TypeInfo) IsPointer() bool {
	if len(t.PtrOps) == 0 {
		return false
	}
	k := t.PtrOps[len(t.PtrOps)-1].Kind
	return k == PtrPointer || k == PtrArray
}

// Pointee removes the outermost pointer operator
func (t TypeInfo) Pointee() TypeInfo {
	out := t
	out.PtrOps = t.PtrOps[:len(t.PtrOps)-1]
	return out
}

// TopCV returns the qualification of the outermost level
func (t TypeInfo) TopCV() CV {
	if len(t.PtrOps) == 0 {
		return t.CV
	}
	return t.PtrOps[len(t.PtrOps)-1].CV
}

// IsVoid reports whether t is plain void
func (t TypeInfo) IsVoid() bool { return t.Kind == KindVoid && len(t.PtrOps) == 0 }

// IsNullPointerConstant reports whether t is the type of 0 or nullptr
func (t TypeInfo) IsNullPointerConstant() bool { return t.Mods&ModNullPointer != 0 }

// Equal compares two types, ignoring default arguments and top-level cv
func (t TypeInfo) Equal(o TypeInfo) bool {
	if t.Kind != o.Kind || t.Named != o.Named || t.Mods&^ModNullPointer != o.Mods&^ModNullPointer {
		return false
	}
	a, b := decay(t.PtrOps), decay(o.PtrOps)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].Class != b[i].Class {
			return false
		}
		top := i == len(a)-1 && a[i].Kind != PtrReference
		if !top && a[i].CV != b[i].CV {
			return false
		}
	}
	return len(a) == 0 || t.CV == o.CV
}

// decay turns an outermost array into a pointer
func decay(ops []PtrOp) []PtrOp {
	if len(ops) == 0 || ops[len(ops)-1].Kind != PtrArray {
		return ops
	}
	out := append([]PtrOp(nil), ops...)
	out[len(out)-1].Kind = PtrPointer
	return out
}

// String renders t without resolving named types. Use Table.TypeString
// for user-defined names.
func (t TypeInfo) String() string {
	return t.render(func(id DeclID) string { return "#" + strconv.Itoa(int(id)) })
}

func (t TypeInfo) render(name func(DeclID) string) string {
	var b strings.Builder
	if cv := t.CV.String(); cv != "" {
		b.WriteString(cv + " ")
	}
	if t.Mods&ModUnsigned != 0 {
		b.WriteString("unsigned ")
	}
	if t.Mods&ModSigned != 0 {
		b.WriteString("signed ")
	}
	if t.Mods&ModShort != 0 {
		b.WriteString("short ")
	}
	if t.Mods&ModLong != 0 {
		b.WriteString("long ")
	}
	if t.Named != NoDecl {
		b.WriteString(name(t.Named))
	} else {
		b.WriteString(t.Kind.String())
	}
	for _, op := range t.PtrOps {
		switch op.Kind {
		case PtrPointer:
			b.WriteString(" *")
		case PtrReference:
			b.WriteString(" &")
		case PtrArray:
			b.WriteString(" []")
		case PtrMember:
			b.WriteString(" " + name(op.Class) + "::*")
		}
		if cv := op.CV.String(); cv != "" {
			b.WriteString(" " + cv)
		}
	}
	return b.String()
}
