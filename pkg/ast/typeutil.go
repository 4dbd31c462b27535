package ast

import "strings"

// TypeString renders the type formed by spec and the (possibly named)
// declarator d as an abstract type-id, e.g. "const char * [10]" or
// "int (*)(int)". The declared name is omitted.
func TypeString(spec DeclSpecifier, d *Declarator) string {
	base := DeclSpecifierString(spec)
	abs := ""
	if d != nil {
		abs = DeclaratorTypeString(d)
	}
	switch {
	case base == "":
		return abs
	case abs == "":
		return base
	default:
		return base + " " + abs
	}
}

// TypeIDString renders a type-id
func TypeIDString(t *TypeID) string {
	if t == nil {
		return ""
	}
	return TypeString(t.Specifier, t.Declarator)
}

// GetType returns the type of the entity declared by d. Nested
// declarators report the type of the full declarator they belong to.
func GetType(d *Declarator) string {
	for {
		outer, ok := d.Parent().(*Declarator)
		if !ok {
			break
		}
		d = outer
	}
	return TypeString(OwningSpecifier(d), d)
}

// OwningSpecifier returns the decl-specifier that applies to d
func OwningSpecifier(d *Declarator) DeclSpecifier {
	switch p := d.Parent().(type) {
	case *SimpleDeclaration:
		return p.Specifier
	case *FunctionDefinition:
		return p.Specifier
	case *ParameterDeclaration:
		return p.Specifier
	case *TypeID:
		return p.Specifier
	case *Declarator:
		return OwningSpecifier(p)
	}
	return nil
}

// DeclSpecifierString renders the type part of a decl-specifier. Storage
// classes and function specifiers are not part of a type and are left out.
func DeclSpecifierString(spec DeclSpecifier) string {
	if spec == nil {
		return ""
	}
	var parts []string
	f := spec.Flags()
	if f.Const {
		parts = append(parts, "const")
	}
	if f.Volatile {
		parts = append(parts, "volatile")
	}
	if f.Restrict {
		parts = append(parts, "restrict")
	}
	switch s := spec.(type) {
	case *SimpleDeclSpecifier:
		if s.Signed {
			parts = append(parts, "signed")
		}
		if s.Unsigned {
			parts = append(parts, "unsigned")
		}
		if s.Short {
			parts = append(parts, "short")
		}
		if s.Long {
			parts = append(parts, "long")
		}
		if s.LongLong {
			parts = append(parts, "long long")
		}
		if s.Type != TypeUnspecified {
			parts = append(parts, s.Type.String())
		}
	case *NamedTypeSpecifier:
		if s.Typename {
			parts = append(parts, "typename")
		}
		if s.Name != nil {
			parts = append(parts, s.Name.String())
		}
	case *CompositeTypeSpecifier:
		parts = append(parts, s.Key.String())
		if s.Name != nil && s.Name.String() != "" {
			parts = append(parts, s.Name.String())
		}
	case *ElaboratedTypeSpecifier:
		parts = append(parts, s.Elaborated.String())
		if s.Name != nil {
			parts = append(parts, s.Name.String())
		}
	case *EnumerationSpecifier:
		parts = append(parts, "enum")
		if s.Name != nil && s.Name.String() != "" {
			parts = append(parts, s.Name.String())
		}
	}
	return strings.Join(parts, " ")
}

// DeclaratorTypeString renders d as an abstract declarator
func DeclaratorTypeString(d *Declarator) string {
	if d == nil {
		return ""
	}
	ptr := PointerOperatorsString(d.PointerOps)
	var suffix strings.Builder
	if d.Nested != nil {
		if inner := DeclaratorTypeString(d.Nested); inner != "" {
			suffix.WriteString("(" + inner + ")")
		}
	}
	for _, a := range d.ArrayModifiers {
		suffix.WriteString("[")
		if a.Size != nil {
			suffix.WriteString(ExpressionString(a.Size))
		}
		suffix.WriteString("]")
	}
	if d.IsFunction {
		suffix.WriteString(ParameterListString(d))
		if d.Const {
			suffix.WriteString(" const")
		}
		if d.Volatile {
			suffix.WriteString(" volatile")
		}
	}
	switch {
	case ptr == "":
		return suffix.String()
	case suffix.Len() == 0:
		return ptr
	default:
		return ptr + " " + suffix.String()
	}
}

// ParameterListString renders the parenthesised parameter types of a
// function declarator
func ParameterListString(d *Declarator) string {
	params := make([]string, 0, len(d.Parameters)+1)
	for _, p := range d.Parameters {
		params = append(params, TypeString(p.Specifier, p.Declarator))
	}
	if d.VarArgs {
		params = append(params, "...")
	}
	return "(" + strings.Join(params, ", ") + ")"
}

// PointerOperatorsString renders a pointer operator sequence such as
// "* const *" or "&"
func PointerOperatorsString(ops []*PointerOperator) string {
	var b strings.Builder
	for i, op := range ops {
		if i > 0 && (ops[i-1].Const || ops[i-1].Volatile || ops[i-1].Restrict) {
			b.WriteString(" ")
		}
		switch op.Op {
		case PointerOp:
			b.WriteString("*")
		case ReferenceOp:
			b.WriteString("&")
		case RValueReferenceOp:
			b.WriteString("&&")
		case PointerToMemberOp:
			if op.Class != nil {
				b.WriteString(op.Class.String())
			}
			b.WriteString("::*")
		}
		if op.Const {
			b.WriteString(" const")
		}
		if op.Volatile {
			b.WriteString(" volatile")
		}
		if op.Restrict {
			b.WriteString(" restrict")
		}
	}
	return b.String()
}

// ExpressionString renders an expression back to compact source text
func ExpressionString(e Expression) string {
	if e == nil {
		return ""
	}
	switch x := e.(type) {
	case *IdExpression:
		if x.Name == nil {
			return ""
		}
		return x.Name.String()
	case *LiteralExpression:
		return x.Value
	case *UnaryExpression:
		operand := ExpressionString(x.Operand)
		switch x.Op {
		case UnaryBracketed:
			return "(" + operand + ")"
		case UnaryPostfixIncr, UnaryPostfixDecr:
			return operand + x.Op.Token()
		case UnarySizeof, UnaryThrow, UnaryTypeid, UnaryAlignof:
			if operand == "" {
				return x.Op.Token()
			}
			return x.Op.Token() + " " + operand
		default:
			return x.Op.Token() + operand
		}
	case *BinaryExpression:
		return ExpressionString(x.Operand1) + " " + x.Op.Token() + " " + ExpressionString(x.Operand2)
	case *ConditionalExpression:
		return ExpressionString(x.Condition) + " ? " + ExpressionString(x.Positive) + " : " + ExpressionString(x.Negative)
	case *CastExpression:
		if x.Op == CastC {
			return "(" + TypeIDString(x.TypeID) + ")" + ExpressionString(x.Operand)
		}
		return x.Op.String() + "<" + TypeIDString(x.TypeID) + ">(" + ExpressionString(x.Operand) + ")"
	case *FunctionCallExpression:
		return ExpressionString(x.Function) + "(" + expressionsString(x.Arguments) + ")"
	case *ArraySubscriptExpression:
		return ExpressionString(x.Array) + "[" + ExpressionString(x.Subscript) + "]"
	case *FieldReference:
		sep := "."
		if x.Arrow {
			sep = "->"
		}
		field := ""
		if x.Field != nil {
			field = x.Field.String()
		}
		return ExpressionString(x.Owner) + sep + field
	case *TypeIDExpression:
		return x.Op.String() + "(" + TypeIDString(x.TypeID) + ")"
	case *ExpressionList:
		return expressionsString(x.Expressions)
	case *NewExpression:
		var b strings.Builder
		if x.Global {
			b.WriteString("::")
		}
		b.WriteString("new ")
		if len(x.Placement) > 0 {
			b.WriteString("(" + expressionsString(x.Placement) + ") ")
		}
		b.WriteString(TypeIDString(x.TypeID))
		if x.HasInit {
			b.WriteString("(" + expressionsString(x.Initializer) + ")")
		}
		return b.String()
	case *DeleteExpression:
		prefix := "delete "
		if x.Vectored {
			prefix = "delete[] "
		}
		if x.Global {
			prefix = "::" + prefix
		}
		return prefix + ExpressionString(x.Operand)
	case *SimpleTypeConstructorExpression:
		return DeclSpecifierString(x.Specifier) + "(" + expressionsString(x.Arguments) + ")"
	case *ProblemExpression:
		return ""
	}
	return ""
}

func expressionsString(list []Expression) string {
	parts := make([]string, 0, len(list))
	for _, e := range list {
		parts = append(parts, ExpressionString(e))
	}
	return strings.Join(parts, ", ")
}
