package ast

// Expression is implemented by every expression node
type Expression interface {
	Node
	expressionNode()
}

type exprNode struct{ node }

func (*exprNode) expressionNode() {}

// IdExpression is a name used as an expression
type IdExpression struct {
	exprNode
	Name NameNode
}

func (*IdExpression) Kind() Kind { return KindIdExpression }

func (e *IdExpression) eachChild(fn func(Node, Property)) {
	if e.Name != nil {
		fn(e.Name, PropIDName)
	}
}

// LiteralKind classifies literal tokens
type LiteralKind int

const (
	LiteralInteger LiteralKind = iota
	LiteralFloat
	LiteralChar
	LiteralString
	LiteralTrue
	LiteralFalse
	LiteralThis
	LiteralNullptr
)

// LiteralExpression is a number, character, string, boolean or `this`
type LiteralExpression struct {
	exprNode
	Literal LiteralKind
	Value   string
}

func (*LiteralExpression) Kind() Kind                     { return KindLiteralExpression }
func (*LiteralExpression) eachChild(func(Node, Property)) {}

// UnaryOp is the operator of a unary expression
type UnaryOp int

const (
	UnaryPrefixIncr UnaryOp = iota
	UnaryPrefixDecr
	UnaryPlus
	UnaryMinus
	UnaryStar
	UnaryAmper
	UnaryTilde
	UnaryNot
	UnarySizeof
	UnaryPostfixIncr
	UnaryPostfixDecr
	UnaryBracketed
	UnaryThrow
	UnaryTypeid
	UnaryAlignof
)

var unaryTokens = map[UnaryOp]string{
	UnaryPrefixIncr:  "++",
	UnaryPrefixDecr:  "--",
	UnaryPlus:        "+",
	UnaryMinus:       "-",
	UnaryStar:        "*",
	UnaryAmper:       "&",
	UnaryTilde:       "~",
	UnaryNot:         "!",
	UnarySizeof:      "sizeof",
	UnaryPostfixIncr: "++",
	UnaryPostfixDecr: "--",
	UnaryThrow:       "throw",
	UnaryTypeid:      "typeid",
	UnaryAlignof:     "__alignof__",
}

// Token returns the source text of the operator
func (op UnaryOp) Token() string { return unaryTokens[op] }

// UnaryExpression applies a prefix or postfix operator. Parenthesised
// expressions are UnaryBracketed.
type UnaryExpression struct {
	exprNode
	Op      UnaryOp
	Operand Expression
}

func (*UnaryExpression) Kind() Kind { return KindUnaryExpression }

func (e *UnaryExpression) eachChild(fn func(Node, Property)) {
	if e.Operand != nil {
		fn(e.Operand, PropOperand)
	}
}

// BinaryOp is the operator of a binary expression
type BinaryOp int

const (
	BinaryMultiply BinaryOp = iota
	BinaryDivide
	BinaryModulo
	BinaryPlus
	BinaryMinus
	BinaryShiftLeft
	BinaryShiftRight
	BinaryLess
	BinaryGreater
	BinaryLessEqual
	BinaryGreaterEqual
	BinaryEquals
	BinaryNotEquals
	BinaryBitAnd
	BinaryBitXor
	BinaryBitOr
	BinaryLogicalAnd
	BinaryLogicalOr
	BinaryAssign
	BinaryMultiplyAssign
	BinaryDivideAssign
	BinaryModuloAssign
	BinaryPlusAssign
	BinaryMinusAssign
	BinaryShiftLeftAssign
	BinaryShiftRightAssign
	BinaryBitAndAssign
	BinaryBitXorAssign
	BinaryBitOrAssign
	BinaryPointerToMember    // .*
	BinaryPointerToMemberPtr // ->*
)

var binaryTokens = [...]string{
	BinaryMultiply:           "*",
	BinaryDivide:             "/",
	BinaryModulo:             "%",
	BinaryPlus:               "+",
	BinaryMinus:              "-",
	BinaryShiftLeft:          "<<",
	BinaryShiftRight:         ">>",
	BinaryLess:               "<",
	BinaryGreater:            ">",
	BinaryLessEqual:          "<=",
	BinaryGreaterEqual:       ">=",
	BinaryEquals:             "==",
	BinaryNotEquals:          "!=",
	BinaryBitAnd:             "&",
	BinaryBitXor:             "^",
	BinaryBitOr:              "|",
	BinaryLogicalAnd:         "&&",
	BinaryLogicalOr:          "||",
	BinaryAssign:             "=",
	BinaryMultiplyAssign:     "*=",
	BinaryDivideAssign:       "/=",
	BinaryModuloAssign:       "%=",
	BinaryPlusAssign:         "+=",
	BinaryMinusAssign:        "-=",
	BinaryShiftLeftAssign:    "<<=",
	BinaryShiftRightAssign:   ">>=",
	BinaryBitAndAssign:       "&=",
	BinaryBitXorAssign:       "^=",
	BinaryBitOrAssign:        "|=",
	BinaryPointerToMember:    ".*",
	BinaryPointerToMemberPtr: "->*",
}

// Token returns the source text of the operator
func (op BinaryOp) Token() string {
	if int(op) < len(binaryTokens) {
		return binaryTokens[op]
	}
	return "?"
}

// BinaryExpression applies an infix operator
type BinaryExpression struct {
	exprNode
	Op       BinaryOp
	Operand1 Expression
	Operand2 Expression
}

func (*BinaryExpression) Kind() Kind { return KindBinaryExpression }

func (e *BinaryExpression) eachChild(fn func(Node, Property)) {
	if e.Operand1 != nil {
		fn(e.Operand1, PropOperand)
	}
	if e.Operand2 != nil {
		fn(e.Operand2, PropOperand2)
	}
}

// ConditionalExpression is `cond ? a : b`
type ConditionalExpression struct {
	exprNode
	Condition Expression
	Positive  Expression
	Negative  Expression
}

func (*ConditionalExpression) Kind() Kind { return KindConditionalExpression }

func (e *ConditionalExpression) eachChild(fn func(Node, Property)) {
	if e.Condition != nil {
		fn(e.Condition, PropCondition)
	}
	if e.Positive != nil {
		fn(e.Positive, PropPositive)
	}
	if e.Negative != nil {
		fn(e.Negative, PropNegative)
	}
}

// CastOp distinguishes C-style casts from the named C++ casts
type CastOp int

const (
	CastC CastOp = iota
	CastStatic
	CastDynamic
	CastReinterpret
	CastConst
)

func (op CastOp) String() string {
	switch op {
	case CastStatic:
		return "static_cast"
	case CastDynamic:
		return "dynamic_cast"
	case CastReinterpret:
		return "reinterpret_cast"
	case CastConst:
		return "const_cast"
	default:
		return "cast"
	}
}

// CastExpression is `(T)x` or `xxx_cast<T>(x)`
type CastExpression struct {
	exprNode
	Op      CastOp
	TypeID  *TypeID
	Operand Expression
}

func (*CastExpression) Kind() Kind { return KindCastExpression }

func (e *CastExpression) eachChild(fn func(Node, Property)) {
	if e.TypeID != nil {
		fn(e.TypeID, PropCastTypeID)
	}
	if e.Operand != nil {
		fn(e.Operand, PropCastOperand)
	}
}

// FunctionCallExpression is `f(args)`
type FunctionCallExpression struct {
	exprNode
	Function  Expression
	Arguments []Expression
}

func (*FunctionCallExpression) Kind() Kind { return KindFunctionCallExpression }

func (e *FunctionCallExpression) eachChild(fn func(Node, Property)) {
	if e.Function != nil {
		fn(e.Function, PropFunctionName)
	}
	for _, a := range e.Arguments {
		fn(a, PropArgument)
	}
}

// ArraySubscriptExpression is `a[i]`
type ArraySubscriptExpression struct {
	exprNode
	Array     Expression
	Subscript Expression
}

func (*ArraySubscriptExpression) Kind() Kind { return KindArraySubscriptExpression }

func (e *ArraySubscriptExpression) eachChild(fn func(Node, Property)) {
	if e.Array != nil {
		fn(e.Array, PropArray)
	}
	if e.Subscript != nil {
		fn(e.Subscript, PropSubscript)
	}
}

// FieldReference is `owner.field` or `owner->field`
type FieldReference struct {
	exprNode
	Owner    Expression
	Field    NameNode
	Arrow    bool
	Template bool
}

func (*FieldReference) Kind() Kind { return KindFieldReference }

func (e *FieldReference) eachChild(fn func(Node, Property)) {
	if e.Owner != nil {
		fn(e.Owner, PropFieldOwner)
	}
	if e.Field != nil {
		fn(e.Field, PropFieldName)
	}
}

// TypeIDOp is the operator applied to a type-id
type TypeIDOp int

const (
	TypeIDSizeof TypeIDOp = iota
	TypeIDTypeid
	TypeIDAlignof
)

func (op TypeIDOp) String() string {
	switch op {
	case TypeIDTypeid:
		return "typeid"
	case TypeIDAlignof:
		return "__alignof__"
	default:
		return "sizeof"
	}
}

// TypeIDExpression is `sizeof(T)`, `typeid(T)` or `__alignof__(T)`
type TypeIDExpression struct {
	exprNode
	Op     TypeIDOp
	TypeID *TypeID
}

func (*TypeIDExpression) Kind() Kind { return KindTypeIDExpression }

func (e *TypeIDExpression) eachChild(fn func(Node, Property)) {
	if e.TypeID != nil {
		fn(e.TypeID, PropTypeID)
	}
}

// ExpressionList is a comma expression
type ExpressionList struct {
	exprNode
	Expressions []Expression
}

func (*ExpressionList) Kind() Kind { return KindExpressionList }

func (e *ExpressionList) eachChild(fn func(Node, Property)) {
	for _, x := range e.Expressions {
		fn(x, PropExpressionListItem)
	}
}

// NewExpression is `[::]new [(placement)] T [(init)]`
type NewExpression struct {
	exprNode
	Global      bool
	Placement   []Expression
	TypeID      *TypeID
	Initializer []Expression
	HasInit     bool
}

func (*NewExpression) Kind() Kind { return KindNewExpression }

func (e *NewExpression) eachChild(fn func(Node, Property)) {
	for _, p := range e.Placement {
		fn(p, PropPlacement)
	}
	if e.TypeID != nil {
		fn(e.TypeID, PropNewTypeID)
	}
	for _, i := range e.Initializer {
		fn(i, PropNewInitializer)
	}
}

// DeleteExpression is `[::]delete [] x`
type DeleteExpression struct {
	exprNode
	Global   bool
	Vectored bool
	Operand  Expression
}

func (*DeleteExpression) Kind() Kind { return KindDeleteExpression }

func (e *DeleteExpression) eachChild(fn func(Node, Property)) {
	if e.Operand != nil {
		fn(e.Operand, PropOperand)
	}
}

// SimpleTypeConstructorExpression is a functional cast such as `int(x)`
type SimpleTypeConstructorExpression struct {
	exprNode
	Specifier DeclSpecifier
	Arguments []Expression
}

func (*SimpleTypeConstructorExpression) Kind() Kind { return KindSimpleTypeConstructorExpression }

func (e *SimpleTypeConstructorExpression) eachChild(fn func(Node, Property)) {
	if e.Specifier != nil {
		fn(e.Specifier, PropTypeConstructorSpecifier)
	}
	for _, a := range e.Arguments {
		fn(a, PropTypeConstructorArgument)
	}
}

// ProblemExpression stands in for an expression that could not be parsed
type ProblemExpression struct {
	exprNode
	Problem *Problem
}

func (*ProblemExpression) Kind() Kind { return KindProblemExpression }

func (e *ProblemExpression) eachChild(fn func(Node, Property)) {
	if e.Problem != nil {
		fn(e.Problem, PropProblem)
	}
}
