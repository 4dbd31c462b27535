package ast

// Declaration is implemented by every declaration node
type Declaration interface {
	Node
	declarationNode()
}

// Visibility is a C++ access level
type Visibility int

const (
	VisibilityUnspecified Visibility = iota
	VisibilityPublic
	VisibilityProtected
	VisibilityPrivate
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPublic:
		return "public"
	case VisibilityProtected:
		return "protected"
	case VisibilityPrivate:
		return "private"
	default:
		return "unspecified"
	}
}

// SimpleDeclaration is a decl-specifier-seq followed by init-declarators
type SimpleDeclaration struct {
	node
	Specifier   DeclSpecifier
	Declarators []*Declarator
}

func (*SimpleDeclaration) Kind() Kind       { return KindSimpleDeclaration }
func (*SimpleDeclaration) declarationNode() {}

func (d *SimpleDeclaration) eachChild(fn func(Node, Property)) {
	if d.Specifier != nil {
		fn(d.Specifier, PropDeclSpecifier)
	}
	for _, dt := range d.Declarators {
		fn(dt, PropDeclarator)
	}
}

// FunctionDefinition is a function declarator with a body
type FunctionDefinition struct {
	node
	Specifier    DeclSpecifier
	Declarator   *Declarator
	MemberInits  []*MemberInitializer
	Body         *CompoundStatement
	CatchHandler []*CatchHandler // function-try-block handlers
}

func (*FunctionDefinition) Kind() Kind       { return KindFunctionDefinition }
func (*FunctionDefinition) declarationNode() {}

func (d *FunctionDefinition) eachChild(fn func(Node, Property)) {
	if d.Specifier != nil {
		fn(d.Specifier, PropDeclSpecifier)
	}
	if d.Declarator != nil {
		fn(d.Declarator, PropDeclarator)
	}
	for _, m := range d.MemberInits {
		fn(m, PropMemberInitializer)
	}
	if d.Body != nil {
		fn(d.Body, PropFunctionBody)
	}
	for _, h := range d.CatchHandler {
		fn(h, PropCatchHandler)
	}
}

// MemberInitializer is one entry of a constructor's mem-initializer list
type MemberInitializer struct {
	node
	Member    NameNode
	Arguments []Expression
}

func (*MemberInitializer) Kind() Kind { return KindMemberInitializer }

func (m *MemberInitializer) eachChild(fn func(Node, Property)) {
	if m.Member != nil {
		fn(m.Member, PropMemberInitializerName)
	}
	for _, a := range m.Arguments {
		fn(a, PropMemberInitializerArgument)
	}
}

// NamespaceDefinition is `namespace [name] { ... }`
type NamespaceDefinition struct {
	node
	Name         *Name
	Declarations []Declaration
}

func (*NamespaceDefinition) Kind() Kind       { return KindNamespaceDefinition }
func (*NamespaceDefinition) declarationNode() {}

func (d *NamespaceDefinition) eachChild(fn func(Node, Property)) {
	if d.Name != nil {
		fn(d.Name, PropNamespaceName)
	}
	for _, m := range d.Declarations {
		fn(m, PropOwnedDeclaration)
	}
}

// NamespaceAlias is `namespace Alias = Target;`
type NamespaceAlias struct {
	node
	Alias  *Name
	Target NameNode
}

func (*NamespaceAlias) Kind() Kind       { return KindNamespaceAlias }
func (*NamespaceAlias) declarationNode() {}

func (d *NamespaceAlias) eachChild(fn func(Node, Property)) {
	if d.Alias != nil {
		fn(d.Alias, PropAliasName)
	}
	if d.Target != nil {
		fn(d.Target, PropMappingName)
	}
}

// UsingDirective is `using namespace X;`
type UsingDirective struct {
	node
	Name NameNode
}

func (*UsingDirective) Kind() Kind       { return KindUsingDirective }
func (*UsingDirective) declarationNode() {}

func (d *UsingDirective) eachChild(fn func(Node, Property)) {
	if d.Name != nil {
		fn(d.Name, PropUsingName)
	}
}

// UsingDeclaration is `using [typename] X::y;`
type UsingDeclaration struct {
	node
	Name     NameNode
	Typename bool
}

func (*UsingDeclaration) Kind() Kind       { return KindUsingDeclaration }
func (*UsingDeclaration) declarationNode() {}

func (d *UsingDeclaration) eachChild(fn func(Node, Property)) {
	if d.Name != nil {
		fn(d.Name, PropUsingName)
	}
}

// LinkageSpecification is `extern "C" { ... }` or `extern "C" decl`
type LinkageSpecification struct {
	node
	Literal      string
	Declarations []Declaration
}

func (*LinkageSpecification) Kind() Kind       { return KindLinkageSpecification }
func (*LinkageSpecification) declarationNode() {}

func (d *LinkageSpecification) eachChild(fn func(Node, Property)) {
	for _, m := range d.Declarations {
		fn(m, PropOwnedDeclaration)
	}
}

// TemplateDeclaration wraps a declaration with a template parameter list.
// Explicit instantiations have no parameters and Instantiation set.
type TemplateDeclaration struct {
	node
	Exported      bool
	Instantiation bool
	Parameters    []TemplateParameter
	Declaration   Declaration
}

func (*TemplateDeclaration) Kind() Kind       { return KindTemplateDeclaration }
func (*TemplateDeclaration) declarationNode() {}

func (d *TemplateDeclaration) eachChild(fn func(Node, Property)) {
	for _, p := range d.Parameters {
		fn(p, PropTemplateParameter)
	}
	if d.Declaration != nil {
		fn(d.Declaration, PropTemplatedDeclaration)
	}
}

// VisibilityLabel is `public:` and friends inside a class body
type VisibilityLabel struct {
	node
	Visibility Visibility
}

func (*VisibilityLabel) Kind() Kind                       { return KindVisibilityLabel }
func (*VisibilityLabel) declarationNode()                 {}
func (*VisibilityLabel) eachChild(func(Node, Property)) {}

// ASMDeclaration is `asm("...");`
type ASMDeclaration struct {
	node
	Assembly string
}

func (*ASMDeclaration) Kind() Kind                       { return KindASMDeclaration }
func (*ASMDeclaration) declarationNode()                 {}
func (*ASMDeclaration) eachChild(func(Node, Property)) {}

// ProblemDeclaration stands in for a declaration that could not be parsed
type ProblemDeclaration struct {
	node
	Problem *Problem
}

func (*ProblemDeclaration) Kind() Kind       { return KindProblemDeclaration }
func (*ProblemDeclaration) declarationNode() {}

func (d *ProblemDeclaration) eachChild(fn func(Node, Property)) {
	if d.Problem != nil {
		fn(d.Problem, PropProblem)
	}
}

// StorageClass is the storage-class specifier of a declaration
type StorageClass int

const (
	StorageNone StorageClass = iota
	StorageTypedef
	StorageExtern
	StorageStatic
	StorageAuto
	StorageRegister
	StorageMutable
)

func (s StorageClass) String() string {
	switch s {
	case StorageTypedef:
		return "typedef"
	case StorageExtern:
		return "extern"
	case StorageStatic:
		return "static"
	case StorageAuto:
		return "auto"
	case StorageRegister:
		return "register"
	case StorageMutable:
		return "mutable"
	default:
		return ""
	}
}

// Specifiers holds the flags shared by every decl-specifier variant
type Specifiers struct {
	Storage  StorageClass
	Const    bool
	Volatile bool
	Restrict bool
	Inline   bool
	Virtual  bool
	Explicit bool
	Friend   bool
}

// DeclSpecifier is implemented by the decl-specifier variants
type DeclSpecifier interface {
	Node
	Flags() *Specifiers
	declSpecifierNode()
}

type declSpec struct {
	node
	Specifiers
}

func (d *declSpec) Flags() *Specifiers { return &d.Specifiers }
func (*declSpec) declSpecifierNode()   {}

// SimpleType enumerates the builtin type keywords
type SimpleType int

const (
	TypeUnspecified SimpleType = iota
	TypeVoid
	TypeChar
	TypeWChar
	TypeBool
	TypeInt
	TypeFloat
	TypeDouble
)

func (t SimpleType) String() string {
	switch t {
	case TypeVoid:
		return "void"
	case TypeChar:
		return "char"
	case TypeWChar:
		return "wchar_t"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	default:
		return ""
	}
}

// SimpleDeclSpecifier is a builtin type with its modifiers
type SimpleDeclSpecifier struct {
	declSpec
	Type     SimpleType
	Signed   bool
	Unsigned bool
	Short    bool
	Long     bool
	LongLong bool
}

func (*SimpleDeclSpecifier) Kind() Kind                     { return KindSimpleDeclSpecifier }
func (*SimpleDeclSpecifier) eachChild(func(Node, Property)) {}

// NamedTypeSpecifier refers to a type by name (typedef, class, template)
type NamedTypeSpecifier struct {
	declSpec
	Name     NameNode
	Typename bool
}

func (*NamedTypeSpecifier) Kind() Kind { return KindNamedTypeSpecifier }

func (d *NamedTypeSpecifier) eachChild(fn func(Node, Property)) {
	if d.Name != nil {
		fn(d.Name, PropNamedTypeName)
	}
}

// CompositeKey is the class-key of a class specifier
type CompositeKey int

const (
	KeyStruct CompositeKey = iota
	KeyUnion
	KeyClass
)

func (k CompositeKey) String() string {
	switch k {
	case KeyUnion:
		return "union"
	case KeyClass:
		return "class"
	default:
		return "struct"
	}
}

// CompositeTypeSpecifier is a class, struct or union definition
type CompositeTypeSpecifier struct {
	declSpec
	Key     CompositeKey
	Name    NameNode
	Bases   []*BaseSpecifier
	Members []Declaration
}

func (*CompositeTypeSpecifier) Kind() Kind { return KindCompositeTypeSpecifier }

func (d *CompositeTypeSpecifier) eachChild(fn func(Node, Property)) {
	if d.Name != nil {
		fn(d.Name, PropCompositeName)
	}
	for _, b := range d.Bases {
		fn(b, PropBaseSpecifier)
	}
	for _, m := range d.Members {
		fn(m, PropMemberDeclaration)
	}
}

// BaseSpecifier is one entry in a class's base clause
type BaseSpecifier struct {
	node
	Name       NameNode
	Virtual    bool
	Visibility Visibility
}

func (*BaseSpecifier) Kind() Kind { return KindBaseSpecifier }

func (b *BaseSpecifier) eachChild(fn func(Node, Property)) {
	if b.Name != nil {
		fn(b.Name, PropBaseName)
	}
}

// ElaboratedKind is the keyword of an elaborated type specifier
type ElaboratedKind int

const (
	ElaboratedEnum ElaboratedKind = iota
	ElaboratedStruct
	ElaboratedUnion
	ElaboratedClass
)

func (k ElaboratedKind) String() string {
	switch k {
	case ElaboratedEnum:
		return "enum"
	case ElaboratedUnion:
		return "union"
	case ElaboratedClass:
		return "class"
	default:
		return "struct"
	}
}

// ElaboratedTypeSpecifier is `struct A`, `enum E` without a body
type ElaboratedTypeSpecifier struct {
	declSpec
	Elaborated ElaboratedKind
	Name       NameNode
}

func (*ElaboratedTypeSpecifier) Kind() Kind { return KindElaboratedTypeSpecifier }

func (d *ElaboratedTypeSpecifier) eachChild(fn func(Node, Property)) {
	if d.Name != nil {
		fn(d.Name, PropElaboratedName)
	}
}

// EnumerationSpecifier is an enum definition
type EnumerationSpecifier struct {
	declSpec
	Name        NameNode
	Enumerators []*Enumerator
}

func (*EnumerationSpecifier) Kind() Kind { return KindEnumerationSpecifier }

func (d *EnumerationSpecifier) eachChild(fn func(Node, Property)) {
	if d.Name != nil {
		fn(d.Name, PropEnumerationName)
	}
	for _, e := range d.Enumerators {
		fn(e, PropEnumerator)
	}
}

// Enumerator is one `name [= value]` entry of an enumeration
type Enumerator struct {
	node
	Name  *Name
	Value Expression
}

func (*Enumerator) Kind() Kind { return KindEnumerator }

func (e *Enumerator) eachChild(fn func(Node, Property)) {
	if e.Name != nil {
		fn(e.Name, PropEnumeratorName)
	}
	if e.Value != nil {
		fn(e.Value, PropEnumeratorValue)
	}
}

// PointerKind is the flavour of a pointer operator
type PointerKind int

const (
	PointerOp PointerKind = iota
	ReferenceOp
	RValueReferenceOp
	PointerToMemberOp
)

// PointerOperator is `*`, `&`, `&&` or `C::*` with its cv-qualifiers
type PointerOperator struct {
	node
	Op       PointerKind
	Const    bool
	Volatile bool
	Restrict bool
	Class    NameNode // owning class for PointerToMemberOp
}

func (*PointerOperator) Kind() Kind { return KindPointerOperator }

func (p *PointerOperator) eachChild(fn func(Node, Property)) {
	if p.Class != nil {
		fn(p.Class, PropPointerMemberClass)
	}
}

// ArrayModifier is one `[size]` suffix
type ArrayModifier struct {
	node
	Size Expression
}

func (*ArrayModifier) Kind() Kind { return KindArrayModifier }

func (a *ArrayModifier) eachChild(fn func(Node, Property)) {
	if a.Size != nil {
		fn(a.Size, PropArraySize)
	}
}

// Declarator declares one name. Function declarators carry a parameter
// list; abstract declarators (type-ids, unnamed parameters) have no Name.
type Declarator struct {
	node
	PointerOps     []*PointerOperator
	Name           NameNode
	Nested         *Declarator
	ArrayModifiers []*ArrayModifier
	Initializer    Initializer
	BitField       Expression

	// function suffix
	IsFunction     bool
	Parameters     []*ParameterDeclaration
	VarArgs        bool
	Const          bool
	Volatile       bool
	PureVirtual    bool
	HasThrow       bool
	ExceptionTypes []*TypeID
}

func (*Declarator) Kind() Kind { return KindDeclarator }

func (d *Declarator) eachChild(fn func(Node, Property)) {
	for _, p := range d.PointerOps {
		fn(p, PropPointerOperator)
	}
	if d.Name != nil {
		fn(d.Name, PropDeclaratorName)
	}
	if d.Nested != nil {
		fn(d.Nested, PropNestedDeclarator)
	}
	for _, p := range d.Parameters {
		fn(p, PropFunctionParameter)
	}
	for _, a := range d.ArrayModifiers {
		fn(a, PropArrayModifier)
	}
	for _, t := range d.ExceptionTypes {
		fn(t, PropExceptionTypeID)
	}
	if d.BitField != nil {
		fn(d.BitField, PropBitField)
	}
	if d.Initializer != nil {
		fn(d.Initializer, PropInitializer)
	}
}

// DeclaredName returns the name declared by d, looking through nested
// declarators such as `(*fp)`
func (d *Declarator) DeclaredName() NameNode {
	for cur := d; cur != nil; cur = cur.Nested {
		if cur.Name != nil {
			return cur.Name
		}
	}
	return nil
}

// Innermost returns the declarator that directly holds the declared name
func (d *Declarator) Innermost() *Declarator {
	cur := d
	for cur.Nested != nil {
		cur = cur.Nested
	}
	return cur
}

// FunctionDeclarator returns the declarator level that carries the
// parameter list of the declared function, or nil when d does not declare
// a function (a pointer to function is not a function)
func (d *Declarator) FunctionDeclarator() *Declarator {
	// the function suffix must sit directly around the name: either on the
	// innermost declarator or on the level wrapping a pointer-free nested one
	in := d.Innermost()
	if in.IsFunction {
		return in
	}
	for cur := d; cur != nil && cur.Nested != nil; cur = cur.Nested {
		if cur.IsFunction && len(cur.Nested.PointerOps) == 0 && cur.Nested.Name != nil && cur.Nested.Nested == nil {
			return cur
		}
	}
	return nil
}

// ParameterDeclaration is one function parameter or non-type template
// parameter
type ParameterDeclaration struct {
	node
	Specifier  DeclSpecifier
	Declarator *Declarator
}

func (*ParameterDeclaration) Kind() Kind              { return KindParameterDeclaration }
func (*ParameterDeclaration) templateParameterNode() {}

func (p *ParameterDeclaration) eachChild(fn func(Node, Property)) {
	if p.Specifier != nil {
		fn(p.Specifier, PropParameterSpecifier)
	}
	if p.Declarator != nil {
		fn(p.Declarator, PropParameterDeclarator)
	}
}

// TypeID is a decl-specifier-seq with an abstract declarator
type TypeID struct {
	node
	Specifier  DeclSpecifier
	Declarator *Declarator
}

func (*TypeID) Kind() Kind { return KindTypeID }

func (t *TypeID) eachChild(fn func(Node, Property)) {
	if t.Specifier != nil {
		fn(t.Specifier, PropTypeIDSpecifier)
	}
	if t.Declarator != nil {
		fn(t.Declarator, PropTypeIDDeclarator)
	}
}

// TemplateParameter is implemented by the template parameter variants
type TemplateParameter interface {
	Node
	templateParameterNode()
}

// SimpleTypeTemplateParameter is `class T [= default]` or `typename T`
type SimpleTypeTemplateParameter struct {
	node
	UsesTypename bool
	Name         *Name
	Default      *TypeID
}

func (*SimpleTypeTemplateParameter) Kind() Kind              { return KindSimpleTypeTemplateParameter }
func (*SimpleTypeTemplateParameter) templateParameterNode() {}

func (t *SimpleTypeTemplateParameter) eachChild(fn func(Node, Property)) {
	if t.Name != nil {
		fn(t.Name, PropTemplateParameterName)
	}
	if t.Default != nil {
		fn(t.Default, PropTemplateParameterDefault)
	}
}

// TemplatedTypeTemplateParameter is `template <...> class T [= default]`
type TemplatedTypeTemplateParameter struct {
	node
	Parameters []TemplateParameter
	Name       *Name
	Default    NameNode
}

func (*TemplatedTypeTemplateParameter) Kind() Kind              { return KindTemplatedTypeTemplateParameter }
func (*TemplatedTypeTemplateParameter) templateParameterNode() {}

func (t *TemplatedTypeTemplateParameter) eachChild(fn func(Node, Property)) {
	for _, p := range t.Parameters {
		fn(p, PropTemplateParameter)
	}
	if t.Name != nil {
		fn(t.Name, PropTemplateParameterName)
	}
	if t.Default != nil {
		fn(t.Default, PropTemplateParameterDefault)
	}
}

// Initializer is implemented by the initializer variants
type Initializer interface {
	Node
	initializerNode()
}

// InitializerExpression is `= expr`
type InitializerExpression struct {
	node
	Expression Expression
}

func (*InitializerExpression) Kind() Kind        { return KindInitializerExpression }
func (*InitializerExpression) initializerNode() {}

func (i *InitializerExpression) eachChild(fn func(Node, Property)) {
	if i.Expression != nil {
		fn(i.Expression, PropInitializerExpression)
	}
}

// InitializerList is `= { a, b, c }`
type InitializerList struct {
	node
	Clauses []Initializer
}

func (*InitializerList) Kind() Kind        { return KindInitializerList }
func (*InitializerList) initializerNode() {}

func (i *InitializerList) eachChild(fn func(Node, Property)) {
	for _, c := range i.Clauses {
		fn(c, PropInitializerClause)
	}
}

// ConstructorInitializer is `T x(a, b);`
type ConstructorInitializer struct {
	node
	Arguments []Expression
}

func (*ConstructorInitializer) Kind() Kind        { return KindConstructorInitializer }
func (*ConstructorInitializer) initializerNode() {}

func (i *ConstructorInitializer) eachChild(fn func(Node, Property)) {
	for _, a := range i.Arguments {
		fn(a, PropConstructorArgument)
	}
}

// Designator is implemented by C designators (`.field`, `[index]`)
type Designator interface {
	Node
	designatorNode()
}

// DesignatedInitializer is a C99 `.a = 1` or `[2] = x` clause
type DesignatedInitializer struct {
	node
	Designators []Designator
	Operand     Initializer
}

func (*DesignatedInitializer) Kind() Kind        { return KindDesignatedInitializer }
func (*DesignatedInitializer) initializerNode() {}

func (i *DesignatedInitializer) eachChild(fn func(Node, Property)) {
	for _, d := range i.Designators {
		fn(d, PropDesignator)
	}
	if i.Operand != nil {
		fn(i.Operand, PropDesignatorOperand)
	}
}

// FieldDesignator is `.name`
type FieldDesignator struct {
	node
	Name *Name
}

func (*FieldDesignator) Kind() Kind       { return KindFieldDesignator }
func (*FieldDesignator) designatorNode() {}

func (f *FieldDesignator) eachChild(fn func(Node, Property)) {
	if f.Name != nil {
		fn(f.Name, PropDesignatorName)
	}
}

// ArrayDesignator is `[index]`
type ArrayDesignator struct {
	node
	Subscript Expression
}

func (*ArrayDesignator) Kind() Kind       { return KindArrayDesignator }
func (*ArrayDesignator) designatorNode() {}

func (a *ArrayDesignator) eachChild(fn func(Node, Property)) {
	if a.Subscript != nil {
		fn(a.Subscript, PropDesignatorSubscript)
	}
}
