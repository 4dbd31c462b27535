package ast

// Kind identifies the concrete node variant
type Kind int

const (
	KindUnknown Kind = iota
	KindTranslationUnit
	KindProblem

	// Declarations
	KindSimpleDeclaration
	KindFunctionDefinition
	KindNamespaceDefinition
	KindNamespaceAlias
	KindUsingDirective
	KindUsingDeclaration
	KindLinkageSpecification
	KindTemplateDeclaration
	KindVisibilityLabel
	KindASMDeclaration
	KindProblemDeclaration

	// Specifiers and declarators
	KindSimpleDeclSpecifier
	KindNamedTypeSpecifier
	KindCompositeTypeSpecifier
	KindElaboratedTypeSpecifier
	KindEnumerationSpecifier
	KindEnumerator
	KindBaseSpecifier
	KindDeclarator
	KindPointerOperator
	KindArrayModifier
	KindParameterDeclaration
	KindTypeID
	KindSimpleTypeTemplateParameter
	KindTemplatedTypeTemplateParameter
	KindMemberInitializer

	// Initializers
	KindInitializerExpression
	KindInitializerList
	KindConstructorInitializer
	KindDesignatedInitializer
	KindFieldDesignator
	KindArrayDesignator

	// Names
	KindName
	KindQualifiedName
	KindTemplateID

	// Expressions
	KindIdExpression
	KindLiteralExpression
	KindUnaryExpression
	KindBinaryExpression
	KindConditionalExpression
	KindCastExpression
	KindFunctionCallExpression
	KindArraySubscriptExpression
	KindFieldReference
	KindTypeIDExpression
	KindExpressionList
	KindNewExpression
	KindDeleteExpression
	KindSimpleTypeConstructorExpression
	KindProblemExpression

	// Statements
	KindCompoundStatement
	KindDeclarationStatement
	KindExpressionStatement
	KindIfStatement
	KindWhileStatement
	KindDoStatement
	KindForStatement
	KindSwitchStatement
	KindCaseStatement
	KindDefaultStatement
	KindBreakStatement
	KindContinueStatement
	KindReturnStatement
	KindGotoStatement
	KindLabelStatement
	KindNullStatement
	KindTryBlockStatement
	KindCatchHandler
	KindProblemStatement
)

var kindNames = [...]string{
	KindUnknown:                         "Unknown",
	KindTranslationUnit:                 "TranslationUnit",
	KindProblem:                         "Problem",
	KindSimpleDeclaration:               "SimpleDeclaration",
	KindFunctionDefinition:              "FunctionDefinition",
	KindNamespaceDefinition:             "NamespaceDefinition",
	KindNamespaceAlias:                  "NamespaceAlias",
	KindUsingDirective:                  "UsingDirective",
	KindUsingDeclaration:                "UsingDeclaration",
	KindLinkageSpecification:            "LinkageSpecification",
	KindTemplateDeclaration:             "TemplateDeclaration",
	KindVisibilityLabel:                 "VisibilityLabel",
	KindASMDeclaration:                  "ASMDeclaration",
	KindProblemDeclaration:              "ProblemDeclaration",
	KindSimpleDeclSpecifier:             "SimpleDeclSpecifier",
	KindNamedTypeSpecifier:              "NamedTypeSpecifier",
	KindCompositeTypeSpecifier:          "CompositeTypeSpecifier",
	KindElaboratedTypeSpecifier:         "ElaboratedTypeSpecifier",
	KindEnumerationSpecifier:            "EnumerationSpecifier",
	KindEnumerator:                      "Enumerator",
	KindBaseSpecifier:                   "BaseSpecifier",
	KindDeclarator:                      "Declarator",
	KindPointerOperator:                 "PointerOperator",
	KindArrayModifier:                   "ArrayModifier",
	KindParameterDeclaration:            "ParameterDeclaration",
	KindTypeID:                          "TypeId",
	KindSimpleTypeTemplateParameter:     "SimpleTypeTemplateParameter",
	KindTemplatedTypeTemplateParameter:  "TemplatedTypeTemplateParameter",
	KindMemberInitializer:               "MemberInitializer",
	KindInitializerExpression:           "InitializerExpression",
	KindInitializerList:                 "InitializerList",
	KindConstructorInitializer:          "ConstructorInitializer",
	KindDesignatedInitializer:           "DesignatedInitializer",
	KindFieldDesignator:                 "FieldDesignator",
	KindArrayDesignator:                 "ArrayDesignator",
	KindName:                            "Name",
	KindQualifiedName:                   "QualifiedName",
	KindTemplateID:                      "TemplateId",
	KindIdExpression:                    "IdExpression",
	KindLiteralExpression:               "LiteralExpression",
	KindUnaryExpression:                 "UnaryExpression",
	KindBinaryExpression:                "BinaryExpression",
	KindConditionalExpression:           "ConditionalExpression",
	KindCastExpression:                  "CastExpression",
	KindFunctionCallExpression:          "FunctionCallExpression",
	KindArraySubscriptExpression:        "ArraySubscriptExpression",
	KindFieldReference:                  "FieldReference",
	KindTypeIDExpression:                "TypeIdExpression",
	KindExpressionList:                  "ExpressionList",
	KindNewExpression:                   "NewExpression",
	KindDeleteExpression:                "DeleteExpression",
	KindSimpleTypeConstructorExpression: "SimpleTypeConstructorExpression",
	KindProblemExpression:               "ProblemExpression",
	KindCompoundStatement:               "CompoundStatement",
	KindDeclarationStatement:            "DeclarationStatement",
	KindExpressionStatement:             "ExpressionStatement",
	KindIfStatement:                     "IfStatement",
	KindWhileStatement:                  "WhileStatement",
	KindDoStatement:                     "DoStatement",
	KindForStatement:                    "ForStatement",
	KindSwitchStatement:                 "SwitchStatement",
	KindCaseStatement:                   "CaseStatement",
	KindDefaultStatement:                "DefaultStatement",
	KindBreakStatement:                  "BreakStatement",
	KindContinueStatement:               "ContinueStatement",
	KindReturnStatement:                 "ReturnStatement",
	KindGotoStatement:                   "GotoStatement",
	KindLabelStatement:                  "LabelStatement",
	KindNullStatement:                   "NullStatement",
	KindTryBlockStatement:               "TryBlockStatement",
	KindCatchHandler:                    "CatchHandler",
	KindProblemStatement:                "ProblemStatement",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}

// Property names the syntactic role a node plays relative to its parent
type Property int

const (
	PropNone Property = iota
	PropOwnedDeclaration
	PropDeclSpecifier
	PropDeclarator
	PropNestedDeclarator
	PropDeclaratorName
	PropPointerOperator
	PropPointerMemberClass
	PropArrayModifier
	PropArraySize
	PropFunctionParameter
	PropExceptionTypeID
	PropInitializer
	PropBitField
	PropInitializerExpression
	PropInitializerClause
	PropConstructorArgument
	PropDesignator
	PropDesignatorName
	PropDesignatorSubscript
	PropDesignatorOperand
	PropFunctionBody
	PropMemberInitializer
	PropMemberInitializerName
	PropMemberInitializerArgument
	PropNamespaceName
	PropAliasName
	PropMappingName
	PropUsingName
	PropTemplateParameter
	PropTemplatedDeclaration
	PropTemplateParameterName
	PropTemplateParameterDefault
	PropBaseSpecifier
	PropBaseName
	PropCompositeName
	PropMemberDeclaration
	PropEnumerationName
	PropEnumerator
	PropEnumeratorName
	PropEnumeratorValue
	PropElaboratedName
	PropNamedTypeName
	PropSegment
	PropTemplateName
	PropTemplateArgument
	PropConversionType
	PropIDName
	PropOperand
	PropOperand2
	PropCondition
	PropPositive
	PropNegative
	PropCastTypeID
	PropCastOperand
	PropFunctionName
	PropArgument
	PropArray
	PropSubscript
	PropFieldOwner
	PropFieldName
	PropTypeID
	PropExpressionListItem
	PropPlacement
	PropNewTypeID
	PropNewInitializer
	PropTypeConstructorSpecifier
	PropTypeConstructorArgument
	PropBody
	PropStatement
	PropThen
	PropElse
	PropForInit
	PropForIteration
	PropReturnValue
	PropLabelName
	PropLabelStatement
	PropCatchDeclaration
	PropCatchHandler
	PropExpression
	PropDeclaration
	PropParameterSpecifier
	PropParameterDeclarator
	PropTypeIDSpecifier
	PropTypeIDDeclarator
	PropProblem
	PropCaseExpression
	PropSwitchController
)

var propertyNames = map[Property]string{
	PropNone:                      "none",
	PropOwnedDeclaration:          "owned declaration",
	PropDeclSpecifier:             "decl specifier",
	PropDeclarator:                "declarator",
	PropNestedDeclarator:          "nested declarator",
	PropDeclaratorName:            "declarator name",
	PropPointerOperator:           "pointer operator",
	PropPointerMemberClass:        "pointer-to-member class",
	PropArrayModifier:             "array modifier",
	PropArraySize:                 "array size",
	PropFunctionParameter:         "function parameter",
	PropExceptionTypeID:           "exception type id",
	PropInitializer:               "initializer",
	PropBitField:                  "bit field",
	PropInitializerExpression:     "initializer expression",
	PropInitializerClause:         "initializer clause",
	PropConstructorArgument:       "constructor argument",
	PropDesignator:                "designator",
	PropDesignatorName:            "designator name",
	PropDesignatorSubscript:       "designator subscript",
	PropDesignatorOperand:         "designator operand",
	PropFunctionBody:              "function body",
	PropMemberInitializer:         "member initializer",
	PropMemberInitializerName:     "member initializer name",
	PropMemberInitializerArgument: "member initializer argument",
	PropNamespaceName:             "namespace name",
	PropAliasName:                 "alias name",
	PropMappingName:               "mapping name",
	PropUsingName:                 "using name",
	PropTemplateParameter:         "template parameter",
	PropTemplatedDeclaration:      "templated declaration",
	PropTemplateParameterName:     "template parameter name",
	PropTemplateParameterDefault:  "template parameter default",
	PropBaseSpecifier:             "base specifier",
	PropBaseName:                  "base name",
	PropCompositeName:             "composite name",
	PropMemberDeclaration:         "member declaration",
	PropEnumerationName:           "enumeration name",
	PropEnumerator:                "enumerator",
	PropEnumeratorName:            "enumerator name",
	PropEnumeratorValue:           "enumerator value",
	PropElaboratedName:            "elaborated name",
	PropNamedTypeName:             "named type name",
	PropSegment:                   "qualifier segment",
	PropTemplateName:              "template name",
	PropTemplateArgument:          "template argument",
	PropConversionType:            "conversion type",
	PropIDName:                    "id name",
	PropOperand:                   "operand",
	PropOperand2:                  "second operand",
	PropCondition:                 "condition",
	PropPositive:                  "positive result",
	PropNegative:                  "negative result",
	PropCastTypeID:                "cast type id",
	PropCastOperand:               "cast operand",
	PropFunctionName:              "function name",
	PropArgument:                  "argument",
	PropArray:                     "array",
	PropSubscript:                 "subscript",
	PropFieldOwner:                "field owner",
	PropFieldName:                 "field name",
	PropTypeID:                    "type id",
	PropExpressionListItem:        "nested expression",
	PropPlacement:                 "placement",
	PropNewTypeID:                 "new type id",
	PropNewInitializer:            "new initializer",
	PropTypeConstructorSpecifier:  "type constructor specifier",
	PropTypeConstructorArgument:   "type constructor argument",
	PropBody:                      "body",
	PropStatement:                 "nested statement",
	PropThen:                      "then clause",
	PropElse:                      "else clause",
	PropForInit:                   "for init",
	PropForIteration:              "for iteration",
	PropReturnValue:               "return value",
	PropLabelName:                 "label name",
	PropLabelStatement:            "labelled statement",
	PropCatchDeclaration:          "catch declaration",
	PropCatchHandler:              "catch handler",
	PropExpression:                "expression",
	PropDeclaration:               "declaration",
	PropParameterSpecifier:        "parameter specifier",
	PropParameterDeclarator:       "parameter declarator",
	PropTypeIDSpecifier:           "type id specifier",
	PropTypeIDDeclarator:          "abstract declarator",
	PropProblem:                   "problem",
	PropCaseExpression:            "case expression",
	PropSwitchController:          "switch controller",
}

func (p Property) String() string {
	if s, ok := propertyNames[p]; ok {
		return s
	}
	return "unknown"
}
