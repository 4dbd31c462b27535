package ast

// Directive tells Walk how to proceed after a visit or leave call
type Directive int

const (
	// Continue descends into the node's children
	Continue Directive = iota
	// Skip skips the children; Leave is still called for the node
	Skip
	// Abort stops the whole traversal
	Abort
)

// VisitOptions selects the node categories a visitor is called for.
// Categories that are not selected are still traversed.
type VisitOptions struct {
	TranslationUnit       bool
	Names                 bool
	Declarations          bool
	Initializers          bool
	ParameterDeclarations bool
	Declarators           bool
	DeclSpecifiers        bool
	Expressions           bool
	Statements            bool
	TypeIDs               bool
	Enumerators           bool
	Problems              bool

	// C only, requires CVisitor
	Designators bool

	// C++ only, require CPPVisitor
	BaseSpecifiers     bool
	Namespaces         bool
	TemplateParameters bool
}

// VisitAll returns options with every category selected
func VisitAll() VisitOptions {
	return VisitOptions{
		TranslationUnit:       true,
		Names:                 true,
		Declarations:          true,
		Initializers:          true,
		ParameterDeclarations: true,
		Declarators:           true,
		DeclSpecifiers:        true,
		Expressions:           true,
		Statements:            true,
		TypeIDs:               true,
		Enumerators:           true,
		Problems:              true,
		Designators:           true,
		BaseSpecifiers:        true,
		Namespaces:            true,
		TemplateParameters:    true,
	}
}

// Visitor receives pre-order Visit and post-order Leave calls
type Visitor interface {
	VisitTranslationUnit(tu *TranslationUnit) Directive
	LeaveTranslationUnit(tu *TranslationUnit) Directive
	VisitName(n NameNode) Directive
	LeaveName(n NameNode) Directive
	VisitDeclaration(d Declaration) Directive
	LeaveDeclaration(d Declaration) Directive
	VisitInitializer(i Initializer) Directive
	LeaveInitializer(i Initializer) Directive
	VisitParameterDeclaration(p *ParameterDeclaration) Directive
	LeaveParameterDeclaration(p *ParameterDeclaration) Directive
	VisitDeclarator(d *Declarator) Directive
	LeaveDeclarator(d *Declarator) Directive
	VisitDeclSpecifier(s DeclSpecifier) Directive
	LeaveDeclSpecifier(s DeclSpecifier) Directive
	VisitExpression(e Expression) Directive
	LeaveExpression(e Expression) Directive
	VisitStatement(s Statement) Directive
	LeaveStatement(s Statement) Directive
	VisitTypeID(t *TypeID) Directive
	LeaveTypeID(t *TypeID) Directive
	VisitEnumerator(e *Enumerator) Directive
	LeaveEnumerator(e *Enumerator) Directive
	VisitProblem(p *Problem) Directive
	LeaveProblem(p *Problem) Directive
}

// CVisitor is implemented by visitors that want C designators
type CVisitor interface {
	VisitDesignator(d Designator) Directive
	LeaveDesignator(d Designator) Directive
}

// CPPVisitor is implemented by visitors that want the C++ only categories
type CPPVisitor interface {
	VisitBaseSpecifier(b *BaseSpecifier) Directive
	LeaveBaseSpecifier(b *BaseSpecifier) Directive
	VisitNamespace(n *NamespaceDefinition) Directive
	LeaveNamespace(n *NamespaceDefinition) Directive
	VisitTemplateParameter(p TemplateParameter) Directive
	LeaveTemplateParameter(p TemplateParameter) Directive
}

// BaseVisitor implements Visitor with every call returning Continue.
// Embed it and override what you need.
type BaseVisitor struct{}

func (BaseVisitor) VisitTranslationUnit(*TranslationUnit) Directive           { return Continue }
func (BaseVisitor) LeaveTranslationUnit(*TranslationUnit) Directive           { return Continue }
func (BaseVisitor) VisitName(NameNode) Directive                              { return Continue }
func (BaseVisitor) LeaveName(NameNode) Directive                              { return Continue }
func (BaseVisitor) VisitDeclaration(Declaration) Directive                    { return Continue }
func (BaseVisitor) LeaveDeclaration(Declaration) Directive                    { return Continue }
func (BaseVisitor) VisitInitializer(Initializer) Directive                    { return Continue }
func (BaseVisitor) LeaveInitializer(Initializer) Directive                    { return Continue }
func (BaseVisitor) VisitParameterDeclaration(*ParameterDeclaration) Directive { return Continue }
func (BaseVisitor) LeaveParameterDeclaration(*ParameterDeclaration) Directive { return Continue }
func (BaseVisitor) VisitDeclarator(*Declarator) Directive                     { return Continue }
func (BaseVisitor) LeaveDeclarator(*Declarator) Directive                     { return Continue }
func (BaseVisitor) VisitDeclSpecifier(DeclSpecifier) Directive                { return Continue }
func (BaseVisitor) LeaveDeclSpecifier(DeclSpecifier) Directive                { return Continue }
func (BaseVisitor) VisitExpression(Expression) Directive                      { return Continue }
func (BaseVisitor) LeaveExpression(Expression) Directive                      { return Continue }
func (BaseVisitor) VisitStatement(Statement) Directive                        { return Continue }
func (BaseVisitor) LeaveStatement(Statement) Directive                        { return Continue }
func (BaseVisitor) VisitTypeID(*TypeID) Directive                             { return Continue }
func (BaseVisitor) LeaveTypeID(*TypeID) Directive                             { return Continue }
func (BaseVisitor) VisitEnumerator(*Enumerator) Directive                     { return Continue }
func (BaseVisitor) LeaveEnumerator(*Enumerator) Directive                     { return Continue }
func (BaseVisitor) VisitProblem(*Problem) Directive                           { return Continue }
func (BaseVisitor) LeaveProblem(*Problem) Directive                           { return Continue }

// BaseCVisitor adds the designator callbacks to BaseVisitor
type BaseCVisitor struct{ BaseVisitor }

func (BaseCVisitor) VisitDesignator(Designator) Directive { return Continue }
func (BaseCVisitor) LeaveDesignator(Designator) Directive { return Continue }

// BaseCPPVisitor adds the C++ callbacks to BaseVisitor
type BaseCPPVisitor struct{ BaseVisitor }

func (BaseCPPVisitor) VisitBaseSpecifier(*BaseSpecifier) Directive          { return Continue }
func (BaseCPPVisitor) LeaveBaseSpecifier(*BaseSpecifier) Directive          { return Continue }
func (BaseCPPVisitor) VisitNamespace(*NamespaceDefinition) Directive        { return Continue }
func (BaseCPPVisitor) LeaveNamespace(*NamespaceDefinition) Directive        { return Continue }
func (BaseCPPVisitor) VisitTemplateParameter(TemplateParameter) Directive { return Continue }
func (BaseCPPVisitor) LeaveTemplateParameter(TemplateParameter) Directive { return Continue }

// Walk traverses the tree rooted at n. It returns false when a callback
// aborted the traversal.
func Walk(n Node, v Visitor, opts VisitOptions) bool {
	if n == nil {
		return true
	}
	w := &walker{v: v, opts: opts}
	return w.walk(n) != Abort
}

type walker struct {
	v    Visitor
	opts VisitOptions
}

type hookFn func() Directive

func (w *walker) walk(n Node) Directive {
	visit, leave := w.hooks(n)
	dir := Continue
	if visit != nil {
		dir = visit()
	}
	if dir == Abort {
		return Abort
	}
	if dir == Continue {
		aborted := false
		n.eachChild(func(c Node, _ Property) {
			if !aborted && w.walk(c) == Abort {
				aborted = true
			}
		})
		if aborted {
			return Abort
		}
	}
	if leave != nil && leave() == Abort {
		return Abort
	}
	return Continue
}

// hooks picks the callback pair for n, or nils when n is not selected
func (w *walker) hooks(n Node) (hookFn, hookFn) {
	v, o := w.v, w.opts
	switch x := n.(type) {
	case *TranslationUnit:
		if o.TranslationUnit {
			return func() Directive { return v.VisitTranslationUnit(x) },
				func() Directive { return v.LeaveTranslationUnit(x) }
		}
	case *Problem:
		if o.Problems {
			return func() Directive { return v.VisitProblem(x) },
				func() Directive { return v.LeaveProblem(x) }
		}
	case *NamespaceDefinition:
		if cv, ok := v.(CPPVisitor); ok && o.Namespaces {
			return func() Directive { return cv.VisitNamespace(x) },
				func() Directive { return cv.LeaveNamespace(x) }
		}
		if o.Declarations {
			return func() Directive { return v.VisitDeclaration(x) },
				func() Directive { return v.LeaveDeclaration(x) }
		}
	case *ParameterDeclaration:
		if x.Property() == PropTemplateParameter {
			if cv, ok := v.(CPPVisitor); ok && o.TemplateParameters {
				return func() Directive { return cv.VisitTemplateParameter(x) },
					func() Directive { return cv.LeaveTemplateParameter(x) }
			}
		}
		if o.ParameterDeclarations {
			return func() Directive { return v.VisitParameterDeclaration(x) },
				func() Directive { return v.LeaveParameterDeclaration(x) }
		}
	case TemplateParameter:
		if cv, ok := v.(CPPVisitor); ok && o.TemplateParameters {
			return func() Directive { return cv.VisitTemplateParameter(x) },
				func() Directive { return cv.LeaveTemplateParameter(x) }
		}
	case *BaseSpecifier:
		if cv, ok := v.(CPPVisitor); ok && o.BaseSpecifiers {
			return func() Directive { return cv.VisitBaseSpecifier(x) },
				func() Directive { return cv.LeaveBaseSpecifier(x) }
		}
	case Designator:
		if cv, ok := v.(CVisitor); ok && o.Designators {
			return func() Directive { return cv.VisitDesignator(x) },
				func() Directive { return cv.LeaveDesignator(x) }
		}
	case Declaration:
		if o.Declarations {
			return func() Directive { return v.VisitDeclaration(x) },
				func() Directive { return v.LeaveDeclaration(x) }
		}
	case NameNode:
		if o.Names {
			return func() Directive { return v.VisitName(x) },
				func() Directive { return v.LeaveName(x) }
		}
	case Initializer:
		if o.Initializers {
			return func() Directive { return v.VisitInitializer(x) },
				func() Directive { return v.LeaveInitializer(x) }
		}
	case *Declarator:
		if o.Declarators {
			return func() Directive { return v.VisitDeclarator(x) },
				func() Directive { return v.LeaveDeclarator(x) }
		}
	case DeclSpecifier:
		if o.DeclSpecifiers {
			return func() Directive { return v.VisitDeclSpecifier(x) },
				func() Directive { return v.LeaveDeclSpecifier(x) }
		}
	case Expression:
		if o.Expressions {
			return func() Directive { return v.VisitExpression(x) },
				func() Directive { return v.LeaveExpression(x) }
		}
	case Statement:
		if o.Statements {
			return func() Directive { return v.VisitStatement(x) },
				func() Directive { return v.LeaveStatement(x) }
		}
	case *TypeID:
		if o.TypeIDs {
			return func() Directive { return v.VisitTypeID(x) },
				func() Directive { return v.LeaveTypeID(x) }
		}
	case *Enumerator:
		if o.Enumerators {
			return func() Directive { return v.VisitEnumerator(x) },
				func() Directive { return v.LeaveEnumerator(x) }
		}
	}
	return nil, nil
}
