package ast

// Statement is implemented by every statement node
type Statement interface {
	Node
	statementNode()
}

type stmtNode struct{ node }

func (*stmtNode) statementNode() {}

// CompoundStatement is a `{ ... }` block
type CompoundStatement struct {
	stmtNode
	Statements []Statement
}

func (*CompoundStatement) Kind() Kind { return KindCompoundStatement }

func (s *CompoundStatement) eachChild(fn func(Node, Property)) {
	for _, st := range s.Statements {
		fn(st, PropStatement)
	}
}

// DeclarationStatement wraps a block-scope declaration
type DeclarationStatement struct {
	stmtNode
	Declaration Declaration
}

func (*DeclarationStatement) Kind() Kind { return KindDeclarationStatement }

func (s *DeclarationStatement) eachChild(fn func(Node, Property)) {
	if s.Declaration != nil {
		fn(s.Declaration, PropDeclaration)
	}
}

// ExpressionStatement is `expr;`
type ExpressionStatement struct {
	stmtNode
	Expression Expression
}

func (*ExpressionStatement) Kind() Kind { return KindExpressionStatement }

func (s *ExpressionStatement) eachChild(fn func(Node, Property)) {
	if s.Expression != nil {
		fn(s.Expression, PropExpression)
	}
}

// IfStatement is `if (cond) then [else else]`. A condition that declares
// a variable is held in ConditionDecl instead of Condition.
type IfStatement struct {
	stmtNode
	Condition     Expression
	ConditionDecl *SimpleDeclaration
	Then          Statement
	Else          Statement
}

func (*IfStatement) Kind() Kind { return KindIfStatement }

func (s *IfStatement) eachChild(fn func(Node, Property)) {
	if s.ConditionDecl != nil {
		fn(s.ConditionDecl, PropCondition)
	}
	if s.Condition != nil {
		fn(s.Condition, PropCondition)
	}
	if s.Then != nil {
		fn(s.Then, PropThen)
	}
	if s.Else != nil {
		fn(s.Else, PropElse)
	}
}

// WhileStatement is `while (cond) body`
type WhileStatement struct {
	stmtNode
	Condition     Expression
	ConditionDecl *SimpleDeclaration
	Body          Statement
}

func (*WhileStatement) Kind() Kind { return KindWhileStatement }

func (s *WhileStatement) eachChild(fn func(Node, Property)) {
	if s.ConditionDecl != nil {
		fn(s.ConditionDecl, PropCondition)
	}
	if s.Condition != nil {
		fn(s.Condition, PropCondition)
	}
	if s.Body != nil {
		fn(s.Body, PropBody)
	}
}

// DoStatement is `do body while (cond);`
type DoStatement struct {
	stmtNode
	Body      Statement
	Condition Expression
}

func (*DoStatement) Kind() Kind { return KindDoStatement }

func (s *DoStatement) eachChild(fn func(Node, Property)) {
	if s.Body != nil {
		fn(s.Body, PropBody)
	}
	if s.Condition != nil {
		fn(s.Condition, PropCondition)
	}
}

// ForStatement is `for (init; cond; iter) body`
type ForStatement struct {
	stmtNode
	Init          Statement
	Condition     Expression
	ConditionDecl *SimpleDeclaration
	Iteration     Expression
	Body          Statement
}

func (*ForStatement) Kind() Kind { return KindForStatement }

func (s *ForStatement) eachChild(fn func(Node, Property)) {
	if s.Init != nil {
		fn(s.Init, PropForInit)
	}
	if s.ConditionDecl != nil {
		fn(s.ConditionDecl, PropCondition)
	}
	if s.Condition != nil {
		fn(s.Condition, PropCondition)
	}
	if s.Iteration != nil {
		fn(s.Iteration, PropForIteration)
	}
	if s.Body != nil {
		fn(s.Body, PropBody)
	}
}

// SwitchStatement is `switch (x) body`
type SwitchStatement struct {
	stmtNode
	Controller Expression
	Body       Statement
}

func (*SwitchStatement) Kind() Kind { return KindSwitchStatement }

func (s *SwitchStatement) eachChild(fn func(Node, Property)) {
	if s.Controller != nil {
		fn(s.Controller, PropSwitchController)
	}
	if s.Body != nil {
		fn(s.Body, PropBody)
	}
}

// CaseStatement is a `case x:` label. The labelled statement follows it
// in the enclosing compound statement.
type CaseStatement struct {
	stmtNode
	Expression Expression
}

func (*CaseStatement) Kind() Kind { return KindCaseStatement }

func (s *CaseStatement) eachChild(fn func(Node, Property)) {
	if s.Expression != nil {
		fn(s.Expression, PropCaseExpression)
	}
}

// DefaultStatement is a `default:` label
type DefaultStatement struct{ stmtNode }

func (*DefaultStatement) Kind() Kind                     { return KindDefaultStatement }
func (*DefaultStatement) eachChild(func(Node, Property)) {}

// BreakStatement is `break;`
type BreakStatement struct{ stmtNode }

func (*BreakStatement) Kind() Kind                     { return KindBreakStatement }
func (*BreakStatement) eachChild(func(Node, Property)) {}

// ContinueStatement is `continue;`
type ContinueStatement struct{ stmtNode }

func (*ContinueStatement) Kind() Kind                     { return KindContinueStatement }
func (*ContinueStatement) eachChild(func(Node, Property)) {}

// ReturnStatement is `return [x];`
type ReturnStatement struct {
	stmtNode
	Value Expression
}

func (*ReturnStatement) Kind() Kind { return KindReturnStatement }

func (s *ReturnStatement) eachChild(fn func(Node, Property)) {
	if s.Value != nil {
		fn(s.Value, PropReturnValue)
	}
}

// GotoStatement is `goto label;`
type GotoStatement struct {
	stmtNode
	Label *Name
}

func (*GotoStatement) Kind() Kind { return KindGotoStatement }

func (s *GotoStatement) eachChild(fn func(Node, Property)) {
	if s.Label != nil {
		fn(s.Label, PropLabelName)
	}
}

// LabelStatement is `label: stmt`
type LabelStatement struct {
	stmtNode
	Label     *Name
	Statement Statement
}

func (*LabelStatement) Kind() Kind { return KindLabelStatement }

func (s *LabelStatement) eachChild(fn func(Node, Property)) {
	if s.Label != nil {
		fn(s.Label, PropLabelName)
	}
	if s.Statement != nil {
		fn(s.Statement, PropLabelStatement)
	}
}

// NullStatement is a lone `;`
type NullStatement struct{ stmtNode }

func (*NullStatement) Kind() Kind                     { return KindNullStatement }
func (*NullStatement) eachChild(func(Node, Property)) {}

// TryBlockStatement is `try { } catch (...) { }`
type TryBlockStatement struct {
	stmtNode
	Body     *CompoundStatement
	Handlers []*CatchHandler
}

func (*TryBlockStatement) Kind() Kind { return KindTryBlockStatement }

func (s *TryBlockStatement) eachChild(fn func(Node, Property)) {
	if s.Body != nil {
		fn(s.Body, PropBody)
	}
	for _, h := range s.Handlers {
		fn(h, PropCatchHandler)
	}
}

// CatchHandler is one `catch (decl) { }` clause; CatchAll is `catch (...)`
type CatchHandler struct {
	stmtNode
	CatchAll    bool
	Declaration *SimpleDeclaration
	Body        *CompoundStatement
}

func (*CatchHandler) Kind() Kind { return KindCatchHandler }

func (s *CatchHandler) eachChild(fn func(Node, Property)) {
	if s.Declaration != nil {
		fn(s.Declaration, PropCatchDeclaration)
	}
	if s.Body != nil {
		fn(s.Body, PropBody)
	}
}

// ProblemStatement stands in for a statement that could not be parsed
type ProblemStatement struct {
	stmtNode
	Problem *Problem
}

func (*ProblemStatement) Kind() Kind { return KindProblemStatement }

func (s *ProblemStatement) eachChild(fn func(Node, Property)) {
	if s.Problem != nil {
		fn(s.Problem, PropProblem)
	}
}
