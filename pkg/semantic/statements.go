package semantic

import (
	"cxxscope/pkg/ast"
	"cxxscope/pkg/symtab"
)

// block runs fn inside a fresh block scope
func (r *Resolver) block(fn func()) {
	id := r.table.NewDeclaration("", symtab.Builtin(symtab.KindBlock))
	r.table.Push(id)
	defer r.table.Pop()
	fn()
}

func (r *Resolver) statements(list []ast.Statement) {
	for _, s := range list {
		r.statement(s)
	}
}

func (r *Resolver) statement(s ast.Statement) {
	switch s := s.(type) {
	case nil:
	case *ast.CompoundStatement:
		r.block(func() { r.statements(s.Statements) })
	case *ast.DeclarationStatement:
		r.declaration(s.Declaration)
	case *ast.ExpressionStatement:
		if s.Expression != nil {
			r.expr(s.Expression)
		}
	case *ast.IfStatement:
		r.block(func() {
			r.condition(s.Condition, s.ConditionDecl)
			r.statement(s.Then)
			r.statement(s.Else)
		})
	case *ast.WhileStatement:
		r.block(func() {
			r.condition(s.Condition, s.ConditionDecl)
			r.statement(s.Body)
		})
	case *ast.DoStatement:
		r.statement(s.Body)
		if s.Condition != nil {
			r.expr(s.Condition)
		}
	case *ast.ForStatement:
		r.block(func() {
			r.statement(s.Init)
			r.condition(s.Condition, s.ConditionDecl)
			if s.Iteration != nil {
				r.expr(s.Iteration)
			}
			r.statement(s.Body)
		})
	case *ast.SwitchStatement:
		r.block(func() {
			if s.Controller != nil {
				r.expr(s.Controller)
			}
			r.statement(s.Body)
		})
	case *ast.CaseStatement:
		if s.Expression != nil {
			r.expr(s.Expression)
		}
	case *ast.ReturnStatement:
		if s.Value != nil {
			r.expr(s.Value)
		}
	case *ast.LabelStatement:
		r.statement(s.Statement)
	case *ast.TryBlockStatement:
		if s.Body != nil {
			r.statement(s.Body)
		}
		for _, h := range s.Handlers {
			r.catchHandler(h)
		}
	case *ast.DefaultStatement, *ast.BreakStatement, *ast.ContinueStatement,
		*ast.GotoStatement, *ast.NullStatement, *ast.ProblemStatement:
		// labels are not entered into the symbol table
	}
}

func (r *Resolver) condition(e ast.Expression, decl *ast.SimpleDeclaration) {
	if decl != nil {
		r.simpleDeclaration(decl)
	}
	if e != nil {
		r.expr(e)
	}
}

// catchHandler binds the exception declaration in the scope of the
// handler body
func (r *Resolver) catchHandler(h *ast.CatchHandler) {
	r.block(func() {
		if h.Declaration != nil {
			r.simpleDeclaration(h.Declaration)
		}
		if h.Body != nil {
			r.statements(h.Body.Statements)
		}
	})
}
