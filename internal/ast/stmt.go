package ast

import (
	"ember/internal/source"
	"ember/internal/token"
)

type StmtKind uint8

const (
	StmtExpr StmtKind = iota + 1
	StmtDecl
	StmtFuncDecl
)

func (k StmtKind) String() string {
	switch k {
	case StmtExpr:
		return "ExprStmt"
	case StmtDecl:
		return "Decl"
	case StmtFuncDecl:
		return "FuncDecl"
	default:
		return "Stmt(?)"
	}
}

// Stmt is one of *ExprStmt, *DeclStmt, *FuncDecl.
type Stmt interface {
	Kind() StmtKind
	Pos() source.Location
	stmtNode()
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	X Expr
}

// DeclStmt is "name : type = init".
type DeclStmt struct {
	Name token.Token
	Type token.Token
	Init Expr
}

// FuncDecl is a named function definition. The grammar does not produce it yet.
type FuncDecl struct {
	Name token.Token
	Body Expr
}

func (*ExprStmt) Kind() StmtKind { return StmtExpr }
func (*DeclStmt) Kind() StmtKind { return StmtDecl }
func (*FuncDecl) Kind() StmtKind { return StmtFuncDecl }

func (s *ExprStmt) Pos() source.Location { return s.X.Pos() }
func (s *DeclStmt) Pos() source.Location { return s.Name.Location }
func (s *FuncDecl) Pos() source.Location { return s.Name.Location }

func (*ExprStmt) stmtNode() {}
func (*DeclStmt) stmtNode() {}
func (*FuncDecl) stmtNode() {}

// Program is the statement list of one input, in source order.
type Program struct {
	Stmts []Stmt
}

// Len returns the number of statements.
func (p *Program) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Stmts)
}
