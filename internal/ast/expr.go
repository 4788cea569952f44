package ast

import (
	"ember/internal/source"
	"ember/internal/token"
)

type ExprKind uint8

const (
	ExprNumber ExprKind = iota + 1
	ExprIdent
	ExprString
	ExprBinary
)

func (k ExprKind) String() string {
	switch k {
	case ExprNumber:
		return "Number"
	case ExprIdent:
		return "Ident"
	case ExprString:
		return "String"
	case ExprBinary:
		return "Binary"
	default:
		return "Expr(?)"
	}
}

// Expr is one of *NumberExpr, *IdentExpr, *StringExpr, *BinaryExpr.
type Expr interface {
	Kind() ExprKind
	// Pos is the location of the first token of the expression.
	Pos() source.Location
	exprNode()
}

// NumberExpr is an integer literal.
type NumberExpr struct {
	Tok   token.Token
	Value int64
}

// IdentExpr is a reference to a name.
type IdentExpr struct {
	Name token.Token
}

// StringExpr is a string literal; Value has the quotes stripped.
type StringExpr struct {
	Tok   token.Token
	Value string
}

// BinaryExpr combines two operands with an operator token.
type BinaryExpr struct {
	Op    token.Token
	Left  Expr
	Right Expr
}

func (*NumberExpr) Kind() ExprKind { return ExprNumber }
func (*IdentExpr) Kind() ExprKind  { return ExprIdent }
func (*StringExpr) Kind() ExprKind { return ExprString }
func (*BinaryExpr) Kind() ExprKind { return ExprBinary }

func (e *NumberExpr) Pos() source.Location { return e.Tok.Location }
func (e *IdentExpr) Pos() source.Location  { return e.Name.Location }
func (e *StringExpr) Pos() source.Location { return e.Tok.Location }
func (e *BinaryExpr) Pos() source.Location { return e.Left.Pos() }

func (*NumberExpr) exprNode() {}
func (*IdentExpr) exprNode()  {}
func (*StringExpr) exprNode() {}
func (*BinaryExpr) exprNode() {}

// BinaryOp returns the operator class of the node.
func (e *BinaryExpr) BinaryOp() ExprBinaryOp {
	op, _ := LookupBinaryOp(e.Op.Literal)
	return op
}
