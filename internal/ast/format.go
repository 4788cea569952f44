package ast

import (
	"strconv"
	"strings"
)

// Format renders a node in constructor notation, e.g.
// Add(Number(2), Mul(Number(3), Number(4))). Locations are omitted.
func Format(node any) string {
	var sb strings.Builder
	format(&sb, node)
	return sb.String()
}

func format(sb *strings.Builder, node any) {
	switch n := node.(type) {
	case nil:
		sb.WriteString("<nil>")
	case *Program:
		for i, s := range n.Stmts {
			if i > 0 {
				sb.WriteByte('\n')
			}
			format(sb, s)
		}
	case *ExprStmt:
		sb.WriteString("ExprStmt(")
		format(sb, n.X)
		sb.WriteByte(')')
	case *DeclStmt:
		sb.WriteString("Decl(")
		sb.WriteString(n.Name.Literal)
		sb.WriteString(", ")
		sb.WriteString(n.Type.Literal)
		sb.WriteString(", ")
		format(sb, n.Init)
		sb.WriteByte(')')
	case *FuncDecl:
		sb.WriteString("FuncDecl(")
		sb.WriteString(n.Name.Literal)
		sb.WriteString(", ")
		format(sb, n.Body)
		sb.WriteByte(')')
	case *NumberExpr:
		sb.WriteString("Number(")
		sb.WriteString(strconv.FormatInt(n.Value, 10))
		sb.WriteByte(')')
	case *IdentExpr:
		sb.WriteString("Ident(")
		sb.WriteString(n.Name.Literal)
		sb.WriteByte(')')
	case *StringExpr:
		sb.WriteString("String(")
		sb.WriteString(strconv.Quote(n.Value))
		sb.WriteByte(')')
	case *BinaryExpr:
		if op := n.BinaryOp(); op != ExprBinaryInvalid {
			sb.WriteString(op.String())
		} else {
			sb.WriteString("Binary[")
			sb.WriteString(n.Op.Literal)
			sb.WriteByte(']')
		}
		sb.WriteByte('(')
		format(sb, n.Left)
		sb.WriteString(", ")
		format(sb, n.Right)
		sb.WriteByte(')')
	default:
		sb.WriteString("<?>")
	}
}
