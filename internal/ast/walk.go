package ast

// Visitor is called for every node by Walk. Returning nil skips the children
// of the node.
type Visitor interface {
	Visit(node any) (w Visitor)
}

// Walk traverses the tree depth-first, parents before children, left before
// right. node is a *Program, a Stmt or an Expr.
func Walk(v Visitor, node any) {
	if node == nil {
		return
	}
	if v = v.Visit(node); v == nil {
		return
	}
	switch n := node.(type) {
	case *Program:
		for _, s := range n.Stmts {
			Walk(v, s)
		}
	case *ExprStmt:
		Walk(v, n.X)
	case *DeclStmt:
		Walk(v, n.Init)
	case *FuncDecl:
		Walk(v, n.Body)
	case *BinaryExpr:
		Walk(v, n.Left)
		Walk(v, n.Right)
	}
}

type inspector func(any) bool

func (f inspector) Visit(node any) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect calls f for each node; f returning false prunes the subtree.
func Inspect(node any, f func(any) bool) {
	Walk(inspector(f), node)
}
