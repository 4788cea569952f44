package testkit

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"ember/internal/ast"
	"ember/internal/source"
)

// CheckTreeInvariants runs a minimal set of structural checks on a parsed
// program:
// 1) every node location is valid and lies inside src
// 2) statements appear in source order
// 3) a binary node's operator lies between its operands
// 4) no node is reachable twice (each parent owns its children)
func CheckTreeInvariants(prog *ast.Program, src string) error {
	if prog == nil {
		return fmt.Errorf("nil program")
	}
	lines := strings.Split(src, "\n")

	inside := func(loc source.Location) error {
		if !loc.IsValid() {
			return fmt.Errorf("invalid location %v", loc)
		}
		if int(loc.Line) > len(lines) {
			return fmt.Errorf("location %v beyond last line %d", loc, len(lines))
		}
		// колонка может указывать на позицию сразу за последним символом
		if maxCol := utf8.RuneCountInString(lines[loc.Line-1]) + 1; int(loc.Column) > maxCol {
			return fmt.Errorf("location %v beyond end of line (%d columns)", loc, maxCol)
		}
		return nil
	}

	for i := 1; i < len(prog.Stmts); i++ {
		prev, cur := prog.Stmts[i-1].Pos(), prog.Stmts[i].Pos()
		if !prev.Before(cur) {
			return fmt.Errorf("statement %d at %v does not follow statement %d at %v", i, cur, i-1, prev)
		}
	}

	var err error
	seen := make(map[any]struct{})
	ast.Inspect(prog, func(n any) bool {
		if err != nil {
			return false
		}
		if _, dup := seen[n]; dup {
			err = fmt.Errorf("node %s reachable twice", ast.Format(n))
			return false
		}
		seen[n] = struct{}{}

		switch n := n.(type) {
		case *ast.Program:
			return true
		case ast.Stmt:
			err = inside(n.Pos())
		case *ast.BinaryExpr:
			if err = inside(n.Op.Location); err != nil {
				return false
			}
			if !n.Left.Pos().Before(n.Op.Location) || !n.Op.Location.Before(n.Right.Pos()) {
				err = fmt.Errorf("binary %s: operator at %v not between operands", ast.Format(n), n.Op.Location)
			}
		case ast.Expr:
			err = inside(n.Pos())
		}
		return err == nil
	})
	return err
}
