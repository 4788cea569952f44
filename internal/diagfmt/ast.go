package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"ember/internal/ast"
)

type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Kind     string          `json:"kind,omitempty"`
	Pos      string          `json:"pos,omitempty"`
	Text     string          `json:"text,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

// FormatASTPretty prints the program as an indented tree:
//
//	Program (1 stmt)
//	└─ ExprStmt @1:1
//	   └─ Add @1:3
//	      ├─ Number 1 @1:1
//	      └─ Number 2 @1:5
func FormatASTPretty(w io.Writer, prog *ast.Program) error {
	root := buildASTNode(prog)
	if _, err := fmt.Fprintln(w, nodeLabel(root)); err != nil {
		return err
	}
	for i, child := range root.Children {
		writeTree(w, child, "", i == len(root.Children)-1)
	}
	return nil
}

func writeTree(w io.Writer, n ASTNodeOutput, prefix string, last bool) {
	branch, next := "├─ ", "│  "
	if last {
		branch, next = "└─ ", "   "
	}
	fmt.Fprintf(w, "%s%s%s\n", prefix, branch, nodeLabel(n))
	for i, child := range n.Children {
		writeTree(w, child, prefix+next, i == len(n.Children)-1)
	}
}

func nodeLabel(n ASTNodeOutput) string {
	label := n.Type
	if n.Kind != "" {
		label = n.Kind
	}
	if n.Text != "" {
		label += " " + n.Text
	}
	if n.Pos != "" {
		label += " @" + n.Pos
	}
	return label
}

// BuildAST returns the JSON shape of prog without encoding it.
func BuildAST(prog *ast.Program) ASTNodeOutput {
	return buildASTNode(prog)
}

// FormatASTJSON выводит AST в JSON формате
func FormatASTJSON(w io.Writer, prog *ast.Program) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildASTNode(prog))
}

func buildASTNode(node any) ASTNodeOutput {
	switch n := node.(type) {
	case *ast.Program:
		out := ASTNodeOutput{Type: "Program", Text: plural(n.Len(), "stmt")}
		if n != nil {
			for _, s := range n.Stmts {
				out.Children = append(out.Children, buildASTNode(s))
			}
		}
		return out
	case *ast.ExprStmt:
		return ASTNodeOutput{Type: "Stmt", Kind: n.Kind().String(), Pos: n.Pos().String(),
			Children: []ASTNodeOutput{buildASTNode(n.X)}}
	case *ast.DeclStmt:
		return ASTNodeOutput{Type: "Stmt", Kind: n.Kind().String(), Pos: n.Pos().String(),
			Text: n.Name.Literal + " : " + n.Type.Literal, Children: []ASTNodeOutput{buildASTNode(n.Init)}}
	case *ast.FuncDecl:
		return ASTNodeOutput{Type: "Stmt", Kind: n.Kind().String(), Pos: n.Pos().String(),
			Text: n.Name.Literal, Children: []ASTNodeOutput{buildASTNode(n.Body)}}
	case *ast.NumberExpr:
		return ASTNodeOutput{Type: "Expr", Kind: n.Kind().String(), Pos: n.Pos().String(), Text: strconv.FormatInt(n.Value, 10)}
	case *ast.IdentExpr:
		return ASTNodeOutput{Type: "Expr", Kind: n.Kind().String(), Pos: n.Pos().String(), Text: n.Name.Literal}
	case *ast.StringExpr:
		return ASTNodeOutput{Type: "Expr", Kind: n.Kind().String(), Pos: n.Pos().String(), Text: strconv.Quote(n.Value)}
	case *ast.BinaryExpr:
		kind := n.BinaryOp().String()
		if _, ok := ast.LookupBinaryOp(n.Op.Literal); !ok {
			kind = "Binary[" + n.Op.Literal + "]"
		}
		// позиция бинарного узла: позиция оператора
		return ASTNodeOutput{Type: "Expr", Kind: kind, Pos: n.Op.Location.String(),
			Children: []ASTNodeOutput{buildASTNode(n.Left), buildASTNode(n.Right)}}
	default:
		return ASTNodeOutput{Type: "<nil>"}
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return "(1 " + word + ")"
	}
	return "(" + strconv.Itoa(n) + " " + word + "s)"
}
