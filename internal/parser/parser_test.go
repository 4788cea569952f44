package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/source"
	"ember/internal/testkit"
	"ember/internal/token"
	"ember/internal/trace"
)

func parseSource(t *testing.T, input string) (Result, *diag.Bag) {
	t.Helper()
	return parseSourceWithKeywords(t, input, token.NewKeywords("if", "fn", "type"))
}

func parseSourceWithKeywords(t *testing.T, input string, kw token.Keywords) (Result, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(100)
	res := ParseSource(context.Background(), input, Options{
		Keywords: kw,
		Reporter: diag.BagReporter{Bag: bag},
	})
	if res.Program == nil {
		t.Fatal("Program must never be nil")
	}
	if err := testkit.CheckTreeInvariants(res.Program, input); err != nil {
		t.Fatalf("tree invariants: %v", err)
	}
	return res, bag
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func TestParseExpr(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"8 - 3 - 2", "Sub(Sub(Number(8), Number(3)), Number(2))"},
		{"2 + 3 * 4", "Add(Number(2), Mul(Number(3), Number(4)))"},
		{"(2 + 3) * 4", "Mul(Add(Number(2), Number(3)), Number(4))"},
		{"8 / 4 / 2", "Div(Div(Number(8), Number(4)), Number(2))"},
		{"2 * 3 + 4 * 5", "Add(Mul(Number(2), Number(3)), Mul(Number(4), Number(5)))"},
		{"a - (b - c)", "Sub(Ident(a), Sub(Ident(b), Ident(c)))"},
		{`"Hello, " + "World!"`, `Add(String("Hello, "), String("World!"))`},
		{"  ((x))  ", "Ident(x)"},
		{"1 +\n 2", "Add(Number(1), Number(2))"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e, ok := ParseExpr(context.Background(), tt.input, Options{})
			if !ok {
				t.Fatalf("ParseExpr(%q) failed", tt.input)
			}
			if got := ast.Format(e); got != tt.want {
				t.Fatalf("ParseExpr(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseExprRejects(t *testing.T) {
	for _, input := range []string{`"abc`, "", "1 +", "(1 + 2", "@", "1 2", "if", "a * * b"} {
		t.Run(input, func(t *testing.T) {
			if e, ok := ParseExpr(context.Background(), input, Options{Keywords: token.NewKeywords("if")}); ok {
				t.Fatalf("ParseExpr(%q) = %s, want failure", input, ast.Format(e))
			}
		})
	}
}

func TestBinaryOperatorToken(t *testing.T) {
	e, ok := ParseExpr(context.Background(), "7 +  1", Options{})
	if !ok {
		t.Fatal("parse failed")
	}
	bin, isBin := e.(*ast.BinaryExpr)
	if !isBin {
		t.Fatalf("got %T, want *ast.BinaryExpr", e)
	}
	want := token.New(token.Operation, "+", source.Location{Line: 1, Column: 3})
	if bin.Op != want || bin.BinaryOp() != ast.ExprBinaryAdd {
		t.Fatalf("Op = %v, want %v", bin.Op, want)
	}
	if r := bin.Right.Pos(); r != (source.Location{Line: 1, Column: 6}) {
		t.Fatalf("right operand at %v", r)
	}
}

func TestParseDecl(t *testing.T) {
	res, bag := parseSource(t, "a : int = 10")
	if !res.Complete || bag.Len() != 0 {
		t.Fatalf("Complete=%v diagnostics=%s", res.Complete, diagnosticsSummary(bag))
	}
	if res.Program.Len() != 1 {
		t.Fatalf("got %d statements", res.Program.Len())
	}
	decl, ok := res.Program.Stmts[0].(*ast.DeclStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.DeclStmt", res.Program.Stmts[0])
	}
	if decl.Name.Literal != "a" || decl.Type.Literal != "int" || ast.Format(decl.Init) != "Number(10)" {
		t.Fatalf("decl = %s", ast.Format(decl))
	}
	if decl.Name.Kind != token.Ident || decl.Type.Location != (source.Location{Line: 1, Column: 5}) {
		t.Fatalf("tokens: name=%v type=%v", decl.Name, decl.Type)
	}
}

func TestParseProgram(t *testing.T) {
	input := "a : int = 10\n\nb : str = \"x\"\n  a + b * 2\nc\n"
	res, bag := parseSource(t, input)
	if !res.Complete || bag.Len() != 0 {
		t.Fatalf("Complete=%v diagnostics=%s", res.Complete, diagnosticsSummary(bag))
	}
	want := strings.Join([]string{
		"Decl(a, int, Number(10))",
		`Decl(b, str, String("x"))`,
		"ExprStmt(Add(Ident(a), Mul(Ident(b), Number(2))))",
		"ExprStmt(Ident(c))",
	}, "\n")
	if got := ast.Format(res.Program); got != want {
		t.Fatalf("program:\n%s\nwant:\n%s", got, want)
	}
	if res.Stop != (source.Location{Line: 6, Column: 1}) {
		t.Fatalf("Stop = %v", res.Stop)
	}
}

func TestParseEmptyAndBlank(t *testing.T) {
	for _, input := range []string{"", "  \n\t\n"} {
		res, bag := parseSource(t, input)
		if !res.Complete || res.Program.Len() != 0 || bag.Len() != 0 {
			t.Fatalf("%q: Complete=%v len=%d diags=%s", input, res.Complete, res.Program.Len(), diagnosticsSummary(bag))
		}
	}
}

func TestMissingLineBreak(t *testing.T) {
	res, bag := parseSource(t, "x : int = 1 2\ny")
	if res.Complete {
		t.Fatal("parse must stop")
	}
	if got := ast.Format(res.Program); got != "Decl(x, int, Number(1))" {
		t.Fatalf("partial program = %s", got)
	}
	if bag.Len() != 1 {
		t.Fatalf("diagnostics = %s", diagnosticsSummary(bag))
	}
	d := bag.Items()[0]
	if d.Code != diag.SynExpectLineBreak || d.Severity != diag.SevError {
		t.Fatalf("diagnostic = %+v", d)
	}
	if d.Primary.Start != 12 || d.Primary.End != 13 {
		t.Fatalf("primary span = %v", d.Primary)
	}
	if len(d.Fixes) != 1 || d.Fixes[0].Edits[0].NewText != "\n" {
		t.Fatalf("fixes = %+v", d.Fixes)
	}
	if res.Stop != (source.Location{Line: 1, Column: 13}) {
		t.Fatalf("Stop = %v", res.Stop)
	}
}

func TestDanglingOperatorStops(t *testing.T) {
	res, bag := parseSource(t, "1 +")
	if res.Complete || ast.Format(res.Program) != "ExprStmt(Number(1))" {
		t.Fatalf("Complete=%v program=%s", res.Complete, ast.Format(res.Program))
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SynExpectLineBreak {
		t.Fatalf("diagnostics = %s", diagnosticsSummary(bag))
	}
}

func TestUnknownLeadingCharacter(t *testing.T) {
	res, bag := parseSource(t, "@foo\n1")
	if res.Complete || res.Program.Len() != 0 {
		t.Fatalf("Complete=%v len=%d", res.Complete, res.Program.Len())
	}
	if bag.Len() != 0 {
		t.Fatalf("no diagnostic expected, got %s", diagnosticsSummary(bag))
	}
	if res.Stop != source.StartLocation {
		t.Fatalf("Stop = %v, want 1:1", res.Stop)
	}
}

func TestStopAfterPartialProgram(t *testing.T) {
	res, _ := parseSource(t, "1\n  @")
	if res.Complete || res.Program.Len() != 1 || res.Stop != (source.Location{Line: 2, Column: 3}) {
		t.Fatalf("Complete=%v len=%d Stop=%v", res.Complete, res.Program.Len(), res.Stop)
	}
}

func TestUnterminatedString(t *testing.T) {
	res, bag := parseSource(t, `"abc`)
	if res.Complete || res.Program.Len() != 0 || bag.Len() != 0 {
		t.Fatalf("Complete=%v len=%d diags=%s", res.Complete, res.Program.Len(), diagnosticsSummary(bag))
	}
}

func TestKeywordStatementsUnsupported(t *testing.T) {
	res, _ := parseSource(t, "if x\n")
	if res.Complete || res.Program.Len() != 0 {
		t.Fatalf("keyword statement must not parse: %s", ast.Format(res.Program))
	}

	// не зарезервировано: обычный идентификатор
	res, _ = parseSourceWithKeywords(t, "if\n", token.Keywords{})
	if !res.Complete || ast.Format(res.Program) != "ExprStmt(Ident(if))" {
		t.Fatalf("Complete=%v program=%s", res.Complete, ast.Format(res.Program))
	}
}

func TestIdentStatementFallsBackToExpr(t *testing.T) {
	tests := []struct {
		input    string
		want     string
		complete bool
	}{
		{"a + 1", "ExprStmt(Add(Ident(a), Number(1)))", true},
		{"a", "ExprStmt(Ident(a))", true},
		// объявление не удалось: остаётся голый идентификатор и ':'
		{"a : int =", "ExprStmt(Ident(a))", false},
		{"a : 1 = 2", "ExprStmt(Ident(a))", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res, _ := parseSource(t, tt.input)
			if got := ast.Format(res.Program); got != tt.want || res.Complete != tt.complete {
				t.Fatalf("program=%s complete=%v; want %s complete=%v", got, res.Complete, tt.want, tt.complete)
			}
		})
	}
}

func TestDefinitionUnsupported(t *testing.T) {
	// определение не разбирается, остаётся "f" и висящий "::"
	res, bag := parseSource(t, "f :: fn")
	if res.Complete || res.Err != nil || ast.Format(res.Program) != "ExprStmt(Ident(f))" {
		t.Fatalf("Complete=%v err=%v program=%s", res.Complete, res.Err, ast.Format(res.Program))
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SynExpectLineBreak {
		t.Fatalf("diagnostics = %s", diagnosticsSummary(bag))
	}
}

func TestDefinitionKeywordContract(t *testing.T) {
	res, bag := parseSourceWithKeywords(t, "f :: type", token.NewKeywords("if"))
	if !errors.Is(res.Err, ErrContract) {
		t.Fatalf("Err = %v, want ErrContract", res.Err)
	}
	var cerr *ContractError
	if !errors.As(res.Err, &cerr) || cerr.Location != (source.Location{Line: 1, Column: 6}) {
		t.Fatalf("ContractError = %+v", cerr)
	}
	if res.Complete || res.Program.Len() != 0 {
		t.Fatalf("contract violation must stop parsing: %s", ast.Format(res.Program))
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SynInternal {
		t.Fatalf("diagnostics = %s", diagnosticsSummary(bag))
	}
	if sp := bag.Items()[0].Primary; sp.Start != 5 || sp.End != 9 {
		t.Fatalf("span = %v", sp)
	}
}

func TestNumberOverflow(t *testing.T) {
	res, bag := parseSource(t, "99999999999999999999 + 1")
	if res.Complete || res.Program.Len() != 0 {
		t.Fatalf("Complete=%v len=%d", res.Complete, res.Program.Len())
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SynBadNumber {
		t.Fatalf("diagnostics = %s", diagnosticsSummary(bag))
	}
	if sp := bag.Items()[0].Primary; sp.Start != 0 || sp.End != 20 {
		t.Fatalf("span = %v", sp)
	}
}

func TestParseFileSpans(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("other.em", []byte("1\n"))
	f := fs.Get(fs.AddVirtual("main.em", []byte("1 2")))

	bag := diag.NewBag(10)
	res := ParseFile(context.Background(), f, Options{Reporter: diag.BagReporter{Bag: bag}})
	if res.Complete || bag.Len() != 1 {
		t.Fatalf("Complete=%v diags=%s", res.Complete, diagnosticsSummary(bag))
	}
	if got := bag.Items()[0].Primary.File; got != f.ID {
		t.Fatalf("diagnostic file = %d, want %d", got, f.ID)
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := ParseSource(ctx, "1\n2", Options{})
	if !errors.Is(res.Err, context.Canceled) || res.Complete || res.Program.Len() != 0 {
		t.Fatalf("Err=%v Complete=%v len=%d", res.Err, res.Complete, res.Program.Len())
	}
}

func TestNilReporter(t *testing.T) {
	res := ParseSource(context.Background(), "1 2", Options{})
	if res.Complete || res.Program.Len() != 1 {
		t.Fatalf("Complete=%v len=%d", res.Complete, res.Program.Len())
	}
}

func TestTraceEvents(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	ParseSource(ctx, "1\nif x", Options{Keywords: token.NewKeywords("if")})

	var names []string
	for _, ev := range ring.Snapshot() {
		names = append(names, ev.Kind.String()+":"+ev.Name)
	}
	got := strings.Join(names, " ")
	want := "begin:parse point:keyword point:stop end:parse"
	if got != want {
		t.Fatalf("events = %q, want %q", got, want)
	}
	end := ring.Snapshot()[3]
	if end.Extra["stmts"] != "1" || end.Extra["complete"] != "false" || end.Detail != "2:1" {
		t.Fatalf("end event = %+v", end)
	}
}
