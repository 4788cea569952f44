package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/source"
	"ember/internal/token"
)

func TestJSONDiagnostics(t *testing.T) {
	fs, id := fileWith(t, "f.em", "1 + 2 3\n")
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.SynExpectLineBreak, source.Span{File: id, Start: 6, End: 7}, "expected line break").
		WithFix("insert line break", diag.FixEdit{Span: source.Span{File: id, Start: 6, End: 6}, NewText: "\n"}))
	bag.Add(diag.New(diag.SevWarning, diag.IOCacheError, source.Span{}, "cache"))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeFixes: true, IncludePreviews: true}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 2 {
		t.Fatalf("Count = %d", out.Count)
	}
	first := out.Diagnostics[0]
	if first.Code != "SYN2001" || first.Severity != "ERROR" || first.Location == nil {
		t.Fatalf("first = %+v", first)
	}
	if first.Location.StartLine != 1 || first.Location.StartCol != 7 || first.Location.File != "f.em" {
		t.Errorf("location = %+v", *first.Location)
	}
	if len(first.Fixes) != 1 || len(first.Fixes[0].Edits) != 1 {
		t.Fatalf("fixes = %+v", first.Fixes)
	}
	if after := first.Fixes[0].Edits[0].AfterLines; len(after) != 2 || after[1] != "3" {
		t.Errorf("after lines = %q", after)
	}
	if out.Diagnostics[1].Location != nil {
		t.Error("zero span must not produce a location")
	}
	if strings.Contains(buf.String(), "start_line\": 0") {
		t.Error("zero positions must be omitted")
	}
}

func TestJSONMax(t *testing.T) {
	bag := diag.NewBag(10)
	for range 3 {
		bag.Add(diag.New(diag.SevInfo, diag.SynInfo, source.Span{}, "x"))
	}
	if out := BuildDiagnosticsOutput(bag, nil, JSONOpts{Max: 2}); out.Count != 2 {
		t.Fatalf("Count = %d, want 2", out.Count)
	}
}

func TestFormatTokens(t *testing.T) {
	toks := []token.Token{
		token.New(token.Ident, "a", source.Location{Line: 1, Column: 1}),
		token.New(token.Value, `"s"`, source.Location{Line: 1, Column: 3}),
		token.New(token.EOF, "", source.Location{Line: 1, Column: 6}),
		token.New(token.Ident, "after_eof", source.Location{Line: 2, Column: 1}),
	}
	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks); err != nil {
		t.Fatal(err)
	}
	want := "  1: Ident      \"a\" at 1:1\n" +
		"  2: Value      \"\\\"s\\\"\" at 1:3\n" +
		"  3: EOF        at 1:6\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}

	buf.Reset()
	if err := FormatTokensJSON(&buf, toks); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 || out[2].Kind != "EOF" || out[1].Text != `"s"` || out[1].Column != 3 {
		t.Fatalf("json tokens = %+v", out)
	}
}

func sampleProgram() *ast.Program {
	loc := func(col uint32) source.Location { return source.Location{Line: 1, Column: col} }
	return &ast.Program{Stmts: []ast.Stmt{
		&ast.DeclStmt{
			Name: token.New(token.Ident, "a", loc(1)),
			Type: token.New(token.Ident, "int", loc(5)),
			Init: &ast.BinaryExpr{
				Op:    token.New(token.Operation, "+", loc(13)),
				Left:  &ast.NumberExpr{Tok: token.New(token.Value, "1", loc(11)), Value: 1},
				Right: &ast.StringExpr{Tok: token.New(token.Value, `"x"`, loc(15)), Value: "x"},
			},
		},
	}}
}

func TestFormatASTPretty(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatASTPretty(&buf, sampleProgram()); err != nil {
		t.Fatal(err)
	}
	want := "Program (1 stmt)\n" +
		"└─ Decl a : int @1:1\n" +
		"   └─ Add @1:13\n" +
		"      ├─ Number 1 @1:11\n" +
		"      └─ String \"x\" @1:15\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}

	buf.Reset()
	if err := FormatASTPretty(&buf, &ast.Program{}); err != nil || buf.String() != "Program (0 stmts)\n" {
		t.Fatalf("empty program: %q, %v", buf.String(), err)
	}
}

func TestFormatASTJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatASTJSON(&buf, sampleProgram()); err != nil {
		t.Fatal(err)
	}
	var out ASTNodeOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	decl := out.Children[0]
	if decl.Kind != "Decl" || len(decl.Children) != 1 || decl.Children[0].Kind != "Add" {
		t.Fatalf("decl = %+v", decl)
	}
	if n := decl.Children[0].Children; len(n) != 2 || n[0].Text != "1" || n[1].Kind != "String" {
		t.Fatalf("operands = %+v", n)
	}
}
