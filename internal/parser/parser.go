package parser

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/lexer"
	"ember/internal/source"
	"ember/internal/token"
	"ember/internal/trace"
)

type Options struct {
	// Keywords is the reserved word table; the zero value reserves nothing.
	Keywords token.Keywords
	Reporter diag.Reporter
}

// Result is what one parse produced. Program is never nil; on a stop it
// holds the statements parsed before the stop.
type Result struct {
	Program *ast.Program
	// Stop is where parsing ended: the end of input when Complete, otherwise
	// the first location that could not be parsed.
	Stop     source.Location
	Complete bool
	// Err is a *ContractError or the context error; user-facing problems go
	// to the Reporter instead.
	Err error
}

// Parser: состояние парсера на один вход
type Parser struct {
	c        *lexer.Cursor
	reporter *diag.DedupReporter
	tracer   trace.Tracer
	err      error
}

// ParseSource parses an in-memory program. Spans in diagnostics refer to
// FileID 0.
func ParseSource(ctx context.Context, src string, opts Options) Result {
	return newParser(ctx, lexer.NewCursor(src, opts.Keywords), opts).parseProgram(ctx)
}

// ParseFile parses f; spans in diagnostics point into f.
func ParseFile(ctx context.Context, f *source.File, opts Options) Result {
	return newParser(ctx, lexer.NewFileCursor(f, opts.Keywords), opts).parseProgram(ctx)
}

// ParseExpr parses src as a single expression that must span the whole input.
func ParseExpr(ctx context.Context, src string, opts Options) (ast.Expr, bool) {
	p := newParser(ctx, lexer.NewCursor(src, opts.Keywords), opts)
	var (
		e  ast.Expr
		ok bool
	)
	p.guard(func() {
		e, ok = p.parseExpr()
		if ok {
			p.c.IgnoreWhitespace()
			ok = p.c.EOF()
		}
	})
	if !ok || p.err != nil {
		return nil, false
	}
	return e, true
}

func newParser(ctx context.Context, c *lexer.Cursor, opts Options) *Parser {
	r := opts.Reporter
	if r == nil {
		r = diag.NopReporter{}
	}
	return &Parser{
		c: c,
		// откаты могут перечитать тот же литерал
		reporter: diag.NewDedupReporter(r),
		tracer:   trace.FromContext(ctx),
	}
}

// parseProgram: основной цикл: пока не EOF, один statement и перевод строки.
func (p *Parser) parseProgram(ctx context.Context) Result {
	span := trace.Begin(p.tracer, trace.ScopePass, "parse", trace.CurrentSpan(ctx).SpanID)

	prog := &ast.Program{}
	complete := false
	p.guard(func() {
		for {
			if err := ctx.Err(); err != nil {
				p.err = err
				return
			}
			p.c.IgnoreWhitespace()
			if p.c.EOF() {
				complete = true
				return
			}
			stmt, ok := p.parseStatement()
			if !ok {
				p.point("stop", "no statement at "+p.c.Location().String())
				return
			}
			prog.Stmts = append(prog.Stmts, stmt)
			if !p.expectLineBreak() {
				return
			}
		}
	})

	res := Result{
		Program:  prog,
		Stop:     p.c.Location(),
		Complete: complete && p.err == nil,
		Err:      p.err,
	}
	span.WithExtra("stmts", strconv.Itoa(prog.Len())).
		WithExtra("deduped", strconv.Itoa(p.reporter.Suppressed())).
		WithExtra("complete", strconv.FormatBool(res.Complete)).
		End(res.Stop.String())
	return res
}

// expectLineBreak проверяет, что statement закончился переводом строки или EOF.
// Whitespace (с переводами строк) съедается в любом случае.
func (p *Parser) expectLineBreak() bool {
	endLine := p.c.End().Line
	p.c.IgnoreWhitespace()
	if p.c.EOF() || p.c.Location().Line > endLine {
		return true
	}

	at := p.c.SpanAt()
	r, _ := p.c.Peek()
	diag.ReportError(p.reporter, diag.SynExpectLineBreak, at,
		fmt.Sprintf("expected line break after statement, found %q", r)).
		WithFix("insert line break", diag.FixEdit{
			Span:    source.Span{File: at.File, Start: at.Start, End: at.Start},
			NewText: "\n",
		}).
		Emit()
	p.point("stop", "missing line break at "+p.c.Location().String())
	return false
}

// guard turns an unbalanced checkpoint stack into a ContractError so that a
// grammar defect never escapes as a panic.
func (p *Parser) guard(fn func()) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, lexer.ErrUnbalanced) {
			panic(r)
		}
		p.contract("checkpoint", p.c.Location(), p.c.SpanAt(), err.Error())
	}()
	fn()
}

// contract records the first internal contract violation and reports it.
func (p *Parser) contract(rule string, at source.Location, sp source.Span, detail string) {
	cerr := &ContractError{Rule: rule, Location: at, Detail: detail}
	if p.err == nil {
		p.err = cerr
	}
	diag.ReportError(p.reporter, diag.SynInternal, sp, cerr.Error()).Emit()
	p.point("contract", cerr.Error())
}

func (p *Parser) point(name, detail string) {
	trace.Point(p.tracer, trace.ScopeNode, name, detail)
}
