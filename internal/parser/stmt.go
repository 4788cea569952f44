package parser

import (
	"ember/internal/ast"
	"ember/internal/lexer"
	"ember/internal/rule"
	"ember/internal/token"
)

var (
	// "::" раньше ":", иначе Lit(":") съест половину
	declOrDef  = rule.Lits("::", ":")
	defKeyword = rule.Or(rule.Lit("fn"), rule.Lit("type"))
	assign     = rule.Lit("=")
)

// parseStatement := KeywordStmt | IdentStmt | ExprStmt
// After a contract violation no further alternative is tried.
func (p *Parser) parseStatement() (ast.Stmt, bool) {
	if s, ok := p.parseKeywordStmt(); ok || p.err != nil {
		return s, ok
	}
	if s, ok := p.parseIdentStmt(); ok || p.err != nil {
		return s, ok
	}
	return p.parseExprStmt()
}

// parseKeywordStmt recognises statements introduced by a reserved word.
// None of them have bodies yet, so it always fails after the lookahead.
func (p *Parser) parseKeywordStmt() (ast.Stmt, bool) {
	return lexer.Attempt(p.c, func() (ast.Stmt, bool) {
		kw, ok := rule.Ident.Match(p.c)
		if !ok || kw.Kind != token.Keyword {
			return nil, false
		}
		p.point("keyword", "unsupported statement "+kw.String())
		return nil, false
	})
}

// parseIdentStmt := Ident ( '::' DefStmt | ':' DeclStmt )
// A bare identifier is left to parseExprStmt.
func (p *Parser) parseIdentStmt() (ast.Stmt, bool) {
	return lexer.Attempt(p.c, func() (ast.Stmt, bool) {
		name, ok := rule.Ident.Match(p.c)
		if !ok || name.Kind != token.Ident {
			return nil, false
		}
		sep, ok := declOrDef.Match(p.c)
		if !ok {
			return nil, false
		}
		if sep.Literal == "::" {
			return p.parseDefStmt(name)
		}
		return p.parseDeclStmt(name)
	})
}

// parseDeclStmt := TypeIdent '=' Expr
func (p *Parser) parseDeclStmt(name token.Token) (ast.Stmt, bool) {
	return lexer.Attempt(p.c, func() (ast.Stmt, bool) {
		typ, ok := rule.Ident.Match(p.c)
		if !ok || typ.Kind != token.Ident {
			return nil, false
		}
		if _, ok := assign.Match(p.c); !ok {
			return nil, false
		}
		init, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		return &ast.DeclStmt{Name: name, Type: typ, Init: init}, true
	})
}

// parseDefStmt := ('fn' | 'type') ...
// Definition bodies are not part of the grammar yet: the rule always fails.
func (p *Parser) parseDefStmt(name token.Token) (ast.Stmt, bool) {
	return lexer.Attempt(p.c, func() (ast.Stmt, bool) {
		p.c.IgnoreWhitespace()
		m := p.c.Mark()
		kw, ok := defKeyword.Match(p.c)
		if !ok {
			return nil, false
		}
		if kw.Kind != token.Keyword {
			p.contract("definition", kw.Location, p.c.SpanFrom(m), "'"+kw.Literal+"' is not a reserved keyword")
			return nil, false
		}
		p.point("definition", "unsupported "+kw.Literal+" definition of "+name.Literal)
		return nil, false
	})
}

// parseExprStmt := Expr
func (p *Parser) parseExprStmt() (ast.Stmt, bool) {
	x, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	return &ast.ExprStmt{X: x}, true
}
