package parser

import (
	"fmt"
	"strconv"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/lexer"
	"ember/internal/rule"
	"ember/internal/token"
)

var (
	addOp  = rule.Or(rule.Lit("+"), rule.Lit("-"))
	mulOp  = rule.Or(rule.Lit("*"), rule.Lit("/"))
	lparen = rule.Lit("(")
	rparen = rule.Lit(")")
)

// parseExpr - главная точка входа для парсинга выражений
func (p *Parser) parseExpr() (ast.Expr, bool) {
	return p.parseBinary(addOp, p.parseMul)
}

func (p *Parser) parseMul() (ast.Expr, bool) {
	return p.parseBinary(mulOp, p.parsePrimary)
}

// parseBinary parses operand (op operand)* and folds to the left, so
// "a - b - c" is (a - b) - c. An operator without a right operand is left
// unconsumed.
func (p *Parser) parseBinary(op rule.Rule, operand func() (ast.Expr, bool)) (ast.Expr, bool) {
	return lexer.Attempt(p.c, func() (ast.Expr, bool) {
		left, ok := operand()
		if !ok {
			return nil, false
		}
		for {
			next, ok := lexer.Attempt(p.c, func() (*ast.BinaryExpr, bool) {
				opTok, ok := op.Match(p.c)
				if !ok {
					return nil, false
				}
				right, ok := operand()
				if !ok {
					return nil, false
				}
				opTok.Kind = token.Operation
				return &ast.BinaryExpr{Op: opTok, Left: left, Right: right}, true
			})
			if !ok {
				return left, true
			}
			left = next
		}
	})
}

// parsePrimary := Number | String | Ident | '(' Expr ')'
func (p *Parser) parsePrimary() (ast.Expr, bool) {
	if e, ok := p.parseNumber(); ok {
		return e, true
	}
	if e, ok := p.parseString(); ok {
		return e, true
	}
	if e, ok := p.parseIdent(); ok {
		return e, true
	}
	return p.parseParen()
}

func (p *Parser) parseNumber() (ast.Expr, bool) {
	return lexer.Attempt(p.c, func() (ast.Expr, bool) {
		p.c.IgnoreWhitespace()
		m := p.c.Mark()
		tok, ok := rule.Number.Match(p.c)
		if !ok {
			return nil, false
		}
		v, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			diag.ReportError(p.reporter, diag.SynBadNumber, p.c.SpanFrom(m),
				fmt.Sprintf("number %s does not fit in 64 bits", tok.Literal)).
				Emit()
			return nil, false
		}
		return &ast.NumberExpr{Tok: tok, Value: v}, true
	})
}

func (p *Parser) parseString() (ast.Expr, bool) {
	tok, ok := rule.String.Match(p.c)
	if !ok {
		return nil, false
	}
	return &ast.StringExpr{Tok: tok, Value: rule.Unquote(tok.Literal)}, true
}

// parseIdent принимает только не-ключевые идентификаторы.
func (p *Parser) parseIdent() (ast.Expr, bool) {
	return lexer.Attempt(p.c, func() (ast.Expr, bool) {
		tok, ok := rule.Ident.Match(p.c)
		if !ok || tok.Kind != token.Ident {
			return nil, false
		}
		return &ast.IdentExpr{Name: tok}, true
	})
}

func (p *Parser) parseParen() (ast.Expr, bool) {
	return lexer.Attempt(p.c, func() (ast.Expr, bool) {
		if _, ok := lparen.Match(p.c); !ok {
			return nil, false
		}
		inner, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		if _, ok := rparen.Match(p.c); !ok {
			return nil, false
		}
		return inner, true
	})
}
