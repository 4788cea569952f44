package rule

import (
	"strings"
	"unicode"

	"ember/internal/lexer"
	"ember/internal/token"
)

// Ident matches [letter_][letter digit _]*. The token is a Keyword when the
// text is reserved and an Ident otherwise.
var Ident Rule = Func(matchIdent)

// Number matches a maximal run of decimal digits as a Value.
var Number Rule = Func(matchNumber)

// String matches a double-quoted literal with no escapes. The token literal
// keeps both quotes. An unterminated literal does not match.
var String Rule = Func(matchString)

// Operator matches a maximal run of operator characters as an Operation.
var Operator Rule = Func(matchOperator)

// Symbol matches one punctuation rune that is neither an operator nor a quote.
var Symbol Rule = Func(matchSymbol)

const operatorChars = "+-*/%<>=!&|^"

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDec(r rune) bool { return r >= '0' && r <= '9' }

func isOperator(r rune) bool { return strings.ContainsRune(operatorChars, r) }

func isSymbol(r rune) bool {
	if r == '"' || r == '_' || isOperator(r) {
		return false
	}
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func matchIdent(c *lexer.Cursor) (token.Token, bool) {
	return c.Try(func() (token.Token, bool) {
		c.IgnoreWhitespace()
		loc := c.Location()
		if r, ok := c.Peek(); !ok || !isIdentStart(r) {
			return token.Token{}, false
		}
		text := c.ConsumeWhile(isIdentContinue)
		kind := token.Ident
		if c.IsKeyword(text) {
			kind = token.Keyword
		}
		return token.New(kind, text, loc), true
	})
}

func matchNumber(c *lexer.Cursor) (token.Token, bool) {
	return matchRun(c, isDec, token.Value)
}

func matchOperator(c *lexer.Cursor) (token.Token, bool) {
	return matchRun(c, isOperator, token.Operation)
}

func matchRun(c *lexer.Cursor, pred func(rune) bool, kind token.Kind) (token.Token, bool) {
	return c.Try(func() (token.Token, bool) {
		c.IgnoreWhitespace()
		loc := c.Location()
		text := c.ConsumeWhile(pred)
		if text == "" {
			return token.Token{}, false
		}
		return token.New(kind, text, loc), true
	})
}

func matchString(c *lexer.Cursor) (token.Token, bool) {
	return c.Try(func() (token.Token, bool) {
		c.IgnoreWhitespace()
		loc := c.Location()
		if r, ok := c.Peek(); !ok || r != '"' {
			return token.Token{}, false
		}
		c.Consume()
		body := c.ConsumeWhile(func(r rune) bool { return r != '"' })
		if r, ok := c.Consume(); !ok || r != '"' {
			return token.Token{}, false
		}
		return token.New(token.Value, `"`+body+`"`, loc), true
	})
}

func matchSymbol(c *lexer.Cursor) (token.Token, bool) {
	return c.Try(func() (token.Token, bool) {
		c.IgnoreWhitespace()
		loc := c.Location()
		r, ok := c.Peek()
		if !ok || !isSymbol(r) {
			return token.Token{}, false
		}
		c.Consume()
		return token.New(token.Symbol, string(r), loc), true
	})
}

// Unquote strips the quotes String keeps in the literal.
func Unquote(literal string) string {
	if len(literal) >= 2 && literal[0] == '"' && literal[len(literal)-1] == '"' {
		return literal[1 : len(literal)-1]
	}
	return literal
}
