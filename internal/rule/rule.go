package rule

import (
	"ember/internal/lexer"
	"ember/internal/token"
)

// Rule attempts to consume a token from the cursor.
type Rule interface {
	Match(c *lexer.Cursor) (token.Token, bool)
}

// Func adapts a plain function to Rule. The function must honour the
// transactional contract itself, usually through Cursor.Try.
type Func func(c *lexer.Cursor) (token.Token, bool)

// Match calls f.
func (f Func) Match(c *lexer.Cursor) (token.Token, bool) { return f(c) }

// Fail never matches.
var Fail Rule = Func(func(*lexer.Cursor) (token.Token, bool) { return token.Token{}, false })

type lit struct {
	text string
}

// Lit matches text exactly, rune by rune. The token is a Keyword when text is
// in the cursor's keyword table and Unknown otherwise.
func Lit(text string) Rule {
	return lit{text: text}
}

func (l lit) Match(c *lexer.Cursor) (token.Token, bool) {
	return c.Try(func() (token.Token, bool) {
		c.IgnoreWhitespace()
		loc := c.Location()
		for _, want := range l.text {
			got, ok := c.Consume()
			if !ok || got != want {
				return token.Token{}, false
			}
		}
		kind := token.Unknown
		if c.IsKeyword(l.text) {
			kind = token.Keyword
		}
		return token.New(kind, l.text, loc), true
	})
}

func (l lit) String() string { return "'" + l.text + "'" }

type or struct {
	a, b Rule
}

// Or tries a, then b on the untouched input. Trailing whitespace after a
// successful a is consumed.
func Or(a, b Rule) Rule {
	return or{a: a, b: b}
}

func (o or) Match(c *lexer.Cursor) (token.Token, bool) {
	tok, ok := c.Try(func() (token.Token, bool) {
		c.IgnoreWhitespace()
		tok, ok := o.a.Match(c)
		if ok {
			c.IgnoreWhitespace()
		}
		return tok, ok
	})
	if ok {
		return tok, true
	}
	// Try уже вернул позицию к метке до пробелов
	return o.b.Match(c)
}

type and struct {
	a, b Rule
}

// And matches a then b. If b fails the whole sequence is rolled back to the
// position before a. The result is an Unknown token with both literals
// concatenated, located at a's start.
func And(a, b Rule) Rule {
	return and{a: a, b: b}
}

func (s and) Match(c *lexer.Cursor) (token.Token, bool) {
	return c.Try(func() (token.Token, bool) {
		c.IgnoreWhitespace()
		first, ok := s.a.Match(c)
		if !ok {
			return token.Token{}, false
		}
		c.IgnoreWhitespace()
		second, ok := s.b.Match(c)
		if !ok {
			return token.Token{}, false
		}
		return token.New(token.Unknown, first.Literal+second.Literal, first.Location), true
	})
}

// Alt is the n-ary Or: Alt(a, b, c) == Or(a, Or(b, c)).
// Alt() never matches.
func Alt(rules ...Rule) Rule {
	switch len(rules) {
	case 0:
		return Fail
	case 1:
		return rules[0]
	}
	return Or(rules[0], Alt(rules[1:]...))
}

// Seq is the n-ary And: Seq(a, b, c) == And(And(a, b), c).
// Seq() never matches.
func Seq(rules ...Rule) Rule {
	if len(rules) == 0 {
		return Fail
	}
	r := rules[0]
	for _, next := range rules[1:] {
		r = And(r, next)
	}
	return r
}

// Lits is Alt over literals, in order; put longer literals sharing a prefix
// first ("::" before ":").
func Lits(texts ...string) Rule {
	rules := make([]Rule, len(texts))
	for i, t := range texts {
		rules[i] = Lit(t)
	}
	return Alt(rules...)
}
