package token

import (
	"fmt"

	"ember/internal/source"
)

// Token is a classified, located fragment of matched source text.
type Token struct {
	Kind     Kind
	Literal  string
	Location source.Location
}

// New is a shorthand used by rules and tests.
func New(kind Kind, literal string, loc source.Location) Token {
	return Token{Kind: kind, Literal: literal, Location: loc}
}

// IsValue reports whether the token is a number or string literal.
func (t Token) IsValue() bool { return t.Kind == Value }

// IsIdent reports whether the token is a non-keyword identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsKeyword reports whether the token matched the keyword table.
func (t Token) IsKeyword() bool { return t.Kind == Keyword }

func (t Token) String() string {
	if t.Kind == EOF {
		return fmt.Sprintf("EOF@%s", t.Location)
	}
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Literal, t.Location)
}
