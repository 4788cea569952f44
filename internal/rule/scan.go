package rule

import (
	"fmt"

	"ember/internal/lexer"
	"ember/internal/source"
	"ember/internal/token"
)

// ScanReason says why Scan stopped early.
type ScanReason uint8

const (
	// ScanUnknownChar: no rule accepts the next rune.
	ScanUnknownChar ScanReason = iota + 1
	// ScanUnterminatedString: a '"' with no closing quote.
	ScanUnterminatedString
)

// ScanError reports where and why Scan stopped.
type ScanError struct {
	Reason   ScanReason
	Char     rune
	Location source.Location
	Span     source.Span
}

func (e *ScanError) Error() string {
	switch e.Reason {
	case ScanUnterminatedString:
		return fmt.Sprintf("%s: unterminated string literal", e.Location)
	default:
		return fmt.Sprintf("%s: unexpected character %q", e.Location, e.Char)
	}
}

var scanRule = Alt(Ident, Number, String, Operator, Symbol)

// Scan tokenizes the rest of the input. The stream always ends with an EOF
// token; on error it holds the tokens matched before the offending rune
// followed by EOF at that rune.
func Scan(c *lexer.Cursor) ([]token.Token, error) {
	var out []token.Token
	for {
		c.IgnoreWhitespace()
		if c.EOF() {
			return append(out, token.New(token.EOF, "", c.Location())), nil
		}
		tok, ok := scanRule.Match(c)
		if !ok {
			r, _ := c.Peek()
			err := &ScanError{
				Reason:   ScanUnknownChar,
				Char:     r,
				Location: c.Location(),
				Span:     c.SpanAt(),
			}
			if r == '"' {
				err.Reason = ScanUnterminatedString
			}
			return append(out, token.New(token.EOF, "", c.Location())), err
		}
		out = append(out, tok)
	}
}
