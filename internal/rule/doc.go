// Package rule is a small parser-combinator library over lexer.Cursor.
//
// Every Rule attempts to consume one token from the cursor. On success it
// returns the token whose Literal is the consumed text; on failure it returns
// false and leaves the cursor exactly where it was (offset and location).
// All rules skip leading whitespace.
//
// Combinators:
//
//	Lit("::")           exact text
//	Or(a, b), Alt(...)  first match wins, later branches see untouched input
//	And(a, b), Seq(...) all-or-nothing concatenation
//
// Atomic rules: Ident, Number, String. Scan tokenizes a whole input with the
// same rules plus Operator and Symbol.
package rule
