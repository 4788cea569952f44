// Package token defines the token model shared by the cursor, the rule
// algebra and the parser.
// Invariants:
//   - Token.Literal is exactly the text a rule consumed (combinators concatenate).
//   - Token.Location is where the first consumed character started.
//   - Tokens are plain values; two tokens are equal iff all fields are equal.
//   - The keyword table is fixed at cursor construction and is case-sensitive.
package token
