package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"ember/internal/token"
)

type TokenOutput struct {
	Kind   string `json:"kind"`
	Text   string `json:"text,omitempty"`
	Line   uint32 `json:"line"`
	Column uint32 `json:"column"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате, по одному на
// строку, до EOF включительно.
func FormatTokensPretty(w io.Writer, tokens []token.Token) error {
	for i, tok := range tokens {
		if _, err := fmt.Fprintf(w, "%3d: %-10s", i+1, tok.Kind); err != nil {
			return err
		}
		if tok.Literal != "" {
			fmt.Fprintf(w, " %q", tok.Literal)
		}
		fmt.Fprintf(w, " at %s\n", tok.Location)
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// BuildTokens converts a token stream up to and including EOF.
func BuildTokens(tokens []token.Token) []TokenOutput {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		output = append(output, TokenOutput{
			Kind:   tok.Kind.String(),
			Text:   tok.Literal,
			Line:   tok.Location.Line,
			Column: tok.Location.Column,
		})
		if tok.Kind == token.EOF {
			break
		}
	}
	return output
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildTokens(tokens))
}
