package token

import "slices"

// DefaultKeywords is the reserved-word list used when no configuration
// supplies one.
var DefaultKeywords = []string{
	"fn",
	"type",
	"if",
	"else",
	"while",
	"return",
}

// Keywords is an immutable set of reserved words.
type Keywords struct {
	words map[string]struct{}
}

// NewKeywords builds a table from an ordered list. Duplicates are ignored;
// matching is case-sensitive.
func NewKeywords(words ...string) Keywords {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		set[w] = struct{}{}
	}
	return Keywords{words: set}
}

// Contains reports whether word is reserved. The zero Keywords reserves nothing.
func (k Keywords) Contains(word string) bool {
	_, ok := k.words[word]
	return ok
}

// Len returns the number of reserved words.
func (k Keywords) Len() int {
	return len(k.words)
}

// Words returns the reserved words in sorted order.
func (k Keywords) Words() []string {
	out := make([]string, 0, len(k.words))
	for w := range k.words {
		out = append(out, w)
	}
	slices.Sort(out)
	return out
}
