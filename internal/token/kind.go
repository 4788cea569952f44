package token

// Kind classifies a matched token. The set is closed.
type Kind uint8

const (
	// Invalid is the zero value; no rule produces it.
	Invalid Kind = iota
	// Value is a number or string literal.
	Value
	// Ident is an identifier that is not a reserved keyword.
	Ident
	// Operation is an arithmetic or comparison operator.
	Operation
	// Keyword is an identifier found in the keyword table.
	Keyword
	// Symbol is punctuation.
	Symbol
	// Unknown is literal-matched text with no more specific class.
	Unknown
	// EOF marks the end of the input.
	EOF
)

var kindNames = [...]string{
	Invalid:   "Invalid",
	Value:     "Value",
	Ident:     "Ident",
	Operation: "Operation",
	Keyword:   "Keyword",
	Symbol:    "Symbol",
	Unknown:   "Unknown",
	EOF:       "EOF",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return Invalid, false
}
