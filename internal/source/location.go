package source

import "fmt"

// Location is the line/column pair the cursor reports for a token start.
// Column counts runes, not bytes.
type Location struct {
	Line   uint32
	Column uint32
}

// StartLocation is the location of the first character of any input.
var StartLocation = Location{Line: 1, Column: 1}

// Advance returns the location after consuming r.
func (l Location) Advance(r rune) Location {
	if r == '\n' {
		return Location{Line: l.Line + 1, Column: 1}
	}
	return Location{Line: l.Line, Column: l.Column + 1}
}

// IsValid reports whether both components are 1-based.
func (l Location) IsValid() bool {
	return l.Line >= 1 && l.Column >= 1
}

// Before reports whether l precedes other in reading order.
func (l Location) Before(other Location) bool {
	if l.Line != other.Line {
		return l.Line < other.Line
	}
	return l.Column < other.Column
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}
