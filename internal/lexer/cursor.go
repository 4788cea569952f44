package lexer

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"

	"ember/internal/source"
	"ember/internal/token"
)

// ErrUnbalanced is the panic value raised when Pop or Commit runs without a
// matching Push, or when a try-region leaves the checkpoint stack unbalanced.
var ErrUnbalanced = errors.New("lexer: unbalanced checkpoint stack")

// checkpoint снимает всё, что нужно для отката: смещение и обе локации.
type checkpoint struct {
	off uint32
	loc source.Location
	end source.Location
}

// Cursor is the mutable scanning position over one input, plus the
// checkpoint stack used for speculative matching.
type Cursor struct {
	file  source.FileID
	input string
	off   uint32
	limit uint32
	loc   source.Location
	// end is the location just past the last non-whitespace rune consumed.
	end   source.Location
	stack []checkpoint
	kw    token.Keywords
}

// NewCursor creates a cursor over an in-memory string.
func NewCursor(input string, kw token.Keywords) *Cursor {
	limit, err := safecast.Conv[uint32](len(input))
	if err != nil {
		panic(fmt.Errorf("len input overflow: %w", err))
	}
	return &Cursor{
		input: input,
		limit: limit,
		loc:   source.StartLocation,
		end:   source.StartLocation,
		kw:    kw,
	}
}

// NewFileCursor creates a cursor over a file of a FileSet; spans built by the
// cursor then point into that file.
func NewFileCursor(f *source.File, kw token.Keywords) *Cursor {
	c := NewCursor(f.Text(), kw)
	c.file = f.ID
	return c
}

// EOF reports whether the whole input has been consumed.
func (c *Cursor) EOF() bool {
	return c.off >= c.limit
}

// Peek returns the rune at the current position without consuming it.
func (c *Cursor) Peek() (rune, bool) {
	if c.EOF() {
		return 0, false
	}
	b := c.input[c.off]
	if b < utf8.RuneSelf {
		return rune(b), true
	}
	r, _ := utf8.DecodeRuneInString(c.input[c.off:])
	return r, true
}

// Consume returns the current rune and advances past it, updating the
// location. At end of input it returns false and does not move.
func (c *Cursor) Consume() (rune, bool) {
	if c.EOF() {
		return 0, false
	}
	r, sz := utf8.DecodeRuneInString(c.input[c.off:])
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("rune size overflow: %w", err))
	}
	c.off += usz
	c.loc = c.loc.Advance(r)
	if !unicode.IsSpace(r) {
		c.end = c.loc
	}
	return r, true
}

// ConsumeWhile consumes runes while pred holds and returns them; the result
// is empty when the first rune already fails pred.
func (c *Cursor) ConsumeWhile(pred func(rune) bool) string {
	start := c.off
	for {
		r, ok := c.Peek()
		if !ok || !pred(r) {
			break
		}
		c.Consume()
	}
	return c.input[start:c.off]
}

// IgnoreWhitespace consumes and discards a maximal run of whitespace.
func (c *Cursor) IgnoreWhitespace() {
	c.ConsumeWhile(unicode.IsSpace)
}

// Push records the current position and location.
func (c *Cursor) Push() {
	c.stack = append(c.stack, checkpoint{off: c.off, loc: c.loc, end: c.end})
}

// Pop restores the most recent checkpoint and removes it.
func (c *Cursor) Pop() {
	cp := c.top()
	c.off, c.loc, c.end = cp.off, cp.loc, cp.end
	c.stack = c.stack[:len(c.stack)-1]
}

// Commit drops the most recent checkpoint, keeping the current position.
func (c *Cursor) Commit() {
	c.top()
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *Cursor) top() checkpoint {
	if len(c.stack) == 0 {
		panic(ErrUnbalanced)
	}
	return c.stack[len(c.stack)-1]
}

// Try runs fn inside a checkpoint: the consumption is kept when fn succeeds
// and rolled back when it fails.
func (c *Cursor) Try(fn func() (token.Token, bool)) (token.Token, bool) {
	return Attempt(c, fn)
}

// Attempt is the generic form of Try, used by the parser for AST nodes.
// It pops or commits exactly once per call.
func Attempt[T any](c *Cursor, fn func() (T, bool)) (T, bool) {
	c.Push()
	depth := len(c.stack)
	v, ok := fn()
	if len(c.stack) != depth {
		panic(ErrUnbalanced)
	}
	if !ok {
		c.Pop()
		var zero T
		return zero, false
	}
	c.Commit()
	return v, true
}

// IsKeyword reports whether text is in the cursor's keyword table.
func (c *Cursor) IsKeyword(text string) bool {
	return c.kw.Contains(text)
}

// Keywords returns the keyword table the cursor was built with.
func (c *Cursor) Keywords() token.Keywords {
	return c.kw
}

// Off returns the current byte offset.
func (c *Cursor) Off() uint32 { return c.off }

// Location returns the line/column of the next rune to be consumed.
func (c *Cursor) Location() source.Location { return c.loc }

// End returns the location right after the last significant rune consumed.
func (c *Cursor) End() source.Location { return c.end }

// Depth returns the number of open checkpoints.
func (c *Cursor) Depth() int { return len(c.stack) }

// Rest returns the unconsumed input.
func (c *Cursor) Rest() string { return c.input[c.off:] }

// Mark это метка, что бы быстро получать Span читаемого фрагмента
type Mark uint32

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark(c.off)
}

// SpanFrom получает Span для фрагмента, начиная с метки
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{
		File:  c.file,
		Start: uint32(m),
		End:   c.off,
	}
}

// SpanAt returns an empty span at the current offset, or a one-rune span
// when a rune is available.
func (c *Cursor) SpanAt() source.Span {
	sp := source.Span{File: c.file, Start: c.off, End: c.off}
	if c.EOF() {
		return sp
	}
	_, sz := utf8.DecodeRuneInString(c.input[c.off:])
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("rune size overflow: %w", err))
	}
	sp.End += usz
	return sp
}
