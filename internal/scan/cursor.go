// Package scan provides the byte cursor the pattern parser runs on.
package scan

import (
	"strings"
	"unicode/utf8"
)

// Cursor tracks a position inside the residual pattern text.
// Offsets are byte offsets into the residual text; the parser shifts them by
// the directive prefix length when reporting against the original source.
type Cursor struct {
	text     string
	off      int
	extended bool
	inClass  int // nesting count for character classes
}

// New creates a cursor over the residual pattern text.
// extended enables free-spacing skipping outside character classes.
func New(text string, extended bool) *Cursor {
	return &Cursor{text: text, extended: extended}
}

// EOF reports whether the cursor is at the end of the text.
func (c *Cursor) EOF() bool {
	return c.off >= len(c.text)
}

// Pos returns the current byte offset.
func (c *Cursor) Pos() int { return c.off }

// Peek returns the current byte, or 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.text[c.off]
}

// PeekAt returns the byte at offset n from the current position, or 0.
func (c *Cursor) PeekAt(n int) byte {
	j := c.off + n
	if j >= len(c.text) {
		return 0
	}
	return c.text[j]
}

// Take consumes and returns the next byte, or 0 at EOF.
func (c *Cursor) Take() byte {
	if c.EOF() {
		return 0
	}
	b := c.text[c.off]
	c.off++
	return b
}

// TakeRune consumes and returns the next code point, or utf8.RuneError at EOF.
func (c *Cursor) TakeRune() rune {
	if c.EOF() {
		return utf8.RuneError
	}
	r, size := utf8.DecodeRuneInString(c.text[c.off:])
	c.off += size
	return r
}

// Match consumes s if the text continues with it.
func (c *Cursor) Match(s string) bool {
	if strings.HasPrefix(c.text[c.off:], s) {
		c.off += len(s)
		return true
	}
	return false
}

// Eat consumes the next byte if it equals b.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.text[c.off] == b {
		c.off++
		return true
	}
	return false
}

// Mark is a saved cursor position for cheap backtracking.
type Mark int

// Mark saves the current position.
func (c *Cursor) Mark() Mark { return Mark(c.off) }

// Reset rewinds the cursor to a mark.
func (c *Cursor) Reset(m Mark) { c.off = int(m) }

// EnterClass records that the cursor moved inside a character class,
// where free-spacing rules do not apply.
func (c *Cursor) EnterClass() { c.inClass++ }

// LeaveClass undoes EnterClass.
func (c *Cursor) LeaveClass() {
	if c.inClass > 0 {
		c.inClass--
	}
}

// SkipWsAndComments consumes whitespace runs and #-to-end-of-line comments.
// It is a no-op unless extended mode is active and the cursor is outside
// character classes.
func (c *Cursor) SkipWsAndComments() {
	if !c.extended || c.inClass > 0 {
		return
	}
	for !c.EOF() {
		switch c.text[c.off] {
		case ' ', '\t', '\r', '\n':
			c.off++
		case '#':
			for !c.EOF() && c.text[c.off] != '\r' && c.text[c.off] != '\n' {
				c.off++
			}
		default:
			return
		}
	}
}
