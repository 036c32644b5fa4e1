// Package diag defines the positioned, hinted error model of the compiler
// and its terminal rendering.
package diag

import (
	"fmt"
	"strings"

	"strl/internal/hint"
	"strl/internal/source"
)

// ParseError is the single fatal error a parse or validation call reports.
// Pos is a zero-based byte offset into Text (the full original source, with
// directive lines included). Hint carries optional advisory text; it never
// changes which error was raised.
type ParseError struct {
	Code    Code
	Message string
	Pos     int
	Text    string
	Hint    string
}

// New builds a ParseError and attaches a hint when the hint engine has one.
func New(code Code, message string, pos int, text string) *ParseError {
	return &ParseError{
		Code:    code,
		Message: message,
		Pos:     pos,
		Text:    text,
		Hint:    hint.For(message, text, pos),
	}
}

// Errorf is the formatted variant of New.
func Errorf(code Code, pos int, text, format string, args ...any) *ParseError {
	return New(code, fmt.Sprintf(format, args...), pos, text)
}

// Error renders the uncolored multi-line diagnostic.
func (e *ParseError) Error() string {
	var sb strings.Builder
	e.write(&sb, false)
	return sb.String()
}

// line locates the 1-based line number, the line's text and the column
// (byte offset within the line) of e.Pos, via the source line index.
func (e *ParseError) line() (num int, text string, col int) {
	f := source.NewVirtual("", []byte(e.Text))
	pos := e.Pos
	if pos > len(e.Text) {
		pos = len(e.Text)
	}
	lc := f.Resolve(pos)
	return int(lc.Line), f.LineText(lc.Line), int(lc.Col) - 1
}
