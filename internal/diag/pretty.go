package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

var (
	headerColor = color.New(color.FgRed, color.Bold)
	gutterColor = color.New(color.FgCyan)
	caretColor  = color.New(color.FgRed, color.Bold)
	hintColor   = color.New(color.FgYellow)
)

// Render writes the formatted diagnostic:
//
//	STRL Parse Error: Unterminated group
//
//	> 1 | (abc
//	>   | ^
//
//	Hint: This group was opened with '(' but never closed. ...
func Render(w io.Writer, e *ParseError, useColor bool) {
	var sb strings.Builder
	e.write(&sb, useColor)
	fmt.Fprintln(w, sb.String())
}

func (e *ParseError) write(sb *strings.Builder, useColor bool) {
	paint := func(c *color.Color, s string) string {
		if !useColor {
			return s
		}
		return c.Sprint(s)
	}

	if e.Text == "" {
		sb.WriteString(paint(headerColor, "STRL Parse Error: "))
		sb.WriteString(fmt.Sprintf("%s at position %d", e.Message, e.Pos))
		return
	}

	num, lineText, col := e.line()

	sb.WriteString(paint(headerColor, "STRL Parse Error: "))
	sb.WriteString(e.Message)
	sb.WriteString("\n\n")

	gutter := fmt.Sprintf("> %d | ", num)
	sb.WriteString(paint(gutterColor, gutter))
	sb.WriteString(lineText)
	sb.WriteByte('\n')

	// The caret column accounts for double-width runes before the error.
	prefix := lineText
	if col <= len(lineText) {
		prefix = lineText[:col]
	}
	pad := runewidth.StringWidth(prefix)
	blank := fmt.Sprintf(">%s | ", strings.Repeat(" ", len(fmt.Sprintf(" %d", num))))
	sb.WriteString(paint(gutterColor, blank))
	sb.WriteString(strings.Repeat(" ", pad))
	sb.WriteString(paint(caretColor, "^"))

	if e.Hint != "" {
		sb.WriteString("\n\n")
		sb.WriteString(paint(hintColor, "Hint: "))
		sb.WriteString(e.Hint)
	}
}
