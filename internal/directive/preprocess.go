// Package directive strips and parses the leading %flags directive block.
package directive

import (
	"strings"

	"strl/internal/ast"
	"strl/internal/diag"
)

const flagsToken = "%flags"

// Result is the outcome of preprocessing a pattern source.
type Result struct {
	Flags ast.Flags
	// Pattern is the residual text with the directive prefix removed;
	// newlines are preserved so offsets stay 1:1 with the original body.
	Pattern string
	// Offset is the byte length of the removed prefix. Parser error
	// positions are residual offsets shifted right by this amount.
	Offset int
	// HasDirective reports whether a %flags line was present, so callers
	// can tell explicit empty flags from an absent directive.
	HasDirective bool
}

// Preprocess scans leading lines of text. Blank lines, #-comment lines and
// %-directive lines before any pattern content are consumed; the first
// content line stops the scan. A %flags line found after content has begun
// is an error, as is any unknown flag letter.
func Preprocess(text string) (Result, error) {
	var res Result

	pos := 0
	for pos < len(text) {
		line, next := nextLine(text, pos)
		stripped := strings.TrimSpace(line)

		if stripped == "" || strings.HasPrefix(stripped, "#") {
			pos = next
			continue
		}
		if strings.HasPrefix(stripped, flagsToken) {
			flags, err := parseFlagsLine(text, pos, line)
			if err != nil {
				return Result{}, err
			}
			res.Flags.Merge(flags)
			res.HasDirective = true
			pos = next
			continue
		}
		if strings.HasPrefix(stripped, "%") {
			// Unknown directives are reserved; skip them silently.
			pos = next
			continue
		}
		break
	}

	res.Offset = pos
	res.Pattern = text[pos:]

	// A %flags directive is only legal before pattern content.
	scan := pos
	for scan < len(text) {
		line, next := nextLine(text, scan)
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, flagsToken) {
			at := scan + strings.Index(line, "%")
			return Result{}, diag.New(diag.SemDirectivePlacement,
				"Directive after pattern content", at, text)
		}
		scan = next
	}

	return res, nil
}

// parseFlagsLine validates and collects the letters after %flags.
// Separators (commas, brackets, whitespace) are ignored; letters are
// lower-cased; anything outside i,m,s,u,x fails at its exact offset.
func parseFlagsLine(text string, lineStart int, line string) (ast.Flags, error) {
	var flags ast.Flags
	idx := strings.Index(line, flagsToken)
	rest := line[idx+len(flagsToken):]
	for j := 0; j < len(rest); j++ {
		ch := rest[j]
		switch ch {
		case ' ', '\t', ',', '[', ']':
			continue
		}
		lower := ch
		if ch >= 'A' && ch <= 'Z' {
			lower = ch + ('a' - 'A')
		}
		if !flags.Set(lower) {
			at := lineStart + idx + len(flagsToken) + j
			return ast.Flags{}, diag.Errorf(diag.SemInvalidFlag, at, text,
				"Invalid flag '%c'", ch)
		}
	}
	return flags, nil
}

// nextLine returns the line starting at pos (without its newline) and the
// offset just past it.
func nextLine(text string, pos int) (string, int) {
	if i := strings.IndexByte(text[pos:], '\n'); i >= 0 {
		return text[pos : pos+i], pos + i + 1
	}
	return text[pos:], len(text)
}
