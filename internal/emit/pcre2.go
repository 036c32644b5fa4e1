package emit

import (
	"fmt"
	"strings"

	"strl/internal/ast"
	"strl/internal/ir"
)

func init() {
	register(pcre2{})
}

// pcre2 renders IR as a PCRE2 pattern string. Enabled flags become a
// leading inline option group so the emitted pattern is self-contained.
type pcre2 struct{}

func (pcre2) Target() string { return "pcre2" }

func (p pcre2) Render(root ir.Node, cfg Config) string {
	var sb strings.Builder
	if letters := cfg.Flags.Letters(); letters != "" {
		sb.WriteString("(?")
		sb.WriteString(letters)
		sb.WriteByte(')')
	}
	p.render(&sb, root, ctxTop, cfg.Flags.Extended)
	return sb.String()
}

// renderCtx tells a node how its parent joins it, which decides whether an
// alternation or sequence needs a non-capturing wrapper.
type renderCtx uint8

const (
	ctxTop renderCtx = iota
	ctxSeq
	ctxQuant
)

func (p pcre2) render(sb *strings.Builder, n ir.Node, ctx renderCtx, extended bool) {
	switch n := n.(type) {
	case ir.Lit:
		sb.WriteString(escapeLiteral(n.Value, extended))

	case ir.Dot:
		sb.WriteByte('.')

	case ir.Anchor:
		sb.WriteString(anchorText(n.At))

	case ir.CharClass:
		sb.WriteString(renderClass(n))

	case ir.Seq:
		for _, part := range n.Parts {
			p.render(sb, part, ctxSeq, extended)
		}

	case ir.Alt:
		wrap := ctx != ctxTop
		if wrap {
			sb.WriteString("(?:")
		}
		for i, branch := range n.Branches {
			if i > 0 {
				sb.WriteByte('|')
			}
			p.render(sb, branch, ctxTop, extended)
		}
		if wrap {
			sb.WriteByte(')')
		}

	case ir.Quant:
		p.renderQuantChild(sb, n.Child, extended)
		sb.WriteString(quantSuffix(n.Min, n.Max))
		switch n.Mode {
		case ast.Lazy:
			sb.WriteByte('?')
		case ast.Possessive:
			sb.WriteByte('+')
		}

	case ir.Group:
		switch {
		case n.Atomic:
			sb.WriteString("(?>")
		case !n.Capturing:
			sb.WriteString("(?:")
		case n.Name != "":
			fmt.Fprintf(sb, "(?<%s>", n.Name)
		default:
			sb.WriteByte('(')
		}
		p.render(sb, n.Body, ctxTop, extended)
		sb.WriteByte(')')

	case ir.Backref:
		if n.Name != "" {
			fmt.Fprintf(sb, "\\k<%s>", n.Name)
		} else {
			fmt.Fprintf(sb, "\\%d", n.Index)
		}

	case ir.Look:
		switch {
		case n.Dir == ast.LookBehind && n.Negated:
			sb.WriteString("(?<!")
		case n.Dir == ast.LookBehind:
			sb.WriteString("(?<=")
		case n.Negated:
			sb.WriteString("(?!")
		default:
			sb.WriteString("(?=")
		}
		p.render(sb, n.Body, ctxTop, extended)
		sb.WriteByte(')')
	}
}

// renderQuantChild wraps children that would otherwise change meaning
// under a quantifier. Sequences, alternations, lookarounds and multi-rune
// literals all need a non-capturing group.
func (p pcre2) renderQuantChild(sb *strings.Builder, child ir.Node, extended bool) {
	needsWrap := false
	switch c := child.(type) {
	case ir.Seq:
		needsWrap = true
	case ir.Alt:
		needsWrap = true
	case ir.Look:
		needsWrap = true
	case ir.Lit:
		needsWrap = len([]rune(c.Value)) > 1
	}
	if !needsWrap {
		p.render(sb, child, ctxQuant, extended)
		return
	}
	sb.WriteString("(?:")
	p.render(sb, child, ctxTop, extended)
	sb.WriteByte(')')
}

func quantSuffix(min, max int) string {
	switch {
	case min == 0 && max == ast.Unbounded:
		return "*"
	case min == 1 && max == ast.Unbounded:
		return "+"
	case min == 0 && max == 1:
		return "?"
	case max == ast.Unbounded:
		return fmt.Sprintf("{%d,}", min)
	case min == max:
		return fmt.Sprintf("{%d}", min)
	}
	return fmt.Sprintf("{%d,%d}", min, max)
}

func anchorText(at ast.AnchorKind) string {
	switch at {
	case ast.AnchorStart:
		return "^"
	case ast.AnchorEnd:
		return "$"
	case ast.AnchorWordBoundary:
		return "\\b"
	case ast.AnchorNotWordBoundary:
		return "\\B"
	case ast.AnchorAbsoluteStart:
		return "\\A"
	case ast.AnchorEndBeforeFinalNewline:
		return "\\Z"
	case ast.AnchorAbsoluteEnd:
		return "\\z"
	}
	return ""
}

// escapeLiteral escapes pattern metacharacters in a literal run. Control
// characters are always written as escape sequences so free-spacing mode
// cannot swallow them; in extended mode, space and '#' get backslashes too.
func escapeLiteral(s string, extended bool) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '.', '^', '$', '|', '?', '*', '+', '(', ')', '[', ']', '{', '}':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '\n':
			sb.WriteString("\\n")
		case '\r':
			sb.WriteString("\\r")
		case '\t':
			sb.WriteString("\\t")
		case '\f':
			sb.WriteString("\\f")
		case '\v':
			sb.WriteString("\\v")
		case '\x00':
			sb.WriteString("\\x00")
		case ' ':
			if extended {
				sb.WriteByte('\\')
			}
			sb.WriteRune(r)
		case '#':
			if extended {
				sb.WriteByte('\\')
			}
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// renderClass renders a character class. A class holding exactly one
// shorthand or property escape collapses to the bare escape, folding the
// class negation into the escape's case.
func renderClass(cc ir.CharClass) string {
	if len(cc.Items) == 1 {
		if esc, ok := cc.Items[0].(ir.ClassEscape); ok {
			return classEscapeText(esc, cc.Negated)
		}
	}

	var sb strings.Builder
	sb.WriteByte('[')
	if cc.Negated {
		sb.WriteByte('^')
	}
	for i, item := range cc.Items {
		switch item := item.(type) {
		case ir.ClassLit:
			sb.WriteString(escapeClassChar(item.Ch, i == 0))
		case ir.ClassRange:
			sb.WriteString(escapeClassChar(item.From, i == 0))
			sb.WriteByte('-')
			sb.WriteString(escapeClassChar(item.To, false))
		case ir.ClassEscape:
			sb.WriteString(classEscapeText(item, false))
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

// classEscapeText renders \d, \p{...} and friends, flipping case when the
// enclosing class negates a lone escape.
func classEscapeText(esc ir.ClassEscape, negate bool) string {
	kind := esc.Kind
	if negate {
		kind = flipCase(kind)
	}
	if esc.Kind == 'p' || esc.Kind == 'P' {
		return fmt.Sprintf("\\%c{%s}", kind, esc.Property)
	}
	return fmt.Sprintf("\\%c", kind)
}

func flipCase(ch byte) byte {
	if ch >= 'a' && ch <= 'z' {
		return ch - ('a' - 'A')
	}
	return ch + ('a' - 'A')
}

// escapeClassChar escapes one class member. '^' only needs a backslash in
// first position; ']', '-' and '\' are escaped in every position so a
// member can never close the class or start a range.
func escapeClassChar(ch rune, first bool) string {
	switch ch {
	case '\\':
		return "\\\\"
	case ']':
		return "\\]"
	case '-':
		return "\\-"
	case '^':
		if first {
			return "\\^"
		}
		return "^"
	case '\n':
		return "\\n"
	case '\r':
		return "\\r"
	case '\t':
		return "\\t"
	case '\f':
		return "\\f"
	case '\v':
		return "\\v"
	case '\x00':
		return "\\x00"
	}
	return string(ch)
}
