package parser

import (
	"strconv"

	"strl/internal/ast"
	"strl/internal/diag"
)

const maxCodePoint = 0x10FFFF

func (p *Parser) parseAtom() (ast.Node, error) {
	p.cur.SkipWsAndComments()
	pos := p.cur.Pos()

	switch ch := p.cur.Peek(); ch {
	case '^':
		p.cur.Take()
		return ast.Anchor{At: ast.AnchorStart}, nil
	case '$':
		p.cur.Take()
		return ast.Anchor{At: ast.AnchorEnd}, nil
	case '.':
		p.cur.Take()
		return ast.Dot{}, nil
	case '(':
		return p.parseGroupOrLook()
	case '[':
		return p.parseCharClass()
	case '\\':
		return p.parseEscapeAtom()
	case '*', '+', '?':
		return nil, p.errAt(diag.SynUnexpectedToken, pos, "Invalid quantifier '%c'", ch)
	}
	// '{' with no preceding atom is an ordinary literal
	return ast.Lit{Value: string(p.cur.TakeRune())}, nil
}

// parseEscapeAtom handles every backslash form outside character classes.
func (p *Parser) parseEscapeAtom() (ast.Node, error) {
	escPos := p.cur.Pos()
	p.cur.Take() // '\\'
	if p.cur.EOF() {
		return nil, p.errAt(diag.SynInvalidEscape, escPos, "Unexpected end of pattern after backslash")
	}

	switch ch := p.cur.Peek(); {
	case ch >= '1' && ch <= '9':
		idx := p.readDecimal()
		if idx > p.capCount || p.isOpenGroup(idx) {
			return nil, p.errAt(diag.SemUndefinedBackref, escPos,
				"Backreference to undefined group \\%d", idx)
		}
		return ast.Backref{Index: idx}, nil

	case ch == '0':
		p.cur.Take()
		return ast.Lit{Value: "\x00"}, nil

	case ch == 'b':
		p.cur.Take()
		return ast.Anchor{At: ast.AnchorWordBoundary}, nil
	case ch == 'B':
		p.cur.Take()
		return ast.Anchor{At: ast.AnchorNotWordBoundary}, nil
	case ch == 'A':
		p.cur.Take()
		return ast.Anchor{At: ast.AnchorAbsoluteStart}, nil
	case ch == 'Z':
		p.cur.Take()
		return ast.Anchor{At: ast.AnchorEndBeforeFinalNewline}, nil
	case ch == 'z':
		p.cur.Take()
		return ast.Anchor{At: ast.AnchorAbsoluteEnd}, nil

	case ch == 'k':
		p.cur.Take()
		return p.parseNamedBackref(escPos)

	case ch == 'd', ch == 'D', ch == 'w', ch == 'W', ch == 's', ch == 'S':
		p.cur.Take()
		return ast.CharClass{Items: []ast.ClassItem{ast.ClassEscape{Kind: ch}}}, nil

	case ch == 'p', ch == 'P':
		p.cur.Take()
		esc, err := p.parseUnicodeProperty(escPos, ch)
		if err != nil {
			return nil, err
		}
		return ast.CharClass{Items: []ast.ClassItem{esc}}, nil

	case ch == 'x':
		p.cur.Take()
		r, err := p.parseHexEscape(escPos)
		if err != nil {
			return nil, err
		}
		return ast.Lit{Value: string(r)}, nil

	case ch == 'u', ch == 'U':
		p.cur.Take()
		r, err := p.parseCodePointEscape(escPos, ch)
		if err != nil {
			return nil, err
		}
		return ast.Lit{Value: string(r)}, nil

	case ch == 'n':
		p.cur.Take()
		return ast.Lit{Value: "\n"}, nil
	case ch == 'r':
		p.cur.Take()
		return ast.Lit{Value: "\r"}, nil
	case ch == 't':
		p.cur.Take()
		return ast.Lit{Value: "\t"}, nil
	case ch == 'f':
		p.cur.Take()
		return ast.Lit{Value: "\f"}, nil
	case ch == 'v':
		p.cur.Take()
		return ast.Lit{Value: "\v"}, nil
	}

	r := p.cur.TakeRune()
	if isASCIILetter(r) {
		return nil, p.errAt(diag.SynInvalidEscape, escPos, "Unknown escape sequence '\\%c'", r)
	}
	// identity escape: punctuation and anything non-alphabetic
	return ast.Lit{Value: string(r)}, nil
}

// parseNamedBackref parses \k<name> with the cursor just past 'k'.
func (p *Parser) parseNamedBackref(escPos int) (ast.Node, error) {
	if !p.cur.Eat('<') {
		return nil, p.errAt(diag.SynUnexpectedToken, p.cur.Pos(), "Expected '<' after \\k")
	}
	var name []byte
	for {
		if p.cur.EOF() {
			return nil, p.errAt(diag.SynUnterminatedBackref, escPos, "Unterminated named backref")
		}
		ch := p.cur.Take()
		if ch == '>' {
			break
		}
		name = append(name, ch)
	}
	if !p.names[string(name)] || p.openNames[string(name)] {
		return nil, p.errAt(diag.SemUndefinedBackref, escPos,
			"Backreference to undefined group '%s'", name)
	}
	return ast.Backref{Name: string(name)}, nil
}

// parseUnicodeProperty parses the {Name} part of \p{...} / \P{...}.
func (p *Parser) parseUnicodeProperty(escPos int, kind byte) (ast.ClassEscape, error) {
	if !p.cur.Eat('{') {
		return ast.ClassEscape{}, p.errAt(diag.SynInvalidEscape, escPos,
			"Expected '{' after \\%c", kind)
	}
	var prop []byte
	for {
		if p.cur.EOF() {
			return ast.ClassEscape{}, p.errAt(diag.SynInvalidEscape, escPos,
				"Unterminated \\%c{...}", kind)
		}
		ch := p.cur.Take()
		if ch == '}' {
			break
		}
		prop = append(prop, ch)
	}
	return ast.ClassEscape{Kind: kind, Property: string(prop)}, nil
}

// parseHexEscape parses \xHH or \x{H...} with the cursor just past 'x'.
// An empty \x{} yields U+0000.
func (p *Parser) parseHexEscape(escPos int) (rune, error) {
	if p.cur.Eat('{') {
		return p.parseBracedHex(escPos, "\\x{...}")
	}
	hi, okHi := hexVal(p.cur.Peek())
	if okHi {
		p.cur.Take()
	}
	lo, okLo := hexVal(p.cur.Peek())
	if okLo {
		p.cur.Take()
	}
	if !okHi || !okLo {
		return 0, p.errAt(diag.SynInvalidEscape, escPos, "Invalid \\xHH escape")
	}
	return rune(hi<<4 | lo), nil
}

// parseCodePointEscape parses \uHHHH, \u{H...} or \UHHHHHHHH.
func (p *Parser) parseCodePointEscape(escPos int, kind byte) (rune, error) {
	if kind == 'u' && p.cur.Eat('{') {
		return p.parseBracedHex(escPos, "\\u{...}")
	}
	digits := 4
	label := "\\uHHHH"
	if kind == 'U' {
		digits = 8
		label = "\\UHHHHHHHH"
	}
	cp := 0
	for i := 0; i < digits; i++ {
		v, ok := hexVal(p.cur.Peek())
		if !ok {
			return 0, p.errAt(diag.SynInvalidEscape, escPos, "Invalid %s escape", label)
		}
		p.cur.Take()
		cp = cp<<4 | v
	}
	if cp > maxCodePoint {
		return 0, p.errAt(diag.SynInvalidEscape, escPos, "Invalid %s escape", label)
	}
	return rune(cp), nil
}

// parseBracedHex parses the digits of an already-opened {H...} escape body.
func (p *Parser) parseBracedHex(escPos int, label string) (rune, error) {
	var digits []byte
	for {
		if p.cur.EOF() {
			return 0, p.errAt(diag.SynInvalidEscape, escPos, "Unterminated %s", label)
		}
		ch := p.cur.Peek()
		if ch == '}' {
			p.cur.Take()
			break
		}
		if _, ok := hexVal(ch); !ok {
			return 0, p.errAt(diag.SynInvalidEscape, escPos, "Invalid %s escape", label)
		}
		digits = append(digits, p.cur.Take())
	}
	if len(digits) == 0 {
		return 0, nil
	}
	cp, err := strconv.ParseInt(string(digits), 16, 64)
	if err != nil || cp > maxCodePoint {
		return 0, p.errAt(diag.SynInvalidEscape, escPos, "Invalid %s escape", label)
	}
	return rune(cp), nil
}

// readDecimal consumes a run of ASCII digits. The value saturates well past
// any plausible group count, so oversized references fail validation instead
// of overflowing.
func (p *Parser) readDecimal() int {
	n := 0
	for {
		ch := p.cur.Peek()
		if ch < '0' || ch > '9' {
			return n
		}
		p.cur.Take()
		if n < 1<<24 {
			n = n*10 + int(ch-'0')
		}
	}
}

func (p *Parser) isOpenGroup(idx int) bool {
	for _, v := range p.openIdx {
		if v == idx {
			return true
		}
	}
	return false
}

func hexVal(ch byte) (int, bool) {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0'), true
	case ch >= 'a' && ch <= 'f':
		return int(ch-'a') + 10, true
	case ch >= 'A' && ch <= 'F':
		return int(ch-'A') + 10, true
	}
	return 0, false
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
