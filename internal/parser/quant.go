package parser

import (
	"strconv"
	"strings"

	"strl/internal/ast"
	"strl/internal/diag"
)

// parseQuantIfAny attaches a quantifier suffix to child when one follows.
// The second return reports that a '{' was probed and rolled back, which
// suppresses literal coalescing for the brace that now parses as a literal.
func (p *Parser) parseQuantIfAny(child ast.Node) (ast.Node, bool, error) {
	p.cur.SkipWsAndComments()
	quantPos := p.cur.Pos()

	var min, max int
	switch p.cur.Peek() {
	case '*':
		p.cur.Take()
		min, max = 0, ast.Unbounded
	case '+':
		p.cur.Take()
		min, max = 1, ast.Unbounded
	case '?':
		p.cur.Take()
		min, max = 0, 1
	case '{':
		m := p.cur.Mark()
		lo, hi, ok, err := p.parseBraceQuant()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			p.cur.Reset(m)
			return child, true, nil
		}
		min, max = lo, hi
	default:
		return child, false, nil
	}

	mode := ast.Greedy
	if p.cur.Eat('?') {
		mode = ast.Lazy
	} else if p.cur.Eat('+') {
		mode = ast.Possessive
	}

	switch child.(type) {
	case ast.Anchor:
		return nil, false, p.errAt(diag.SemQuantifiedAnchor, quantPos, "Cannot quantify anchor")
	case ast.Look:
		return nil, false, p.errAt(diag.SemQuantifiedLook, quantPos, "Cannot quantify lookaround")
	}
	return ast.Quant{Child: child, Min: min, Max: max, Mode: mode}, false, nil
}

// parseBraceQuant parses a {n}, {n,} or {n,m} suffix with the cursor on '{'.
// ok=false means the content never was a quantifier; the caller rewinds and
// the brace becomes a literal. Content made only of digits and commas is
// committed to being a quantifier: malformed shapes error instead of
// degrading, and hitting EOF mid-way is an incomplete quantifier.
func (p *Parser) parseBraceQuant() (int, int, bool, error) {
	bracePos := p.cur.Pos()
	p.cur.Take() // '{'

	var content strings.Builder
	closed := false
	for !p.cur.EOF() {
		ch := p.cur.Peek()
		if ch == '}' {
			p.cur.Take()
			closed = true
			break
		}
		if braceStop(ch) {
			return 0, 0, false, nil
		}
		content.WriteByte(p.cur.Take())
	}

	body := content.String()
	if !closed {
		if quantLike(body) {
			return 0, 0, false, p.errAt(diag.SynIncompleteQuantifier, bracePos, "Incomplete quantifier")
		}
		return 0, 0, false, nil
	}
	if body == "" {
		// "{}" is a literal pair
		return 0, 0, false, nil
	}
	if !quantLike(body) {
		return 0, 0, false, p.errAt(diag.SynInvalidBraceContent, bracePos, "Invalid brace quantifier content")
	}

	lo, hi, shape := splitBounds(body)
	if !shape {
		return 0, 0, false, p.errAt(diag.SynInvalidBraceContent, bracePos, "Invalid brace quantifier content")
	}
	if hi != ast.Unbounded && lo > hi {
		return 0, 0, false, p.errAt(diag.SemInvalidQuantRange, bracePos,
			"Invalid quantifier range {%d,%d}", lo, hi)
	}
	return lo, hi, true, nil
}

// braceStop lists characters that end the scan for '}' early: once one of
// these appears the brace text can no longer be quantifier syntax.
func braceStop(ch byte) bool {
	switch ch {
	case '{', '(', ')', '[', ']', '|', '\\', '\n':
		return true
	}
	return false
}

// quantLike reports whether s consists solely of digits and commas.
func quantLike(s string) bool {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c != ',' && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// splitBounds decodes "n", "n," or "n,m" into quantifier bounds.
func splitBounds(body string) (lo, hi int, ok bool) {
	head, tail, hasComma := strings.Cut(body, ",")
	lo, err := strconv.Atoi(head)
	if err != nil {
		return 0, 0, false
	}
	if !hasComma {
		return lo, lo, true
	}
	if tail == "" {
		return lo, ast.Unbounded, true
	}
	hi, err = strconv.Atoi(tail)
	if err != nil {
		return 0, 0, false
	}
	return lo, hi, true
}
