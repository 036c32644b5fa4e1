package parser

import (
	"strl/internal/ast"
	"strl/internal/diag"
)

// parseGroupOrLook dispatches on the characters after '(':
//
//	(?:   non-capturing group
//	(?<=  (?<!  lookbehind
//	(?<name>    named capturing group
//	(?>   atomic group
//	(?=   (?!   lookahead
//	(     capturing group
//
// Inline modifier groups like (?i) are rejected outright; flags belong in
// the %flags directive.
func (p *Parser) parseGroupOrLook() (ast.Node, error) {
	openPos := p.cur.Pos()
	p.cur.Take() // '('

	if p.cur.Peek() == '?' && isFlagLetter(p.cur.PeekAt(1)) {
		return nil, p.errAt(diag.SemInlineModifiers, openPos,
			"Inline modifiers `(?imsx)` are not supported")
	}

	switch {
	case p.cur.Match("?:"):
		body, err := p.parseGroupBody(openPos, diag.SynUnterminatedGroup, "Unterminated group")
		if err != nil {
			return nil, err
		}
		return ast.Group{Capturing: false, Body: body}, nil

	case p.cur.Match("?<="):
		return p.parseLook(openPos, ast.LookBehind, false)
	case p.cur.Match("?<!"):
		return p.parseLook(openPos, ast.LookBehind, true)

	case p.cur.Match("?<"):
		return p.parseNamedGroup(openPos)

	case p.cur.Match("?>"):
		body, err := p.parseGroupBody(openPos, diag.SynUnterminatedAtomic, "Unterminated atomic group")
		if err != nil {
			return nil, err
		}
		return ast.Group{Capturing: false, Body: body, Atomic: true}, nil

	case p.cur.Match("?="):
		return p.parseLook(openPos, ast.LookAhead, false)
	case p.cur.Match("?!"):
		return p.parseLook(openPos, ast.LookAhead, true)

	case p.cur.Peek() == '?':
		return nil, p.errAt(diag.SynUnknownGroupType, p.cur.Pos(), "Unknown group type")
	}

	idx := p.openCapture()
	body, err := p.parseGroupBody(openPos, diag.SynUnterminatedGroup, "Unterminated group")
	p.closeCapture(idx)
	if err != nil {
		return nil, err
	}
	return ast.Group{Capturing: true, Body: body}, nil
}

// parseNamedGroup parses (?<name>...) with the cursor just past "?<".
func (p *Parser) parseNamedGroup(openPos int) (ast.Node, error) {
	namePos := p.cur.Pos()
	var raw []byte
	for {
		if p.cur.EOF() {
			return nil, p.errAt(diag.SynUnterminatedGroupName, openPos, "Unterminated group name")
		}
		ch := p.cur.Take()
		if ch == '>' {
			break
		}
		raw = append(raw, ch)
	}
	name := string(raw)
	if !validGroupName(name) {
		return nil, p.errAt(diag.SemInvalidGroupName, namePos, "Invalid group name '%s'", name)
	}
	if p.names[name] {
		return nil, p.errAt(diag.SemDuplicateGroupName, openPos, "Duplicate group name '%s'", name)
	}
	p.names[name] = true
	p.openNames[name] = true

	idx := p.openCapture()
	body, err := p.parseGroupBody(openPos, diag.SynUnterminatedGroup, "Unterminated group")
	p.closeCapture(idx)
	delete(p.openNames, name)
	if err != nil {
		return nil, err
	}
	return ast.Group{Capturing: true, Body: body, Name: name}, nil
}

// parseLook parses a lookaround body with the cursor just past its prefix.
func (p *Parser) parseLook(openPos int, dir ast.LookDir, negated bool) (ast.Node, error) {
	code, what := diag.SynUnterminatedLookahead, "Unterminated lookahead"
	if dir == ast.LookBehind {
		code, what = diag.SynUnterminatedLookbehind, "Unterminated lookbehind"
	}
	body, err := p.parseGroupBody(openPos, code, what)
	if err != nil {
		return nil, err
	}
	return ast.Look{Dir: dir, Negated: negated, Body: body}, nil
}

// parseGroupBody parses the alternation inside a group and requires the
// closing ')'. The unterminated error points at the opening '('.
func (p *Parser) parseGroupBody(openPos int, code diag.Code, what string) (ast.Node, error) {
	body, err := p.parseAlt()
	if err != nil {
		return nil, err
	}
	p.cur.SkipWsAndComments()
	if !p.cur.Eat(')') {
		return nil, p.errAt(code, openPos, what)
	}
	return body, nil
}

// openCapture allocates the next capture index and marks it open, so
// backreferences cannot target a group from inside its own body.
func (p *Parser) openCapture() int {
	p.capCount++
	p.openIdx = append(p.openIdx, p.capCount)
	return p.capCount
}

func (p *Parser) closeCapture(idx int) {
	for i, v := range p.openIdx {
		if v == idx {
			p.openIdx = append(p.openIdx[:i], p.openIdx[i+1:]...)
			return
		}
	}
}

// validGroupName checks the identifier shape: a letter or underscore, then
// letters, digits or underscores.
func validGroupName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '_':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func isFlagLetter(ch byte) bool {
	switch ch {
	case 'i', 'm', 's', 'u', 'x':
		return true
	}
	return false
}
