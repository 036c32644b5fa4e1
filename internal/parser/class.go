package parser

import (
	"strl/internal/ast"
	"strl/internal/diag"
)

// parseCharClass parses a bracketed class with the cursor on '['.
// Inside the brackets free-spacing rules are suspended. An immediate ']'
// closes an empty, never-matching class; ranges are recorded structurally
// and reversed bounds are left for the semantic pass to reject.
func (p *Parser) parseCharClass() (ast.Node, error) {
	openPos := p.cur.Pos()
	p.cur.Take() // '['
	p.cur.EnterClass()
	defer p.cur.LeaveClass()

	negated := p.cur.Eat('^')
	var items []ast.ClassItem
	prevPos := -1 // residual offset of the last appended item

	for {
		if p.cur.EOF() {
			return nil, p.errAt(diag.SynUnterminatedClass, openPos, "Unterminated character class")
		}
		if p.cur.Eat(']') {
			return ast.CharClass{Negated: negated, Items: items}, nil
		}

		// A '-' between a preceding literal and a following item forms a
		// range; before ']' or at EOF it degrades to a literal dash.
		if p.cur.Peek() == '-' && len(items) > 0 &&
			p.cur.PeekAt(1) != ']' && p.cur.PeekAt(1) != 0 {
			if from, ok := items[len(items)-1].(ast.ClassLit); ok {
				p.cur.Take() // '-'
				end, err := p.parseClassItem(openPos)
				if err != nil {
					return nil, err
				}
				if to, ok := end.(ast.ClassLit); ok {
					items[len(items)-1] = ast.ClassRange{
						From: from.Ch,
						To:   to.Ch,
						Pos:  prevPos + p.offset,
					}
					continue
				}
				// "a-\d": the dash stays literal
				items = append(items, ast.ClassLit{Ch: '-'}, end)
				continue
			}
		}

		prevPos = p.cur.Pos()
		item, err := p.parseClassItem(openPos)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
}

// parseClassItem parses one class member: an escape or a literal code point.
// Unlike atom position, every letter escape inside a class that is not a
// shorthand resolves as an identity escape.
func (p *Parser) parseClassItem(openPos int) (ast.ClassItem, error) {
	if p.cur.EOF() {
		return nil, p.errAt(diag.SynUnterminatedClass, openPos, "Unterminated character class")
	}
	if p.cur.Peek() != '\\' {
		return ast.ClassLit{Ch: p.cur.TakeRune()}, nil
	}

	escPos := p.cur.Pos()
	p.cur.Take() // '\\'
	if p.cur.EOF() {
		return nil, p.errAt(diag.SynUnterminatedClass, openPos, "Unterminated character class")
	}

	switch ch := p.cur.Peek(); ch {
	case 'd', 'D', 'w', 'W', 's', 'S':
		p.cur.Take()
		return ast.ClassEscape{Kind: ch}, nil
	case 'p', 'P':
		p.cur.Take()
		return p.parseUnicodeProperty(escPos, ch)
	case 'x':
		p.cur.Take()
		r, err := p.parseHexEscape(escPos)
		if err != nil {
			return nil, err
		}
		return ast.ClassLit{Ch: r}, nil
	case 'u', 'U':
		p.cur.Take()
		r, err := p.parseCodePointEscape(escPos, ch)
		if err != nil {
			return nil, err
		}
		return ast.ClassLit{Ch: r}, nil
	case '0':
		p.cur.Take()
		return ast.ClassLit{Ch: 0}, nil
	case 'n':
		p.cur.Take()
		return ast.ClassLit{Ch: '\n'}, nil
	case 'r':
		p.cur.Take()
		return ast.ClassLit{Ch: '\r'}, nil
	case 't':
		p.cur.Take()
		return ast.ClassLit{Ch: '\t'}, nil
	case 'f':
		p.cur.Take()
		return ast.ClassLit{Ch: '\f'}, nil
	case 'v':
		p.cur.Take()
		return ast.ClassLit{Ch: '\v'}, nil
	}
	return ast.ClassLit{Ch: p.cur.TakeRune()}, nil
}
