// Package parser implements the recursive-descent grammar of the pattern DSL.
//
// The grammar:
//
//	pattern := alt EOF
//	alt     := seq ('|' seq)*
//	seq     := atom*          -- an empty seq is the empty-match Lit("")
//	atom    := '^' | '$' | '.' | class | group_or_look | escape | literal
//
// Every atom may carry a quantifier suffix. Parsing aborts on the first
// error; the error carries a zero-based offset into the original source and
// an optional hint.
package parser

import (
	"strl/internal/ast"
	"strl/internal/diag"
	"strl/internal/directive"
	"strl/internal/scan"
)

// Parser holds the mutable state of one parse call. Capture bookkeeping is
// scoped to the instance, so concurrent parses never interfere.
type Parser struct {
	cur    *scan.Cursor
	text   string // full original source, directives included
	offset int    // directive prefix length, added to reported positions
	flags  ast.Flags

	capCount  int             // capturing groups opened so far
	openIdx   []int           // indices of capturing groups still open
	names     map[string]bool // registered group names (per pattern)
	openNames map[string]bool // names of groups still open
}

// Parse preprocesses directives and parses the residual pattern.
func Parse(text string) (ast.Flags, ast.Node, error) {
	return ParseWith(text, ast.Flags{})
}

// ParseWith behaves like Parse but applies defaults when the source carries
// no %flags directive (project manifest defaults).
func ParseWith(text string, defaults ast.Flags) (ast.Flags, ast.Node, error) {
	pre, err := directive.Preprocess(text)
	if err != nil {
		return ast.Flags{}, nil, err
	}
	flags := pre.Flags
	if !pre.HasDirective {
		flags.Merge(defaults)
	}

	p := &Parser{
		cur:       scan.New(pre.Pattern, flags.Extended),
		text:      text,
		offset:    pre.Offset,
		flags:     flags,
		names:     make(map[string]bool),
		openNames: make(map[string]bool),
	}

	root, err := p.parseAlt()
	if err != nil {
		return ast.Flags{}, nil, err
	}

	p.cur.SkipWsAndComments()
	if !p.cur.EOF() {
		pos := p.cur.Pos()
		if p.cur.Peek() == ')' {
			return ast.Flags{}, nil, p.errAt(diag.SynUnmatchedParen, pos, "Unmatched ')'")
		}
		return ast.Flags{}, nil, p.errAt(diag.SynUnexpectedTrailing, pos, "Unexpected trailing input")
	}
	return flags, root, nil
}

// errAt builds a ParseError at a residual offset, shifting it into original
// source coordinates.
func (p *Parser) errAt(code diag.Code, pos int, format string, args ...any) error {
	return diag.Errorf(code, pos+p.offset, p.text, format, args...)
}

// parseAlt parses '|'-separated branches. A bar with nothing on one side is
// rejected rather than producing an implicit empty branch.
func (p *Parser) parseAlt() (ast.Node, error) {
	p.cur.SkipWsAndComments()
	if p.cur.Peek() == '|' {
		return nil, p.errAt(diag.SynDanglingAlternation, p.cur.Pos(), "Alternation lacks left-hand side")
	}

	first, err := p.parseSeq()
	if err != nil {
		return nil, err
	}
	branches := []ast.Node{first}

	for {
		p.cur.SkipWsAndComments()
		barPos := p.cur.Pos()
		if !p.cur.Eat('|') {
			break
		}
		p.cur.SkipWsAndComments()
		if p.cur.EOF() || p.cur.Peek() == ')' {
			return nil, p.errAt(diag.SynDanglingAlternation, barPos, "Alternation lacks right-hand side")
		}
		if p.cur.Peek() == '|' {
			return nil, p.errAt(diag.SynDanglingAlternation, p.cur.Pos(), "Empty alternation branch")
		}
		branch, err := p.parseSeq()
		if err != nil {
			return nil, err
		}
		branches = append(branches, branch)
	}

	if len(branches) == 1 {
		return branches[0], nil
	}
	return ast.Alt{Branches: branches}, nil
}

// parseSeq parses atoms until EOF, '|' or ')'. Adjacent literal atoms are
// coalesced here, except in free-spacing mode (whitespace significance makes
// blind coalescing unsafe) and right after a backtracked quantifier attempt
// (the would-be quantifier text must stay a distinct literal).
func (p *Parser) parseSeq() (ast.Node, error) {
	var parts []ast.Node
	prevBacktracked := false

	for {
		p.cur.SkipWsAndComments()
		if p.cur.EOF() {
			break
		}
		if ch := p.cur.Peek(); ch == '|' || ch == ')' {
			break
		}

		atom, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		node, backtracked, err := p.parseQuantIfAny(atom)
		if err != nil {
			return nil, err
		}

		if lit, ok := node.(ast.Lit); ok && !p.flags.Extended && !prevBacktracked && len(parts) > 0 {
			if prev, ok := parts[len(parts)-1].(ast.Lit); ok {
				parts[len(parts)-1] = ast.Lit{Value: prev.Value + lit.Value}
				prevBacktracked = backtracked
				continue
			}
		}
		parts = append(parts, node)
		prevBacktracked = backtracked
	}

	if len(parts) == 0 {
		return ast.Lit{}, nil // explicit empty match
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return ast.Seq{Parts: parts}, nil
}
