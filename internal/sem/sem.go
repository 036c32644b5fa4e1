// Package sem runs the semantic checks the grammar defers.
//
// The parser records character class ranges structurally even when the
// bounds are reversed; rejecting them here keeps the class grammar free of
// value comparisons and gives the diagnostic a precise source position.
package sem

import (
	"strl/internal/ast"
	"strl/internal/diag"
)

// Validate walks the tree and reports the first semantic violation.
// text is the original source for diagnostic rendering; node positions
// recorded by the parser are already offsets into it.
func Validate(root ast.Node, text string) error {
	return walk(root, text)
}

func walk(n ast.Node, text string) error {
	switch n := n.(type) {
	case ast.CharClass:
		for _, item := range n.Items {
			r, ok := item.(ast.ClassRange)
			if !ok {
				continue
			}
			if r.From > r.To {
				return diag.Errorf(diag.SemInvalidClassRange, r.Pos, text,
					"Invalid character range '%c-%c'", r.From, r.To)
			}
		}
	case ast.Seq:
		for _, part := range n.Parts {
			if err := walk(part, text); err != nil {
				return err
			}
		}
	case ast.Alt:
		for _, branch := range n.Branches {
			if err := walk(branch, text); err != nil {
				return err
			}
		}
	case ast.Quant:
		return walk(n.Child, text)
	case ast.Group:
		return walk(n.Body, text)
	case ast.Look:
		return walk(n.Body, text)
	}
	return nil
}
