package ir

import "strl/internal/ast"

// Lower translates a validated AST one-to-one into IR, recording feature
// tags as constructs are encountered. It cannot fail: the parser and the
// semantic pass enforce every precondition.
func Lower(n ast.Node, features *FeatureSet) Node {
	switch n := n.(type) {
	case ast.Lit:
		return Lit{Value: n.Value}

	case ast.Dot:
		return Dot{}

	case ast.Anchor:
		features.Add(FeatureAnchors)
		return Anchor{At: n.At}

	case ast.CharClass:
		items := make([]ClassItem, 0, len(n.Items))
		for _, item := range n.Items {
			items = append(items, lowerClassItem(item, features))
		}
		return CharClass{Negated: n.Negated, Items: items}

	case ast.Seq:
		parts := make([]Node, 0, len(n.Parts))
		for _, part := range n.Parts {
			parts = append(parts, Lower(part, features))
		}
		return Seq{Parts: parts}

	case ast.Alt:
		branches := make([]Node, 0, len(n.Branches))
		for _, branch := range n.Branches {
			branches = append(branches, Lower(branch, features))
		}
		return Alt{Branches: branches}

	case ast.Quant:
		if n.Mode == ast.Possessive {
			features.Add(FeaturePossessiveQuant)
		}
		return Quant{Child: Lower(n.Child, features), Min: n.Min, Max: n.Max, Mode: n.Mode}

	case ast.Group:
		if n.Atomic {
			features.Add(FeatureAtomicGroup)
		}
		if n.Name != "" {
			features.Add(FeatureNamedGroup)
		}
		return Group{Capturing: n.Capturing, Body: Lower(n.Body, features), Name: n.Name, Atomic: n.Atomic}

	case ast.Backref:
		features.Add(FeatureBackreference)
		return Backref{Index: n.Index, Name: n.Name}

	case ast.Look:
		if n.Dir == ast.LookBehind {
			features.Add(FeatureLookbehind)
		} else {
			features.Add(FeatureLookahead)
		}
		return Look{Dir: n.Dir, Negated: n.Negated, Body: Lower(n.Body, features)}
	}
	// unreachable for trees built by the parser
	return Seq{}
}

func lowerClassItem(item ast.ClassItem, features *FeatureSet) ClassItem {
	switch item := item.(type) {
	case ast.ClassLit:
		return ClassLit{Ch: item.Ch}
	case ast.ClassRange:
		return ClassRange{From: item.From, To: item.To}
	case ast.ClassEscape:
		if item.Kind == 'p' || item.Kind == 'P' {
			features.Add(FeatureUnicodeProperty)
		}
		return ClassEscape{Kind: item.Kind, Property: item.Property}
	}
	return ClassLit{}
}
