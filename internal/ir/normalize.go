package ir

// Normalize rewrites the tree into its canonical shape:
//
//   - nested Seq nodes are spliced into their parent
//   - adjacent literals inside a Seq are fused into one
//   - nested Alt branches that are themselves Alt are spliced
//   - single-element Seq and Alt unwrap to their only child
//
// A Seq with zero parts is the explicit empty match and is preserved.
// Children are normalized before their parent rule fires, so a single pass
// reaches the fixed point and Normalize(Normalize(x)) == Normalize(x).
func Normalize(n Node) Node {
	switch n := n.(type) {
	case Seq:
		parts := make([]Node, 0, len(n.Parts))
		for _, part := range n.Parts {
			norm := Normalize(part)
			if inner, ok := norm.(Seq); ok {
				for _, p := range inner.Parts {
					appendFused(&parts, p)
				}
				continue
			}
			appendFused(&parts, norm)
		}
		if len(parts) == 1 {
			return parts[0]
		}
		return Seq{Parts: parts}

	case Alt:
		branches := make([]Node, 0, len(n.Branches))
		for _, branch := range n.Branches {
			norm := Normalize(branch)
			if inner, ok := norm.(Alt); ok {
				branches = append(branches, inner.Branches...)
				continue
			}
			branches = append(branches, norm)
		}
		if len(branches) == 1 {
			return branches[0]
		}
		return Alt{Branches: branches}

	case Quant:
		return Quant{Child: Normalize(n.Child), Min: n.Min, Max: n.Max, Mode: n.Mode}

	case Group:
		return Group{Capturing: n.Capturing, Body: Normalize(n.Body), Name: n.Name, Atomic: n.Atomic}

	case Look:
		return Look{Dir: n.Dir, Negated: n.Negated, Body: Normalize(n.Body)}
	}
	return n
}

// appendFused appends n to parts, merging it into a trailing literal when
// both are literals.
func appendFused(parts *[]Node, n Node) {
	if lit, ok := n.(Lit); ok && len(*parts) > 0 {
		if prev, ok := (*parts)[len(*parts)-1].(Lit); ok {
			(*parts)[len(*parts)-1] = Lit{Value: prev.Value + lit.Value}
			return
		}
	}
	*parts = append(*parts, n)
}
