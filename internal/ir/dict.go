package ir

import "strl/internal/ast"

// Dict renders an IR node as the tagged-map form used in JSON tool output.
// The shape parallels the AST artifact encoding.
func Dict(n Node) map[string]any {
	switch n := n.(type) {
	case Lit:
		return map[string]any{"kind": "Lit", "value": n.Value}
	case Dot:
		return map[string]any{"kind": "Dot"}
	case Anchor:
		return map[string]any{"kind": "Anchor", "at": n.At.String()}
	case CharClass:
		items := make([]map[string]any, 0, len(n.Items))
		for _, item := range n.Items {
			items = append(items, classItemDict(item))
		}
		return map[string]any{"kind": "CharClass", "negated": n.Negated, "items": items}
	case Seq:
		return map[string]any{"kind": "Seq", "parts": dictList(n.Parts)}
	case Alt:
		return map[string]any{"kind": "Alt", "branches": dictList(n.Branches)}
	case Quant:
		var max any = n.Max
		if n.Max == ast.Unbounded {
			max = "Inf"
		}
		return map[string]any{
			"kind": "Quant", "child": Dict(n.Child),
			"min": n.Min, "max": max, "mode": n.Mode.String(),
		}
	case Group:
		d := map[string]any{"kind": "Group", "capturing": n.Capturing, "body": Dict(n.Body)}
		if n.Name != "" {
			d["name"] = n.Name
		}
		if n.Atomic {
			d["atomic"] = true
		}
		return d
	case Backref:
		if n.Name != "" {
			return map[string]any{"kind": "Backref", "name": n.Name}
		}
		return map[string]any{"kind": "Backref", "index": n.Index}
	case Look:
		return map[string]any{
			"kind": "Look", "dir": n.Dir.String(),
			"negated": n.Negated, "body": Dict(n.Body),
		}
	}
	return map[string]any{"kind": "Seq", "parts": []map[string]any{}}
}

func dictList(nodes []Node) []map[string]any {
	out := make([]map[string]any, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, Dict(n))
	}
	return out
}

func classItemDict(item ClassItem) map[string]any {
	switch item := item.(type) {
	case ClassLit:
		return map[string]any{"item": "Char", "ch": string(item.Ch)}
	case ClassRange:
		return map[string]any{"item": "Range", "from": string(item.From), "to": string(item.To)}
	case ClassEscape:
		d := map[string]any{"item": "Esc", "esc": string(item.Kind)}
		if item.Property != "" {
			d["property"] = item.Property
		}
		return d
	}
	return map[string]any{"item": "Char", "ch": ""}
}
