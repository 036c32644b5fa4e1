package ast

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ArtifactVersion is the interchange schema version stamped into artifacts.
const ArtifactVersion = "1.0.0"

// ErrInterchange marks a malformed serialized artifact. Boundary consumers
// (CLI, bindings) match it with errors.Is.
var ErrInterchange = errors.New("malformed artifact")

// Artifact is the tagged-dict interchange document produced at the AST
// boundary. External tooling (schema validators, language bindings) consumes
// exactly this shape; structural validation against a JSON Schema happens
// outside this module.
type Artifact struct {
	Version  string          `json:"version"`
	Flags    map[string]bool `json:"flags"`
	Root     map[string]any  `json:"root"`
	Warnings []string        `json:"warnings"`
	Errors   []string        `json:"errors"`
}

// EncodeArtifact packages flags and a parsed tree into an Artifact.
func EncodeArtifact(flags Flags, root Node) *Artifact {
	return &Artifact{
		Version: ArtifactVersion,
		Flags: map[string]bool{
			"ignoreCase": flags.IgnoreCase,
			"multiline":  flags.Multiline,
			"dotAll":     flags.DotAll,
			"unicode":    flags.Unicode,
			"extended":   flags.Extended,
		},
		Root:     NodeDict(root),
		Warnings: []string{},
		Errors:   []string{},
	}
}

// NodeDict serializes a node into the tagged-dict form ({kind: "...", ...}).
func NodeDict(n Node) map[string]any {
	switch n := n.(type) {
	case Lit:
		return map[string]any{"kind": "Lit", "value": n.Value}
	case Dot:
		return map[string]any{"kind": "Dot"}
	case Anchor:
		return map[string]any{"kind": "Anchor", "at": n.At.String()}
	case CharClass:
		items := make([]any, len(n.Items))
		for i, it := range n.Items {
			items[i] = classItemDict(it)
		}
		return map[string]any{"kind": "CharClass", "negated": n.Negated, "items": items}
	case Seq:
		parts := make([]any, len(n.Parts))
		for i, p := range n.Parts {
			parts[i] = NodeDict(p)
		}
		return map[string]any{"kind": "Seq", "parts": parts}
	case Alt:
		branches := make([]any, len(n.Branches))
		for i, b := range n.Branches {
			branches[i] = NodeDict(b)
		}
		return map[string]any{"kind": "Alt", "branches": branches}
	case Quant:
		var maxVal any
		if n.Max == Unbounded {
			maxVal = "Inf"
		} else {
			maxVal = n.Max
		}
		return map[string]any{
			"kind":  "Quant",
			"child": NodeDict(n.Child),
			"min":   n.Min,
			"max":   maxVal,
			"mode":  n.Mode.String(),
		}
	case Group:
		d := map[string]any{"kind": "Group", "capturing": n.Capturing, "body": NodeDict(n.Body)}
		if n.Name != "" {
			d["name"] = n.Name
		}
		if n.Atomic {
			d["atomic"] = true
		}
		return d
	case Backref:
		d := map[string]any{"kind": "Backref"}
		if n.Name != "" {
			d["byName"] = n.Name
		} else {
			// Historical interchange quirk: indices serialize as strings at
			// the AST boundary.
			d["byIndex"] = fmt.Sprintf("%d", n.Index)
		}
		return d
	case Look:
		return map[string]any{
			"kind": "Look",
			"dir":  n.Dir.String(),
			"neg":  n.Negated,
			"body": NodeDict(n.Body),
		}
	}
	return nil
}

func classItemDict(it ClassItem) map[string]any {
	switch it := it.(type) {
	case ClassLit:
		return map[string]any{"kind": "Char", "char": string(it.Ch)}
	case ClassRange:
		return map[string]any{"kind": "Range", "from": string(it.From), "to": string(it.To)}
	case ClassEscape:
		d := map[string]any{"kind": "Esc", "type": string(it.Kind)}
		if (it.Kind == 'p' || it.Kind == 'P') && it.Property != "" {
			d["property"] = it.Property
		}
		return d
	}
	return nil
}

// DecodeArtifact parses an artifact JSON document back into flags and a tree.
// Every structural defect is reported as an ErrInterchange.
func DecodeArtifact(data []byte) (Flags, Node, error) {
	var doc Artifact
	if err := json.Unmarshal(data, &doc); err != nil {
		return Flags{}, nil, fmt.Errorf("%w: %v", ErrInterchange, err)
	}
	if doc.Root == nil {
		return Flags{}, nil, fmt.Errorf("%w: missing root node", ErrInterchange)
	}
	var flags Flags
	flags.IgnoreCase = doc.Flags["ignoreCase"]
	flags.Multiline = doc.Flags["multiline"]
	flags.DotAll = doc.Flags["dotAll"]
	flags.Unicode = doc.Flags["unicode"]
	flags.Extended = doc.Flags["extended"]

	root, err := DecodeNode(doc.Root)
	if err != nil {
		return Flags{}, nil, err
	}
	return flags, root, nil
}

// DecodeNode parses one tagged-dict node.
func DecodeNode(d map[string]any) (Node, error) {
	kind, _ := d["kind"].(string)
	switch kind {
	case "Lit":
		value, ok := d["value"].(string)
		if !ok {
			return nil, fmt.Errorf("%w: Lit without string value", ErrInterchange)
		}
		return Lit{Value: value}, nil
	case "Dot":
		return Dot{}, nil
	case "Anchor":
		at, ok := d["at"].(string)
		if !ok {
			return nil, fmt.Errorf("%w: Anchor without at", ErrInterchange)
		}
		kind, err := anchorKindFromString(at)
		if err != nil {
			return nil, err
		}
		return Anchor{At: kind}, nil
	case "CharClass":
		negated, _ := d["negated"].(bool)
		raw, ok := d["items"].([]any)
		if !ok {
			return nil, fmt.Errorf("%w: CharClass without items", ErrInterchange)
		}
		items := make([]ClassItem, 0, len(raw))
		for _, r := range raw {
			id, ok := r.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: class item is not an object", ErrInterchange)
			}
			it, err := decodeClassItem(id)
			if err != nil {
				return nil, err
			}
			items = append(items, it)
		}
		return CharClass{Negated: negated, Items: items}, nil
	case "Seq":
		parts, err := decodeNodeList(d["parts"], "Seq.parts")
		if err != nil {
			return nil, err
		}
		return Seq{Parts: parts}, nil
	case "Alt":
		branches, err := decodeNodeList(d["branches"], "Alt.branches")
		if err != nil {
			return nil, err
		}
		return Alt{Branches: branches}, nil
	case "Quant":
		childDict, ok := d["child"].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: Quant without child", ErrInterchange)
		}
		child, err := DecodeNode(childDict)
		if err != nil {
			return nil, err
		}
		minVal, err := decodeInt(d["min"], "Quant.min")
		if err != nil {
			return nil, err
		}
		maxVal := Unbounded
		if s, ok := d["max"].(string); !ok || s != "Inf" {
			maxVal, err = decodeInt(d["max"], "Quant.max")
			if err != nil {
				return nil, err
			}
		}
		mode, err := quantModeFromString(d["mode"])
		if err != nil {
			return nil, err
		}
		return Quant{Child: child, Min: minVal, Max: maxVal, Mode: mode}, nil
	case "Group":
		bodyDict, ok := d["body"].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: Group without body", ErrInterchange)
		}
		body, err := DecodeNode(bodyDict)
		if err != nil {
			return nil, err
		}
		capturing, _ := d["capturing"].(bool)
		name, _ := d["name"].(string)
		atomic, _ := d["atomic"].(bool)
		return Group{Capturing: capturing, Body: body, Name: name, Atomic: atomic}, nil
	case "Backref":
		if name, ok := d["byName"].(string); ok && name != "" {
			return Backref{Name: name}, nil
		}
		if _, ok := d["byIndex"]; !ok {
			return nil, fmt.Errorf("%w: Backref without byIndex or byName", ErrInterchange)
		}
		idx, err := decodeInt(d["byIndex"], "Backref.byIndex")
		if err != nil {
			return nil, err
		}
		return Backref{Index: idx}, nil
	case "Look":
		bodyDict, ok := d["body"].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: Look without body", ErrInterchange)
		}
		body, err := DecodeNode(bodyDict)
		if err != nil {
			return nil, err
		}
		dir, _ := d["dir"].(string)
		var lookDir LookDir
		switch dir {
		case "Ahead":
			lookDir = LookAhead
		case "Behind":
			lookDir = LookBehind
		default:
			return nil, fmt.Errorf("%w: Look with dir %q", ErrInterchange, dir)
		}
		neg, _ := d["neg"].(bool)
		return Look{Dir: lookDir, Negated: neg, Body: body}, nil
	}
	return nil, fmt.Errorf("%w: unknown node kind %q", ErrInterchange, kind)
}

func decodeNodeList(v any, field string) ([]Node, error) {
	raw, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a list", ErrInterchange, field)
	}
	out := make([]Node, 0, len(raw))
	for _, r := range raw {
		d, ok := r.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s element is not an object", ErrInterchange, field)
		}
		n, err := DecodeNode(d)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func decodeClassItem(d map[string]any) (ClassItem, error) {
	kind, _ := d["kind"].(string)
	switch kind {
	case "Char":
		ch, ok := d["char"].(string)
		if !ok || ch == "" {
			return nil, fmt.Errorf("%w: Char item without char", ErrInterchange)
		}
		return ClassLit{Ch: firstRune(ch)}, nil
	case "Range":
		from, okFrom := d["from"].(string)
		to, okTo := d["to"].(string)
		if !okFrom || !okTo || from == "" || to == "" {
			return nil, fmt.Errorf("%w: Range item without from/to", ErrInterchange)
		}
		return ClassRange{From: firstRune(from), To: firstRune(to)}, nil
	case "Esc":
		typ, ok := d["type"].(string)
		if !ok || len(typ) != 1 {
			return nil, fmt.Errorf("%w: Esc item with type %q", ErrInterchange, typ)
		}
		prop, _ := d["property"].(string)
		return ClassEscape{Kind: typ[0], Property: prop}, nil
	}
	return nil, fmt.Errorf("%w: unknown class item kind %q", ErrInterchange, kind)
}

func decodeInt(v any, field string) (int, error) {
	switch v := v.(type) {
	case float64:
		n := int(v)
		if float64(n) != v {
			return 0, fmt.Errorf("%w: %s is not an integer", ErrInterchange, field)
		}
		return n, nil
	case string:
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
			return 0, fmt.Errorf("%w: %s is not an integer", ErrInterchange, field)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w: %s is not an integer", ErrInterchange, field)
}

func anchorKindFromString(at string) (AnchorKind, error) {
	switch at {
	case "Start":
		return AnchorStart, nil
	case "End":
		return AnchorEnd, nil
	case "WordBoundary":
		return AnchorWordBoundary, nil
	case "NotWordBoundary":
		return AnchorNotWordBoundary, nil
	case "AbsoluteStart":
		return AnchorAbsoluteStart, nil
	case "EndBeforeFinalNewline":
		return AnchorEndBeforeFinalNewline, nil
	case "AbsoluteEnd":
		return AnchorAbsoluteEnd, nil
	}
	return 0, fmt.Errorf("%w: unknown anchor %q", ErrInterchange, at)
}

func quantModeFromString(v any) (QuantMode, error) {
	mode, _ := v.(string)
	switch mode {
	case "Greedy", "":
		return Greedy, nil
	case "Lazy":
		return Lazy, nil
	case "Possessive":
		return Possessive, nil
	}
	return 0, fmt.Errorf("%w: unknown quantifier mode %q", ErrInterchange, mode)
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
