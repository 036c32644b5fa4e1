// Package ir holds the emitter-facing intermediate representation.
//
// The IR mirrors the AST structurally but drops parser bookkeeping (source
// positions) and is the only form the normalizer rewrites and the emitters
// consume. Enumerations shared with the AST (anchor kinds, quantifier modes,
// look directions) are reused rather than redeclared.
package ir

import "strl/internal/ast"

// Node is the sealed interface over IR node variants.
type Node interface{ irNode() }

// Lit is a literal run of characters.
type Lit struct {
	Value string
}

// Dot matches any character.
type Dot struct{}

// Anchor is a zero-width position assertion.
type Anchor struct {
	At ast.AnchorKind
}

// CharClass is a character class. An empty item list never matches.
type CharClass struct {
	Negated bool
	Items   []ClassItem
}

// ClassItem is the sealed interface over class members.
type ClassItem interface{ irClassItem() }

// ClassLit is a single literal class member.
type ClassLit struct {
	Ch rune
}

// ClassRange is a validated from-to range.
type ClassRange struct {
	From rune
	To   rune
}

// ClassEscape is a shorthand or Unicode property class member.
type ClassEscape struct {
	Kind     byte
	Property string
}

// Seq is a concatenation. A zero-part Seq is the explicit empty match and
// survives normalization as-is.
type Seq struct {
	Parts []Node
}

// Alt is an alternation.
type Alt struct {
	Branches []Node
}

// Quant repeats Child between Min and Max times; Max may be ast.Unbounded.
type Quant struct {
	Child Node
	Min   int
	Max   int
	Mode  ast.QuantMode
}

// Group is a capturing, non-capturing, named, or atomic group.
type Group struct {
	Capturing bool
	Body      Node
	Name      string
	Atomic    bool
}

// Backref references an earlier capture by index or name.
type Backref struct {
	Index int
	Name  string
}

// Look is a lookaround assertion.
type Look struct {
	Dir     ast.LookDir
	Negated bool
	Body    Node
}

func (Lit) irNode()       {}
func (Dot) irNode()       {}
func (Anchor) irNode()    {}
func (CharClass) irNode() {}
func (Seq) irNode()       {}
func (Alt) irNode()       {}
func (Quant) irNode()     {}
func (Group) irNode()     {}
func (Backref) irNode()   {}
func (Look) irNode()      {}

func (ClassLit) irClassItem()    {}
func (ClassRange) irClassItem()  {}
func (ClassEscape) irClassItem() {}
