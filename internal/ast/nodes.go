// Package ast defines the tree the parser produces and its interchange form.
//
// Nodes are immutable once built. Every composite node owns its children
// outright; the tree has no cycles and no sharing, so a parse result can be
// handed between goroutines freely.
package ast

// Node is the sealed interface over all AST node variants.
type Node interface{ node() }

// AnchorKind identifies a zero-width position assertion.
type AnchorKind uint8

const (
	AnchorStart AnchorKind = iota // ^
	AnchorEnd                     // $
	AnchorWordBoundary            // \b
	AnchorNotWordBoundary         // \B
	AnchorAbsoluteStart           // \A
	AnchorEndBeforeFinalNewline   // \Z
	AnchorAbsoluteEnd             // \z
)

func (k AnchorKind) String() string {
	switch k {
	case AnchorStart:
		return "Start"
	case AnchorEnd:
		return "End"
	case AnchorWordBoundary:
		return "WordBoundary"
	case AnchorNotWordBoundary:
		return "NotWordBoundary"
	case AnchorAbsoluteStart:
		return "AbsoluteStart"
	case AnchorEndBeforeFinalNewline:
		return "EndBeforeFinalNewline"
	case AnchorAbsoluteEnd:
		return "AbsoluteEnd"
	}
	return "Unknown"
}

// QuantMode selects the backtracking behavior of a quantifier.
type QuantMode uint8

const (
	Greedy QuantMode = iota
	Lazy
	Possessive
)

func (m QuantMode) String() string {
	switch m {
	case Greedy:
		return "Greedy"
	case Lazy:
		return "Lazy"
	case Possessive:
		return "Possessive"
	}
	return "Unknown"
}

// Unbounded is the sentinel for a quantifier with no upper bound.
const Unbounded = -1

// LookDir distinguishes lookahead from lookbehind assertions.
type LookDir uint8

const (
	LookAhead LookDir = iota
	LookBehind
)

func (d LookDir) String() string {
	if d == LookBehind {
		return "Behind"
	}
	return "Ahead"
}

// Lit is a literal run of characters.
type Lit struct {
	Value string
}

// Dot matches any character (subject to the dotAll flag at emission).
type Dot struct{}

// Anchor is a zero-width position assertion.
type Anchor struct {
	At AnchorKind
}

// CharClass is a bracketed character class. An empty item list is a valid,
// always-non-matching class.
type CharClass struct {
	Negated bool
	Items   []ClassItem
}

// ClassItem is the sealed interface over character class members.
type ClassItem interface{ classItem() }

// ClassLit is a single literal class member.
type ClassLit struct {
	Ch rune
}

// ClassRange is a from-to range. The parser accepts reversed ranges
// syntactically; the semantic pass rejects them using Pos.
type ClassRange struct {
	From rune
	To   rune
	Pos  int // source offset of the range start, for semantic diagnostics
}

// ClassEscape is a shorthand (\d \D \w \W \s \S) or Unicode property
// (\p{...} \P{...}) class member. Kind holds the escape letter.
type ClassEscape struct {
	Kind     byte
	Property string // set only for p/P
}

// Seq is a concatenation. An empty Seq is the explicit empty match.
type Seq struct {
	Parts []Node
}

// Alt is an alternation with two or more branches.
type Alt struct {
	Branches []Node
}

// Quant repeats Child between Min and Max times. Max is Unbounded for
// open-ended repetition. The child is never an Anchor or a Look; the
// parser rejects those.
type Quant struct {
	Child Node
	Min   int
	Max   int
	Mode  QuantMode
}

// Group is a capturing, non-capturing, named, or atomic group.
type Group struct {
	Capturing bool
	Body      Node
	Name      string // empty unless named
	Atomic    bool
}

// Backref references an earlier capture by index or by name.
// Index is zero when the reference is by name.
type Backref struct {
	Index int
	Name  string
}

// Look is a lookahead or lookbehind assertion.
type Look struct {
	Dir     LookDir
	Negated bool
	Body    Node
}

func (Lit) node()       {}
func (Dot) node()       {}
func (Anchor) node()    {}
func (CharClass) node() {}
func (Seq) node()       {}
func (Alt) node()       {}
func (Quant) node()     {}
func (Group) node()     {}
func (Backref) node()   {}
func (Look) node()      {}

func (ClassLit) classItem()    {}
func (ClassRange) classItem()  {}
func (ClassEscape) classItem() {}
