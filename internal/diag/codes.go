package diag

import "fmt"

// Code classifies a diagnostic. Syntax codes live in the 1xxx range,
// semantic codes in 2xxx, interchange codes in 3xxx.
type Code uint16

const (
	UnknownCode Code = 0

	// Syntax: malformed token sequences.
	SynUnexpectedToken        Code = 1001
	SynUnexpectedTrailing     Code = 1002
	SynUnterminatedGroup      Code = 1003
	SynUnterminatedClass      Code = 1004
	SynUnterminatedLookahead  Code = 1005
	SynUnterminatedLookbehind Code = 1006
	SynUnterminatedAtomic     Code = 1007
	SynUnterminatedGroupName  Code = 1008
	SynUnterminatedBackref    Code = 1009
	SynUnmatchedParen         Code = 1010
	SynDanglingAlternation    Code = 1011
	SynInvalidEscape          Code = 1012
	SynIncompleteQuantifier   Code = 1013
	SynInvalidBraceContent    Code = 1014
	SynUnknownGroupType       Code = 1015

	// Semantic: syntactically valid but contextually invalid.
	SemQuantifiedAnchor   Code = 2001
	SemQuantifiedLook     Code = 2002
	SemUndefinedBackref   Code = 2003
	SemDuplicateGroupName Code = 2004
	SemInvalidGroupName   Code = 2005
	SemInvalidFlag        Code = 2006
	SemDirectivePlacement Code = 2007
	SemInvalidQuantRange  Code = 2008
	SemInvalidClassRange  Code = 2009
	SemInlineModifiers    Code = 2010

	// Interchange: malformed serialized AST/IR at a boundary.
	IntBadArtifact Code = 3001
)

func (c Code) String() string {
	switch {
	case c >= 3000:
		return fmt.Sprintf("INT%04d", uint16(c))
	case c >= 2000:
		return fmt.Sprintf("SEM%04d", uint16(c))
	case c >= 1000:
		return fmt.Sprintf("SYN%04d", uint16(c))
	}
	return "UNKNOWN"
}
