// Package hint maps parse error messages to short, actionable guidance.
//
// The engine is a pure function of (message, source text, position). It never
// changes what error was raised; it only attaches advisory text, and an
// unmatched message simply yields no hint.
package hint

import (
	"fmt"
	"strings"
	"unicode"
)

type generator func(msg, text string, pos int) string

type rule struct {
	pattern string
	gen     generator
}

// Rule order matters: more specific patterns come before more general ones
// (e.g. "Invalid quantifier range" before "Invalid quantifier").
var rules = []rule{
	{"Unterminated group name", constant("Named groups use the syntax (?<name>...). Make sure to close the '<name>' with '>' before the group content.")},
	{"Unterminated group", constant("This group was opened with '(' but never closed. Add a matching ')' to close the group.")},
	{"Unterminated character class", constant("This character class was opened with '[' but never closed. Add a matching ']' to close the character class.")},
	{"Unterminated named backref", constant("Named backreferences use the syntax \\k<name>. Make sure to close the '<name>' with '>'.")},
	{"Unterminated lookahead", constant("This lookahead was opened with '(?=' or '(?!' but never closed. Add a matching ')' to close the lookahead.")},
	{"Unterminated lookbehind", constant("This lookbehind was opened with '(?<=' or '(?<!' but never closed. Add a matching ')' to close the lookbehind.")},
	{"Unterminated atomic group", constant("This atomic group was opened with '(?>' but never closed. Add a matching ')' to close the atomic group.")},
	{"Incomplete quantifier", constant("Brace quantifiers use the syntax {m,n} or {n}. Make sure to close the quantifier with '}'.")},
	{"Invalid brace quantifier content", constant("Brace quantifiers may contain only digits and a single comma, like {3}, {3,} or {3,5}.")},
	{"Invalid quantifier range", constant("Quantifier range {m,n} must have m ≤ n. Check that the minimum value is not greater than the maximum value.")},
	{"Invalid quantifier", hintInvalidQuantifier},
	{"Invalid character range", constant("Character ranges must be in ascending order. For example, use [a-z] instead of [z-a], or [0-9] instead of [9-0].")},
	{"Invalid flag", constant("Unknown flag. Valid flags are: i (case-insensitive), m (multiline), s (dotAll), u (unicode), x (extended/free-spacing).")},
	{"Directive after pattern content", constant("Directives like %flags must appear at the start of the pattern, before any regex content.")},
	{"Unknown escape sequence", hintUnknownEscape},
	{"Unmatched ')'", constant("This ')' character does not have a matching opening '('. Did you mean to escape it with '\\)'?")},
	{"Unexpected token", hintUnexpectedToken},
	{"Unexpected trailing input", constant("There is unexpected content after the pattern ended. Check for unmatched parentheses or extra characters.")},
	{"Cannot quantify anchor", constant("Anchors like ^, $, \\b, \\B match positions, not characters, so they cannot be quantified with *, +, ?, or {}.")},
	{"Cannot quantify lookaround", constant("Lookarounds are zero-width assertions; repeat their contents instead, e.g. (?=(?:...){2}).")},
	{"Backreference to undefined group", constant("Backreferences refer to previously captured groups. Make sure the group is defined before referencing it. Forward references are not supported.")},
	{"Duplicate group name", constant("Each named group must have a unique name. Use different names for different groups, or use unnamed groups ().")},
	{"Invalid group name", constant("Group names must follow the IDENTIFIER rule: start with a letter or underscore, followed by letters, digits, or underscores. Use (?<name>...) with a valid identifier.")},
	{"Empty alternation branch", constant("Empty alternation branch detected (consecutive '|' operators). Use 'a|b' instead of 'a||b'.")},
	{"Alternation lacks left-hand side", constant("The alternation operator '|' requires an expression on the left side. Use 'a|b' to match either 'a' or 'b'.")},
	{"Alternation lacks right-hand side", constant("The alternation operator '|' requires an expression on the right side. Use 'a|b' to match either 'a' or 'b'.")},
	{"Expected '<' after \\k", constant("Named backreferences use the syntax \\k<name>. The '<' is required after \\k, like \\k<groupname>.")},
	{"Inline modifiers", constant("Inline modifiers like (?i) are not supported. Instead, use the %flags directive at the start of your pattern: '%flags i'")},
	{"Invalid \\xHH escape", constant("Hex escapes must use valid hexadecimal digits (0-9, A-F). Use \\xHH for 2-digit hex codes (e.g., \\x41 for 'A').")},
	{"Invalid \\uHHHH", constant("Unicode escapes must use valid hexadecimal digits (0-9, A-F). Use \\uHHHH for 4-digit codes or \\u{...} for variable-length codes.")},
	{"Invalid \\UHHHHHHHH", constant("Unicode escapes must use valid hexadecimal digits (0-9, A-F). \\U takes exactly eight hex digits.")},
	{"Unterminated \\x{...}", constant("Variable-length hex escapes use the syntax \\x{...}. Make sure to close the escape with '}'.")},
	{"Unterminated \\u{...}", constant("Variable-length unicode escapes use the syntax \\u{...}. Make sure to close the escape with '}'.")},
	{"Unterminated \\p{...}", constant("Unicode property escapes use the syntax \\p{Property} or \\P{Property}. Make sure to close the property name with '}'.")},
	{"Expected '{' after \\", constant("Unicode property escapes require braces: \\p{Letter} or \\P{Letter}. Use \\p{L} for letters, \\p{N} for numbers, etc.")},
}

// For returns advisory text for an error message, or "" when no rule matches.
func For(message, text string, pos int) string {
	for _, r := range rules {
		if strings.Contains(message, r.pattern) {
			return r.gen(message, text, pos)
		}
	}
	return ""
}

func constant(s string) generator {
	return func(string, string, int) string { return s }
}

func hintInvalidQuantifier(msg, _ string, _ int) string {
	quant := "*"
	if i := strings.IndexByte(msg, '\''); i >= 0 && i+1 < len(msg) {
		quant = string(msg[i+1])
	}
	return fmt.Sprintf("The quantifier '%s' cannot be at the start of a pattern or group. It must follow a character or group it can quantify.", quant)
}

func hintUnknownEscape(msg, _ string, _ int) string {
	i := strings.IndexByte(msg, '\\')
	if i < 0 || i+1 >= len(msg) {
		return "This is not a recognized escape sequence."
	}
	ch := rune(msg[i+1])
	switch {
	case unicode.IsUpper(ch):
		return fmt.Sprintf("'\\%c' is not a recognized escape sequence. To match literal '%c', use '%c' without the backslash.", ch, ch, ch)
	default:
		return fmt.Sprintf("'\\%c' is not a recognized escape sequence. To match literal '%c', use '%c' or escape special characters with '\\'.", ch, ch, ch)
	}
}

func hintUnexpectedToken(_, text string, pos int) string {
	if pos >= 0 && pos < len(text) {
		switch text[pos] {
		case ')':
			return "This ')' character does not have a matching opening '('. Did you mean to escape it with '\\)'?"
		case '|':
			return "The alternation operator '|' requires expressions on both sides. Use 'a|b' to match either 'a' or 'b'."
		}
	}
	return "This character appeared in an unexpected context."
}
