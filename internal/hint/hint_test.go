package hint

import (
	"strings"
	"testing"
)

func TestForKnownMessages(t *testing.T) {
	tests := []struct {
		message string
		needle  string
	}{
		{"Unterminated group", "matching ')'"},
		{"Unterminated group name", "'>'"},
		{"Unterminated character class", "']'"},
		{"Invalid quantifier range {5,3}", "m ≤ n"},
		{"Cannot quantify anchor", "positions"},
		{"Duplicate group name 'w'", "unique"},
		{"Inline modifiers `(?imsx)` are not supported", "%flags"},
		{"Directive after pattern content", "start of the pattern"},
	}
	for _, tt := range tests {
		got := For(tt.message, "", 0)
		if got == "" {
			t.Errorf("%q: no hint", tt.message)
			continue
		}
		if !strings.Contains(got, tt.needle) {
			t.Errorf("%q: hint %q does not contain %q", tt.message, got, tt.needle)
		}
	}
}

func TestForSpecificBeforeGeneral(t *testing.T) {
	// "Unterminated group name" must not fall through to the plain group rule
	got := For("Unterminated group name", "", 0)
	if !strings.Contains(got, "(?<name>") {
		t.Fatalf("got the generic group hint: %q", got)
	}

	// "Invalid quantifier range" must not hit the bare-quantifier rule
	got = For("Invalid quantifier range {5,3}", "", 0)
	if strings.Contains(got, "start of a pattern") {
		t.Fatalf("got the bare-quantifier hint: %q", got)
	}
}

func TestForInvalidQuantifierExtractsChar(t *testing.T) {
	got := For("Invalid quantifier '+'", "+a", 0)
	if !strings.Contains(got, "'+'") {
		t.Fatalf("hint %q does not name the quantifier", got)
	}
}

func TestForUnknownEscapeExtractsChar(t *testing.T) {
	got := For(`Unknown escape sequence '\q'`, `\q`, 0)
	if !strings.Contains(got, "'\\q'") {
		t.Fatalf("hint %q does not name the escape", got)
	}
}

func TestForUnmatchedMessage(t *testing.T) {
	if got := For("Completely novel failure mode", "", 0); got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}
