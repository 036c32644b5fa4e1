package emit

import (
	"testing"

	"strl/internal/ast"
	"strl/internal/ir"
	"strl/internal/parser"
	"strl/internal/sem"
)

// compile runs the full front half of the pipeline so the rendering tests
// exercise real trees instead of hand-built ones.
func compile(t *testing.T, src string) string {
	t.Helper()
	flags, root, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	if err := sem.Validate(root, src); err != nil {
		t.Fatalf("validate %q: %v", src, err)
	}
	lowered := ir.Normalize(ir.Lower(root, ir.NewFeatureSet()))

	em, err := ForTarget("pcre2")
	if err != nil {
		t.Fatalf("ForTarget: %v", err)
	}
	return em.Render(lowered, Config{Flags: flags})
}

func TestRenderBasics(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"", ""},
		{"abc", "abc"},
		{"a.c", "a.c"},
		{"^abc$", "^abc$"},
		{`\bword\b`, `\bword\b`},
		{`\A.\z`, `\A.\z`},
		{"cat|dog", "cat|dog"},
		{"a b", "a b"},
	}
	for _, tt := range tests {
		if got := compile(t, tt.src); got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestRenderMetacharacterEscaping(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`\.`, `\.`},
		{`\(\)`, `\(\)`},
		{`\*`, `\*`},
		{`\\`, `\\`},
		{`\n`, `\n`},
		{`\t`, `\t`},
		{`\0`, `\x00`},
		{"{3}", `\{3\}`}, // a brace run with no atom before it is literal
	}
	for _, tt := range tests {
		if got := compile(t, tt.src); got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestRenderQuantifiers(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"a*", "a*"},
		{"a+", "a+"},
		{"a?", "a?"},
		{"a*?", "a*?"},
		{"a++", "a++"},
		{"a{3}", "a{3}"},
		{"a{3,}", "a{3,}"},
		{"a{3,5}", "a{3,5}"},
		{"a{3,5}?", "a{3,5}?"},
		{"a{0,1}", "a?"},
		{"a{0,}", "a*"},
		{"a{1,}", "a+"},
		{"(ab)+", "(ab)+"},
		{"(?:ab)+", "(?:ab)+"},
		{`\d{2,4}`, `\d{2,4}`},
	}
	for _, tt := range tests {
		if got := compile(t, tt.src); got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestRenderAltGrouping(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"ab|cd", "ab|cd"},
		{"x(a|b)y", "x(a|b)y"},
		{"x(?:a|b)y", "x(?:a|b)y"},
	}
	for _, tt := range tests {
		if got := compile(t, tt.src); got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestRenderGroupsAndLooks(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"(a)", "(a)"},
		{"(?:a)", "(?:a)"},
		{"(?<word>a)", "(?<word>a)"},
		{"(?>a+)b", "(?>a+)b"},
		{"(?=a)", "(?=a)"},
		{"(?!a)", "(?!a)"},
		{"(?<=a)", "(?<=a)"},
		{"(?<!a)", "(?<!a)"},
		{`(a)\1`, `(a)\1`},
		{`(?<w>a)\k<w>`, `(?<w>a)\k<w>`},
	}
	for _, tt := range tests {
		if got := compile(t, tt.src); got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestRenderCharClasses(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"[abc]", "[abc]"},
		{"[a-z0-9]", "[a-z0-9]"},
		{"[^a-c]", "[^a-c]"},
		{`[\]a]`, `[\]a]`},
		{`[a\]]`, `[a\]]`},
		{"[-a]", `[\-a]`},
		{"[a-]", `[a\-]`},
		{`[a\-z]`, `[a\-z]`},
		{`[\^a]`, `[\^a]`},
		{"[a^]", "[a^]"},
		{`[\d\s]`, `[\d\s]`},
		{`[a-\d]`, `[a\-\d]`},
	}
	for _, tt := range tests {
		if got := compile(t, tt.src); got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestRenderClassRoundTrip(t *testing.T) {
	// emitted class text must re-render to itself, so no member may leak
	// out of the brackets
	srcs := []string{`[\]a]`, `[a\]]`, `[a\]b]`, "[-a]", "[a^]"}
	for _, src := range srcs {
		first := compile(t, src)
		if again := compile(t, first); again != first {
			t.Errorf("%q: emitted %q, which re-renders as %q", src, first, again)
		}
	}
}

func TestRenderShorthandCollapse(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`\d`, `\d`},
		{`\W`, `\W`},
		{`\p{L}`, `\p{L}`},
		{`\P{L}`, `\P{L}`},
		{`[\d]`, `\d`},
		{`[^\d]`, `\D`},
		{`[^\D]`, `\d`},
		{`[^\p{L}]`, `\P{L}`},
	}
	for _, tt := range tests {
		if got := compile(t, tt.src); got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestRenderFlagPrefix(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"%flags i\nabc", "(?i)abc"},
		{"%flags s m\na.b", "(?ms)a.b"},
		{"%flags u\n\\p{L}", "(?u)\\p{L}"},
	}
	for _, tt := range tests {
		if got := compile(t, tt.src); got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestRenderExtendedModeEscaping(t *testing.T) {
	// literal spaces and hashes survive free-spacing via backslashes
	got := compile(t, "%flags x\na\\ b\\#c")
	want := `(?x)a\ b\#c`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	// inside classes they stay bare
	got = compile(t, "%flags x\n[ #]")
	want = "(?x)[ #]"
	if got != want {
		t.Fatalf("class: got %q, want %q", got, want)
	}
}

func TestRenderQuantifiedLookaroundWraps(t *testing.T) {
	// the parser rejects quantified lookarounds, but a decoded artifact can
	// still carry one; the suffix must bind to the whole assertion
	em, err := ForTarget("pcre2")
	if err != nil {
		t.Fatalf("ForTarget: %v", err)
	}
	root := ir.Quant{
		Child: ir.Look{Dir: ast.LookAhead, Body: ir.Lit{Value: "a"}},
		Min:   0,
		Max:   1,
	}
	if got, want := em.Render(root, Config{}), "(?:(?=a))?"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderDeterministic(t *testing.T) {
	src := `(?<w>\w+)\s+\k<w>|[a-z]{2,4}`
	first := compile(t, src)
	for i := 0; i < 5; i++ {
		if got := compile(t, src); got != first {
			t.Fatalf("render %d differs: %q vs %q", i, got, first)
		}
	}
}

func TestForTargetUnknown(t *testing.T) {
	if _, err := ForTarget("posix"); err == nil {
		t.Fatal("expected error for unknown target")
	}
}
