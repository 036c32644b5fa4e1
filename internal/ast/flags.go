package ast

// Flags is the boolean flag set controlled by the %flags directive.
// Duplicate letters collapse via idempotent OR; flags affect emission and
// free-spacing scanning, never the AST shape.
type Flags struct {
	IgnoreCase bool
	Multiline  bool
	DotAll     bool
	Unicode    bool
	Extended   bool
}

// Set enables the flag named by a single lower-case letter.
// It reports whether the letter is a known flag.
func (f *Flags) Set(letter byte) bool {
	switch letter {
	case 'i':
		f.IgnoreCase = true
	case 'm':
		f.Multiline = true
	case 's':
		f.DotAll = true
	case 'u':
		f.Unicode = true
	case 'x':
		f.Extended = true
	default:
		return false
	}
	return true
}

// Merge ORs other into f.
func (f *Flags) Merge(other Flags) {
	f.IgnoreCase = f.IgnoreCase || other.IgnoreCase
	f.Multiline = f.Multiline || other.Multiline
	f.DotAll = f.DotAll || other.DotAll
	f.Unicode = f.Unicode || other.Unicode
	f.Extended = f.Extended || other.Extended
}

// Empty reports whether no flag is set.
func (f Flags) Empty() bool {
	return f == Flags{}
}

// Letters renders the set in the canonical "imsux" order.
func (f Flags) Letters() string {
	out := make([]byte, 0, 5)
	if f.IgnoreCase {
		out = append(out, 'i')
	}
	if f.Multiline {
		out = append(out, 'm')
	}
	if f.DotAll {
		out = append(out, 's')
	}
	if f.Unicode {
		out = append(out, 'u')
	}
	if f.Extended {
		out = append(out, 'x')
	}
	return string(out)
}

// FromLetters builds a flag set from a letter string, ignoring unknown
// letters. Directive parsing validates letters before calling this.
func FromLetters(letters string) Flags {
	var f Flags
	for i := 0; i < len(letters); i++ {
		f.Set(letters[i])
	}
	return f
}
