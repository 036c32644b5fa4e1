package scan

import "testing"

func TestCursorBasics(t *testing.T) {
	c := New("ab", false)
	if c.EOF() || c.Pos() != 0 {
		t.Fatal("fresh cursor state")
	}
	if c.Peek() != 'a' || c.PeekAt(1) != 'b' || c.PeekAt(2) != 0 {
		t.Fatal("peek")
	}
	if c.Take() != 'a' || c.Take() != 'b' {
		t.Fatal("take")
	}
	if !c.EOF() || c.Take() != 0 || c.Peek() != 0 {
		t.Fatal("EOF behavior")
	}
}

func TestCursorTakeRune(t *testing.T) {
	c := New("é1", false)
	if r := c.TakeRune(); r != 'é' {
		t.Fatalf("got %q", r)
	}
	if c.Pos() != 2 {
		t.Fatalf("pos %d after two-byte rune", c.Pos())
	}
	if r := c.TakeRune(); r != '1' {
		t.Fatalf("got %q", r)
	}
}

func TestCursorMatchAndEat(t *testing.T) {
	c := New("?<=x", false)
	if !c.Match("?<=") {
		t.Fatal("Match should consume the prefix")
	}
	if c.Pos() != 3 {
		t.Fatalf("pos %d", c.Pos())
	}
	if c.Match("yz") {
		t.Fatal("non-prefix matched")
	}
	if !c.Eat('x') || !c.EOF() {
		t.Fatal("eat")
	}
}

func TestCursorMarkReset(t *testing.T) {
	c := New("{abc", false)
	m := c.Mark()
	c.Take()
	c.Take()
	c.Reset(m)
	if c.Pos() != 0 || c.Peek() != '{' {
		t.Fatal("reset did not rewind")
	}
}

func TestSkipWsAndComments(t *testing.T) {
	c := New("  a # rest\n b", true)
	c.SkipWsAndComments()
	if c.Peek() != 'a' {
		t.Fatalf("stopped at %q", c.Peek())
	}
	c.Take()
	c.SkipWsAndComments()
	if c.Peek() != 'b' {
		t.Fatalf("comment not skipped, at %q", c.Peek())
	}
}

func TestSkipInertWhenNotExtended(t *testing.T) {
	c := New("  a", false)
	c.SkipWsAndComments()
	if c.Pos() != 0 {
		t.Fatal("skipped whitespace without extended mode")
	}
}

func TestSkipInertInsideClass(t *testing.T) {
	c := New(" a]", true)
	c.EnterClass()
	c.SkipWsAndComments()
	if c.Pos() != 0 {
		t.Fatal("skipped whitespace inside a class")
	}
	c.LeaveClass()
	c.SkipWsAndComments()
	if c.Peek() != 'a' {
		t.Fatal("skip inactive after leaving class")
	}
}
