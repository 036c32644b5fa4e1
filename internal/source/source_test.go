package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolvePositions(t *testing.T) {
	f := NewVirtual("pat", []byte("abc\ndef\n\nx"))
	tests := []struct {
		off  int
		line uint32
		col  uint32
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 1, 4}, // the newline belongs to the line it terminates
		{4, 2, 1},
		{6, 2, 3},
		{8, 3, 1},
		{9, 4, 1},
	}
	for _, tt := range tests {
		got := f.Resolve(tt.off)
		if got.Line != tt.line || got.Col != tt.col {
			t.Errorf("Resolve(%d) = %d:%d, want %d:%d", tt.off, got.Line, got.Col, tt.line, tt.col)
		}
	}
}

func TestResolveSingleLine(t *testing.T) {
	f := NewVirtual("pat", []byte("abc"))
	got := f.Resolve(2)
	if got.Line != 1 || got.Col != 3 {
		t.Fatalf("got %d:%d", got.Line, got.Col)
	}
}

func TestLineText(t *testing.T) {
	f := NewVirtual("pat", []byte("abc\ndef\n\nx"))
	tests := []struct {
		line uint32
		want string
	}{
		{1, "abc"},
		{2, "def"},
		{3, ""},
		{4, "x"},
	}
	for _, tt := range tests {
		if got := f.LineText(tt.line); got != tt.want {
			t.Errorf("LineText(%d) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "p.strl")
	raw := []byte("\xEF\xBB\xBF%flags i\r\nabc")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(f.Content) != "%flags i\nabc" {
		t.Fatalf("content %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags %b", f.Flags)
	}
}

func TestHashChangesWithContent(t *testing.T) {
	a := NewVirtual("a", []byte("abc"))
	b := NewVirtual("b", []byte("abd"))
	if a.Hash == b.Hash {
		t.Fatal("distinct contents share a hash")
	}
	c := NewVirtual("c", []byte("abc"))
	if a.Hash != c.Hash {
		t.Fatal("equal contents differ in hash")
	}
}
