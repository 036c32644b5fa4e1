// Package source holds pattern source files and offset-to-position resolution.
package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"fortio.org/safecast"
)

// FileFlags encodes metadata about a source file.
type FileFlags uint8

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single pattern source.
type File struct {
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}

// New builds a File from already-normalized bytes.
func New(path string, content []byte, flags FileFlags) *File {
	return &File{
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}
}

// NewVirtual wraps in-memory content (stdin, tests, generated input).
func NewVirtual(name string, content []byte) *File {
	return New(name, content, FileVirtual)
}

// Load reads a file from disk and normalizes BOM and CRLF line endings.
func Load(path string) (*File, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return New(path, content, flags), nil
}

// Resolve converts a byte offset into a line and column position.
func (f *File) Resolve(off int) LineCol {
	o, err := safecast.Conv[uint32](off)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return toLineCol(f.LineIdx, o)
}

// LineText returns the text of the given 1-based line, without the newline.
func (f *File) LineText(line uint32) string {
	if line == 0 {
		return ""
	}
	var start uint32
	if line > 1 {
		if int(line-2) >= len(f.LineIdx) {
			return ""
		}
		start = f.LineIdx[line-2] + 1
	}
	end := uint32(len(f.Content))
	if int(line-1) < len(f.LineIdx) {
		end = f.LineIdx[line-1]
	}
	return string(f.Content[start:end])
}

// normalizeCRLF replaces every \r\n with \n, leaving lone \r untouched.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}
	out := make([]byte, 0, len(content))
	changed := false
	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}
	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, 8)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	if len(lineIdx) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	// binary search: largest lineIdx[i] <= off
	lo, hi := 0, len(lineIdx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] <= off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	line := hi
	if line < 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	if off == lineIdx[line] {
		// The newline character belongs to the line it terminates.
		var startOff uint32
		if line > 0 {
			startOff = lineIdx[line-1] + 1
		}
		return LineCol{Line: uint32(line + 1), Col: off - startOff + 1}
	}

	startOff := lineIdx[line] + 1
	return LineCol{Line: uint32(line + 2), Col: off - startOff + 1}
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
