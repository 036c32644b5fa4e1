// Package project loads the strl.toml manifest that supplies per-project
// defaults to the compiler.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"strl/internal/ast"
)

// ManifestName is the manifest file looked up from the working directory.
const ManifestName = "strl.toml"

// Manifest mirrors strl.toml:
//
//	[pattern]
//	target = "pcre2"
//	flags  = "ix"
//
//	[output]
//	dir = "build"
type Manifest struct {
	Pattern PatternConfig `toml:"pattern"`
	Output  OutputConfig  `toml:"output"`
}

// PatternConfig sets compilation defaults. Flags apply only to sources
// without their own %flags directive.
type PatternConfig struct {
	Target string `toml:"target"`
	Flags  string `toml:"flags"`
}

// OutputConfig controls where directory compilation writes patterns.
type OutputConfig struct {
	Dir string `toml:"dir"`
}

// Find walks up from startDir looking for strl.toml. It returns the
// manifest path and true when found.
func Find(startDir string) (string, bool) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}
	for {
		path := filepath.Join(dir, ManifestName)
		if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
			return path, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if m.Pattern.Target == "" {
		m.Pattern.Target = "pcre2"
	}
	var probe ast.Flags
	for i := 0; i < len(m.Pattern.Flags); i++ {
		if !probe.Set(m.Pattern.Flags[i]) {
			return nil, fmt.Errorf("%s: [pattern] flags: invalid flag %q", path, m.Pattern.Flags[i])
		}
	}
	return &m, nil
}

// DefaultFlags decodes the manifest's default flag letters. Load already
// validated them.
func (m *Manifest) DefaultFlags() ast.Flags {
	return ast.FromLetters(m.Pattern.Flags)
}
