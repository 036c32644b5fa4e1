// Package emit renders normalized IR into target pattern strings.
//
// Emitters are pure: the same IR and config always produce the same string,
// and rendering never fails. Anything an emitter cannot express must be
// rejected earlier in the pipeline.
package emit

import (
	"fmt"
	"sort"

	"strl/internal/ast"
	"strl/internal/ir"
)

// Config carries the per-pattern settings an emitter folds into its output.
type Config struct {
	Flags ast.Flags
}

// Emitter renders IR for one target dialect.
type Emitter interface {
	// Target returns the dialect name used on the command line.
	Target() string
	// Render produces the final pattern string.
	Render(root ir.Node, cfg Config) string
}

var registry = map[string]Emitter{}

func register(e Emitter) {
	registry[e.Target()] = e
}

// ForTarget looks up the emitter for a dialect name.
func ForTarget(name string) (Emitter, error) {
	e, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown target %q", name)
	}
	return e, nil
}

// Targets lists the registered dialect names.
func Targets() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
