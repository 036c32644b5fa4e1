// Package driver runs the compile pipeline end to end and owns the file,
// directory and artifact entry points the CLI calls.
package driver

import (
	"fmt"

	"strl/internal/ast"
	"strl/internal/emit"
	"strl/internal/ir"
	"strl/internal/observ"
	"strl/internal/parser"
	"strl/internal/sem"
	"strl/internal/source"
)

// Options configures one compilation.
type Options struct {
	// Target selects the emitter dialect. Defaults to "pcre2".
	Target string
	// Defaults are manifest flags applied to sources without a %flags
	// directive.
	Defaults ast.Flags
	// Cache, when set, is consulted before compiling files and updated
	// after.
	Cache *DiskCache
	// Timings enables per-phase timing collection on the result.
	Timings bool
}

func (o Options) target() string {
	if o.Target == "" {
		return "pcre2"
	}
	return o.Target
}

// Result is one compiled pattern.
type Result struct {
	Path     string
	Flags    ast.Flags
	Root     ast.Node // nil on cache hits
	IR       ir.Node  // nil on cache hits
	Features []string
	Pattern  string
	Cached   bool
	Timing   *observ.Report
}

// CompileText runs parse, validate, lower, normalize and emit over in-memory
// source. name labels the input in the result only.
func CompileText(name, text string, opts Options) (*Result, error) {
	timer := observ.NewTimer()

	ph := timer.Begin("parse")
	flags, root, err := parser.ParseWith(text, opts.Defaults)
	if err != nil {
		return nil, err
	}
	timer.End(ph, "")

	ph = timer.Begin("validate")
	if err := sem.Validate(root, text); err != nil {
		return nil, err
	}
	timer.End(ph, "")

	ph = timer.Begin("lower")
	features := ir.NewFeatureSet()
	lowered := ir.Normalize(ir.Lower(root, features))
	timer.End(ph, "")

	ph = timer.Begin("emit")
	em, err := emit.ForTarget(opts.target())
	if err != nil {
		return nil, err
	}
	pattern := em.Render(lowered, emit.Config{Flags: flags})
	timer.End(ph, "")

	res := &Result{
		Path:     name,
		Flags:    flags,
		Root:     root,
		IR:       lowered,
		Features: features.Names(),
		Pattern:  pattern,
	}
	if opts.Timings {
		report := timer.Report()
		res.Timing = &report
	}
	return res, nil
}

// CompileFile loads, normalizes and compiles one .strl file, going through
// the disk cache when one is configured.
func CompileFile(path string, opts Options) (*Result, error) {
	file, err := source.Load(path)
	if err != nil {
		return nil, err
	}

	key := CacheKey(file.Hash, opts.target())
	if opts.Cache != nil {
		var hit CachedPattern
		ok, err := opts.Cache.Get(key, &hit)
		if err == nil && ok {
			return &Result{
				Path:     file.Path,
				Flags:    ast.FromLetters(hit.Flags),
				Features: hit.Features,
				Pattern:  hit.Pattern,
				Cached:   true,
			}, nil
		}
		// cache read errors fall through to a fresh compile
	}

	res, err := CompileText(file.Path, string(file.Content), opts)
	if err != nil {
		return nil, err
	}
	if opts.Cache != nil {
		_ = opts.Cache.Put(key, &CachedPattern{
			Schema:   diskCacheSchemaVersion,
			Target:   opts.target(),
			Flags:    res.Flags.Letters(),
			Pattern:  res.Pattern,
			Features: res.Features,
		})
	}
	return res, nil
}

// CheckText parses and validates without lowering or emitting.
func CheckText(name, text string, opts Options) (*Result, error) {
	flags, root, err := parser.ParseWith(text, opts.Defaults)
	if err != nil {
		return nil, err
	}
	if err := sem.Validate(root, text); err != nil {
		return nil, err
	}
	return &Result{Path: name, Flags: flags, Root: root}, nil
}

// CheckFile is CheckText over a file on disk.
func CheckFile(path string, opts Options) (*Result, error) {
	file, err := source.Load(path)
	if err != nil {
		return nil, err
	}
	return CheckText(file.Path, string(file.Content), opts)
}

// CompileArtifact decodes a serialized AST artifact and runs the back half
// of the pipeline over it. Artifacts carry no source text, so validation
// errors surface without a source excerpt.
func CompileArtifact(data []byte, opts Options) (*Result, error) {
	flags, root, err := ast.DecodeArtifact(data)
	if err != nil {
		return nil, err
	}
	if err := sem.Validate(root, ""); err != nil {
		return nil, err
	}

	features := ir.NewFeatureSet()
	lowered := ir.Normalize(ir.Lower(root, features))

	em, err := emit.ForTarget(opts.target())
	if err != nil {
		return nil, err
	}
	return &Result{
		Flags:    flags,
		Root:     root,
		IR:       lowered,
		Features: features.Names(),
		Pattern:  em.Render(lowered, emit.Config{Flags: flags}),
	}, nil
}

// Artifact builds the interchange form of a compiled result. Cache hits do
// not retain the tree, so they cannot be exported.
func (r *Result) Artifact() (*ast.Artifact, error) {
	if r.Root == nil {
		return nil, fmt.Errorf("%s: cached result has no syntax tree", r.Path)
	}
	return ast.EncodeArtifact(r.Flags, r.Root), nil
}
