package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"strl/internal/ast"
	"strl/internal/diag"
	"strl/internal/driver"
	"strl/internal/emit"
	"strl/internal/ir"
	"strl/internal/observ"
	"strl/internal/project"
)

var (
	compileTarget  string
	compileFormat  string
	compileNoCache bool
	compileOut     string
)

func init() {
	compileCmd.Flags().StringVar(&compileTarget, "target", "",
		"target dialect ("+strings.Join(emit.Targets(), "|")+")")
	compileCmd.Flags().StringVar(&compileFormat, "format", "pattern", "output format (pattern|json)")
	compileCmd.Flags().BoolVar(&compileNoCache, "no-cache", false, "bypass the compiled pattern cache")
	compileCmd.Flags().StringVar(&compileOut, "out", "", "directory to write compiled patterns into")
}

var compileCmd = &cobra.Command{
	Use:   "compile <file.strl|dir>",
	Short: "Compile pattern sources to a target dialect",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

// compileJSON is the machine-readable compile output.
type compileJSON struct {
	Path     string         `json:"path,omitempty"`
	Artifact *ast.Artifact  `json:"artifact,omitempty"`
	IR       map[string]any `json:"ir,omitempty"`
	Target   string         `json:"target"`
	Pattern  string         `json:"pattern"`
	Features []string       `json:"features_used"`
	Timing   *observ.Report `json:"timing,omitempty"`
}

func runCompile(cmd *cobra.Command, args []string) error {
	arg := args[0]
	opts, manifest, err := buildOptions(cmd, arg)
	if err != nil {
		return err
	}
	// json output needs the syntax tree, which cache hits do not carry
	if compileFormat == "json" {
		opts.Cache = nil
	}

	fi, err := os.Stat(arg)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return compileDirectory(cmd, arg, opts, manifest)
	}

	res, err := driver.CompileFile(arg, opts)
	if err != nil {
		return reportError(cmd, err)
	}
	return printResult(cmd, res, opts.Target)
}

// buildOptions folds the manifest (if any) and command flags into driver
// options. Flag values win over manifest values.
func buildOptions(cmd *cobra.Command, arg string) (driver.Options, *project.Manifest, error) {
	opts := driver.Options{Target: compileTarget}
	opts.Timings, _ = cmd.Flags().GetBool("timings")

	startDir := filepath.Dir(arg)
	if fi, err := os.Stat(arg); err == nil && fi.IsDir() {
		startDir = arg
	}

	var manifest *project.Manifest
	if path, ok := project.Find(startDir); ok {
		m, err := project.Load(path)
		if err != nil {
			return driver.Options{}, nil, err
		}
		manifest = m
		opts.Defaults = m.DefaultFlags()
		if opts.Target == "" {
			opts.Target = m.Pattern.Target
		}
	}

	if _, err := emit.ForTarget(targetOrDefault(opts.Target)); err != nil {
		return driver.Options{}, nil, err
	}
	if !compileNoCache {
		cache, err := driver.OpenDiskCache("strl")
		if err == nil {
			opts.Cache = cache
		}
		// a broken cache dir just disables caching
	}
	return opts, manifest, nil
}

func targetOrDefault(target string) string {
	if target == "" {
		return "pcre2"
	}
	return target
}

// patternExt is the output file extension for a target dialect.
func patternExt(target string) string {
	if target == "pcre2" {
		return ".pcre"
	}
	return "." + target
}

func compileDirectory(cmd *cobra.Command, dir string, opts driver.Options, manifest *project.Manifest) error {
	results, err := driver.CompileDir(context.Background(), dir, opts)
	if err != nil {
		return reportError(cmd, err)
	}

	outDir := compileOut
	if outDir == "" && manifest != nil {
		outDir = manifest.Output.Dir
	}
	if outDir == "" {
		for _, res := range results {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", res.Path, res.Pattern)
		}
		return nil
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	for _, res := range results {
		base := strings.TrimSuffix(filepath.Base(res.Path), driver.SourceExt)
		path := filepath.Join(outDir, base+patternExt(targetOrDefault(opts.Target)))
		if err := os.WriteFile(path, []byte(res.Pattern+"\n"), 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", res.Path, path)
	}
	return nil
}

func printResult(cmd *cobra.Command, res *driver.Result, target string) error {
	out := cmd.OutOrStdout()
	if compileFormat == "json" {
		doc := compileJSON{
			Path:     res.Path,
			Target:   targetOrDefault(target),
			Pattern:  res.Pattern,
			Features: res.Features,
			Timing:   res.Timing,
		}
		if res.Root != nil {
			doc.Artifact = ast.EncodeArtifact(res.Flags, res.Root)
		}
		if res.IR != nil {
			doc.IR = ir.Dict(res.IR)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	fmt.Fprintln(out, res.Pattern)
	if res.Timing != nil {
		fmt.Fprint(cmd.ErrOrStderr(), res.Timing.Summary())
	}
	return nil
}

// reportError renders parse diagnostics with the source excerpt and hint;
// everything else passes through for the generic error path.
func reportError(cmd *cobra.Command, err error) error {
	var perr *diag.ParseError
	if errors.As(err, &perr) {
		diag.Render(cmd.ErrOrStderr(), perr, useColor(cmd, os.Stderr))
		return errReported
	}
	return err
}
