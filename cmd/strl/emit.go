package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"strl/internal/ast"
	"strl/internal/driver"
	"strl/internal/emit"
)

var emitTarget string

func init() {
	emitCmd.Flags().StringVar(&emitTarget, "target", "pcre2", "target dialect")
}

var emitCmd = &cobra.Command{
	Use:   "emit <artifact.json>",
	Short: "Render a serialized syntax tree artifact to a pattern",
	Long: `emit skips the parser: it reads an artifact JSON document produced by
'compile --format json' (or an external frontend) and runs lowering,
normalization and emission over it.`,
	Args: cobra.ExactArgs(1),
	RunE: runEmit,
}

func runEmit(cmd *cobra.Command, args []string) error {
	if _, err := emit.ForTarget(emitTarget); err != nil {
		return err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	res, err := driver.CompileArtifact(data, driver.Options{Target: emitTarget})
	if err != nil {
		if errors.Is(err, ast.ErrInterchange) {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		return reportError(cmd, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Pattern)
	return nil
}
