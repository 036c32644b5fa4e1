package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"strl/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check <file.strl>",
	Short: "Parse and validate a pattern without emitting",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	opts, _, err := buildOptions(cmd, args[0])
	if err != nil {
		return err
	}
	res, err := driver.CheckFile(args[0], opts)
	if err != nil {
		return reportError(cmd, err)
	}

	out := cmd.OutOrStdout()
	if letters := res.Flags.Letters(); letters != "" {
		fmt.Fprintf(out, "%s: ok (flags %s)\n", res.Path, letters)
		return nil
	}
	fmt.Fprintf(out, "%s: ok\n", res.Path)
	return nil
}
