package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"censorship/pkg/pipeline"
	"censorship/pkg/text"
	"censorship/pkg/wordlist"
)

var errCheckFailed = errors.New("configuration has problems")

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Load dictionaries and patterns and report problems",
	RunE:  checkAction,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func checkAction(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := false

	pl, err := pipeline.New(cmd.Context(), cfg, &wordlist.Loader{BaseDir: cfg.BaseDir})
	if err != nil {
		fmt.Fprintf(out, "sources: FAIL %v\n", err)
		failed = true
	}

	fmt.Fprintf(out, "interceptors: %d\n", pl.Censor.Len())

	if pl.Text != nil {
		st := pl.Text.Snapshot().Stats()
		fmt.Fprintf(out, "text: %d words, mode %s\n", st.Words, pl.Text.Snapshot().Policy.Mode)
		failed = printDiagnostics(cmd, "pattern", st.Patterns) || failed
	} else {
		fmt.Fprintln(out, "text: disabled")
	}

	if pl.Image != nil {
		failed = printDiagnostics(cmd, "image deny", pl.Image.Diagnostics()) || failed
	}

	if failed {
		return errCheckFailed
	}
	return nil
}

// printDiagnostics reports whether any pattern failed to compile.
func printDiagnostics(cmd *cobra.Command, kind string, diags []text.PatternDiagnostic) bool {
	failed := false
	for _, d := range diags {
		if d.OK() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %q: ok\n", kind, d.Pattern)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %q: FAIL %v\n", kind, d.Pattern, d.Err)
		failed = true
	}
	return failed
}
