package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tagweave/tagweave/internal/ruleset"
)

// LintResult holds lint results for JSON output.
type LintResult struct {
	Valid  bool                      `json:"valid"`
	Errors []ruleset.ValidationError `json:"errors,omitempty"`
}

// NewLintCommand creates the lint command.
func NewLintCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint <rules-dir>",
		Short: "Check rule files for authoring defects",
		Long: `Compile every CUE rule file in a directory and report all authoring
defects: unknown condition types, incompatible operators, duplicate
ids, empty messages. All defects are collected in one pass.

Exit codes: 0 all rules clean, 1 defects found, 2 command error.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runLint(opts *RootOptions, rulesDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	loadResult, loadErrs := ruleset.LoadDir(rulesDir, ruleset.LoadModeCollectAll)
	if loadResult == nil && len(loadErrs) > 0 {
		var loadErr *ruleset.LoadError
		if errors.As(loadErrs[0], &loadErr) {
			return outputCommandError(formatter, loadErr.Code, loadErr.Message)
		}
		return outputCommandError(formatter, ErrCodeBadInput, loadErrs[0].Error())
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, rulesDir)

	var lintErrs []ruleset.ValidationError

	// Compile errors become lint entries so one run reports everything.
	for _, err := range loadErrs {
		var loadErr *ruleset.LoadError
		if errors.As(err, &loadErr) {
			line := 0
			if loadErr.Pos.IsValid() {
				line = loadErr.Pos.Line()
			}
			lintErrs = append(lintErrs, ruleset.ValidationError{
				Field:   "compile",
				Message: loadErr.Message,
				Code:    loadErr.Code,
				Line:    line,
			})
		}
	}

	lintErrs = append(lintErrs, ruleset.LintRuleSet(loadResult.Rules)...)

	if len(lintErrs) > 0 {
		return outputLintErrors(formatter, lintErrs)
	}

	if formatter.Format == "json" {
		return formatter.Success(LintResult{Valid: true})
	}
	fmt.Fprintf(formatter.Writer, "✓ %d rule(s) clean\n", len(loadResult.Rules))
	return nil
}

// outputLintErrors prints every defect and returns an exit-code-1 error.
func outputLintErrors(formatter *OutputFormatter, errs []ruleset.ValidationError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   LintResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("lint failed with %d defect(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Lint failed")
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("lint failed with %d defect(s)", len(errs)))
}
