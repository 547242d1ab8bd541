package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tagweave/tagweave/internal/engine"
	"github.com/tagweave/tagweave/internal/rules"
	"github.com/tagweave/tagweave/internal/ruleset"
	"github.com/tagweave/tagweave/internal/store"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		rulesDir string
		dbPath   string
		workers  int
	)

	cmd := &cobra.Command{
		Use:   "validate <selection.yaml>",
		Short: "Validate a tag selection against a rule set",
		Long: `Validate a tag and plot block selection against a fandom's rules.

Rules come from either a CUE rules directory (--rules) or a SQLite
database previously populated with 'tagweave import' (--db).

Exit codes: 0 selection valid, 1 validation errors, 2 command error.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], rulesDir, dbPath, workers, cmd)
		},
	}

	cmd.Flags().StringVar(&rulesDir, "rules", "", "directory of CUE rule files")
	cmd.Flags().StringVar(&dbPath, "db", "", "path to a tagweave SQLite database")
	cmd.Flags().IntVar(&workers, "workers", 1, "number of parallel rule evaluators")

	return cmd
}

func runValidate(opts *RootOptions, selectionPath, rulesDir, dbPath string, workers int, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if (rulesDir == "") == (dbPath == "") {
		return outputCommandError(formatter, ErrCodeUsage, "exactly one of --rules or --db is required")
	}

	sel, err := LoadSelection(selectionPath)
	if err != nil {
		return outputCommandError(formatter, ErrCodeBadInput, err.Error())
	}
	input := sel.Input()

	ruleSet, err := loadRuleSet(cmd, rulesDir, dbPath, input.FandomID, formatter)
	if err != nil {
		return err
	}
	formatter.VerboseLog("Loaded %d rule(s)", len(ruleSet))

	validator := engine.NewValidator(
		engine.WithLogger(commandLogger(cmd, opts.Verbose)),
		engine.WithWorkers(workers),
	)
	result := validator.Validate(cmd.Context(), input, ruleSet)

	return outputValidationResult(formatter, result)
}

// loadRuleSet loads rules from a CUE directory or a SQLite database.
func loadRuleSet(cmd *cobra.Command, rulesDir, dbPath, fandomID string, formatter *OutputFormatter) ([]rules.ValidationRule, error) {
	if rulesDir != "" {
		loadResult, loadErrs := ruleset.LoadDir(rulesDir, ruleset.LoadModeFailFast)
		if len(loadErrs) > 0 {
			var loadErr *ruleset.LoadError
			if errors.As(loadErrs[0], &loadErr) {
				return nil, outputCommandError(formatter, loadErr.Code, loadErr.Message)
			}
			return nil, outputCommandError(formatter, ErrCodeBadInput, loadErrs[0].Error())
		}
		formatter.VerboseLog("Compiled %d CUE file(s) from %s", loadResult.FileCount, rulesDir)
		return loadResult.Rules, nil
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return nil, outputCommandError(formatter, ErrCodeStore, err.Error())
	}
	defer s.Close()

	ruleSet, err := s.ListRules(cmd.Context(), fandomID)
	if err != nil {
		return nil, outputCommandError(formatter, ErrCodeStore, err.Error())
	}
	return ruleSet, nil
}

// outputValidationResult prints the result and maps validity to the
// exit code: 0 when the selection is valid, 1 otherwise.
func outputValidationResult(formatter *OutputFormatter, result rules.ValidationResult) error {
	if formatter.Format == "json" {
		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return err
		}
	} else {
		printResultText(formatter, result)
	}

	if !result.IsValid {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))
	}
	return nil
}

func printResultText(formatter *OutputFormatter, result rules.ValidationResult) {
	w := formatter.Writer
	if result.IsValid {
		fmt.Fprintln(w, "✓ Selection valid")
	} else {
		fmt.Fprintln(w, "✗ Selection invalid")
	}

	printBucket := func(label string, actions []rules.Action) {
		for _, a := range actions {
			fmt.Fprintf(w, "  %s [%s] %s\n", label, a.Severity, a.Message)
		}
	}
	printBucket("error:", result.Errors)
	printBucket("warning:", result.Warnings)
	printBucket("suggestion:", result.Suggestions)

	fmt.Fprintf(w, "%d rule(s) evaluated in %.3f ms\n", result.RulesEvaluated, result.ExecutionTimeMS)
}

// commandLogger builds the engine logger: debug level when verbose,
// warnings only otherwise, always on stderr.
func commandLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// Command-level error codes shared by the CLI commands.
const (
	ErrCodeUsage    = "E001" // bad flag combination
	ErrCodeBadInput = "E002" // unreadable or malformed input file
	ErrCodeStore    = "E003" // database error
)

// outputCommandError prints the error and returns an exit-code-2 error.
func outputCommandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
