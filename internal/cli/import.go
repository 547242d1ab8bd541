package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tagweave/tagweave/internal/ruleset"
	"github.com/tagweave/tagweave/internal/store"
)

// ImportResult holds import results for JSON output.
type ImportResult struct {
	Imported int    `json:"imported"`
	Database string `json:"database"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "import <rules-dir>",
		Short: "Import CUE rule files into a database",
		Long: `Compile and lint a directory of CUE rule files, then upsert them
into a SQLite database. Rules with existing ids are replaced, so
re-running an import is safe.

Defective rules abort the import: fix them with 'tagweave lint' first.

Exit codes: 0 imported, 1 rules failed lint, 2 command error.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(rootOpts, args[0], dbPath, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "path to the target SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runImport(opts *RootOptions, rulesDir, dbPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	loadResult, loadErrs := ruleset.LoadDir(rulesDir, ruleset.LoadModeFailFast)
	if len(loadErrs) > 0 {
		var loadErr *ruleset.LoadError
		if errors.As(loadErrs[0], &loadErr) {
			return outputCommandError(formatter, loadErr.Code, loadErr.Message)
		}
		return outputCommandError(formatter, ErrCodeBadInput, loadErrs[0].Error())
	}

	// Never persist rules that fail lint: a database should only ever
	// hold evaluable rules.
	if lintErrs := ruleset.LintRuleSet(loadResult.Rules); len(lintErrs) > 0 {
		return outputLintErrors(formatter, lintErrs)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return outputCommandError(formatter, ErrCodeStore, err.Error())
	}
	defer s.Close()

	for _, rule := range loadResult.Rules {
		if err := s.SaveRule(cmd.Context(), rule); err != nil {
			return outputCommandError(formatter, ErrCodeStore, err.Error())
		}
		formatter.VerboseLog("Imported rule %s", rule.ID)
	}

	if formatter.Format == "json" {
		return formatter.Success(ImportResult{Imported: len(loadResult.Rules), Database: dbPath})
	}
	fmt.Fprintf(formatter.Writer, "✓ Imported %d rule(s) into %s\n", len(loadResult.Rules), dbPath)
	return nil
}
