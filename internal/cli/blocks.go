package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tagweave/tagweave/internal/engine"
	"github.com/tagweave/tagweave/internal/rules"
	"github.com/tagweave/tagweave/internal/store"
)

// CycleResult holds cycle analysis results for JSON output.
type CycleResult struct {
	Acyclic bool     `json:"acyclic"`
	Cycles  []string `json:"cycles"`
	Blocks  int      `json:"blocks"`
}

// NewBlocksCommand creates the blocks command.
func NewBlocksCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		dbPath string
		fandom string
	)

	cmd := &cobra.Command{
		Use:   "blocks [blocks.yaml]",
		Short: "Analyze a plot block hierarchy for cycles",
		Long: `Check plot block parent and dependency relations for circular
references. Blocks come from a YAML file argument or from a database
(--db with --fandom).

Exit codes: 0 hierarchy acyclic, 1 cycles found, 2 command error.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runBlocks(rootOpts, path, dbPath, fandom, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "path to a tagweave SQLite database")
	cmd.Flags().StringVar(&fandom, "fandom", "", "fandom to load blocks for (with --db)")

	return cmd
}

func runBlocks(opts *RootOptions, path, dbPath, fandom string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	var nodes []rules.PlotBlockNode
	switch {
	case path != "" && dbPath != "":
		return outputCommandError(formatter, ErrCodeUsage, "pass a block file or --db, not both")
	case path != "":
		bf, err := LoadBlockFile(path)
		if err != nil {
			return outputCommandError(formatter, ErrCodeBadInput, err.Error())
		}
		nodes = bf.Nodes()
	case dbPath != "":
		if fandom == "" {
			return outputCommandError(formatter, ErrCodeUsage, "--fandom is required with --db")
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return outputCommandError(formatter, ErrCodeStore, err.Error())
		}
		defer s.Close()
		nodes, err = s.ListPlotBlocks(cmd.Context(), fandom)
		if err != nil {
			return outputCommandError(formatter, ErrCodeStore, err.Error())
		}
	default:
		return outputCommandError(formatter, ErrCodeUsage, "a block file or --db is required")
	}

	formatter.VerboseLog("Analyzing %d block(s)", len(nodes))
	cycles := engine.DetectCycles(nodes)

	if formatter.Format == "json" {
		if cycles == nil {
			cycles = []string{}
		}
		result := CycleResult{Acyclic: len(cycles) == 0, Cycles: cycles, Blocks: len(nodes)}
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else if len(cycles) == 0 {
		fmt.Fprintf(formatter.Writer, "✓ %d block(s), no cycles\n", len(nodes))
	} else {
		fmt.Fprintln(formatter.Writer, "✗ Cycles found")
		for _, cycle := range cycles {
			fmt.Fprintf(formatter.Writer, "  %s\n", cycle)
		}
	}

	if len(cycles) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d cycle(s) found", len(cycles)))
	}
	return nil
}
