package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/tagweave/tagweave/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Subcommands print their own diagnostics before returning an
		// ExitError; only surface errors that never reached a formatter,
		// such as flag parsing failures.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
