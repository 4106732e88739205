// Copyright © 2018 The ELPS authors

package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/luthersystems/esvet/repl"
)

// REPLCommand returns the "repl" command.
func REPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Lint JavaScript interactively",
		Long: `Start an interactive session that lints JavaScript as it is typed.

Each complete statement is linted together with everything entered before
it, and only new diagnostics are shown.  Input with a syntax error is
dropped.  Unbalanced brackets, templates and comments continue on the
next line.  Use Ctrl-C to discard pending input and Ctrl-D to exit.

Example session:
  esvet> var a = 1
  warning[W033]: Missing semicolon.
  esvet> .set asi
  asi = true
  esvet> function f(x) {
  ...      return x + y;
  ... }
  esvet> .help
  ...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return repl.Run(filepath.Base(os.Args[0])+"> ",
				repl.WithConfig(cfg),
				repl.WithColor(colorMode()))
		},
	}
}
