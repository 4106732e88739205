// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple" // default log backend

	"github.com/luthersystems/esvet/lsp"
)

// LSPCommand returns the "lsp" command.
func LSPCommand() *cobra.Command {
	var (
		stdio   bool
		port    int
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the esvet Language Server Protocol server",
		Long: `Start an LSP server that lints JavaScript documents as they are edited.

The server publishes diagnostics on open, change and save, offers quick
fixes that suppress a warning on one line or in the whole file, and
provides a function outline.  The .esvetrc at the workspace root is used
unless --config names a file.

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N

Examples:
  esvet lsp                           Start with stdio transport
  esvet lsp --port 7998               Start with TCP on port 7998
  esvet lsp -v --log-file lsp.log     Log requests to a file`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var path *string
			if logFile != "" {
				path = &logFile
			}
			commonlog.Configure(verbose, path)

			var opts []lsp.Option
			if cfgFile != "" {
				cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				opts = append(opts, lsp.WithConfig(cfg))
			}
			srv := lsp.New(opts...)

			if !stdio && port > 0 {
				if err := srv.RunTCP(fmt.Sprintf("localhost:%d", port)); err != nil {
					return fmt.Errorf("lsp server: %w", err)
				}
				return nil
			}
			if err := srv.RunStdio(); err != nil {
				return fmt.Errorf("lsp server: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")
	cmd.Flags().StringVar(&logFile, "log-file", "",
		"Write server logs to this file instead of stderr")

	return cmd
}
