// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/luthersystems/esvet/messages"
)

// CodesCommand returns the "codes" command.
func CodesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "codes [code...]",
		Short: "Explain diagnostic codes",
		Long: `List the diagnostic codes esvet can report, or explain the given codes.

Codes starting with E are errors and cannot be suppressed.  W codes are
warnings and I codes are informational; both can be disabled with an
inline directive such as /* esvet -W033 */.

Examples:
  esvet codes            # List every code
  esvet codes W033 E030  # Explain two codes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, code := range messages.Codes() {
					m, _ := messages.Lookup(code)
					fmt.Fprintf(w, "%-5s %-8s %s\n", m.Code, m.Class(), m.Template)
				}
				return nil
			}
			var unknown []string
			for i, arg := range args {
				m, ok := messages.Lookup(strings.ToUpper(arg))
				if !ok {
					unknown = append(unknown, arg)
					continue
				}
				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "%s (%s)\n", m.Code, m.Class())
				fmt.Fprintln(w, indent.String(wordwrap.String(m.Template, 72), 2))
			}
			if len(unknown) > 0 {
				return fmt.Errorf("unknown code: %s", strings.Join(unknown, ", "))
			}
			return nil
		},
	}
}
