// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/luthersystems/esvet/options"
)

var optionGroups = []struct {
	kind  options.Kind
	title string
}{
	{options.Enforcing, "Enforcing options (enable more warnings)"},
	{options.Relaxing, "Relaxing options (suppress warnings)"},
	{options.Environment, "Environments (predefine globals)"},
	{options.Valued, "Valued options"},
}

// OptionsCommand returns the "options" command.
func OptionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the recognized options",
		Long: `List every option esvet recognizes, grouped by kind.

Options can be set in .esvetrc, with ESVET_<OPTION> environment variables,
with "esvet lint --set name=value", or inline:
  /* esvet undef:true, esversion:6 */`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			all := options.All()
			for i, g := range optionGroups {
				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintln(w, g.title+":")
				for _, opt := range all {
					if opt.Kind != g.kind {
						continue
					}
					fmt.Fprintf(w, "  %s%s\n", opt.Name, optionValues(opt))
					fmt.Fprintln(w, indent.String(wordwrap.String(opt.Doc, 68), 6))
				}
			}
			return nil
		},
	}
}

func optionValues(opt *options.Option) string {
	switch {
	case opt.Numeric:
		return " <n>"
	case len(opt.Values) > 0:
		return " <" + strings.Join(opt.Values, "|") + ">"
	default:
		return ""
	}
}
