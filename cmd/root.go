// Copyright © 2018 The ELPS authors

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luthersystems/esvet/options"
)

var (
	cfgFile   string
	colorFlag string
	verbose   int
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "esvet",
		Short: "esvet is a static checker for JavaScript",
		Long: `esvet reports likely mistakes and questionable constructs in JavaScript
source, in the tradition of JSHint. It understands ECMAScript 3 through
ES2020 and the common host environments.

Getting started:
  esvet lint file.js           Lint a file
  esvet lint ./...             Lint every .js, .mjs and .cjs file below .
  esvet codes W033             Explain a diagnostic code
  esvet options                List the recognized options
  esvet repl                   Lint interactively as you type
  esvet lsp                    Serve diagnostics to an editor

Configuration:
  Options are read from .esvetrc (JSON or YAML) in the working directory
  or the home directory, or from the file named by --config. Any option
  can be overridden with an ESVET_<OPTION> environment variable and, for
  the lint command, with --set name=value.

Inline directives:
  /* esvet undef:true, -W033 */   Set options or disable a warning
  /* global jQuery, $:true */     Declare globals
  // esvet ignore:line            Suppress warnings on one line`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is ./"+options.ConfigName+" or $HOME/"+options.ConfigName+")")
	root.PersistentFlags().StringVar(&colorFlag, "color", "auto",
		`Control colored output: "auto", "always", or "never".`)
	root.PersistentFlags().CountVarP(&verbose, "verbose", "v",
		"Increase logging verbosity (may be repeated).")
	_ = viper.BindPFlag("color", root.PersistentFlags().Lookup("color"))

	root.AddCommand(
		LintCommand(),
		CodesCommand(),
		OptionsCommand(),
		LSPCommand(),
		REPLCommand(),
	)
	return root
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.OnInitialize(initConfig)
	os.Exit(run(rootCmd, os.Args[1:]))
}

// run executes root with args and returns the process exit status.
func run(root *cobra.Command, args []string) int {
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return 0
	}
	var code exitCode
	if errors.As(err, &code) {
		return int(code)
	}
	fmt.Fprintf(root.ErrOrStderr(), "%s: %v\n", root.Name(), err)
	return 2
}

// exitCode ends a command with a status and no further message.
type exitCode int

func (c exitCode) Error() string {
	return fmt.Sprintf("exit status %d", int(c))
}

// initConfig binds esvet's own settings to the environment.
func initConfig() {
	viper.SetEnvPrefix(options.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// loadConfig reads the configuration named by --config, or the default
// one.
func loadConfig(cmd *cobra.Command) (*options.Config, error) {
	cfg, err := options.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if verbose > 0 && cfg.File != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "Using config file:", cfg.File)
	}
	return cfg, nil
}
