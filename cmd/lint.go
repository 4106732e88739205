// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/luthersystems/esvet/hint"
	"github.com/luthersystems/esvet/lint"
	"github.com/luthersystems/esvet/options"
)

type lintFlags struct {
	format    string
	json      bool
	excludes  []string
	watch     bool
	trace     bool
	summary   bool
	jobs      int
	sets      []string
	envs      []string
	maxerr    int
	esversion int
}

// LintCommand returns the "lint" command.
func LintCommand() *cobra.Command {
	f := &lintFlags{}
	cmd := &cobra.Command{
		Use:   "lint [flags] [files...]",
		Short: "Report likely mistakes in JavaScript source",
		Long: `Report likely mistakes in JavaScript source files.

With no files, or with "-", source is read from stdin.  A path ending in
"/..." lints every file below the directory whose extension is listed in
the configuration (.js, .mjs and .cjs by default).

Exit codes:
  0  No problems found
  1  One or more problems were reported
  2  Bad invocation (invalid flags, unreadable files)

Output formats:
  pretty  Source excerpts with carets, on stderr (default)
  text    file:line:col: message (code), on stdout
  json    The full report, on stdout
  yaml    The full report, on stdout

Examples:
  esvet lint app.js                          # Lint a single file
  esvet lint --exclude=vendor ./...          # Lint a tree, skipping vendor
  esvet lint --set undef --env node main.js  # Enable options for one run
  esvet lint --esversion 2018 src/...        # Target ES2018
  esvet lint --watch src/...                 # Re-lint on every save
  cat app.js | esvet lint --format text      # Lint from stdin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, f, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.format, "format", string(lint.FormatNamePretty),
		"Output format: pretty, text, json or yaml.")
	flags.BoolVar(&f.json, "json", false,
		"Shorthand for --format=json.")
	flags.StringArrayVar(&f.excludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	flags.BoolVar(&f.watch, "watch", false,
		"Re-lint when files change.")
	flags.BoolVar(&f.trace, "trace", false,
		"Print a timing span per linted file to stderr.")
	flags.BoolVar(&f.summary, "summary", false,
		"Also print implied globals and unused bindings.")
	flags.IntVarP(&f.jobs, "jobs", "j", 0,
		"Number of files linted at once (default GOMAXPROCS).")
	flags.StringArrayVar(&f.sets, "set", nil,
		"Set an option as name=value, or name for true (may be repeated).")
	flags.StringSliceVar(&f.envs, "env", nil,
		"Predefine the globals of an environment, e.g. browser,node.")
	flags.IntVar(&f.maxerr, "maxerr", 0,
		"Stop after this many diagnostics per file.")
	flags.IntVar(&f.esversion, "esversion", 0,
		"Targeted ECMAScript edition (3, 5, 6-11 or 2015-2020).")
	return cmd
}

func runLint(cmd *cobra.Command, f *lintFlags, args []string) error {
	format, err := lint.ParseFormat(f.format)
	if err != nil {
		return err
	}
	if f.json {
		format = lint.FormatNameJSON
	}
	stdin, err := readsStdin(args)
	if err != nil {
		return err
	}
	if stdin && f.watch {
		return errors.New("--watch needs file arguments")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	runner := lint.NewRunner(cfg)
	runner.Jobs = f.jobs
	runner.Options, err = f.options(cmd, cfg.Options)
	if err != nil {
		return err
	}
	if f.trace {
		tp := newTracerProvider(cmd.ErrOrStderr())
		defer shutdownTracer(tp)
		runner.Tracer = tp.Tracer(lint.TracerName)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	exclude := append(append([]string(nil), cfg.Exclude...), f.excludes...)
	lintOnce := func() (*lint.Report, error) {
		if stdin {
			src, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return nil, fmt.Errorf("reading stdin: %w", err)
			}
			res := runner.LintSource(ctx, lint.StdinName, src)
			return &lint.Report{Files: []*hint.Result{res}}, nil
		}
		paths, err := lint.Expand(args, cfg.Extensions, exclude)
		if err != nil {
			return nil, err
		}
		return runner.LintFiles(ctx, paths)
	}

	rep, err := lintOnce()
	if err != nil {
		return err
	}
	if err := f.write(cmd, format, rep); err != nil {
		return err
	}

	if f.watch {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
		w, dirs, err := newWatcher(args, exclude)
		if err != nil {
			return err
		}
		defer w.Close() //nolint:errcheck // best-effort cleanup
		fmt.Fprintf(cmd.ErrOrStderr(), "watching %d directories (interrupt to stop)\n", len(dirs))
		return watchLoop(ctx, w, cmd.ErrOrStderr(), cfg.Extensions, exclude, func() {
			rep, err := lintOnce()
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return
			}
			if err := f.write(cmd, format, rep); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
			}
		})
	}

	if code := rep.ExitCode(); code != 0 {
		return exitCode(code)
	}
	return nil
}

// readsStdin reports whether args ask for source on stdin.  "-" cannot be
// mixed with paths.
func readsStdin(args []string) (bool, error) {
	if len(args) == 0 {
		return true, nil
	}
	for _, arg := range args {
		if arg == "-" {
			if len(args) > 1 {
				return false, errors.New(`"-" cannot be combined with other paths`)
			}
			return true, nil
		}
	}
	return false, nil
}

// options derives the option set of a run from the configured set and the
// command line.
func (f *lintFlags) options(cmd *cobra.Command, base *options.Set) (*options.Set, error) {
	vals := make(map[string]interface{})
	set := func(name, raw string) error {
		name, val, err := options.Parse(name, raw)
		if err != nil {
			return err
		}
		vals[name] = val
		return nil
	}
	for _, s := range f.sets {
		name, raw, _ := strings.Cut(s, "=")
		if err := set(strings.TrimSpace(name), strings.TrimSpace(raw)); err != nil {
			return nil, fmt.Errorf("--set %s: %w", s, err)
		}
	}
	for _, env := range f.envs {
		if _, ok := options.EnvironmentGlobals(env); !ok {
			return nil, fmt.Errorf("unknown environment %q (known: %s)",
				env, strings.Join(options.Environments(), ", "))
		}
		if err := set(env, "true"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("maxerr") {
		if err := set("maxerr", strconv.Itoa(f.maxerr)); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("esversion") {
		if err := set("esversion", strconv.Itoa(f.esversion)); err != nil {
			return nil, err
		}
	}
	if len(vals) == 0 {
		return base, nil
	}
	return base.Derive(vals), nil
}

func (f *lintFlags) write(cmd *cobra.Command, format lint.Format, rep *lint.Report) error {
	var err error
	if format == lint.FormatNamePretty {
		err = lint.Write(cmd.ErrOrStderr(), format, newRenderer(), rep)
	} else {
		err = lint.Write(cmd.OutOrStdout(), format, nil, rep)
	}
	if err != nil {
		return err
	}
	if f.summary {
		return lint.FormatSummary(cmd.OutOrStdout(), rep)
	}
	return nil
}
