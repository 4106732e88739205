// Copyright © 2024 The ELPS authors

// Package lint drives the linter core over source files.
//
// The linter is modeled after go vet: a Runner lints each file in its own
// hint.Session and collects the per-file results into a Report.  Files are
// independent, so the Runner lints them concurrently up to a configurable
// limit.  The framework handles reading, tracing, ordering results, and
// formatting output.
package lint

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/luthersystems/esvet/hint"
	"github.com/luthersystems/esvet/options"
)

// TracerName names the tracer used when Runner.Tracer is nil.
const TracerName = "esvet"

// StdinName is the file name reported for source read from stdin.
const StdinName = "<stdin>"

// Runner lints source files.
type Runner struct {
	// Options are the options every file starts with.
	Options *options.Set

	// Globals are predefined in every file in addition to the builtins and
	// the environments enabled by Options.
	Globals options.Globals

	// Jobs bounds the number of files linted at once.  Zero means
	// runtime.GOMAXPROCS(0).
	Jobs int

	// ReadFile reads source files.  If nil, os.ReadFile is used.
	ReadFile func(string) ([]byte, error)

	// Tracer receives one span per linted file.  If nil, the tracer of the
	// global provider is used.
	Tracer trace.Tracer
}

// NewRunner returns a Runner configured from a loaded configuration.
func NewRunner(cfg *options.Config) *Runner {
	r := &Runner{}
	if cfg != nil {
		r.Options = cfg.Options
		r.Globals = cfg.Globals
	}
	return r
}

// Report is the outcome of linting a set of files.
type Report struct {
	// Files holds one result per linted file, in argument order.
	Files []*hint.Result `json:"files" yaml:"files"`
}

// Diagnostics returns the diagnostics of every file in order.
func (r *Report) Diagnostics() []*hint.Diagnostic {
	var all []*hint.Diagnostic
	for _, f := range r.Files {
		all = append(all, f.Diagnostics...)
	}
	return all
}

// Count returns the number of diagnostics reported.
func (r *Report) Count() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Diagnostics)
	}
	return n
}

// ExitCode returns the process exit status for the report: 0 when no
// problems were found and 1 otherwise.
func (r *Report) ExitCode() int {
	if r.Count() > 0 {
		return 1
	}
	return 0
}

func (r *Runner) tracer() trace.Tracer {
	if r.Tracer != nil {
		return r.Tracer
	}
	return otel.GetTracerProvider().Tracer(TracerName)
}

func (r *Runner) readFile(path string) ([]byte, error) {
	if r.ReadFile != nil {
		return r.ReadFile(path)
	}
	return os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
}

func (r *Runner) jobs() int {
	if r.Jobs > 0 {
		return r.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

// LintSource lints src, reporting diagnostics against name.
func (r *Runner) LintSource(ctx context.Context, name string, src []byte) *hint.Result {
	_, span := r.tracer().Start(ctx, "lint.file",
		trace.WithAttributes(attribute.String("file", name)))
	defer span.End()

	res := hint.Lint(src, hint.Config{
		File:    name,
		Options: r.Options,
		Globals: r.Globals,
	})
	span.SetAttributes(
		attribute.Int("diagnostics", len(res.Diagnostics)),
		attribute.Int("lines", res.Lines),
		attribute.Bool("aborted", res.Aborted()),
	)
	if res.Fatal != nil {
		span.SetStatus(codes.Error, res.Fatal.Error())
	}
	return res
}

// LintFiles reads and lints each path.  An unreadable file stops the run
// and its error is returned; diagnostics are never errors.
func (r *Runner) LintFiles(ctx context.Context, paths []string) (*Report, error) {
	ctx, span := r.tracer().Start(ctx, "lint.run",
		trace.WithAttributes(attribute.Int("files", len(paths))))
	defer span.End()

	results := make([]*hint.Result, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs())
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := r.readFile(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = r.LintSource(ctx, path, src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	rep := &Report{Files: results}
	span.SetAttributes(attribute.Int("diagnostics", rep.Count()))
	return rep, nil
}
