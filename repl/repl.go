// Copyright © 2018 The ELPS authors

// Package repl implements an interactive shell that lints JavaScript as it
// is typed.
package repl

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/ergochat/readline"

	"github.com/luthersystems/esvet/diagnostic"
	"github.com/luthersystems/esvet/options"
)

// ContinuePrompt is shown while an input is incomplete.
const ContinuePrompt = "... "

type config struct {
	stdin      io.ReadCloser
	stderr     io.Writer
	options    *options.Config
	color      diagnostic.ColorMode
	history    string
	hasHistory bool
}

func newConfig(opts ...Option) *config {
	config := &config{color: diagnostic.ColorAuto}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output to the REPL.
func WithStderr(stderr io.Writer) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithConfig sets the options and globals everything is linted with.
func WithConfig(cfg *options.Config) Option {
	return func(c *config) {
		c.options = cfg
	}
}

// WithColor sets how diagnostics are colored.
func WithColor(mode diagnostic.ColorMode) Option {
	return func(c *config) {
		c.color = mode
	}
}

// WithHistoryFile overrides the history file.  An empty path disables
// history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.history = path
		c.hasHistory = true
	}
}

// Run runs the shell until its input ends or .exit is entered.
func Run(prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	out := cfg.stderr
	if out == nil {
		out = os.Stderr
	}
	history := cfg.history
	if !cfg.hasHistory {
		history = historyPath()
	}
	ensureHistoryFilePermissions(history)

	s := NewSession(out, cfg.options)
	s.Renderer.Color = cfg.color

	rlCfg := &readline.Config{
		Stdout:            out,
		Stderr:            out,
		Prompt:            prompt,
		HistoryFile:       history,
		HistorySearchFold: true,
		AutoComplete:      &completer{session: s},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return err
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	for !s.Done() {
		line, err := rl.ReadSlice()
		if errors.Is(err, readline.ErrInterrupt) {
			s.Cancel()
			rl.SetPrompt(prompt)
			continue
		}
		if err != nil {
			s.Feed(string(line))
			s.Flush()
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if s.Feed(string(line)) {
			rl.SetPrompt(ContinuePrompt)
		} else {
			rl.SetPrompt(prompt)
		}
	}
	return nil
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".esvet_history")
}

// ensureHistoryFilePermissions creates the history file if needed and
// restricts it to the owner.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o600) //nolint:gosec // path is the user's history file
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0o600)
}
