// Copyright © 2024 The ELPS authors

package repl

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/luthersystems/esvet/diagnostic"
	"github.com/luthersystems/esvet/hint"
	"github.com/luthersystems/esvet/lint"
	"github.com/luthersystems/esvet/messages"
	"github.com/luthersystems/esvet/options"
	"github.com/luthersystems/esvet/parser/lexer"
	"github.com/luthersystems/esvet/parser/token"
)

var commandPattern = regexp.MustCompile(`^\.[a-z]+\b`)

// commands maps each shell command to its help text.
var commands = map[string]string{
	".exit":    "leave the shell",
	".global":  "predefine globals: .global name[:true] ...",
	".help":    "list commands",
	".options": "show the options in effect",
	".reset":   "forget the source entered so far",
	".set":     "set an option: .set name[=value]",
	".source":  "print the source entered so far",
}

// Session is the state of an interactive linting shell.  Source entered
// into a session accumulates.  Each complete input is linted together with
// what came before, and only diagnostics not shown earlier are reported.
// Input introducing an error is reported and then dropped.
type Session struct {
	Options  *options.Set
	Globals  options.Globals
	Renderer *diagnostic.Renderer

	out     io.Writer
	source  []string
	pending []string
	seen    map[string]bool
	done    bool
}

// NewSession returns a session writing its reports to w.  The options and
// globals of cfg, if any, apply to everything linted.
func NewSession(w io.Writer, cfg *options.Config) *Session {
	s := &Session{
		Options:  options.New(nil),
		Globals:  make(options.Globals),
		Renderer: &diagnostic.Renderer{Color: diagnostic.ColorAuto},
		out:      w,
		seen:     make(map[string]bool),
	}
	if cfg != nil {
		if cfg.Options != nil {
			s.Options = cfg.Options
		}
		s.Globals.Merge(cfg.Globals)
	}
	return s
}

// Done reports whether the session was ended with .exit.
func (s *Session) Done() bool {
	return s.done
}

// Pending reports whether an incomplete input is waiting for more lines.
func (s *Session) Pending() bool {
	return len(s.pending) > 0
}

// Source returns the accepted source.
func (s *Session) Source() string {
	return strings.Join(s.source, "\n")
}

// Feed handles one line of input.  It returns true when the input so far
// is incomplete and more lines are needed.
func (s *Session) Feed(line string) bool {
	line = strings.TrimRight(line, "\r\n")
	if len(s.pending) == 0 {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			return false
		}
		if commandPattern.MatchString(trimmed) {
			s.command(trimmed)
			return false
		}
	}
	s.pending = append(s.pending, line)
	if incomplete(strings.Join(s.pending, "\n")) {
		return true
	}
	s.eval()
	return false
}

// Cancel discards an incomplete input.
func (s *Session) Cancel() {
	s.pending = nil
}

// Flush lints an incomplete input as it stands.
func (s *Session) Flush() {
	if len(s.pending) > 0 {
		s.eval()
	}
}

func (s *Session) eval() {
	chunk := s.pending
	s.pending = nil
	src := append(append([]string(nil), s.source...), chunk...)
	res := hint.Lint([]byte(strings.Join(src, "\n")+"\n"), hint.Config{
		File:    lint.StdinName,
		Options: s.Options,
		Globals: s.Globals,
	})

	var fresh []*hint.Diagnostic
	rejected := false
	for _, d := range res.Diagnostics {
		if s.seen[d.String()] {
			continue
		}
		if d.Class == messages.Error && d.Line > len(s.source) {
			rejected = true
		}
		fresh = append(fresh, d)
	}
	s.report(fresh)
	if rejected {
		s.printf("input dropped\n")
		return
	}
	s.source = src
	for _, d := range fresh {
		s.seen[d.String()] = true
	}
}

func (s *Session) report(ds []*hint.Diagnostic) {
	if len(ds) == 0 {
		return
	}
	out := make([]diagnostic.Diagnostic, len(ds))
	for i, d := range ds {
		out[i] = lint.ToDiagnostic(d)
	}
	_ = s.Renderer.RenderAll(s.out, out)
}

func (s *Session) command(line string) {
	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]
	switch name {
	case ".exit":
		s.done = true
	case ".help":
		names := make([]string, 0, len(commands))
		for c := range commands {
			names = append(names, c)
		}
		sort.Strings(names)
		for _, c := range names {
			s.printf("%-9s %s\n", c, commands[c])
		}
	case ".reset":
		s.source = nil
		s.pending = nil
		s.seen = make(map[string]bool)
	case ".source":
		for i, l := range s.source {
			s.printf("%3d  %s\n", i+1, l)
		}
	case ".options":
		for _, n := range s.Options.Names() {
			s.printf("%s = %v\n", n, s.Options.Flatten()[n])
		}
	case ".set":
		s.set(args)
	case ".global":
		s.global(args)
	default:
		s.printf("unknown command %s (try .help)\n", name)
	}
}

func (s *Session) set(args []string) {
	if len(args) == 0 {
		s.printf("usage: .set name[=value]\n")
		return
	}
	for _, arg := range args {
		key, raw, _ := strings.Cut(arg, "=")
		name, val, err := options.Parse(key, raw)
		if err != nil {
			s.printf("%v\n", err)
			continue
		}
		s.Options = s.Options.With(name, val)
		s.printf("%s = %v\n", name, val)
	}
}

func (s *Session) global(args []string) {
	if len(args) == 0 {
		names := make([]string, 0, len(s.Globals))
		for n := range s.Globals {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			s.printf("%s:%t\n", n, s.Globals[n])
		}
		return
	}
	for _, arg := range args {
		name, val, _ := strings.Cut(strings.TrimSuffix(arg, ","), ":")
		if strings.HasPrefix(name, "-") {
			delete(s.Globals, name[1:])
			continue
		}
		s.Globals[name] = val == "true"
	}
}

func (s *Session) printf(format string, v ...interface{}) {
	fmt.Fprintf(s.out, format, v...) //nolint:errcheck // best-effort REPL output
}

// incomplete reports whether src ends inside an open bracket, template
// literal or block comment.
func incomplete(src string) bool {
	lex := lexer.New(token.NewScanner(lint.StdinName, []byte(src)))
	depth := 0
	for {
		tok := lex.ReadToken()
		for _, err := range tok.Errs {
			if err.Code == "E017" {
				return true
			}
		}
		switch tok.Type {
		case token.EOF:
			return depth > 0
		case token.ERROR:
			return false
		case token.TEMPLATE:
			depth++
		case token.TEMPLATE_TAIL, token.NO_SUBST_TEMPLATE:
			if tok.Flags.Has(token.Unclosed) {
				return true
			}
			if tok.Type == token.TEMPLATE_TAIL {
				depth--
			}
		case token.PUNCT:
			switch tok.Text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				depth--
			}
		}
	}
}
