// Copyright © 2024 The ELPS authors

// Package hint is the linter core.  A Session tokenizes one source text and
// parses it with a precedence climbing expression parser, running the lint
// rules as each construct is recognized.
//
// Sessions are not shared: each call to Lint or NewSession allocates its own
// parser state, so any number of sources may be linted concurrently.  The
// symbol table and the option overlays a session starts from are immutable
// and may be shared freely.
package hint

import (
	"errors"
	"strings"

	"github.com/luthersystems/esvet/analysis"
	"github.com/luthersystems/esvet/options"
	"github.com/luthersystems/esvet/parser/directive"
	"github.com/luthersystems/esvet/parser/lexer"
	"github.com/luthersystems/esvet/parser/token"
	"github.com/luthersystems/esvet/symtab"
)

// Config holds the inputs of one linting invocation.
type Config struct {
	// File names the source in diagnostics.
	File string
	// Options are the options in effect at the start of the source.
	Options *options.Set
	// Globals are predefined in addition to the builtins and enabled
	// environments.
	Globals options.Globals
	Events  *Events
	// Table defaults to symtab.Default().
	Table *symtab.Table
}

// Session is the parser state for one linting invocation.
type Session struct {
	cfg   Config
	table *symtab.Table
	lex   *lexer.Lexer
	lines []string

	prev, curr, next *Node
	ahead            []*Node
	lastRead         *Node

	global    *Functor
	funct     *Functor
	functions []*Functor
	scope     *analysis.Manager

	// directive holds the string directives of the current function.
	directive map[string]bool
	nameStack nameStack

	inClassBody bool
	// inBlock is set while parsing an ordinary block that is not a
	// function body.
	inBlock bool
	// condition is set while parsing the test of a conditional statement.
	condition bool

	forinifcheckneeded bool
	forinifchecks      []*forinifCheck

	depth     int
	codeSeen  bool
	commaSeen bool

	diags        []*Diagnostic
	fatal        *FatalError
	ignoredLines map[int]bool
	lineChecked  int

	member    map[string]int
	evaluated []Evaluated
}

// NewSession prepares a session linting src.
func NewSession(cfg Config, src []byte) *Session {
	if cfg.Table == nil {
		cfg.Table = symtab.Default()
	}
	if cfg.Options == nil {
		cfg.Options = options.New(nil)
	}
	text := strings.ReplaceAll(string(src), "\r\n", "\n")
	s := &Session{
		cfg:          cfg,
		table:        cfg.Table,
		lex:          lexer.New(token.NewScanner(cfg.File, src)),
		lines:        strings.Split(text, "\n"),
		directive:    make(map[string]bool),
		ignoredLines: make(map[int]bool),
		member:       make(map[string]int),
	}
	s.global = newGlobalFunctor(cfg.Options)
	s.funct = s.global
	s.scope = analysis.NewManager(s, s.predefined())
	return s
}

// Lint is a convenience wrapper running a new session over src.
func Lint(src []byte, cfg Config) *Result {
	return NewSession(cfg, src).Run()
}

func (s *Session) predefined() options.Globals {
	opts := s.cfg.Options
	g := options.Predefined(opts)
	g.Merge(s.cfg.Globals)
	if raw := opts.String("globals"); raw != "" {
		if entries, err := directive.ParseEntries(raw); err == nil {
			options.ApplyGlobals(g, entries)
		}
	}
	return g
}

// Warn implements analysis.Host.
func (s *Session) Warn(code string, tok *token.Token, args ...string) {
	s.warnTok(code, tok, args...)
}

// Options implements analysis.Host.  It returns the options of the current
// function.
func (s *Session) Options() *options.Set {
	return s.funct.options
}

// Current returns the function context being parsed.
func (s *Session) Current() *Functor {
	return s.funct
}

// Global returns the root function context.
func (s *Session) Global() *Functor {
	return s.global
}

// Scope returns the scope tracker of the session.
func (s *Session) Scope() *analysis.Manager {
	return s.scope
}

// Run parses the whole source and returns the result.  Run must be called
// once.
func (s *Session) Run() *Result {
	err := s.program()
	var fatal *FatalError
	if err != nil && !errors.As(err, &fatal) {
		s.abort("E041", s.curr.Line())
	}
	if s.fatal == nil {
		s.scope.Finish()
		s.checkLines(len(s.lines))
	}
	return s.result()
}

// start reads the first token and positions the session before it.
func (s *Session) start() error {
	s.next = s.read()
	s.curr = s.newNode(&token.Token{Type: token.PUNCT, Value: "(begin)", Source: s.next.Source, End: s.next.Source})
	s.prev = s.curr
	return s.onNext()
}

func (s *Session) program() error {
	if err := s.start(); err != nil {
		return err
	}
	if s.option("module") {
		s.global.isStrict = true
	}
	if err := s.directives(); err != nil {
		return err
	}
	if s.directive["use strict"] {
		s.global.isStrict = true
	} else if s.strictMode() == "global" {
		s.warn("E007", s.next)
	}
	if _, err := s.statements(0); err != nil {
		return err
	}
	return s.advance(symtab.EndID, nil)
}

func (s *Session) option(name string) bool {
	return s.funct.options.Bool(name)
}

func (s *Session) esVersion() int {
	return s.funct.options.ESVersion()
}

func (s *Session) inES6() bool {
	return s.esVersion() >= 6
}

func (s *Session) strictMode() string {
	return s.funct.options.String("strict")
}

// isStrict reports whether the current function is strict mode code.
func (s *Session) isStrict() bool {
	return s.directive["use strict"] || s.inClassBody || s.option("module") ||
		s.strictMode() == "implied" || s.funct.isStrict
}
