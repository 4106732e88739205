// Copyright © 2024 The ELPS authors

package hint

import (
	"fmt"

	"github.com/luthersystems/esvet/messages"
	"github.com/luthersystems/esvet/parser/token"
)

// Diagnostic is one problem found in a source file.  Diagnostics are never
// modified after they are recorded.
type Diagnostic struct {
	Class    messages.Class `json:"class" yaml:"class"`
	Code     string         `json:"code" yaml:"code"`
	Message  string         `json:"message" yaml:"message"`
	File     string         `json:"file,omitempty" yaml:"file,omitempty"`
	Line     int            `json:"line" yaml:"line"`
	Col      int            `json:"col" yaml:"col"`
	Evidence string         `json:"evidence,omitempty" yaml:"evidence,omitempty"`
	Args     []string       `json:"args,omitempty" yaml:"args,omitempty"`
}

func (d *Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s %s", d.File, d.Line, d.Col, d.Code, d.Message)
}

// FatalError is returned through the parser when linting cannot continue.
// The diagnostic describing it has already been recorded.
type FatalError struct {
	Code    string
	Line    int
	Percent int
}

func (err *FatalError) Error() string {
	return fmt.Sprintf("line %d: %s (%d%% scanned)", err.Line, err.Code, err.Percent)
}

// warn records a diagnostic located at n.
func (s *Session) warn(code string, n *Node, args ...string) {
	if n == nil {
		n = s.curr
	}
	s.warnAt(code, n.Line(), n.Col(), args...)
}

// warnTok is warn for a raw token.
func (s *Session) warnTok(code string, tok *token.Token, args ...string) {
	if tok == nil {
		s.warn(code, nil, args...)
		return
	}
	s.warnAt(code, tok.Line(), tok.Col(), args...)
}

// warnAt records a diagnostic at an explicit position.  Recording stops
// once the session is fatal.  Reaching maxerr aborts the parse.
func (s *Session) warnAt(code string, line, col int, args ...string) {
	if s.fatal != nil {
		return
	}
	if messages.ClassOf(code) == messages.Warning {
		if s.funct != nil && s.funct.ignored.Bool(code) {
			return
		}
		if s.ignoredLines[line] {
			return
		}
	}
	s.append(code, line, col, args...)
	if len(s.diags) >= s.funct.options.MaxErr() {
		s.abort("E043", line)
	}
}

func (s *Session) append(code string, line, col int, args ...string) *Diagnostic {
	d := &Diagnostic{
		Class:    messages.ClassOf(code),
		Code:     code,
		Message:  messages.Format(code, args...),
		File:     s.cfg.File,
		Line:     line,
		Col:      col,
		Evidence: s.evidence(line),
		Args:     args,
	}
	s.diags = append(s.diags, d)
	if s.cfg.Events != nil && s.cfg.Events.Diagnostic != nil {
		s.cfg.Events.Diagnostic(d)
	}
	return d
}

// abort records the synthetic diagnostic that ends the parse and freezes
// the collector.
func (s *Session) abort(code string, line int) {
	if s.fatal != nil {
		return
	}
	pct := s.percent(line)
	args := []string{fmt.Sprint(pct)}
	if code == "E080" {
		args = []string{fmt.Sprint(s.funct.options.MaxNesting()), fmt.Sprint(pct)}
	}
	s.append(code, line, 0, args...)
	s.fatal = &FatalError{Code: code, Line: line, Percent: pct}
}

// quit aborts the parse with an unrecoverable syntax error at n.
func (s *Session) quit(code string, n *Node, args ...string) error {
	if s.fatal != nil {
		return s.fatal
	}
	if n == nil {
		n = s.curr
	}
	if code != "E041" {
		s.warn(code, n, args...)
		if s.fatal != nil {
			return s.fatal
		}
	}
	s.abort("E041", n.Line())
	return s.fatal
}

func (s *Session) percent(line int) int {
	if len(s.lines) == 0 {
		return 100
	}
	p := line * 100 / len(s.lines)
	if p > 100 {
		p = 100
	}
	return p
}

func (s *Session) evidence(line int) string {
	if line < 1 || line > len(s.lines) {
		return ""
	}
	return s.lines[line-1]
}

// ignoreLine suppresses warnings on line, including those already
// recorded.
func (s *Session) ignoreLine(line int) {
	s.ignoredLines[line] = true
	kept := s.diags[:0]
	for _, d := range s.diags {
		if d.Line == line && d.Class == messages.Warning {
			continue
		}
		kept = append(kept, d)
	}
	s.diags = kept
}
