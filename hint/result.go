// Copyright © 2024 The ELPS authors

package hint

import (
	"sort"

	"github.com/luthersystems/esvet/analysis"
)

// Evaluated is a string passed to a form of eval.  It is reported, not
// linted.
type Evaluated struct {
	Kind   string `json:"kind" yaml:"kind"`
	Source string `json:"source" yaml:"source"`
	Line   int    `json:"line" yaml:"line"`
	Col    int    `json:"col" yaml:"col"`
}

// Result is the outcome of linting one source text.
type Result struct {
	OK          bool               `json:"ok" yaml:"ok"`
	File        string             `json:"file,omitempty" yaml:"file,omitempty"`
	Diagnostics []*Diagnostic      `json:"diagnostics" yaml:"diagnostics"`
	Functions   []*Functor         `json:"functions,omitempty" yaml:"functions,omitempty"`
	Globals     []string           `json:"globals,omitempty" yaml:"globals,omitempty"`
	UsedGlobals []string           `json:"usedGlobals,omitempty" yaml:"usedGlobals,omitempty"`
	Implied     []analysis.Implied `json:"implied,omitempty" yaml:"implied,omitempty"`
	Unused      []analysis.Unused  `json:"unused,omitempty" yaml:"unused,omitempty"`
	Member      map[string]int     `json:"member,omitempty" yaml:"member,omitempty"`
	Evaluated   []Evaluated        `json:"evaluated,omitempty" yaml:"evaluated,omitempty"`
	Exported    []string           `json:"exported,omitempty" yaml:"exported,omitempty"`
	Lines       int                `json:"lines" yaml:"lines"`
	// Fatal is set when linting stopped early.  The diagnostic describing
	// it is the last element of Diagnostics.
	Fatal *FatalError `json:"fatal,omitempty" yaml:"fatal,omitempty"`
}

// Aborted reports whether linting stopped before the end of the source.
func (r *Result) Aborted() bool {
	return r.Fatal != nil
}

// Codes returns the codes of the diagnostics in order.
func (r *Result) Codes() []string {
	codes := make([]string, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		codes[i] = d.Code
	}
	return codes
}

// Members returns the accessed member names, most frequent first.
func (r *Result) Members() []string {
	names := make([]string, 0, len(r.Member))
	for name := range r.Member {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ci, cj := r.Member[names[i]], r.Member[names[j]]
		if ci != cj {
			return ci > cj
		}
		return names[i] < names[j]
	})
	return names
}

func (s *Session) result() *Result {
	r := &Result{
		OK:          len(s.diags) == 0,
		File:        s.cfg.File,
		Diagnostics: s.diags,
		Functions:   s.functions,
		Member:      s.member,
		Evaluated:   s.evaluated,
		Lines:       len(s.lines),
		Fatal:       s.fatal,
	}
	if s.fatal == nil {
		r.Globals = s.scope.DefinedGlobals()
		r.UsedGlobals = s.scope.UsedGlobals()
		r.Implied = s.scope.Implied()
		r.Unused = s.scope.Unused()
		r.Exported = s.scope.Exported()
	}
	return r
}
