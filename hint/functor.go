// Copyright © 2024 The ELPS authors

package hint

import (
	"github.com/luthersystems/esvet/options"
)

// Metrics are the size and complexity measurements of one function.
type Metrics struct {
	Statements int `json:"statements" yaml:"statements"`
	Complexity int `json:"complexity" yaml:"complexity"`
	Parameters int `json:"parameters" yaml:"parameters"`
	Depth      int `json:"depth" yaml:"depth"`
}

// Functor is the lexical context of one function body.  The global
// context is the root functor.
type Functor struct {
	Name     string   `json:"name" yaml:"name"`
	Params   []string `json:"params,omitempty" yaml:"params,omitempty"`
	Line     int      `json:"line" yaml:"line"`
	Col      int      `json:"col" yaml:"col"`
	LastLine int      `json:"lastLine" yaml:"lastLine"`
	LastCol  int      `json:"lastCol" yaml:"lastCol"`
	Metrics  Metrics  `json:"metrics" yaml:"metrics"`

	parent *Functor
	// options and ignored are overlays derived from the parent's; the
	// parent's sets are never modified.
	options *options.Set
	ignored *options.Set

	isStrict  bool
	global    bool
	generator bool
	arrow     bool
	async     bool
	method    bool
	// classMethod is set for methods defined in a class body, which may
	// call super.
	classMethod bool
	statement   bool
	// breakage counts the enclosing constructs a break may leave and
	// loopage the enclosing loops.
	breakage int
	loopage  int
	yielded  bool
	// verb is the last statement keyword parsed, used for reachability.
	verb string

	nestedBlockDepth int
	simpleParams     bool
}

func newGlobalFunctor(opts *options.Set) *Functor {
	return &Functor{
		Name:         "(global)",
		options:      opts,
		ignored:      options.New(nil),
		global:       true,
		simpleParams: true,
		Metrics:      Metrics{Complexity: 1},

		nestedBlockDepth: -1,
	}
}

// newFunctor derives a function context from parent.
func newFunctor(parent *Functor, name string) *Functor {
	return &Functor{
		Name:         name,
		parent:       parent,
		options:      parent.options.Derive(nil),
		ignored:      parent.ignored.Derive(nil),
		simpleParams: true,
		Metrics:      Metrics{Complexity: 1},

		nestedBlockDepth: -1,
	}
}

// Parent returns the enclosing function context.
func (f *Functor) Parent() *Functor {
	return f.parent
}

// IsGlobal reports whether f is the root context.
func (f *Functor) IsGlobal() bool {
	return f.global
}

// IsGenerator reports whether f is a generator function.
func (f *Functor) IsGenerator() bool {
	return f.generator
}

// IsArrow reports whether f is an arrow function.
func (f *Functor) IsArrow() bool {
	return f.arrow
}

// setOption overlays a single option value on f.
func (f *Functor) setOption(name string, v interface{}) {
	f.options = f.options.With(name, v)
}

// closure returns the nearest enclosing context that binds this, which
// skips arrow functions.
func (f *Functor) closure() *Functor {
	for f != nil && f.arrow {
		f = f.parent
	}
	return f
}
