// Copyright © 2024 The ELPS authors

// Package analysis tracks lexical scopes for the linter.
//
// The parser drives a Manager as it recognizes declarations and references.
// References are resolved lazily: each frame collects the names used within
// it and, when the frame is unstacked, binds them to its own declarations or
// hands them to the enclosing frame.  This mirrors hoisting, so a function
// may be referenced before the statement declaring it.  Names still
// unresolved when the global frame finishes are globals.
package analysis

import (
	"github.com/luthersystems/esvet/options"
	"github.com/luthersystems/esvet/parser/token"
)

// Host supplies the scope tracker with diagnostics and the options in effect
// at the current point of the parse.
type Host interface {
	Warn(code string, tok *token.Token, args ...string)
	Options() *options.Set
}

// Manager is the scope stack of one parsing session.
type Manager struct {
	host    Host
	root    *Scope
	current *Scope
	globals options.Globals

	exported map[string]bool
	forgiven map[*token.Token]bool
	captured []string

	stacks   int
	unstacks int
	finished bool

	unused         []Unused
	implied        []Implied
	usedGlobals    map[string]bool
	definedGlobals map[string]bool
}

// NewManager returns a Manager whose global frame predefines globals.  The
// map is copied.
func NewManager(host Host, globals options.Globals) *Manager {
	g := make(options.Globals, len(globals))
	g.Merge(globals)
	root := NewScope(ScopeGlobal, nil)
	return &Manager{
		host:           host,
		root:           root,
		current:        root,
		globals:        g,
		exported:       make(map[string]bool),
		forgiven:       make(map[*token.Token]bool),
		usedGlobals:    make(map[string]bool),
		definedGlobals: make(map[string]bool),
	}
}

// Current returns the innermost frame.
func (m *Manager) Current() *Scope {
	return m.current
}

// Depth returns the number of frames stacked above the global frame.
func (m *Manager) Depth() int {
	n := 0
	for s := m.current; s != m.root; s = s.Parent {
		n++
	}
	return n
}

// Balance returns the number of Stack and Unstack calls made so far.
func (m *Manager) Balance() (stacks, unstacks int) {
	return m.stacks, m.unstacks
}

// AddGlobal predefines a global name.
func (m *Manager) AddGlobal(name string, writable bool) {
	m.globals[name] = writable
}

// RemoveGlobal forgets a predefined global.
func (m *Manager) RemoveGlobal(name string) {
	delete(m.globals, name)
}

// IsPredefined reports whether name is a predefined global.
func (m *Manager) IsPredefined(name string) bool {
	_, ok := m.globals[name]
	return ok
}

// Has reports whether name is visible from the current frame.
func (m *Manager) Has(name string) bool {
	return m.current.Lookup(name) != nil || m.IsPredefined(name)
}

// Lookup returns the visible binding of name.
func (m *Manager) Lookup(name string) *Symbol {
	return m.current.Lookup(name)
}

// SetExported marks name as used from outside the program.
func (m *Manager) SetExported(name string, tok *token.Token) {
	m.exported[name] = true
	if sym := m.current.Lookup(name); sym != nil {
		sym.Exported = true
	}
}

// Forgive exempts the reference at tok from undefined checks, as for the
// operand of typeof.
func (m *Manager) Forgive(tok *token.Token) {
	m.forgiven[tok] = true
}

// Captured returns the mutable outer bindings referenced by the function
// whose parameter frame was most recently unstacked.
func (m *Manager) Captured() []string {
	return m.captured
}

// Unused returns bindings never referenced, in source order.
func (m *Manager) Unused() []Unused {
	return m.unused
}

// Implied returns the undeclared names used as globals.
func (m *Manager) Implied() []Implied {
	return m.implied
}

// UsedGlobals returns the predefined globals the program referenced.
func (m *Manager) UsedGlobals() []string {
	return sortedKeys(m.usedGlobals)
}

// DefinedGlobals returns the names declared in the global frame.
func (m *Manager) DefinedGlobals() []string {
	return sortedKeys(m.definedGlobals)
}

// Exported returns the names marked as exported.
func (m *Manager) Exported() []string {
	return sortedKeys(m.exported)
}
