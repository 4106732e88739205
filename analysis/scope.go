// Copyright © 2024 The ELPS authors

package analysis

// ScopeKind classifies the kind of scope frame.
type ScopeKind int

const (
	ScopeGlobal        ScopeKind = iota // program level
	ScopeFunctionOuter                  // holds a function's own name
	ScopeParams                         // function parameters
	ScopeBlock                          // braces, including function bodies
	ScopeCatch                          // catch clause parameter
	ScopeLabel                          // labelled statement
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeFunctionOuter:
		return "functionouter"
	case ScopeParams:
		return "functionparams"
	case ScopeBlock:
		return "block"
	case ScopeCatch:
		return "catch"
	case ScopeLabel:
		return "label"
	default:
		return "unknown"
	}
}

// Scope is one frame on the scope stack.
type Scope struct {
	Kind    ScopeKind
	Parent  *Scope
	Symbols map[string]*Symbol
	Labels  map[string]*Symbol

	usages map[string]*usage
	// hoisted var bindings declared inside this block but owned by the
	// enclosing function body.
	hoisted []*Symbol
	// lastPos is the largest source offset registered in this frame.
	lastPos int
}

// NewScope creates a new scope of the given kind with the given parent.
func NewScope(kind ScopeKind, parent *Scope) *Scope {
	return &Scope{
		Kind:    kind,
		Parent:  parent,
		Symbols: make(map[string]*Symbol),
		Labels:  make(map[string]*Symbol),
		usages:  make(map[string]*usage),
	}
}

// Define adds a symbol to this scope.
func (s *Scope) Define(sym *Symbol) {
	sym.Scope = s
	s.Symbols[sym.Name] = sym
}

// Lookup resolves a symbol by walking the parent chain.
// Returns nil if the symbol is not found.
func (s *Scope) Lookup(name string) *Symbol {
	for scope := s; scope != nil; scope = scope.Parent {
		if sym, ok := scope.Symbols[name]; ok {
			return sym
		}
	}
	return nil
}

// LookupLocal resolves a symbol only in this scope (not parents).
func (s *Scope) LookupLocal(name string) *Symbol {
	return s.Symbols[name]
}

// IsFunctionBody reports whether var declarations made in s belong to s.
func (s *Scope) IsFunctionBody() bool {
	if s.Kind == ScopeGlobal {
		return true
	}
	return s.Kind == ScopeBlock && s.Parent != nil && s.Parent.Kind == ScopeParams
}

// functionBody returns the nearest frame owning var declarations.
func (s *Scope) functionBody() *Scope {
	for scope := s; scope != nil; scope = scope.Parent {
		if scope.IsFunctionBody() {
			return scope
		}
		if scope.Kind == ScopeParams {
			// Arrow functions with expression bodies have no body block.
			return scope
		}
	}
	return nil
}

func (s *Scope) touch(pos int) {
	if pos > s.lastPos {
		s.lastPos = pos
	}
}

func (s *Scope) usage(name string) *usage {
	u, ok := s.usages[name]
	if !ok {
		u = &usage{}
		s.usages[name] = u
	}
	return u
}
