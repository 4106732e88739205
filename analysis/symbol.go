// Copyright © 2024 The ELPS authors

package analysis

import (
	"github.com/luthersystems/esvet/parser/token"
)

// SymbolKind classifies a binding.
type SymbolKind int

const (
	SymVar       SymbolKind = iota // var and implicit bindings
	SymLet                         // let
	SymConst                       // const
	SymFunction                    // function declaration or own name
	SymClass                       // class declaration or own name
	SymImport                      // import binding
	SymException                   // catch parameter
	SymParameter                   // function parameter
	SymLabel                       // statement label
)

func (k SymbolKind) String() string {
	switch k {
	case SymVar:
		return "var"
	case SymLet:
		return "let"
	case SymConst:
		return "const"
	case SymFunction:
		return "function"
	case SymClass:
		return "class"
	case SymImport:
		return "import"
	case SymException:
		return "exception"
	case SymParameter:
		return "param"
	case SymLabel:
		return "label"
	default:
		return "unknown"
	}
}

// blockScoped reports whether bindings of kind k live in their block.
func (k SymbolKind) blockScoped() bool {
	switch k {
	case SymLet, SymConst, SymClass, SymImport:
		return true
	}
	return false
}

// mutable reports whether a closure capturing a binding of kind k can
// observe later changes to it.
func (k SymbolKind) mutable() bool {
	return k == SymVar || k == SymParameter
}

// DeclFlag modifies how a declaration is tracked.
type DeclFlag uint

const (
	// DeclNoUnused exempts the binding from unused checks.
	DeclNoUnused DeclFlag = 1 << iota
	// DeclBlockScoped places a function declaration in its block.
	DeclBlockScoped
)

// Symbol represents a declared name in a scope.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Token    *token.Token
	Scope    *Scope
	Used     bool
	Exported bool
	NoUnused bool

	// blockEnd is the last source offset of the block a hoisted var was
	// declared in, once that block has closed.
	blockEnd int
}

// Source returns the location of the declaration.
func (sym *Symbol) Source() *token.Location {
	if sym.Token == nil {
		return nil
	}
	return sym.Token.Source
}

func (sym *Symbol) pos() int {
	if sym.Token == nil || sym.Token.Source == nil {
		return -1
	}
	return sym.Token.Source.Pos
}
